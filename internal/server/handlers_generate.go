package server

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jonathan/portfolio-generator/internal/generation"
	"github.com/jonathan/portfolio-generator/internal/llm"
	"github.com/jonathan/portfolio-generator/internal/templates"
	"github.com/jonathan/portfolio-generator/internal/types"
)

// generateRequest parses the generation options shared by the JSON and SSE
// endpoints. Options arrive as query parameters; the body is the form data.
func (s *Server) generateRequest(r *http.Request) (*generation.Request, error) {
	var data types.PortfolioData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		return nil, &ErrValidation{Field: "body", Message: "invalid JSON payload"}
	}
	if err := data.Validate(); err != nil {
		return nil, &ErrValidation{Field: "portfolioData", Message: err.Error()}
	}

	q := r.URL.Query()
	req := &generation.Request{
		Data:     &data,
		Provider: llm.Provider(q.Get("provider")),
		Style:    q.Get("style"),
		Model:    q.Get("model"),
	}
	if req.Style == "" {
		req.Style = templates.DefaultStyle
	}
	if raw := q.Get("temperature"); raw != "" {
		t, err := strconv.ParseFloat(raw, 64)
		if err != nil || t < 0 || t > 2 {
			return nil, &ErrValidation{Field: "temperature", Message: "must be a number between 0 and 2"}
		}
		req.Temperature = t
	}
	if raw := q.Get("maxTokens"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, &ErrValidation{Field: "maxTokens", Message: "must be a positive integer"}
		}
		req.MaxTokens = n
	}
	return req, nil
}

// handleGenerate runs one generation synchronously and returns the bundle.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	req, err := s.generateRequest(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	resp, err := s.service.Generate(r.Context(), req)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleGenerateStream runs one generation, streaming progress as SSE frames
// and finishing with a complete or error event.
func (s *Server) handleGenerateStream(w http.ResponseWriter, r *http.Request) {
	req, err := s.generateRequest(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	req.Progress = func(event generation.ProgressEvent) {
		sse.WriteEvent("progress", event) //nolint:errcheck
	}

	resp, err := s.service.Generate(r.Context(), req)
	if err != nil {
		sse.WriteError(err.Error())
		return
	}
	sse.WriteEvent("complete", resp) //nolint:errcheck
}

// previewData is the fixed sample payload rendered by the preview endpoint.
func previewData() *types.PortfolioData {
	return &types.PortfolioData{
		PersonalInfo: types.PersonalInfo{
			Name:     "John Doe",
			Email:    "john@example.com",
			Location: "San Francisco, CA",
		},
		AboutMe: "Passionate developer with experience in modern web technologies.",
		Projects: []types.Project{{
			Name:         "Sample Project",
			Description:  "A showcase project demonstrating modern development practices.",
			Technologies: []string{"React", "TypeScript", "Node.js"},
			GithubURL:    "https://github.com/example/project",
		}},
		Education: []types.Education{{
			Degree:      "Bachelor of Science",
			Field:       "Computer Science",
			Institution: "University of Technology",
			StartYear:   "2018",
			EndYear:     "2022",
		}},
		SocialLinks: types.SocialLinks{
			Github:   "https://github.com/johndoe",
			Linkedin: "https://linkedin.com/in/johndoe",
		},
	}
}

// handlePreview compiles the requested style against sample data so a client
// can inspect the look before paying for a generation. No vendor is called;
// the enhanced fields are synthesized locally. An unknown or missing style
// renders as minimal.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Style string `json:"style"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && err != io.EOF {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	style := templates.ResolveStyle(body.Style)

	data := previewData()
	out, err := templates.Compile(style, &templates.Data{
		PortfolioData: *data,
		Enhanced:      *llm.FallbackContent(data),
		CurrentYear:   time.Now().Year(),
		Style:         style,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{
		"html":  out.HTML,
		"css":   out.CSS,
		"style": style,
	})
}

// handleListProviders returns every configured provider.
func (s *Server) handleListProviders(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"providers": s.service.Registry().List(),
	})
}

// handleProviderStatus returns one provider's config and current rate limit
// consumption.
func (s *Server) handleProviderStatus(w http.ResponseWriter, r *http.Request) {
	id := llm.Provider(r.PathValue("id"))
	status, err := s.service.Registry().Status(id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"provider":  status,
		"rateLimit": s.service.Limiter().SnapshotFor(string(id)),
	})
}

type estimateCostRequest struct {
	Data      types.PortfolioData `json:"data"`
	Provider  string              `json:"provider"`
	Model     string              `json:"model"`
	MaxTokens int                 `json:"maxTokens"`
}

// handleEstimateCost prices a request against a provider's published rates
// without touching any vendor.
func (s *Server) handleEstimateCost(w http.ResponseWriter, r *http.Request) {
	var req estimateCostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.Provider == "" {
		s.errorResponse(w, http.StatusBadRequest, "provider is required")
		return
	}

	cfg, err := s.service.Registry().Config(llm.Provider(req.Provider))
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, generation.EstimateCost(&req.Data, cfg, req.Model, req.MaxTokens))
}

// handleRecommendations ranks the configured providers for the payload.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	var data types.PortfolioData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"recommendations": generation.Recommend(&data, s.service.Registry()),
	})
}

// handleListHistory returns recent generations, newest first.
func (s *Server) handleListHistory(w http.ResponseWriter, _ *http.Request) {
	records := s.service.History().List()
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"history": records,
		"count":   len(records),
	})
}

// handleRegenerate replays a recorded generation with optional overrides.
func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	q := r.URL.Query()
	overrides := &generation.Request{
		Provider: llm.Provider(q.Get("provider")),
		Style:    q.Get("style"),
		Model:    q.Get("model"),
	}

	resp, err := s.service.Regenerate(r.Context(), id, overrides)
	if err != nil {
		if _, ok := s.service.History().Get(id); !ok {
			notFound := &ErrRecordNotFound{ID: id}
			s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
			return
		}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleCacheClear drops every cached bundle.
func (s *Server) handleCacheClear(w http.ResponseWriter, _ *http.Request) {
	s.service.Cache().Clear()
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// handleCacheStats returns cache hit/miss counters.
func (s *Server) handleCacheStats(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.service.Cache().Stats())
}

// handleListStyles returns the available template styles.
func (s *Server) handleListStyles(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"styles": templates.Styles(),
	})
}

// handleDownload serves a previously generated archive.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("filename")
	if filename == "" || filename != filepath.Base(filename) || filepath.Ext(filename) != ".zip" {
		s.errorResponse(w, http.StatusBadRequest, "invalid archive name")
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(filename))
	http.ServeFile(w, r, filepath.Join(s.outputDir, filename))
}
