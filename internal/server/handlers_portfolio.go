package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/portfolio-generator/internal/types"
)

// decodePortfolio reads and validates a portfolio payload.
func (s *Server) decodePortfolio(r *http.Request) (*types.PortfolioData, error) {
	var data types.PortfolioData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		return nil, &ErrValidation{Field: "body", Message: "invalid JSON payload"}
	}
	if err := data.Validate(); err != nil {
		return nil, &ErrValidation{Field: "portfolioData", Message: err.Error()}
	}
	return &data, nil
}

// handleSavePortfolio stores a new portfolio payload.
func (s *Server) handleSavePortfolio(w http.ResponseWriter, r *http.Request) {
	data, err := s.decodePortfolio(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	filename, err := s.store.Save(data)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string]string{"filename": filename})
}

// handleListPortfolios lists stored portfolio summaries.
func (s *Server) handleListPortfolios(w http.ResponseWriter, _ *http.Request) {
	summaries, err := s.store.List()
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"portfolios": summaries,
		"count":      len(summaries),
	})
}

// handleGetPortfolio returns one stored portfolio by filename.
func (s *Server) handleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	data, err := s.store.Get(r.PathValue("name"))
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, data)
}

// handleUpdatePortfolio overwrites a stored portfolio.
func (s *Server) handleUpdatePortfolio(w http.ResponseWriter, r *http.Request) {
	data, err := s.decodePortfolio(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	filename := r.PathValue("name")
	if err := s.store.Update(filename, data); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"filename": filename})
}

// handleDeletePortfolio removes a stored portfolio.
func (s *Server) handleDeletePortfolio(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.PathValue("name")); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleDuplicatePortfolio copies a stored portfolio under a new name.
func (s *Server) handleDuplicatePortfolio(w http.ResponseWriter, r *http.Request) {
	filename, err := s.store.Duplicate(r.PathValue("name"))
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string]string{"filename": filename})
}

// handleSearchPortfolios searches stored portfolios by substring.
func (s *Server) handleSearchPortfolios(w http.ResponseWriter, r *http.Request) {
	query := r.PathValue("query")
	if query == "" {
		s.errorResponse(w, http.StatusBadRequest, "search query is required")
		return
	}

	matches, err := s.store.Search(query)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"results": matches,
		"count":   len(matches),
	})
}
