package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/portfolio-generator/internal/generation"
	"github.com/jonathan/portfolio-generator/internal/llm"
	"github.com/jonathan/portfolio-generator/internal/server/ratelimit"
	"github.com/jonathan/portfolio-generator/internal/store"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	service     *generation.Service
	store       *store.Store
	rateLimiter *ratelimit.Limiter
	outputDir   string
	startedAt   time.Time
}

// Config holds server configuration
type Config struct {
	Port       int
	DataDir    string
	OutputDir  string
	LLMTimeout time.Duration
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	portfolioStore, err := store.New(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize portfolio store: %w", err)
	}

	s := &Server{
		service:   generation.NewService(llm.NewRegistry(), cfg.OutputDir, cfg.LLMTimeout),
		store:     portfolioStore,
		outputDir: cfg.OutputDir,
		startedAt: time.Now(),
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	mux := http.NewServeMux()

	// Generation endpoints
	mux.HandleFunc("POST /api/generate", s.handleGenerate)
	mux.HandleFunc("POST /api/generate/stream", s.handleGenerateStream)
	mux.HandleFunc("POST /api/generate/preview", s.handlePreview)
	mux.HandleFunc("GET /api/generate/providers", s.handleListProviders)
	mux.HandleFunc("GET /api/generate/providers/{id}/status", s.handleProviderStatus)
	mux.HandleFunc("POST /api/generate/estimate-cost", s.handleEstimateCost)
	mux.HandleFunc("POST /api/generate/recommendations", s.handleRecommendations)
	mux.HandleFunc("GET /api/generate/history", s.handleListHistory)
	mux.HandleFunc("POST /api/generate/history/{id}/regenerate", s.handleRegenerate)
	mux.HandleFunc("POST /api/generate/cache/clear", s.handleCacheClear)
	mux.HandleFunc("GET /api/generate/cache/stats", s.handleCacheStats)
	mux.HandleFunc("GET /api/generate/styles", s.handleListStyles)
	mux.HandleFunc("GET /api/generate/download/{filename}", s.handleDownload)

	// Portfolio data endpoints
	mux.HandleFunc("POST /api/portfolio", s.handleSavePortfolio)
	mux.HandleFunc("GET /api/portfolio", s.handleListPortfolios)
	mux.HandleFunc("GET /api/portfolio/{name}", s.handleGetPortfolio)
	mux.HandleFunc("PUT /api/portfolio/{name}", s.handleUpdatePortfolio)
	mux.HandleFunc("DELETE /api/portfolio/{name}", s.handleDeletePortfolio)
	mux.HandleFunc("POST /api/portfolio/{name}/duplicate", s.handleDuplicatePortfolio)
	mux.HandleFunc("GET /api/portfolio/search/{query}", s.handleSearchPortfolios)

	// GitHub import is not implemented; the route is reserved.
	mux.HandleFunc("GET /api/github/{username}", s.handleGithubStub)

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/info", s.handleInfo)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for generation runs
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start begins listening for requests
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	s.service.Close()

	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)
		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)

		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"providers": len(s.service.Registry().Order()),
		"uptime":    time.Since(s.startedAt).String(),
	})
}

// handleInfo describes the service and its route surface
func (s *Server) handleInfo(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"name":        "portfolio-generator",
		"description": "AI-powered portfolio generation service",
		"endpoints": []string{
			"POST /api/generate",
			"POST /api/generate/stream",
			"POST /api/generate/preview",
			"GET /api/generate/providers",
			"GET /api/generate/styles",
			"GET /api/generate/history",
			"POST /api/portfolio",
			"GET /api/portfolio",
			"GET /api/health",
		},
	})
}

func (s *Server) handleGithubStub(w http.ResponseWriter, _ *http.Request) {
	s.errorResponse(w, http.StatusNotImplemented, "GitHub import is not implemented")
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// Uses the IP address from RemoteAddr; X-Forwarded-For is deliberately
// ignored because the service fronts no trusted proxy.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
