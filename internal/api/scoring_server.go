package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/qualys/dspm/internal/auth"
	"github.com/qualys/dspm/internal/config"
	"github.com/qualys/dspm/internal/core"
	dspmerrors "github.com/qualys/dspm/internal/errors"
	"github.com/qualys/dspm/internal/pipeline"
)

// ScoringServer exposes score_text/score_file/score_from_adapters over
// HTTP. It is deliberately separate from Server: that type carries the
// teacher's full cloud-inventory CRUD surface (accounts, rules,
// scheduler, reports, notifications), none of which a classification
// scoring endpoint needs. ScoringServer wires only what the pipeline
// itself requires.
type ScoringServer struct {
	cfg      *config.Config
	router   *chi.Mux
	pipeline *pipeline.Pipeline
	logger   *slog.Logger
	auth     *auth.Service // nil disables authentication
	http     *http.Server
}

// ScoringServerOption configures a ScoringServer.
type ScoringServerOption func(*ScoringServer)

// WithScoringAuth requires a valid bearer token on every request.
func WithScoringAuth(svc *auth.Service) ScoringServerOption {
	return func(s *ScoringServer) { s.auth = svc }
}

// WithScoringLogger overrides the default slog logger.
func WithScoringLogger(logger *slog.Logger) ScoringServerOption {
	return func(s *ScoringServer) { s.logger = logger }
}

// NewScoringServer builds a ScoringServer around an already-constructed pipeline.
func NewScoringServer(cfg *config.Config, p *pipeline.Pipeline, opts ...ScoringServerOption) *ScoringServer {
	s := &ScoringServer{
		cfg:      cfg,
		router:   chi.NewRouter(),
		pipeline: p,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Route("/v1", func(r chi.Router) {
		if s.auth != nil {
			r.Use(s.auth.Middleware)
		}
		r.Post("/score_text", s.handleScoreText)
		r.Post("/score_file", s.handleScoreFile)
	})
	s.router.Get("/healthz", s.handleHealthz)

	s.http = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return s
}

// Run starts the HTTP server and blocks until ctx is cancelled.
func (s *ScoringServer) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("scoring server listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *ScoringServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// apiResponse is the envelope every endpoint responds with, matching
// the teacher's api.Server response shape.
type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	})
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiResponse{
		Success: false,
		Error:   &apiError{Code: code, Message: message},
	})
}

type scoreTextRequest struct {
	Text     string `json:"text"`
	Exposure string `json:"exposure,omitempty"`
}

func (s *ScoringServer) handleScoreText(w http.ResponseWriter, r *http.Request) {
	var req scoreTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	result, err := s.pipeline.ScoreText(req.Text, core.Exposure(req.Exposure))
	if err != nil {
		s.respondPipelineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

type scoreFileRequest struct {
	Path     string `json:"path"`
	Exposure string `json:"exposure,omitempty"`
}

func (s *ScoringServer) handleScoreFile(w http.ResponseWriter, r *http.Request) {
	var req scoreFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	result, err := s.pipeline.ScoreFile(req.Path, nil, core.Exposure(req.Exposure))
	if err != nil {
		s.respondPipelineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// respondPipelineError maps a pipeline error's Kind to an HTTP status,
// following the propagation policy's "caller decides what to do with
// it" stance: the HTTP layer is one caller, and it decides via status code.
func (s *ScoringServer) respondPipelineError(w http.ResponseWriter, err error) {
	kind, ok := dspmerrors.As(err)
	if !ok {
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	switch kind {
	case dspmerrors.InvalidInput:
		respondError(w, http.StatusBadRequest, string(kind), err.Error())
	case dspmerrors.UnsupportedPlatform:
		respondError(w, http.StatusUnprocessableEntity, string(kind), err.Error())
	case dspmerrors.QueueFull, dspmerrors.ResourceUnavailable:
		respondError(w, http.StatusServiceUnavailable, string(kind), err.Error())
	case dspmerrors.DetectorTimeout:
		respondError(w, http.StatusGatewayTimeout, string(kind), err.Error())
	default:
		respondError(w, http.StatusInternalServerError, string(kind), err.Error())
	}
}
