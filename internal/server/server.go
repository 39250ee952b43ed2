package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/seoscan/seoscan/internal/model"
	"github.com/seoscan/seoscan/internal/pipeline"
	"github.com/seoscan/seoscan/internal/target"
)

// Runner executes one analysis. *pipeline.Analyzer satisfies it.
type Runner interface {
	Run(ctx context.Context, req model.AnalysisRequest) (*pipeline.Result, error)
}

// RecordReader retrieves stored analyses. *database.AnalysisDB
// satisfies it.
type RecordReader interface {
	GetAnalysis(ctx context.Context, id string) (*model.AnalysisRecord, error)
	GetFindings(ctx context.Context, analysisID string) ([]model.Finding, error)
}

// Server is the HTTP API over the analysis pipeline.
type Server struct {
	runner Runner
	reader RecordReader
	logger *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithServerLogger sets the server's logger.
func WithServerLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a Server over the given runner and record reader.
func New(runner Runner, reader RecordReader, opts ...Option) *Server {
	s := &Server{
		runner: runner,
		reader: reader,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Routes returns the chi router with all endpoints mounted.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyses", s.handleAnalyze)
		r.Get("/analyses/{id}", s.handleGetAnalysis)
	})

	return r
}

// analysisEnvelope is the response body for analysis endpoints.
type analysisEnvelope struct {
	Success  bool             `json:"success"`
	Analysis *analysisPayload `json:"analysis,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// analysisPayload is the record plus its findings.
type analysisPayload struct {
	*model.AnalysisRecord
	Findings []model.Finding `json:"findings"`
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAnalyze runs the pipeline for a submitted request.
//
// Validation failures map to 400, persistence failures to 500; stage
// degradation never reaches this layer as an error.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req model.AnalysisRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, analysisEnvelope{Error: "malformed request body"})
		return
	}

	result, err := s.runner.Run(r.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		if isValidationError(err) {
			status = http.StatusBadRequest
		} else {
			s.logger.Error("analysis failed", "domain", req.Domain, "err", err)
		}
		writeJSON(w, status, analysisEnvelope{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, analysisEnvelope{
		Success: true,
		Analysis: &analysisPayload{
			AnalysisRecord: result.Record,
			Findings:       result.Findings,
		},
	})
}

// handleGetAnalysis retrieves a stored analysis by id.
func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := s.reader.GetAnalysis(r.Context(), id)
	if err != nil {
		s.logger.Error("analysis lookup failed", "id", id, "err", err)
		writeJSON(w, http.StatusInternalServerError, analysisEnvelope{Error: "lookup failed"})
		return
	}
	if record == nil {
		writeJSON(w, http.StatusNotFound, analysisEnvelope{Error: "analysis not found"})
		return
	}

	findings, err := s.reader.GetFindings(r.Context(), id)
	if err != nil {
		// The record alone is still useful.
		s.logger.Warn("findings lookup failed", "id", id, "err", err)
	}

	writeJSON(w, http.StatusOK, analysisEnvelope{
		Success: true,
		Analysis: &analysisPayload{
			AnalysisRecord: record,
			Findings:       findings,
		},
	})
}

// isValidationError reports whether the pipeline rejected the input
// rather than failing internally.
func isValidationError(err error) bool {
	return errors.Is(err, pipeline.ErrEmptyRequesterID) ||
		errors.Is(err, target.ErrEmptyDomain) ||
		errors.Is(err, target.ErrInvalidDomain)
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
