// Package server exposes the audit pipeline over HTTP: a blocking
// analysis endpoint, a Server-Sent-Events streaming endpoint, health, and
// metrics.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/lucidity-ai/lucidity/internal/pipeline"
	"github.com/lucidity-ai/lucidity/internal/ratelimit"
	"github.com/lucidity-ai/lucidity/pkg/logger"
	"github.com/lucidity-ai/lucidity/pkg/middleware/requestid"
	serverconfig "github.com/lucidity-ai/lucidity/pkg/server/config"
)

var tracer = otel.Tracer("github.com/lucidity-ai/lucidity/pkg/server")

const (
	routeAudits = "audits"
	routeStream = "audits-stream"
)

// Dependencies are the collaborators the server is constructed with.
type Dependencies struct {
	Pipeline *pipeline.Pipeline
	Limiter  ratelimit.Limiter
	Logger   logger.Logger
}

// A Server serves the decision-audit HTTP API.
type Server struct {
	pipeline *pipeline.Pipeline
	limiter  ratelimit.Limiter
	logger   logger.Logger
	config   *serverconfig.Config
}

// New creates a Server from its dependencies. The pipeline and limiter
// are constructed by the caller so tests can substitute fakes.
func New(deps *Dependencies, cfg *serverconfig.Config) *Server {
	return &Server{
		pipeline: deps.Pipeline,
		limiter:  deps.Limiter,
		logger:   deps.Logger,
		config:   cfg,
	}
}

// Handler returns the fully wired HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/audits", s.handleAudit)
	mux.HandleFunc("POST /v1/audits/stream", s.handleAuditStream)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	c := cors.New(cors.Options{
		AllowedOrigins: s.config.HTTP.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return requestid.NewMiddleware(c.Handler(mux))
}

type auditRequest struct {
	Content string `json:"content"`
	Mode    string `json:"mode"`
}

type errorResponse struct {
	Message string `json:"message"`
}

type rateLimitResponse struct {
	Message   string `json:"message"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
	Reset     int64  `json:"reset"`
}

// clientIdentity derives the rate-limit identity from the peer address.
func clientIdentity(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// checkRateLimit admits or rejects the request. On rejection it writes
// the 429 response with limit, remaining and reset fields and returns
// false; the pipeline is never entered.
func (s *Server) checkRateLimit(w http.ResponseWriter, r *http.Request, route string) bool {
	decision := s.limiter.Allow(clientIdentity(r), route)

	w.Header().Set("X-Ratelimit-Limit", strconv.Itoa(decision.Limit))
	w.Header().Set("X-Ratelimit-Remaining", strconv.Itoa(decision.Remaining))
	w.Header().Set("X-Ratelimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

	if decision.Allowed {
		return true
	}

	writeJSON(w, http.StatusTooManyRequests, rateLimitResponse{
		Message:   "rate limit exceeded",
		Limit:     decision.Limit,
		Remaining: decision.Remaining,
		Reset:     decision.ResetAt.Unix(),
	})
	return false
}

func parseMode(raw string) (pipeline.Mode, error) {
	switch raw {
	case "", string(pipeline.ModePersist):
		return pipeline.ModePersist, nil
	case string(pipeline.ModeSimulate):
		return pipeline.ModeSimulate, nil
	}
	return "", fmt.Errorf("mode must be %q or %q", pipeline.ModePersist, pipeline.ModeSimulate)
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "handleAudit")
	defer span.End()

	if !s.checkRateLimit(w, r, routeAudits) {
		return
	}

	var req auditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "request body is not valid JSON"})
		return
	}
	mode, err := parseMode(req.Mode)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
		return
	}

	report, err := s.pipeline.Run(ctx, req.Content, mode)
	if err != nil {
		s.writePipelineError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleAuditStream(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "handleAuditStream")
	defer span.End()

	if !s.checkRateLimit(w, r, routeStream) {
		return
	}

	var req auditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "request body is not valid JSON"})
		return
	}
	mode, err := parseMode(req.Mode)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "streaming unsupported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// the request context cancels the run when the client disconnects
	for ev := range s.pipeline.Stream(ctx, req.Content, mode) {
		payload, err := json.Marshal(ev)
		if err != nil {
			s.logger.ErrorWithContext(ctx, "failed to encode progress event", zap.Error(err))
			continue
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			return
		}
		flusher.Flush()
	}
}

// writePipelineError maps pipeline errors onto status codes. Stage
// failures never reach here; they degrade the report instead.
func (s *Server) writePipelineError(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, pipeline.ErrEmptyDocument), errors.Is(err, pipeline.ErrDocumentTooLarge):
		status = http.StatusBadRequest
	case errors.Is(err, pipeline.ErrCancelled):
		// client went away; the status is moot
		status = 499
	default:
		s.logger.ErrorWithContext(ctx, "audit failed", zap.Error(err))
	}
	writeJSON(w, status, errorResponse{Message: err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
