// internal/api/server.go
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rag-search/internal/common/logger"
	"rag-search/internal/models"
	"rag-search/pkg/registry"
)

const (
	RequestIDHeader = "X-Request-ID"
	maxBodyBytes    = 1 << 20
)

// Answerer runs the retrieval pipeline for one query.
type Answerer interface {
	Answer(ctx context.Context, query string) (*models.AnswerResponse, error)
}

// Server exposes POST /query plus the operational endpoints.
type Server struct {
	answerer Answerer
	registry *registry.ActivityRegistry
	logger   logger.Logger
	ready    atomic.Bool
	mux      *http.ServeMux
}

func NewServer(answerer Answerer, reg *registry.ActivityRegistry, log logger.Logger) *Server {
	s := &Server{
		answerer: answerer,
		registry: reg,
		logger:   log.With(map[string]interface{}{"component": "api"}),
		mux:      http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /query", s.handleQuery)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /ready", s.handleReady)
	s.mux.Handle("GET /metrics", promhttp.Handler())
}

// SetReady flips the /ready probe.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

func (s *Server) Handler() http.Handler {
	return s.withRequestLogging(s.mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if !s.ready.Load() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"time":   time.Now().Format(time.RFC3339),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
