// Package server exposes map rendering over HTTP.
//
// Routes:
//
//	POST /render      GeoJSON boundary in the body, PNG or PDF out
//	GET  /jobs/{id}   status record of a finished job
//	GET  /healthz     liveness probe
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/smapshot/pkg/cache"
	"github.com/matzehuels/smapshot/pkg/pipeline"
)

// MaxBoundaryBytes limits the request body of POST /render.
const MaxBoundaryBytes = 8 << 20

// Server serves render requests from a shared pipeline runner.
type Server struct {
	httpServer *http.Server
	runner     *pipeline.Runner
	logger     *log.Logger
	// defaults are merged into every request's options.
	defaults pipeline.Options
}

// New returns a server listening on addr.
func New(addr string, runner *pipeline.Runner, defaults pipeline.Options) *Server {
	s := &Server{
		runner:   runner,
		logger:   runner.Logger.WithPrefix("server"),
		defaults: defaults,
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Post("/render", s.handleRender)
	r.Get("/jobs/{id}", s.handleJob)
	return r
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for running ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// JobRecord is stored for every render request and served by /jobs/{id}.
type JobRecord struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Status    string        `json:"status"`
	Error     string        `json:"error,omitempty"`
	Format    string        `json:"format"`
	Bytes     int           `json:"bytes,omitempty"`
	Roads     int           `json:"roads,omitempty"`
	Labels    int           `json:"labels,omitempty"`
	Cached    bool          `json:"cached"`
	Duration  time.Duration `json:"duration_ns"`
	CreatedAt time.Time     `json:"created_at"`
}

// Job statuses.
const (
	StatusDone   = "done"
	StatusFailed = "failed"
)

func (s *Server) saveJob(ctx context.Context, rec JobRecord) {
	data, err := json.Marshal(rec)
	if err != nil {
		s.logger.Warn("encode job record", "err", err)
		return
	}
	if err := s.runner.Cache.Set(ctx, s.runner.Keyer.JobKey(rec.ID), data, cache.JobTTL); err != nil {
		s.logger.Warn("store job record", "id", rec.ID, "err", err)
	}
}

// loadJob returns the stored record of id, or cache.ErrCacheMiss.
func (s *Server) loadJob(ctx context.Context, id string) (*JobRecord, error) {
	data, err := cache.Lookup(ctx, s.runner.Cache, s.runner.Keyer.JobKey(id))
	if err != nil {
		return nil, err
	}
	var rec JobRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", id, err)
	}
	return &rec, nil
}
