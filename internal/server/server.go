// Package server implements the BenchRay HTTP API.
//
// The API exposes stored scenes and their rendered artifacts:
//
//	GET    /healthz                    liveness probe
//	GET    /scenes                     list stored scenes (metadata only)
//	POST   /scenes                     create a scene
//	GET    /scenes/{id}                fetch a scene document
//	PUT    /scenes/{id}                replace a scene document
//	DELETE /scenes/{id}                delete a scene
//	GET    /scenes/{id}/render        render a scene (?format=svg|dot|png)
//
// Every render runs the full load → propagate → render pipeline, so the
// returned artifact always reflects a consistent aperture state regardless
// of what the stored document contains.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/benchray/benchray/pkg/observability"
	"github.com/benchray/benchray/pkg/pipeline"
	"github.com/benchray/benchray/pkg/store"
)

// Server wires the scene store and the pipeline runner behind a chi router.
type Server struct {
	store  store.Store
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
}

// New creates a server around the given store and runner.
func New(st store.Store, runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		store:  st,
		runner: runner,
		logger: logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/scenes", func(r chi.Router) {
		r.Get("/", s.handleListScenes)
		r.Post("/", s.handleCreateScene)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetScene)
			r.Put("/", s.handlePutScene)
			r.Delete("/", s.handleDeleteScene)
			r.Get("/render", s.handleRenderScene)
		})
	})

	return r
}

// observe emits request/response events to the registered HTTP hooks and
// logs each completed request.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(req.Context(), req.Method, req.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)

		duration := time.Since(start)
		observability.HTTP().OnResponse(req.Context(), req.Method, req.URL.Path, ww.Status(), duration)
		s.logger.Debug("request",
			"method", req.Method,
			"path", req.URL.Path,
			"status", ww.Status(),
			"duration", duration)
	})
}

// ListenAndServe runs the server until the context is canceled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
