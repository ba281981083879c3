package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pb33f/harscope/config"
	"github.com/pb33f/harscope/motor"
	"github.com/pb33f/harscope/render"
)

// Server exposes a loaded capture set over HTTP.
type Server struct {
	set     *motor.CaptureSet
	cfg     *config.Config
	palette render.Palette
	logger  *slog.Logger
	router  chi.Router
}

// New builds the router for a capture set.
func New(set *motor.CaptureSet, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if set == nil {
		return nil, errors.New("capture set is nil")
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	palette, err := render.NewPalette(cfg.Palette)
	if err != nil {
		return nil, fmt.Errorf("invalid palette: %w", err)
	}

	s := &Server{
		set:     set,
		cfg:     cfg,
		palette: palette,
		logger:  logger,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logging)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(s.etag)
		r.Get("/captures", s.listCaptures)
		r.Get("/tables/{name}", s.getTable)
		r.Route("/captures/{id}", func(r chi.Router) {
			r.Get("/layout", s.getLayout)
			r.Get("/metrics", s.getMetrics)
			r.Get("/entries/{entry}/tooltip", s.getTooltip)
			r.Get("/waterfall.png", s.getWaterfallPNG)
			r.Get("/phases.png", s.getPhaseChart)
		})
	})

	return r
}

// ServeHTTP makes the server usable with httptest and any http.Server.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr, "captures", len(s.set.Captures), "file_hash", s.set.FileHash)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// etag tags every api response with the capture set fingerprint; the data
// never changes while the server runs.
func (s *Server) etag(next http.Handler) http.Handler {
	tag := strconv.Quote(s.set.FileHash)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", tag)
		if match := r.Header.Get("If-None-Match"); match != "" && match == tag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
