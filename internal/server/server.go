// Package server exposes the recommendation engine over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/scentlab/scentmatch/internal/config"
	"github.com/scentlab/scentmatch/internal/history"
	"github.com/scentlab/scentmatch/internal/images"
	"github.com/scentlab/scentmatch/internal/search"
	"github.com/scentlab/scentmatch/internal/translate"
	"github.com/scentlab/scentmatch/internal/weather"
)

// Server wires the engine, its collaborators and the HTTP routes.
type Server struct {
	cfg        *config.Config
	provider   *search.Provider
	weather    *weather.Client
	translator *translate.Translator
	history    *history.Store
	images     *images.Resolver
	logger     *slog.Logger

	http *http.Server
}

// New assembles the server. History is optional: when disabled in config
// the store is nil and recording is skipped.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var hist *history.Store
	if cfg.History.Enabled {
		var err error
		hist, err = history.Open(cfg.History.Path)
		if err != nil {
			return nil, err
		}
	}

	s := &Server{
		cfg:      cfg,
		provider: search.NewProvider(cfg, logger),
		weather: weather.NewClient(weather.Config{
			APIKey:  cfg.Weather.APIKey,
			BaseURL: cfg.Weather.BaseURL,
			Lang:    cfg.Weather.Lang,
			Timeout: time.Duration(cfg.Weather.TimeoutSeconds) * time.Second,
		}),
		translator: translate.New(translate.Config{
			Enabled:  cfg.Translate.Enabled,
			Endpoint: cfg.Translate.Endpoint,
			Timeout:  time.Duration(cfg.Translate.TimeoutSeconds) * time.Second,
		}, logger),
		history: hist,
		images:  images.NewResolver(cfg.Catalog.PictureDir),
		logger:  logger,
	}

	s.http = &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// routes builds the chi router.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/recommend", s.handleRecommend)
		r.Post("/weather", s.handleWeather)
		r.Get("/history/recent", s.handleHistoryRecent)
		r.Get("/history/picks", s.handleHistoryPicks)
		r.Get("/note-img/{name}", s.handleNoteImage)
	})

	return r
}

// logRequests emits one structured log line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info("http_request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())))
	})
}

// Warm builds the engine ahead of the first request.
func (s *Server) Warm(ctx context.Context) error {
	_, err := s.provider.Get(ctx)
	return err
}

// ListenAndServe runs the HTTP server until Shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("server_listening", slog.String("addr", s.http.Addr))
	return s.http.ListenAndServe()
}

// Shutdown gracefully stops the server and closes the history store.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	if s.history != nil {
		_ = s.history.Close()
	}
	return err
}

// Handler exposes the routes for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}
