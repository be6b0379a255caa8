package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/ekisa-team/narrate/internal/config"
	"github.com/ekisa-team/narrate/internal/service"
)

// Version is reported in the OpenAPI document.
var Version = "1.0.0"

// NewAPI registers every operation on api.
func NewAPI(api huma.API, converter *service.Converter, cfg *config.Config) {
	NewIndexHandler(api, converter)
	NewVoicesHandler(api, converter)
	NewTTSHandler(api, converter, cfg.Server.MaxBodyBytes)
}

// NewRouter builds the chi router serving the huma API.
func NewRouter(converter *service.Converter, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)

	NewAPI(humachi.New(r, APIConfig()), converter, cfg)

	return r
}

// APIConfig returns the huma configuration shared by every router.
func APIConfig() huma.Config {
	humaConfig := huma.DefaultConfig("Text-to-Speech API", Version)
	// Keep response bodies free of the $schema link.
	humaConfig.CreateHooks = nil
	return humaConfig
}

// Server represents an HTTP server.
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
}

// NewServer returns a server listening on all interfaces at the configured port.
func NewServer(cfg *config.Config, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           handler,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout(),
		},
		shutdownTimeout: cfg.ShutdownTimeout(),
	}
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("HTTP server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		slog.Info("Shutting down HTTP server", "timeout", s.shutdownTimeout)
		return s.httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// accessLog logs one line per request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			slog.Info("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
				"remote", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func reflectType[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
