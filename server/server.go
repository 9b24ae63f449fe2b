package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/transit-query-resolver/gazetteer"
)

// Server is the HTTP front for the resolution engine.
type Server struct {
	http   *http.Server
	logger *zap.Logger
}

// New wires the API routes around an engine and returns a server ready
// to Start on the given port.
func New(port int, res Resolver, idx *gazetteer.Index, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &handler{resolver: res, idx: idx, logger: logger}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))
	r.Get("/api/health", h.handleHealth)
	r.Post("/api/resolve", h.handleResolve)

	return &Server{
		http: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger: logger,
	}
}

// Start begins serving in the background.
func (s *Server) Start() {
	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("server error", zap.Error(err))
		}
	}()
	s.logger.Info("server listening", zap.String("addr", s.http.Addr))
}

// HandleGracefulShutdown blocks until SIGINT or SIGTERM, then drains
// in-flight requests for up to ten seconds.
func (s *Server) HandleGracefulShutdown() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	s.logger.Info("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.http.Shutdown(ctx); err != nil {
		s.logger.Warn("server shutdown error", zap.Error(err))
		return
	}
	s.logger.Info("server shut down")
}
