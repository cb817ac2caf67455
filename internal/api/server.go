// Package api exposes the REST boundary: message sending and gateway
// introspection over HTTP.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sglre6355/relaybot/internal/gateway"
	"github.com/sglre6355/relaybot/internal/payload"
)

// Sender delivers validated messages; implemented by the outbound pipeline.
type Sender interface {
	Send(ctx context.Context, channelID string, msg *payload.Message) (string, error)
}

// Browser provides read-only gateway introspection; implemented by the
// gateway session.
type Browser interface {
	Guilds(ctx context.Context) ([]gateway.GuildInfo, error)
	Channels(ctx context.Context, guildID string) ([]gateway.ChannelInfo, error)
}

// Config holds REST boundary configuration.
type Config struct {
	Addr string
	// Token is the bearer token required on every API route.
	Token string
	// DefaultChannelID is the injected target channel for POST /send.
	DefaultChannelID string
}

// Server is the HTTP server for the REST boundary.
type Server struct {
	cfg        Config
	sender     Sender
	browser    Browser
	router     chi.Router
	httpServer *http.Server
}

// NewServer creates a Server with its routes configured.
func NewServer(cfg Config, sender Sender, browser Browser) *Server {
	s := &Server{
		cfg:     cfg,
		sender:  sender,
		browser: browser,
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Group(func(r chi.Router) {
		r.Use(requireBearer(s.cfg.Token))
		r.Post("/send", s.handleSend)
		r.Get("/guilds", s.handleGuilds)
		r.Get("/channels/{guildID}", s.handleChannels)
	})

	return r
}

// Router returns the configured router; exposed for tests.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured address and blocks until the
// server stops.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	slog.Info("api server listening", "addr", s.cfg.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
