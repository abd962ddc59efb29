// Package api provides the HTTP REST API server for finbrief.
//
// It exposes endpoints for market snapshots, fundamentals, and news
// briefs, each walking a comma-separated ticker list and reshaping
// Finnhub responses into a compact JSON contract.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/finbrief/finbrief/internal/config"
	"github.com/finbrief/finbrief/internal/finnhub"
	"github.com/finbrief/finbrief/internal/market"
)

// ServiceName identifies this service in health responses.
const ServiceName = "finbrief"

// Server is the HTTP API server.
type Server struct {
	router   chi.Router
	cfg      *config.Config
	fin      *finnhub.Client
	earnings market.EarningsResolver
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config) *Server {
	client := finnhub.NewClient(
		cfg.Finnhub.BaseURL,
		cfg.Finnhub.APIKey,
		time.Duration(cfg.Finnhub.TimeoutSec)*time.Second,
	)

	srv := &Server{
		cfg:      cfg,
		fin:      client,
		earnings: market.EarningsResolver{Client: client},
	}
	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
// No write timeout is set: a snapshot over many tickers performs one
// upstream call per ticker in sequence and may legitimately run long.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:        addr,
		Handler:     s.router,
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()
	log.Info().Str("addr", addr).Msg("HTTP server listening")

	<-done
	log.Info().Msg("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware. No request timeout
// middleware is installed; the per-call deadline lives in the Finnhub
// client.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	// CORS
	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/", s.handleHealth)
	r.Get("/health", s.handleHealth)

	// Briefs
	r.Get("/get_market_snapshot", s.handleMarketSnapshot)
	r.Get("/get_fundamentals", s.handleFundamentals)
	r.Get("/get_news_brief", s.handleNewsBrief)

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
