// Package api exposes the live game payload, its assembled view and a
// websocket game clock over HTTP.
package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/riftscout/internal/livegame"
	"github.com/riftscout/internal/logging"
	"github.com/riftscout/internal/services/riot"
	"github.com/riftscout/internal/services/scout"
)

// LiveGameService resolves players and builds live game payloads.
type LiveGameService interface {
	Account(ctx context.Context, lookup scout.Lookup) (*riot.AccountResponse, error)
	ActiveGame(ctx context.Context, lookup scout.Lookup) (*scout.LiveStatus, error)
	LiveGame(ctx context.Context, lookup scout.Lookup) (*livegame.Payload, error)
}

// Server holds the handler dependencies.
type Server struct {
	svc           LiveGameService
	log           *zap.SugaredLogger
	now           func() time.Time
	clockInterval time.Duration

	mu      sync.Mutex
	streams map[string]*livegame.Clock
}

// Option configures a Server.
type Option func(*Server)

// WithNow overrides the wall clock.
func WithNow(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithClockInterval overrides the clock stream cadence.
func WithClockInterval(d time.Duration) Option {
	return func(s *Server) { s.clockInterval = d }
}

// NewServer creates the API server.
func NewServer(svc LiveGameService, log *zap.SugaredLogger, opts ...Option) *Server {
	s := &Server{
		svc:           svc,
		log:           logging.OrNop(log),
		now:           time.Now,
		clockInterval: time.Second,
		streams:       make(map[string]*livegame.Clock),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", Healthz)
	r.Route("/api", func(r chi.Router) {
		r.Get("/account", s.Account)
		r.Get("/live-game", s.LiveGame)
		r.Get("/live-game-history", s.LiveGameHistory)
		r.Get("/live-game-view", s.LiveGameView)
		r.Get("/clock-streams", s.ClockStreams)
	})
	r.Get("/ws/clock", s.ClockStream)
	return r
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
