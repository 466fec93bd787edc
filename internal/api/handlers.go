package api

import (
	"context"
	"errors"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/riftscout/internal/services/riot"
	"github.com/riftscout/internal/services/scout"
	"github.com/riftscout/internal/view"
)

func lookupFrom(r *http.Request) scout.Lookup {
	q := r.URL.Query()
	return scout.Lookup{
		Name:     q.Get("name"),
		Tag:      q.Get("tag"),
		Routing:  q.Get("routing"),
		Platform: q.Get("platform"),
	}
}

// Account serves the Riot account behind a Riot ID.
func (s *Server) Account(w http.ResponseWriter, r *http.Request) {
	account, err := s.svc.Account(r.Context(), lookupFrom(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// LiveGame serves the spectator record of the player's match as Riot
// returns it.
func (s *Server) LiveGame(w http.ResponseWriter, r *http.Request) {
	status, err := s.svc.ActiveGame(r.Context(), lookupFrom(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// LiveGameHistory serves the raw live game payload.
func (s *Server) LiveGameHistory(w http.ResponseWriter, r *http.Request) {
	payload, err := s.svc.LiveGame(r.Context(), lookupFrom(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

// LiveGameView serves the assembled view of the live game.
func (s *Server) LiveGameView(w http.ResponseWriter, r *http.Request) {
	payload, err := s.svc.LiveGame(r.Context(), lookupFrom(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	g, err := view.Build(payload, s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// statusFor maps service errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, scout.ErrInvalidLookup):
		return http.StatusBadRequest
	case errors.Is(err, riot.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, riot.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, riot.ErrForbidden):
		return http.StatusBadGateway
	}
	var apiErr *riot.APIError
	if errors.As(err, &apiErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Errorw("request failed", "path", r.URL.Path, "status", status, "error", err)
	} else {
		s.log.Infow("request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, struct {
		Error string `json:"error"`
	}{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
