package api

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/coder/websocket"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/riftscout/internal/livegame"
	"github.com/riftscout/internal/view"
)

// ClockMessage is pushed to clock stream clients on every tick.
type ClockMessage struct {
	Type     string `json:"type"`
	StreamID string `json:"streamId"`
	Elapsed  int64  `json:"elapsed"`
	Clock    string `json:"clock"`
	Start    int64  `json:"start"`
	Length   int64  `json:"length"`
}

// clockUpdate is sent by clients to switch the stream to another match.
type clockUpdate struct {
	Start  int64 `json:"start"`
	Length int64 `json:"length"`
}

func parseClockParams(q url.Values) (livegame.ClockParams, bool) {
	var p livegame.ClockParams
	var err error
	if s := q.Get("start"); s != "" {
		if p.StartTime, err = strconv.ParseInt(s, 10, 64); err != nil {
			return p, false
		}
	}
	if s := q.Get("length"); s != "" {
		if p.InitialLength, err = strconv.ParseInt(s, 10, 64); err != nil {
			return p, false
		}
	}
	return p, true
}

// ClockStream upgrades to a websocket and pushes the elapsed game time on
// every tick. A client message {"start":..,"length":..} replaces the
// parameters; closing the connection stops the clock.
func (s *Server) ClockStream(w http.ResponseWriter, r *http.Request) {
	params, ok := parseClockParams(r.URL.Query())
	if !ok {
		http.Error(w, "start and length must be integers", http.StatusBadRequest)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		return
	}
	defer conn.CloseNow()

	streamID := uuid.NewString()
	log := s.log.With("stream_id", streamID)
	log.Debugw("clock stream opened", "start", params.StartTime, "length", params.InitialLength)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Only the latest value matters; a slow client skips ticks.
	out := make(chan ClockMessage, 1)
	push := func(seconds int64, p livegame.ClockParams) {
		msg := ClockMessage{
			Type:     "clock",
			StreamID: streamID,
			Elapsed:  seconds,
			Clock:    view.FormatClock(seconds),
			Start:    p.StartTime,
			Length:   p.InitialLength,
		}
		for {
			select {
			case out <- msg:
				return
			default:
			}
			select {
			case <-out:
			default:
			}
		}
	}

	clock := livegame.NewClock(push, livegame.WithInterval(s.clockInterval), livegame.WithNow(s.now))
	s.track(streamID, clock)
	clock.Start(ctx, params)

	// Reader
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		defer cancel()
		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				return
			}
			var upd clockUpdate
			if err := json.Unmarshal(data, &upd); err != nil {
				log.Debugw("ignoring bad clock update", "error", err)
				continue
			}
			clock.Start(ctx, livegame.ClockParams{StartTime: upd.Start, InitialLength: upd.Length})
		}
	}()

	// The reader is the only other caller of Start, so the clock is stopped
	// after it exits.
	defer func() {
		cancel()
		<-readerDone
		clock.Stop()
		s.untrack(streamID)
		log.Debug("clock stream closed")
	}()

	// Writer
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-out:
			payload, err := json.Marshal(msg)
			if err != nil {
				log.Errorw("encode clock message", "error", err)
				return
			}
			wctx, wcancel := context.WithTimeout(ctx, 3*time.Second)
			err = conn.Write(wctx, websocket.MessageText, payload)
			wcancel()
			if err != nil {
				return
			}
		}
	}
}

// StreamInfo describes an open clock stream.
type StreamInfo struct {
	ID      string `json:"id"`
	Start   int64  `json:"start"`
	Length  int64  `json:"length"`
	Running bool   `json:"running"`
}

func (s *Server) track(id string, c *livegame.Clock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.streams[id] = c
}

func (s *Server) untrack(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.streams, id)
}

// Streams lists the open clock streams ordered by id. Running is false for
// a stream whose start time is unknown, since nothing ticks.
func (s *Server) Streams() []StreamInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]StreamInfo, 0, len(s.streams))
	for id, c := range s.streams {
		p := c.Params()
		out = append(out, StreamInfo{ID: id, Start: p.StartTime, Length: p.InitialLength, Running: c.Running()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ClockStreams serves the open clock streams.
func (s *Server) ClockStreams(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Streams())
}
