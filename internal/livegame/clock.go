package livegame

import (
	"context"
	"sync"
	"time"
)

// Elapsed returns the match clock in seconds.
//
// startTime is the server's epoch-millisecond start; 0 means unknown and
// initialLength (the server-reported static length) is returned. A
// non-positive difference, e.g. from clock skew, also falls back to
// initialLength.
func Elapsed(now time.Time, startTime, initialLength int64) int64 {
	if startTime == 0 {
		return initialLength
	}
	if d := (now.UnixMilli() - startTime) / 1000; d > 0 {
		return d
	}
	return initialLength
}

// ClockParams are the inputs a Clock derives elapsed time from.
type ClockParams struct {
	StartTime     int64
	InitialLength int64
}

// ClockOption configures a Clock.
type ClockOption func(*Clock)

// WithInterval overrides the one second refresh interval.
func WithInterval(d time.Duration) ClockOption {
	return func(c *Clock) { c.interval = d }
}

// WithNow overrides the wall clock sampled at each tick.
func WithNow(now func() time.Time) ClockOption {
	return func(c *Clock) { c.now = now }
}

// Clock re-derives the elapsed match time on a fixed cadence and hands it
// to a callback. At most one task runs per Clock: Start replaces the
// running task and Stop tears it down, both waiting for the old task to
// exit before returning. The callback runs on the task goroutine and must
// not call back into the Clock.
type Clock struct {
	interval time.Duration
	now      func() time.Time
	onTick   func(seconds int64, params ClockParams)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	params ClockParams
}

// NewClock creates a stopped clock that reports to onTick.
func NewClock(onTick func(seconds int64, params ClockParams), opts ...ClockOption) *Clock {
	c := &Clock{
		interval: time.Second,
		now:      time.Now,
		onTick:   onTick,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start cancels any running task and begins a new one for params. The
// current value is reported immediately. When StartTime is unknown no
// task is scheduled since the value cannot change.
func (c *Clock) Start(ctx context.Context, params ClockParams) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
	c.params = params

	c.onTick(Elapsed(c.now(), params.StartTime, params.InitialLength), params)
	if params.StartTime == 0 {
		return
	}

	taskCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.cancel = cancel
	c.done = done

	go c.run(taskCtx, params, done)
}

// Stop cancels the running task, if any, and waits for it to exit.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

// Params returns the parameters of the most recent Start.
func (c *Clock) Params() ClockParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params
}

// Running reports whether a task is live.
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done == nil {
		return false
	}
	select {
	case <-c.done:
		return false
	default:
		return true
	}
}

func (c *Clock) stopLocked() {
	if c.cancel == nil {
		return
	}
	c.cancel()
	<-c.done
	c.cancel = nil
	c.done = nil
}

func (c *Clock) run(ctx context.Context, params ClockParams, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// a tick and a cancel can be ready together; cancel wins
			if ctx.Err() != nil {
				return
			}
			c.onTick(Elapsed(c.now(), params.StartTime, params.InitialLength), params)
		}
	}
}
