// Package lifecycle shuts the server down once the browser tab stops pinging it.
package lifecycle

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Heartbeat records the last ping from the UI.
type Heartbeat struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

// NewHeartbeat starts the clock at creation, so a page that never loads still
// counts as a missed heartbeat.
func NewHeartbeat() *Heartbeat {
	return newHeartbeat(time.Now)
}

func newHeartbeat(now func() time.Time) *Heartbeat {
	return &Heartbeat{last: now(), now: now}
}

func (h *Heartbeat) Beat() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = h.now()
}

// Last returns the time of the most recent ping.
func (h *Heartbeat) Last() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}

// Expired reports whether more than timeout has passed since the last ping.
func (h *Heartbeat) Expired(timeout time.Duration) bool {
	return h.now().Sub(h.Last()) > timeout
}

// Watchdog polls a Heartbeat and fires once when it expires.
type Watchdog struct {
	heartbeat *Heartbeat
	interval  time.Duration
	timeout   time.Duration
	logger    *zap.Logger
}

// NewWatchdog creates a watchdog. A non-positive timeout disables it.
func NewWatchdog(heartbeat *Heartbeat, interval, timeout time.Duration, logger *zap.Logger) *Watchdog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watchdog{heartbeat: heartbeat, interval: interval, timeout: timeout, logger: logger}
}

// Run checks the heartbeat every interval until ctx ends. onExpire is called at
// most once, after which Run returns.
func (w *Watchdog) Run(ctx context.Context, onExpire func()) {
	if w.timeout <= 0 || w.interval <= 0 {
		return
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if w.heartbeat.Expired(w.timeout) {
				w.logger.Warn("no browser heartbeat, shutting down",
					zap.Duration("timeout", w.timeout),
					zap.Time("last", w.heartbeat.Last()),
				)
				onExpire()
				return
			}
		}
	}
}
