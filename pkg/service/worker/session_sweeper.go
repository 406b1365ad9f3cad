package worker

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/secmon-lab/testgenie/pkg/domain/interfaces"
	"github.com/secmon-lab/testgenie/pkg/utils/logging"
)

var activeSessions = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "testgenie_active_sessions",
	Help: "Number of sessions held in memory.",
})

func init() {
	prometheus.MustRegister(activeSessions)
}

// SessionSweeper removes sessions idle for longer than the TTL
//
// Sessions are held in process memory only, so a single instance owns all of
// them and no distributed locking is needed.
type SessionSweeper struct {
	sessions interfaces.SessionRepository
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// SweeperOption configures a SessionSweeper
type SweeperOption func(*SessionSweeper)

// WithSweeperClock replaces the clock used to compute the idle cutoff
func WithSweeperClock(now func() time.Time) SweeperOption {
	return func(w *SessionSweeper) {
		w.now = now
	}
}

// NewSessionSweeper creates a new worker expiring idle sessions
func NewSessionSweeper(sessions interfaces.SessionRepository, ttl, interval time.Duration, opts ...SweeperOption) *SessionSweeper {
	w := &SessionSweeper{
		sessions: sessions,
		ttl:      ttl,
		interval: interval,
		now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins the background sweep loop without blocking
func (w *SessionSweeper) Start(ctx context.Context) error {
	if w.ttl <= 0 || w.interval <= 0 {
		return goerr.New("session TTL and sweep interval must be positive",
			goerr.V("ttl", w.ttl), goerr.V("interval", w.interval))
	}

	logging.Default().Info("Session sweeper starting",
		"ttl", w.ttl.String(),
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *SessionSweeper) Stop() {
	logging.Default().Info("Session sweeper stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("Session sweeper stopped")
}

func (w *SessionSweeper) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := w.Sweep(ctx); err != nil {
				logging.Default().Error("Session sweep failed (will retry next interval)",
					"error", err.Error())
			}

		case <-w.stopCh:
			return

		case <-ctx.Done():
			logging.Default().Info("Session sweeper context cancelled")
			return
		}
	}
}

// Sweep performs a single expiry cycle and returns the number of removed
// sessions
func (w *SessionSweeper) Sweep(ctx context.Context) (int, error) {
	cutoff := w.now().Add(-w.ttl)

	removed, err := w.sessions.DeleteIdle(ctx, cutoff)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to delete idle sessions", goerr.V("cutoff", cutoff))
	}

	remaining, err := w.sessions.Count(ctx)
	if err != nil {
		return removed, goerr.Wrap(err, "failed to count sessions")
	}
	activeSessions.Set(float64(remaining))

	if removed > 0 {
		logging.Default().Info("Idle sessions expired",
			"removed", removed,
			"remaining", remaining)
	}

	return removed, nil
}
