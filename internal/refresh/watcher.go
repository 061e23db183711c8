// Package refresh re-reads the habit store on a fixed interval so that views
// pick up changes written by other processes.
package refresh

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/julianstephens/habitual/internal/logger"
)

// Poller re-reads a store and reports whether it changed
type Poller interface {
	Poll() (bool, error)
}

// Watcher drives a Poller from a cron schedule
type Watcher struct {
	poller   Poller
	interval time.Duration

	mu   sync.Mutex
	cron *cron.Cron
}

func NewWatcher(poller Poller, interval time.Duration) *Watcher {
	return &Watcher{
		poller:   poller,
		interval: interval,
	}
}

// Start schedules the poll. Intervals below one second are rejected.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cron != nil {
		return errors.New("refresh watcher already running")
	}
	if w.interval < time.Second {
		return fmt.Errorf("refresh interval %s is shorter than one second", w.interval)
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc("@every "+w.interval.String(), w.Tick); err != nil {
		return fmt.Errorf("failed to add refresh job: %w", err)
	}

	c.Start()
	w.cron = c
	logger.Debug("refresh watcher started", "interval", w.interval)
	return nil
}

// Stop cancels the schedule and waits for a running poll to finish. It is
// safe to call on a watcher that was never started.
func (w *Watcher) Stop() {
	w.mu.Lock()
	c := w.cron
	w.cron = nil
	w.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
	logger.Debug("refresh watcher stopped")
}

// Running reports whether the schedule is active
func (w *Watcher) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cron != nil
}

// Tick polls once
func (w *Watcher) Tick() {
	changed, err := w.poller.Poll()
	if err != nil {
		logger.Warn("refresh poll failed", "error", err)
		return
	}
	if changed {
		logger.Debug("refresh picked up external changes")
	}
}
