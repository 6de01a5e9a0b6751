package cache

import (
	"log/slog"
	"time"
)

// Sweepable is a store that can drop its expired entries.
type Sweepable interface {
	Sweep(now time.Time) int
}

// Sweeper periodically reclaims expired sessions from an in-memory store.
type Sweeper struct {
	store    Sweepable
	interval time.Duration
	stopChan chan struct{}
	ticker   *time.Ticker
}

// NewSweeper creates a sweeper that runs every interval once started.
func NewSweeper(store Sweepable, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		store:    store,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start launches the sweep loop in the background.
func (w *Sweeper) Start() {
	if w == nil {
		return
	}
	w.ticker = time.NewTicker(w.interval)
	go w.loop()
}

// Stop ends the sweep loop. It must be called at most once.
func (w *Sweeper) Stop() {
	if w == nil {
		return
	}
	close(w.stopChan)
	if w.ticker != nil {
		w.ticker.Stop()
	}
}

func (w *Sweeper) loop() {
	for {
		select {
		case now := <-w.ticker.C:
			if n := w.store.Sweep(now); n > 0 {
				slog.Debug("Swept expired sessions", slog.Int("count", n))
			}
		case <-w.stopChan:
			return
		}
	}
}
