/*
reloader.go - Periodic price index rebuild

PURPOSE:
  Rebuilds the price index from its source on an interval and swaps it
  into the Handler. The index itself is never mutated; a refresh is always
  a full rebuild followed by a pointer swap.

DESIGN:
  - Runs a background goroutine with a configurable interval
  - A failed rebuild keeps the previous index serving and is logged;
    only the initial load at startup is fatal
  - In-flight requests finish against whichever index they started with

USAGE:
  reloader := NewReloader(src, handler, 15*time.Minute)
  reloader.Start()
  // ... later
  reloader.Stop()

SEE ALSO:
  - handlers.go: Handler.SwapIndex
  - pricing/index.go: Load
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/warp/landprice/pricing"
	"go.uber.org/zap"
)

// Reloader rebuilds the handler's index from Source every Interval.
type Reloader struct {
	Source   pricing.Source
	Handler  *Handler
	Interval time.Duration

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewReloader creates a reloader. It does nothing until Start.
func NewReloader(src pricing.Source, h *Handler, interval time.Duration) *Reloader {
	return &Reloader{
		Source:   src,
		Handler:  h,
		Interval: interval,
	}
}

// Start begins periodic reloads. A non-positive interval disables them.
func (rl *Reloader) Start() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.Interval <= 0 || rl.ticker != nil {
		return
	}

	rl.ticker = time.NewTicker(rl.Interval)
	rl.stop = make(chan struct{})
	rl.wg.Add(1)
	go rl.run()

	zap.L().Info("index reloader started", zap.Duration("interval", rl.Interval))
}

// Stop halts periodic reloads and waits for a running reload to finish.
func (rl *Reloader) Stop() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.ticker == nil {
		return
	}
	rl.ticker.Stop()
	close(rl.stop)
	rl.wg.Wait()
	rl.ticker = nil

	zap.L().Info("index reloader stopped")
}

// Reload rebuilds the index once and swaps it in on success.
func (rl *Reloader) Reload(ctx context.Context) error {
	idx, err := pricing.Load(ctx, rl.Source)
	if err != nil {
		zap.L().Warn("index reload failed, keeping previous index", zap.Error(err))
		return err
	}
	rl.Handler.SwapIndex(idx)
	return nil
}

func (rl *Reloader) run() {
	defer rl.wg.Done()

	for {
		select {
		case <-rl.ticker.C:
			_ = rl.Reload(context.Background())
		case <-rl.stop:
			return
		}
	}
}
