package builder

import (
	"context"
	"sync"
	"time"
)

// Debouncer coalesces bursts of triggers into a single callback that fires
// after the burst has been quiet for the configured delay.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	fn    func()
}

func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger arms the timer, resetting any pending fire.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fn)
}

// Stop cancels any pending fire.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// RunInterval calls fn(i) for i in [0, n) with a pause between calls.
// The first call happens immediately. Returns early if ctx is cancelled.
func RunInterval(ctx context.Context, step time.Duration, n int, fn func(i int)) error {
	if n <= 0 {
		return nil
	}
	ticker := time.NewTicker(step)
	defer ticker.Stop()
	for i := 0; i < n; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
		fn(i)
	}
	return nil
}
