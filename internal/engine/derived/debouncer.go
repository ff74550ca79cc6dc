package derived

import (
	"context"
	"slices"
	"sync"
	"time"
	"unique"

	"github.com/jonboulle/clockwork"
)

// Debouncer coalesces rapid update requests into one batch delivered after a quiet window.
type Debouncer struct {
	mu       sync.Mutex
	pending  map[unique.Handle[string]]struct{}
	timer    clockwork.Timer
	clock    clockwork.Clock
	window   time.Duration
	callback func(ctx context.Context, paths []string)
}

// NewDebouncer creates a debouncer with the given window and callback.
// A nil clock uses the real clock.
func NewDebouncer(window time.Duration, clock clockwork.Clock, callback func(ctx context.Context, paths []string)) *Debouncer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Debouncer{
		pending:  make(map[unique.Handle[string]]struct{}),
		clock:    clock,
		window:   window,
		callback: callback,
	}
}

// Add queues paths and restarts the window.
func (d *Debouncer) Add(paths ...string) {
	if len(paths) == 0 {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, p := range paths {
		d.pending[unique.Make(p)] = struct{}{}
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.clock.AfterFunc(d.window, d.fire)
}

// Len returns the number of queued paths.
func (d *Debouncer) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// fire is called when the window expires.
func (d *Debouncer) fire() {
	d.mu.Lock()
	d.timer = nil
	paths := d.takeLocked()
	d.mu.Unlock()

	if len(paths) > 0 && d.callback != nil {
		go d.callback(context.Background(), paths)
	}
}

// Drain cancels the window and returns the queued paths without running the callback.
func (d *Debouncer) Drain() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	return d.takeLocked()
}

// Flush runs the callback with the queued paths on the calling goroutine.
func (d *Debouncer) Flush(ctx context.Context) {
	paths := d.Drain()
	if len(paths) > 0 && d.callback != nil {
		d.callback(ctx, paths)
	}
}

// Stop cancels the window and discards queued paths.
func (d *Debouncer) Stop() {
	d.Drain()
}

func (d *Debouncer) takeLocked() []string {
	if len(d.pending) == 0 {
		return nil
	}
	paths := make([]string, 0, len(d.pending))
	for handle := range d.pending {
		paths = append(paths, handle.Value())
	}
	d.pending = make(map[unique.Handle[string]]struct{})
	slices.Sort(paths)
	return paths
}
