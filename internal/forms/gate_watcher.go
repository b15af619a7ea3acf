package forms

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultGateInterval is how often a GateWatcher re-evaluates the window
const DefaultGateInterval = time.Second

// GateWatcher polls the clock against a form's submission window. The first
// time it observes the window moving forward (not yet open to open, or open to
// closed) it calls the reload hook, and never again afterwards, so that the
// caller re-fetches whatever server state is tied to the window exactly once.
type GateWatcher struct {
	openAt   *time.Time
	closeAt  *time.Time
	now      func() time.Time
	interval time.Duration
	onReload func()
	onTick   func(GateState, time.Time)

	mu       sync.Mutex
	state    GateState
	reloaded atomic.Bool
}

// WatcherOption configures a GateWatcher
type WatcherOption func(*GateWatcher)

// WithClock replaces time.Now
func WithClock(now func() time.Time) WatcherOption {
	return func(w *GateWatcher) { w.now = now }
}

// WithInterval replaces the one second polling interval
func WithInterval(d time.Duration) WatcherOption {
	return func(w *GateWatcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithTickHook is called after every evaluation, e.g. to redraw a countdown
func WithTickHook(fn func(state GateState, now time.Time)) WatcherOption {
	return func(w *GateWatcher) { w.onTick = fn }
}

// NewGateWatcher creates a watcher for the given window. onReload may be nil.
func NewGateWatcher(openAt, closeAt *time.Time, onReload func(), opts ...WatcherOption) *GateWatcher {
	w := &GateWatcher{
		openAt:   openAt,
		closeAt:  closeAt,
		now:      time.Now,
		interval: DefaultGateInterval,
		onReload: onReload,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.state = EvaluateGate(w.now(), openAt, closeAt)
	return w
}

// State returns the last evaluated state
func (w *GateWatcher) State() GateState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Reloaded reports whether the reload hook has fired
func (w *GateWatcher) Reloaded() bool {
	return w.reloaded.Load()
}

// Tick evaluates the window once and returns the new state
func (w *GateWatcher) Tick() GateState {
	now := w.now()
	next := EvaluateGate(now, w.openAt, w.closeAt)

	w.mu.Lock()
	prev := w.state
	w.state = next
	w.mu.Unlock()

	if gateRank(next) > gateRank(prev) && w.reloaded.CompareAndSwap(false, true) {
		if w.onReload != nil {
			w.onReload()
		}
	}

	if w.onTick != nil {
		w.onTick(next, now)
	}

	return next
}

// Run ticks until ctx is cancelled. The ticker is released on return.
func (w *GateWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Tick()
		}
	}
}

func gateRank(s GateState) int {
	switch s {
	case GateNotYetOpen:
		return 0
	case GateOpen:
		return 1
	case GateClosed:
		return 2
	default:
		return -1
	}
}
