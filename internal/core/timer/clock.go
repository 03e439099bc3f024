package timer

import (
	"sync"
	"sync/atomic"
	"time"
)

// TickSource schedules a periodic callback. Implementations must deliver
// callbacks on the goroutine that owns the SessionTimer.
type TickSource interface {
	Every(period time.Duration, fn func()) Ticker
}

// Ticker is a cancellable handle returned by TickSource.Every.
type Ticker interface {
	Stop()
}

// Dispatcher runs fn on the owner's goroutine (for example fyne.Do,
// Loop.Dispatch or a bubbletea program's Send).
type Dispatcher func(fn func())

// RealTickSource drives ticks from a time.Ticker and hands every tick to a
// Dispatcher so the timer stays single threaded.
type RealTickSource struct {
	dispatch Dispatcher
}

// NewRealTickSource creates a wall-clock tick source. A nil dispatcher calls
// fn directly from the ticker goroutine; the caller then owns synchronization.
func NewRealTickSource(dispatch Dispatcher) *RealTickSource {
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}
	return &RealTickSource{dispatch: dispatch}
}

// Every starts a ticker goroutine firing fn once per period.
func (source *RealTickSource) Every(period time.Duration, fn func()) Ticker {
	if period <= 0 {
		period = time.Second
	}
	handle := &realTicker{stopCh: make(chan struct{})}
	go handle.run(period, fn, source.dispatch)
	return handle
}

type realTicker struct {
	stopped  atomic.Bool
	stopOnce sync.Once
	stopCh   chan struct{}
}

func (handle *realTicker) run(period time.Duration, fn func(), dispatch Dispatcher) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-handle.stopCh:
			return
		case <-ticker.C:
			dispatch(func() {
				// A tick may already be queued when Stop runs on the owner goroutine.
				if handle.stopped.Load() {
					return
				}
				fn()
			})
		}
	}
}

// Stop cancels the ticker. It is safe to call more than once.
func (handle *realTicker) Stop() {
	handle.stopOnce.Do(func() {
		handle.stopped.Store(true)
		close(handle.stopCh)
	})
}
