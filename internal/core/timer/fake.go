package timer

import "time"

// ManualTickSource is a TickSource for tests: ticks fire only when Advance is called.
type ManualTickSource struct {
	tickers    []*manualTicker
	registered int
}

type manualTicker struct {
	fn      func()
	period  time.Duration
	stopped bool
}

func (handle *manualTicker) Stop() {
	handle.stopped = true
}

// NewManualTickSource creates an idle manual tick source.
func NewManualTickSource() *ManualTickSource {
	return &ManualTickSource{}
}

// Every registers fn; it fires once per Advance step until stopped.
func (source *ManualTickSource) Every(period time.Duration, fn func()) Ticker {
	handle := &manualTicker{fn: fn, period: period}
	source.tickers = append(source.tickers, handle)
	source.registered++
	return handle
}

// Advance fires every active ticker n times. Tickers registered during a
// step start firing on the next step.
func (source *ManualTickSource) Advance(n int) {
	for step := 0; step < n; step++ {
		source.prune()
		current := append([]*manualTicker(nil), source.tickers...)
		for _, handle := range current {
			if handle.stopped {
				continue
			}
			handle.fn()
		}
	}
	source.prune()
}

// Active returns the number of tickers that have not been stopped.
func (source *ManualTickSource) Active() int {
	source.prune()
	return len(source.tickers)
}

// Registered returns how many tickers were ever created.
func (source *ManualTickSource) Registered() int {
	return source.registered
}

func (source *ManualTickSource) prune() {
	active := source.tickers[:0]
	for _, handle := range source.tickers {
		if !handle.stopped {
			active = append(active, handle)
		}
	}
	source.tickers = active
}
