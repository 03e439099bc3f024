package timer

import "context"

// Loop is a serial executor: every dispatched function runs on the
// goroutine that calls Run, one at a time, in dispatch order.
type Loop struct {
	queue chan func()
	done  chan struct{}
}

// NewLoop creates a loop with a small dispatch buffer.
func NewLoop() *Loop {
	return &Loop{
		queue: make(chan func(), 16),
		done:  make(chan struct{}),
	}
}

// Dispatch queues fn. It drops fn once the loop has finished.
func (loop *Loop) Dispatch(fn func()) {
	select {
	case loop.queue <- fn:
	case <-loop.done:
	}
}

// Run executes queued functions until ctx is cancelled.
func (loop *Loop) Run(ctx context.Context) {
	defer close(loop.done)
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-loop.queue:
			fn()
		}
	}
}
