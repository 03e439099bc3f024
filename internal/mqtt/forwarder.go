package mqtt

import (
	"log"
	"sync"
	"time"

	"pomodoro/internal/core/timer"
)

const (
	defaultQueueSize    = 32
	defaultFlushTimeout = 2 * time.Second
)

// Forwarder subscribes to a timer and publishes state changes and session
// completions off the timer's goroutine, so a slow broker never stalls ticks.
// Ticks are not forwarded.
type Forwarder struct {
	publisher    Publisher
	now          func() time.Time
	queue        chan Message
	done         chan struct{}
	abandon      chan struct{}
	flushTimeout time.Duration
	unsubscribe  []func()
	closeOnce    sync.Once
	overflow     bool
}

// NewForwarder starts a forwarder goroutine publishing through publisher.
func NewForwarder(publisher Publisher, now func() time.Time) *Forwarder {
	if now == nil {
		now = time.Now
	}
	forwarder := &Forwarder{
		publisher: publisher,
		now:       now,
		queue:        make(chan Message, defaultQueueSize),
		done:         make(chan struct{}),
		abandon:      make(chan struct{}),
		flushTimeout: defaultFlushTimeout,
	}
	go forwarder.run()
	return forwarder
}

// Attach subscribes the forwarder to the timer. Must be called on the timer's goroutine.
func (forwarder *Forwarder) Attach(sessionTimer *timer.SessionTimer) {
	handler := func(event timer.Event) {
		// A handler earlier in the chain may already have moved the timer on
		// (auto-start); that newer transition was published first.
		if event.Type == timer.EventStateChange && event.State != sessionTimer.RunState() {
			return
		}
		forwarder.enqueue(Message{
			Timestamp: forwarder.now(),
			Event:     event,
			Snapshot:  sessionTimer.Snapshot(),
		})
	}
	forwarder.unsubscribe = append(forwarder.unsubscribe,
		sessionTimer.Subscribe(timer.EventStateChange, handler),
		sessionTimer.Subscribe(timer.EventSessionComplete, handler),
	)
}

// Close detaches from the timer, flushes queued messages and closes the
// publisher. Messages still queued when the flush timeout expires are
// dropped. Must be called on the timer's goroutine.
func (forwarder *Forwarder) Close() error {
	var err error
	forwarder.closeOnce.Do(func() {
		for _, unsubscribe := range forwarder.unsubscribe {
			unsubscribe()
		}
		close(forwarder.queue)

		deadline := time.NewTimer(forwarder.flushTimeout)
		defer deadline.Stop()
		select {
		case <-forwarder.done:
		case <-deadline.C:
			close(forwarder.abandon)
			log.Printf("mqtt: flush timed out after %s, dropping %d queued messages", forwarder.flushTimeout, len(forwarder.queue))
		}
		err = forwarder.publisher.Close()
	})
	return err
}

func (forwarder *Forwarder) enqueue(message Message) {
	select {
	case forwarder.queue <- message:
		forwarder.overflow = false
	default:
		if !forwarder.overflow {
			log.Printf("mqtt: queue full (%d messages), dropping %s", cap(forwarder.queue), message.Event.Type)
			forwarder.overflow = true
		}
	}
}

func (forwarder *Forwarder) run() {
	defer close(forwarder.done)
	for message := range forwarder.queue {
		select {
		case <-forwarder.abandon:
			return
		default:
		}
		if err := forwarder.publisher.Publish(message); err != nil {
			log.Printf("mqtt: publish %s: %v", message.Event.Type, err)
		}
	}
}
