// Package notify turns session completions into user-facing alerts.
package notify

import (
	"fmt"
	"io"
	"log"

	"pomodoro/internal/core/timer"
)

// Message is an alert for one completed session.
type Message struct {
	Session timer.SessionType
	Title   string
	Body    string
	// Sound asks sinks that can make a noise to do so.
	Sound bool
}

// Sink delivers messages (desktop notification, terminal bell, ...).
type Sink interface {
	Notify(message Message) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Message) error

// Notify calls fn.
func (fn SinkFunc) Notify(message Message) error {
	return fn(message)
}

// MessageFor builds the alert shown after session completes.
func MessageFor(session timer.SessionType) Message {
	if session == timer.SessionWork {
		return Message{
			Session: session,
			Title:   "🍅 Work Session Complete!",
			Body:    "Great job! Time for a well-deserved break.",
		}
	}
	return Message{
		Session: session,
		Title:   "🌟 Break Time Over!",
		Body:    "Ready to get back to work? Let's focus!",
	}
}

// Notifier forwards session completions to its sinks.
type Notifier struct {
	sinks       []Sink
	enabled     bool
	sound       bool
	unsubscribe func()
}

// New creates an enabled notifier with sound on.
func New(sinks ...Sink) *Notifier {
	return &Notifier{sinks: sinks, enabled: true, sound: true}
}

// AddSink appends a sink.
func (notifier *Notifier) AddSink(sink Sink) {
	notifier.sinks = append(notifier.sinks, sink)
}

// SetEnabled toggles delivery without detaching from the timer.
func (notifier *Notifier) SetEnabled(enabled bool) {
	notifier.enabled = enabled
}

// SetSound controls the Sound flag of delivered messages.
func (notifier *Notifier) SetSound(sound bool) {
	notifier.sound = sound
}

// Attach subscribes to the timer's completion events.
func (notifier *Notifier) Attach(sessionTimer *timer.SessionTimer) {
	notifier.Detach()
	notifier.unsubscribe = sessionTimer.OnSessionComplete(notifier.handleComplete)
}

// Detach stops listening to the timer.
func (notifier *Notifier) Detach() {
	if notifier.unsubscribe != nil {
		notifier.unsubscribe()
		notifier.unsubscribe = nil
	}
}

func (notifier *Notifier) handleComplete(session timer.SessionType) {
	if !notifier.enabled {
		return
	}
	message := MessageFor(session)
	message.Sound = notifier.sound
	for _, sink := range notifier.sinks {
		if err := sink.Notify(message); err != nil {
			log.Printf("notify: %v", err)
		}
	}
}

// BellSink prints the alert and rings the terminal bell when the message
// asks for sound.
type BellSink struct {
	Writer io.Writer
}

// Notify writes the message, preceded by a BEL character if message.Sound is set.
func (sink BellSink) Notify(message Message) error {
	bell := ""
	if message.Sound {
		bell = "\a"
	}
	if _, err := fmt.Fprintf(sink.Writer, "%s%s %s\n", bell, message.Title, message.Body); err != nil {
		return fmt.Errorf("write bell: %w", err)
	}
	return nil
}
