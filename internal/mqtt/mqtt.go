// Package mqtt publishes timer events to an MQTT broker, with a fake for tests.
package mqtt

import (
	"encoding/json"
	"time"

	"pomodoro/internal/core/timer"
)

// Publisher publishes timer events to MQTT.
type Publisher interface {
	// Publish sends a timer event to the broker.
	// Returns error if publishing fails (should not stop the timer).
	Publish(message Message) error

	// Close disconnects from the broker.
	Close() error
}

// Message is one timer event together with the state it was observed in.
type Message struct {
	Timestamp time.Time
	Event     timer.Event
	Snapshot  timer.Snapshot
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Timer TimerPayload `json:"timer"`
}

// TimerPayload contains the timer event details.
type TimerPayload struct {
	Timestamp     string  `json:"timestamp"`
	Event         string  `json:"event"`
	Session       string  `json:"session"`
	State         string  `json:"state"`
	Remaining     int     `json:"remaining_seconds"`
	Total         int     `json:"total_seconds"`
	CompletedWork int     `json:"completed_work_sessions"`
	Progress      float64 `json:"progress"`
}

// FormatPayload creates the JSON payload for a timer event. For
// session_complete the session field names the session that finished.
func FormatPayload(message Message) ([]byte, error) {
	session := message.Snapshot.Session
	state := message.Snapshot.State
	switch message.Event.Type {
	case timer.EventSessionComplete:
		session = message.Event.Session
	case timer.EventStateChange:
		session = message.Event.Session
		state = message.Event.State
	}

	payload := Payload{
		Timer: TimerPayload{
			Timestamp:     message.Timestamp.UTC().Format(time.RFC3339),
			Event:         string(message.Event.Type),
			Session:       string(session),
			State:         string(state),
			Remaining:     message.Snapshot.Remaining,
			Total:         message.Snapshot.Total,
			CompletedWork: message.Snapshot.CompletedWork,
			Progress:      message.Snapshot.Progress,
		},
	}
	return json.Marshal(payload)
}
