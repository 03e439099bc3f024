package timer

// SessionType identifies which interval is loaded.
type SessionType string

const (
	SessionWork       SessionType = "work"
	SessionShortBreak SessionType = "short_break"
	SessionLongBreak  SessionType = "long_break"
)

// Label returns a human readable name for the session type.
func (session SessionType) Label() string {
	switch session {
	case SessionWork:
		return "Work Session"
	case SessionShortBreak:
		return "Short Break"
	case SessionLongBreak:
		return "Long Break"
	default:
		return string(session)
	}
}

// IsBreak reports whether the session is a short or long break.
func (session SessionType) IsBreak() bool {
	return session == SessionShortBreak || session == SessionLongBreak
}

// RunState represents whether the countdown is advancing.
// Stopped and Paused both halt the countdown; Stopped means the
// session was (re)loaded at full length.
type RunState string

const (
	StateStopped RunState = "stopped"
	StateRunning RunState = "running"
	StatePaused  RunState = "paused"
)

// ToggleLabel is the caption of the start/pause control in this state.
func (state RunState) ToggleLabel() string {
	switch state {
	case StateRunning:
		return "Pause"
	case StatePaused:
		return "Resume"
	default:
		return "Start"
	}
}

// EventType defines the type of timer event.
type EventType string

const (
	EventTick            EventType = "tick"
	EventSessionComplete EventType = "session_complete"
	EventStateChange     EventType = "state_change"
)

// Event represents a timer update for observers. Only the fields that
// belong to the event's Type are meaningful:
//
//	tick:             Remaining, Total
//	session_complete: Session (the type that just finished)
//	state_change:     State, Session
type Event struct {
	Type      EventType
	State     RunState
	Session   SessionType
	Remaining int
	Total     int
}

// Handler receives timer events.
type Handler func(Event)

type subscriber struct {
	handler Handler
	removed bool
}

// bus is an ordered, synchronous publish/subscribe table keyed by event type.
type bus struct {
	subscribers map[EventType][]*subscriber
}

func (events *bus) subscribe(eventType EventType, handler Handler) func() {
	if events.subscribers == nil {
		events.subscribers = make(map[EventType][]*subscriber)
	}
	sub := &subscriber{handler: handler}
	events.subscribers[eventType] = append(events.subscribers[eventType], sub)

	return func() {
		if sub.removed {
			return
		}
		sub.removed = true
		list := events.subscribers[eventType]
		for index, candidate := range list {
			if candidate == sub {
				events.subscribers[eventType] = append(list[:index:index], list[index+1:]...)
				break
			}
		}
	}
}

func (events *bus) emit(event Event) {
	// Snapshot: subscribers added while delivering do not see this event.
	subs := append([]*subscriber(nil), events.subscribers[event.Type]...)
	for _, sub := range subs {
		if sub.removed {
			continue
		}
		sub.handler(event)
	}
}

func (events *bus) clear() {
	for _, list := range events.subscribers {
		for _, sub := range list {
			sub.removed = true
		}
	}
	events.subscribers = nil
}
