package timer

import (
	"time"

	"pomodoro/internal/core/model"
)

// Config contains runtime options for SessionTimer.
type Config struct {
	TickInterval time.Duration
	TickSource   TickSource
}

// Preview describes the session that would be loaded if the current one completed now.
type Preview struct {
	Session SessionType
	Minutes int
}

// Snapshot is a point-in-time copy of the timer state.
type Snapshot struct {
	Session       SessionType
	State         RunState
	Remaining     int
	Total         int
	CompletedWork int
	Progress      float64
}

// SessionTimer is the work/break state machine. It is not safe for
// concurrent use: every method, and every tick, must run on one goroutine.
type SessionTimer struct {
	config        model.Config
	options       Config
	session       SessionType
	state         RunState
	remaining     int
	total         int
	completedWork int
	ticker        Ticker
	events        bus
	closed        bool
}

// New creates a timer with a stopped, fully loaded work session.
func New(config model.Config, options Config) *SessionTimer {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.TickSource == nil {
		options.TickSource = NewRealTickSource(nil)
	}

	timer := &SessionTimer{
		config:  config,
		options: options,
		session: SessionWork,
		state:   StateStopped,
	}
	timer.loadSession(SessionWork)
	return timer
}

// OnTick registers a handler for countdown ticks. The returned func unsubscribes.
func (timer *SessionTimer) OnTick(handler func(remaining, total int)) func() {
	return timer.Subscribe(EventTick, func(event Event) {
		handler(event.Remaining, event.Total)
	})
}

// OnSessionComplete registers a handler receiving the type that just finished.
func (timer *SessionTimer) OnSessionComplete(handler func(SessionType)) func() {
	return timer.Subscribe(EventSessionComplete, func(event Event) {
		handler(event.Session)
	})
}

// OnStateChange registers a handler for run state transitions.
func (timer *SessionTimer) OnStateChange(handler func(RunState, SessionType)) func() {
	return timer.Subscribe(EventStateChange, func(event Event) {
		handler(event.State, event.Session)
	})
}

// Subscribe registers a raw event handler for one event type.
func (timer *SessionTimer) Subscribe(eventType EventType, handler Handler) func() {
	if handler == nil || timer.closed {
		return func() {}
	}
	return timer.events.subscribe(eventType, handler)
}

// Start begins counting down. Calling it while running is a no-op.
func (timer *SessionTimer) Start() {
	if timer.closed || timer.state == StateRunning {
		return
	}
	timer.state = StateRunning
	timer.ticker = timer.options.TickSource.Every(timer.options.TickInterval, timer.tick)

	timer.emitStateChange()
}

// Pause freezes the countdown mid-session. It is a no-op unless running.
func (timer *SessionTimer) Pause() {
	if timer.state != StateRunning {
		return
	}
	timer.stopTicker()
	timer.state = StatePaused

	timer.emitStateChange()
}

// Reset reloads the current session at full length and stops.
func (timer *SessionTimer) Reset() {
	timer.stopTicker()
	timer.loadSession(timer.session)
	timer.state = StateStopped

	timer.emitStateChange()
}

// SkipSession completes the current session immediately.
func (timer *SessionTimer) SkipSession() {
	timer.completeSession()
}

// UpdateSettings replaces the whole configuration with a copy of config.
// Fields are not merged: a zero field in config replaces the current value,
// so callers start from Settings and change what they need. When the timer
// is not running the
// current session is reloaded so its total reflects the new setting; a running
// session keeps its duration and the change applies from the next session.
func (timer *SessionTimer) UpdateSettings(config model.Config) {
	timer.config = config
	if timer.state == StateRunning {
		return
	}
	timer.Reset()
}

// Close cancels the pending tick and drops all subscribers.
func (timer *SessionTimer) Close() {
	timer.stopTicker()
	if timer.state == StateRunning {
		timer.state = StatePaused
	}
	timer.events.clear()
	timer.closed = true
}

// Settings returns the stored configuration.
func (timer *SessionTimer) Settings() model.Config {
	return timer.config
}

// IsRunning reports whether the countdown is advancing.
func (timer *SessionTimer) IsRunning() bool {
	return timer.state == StateRunning
}

// CurrentTime returns the remaining seconds.
func (timer *SessionTimer) CurrentTime() int {
	return timer.remaining
}

// TotalTime returns the full length of the loaded session in seconds.
func (timer *SessionTimer) TotalTime() int {
	return timer.total
}

// SessionType returns the loaded session type.
func (timer *SessionTimer) SessionType() SessionType {
	return timer.session
}

// RunState returns the current run state.
func (timer *SessionTimer) RunState() RunState {
	return timer.state
}

// CompletedWorkSessions returns how many work sessions have completed.
func (timer *SessionTimer) CompletedWorkSessions() int {
	return timer.completedWork
}

// ProgressFraction returns elapsed/total in [0,1], or 0 for an empty session.
func (timer *SessionTimer) ProgressFraction() float64 {
	if timer.total <= 0 {
		return 0
	}
	progress := float64(timer.total-timer.remaining) / float64(timer.total)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

// NextSessionPreview reports what would load if the current session completed now.
func (timer *SessionTimer) NextSessionPreview() Preview {
	next := timer.nextSession(timer.completedWork + 1)
	return Preview{Session: next, Minutes: timer.minutesFor(next)}
}

// Snapshot returns a copy of the current state.
func (timer *SessionTimer) Snapshot() Snapshot {
	return Snapshot{
		Session:       timer.session,
		State:         timer.state,
		Remaining:     timer.remaining,
		Total:         timer.total,
		CompletedWork: timer.completedWork,
		Progress:      timer.ProgressFraction(),
	}
}

func (timer *SessionTimer) tick() {
	if timer.state != StateRunning {
		return
	}
	if timer.remaining > 0 {
		timer.remaining--
		timer.events.emit(Event{
			Type:      EventTick,
			Remaining: timer.remaining,
			Total:     timer.total,
		})
		return
	}
	timer.completeSession()
}

func (timer *SessionTimer) completeSession() {
	completed := timer.session
	timer.events.emit(Event{
		Type:    EventSessionComplete,
		Session: completed,
	})

	next := SessionWork
	if completed == SessionWork {
		timer.completedWork++
		next = timer.nextSession(timer.completedWork)
	}

	timer.loadSession(next)
	timer.stopTicker()
	timer.state = StateStopped

	timer.emitStateChange()
}

// nextSession picks the break that follows the given work-session count,
// or Work when a break is loaded.
func (timer *SessionTimer) nextSession(completedWork int) SessionType {
	if timer.session != SessionWork {
		return SessionWork
	}
	if timer.config.LongBreakDue(completedWork) {
		return SessionLongBreak
	}
	return SessionShortBreak
}

func (timer *SessionTimer) loadSession(session SessionType) {
	timer.session = session
	timer.total = model.MinutesToSeconds(timer.minutesFor(session))
	timer.remaining = timer.total
}

func (timer *SessionTimer) minutesFor(session SessionType) int {
	switch session {
	case SessionShortBreak:
		return timer.config.ShortBreakMinutes
	case SessionLongBreak:
		return timer.config.LongBreakMinutes
	default:
		return timer.config.WorkMinutes
	}
}

func (timer *SessionTimer) stopTicker() {
	if timer.ticker == nil {
		return
	}
	timer.ticker.Stop()
	timer.ticker = nil
}

func (timer *SessionTimer) emitStateChange() {
	timer.events.emit(Event{
		Type:    EventStateChange,
		State:   timer.state,
		Session: timer.session,
	})
}
