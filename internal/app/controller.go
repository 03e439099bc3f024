// Package app wires the session timer to settings, statistics and notifications.
// A Controller, like the timer it owns, must only be used from one goroutine.
package app

import (
	"log"
	"time"

	"pomodoro/internal/core/timer"
	"pomodoro/internal/mqtt"
	"pomodoro/internal/notify"
	"pomodoro/internal/settings"
	"pomodoro/internal/storage"
)

// Store persists settings and statistics.
type Store interface {
	LoadSettings() (settings.Settings, error)
	SaveSettings(settings.Settings) error
	LoadStats() (storage.Stats, error)
	SaveStats(storage.Stats) error
}

// Options configures a Controller.
type Options struct {
	TickSource   timer.TickSource
	TickInterval time.Duration
	Now          func() time.Time
	// Override adjusts loaded settings for this run only; the result is not saved.
	Override func(settings.Settings) settings.Settings
	Sinks    []notify.Sink
}

// Controller owns the timer for one frontend.
type Controller struct {
	store         Store
	now           func() time.Time
	override      func(settings.Settings) settings.Settings
	stored        settings.Settings
	active        settings.Settings
	stats         storage.Stats
	timer         *timer.SessionTimer
	notifier      *notify.Notifier
	forwarder     *mqtt.Forwarder
	dials         uint64
	statsHandlers []func(storage.Stats)
	justCompleted bool
	closed        bool
}

// New loads settings and statistics and builds a stopped timer. Load errors
// are logged and defaults are used.
func New(store Store, options Options) *Controller {
	if options.Now == nil {
		options.Now = time.Now
	}

	loaded, err := store.LoadSettings()
	if err != nil {
		log.Printf("settings: %v", err)
	}
	loaded = loaded.Sanitize()

	stats, err := store.LoadStats()
	if err != nil {
		log.Printf("stats: %v", err)
	}
	stats.Cleanup(options.Now())

	controller := &Controller{
		store:    store,
		now:      options.Now,
		override: options.Override,
		stored:   loaded,
		stats:    stats,
		notifier: notify.New(options.Sinks...),
	}
	controller.active = controller.withOverride(loaded)
	controller.timer = timer.New(controller.active.TimerConfig(), timer.Config{
		TickInterval: options.TickInterval,
		TickSource:   options.TickSource,
	})
	controller.applyNotifierSettings()

	controller.timer.OnSessionComplete(controller.handleSessionComplete)
	controller.timer.OnStateChange(controller.handleStateChange)
	controller.notifier.Attach(controller.timer)

	return controller
}

// Timer exposes the timer for presenters to subscribe and query.
func (controller *Controller) Timer() *timer.SessionTimer {
	return controller.timer
}

// Settings returns the settings as stored, without the per-run override.
// Editors should start from these so a save never persists the override.
func (controller *Controller) Settings() settings.Settings {
	return controller.stored
}

// ActiveSettings returns the settings in effect for this run.
func (controller *Controller) ActiveSettings() settings.Settings {
	return controller.active
}

// Stats returns the current statistics.
func (controller *Controller) Stats() storage.Stats {
	return controller.stats
}

// OnStatsChange registers a handler called after a session is recorded.
func (controller *Controller) OnStatsChange(handler func(storage.Stats)) {
	controller.statsHandlers = append(controller.statsHandlers, handler)
}

// AddSink adds a notification sink.
func (controller *Controller) AddSink(sink notify.Sink) {
	controller.notifier.AddSink(sink)
}

// AttachPublisher forwards timer transitions to an MQTT publisher, replacing
// any previous one and superseding dials still in flight. A nil publisher
// only detaches.
func (controller *Controller) AttachPublisher(publisher mqtt.Publisher) {
	controller.dials++
	controller.attach(publisher)
}

// DialPublisher runs dial on its own goroutine and attaches the result
// through dispatch, which must run funcs on the controller's goroutine.
// Only the most recent dial is attached; an older result, or one that
// arrives after Close, is closed instead.
func (controller *Controller) DialPublisher(dial func() mqtt.Publisher, dispatch func(func())) {
	controller.dials++
	generation := controller.dials
	go func() {
		publisher := dial()
		dispatch(func() {
			if generation == controller.dials && !controller.closed {
				controller.attach(publisher)
				return
			}
			if publisher == nil {
				return
			}
			if err := publisher.Close(); err != nil {
				log.Printf("mqtt: close superseded: %v", err)
			}
		})
	}()
}

func (controller *Controller) attach(publisher mqtt.Publisher) {
	if controller.forwarder != nil {
		if err := controller.forwarder.Close(); err != nil {
			log.Printf("mqtt: close: %v", err)
		}
		controller.forwarder = nil
	}
	if publisher == nil {
		return
	}
	controller.forwarder = mqtt.NewForwarder(publisher, controller.now)
	controller.forwarder.Attach(controller.timer)
}

// ToggleStartPause starts a stopped or paused timer and pauses a running one.
func (controller *Controller) ToggleStartPause() {
	if controller.timer.IsRunning() {
		controller.timer.Pause()
		return
	}
	controller.timer.Start()
}

// Reset reloads the current session.
func (controller *Controller) Reset() {
	controller.timer.Reset()
}

// Skip completes the current session immediately.
func (controller *Controller) Skip() {
	controller.timer.SkipSession()
}

// UpdateSettings validates, applies and persists new settings. updated
// should be based on Settings, not ActiveSettings; the per-run override is
// applied again on top and never saved. The timer is updated even when
// saving fails; the save error is returned.
func (controller *Controller) UpdateSettings(updated settings.Settings) error {
	updated = updated.Sanitize()
	controller.stored = updated
	controller.active = controller.withOverride(updated)
	controller.applyNotifierSettings()
	controller.timer.UpdateSettings(controller.active.TimerConfig())
	return controller.store.SaveSettings(updated)
}

// Close disposes of the timer and flushes the MQTT forwarder.
func (controller *Controller) Close() {
	controller.closed = true
	controller.notifier.Detach()
	if controller.forwarder != nil {
		if err := controller.forwarder.Close(); err != nil {
			log.Printf("mqtt: close: %v", err)
		}
		controller.forwarder = nil
	}
	controller.timer.Close()
}

func (controller *Controller) handleSessionComplete(session timer.SessionType) {
	// The completed session is still loaded while this event is delivered.
	minutes := controller.timer.TotalTime() / 60
	controller.stats.RecordSession(session == timer.SessionWork, minutes, controller.now())
	for _, achievement := range controller.stats.CheckAchievements() {
		log.Printf("achievement unlocked: %s (%s)", achievement.Title, achievement.Description)
	}
	if err := controller.store.SaveStats(controller.stats); err != nil {
		log.Printf("stats: %v", err)
	}
	for _, handler := range controller.statsHandlers {
		handler(controller.stats)
	}
	controller.justCompleted = true
}

func (controller *Controller) handleStateChange(state timer.RunState, session timer.SessionType) {
	if !controller.justCompleted || state != timer.StateStopped {
		return
	}
	controller.justCompleted = false

	if session.IsBreak() && controller.active.AutoStartBreaks {
		controller.timer.Start()
		return
	}
	if session == timer.SessionWork && controller.active.AutoStartWork {
		controller.timer.Start()
	}
}

func (controller *Controller) withOverride(stored settings.Settings) settings.Settings {
	if controller.override == nil {
		return stored
	}
	return controller.override(stored).Sanitize()
}

func (controller *Controller) applyNotifierSettings() {
	controller.notifier.SetEnabled(controller.active.NotificationsEnabled)
	controller.notifier.SetSound(controller.active.SoundEnabled)
}
