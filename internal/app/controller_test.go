package app

import (
	"errors"
	"testing"
	"time"

	"pomodoro/internal/core/timer"
	"pomodoro/internal/mqtt"
	"pomodoro/internal/notify"
	"pomodoro/internal/settings"
	"pomodoro/internal/storage"
)

type fakeStore struct {
	settings     settings.Settings
	stats        storage.Stats
	loadErr      error
	saveErr      error
	savedConfigs int
	savedStats   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{settings: settings.DefaultSettings(), stats: storage.DefaultStats()}
}

func (store *fakeStore) LoadSettings() (settings.Settings, error) {
	return store.settings, store.loadErr
}

func (store *fakeStore) SaveSettings(updated settings.Settings) error {
	if store.saveErr != nil {
		return store.saveErr
	}
	store.settings = updated
	store.savedConfigs++
	return nil
}

func (store *fakeStore) LoadStats() (storage.Stats, error) {
	return store.stats, store.loadErr
}

func (store *fakeStore) SaveStats(stats storage.Stats) error {
	if store.saveErr != nil {
		return store.saveErr
	}
	store.stats = stats
	store.savedStats++
	return nil
}

var testNow = time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)

func newTestController(t *testing.T, store *fakeStore, options Options) (*Controller, *timer.ManualTickSource) {
	t.Helper()
	source := timer.NewManualTickSource()
	options.TickSource = source
	options.Now = func() time.Time { return testNow }
	controller := New(store, options)
	t.Cleanup(controller.Close)
	return controller, source
}

func TestNewAppliesStoredSettings(t *testing.T) {
	store := newFakeStore()
	store.settings.WorkMinutes = 45

	controller, _ := newTestController(t, store, Options{})

	if controller.Timer().TotalTime() != 45*60 {
		t.Errorf("expected 2700, got %d", controller.Timer().TotalTime())
	}
	if controller.Settings().WorkMinutes != 45 {
		t.Errorf("expected 45, got %d", controller.Settings().WorkMinutes)
	}
}

func TestNewFallsBackOnLoadError(t *testing.T) {
	store := newFakeStore()
	store.loadErr = errors.New("disk on fire")

	controller, _ := newTestController(t, store, Options{})

	if controller.Timer().TotalTime() != 1500 {
		t.Errorf("expected default 1500, got %d", controller.Timer().TotalTime())
	}
}

func TestOverrideIsNotSaved(t *testing.T) {
	store := newFakeStore()
	controller, _ := newTestController(t, store, Options{
		Override: func(current settings.Settings) settings.Settings {
			current.WorkMinutes = 1
			return current
		},
	})

	if controller.Timer().TotalTime() != 60 {
		t.Errorf("expected override to apply, got %d", controller.Timer().TotalTime())
	}
	if store.savedConfigs != 0 || store.settings.WorkMinutes != 25 {
		t.Errorf("override must not be persisted, saved=%d work=%d", store.savedConfigs, store.settings.WorkMinutes)
	}
}

func TestSaveAfterOverrideKeepsStoredValues(t *testing.T) {
	store := newFakeStore()
	controller, _ := newTestController(t, store, Options{
		Override: func(current settings.Settings) settings.Settings {
			current.WorkMinutes = 50
			current.AutoStartBreaks = true
			return current
		},
	})

	if controller.Settings().WorkMinutes != 25 || controller.ActiveSettings().WorkMinutes != 50 {
		t.Fatalf("expected stored 25 and active 50, got %d and %d", controller.Settings().WorkMinutes, controller.ActiveSettings().WorkMinutes)
	}

	updated := controller.Settings()
	updated.NotificationsEnabled = false
	if err := controller.UpdateSettings(updated); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}

	if store.settings.WorkMinutes != 25 || store.settings.AutoStartBreaks {
		t.Errorf("override was persisted: work=%d autoBreaks=%t", store.settings.WorkMinutes, store.settings.AutoStartBreaks)
	}
	if store.settings.NotificationsEnabled {
		t.Error("the edited field should be saved")
	}
	if controller.Timer().TotalTime() != 50*60 || !controller.ActiveSettings().AutoStartBreaks {
		t.Errorf("override should still apply to this run, total=%d", controller.Timer().TotalTime())
	}
	if controller.ActiveSettings().NotificationsEnabled {
		t.Error("the edit should reach the active settings too")
	}
}

func TestToggleStartPause(t *testing.T) {
	controller, source := newTestController(t, newFakeStore(), Options{})

	controller.ToggleStartPause()
	source.Advance(5)
	controller.ToggleStartPause()

	if controller.Timer().RunState() != timer.StatePaused {
		t.Errorf("expected paused, got %s", controller.Timer().RunState())
	}
	controller.ToggleStartPause()
	if !controller.Timer().IsRunning() {
		t.Error("expected running after third toggle")
	}
	if controller.Timer().CurrentTime() != 1495 {
		t.Errorf("expected 1495, got %d", controller.Timer().CurrentTime())
	}
}

func TestCompletedWorkSessionIsRecorded(t *testing.T) {
	store := newFakeStore()
	controller, _ := newTestController(t, store, Options{})

	var seen []storage.Stats
	controller.OnStatsChange(func(stats storage.Stats) { seen = append(seen, stats) })

	controller.Skip()

	stats := controller.Stats()
	if stats.Points != storage.StartingPoints+storage.WorkSessionPoints {
		t.Errorf("expected points awarded, got %d", stats.Points)
	}
	if stats.TotalWorkMinutes != 25 {
		t.Errorf("expected 25 work minutes, got %d", stats.TotalWorkMinutes)
	}
	if store.savedStats != 1 {
		t.Errorf("expected stats saved once, got %d", store.savedStats)
	}
	if len(seen) != 1 || seen[0].TotalSessions != 1 {
		t.Errorf("expected one stats notification, got %+v", seen)
	}

	controller.Skip()
	if controller.Stats().TotalWorkMinutes != 25 {
		t.Errorf("break should not add work minutes, got %d", controller.Stats().TotalWorkMinutes)
	}
	if controller.Stats().TotalSessions != 2 {
		t.Errorf("expected 2 sessions, got %d", controller.Stats().TotalSessions)
	}
}

func TestStatsSaveErrorDoesNotStopTimer(t *testing.T) {
	store := newFakeStore()
	store.saveErr = errors.New("read-only")
	controller, _ := newTestController(t, store, Options{})

	controller.Skip()

	if controller.Timer().SessionType() != timer.SessionShortBreak {
		t.Errorf("expected short break, got %s", controller.Timer().SessionType())
	}
	if controller.Stats().TotalSessions != 1 {
		t.Errorf("in-memory stats should still update, got %d", controller.Stats().TotalSessions)
	}
}

func TestAutoStartBreaks(t *testing.T) {
	store := newFakeStore()
	store.settings.AutoStartBreaks = true
	controller, source := newTestController(t, store, Options{})

	controller.Timer().Start()
	source.Advance(1501)

	if controller.Timer().SessionType() != timer.SessionShortBreak {
		t.Fatalf("expected short break, got %s", controller.Timer().SessionType())
	}
	if !controller.Timer().IsRunning() {
		t.Fatal("break should auto-start")
	}
	if source.Active() != 1 {
		t.Errorf("expected one tick source, got %d", source.Active())
	}

	source.Advance(301)
	if controller.Timer().SessionType() != timer.SessionWork {
		t.Fatalf("expected work, got %s", controller.Timer().SessionType())
	}
	if controller.Timer().IsRunning() {
		t.Error("work should not auto-start unless enabled")
	}
}

func TestAutoStartWork(t *testing.T) {
	store := newFakeStore()
	store.settings.AutoStartWork = true
	controller, _ := newTestController(t, store, Options{})

	controller.Skip()
	if controller.Timer().IsRunning() {
		t.Error("break should not auto-start")
	}
	controller.Skip()
	if !controller.Timer().IsRunning() || controller.Timer().SessionType() != timer.SessionWork {
		t.Errorf("expected running work session, got %s %s", controller.Timer().RunState(), controller.Timer().SessionType())
	}
}

func TestResetDoesNotAutoStart(t *testing.T) {
	store := newFakeStore()
	store.settings.AutoStartWork = true
	store.settings.AutoStartBreaks = true
	controller, _ := newTestController(t, store, Options{})

	controller.Reset()
	if controller.Timer().IsRunning() {
		t.Error("reset must leave the timer stopped")
	}
}

func TestUpdateSettingsPersistsAndApplies(t *testing.T) {
	store := newFakeStore()
	controller, _ := newTestController(t, store, Options{})

	updated := controller.Settings()
	updated.WorkMinutes = 30
	updated.SessionsUntilLongBreak = 0
	if err := controller.UpdateSettings(updated); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}

	if controller.Timer().TotalTime() != 1800 {
		t.Errorf("expected 1800, got %d", controller.Timer().TotalTime())
	}
	if store.settings.SessionsUntilLongBreak != 1 {
		t.Errorf("expected sanitized cadence 1 saved, got %d", store.settings.SessionsUntilLongBreak)
	}
	if controller.Timer().Settings().SessionsUntilLongBreak != 1 {
		t.Errorf("expected sanitized cadence on timer, got %d", controller.Timer().Settings().SessionsUntilLongBreak)
	}
}

func TestUpdateSettingsReturnsSaveError(t *testing.T) {
	store := newFakeStore()
	controller, _ := newTestController(t, store, Options{})
	store.saveErr = errors.New("read-only")

	updated := controller.Settings()
	updated.WorkMinutes = 40
	if err := controller.UpdateSettings(updated); err == nil {
		t.Fatal("expected save error")
	}
	if controller.Timer().TotalTime() != 2400 {
		t.Errorf("timer should still be updated, got %d", controller.Timer().TotalTime())
	}
}

func TestNotificationsFollowSettings(t *testing.T) {
	store := newFakeStore()
	var delivered []notify.Message
	sink := notify.SinkFunc(func(message notify.Message) error {
		delivered = append(delivered, message)
		return nil
	})
	controller, _ := newTestController(t, store, Options{Sinks: []notify.Sink{sink}})

	controller.Skip()

	updated := controller.Settings()
	updated.NotificationsEnabled = false
	if err := controller.UpdateSettings(updated); err != nil {
		t.Fatal(err)
	}
	controller.Skip()

	if len(delivered) != 1 || delivered[0].Session != timer.SessionWork {
		t.Errorf("expected one work notification, got %+v", delivered)
	}
}

func TestAttachPublisher(t *testing.T) {
	controller, _ := newTestController(t, newFakeStore(), Options{})
	publisher := mqtt.NewFakePublisher()

	controller.AttachPublisher(publisher)
	controller.ToggleStartPause()
	controller.Close()

	if !publisher.Closed {
		t.Error("publisher should be closed with the controller")
	}
	if len(publisher.Messages) != 1 || publisher.Messages[0].Event.State != timer.StateRunning {
		t.Errorf("expected one running state change, got %+v", publisher.Messages)
	}
}

func TestReplacePublisher(t *testing.T) {
	controller, _ := newTestController(t, newFakeStore(), Options{})
	first := mqtt.NewFakePublisher()
	second := mqtt.NewFakePublisher()

	controller.AttachPublisher(first)
	controller.AttachPublisher(second)
	controller.ToggleStartPause()
	controller.AttachPublisher(nil)
	controller.ToggleStartPause()

	if !first.Closed || !second.Closed {
		t.Error("replaced publishers should be closed")
	}
	if len(first.Messages) != 0 {
		t.Errorf("first publisher should see nothing, got %d", len(first.Messages))
	}
	if len(second.Messages) != 1 {
		t.Errorf("second publisher should see only the start, got %d", len(second.Messages))
	}
}

func TestDialPublisherAttachesLatestOnly(t *testing.T) {
	controller, _ := newTestController(t, newFakeStore(), Options{})
	dispatched := make(chan func(), 2)
	dispatch := func(fn func()) { dispatched <- fn }

	stale := mqtt.NewFakePublisher()
	fresh := mqtt.NewFakePublisher()
	releaseStale := make(chan struct{})

	controller.DialPublisher(func() mqtt.Publisher {
		<-releaseStale
		return stale
	}, dispatch)
	controller.DialPublisher(func() mqtt.Publisher { return fresh }, dispatch)

	(<-dispatched)()
	close(releaseStale)
	(<-dispatched)()

	if !stale.Closed {
		t.Error("a superseded dial should be closed, not attached")
	}
	controller.ToggleStartPause()
	controller.Close()
	if len(stale.Messages) != 0 {
		t.Errorf("stale publisher should see nothing, got %d", len(stale.Messages))
	}
	if len(fresh.Messages) != 1 || !fresh.Closed {
		t.Errorf("latest publisher should be attached, got %d messages", len(fresh.Messages))
	}
}

func TestDialPublisherAfterClose(t *testing.T) {
	controller, _ := newTestController(t, newFakeStore(), Options{})
	dispatched := make(chan func(), 1)
	publisher := mqtt.NewFakePublisher()

	controller.DialPublisher(func() mqtt.Publisher { return publisher }, func(fn func()) { dispatched <- fn })
	controller.Close()
	(<-dispatched)()

	if !publisher.Closed {
		t.Error("a dial finishing after Close should be closed")
	}
}

func TestAttachPublisherSupersedesDial(t *testing.T) {
	controller, _ := newTestController(t, newFakeStore(), Options{})
	dispatched := make(chan func(), 1)
	dialed := mqtt.NewFakePublisher()
	attached := mqtt.NewFakePublisher()

	controller.DialPublisher(func() mqtt.Publisher { return dialed }, func(fn func()) { dispatched <- fn })
	controller.AttachPublisher(attached)
	(<-dispatched)()

	controller.ToggleStartPause()
	controller.Close()
	if !dialed.Closed || len(dialed.Messages) != 0 {
		t.Error("the pending dial should be discarded")
	}
	if len(attached.Messages) != 1 {
		t.Errorf("expected the attached publisher to stay, got %d messages", len(attached.Messages))
	}
}

func TestSessionCompletionUnlocksAchievement(t *testing.T) {
	store := newFakeStore()
	controller, _ := newTestController(t, store, Options{})

	controller.Skip()

	unlocked := store.stats.UnlockedAchievements()
	if len(unlocked) != 1 || unlocked[0].ID != "first-session" {
		t.Errorf("expected the first-session achievement to be saved, got %+v", unlocked)
	}
}

func TestSoundFollowsSettings(t *testing.T) {
	store := newFakeStore()
	var delivered []notify.Message
	sink := notify.SinkFunc(func(message notify.Message) error {
		delivered = append(delivered, message)
		return nil
	})
	controller, _ := newTestController(t, store, Options{Sinks: []notify.Sink{sink}})

	controller.Skip()
	updated := controller.Settings()
	updated.SoundEnabled = false
	if err := controller.UpdateSettings(updated); err != nil {
		t.Fatal(err)
	}
	controller.Skip()

	if len(delivered) != 2 || !delivered[0].Sound || delivered[1].Sound {
		t.Errorf("expected sound on then off, got %+v", delivered)
	}
}
