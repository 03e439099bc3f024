package settings

import (
	"testing"

	"pomodoro/internal/core/model"
)

func TestDefaultSettingsMatchTimerDefaults(t *testing.T) {
	settings := DefaultSettings()
	if settings.TimerConfig() != model.DefaultConfig() {
		t.Errorf("expected %+v, got %+v", model.DefaultConfig(), settings.TimerConfig())
	}
	if !settings.NotificationsEnabled || !settings.SoundEnabled {
		t.Error("notifications and sound should default to enabled")
	}
	if settings.AutoStartBreaks || settings.AutoStartWork {
		t.Error("auto-start should default to disabled")
	}
	if settings.MQTTBroker != "" {
		t.Errorf("mqtt should default to disabled, got %q", settings.MQTTBroker)
	}
}

func TestSanitizeClampsValues(t *testing.T) {
	settings := Settings{
		WorkMinutes:            0,
		ShortBreakMinutes:      -5,
		LongBreakMinutes:       500,
		SessionsUntilLongBreak: 40,
		MQTTBroker:             "  tcp://broker:1883 ",
	}

	got := settings.Sanitize()

	if got.WorkMinutes != 1 {
		t.Errorf("expected work clamped to 1, got %d", got.WorkMinutes)
	}
	if got.ShortBreakMinutes != 1 {
		t.Errorf("expected short break clamped to 1, got %d", got.ShortBreakMinutes)
	}
	if got.LongBreakMinutes != 180 {
		t.Errorf("expected long break clamped to 180, got %d", got.LongBreakMinutes)
	}
	if got.SessionsUntilLongBreak != 12 {
		t.Errorf("expected cadence clamped to 12, got %d", got.SessionsUntilLongBreak)
	}
	if got.MQTTBroker != "tcp://broker:1883" {
		t.Errorf("expected trimmed broker, got %q", got.MQTTBroker)
	}
	if got.MQTTTopic != DefaultMQTTTopic {
		t.Errorf("expected default topic, got %q", got.MQTTTopic)
	}
}

func TestSanitizeKeepsValidValues(t *testing.T) {
	settings := DefaultSettings()
	settings.WorkMinutes = 50
	settings.SessionsUntilLongBreak = 2

	if got := settings.Sanitize(); got != settings {
		t.Errorf("expected %+v unchanged, got %+v", settings, got)
	}
}
