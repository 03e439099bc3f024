package preferences

import (
	"testing"

	"pomodoro/internal/settings"

	"fyne.io/fyne/v2/test"
)

func TestParsePositiveInt(t *testing.T) {
	tests := []struct {
		input string
		want  int
		ok    bool
	}{
		{"25", 25, true},
		{" 30 ", 30, true},
		{"0", 0, false},
		{"-5", 0, false},
		{"ten", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := parsePositiveInt(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parsePositiveInt(%q): expected (%d, %v), got (%d, %v)", tt.input, tt.want, tt.ok, got, ok)
		}
	}
}

func TestSaveAppliesForm(t *testing.T) {
	fyneApp := test.NewApp()
	defer fyneApp.Quit()

	var saved []settings.Settings
	prefs := New(fyneApp, settings.DefaultSettings(), func(updated settings.Settings) {
		saved = append(saved, updated)
	})

	if prefs.work.Text != "25" || prefs.longEvery.Text != "4" {
		t.Fatalf("form not populated: work=%q longEvery=%q", prefs.work.Text, prefs.longEvery.Text)
	}

	prefs.work.SetText("50")
	prefs.shortBreak.SetText("abc")
	prefs.longEvery.SetText("99")
	prefs.autoBreaks.SetChecked(true)
	prefs.sound.SetChecked(false)
	prefs.broker.SetText("  tcp://broker:1883 ")
	prefs.topic.SetText("")
	prefs.handleSave()

	if len(saved) != 1 {
		t.Fatalf("expected one save, got %d", len(saved))
	}
	got := saved[0]
	if got.WorkMinutes != 50 {
		t.Errorf("expected 50, got %d", got.WorkMinutes)
	}
	if got.ShortBreakMinutes != 5 {
		t.Errorf("invalid input should keep 5, got %d", got.ShortBreakMinutes)
	}
	if got.SessionsUntilLongBreak != 12 {
		t.Errorf("expected clamp to 12, got %d", got.SessionsUntilLongBreak)
	}
	if !got.AutoStartBreaks || got.AutoStartWork {
		t.Errorf("unexpected auto-start flags %+v", got)
	}
	if got.SoundEnabled || !got.NotificationsEnabled {
		t.Errorf("unexpected alert flags %+v", got)
	}
	if got.MQTTBroker != "tcp://broker:1883" || got.MQTTTopic != settings.DefaultMQTTTopic {
		t.Errorf("unexpected mqtt settings %q %q", got.MQTTBroker, got.MQTTTopic)
	}
	if prefs.longEvery.Text != "12" {
		t.Errorf("form should show the sanitized value, got %q", prefs.longEvery.Text)
	}
}
