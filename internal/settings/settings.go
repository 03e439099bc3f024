// Package settings holds the user-editable configuration and its validation.
package settings

import (
	"strings"

	"pomodoro/internal/core/model"
)

const (
	minMinutes        = 1
	maxMinutes        = 180
	minSessionsToLong = 1
	maxSessionsToLong = 12
)

// DefaultMQTTTopic is used when a broker is configured without a topic.
const DefaultMQTTTopic = "pomodoro/timer/events"

// Settings defines editable user preferences.
type Settings struct {
	WorkMinutes            int
	ShortBreakMinutes      int
	LongBreakMinutes       int
	SessionsUntilLongBreak int

	NotificationsEnabled bool
	SoundEnabled         bool
	AutoStartBreaks      bool
	AutoStartWork        bool

	MQTTBroker string
	MQTTTopic  string
}

// DefaultSettings returns default settings for the timer.
func DefaultSettings() Settings {
	config := model.DefaultConfig()
	return Settings{
		WorkMinutes:            config.WorkMinutes,
		ShortBreakMinutes:      config.ShortBreakMinutes,
		LongBreakMinutes:       config.LongBreakMinutes,
		SessionsUntilLongBreak: config.SessionsUntilLongBreak,
		NotificationsEnabled:   true,
		SoundEnabled:           true,
		MQTTTopic:              DefaultMQTTTopic,
	}
}

// Sanitize clamps durations and the long break cadence into their allowed
// ranges. The timer accepts anything; this is where user input is validated.
func (settings Settings) Sanitize() Settings {
	settings.WorkMinutes = clamp(settings.WorkMinutes, minMinutes, maxMinutes)
	settings.ShortBreakMinutes = clamp(settings.ShortBreakMinutes, minMinutes, maxMinutes)
	settings.LongBreakMinutes = clamp(settings.LongBreakMinutes, minMinutes, maxMinutes)
	settings.SessionsUntilLongBreak = clamp(settings.SessionsUntilLongBreak, minSessionsToLong, maxSessionsToLong)
	settings.MQTTBroker = strings.TrimSpace(settings.MQTTBroker)
	settings.MQTTTopic = strings.TrimSpace(settings.MQTTTopic)
	if settings.MQTTTopic == "" {
		settings.MQTTTopic = DefaultMQTTTopic
	}
	return settings
}

// TimerConfig converts settings to the timer's configuration.
func (settings Settings) TimerConfig() model.Config {
	return model.Config{
		WorkMinutes:            settings.WorkMinutes,
		ShortBreakMinutes:      settings.ShortBreakMinutes,
		LongBreakMinutes:       settings.LongBreakMinutes,
		SessionsUntilLongBreak: settings.SessionsUntilLongBreak,
	}
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
