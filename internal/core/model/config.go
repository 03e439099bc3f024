package model

// Config contains the cycle settings consumed by the session timer.
// Durations are whole minutes.
type Config struct {
	WorkMinutes            int
	ShortBreakMinutes      int
	LongBreakMinutes       int
	SessionsUntilLongBreak int
}

// DefaultConfig returns the classic 25/5/15 cycle with a long break every fourth session.
func DefaultConfig() Config {
	return Config{
		WorkMinutes:            25,
		ShortBreakMinutes:      5,
		LongBreakMinutes:       15,
		SessionsUntilLongBreak: 4,
	}
}

// LongBreakDue reports whether a long break follows the given number of
// completed work sessions. A non-positive cadence never schedules one.
func (config Config) LongBreakDue(completedWork int) bool {
	if config.SessionsUntilLongBreak < 1 {
		return false
	}
	return completedWork%config.SessionsUntilLongBreak == 0
}

// MinutesToSeconds converts a configured duration, treating negatives as zero.
func MinutesToSeconds(minutes int) int {
	if minutes <= 0 {
		return 0
	}
	return minutes * 60
}
