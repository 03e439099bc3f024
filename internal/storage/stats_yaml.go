package storage

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	statsFileName = "stats.yaml"
	dateLayout    = "2006-01-02"

	// StartingPoints is the balance of a fresh statistics file.
	StartingPoints = 120
	// WorkSessionPoints is awarded per completed work session.
	WorkSessionPoints = 25
	// dailyRetention bounds how long per-day session counts are kept.
	dailyRetention = 30 * 24 * time.Hour
)

// Stats is the persisted session history.
type Stats struct {
	Points           int            `yaml:"points"`
	TotalSessions    int            `yaml:"total_sessions"`
	TotalWorkMinutes int            `yaml:"total_work_minutes"`
	Streak           int            `yaml:"streak"`
	FirstSessionDate time.Time      `yaml:"first_session_date,omitempty"`
	LastSessionDate  time.Time      `yaml:"last_session_date,omitempty"`
	DailySessions    map[string]int `yaml:"daily_sessions,omitempty"`
	Achievements     []string       `yaml:"achievements,omitempty"`
}

// Achievement is a milestone reached through completed sessions.
type Achievement struct {
	ID          string
	Title       string
	Description string
	Points      int
}

var achievements = []struct {
	Achievement
	reached func(Stats) bool
}{
	{
		Achievement: Achievement{ID: "first-session", Title: "Getting Started", Description: "Complete your first Pomodoro session", Points: 10},
		reached:     func(stats Stats) bool { return stats.TotalSessions >= 1 },
	},
	{
		Achievement: Achievement{ID: "week-streak", Title: "Week Warrior", Description: "7-day productivity streak", Points: 50},
		reached:     func(stats Stats) bool { return stats.Streak >= 7 },
	},
	{
		Achievement: Achievement{ID: "points-1000", Title: "Point Master", Description: "Earned 1000 points", Points: 100},
		reached:     func(stats Stats) bool { return stats.Points >= 1000 },
	},
}

// DefaultStats returns the statistics of a user with no history.
func DefaultStats() Stats {
	return Stats{Points: StartingPoints}
}

// RecordSession accounts for one completed session. Work sessions add their
// minutes, award points and extend the daily streak.
func (stats *Stats) RecordSession(work bool, minutes int, now time.Time) {
	if stats.TotalSessions == 0 {
		stats.FirstSessionDate = now
	}
	stats.TotalSessions++

	if work {
		if minutes > 0 {
			stats.TotalWorkMinutes += minutes
		}
		stats.AddPoints(WorkSessionPoints)
		stats.updateStreak(now)
	}

	stats.LastSessionDate = now
	if stats.DailySessions == nil {
		stats.DailySessions = make(map[string]int)
	}
	stats.DailySessions[now.Format(dateLayout)]++
}

// AddPoints adds amount to the balance and returns the new balance.
func (stats *Stats) AddPoints(amount int) int {
	stats.Points += amount
	if stats.Points < 0 {
		stats.Points = 0
	}
	return stats.Points
}

// SetPoints replaces the balance, never going below zero.
func (stats *Stats) SetPoints(amount int) int {
	stats.Points = max(0, amount)
	return stats.Points
}

// SubtractPoints removes amount from the balance, never going below zero.
func (stats *Stats) SubtractPoints(amount int) int {
	return stats.AddPoints(-amount)
}

// TodaysSessions returns the number of sessions recorded on now's date.
func (stats Stats) TodaysSessions(now time.Time) int {
	return stats.DailySessions[now.Format(dateLayout)]
}

// TotalWorkHours returns the work time in hours rounded to two decimals.
func (stats Stats) TotalWorkHours() float64 {
	return math.Round(float64(stats.TotalWorkMinutes)/60*100) / 100
}

// AverageSessionsPerDay divides all sessions by the whole days since the
// first one, counting at least one day, rounded to two decimals. Files
// written before the first session date was kept fall back to the last.
func (stats Stats) AverageSessionsPerDay(now time.Time) float64 {
	since := stats.FirstSessionDate
	if since.IsZero() {
		since = stats.LastSessionDate
	}
	if stats.TotalSessions == 0 || since.IsZero() {
		return 0
	}
	days := max(1, daysBetween(since, now))
	return math.Round(float64(stats.TotalSessions)/float64(days)*100) / 100
}

// CheckAchievements records and returns the achievements reached since the
// last check. Each one is reported once.
func (stats *Stats) CheckAchievements() []Achievement {
	var unlocked []Achievement
	for _, candidate := range achievements {
		if !candidate.reached(*stats) || stats.hasAchievement(candidate.ID) {
			continue
		}
		stats.Achievements = append(stats.Achievements, candidate.ID)
		unlocked = append(unlocked, candidate.Achievement)
	}
	return unlocked
}

// UnlockedAchievements returns the recorded achievements in definition order.
// Unknown IDs are skipped.
func (stats Stats) UnlockedAchievements() []Achievement {
	var unlocked []Achievement
	for _, candidate := range achievements {
		if stats.hasAchievement(candidate.ID) {
			unlocked = append(unlocked, candidate.Achievement)
		}
	}
	return unlocked
}

func (stats Stats) hasAchievement(id string) bool {
	for _, existing := range stats.Achievements {
		if existing == id {
			return true
		}
	}
	return false
}

// Cleanup drops daily counts older than the retention window.
func (stats *Stats) Cleanup(now time.Time) {
	cutoff := now.Add(-dailyRetention)
	for date := range stats.DailySessions {
		day, err := time.ParseInLocation(dateLayout, date, now.Location())
		if err != nil || day.Before(cutoff) {
			delete(stats.DailySessions, date)
		}
	}
}

func (stats *Stats) updateStreak(now time.Time) {
	if stats.LastSessionDate.IsZero() {
		stats.Streak = 1
		return
	}

	switch daysBetween(stats.LastSessionDate, now) {
	case 0:
		if stats.Streak == 0 {
			stats.Streak = 1
		}
	case 1:
		stats.Streak++
	default:
		stats.Streak = 1
	}
}

func daysBetween(from, to time.Time) int {
	fromDay := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	toDay := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(toDay.Sub(fromDay).Hours() / 24)
}

// StatsPath returns the location of the statistics file.
func (store *Store) StatsPath() string {
	return filepath.Join(store.dir, statsFileName)
}

// LoadStats reads the statistics file, returning defaults when it is missing.
func (store *Store) LoadStats() (Stats, error) {
	stats := DefaultStats()

	rawData, err := os.ReadFile(store.StatsPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return stats, nil
		}
		return stats, fmt.Errorf("read stats file: %w", err)
	}

	if err := yaml.Unmarshal(rawData, &stats); err != nil {
		return DefaultStats(), fmt.Errorf("parse stats yaml: %w", err)
	}
	if stats.Points < 0 {
		stats.Points = 0
	}
	return stats, nil
}

// SaveStats writes the statistics file.
func (store *Store) SaveStats(stats Stats) error {
	serialized, err := yaml.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal stats yaml: %w", err)
	}
	return store.writeFile(statsFileName, serialized)
}
