package storage

import (
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
	"pomodoro/internal/settings"
)

const backupVersion = "1"

// ErrInvalidBackup is returned by Import for input that is not a backup.
var ErrInvalidBackup = errors.New("invalid backup")

type backupFile struct {
	Version   string        `yaml:"version"`
	Timestamp time.Time     `yaml:"timestamp"`
	Settings  *yamlSettings `yaml:"settings"`
	Stats     *Stats        `yaml:"stats"`
}

// Export writes the settings and statistics as one YAML document stamped
// with now. The output can be restored with Import.
func (store *Store) Export(w io.Writer, now time.Time) error {
	current, err := store.LoadSettings()
	if err != nil {
		return err
	}
	stats, err := store.LoadStats()
	if err != nil {
		return err
	}

	settingsData := toYamlSettings(current)
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(backupFile{
		Version:   backupVersion,
		Timestamp: now.UTC(),
		Settings:  &settingsData,
		Stats:     &stats,
	}); err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	return encoder.Close()
}

// Import validates a document written by Export and replaces the stored
// settings and statistics with it. Nothing is written when validation fails.
func (store *Store) Import(r io.Reader) error {
	var backup backupFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&backup); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty input", ErrInvalidBackup)
		}
		return fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}

	switch {
	case backup.Version != backupVersion:
		return fmt.Errorf("%w: unsupported version %q", ErrInvalidBackup, backup.Version)
	case backup.Settings == nil:
		return fmt.Errorf("%w: missing settings", ErrInvalidBackup)
	case backup.Stats == nil:
		return fmt.Errorf("%w: missing stats", ErrInvalidBackup)
	case backup.Stats.TotalSessions < 0 || backup.Stats.TotalWorkMinutes < 0:
		return fmt.Errorf("%w: negative session totals", ErrInvalidBackup)
	}

	restored := settings.DefaultSettings()
	applyYamlSettings(&restored, *backup.Settings)
	stats := *backup.Stats
	stats.SetPoints(stats.Points)

	if err := store.SaveSettings(restored.Sanitize()); err != nil {
		return err
	}
	return store.SaveStats(stats)
}
