package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
	"pomodoro/internal/settings"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	WorkMinutes            int    `yaml:"work_minutes"`
	ShortBreakMinutes      int    `yaml:"short_break_minutes"`
	LongBreakMinutes       int    `yaml:"long_break_minutes"`
	SessionsUntilLongBreak int    `yaml:"sessions_until_long_break"`
	NotificationsEnabled   *bool  `yaml:"notifications_enabled"`
	SoundEnabled           *bool  `yaml:"sound_enabled"`
	AutoStartBreaks        bool   `yaml:"auto_start_breaks"`
	AutoStartWork          bool   `yaml:"auto_start_work"`
	MQTTBroker             string `yaml:"mqtt_broker,omitempty"`
	MQTTTopic              string `yaml:"mqtt_topic,omitempty"`
}

// Store reads and writes the timer's files inside one directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Open returns a store under the user's configuration directory.
func Open(appName string) (*Store, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve user config dir: %w", err)
	}
	return NewStore(filepath.Join(configDir, appName)), nil
}

// Dir returns the directory holding the store's files.
func (store *Store) Dir() string {
	return store.dir
}

// SettingsPath returns the location of the settings file.
func (store *Store) SettingsPath() string {
	return filepath.Join(store.dir, settingsFileName)
}

// LoadSettings reads user preferences from YAML.
// If the file does not exist, default settings are returned.
func (store *Store) LoadSettings() (settings.Settings, error) {
	loaded := settings.DefaultSettings()

	rawData, err := os.ReadFile(store.SettingsPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return loaded, nil
		}
		return loaded, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return loaded, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&loaded, fileData)
	return loaded.Sanitize(), nil
}

// SaveSettings writes user preferences to YAML.
func (store *Store) SaveSettings(current settings.Settings) error {
	serialized, err := yaml.Marshal(toYamlSettings(current))
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}
	return store.writeFile(settingsFileName, serialized)
}

func (store *Store) writeFile(name string, data []byte) error {
	if err := os.MkdirAll(store.dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	path := filepath.Join(store.dir, name)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

func toYamlSettings(current settings.Settings) yamlSettings {
	notifications := current.NotificationsEnabled
	sound := current.SoundEnabled
	return yamlSettings{
		WorkMinutes:            current.WorkMinutes,
		ShortBreakMinutes:      current.ShortBreakMinutes,
		LongBreakMinutes:       current.LongBreakMinutes,
		SessionsUntilLongBreak: current.SessionsUntilLongBreak,
		NotificationsEnabled:   &notifications,
		SoundEnabled:           &sound,
		AutoStartBreaks:        current.AutoStartBreaks,
		AutoStartWork:          current.AutoStartWork,
		MQTTBroker:             current.MQTTBroker,
		MQTTTopic:              current.MQTTTopic,
	}
}

func applyYamlSettings(target *settings.Settings, fileData yamlSettings) {
	if fileData.WorkMinutes > 0 {
		target.WorkMinutes = fileData.WorkMinutes
	}
	if fileData.ShortBreakMinutes > 0 {
		target.ShortBreakMinutes = fileData.ShortBreakMinutes
	}
	if fileData.LongBreakMinutes > 0 {
		target.LongBreakMinutes = fileData.LongBreakMinutes
	}
	if fileData.SessionsUntilLongBreak > 0 {
		target.SessionsUntilLongBreak = fileData.SessionsUntilLongBreak
	}
	if fileData.NotificationsEnabled != nil {
		target.NotificationsEnabled = *fileData.NotificationsEnabled
	}
	if fileData.SoundEnabled != nil {
		target.SoundEnabled = *fileData.SoundEnabled
	}
	if fileData.MQTTTopic != "" {
		target.MQTTTopic = fileData.MQTTTopic
	}

	target.AutoStartBreaks = fileData.AutoStartBreaks
	target.AutoStartWork = fileData.AutoStartWork
	target.MQTTBroker = fileData.MQTTBroker
}
