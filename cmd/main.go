// Package main implements the pomodoro command.
package main

import (
	"fmt"
	"log"
	"os"

	"pomodoro/internal/app"
	"pomodoro/internal/mqtt"
	"pomodoro/internal/settings"
	"pomodoro/internal/storage"

	"github.com/spf13/cobra"
)

const appName = "Pomodoro"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "pomodoro",
	Short:        "Pomodoro timer living in the system tray",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runTray,
}

// Flags that adjust settings for one run without saving them.
var overrides struct {
	work      int
	short     int
	long      int
	longEvery int
	auto      bool
	configDir string
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.IntVar(&overrides.work, "work", 0, "work session length in minutes for this run")
	flags.IntVar(&overrides.short, "short", 0, "short break length in minutes for this run")
	flags.IntVar(&overrides.long, "long", 0, "long break length in minutes for this run")
	flags.IntVar(&overrides.longEvery, "long-every", 0, "work sessions before a long break for this run")
	flags.BoolVar(&overrides.auto, "auto", false, "start every next session automatically")
	flags.StringVar(&overrides.configDir, "config-dir", "", "directory for settings and statistics (default: user config dir)")
}

func openStore() (*storage.Store, error) {
	if overrides.configDir != "" {
		return storage.NewStore(overrides.configDir), nil
	}
	store, err := storage.Open(appName)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return store, nil
}

func applyOverrides(current settings.Settings) settings.Settings {
	if overrides.work > 0 {
		current.WorkMinutes = overrides.work
	}
	if overrides.short > 0 {
		current.ShortBreakMinutes = overrides.short
	}
	if overrides.long > 0 {
		current.LongBreakMinutes = overrides.long
	}
	if overrides.longEvery > 0 {
		current.SessionsUntilLongBreak = overrides.longEvery
	}
	if overrides.auto {
		current.AutoStartBreaks = true
		current.AutoStartWork = true
	}
	return current
}

// connectMQTT attaches a publisher for the stored broker setting. The dial
// runs in the background; dispatch must run funcs on the controller's goroutine.
func connectMQTT(controller *app.Controller, dispatch func(func())) {
	current := controller.Settings()
	if current.MQTTBroker == "" {
		controller.AttachPublisher(nil)
		return
	}
	controller.DialPublisher(func() mqtt.Publisher { return dialMQTT(current) }, dispatch)
}

// dialMQTT connects to the configured broker. It returns nil when no broker
// is set or the connection fails; failures are logged.
func dialMQTT(current settings.Settings) mqtt.Publisher {
	if current.MQTTBroker == "" {
		return nil
	}
	clientID := fmt.Sprintf("pomodoro-%d", os.Getpid())
	publisher, err := mqtt.NewRealPublisher(current.MQTTBroker, current.MQTTTopic, clientID)
	if err != nil {
		log.Printf("mqtt: %v", err)
		return nil
	}
	log.Printf("mqtt: publishing to %s on %s", current.MQTTTopic, current.MQTTBroker)
	return publisher
}
