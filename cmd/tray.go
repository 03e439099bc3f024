package main

import (
	"errors"
	"log"

	"pomodoro/internal/app"
	"pomodoro/internal/core/timer"
	"pomodoro/internal/notify"
	"pomodoro/internal/platform"
	"pomodoro/internal/settings"
	"pomodoro/internal/ui/display"
	"pomodoro/internal/ui/preferences"
	"pomodoro/internal/ui/tray"
	"pomodoro/resources"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/spf13/cobra"
)

func runTray(cmd *cobra.Command, args []string) error {
	guard, err := platform.AcquireSingleInstance(appName)
	if errors.Is(err, platform.ErrAlreadyRunning) {
		log.Printf("single instance: %v", err)
		return nil
	}
	if err != nil {
		return err
	}
	defer func() {
		_ = guard.Release()
	}()

	store, err := openStore()
	if err != nil {
		return err
	}

	fyneApp := fyneapp.NewWithID("com.pomodoro.app")
	fyneApp.SetIcon(resources.MustIcon(resources.IconWork))
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		return errors.New("system tray unsupported on this platform")
	}

	controller := app.New(store, app.Options{
		TickSource: timer.NewRealTickSource(fyne.Do),
		Override:   applyOverrides,
		Sinks:      []notify.Sink{display.NotificationSink(fyneApp)},
	})
	defer controller.Close()
	connectMQTT(controller, fyne.Do)

	timerWindow := display.New(fyneApp, controller)
	guard.Serve(func() {
		fyne.Do(timerWindow.Show)
	})

	prefsWindow := preferences.New(fyneApp, controller.Settings(), func(updated settings.Settings) {
		previous := controller.Settings()
		if err := controller.UpdateSettings(updated); err != nil {
			log.Printf("settings: %v", err)
		}
		current := controller.Settings()
		if current.MQTTBroker == previous.MQTTBroker && current.MQTTTopic == previous.MQTTTopic {
			return
		}
		connectMQTT(controller, fyne.Do)
	})

	trayManager := tray.New(desktopApp, tray.Icons{
		Work:   resources.MustIcon(resources.IconWork),
		Break:  resources.MustIcon(resources.IconBreak),
		Paused: resources.MustIcon(resources.IconPaused),
	}, tray.Callbacks{
		OnToggle: controller.ToggleStartPause,
		OnReset:  controller.Reset,
		OnSkip:   controller.Skip,
		OnShow:   timerWindow.Show,
		OnPreferences: func() {
			prefsWindow.UpdateSettings(controller.Settings())
			prefsWindow.Show()
		},
		OnQuit: func() {
			controller.Close()
			fyneApp.Quit()
		},
	})
	desktopApp.SetSystemTrayIcon(resources.MustIcon(resources.IconPaused))

	fyneApp.Lifecycle().SetOnStarted(func() {
		trayManager.Attach(controller.Timer())
	})

	timerWindow.Show()
	fyneApp.Run()
	return nil
}
