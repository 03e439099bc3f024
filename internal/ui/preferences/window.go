package preferences

import (
	"strconv"
	"strings"

	"pomodoro/internal/settings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window        fyne.Window
	settings      settings.Settings
	onSave        func(settings.Settings)
	work          *widget.Entry
	shortBreak    *widget.Entry
	longBreak     *widget.Entry
	longEvery     *widget.Entry
	notifications *widget.Check
	sound         *widget.Check
	autoBreaks    *widget.Check
	autoWork      *widget.Check
	broker        *widget.Entry
	topic         *widget.Entry
}

// New creates a preferences window.
func New(app fyne.App, current settings.Settings, onSave func(settings.Settings)) *Window {
	window := app.NewWindow("Pomodoro Settings")

	work := widget.NewEntry()
	shortBreak := widget.NewEntry()
	longBreak := widget.NewEntry()
	longEvery := widget.NewEntry()

	notifications := widget.NewCheck("Desktop notifications", nil)
	sound := widget.NewCheck("Sound alerts", nil)
	autoBreaks := widget.NewCheck("Start breaks automatically", nil)
	autoWork := widget.NewCheck("Start work sessions automatically", nil)

	broker := widget.NewEntry()
	broker.SetPlaceHolder("tcp://localhost:1883 (empty = off)")
	topic := widget.NewEntry()
	topic.SetPlaceHolder(settings.DefaultMQTTTopic)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Timer", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Work session"), work, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Short break"), shortBreak, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Long break"), longBreak, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Long break after"), longEvery, widget.NewLabel("work sessions")),
		notifications,
		sound,
		autoBreaks,
		autoWork,
		widget.NewLabelWithStyle("MQTT", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewForm(
			widget.NewFormItem("Broker", broker),
			widget.NewFormItem("Topic", topic),
		),
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	content := container.NewBorder(nil, buttons, nil, nil, form)
	window.SetContent(content)
	window.Resize(fyne.NewSize(420, 490))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	prefs := &Window{
		window:        window,
		onSave:        onSave,
		work:          work,
		shortBreak:    shortBreak,
		longBreak:     longBreak,
		longEvery:     longEvery,
		notifications: notifications,
		sound:         sound,
		autoBreaks:    autoBreaks,
		autoWork:      autoWork,
		broker:        broker,
		topic:         topic,
	}
	prefs.UpdateSettings(current)

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		prefs.UpdateSettings(prefs.settings)
		window.Hide()
	}

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(current settings.Settings) {
	prefs.settings = current
	prefs.work.SetText(strconv.Itoa(current.WorkMinutes))
	prefs.shortBreak.SetText(strconv.Itoa(current.ShortBreakMinutes))
	prefs.longBreak.SetText(strconv.Itoa(current.LongBreakMinutes))
	prefs.longEvery.SetText(strconv.Itoa(current.SessionsUntilLongBreak))
	prefs.notifications.SetChecked(current.NotificationsEnabled)
	prefs.sound.SetChecked(current.SoundEnabled)
	prefs.autoBreaks.SetChecked(current.AutoStartBreaks)
	prefs.autoWork.SetChecked(current.AutoStartWork)
	prefs.broker.SetText(current.MQTTBroker)
	prefs.topic.SetText(current.MQTTTopic)
}

// collect reads the form on top of the last applied settings. Fields that do
// not parse keep their previous value.
func (prefs *Window) collect() settings.Settings {
	updated := prefs.settings

	if minutes, ok := parsePositiveInt(prefs.work.Text); ok {
		updated.WorkMinutes = minutes
	}
	if minutes, ok := parsePositiveInt(prefs.shortBreak.Text); ok {
		updated.ShortBreakMinutes = minutes
	}
	if minutes, ok := parsePositiveInt(prefs.longBreak.Text); ok {
		updated.LongBreakMinutes = minutes
	}
	if count, ok := parsePositiveInt(prefs.longEvery.Text); ok {
		updated.SessionsUntilLongBreak = count
	}

	updated.NotificationsEnabled = prefs.notifications.Checked
	updated.SoundEnabled = prefs.sound.Checked
	updated.AutoStartBreaks = prefs.autoBreaks.Checked
	updated.AutoStartWork = prefs.autoWork.Checked
	updated.MQTTBroker = prefs.broker.Text
	updated.MQTTTopic = prefs.topic.Text

	return updated.Sanitize()
}

func (prefs *Window) handleSave() {
	updated := prefs.collect()
	prefs.UpdateSettings(updated)
	if prefs.onSave != nil {
		prefs.onSave(updated)
	}
	prefs.window.Hide()
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
