package display

import (
	"fmt"
	"image/color"

	"pomodoro/internal/app"
	"pomodoro/internal/core/timer"
	"pomodoro/internal/notify"
	"pomodoro/internal/storage"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

var (
	workColor       = color.NRGBA{R: 231, G: 76, B: 60, A: 255}
	shortBreakColor = color.NRGBA{R: 46, G: 204, B: 113, A: 255}
	longBreakColor  = color.NRGBA{R: 52, G: 152, B: 219, A: 255}
)

// Window shows the running session and its controls.
type Window struct {
	window       fyne.Window
	controller   *app.Controller
	background   *canvas.Rectangle
	sessionLabel *canvas.Text
	timerLabel   *canvas.Text
	progress     *widget.ProgressBar
	nextLabel    *widget.Label
	pointsLabel  *widget.Label
	startButton  *widget.Button
	resetButton  *widget.Button
	skipButton   *widget.Button
	unsubscribe  []func()
}

// New builds the timer window and subscribes it to the controller's timer.
// Must be called on the fyne main goroutine.
func New(fyneApp fyne.App, controller *app.Controller) *Window {
	window := fyneApp.NewWindow("Pomodoro")
	if fyneApp.Icon() != nil {
		window.SetIcon(fyneApp.Icon())
	}

	background := canvas.NewRectangle(workColor)

	sessionLabel := canvas.NewText("", color.White)
	sessionLabel.Alignment = fyne.TextAlignCenter
	sessionLabel.TextStyle = fyne.TextStyle{Bold: true}
	sessionLabel.TextSize = 20

	timerLabel := canvas.NewText("--:--", color.White)
	timerLabel.Alignment = fyne.TextAlignCenter
	timerLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	timerLabel.TextSize = 64

	progress := widget.NewProgressBar()
	progress.TextFormatter = func() string { return "" }

	nextLabel := widget.NewLabel("")
	nextLabel.Alignment = fyne.TextAlignCenter
	pointsLabel := widget.NewLabel("")
	pointsLabel.Alignment = fyne.TextAlignCenter

	startButton := widget.NewButton("Start", controller.ToggleStartPause)
	startButton.Importance = widget.HighImportance
	resetButton := widget.NewButton("Reset", controller.Reset)
	skipButton := widget.NewButton("Skip", controller.Skip)

	buttons := container.NewHBox(layout.NewSpacer(), startButton, resetButton, skipButton, layout.NewSpacer())
	face := container.NewVBox(sessionLabel, timerLabel)
	content := container.NewVBox(
		container.NewStack(background, container.NewPadded(face)),
		progress,
		buttons,
		nextLabel,
		pointsLabel,
	)

	window.SetContent(container.NewPadded(content))
	window.Resize(fyne.NewSize(360, 320))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	display := &Window{
		window:       window,
		controller:   controller,
		background:   background,
		sessionLabel: sessionLabel,
		timerLabel:   timerLabel,
		progress:     progress,
		nextLabel:    nextLabel,
		pointsLabel:  pointsLabel,
		startButton:  startButton,
		resetButton:  resetButton,
		skipButton:   skipButton,
	}

	sessionTimer := controller.Timer()
	display.unsubscribe = append(display.unsubscribe,
		sessionTimer.OnTick(func(int, int) { display.refresh() }),
		sessionTimer.OnStateChange(func(timer.RunState, timer.SessionType) { display.refresh() }),
	)
	controller.OnStatsChange(display.setStats)

	display.refresh()
	display.setStats(controller.Stats())
	return display
}

// Show brings the window to the front.
func (display *Window) Show() {
	display.window.Show()
	display.window.RequestFocus()
}

// Hide hides the window; the timer keeps running.
func (display *Window) Hide() {
	display.window.Hide()
}

// Close unsubscribes from the timer and closes the window.
func (display *Window) Close() {
	for _, unsubscribe := range display.unsubscribe {
		unsubscribe()
	}
	display.unsubscribe = nil
	display.window.Close()
}

// refresh redraws from the timer rather than from the event payload, so a
// nested transition delivered out of order still renders the latest state.
func (display *Window) refresh() {
	snapshot := display.controller.Timer().Snapshot()
	preview := display.controller.Timer().NextSessionPreview()

	display.background.FillColor = SessionColor(snapshot.Session)
	display.background.Refresh()

	display.sessionLabel.Text = snapshot.Session.Label()
	display.sessionLabel.Refresh()
	display.timerLabel.Text = timer.FormatTime(snapshot.Remaining)
	display.timerLabel.Refresh()

	display.progress.SetValue(snapshot.Progress)
	display.startButton.SetText(snapshot.State.ToggleLabel())
	display.nextLabel.SetText(fmt.Sprintf("Next: %s (%d min)", preview.Session.Label(), preview.Minutes))
	display.window.SetTitle(fmt.Sprintf("%s - %s", timer.FormatTime(snapshot.Remaining), snapshot.Session.Label()))
}

func (display *Window) setStats(stats storage.Stats) {
	display.pointsLabel.SetText(fmt.Sprintf("%d points, %d sessions, streak %d", stats.Points, stats.TotalSessions, stats.Streak))
}

// SessionColor is the accent colour of a session type.
func SessionColor(session timer.SessionType) color.Color {
	switch session {
	case timer.SessionShortBreak:
		return shortBreakColor
	case timer.SessionLongBreak:
		return longBreakColor
	default:
		return workColor
	}
}

// NotificationSink sends session alerts as desktop notifications.
func NotificationSink(fyneApp fyne.App) notify.Sink {
	return notify.SinkFunc(func(message notify.Message) error {
		fyneApp.SendNotification(fyne.NewNotification(message.Title, message.Body))
		return nil
	})
}
