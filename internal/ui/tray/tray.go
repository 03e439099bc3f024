package tray

import (
	"fmt"

	"pomodoro/internal/core/timer"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/systray"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnToggle      func()
	OnReset       func()
	OnSkip        func()
	OnShow        func()
	OnPreferences func()
	OnQuit        func()
}

// Icons are swapped by session type and run state.
type Icons struct {
	Work   fyne.Resource
	Break  fyne.Resource
	Paused fyne.Resource
}

// Manager keeps the tray menu and title in step with the timer.
type Manager struct {
	app        desktop.App
	callbacks  Callbacks
	icons      Icons
	statusItem *fyne.MenuItem
	toggleItem *fyne.MenuItem
	resetItem  *fyne.MenuItem
	skipItem   *fyne.MenuItem
	current    fyne.Resource
	lastTitle  string
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, icons Icons, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
		icons:     icons,
	}

	manager.statusItem = fyne.NewMenuItem("Status: starting...", nil)
	manager.statusItem.Disabled = true

	manager.toggleItem = fyne.NewMenuItem("Start", func() { call(manager.callbacks.OnToggle) })
	manager.resetItem = fyne.NewMenuItem("Reset", func() { call(manager.callbacks.OnReset) })
	manager.skipItem = fyne.NewMenuItem("Skip session", func() { call(manager.callbacks.OnSkip) })

	manager.refreshMenu()
	return manager
}

// Attach follows the timer's ticks and transitions. The returned func detaches.
func (manager *Manager) Attach(sessionTimer *timer.SessionTimer) func() {
	update := func() { manager.Update(sessionTimer.Snapshot()) }
	unsubscribeTick := sessionTimer.OnTick(func(int, int) { update() })
	unsubscribeState := sessionTimer.OnStateChange(func(timer.RunState, timer.SessionType) { update() })
	update()
	return func() {
		unsubscribeTick()
		unsubscribeState()
	}
}

// Update renders a timer snapshot into the tray. The title carries the
// countdown; the menu is rebuilt only when session or run state change.
func (manager *Manager) Update(snapshot timer.Snapshot) {
	title := Title(snapshot)
	if title != manager.lastTitle {
		manager.lastTitle = title
		systray.SetTitle(title)
		systray.SetTooltip(fmt.Sprintf("Pomodoro: %s, %s", Status(snapshot), title))
	}

	label, toggle := menuLabels(snapshot)
	if label == manager.statusItem.Label && toggle == manager.toggleItem.Label {
		return
	}
	manager.statusItem.Label = label
	manager.toggleItem.Label = toggle
	manager.setIcon(manager.iconFor(snapshot))
	manager.refreshMenu()
}

func (manager *Manager) iconFor(snapshot timer.Snapshot) fyne.Resource {
	if snapshot.State != timer.StateRunning && manager.icons.Paused != nil {
		return manager.icons.Paused
	}
	if snapshot.Session.IsBreak() && manager.icons.Break != nil {
		return manager.icons.Break
	}
	return manager.icons.Work
}

func (manager *Manager) setIcon(icon fyne.Resource) {
	if icon == nil || icon == manager.current || manager.app == nil {
		return
	}
	manager.current = icon
	manager.app.SetSystemTrayIcon(icon)
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu("Pomodoro",
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		manager.toggleItem,
		manager.resetItem,
		manager.skipItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Show timer", func() { call(manager.callbacks.OnShow) }),
		fyne.NewMenuItem("Preferences", func() { call(manager.callbacks.OnPreferences) }),
		fyne.NewMenuItem("Quit", func() { call(manager.callbacks.OnQuit) }),
	))
}

// Title is the short text shown next to the tray icon.
func Title(snapshot timer.Snapshot) string {
	title := timer.FormatTime(snapshot.Remaining)
	if snapshot.State == timer.StatePaused {
		title += " (paused)"
	}
	return title
}

// Status describes the loaded session for the menu header. It does not
// include the remaining time.
func Status(snapshot timer.Snapshot) string {
	switch snapshot.State {
	case timer.StateRunning:
		return fmt.Sprintf("%s running", snapshot.Session.Label())
	case timer.StatePaused:
		return fmt.Sprintf("%s paused", snapshot.Session.Label())
	default:
		return fmt.Sprintf("%s ready", snapshot.Session.Label())
	}
}

func menuLabels(snapshot timer.Snapshot) (status, toggle string) {
	return fmt.Sprintf("Status: %s", Status(snapshot)), snapshot.State.ToggleLabel()
}

func call(handler func()) {
	if handler != nil {
		handler()
	}
}
