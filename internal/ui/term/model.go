// Package term is a terminal frontend for the session timer.
package term

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pomodoro/internal/app"
	"pomodoro/internal/core/timer"
	"pomodoro/internal/notify"
	"pomodoro/internal/storage"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultBarWidth = 40
	maxBarWidth     = 60
)

// dispatchMsg carries a tick callback into the Update loop, which is the
// timer's owning goroutine.
type dispatchMsg func()

// notice is shared by the model copies bubbletea makes; it is only touched
// from Update.
type notice struct {
	text string
}

type model struct {
	controller *app.Controller
	bar        progress.Model
	notice     *notice
	now        func() time.Time
	quitting   bool
}

// screen is everything one frame renders.
type screen struct {
	Snapshot timer.Snapshot
	Preview  timer.Preview
	Stats    storage.Stats
	Today    int
	Alert    string
}

// Run starts the terminal UI and blocks until the user quits or ctx is done.
// setup, if set, is called with the controller and a dispatcher that runs
// funcs on the UI goroutine, before the UI starts.
func Run(ctx context.Context, store app.Store, options app.Options, setup func(*app.Controller, func(func()))) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var program *tea.Program
	dispatch := func(fn func()) {
		program.Send(dispatchMsg(fn))
	}
	options.TickSource = timer.NewRealTickSource(dispatch)

	controller := app.New(store, options)
	defer controller.Close()

	m := newModel(controller, options.Now)
	program = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if setup != nil {
		setup(controller, dispatch)
	}
	_, err := program.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

func newModel(controller *app.Controller, now func() time.Time) model {
	if now == nil {
		now = time.Now
	}
	board := &notice{}
	controller.AddSink(notify.SinkFunc(func(message notify.Message) error {
		board.text = fmt.Sprintf("%s %s", message.Title, message.Body)
		return nil
	}))
	return model{
		controller: controller,
		bar:        progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(defaultBarWidth)),
		notice:     board,
		now:        now,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dispatchMsg:
		msg()
	case tea.WindowSizeMsg:
		width := msg.Width - 8
		if width > maxBarWidth {
			width = maxBarWidth
		}
		if width > 0 {
			m.bar.Width = width
		}
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ", "space", "enter":
		m.notice.text = ""
		m.controller.ToggleStartPause()
	case "r":
		m.controller.Reset()
	case "s":
		m.controller.Skip()
	case "q", "ctrl+c", "esc":
		m.quitting = true
		m.controller.Close()
		return m, tea.Quit
	}
	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return ""
	}
	sessionTimer := m.controller.Timer()
	stats := m.controller.Stats()
	return render(screen{
		Snapshot: sessionTimer.Snapshot(),
		Preview:  sessionTimer.NextSessionPreview(),
		Stats:    stats,
		Today:    stats.TodaysSessions(m.now()),
		Alert:    m.notice.text,
	}, m.bar)
}

func render(frame screen, bar progress.Model) string {
	snapshot := frame.Snapshot
	accent := sessionColor(snapshot.Session)
	face := faceStyle.BorderForeground(accent).Render(lipgloss.JoinVertical(lipgloss.Center,
		labelStyle.Foreground(accent).Render(snapshot.Session.Label()),
		clockStyle.Render(timer.FormatTime(snapshot.Remaining)),
		valueMuted.Render(string(snapshot.State)),
	))

	lines := []string{
		face,
		bar.ViewAs(snapshot.Progress),
		fmt.Sprintf("%s %s (%d min)", labelStyle.Render("Next:"), frame.Preview.Session.Label(), frame.Preview.Minutes),
		fmt.Sprintf("%s %d   %s %d   %s %d",
			labelStyle.Render("Points:"), frame.Stats.Points,
			labelStyle.Render("Today:"), frame.Today,
			labelStyle.Render("Streak:"), frame.Stats.Streak),
	}
	if frame.Alert != "" {
		lines = append(lines, noticeStyle.Render(frame.Alert))
	}
	lines = append(lines, helpStyle.Render(fmt.Sprintf("space %s  r reset  s skip  q quit", strings.ToLower(snapshot.State.ToggleLabel()))))
	return strings.Join(lines, "\n\n")
}
