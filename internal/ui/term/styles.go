package term

import (
	"pomodoro/internal/core/timer"

	"github.com/charmbracelet/lipgloss"
)

var (
	faceStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 4).Align(lipgloss.Center)
	clockStyle  = lipgloss.NewStyle().Bold(true)
	labelStyle  = lipgloss.NewStyle().Bold(true)
	valueMuted  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24")).Padding(0, 1)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func sessionColor(session timer.SessionType) lipgloss.Color {
	switch session {
	case timer.SessionShortBreak:
		return lipgloss.Color("2")
	case timer.SessionLongBreak:
		return lipgloss.Color("33")
	default:
		return lipgloss.Color("1")
	}
}
