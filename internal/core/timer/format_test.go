package timer

import "testing"

func TestFormatTime(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "00:00"},
		{5, "00:05"},
		{59, "00:59"},
		{60, "01:00"},
		{1500, "25:00"},
		{1499, "24:59"},
		{5999, "99:59"},
		{6000, "100:00"},
		{7265, "121:05"},
		{-10, "00:00"},
	}

	for _, tc := range tests {
		if got := FormatTime(tc.seconds); got != tc.want {
			t.Errorf("FormatTime(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestSessionTypeLabel(t *testing.T) {
	if SessionWork.Label() != "Work Session" {
		t.Errorf("unexpected work label %q", SessionWork.Label())
	}
	if SessionLongBreak.Label() != "Long Break" {
		t.Errorf("unexpected long break label %q", SessionLongBreak.Label())
	}
	if SessionWork.IsBreak() || !SessionShortBreak.IsBreak() || !SessionLongBreak.IsBreak() {
		t.Error("IsBreak misclassified a session type")
	}
}

func TestRunStateToggleLabel(t *testing.T) {
	cases := map[RunState]string{
		StateStopped: "Start",
		StateRunning: "Pause",
		StatePaused:  "Resume",
	}
	for state, want := range cases {
		if got := state.ToggleLabel(); got != want {
			t.Errorf("%s: expected %q, got %q", state, want, got)
		}
	}
}
