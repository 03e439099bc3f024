package timer

import "fmt"

// FormatTime renders seconds as MM:SS. Minutes grow past two digits for
// sessions of 100 minutes or more.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
