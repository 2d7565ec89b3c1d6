package trip

import "fmt"

// FormatDuration renders whole seconds as "Hh Mm Ss".
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	hrs := seconds / 3600
	mins := (seconds % 3600) / 60
	secs := seconds % 60
	return fmt.Sprintf("%dh %dm %ds", hrs, mins, secs)
}
