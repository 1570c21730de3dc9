package stats

import (
	"fmt"
	"strings"
)

// FormatDuration renders seconds the way the dashboard shows them: "0m" for
// zero, hours and minutes when present, seconds only below one hour.
// 3725 -> "1h 2m", 65 -> "1m 5s", 3600 -> "1h".
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "0m"
	}

	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	parts := make([]string, 0, 3)
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if secs > 0 && hours == 0 {
		parts = append(parts, fmt.Sprintf("%ds", secs))
	}
	return strings.Join(parts, " ")
}
