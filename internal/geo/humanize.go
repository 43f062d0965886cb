package geo

import "fmt"

// HumanizeDuration renders a travel time for popups: "45 s", "12 min", "1 h 05 min".
func HumanizeDuration(seconds int) string {
	const (
		minute = 60
		hour   = 60 * minute
	)

	if seconds < 0 {
		seconds = 0
	}

	switch {
	case seconds < minute:
		return fmt.Sprintf("%d s", seconds)
	case seconds < hour:
		return fmt.Sprintf("%d min", seconds/minute)
	default:
		return fmt.Sprintf("%d h %02d min", seconds/hour, seconds%hour/minute)
	}
}
