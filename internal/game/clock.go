package game

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatClock renders a clock value as "MM:SS", zero-padded. Negative
// input renders as "00:00" rather than failing; the caller decides
// whether a negative value is an error.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// ParseClock parses "MM:SS" into total seconds. The second return is
// false for malformed input, negative components, or seconds >= 60.
func ParseClock(s string) (int, bool) {
	minStr, secStr, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, false
	}
	min, err := strconv.Atoi(minStr)
	if err != nil || min < 0 {
		return 0, false
	}
	sec, err := strconv.Atoi(secStr)
	if err != nil || sec < 0 || sec > 59 {
		return 0, false
	}
	return min*60 + sec, true
}

// ValidClock reports whether seconds fits on the clock of a period
// that is periodMinutes long.
func ValidClock(seconds, periodMinutes int) bool {
	return seconds >= 0 && seconds <= periodMinutes*60
}
