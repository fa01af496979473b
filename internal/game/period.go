package game

import "fmt"

// PeriodLabel renders a period number for display: an English ordinal
// for regulation periods ("1st".."4th") and "OT{n}" beyond them.
func PeriodLabel(period, numberOfPeriods int) string {
	if period > numberOfPeriods {
		return fmt.Sprintf("OT%d", period-numberOfPeriods)
	}
	return ordinal(period)
}

// IsOvertime reports whether period is past regulation.
func IsOvertime(period, numberOfPeriods int) bool {
	return period > numberOfPeriods
}

// CanChangePeriod gates manual period changes: only while the match is
// live and the clock is stopped, so clock and period cannot desync.
func CanChangePeriod(status MatchStatus, clockRunning bool) bool {
	return status == StatusLive && !clockRunning
}

func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
		// 11th, 12th, 13th
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
