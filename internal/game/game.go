// Package game defines the pure rules of live basketball tracking:
// clock arithmetic, period labels, foul bonus thresholds, and the event
// catalog. It has no dependencies beyond the standard library.
package game

// MatchStatus is the lifecycle of a match. A GameState row exists only
// once the match has left UPCOMING.
type MatchStatus string

const (
	StatusUpcoming  MatchStatus = "UPCOMING"
	StatusLive      MatchStatus = "LIVE"
	StatusCompleted MatchStatus = "COMPLETED"
)

// Rules is a match's configured rule set, owned by the content system
// and consumed here read-only.
type Rules struct {
	ID               int64
	Name             string
	MinutesPerPeriod int
	NumberOfPeriods  int
	OvertimeMinutes  int
	FoulsForBonus    int
	TimeoutsSixty    int
	TimeoutsThirty   int
}

// TimeoutType distinguishes full and short timeouts.
type TimeoutType string

const (
	TimeoutSixty  TimeoutType = "SIXTY_SECOND"
	TimeoutThirty TimeoutType = "THIRTY_SECOND"
)

func (t TimeoutType) Valid() bool {
	return t == TimeoutSixty || t == TimeoutThirty
}

// Seconds returns the length of the timeout.
func (t TimeoutType) Seconds() int {
	if t == TimeoutThirty {
		return 30
	}
	return 60
}
