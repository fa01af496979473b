package game

// EventType enumerates the play-by-play event catalog.
type EventType string

const (
	EventTwoPointMade        EventType = "TWO_POINT_MADE"
	EventTwoPointMiss        EventType = "TWO_POINT_MISS"
	EventThreePointMade      EventType = "THREE_POINT_MADE"
	EventThreePointMiss      EventType = "THREE_POINT_MISS"
	EventFreeThrowMade       EventType = "FREE_THROW_MADE"
	EventFreeThrowMiss       EventType = "FREE_THROW_MISS"
	EventRebound             EventType = "REBOUND"
	EventAssist              EventType = "ASSIST"
	EventSteal               EventType = "STEAL"
	EventBlock               EventType = "BLOCK"
	EventTurnover            EventType = "TURNOVER"
	EventFoulPersonal        EventType = "FOUL_PERSONAL"
	EventFoulTechnical       EventType = "FOUL_TECHNICAL"
	EventFoulUnsportsmanlike EventType = "FOUL_UNSPORTSMANLIKE"
	EventSubstitutionIn      EventType = "SUBSTITUTION_IN"
	EventSubstitutionOut     EventType = "SUBSTITUTION_OUT"
	EventTimeout             EventType = "TIMEOUT"
	EventInjury              EventType = "INJURY"
	EventBreak               EventType = "BREAK"
	EventPlayResumed         EventType = "PLAY_RESUMED"
	EventOther               EventType = "OTHER"
)

var eventTypes = map[EventType]struct{}{
	EventTwoPointMade: {}, EventTwoPointMiss: {},
	EventThreePointMade: {}, EventThreePointMiss: {},
	EventFreeThrowMade: {}, EventFreeThrowMiss: {},
	EventRebound: {}, EventAssist: {}, EventSteal: {}, EventBlock: {},
	EventTurnover: {}, EventFoulPersonal: {}, EventFoulTechnical: {},
	EventFoulUnsportsmanlike: {}, EventSubstitutionIn: {},
	EventSubstitutionOut: {}, EventTimeout: {}, EventInjury: {},
	EventBreak: {}, EventPlayResumed: {}, EventOther: {},
}

func (t EventType) Valid() bool {
	_, ok := eventTypes[t]
	return ok
}

// RequiresPlayer reports whether the event type must carry a player.
// Timeouts, breaks, resumes, and OTHER are the only playerless events.
func (t EventType) RequiresPlayer() bool {
	switch t {
	case EventTimeout, EventBreak, EventPlayResumed, EventOther:
		return false
	}
	return true
}

// AllowsAssist reports whether the event type may carry an assisting
// player. Only made field goals do.
func (t EventType) AllowsAssist() bool {
	return t == EventTwoPointMade || t == EventThreePointMade
}

// RequiresTeam reports whether the event type must carry a team.
// Breaks and resumes are game-level.
func (t EventType) RequiresTeam() bool {
	return t != EventBreak && t != EventPlayResumed
}

// Points returns the scoring value of the event type, zero for
// anything that is not a made shot. Used to replay the score from the
// event log as a consistency check.
func (t EventType) Points() int {
	switch t {
	case EventThreePointMade:
		return 3
	case EventTwoPointMade:
		return 2
	case EventFreeThrowMade:
		return 1
	}
	return 0
}
