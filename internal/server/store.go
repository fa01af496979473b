package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/courtsidehq/courtside/internal/game"
)

var ErrNotFound = errors.New("not found")

// ValidationError is a precondition failure surfaced to the caller as
// a 400 with its message verbatim. It is never retried.
type ValidationError struct {
	msg string
}

func (e ValidationError) Error() string { return e.msg }

func validationf(format string, args ...any) error {
	return ValidationError{msg: fmt.Sprintf(format, args...)}
}

// GameState is the live aggregate for one match: clock, period, scores,
// fouls, timeouts, and possession, plus fields derived for display
// (period label, bonus status, resolved team names).
type GameState struct {
	MatchID          int64            `json:"matchId"`
	MatchStatus      game.MatchStatus `json:"matchStatus"`
	ClockSeconds     *int             `json:"clockSeconds"`
	ClockRunning     bool             `json:"clockRunning"`
	Period           int              `json:"period"`
	PeriodLabel      string           `json:"periodLabel"`
	Team1Score       int              `json:"team1Score"`
	Team2Score       int              `json:"team2Score"`
	Team1Fouls       int              `json:"team1Fouls"`
	Team2Fouls       int              `json:"team2Fouls"`
	Team1Timeouts    int              `json:"team1Timeouts"`
	Team2Timeouts    int              `json:"team2Timeouts"`
	PossessionTeamID *int64           `json:"possessionTeamId"`
	Team1Name        string           `json:"team1Name"`
	Team2Name        string           `json:"team2Name"`
	Team1BonusStatus string           `json:"team1BonusStatus"`
	Team2BonusStatus string           `json:"team2BonusStatus"`
	FoulsForBonus    int              `json:"foulsForBonus"`
	MinutesPerPeriod int              `json:"minutesPerPeriod"`
	NumberOfPeriods  int              `json:"numberOfPeriods"`
	UpdatedAt        string           `json:"updatedAt"`
}

// GameStatePatch is a partial update to GameState. CurrentPeriod is a
// legacy alias for Period; when both are set, Period wins.
type GameStatePatch struct {
	ClockSeconds     *int   `json:"clockSeconds"`
	ClockRunning     *bool  `json:"clockRunning"`
	Period           *int   `json:"period"`
	CurrentPeriod    *int   `json:"currentPeriod"`
	Team1Score       *int   `json:"team1Score"`
	Team2Score       *int   `json:"team2Score"`
	Team1Fouls       *int   `json:"team1Fouls"`
	Team2Fouls       *int   `json:"team2Fouls"`
	Team1Timeouts    *int   `json:"team1Timeouts"`
	Team2Timeouts    *int   `json:"team2Timeouts"`
	PossessionTeamID *int64 `json:"possessionTeamId"`
}

type MatchEvent struct {
	ID               int64          `json:"id"`
	MatchID          int64          `json:"matchId"`
	SequenceNumber   int            `json:"sequenceNumber"`
	EventType        game.EventType `json:"eventType"`
	Period           int            `json:"period"`
	SecondsRemaining *int           `json:"secondsRemaining"`
	Minute           int            `json:"minute"`
	TeamID           *int64         `json:"teamId"`
	PlayerID         *int64         `json:"playerId"`
	AssistPlayerID   *int64         `json:"assistPlayerId"`
	Description      string         `json:"description,omitempty"`
	IsUndone         bool           `json:"isUndone"`
	CreatedAt        string         `json:"createdAt"`
}

// EventRequest creates a play-by-play event. Field requirements depend
// on the event type (game.EventType rules).
type EventRequest struct {
	EventType        game.EventType `json:"eventType"`
	Period           int            `json:"period"`
	SecondsRemaining *int           `json:"secondsRemaining"`
	Minute           int            `json:"minute"`
	TeamID           *int64         `json:"teamId"`
	PlayerID         *int64         `json:"playerId"`
	AssistPlayerID   *int64         `json:"assistPlayerId"`
	Description      string         `json:"description"`
}

// EventUpdateRequest edits an existing event. The event type itself is
// immutable after creation; sending a different one is rejected.
type EventUpdateRequest struct {
	EventType        *game.EventType `json:"eventType"`
	Period           *int            `json:"period"`
	SecondsRemaining *int            `json:"secondsRemaining"`
	Minute           *int            `json:"minute"`
	TeamID           *int64          `json:"teamId"`
	PlayerID         *int64          `json:"playerId"`
	AssistPlayerID   *int64          `json:"assistPlayerId"`
	Description      *string         `json:"description"`
}

// EventFilter narrows event listings. Nil fields match everything.
type EventFilter struct {
	TeamID    *int64
	EventType *game.EventType
}

type Timeout struct {
	ID               int64            `json:"id"`
	MatchID          int64            `json:"matchId"`
	TeamID           int64            `json:"teamId"`
	Period           int              `json:"period"`
	TimeoutType      game.TimeoutType `json:"timeoutType"`
	SecondsRemaining *int             `json:"secondsRemaining"`
	CreatedAt        string           `json:"createdAt"`
}

type TimeoutRequest struct {
	TeamID           int64            `json:"teamId"`
	TimeoutType      game.TimeoutType `json:"timeoutType"`
	Period           int              `json:"period"`
	SecondsRemaining *int             `json:"secondsRemaining"`
}

type Substitution struct {
	ID               int64  `json:"id"`
	MatchID          int64  `json:"matchId"`
	TeamID           int64  `json:"teamId"`
	PlayerInID       int64  `json:"playerInId"`
	PlayerOutID      int64  `json:"playerOutId"`
	Period           int    `json:"period"`
	SecondsRemaining *int   `json:"secondsRemaining"`
	CreatedAt        string `json:"createdAt"`
}

type SubstitutionRequest struct {
	TeamID           int64 `json:"teamId"`
	PlayerInID       int64 `json:"playerInId"`
	PlayerOutID      int64 `json:"playerOutId"`
	Period           int   `json:"period"`
	SecondsRemaining *int  `json:"secondsRemaining"`
}

type MatchPeriod struct {
	ID           int64   `json:"id"`
	MatchID      int64   `json:"matchId"`
	PeriodNumber int     `json:"periodNumber"`
	StartedAt    string  `json:"startedAt"`
	EndedAt      *string `json:"endedAt"`
	Team1Score   int     `json:"team1Score"`
	Team2Score   int     `json:"team2Score"`
	Team1Fouls   int     `json:"team1Fouls"`
	Team2Fouls   int     `json:"team2Fouls"`
}

// PlayByPlay is the timeline view: events in display order plus the
// period records they fall into.
type PlayByPlay struct {
	Events  []MatchEvent  `json:"events"`
	Periods []MatchPeriod `json:"periods"`
}

// Store is the persistence contract for the game session orchestrator.
// Every mutator runs as a single transaction that revalidates match
// state inside it and returns the freshly persisted aggregate, so a
// reader never observes a partial write.
type Store interface {
	StartGame(ctx context.Context, matchID int64, gameRulesID *int64) (GameState, error)
	EndGame(ctx context.Context, matchID int64) (GameState, error)
	ToggleClock(ctx context.Context, matchID int64, running bool, clockSeconds *int) (GameState, error)
	GameState(ctx context.Context, matchID int64) (GameState, error)
	UpdateGameState(ctx context.Context, matchID int64, patch GameStatePatch) (GameState, error)

	AppendEvent(ctx context.Context, matchID int64, req EventRequest) (MatchEvent, error)
	UpdateEvent(ctx context.Context, matchID, eventID int64, req EventUpdateRequest) (MatchEvent, error)
	UndoEvent(ctx context.Context, matchID, eventID int64) error
	ListEvents(ctx context.Context, matchID int64, filter EventFilter) ([]MatchEvent, error)

	RecordTimeout(ctx context.Context, matchID int64, req TimeoutRequest) (GameState, error)
	ListTimeouts(ctx context.Context, matchID int64) ([]Timeout, error)

	RecordSubstitution(ctx context.Context, matchID int64, req SubstitutionRequest) (GameState, error)

	PlayByPlay(ctx context.Context, matchID int64) (PlayByPlay, error)
	ScoreFromEvents(ctx context.Context, matchID int64) (team1, team2 int, err error)
}
