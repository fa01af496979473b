package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/courtsidehq/courtside/internal/game"
)

const msgMatchNotLive = "Match must be live to add or edit events"

// SQLiteStore implements Store on a single SQLite database. Every
// mutator runs one transaction: the match status check, the sequence
// number read, and all side effects commit together or not at all.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// querier is satisfied by both *sql.DB and *sql.Tx so reads can run
// inside or outside a transaction.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type matchInfo struct {
	ID      int64
	Status  game.MatchStatus
	Team1ID *int64
	Team2ID *int64
	RulesID int64
}

func (m matchInfo) teamSide(teamID int64) (int, error) {
	switch {
	case m.Team1ID != nil && *m.Team1ID == teamID:
		return 1, nil
	case m.Team2ID != nil && *m.Team2ID == teamID:
		return 2, nil
	}
	return 0, validationf("team %d is not part of match %d", teamID, m.ID)
}

func (s *SQLiteStore) loadMatch(ctx context.Context, q querier, matchID int64) (matchInfo, error) {
	m := matchInfo{ID: matchID}
	var t1, t2 sql.NullInt64
	err := q.QueryRowContext(ctx, `
		SELECT status, team1_id, team2_id, game_rules_id
		FROM matches WHERE id = ?
	`, matchID).Scan(&m.Status, &t1, &t2, &m.RulesID)
	if errors.Is(err, sql.ErrNoRows) {
		return m, ErrNotFound
	}
	if t1.Valid {
		m.Team1ID = &t1.Int64
	}
	if t2.Valid {
		m.Team2ID = &t2.Int64
	}
	return m, err
}

func (s *SQLiteStore) loadRules(ctx context.Context, q querier, rulesID int64) (game.Rules, error) {
	r := game.Rules{ID: rulesID}
	err := q.QueryRowContext(ctx, `
		SELECT name, minutes_per_period, number_of_periods, overtime_minutes,
			fouls_for_bonus, timeouts_sixty, timeouts_thirty
		FROM game_rules WHERE id = ?
	`, rulesID).Scan(&r.Name, &r.MinutesPerPeriod, &r.NumberOfPeriods,
		&r.OvertimeMinutes, &r.FoulsForBonus, &r.TimeoutsSixty, &r.TimeoutsThirty)
	if errors.Is(err, sql.ErrNoRows) {
		return r, ErrNotFound
	}
	return r, err
}

// loadState reads the full aggregate: game_states joined with the match,
// its rule set, and team names (relation preferred, flat legacy columns
// as fallback). Returns ErrNotFound when the game has not started.
func (s *SQLiteStore) loadState(ctx context.Context, q querier, matchID int64) (GameState, error) {
	var gs GameState
	var clockSeconds, possession sql.NullInt64
	err := q.QueryRowContext(ctx, `
		SELECT gs.match_id, gs.clock_seconds, gs.clock_running, gs.period,
			gs.team1_score, gs.team2_score, gs.team1_fouls, gs.team2_fouls,
			gs.team1_timeouts, gs.team2_timeouts, gs.possession_team_id,
			gs.updated_at, m.status,
			COALESCE(t1.name, m.team1_name, ''),
			COALESCE(t2.name, m.team2_name, ''),
			r.minutes_per_period, r.number_of_periods, r.fouls_for_bonus
		FROM game_states gs
		JOIN matches m ON m.id = gs.match_id
		JOIN game_rules r ON r.id = m.game_rules_id
		LEFT JOIN teams t1 ON t1.id = m.team1_id
		LEFT JOIN teams t2 ON t2.id = m.team2_id
		WHERE gs.match_id = ?
	`, matchID).Scan(&gs.MatchID, &clockSeconds, &gs.ClockRunning, &gs.Period,
		&gs.Team1Score, &gs.Team2Score, &gs.Team1Fouls, &gs.Team2Fouls,
		&gs.Team1Timeouts, &gs.Team2Timeouts, &possession,
		&gs.UpdatedAt, &gs.MatchStatus,
		&gs.Team1Name, &gs.Team2Name,
		&gs.MinutesPerPeriod, &gs.NumberOfPeriods, &gs.FoulsForBonus)
	if errors.Is(err, sql.ErrNoRows) {
		return gs, ErrNotFound
	}
	if err != nil {
		return gs, err
	}
	if clockSeconds.Valid {
		v := int(clockSeconds.Int64)
		gs.ClockSeconds = &v
	}
	if possession.Valid {
		gs.PossessionTeamID = &possession.Int64
	}
	gs.PeriodLabel = game.PeriodLabel(gs.Period, gs.NumberOfPeriods)
	gs.Team1BonusStatus = game.BonusStatus(gs.Team1Fouls, gs.FoulsForBonus)
	gs.Team2BonusStatus = game.BonusStatus(gs.Team2Fouls, gs.FoulsForBonus)
	return gs, nil
}

// inTx runs fn in a transaction and commits unless fn errors.
func (s *SQLiteStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) GameState(ctx context.Context, matchID int64) (GameState, error) {
	return s.loadState(ctx, s.db, matchID)
}

func (s *SQLiteStore) StartGame(ctx context.Context, matchID int64, gameRulesID *int64) (GameState, error) {
	var gs GameState
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		m, err := s.loadMatch(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if m.Status != game.StatusUpcoming {
			return validationf("match %d is %s; only an upcoming match can be started", matchID, m.Status)
		}

		rulesID := m.RulesID
		if gameRulesID != nil {
			rulesID = *gameRulesID
		}
		rules, err := s.loadRules(ctx, tx, rulesID)
		if errors.Is(err, ErrNotFound) {
			return validationf("game rules %d not found", rulesID)
		}
		if err != nil {
			return err
		}
		if gameRulesID != nil {
			if _, err := tx.ExecContext(ctx,
				`UPDATE matches SET game_rules_id = ? WHERE id = ?`, rulesID, matchID); err != nil {
				return err
			}
		}

		timeouts := rules.TimeoutsSixty + rules.TimeoutsThirty
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO game_states (match_id, clock_seconds, clock_running, period,
				team1_score, team2_score, team1_fouls, team2_fouls,
				team1_timeouts, team2_timeouts)
			VALUES (?, ?, 0, 1, 0, 0, 0, 0, ?, ?)
		`, matchID, rules.MinutesPerPeriod*60, timeouts, timeouts); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO match_periods (match_id, period_number) VALUES (?, 1)
		`, matchID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE matches SET status = 'LIVE' WHERE id = ?`, matchID); err != nil {
			return err
		}

		gs, err = s.loadState(ctx, tx, matchID)
		return err
	})
	return gs, err
}

func (s *SQLiteStore) EndGame(ctx context.Context, matchID int64) (GameState, error) {
	var gs GameState
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		m, err := s.loadMatch(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if m.Status != game.StatusLive {
			return validationf("match %d is %s; only a live match can be ended", matchID, m.Status)
		}

		cur, err := s.loadState(ctx, tx, matchID)
		if err != nil {
			return err
		}

		if err := closeOpenPeriod(ctx, tx, matchID, cur); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE game_states
			SET clock_running = 0, updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
			WHERE match_id = ?
		`, matchID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE matches SET status = 'COMPLETED' WHERE id = ?`, matchID); err != nil {
			return err
		}

		gs, err = s.loadState(ctx, tx, matchID)
		return err
	})
	return gs, err
}

// closeOpenPeriod stamps ended_at on the match's open period and
// snapshots the cumulative score and fouls at close.
func closeOpenPeriod(ctx context.Context, tx *sql.Tx, matchID int64, cur GameState) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE match_periods
		SET ended_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now'),
			team1_score = ?, team2_score = ?, team1_fouls = ?, team2_fouls = ?
		WHERE match_id = ? AND ended_at IS NULL
	`, cur.Team1Score, cur.Team2Score, cur.Team1Fouls, cur.Team2Fouls, matchID)
	return err
}

func (s *SQLiteStore) ToggleClock(ctx context.Context, matchID int64, running bool, clockSeconds *int) (GameState, error) {
	var gs GameState
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		cur, err := s.loadState(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if cur.MatchStatus != game.StatusLive {
			return validationf("match %d is %s; the clock can only be toggled while live", matchID, cur.MatchStatus)
		}
		if clockSeconds != nil && *clockSeconds < 0 {
			return validationf("clockSeconds must not be negative")
		}

		// The pausing client's countdown is the single moment of truth
		// for remaining time; the server runs no ticker of its own.
		if _, err := tx.ExecContext(ctx, `
			UPDATE game_states
			SET clock_running = ?,
				clock_seconds = COALESCE(?, clock_seconds),
				updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
			WHERE match_id = ?
		`, running, intOrNil(clockSeconds), matchID); err != nil {
			return err
		}

		gs, err = s.loadState(ctx, tx, matchID)
		return err
	})
	return gs, err
}

func (s *SQLiteStore) UpdateGameState(ctx context.Context, matchID int64, patch GameStatePatch) (GameState, error) {
	var gs GameState
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		cur, err := s.loadState(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if cur.MatchStatus != game.StatusLive {
			return validationf("match %d is %s; the game state can only be updated while live", matchID, cur.MatchStatus)
		}

		next := cur
		if patch.ClockSeconds != nil {
			if *patch.ClockSeconds < 0 {
				return validationf("clockSeconds must not be negative")
			}
			next.ClockSeconds = patch.ClockSeconds
		}
		if patch.ClockRunning != nil {
			next.ClockRunning = *patch.ClockRunning
		}

		period := patch.Period
		if period == nil {
			period = patch.CurrentPeriod
		}
		if period != nil && *period != cur.Period {
			if *period < 1 {
				return validationf("period must be at least 1")
			}
			if !game.CanChangePeriod(cur.MatchStatus, cur.ClockRunning) {
				return validationf("pause the clock before changing the period")
			}
			if err := closeOpenPeriod(ctx, tx, matchID, cur); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO match_periods (match_id, period_number)
				VALUES (?, ?)
				ON CONFLICT (match_id, period_number) DO UPDATE SET ended_at = NULL
			`, matchID, *period); err != nil {
				return err
			}
			next.Period = *period
		}

		for _, f := range []struct {
			name  string
			value *int
			dst   *int
		}{
			{"team1Score", patch.Team1Score, &next.Team1Score},
			{"team2Score", patch.Team2Score, &next.Team2Score},
			{"team1Fouls", patch.Team1Fouls, &next.Team1Fouls},
			{"team2Fouls", patch.Team2Fouls, &next.Team2Fouls},
			{"team1Timeouts", patch.Team1Timeouts, &next.Team1Timeouts},
			{"team2Timeouts", patch.Team2Timeouts, &next.Team2Timeouts},
		} {
			if f.value == nil {
				continue
			}
			if *f.value < 0 {
				return validationf("%s must not be negative", f.name)
			}
			*f.dst = *f.value
		}
		if patch.PossessionTeamID != nil {
			next.PossessionTeamID = patch.PossessionTeamID
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE game_states
			SET clock_seconds = ?, clock_running = ?, period = ?,
				team1_score = ?, team2_score = ?, team1_fouls = ?, team2_fouls = ?,
				team1_timeouts = ?, team2_timeouts = ?, possession_team_id = ?,
				updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
			WHERE match_id = ?
		`, intOrNil(next.ClockSeconds), next.ClockRunning, next.Period,
			next.Team1Score, next.Team2Score, next.Team1Fouls, next.Team2Fouls,
			next.Team1Timeouts, next.Team2Timeouts, int64OrNil(next.PossessionTeamID),
			matchID); err != nil {
			return err
		}

		gs, err = s.loadState(ctx, tx, matchID)
		return err
	})
	return gs, err
}

func (s *SQLiteStore) AppendEvent(ctx context.Context, matchID int64, req EventRequest) (MatchEvent, error) {
	var ev MatchEvent
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		m, err := s.loadMatch(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if m.Status != game.StatusLive {
			return validationf(msgMatchNotLive)
		}
		ev, err = appendEventTx(ctx, tx, matchID, req)
		return err
	})
	return ev, err
}

// appendEventTx validates the event payload and inserts it with the
// next sequence number. The MAX+1 read and the insert share the caller's
// transaction, so concurrent appends for a match serialize; the unique
// (match_id, sequence_number) index backstops the assignment.
func appendEventTx(ctx context.Context, tx *sql.Tx, matchID int64, req EventRequest) (MatchEvent, error) {
	var ev MatchEvent
	if err := validateEventRequest(req); err != nil {
		return ev, err
	}

	err := tx.QueryRowContext(ctx, `
		INSERT INTO match_events (match_id, sequence_number, event_type, period,
			seconds_remaining, minute, team_id, player_id, assist_player_id, description)
		VALUES (?,
			(SELECT COALESCE(MAX(sequence_number), 0) + 1 FROM match_events WHERE match_id = ?),
			?, ?, ?, ?, ?, ?, ?, NULLIF(?, ''))
		RETURNING id, sequence_number, created_at
	`, matchID, matchID, req.EventType, req.Period,
		intOrNil(req.SecondsRemaining), req.Minute,
		int64OrNil(req.TeamID), int64OrNil(req.PlayerID), int64OrNil(req.AssistPlayerID),
		req.Description).Scan(&ev.ID, &ev.SequenceNumber, &ev.CreatedAt)
	if err != nil {
		return ev, err
	}

	ev.MatchID = matchID
	ev.EventType = req.EventType
	ev.Period = req.Period
	ev.SecondsRemaining = req.SecondsRemaining
	ev.Minute = req.Minute
	ev.TeamID = req.TeamID
	ev.PlayerID = req.PlayerID
	ev.AssistPlayerID = req.AssistPlayerID
	ev.Description = req.Description
	return ev, nil
}

func validateEventRequest(req EventRequest) error {
	if !req.EventType.Valid() {
		return validationf("unknown event type %q", req.EventType)
	}
	if req.Period < 1 {
		return validationf("period must be at least 1")
	}
	if req.SecondsRemaining != nil && *req.SecondsRemaining < 0 {
		return validationf("secondsRemaining must not be negative")
	}
	if req.EventType.RequiresPlayer() && req.PlayerID == nil {
		return validationf("event type %s requires a player", req.EventType)
	}
	if req.EventType.RequiresTeam() && req.TeamID == nil {
		return validationf("event type %s requires a team", req.EventType)
	}
	if req.AssistPlayerID != nil && !req.EventType.AllowsAssist() {
		return validationf("only made field goals may carry an assist")
	}
	return nil
}

func (s *SQLiteStore) UpdateEvent(ctx context.Context, matchID, eventID int64, req EventUpdateRequest) (MatchEvent, error) {
	var ev MatchEvent
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		m, err := s.loadMatch(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if m.Status != game.StatusLive {
			return validationf(msgMatchNotLive)
		}

		cur, err := scanEvent(tx.QueryRowContext(ctx,
			selectEvent+` WHERE id = ? AND match_id = ?`, eventID, matchID))
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if req.EventType != nil && *req.EventType != cur.EventType {
			return validationf("event type cannot be changed after creation")
		}
		if req.Period != nil {
			if *req.Period < 1 {
				return validationf("period must be at least 1")
			}
			cur.Period = *req.Period
		}
		if req.SecondsRemaining != nil {
			if *req.SecondsRemaining < 0 {
				return validationf("secondsRemaining must not be negative")
			}
			cur.SecondsRemaining = req.SecondsRemaining
		}
		if req.Minute != nil {
			cur.Minute = *req.Minute
		}
		if req.TeamID != nil {
			cur.TeamID = req.TeamID
		}
		if req.PlayerID != nil {
			cur.PlayerID = req.PlayerID
		}
		if req.AssistPlayerID != nil {
			if !cur.EventType.AllowsAssist() {
				return validationf("only made field goals may carry an assist")
			}
			cur.AssistPlayerID = req.AssistPlayerID
		}
		if req.Description != nil {
			cur.Description = *req.Description
		}
		if cur.EventType.RequiresPlayer() && cur.PlayerID == nil {
			return validationf("event type %s requires a player", cur.EventType)
		}
		if cur.EventType.RequiresTeam() && cur.TeamID == nil {
			return validationf("event type %s requires a team", cur.EventType)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE match_events
			SET period = ?, seconds_remaining = ?, minute = ?,
				team_id = ?, player_id = ?, assist_player_id = ?,
				description = NULLIF(?, '')
			WHERE id = ? AND match_id = ?
		`, cur.Period, intOrNil(cur.SecondsRemaining), cur.Minute,
			int64OrNil(cur.TeamID), int64OrNil(cur.PlayerID), int64OrNil(cur.AssistPlayerID),
			cur.Description, eventID, matchID); err != nil {
			return err
		}

		ev = cur
		return nil
	})
	return ev, err
}

// UndoEvent soft-deletes: the row keeps its sequence number and stays
// in the log, but disappears from every listing.
func (s *SQLiteStore) UndoEvent(ctx context.Context, matchID, eventID int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		m, err := s.loadMatch(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if m.Status != game.StatusLive {
			return validationf(msgMatchNotLive)
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE match_events SET is_undone = 1 WHERE id = ? AND match_id = ?
		`, eventID, matchID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

const selectEvent = `
	SELECT id, match_id, sequence_number, event_type, period,
		seconds_remaining, minute, team_id, player_id, assist_player_id,
		COALESCE(description, ''), is_undone, created_at
	FROM match_events`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (MatchEvent, error) {
	var ev MatchEvent
	var secs, teamID, playerID, assistID sql.NullInt64
	err := row.Scan(&ev.ID, &ev.MatchID, &ev.SequenceNumber, &ev.EventType,
		&ev.Period, &secs, &ev.Minute, &teamID, &playerID, &assistID,
		&ev.Description, &ev.IsUndone, &ev.CreatedAt)
	if err != nil {
		return ev, err
	}
	if secs.Valid {
		v := int(secs.Int64)
		ev.SecondsRemaining = &v
	}
	if teamID.Valid {
		ev.TeamID = &teamID.Int64
	}
	if playerID.Valid {
		ev.PlayerID = &playerID.Int64
	}
	if assistID.Valid {
		ev.AssistPlayerID = &assistID.Int64
	}
	return ev, nil
}

func (s *SQLiteStore) ListEvents(ctx context.Context, matchID int64, filter EventFilter) ([]MatchEvent, error) {
	if _, err := s.loadMatch(ctx, s.db, matchID); err != nil {
		return nil, err
	}

	query := selectEvent + ` WHERE match_id = ? AND is_undone = 0`
	args := []any{matchID}
	if filter.TeamID != nil {
		query += ` AND team_id = ?`
		args = append(args, *filter.TeamID)
	}
	if filter.EventType != nil {
		query += ` AND event_type = ?`
		args = append(args, *filter.EventType)
	}
	query += ` ORDER BY sequence_number`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []MatchEvent{}
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (s *SQLiteStore) RecordTimeout(ctx context.Context, matchID int64, req TimeoutRequest) (GameState, error) {
	var gs GameState
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		m, err := s.loadMatch(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if m.Status != game.StatusLive {
			return validationf("match %d is %s; timeouts can only be recorded while live", matchID, m.Status)
		}
		if !req.TimeoutType.Valid() {
			return validationf("unknown timeout type %q", req.TimeoutType)
		}
		if req.Period < 1 {
			return validationf("period must be at least 1")
		}
		side, err := m.teamSide(req.TeamID)
		if err != nil {
			return err
		}

		cur, err := s.loadState(ctx, tx, matchID)
		if err != nil {
			return err
		}
		remaining := cur.Team1Timeouts
		if side == 2 {
			remaining = cur.Team2Timeouts
		}
		// Spending the last timeout is allowed (the UI warns); a counter
		// already below zero means the row is corrupt.
		if remaining < 0 {
			return fmt.Errorf("match %d team %d: negative timeout counter %d", matchID, req.TeamID, remaining)
		}

		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`
			UPDATE game_states
			SET team%d_timeouts = team%d_timeouts - 1,
				updated_at = strftime('%%Y-%%m-%%dT%%H:%%M:%%fZ', 'now')
			WHERE match_id = ?
		`, side, side), matchID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO timeouts (match_id, team_id, period, timeout_type, seconds_remaining)
			VALUES (?, ?, ?, ?, ?)
		`, matchID, req.TeamID, req.Period, req.TimeoutType, intOrNil(req.SecondsRemaining)); err != nil {
			return err
		}

		if _, err := appendEventTx(ctx, tx, matchID, EventRequest{
			EventType:        game.EventTimeout,
			Period:           req.Period,
			SecondsRemaining: req.SecondsRemaining,
			TeamID:           &req.TeamID,
			Description:      fmt.Sprintf("%d second timeout", req.TimeoutType.Seconds()),
		}); err != nil {
			return err
		}

		gs, err = s.loadState(ctx, tx, matchID)
		return err
	})
	return gs, err
}

func (s *SQLiteStore) ListTimeouts(ctx context.Context, matchID int64) ([]Timeout, error) {
	if _, err := s.loadMatch(ctx, s.db, matchID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, match_id, team_id, period, timeout_type, seconds_remaining, created_at
		FROM timeouts WHERE match_id = ? ORDER BY id
	`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	timeouts := []Timeout{}
	for rows.Next() {
		var to Timeout
		var secs sql.NullInt64
		if err := rows.Scan(&to.ID, &to.MatchID, &to.TeamID, &to.Period,
			&to.TimeoutType, &secs, &to.CreatedAt); err != nil {
			return nil, err
		}
		if secs.Valid {
			v := int(secs.Int64)
			to.SecondsRemaining = &v
		}
		timeouts = append(timeouts, to)
	}
	return timeouts, rows.Err()
}

func (s *SQLiteStore) RecordSubstitution(ctx context.Context, matchID int64, req SubstitutionRequest) (GameState, error) {
	var gs GameState
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		m, err := s.loadMatch(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if m.Status != game.StatusLive {
			return validationf("match %d is %s; substitutions can only be recorded while live", matchID, m.Status)
		}
		if req.PlayerInID == req.PlayerOutID {
			return validationf("playerInId and playerOutId must differ")
		}
		if req.Period < 1 {
			return validationf("period must be at least 1")
		}
		if _, err := m.teamSide(req.TeamID); err != nil {
			return err
		}

		// The outgoing player must be active on this team. Legacy match
		// rosters never set is_active; for those, started stands in.
		var isActive sql.NullBool
		var started bool
		err = tx.QueryRowContext(ctx, `
			SELECT is_active, started FROM match_players
			WHERE match_id = ? AND player_id = ? AND team_id = ?
		`, matchID, req.PlayerOutID, req.TeamID).Scan(&isActive, &started)
		if errors.Is(err, sql.ErrNoRows) {
			return validationf("outgoing player %d is not on the match roster", req.PlayerOutID)
		}
		if err != nil {
			return err
		}

		active := started
		if isActive.Valid {
			active = isActive.Bool
		} else {
			var activeSet int
			if err := tx.QueryRowContext(ctx, `
				SELECT COUNT(*) FROM match_players
				WHERE match_id = ? AND team_id = ? AND is_active IS NOT NULL
			`, matchID, req.TeamID).Scan(&activeSet); err != nil {
				return err
			}
			if activeSet > 0 {
				active = false
			}
		}
		if !active {
			return validationf("outgoing player %d is not active", req.PlayerOutID)
		}

		// Only a player not yet rostered for the match may come in.
		var rostered int
		if err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM match_players WHERE match_id = ? AND player_id = ?
		`, matchID, req.PlayerInID).Scan(&rostered); err != nil {
			return err
		}
		if rostered > 0 {
			return validationf("incoming player %d is already on the match roster", req.PlayerInID)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE match_players SET is_active = 0
			WHERE match_id = ? AND player_id = ?
		`, matchID, req.PlayerOutID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `
			INSERT INTO match_players (match_id, player_id, team_id, started, is_active,
				jersey_number, position)
			SELECT ?, p.id, ?, 0, 1, p.jersey_number, p.position
			FROM players p WHERE p.id = ?
		`, matchID, req.TeamID, req.PlayerInID)
		if err != nil {
			return err
		}
		// Zero rows inserted means the SELECT matched no player row.
		if n, _ := res.RowsAffected(); n == 0 {
			return validationf("player %d not found", req.PlayerInID)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO substitutions (match_id, team_id, player_in_id, player_out_id,
				period, seconds_remaining)
			VALUES (?, ?, ?, ?, ?, ?)
		`, matchID, req.TeamID, req.PlayerInID, req.PlayerOutID,
			req.Period, intOrNil(req.SecondsRemaining)); err != nil {
			return err
		}

		for _, e := range []struct {
			typ    game.EventType
			player int64
		}{
			{game.EventSubstitutionOut, req.PlayerOutID},
			{game.EventSubstitutionIn, req.PlayerInID},
		} {
			player := e.player
			if _, err := appendEventTx(ctx, tx, matchID, EventRequest{
				EventType:        e.typ,
				Period:           req.Period,
				SecondsRemaining: req.SecondsRemaining,
				TeamID:           &req.TeamID,
				PlayerID:         &player,
			}); err != nil {
				return err
			}
		}

		gs, err = s.loadState(ctx, tx, matchID)
		return err
	})
	return gs, err
}

// PlayByPlay returns the timeline view: non-undone events in game order
// (period, then legacy minute, then sequence) plus the period records.
func (s *SQLiteStore) PlayByPlay(ctx context.Context, matchID int64) (PlayByPlay, error) {
	pbp := PlayByPlay{Events: []MatchEvent{}, Periods: []MatchPeriod{}}
	if _, err := s.loadMatch(ctx, s.db, matchID); err != nil {
		return pbp, err
	}

	rows, err := s.db.QueryContext(ctx,
		selectEvent+` WHERE match_id = ? AND is_undone = 0
		ORDER BY period, minute, sequence_number`, matchID)
	if err != nil {
		return pbp, err
	}
	defer rows.Close()
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return pbp, err
		}
		pbp.Events = append(pbp.Events, ev)
	}
	if err := rows.Err(); err != nil {
		return pbp, err
	}

	prows, err := s.db.QueryContext(ctx, `
		SELECT id, match_id, period_number, started_at, ended_at,
			team1_score, team2_score, team1_fouls, team2_fouls
		FROM match_periods WHERE match_id = ? ORDER BY period_number
	`, matchID)
	if err != nil {
		return pbp, err
	}
	defer prows.Close()
	for prows.Next() {
		var p MatchPeriod
		var ended sql.NullString
		if err := prows.Scan(&p.ID, &p.MatchID, &p.PeriodNumber, &p.StartedAt,
			&ended, &p.Team1Score, &p.Team2Score, &p.Team1Fouls, &p.Team2Fouls); err != nil {
			return pbp, err
		}
		if ended.Valid {
			p.EndedAt = &ended.String
		}
		pbp.Periods = append(pbp.Periods, p)
	}
	return pbp, prows.Err()
}

// ScoreFromEvents replays the non-undone event log and sums made shots
// per side. It is the consistency check for the explicit-update score
// contract, not the live update mechanism.
func (s *SQLiteStore) ScoreFromEvents(ctx context.Context, matchID int64) (int, int, error) {
	m, err := s.loadMatch(ctx, s.db, matchID)
	if err != nil {
		return 0, 0, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT event_type, team_id FROM match_events
		WHERE match_id = ? AND is_undone = 0 AND team_id IS NOT NULL
	`, matchID)
	if err != nil {
		return 0, 0, err
	}
	defer rows.Close()

	var team1, team2 int
	for rows.Next() {
		var typ game.EventType
		var teamID int64
		if err := rows.Scan(&typ, &teamID); err != nil {
			return 0, 0, err
		}
		points := typ.Points()
		if points == 0 {
			continue
		}
		switch {
		case m.Team1ID != nil && *m.Team1ID == teamID:
			team1 += points
		case m.Team2ID != nil && *m.Team2ID == teamID:
			team2 += points
		}
	}
	return team1, team2, rows.Err()
}

func intOrNil(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func int64OrNil(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
