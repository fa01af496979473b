package server

import (
	"context"
	"fmt"
	"log/slog"
)

// SeedDemo creates two rule sets, two teams with five starters each,
// and one upcoming match between them. Idempotent: does nothing if any
// match already exists.
func (s *SQLiteStore) SeedDemo(ctx context.Context, logger *slog.Logger) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var fibaRules int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO game_rules (name, minutes_per_period, number_of_periods,
			overtime_minutes, fouls_for_bonus, timeouts_sixty, timeouts_thirty)
		VALUES ('FIBA', 10, 4, 5, 5, 2, 3)
		RETURNING id
	`).Scan(&fibaRules)
	if err != nil {
		return fmt.Errorf("seeding rules: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO game_rules (name, minutes_per_period, number_of_periods,
			overtime_minutes, fouls_for_bonus, timeouts_sixty, timeouts_thirty)
		VALUES ('NBA', 12, 4, 5, 5, 4, 3)
	`); err != nil {
		return fmt.Errorf("seeding rules: %w", err)
	}

	teams := map[string]int64{}
	for _, name := range []string{"Harbor Hawks", "Ridgeview Royals"} {
		var id int64
		if err := s.db.QueryRowContext(ctx,
			`INSERT INTO teams (name) VALUES (?) RETURNING id`, name).Scan(&id); err != nil {
			return fmt.Errorf("seeding team %q: %w", name, err)
		}
		teams[name] = id
	}

	var matchID int64
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO matches (team1_id, team2_id, league_name, game_rules_id, status)
		VALUES (?, ?, 'Metro League', ?, 'UPCOMING')
		RETURNING id
	`, teams["Harbor Hawks"], teams["Ridgeview Royals"], fibaRules).Scan(&matchID)
	if err != nil {
		return fmt.Errorf("seeding match: %w", err)
	}

	rosters := map[string][]string{
		"Harbor Hawks":     {"Avery Cole", "Jordan Reyes", "Sam Whitfield", "Theo Nakamura", "Marcus Bell"},
		"Ridgeview Royals": {"Dante Price", "Eli Brennan", "Noah Okafor", "Ty Sandoval", "Reese Calloway"},
	}
	for teamName, players := range rosters {
		teamID := teams[teamName]
		for i, playerName := range players {
			var playerID int64
			if err := s.db.QueryRowContext(ctx, `
				INSERT INTO players (team_id, name, jersey_number) VALUES (?, ?, ?)
				RETURNING id
			`, teamID, playerName, i+4).Scan(&playerID); err != nil {
				return fmt.Errorf("seeding player %q: %w", playerName, err)
			}
			if _, err := s.db.ExecContext(ctx, `
				INSERT INTO match_players (match_id, player_id, team_id, started, is_active, jersey_number)
				VALUES (?, ?, ?, 1, 1, ?)
			`, matchID, playerID, teamID, i+4); err != nil {
				return fmt.Errorf("seeding roster for %q: %w", playerName, err)
			}
		}
	}

	logger.Info("demo league seeded", "match_id", matchID)
	return nil
}
