package server

import (
	"net/http"
	"testing"

	"github.com/courtsidehq/courtside/internal/game"
)

func TestRecordSubstitution(t *testing.T) {
	env := newTestEnv(t)
	env.startGame()
	out := env.team1Players[0]

	rr := env.do(http.MethodPost, env.gamePath("/substitution"), SubstitutionRequest{
		TeamID:           env.team1ID,
		PlayerInID:       env.benchID,
		PlayerOutID:      out,
		Period:           2,
		SecondsRemaining: intPtr(455),
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rr.Code, rr.Body.String())
	}

	// Roster flip: outgoing benched, incoming rostered and active.
	var outActive, inActive, inStarted bool
	if err := env.db.QueryRow(`
		SELECT is_active FROM match_players WHERE match_id = ? AND player_id = ?
	`, env.matchID, out).Scan(&outActive); err != nil {
		t.Fatalf("reading outgoing roster row: %v", err)
	}
	if outActive {
		t.Error("outgoing player still active")
	}
	if err := env.db.QueryRow(`
		SELECT is_active, started FROM match_players WHERE match_id = ? AND player_id = ?
	`, env.matchID, env.benchID).Scan(&inActive, &inStarted); err != nil {
		t.Fatalf("reading incoming roster row: %v", err)
	}
	if !inActive || inStarted {
		t.Errorf("incoming player active=%v started=%v, want active non-starter", inActive, inStarted)
	}

	// Both legs land in the event log, out before in.
	events := decode[[]MatchEvent](t, env.do(http.MethodGet, env.eventsPath(""), nil))
	if len(events) != 2 {
		t.Fatalf("log has %d events, want SUBSTITUTION_OUT and SUBSTITUTION_IN", len(events))
	}
	if events[0].EventType != game.EventSubstitutionOut || *events[0].PlayerID != out {
		t.Errorf("first event = %s player %v, want SUBSTITUTION_OUT for %d", events[0].EventType, events[0].PlayerID, out)
	}
	if events[1].EventType != game.EventSubstitutionIn || *events[1].PlayerID != env.benchID {
		t.Errorf("second event = %s player %v, want SUBSTITUTION_IN for %d", events[1].EventType, events[1].PlayerID, env.benchID)
	}
}

func TestRecordSubstitutionValidation(t *testing.T) {
	env := newTestEnv(t)
	env.startGame()

	tests := []struct {
		name string
		req  SubstitutionRequest
	}{
		{"same player both ways", SubstitutionRequest{
			TeamID: env.team1ID, PlayerInID: env.benchID, PlayerOutID: env.benchID, Period: 1,
		}},
		{"incoming already rostered", SubstitutionRequest{
			TeamID: env.team1ID, PlayerInID: env.team1Players[1], PlayerOutID: env.team1Players[0], Period: 1,
		}},
		{"outgoing not rostered", SubstitutionRequest{
			TeamID: env.team1ID, PlayerInID: env.team1Players[0], PlayerOutID: env.benchID, Period: 1,
		}},
		{"foreign team", SubstitutionRequest{
			TeamID: 9999, PlayerInID: env.benchID, PlayerOutID: env.team1Players[0], Period: 1,
		}},
	}
	for _, tt := range tests {
		if rr := env.do(http.MethodPost, env.gamePath("/substitution"), tt.req); rr.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tt.name, rr.Code)
		}
	}
}

// An incoming player id with no players row is a precondition failure,
// not a foreign key blowup: readable 400, no partial write.
func TestRecordSubstitutionUnknownIncomingPlayer(t *testing.T) {
	env := newTestEnv(t)
	env.startGame()

	rr := env.do(http.MethodPost, env.gamePath("/substitution"), SubstitutionRequest{
		TeamID: env.team1ID, PlayerInID: 424242, PlayerOutID: env.team1Players[0], Period: 1,
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rr.Code, rr.Body.String())
	}
	if msg := errMessage(t, rr); msg != "player 424242 not found" {
		t.Errorf("error = %q, want a readable not-found message", msg)
	}

	// The transaction rolled back: the outgoing starter is still active.
	var active bool
	if err := env.db.QueryRow(`
		SELECT is_active FROM match_players WHERE match_id = ? AND player_id = ?
	`, env.matchID, env.team1Players[0]).Scan(&active); err != nil {
		t.Fatalf("reading roster row: %v", err)
	}
	if !active {
		t.Error("outgoing player was benched despite the failed substitution")
	}
}

// Rosters written before is_active existed carry NULL there; for those,
// started decides who may be subbed out.
func TestRecordSubstitutionLegacyRosterFallback(t *testing.T) {
	env := newTestEnv(t)
	env.startGame()

	if _, err := env.db.Exec(`
		UPDATE match_players SET is_active = NULL WHERE match_id = ? AND team_id = ?
	`, env.matchID, env.team1ID); err != nil {
		t.Fatalf("clearing is_active: %v", err)
	}
	reserve := env.insert(`INSERT INTO players (team_id, name) VALUES (?, 'Legacy Reserve')`, env.team1ID)
	env.insert(`
		INSERT INTO match_players (match_id, player_id, team_id, started)
		VALUES (?, ?, ?, 0)`, env.matchID, reserve, env.team1ID)

	// A non-starter never entered the game and cannot go out.
	rr := env.do(http.MethodPost, env.gamePath("/substitution"), SubstitutionRequest{
		TeamID: env.team1ID, PlayerInID: env.benchID, PlayerOutID: reserve, Period: 1,
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("non-starter out: status = %d, want 400: %s", rr.Code, rr.Body.String())
	}

	// A starter is treated as active and may be replaced.
	rr = env.do(http.MethodPost, env.gamePath("/substitution"), SubstitutionRequest{
		TeamID: env.team1ID, PlayerInID: env.benchID, PlayerOutID: env.team1Players[0], Period: 1,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("starter out: status = %d, want 201: %s", rr.Code, rr.Body.String())
	}
}

func TestRecordSubstitutionTwiceSamePlayer(t *testing.T) {
	env := newTestEnv(t)
	env.startGame()
	out := env.team1Players[0]

	rr := env.do(http.MethodPost, env.gamePath("/substitution"), SubstitutionRequest{
		TeamID: env.team1ID, PlayerInID: env.benchID, PlayerOutID: out, Period: 1,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("first substitution: status = %d", rr.Code)
	}

	// The player who just left is no longer active and cannot go out again.
	bench2 := env.insert(`INSERT INTO players (team_id, name) VALUES (?, 'Deep Bench')`, env.team1ID)
	rr = env.do(http.MethodPost, env.gamePath("/substitution"), SubstitutionRequest{
		TeamID: env.team1ID, PlayerInID: bench2, PlayerOutID: out, Period: 1,
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("second substitution of benched player: status = %d, want 400", rr.Code)
	}
}
