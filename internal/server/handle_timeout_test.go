package server

import (
	"net/http"
	"testing"

	"github.com/courtsidehq/courtside/internal/game"
)

func TestRecordTimeout(t *testing.T) {
	env := newTestEnv(t)
	env.startGame()

	rr := env.do(http.MethodPost, env.gamePath("/timeout"), TimeoutRequest{
		TeamID:           env.team1ID,
		TimeoutType:      game.TimeoutSixty,
		Period:           1,
		SecondsRemaining: intPtr(312),
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rr.Code, rr.Body.String())
	}
	gs := decode[GameState](t, rr)
	if gs.Team1Timeouts != 4 {
		t.Errorf("team1Timeouts = %d, want 4 after spending one of 5", gs.Team1Timeouts)
	}
	if gs.Team2Timeouts != 5 {
		t.Errorf("team2Timeouts = %d, want untouched 5", gs.Team2Timeouts)
	}

	timeouts := decode[[]Timeout](t, env.do(http.MethodGet, env.gamePath("/timeout"), nil))
	if len(timeouts) != 1 {
		t.Fatalf("ledger has %d rows, want 1", len(timeouts))
	}
	to := timeouts[0]
	if to.TeamID != env.team1ID || to.TimeoutType != game.TimeoutSixty || to.Period != 1 {
		t.Errorf("ledger row = %+v, want team %d SIXTY_SECOND in period 1", to, env.team1ID)
	}
	if to.SecondsRemaining == nil || *to.SecondsRemaining != 312 {
		t.Errorf("secondsRemaining = %v, want 312", to.SecondsRemaining)
	}

	// The timeout also lands in the play-by-play log.
	events := decode[[]MatchEvent](t, env.do(http.MethodGet,
		env.eventsPath("?eventType=TIMEOUT"), nil))
	if len(events) != 1 {
		t.Fatalf("log has %d TIMEOUT events, want 1", len(events))
	}
	if events[0].Description != "60 second timeout" {
		t.Errorf("description = %q, want %q", events[0].Description, "60 second timeout")
	}
}

func TestRecordTimeoutValidation(t *testing.T) {
	env := newTestEnv(t)
	env.startGame()

	tests := []struct {
		name string
		req  TimeoutRequest
	}{
		{"missing team", TimeoutRequest{TimeoutType: game.TimeoutSixty, Period: 1}},
		{"foreign team", TimeoutRequest{TeamID: 9999, TimeoutType: game.TimeoutSixty, Period: 1}},
		{"unknown type", TimeoutRequest{TeamID: env.team1ID, TimeoutType: "FULL", Period: 1}},
		{"zero period", TimeoutRequest{TeamID: env.team1ID, TimeoutType: game.TimeoutThirty}},
	}
	for _, tt := range tests {
		if rr := env.do(http.MethodPost, env.gamePath("/timeout"), tt.req); rr.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tt.name, rr.Code)
		}
	}
}

// Spending the last timeout is allowed; the counter may reach zero but
// the request is never rejected for it.
func TestRecordTimeoutDownToZero(t *testing.T) {
	env := newTestEnv(t)
	env.startGame()

	for i := 0; i < 5; i++ {
		rr := env.do(http.MethodPost, env.gamePath("/timeout"), TimeoutRequest{
			TeamID:      env.team2ID,
			TimeoutType: game.TimeoutThirty,
			Period:      1,
		})
		if rr.Code != http.StatusCreated {
			t.Fatalf("timeout %d: status = %d: %s", i+1, rr.Code, rr.Body.String())
		}
	}

	gs := decode[GameState](t, env.do(http.MethodGet, env.gamePath("/state"), nil))
	if gs.Team2Timeouts != 0 {
		t.Errorf("team2Timeouts = %d, want 0", gs.Team2Timeouts)
	}
}

func TestRecordTimeoutNotLive(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(http.MethodPost, env.gamePath("/timeout"), TimeoutRequest{
		TeamID:      env.team1ID,
		TimeoutType: game.TimeoutSixty,
		Period:      1,
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 before the game starts", rr.Code)
	}
}
