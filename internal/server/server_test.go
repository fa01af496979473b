package server

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/courtsidehq/courtside/internal/database"
	"github.com/courtsidehq/courtside/internal/migrations"
)

// testEnv wires the full router against an in-memory SQLite database
// seeded with one upcoming match between two five-player rosters, plus
// one bench player for team 1 who is not on the match roster.
type testEnv struct {
	t      *testing.T
	router *chi.Mux
	store  *SQLiteStore
	db     *sql.DB

	matchID      int64
	team1ID      int64
	team2ID      int64
	team1Players []int64
	team2Players []int64
	benchID      int64
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.Run(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	env := &testEnv{t: t, db: db, store: NewSQLiteStore(db)}
	env.seed()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	addRoutes(r, logger, env.store, newStateCache(nil), NewBroker(), db, nil)
	env.router = r
	return env
}

func (e *testEnv) seed() {
	e.t.Helper()

	rulesID := e.insert(`
		INSERT INTO game_rules (name, minutes_per_period, number_of_periods,
			overtime_minutes, fouls_for_bonus, timeouts_sixty, timeouts_thirty)
		VALUES ('FIBA', 10, 4, 5, 5, 2, 3)`)

	e.team1ID = e.insert(`INSERT INTO teams (name) VALUES ('Harbor Hawks')`)
	e.team2ID = e.insert(`INSERT INTO teams (name) VALUES ('Ridgeview Royals')`)

	e.matchID = e.insert(`
		INSERT INTO matches (team1_id, team2_id, game_rules_id, status)
		VALUES (?, ?, ?, 'UPCOMING')`, e.team1ID, e.team2ID, rulesID)

	for i := 0; i < 5; i++ {
		e.team1Players = append(e.team1Players, e.rosterPlayer(e.team1ID, 4+i))
		e.team2Players = append(e.team2Players, e.rosterPlayer(e.team2ID, 4+i))
	}
	e.benchID = e.insert(`
		INSERT INTO players (team_id, name, jersey_number) VALUES (?, 'Bench Player', 23)`,
		e.team1ID)
}

func (e *testEnv) rosterPlayer(teamID int64, jersey int) int64 {
	e.t.Helper()
	playerID := e.insert(`
		INSERT INTO players (team_id, name, jersey_number) VALUES (?, 'Player', ?)`,
		teamID, jersey)
	e.insert(`
		INSERT INTO match_players (match_id, player_id, team_id, started, is_active, jersey_number)
		VALUES (?, ?, ?, 1, 1, ?)`, e.matchID, playerID, teamID, jersey)
	return playerID
}

func (e *testEnv) insert(query string, args ...any) int64 {
	e.t.Helper()
	var id int64
	if err := e.db.QueryRow(query+` RETURNING id`, args...).Scan(&id); err != nil {
		e.t.Fatalf("seeding fixture: %v", err)
	}
	return id
}

func (e *testEnv) do(method, path string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			e.t.Fatalf("marshaling request body: %v", err)
		}
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// startGame starts the seeded match and fails the test if that does not work.
func (e *testEnv) startGame() GameState {
	e.t.Helper()
	rr := e.do(http.MethodPost, e.gamePath("/start"), nil)
	if rr.Code != http.StatusCreated {
		e.t.Fatalf("starting game: status %d, body %s", rr.Code, rr.Body.String())
	}
	return decode[GameState](e.t, rr)
}

func (e *testEnv) gamePath(suffix string) string {
	return "/games/" + itoa(e.matchID) + suffix
}

func (e *testEnv) eventsPath(suffix string) string {
	return "/matches/" + itoa(e.matchID) + "/events" + suffix
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response %q: %v", rr.Body.String(), err)
	}
	return v
}

func errMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rr)["error"]
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(http.MethodGet, "/healthz", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	checks := decode[HealthResponse](t, rr)
	if checks["sqlite"].Status != "ok" {
		t.Errorf("sqlite check = %q, want ok", checks["sqlite"].Status)
	}
	if _, ok := checks["redis"]; ok {
		t.Error("redis check reported without a redis client configured")
	}
}
