package server

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, store Store, cache *stateCache, broker *Broker, db *sql.DB, rdb *redis.Client) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Courtside API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db, rdb))

	// Game session orchestrator — one route per operator action.
	r.Route("/games/{matchID}", func(r chi.Router) {
		r.Post("/start", handleStartGame(store, cache, broker))
		r.Post("/end", handleEndGame(store, cache, broker))
		r.Post("/pause", handleToggleClock(store, cache, broker))
		r.Get("/state", handleGetState(store, cache))
		r.Put("/state", handleUpdateState(store, cache, broker))
		r.Get("/stream", handleStream(store, broker))
		r.Post("/timeout", handleRecordTimeout(store, cache, broker))
		r.Get("/timeout", handleListTimeouts(store))
		r.Post("/substitution", handleRecordSubstitution(store, cache, broker))
		r.Get("/play-by-play", handlePlayByPlay(store))
	})

	// Play-by-play event CRUD — gated to LIVE matches by the store.
	r.Route("/matches/{matchID}/events", func(r chi.Router) {
		r.Get("/", handleListEvents(store))
		r.Post("/", handleCreateEvent(store))
		r.Put("/{eventID}", handleUpdateEvent(store))
		r.Delete("/{eventID}", handleUndoEvent(store))
	})
}
