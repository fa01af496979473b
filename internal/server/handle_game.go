package server

import (
	"net/http"
)

type StartGameRequest struct {
	GameRulesID *int64 `json:"gameRulesId"`
}

func handleStartGame(store Store, cache *stateCache, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID, err := matchIDParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid match id")
			return
		}

		var req StartGameRequest
		if r.ContentLength > 0 {
			if err := readJSON(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
		}

		gs, err := store.StartGame(r.Context(), matchID, req.GameRulesID)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		cache.Set(r.Context(), matchID, gs)
		broker.Publish(matchID, gs)
		writeJSON(w, http.StatusCreated, gs)
	}
}

func handleEndGame(store Store, cache *stateCache, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID, err := matchIDParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid match id")
			return
		}

		gs, err := store.EndGame(r.Context(), matchID)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		// A completed match leaves the hot cache; pollers fall back to
		// the store for the frozen final state.
		cache.Invalidate(r.Context(), matchID)
		broker.Publish(matchID, gs)
		writeJSON(w, http.StatusOK, gs)
	}
}

type ToggleClockRequest struct {
	Running      bool `json:"running"`
	ClockSeconds *int `json:"clockSeconds"`
}

// handleToggleClock serves POST /games/{matchID}/pause. When pausing,
// the caller-supplied clockSeconds is the authoritative remaining time:
// the pausing client's local countdown wins, the server never recomputes
// elapsed time.
func handleToggleClock(store Store, cache *stateCache, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID, err := matchIDParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid match id")
			return
		}

		var req ToggleClockRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		gs, err := store.ToggleClock(r.Context(), matchID, req.Running, req.ClockSeconds)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		cache.Set(r.Context(), matchID, gs)
		broker.Publish(matchID, gs)
		writeJSON(w, http.StatusOK, gs)
	}
}

// handleGetState is the polling read. Clients free-run their local
// clock between polls while clockRunning is true and adopt the server
// value whenever it reports paused.
func handleGetState(store Store, cache *stateCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID, err := matchIDParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid match id")
			return
		}

		if gs, ok := cache.Get(r.Context(), matchID); ok {
			writeJSON(w, http.StatusOK, gs)
			return
		}

		gs, err := store.GameState(r.Context(), matchID)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		cache.Set(r.Context(), matchID, gs)
		writeJSON(w, http.StatusOK, gs)
	}
}

func handleUpdateState(store Store, cache *stateCache, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID, err := matchIDParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid match id")
			return
		}

		var patch GameStatePatch
		if err := readJSON(r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		gs, err := store.UpdateGameState(r.Context(), matchID, patch)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		cache.Set(r.Context(), matchID, gs)
		broker.Publish(matchID, gs)
		writeJSON(w, http.StatusOK, gs)
	}
}
