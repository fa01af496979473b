package server

import "net/http"

func handleRecordTimeout(store Store, cache *stateCache, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID, err := matchIDParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid match id")
			return
		}

		var req TimeoutRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.TeamID == 0 {
			writeError(w, http.StatusBadRequest, "teamId is required")
			return
		}

		gs, err := store.RecordTimeout(r.Context(), matchID, req)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		cache.Set(r.Context(), matchID, gs)
		broker.Publish(matchID, gs)
		writeJSON(w, http.StatusCreated, gs)
	}
}

func handleListTimeouts(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID, err := matchIDParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid match id")
			return
		}

		timeouts, err := store.ListTimeouts(r.Context(), matchID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, timeouts)
	}
}
