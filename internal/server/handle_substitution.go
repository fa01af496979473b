package server

import "net/http"

func handleRecordSubstitution(store Store, cache *stateCache, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID, err := matchIDParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid match id")
			return
		}

		var req SubstitutionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.TeamID == 0 || req.PlayerInID == 0 || req.PlayerOutID == 0 {
			writeError(w, http.StatusBadRequest, "teamId, playerInId and playerOutId are required")
			return
		}

		gs, err := store.RecordSubstitution(r.Context(), matchID, req)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		cache.Set(r.Context(), matchID, gs)
		broker.Publish(matchID, gs)
		writeJSON(w, http.StatusCreated, gs)
	}
}
