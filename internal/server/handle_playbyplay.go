package server

import "net/http"

func handlePlayByPlay(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID, err := matchIDParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid match id")
			return
		}

		pbp, err := store.PlayByPlay(r.Context(), matchID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, pbp)
	}
}
