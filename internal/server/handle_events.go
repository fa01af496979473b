package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/courtsidehq/courtside/internal/game"
)

func handleCreateEvent(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID, err := matchIDParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid match id")
			return
		}

		var req EventRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		ev, err := store.AppendEvent(r.Context(), matchID, req)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, ev)
	}
}

func handleUpdateEvent(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID, err := matchIDParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid match id")
			return
		}
		eventID, err := strconv.ParseInt(chi.URLParam(r, "eventID"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid event id")
			return
		}

		var req EventUpdateRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		ev, err := store.UpdateEvent(r.Context(), matchID, eventID, req)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ev)
	}
}

// handleUndoEvent soft-deletes: the event keeps its sequence number and
// is only excluded from listings.
func handleUndoEvent(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID, err := matchIDParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid match id")
			return
		}
		eventID, err := strconv.ParseInt(chi.URLParam(r, "eventID"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid event id")
			return
		}

		if err := store.UndoEvent(r.Context(), matchID, eventID); err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleListEvents(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID, err := matchIDParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid match id")
			return
		}

		var filter EventFilter
		if v := r.URL.Query().Get("teamId"); v != "" {
			teamID, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid teamId filter")
				return
			}
			filter.TeamID = &teamID
		}
		if v := r.URL.Query().Get("eventType"); v != "" {
			t := game.EventType(v)
			if !t.Valid() {
				writeError(w, http.StatusBadRequest, "invalid eventType filter")
				return
			}
			filter.EventType = &t
		}

		events, err := store.ListEvents(r.Context(), matchID, filter)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, events)
	}
}
