package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// handleStream is the SSE feed of GameState snapshots for one match.
// The first frame is the current state; subsequent frames are whatever
// the broker publishes after each mutation.
func handleStream(store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID, err := matchIDParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid match id")
			return
		}

		gs, err := store.GameState(r.Context(), matchID)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming not supported")
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")

		initial, _ := json.Marshal(gs)
		fmt.Fprintf(w, "event: state\ndata: %s\n\n", initial)
		flusher.Flush()

		ch := broker.Subscribe(matchID)
		defer broker.Unsubscribe(matchID, ch)

		ping := time.NewTicker(30 * time.Second)
		defer ping.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case data := <-ch:
				fmt.Fprintf(w, "event: state\ndata: %s\n\n", data)
				flusher.Flush()
			case <-ping.C:
				fmt.Fprintf(w, ": ping\n\n")
				flusher.Flush()
			}
		}
	}
}
