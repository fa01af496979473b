package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Courtside API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Live game tracking for the Courtside league system.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /games/{matchID}/start
	startGame, _ := r.NewOperationContext(http.MethodPost, "/games/{matchID}/start")
	startGame.SetSummary("Start game")
	startGame.SetDescription("Transitions an upcoming match to LIVE and creates its game state from the configured rule set.")
	startGame.AddReqStructure(StartGameRequest{})
	startGame.AddRespStructure(GameState{}, openapi.WithHTTPStatus(http.StatusCreated))
	startGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	startGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(startGame)

	// POST /games/{matchID}/end
	endGame, _ := r.NewOperationContext(http.MethodPost, "/games/{matchID}/end")
	endGame.SetSummary("End game")
	endGame.SetDescription("Transitions a live match to COMPLETED, freezes the game state, and closes the open period.")
	endGame.AddRespStructure(GameState{}, openapi.WithHTTPStatus(http.StatusOK))
	endGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	endGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(endGame)

	// POST /games/{matchID}/pause
	pauseGame, _ := r.NewOperationContext(http.MethodPost, "/games/{matchID}/pause")
	pauseGame.SetSummary("Toggle clock")
	pauseGame.SetDescription("Starts or pauses the game clock. When pausing, the supplied clockSeconds is persisted verbatim as the authoritative remaining time.")
	pauseGame.AddReqStructure(ToggleClockRequest{})
	pauseGame.AddRespStructure(GameState{}, openapi.WithHTTPStatus(http.StatusOK))
	pauseGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	pauseGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(pauseGame)

	// GET /games/{matchID}/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/games/{matchID}/state")
	getState.SetSummary("Get game state")
	getState.SetDescription("The polling read: returns the authoritative game state for a started match.")
	getState.AddRespStructure(GameState{}, openapi.WithHTTPStatus(http.StatusOK))
	getState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getState)

	// PUT /games/{matchID}/state
	putState, _ := r.NewOperationContext(http.MethodPut, "/games/{matchID}/state")
	putState.SetSummary("Update game state")
	putState.SetDescription("Applies a partial update to the game state. Period changes require the clock to be paused; currentPeriod is accepted as an alias for period.")
	putState.AddReqStructure(GameStatePatch{})
	putState.AddRespStructure(GameState{}, openapi.WithHTTPStatus(http.StatusOK))
	putState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	putState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(putState)

	// GET /games/{matchID}/stream
	getStream, _ := r.NewOperationContext(http.MethodGet, "/games/{matchID}/stream")
	getStream.SetSummary("SSE state stream")
	getStream.SetDescription("Server-Sent Events stream of game state snapshots after each mutation.")
	getStream.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getStream)

	// POST /games/{matchID}/timeout
	postTimeout, _ := r.NewOperationContext(http.MethodPost, "/games/{matchID}/timeout")
	postTimeout.SetSummary("Record timeout")
	postTimeout.SetDescription("Records a timeout, decrements the team's counter, and appends a TIMEOUT event.")
	postTimeout.AddReqStructure(TimeoutRequest{})
	postTimeout.AddRespStructure(GameState{}, openapi.WithHTTPStatus(http.StatusCreated))
	postTimeout.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postTimeout.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postTimeout)

	// GET /games/{matchID}/timeout
	listTimeouts, _ := r.NewOperationContext(http.MethodGet, "/games/{matchID}/timeout")
	listTimeouts.SetSummary("List timeouts")
	listTimeouts.SetDescription("Returns the match's timeouts in creation order.")
	listTimeouts.AddRespStructure([]Timeout{}, openapi.WithHTTPStatus(http.StatusOK))
	listTimeouts.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(listTimeouts)

	// POST /games/{matchID}/substitution
	postSub, _ := r.NewOperationContext(http.MethodPost, "/games/{matchID}/substitution")
	postSub.SetSummary("Record substitution")
	postSub.SetDescription("Swaps an active player for a bench player not yet on the match roster; roster flips, the substitution record, and its events commit together.")
	postSub.AddReqStructure(SubstitutionRequest{})
	postSub.AddRespStructure(GameState{}, openapi.WithHTTPStatus(http.StatusCreated))
	postSub.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postSub.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postSub)

	// GET /games/{matchID}/play-by-play
	getPBP, _ := r.NewOperationContext(http.MethodGet, "/games/{matchID}/play-by-play")
	getPBP.SetSummary("Play-by-play")
	getPBP.SetDescription("Returns the timeline view: events in game order plus period records.")
	getPBP.AddRespStructure(PlayByPlay{}, openapi.WithHTTPStatus(http.StatusOK))
	getPBP.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getPBP)

	// GET /matches/{matchID}/events
	listEvents, _ := r.NewOperationContext(http.MethodGet, "/matches/{matchID}/events")
	listEvents.SetSummary("List events")
	listEvents.SetDescription("Returns non-undone events in sequence order, optionally filtered by teamId or eventType.")
	listEvents.AddRespStructure([]MatchEvent{}, openapi.WithHTTPStatus(http.StatusOK))
	listEvents.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(listEvents)

	// POST /matches/{matchID}/events
	createEvent, _ := r.NewOperationContext(http.MethodPost, "/matches/{matchID}/events")
	createEvent.SetSummary("Append event")
	createEvent.SetDescription("Appends a play-by-play event with the next sequence number. Only allowed while the match is live.")
	createEvent.AddReqStructure(EventRequest{})
	createEvent.AddRespStructure(MatchEvent{}, openapi.WithHTTPStatus(http.StatusCreated))
	createEvent.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	createEvent.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(createEvent)

	// PUT /matches/{matchID}/events/{eventID}
	updateEvent, _ := r.NewOperationContext(http.MethodPut, "/matches/{matchID}/events/{eventID}")
	updateEvent.SetSummary("Update event")
	updateEvent.SetDescription("Edits an event's secondary fields. The event type is immutable after creation.")
	updateEvent.AddReqStructure(EventUpdateRequest{})
	updateEvent.AddRespStructure(MatchEvent{}, openapi.WithHTTPStatus(http.StatusOK))
	updateEvent.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	updateEvent.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(updateEvent)

	// DELETE /matches/{matchID}/events/{eventID}
	deleteEvent, _ := r.NewOperationContext(http.MethodDelete, "/matches/{matchID}/events/{eventID}")
	deleteEvent.SetSummary("Undo event")
	deleteEvent.SetDescription("Soft-undoes an event: it keeps its sequence number but disappears from listings.")
	deleteEvent.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteEvent.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	deleteEvent.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteEvent)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
