package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandleOpenAPI(t *testing.T) {
	rr := httptest.NewRecorder()
	handleOpenAPI()(rr, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("content type = %q, want json", ct)
	}

	spec := decode[struct {
		OpenAPI string         `json:"openapi"`
		Info    map[string]any `json:"info"`
		Paths   map[string]any `json:"paths"`
	}](t, rr)

	if spec.OpenAPI == "" {
		t.Error("spec missing openapi version")
	}
	if spec.Info["title"] != "Courtside API" {
		t.Errorf("title = %v, want Courtside API", spec.Info["title"])
	}

	for _, path := range []string{
		"/healthz",
		"/games/{matchID}/start",
		"/games/{matchID}/end",
		"/games/{matchID}/pause",
		"/games/{matchID}/state",
		"/games/{matchID}/timeout",
		"/games/{matchID}/substitution",
		"/games/{matchID}/play-by-play",
		"/matches/{matchID}/events",
		"/matches/{matchID}/events/{eventID}",
	} {
		if _, ok := spec.Paths[path]; !ok {
			t.Errorf("spec missing path %s", path)
		}
	}
}
