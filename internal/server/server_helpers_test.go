package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"uno-tally/internal/config"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := New(nil, config.Default())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func createGame(t *testing.T, ts *httptest.Server, names ...string) string {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/games", map[string]any{
		"players": names,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	return body["game_id"].(string)
}

func fetchGame(t *testing.T, ts *httptest.Server, gameID string) map[string]any {
	t.Helper()
	resp := doRequest(t, ts, http.MethodGet, "/api/games/"+gameID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	game, ok := body["game"].(map[string]any)
	if !ok {
		t.Fatalf("expected game object, got %#v", body["game"])
	}
	return game
}

// gamePlayers flattens the snapshot's players into name -> {id, points}.
func gamePlayers(t *testing.T, game map[string]any) map[string]map[string]any {
	t.Helper()
	raw, ok := game["players"].([]any)
	if !ok {
		t.Fatalf("expected players array, got %#v", game["players"])
	}
	players := make(map[string]map[string]any, len(raw))
	for _, entry := range raw {
		player := entry.(map[string]any)
		players[player["name"].(string)] = player
	}
	return players
}

func playerID(t *testing.T, ts *httptest.Server, gameID, name string) int {
	t.Helper()
	players := gamePlayers(t, fetchGame(t, ts, gameID))
	player, ok := players[name]
	if !ok {
		t.Fatalf("player %q not found in game %s", name, gameID)
	}
	return int(player["id"].(float64))
}

func doRequest(t *testing.T, ts *httptest.Server, method, path string, payload any) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() {
		_ = resp.Body.Close()
	})
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}
