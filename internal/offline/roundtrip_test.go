package offline

import (
	"context"
	"net/http/httptest"
	"testing"

	"uno-tally/internal/config"
	"uno-tally/internal/server"
)

// Any roster the Manager accepts must also be accepted by the server's
// upload endpoint, or the game would stay unsyncable forever.
func TestSyncRoundTripAgainstServer(t *testing.T) {
	ts := httptest.NewServer(server.New(nil, config.Default()).Handler())
	t.Cleanup(ts.Close)

	store := newTestStore(t)
	manager := NewManager(store)
	game, err := manager.CreateGame([]string{" Alice  Smith ", "Bob"})
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if applied, err := manager.AddPoints(game.ID, game.Players[0].ID, 120); err != nil || !applied {
		t.Fatalf("AddPoints: applied=%v err=%v", applied, err)
	}
	if applied, err := manager.EndGame(game.ID, game.Players[0].ID); err != nil || !applied {
		t.Fatalf("EndGame: applied=%v err=%v", applied, err)
	}

	syncer := NewSyncer(store, NewClient(ts.URL), nil)
	result := syncer.PerformSync(context.Background())
	if !result.Success {
		t.Fatalf("sync failed: %#v", result)
	}
	if result.SyncedGames != 1 {
		t.Fatalf("expected 1 synced game, got %#v", result)
	}
	synced, ok := store.GetGame(game.ID)
	if !ok || !synced.Synced {
		t.Fatalf("game not marked synced after round trip")
	}
	if len(store.UnsyncedActions()) != 0 {
		t.Fatalf("actions remain after round trip")
	}
}
