package offline

import (
	"path/filepath"
	"testing"
)

func TestFileMediumRoundTrip(t *testing.T) {
	medium, err := NewFileMedium(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("NewFileMedium: %v", err)
	}

	if _, ok, err := medium.Read(keyGames); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}

	if err := medium.Write(keyGames, []byte(`[{"id":"offline_1"}]`)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, ok, err := medium.Read(keyGames)
	if err != nil || !ok {
		t.Fatalf("Read: ok=%v err=%v", ok, err)
	}
	if string(data) != `[{"id":"offline_1"}]` {
		t.Fatalf("unexpected payload %q", data)
	}

	if err := medium.Delete(keyGames); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := medium.Read(keyGames); ok {
		t.Fatalf("key survived delete")
	}
	// deleting a missing key is not an error
	if err := medium.Delete(keyGames); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}
}

func TestFileMediumBacksStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tally")
	medium, err := NewFileMedium(dir)
	if err != nil {
		t.Fatalf("NewFileMedium: %v", err)
	}
	store, err := NewStore(medium)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	manager := NewManager(store)
	game, err := manager.CreateGame([]string{"Alice", "Bob"})
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}

	reopened, err := NewFileMedium(dir)
	if err != nil {
		t.Fatalf("NewFileMedium reopen: %v", err)
	}
	restored, err := NewStore(reopened)
	if err != nil {
		t.Fatalf("NewStore reopen: %v", err)
	}
	loaded, ok := restored.GetGame(game.ID)
	if !ok {
		t.Fatalf("game missing after reopen")
	}
	if len(loaded.Players) != 2 || loaded.Players[0].Name != "Alice" {
		t.Fatalf("unexpected players %#v", loaded.Players)
	}
	if id, ok := restored.CurrentGameID(); !ok || id != game.ID {
		t.Fatalf("current pointer missing after reopen")
	}
}
