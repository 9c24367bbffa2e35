package server

import (
	"testing"
	"time"
)

func TestStoreCreateGameAssignsIDs(t *testing.T) {
	store := NewStore()

	first := store.CreateGame([]string{"Alice", "Bob"}, timeNowUTC(), sourceLive)
	second := store.CreateGame([]string{"Carol", "Dave"}, timeNowUTC(), sourceLive)

	if first.ID != "game-1" || second.ID != "game-2" {
		t.Fatalf("expected sequential ids, got %s and %s", first.ID, second.ID)
	}
	seen := make(map[int]bool)
	for _, game := range []*Game{first, second} {
		for _, player := range game.Players {
			if seen[player.ID] {
				t.Fatalf("player id %d assigned twice", player.ID)
			}
			seen[player.ID] = true
		}
	}
}

func TestStoreUpdateGameID(t *testing.T) {
	store := NewStore()
	game := store.CreateGame([]string{"Alice", "Bob"}, timeNowUTC(), sourceLive)

	store.UpdateGameID(game, "game-41")
	if _, ok := store.GetGame("game-1"); ok {
		t.Fatalf("old id should be gone after rekey")
	}
	rekeyed, ok := store.GetGame("game-41")
	if !ok || rekeyed != game {
		t.Fatalf("expected the same game under the new id")
	}
}

func TestStoreRestoreGameAdvancesCounters(t *testing.T) {
	store := NewStore()
	restored := &Game{
		ID:     "game-7",
		Status: statusActive,
		Source: sourceLive,
		Players: []Player{
			{ID: 12, Name: "Alice"},
			{ID: 13, Name: "Bob"},
		},
		StartedAt: timeNowUTC(),
	}
	if err := store.RestoreGame(restored); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if err := store.RestoreGame(restored); err == nil {
		t.Fatalf("expected error restoring the same game twice")
	}

	next := store.CreateGame([]string{"Carol", "Dave"}, timeNowUTC(), sourceLive)
	if next.ID != "game-8" {
		t.Fatalf("expected game-8 after restoring game-7, got %s", next.ID)
	}
	for _, player := range next.Players {
		if player.ID <= 13 {
			t.Fatalf("player id %d collides with restored players", player.ID)
		}
	}
}

func TestActiveGameSummariesOrderAndFilter(t *testing.T) {
	store := NewStore()
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	first := store.CreateGame([]string{"Alice", "Bob"}, started, sourceLive)
	store.CreateGame([]string{"Carol", "Dave"}, started, sourceLive)
	third := store.CreateGame([]string{"Erin", "Frank"}, started, sourceLive)

	if _, err := store.UpdateGame(first.ID, func(game *Game) error {
		game.Status = statusCompleted
		return nil
	}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	summaries := store.ActiveGameSummaries()
	if len(summaries) != 2 {
		t.Fatalf("expected 2 active games, got %d", len(summaries))
	}
	if summaries[0].ID != "game-2" || summaries[1].ID != third.ID {
		t.Fatalf("unexpected order: %s, %s", summaries[0].ID, summaries[1].ID)
	}
}

func TestWinnerLookup(t *testing.T) {
	store := NewStore()
	game := store.CreateGame([]string{"Alice", "Bob"}, timeNowUTC(), sourceLive)

	if _, ok := game.Winner(); ok {
		t.Fatalf("expected no winner on a fresh game")
	}
	game.WinnerID = game.Players[1].ID
	winner, ok := game.Winner()
	if !ok || winner.Name != "Bob" {
		t.Fatalf("expected Bob as winner, got %#v", winner)
	}
}
