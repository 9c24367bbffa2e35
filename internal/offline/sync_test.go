package offline

import (
	"context"
	"errors"
	"sync"
	"testing"
)

// fakeRemote accepts every upload unless reject reports otherwise.
type fakeRemote struct {
	mu      sync.Mutex
	uploads []GameUpload
	reject  func(upload GameUpload) error
}

func (f *fakeRemote) CreateGame(_ context.Context, upload GameUpload) (RemoteGame, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reject != nil {
		if err := f.reject(upload); err != nil {
			return RemoteGame{}, err
		}
	}
	f.uploads = append(f.uploads, upload)
	return RemoteGame{ID: "game-1"}, nil
}

func (f *fakeRemote) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploads)
}

func TestSyncConvergence(t *testing.T) {
	store := newTestStore(t)
	manager := NewManager(store)
	first, err := manager.CreateGame([]string{"Alice", "Bob"})
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if ok, _ := manager.AddPoints(first.ID, first.Players[0].ID, 25); !ok {
		t.Fatalf("AddPoints failed")
	}
	if _, err := manager.CreateGame([]string{"Carol", "Dave"}); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}

	remote := &fakeRemote{}
	syncer := NewSyncer(store, remote, nil)
	result := syncer.PerformSync(context.Background())

	if !result.Success {
		t.Fatalf("expected success, got %#v", result)
	}
	if result.SyncedGames != 2 {
		t.Fatalf("expected 2 synced games, got %d", result.SyncedGames)
	}
	if result.SyncedActions != 3 {
		t.Fatalf("expected 3 synced actions, got %d", result.SyncedActions)
	}
	for _, game := range store.Games() {
		if !game.Synced {
			t.Fatalf("game %s still unsynced", game.ID)
		}
	}
	if remaining := store.UnsyncedActions(); len(remaining) != 0 {
		t.Fatalf("unsynced actions remain: %#v", remaining)
	}
	if all := store.Actions(); len(all) != 0 {
		t.Fatalf("synced actions not pruned: %d left", len(all))
	}
}

func TestSyncPartialFailureIsolation(t *testing.T) {
	store := newTestStore(t)
	manager := NewManager(store)
	good, err := manager.CreateGame([]string{"Alice", "Bob"})
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	bad, err := manager.CreateGame([]string{"Mallory", "Trent"})
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}

	remote := &fakeRemote{
		reject: func(upload GameUpload) error {
			if upload.Players[0] == "Mallory" {
				return errors.New("server rejected game")
			}
			return nil
		},
	}
	syncer := NewSyncer(store, remote, nil)
	result := syncer.PerformSync(context.Background())

	if result.Success {
		t.Fatalf("partial failure must report Success=false")
	}
	if result.SyncedGames != 1 {
		t.Fatalf("expected 1 synced game, got %d", result.SyncedGames)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %#v", result.Errors)
	}

	syncedGame, _ := store.GetGame(good.ID)
	if !syncedGame.Synced {
		t.Fatalf("accepted game not marked synced")
	}
	failedGame, _ := store.GetGame(bad.ID)
	if failedGame.Synced {
		t.Fatalf("rejected game marked synced")
	}
	// the failed game's action stays queued for the next pass
	for _, action := range store.Actions() {
		if action.GameID != bad.ID {
			t.Fatalf("unexpected surviving action %#v", action)
		}
	}

	// the next pass picks up the leftover
	remote.reject = nil
	second := syncer.PerformSync(context.Background())
	if !second.Success || second.SyncedGames != 1 {
		t.Fatalf("retry pass failed: %#v", second)
	}
	if len(store.Actions()) != 0 {
		t.Fatalf("actions remain after retry")
	}
}

// blockingRemote parks the first call until released.
type blockingRemote struct {
	started chan struct{}
	release chan struct{}
	calls   int
	mu      sync.Mutex
}

func (b *blockingRemote) CreateGame(context.Context, GameUpload) (RemoteGame, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	close(b.started)
	<-b.release
	return RemoteGame{ID: "game-1"}, nil
}

func TestSyncReentrancyGuard(t *testing.T) {
	store := newTestStore(t)
	manager := NewManager(store)
	if _, err := manager.CreateGame([]string{"Alice", "Bob"}); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}

	remote := &blockingRemote{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	syncer := NewSyncer(store, remote, nil)

	done := make(chan Result, 1)
	go func() {
		done <- syncer.PerformSync(context.Background())
	}()
	<-remote.started

	if !syncer.IsSyncing() {
		t.Fatalf("expected in-flight flag")
	}
	second := syncer.PerformSync(context.Background())
	if second.Success {
		t.Fatalf("re-entrant sync must be rejected")
	}
	if second.SyncedGames != 0 || second.SyncedActions != 0 {
		t.Fatalf("re-entrant sync did work: %#v", second)
	}

	close(remote.release)
	first := <-done
	if !first.Success {
		t.Fatalf("original pass failed: %#v", first)
	}
	remote.mu.Lock()
	calls := remote.calls
	remote.mu.Unlock()
	if calls != 1 {
		t.Fatalf("re-entrant call reached the network: %d calls", calls)
	}
}

func TestSyncKeepsRacingMutationUnsynced(t *testing.T) {
	store := newTestStore(t)
	manager := NewManager(store)
	game, err := manager.CreateGame([]string{"Alice", "Bob"})
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}

	remote := &blockingRemote{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	syncer := NewSyncer(store, remote, nil)

	done := make(chan Result, 1)
	go func() {
		done <- syncer.PerformSync(context.Background())
	}()
	<-remote.started

	// Score a hand while the upload is parked on the wire.
	applied, err := manager.AddPoints(game.ID, game.Players[0].ID, 50)
	if err != nil || !applied {
		t.Fatalf("AddPoints: applied=%v err=%v", applied, err)
	}
	close(remote.release)
	result := <-done

	if result.SyncedGames != 0 {
		t.Fatalf("mutated game counted as synced: %#v", result)
	}
	after, ok := store.GetGame(game.ID)
	if !ok {
		t.Fatalf("game missing")
	}
	if after.Players[0].Points != 50 {
		t.Fatalf("racing mutation lost: Alice has %d points, want 50", after.Players[0].Points)
	}
	if after.Synced {
		t.Fatalf("game marked synced despite late-arriving mutation")
	}

	// The next pass uploads the fresh snapshot and converges.
	retry := NewSyncer(store, &fakeRemote{}, nil).PerformSync(context.Background())
	if !retry.Success || retry.SyncedGames != 1 {
		t.Fatalf("retry pass did not converge: %#v", retry)
	}
	final, _ := store.GetGame(game.ID)
	if !final.Synced {
		t.Fatalf("game still unsynced after retry")
	}
}

func TestSyncOfflineGuard(t *testing.T) {
	store := newTestStore(t)
	manager := NewManager(store)
	if _, err := manager.CreateGame([]string{"Alice", "Bob"}); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}

	remote := &fakeRemote{}
	monitor := NewMonitor(false)
	syncer := NewSyncer(store, remote, monitor)

	result := syncer.PerformSync(context.Background())
	if result.Success {
		t.Fatalf("offline sync must be a guarded no-op")
	}
	if remote.calls() != 0 {
		t.Fatalf("offline sync reached the network")
	}
	if _, ok := syncer.LastResult(); ok {
		t.Fatalf("guarded no-op must not record a result")
	}
}

func TestAutoSyncOnReconnect(t *testing.T) {
	store := newTestStore(t)
	manager := NewManager(store)
	game, err := manager.CreateGame([]string{"Alice", "Bob"})
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}

	remote := &fakeRemote{}
	monitor := NewMonitor(false)
	syncer := NewSyncer(store, remote, monitor)

	var notified []Result
	syncer.OnSyncComplete(func(result Result) {
		notified = append(notified, result)
	})

	monitor.SetOnline(true)

	if remote.calls() != 1 {
		t.Fatalf("reconnect did not trigger sync, calls=%d", remote.calls())
	}
	synced, _ := store.GetGame(game.ID)
	if !synced.Synced {
		t.Fatalf("game not synced after reconnect")
	}
	if len(notified) != 1 || !notified[0].Success {
		t.Fatalf("subscriber not notified once: %#v", notified)
	}
	if last, ok := syncer.LastResult(); !ok || !last.Success {
		t.Fatalf("last result not recorded")
	}
}

func TestOnSyncCompleteDisposer(t *testing.T) {
	store := newTestStore(t)
	remote := &fakeRemote{}
	syncer := NewSyncer(store, remote, nil)

	kept, dropped := 0, 0
	syncer.OnSyncComplete(func(Result) { kept++ })
	cancel := syncer.OnSyncComplete(func(Result) { dropped++ })
	cancel()

	syncer.PerformSync(context.Background())
	if kept != 1 || dropped != 0 {
		t.Fatalf("kept=%d dropped=%d", kept, dropped)
	}
}

func TestSyncTranslatesWinnerToName(t *testing.T) {
	store := newTestStore(t)
	manager := NewManager(store)
	game, err := manager.CreateGame([]string{"Alice", "Bob"})
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if ok, _ := manager.AddPoints(game.ID, game.Players[0].ID, 505); !ok {
		t.Fatalf("AddPoints failed")
	}
	if ok, _ := manager.EndGame(game.ID, game.Players[0].ID); !ok {
		t.Fatalf("EndGame failed")
	}

	remote := &fakeRemote{}
	syncer := NewSyncer(store, remote, nil)
	if result := syncer.PerformSync(context.Background()); !result.Success {
		t.Fatalf("sync failed: %#v", result)
	}

	if len(remote.uploads) != 1 {
		t.Fatalf("expected 1 upload, got %d", len(remote.uploads))
	}
	upload := remote.uploads[0]
	if upload.WinnerName != "Alice" {
		t.Fatalf("winner not translated to name: %#v", upload)
	}
	if upload.Status != string(StatusCompleted) {
		t.Fatalf("status not carried: %s", upload.Status)
	}
	if upload.EndedAt == "" || upload.StartedAt == "" {
		t.Fatalf("timestamps missing: %#v", upload)
	}
	if len(upload.Players) != 2 || upload.Players[0] != "Alice" {
		t.Fatalf("players not translated to names: %#v", upload.Players)
	}
}

func TestSyncMarksActionsOfDeletedGames(t *testing.T) {
	store := newTestStore(t)
	manager := NewManager(store)
	game, err := manager.CreateGame([]string{"Alice", "Bob"})
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if err := store.DeleteGame(game.ID); err != nil {
		t.Fatalf("DeleteGame: %v", err)
	}

	remote := &fakeRemote{}
	syncer := NewSyncer(store, remote, nil)
	result := syncer.PerformSync(context.Background())

	if !result.Success {
		t.Fatalf("sync failed: %#v", result)
	}
	if remote.calls() != 0 {
		t.Fatalf("orphan action triggered a network call")
	}
	if len(store.Actions()) != 0 {
		t.Fatalf("orphan actions not compacted")
	}
}
