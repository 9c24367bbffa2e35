package offline

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Result reports one sync pass. Success is true only when every item went
// through; partial success still reports Success=false but completed work
// is never rolled back.
type Result struct {
	Success       bool     `json:"success"`
	Message       string   `json:"message"`
	SyncedGames   int      `json:"synced_games"`
	SyncedActions int      `json:"synced_actions"`
	Errors        []string `json:"errors,omitempty"`
}

// GameUpload is the remote authority's expected shape. The server knows
// players by name only, so the winner is identified by name as well.
type GameUpload struct {
	Players    []string `json:"players"`
	StartedAt  string   `json:"started_at"`
	EndedAt    string   `json:"ended_at,omitempty"`
	Status     string   `json:"status"`
	WinnerName string   `json:"winner_name,omitempty"`
}

type RemoteGame struct {
	ID string `json:"game_id"`
}

// RemoteClient submits one game snapshot to the remote authority. Any error
// counts as a failure for that item regardless of cause.
type RemoteClient interface {
	CreateGame(ctx context.Context, upload GameUpload) (RemoteGame, error)
}

// Syncer reconciles locally-unsynced games and actions with the remote
// authority. At most one pass runs at a time; overlapping calls are
// rejected, not queued.
type Syncer struct {
	store   *Store
	client  RemoteClient
	monitor *Monitor

	mu        sync.Mutex
	syncing   bool
	last      *Result
	nextID    int
	callbacks map[int]func(Result)
}

// NewSyncer wires the syncer to the store and remote client. When a monitor
// is given, regaining connectivity triggers a pass automatically.
func NewSyncer(store *Store, client RemoteClient, monitor *Monitor) *Syncer {
	s := &Syncer{
		store:     store,
		client:    client,
		monitor:   monitor,
		callbacks: make(map[int]func(Result)),
	}
	if monitor != nil {
		monitor.Subscribe(func(online bool) {
			if online {
				s.PerformSync(context.Background())
			}
		})
	}
	return s
}

func (s *Syncer) IsSyncing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncing
}

func (s *Syncer) LastResult() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return Result{}, false
	}
	return *s.last, true
}

// OnSyncComplete registers a callback invoked once per completed pass and
// returns its disposer.
func (s *Syncer) OnSyncComplete(fn func(Result)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.callbacks[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.callbacks, id)
	}
}

// PerformSync runs one reconciliation pass. Guard failures (offline, pass
// already in flight) return immediately without touching the store or the
// network and without notifying subscribers.
func (s *Syncer) PerformSync(ctx context.Context) Result {
	if s.monitor != nil && !s.monitor.Online() {
		return Result{Success: false, Message: "currently offline"}
	}
	s.mu.Lock()
	if s.syncing {
		s.mu.Unlock()
		return Result{Success: false, Message: "sync already in progress"}
	}
	s.syncing = true
	s.mu.Unlock()

	result := s.runPass(ctx)

	s.mu.Lock()
	s.syncing = false
	s.last = &result
	callbacks := make([]func(Result), 0, len(s.callbacks))
	for _, fn := range s.callbacks {
		callbacks = append(callbacks, fn)
	}
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn(result)
	}
	return result
}

func (s *Syncer) runPass(ctx context.Context) Result {
	result := Result{Success: true, Message: "sync completed"}

	games := s.store.UnsyncedGames()
	actions := s.store.UnsyncedActions()
	syncedGames := make(map[string]bool, len(games))

	for _, game := range games {
		if _, err := s.client.CreateGame(ctx, uploadForGame(game)); err != nil {
			result.Success = false
			result.Errors = append(result.Errors, fmt.Sprintf("game %s: %v", game.ID, err))
			continue
		}
		marked, err := s.store.MarkGameSynced(game.ID, game.UpdatedAt)
		if err != nil {
			result.Success = false
			result.Errors = append(result.Errors, fmt.Sprintf("game %s: %v", game.ID, err))
			continue
		}
		if !marked {
			// A mutation landed while the upload was in flight; the game
			// stays unsynced and the next pass uploads the fresh snapshot.
			continue
		}
		syncedGames[game.ID] = true
		result.SyncedGames++
	}

	for _, action := range actions {
		if !syncedGames[action.GameID] {
			if _, ok := s.store.GetGame(action.GameID); ok {
				// The game's snapshot has not reached the server yet;
				// the action stays unsynced for the next pass.
				continue
			}
		}
		// The snapshot submission already carries this action's effect,
		// so no individual call goes out.
		switch action.Type {
		case ActionCreateGame, ActionPlayAgain:
			// roster is part of the snapshot
		case ActionAddPoints:
			// cumulative points are part of the snapshot
		case ActionEndGame:
			// status and winner are part of the snapshot
		}
		if err := s.store.MarkActionSynced(action.ID); err != nil {
			result.Success = false
			result.Errors = append(result.Errors, fmt.Sprintf("action %s: %v", action.ID, err))
			continue
		}
		result.SyncedActions++
	}

	if err := s.store.PruneSyncedActions(); err != nil {
		result.Success = false
		result.Errors = append(result.Errors, fmt.Sprintf("prune: %v", err))
	}

	if len(result.Errors) > 0 {
		result.Message = fmt.Sprintf("sync completed with %d errors", len(result.Errors))
	}
	return result
}

func uploadForGame(game Game) GameUpload {
	upload := GameUpload{
		Players:   game.PlayerNames(),
		StartedAt: game.StartedAt.Format(time.RFC3339),
		Status:    string(game.Status),
	}
	if game.EndedAt != nil {
		upload.EndedAt = game.EndedAt.Format(time.RFC3339)
	}
	if game.WinnerID != "" {
		if winner, ok := game.FindPlayer(game.WinnerID); ok {
			upload.WinnerName = winner.Name
		}
	}
	return upload
}
