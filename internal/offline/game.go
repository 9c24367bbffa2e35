package offline

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	minPlayers    = 2
	maxPlayers    = 10
	maxNameLength = 64
)

// Manager enforces game invariants on top of the Store. It is the only
// component that mutates Game fields; every successful mutation appends
// exactly one action log entry and leaves the game marked unsynced.
type Manager struct {
	store *Store
}

func NewManager(store *Store) *Manager {
	return &Manager{store: store}
}

func newLocalID() string {
	return "offline_" + uuid.NewString()
}

func newAction(actionType ActionType, gameID string) Action {
	return Action{
		ID:        newLocalID(),
		Type:      actionType,
		GameID:    gameID,
		Timestamp: time.Now().UTC(),
	}
}

// CleanPlayerNames normalizes each name (trimming, collapsing internal
// whitespace) and drops blanks, preserving order.
func CleanPlayerNames(raw []string) []string {
	names := make([]string, 0, len(raw))
	for _, name := range raw {
		trimmed := strings.Join(strings.Fields(name), " ")
		if trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}

func newGameFromNames(names []string) Game {
	now := time.Now().UTC()
	game := Game{
		ID:        newLocalID(),
		Status:    StatusActive,
		StartedAt: now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, name := range names {
		game.Players = append(game.Players, Player{
			ID:   newLocalID(),
			Name: name,
		})
	}
	return game
}

// CreateGame starts a new game, makes it the current game and logs a
// create_game action.
func (m *Manager) CreateGame(playerNames []string) (Game, error) {
	names := CleanPlayerNames(playerNames)
	if len(names) < minPlayers {
		return Game{}, fmt.Errorf("at least %d player names are required", minPlayers)
	}
	if len(names) > maxPlayers {
		return Game{}, fmt.Errorf("at most %d players are allowed", maxPlayers)
	}
	// Roster rules mirror the server's, so every locally valid game is
	// accepted on upload.
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if len(name) > maxNameLength {
			return Game{}, fmt.Errorf("player name must be %d characters or fewer", maxNameLength)
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			return Game{}, fmt.Errorf("duplicate player name %q", name)
		}
		seen[key] = struct{}{}
	}

	game := newGameFromNames(names)
	action := newAction(ActionCreateGame, game.ID)
	action.CreateGame = &CreateGamePayload{PlayerNames: names}
	if err := m.persistCreation(game, action); err != nil {
		return Game{}, err
	}
	return game, nil
}

func (m *Manager) persistCreation(game Game, action Action) error {
	if err := m.store.SaveGame(game); err != nil {
		return err
	}
	if err := m.store.SetCurrentGame(game.ID); err != nil {
		return err
	}
	return m.store.AppendAction(action)
}

// AddPoints adds a positive number of points to one player. Returns false
// when the points are not positive, the game is missing or completed, or
// the player does not belong to the game.
func (m *Manager) AddPoints(gameID, playerID string, points int) (bool, error) {
	if points <= 0 {
		return false, nil
	}
	game, ok := m.store.GetGame(gameID)
	if !ok || game.Status != StatusActive {
		return false, nil
	}
	player, ok := game.FindPlayer(playerID)
	if !ok {
		return false, nil
	}
	player.Points += points
	game.Synced = false
	if err := m.store.SaveGame(game); err != nil {
		return false, err
	}
	action := newAction(ActionAddPoints, game.ID)
	action.AddPoints = &AddPointsPayload{PlayerID: playerID, Points: points}
	if err := m.store.AppendAction(action); err != nil {
		return false, err
	}
	return true, nil
}

// EndGame completes an active game. winnerID may be empty ("ended without
// winner"); a non-empty winnerID must reference a player of this game.
func (m *Manager) EndGame(gameID, winnerID string) (bool, error) {
	game, ok := m.store.GetGame(gameID)
	if !ok || game.Status != StatusActive {
		return false, nil
	}
	if winnerID != "" {
		if _, ok := game.FindPlayer(winnerID); !ok {
			return false, nil
		}
	}
	now := time.Now().UTC()
	game.Status = StatusCompleted
	game.WinnerID = winnerID
	game.EndedAt = &now
	game.Synced = false
	if err := m.store.SaveGame(game); err != nil {
		return false, err
	}
	action := newAction(ActionEndGame, game.ID)
	action.EndGame = &EndGamePayload{WinnerID: winnerID}
	if err := m.store.AppendAction(action); err != nil {
		return false, err
	}
	return true, nil
}

// ErrGameNotFound is returned by ReplayWithSamePlayers when the source game
// does not exist.
var ErrGameNotFound = errors.New("game not found")

// ReplayWithSamePlayers spawns a fresh active game with the source game's
// roster at zero points. The source game is left untouched.
func (m *Manager) ReplayWithSamePlayers(gameID string) (Game, error) {
	source, ok := m.store.GetGame(gameID)
	if !ok {
		return Game{}, ErrGameNotFound
	}
	game := newGameFromNames(source.PlayerNames())
	action := newAction(ActionPlayAgain, game.ID)
	action.PlayAgain = &PlayAgainPayload{SourceGameID: source.ID}
	if err := m.persistCreation(game, action); err != nil {
		return Game{}, err
	}
	return game, nil
}

func (m *Manager) CurrentGame() (Game, bool) {
	return m.store.CurrentGame()
}

func (m *Manager) ClearCurrentGame() error {
	return m.store.ClearCurrentGame()
}
