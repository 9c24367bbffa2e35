package server

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	statusActive    = "active"
	statusCompleted = "completed"

	sourceLive    = "live"
	sourceOffline = "offline_sync"
)

type Player struct {
	ID     int
	DBID   uint
	Name   string
	Points int
}

// HandEntry is one scored hand kept in memory for the game view; the
// durable copy lives in the hand_histories table.
type HandEntry struct {
	PlayerID int
	Points   int
	At       time.Time
}

type Game struct {
	ID        string
	DBID      uint
	Status    string
	Source    string
	Players   []Player
	History   []HandEntry
	WinnerID  int
	StartedAt time.Time
	EndedAt   *time.Time
}

func (g *Game) Winner() (*Player, bool) {
	if g.WinnerID == 0 {
		return nil, false
	}
	for i := range g.Players {
		if g.Players[i].ID == g.WinnerID {
			return &g.Players[i], true
		}
	}
	return nil, false
}

type GameSummary struct {
	ID        string
	Status    string
	Players   int
	StartedAt time.Time
}

// Store is the live, in-memory source of truth for games. Durable copies
// are mirrored through the persistence layer.
type Store struct {
	mu           sync.Mutex
	nextID       int
	nextPlayerID int
	games        map[string]*Game
}

func NewStore() *Store {
	return &Store{
		nextID:       1,
		nextPlayerID: 1,
		games:        make(map[string]*Game),
	}
}

// CreateGame registers a new game with the given roster. Names are assumed
// validated by the caller.
func (s *Store) CreateGame(names []string, startedAt time.Time, source string) *Game {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := fmt.Sprintf("game-%d", s.nextID)
	s.nextID++
	game := &Game{
		ID:        id,
		Status:    statusActive,
		Source:    source,
		StartedAt: startedAt,
	}
	for _, name := range names {
		game.Players = append(game.Players, Player{
			ID:   s.nextPlayerID,
			Name: name,
		})
		s.nextPlayerID++
	}
	s.games[id] = game
	return game
}

func (s *Store) GetGame(id string) (*Game, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	game, ok := s.games[id]
	return game, ok
}

func (s *Store) UpdateGame(id string, update func(game *Game) error) (*Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	game, ok := s.games[id]
	if !ok {
		return nil, errors.New("game not found")
	}
	if err := update(game); err != nil {
		return nil, err
	}
	return game, nil
}

// UpdateGameID rekeys a game after the database assigns its durable id.
func (s *Store) UpdateGameID(game *Game, newID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if game.ID == newID {
		return
	}
	delete(s.games, game.ID)
	game.ID = newID
	s.games[newID] = game
}

func (s *Store) GetPlayer(gameID string, playerID int) (*Game, *Player, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	game, ok := s.games[gameID]
	if !ok {
		return nil, nil, false
	}
	for i := range game.Players {
		if game.Players[i].ID == playerID {
			return game, &game.Players[i], true
		}
	}
	return game, nil, false
}

func (s *Store) FindPlayer(game *Game, playerID int) (*Player, bool) {
	for i := range game.Players {
		if game.Players[i].ID == playerID {
			return &game.Players[i], true
		}
	}
	return nil, false
}

// RestoreGame reinserts a game loaded from the database, keeping the id
// counters ahead of everything restored.
func (s *Store) RestoreGame(game *Game) error {
	if game == nil {
		return errors.New("game is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[game.ID]; ok {
		return errors.New("game already running")
	}
	s.games[game.ID] = game
	if id := gameSortKey(game.ID); id >= s.nextID {
		s.nextID = id + 1
	}
	maxPlayerID := 0
	for _, player := range game.Players {
		if player.ID > maxPlayerID {
			maxPlayerID = player.ID
		}
	}
	if maxPlayerID >= s.nextPlayerID {
		s.nextPlayerID = maxPlayerID + 1
	}
	return nil
}

// ActiveGameSummaries lists active games oldest first.
func (s *Store) ActiveGameSummaries() []GameSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]GameSummary, 0, len(s.games))
	for _, game := range s.games {
		if game.Status != statusActive {
			continue
		}
		list = append(list, GameSummary{
			ID:        game.ID,
			Status:    game.Status,
			Players:   len(game.Players),
			StartedAt: game.StartedAt,
		})
	}
	sort.Slice(list, func(i, j int) bool {
		return gameSortKey(list[i].ID) < gameSortKey(list[j].ID)
	})
	return list
}

func gameSortKey(id string) int {
	parts := strings.Split(id, "-")
	if len(parts) < 2 {
		return 0
	}
	value, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0
	}
	return value
}

func timeNowUTC() time.Time {
	return time.Now().UTC()
}
