package offline

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Store owns the three persisted collections: the game list (creation
// order), the append-only action log, and the current-game pointer. All
// state lives in memory under the mutex and every mutation writes through
// to the medium before returning.
type Store struct {
	mu      sync.Mutex
	medium  Medium
	games   []Game
	actions []Action
	current string
}

// NewStore loads any previously persisted state from the medium.
func NewStore(medium Medium) (*Store, error) {
	s := &Store{medium: medium}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	if data, ok, err := s.medium.Read(keyGames); err != nil {
		return err
	} else if ok {
		if err := json.Unmarshal(data, &s.games); err != nil {
			return fmt.Errorf("%w: decoding games: %v", ErrStorageUnavailable, err)
		}
	}
	if data, ok, err := s.medium.Read(keyActions); err != nil {
		return err
	} else if ok {
		if err := json.Unmarshal(data, &s.actions); err != nil {
			return fmt.Errorf("%w: decoding actions: %v", ErrStorageUnavailable, err)
		}
	}
	if data, ok, err := s.medium.Read(keyCurrent); err != nil {
		return err
	} else if ok {
		s.current = string(data)
	}
	return nil
}

func (s *Store) persistGames() error {
	data, err := json.Marshal(s.games)
	if err != nil {
		return fmt.Errorf("%w: encoding games: %v", ErrStorageUnavailable, err)
	}
	return s.medium.Write(keyGames, data)
}

func (s *Store) persistActions() error {
	data, err := json.Marshal(s.actions)
	if err != nil {
		return fmt.Errorf("%w: encoding actions: %v", ErrStorageUnavailable, err)
	}
	return s.medium.Write(keyActions, data)
}

func (s *Store) persistCurrent() error {
	if s.current == "" {
		return s.medium.Delete(keyCurrent)
	}
	return s.medium.Write(keyCurrent, []byte(s.current))
}

// SaveGame upserts by game id and bumps UpdatedAt.
func (s *Store) SaveGame(game Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	game.UpdatedAt = time.Now().UTC()
	stored := game.clone()
	for i := range s.games {
		if s.games[i].ID == game.ID {
			s.games[i] = stored
			return s.persistGames()
		}
	}
	s.games = append(s.games, stored)
	return s.persistGames()
}

func (s *Store) GetGame(id string) (Game, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.games {
		if s.games[i].ID == id {
			return s.games[i].clone(), true
		}
	}
	return Game{}, false
}

// Games returns every stored game in creation order.
func (s *Store) Games() []Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Game, 0, len(s.games))
	for i := range s.games {
		out = append(out, s.games[i].clone())
	}
	return out
}

func (s *Store) UnsyncedGames() []Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Game
	for i := range s.games {
		if !s.games[i].Synced {
			out = append(out, s.games[i].clone())
		}
	}
	return out
}

// DeleteGame removes the game and, if it was the current game, clears the
// current-game pointer as well.
func (s *Store) DeleteGame(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.games[:0]
	for i := range s.games {
		if s.games[i].ID != id {
			kept = append(kept, s.games[i])
		}
	}
	s.games = kept
	if err := s.persistGames(); err != nil {
		return err
	}
	if s.current == id {
		s.current = ""
		return s.persistCurrent()
	}
	return nil
}

func (s *Store) SetCurrentGame(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = id
	return s.persistCurrent()
}

func (s *Store) CurrentGameID() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.current != ""
}

func (s *Store) CurrentGame() (Game, bool) {
	s.mu.Lock()
	id := s.current
	s.mu.Unlock()
	if id == "" {
		return Game{}, false
	}
	return s.GetGame(id)
}

func (s *Store) ClearCurrentGame() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = ""
	return s.persistCurrent()
}

// MarkGameSynced flips the synced flag in place. The flag is only set when
// the game has not been modified since asOf, so a mutation racing an upload
// leaves the game unsynced for the next pass. Reports whether the flag was
// set.
func (s *Store) MarkGameSynced(id string, asOf time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.games {
		if s.games[i].ID != id {
			continue
		}
		if !s.games[i].UpdatedAt.Equal(asOf) {
			return false, nil
		}
		s.games[i].Synced = true
		return true, s.persistGames()
	}
	return false, nil
}

func (s *Store) AppendAction(action Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, action)
	return s.persistActions()
}

func (s *Store) Actions() []Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Action, len(s.actions))
	copy(out, s.actions)
	return out
}

func (s *Store) UnsyncedActions() []Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Action
	for _, action := range s.actions {
		if !action.Synced {
			out = append(out, action)
		}
	}
	return out
}

func (s *Store) MarkActionSynced(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.actions {
		if s.actions[i].ID == id {
			s.actions[i].Synced = true
			return s.persistActions()
		}
	}
	return nil
}

// PruneSyncedActions drops every synced entry from the log.
func (s *Store) PruneSyncedActions() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.actions[:0]
	for _, action := range s.actions {
		if !action.Synced {
			kept = append(kept, action)
		}
	}
	s.actions = kept
	return s.persistActions()
}

func (s *Store) Stats() StorageStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := StorageStats{TotalGames: len(s.games)}
	for i := range s.games {
		if !s.games[i].Synced {
			stats.UnsyncedGames++
		}
	}
	for _, action := range s.actions {
		if !action.Synced {
			stats.UnsyncedActions++
		}
	}
	return stats
}

// ClearAll wipes all three collections.
func (s *Store) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games = nil
	s.actions = nil
	s.current = ""
	if err := s.medium.Delete(keyGames); err != nil {
		return err
	}
	if err := s.medium.Delete(keyActions); err != nil {
		return err
	}
	return s.medium.Delete(keyCurrent)
}
