package offline

import "time"

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Player belongs to exactly one Game. Points only ever increase while the
// game is active.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// Game is the locally persisted snapshot of one scored playthrough. IDs are
// generated locally with an "offline_" prefix so they can never collide with
// the server's numeric ids.
type Game struct {
	ID        string     `json:"id"`
	Players   []Player   `json:"players"`
	Status    Status     `json:"status"`
	WinnerID  string     `json:"winner_id,omitempty"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Synced    bool       `json:"synced"`
}

func (g *Game) FindPlayer(playerID string) (*Player, bool) {
	for i := range g.Players {
		if g.Players[i].ID == playerID {
			return &g.Players[i], true
		}
	}
	return nil, false
}

func (g *Game) PlayerNames() []string {
	names := make([]string, 0, len(g.Players))
	for _, player := range g.Players {
		names = append(names, player.Name)
	}
	return names
}

func (g *Game) clone() Game {
	out := *g
	out.Players = make([]Player, len(g.Players))
	copy(out.Players, g.Players)
	if g.EndedAt != nil {
		ended := *g.EndedAt
		out.EndedAt = &ended
	}
	return out
}

type ActionType string

const (
	ActionCreateGame ActionType = "create_game"
	ActionAddPoints  ActionType = "add_points"
	ActionEndGame    ActionType = "end_game"
	ActionPlayAgain  ActionType = "play_again"
)

type CreateGamePayload struct {
	PlayerNames []string `json:"player_names"`
}

type AddPointsPayload struct {
	PlayerID string `json:"player_id"`
	Points   int    `json:"points"`
}

type EndGamePayload struct {
	WinnerID string `json:"winner_id,omitempty"`
}

type PlayAgainPayload struct {
	SourceGameID string `json:"source_game_id"`
}

// Action is one append-only log entry. Exactly one payload field is set,
// matching Type.
type Action struct {
	ID        string     `json:"id"`
	Type      ActionType `json:"type"`
	GameID    string     `json:"game_id"`
	Timestamp time.Time  `json:"timestamp"`
	Synced    bool       `json:"synced"`

	CreateGame *CreateGamePayload `json:"create_game,omitempty"`
	AddPoints  *AddPointsPayload  `json:"add_points,omitempty"`
	EndGame    *EndGamePayload    `json:"end_game,omitempty"`
	PlayAgain  *PlayAgainPayload  `json:"play_again,omitempty"`
}

type StorageStats struct {
	TotalGames      int `json:"total_games"`
	UnsyncedGames   int `json:"unsynced_games"`
	UnsyncedActions int `json:"unsynced_actions"`
}
