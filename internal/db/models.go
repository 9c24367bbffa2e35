package db

import (
	"time"

	"gorm.io/datatypes"
)

type Game struct {
	ID            uint   `gorm:"primaryKey"`
	Status        string `gorm:"size:32;not null"`
	StartedAt     time.Time
	EndedAt       *time.Time
	WinnerID      *uint     `gorm:"index"`
	Source        string    `gorm:"size:16;not null;default:live"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
	Players       []Player
	HandHistories []HandHistory
	Events        []Event
}

type Player struct {
	ID        uint      `gorm:"primaryKey"`
	GameID    uint      `gorm:"index;not null;uniqueIndex:idx_players_game_name"`
	Name      string    `gorm:"size:64;not null;uniqueIndex:idx_players_game_name"`
	Points    int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// HandHistory is one scored hand: the points one player received in one
// round of an UNO game.
type HandHistory struct {
	ID             uint      `gorm:"primaryKey"`
	GameID         uint      `gorm:"index;not null"`
	PlayerID       uint      `gorm:"index;not null"`
	PointsReceived int       `gorm:"not null"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// Event is the append-only audit trail of everything that happened to a
// game, including the raw payloads of offline sync uploads.
type Event struct {
	ID        uint           `gorm:"primaryKey"`
	GameID    uint           `gorm:"index;not null"`
	PlayerID  *uint          `gorm:"index"`
	Type      string         `gorm:"size:64;not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null"`
}
