package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"uno-tally/internal/db"

	"github.com/jackc/pgconn"
	"gorm.io/datatypes"
)

type EventPayload struct {
	Players    []string `json:"players,omitempty"`
	PlayerName string   `json:"player,omitempty"`
	PlayerID   int      `json:"player_id,omitempty"`
	Points     int      `json:"points,omitempty"`
	WinnerName string   `json:"winner,omitempty"`
	Status     string   `json:"status,omitempty"`
	Source     string   `json:"source,omitempty"`
}

// persistGame mirrors a freshly created game into the database and rekeys
// the in-memory game to the durable id.
func (s *Server) persistGame(game *Game) error {
	if s.db == nil {
		return nil
	}
	record := db.Game{
		Status:    game.Status,
		StartedAt: game.StartedAt,
		EndedAt:   game.EndedAt,
		Source:    game.Source,
	}
	if err := s.db.Create(&record).Error; err != nil {
		return err
	}
	game.DBID = record.ID

	for i := range game.Players {
		player := &game.Players[i]
		row := db.Player{
			GameID: game.DBID,
			Name:   player.Name,
			Points: player.Points,
		}
		if err := s.db.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				existing, lookupErr := s.findPlayerDBID(game.DBID, player.Name)
				if lookupErr == nil && existing != 0 {
					player.DBID = existing
					continue
				}
			}
			return err
		}
		player.DBID = row.ID
	}

	if winner, ok := game.Winner(); ok && winner.DBID != 0 {
		if err := s.db.Model(&db.Game{}).Where("id = ?", game.DBID).
			Update("winner_id", winner.DBID).Error; err != nil {
			return err
		}
	}

	newID := fmt.Sprintf("game-%d", record.ID)
	if game.ID != newID {
		s.store.UpdateGameID(game, newID)
	}

	names := make([]string, 0, len(game.Players))
	for _, player := range game.Players {
		names = append(names, player.Name)
	}
	return s.persistEvent(game, "game_created", EventPayload{
		Players: names,
		Status:  game.Status,
		Source:  game.Source,
	})
}

// persistHand appends a hand_histories row and keeps the player's durable
// point total current.
func (s *Server) persistHand(game *Game, player *Player, points int) error {
	if s.db == nil {
		return nil
	}
	if game.DBID == 0 || player.DBID == 0 {
		return errors.New("game not persisted")
	}
	record := db.HandHistory{
		GameID:         game.DBID,
		PlayerID:       player.DBID,
		PointsReceived: points,
	}
	if err := s.db.Create(&record).Error; err != nil {
		return err
	}
	if err := s.db.Model(&db.Player{}).Where("id = ?", player.DBID).
		Update("points", player.Points).Error; err != nil {
		return err
	}
	return s.persistEvent(game, "points_added", EventPayload{
		PlayerName: player.Name,
		PlayerID:   player.ID,
		Points:     points,
	})
}

func (s *Server) persistCompletion(game *Game) error {
	if s.db == nil {
		return nil
	}
	if game.DBID == 0 {
		return errors.New("game not persisted")
	}
	updates := map[string]any{
		"status":   game.Status,
		"ended_at": game.EndedAt,
	}
	payload := EventPayload{Status: game.Status}
	if winner, ok := game.Winner(); ok {
		if winner.DBID != 0 {
			updates["winner_id"] = winner.DBID
		}
		payload.WinnerName = winner.Name
		payload.PlayerID = winner.ID
	}
	if err := s.db.Model(&db.Game{}).Where("id = ?", game.DBID).Updates(updates).Error; err != nil {
		return err
	}
	return s.persistEvent(game, "game_completed", payload)
}

// persistOfflineUpload records the raw sync payload alongside the game.
func (s *Server) persistOfflineUpload(game *Game, raw []byte) error {
	if s.db == nil {
		return nil
	}
	if game.DBID == 0 {
		return errors.New("game not persisted")
	}
	if !json.Valid(raw) {
		return errors.New("upload payload is not valid JSON")
	}
	event := db.Event{
		GameID:  game.DBID,
		Type:    "offline_sync",
		Payload: datatypes.JSON(raw),
	}
	return s.db.Create(&event).Error
}

func (s *Server) persistEvent(game *Game, eventType string, payload EventPayload) error {
	if s.db == nil {
		return nil
	}
	if game.DBID == 0 {
		return errors.New("game not persisted")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	event := db.Event{
		GameID:   game.DBID,
		PlayerID: s.resolveEventPlayerID(game, payload),
		Type:     eventType,
		Payload:  datatypes.JSON(data),
	}
	return s.db.Create(&event).Error
}

func (s *Server) resolveEventPlayerID(game *Game, payload EventPayload) *uint {
	if payload.PlayerID <= 0 {
		return nil
	}
	player, found := s.store.FindPlayer(game, payload.PlayerID)
	if found && player.DBID != 0 {
		value := player.DBID
		return &value
	}
	return nil
}

func (s *Server) findPlayerDBID(gameDBID uint, name string) (uint, error) {
	var record db.Player
	if err := s.db.Where("game_id = ? AND name = ?", gameDBID, name).First(&record).Error; err != nil {
		return 0, err
	}
	return record.ID, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
