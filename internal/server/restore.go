package server

import (
	"fmt"
	"log"

	"uno-tally/internal/db"
)

// restoreActiveGames reloads every active game from the database into the
// in-memory store on boot. Completed games stay database-only history.
func (s *Server) restoreActiveGames() error {
	records, err := db.ActiveGames(s.db)
	if err != nil {
		return err
	}
	for i := range records {
		game := restoredGame(&records[i])
		if err := s.store.RestoreGame(game); err != nil {
			log.Printf("skipping restore game_id=%s: %v", game.ID, err)
			continue
		}
		log.Printf("restored game game_id=%s players=%d hands=%d", game.ID, len(game.Players), len(game.History))
	}
	return nil
}

// restoredGame rebuilds the in-memory shape of a persisted game. Players
// reuse their database ids so counters stay globally unique.
func restoredGame(record *db.Game) *Game {
	game := &Game{
		ID:        fmt.Sprintf("game-%d", record.ID),
		DBID:      record.ID,
		Status:    record.Status,
		Source:    record.Source,
		StartedAt: record.StartedAt.UTC(),
		EndedAt:   record.EndedAt,
	}
	byDBID := make(map[uint]int, len(record.Players))
	for _, row := range record.Players {
		id := int(row.ID)
		byDBID[row.ID] = id
		game.Players = append(game.Players, Player{
			ID:     id,
			DBID:   row.ID,
			Name:   row.Name,
			Points: row.Points,
		})
	}
	if record.WinnerID != nil {
		game.WinnerID = byDBID[*record.WinnerID]
	}
	for _, hand := range record.HandHistories {
		game.History = append(game.History, HandEntry{
			PlayerID: byDBID[hand.PlayerID],
			Points:   hand.PointsReceived,
			At:       hand.CreatedAt.UTC(),
		})
	}
	return game
}
