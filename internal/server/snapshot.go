package server

import "time"

// snapshotGame is the JSON view of a game served by the API and pushed
// over the scoreboard websocket.
func snapshotGame(game *Game) map[string]any {
	players := make([]map[string]any, 0, len(game.Players))
	for _, player := range game.Players {
		players = append(players, map[string]any{
			"id":     player.ID,
			"name":   player.Name,
			"points": player.Points,
		})
	}

	nameByID := make(map[int]string, len(game.Players))
	for _, player := range game.Players {
		nameByID[player.ID] = player.Name
	}
	hands := make([]map[string]any, 0, len(game.History))
	for _, hand := range game.History {
		hands = append(hands, map[string]any{
			"player_id":       hand.PlayerID,
			"player_name":     nameByID[hand.PlayerID],
			"points_received": hand.Points,
			"created_at":      hand.At.Format(time.RFC3339),
		})
	}

	snapshot := map[string]any{
		"id":             game.ID,
		"status":         game.Status,
		"source":         game.Source,
		"players":        players,
		"started_at":     game.StartedAt.Format(time.RFC3339),
		"hand_histories": hands,
	}
	if game.EndedAt != nil {
		snapshot["ended_at"] = game.EndedAt.Format(time.RFC3339)
	}
	if winner, ok := game.Winner(); ok {
		snapshot["winner_name"] = winner.Name
		snapshot["winner_id"] = winner.ID
	}
	return snapshot
}
