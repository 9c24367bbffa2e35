package server

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"
)

type createGameRequest struct {
	Players    []string `json:"players"`
	StartedAt  string   `json:"started_at,omitempty"`
	EndedAt    string   `json:"ended_at,omitempty"`
	Status     string   `json:"status,omitempty"`
	WinnerName string   `json:"winner_name,omitempty"`
}

type addPointsRequest struct {
	Points int `json:"points"`
}

type endGameRequest struct {
	WinnerID int `json:"winner_id,omitempty"`
}

// handleCreateGame serves both live game creation and offline snapshot
// uploads from the sync engine. An upload arrives with status "completed"
// (or an explicit started_at) and identifies its winner by name, since the
// client's local player ids mean nothing here.
func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	var req createGameRequest
	if err := readJSON(bytes.NewReader(raw), &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	names, err := validatePlayerNames(req.Players, s.cfg.MinPlayers, s.cfg.MaxPlayers)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	status, err := validateStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	startedAt := timeNowUTC()
	source := sourceLive
	if req.StartedAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.StartedAt)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "started_at must be RFC 3339")
			return
		}
		startedAt = parsed.UTC()
		source = sourceOffline
	}

	game := s.store.CreateGame(names, startedAt, source)

	if status == statusCompleted {
		endedAt := timeNowUTC()
		if req.EndedAt != "" {
			parsed, err := time.Parse(time.RFC3339, req.EndedAt)
			if err != nil {
				writeError(w, http.StatusUnprocessableEntity, "ended_at must be RFC 3339")
				return
			}
			endedAt = parsed.UTC()
		}
		winnerID := 0
		if req.WinnerName != "" {
			found := false
			for _, player := range game.Players {
				if player.Name == req.WinnerName {
					winnerID = player.ID
					found = true
					break
				}
			}
			if !found {
				writeError(w, http.StatusUnprocessableEntity, "winner_name does not match any player")
				return
			}
		}
		s.store.UpdateGame(game.ID, func(game *Game) error {
			game.Status = statusCompleted
			game.WinnerID = winnerID
			game.EndedAt = &endedAt
			return nil
		})
	}

	if err := s.persistGame(game); err != nil {
		log.Printf("failed to persist game: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create game")
		return
	}
	if source == sourceOffline {
		if err := s.persistOfflineUpload(game, raw); err != nil {
			log.Printf("failed to record offline upload game_id=%s: %v", game.ID, err)
		}
	}

	log.Printf("game created game_id=%s players=%d status=%s source=%s", game.ID, len(game.Players), game.Status, game.Source)
	writeJSON(w, http.StatusCreated, map[string]string{
		"game_id": game.ID,
	})
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	summaries := s.store.ActiveGameSummaries()
	games := make([]map[string]any, 0, len(summaries))
	for _, summary := range summaries {
		games = append(games, map[string]any{
			"id":         summary.ID,
			"status":     summary.Status,
			"players":    summary.Players,
			"started_at": summary.StartedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"games": games})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	game, ok := s.store.GetGame(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"game": snapshotGame(game)})
}

func (s *Server) handleAddPoints(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	playerID, err := strconv.Atoi(r.PathValue("playerID"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	game, player, ok := s.store.GetPlayer(gameID, playerID)
	if !ok || player == nil {
		http.NotFound(w, r)
		return
	}
	if game.Status != statusActive {
		writeError(w, http.StatusConflict, "game already completed")
		return
	}

	var req addPointsRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validatePoints(req.Points, s.cfg.MaxPointsPerHand); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	won := false
	game, err = s.store.UpdateGame(gameID, func(game *Game) error {
		target, ok := s.store.FindPlayer(game, playerID)
		if !ok {
			return fmt.Errorf("player not found")
		}
		target.Points += req.Points
		game.History = append(game.History, HandEntry{
			PlayerID: playerID,
			Points:   req.Points,
			At:       timeNowUTC(),
		})
		// The server is the one side that declares a winner automatically;
		// offline games end only by explicit request.
		if target.Points >= s.cfg.WinningScore {
			now := timeNowUTC()
			game.Status = statusCompleted
			game.WinnerID = playerID
			game.EndedAt = &now
			won = true
		}
		return nil
	})
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := s.persistHand(game, player, req.Points); err != nil {
		log.Printf("failed to persist hand game_id=%s: %v", game.ID, err)
	}
	if won {
		if err := s.persistCompletion(game); err != nil {
			log.Printf("failed to persist completion game_id=%s: %v", game.ID, err)
		}
		log.Printf("winner declared game_id=%s player=%s points=%d", game.ID, player.Name, player.Points)
	}
	s.broadcastGame(game)

	response := map[string]any{
		"message": fmt.Sprintf("Added %d points to %s", req.Points, player.Name),
		"game":    snapshotGame(game),
	}
	if won {
		response["winner"] = player.Name
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleEndGame(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	game, ok := s.store.GetGame(gameID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if game.Status != statusActive {
		writeError(w, http.StatusConflict, "game already completed")
		return
	}

	var req endGameRequest
	if r.ContentLength > 0 {
		if err := readJSON(r.Body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if req.WinnerID != 0 {
		if _, ok := s.store.FindPlayer(game, req.WinnerID); !ok {
			writeError(w, http.StatusUnprocessableEntity, "winner_id does not belong to this game")
			return
		}
	}

	game, err := s.store.UpdateGame(gameID, func(game *Game) error {
		now := timeNowUTC()
		game.Status = statusCompleted
		game.WinnerID = req.WinnerID
		game.EndedAt = &now
		return nil
	})
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := s.persistCompletion(game); err != nil {
		log.Printf("failed to persist completion game_id=%s: %v", game.ID, err)
	}
	s.broadcastGame(game)

	log.Printf("game ended game_id=%s winner_id=%d", game.ID, game.WinnerID)
	writeJSON(w, http.StatusOK, map[string]any{"game": snapshotGame(game)})
}

func (s *Server) handlePlayAgain(w http.ResponseWriter, r *http.Request) {
	source, ok := s.store.GetGame(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	names := make([]string, 0, len(source.Players))
	for _, player := range source.Players {
		names = append(names, player.Name)
	}

	game := s.store.CreateGame(names, timeNowUTC(), sourceLive)
	if err := s.persistGame(game); err != nil {
		log.Printf("failed to persist game: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create game")
		return
	}

	log.Printf("play again source_id=%s game_id=%s", source.ID, game.ID)
	writeJSON(w, http.StatusCreated, map[string]any{
		"game_id": game.ID,
		"game":    snapshotGame(game),
	})
}
