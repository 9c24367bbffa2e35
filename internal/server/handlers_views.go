package server

import (
	"log"
	"net/http"
	"time"

	"uno-tally/internal/web"

	"github.com/a-h/templ"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	summaries := make([]web.GameSummary, 0)
	for _, game := range s.store.ActiveGameSummaries() {
		summaries = append(summaries, web.GameSummary{
			ID:        game.ID,
			Status:    game.Status,
			Players:   game.Players,
			StartedAt: game.StartedAt.Format(time.RFC3339),
		})
	}
	templ.Handler(web.Home(summaries)).ServeHTTP(w, r)
}

func (s *Server) handleGameView(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	if _, ok := s.store.GetGame(gameID); !ok {
		log.Printf("game view missing game_id=%s", gameID)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	templ.Handler(web.GameView(gameID)).ServeHTTP(w, r)
}
