package server

import (
	"log"
	"net/http"

	"uno-tally/internal/config"

	"gorm.io/gorm"
)

type Server struct {
	store *Store
	db    *gorm.DB
	ws    *wsHub
	cfg   config.Config
}

// New builds a server around an optional database connection. With a nil
// connection everything lives in memory only.
func New(conn *gorm.DB, cfg config.Config) *Server {
	s := &Server{
		store: NewStore(),
		db:    conn,
		ws:    newWSHub(),
		cfg:   cfg,
	}
	if conn != nil {
		if err := s.restoreActiveGames(); err != nil {
			log.Printf("failed to restore active games: %v", err)
		}
	}
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /games/{id}", s.handleGameView)
	mux.HandleFunc("POST /api/games", s.handleCreateGame)
	mux.HandleFunc("GET /api/games", s.handleListGames)
	mux.HandleFunc("GET /api/games/{id}", s.handleGetGame)
	mux.HandleFunc("POST /api/games/{id}/players/{playerID}/add-points", s.handleAddPoints)
	mux.HandleFunc("POST /api/games/{id}/end", s.handleEndGame)
	mux.HandleFunc("POST /api/games/{id}/play-again", s.handlePlayAgain)
	mux.HandleFunc("GET /ws/games/{id}", s.handleWebsocket)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
	return mux
}
