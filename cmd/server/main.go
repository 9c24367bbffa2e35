package main

import (
	"log"
	"net/http"
	"os"

	"uno-tally/internal/config"
	"uno-tally/internal/db"
	"uno-tally/internal/server"

	"gorm.io/gorm"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()

	addr := ":8080"
	if env := os.Getenv("PORT"); env != "" {
		addr = ":" + env
	}

	var conn *gorm.DB
	if os.Getenv("DATABASE_URL") != "" {
		opened, err := db.Open(cfg)
		if err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		conn = opened
	} else {
		log.Printf("DATABASE_URL not set, running in-memory only")
	}

	srv := server.New(conn, cfg)
	log.Printf("uno-tally server listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Fatal(err)
	}
}
