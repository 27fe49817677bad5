package main

import (
	"log"
	"os"

	"github.com/mamansante/mamansante-be/internal/config"
	"github.com/mamansante/mamansante-be/internal/db"
)

func main() {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	sqlBytes, err := os.ReadFile("migrations/001_init.sql")
	if err != nil {
		log.Fatalf("Failed to read migration: %v", err)
	}

	database, err := db.NewFromURL(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if _, err := database.Exec(string(sqlBytes)); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migration OK")
}
