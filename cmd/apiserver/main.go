// Package main runs the Deck Vault REST API server.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ramonehamilton/deck-vault/internal/api"
	"github.com/ramonehamilton/deck-vault/internal/auth"
	"github.com/ramonehamilton/deck-vault/internal/config"
	"github.com/ramonehamilton/deck-vault/internal/openinghand"
	"github.com/ramonehamilton/deck-vault/internal/scryfall"
	"github.com/ramonehamilton/deck-vault/internal/storage"
)

var (
	port   = flag.Int("port", 0, "API server port (overrides config)")
	dbPath = flag.String("db-path", "", "Database path (default: ~/.deck-vault/data.db)")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	finalDBPath := cfg.Database.Path
	if finalDBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}
		finalDBPath = filepath.Join(home, ".deck-vault", "data.db")
	}

	log.Printf("Database: %s", finalDBPath)

	dbConfig := storage.DefaultConfig(finalDBPath)
	dbConfig.AutoMigrate = true
	db, err := storage.Open(dbConfig)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	store := storage.NewService(db)

	catalog := scryfall.NewCatalog(scryfall.NewClient(cfg.Scryfall.BaseURL, cfg.Scryfall.UserAgent))
	access := auth.NewAccess(store)
	resolver := openinghand.NewResolver(store, catalog, access)

	maxAge, err := cfg.GetStateMaxAge()
	if err != nil {
		log.Fatalf("Invalid state max age: %v", err)
	}
	codec, err := openinghand.NewStateCodec(cfg.Security.SecretKey, maxAge)
	if err != nil {
		log.Fatalf("Failed to create state codec: %v", err)
	}

	openingHand := openinghand.NewService(resolver, codec, cfg.OpeningHand.PlaceholderURL)

	server := api.NewServer(&api.Config{Port: cfg.Server.Port}, openingHand, store)
	if err := server.Start(); err != nil {
		log.Fatalf("Failed to start API server: %v", err)
	}

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
