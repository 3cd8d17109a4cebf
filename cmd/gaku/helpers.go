package main

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/gaku/internal/config"
	"github.com/at-ishikawa/gaku/internal/database"
	"github.com/at-ishikawa/gaku/internal/manager"
	"github.com/at-ishikawa/gaku/internal/storage"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

func openDatabase(cfg *config.Config) (*sqlx.DB, error) {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database.Open() > %w", err)
	}
	return db, nil
}

func newManager(cfg *config.Config, db *sqlx.DB) *manager.Manager {
	return manager.New(*cfg,
		storage.NewCardRepository(db),
		storage.NewReviewRepository(db),
		storage.NewMistakeRepository(db),
		nil,
	)
}
