package main

import (
	"fmt"

	"github.com/northstar/summit/internal/config"
	"github.com/northstar/summit/internal/db"
	"github.com/northstar/summit/internal/goal"
	"github.com/northstar/summit/internal/snapshot"
	"gorm.io/gorm"
)

// openStore loads config, connects the snapshot backend, and hydrates an
// in-memory store from the persisted snapshot.
func openStore(configPath string) (*config.Config, *gorm.DB, *goal.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	gormDB, err := db.Open(cfg.DB)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := snapshot.AutoMigrate(gormDB); err != nil {
		return nil, nil, nil, err
	}

	goals, err := snapshot.Load(gormDB)
	if err != nil {
		return nil, nil, nil, err
	}

	store := goal.New(goal.Opts{
		CanvasMaxX: cfg.Canvas.MaxX,
		CanvasMaxY: cfg.Canvas.MaxY,
	})
	if err := store.Restore(goals); err != nil {
		return nil, nil, nil, fmt.Errorf("restore snapshot: %w", err)
	}

	return cfg, gormDB, store, nil
}

// saveStore persists the store's current state as the new snapshot.
func saveStore(gormDB *gorm.DB, store *goal.Store) error {
	return snapshot.Save(gormDB, store.Export())
}
