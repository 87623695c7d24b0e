package cli

import (
	"fmt"

	"honey-shop/internal/config"
	"honey-shop/internal/database"
	"honey-shop/internal/logger"

	"go.uber.org/zap"
)

// env is what database-backed commands share
type env struct {
	cfg *config.Config
	log *zap.Logger
	db  database.Service
}

func newEnv(opts *RootOptions) (*env, error) {
	cfg := config.Load()

	log, err := logger.NewCLI(opts.Verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		return nil, err
	}

	health := db.Health()
	if health["status"] != "up" {
		_ = db.Close()
		return nil, fmt.Errorf("database unavailable: %s", health["error"])
	}
	log.Debug("Connected to database", zap.Any("health", health))

	return &env{cfg: cfg, log: log, db: db}, nil
}

func (e *env) Close() {
	_ = e.db.Close()
	_ = e.log.Sync()
}
