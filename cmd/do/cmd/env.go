package cmd

import (
	"github.com/jmoiron/sqlx"
	"github.com/toucann/taskengine/internal/config"
	"github.com/toucann/taskengine/internal/db"
	"github.com/toucann/taskengine/internal/logger"
)

// setup loads config and initializes logging for a command.
func setup() *config.Config {
	cfg := config.Load()
	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)
	return cfg
}

// openDB connects without running migrations; commands decide that themselves.
func openDB(cfg *config.Config) (*sqlx.DB, error) {
	return db.Init(cfg.DBDriver, cfg.DBConnection)
}

func flush() {
	logger.Flush()
}
