package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/julianLagraba/fin-pro/internal/config"
	"github.com/julianLagraba/fin-pro/internal/database"
	"github.com/julianLagraba/fin-pro/internal/logger"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type migrateCmd struct {
	configPath string
}

func (*migrateCmd) Name() string { return "migrate" }
func (*migrateCmd) Synopsis() string { return "create or update the schema and seed system categories" }
func (*migrateCmd) Usage() string {
	return `migrate [-config <path>]

  Runs the schema migration and inserts the system categories that are
  missing. Safe to run repeatedly.
`
}

func (m *migrateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&m.configPath, "config", "", "Path to the YAML config file (defaults to ./config.yaml when present).")
}

func (m *migrateCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := config.Load(m.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return subcommands.ExitFailure
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Error().Err(err).Msg("init database")
		return subcommands.ExitFailure
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		log.Error().Err(err).Msg("migrate database")
		return subcommands.ExitFailure
	}
	if err := database.SeedCategories(db, cfg.Ledger.SystemCategories); err != nil {
		log.Error().Err(err).Msg("seed categories")
		return subcommands.ExitFailure
	}
	log.Info().Str("driver", cfg.Database.Driver).Msg("migration finished")
	return subcommands.ExitSuccess
}

// prepareDatabase opens the database, migrates it and seeds the system
// categories. A failed seed is logged and does not stop the server.
func prepareDatabase(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Init(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	if err := database.SeedCategories(db, cfg.Ledger.SystemCategories); err != nil {
		log.Error().Err(err).Msg("seed system categories failed, continuing")
	}
	return db, nil
}
