package main

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	minesweeperrl "github.com/vancomm/minesweeper-rl"
	"github.com/vancomm/minesweeper-rl/internal/config"
	"github.com/vancomm/minesweeper-rl/internal/database"
)

func main() {
	var logger *slog.Logger
	if config.Development() {
		logger = slog.New(
			tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelDebug}),
		)
	} else {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}

	url, err := config.DbURL()
	if err != nil {
		logger.Error("no database configured", slog.Any("error", err))
		os.Exit(1)
	}

	migrator, err := database.Migrate(url, minesweeperrl.Migrations, logger)
	if err != nil {
		logger.Error("failed to migrate db", slog.Any("error", err))
		os.Exit(1)
	}

	version, dirty, err := migrator.Version()
	if err != nil {
		logger.Error("failed to check migration version", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("migration successful", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
}
