package main

import (
	"flag"
	"hash/maphash"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/vancomm/minesweeper-rl/internal/config"
	"github.com/vancomm/minesweeper-rl/internal/mines"
)

func randomSeed() int64 {
	return int64(new(maphash.Hash).Sum64())
}

func main() {
	var (
		width  = flag.Int("width", 10, "board width")
		height = flag.Int("height", 10, "board height")
		bombs  = flag.Int("bombs", 10, "number of mines")
		seed   = flag.Int64("seed", 0, "board seed (0 picks a random one)")
	)
	flag.Parse()

	var logger *slog.Logger
	if config.Development() {
		logger = slog.New(
			tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelDebug}),
		)
	} else {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	mines.Log = logger

	if *seed == 0 {
		*seed = randomSeed()
	}
	game, err := mines.NewGame(mines.Config{
		Width:     *width,
		Height:    *height,
		BombCount: *bombs,
		Seed:      *seed,
	})
	if err != nil {
		logger.Error("unable to create game", slog.Any("error", err))
		os.Exit(2)
	}
	game.GenerateRandomBoard()
	logger.Debug("game ready", slog.Int64("seed", *seed))

	if err := play(game, os.Stdin, os.Stdout); err != nil {
		logger.Error("console failed", slog.Any("error", err))
		os.Exit(1)
	}
}
