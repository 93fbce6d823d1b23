package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
	"golang.org/x/sync/errgroup"

	minesweeperrl "github.com/vancomm/minesweeper-rl"
	"github.com/vancomm/minesweeper-rl/internal/config"
	"github.com/vancomm/minesweeper-rl/internal/database"
	"github.com/vancomm/minesweeper-rl/internal/learn"
	"github.com/vancomm/minesweeper-rl/internal/repository"
)

var (
	log = logrus.New()

	configPath string
	reportTop  int
	cfg        *config.Learner
)

func init() {
	const usage = "config file path"
	flag.StringVar(&configPath, "config", "", usage)
	flag.StringVar(&configPath, "c", "", usage+" (shorthand)")
	flag.IntVar(&reportTop, "report", 10, "print the best n stored results for each swept board (0 disables)")
}

func setupLogging() error {
	level := logrus.InfoLevel
	if config.Development() {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{ForceColors: true})

	if cfg.LogFile == "" {
		return nil
	}
	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   cfg.LogFile,
		MaxSize:    50,
		MaxBackups: 5,
		MaxAge:     30,
		Level:      level,
		Formatter:  &logrus.JSONFormatter{TimestampFormat: time.RFC3339},
	})
	if err != nil {
		return err
	}
	log.AddHook(hook)
	return nil
}

// openStore returns the configured result store and a function releasing it.
func openStore(ctx context.Context) (repository.Store, func(), error) {
	if cfg.Storage == config.StorageSQLite {
		s, err := repository.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	}

	if !cfg.Migrate {
		pool, err := database.Connect(ctx)
		if err != nil {
			return nil, nil, err
		}
		return repository.New(pool), pool.Close, nil
	}

	pool, migrator, err := database.ConnectAndMigrate(ctx, minesweeperrl.Migrations, slog.Default())
	if err != nil {
		return nil, nil, err
	}
	if version, dirty, err := migrator.Version(); err == nil {
		log.WithFields(logrus.Fields{"version": version, "dirty": dirty}).Info("database migrated")
	}
	return repository.New(pool), pool.Close, nil
}

func main() {
	mainCtx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	flag.Parse()

	var err error
	if cfg, err = config.LoadLearner(configPath); err != nil {
		log.Fatal(err)
	}
	if err := setupLogging(); err != nil {
		log.Fatal("unable to set up log file: ", err)
	}

	log.Info("starting up, storage = ", cfg.Storage)
	log.WithFields(cfg.Fields()).Debug("config")

	store, release, err := openStore(mainCtx)
	if err != nil {
		log.Fatal("unable to open result store: ", err)
	}
	defer release()

	if cfg.ValueDir != "" {
		if err := os.MkdirAll(cfg.ValueDir, 0o755); err != nil {
			log.Fatal("unable to create value dir: ", err)
		}
	}

	sweep := cfg.Sweep()
	exps := sweep.Experiments()
	log.Infof("running %d experiments, %d at a time", len(exps), cfg.Parallel)

	done := make(chan struct{})
	g, gCtx := errgroup.WithContext(mainCtx)
	g.Go(func() error {
		defer close(done)
		return learn.RunSweep(gCtx, exps, cfg.Parallel, store, log)
	})
	g.Go(func() error {
		select {
		case <-gCtx.Done():
			log.Warn("stopping, waiting for running episodes to return")
		case <-done:
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Errorf("exit reason: %s", err)
		return
	}
	log.Info("sweep finished")

	if reportTop > 0 {
		if err := report(mainCtx, os.Stdout, store, exps, reportTop); err != nil {
			log.Error("unable to build report: ", err)
		}
	}
}
