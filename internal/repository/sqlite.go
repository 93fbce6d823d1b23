package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/vancomm/minesweeper-rl/internal/learn"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS learning_result (
	run_id                  TEXT PRIMARY KEY,
	algorithm_version       TEXT NOT NULL,
	created_at              TIMESTAMP NOT NULL,
	board_width             INTEGER NOT NULL,
	board_height            INTEGER NOT NULL,
	bomb_count              INTEGER NOT NULL,
	learn_count             INTEGER NOT NULL,
	learn_duration_ms       INTEGER NOT NULL,
	step_size               REAL NOT NULL,
	epsilon                 REAL NOT NULL,
	reward_open_one         REAL NOT NULL,
	reward_open_multi       REAL NOT NULL,
	reward_dead             REAL NOT NULL,
	states                  INTEGER NOT NULL,
	solve_trial_count       INTEGER NOT NULL,
	solved_without_learning INTEGER NOT NULL,
	solved_with_learning    INTEGER NOT NULL
);`

// SQLite stores learning results in a single SQLite file. Writes are
// serialized.
type SQLite struct {
	mu sync.Mutex
	db *sql.DB
}

// NewSQLite creates the learning_result table in db if it is missing.
func NewSQLite(db *sql.DB) (*SQLite, error) {
	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("unable to create learning_result table: %w", err)
	}
	return &SQLite{db: db}, nil
}

func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	s, err := NewSQLite(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func namedArgs(args map[string]any) []any {
	out := make([]any, 0, len(args))
	for k, v := range args {
		out = append(out, sql.Named(k, v))
	}
	return out
}

func (s *SQLite) SaveResult(ctx context.Context, r *learn.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lr := NewLearningResult(r)
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO learning_result (`+resultColumns+`)
		VALUES (`+resultValues+`);`,
		namedArgs(lr.Args())...,
	)
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%w: %s", ErrDuplicateRun, r.RunID)
	}
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row scanner) (*learn.Result, error) {
	var lr LearningResult
	if err := row.Scan(
		&lr.RunID, &lr.AlgorithmVersion, &lr.CreatedAt,
		&lr.BoardWidth, &lr.BoardHeight, &lr.BombCount,
		&lr.LearnCount, &lr.LearnDurationMs, &lr.StepSize, &lr.Epsilon,
		&lr.RewardOpenOne, &lr.RewardOpenMulti, &lr.RewardDead, &lr.States,
		&lr.SolveTrialCount, &lr.SolvedWithoutLearning, &lr.SolvedWithLearning,
	); err != nil {
		return nil, err
	}
	return lr.Result(), nil
}

func (s *SQLite) FetchResult(ctx context.Context, runID uuid.UUID) (*learn.Result, error) {
	row := s.db.QueryRowContext(
		ctx,
		"SELECT "+resultColumns+" FROM learning_result WHERE run_id = ?;",
		runID,
	)
	r, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	return r, err
}

func (s *SQLite) ListResults(
	ctx context.Context, filter ResultFilter, limit int,
) ([]*learn.Result, error) {
	query, args := listQuery(filter, limit)
	rows, err := s.db.QueryContext(ctx, query, namedArgs(args)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*learn.Result
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
