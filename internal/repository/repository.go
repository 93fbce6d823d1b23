package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vancomm/minesweeper-rl/internal/learn"
)

var (
	ErrDuplicateRun = errors.New("learning result already stored")
	ErrNotFound     = errors.New("learning result not found")
)

// Store is implemented by both the Postgres and the SQLite backends.
type Store interface {
	learn.ResultSink
	FetchResult(ctx context.Context, runID uuid.UUID) (*learn.Result, error)
	ListResults(ctx context.Context, filter ResultFilter, limit int) ([]*learn.Result, error)
}

var (
	_ Store = (*Queries)(nil)
	_ Store = (*SQLite)(nil)
)

type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

// LearningResult is one row of the learning_result table.
type LearningResult struct {
	RunID                 uuid.UUID `db:"run_id"`
	AlgorithmVersion      string    `db:"algorithm_version"`
	CreatedAt             time.Time `db:"created_at"`
	BoardWidth            int       `db:"board_width"`
	BoardHeight           int       `db:"board_height"`
	BombCount             int       `db:"bomb_count"`
	LearnCount            int       `db:"learn_count"`
	LearnDurationMs       int64     `db:"learn_duration_ms"`
	StepSize              float64   `db:"step_size"`
	Epsilon               float64   `db:"epsilon"`
	RewardOpenOne         float64   `db:"reward_open_one"`
	RewardOpenMulti       float64   `db:"reward_open_multi"`
	RewardDead            float64   `db:"reward_dead"`
	States                int       `db:"states"`
	SolveTrialCount       int       `db:"solve_trial_count"`
	SolvedWithoutLearning int       `db:"solved_without_learning"`
	SolvedWithLearning    int       `db:"solved_with_learning"`
}

const resultColumns = `run_id, algorithm_version, created_at,
	board_width, board_height, bomb_count,
	learn_count, learn_duration_ms, step_size, epsilon,
	reward_open_one, reward_open_multi, reward_dead, states,
	solve_trial_count, solved_without_learning, solved_with_learning`

const resultValues = `@run_id, @algorithm_version, @created_at,
	@board_width, @board_height, @bomb_count,
	@learn_count, @learn_duration_ms, @step_size, @epsilon,
	@reward_open_one, @reward_open_multi, @reward_dead, @states,
	@solve_trial_count, @solved_without_learning, @solved_with_learning`

func NewLearningResult(r *learn.Result) LearningResult {
	return LearningResult{
		RunID:                 r.RunID,
		AlgorithmVersion:      r.AlgorithmVersion,
		CreatedAt:             r.CreatedAt,
		BoardWidth:            r.Width,
		BoardHeight:           r.Height,
		BombCount:             r.BombCount,
		LearnCount:            r.LearnCount,
		LearnDurationMs:       r.LearnDuration.Milliseconds(),
		StepSize:              r.StepSize,
		Epsilon:               r.Epsilon,
		RewardOpenOne:         r.Rewards.OpenOne,
		RewardOpenMulti:       r.Rewards.OpenMulti,
		RewardDead:            r.Rewards.Dead,
		States:                r.States,
		SolveTrialCount:       r.SolveTrialCount,
		SolvedWithoutLearning: r.SolvedWithoutLearning,
		SolvedWithLearning:    r.SolvedWithLearning,
	}
}

func (lr LearningResult) Result() *learn.Result {
	return &learn.Result{
		RunID:            lr.RunID,
		AlgorithmVersion: lr.AlgorithmVersion,
		CreatedAt:        lr.CreatedAt,
		Width:            lr.BoardWidth,
		Height:           lr.BoardHeight,
		BombCount:        lr.BombCount,
		LearnCount:       lr.LearnCount,
		LearnDuration:    time.Duration(lr.LearnDurationMs) * time.Millisecond,
		StepSize:         lr.StepSize,
		Epsilon:          lr.Epsilon,
		Rewards: learn.Rewards{
			OpenOne:   lr.RewardOpenOne,
			OpenMulti: lr.RewardOpenMulti,
			Dead:      lr.RewardDead,
		},
		States:                lr.States,
		SolveTrialCount:       lr.SolveTrialCount,
		SolvedWithoutLearning: lr.SolvedWithoutLearning,
		SolvedWithLearning:    lr.SolvedWithLearning,
	}
}

// Args returns the row as named arguments matching resultValues.
func (lr LearningResult) Args() pgx.NamedArgs {
	return pgx.NamedArgs{
		"run_id":                  lr.RunID,
		"algorithm_version":       lr.AlgorithmVersion,
		"created_at":              lr.CreatedAt,
		"board_width":             lr.BoardWidth,
		"board_height":            lr.BoardHeight,
		"bomb_count":              lr.BombCount,
		"learn_count":             lr.LearnCount,
		"learn_duration_ms":       lr.LearnDurationMs,
		"step_size":               lr.StepSize,
		"epsilon":                 lr.Epsilon,
		"reward_open_one":         lr.RewardOpenOne,
		"reward_open_multi":       lr.RewardOpenMulti,
		"reward_dead":             lr.RewardDead,
		"states":                  lr.States,
		"solve_trial_count":       lr.SolveTrialCount,
		"solved_without_learning": lr.SolvedWithoutLearning,
		"solved_with_learning":    lr.SolvedWithLearning,
	}
}

// ResultFilter narrows listings to one board shape. Nil fields match
// everything.
type ResultFilter struct {
	Width     *int
	Height    *int
	BombCount *int
	Algorithm *string
}

func (f ResultFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Width != nil {
		clauses = append(clauses, "board_width = @board_width")
		args["board_width"] = *f.Width
	}
	if f.Height != nil {
		clauses = append(clauses, "board_height = @board_height")
		args["board_height"] = *f.Height
	}
	if f.BombCount != nil {
		clauses = append(clauses, "bomb_count = @bomb_count")
		args["bomb_count"] = *f.BombCount
	}
	if f.Algorithm != nil {
		clauses = append(clauses, "algorithm_version = @algorithm_version")
		args["algorithm_version"] = *f.Algorithm
	}
	return strings.Join(clauses, " AND "), args
}

// listQuery builds the shared SELECT for listings, best learned clear
// count first.
func listQuery(filter ResultFilter, limit int) (string, pgx.NamedArgs) {
	query := "SELECT " + resultColumns + " FROM learning_result"
	where, args := filter.WhereClause()
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY solved_with_learning DESC, created_at"
	if limit > 0 {
		query += " LIMIT @limit"
		args["limit"] = limit
	}
	return query, args
}
