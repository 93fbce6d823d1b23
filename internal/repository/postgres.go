package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vancomm/minesweeper-rl/internal/learn"
)

// Queries stores learning results in Postgres. A *pgxpool.Pool, a
// *pgx.Conn or a pgx.Tx all satisfy DBTX.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) SaveResult(ctx context.Context, r *learn.Result) error {
	lr := NewLearningResult(r)
	_, err := q.db.Exec(
		ctx,
		`INSERT INTO learning_result (`+resultColumns+`)
		VALUES (`+resultValues+`);`,
		lr.Args(),
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return fmt.Errorf("%w: %s", ErrDuplicateRun, r.RunID)
	}
	return err
}

func (q *Queries) FetchResult(ctx context.Context, runID uuid.UUID) (*learn.Result, error) {
	rows, _ := q.db.Query(
		ctx,
		"SELECT "+resultColumns+" FROM learning_result WHERE run_id = $1",
		runID,
	)
	lr, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[LearningResult])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	if err != nil {
		return nil, err
	}
	return lr.Result(), nil
}

// ListResults returns results matching filter, best learned clear count
// first. A non-positive limit returns every match.
func (q *Queries) ListResults(
	ctx context.Context, filter ResultFilter, limit int,
) ([]*learn.Result, error) {
	query, args := listQuery(filter, limit)
	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	lrs, err := pgx.CollectRows(rows, pgx.RowToStructByName[LearningResult])
	if err != nil {
		return nil, err
	}
	out := make([]*learn.Result, 0, len(lrs))
	for _, lr := range lrs {
		out = append(out, lr.Result())
	}
	return out, nil
}
