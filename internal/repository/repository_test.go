package repository

import (
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/vancomm/minesweeper-rl/internal/learn"
)

func TestWhereClause(t *testing.T) {
	where, args := ResultFilter{}.WhereClause()
	assert.Empty(t, where)
	assert.Empty(t, args)

	w, b := 4, 3
	where, args = ResultFilter{Width: &w, BombCount: &b}.WhereClause()
	assert.Equal(t, "board_width = @board_width AND bomb_count = @bomb_count", where)
	assert.Equal(t, pgx.NamedArgs{"board_width": 4, "bomb_count": 3}, args)
}

func TestListQuery(t *testing.T) {
	query, args := listQuery(ResultFilter{}, 0)
	assert.NotContains(t, query, "WHERE")
	assert.NotContains(t, query, "LIMIT")
	assert.Empty(t, args)

	h := 5
	query, args = listQuery(ResultFilter{Height: &h}, 10)
	assert.True(t, strings.HasSuffix(query, "LIMIT @limit"))
	assert.Contains(t, query, "WHERE board_height = @board_height ORDER BY")
	assert.Equal(t, 10, args["limit"])
}

func TestLearningResultRoundTrip(t *testing.T) {
	r := newResult(4, 5, 6, 70)
	lr := NewLearningResult(r)
	assert.Equal(t, int64(1500), lr.LearnDurationMs)
	assert.Equal(t, r, lr.Result())

	args := lr.Args()
	assert.Len(t, args, strings.Count(resultColumns, ",")+1)
	for _, col := range strings.Split(resultColumns, ",") {
		assert.Contains(t, args, strings.TrimSpace(col))
	}
	assert.Equal(t, learn.DefaultRewards.Dead, args["reward_dead"])
}
