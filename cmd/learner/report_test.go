package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vancomm/minesweeper-rl/internal/learn"
	"github.com/vancomm/minesweeper-rl/internal/repository"
)

func TestReport(t *testing.T) {
	store, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	defer store.Close()

	exps := learn.Sweep{
		Base: learn.Experiment{
			Width: 3, Height: 3,
			LearnCount: 30, StepSize: 0.1, Epsilon: 0.1,
			Rewards:    learn.DefaultRewards,
			SolveCount: 5,
		},
		BombCounts: []int{1, 2},
		Epsilons:   []float64{0.1, 0.2},
	}.Experiments()
	ctx := context.Background()
	require.NoError(t, learn.RunSweep(ctx, exps, 0, store, nil))

	var out strings.Builder
	require.NoError(t, report(ctx, &out, store, exps, 1))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "board"))
	assert.True(t, strings.HasPrefix(lines[1], "3x3(1)"))
	assert.True(t, strings.HasPrefix(lines[2], "3x3(2)"))
}
