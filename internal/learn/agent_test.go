package learn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vancomm/minesweeper-rl/internal/mines"
)

func newGame(t *testing.T, width, height, bombs int, seed int64) *mines.Game {
	t.Helper()
	g, err := mines.NewGame(mines.Config{Width: width, Height: height, BombCount: bombs, Seed: seed})
	require.NoError(t, err)
	g.GenerateRandomBoard()
	return g
}

func TestAgentPrefersBest(t *testing.T) {
	g := newGame(t, 4, 4, 3, 0)
	table := NewValueTable(1)
	table.Update(g.Board().Hash(), open(3, 2), 1)

	agent := NewAgent(table, -1, 0)
	for range 20 {
		cmd, ok := agent.Select(g)
		require.True(t, ok)
		assert.Equal(t, open(3, 2), cmd)
	}
}

func TestAgentExploresWithoutValues(t *testing.T) {
	g := newGame(t, 4, 4, 3, 0)
	agent := NewAgent(NewValueTable(1), -1, 0)

	valid := g.ValidCommands()
	seen := make(map[mines.Command]bool)
	for range 200 {
		cmd, ok := agent.Select(g)
		require.True(t, ok)
		assert.Contains(t, valid, cmd)
		seen[cmd] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestAgentAlwaysExploresAtEpsilonOne(t *testing.T) {
	g := newGame(t, 4, 4, 3, 0)
	table := NewValueTable(1)
	table.Update(g.Board().Hash(), open(3, 2), 1)

	agent := NewAgent(table, 1, 0)
	others := 0
	for range 100 {
		cmd, ok := agent.Select(g)
		require.True(t, ok)
		if cmd != open(3, 2) {
			others++
		}
	}
	assert.Greater(t, others, 50)
}

func TestAgentSameSeedSameChoices(t *testing.T) {
	g := newGame(t, 5, 5, 5, 0)
	a := NewAgent(NewValueTable(1), 0.5, 42)
	b := NewAgent(NewValueTable(1), 0.5, 42)
	for range 50 {
		ca, _ := a.Select(g)
		cb, _ := b.Select(g)
		assert.Equal(t, ca, cb)
	}
}

func TestAgentNoMoveAfterDeath(t *testing.T) {
	g := newGame(t, 2, 1, 1, 0)
	mine := 0
	if c, err := g.Cell(1); assert.NoError(t, err) && c.HasMine() {
		mine = 1
	}
	res, err := g.OpenCell(mine)
	require.NoError(t, err)
	require.True(t, res.Dead)

	_, ok := NewAgent(NewValueTable(1), -1, 0).Select(g)
	assert.False(t, ok)
}
