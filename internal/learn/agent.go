package learn

import (
	"math/rand/v2"

	"github.com/vancomm/minesweeper-rl/internal/mines"
)

// Agent picks moves epsilon-greedily from a value table. A negative epsilon
// disables exploration entirely.
type Agent struct {
	table   *ValueTable
	epsilon float64
	rnd     *rand.Rand
	hash    mines.Hash
}

func NewAgent(table *ValueTable, epsilon float64, seed int64) *Agent {
	s := uint64(seed)
	return &Agent{
		table:   table,
		epsilon: epsilon,
		rnd:     rand.New(rand.NewPCG(s, s)),
	}
}

func (a *Agent) Table() *ValueTable { return a.table }

// Select returns the next command for g. It reports false only when g has
// no closed cell left.
func (a *Agent) Select(g *mines.Game) (mines.Command, bool) {
	board := g.Board()
	if words := mines.HashWords(board.Len()); len(a.hash) != words {
		a.hash = make(mines.Hash, words)
	}
	board.HashInto(a.hash)

	cmd, ok := a.table.Best(a.hash)
	if ok && !(a.epsilon >= 0 && a.rnd.Float64() < a.epsilon) {
		return cmd, true
	}

	valid := g.ValidCommands()
	if len(valid) == 0 {
		return mines.Command{}, false
	}
	return valid[a.rnd.IntN(len(valid))], true
}
