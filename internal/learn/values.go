package learn

import (
	"slices"

	"github.com/vancomm/minesweeper-rl/internal/mines"
)

type actionValue struct {
	cmd   mines.Command
	value float64
}

type stateValues struct {
	hash    mines.Hash
	actions []actionValue
}

func (s *stateValues) find(cmd mines.Command) *actionValue {
	for i := range s.actions {
		if s.actions[i].cmd == cmd {
			return &s.actions[i]
		}
	}
	return nil
}

// ValueTable holds one value per (board hash, command) pair. Actions of a
// state keep their insertion order so lookups and saved files are
// reproducible.
type ValueTable struct {
	step   float64
	states map[string]*stateValues
}

func NewValueTable(step float64) *ValueTable {
	return &ValueTable{
		step:   step,
		states: make(map[string]*stateValues),
	}
}

func (t *ValueTable) StepSize() float64 { return t.step }

// Len is the number of distinct board states in the table.
func (t *ValueTable) Len() int { return len(t.states) }

// Entries is the number of (state, command) values in the table.
func (t *ValueTable) Entries() (n int) {
	for _, s := range t.states {
		n += len(s.actions)
	}
	return
}

func (t *ValueTable) state(h mines.Hash, create bool) *stateValues {
	key := h.Key()
	s, ok := t.states[key]
	if !ok && create {
		s = &stateValues{hash: slices.Clone(h)}
		t.states[key] = s
	}
	return s
}

func (t *ValueTable) Value(h mines.Hash, cmd mines.Command) (float64, bool) {
	s := t.state(h, false)
	if s == nil {
		return 0, false
	}
	if a := s.find(cmd); a != nil {
		return a.value, true
	}
	return 0, false
}

// Best returns the command with the greatest non-negative value for h. Ties
// go to the command learned last. States with no such command yield false.
func (t *ValueTable) Best(h mines.Hash) (mines.Command, bool) {
	s := t.state(h, false)
	if s == nil {
		return mines.Command{}, false
	}
	var (
		best  mines.Command
		found bool
		top   = 0.0
	)
	for _, a := range s.actions {
		if a.value >= top {
			best, top, found = a.cmd, a.value, true
		}
	}
	return best, found
}

// Update moves the value of (h, cmd) towards reward by the table's step
// size. Unknown pairs start at zero.
func (t *ValueTable) Update(h mines.Hash, cmd mines.Command, reward float64) {
	s := t.state(h, true)
	a := s.find(cmd)
	if a == nil {
		s.actions = append(s.actions, actionValue{cmd: cmd})
		a = &s.actions[len(s.actions)-1]
	}
	a.value += t.step * (reward - a.value)
}

// set overwrites a value; used when loading value files.
func (t *ValueTable) set(h mines.Hash, cmd mines.Command, value float64) {
	s := t.state(h, true)
	if a := s.find(cmd); a != nil {
		a.value = value
		return
	}
	s.actions = append(s.actions, actionValue{cmd: cmd, value: value})
}

// sorted returns the states ordered by hash words.
func (t *ValueTable) sorted() []*stateValues {
	out := make([]*stateValues, 0, len(t.states))
	for _, s := range t.states {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b *stateValues) int {
		return slices.Compare(a.hash, b.hash)
	})
	return out
}
