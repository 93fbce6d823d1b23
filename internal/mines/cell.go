package mines

import "strconv"

type CellState int8

const (
	Closed CellState = iota
	Open
	Flagged
)

func (s CellState) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case Flagged:
		return "flagged"
	default:
		return "CellState(" + strconv.Itoa(int(s)) + ")"
	}
}

const (
	MineValue  = -1
	NoNeighbor = -1
)

var (
	eightOffsets = [8][2]int{
		{-1, -1}, {-1, 0}, {-1, 1},
		{0, -1}, {0, 1},
		{1, -1}, {1, 0}, {1, 1},
	}
	fourOffsets = [4][2]int{
		{-1, 0}, {0, -1}, {0, 1}, {1, 0},
	}
)

// Cell is a single board square. Neighbor links are indices into the owning
// board's cell slice; NoNeighbor marks an edge.
type Cell struct {
	Index int
	Value int
	State CellState

	eight [8]int
	four  [4]int
}

func (c Cell) HasMine() bool {
	return c.Value < 0
}

func (c Cell) Neighbors8() [8]int {
	return c.eight
}

func (c Cell) Neighbors4() [4]int {
	return c.four
}

// Glyph is the player's view of the cell.
func (c Cell) Glyph() string {
	switch c.State {
	case Flagged:
		return "!"
	case Open:
		if c.HasMine() {
			return "*"
		}
		return strconv.Itoa(c.Value)
	default:
		return "?"
	}
}
