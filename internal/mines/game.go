package mines

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/gammazero/deque"
)

var Log *slog.Logger = slog.Default()

type Config struct {
	Width, Height, BombCount int
	Seed                     int64
}

func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return ConfigError{
			fmt.Sprintf("board dimensions must be positive (got %dx%d)", c.Width, c.Height),
		}
	}
	if c.BombCount < 0 {
		return ConfigError{fmt.Sprintf("negative bomb count %d", c.BombCount)}
	}
	if c.BombCount >= c.Width*c.Height {
		return ConfigError{fmt.Sprintf(
			"bomb count %d leaves no safe cell on a %dx%d board",
			c.BombCount, c.Width, c.Height,
		)}
	}
	return nil
}

// OpenResult describes what a single operation did to the board.
type OpenResult struct {
	Clear, Dead bool

	// ChangedCells holds snapshots of the cells whose state changed, in the
	// order they were revealed.
	ChangedCells []Cell
}

// Game is not safe for concurrent use.
type Game struct {
	board  *Board
	config Config
	rnd    *rand.Rand
	dead   bool
	opened int
	todo   deque.Deque[int]
}

func NewGame(config Config) (*Game, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	board, err := NewBoard(config.Width, config.Height)
	if err != nil {
		return nil, err
	}
	seed := uint64(config.Seed)
	g := &Game{
		board:  board,
		config: config,
		rnd:    rand.New(rand.NewPCG(seed, seed)),
	}
	return g, nil
}

func (g *Game) Board() *Board    { return g.board }
func (g *Game) Config() Config   { return g.config }
func (g *Game) Dead() bool       { return g.dead }
func (g *Game) OpenedCount() int { return g.opened }

func (g *Game) Cell(index int) (Cell, error) {
	return g.board.Cell(index)
}

// Clear reports whether every safe cell is open. Flags do not count.
func (g *Game) Clear() bool {
	return !g.dead && g.opened == g.safeCells()
}

func (g *Game) safeCells() int {
	return g.board.Len() - g.config.BombCount
}

// GenerateRandomBoard lays out a new set of mines. Every call draws a fresh
// sub-seed from the game's source, so a game replays the same sequence of
// boards for the same seed.
func (g *Game) GenerateRandomBoard() {
	sub := g.rnd.Uint64()
	r := rand.New(rand.NewPCG(sub, sub))

	perm := make([]int, g.board.Len())
	for i := range perm {
		perm[i] = i
	}
	for i := len(perm) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}

	g.layMines(perm[:g.config.BombCount])

	Log.Debug(
		"generated board",
		slog.Int("width", g.config.Width),
		slog.Int("height", g.config.Height),
		slog.Int("bombs", g.config.BombCount),
		slog.Uint64("subseed", sub),
	)
}

// layMines closes every cell and recomputes values for the given mines.
func (g *Game) layMines(mines []int) {
	cells := g.board.cells
	for i := range cells {
		cells[i].State = Closed
		cells[i].Value = 0
	}
	for _, i := range mines {
		cells[i].Value = MineValue
	}
	for i := range cells {
		cell := &cells[i]
		if cell.HasMine() {
			continue
		}
		for _, n := range cell.eight {
			if n != NoNeighbor && cells[n].HasMine() {
				cell.Value++
			}
		}
	}
	g.opened = 0
}

// ClearBoard forgets a previous loss. The layout itself is replaced by the
// next GenerateRandomBoard call.
func (g *Game) ClearBoard() {
	g.dead = false
}

// OpenCell opens a closed cell, flooding through zero-valued regions.
// Opening a cell that is already open or flagged does nothing.
func (g *Game) OpenCell(index int) (*OpenResult, error) {
	if err := g.board.checkIndex(index); err != nil {
		return nil, err
	}
	res := &OpenResult{}
	g.open(index, res)
	return g.finish(res), nil
}

// OpenEightCell opens every neighbor of index as if each were opened on its
// own. The state of the center cell and the flags around it are not
// consulted.
func (g *Game) OpenEightCell(index int) (*OpenResult, error) {
	if err := g.board.checkIndex(index); err != nil {
		return nil, err
	}
	res := &OpenResult{}
	for _, n := range g.board.cells[index].eight {
		if n != NoNeighbor {
			g.open(n, res)
		}
	}
	return g.finish(res), nil
}

// ToggleFlag flips a closed cell to flagged and back. Open cells are left
// alone and produce an empty result.
func (g *Game) ToggleFlag(index int) (*OpenResult, error) {
	if err := g.board.checkIndex(index); err != nil {
		return nil, err
	}
	res := &OpenResult{}
	cell := &g.board.cells[index]
	switch cell.State {
	case Closed:
		cell.State = Flagged
	case Flagged:
		cell.State = Closed
	default:
		return res, nil
	}
	res.ChangedCells = append(res.ChangedCells, *cell)
	return res, nil
}

func (g *Game) Apply(cmd Command) (*OpenResult, error) {
	index, err := g.board.IndexOf(cmd.Row, cmd.Col)
	if err != nil {
		return nil, err
	}
	switch cmd.Kind {
	case CommandOpen:
		return g.OpenCell(index)
	case CommandOpenEight:
		return g.OpenEightCell(index)
	case CommandToggleFlag:
		return g.ToggleFlag(index)
	}
	return nil, fmt.Errorf("%w: unknown kind %d", ErrInvalidCommand, cmd.Kind)
}

// ValidCommands lists an open command for every closed cell in index order.
func (g *Game) ValidCommands() []Command {
	cmds := make([]Command, 0, g.safeCells())
	for _, c := range g.board.cells {
		if c.State == Closed {
			row, col := g.board.Position(c.Index)
			cmds = append(cmds, Command{Row: row, Col: col, Kind: CommandOpen})
		}
	}
	return cmds
}

func (g *Game) finish(res *OpenResult) *OpenResult {
	res.Dead = g.dead
	res.Clear = g.Clear()
	return res
}

/*
open reveals index depth-first with an explicit stack. Neighbors are pushed
in reverse so they pop in compass order, and a cell is only opened if it is
still closed when popped; this visits cells in the same order as a
recursive reveal would.
*/
func (g *Game) open(index int, res *OpenResult) {
	cells := g.board.cells

	g.todo.Clear()
	g.todo.PushBack(index)
	for g.todo.Len() > 0 {
		i := g.todo.PopBack()
		cell := &cells[i]
		if cell.State != Closed {
			continue
		}
		if cell.HasMine() {
			g.explode(i, res)
			return
		}

		cell.State = Open
		g.opened++
		res.ChangedCells = append(res.ChangedCells, *cell)

		if cell.Value != 0 {
			continue
		}
		for k := len(cell.eight) - 1; k >= 0; k-- {
			n := cell.eight[k]
			if n != NoNeighbor && cells[n].State == Closed {
				g.todo.PushBack(n)
			}
		}
	}
}

// explode ends the game: the mine is recorded as the changed cell and every
// other closed cell is opened. Flags stay in place.
func (g *Game) explode(index int, res *OpenResult) {
	g.dead = true
	g.todo.Clear()

	cells := g.board.cells
	cells[index].State = Open
	res.ChangedCells = append(res.ChangedCells, cells[index])

	g.opened = 0
	for i := range cells {
		if cells[i].State == Closed {
			cells[i].State = Open
		}
		if cells[i].State == Open {
			g.opened++
		}
	}

	row, col := g.board.Position(index)
	Log.Debug("mine opened", slog.Int("row", row), slog.Int("col", col))
}
