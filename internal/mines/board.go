package mines

import (
	"fmt"
	"strconv"
	"strings"
)

type Board struct {
	width, height int
	cells         []Cell
}

// NewBoard allocates width*height closed cells and links every cell to its
// neighbors. The links never change afterwards; resets only touch values and
// states.
func NewBoard(width, height int) (*Board, error) {
	if width <= 0 || height <= 0 {
		return nil, ConfigError{
			fmt.Sprintf("board dimensions must be positive (got %dx%d)", width, height),
		}
	}

	b := &Board{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
	}

	for y := range height {
		for x := range width {
			cell := &b.cells[y*width+x]
			cell.Index = y*width + x
			for k, d := range eightOffsets {
				cell.eight[k] = b.indexOrNone(y+d[0], x+d[1])
			}
			for k, d := range fourOffsets {
				cell.four[k] = b.indexOrNone(y+d[0], x+d[1])
			}
		}
	}

	return b, nil
}

func (b *Board) indexOrNone(row, col int) int {
	if 0 <= row && row < b.height && 0 <= col && col < b.width {
		return row*b.width + col
	}
	return NoNeighbor
}

func (b *Board) Width() int  { return b.width }
func (b *Board) Height() int { return b.height }
func (b *Board) Len() int    { return len(b.cells) }

func (b *Board) InBounds(index int) bool {
	return 0 <= index && index < len(b.cells)
}

func (b *Board) checkIndex(index int) error {
	if !b.InBounds(index) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, index, len(b.cells))
	}
	return nil
}

// Cell returns a snapshot of the cell at index.
func (b *Board) Cell(index int) (Cell, error) {
	if err := b.checkIndex(index); err != nil {
		return Cell{}, err
	}
	return b.cells[index], nil
}

// IndexOf converts a position to a cell index.
func (b *Board) IndexOf(row, col int) (int, error) {
	if row < 0 || row >= b.height || col < 0 || col >= b.width {
		return 0, fmt.Errorf(
			"%w: position %d:%d not on %dx%d board",
			ErrOutOfRange, row, col, b.width, b.height,
		)
	}
	return row*b.width + col, nil
}

func (b *Board) Position(index int) (row, col int) {
	return index / b.width, index % b.width
}

// Cells returns snapshots of all cells in index order.
func (b *Board) Cells() []Cell {
	out := make([]Cell, len(b.cells))
	copy(out, b.cells)
	return out
}

func (b *Board) String() string {
	return b.render(Cell.Glyph)
}

// RawString shows the mine layout regardless of cell states.
func (b *Board) RawString() string {
	return b.render(func(c Cell) string {
		if c.HasMine() {
			return "*"
		}
		return strconv.Itoa(c.Value)
	})
}

func (b *Board) render(glyph func(Cell) string) string {
	var sb strings.Builder
	sb.WriteString(" |")
	for x := range b.width {
		sb.WriteString(strconv.Itoa(x % 10))
	}
	sb.WriteString("\n +")
	sb.WriteString(strings.Repeat("-", b.width))
	sb.WriteByte('\n')
	for y := range b.height {
		fmt.Fprintf(&sb, "%d|", y%10)
		for x := range b.width {
			sb.WriteString(glyph(b.cells[y*b.width+x]))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
