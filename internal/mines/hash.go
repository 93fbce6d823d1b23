package mines

import (
	"strconv"
	"strings"
)

const (
	nibbleBits    = 4
	nibblesInWord = 16
	unknownNibble = 0xF
)

// Hash is the visible board state packed into 4-bit nibbles, one per cell.
type Hash []uint64

func HashWords(cells int) int {
	return (cells + nibblesInWord - 1) / nibblesInWord
}

// String renders the words as comma-separated decimals.
func (h Hash) String() string {
	parts := make([]string, len(h))
	for i, w := range h {
		parts[i] = strconv.FormatUint(w, 10)
	}
	return strings.Join(parts, ",")
}

// Key is a compact comparable form of h suitable for map keys.
func (h Hash) Key() string {
	var b strings.Builder
	b.Grow(len(h) * 8)
	for _, w := range h {
		for shift := 56; shift >= 0; shift -= 8 {
			b.WriteByte(byte(w >> shift))
		}
	}
	return b.String()
}

func (h Hash) Equal(o Hash) bool {
	if len(h) != len(o) {
		return false
	}
	for i := range h {
		if h[i] != o[i] {
			return false
		}
	}
	return true
}

func (b *Board) Hash() Hash {
	h := make(Hash, HashWords(len(b.cells)))
	b.HashInto(h)
	return h
}

// HashInto writes the board hash into dst, which must hold at least
// HashWords(b.Len()) words.
//
// Cells are shifted into their word from the right in index order, so the
// first cell of a word ends up in its most significant used nibble. A
// trailing partial word is not padded. Closed and flagged cells both hash as
// 0xF; open cells hash as their value (a detonated mine also reads 0xF).
func (b *Board) HashInto(dst []uint64) {
	words := HashWords(len(b.cells))
	if len(dst) < words {
		panic("mines: hash buffer too small")
	}
	for i := range words {
		dst[i] = 0
	}
	for i, c := range b.cells {
		w := i / nibblesInWord
		dst[w] <<= nibbleBits
		if c.State == Open {
			dst[w] |= uint64(c.Value) & unknownNibble
		} else {
			dst[w] |= unknownNibble
		}
	}
}
