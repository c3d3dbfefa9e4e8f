package bitboard

import (
	"fmt"

	"github.com/mitchelldurbincs/BattleshipHeatmap/internal/game/core"
)

// Cells 0..39 (rows 0-3) live in bits 0..39 of the low word; cells 40..99
// (rows 4-9) live in bits 0..59 of the high word. Keeping whole rows inside a
// word means horizontal runs never straddle words, and a vertical shift only
// needs the high word merged down once.
const (
	lowCells = 40
	highBase = 64

	// BitSpace is the number of physical bit positions in one bit-vector.
	BitSpace = 128
	// AnchorSpace is the size of the flattened (orientation, bit position)
	// anchor index: horizontal anchors in [0,128), vertical in [128,256).
	AnchorSpace = 2 * BitSpace
)

// validWords has exactly the bit positions that map to a cell.
var validWords = [2]uint64{1<<lowCells - 1, 1<<(core.Cells-lowCells) - 1}

// BitPos maps a row-major cell index to its physical bit position.
func BitPos(idx int) int {
	if idx < lowCells {
		return idx
	}
	return idx - lowCells + highBase
}

// CellIndex is the inverse of BitPos. ok is false for padding bits.
func CellIndex(pos int) (idx int, ok bool) {
	switch {
	case pos >= 0 && pos < lowCells:
		return pos, true
	case pos >= highBase && pos < highBase+core.Cells-lowCells:
		return pos - highBase + lowCells, true
	default:
		return 0, false
	}
}

// Anchor returns the flattened anchor index of a placement.
func Anchor(o core.Orientation, idx int) int {
	return int(o)*BitSpace + BitPos(idx)
}

// SplitAnchor returns the orientation and cell index of a flattened anchor.
func SplitAnchor(anchor int) (core.Orientation, int) {
	idx, ok := CellIndex(anchor % BitSpace)
	if !ok || anchor < 0 || anchor >= AnchorSpace {
		panic(fmt.Sprintf("bitboard: anchor %d maps to padding", anchor))
	}
	return core.Orientation(anchor / BitSpace), idx
}

func setBit(w *[2]uint64, pos int) { w[pos/64] |= 1 << (pos % 64) }

func testBit(w [2]uint64, pos int) bool { return w[pos/64]&(1<<(pos%64)) != 0 }

// CellMask returns the bit-vector with the given cells set.
func CellMask(cells ...int) [2]uint64 {
	var m [2]uint64
	for _, idx := range cells {
		setBit(&m, BitPos(idx))
	}
	return m
}
