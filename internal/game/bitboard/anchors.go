package bitboard

import (
	"fmt"
	"math/bits"

	"github.com/mitchelldurbincs/BattleshipHeatmap/internal/game/core"
)

// Anchors holds the legal anchor bits of one ship, one bit-vector per
// orientation, in the BitPos layout.
type Anchors struct {
	Horizontal [2]uint64
	Vertical   [2]uint64
}

// Counts returns the number of legal horizontal and vertical anchors.
func (a Anchors) Counts() (horizontal, vertical int) {
	horizontal = bits.OnesCount64(a.Horizontal[0]) + bits.OnesCount64(a.Horizontal[1])
	vertical = bits.OnesCount64(a.Vertical[0]) + bits.OnesCount64(a.Vertical[1])
	return horizontal, vertical
}

// Total is the number of legal placements.
func (a Anchors) Total() int {
	h, v := a.Counts()
	return h + v
}

// Contains reports whether the flattened anchor is legal.
func (a Anchors) Contains(anchor int) bool {
	if anchor < BitSpace {
		return testBit(a.Horizontal, anchor)
	}
	return testBit(a.Vertical, anchor-BitSpace)
}

// Each calls fn for every legal anchor: horizontal ones first, then vertical,
// each in ascending bit order. This is the order Pick indexes into.
func (a Anchors) Each(fn func(anchor int)) {
	for o, words := range [2][2]uint64{a.Horizontal, a.Vertical} {
		for w, word := range words {
			for word != 0 {
				fn(o*BitSpace + w*64 + bits.TrailingZeros64(word))
				word &= word - 1
			}
		}
	}
}

// AnchorFinder computes the legal anchors of a ship on a board.
type AnchorFinder interface {
	LegalAnchors(b *BitBoard, length int) Anchors
	Name() string
}

// anchorMasks[length] keeps the anchors from which a ship of that length stays
// on the board. Length-1 ships are horizontal only so every cell is a single
// placement.
var anchorMasks = func() (m [core.MaxShipLength + 1]Anchors) {
	for length := 1; length <= core.MaxShipLength; length++ {
		for idx := 0; idx < core.Cells; idx++ {
			c := core.FromIndex(idx)
			if core.Fits(c.X, c.Y, core.Horizontal, length) {
				setBit(&m[length].Horizontal, BitPos(idx))
			}
			if length > 1 && core.Fits(c.X, c.Y, core.Vertical, length) {
				setBit(&m[length].Vertical, BitPos(idx))
			}
		}
	}
	return m
}()

// ScalarFinder works on one 64-bit word at a time.
type ScalarFinder struct{}

// Name identifies the finder in config and logs.
func (ScalarFinder) Name() string { return "scalar" }

// LegalAnchors shifts the free-cell mask once per extra ship cell and
// intersects the results, one word at a time.
func (ScalarFinder) LegalAnchors(b *BitBoard, length int) Anchors {
	free := b.free()
	h, v := free, free
	for k := 1; k < length; k++ {
		h[0] &= free[0] >> k
		h[1] &= free[1] >> k

		// Rows below the low word come from the bottom of the high word.
		s := k * core.Size
		v[0] &= free[0]>>s | free[1]<<(lowCells-s)
		v[1] &= free[1] >> s
	}
	m := anchorMasks[length]
	return Anchors{
		Horizontal: [2]uint64{h[0] & m.Horizontal[0], h[1] & m.Horizontal[1]},
		Vertical:   [2]uint64{v[0] & m.Vertical[0], v[1] & m.Vertical[1]},
	}
}

// WideFinder treats both orientations as four lanes (h.lo, h.hi, v.lo, v.hi)
// shifted by a per-lane amount, the shape a 256-bit vector unit computes in
// one instruction per step.
type WideFinder struct{}

// Name identifies the finder in config and logs.
func (WideFinder) Name() string { return "wide" }

// LegalAnchors computes the same masks as ScalarFinder with all four
// orientation and word lanes shifted together.
func (WideFinder) LegalAnchors(b *BitBoard, length int) Anchors {
	free := b.free()
	lanes := [4]uint64{free[0], free[1], free[0], free[1]}
	acc := lanes
	for k := 1; k < length; k++ {
		s := k * core.Size
		shift := [4]int{k, k, s, s}
		carry := [4]uint64{0, 0, free[1] << (lowCells - s), 0}
		for i := range acc {
			acc[i] &= lanes[i]>>shift[i] | carry[i]
		}
	}
	m := anchorMasks[length]
	mask := [4]uint64{m.Horizontal[0], m.Horizontal[1], m.Vertical[0], m.Vertical[1]}
	for i := range acc {
		acc[i] &= mask[i]
	}
	return Anchors{
		Horizontal: [2]uint64{acc[0], acc[1]},
		Vertical:   [2]uint64{acc[2], acc[3]},
	}
}

// DefaultFinder is the finder used when none is configured.
func DefaultFinder() AnchorFinder { return ScalarFinder{} }

// FinderByName resolves "auto", "scalar" or "wide".
func FinderByName(name string) (AnchorFinder, error) {
	switch name {
	case "", "auto":
		return DefaultFinder(), nil
	case "scalar":
		return ScalarFinder{}, nil
	case "wide":
		return WideFinder{}, nil
	default:
		return nil, fmt.Errorf("anchor finder %q: %w", name, ErrUnknownStrategy)
	}
}
