package bitboard

import (
	"fmt"
	"math/bits"

	"github.com/mitchelldurbincs/BattleshipHeatmap/internal/game/core"
)

// Sampler places ships uniformly among the placements currently legal for
// that ship. Sequential placement is not uniform over complete fleets; earlier
// ships shape what later ships can reach.
//
// A Sampler holds no mutable state and may be shared between goroutines.
type Sampler struct {
	table    *PlacementTable
	finder   AnchorFinder
	selector BitSelector
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithFinder overrides the anchor finder.
func WithFinder(f AnchorFinder) Option {
	return func(s *Sampler) { s.finder = f }
}

// WithSelector overrides the bit selector.
func WithSelector(sel BitSelector) Option {
	return func(s *Sampler) { s.selector = sel }
}

// NewSampler returns a sampler reading placements from table.
func NewSampler(table *PlacementTable, opts ...Option) *Sampler {
	s := &Sampler{
		table:    table,
		finder:   DefaultFinder(),
		selector: DefaultSelector(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Table returns the shared placement table.
func (s *Sampler) Table() *PlacementTable { return s.table }

// Finder returns the anchor finder chosen at construction.
func (s *Sampler) Finder() AnchorFinder { return s.finder }

// Selector returns the nth-set-bit strategy chosen at construction.
func (s *Sampler) Selector() BitSelector { return s.selector }

// LegalAnchors returns every anchor where a ship of the given length fits.
func (s *Sampler) LegalAnchors(b *BitBoard, length int) Anchors {
	return s.finder.LegalAnchors(b, length)
}

// Pick maps r onto one legal anchor: r mod total indexes the horizontal
// anchors first, then the vertical ones. ok is false if there is none.
func (s *Sampler) Pick(b *BitBoard, length int, r uint32) (anchor int, ok bool) {
	a := s.finder.LegalAnchors(b, length)
	xCount, yCount := a.Counts()
	total := xCount + yCount
	if total == 0 {
		return 0, false
	}
	pick := int(r % uint32(total))
	if pick < xCount {
		return s.selectIn(a.Horizontal, pick), true
	}
	return BitSpace + s.selectIn(a.Vertical, pick-xCount), true
}

func (s *Sampler) selectIn(words [2]uint64, n int) int {
	if low := bits.OnesCount64(words[0]); n >= low {
		return 64 + s.selector.Select(words[1], n-low)
	}
	return s.selector.Select(words[0], n)
}

// TryRandomPlace places the ship at the anchor Pick chooses and returns it.
// The board is unchanged when ok is false.
func (s *Sampler) TryRandomPlace(b *BitBoard, length int, r uint32) (anchor int, ok bool) {
	anchor, ok = s.Pick(b, length, r)
	if !ok {
		return 0, false
	}
	b.Place(s.table, anchor, length)
	return anchor, true
}

// RandomPlace is TryRandomPlace for boards known to have room for the ship.
// It panics with ErrUnsatisfiable otherwise.
func (s *Sampler) RandomPlace(b *BitBoard, length int, r uint32) int {
	anchor, ok := s.TryRandomPlace(b, length, r)
	if !ok {
		panic(fmt.Errorf("length %d: %w", length, ErrUnsatisfiable))
	}
	return anchor
}

// PlaceFleet places every ship in order, consuming draws[i] for fleet[i].
// draws must hold at least len(fleet) values.
func (s *Sampler) PlaceFleet(seed BitBoard, fleet core.Fleet, draws []uint32) BitBoard {
	b := seed
	for i, ship := range fleet {
		s.RandomPlace(&b, ship.Length(), draws[i])
	}
	return b
}

// TryPlaceFleet is PlaceFleet that reports a dead end instead of panicking.
func (s *Sampler) TryPlaceFleet(seed BitBoard, fleet core.Fleet, draws []uint32) (BitBoard, bool) {
	b := seed
	for i, ship := range fleet {
		if _, ok := s.TryRandomPlace(&b, ship.Length(), draws[i]); !ok {
			return b, false
		}
	}
	return b, true
}
