package core

import "fmt"

// MaxShipLength is the longest ship the bit layout can place.
const MaxShipLength = 4

// Vessel is one physical ship of the fleet. Ships of equal length are
// interchangeable; Index tells instances apart for kill bookkeeping.
type Vessel struct {
	length int
	index  int
}

// NewShip validates the length and returns the ship.
func NewShip(length, index int) (Vessel, error) {
	if length < 1 || length > MaxShipLength {
		return Vessel{}, fmt.Errorf("length %d: %w", length, ErrInvalidShipLength)
	}
	return Vessel{length: length, index: index}, nil
}

// MustShip is NewShip for fleets fixed at compile time.
func MustShip(length, index int) Vessel {
	s, err := NewShip(length, index)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Vessel) Length() int { return s.length }
func (s Vessel) Index() int  { return s.index }

func (s Vessel) String() string {
	return fmt.Sprintf("ship#%d(len=%d)", s.index, s.length)
}

// Fleet is the ordered list of ships still to be placed.
type Fleet []Vessel

// DefaultLengths is the classic 4-3-3-2-2-2-1-1-1-1 fleet.
var DefaultLengths = []int{4, 3, 3, 2, 2, 2, 1, 1, 1, 1}

// DefaultFleet returns a fresh copy of the classic fleet.
func DefaultFleet() Fleet {
	f, err := NewFleet(DefaultLengths)
	if err != nil {
		panic(err)
	}
	return f
}

// NewFleet builds a fleet from lengths, numbering ships in order.
func NewFleet(lengths []int) (Fleet, error) {
	f := make(Fleet, 0, len(lengths))
	for i, l := range lengths {
		s, err := NewShip(l, i)
		if err != nil {
			return nil, fmt.Errorf("fleet entry %d: %w", i, err)
		}
		f = append(f, s)
	}
	return f, nil
}

// Lengths returns the ship lengths in placement order.
func (f Fleet) Lengths() []int {
	out := make([]int, len(f))
	for i, s := range f {
		out[i] = s.length
	}
	return out
}

// Cells returns the number of cells the fleet occupies.
func (f Fleet) Cells() int {
	n := 0
	for _, s := range f {
		n += s.length
	}
	return n
}

// Without returns a copy of the fleet with the last ship of the given length
// removed. ok is false when no such ship remains.
func (f Fleet) Without(length int) (Fleet, bool) {
	for i := len(f) - 1; i >= 0; i-- {
		if f[i].length != length {
			continue
		}
		out := make(Fleet, 0, len(f)-1)
		out = append(out, f[:i]...)
		out = append(out, f[i+1:]...)
		return out, true
	}
	return f, false
}
