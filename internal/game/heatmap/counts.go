package heatmap

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/mitchelldurbincs/BattleshipHeatmap/internal/game/bitboard"
	"github.com/mitchelldurbincs/BattleshipHeatmap/internal/game/core"
)

// Counts tallies, per bit position, how many trials had a ship there. Padding
// positions stay zero. A Counts is owned by one goroutine; combine partial
// tallies with Merge.
type Counts struct {
	counts [bitboard.BitSpace]uint64
	trials uint64
}

// NewCounts returns an empty tally.
func NewCounts() *Counts { return &Counts{} }

// AddBoard tallies one trial given as a grid; Ship and ShipHit cells count.
func (c *Counts) AddBoard(g *core.CellGrid) {
	for idx := 0; idx < core.Cells; idx++ {
		if g.AtIndex(idx).IsShip() {
			c.counts[bitboard.BitPos(idx)]++
		}
	}
	c.trials++
}

// AddBitBoard tallies one trial.
func (c *Counts) AddBitBoard(b bitboard.BitBoard) {
	for w, word := range b.ShipWords() {
		for word != 0 {
			c.counts[w*64+bits.TrailingZeros64(word)]++
			word &= word - 1
		}
	}
	c.trials++
}

// Merge adds other's tallies into c. Merging is associative and commutative.
func (c *Counts) Merge(other *Counts) {
	for i := range c.counts {
		c.counts[i] += other.counts[i]
	}
	c.trials += other.trials
}

// Trials is the number of boards tallied.
func (c *Counts) Trials() uint64 { return c.trials }

// Count is the number of trials with a ship on the cell.
func (c *Counts) Count(idx int) uint64 { return c.counts[bitboard.BitPos(idx)] }

// Probability is Count divided by Trials. It is NaN for an empty tally.
func (c *Counts) Probability(idx int) float64 {
	return float64(c.Count(idx)) / float64(c.trials)
}

// Probabilities returns the heatmap in row-major order.
func (c *Counts) Probabilities() [core.Cells]float64 {
	var p [core.Cells]float64
	for idx := range p {
		p[idx] = c.Probability(idx)
	}
	return p
}

// BestGuess returns the water cell with the highest probability, lowest index
// first on ties. ok is false if the grid has no water left or the tally is
// empty.
func (c *Counts) BestGuess(g *core.CellGrid) (best core.Coordinate, p float64, ok bool) {
	if c.trials == 0 {
		return core.Coordinate{}, 0, false
	}
	p = -1
	for idx := 0; idx < core.Cells; idx++ {
		if g.AtIndex(idx) != core.Water {
			continue
		}
		if q := c.Probability(idx); q > p {
			best, p, ok = core.FromIndex(idx), q, true
		}
	}
	if !ok {
		return core.Coordinate{}, 0, false
	}
	return best, p, true
}

// String renders the heatmap as percentages, one row per line.
func (c *Counts) String() string {
	var sb strings.Builder
	sb.Grow((core.Size*6 + 4) * (core.Size + 2))
	sb.WriteString("   ")
	for x := 0; x < core.Size; x++ {
		fmt.Fprintf(&sb, "%5d ", x)
	}
	sb.WriteByte('\n')
	for y := 0; y < core.Size; y++ {
		sb.WriteString(core.IntToStringFixedWidth(y, 2))
		sb.WriteByte(' ')
		for x := 0; x < core.Size; x++ {
			fmt.Fprintf(&sb, "%5.1f ", c.Probability(y*core.Size+x)*100)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// MergeAll combines partial tallies pairwise, level by level, and returns the
// total. The inputs may be modified; the result is one of them, or a fresh
// Counts when parts is empty.
func MergeAll(parts ...*Counts) *Counts {
	if len(parts) == 0 {
		return NewCounts()
	}
	level := append([]*Counts(nil), parts...)
	for len(level) > 1 {
		next := make([]*Counts, 0, (len(level)+1)/2)
		for i := 0; i+1 < len(level); i += 2 {
			level[i].Merge(level[i+1])
			next = append(next, level[i])
		}
		if len(level)%2 == 1 {
			next = append(next, level[len(level)-1])
		}
		level = next
	}
	return level[0]
}
