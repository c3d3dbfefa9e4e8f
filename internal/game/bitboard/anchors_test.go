package bitboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/BattleshipHeatmap/internal/game/core"
	"github.com/mitchelldurbincs/BattleshipHeatmap/internal/testutil"
)

var finders = []AnchorFinder{ScalarFinder{}, WideFinder{}}

// bruteForceAnchors checks every anchor against the decoded grid.
func bruteForceAnchors(b BitBoard, length int) Anchors {
	g := b.Decode()
	var a Anchors
	ship := core.MustShip(length, 0)
	for idx := 0; idx < core.Cells; idx++ {
		c := core.FromIndex(idx)
		if g.CanPlace(c.X, c.Y, core.Horizontal, ship) {
			setBit(&a.Horizontal, BitPos(idx))
		}
		if length > 1 && g.CanPlace(c.X, c.Y, core.Vertical, ship) {
			setBit(&a.Vertical, BitPos(idx))
		}
	}
	return a
}

func TestLegalAnchors_EmptyBoardCounts(t *testing.T) {
	tests := []struct {
		length     int
		horizontal int
		vertical   int
	}{
		{1, 100, 0},
		{2, 90, 90},
		{3, 80, 80},
		{4, 70, 70},
	}

	for _, f := range finders {
		for _, tt := range tests {
			var b BitBoard
			h, v := f.LegalAnchors(&b, tt.length).Counts()
			assert.Equal(t, tt.horizontal, h, "%s length %d", f.Name(), tt.length)
			assert.Equal(t, tt.vertical, v, "%s length %d", f.Name(), tt.length)
		}
	}
}

func TestLegalAnchors_MatchesBruteForce(t *testing.T) {
	rng := testutil.NewTestRNG(11)
	for i := 0; i < 300; i++ {
		g := testutil.RandomGrid(rng, core.DefaultFleet()[:rng.Intn(11)], rng.Intn(30))
		b := Encode(&g)
		for length := 1; length <= core.MaxShipLength; length++ {
			want := bruteForceAnchors(b, length)
			for _, f := range finders {
				require.Equal(t, want, f.LegalAnchors(&b, length),
					"%s length %d on\n%s", f.Name(), length, g.String())
			}
		}
	}
}

func TestLegalAnchors_FindersAgree(t *testing.T) {
	rng := testutil.NewTestRNG(12)
	for i := 0; i < 2000; i++ {
		var b BitBoard
		// Arbitrary protected patterns, not only ones reachable by placement.
		b.protected = [2]uint64{rng.Uint64() & rng.Uint64() & validWords[0], rng.Uint64() & rng.Uint64() & validWords[1]}
		for length := 1; length <= core.MaxShipLength; length++ {
			assert.Equal(t,
				ScalarFinder{}.LegalAnchors(&b, length),
				WideFinder{}.LegalAnchors(&b, length))
		}
	}
}

func TestLegalAnchors_PlacedShipExcludesItself(t *testing.T) {
	table := NewPlacementTable()
	for _, f := range finders {
		for length := 1; length <= core.MaxShipLength; length++ {
			var empty BitBoard
			f.LegalAnchors(&empty, length).Each(func(anchor int) {
				b := empty
				b.Place(table, anchor, length)
				after := f.LegalAnchors(&b, length)
				assert.False(t, after.Contains(anchor), "%s len %d anchor %d", f.Name(), length, anchor)

				// Nothing that touches the protected region stays legal.
				placed := table.Entry(length, anchor)
				for other := 1; other <= core.MaxShipLength; other++ {
					f.LegalAnchors(&b, other).Each(func(a int) {
						fp := table.Entry(other, a)
						overlap := fp.ship[0]&placed.protected[0] | fp.ship[1]&placed.protected[1]
						if overlap != 0 {
							t.Errorf("%s: len %d at %d overlaps len %d at %d", f.Name(), other, a, length, anchor)
						}
					})
				}
			})
		}
	}
}

func TestAnchors_EachOrder(t *testing.T) {
	a := Anchors{
		Horizontal: CellMask(5, 50),
		Vertical:   CellMask(0, 99),
	}
	var got []int
	a.Each(func(anchor int) { got = append(got, anchor) })
	assert.Equal(t, []int{5, BitPos(50), BitSpace + 0, BitSpace + BitPos(99)}, got)
	assert.Equal(t, 4, a.Total())
	assert.True(t, a.Contains(BitSpace))
	assert.False(t, a.Contains(0))
}

func TestFinderByName(t *testing.T) {
	f, err := FinderByName("wide")
	require.NoError(t, err)
	assert.Equal(t, "wide", f.Name())

	f, err = FinderByName("auto")
	require.NoError(t, err)
	assert.Equal(t, DefaultFinder(), f)

	_, err = FinderByName("avx")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func BenchmarkLegalAnchors(b *testing.B) {
	g := testutil.RandomGrid(testutil.NewTestRNG(1), core.DefaultFleet()[:4], 10)
	board := Encode(&g)
	for _, f := range finders {
		b.Run(f.Name(), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = f.LegalAnchors(&board, 1+i%core.MaxShipLength)
			}
		})
	}
}
