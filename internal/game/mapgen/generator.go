package mapgen

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/mitchelldurbincs/BattleshipHeatmap/internal/game/core"
)

// ErrFleetDoesNotFit is returned when no layout was found within the attempt
// limits.
var ErrFleetDoesNotFit = errors.New("fleet does not fit on the board")

// FleetConfig holds configuration for hidden fleet generation
type FleetConfig struct {
	MaxAttemptsPerShip int // random anchors tried before restarting the layout
	MaxRestarts        int
}

// DefaultFleetConfig returns a sensible default configuration
func DefaultFleetConfig() FleetConfig {
	return FleetConfig{
		MaxAttemptsPerShip: core.Cells * 2,
		MaxRestarts:        100,
	}
}

// Generator lays out hidden fleets with a caller-supplied RNG
type Generator struct {
	config FleetConfig
	rng    *rand.Rand
}

// NewGenerator creates a new fleet generator
func NewGenerator(config FleetConfig, rng *rand.Rand) *Generator {
	return &Generator{
		config: config,
		rng:    rng,
	}
}

// ShipPlacement tracks where a ship was placed
type ShipPlacement struct {
	Ship        core.Vessel
	X, Y        int
	Orientation core.Orientation
}

// Cells returns the coordinates the ship covers.
func (p ShipPlacement) Cells() []core.Coordinate {
	out := make([]core.Coordinate, 0, p.Ship.Length())
	c := core.NewCoordinate(p.X, p.Y)
	for i := 0; i < p.Ship.Length(); i++ {
		out = append(out, c)
		c = c.Add(p.Orientation.Step())
	}
	return out
}

// GenerateFleet places every ship at a random legal position. A ship that
// finds no spot within MaxAttemptsPerShip restarts the whole layout.
func (g *Generator) GenerateFleet(fleet core.Fleet) (*HiddenFleet, error) {
	for restart := 0; restart <= g.config.MaxRestarts; restart++ {
		if h, ok := g.tryLayout(fleet); ok {
			return h, nil
		}
	}
	return nil, fmt.Errorf("%d ships after %d restarts: %w", len(fleet), g.config.MaxRestarts, ErrFleetDoesNotFit)
}

func (g *Generator) tryLayout(fleet core.Fleet) (*HiddenFleet, bool) {
	grid := core.NewCellGrid()
	placements := make([]ShipPlacement, 0, len(fleet))

	for _, ship := range fleet {
		placed := false
		for attempts := 0; attempts < g.config.MaxAttemptsPerShip; attempts++ {
			o := core.Horizontal
			if g.rng.Intn(2) == 1 {
				o = core.Vertical
			}
			x, y := g.rng.Intn(core.Size), g.rng.Intn(core.Size)
			if err := grid.Place(x, y, o, ship); err != nil {
				continue
			}
			placements = append(placements, ShipPlacement{Ship: ship, X: x, Y: y, Orientation: o})
			placed = true
			break
		}
		if !placed {
			return nil, false
		}
	}
	return newHiddenFleet(grid, placements), true
}
