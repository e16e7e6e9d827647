package spread

import (
	"errors"

	"github.com/udisondev/navspread/internal/geom"
	"github.com/udisondev/navspread/internal/nav"
)

// ErrEmptyGrid is returned when sampling the mesh produces no points.
var ErrEmptyGrid = errors.New("spread: empty grid")

// Sample is one grid point. Off-mesh samples stay in the grid so the
// ordering is reproducible; they just never get reached.
type Sample struct {
	Pos    geom.Position
	Area   nav.AreaID
	OnMesh bool
}

// Grid is a deterministic row-major sampling of the mesh bounding box at a
// fixed spacing. Identical inputs always produce the identical sequence.
type Grid struct {
	Samples []Sample
	Spacing float64
}

// NewGrid samples the graph's bounding box row-major (Y outer, X inner) at
// the given spacing, resolving each point's containing area and surface
// height once up front.
func NewGrid(g *nav.Graph, spacing float64) (*Grid, error) {
	if spacing <= 0 {
		return nil, errors.New("spread: spacing must be positive")
	}
	bounds := g.Bounds()

	grid := &Grid{Spacing: spacing}
	for y := bounds.Min.Y; y <= bounds.Max.Y; y += spacing {
		for x := bounds.Min.X; x <= bounds.Max.X; x += spacing {
			p := geom.Position{X: x, Y: y}
			id, ok := g.Locate(p)
			if ok {
				p.Z = g.Area(id).HeightAt(x, y)
			}
			grid.Samples = append(grid.Samples, Sample{Pos: p, Area: id, OnMesh: ok})
		}
	}
	if len(grid.Samples) == 0 {
		return nil, ErrEmptyGrid
	}
	return grid, nil
}
