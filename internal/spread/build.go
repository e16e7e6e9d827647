package spread

import (
	"github.com/udisondev/navspread/internal/collision"
	"github.com/udisondev/navspread/internal/geom"
	"github.com/udisondev/navspread/internal/nav"
)

// BuildMap assembles the per-map read-only structures in one call: the
// validated navigation graph and the indexed collision mesh. Everything a
// Simulator needs, and reusable on its own for ad-hoc point-location and
// visibility queries.
func BuildMap(areas []nav.Area, world, clip []geom.Triangle) (*nav.Graph, *collision.Mesh, error) {
	graph, err := nav.Build(areas)
	if err != nil {
		return nil, nil, err
	}
	return graph, collision.Build(world, clip), nil
}
