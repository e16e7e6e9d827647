package nav

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/udisondev/navspread/internal/geom"
)

// Unreachable is the path cost between areas in disconnected components.
var Unreachable = math.Inf(1)

// ErrEmptyMesh is returned by Build when no areas are supplied.
var ErrEmptyMesh = errors.New("nav: empty mesh")

// DanglingNeighborError reports an area referencing a neighbor id that does
// not exist in the mesh.
type DanglingNeighborError struct {
	Area     AreaID
	Neighbor AreaID
}

func (e *DanglingNeighborError) Error() string {
	return fmt.Sprintf("nav: area %d references missing neighbor %d", e.Area, e.Neighbor)
}

type edge struct {
	to   AreaID
	cost float64
}

// Graph owns all areas of one map, their weighted adjacency and a spatial
// index for point location. Immutable after Build; safe for concurrent use.
//
// Connections are kept exactly as the loader supplied them: if the source
// data encodes a one-way link, the graph stays asymmetric.
type Graph struct {
	areas []Area
	edges [][]edge
	index *bucketIndex
	cache costCache
}

// Build validates the areas and assembles the graph. Neighbor lists are
// sorted ascending so iteration order, and therefore cost tie-breaking,
// is deterministic.
func Build(areas []Area) (*Graph, error) {
	if len(areas) == 0 {
		return nil, ErrEmptyMesh
	}

	n := AreaID(len(areas))
	edges := make([][]edge, n)
	for i := range areas {
		a := &areas[i]
		sorted := make([]AreaID, len(a.Neighbors))
		copy(sorted, a.Neighbors)
		sort.Slice(sorted, func(x, y int) bool { return sorted[x] < sorted[y] })

		es := make([]edge, 0, len(sorted))
		for _, nb := range sorted {
			if nb < 0 || nb >= n {
				return nil, &DanglingNeighborError{Area: a.ID, Neighbor: nb}
			}
			cost := a.Centroid().Dist(areas[nb].Centroid())
			es = append(es, edge{to: nb, cost: cost})
		}
		edges[i] = es
	}

	g := &Graph{
		areas: areas,
		edges: edges,
		index: newBucketIndex(areas),
	}
	g.cache.init()

	slog.Debug("nav graph built", "areas", len(areas))
	return g, nil
}

// Len returns the number of areas.
func (g *Graph) Len() int {
	return len(g.areas)
}

// Area returns the area with the given id.
func (g *Graph) Area(id AreaID) *Area {
	return &g.areas[id]
}

// Bounds returns the XY bounding box of the whole mesh.
func (g *Graph) Bounds() geom.AABB {
	return g.index.bounds
}

// Locate finds the area containing the point, testing spatial-index
// candidates first and falling back to an exhaustive scan if the index
// misses. When several stacked areas contain the point, the one whose
// centroid Z is closest wins. Returns false if the point is off-mesh.
func (g *Graph) Locate(p geom.Position) (AreaID, bool) {
	if id, ok := g.locateIn(g.index.candidates(p), p); ok {
		return id, true
	}
	// Index miss: brute force over all areas.
	all := make([]AreaID, len(g.areas))
	for i := range all {
		all[i] = AreaID(i)
	}
	return g.locateIn(all, p)
}

// Nearest returns the area whose centroid is closest to the point. Used as
// the fallback for positions (typically spawns) that sit just off the mesh.
func (g *Graph) Nearest(p geom.Position) AreaID {
	best := AreaID(0)
	bestDist := math.Inf(1)
	for i := range g.areas {
		d := g.areas[i].Centroid().Dist(p)
		if d < bestDist {
			best = AreaID(i)
			bestDist = d
		}
	}
	return best
}

func (g *Graph) locateIn(candidates []AreaID, p geom.Position) (AreaID, bool) {
	best := AreaID(-1)
	bestDz := math.Inf(1)
	for _, id := range candidates {
		a := &g.areas[id]
		if !a.Contains(p) {
			continue
		}
		dz := math.Abs(a.Centroid().Z - p.Z)
		if dz < bestDz {
			best = id
			bestDz = dz
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}
