package nav

import (
	"github.com/udisondev/navspread/internal/geom"
)

// AreaID indexes an area inside a Graph. The id space is dense (0..N-1).
type AreaID int32

// Area is one walkable polygon of the navigation mesh, a node of the graph.
// Areas are created once at build time and never modified.
type Area struct {
	ID        AreaID
	Corners   []geom.Position
	Neighbors []AreaID

	centroid geom.Position
	bbox     geom.AABB
}

// NewArea builds an area from its polygon corners and neighbor ids.
func NewArea(id AreaID, corners []geom.Position, neighbors []AreaID) Area {
	a := Area{ID: id, Corners: corners, Neighbors: neighbors}
	a.centroid = polygonCentroid(corners)
	a.bbox = polygonAABB(corners)
	return a
}

// Centroid returns the average of the polygon corners.
func (a *Area) Centroid() geom.Position {
	return a.centroid
}

// Contains reports whether the point lies inside the area's polygon,
// projected to the XY plane. Uses the even-odd ray casting rule.
func (a *Area) Contains(p geom.Position) bool {
	n := len(a.Corners)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		ci := a.Corners[i]
		cj := a.Corners[j]
		if (ci.Y > p.Y) != (cj.Y > p.Y) {
			cross := (cj.X-ci.X)*(p.Y-ci.Y)/(cj.Y-ci.Y) + ci.X
			if p.X < cross {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// HeightAt interpolates the surface Z at (x, y) from the corner heights.
func (a *Area) HeightAt(x, y float64) float64 {
	return geom.InverseDistanceWeighting(a.Corners, x, y)
}

func polygonCentroid(corners []geom.Position) geom.Position {
	if len(corners) == 0 {
		return geom.Position{}
	}
	var sx, sy, sz float64
	for _, c := range corners {
		sx += c.X
		sy += c.Y
		sz += c.Z
	}
	n := float64(len(corners))
	return geom.Position{X: sx / n, Y: sy / n, Z: sz / n}
}

func polygonAABB(corners []geom.Position) geom.AABB {
	if len(corners) == 0 {
		return geom.AABB{}
	}
	box := geom.AABB{Min: corners[0], Max: corners[0]}
	for _, c := range corners[1:] {
		box = box.Expand(geom.AABB{Min: c, Max: c})
	}
	return box
}
