package collision

import "github.com/udisondev/navspread/internal/geom"

// segmentHitsTriangle tests the segment (origin, origin+dir*dist) against a
// triangle with the Möller–Trumbore algorithm. Only strict interior
// crossings count: hits within Epsilon of either endpoint, and rays
// parallel to the triangle's plane, are treated as grazing, not blocking.
func segmentHitsTriangle(origin, dir geom.Position, dist float64, tri geom.Triangle) bool {
	edge1 := tri.P2.Sub(tri.P1)
	edge2 := tri.P3.Sub(tri.P1)

	h := dir.Cross(edge2)
	a := edge1.Dot(h)
	if a > -geom.Epsilon && a < geom.Epsilon {
		return false // parallel to the plane
	}

	f := 1.0 / a
	s := origin.Sub(tri.P1)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return false
	}

	q := s.Cross(edge1)
	v := f * dir.Dot(q)
	if v < 0 || u+v > 1 {
		return false
	}

	t := f * edge2.Dot(q)
	return t > geom.Epsilon && t < dist-geom.Epsilon
}
