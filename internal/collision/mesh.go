package collision

import (
	"log/slog"
	"math"

	"github.com/udisondev/navspread/internal/geom"
)

// Selector chooses which triangle collections a visibility query tests.
// World geometry answers "can I see through", clipping geometry answers
// "can I walk through"; the semantics differ per call site.
type Selector int

const (
	SelectWorld Selector = iota
	SelectClip
	SelectBoth
)

// gridCells is the bucket count per axis of the triangle index.
const gridCells = 64

// Mesh indexes the map's triangle soup for segment queries. Built once per
// map, read-only afterwards; safe for concurrent use.
type Mesh struct {
	world *triangleSet
	clip  *triangleSet
}

// Build indexes the two triangle collections. Always succeeds; degenerate
// (zero-area) triangles are dropped, an empty collection blocks nothing.
func Build(world, clip []geom.Triangle) *Mesh {
	m := &Mesh{
		world: newTriangleSet(world),
		clip:  newTriangleSet(clip),
	}
	slog.Debug("collision mesh built",
		"world_triangles", len(m.world.tris),
		"clip_triangles", len(m.clip.tris))
	return m
}

// Visible reports whether the segment a→b is unobstructed by the selected
// triangle collection(s). Symmetric: Visible(a, b) == Visible(b, a).
// Grazes at the segment endpoints and rays parallel to a triangle's plane
// do not block.
func (m *Mesh) Visible(a, b geom.Position, sel Selector) bool {
	dir := b.Sub(a)
	dist := dir.Length()
	if dist < geom.Epsilon {
		return true
	}
	dir = dir.Scale(1 / dist)

	switch sel {
	case SelectWorld:
		return !m.world.blocked(a, dir, dist)
	case SelectClip:
		return !m.clip.blocked(a, dir, dist)
	default:
		return !m.world.blocked(a, dir, dist) && !m.clip.blocked(a, dir, dist)
	}
}

// triangleSet is one triangle collection plus its uniform XY bucket grid.
type triangleSet struct {
	tris    []geom.Triangle
	boxes   []geom.AABB
	bounds  geom.AABB
	cellW   float64
	cellH   float64
	buckets [][]int32
}

func newTriangleSet(input []geom.Triangle) *triangleSet {
	s := &triangleSet{}
	for _, t := range input {
		if t.Degenerate() {
			continue
		}
		s.tris = append(s.tris, t)
		s.boxes = append(s.boxes, geom.TriangleAABB(t))
	}
	if len(s.tris) == 0 {
		return s
	}

	s.bounds = s.boxes[0]
	for _, b := range s.boxes[1:] {
		s.bounds = s.bounds.Expand(b)
	}
	s.cellW = (s.bounds.Max.X - s.bounds.Min.X) / gridCells
	s.cellH = (s.bounds.Max.Y - s.bounds.Min.Y) / gridCells
	if s.cellW <= 0 {
		s.cellW = 1
	}
	if s.cellH <= 0 {
		s.cellH = 1
	}
	s.buckets = make([][]int32, gridCells*gridCells)

	for i, b := range s.boxes {
		minC, minR := s.cell(b.Min.X, b.Min.Y)
		maxC, maxR := s.cell(b.Max.X, b.Max.Y)
		for r := minR; r <= maxR; r++ {
			for c := minC; c <= maxC; c++ {
				idx := r*gridCells + c
				s.buckets[idx] = append(s.buckets[idx], int32(i))
			}
		}
	}
	return s
}

func (s *triangleSet) cell(x, y float64) (int, int) {
	c := int(math.Floor((x - s.bounds.Min.X) / s.cellW))
	r := int(math.Floor((y - s.bounds.Min.Y) / s.cellH))
	if c < 0 {
		c = 0
	} else if c >= gridCells {
		c = gridCells - 1
	}
	if r < 0 {
		r = 0
	} else if r >= gridCells {
		r = gridCells - 1
	}
	return c, r
}

// blocked walks the buckets overlapped by the segment's bounding box and
// tests the candidate triangles exactly, returning on the first strict
// interior hit.
func (s *triangleSet) blocked(origin, dir geom.Position, dist float64) bool {
	if len(s.tris) == 0 {
		return false
	}
	segBox := geom.SegmentAABB(origin, origin.Add(dir.Scale(dist)))
	if !segBox.Overlaps(s.bounds) {
		return false
	}

	minC, minR := s.cell(segBox.Min.X, segBox.Min.Y)
	maxC, maxR := s.cell(segBox.Max.X, segBox.Max.Y)

	// A triangle spanning several buckets may be tested more than once;
	// the candidate set is only ever a superset.
	for r := minR; r <= maxR; r++ {
		for c := minC; c <= maxC; c++ {
			for _, ti := range s.buckets[r*gridCells+c] {
				if !segBox.Overlaps(s.boxes[ti]) {
					continue
				}
				if segmentHitsTriangle(origin, dir, dist, s.tris[ti]) {
					return true
				}
			}
		}
	}
	return false
}
