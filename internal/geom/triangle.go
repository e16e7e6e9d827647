package geom

// Triangle is a planar collision face. Immutable after load.
type Triangle struct {
	P1 Position `json:"p1"`
	P2 Position `json:"p2"`
	P3 Position `json:"p3"`
}

// Centroid returns the average of the three vertices.
func (t Triangle) Centroid() Position {
	return Position{
		X: (t.P1.X + t.P2.X + t.P3.X) / 3,
		Y: (t.P1.Y + t.P2.Y + t.P3.Y) / 3,
		Z: (t.P1.Z + t.P2.Z + t.P3.Z) / 3,
	}
}

// Degenerate reports whether the triangle has (near) zero area.
func (t Triangle) Degenerate() bool {
	e1 := t.P2.Sub(t.P1)
	e2 := t.P3.Sub(t.P1)
	return e1.Cross(e2).Length() < Epsilon
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min Position
	Max Position
}

// TriangleAABB returns the bounding box of a triangle.
func TriangleAABB(t Triangle) AABB {
	return AABB{
		Min: Position{
			X: min(t.P1.X, t.P2.X, t.P3.X),
			Y: min(t.P1.Y, t.P2.Y, t.P3.Y),
			Z: min(t.P1.Z, t.P2.Z, t.P3.Z),
		},
		Max: Position{
			X: max(t.P1.X, t.P2.X, t.P3.X),
			Y: max(t.P1.Y, t.P2.Y, t.P3.Y),
			Z: max(t.P1.Z, t.P2.Z, t.P3.Z),
		},
	}
}

// Expand grows the box to include other.
func (b AABB) Expand(other AABB) AABB {
	return AABB{
		Min: Position{
			X: min(b.Min.X, other.Min.X),
			Y: min(b.Min.Y, other.Min.Y),
			Z: min(b.Min.Z, other.Min.Z),
		},
		Max: Position{
			X: max(b.Max.X, other.Max.X),
			Y: max(b.Max.Y, other.Max.Y),
			Z: max(b.Max.Z, other.Max.Z),
		},
	}
}

// Overlaps reports whether two boxes intersect (touching counts).
func (b AABB) Overlaps(other AABB) bool {
	return b.Min.X <= other.Max.X && b.Max.X >= other.Min.X &&
		b.Min.Y <= other.Max.Y && b.Max.Y >= other.Min.Y &&
		b.Min.Z <= other.Max.Z && b.Max.Z >= other.Min.Z
}

// SegmentAABB returns the bounding box of the segment a→b.
func SegmentAABB(a, b Position) AABB {
	return AABB{
		Min: Position{X: min(a.X, b.X), Y: min(a.Y, b.Y), Z: min(a.Z, b.Z)},
		Max: Position{X: max(a.X, b.X), Y: max(a.Y, b.Y), Z: max(a.Z, b.Z)},
	}
}
