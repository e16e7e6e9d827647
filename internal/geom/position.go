package geom

import "math"

// Epsilon is the shared tolerance for containment and parallelism
// decisions. Using one value everywhere avoids visibility flicker
// between adjacent sample points.
const Epsilon = 1e-6

// Position is a point (or vector) in world units. Value type, never mutated.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// NewPosition returns the position (x, y, z).
func NewPosition(x, y, z float64) Position {
	return Position{X: x, Y: y, Z: z}
}

// Add returns p + other.
func (p Position) Add(other Position) Position {
	return Position{X: p.X + other.X, Y: p.Y + other.Y, Z: p.Z + other.Z}
}

// Sub returns p - other.
func (p Position) Sub(other Position) Position {
	return Position{X: p.X - other.X, Y: p.Y - other.Y, Z: p.Z - other.Z}
}

// Scale returns p scaled by s.
func (p Position) Scale(s float64) Position {
	return Position{X: p.X * s, Y: p.Y * s, Z: p.Z * s}
}

// Dot returns the dot product of p and other.
func (p Position) Dot(other Position) float64 {
	return p.X*other.X + p.Y*other.Y + p.Z*other.Z
}

// Cross returns the cross product of p and other.
func (p Position) Cross(other Position) Position {
	return Position{
		X: p.Y*other.Z - p.Z*other.Y,
		Y: p.Z*other.X - p.X*other.Z,
		Z: p.X*other.Y - p.Y*other.X,
	}
}

// Length returns the Euclidean length of p treated as a vector.
func (p Position) Length() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}

// Normalize returns p scaled to unit length, or the zero vector if p is zero.
func (p Position) Normalize() Position {
	l := p.Length()
	if l == 0 {
		return Position{}
	}
	return Position{X: p.X / l, Y: p.Y / l, Z: p.Z / l}
}

// Dist returns the 3D Euclidean distance between p and other.
func (p Position) Dist(other Position) float64 {
	return p.Sub(other).Length()
}

// Dist2D returns the distance between p and other ignoring Z.
func (p Position) Dist2D(other Position) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// InverseDistanceWeighting interpolates a Z value at (x, y) from the given
// points, weighting each by 1/d². A point closer than 1e-10 wins outright.
func InverseDistanceWeighting(points []Position, x, y float64) float64 {
	var weightedSum, weightSum float64
	for _, p := range points {
		d := math.Hypot(x-p.X, y-p.Y)
		if d < 1e-10 {
			return p.Z
		}
		w := 1.0 / (d * d)
		weightedSum += w * p.Z
		weightSum += w
	}
	if weightSum == 0 {
		return 0
	}
	return weightedSum / weightSum
}
