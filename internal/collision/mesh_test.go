package collision

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/navspread/internal/geom"
)

// wallX builds a vertical quad at fixed x spanning the given Y and Z ranges.
func wallX(x, minY, maxY, minZ, maxZ float64) []geom.Triangle {
	a := geom.NewPosition(x, minY, minZ)
	b := geom.NewPosition(x, maxY, minZ)
	c := geom.NewPosition(x, maxY, maxZ)
	d := geom.NewPosition(x, minY, maxZ)
	return []geom.Triangle{
		{P1: a, P2: b, P3: c},
		{P1: a, P2: c, P3: d},
	}
}

func TestEmptyMeshEverythingVisible(t *testing.T) {
	m := Build(nil, nil)

	pairs := [][2]geom.Position{
		{geom.NewPosition(0, 0, 0), geom.NewPosition(100, 100, 100)},
		{geom.NewPosition(-50, 3, 9), geom.NewPosition(12, -7, 1)},
		{geom.NewPosition(1, 1, 1), geom.NewPosition(1, 1, 1)},
	}
	for _, pair := range pairs {
		assert.True(t, m.Visible(pair[0], pair[1], SelectWorld))
		assert.True(t, m.Visible(pair[0], pair[1], SelectClip))
		assert.True(t, m.Visible(pair[0], pair[1], SelectBoth))
	}
}

func TestWallBlocksSegment(t *testing.T) {
	m := Build(wallX(10, -50, 50, -50, 50), nil)

	a := geom.NewPosition(0, 0, 0)
	b := geom.NewPosition(20, 0, 0)
	assert.False(t, m.Visible(a, b, SelectWorld))
	assert.False(t, m.Visible(a, b, SelectBoth))
	// Wall is world geometry only; clipping alone doesn't block.
	assert.True(t, m.Visible(a, b, SelectClip))

	// Segment ending before the wall is clear.
	assert.True(t, m.Visible(a, geom.NewPosition(9, 0, 0), SelectWorld))
	// Segment passing over the wall is clear.
	high := geom.NewPosition(0, 0, 60)
	assert.True(t, m.Visible(high, geom.NewPosition(20, 0, 60), SelectWorld))
}

func TestVisibilitySymmetry(t *testing.T) {
	m := Build(wallX(10, -50, 50, -50, 50), wallX(30, -50, 50, -50, 50))

	pairs := [][2]geom.Position{
		{geom.NewPosition(0, 0, 0), geom.NewPosition(20, 0, 0)},
		{geom.NewPosition(0, 0, 0), geom.NewPosition(40, 0, 0)},
		{geom.NewPosition(15, 0, 0), geom.NewPosition(25, 0, 0)},
		{geom.NewPosition(5, 5, 5), geom.NewPosition(5, 5, 5)},
	}
	for _, pair := range pairs {
		for _, sel := range []Selector{SelectWorld, SelectClip, SelectBoth} {
			assert.Equal(t,
				m.Visible(pair[0], pair[1], sel),
				m.Visible(pair[1], pair[0], sel),
				"visibility must be symmetric")
		}
	}
}

func TestClipSelector(t *testing.T) {
	m := Build(nil, wallX(10, -50, 50, -50, 50))

	a := geom.NewPosition(0, 0, 0)
	b := geom.NewPosition(20, 0, 0)
	assert.True(t, m.Visible(a, b, SelectWorld), "clipping must not block sight queries")
	assert.False(t, m.Visible(a, b, SelectClip))
	assert.False(t, m.Visible(a, b, SelectBoth))
}

func TestEndpointGrazeNotBlocking(t *testing.T) {
	m := Build(wallX(10, -50, 50, -50, 50), nil)

	// Segment ending exactly on the wall plane grazes, doesn't cross.
	a := geom.NewPosition(0, 0, 0)
	onWall := geom.NewPosition(10, 0, 0)
	assert.True(t, m.Visible(a, onWall, SelectWorld))
	assert.True(t, m.Visible(onWall, a, SelectWorld))
}

func TestSegmentParallelToTriangle(t *testing.T) {
	m := Build(wallX(10, -50, 50, -50, 50), nil)

	// Running alongside the wall plane, never through it.
	a := geom.NewPosition(9, -40, 0)
	b := geom.NewPosition(9, 40, 0)
	assert.True(t, m.Visible(a, b, SelectWorld))
}

func TestDegenerateTrianglesIgnored(t *testing.T) {
	degenerate := []geom.Triangle{
		{
			P1: geom.NewPosition(0, 0, 0),
			P2: geom.NewPosition(5, 5, 5),
			P3: geom.NewPosition(10, 10, 10),
		},
	}
	m := Build(degenerate, nil)
	assert.True(t, m.Visible(geom.NewPosition(-10, 0, 0), geom.NewPosition(20, 20, 20), SelectWorld))
}

func TestIdenticalEndpoints(t *testing.T) {
	m := Build(wallX(0, -50, 50, -50, 50), nil)
	p := geom.NewPosition(0, 0, 0)
	assert.True(t, m.Visible(p, p, SelectBoth))
}
