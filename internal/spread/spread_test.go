package spread

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/navspread/internal/collision"
	"github.com/udisondev/navspread/internal/geom"
	"github.com/udisondev/navspread/internal/nav"
)

func squareArea(id nav.AreaID, minX, minY, sizeX, sizeY, z float64, neighbors ...nav.AreaID) nav.Area {
	corners := []geom.Position{
		{X: minX, Y: minY, Z: z},
		{X: minX + sizeX, Y: minY, Z: z},
		{X: minX + sizeX, Y: minY + sizeY, Z: z},
		{X: minX, Y: minY + sizeY, Z: z},
	}
	return nav.NewArea(id, corners, neighbors)
}

func corridorSim(t *testing.T) *Simulator {
	t.Helper()
	areas := []nav.Area{
		squareArea(0, 0, 0, 10, 10, 0, 1),
		squareArea(1, 10, 0, 10, 10, 0, 0),
	}
	g, err := nav.Build(areas)
	require.NoError(t, err)
	return NewSimulator(g, collision.Build(nil, nil))
}

func corridorParams() Params {
	return Params{
		Granularity:  5,
		Speed:        10,
		TickDuration: 1,
		MaxTicks:     10,
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero granularity", func(p *Params) { p.Granularity = 0 }},
		{"negative speed", func(p *Params) { p.Speed = -1 }},
		{"zero speed", func(p *Params) { p.Speed = 0 }},
		{"zero tick duration", func(p *Params) { p.TickDuration = 0 }},
		{"zero max ticks", func(p *Params) { p.MaxTicks = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := corridorParams()
			tt.mutate(&p)
			assert.Error(t, p.Validate())
		})
	}
	assert.NoError(t, corridorParams().Validate())
}

func TestRunRejectsEmptySpawnSet(t *testing.T) {
	sim := corridorSim(t)

	_, err := sim.Run(
		SpawnSet{Team: "CT"},
		SpawnSet{Team: "T", Points: []geom.Position{{X: 15, Y: 5}}},
		corridorParams(),
	)
	require.Error(t, err)

	var noSpawns *NoSpawnsError
	require.ErrorAs(t, err, &noSpawns)
	assert.Equal(t, "CT", noSpawns.Team)
}

func TestNewGridRejectsBadSpacing(t *testing.T) {
	sim := corridorSim(t)
	_, err := NewGrid(sim.graph, 0)
	assert.Error(t, err)
	_, err = NewGrid(sim.graph, -5)
	assert.Error(t, err)
}

func TestGridOrderDeterministic(t *testing.T) {
	sim := corridorSim(t)

	g1, err := NewGrid(sim.graph, 5)
	require.NoError(t, err)
	g2, err := NewGrid(sim.graph, 5)
	require.NoError(t, err)
	assert.Equal(t, g1.Samples, g2.Samples)
}

func TestCorridorMeetingAtTickOne(t *testing.T) {
	sim := corridorSim(t)

	// Spawns at each area's far end, centroids 10 apart, speed 10 u/s,
	// 1 s ticks: the opposing area is entered at tick 1, not tick 0.
	ct := SpawnSet{Team: "CT", Points: []geom.Position{{X: 1, Y: 5}}}
	tt := SpawnSet{Team: "T", Points: []geom.Position{{X: 19, Y: 5}}}

	res, err := sim.Run(ct, tt, corridorParams())
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(res.Ticks), 2)

	grid, err := NewGrid(sim.graph, 5)
	require.NoError(t, err)

	// Sample well inside the T-side area.
	idx := -1
	for i, s := range grid.Samples {
		if s.Pos.X == 15 && s.Pos.Y == 5 {
			idx = i
		}
	}
	require.GreaterOrEqual(t, idx, 0)

	assert.False(t, res.Ticks[0].Points[idx].ReachedA, "CT must not cross at tick 0")
	assert.True(t, res.Ticks[1].Points[idx].ReachedA, "CT must arrive at tick 1")
	assert.True(t, res.Ticks[1].Points[idx].ReachedB)
}

func TestDeterminismByteIdentical(t *testing.T) {
	sim := corridorSim(t)
	ct := SpawnSet{Team: "CT", Points: []geom.Position{{X: 1, Y: 5}}}
	tt := SpawnSet{Team: "T", Points: []geom.Position{{X: 19, Y: 5}}}

	first, err := sim.Run(ct, tt, corridorParams())
	require.NoError(t, err)
	second, err := sim.Run(ct, tt, corridorParams())
	require.NoError(t, err)

	b1, err := json.Marshal(first)
	require.NoError(t, err)
	b2, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, b1, b2, "identical inputs must reproduce identical tick records")
}

func TestReachedMonotonic(t *testing.T) {
	sim := corridorSim(t)
	ct := SpawnSet{Team: "CT", Points: []geom.Position{{X: 1, Y: 5}}}
	tt := SpawnSet{Team: "T", Points: []geom.Position{{X: 19, Y: 5}}}

	res, err := sim.Run(ct, tt, corridorParams())
	require.NoError(t, err)

	n := len(res.Ticks[0].Points)
	for i := 0; i < n; i++ {
		var seenA, seenB bool
		for _, rec := range res.Ticks {
			if seenA {
				assert.True(t, rec.Points[i].ReachedA, "reached must never revert")
			}
			if seenB {
				assert.True(t, rec.Points[i].ReachedB, "reached must never revert")
			}
			seenA = seenA || rec.Points[i].ReachedA
			seenB = seenB || rec.Points[i].ReachedB
		}
	}
}

func TestOffMeshPointNeverReached(t *testing.T) {
	// Two islands with a gap between them; the grid still samples the gap.
	areas := []nav.Area{
		squareArea(0, 0, 0, 10, 10, 0, 1),
		squareArea(1, 20, 0, 10, 10, 0, 0),
	}
	g, err := nav.Build(areas)
	require.NoError(t, err)
	sim := NewSimulator(g, collision.Build(nil, nil))

	ct := SpawnSet{Team: "CT", Points: []geom.Position{{X: 5, Y: 5}}}
	tt := SpawnSet{Team: "T", Points: []geom.Position{{X: 25, Y: 5}}}

	p := corridorParams()
	res, err := sim.Run(ct, tt, p)
	require.NoError(t, err)

	grid, err := NewGrid(g, p.Granularity)
	require.NoError(t, err)

	var offMesh []int
	for i, s := range grid.Samples {
		if !s.OnMesh {
			offMesh = append(offMesh, i)
		}
	}
	require.NotEmpty(t, offMesh, "setup must sample the gap")

	for _, rec := range res.Ticks {
		for _, i := range offMesh {
			assert.False(t, rec.Points[i].ReachedA, "off-mesh point reached at tick %d", rec.Tick)
			assert.False(t, rec.Points[i].ReachedB, "off-mesh point reached at tick %d", rec.Tick)
		}
	}
}

func TestOccludedUShape(t *testing.T) {
	// Two arms joined around the bend, a solid wall between them.
	//
	//   A | wall | B
	//    \___________/
	areas := []nav.Area{
		squareArea(0, 0, 0, 10, 30, 0, 2),   // west arm
		squareArea(1, 20, 0, 10, 30, 0, 2),  // east arm
		squareArea(2, 0, -10, 30, 10, 0, 0, 1), // bend
	}
	g, err := nav.Build(areas)
	require.NoError(t, err)

	wall := []geom.Triangle{
		{
			P1: geom.NewPosition(15, 0, -10),
			P2: geom.NewPosition(15, 30, -10),
			P3: geom.NewPosition(15, 30, 200),
		},
		{
			P1: geom.NewPosition(15, 0, -10),
			P2: geom.NewPosition(15, 30, 200),
			P3: geom.NewPosition(15, 0, 200),
		},
	}
	mesh := collision.Build(wall, nil)

	// Near-wall points on opposite arms can't see each other...
	west := geom.NewPosition(9, 25, 10)
	east := geom.NewPosition(21, 25, 10)
	assert.False(t, mesh.Visible(west, east, collision.SelectWorld))

	// ...but the graph route around the bend is finite, and longer than
	// any straight-line shortcut through the wall would be.
	cost := g.Cost(0, 1)
	require.False(t, cost == nav.Unreachable)
	centroidWest := g.Area(0).Centroid()
	centroidEast := g.Area(1).Centroid()
	assert.Greater(t, cost, centroidWest.Dist(centroidEast),
		"path cost must reflect the detour, not the shortcut")

	// The bend itself has clear sight across.
	assert.True(t, mesh.Visible(
		geom.NewPosition(5, -5, 10), geom.NewPosition(25, -5, 10),
		collision.SelectWorld))
}

func TestContactSticky(t *testing.T) {
	sim := corridorSim(t)
	ct := SpawnSet{Team: "CT", Points: []geom.Position{{X: 1, Y: 5}}}
	tt := SpawnSet{Team: "T", Points: []geom.Position{{X: 19, Y: 5}}}

	res, err := sim.Run(ct, tt, corridorParams())
	require.NoError(t, err)

	n := len(res.Ticks[0].Points)
	for i := 0; i < n; i++ {
		var seen bool
		for _, rec := range res.Ticks {
			if seen {
				assert.True(t, rec.Points[i].Contact, "contact must never revert")
			}
			seen = seen || rec.Points[i].Contact
		}
	}
	// With no occluders at all, contact must occur somewhere.
	assert.GreaterOrEqual(t, res.FirstContactTick(), 0)
}

func TestTerminationWithinBudget(t *testing.T) {
	sim := corridorSim(t)
	ct := SpawnSet{Team: "CT", Points: []geom.Position{{X: 1, Y: 5}}}
	tt := SpawnSet{Team: "T", Points: []geom.Position{{X: 19, Y: 5}}}

	p := corridorParams()
	p.MaxTicks = 3
	res, err := sim.Run(ct, tt, p)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(res.Ticks), p.MaxTicks+1)

	// Generous budget: the run stops as soon as every point is decided.
	p.MaxTicks = 10000
	res, err = sim.Run(ct, tt, p)
	require.NoError(t, err)
	assert.Less(t, len(res.Ticks), 100, "run must stop once all points are settled")
}
