package spread

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/navspread/internal/collision"
	"github.com/udisondev/navspread/internal/geom"
	"github.com/udisondev/navspread/internal/nav"
)

// SpawnSet is one team's spawn positions. Read-only during simulation.
type SpawnSet struct {
	Team   string
	Points []geom.Position
}

// NoSpawnsError reports a team with an empty spawn set.
type NoSpawnsError struct {
	Team string
}

func (e *NoSpawnsError) Error() string {
	return fmt.Sprintf("spread: team %q has no spawns", e.Team)
}

// Params configures one simulation run.
type Params struct {
	// Granularity is the grid spacing in world units.
	Granularity float64
	// Speed is the movement speed in world units per second.
	Speed float64
	// TickDuration is the simulated seconds per tick.
	TickDuration float64
	// MaxTicks bounds the run; the simulation never runs unbounded.
	MaxTicks int
	// EyeLevel is added to both endpoints of contact visibility checks.
	EyeLevel float64
}

// Validate fails fast on a configuration that would corrupt the run.
func (p Params) Validate() error {
	if p.Granularity <= 0 {
		return errors.New("spread: granularity must be positive")
	}
	if p.Speed <= 0 {
		return errors.New("spread: movement speed must be positive")
	}
	if p.TickDuration <= 0 {
		return errors.New("spread: tick duration must be positive")
	}
	if p.MaxTicks <= 0 {
		return errors.New("spread: max ticks must be positive")
	}
	return nil
}

// Simulator runs the spread over a built graph and collision mesh. Both are
// read-only for the simulator's lifetime; all parallel workers share them.
type Simulator struct {
	graph *nav.Graph
	mesh  *collision.Mesh
}

// NewSimulator wires a simulator to its map data.
func NewSimulator(g *nav.Graph, m *collision.Mesh) *Simulator {
	return &Simulator{graph: g, mesh: m}
}

// Run produces the ordered tick series for two opposing spawn sets.
// Identical inputs reproduce identical results byte for byte, regardless of
// how the precompute and visibility work is split across workers.
func (s *Simulator) Run(teamA, teamB SpawnSet, p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(teamA.Points) == 0 {
		return nil, &NoSpawnsError{Team: teamA.Team}
	}
	if len(teamB.Points) == 0 {
		return nil, &NoSpawnsError{Team: teamB.Team}
	}

	grid, err := NewGrid(s.graph, p.Granularity)
	if err != nil {
		return nil, err
	}
	slog.Debug("grid sampled", "points", len(grid.Samples), "spacing", p.Granularity)

	reachA := s.reachTimes(grid, teamA, p)
	reachB := s.reachTimes(grid, teamB, p)

	return s.tickLoop(grid, reachA, reachB, p), nil
}

// reachTimes precomputes, per grid point, the earliest second the team can
// stand on it: minimum over spawns of direct distance (same area, walkable
// straight line) or the cached per-source graph cost, divided by speed.
// Off-mesh points and disconnected areas stay at +Inf.
func (s *Simulator) reachTimes(grid *Grid, team SpawnSet, p Params) []float64 {
	type spawnOrigin struct {
		pos  geom.Position
		area nav.AreaID
	}
	origins := make([]spawnOrigin, len(team.Points))
	for i, sp := range team.Points {
		area, ok := s.graph.Locate(sp)
		if !ok {
			area = s.graph.Nearest(sp)
		}
		origins[i] = spawnOrigin{pos: sp, area: area}
		// Warm the per-source cache serially so workers mostly read.
		s.graph.CostsFrom(area)
	}

	times := make([]float64, len(grid.Samples))

	workers := runtime.GOMAXPROCS(0)
	g, _ := errgroup.WithContext(context.Background())
	chunk := (len(grid.Samples) + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, len(grid.Samples))
		if lo >= hi {
			break
		}
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				sample := grid.Samples[i]
				if !sample.OnMesh {
					times[i] = math.Inf(1)
					continue
				}
				best := math.Inf(1)
				for _, o := range origins {
					var cost float64
					if o.area == sample.Area && s.mesh.Visible(o.pos, sample.Pos, collision.SelectBoth) {
						cost = o.pos.Dist(sample.Pos)
					} else {
						cost = s.graph.CostsFrom(o.area)[sample.Area]
					}
					if cost < best {
						best = cost
					}
				}
				times[i] = best / p.Speed
			}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; absences are values

	return times
}

// tickLoop advances discrete ticks, marking reached points and sticky
// mutual-visibility contacts, until every point is decided or the tick
// budget runs out.
func (s *Simulator) tickLoop(grid *Grid, reachA, reachB []float64, p Params) *Result {
	n := len(grid.Samples)
	reachedA := make([]bool, n)
	reachedB := make([]bool, n)
	contact := make([]bool, n)

	res := &Result{}

	for tick := 0; tick <= p.MaxTicks; tick++ {
		limit := float64(tick) * p.TickDuration

		var newA, newB []int
		for i := 0; i < n; i++ {
			if !reachedA[i] && reachA[i] <= limit {
				reachedA[i] = true
				newA = append(newA, i)
			}
			if !reachedB[i] && reachB[i] <= limit {
				reachedB[i] = true
				newB = append(newB, i)
			}
		}

		s.markContacts(grid, newA, reachedB, contact, p.EyeLevel)
		s.markContacts(grid, newB, reachedA, contact, p.EyeLevel)

		points := make([]PointStatus, n)
		for i := 0; i < n; i++ {
			points[i] = PointStatus{
				ReachedA: reachedA[i],
				ReachedB: reachedB[i],
				Contact:  contact[i],
			}
		}
		res.Ticks = append(res.Ticks, TickRecord{Tick: tick, Points: points})

		if s.settled(reachedA, reachedB, reachA, reachB) {
			break
		}
	}
	return res
}

// markContacts pairs each newly reached point against every opposing
// reached point and marks both ends of every sighting. Work is fanned out
// over the new frontier; flags are only ever set to true per point from one
// worker, so the merge is order-independent.
func (s *Simulator) markContacts(grid *Grid, frontier []int, opposing, contact []bool, eyeLevel float64) {
	if len(frontier) == 0 {
		return
	}

	hits := make([][]int, len(frontier))

	workers := runtime.GOMAXPROCS(0)
	g, _ := errgroup.WithContext(context.Background())
	chunk := (len(frontier) + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, len(frontier))
		if lo >= hi {
			break
		}
		g.Go(func() error {
			for fi := lo; fi < hi; fi++ {
				i := frontier[fi]
				from := eyePoint(grid.Samples[i].Pos, eyeLevel)
				for j := range opposing {
					if !opposing[j] {
						continue
					}
					to := eyePoint(grid.Samples[j].Pos, eyeLevel)
					if s.mesh.Visible(from, to, collision.SelectWorld) {
						hits[fi] = append(hits[fi], j)
					}
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	for fi, seen := range hits {
		if len(seen) == 0 {
			continue
		}
		contact[frontier[fi]] = true
		for _, j := range seen {
			contact[j] = true
		}
	}
}

// settled reports whether every grid point is either reached by both teams
// or permanently unreachable by at least one.
func (s *Simulator) settled(reachedA, reachedB []bool, reachA, reachB []float64) bool {
	for i := range reachedA {
		if reachedA[i] && reachedB[i] {
			continue
		}
		if math.IsInf(reachA[i], 1) || math.IsInf(reachB[i], 1) {
			continue
		}
		return false
	}
	return true
}

func eyePoint(p geom.Position, eyeLevel float64) geom.Position {
	return geom.Position{X: p.X, Y: p.Y, Z: p.Z + eyeLevel}
}
