package nav

import (
	"container/heap"
	"sync"
)

// costCache holds per-source shortest-path results. Sharded so parallel
// workers touching different sources don't serialize on one lock. Two
// workers racing to fill the same source both compute the same slice, so
// losing the race is harmless.
const cacheShards = 16

type costCache struct {
	shards [cacheShards]struct {
		mu sync.RWMutex
		m  map[AreaID][]float64
	}
}

func (c *costCache) init() {
	for i := range c.shards {
		c.shards[i].m = make(map[AreaID][]float64)
	}
}

func (c *costCache) get(src AreaID) ([]float64, bool) {
	s := &c.shards[int(src)%cacheShards]
	s.mu.RLock()
	costs, ok := s.m[src]
	s.mu.RUnlock()
	return costs, ok
}

func (c *costCache) put(src AreaID, costs []float64) {
	s := &c.shards[int(src)%cacheShards]
	s.mu.Lock()
	s.m[src] = costs
	s.mu.Unlock()
}

// CostsFrom returns the shortest-path cost from src to every area,
// Unreachable for areas in a disconnected component. The result is computed
// lazily per source and cached for the graph's lifetime; callers must not
// modify the returned slice.
func (g *Graph) CostsFrom(src AreaID) []float64 {
	if costs, ok := g.cache.get(src); ok {
		return costs
	}
	costs := g.dijkstra(src)
	g.cache.put(src, costs)
	return costs
}

// Cost returns the shortest-path cost from one area to another.
// Cost(a, a) is always 0.
func (g *Graph) Cost(from, to AreaID) float64 {
	return g.CostsFrom(from)[to]
}

// dijkstra runs single-source shortest path over the directed adjacency.
// Edge costs are non-negative centroid distances. Ties in cost settle in
// ascending id order, so the result is independent of scheduling.
func (g *Graph) dijkstra(src AreaID) []float64 {
	costs := make([]float64, len(g.areas))
	for i := range costs {
		costs[i] = Unreachable
	}
	costs[src] = 0

	pq := &costHeap{{id: src, cost: 0}}
	done := make([]bool, len(g.areas))

	for pq.Len() > 0 {
		item := heap.Pop(pq).(costItem)
		if done[item.id] {
			continue
		}
		done[item.id] = true

		for _, e := range g.edges[item.id] {
			next := item.cost + e.cost
			if next < costs[e.to] {
				costs[e.to] = next
				heap.Push(pq, costItem{id: e.to, cost: next})
			}
		}
	}
	return costs
}

type costItem struct {
	id   AreaID
	cost float64
}

// costHeap is a min-heap ordered by (cost, id) so equal-cost pops are
// deterministic.
type costHeap []costItem

func (h costHeap) Len() int { return len(h) }
func (h costHeap) Less(i, j int) bool {
	if h[i].cost != h[j].cost {
		return h[i].cost < h[j].cost
	}
	return h[i].id < h[j].id
}
func (h costHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *costHeap) Push(x any) { *h = append(*h, x.(costItem)) }

func (h *costHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
