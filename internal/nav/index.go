package nav

import (
	"math"

	"github.com/udisondev/navspread/internal/geom"
)

// indexCells is the bucket count per axis. Coarse on purpose: the index only
// has to shrink the candidate set, exactness comes from Area.Contains.
const indexCells = 128

// bucketIndex maps world XY to candidate containing areas via a uniform
// grid of buckets keyed by each area's bounding box.
type bucketIndex struct {
	bounds     geom.AABB
	cellW      float64
	cellH      float64
	buckets    [][]AreaID
	cols, rows int
}

func newBucketIndex(areas []Area) *bucketIndex {
	bounds := areas[0].bbox
	for i := range areas[1:] {
		bounds = bounds.Expand(areas[i+1].bbox)
	}

	idx := &bucketIndex{
		bounds: bounds,
		cols:   indexCells,
		rows:   indexCells,
	}
	idx.cellW = (bounds.Max.X - bounds.Min.X) / float64(idx.cols)
	idx.cellH = (bounds.Max.Y - bounds.Min.Y) / float64(idx.rows)
	if idx.cellW <= 0 {
		idx.cellW = 1
	}
	if idx.cellH <= 0 {
		idx.cellH = 1
	}
	idx.buckets = make([][]AreaID, idx.cols*idx.rows)

	for i := range areas {
		a := &areas[i]
		minC, minR := idx.cell(a.bbox.Min.X, a.bbox.Min.Y)
		maxC, maxR := idx.cell(a.bbox.Max.X, a.bbox.Max.Y)
		for r := minR; r <= maxR; r++ {
			for c := minC; c <= maxC; c++ {
				b := r*idx.cols + c
				idx.buckets[b] = append(idx.buckets[b], a.ID)
			}
		}
	}
	return idx
}

func (idx *bucketIndex) cell(x, y float64) (int, int) {
	c := int(math.Floor((x - idx.bounds.Min.X) / idx.cellW))
	r := int(math.Floor((y - idx.bounds.Min.Y) / idx.cellH))
	c = clamp(c, 0, idx.cols-1)
	r = clamp(r, 0, idx.rows-1)
	return c, r
}

// candidates returns the area ids whose bounding boxes cover the point's
// bucket. Empty when the point falls in an uncovered bucket.
func (idx *bucketIndex) candidates(p geom.Position) []AreaID {
	if p.X < idx.bounds.Min.X || p.X > idx.bounds.Max.X ||
		p.Y < idx.bounds.Min.Y || p.Y > idx.bounds.Max.Y {
		return nil
	}
	c, r := idx.cell(p.X, p.Y)
	return idx.buckets[r*idx.cols+c]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
