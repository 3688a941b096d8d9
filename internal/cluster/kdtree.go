package cluster

import (
	"sort"

	"crash-clustering/internal/models"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// indexedPoint is a planar point that remembers its input position, since
// building the tree reorders the backing slice.
type indexedPoint struct {
	models.PlanarPoint
	idx int
}

func (p indexedPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(indexedPoint)
	switch d {
	case 0:
		return p.X - q.X
	case 1:
		return p.Y - q.Y
	default:
		panic("cluster: illegal dimension")
	}
}

func (p indexedPoint) Dims() int { return 2 }

// Distance is the squared Euclidean distance, as kdtree expects.
func (p indexedPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(indexedPoint)
	dx := p.X - q.X
	dy := p.Y - q.Y
	return dx*dx + dy*dy
}

type indexedPoints []indexedPoint

func (p indexedPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p indexedPoints) Len() int                      { return len(p) }
func (p indexedPoints) Pivot(d kdtree.Dim) int {
	return plane{Dim: d, indexedPoints: p}.Pivot()
}
func (p indexedPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// plane sorts indexedPoints along one dimension.
type plane struct {
	kdtree.Dim
	indexedPoints
}

func (p plane) Less(i, j int) bool {
	switch p.Dim {
	case 0:
		return p.indexedPoints[i].X < p.indexedPoints[j].X
	case 1:
		return p.indexedPoints[i].Y < p.indexedPoints[j].Y
	default:
		panic("cluster: illegal dimension")
	}
}
func (p plane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	return plane{Dim: p.Dim, indexedPoints: p.indexedPoints[start:end]}
}
func (p plane) Swap(i, j int) {
	p.indexedPoints[i], p.indexedPoints[j] = p.indexedPoints[j], p.indexedPoints[i]
}

type kdIndex struct {
	tree   *kdtree.Tree
	points []indexedPoint
}

func newKDTree(points []models.PlanarPoint) *kdIndex {
	byIndex := make([]indexedPoint, len(points))
	for i, p := range points {
		byIndex[i] = indexedPoint{PlanarPoint: p, idx: i}
	}

	nodes := make(indexedPoints, len(byIndex))
	copy(nodes, byIndex)

	return &kdIndex{
		tree:   kdtree.New(nodes, false),
		points: byIndex,
	}
}

func (k *kdIndex) RegionQuery(idx int, eps float64) []int {
	keep := kdtree.NewDistKeeper(eps * eps)
	k.tree.NearestSet(keep, k.points[idx])

	neighbors := make([]int, 0, len(keep.Heap))
	for _, c := range keep.Heap {
		// The keeper seeds its heap with a sentinel that carries no point.
		if c.Comparable == nil {
			continue
		}
		neighbors = append(neighbors, c.Comparable.(indexedPoint).idx)
	}
	sort.Ints(neighbors)
	return neighbors
}
