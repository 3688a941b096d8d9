package cluster

import (
	"math"
	"sort"

	"crash-clustering/internal/models"
)

// EstimatedPointsPerCell sizes the grid map up front.
const EstimatedPointsPerCell = 4

type cellKey struct {
	x, y int64
}

// gridIndex buckets points into square cells of side eps, so every
// neighbour of a point lies in its own cell or one of the eight around it.
type gridIndex struct {
	cellSize float64
	points   []models.PlanarPoint
	cells    map[cellKey][]int
}

func newGrid(points []models.PlanarPoint, cellSize float64) *gridIndex {
	g := &gridIndex{
		cellSize: cellSize,
		points:   points,
		cells:    make(map[cellKey][]int, len(points)/EstimatedPointsPerCell+1),
	}
	for i, p := range points {
		key := g.cellOf(p)
		g.cells[key] = append(g.cells[key], i)
	}
	return g
}

func (g *gridIndex) cellOf(p models.PlanarPoint) cellKey {
	return cellKey{
		x: int64(math.Floor(p.X / g.cellSize)),
		y: int64(math.Floor(p.Y / g.cellSize)),
	}
}

func (g *gridIndex) RegionQuery(idx int, eps float64) []int {
	p := g.points[idx]
	eps2 := eps * eps
	base := g.cellOf(p)

	// Wider searches are needed when eps outgrows the cell size.
	reach := int64(math.Ceil(eps / g.cellSize))

	var neighbors []int
	for dx := -reach; dx <= reach; dx++ {
		for dy := -reach; dy <= reach; dy++ {
			for _, j := range g.cells[cellKey{x: base.x + dx, y: base.y + dy}] {
				q := g.points[j]
				ddx := q.X - p.X
				ddy := q.Y - p.Y
				if ddx*ddx+ddy*ddy <= eps2 {
					neighbors = append(neighbors, j)
				}
			}
		}
	}
	sort.Ints(neighbors)
	return neighbors
}
