package cluster

import (
	"fmt"

	"crash-clustering/internal/models"
)

// IndexKind selects the neighbour search structure.
type IndexKind string

const (
	// KDTreeIndex searches a gonum k-d tree.
	KDTreeIndex IndexKind = "kdtree"
	// GridIndex searches a uniform grid with eps-sized cells.
	GridIndex IndexKind = "grid"
)

// NeighborIndex answers fixed-radius queries over a point set it was built on.
type NeighborIndex interface {
	// RegionQuery returns the ascending indices of every point within eps of
	// points[idx], idx itself included.
	RegionQuery(idx int, eps float64) []int
}

// ParseIndexKind validates a configured index name.
func ParseIndexKind(s string) (IndexKind, error) {
	switch k := IndexKind(s); k {
	case KDTreeIndex, GridIndex:
		return k, nil
	case "":
		return KDTreeIndex, nil
	default:
		return "", fmt.Errorf("cluster: unknown neighbor index %q", s)
	}
}

func newIndex(kind IndexKind, points []models.PlanarPoint, eps float64) NeighborIndex {
	if kind == GridIndex {
		return newGrid(points, eps)
	}
	return newKDTree(points)
}
