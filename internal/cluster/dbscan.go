package cluster

import (
	"crash-clustering/internal/models"
)

// DBSCAN is a density-based clusterer over Euclidean distance in the plane.
type DBSCAN struct {
	params Params
	index  IndexKind
}

// NewDBSCAN creates a DBSCAN clusterer backed by the given neighbour index.
func NewDBSCAN(params Params, index IndexKind) (*DBSCAN, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if index == "" {
		index = KDTreeIndex
	}
	if _, err := ParseIndexKind(string(index)); err != nil {
		return nil, err
	}
	return &DBSCAN{params: params, index: index}, nil
}

// Params returns the clustering parameters.
func (d *DBSCAN) Params() Params {
	return d.params
}

// Cluster labels every point. A point with at least MinSamples points
// (itself included) within Eps is a core point; core points within Eps of
// each other share a cluster, non-core points within Eps of a core point
// join the first cluster that reaches them, and the rest are Noise.
//
// Cluster ids start at 0 and follow the input order of each cluster's
// first core point.
func (d *DBSCAN) Cluster(points []models.PlanarPoint) []models.Label {
	n := len(points)
	labels := make([]models.Label, n)
	if n == 0 {
		return labels
	}

	index := newIndex(d.index, points, d.params.Eps)

	neighborhoods := make([][]int, n)
	core := make([]bool, n)
	for i := range points {
		neighborhoods[i] = index.RegionQuery(i, d.params.Eps)
		core[i] = len(neighborhoods[i]) >= d.params.MinSamples
		labels[i] = models.Noise
	}

	next := models.Label(0)
	stack := make([]int, 0, n)
	for i := range points {
		if labels[i] != models.Noise || !core[i] {
			continue
		}

		stack = append(stack[:0], i)
		for len(stack) > 0 {
			j := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if labels[j] != models.Noise {
				continue
			}
			labels[j] = next

			// Border points are labelled but never expanded.
			if !core[j] {
				continue
			}
			for _, k := range neighborhoods[j] {
				if labels[k] == models.Noise {
					stack = append(stack, k)
				}
			}
		}
		next++
	}

	return labels
}
