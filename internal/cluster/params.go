// Package cluster groups projected points with density-based clustering.
package cluster

import (
	"fmt"
	"math"

	"crash-clustering/internal/models"
)

const (
	// DefaultEps is the neighbourhood radius in projected units (radians).
	DefaultEps = 3e-6
	// DefaultMinSamples is the neighbourhood size, the point itself included,
	// that makes a point a core point.
	DefaultMinSamples = 3
)

// Clusterer assigns one label per point, positionally aligned with its input.
type Clusterer interface {
	Cluster(points []models.PlanarPoint) []models.Label
}

// Params holds the DBSCAN parameters.
type Params struct {
	Eps        float64 `json:"eps"`
	MinSamples int     `json:"min_samples"`
}

// DefaultParams returns the parameters calibrated for city-scale crash data.
func DefaultParams() Params {
	return Params{
		Eps:        DefaultEps,
		MinSamples: DefaultMinSamples,
	}
}

// Validate rejects parameters the algorithm cannot run with.
func (p Params) Validate() error {
	if math.IsNaN(p.Eps) || math.IsInf(p.Eps, 0) || p.Eps <= 0 {
		return fmt.Errorf("cluster: eps must be a positive finite number, got %v", p.Eps)
	}
	if p.MinSamples < 1 {
		return fmt.Errorf("cluster: min samples must be at least 1, got %d", p.MinSamples)
	}
	return nil
}
