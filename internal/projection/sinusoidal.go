// Package projection maps geographic coordinates onto a locally flat plane.
package projection

import (
	"math"

	"crash-clustering/internal/models"
)

// DefaultLongitudeReference is the reference meridian in degrees.
const DefaultLongitudeReference = 0.0

// Project applies a sinusoidal projection around the meridian lonRefDeg.
//
// x = (lon - lonRef) * cos(lat), y = lat, all in radians. y is left
// unscaled, so distances are only comparable within a small region.
// Out-of-range inputs are not validated.
func Project(p models.GeoPoint, lonRefDeg float64) models.PlanarPoint {
	lat := radians(p.Latitude)
	lon := radians(p.Longitude)
	ref := radians(lonRefDeg)

	return models.PlanarPoint{
		X: (lon - ref) * math.Cos(lat),
		Y: lat,
	}
}

// ProjectAll projects every point, keeping input order.
func ProjectAll(points []models.GeoPoint, lonRefDeg float64) []models.PlanarPoint {
	projected := make([]models.PlanarPoint, len(points))
	for i, p := range points {
		projected[i] = Project(p, lonRefDeg)
	}
	return projected
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
