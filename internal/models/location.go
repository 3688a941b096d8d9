package models

import "time"

// GeoPoint is a geographic coordinate in degrees.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PlanarPoint is a GeoPoint projected onto a locally flat plane.
type PlanarPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BoundingBox is an exclusive latitude/longitude window.
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// Contains reports whether p lies strictly inside the box.
func (b BoundingBox) Contains(p GeoPoint) bool {
	return b.MinLat < p.Latitude && p.Latitude < b.MaxLat &&
		b.MinLon < p.Longitude && p.Longitude < b.MaxLon
}

// DateRange covers whole days from Start through End.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls on or after Start and before the day after End.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End.AddDate(0, 0, 1))
}
