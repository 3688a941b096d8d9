package models

import "time"

// Label is the cluster tag assigned to a point. Noise marks unclustered points.
type Label int

// Noise is the label of points that belong to no cluster.
const Noise Label = -1

// Record is one input row. Fields holds the raw columns in header order.
type Record struct {
	Fields    []string
	Point     GeoPoint
	Timestamp time.Time
}

// Dataset is a header plus the records read under it.
type Dataset struct {
	Header  []string
	Records []Record
}

// Points returns the coordinates of every record, positionally aligned.
func (d *Dataset) Points() []GeoPoint {
	points := make([]GeoPoint, len(d.Records))
	for i, r := range d.Records {
		points[i] = r.Point
	}
	return points
}

// ClusterGroup is the set of record positions sharing one non-noise label.
type ClusterGroup struct {
	Label   Label `json:"label"`
	Indices []int `json:"indices"`
}

// ClusterResult is the outcome of clustering an ad-hoc point set.
type ClusterResult struct {
	RunID      string         `json:"run_id"`
	Eps        float64        `json:"eps"`
	MinSamples int            `json:"min_samples"`
	Labels     []Label        `json:"labels"`
	Clusters   []ClusterGroup `json:"clusters"`
	Noise      []int          `json:"noise"`
}

// RunSummary describes one batch clustering run.
type RunSummary struct {
	RunID    string   `json:"run_id"`
	Points   int      `json:"points"`
	Labels   int      `json:"labels"`
	Clusters int      `json:"clusters"`
	Noise    int      `json:"noise"`
	Files    []string `json:"files"`
}
