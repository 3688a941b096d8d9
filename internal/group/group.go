// Package group partitions clustered records by label.
package group

import (
	"errors"
	"fmt"
	"sort"

	"crash-clustering/internal/models"
)

// ErrLengthMismatch is returned when records and labels are not aligned.
var ErrLengthMismatch = errors.New("group: records and labels differ in length")

// Partition holds record positions split into noise and per-label clusters.
// Positions keep their original relative order inside every part.
type Partition struct {
	Noise    []int
	Clusters map[models.Label][]int
}

// Group partitions n record positions by their label.
func Group(n int, labels []models.Label) (*Partition, error) {
	if n != len(labels) {
		return nil, fmt.Errorf("%w: %d records, %d labels", ErrLengthMismatch, n, len(labels))
	}

	p := &Partition{
		Noise:    []int{},
		Clusters: make(map[models.Label][]int),
	}
	for i, label := range labels {
		if label == models.Noise {
			p.Noise = append(p.Noise, i)
			continue
		}
		p.Clusters[label] = append(p.Clusters[label], i)
	}
	return p, nil
}

// Labels returns the cluster labels in ascending order.
func (p *Partition) Labels() []models.Label {
	labels := make([]models.Label, 0, len(p.Clusters))
	for l := range p.Clusters {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	return labels
}

// Groups returns one ClusterGroup per label in ascending label order.
func (p *Partition) Groups() []models.ClusterGroup {
	labels := p.Labels()
	groups := make([]models.ClusterGroup, len(labels))
	for i, l := range labels {
		groups[i] = models.ClusterGroup{Label: l, Indices: p.Clusters[l]}
	}
	return groups
}

// Select returns the records at the given positions, in order.
func Select(records []models.Record, indices []int) []models.Record {
	out := make([]models.Record, len(indices))
	for i, idx := range indices {
		out[i] = records[idx]
	}
	return out
}

// GroupRecords splits records into the noise records and the records of each
// cluster label.
func GroupRecords(records []models.Record, labels []models.Label) ([]models.Record, map[models.Label][]models.Record, error) {
	p, err := Group(len(records), labels)
	if err != nil {
		return nil, nil, err
	}

	clusters := make(map[models.Label][]models.Record, len(p.Clusters))
	for l, indices := range p.Clusters {
		clusters[l] = Select(records, indices)
	}
	return Select(records, p.Noise), clusters, nil
}
