package service

import (
	"context"
	"fmt"

	"crash-clustering/internal/models"

	"github.com/rs/zerolog/log"
)

// DatasetSink stores a filtered dataset.
type DatasetSink interface {
	Save(ctx context.Context, dataset *models.Dataset) error
}

// FilterService narrows raw crash records to a bounding box and date range.
type FilterService struct {
	box   models.BoundingBox
	dates models.DateRange
}

// NewFilterService creates a filter service.
func NewFilterService(box models.BoundingBox, dates models.DateRange) *FilterService {
	return &FilterService{box: box, dates: dates}
}

// Filter returns the records strictly inside the box whose timestamps fall
// within the date range, in their original order.
func (s *FilterService) Filter(dataset *models.Dataset) *models.Dataset {
	out := &models.Dataset{Header: dataset.Header, Records: []models.Record{}}
	for _, r := range dataset.Records {
		if s.box.Contains(r.Point) && s.dates.Contains(r.Timestamp) {
			out.Records = append(out.Records, r)
		}
	}
	return out
}

// Run loads, filters and saves. It returns the number of records kept.
func (s *FilterService) Run(ctx context.Context, loader Loader, sink DatasetSink) (int, error) {
	dataset, err := loader.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("service: failed to load raw dataset: %w", err)
	}

	filtered := s.Filter(dataset)
	log.Info().
		Int("nraw", len(dataset.Records)).
		Int("nfiltered", len(filtered.Records)).
		Msg("dataset filtered")

	if err := sink.Save(ctx, filtered); err != nil {
		return 0, fmt.Errorf("service: failed to save filtered dataset: %w", err)
	}
	return len(filtered.Records), nil
}
