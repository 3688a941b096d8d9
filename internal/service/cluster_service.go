package service

import (
	"context"
	"errors"
	"fmt"

	"crash-clustering/internal/cluster"
	"crash-clustering/internal/group"
	"crash-clustering/internal/models"
	"crash-clustering/internal/projection"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrInvalidParams is returned when caller-supplied clustering parameters are rejected.
var ErrInvalidParams = errors.New("service: invalid clustering parameters")

// Loader supplies the dataset to cluster.
type Loader interface {
	Load(ctx context.Context) (*models.Dataset, error)
}

// ResultWriter persists a clustered partition and returns the files written.
type ResultWriter interface {
	Write(ctx context.Context, dataset *models.Dataset, partition *group.Partition) ([]string, error)
}

// ClustererFactory builds a clusterer for a parameter set.
type ClustererFactory func(params cluster.Params) (cluster.Clusterer, error)

// DBSCANFactory returns a factory of DBSCAN clusterers on the given index.
func DBSCANFactory(index cluster.IndexKind) ClustererFactory {
	return func(params cluster.Params) (cluster.Clusterer, error) {
		return cluster.NewDBSCAN(params, index)
	}
}

// ClusterService projects, clusters and groups crash points.
type ClusterService struct {
	newClusterer ClustererFactory
	params       cluster.Params
	lonRef       float64
}

// NewClusterService creates a cluster service with default parameters and
// the projection reference meridian in degrees.
func NewClusterService(factory ClustererFactory, params cluster.Params, lonRef float64) *ClusterService {
	return &ClusterService{newClusterer: factory, params: params, lonRef: lonRef}
}

// Label projects points and clusters them with params.
func (s *ClusterService) Label(points []models.GeoPoint, params cluster.Params) ([]models.Label, error) {
	clusterer, err := s.newClusterer(params)
	if err != nil {
		return nil, err
	}

	labels := clusterer.Cluster(projection.ProjectAll(points, s.lonRef))
	if len(labels) != len(points) {
		return nil, fmt.Errorf("service: clusterer returned %d labels for %d points", len(labels), len(points))
	}
	return labels, nil
}

// Run loads a dataset, clusters it with the default parameters and writes
// the noise group and one group per cluster.
func (s *ClusterService) Run(ctx context.Context, loader Loader, writer ResultWriter) (*models.RunSummary, error) {
	runID := uuid.New().String()
	logger := log.With().Str("run_id", runID).Logger()

	dataset, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load dataset: %w", err)
	}
	points := dataset.Points()
	logger.Info().Int("npoints", len(points)).Msg("dataset loaded")

	labels, err := s.Label(points, s.params)
	if err != nil {
		return nil, fmt.Errorf("service: failed to cluster: %w", err)
	}

	partition, err := group.Group(len(dataset.Records), labels)
	if err != nil {
		return nil, fmt.Errorf("service: failed to group: %w", err)
	}

	nlabels := len(partition.Clusters)
	if len(partition.Noise) > 0 {
		nlabels++
	}
	logger.Info().
		Int("nlabels", nlabels).
		Int("nclusters", len(partition.Clusters)).
		Int("nnoise", len(partition.Noise)).
		Float64("eps", s.params.Eps).
		Int("min_samples", s.params.MinSamples).
		Msg("clustering finished")

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("service: run interrupted: %w", err)
	}

	files, err := writer.Write(ctx, dataset, partition)
	if err != nil {
		return nil, fmt.Errorf("service: failed to write results: %w", err)
	}
	logger.Info().Int("nfiles", len(files)).Msg("results written")

	return &models.RunSummary{
		RunID:    runID,
		Points:   len(points),
		Labels:   nlabels,
		Clusters: len(partition.Clusters),
		Noise:    len(partition.Noise),
		Files:    files,
	}, nil
}

// ClusterPoints clusters an ad-hoc point set. Zero-valued override fields
// fall back to the service defaults.
func (s *ClusterService) ClusterPoints(ctx context.Context, points []models.GeoPoint, override cluster.Params) (*models.ClusterResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := s.params
	if override.Eps != 0 {
		params.Eps = override.Eps
	}
	if override.MinSamples != 0 {
		params.MinSamples = override.MinSamples
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}

	labels, err := s.Label(points, params)
	if err != nil {
		return nil, fmt.Errorf("service: failed to cluster: %w", err)
	}

	partition, err := group.Group(len(points), labels)
	if err != nil {
		return nil, fmt.Errorf("service: failed to group: %w", err)
	}

	return &models.ClusterResult{
		RunID:      uuid.New().String(),
		Eps:        params.Eps,
		MinSamples: params.MinSamples,
		Labels:     labels,
		Clusters:   partition.Groups(),
		Noise:      partition.Noise,
	}, nil
}

// Project maps one point with the given reference meridian.
func (s *ClusterService) Project(_ context.Context, point models.GeoPoint, lonRef float64) models.PlanarPoint {
	return projection.Project(point, lonRef)
}
