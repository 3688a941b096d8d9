package service

import (
	"context"
	"testing"

	"crash-clustering/internal/cluster"
	"crash-clustering/internal/group"
	"crash-clustering/internal/models"
	"crash-clustering/internal/projection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockClusterer is a mock implementation of cluster.Clusterer
type MockClusterer struct {
	mock.Mock
}

func (m *MockClusterer) Cluster(points []models.PlanarPoint) []models.Label {
	args := m.Called(points)
	return args.Get(0).([]models.Label)
}

// MockLoader is a mock implementation of the Loader interface
type MockLoader struct {
	mock.Mock
}

func (m *MockLoader) Load(ctx context.Context) (*models.Dataset, error) {
	args := m.Called(ctx)
	return args.Get(0).(*models.Dataset), args.Error(1)
}

// MockResultWriter is a mock implementation of the ResultWriter interface
type MockResultWriter struct {
	mock.Mock
}

func (m *MockResultWriter) Write(ctx context.Context, dataset *models.Dataset, partition *group.Partition) ([]string, error) {
	args := m.Called(ctx, dataset, partition)
	return args.Get(0).([]string), args.Error(1)
}

func fixedFactory(c cluster.Clusterer) ClustererFactory {
	return func(cluster.Params) (cluster.Clusterer, error) { return c, nil }
}

func crashDataset(points ...models.GeoPoint) *models.Dataset {
	ds := &models.Dataset{Header: []string{"LATITUDE", "LONGITUDE"}, Records: []models.Record{}}
	for _, p := range points {
		ds.Records = append(ds.Records, models.Record{Point: p})
	}
	return ds
}

func TestClusterService_Run(t *testing.T) {
	points := []models.GeoPoint{
		{Latitude: 41.8800, Longitude: -87.6300},
		{Latitude: 41.8900, Longitude: -87.6400},
		{Latitude: 41.8800, Longitude: -87.6300},
		{Latitude: 41.8850, Longitude: -87.6350},
	}

	tests := []struct {
		name        string
		dataset     *models.Dataset
		loadErr     error
		labels      []models.Label
		writeErr    error
		expected    *models.RunSummary
		expectError bool
	}{
		{
			name:    "clusters and noise",
			dataset: crashDataset(points...),
			labels:  []models.Label{0, -1, 0, 1},
			expected: &models.RunSummary{
				Points:   4,
				Labels:   3,
				Clusters: 2,
				Noise:    1,
				Files:    []string{"written"},
			},
		},
		{
			name:    "empty dataset",
			dataset: crashDataset(),
			labels:  []models.Label{},
			expected: &models.RunSummary{
				Files: []string{"written"},
			},
		},
		{
			name:        "loader error",
			dataset:     (*models.Dataset)(nil),
			loadErr:     assert.AnError,
			expectError: true,
		},
		{
			name:        "clusterer returns wrong number of labels",
			dataset:     crashDataset(points...),
			labels:      []models.Label{0},
			expectError: true,
		},
		{
			name:        "writer error",
			dataset:     crashDataset(points...),
			labels:      []models.Label{-1, -1, -1, -1},
			writeErr:    assert.AnError,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			loader := new(MockLoader)
			clusterer := new(MockClusterer)
			writer := new(MockResultWriter)
			svc := NewClusterService(fixedFactory(clusterer), cluster.DefaultParams(), 0)

			loader.On("Load", mock.Anything).Return(tt.dataset, tt.loadErr)
			if tt.labels != nil {
				clusterer.On("Cluster", projection.ProjectAll(tt.dataset.Points(), 0)).Return(tt.labels)
			}
			if tt.labels != nil && len(tt.labels) == len(tt.dataset.Records) {
				writer.On("Write", mock.Anything, tt.dataset, mock.AnythingOfType("*group.Partition")).
					Return([]string{"written"}, tt.writeErr)
			}

			// Execute
			summary, err := svc.Run(context.Background(), loader, writer)

			// Assert
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, summary)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, summary.RunID)
				tt.expected.RunID = summary.RunID
				assert.Equal(t, tt.expected, summary)
			}

			loader.AssertExpectations(t)
			clusterer.AssertExpectations(t)
			writer.AssertExpectations(t)
		})
	}
}

func TestClusterService_RunPartitionsAllRecords(t *testing.T) {
	ds := crashDataset(
		models.GeoPoint{Latitude: 41.88, Longitude: -87.63},
		models.GeoPoint{Latitude: 41.88, Longitude: -87.63},
		models.GeoPoint{Latitude: 41.88, Longitude: -87.63},
		models.GeoPoint{Latitude: 41.80, Longitude: -87.60},
	)
	loader := new(MockLoader)
	loader.On("Load", mock.Anything).Return(ds, nil)

	var got *group.Partition
	writer := new(MockResultWriter)
	writer.On("Write", mock.Anything, ds, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(2).(*group.Partition) }).
		Return([]string{}, nil)

	svc := NewClusterService(DBSCANFactory(cluster.KDTreeIndex), cluster.DefaultParams(), 0)
	summary, err := svc.Run(context.Background(), loader, writer)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Clusters)
	assert.Equal(t, 1, summary.Noise)
	require.NotNil(t, got)
	assert.Equal(t, []int{3}, got.Noise)
	assert.Equal(t, map[models.Label][]int{0: {0, 1, 2}}, got.Clusters)
}

func TestClusterService_RunStopsWhenCancelled(t *testing.T) {
	ds := crashDataset(models.GeoPoint{Latitude: 41.88, Longitude: -87.63})
	ctx, cancel := context.WithCancel(context.Background())

	loader := new(MockLoader)
	loader.On("Load", mock.Anything).Return(ds, nil)
	clusterer := new(MockClusterer)
	clusterer.On("Cluster", mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return([]models.Label{models.Noise})
	writer := new(MockResultWriter)

	svc := NewClusterService(fixedFactory(clusterer), cluster.DefaultParams(), 0)
	summary, err := svc.Run(ctx, loader, writer)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, summary)
	writer.AssertNotCalled(t, "Write", mock.Anything, mock.Anything, mock.Anything)
}

func TestClusterService_ClusterPoints(t *testing.T) {
	tight := []models.GeoPoint{
		{Latitude: 41.88, Longitude: -87.63},
		{Latitude: 41.88, Longitude: -87.63},
		{Latitude: 41.88, Longitude: -87.63},
		{Latitude: 42.00, Longitude: -87.00},
	}

	tests := []struct {
		name           string
		points         []models.GeoPoint
		override       cluster.Params
		expectedParams cluster.Params
		expectedLabels []models.Label
		invalid        bool
	}{
		{
			name:           "defaults",
			points:         tight,
			expectedParams: cluster.DefaultParams(),
			expectedLabels: []models.Label{0, 0, 0, -1},
		},
		{
			name:           "min samples override",
			points:         tight,
			override:       cluster.Params{MinSamples: 4},
			expectedParams: cluster.Params{Eps: cluster.DefaultEps, MinSamples: 4},
			expectedLabels: []models.Label{-1, -1, -1, -1},
		},
		{
			name:           "empty input",
			points:         []models.GeoPoint{},
			expectedParams: cluster.DefaultParams(),
			expectedLabels: []models.Label{},
		},
		{
			name:     "negative eps",
			points:   tight,
			override: cluster.Params{Eps: -1},
			invalid:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewClusterService(DBSCANFactory(cluster.GridIndex), cluster.DefaultParams(), 0)

			result, err := svc.ClusterPoints(context.Background(), tt.points, tt.override)

			if tt.invalid {
				assert.ErrorIs(t, err, ErrInvalidParams)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedParams.Eps, result.Eps)
			assert.Equal(t, tt.expectedParams.MinSamples, result.MinSamples)
			assert.Equal(t, tt.expectedLabels, result.Labels)
			assert.NotEmpty(t, result.RunID)
		})
	}
}

func TestClusterService_Project(t *testing.T) {
	svc := NewClusterService(DBSCANFactory(cluster.KDTreeIndex), cluster.DefaultParams(), 0)

	got := svc.Project(context.Background(), models.GeoPoint{}, 0)

	assert.Equal(t, models.PlanarPoint{}, got)
}
