package repository

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"crash-clustering/internal/group"
	"crash-clustering/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChart struct {
	err error
}

func (s stubChart) Render(w io.Writer, dataset *models.Dataset, partition *group.Partition) error {
	if s.err != nil {
		return s.err
	}
	_, err := io.WriteString(w, "<html></html>")
	return err
}

func sampleDataset(n int) *models.Dataset {
	ds := &models.Dataset{Header: []string{"CRASH_RECORD_ID", "LATITUDE", "LONGITUDE"}}
	for i := 0; i < n; i++ {
		ds.Records = append(ds.Records, models.Record{
			Fields: []string{"id-" + string(rune('a'+i)), "41.88", "-87.63"},
			Point:  models.GeoPoint{Latitude: 41.88, Longitude: -87.63},
		})
	}
	return ds
}

func TestClusterFileName(t *testing.T) {
	assert.Equal(t, "cluster_00.csv", ClusterFileName(0))
	assert.Equal(t, "cluster_07.csv", ClusterFileName(7))
	assert.Equal(t, "cluster_123.csv", ClusterFileName(123))
}

func TestResultWriter_Write(t *testing.T) {
	for _, c := range []Compression{NoCompression, ZstdCompression} {
		t.Run(string(c), func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "results")
			ds := sampleDataset(7)
			labels := []models.Label{1, -1, 0, 1, -1, 0, 1}
			p, err := group.Group(len(ds.Records), labels)
			require.NoError(t, err)

			w := NewResultWriter(dir, c, stubChart{})
			written, err := w.Write(context.Background(), ds, p)
			require.NoError(t, err)

			ext := c.Extension()
			assert.Equal(t, []string{
				filepath.Join(dir, "unclustered.csv"+ext),
				filepath.Join(dir, "cluster_00.csv"+ext),
				filepath.Join(dir, "cluster_01.csv"+ext),
				filepath.Join(dir, "clusters.html"),
			}, written)

			noise, err := ReadGroupIndices(written[0])
			require.NoError(t, err)
			assert.Equal(t, p.Noise, noise)

			for i, label := range p.Labels() {
				indices, err := ReadGroupIndices(written[i+1])
				require.NoError(t, err)
				assert.Equal(t, p.Clusters[label], indices)
			}
		})
	}
}

func TestResultWriter_FileContents(t *testing.T) {
	dir := t.TempDir()
	ds := sampleDataset(3)
	p, err := group.Group(3, []models.Label{0, -1, 0})
	require.NoError(t, err)

	_, err = NewResultWriter(dir, NoCompression, nil).Write(context.Background(), ds, p)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "cluster_00.csv"))
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"INDEX,CRASH_RECORD_ID,LATITUDE,LONGITUDE",
		"0,id-a,41.88,-87.63",
		"2,id-c,41.88,-87.63",
		"",
	}, "\n"), string(data))

	_, err = os.Stat(filepath.Join(dir, "clusters.html"))
	assert.True(t, os.IsNotExist(err))
}

func TestResultWriter_EmptyPartition(t *testing.T) {
	dir := t.TempDir()
	p, err := group.Group(0, []models.Label{})
	require.NoError(t, err)

	written, err := NewResultWriter(dir, NoCompression, nil).Write(context.Background(), sampleDataset(0), p)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "unclustered.csv")}, written)

	indices, err := ReadGroupIndices(written[0])
	require.NoError(t, err)
	assert.Empty(t, indices)
}

func TestResultWriter_ChartError(t *testing.T) {
	p, err := group.Group(1, []models.Label{-1})
	require.NoError(t, err)

	_, err = NewResultWriter(t.TempDir(), NoCompression, stubChart{err: errors.New("boom")}).
		Write(context.Background(), sampleDataset(1), p)
	assert.Error(t, err)
}

func TestReadGroupIndices_MissingIndexColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cluster_00.csv")
	require.NoError(t, os.WriteFile(path, []byte("LATITUDE,LONGITUDE\n41.8,-87.6\n"), 0o644))

	_, err := ReadGroupIndices(path)
	assert.ErrorIs(t, err, ErrMissingColumn)
}
