package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"crash-clustering/internal/group"
	"crash-clustering/internal/models"
)

// Output file names.
const (
	NoiseFileName   = "unclustered.csv"
	ChartFileName   = "clusters.html"
	clusterNameForm = "cluster_%02d.csv"
)

// ClusterFileName is the output name of the cluster with the given label.
func ClusterFileName(label models.Label) string {
	return fmt.Sprintf(clusterNameForm, int(label))
}

// ChartRenderer draws a partition of a dataset.
type ChartRenderer interface {
	Render(w io.Writer, dataset *models.Dataset, partition *group.Partition) error
}

// ResultWriter persists a partition as one CSV file for the noise records and
// one per cluster. Every file starts with an INDEX column holding the
// record's position in the input dataset.
type ResultWriter struct {
	dir         string
	compression Compression
	chart       ChartRenderer
}

// NewResultWriter creates a writer into dir. chart may be nil.
func NewResultWriter(dir string, compression Compression, chart ChartRenderer) *ResultWriter {
	return &ResultWriter{dir: dir, compression: compression, chart: chart}
}

// Write stores the noise group, then each cluster in ascending label order.
// It returns the paths written.
func (w *ResultWriter) Write(ctx context.Context, dataset *models.Dataset, partition *group.Partition) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("repository: failed to create output dir: %w", err)
	}

	var written []string

	path := filepath.Join(w.dir, NoiseFileName+w.compression.Extension())
	if err := w.writeGroup(path, dataset, partition.Noise); err != nil {
		return written, err
	}
	written = append(written, path)

	for _, label := range partition.Labels() {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		path := filepath.Join(w.dir, ClusterFileName(label)+w.compression.Extension())
		if err := w.writeGroup(path, dataset, partition.Clusters[label]); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if w.chart != nil {
		path := filepath.Join(w.dir, ChartFileName)
		if err := w.writeChart(path, dataset, partition); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	return written, nil
}

func (w *ResultWriter) writeGroup(path string, dataset *models.Dataset, indices []int) (err error) {
	wc, err := createFile(path, w.compression)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := wc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("repository: failed to close %s: %w", path, cerr)
		}
	}()

	cw := csv.NewWriter(wc)
	if err := cw.Write(append([]string{IndexColumn}, dataset.Header...)); err != nil {
		return fmt.Errorf("repository: failed to write header: %w", err)
	}

	row := make([]string, 0, len(dataset.Header)+1)
	for _, idx := range indices {
		row = append(row[:0], strconv.Itoa(idx))
		row = append(row, dataset.Records[idx].Fields...)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("repository: failed to write record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("repository: failed to flush %s: %w", path, err)
	}
	return nil
}

func (w *ResultWriter) writeChart(path string, dataset *models.Dataset, partition *group.Partition) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("repository: failed to create chart: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("repository: failed to close chart: %w", cerr)
		}
	}()

	if err := w.chart.Render(file, dataset, partition); err != nil {
		return fmt.Errorf("repository: failed to render chart: %w", err)
	}
	return nil
}

// ReadGroupIndices reads back the INDEX column of a file written by
// ResultWriter, in file order.
func ReadGroupIndices(path string) ([]int, error) {
	rc, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	reader := csv.NewReader(rc)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("repository: failed to read header: %w", err)
	}
	idxCol, err := columnIndex(header, IndexColumn)
	if err != nil {
		return nil, err
	}

	indices := []int{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("repository: failed to read record: %w", err)
		}
		idx, err := strconv.Atoi(row[idxCol])
		if err != nil {
			return nil, fmt.Errorf("repository: invalid index %q", row[idxCol])
		}
		indices = append(indices, idx)
	}
	return indices, nil
}
