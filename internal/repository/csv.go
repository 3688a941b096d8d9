package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"crash-clustering/internal/models"
)

// Column names every crash file must carry.
const (
	LatitudeColumn  = "LATITUDE"
	LongitudeColumn = "LONGITUDE"
	IndexColumn     = "INDEX"
)

// ErrMissingColumn is returned when a required column is absent from the header.
var ErrMissingColumn = errors.New("repository: missing required column")

// timestampLayouts are tried in order when parsing the timestamp column.
var timestampLayouts = []string{
	"01/02/2006 03:04:05 PM",
	"2006-01-02T15:04:05.000",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// CSVLoader reads crash records from a CSV file, optionally zstd compressed.
type CSVLoader struct {
	path            string
	timestampColumn string
	skipMissing     bool
}

// NewCSVLoader creates a loader for path. An empty timestampColumn disables
// timestamp parsing.
func NewCSVLoader(path, timestampColumn string) *CSVLoader {
	return &CSVLoader{path: path, timestampColumn: timestampColumn}
}

// SkipMissingLocation makes the loader drop rows whose latitude or longitude
// is blank instead of failing on them.
func (l *CSVLoader) SkipMissingLocation() *CSVLoader {
	l.skipMissing = true
	return l
}

// Load reads the whole file.
func (l *CSVLoader) Load(ctx context.Context) (*models.Dataset, error) {
	rc, err := openFile(l.path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return readDataset(ctx, rc, l.timestampColumn, l.skipMissing)
}

// ReadDataset parses crash records from r. Every row must carry a parsable
// latitude and longitude, and a parsable timestamp when timestampColumn is set.
func ReadDataset(ctx context.Context, r io.Reader, timestampColumn string) (*models.Dataset, error) {
	return readDataset(ctx, r, timestampColumn, false)
}

func readDataset(ctx context.Context, r io.Reader, timestampColumn string, skipMissing bool) (*models.Dataset, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("repository: empty input: %w", err)
		}
		return nil, fmt.Errorf("repository: failed to read header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	reader.FieldsPerRecord = len(header)

	latIdx, err := columnIndex(header, LatitudeColumn)
	if err != nil {
		return nil, err
	}
	lonIdx, err := columnIndex(header, LongitudeColumn)
	if err != nil {
		return nil, err
	}
	tsIdx := -1
	if timestampColumn != "" {
		if tsIdx, err = columnIndex(header, timestampColumn); err != nil {
			return nil, err
		}
	}

	dataset := &models.Dataset{Header: header, Records: []models.Record{}}
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("repository: failed to read record: %w", err)
		}

		if skipMissing && (strings.TrimSpace(row[latIdx]) == "" || strings.TrimSpace(row[lonIdx]) == "") {
			continue
		}

		lat, err := strconv.ParseFloat(strings.TrimSpace(row[latIdx]), 64)
		if err != nil || !isFinite(lat) {
			return nil, fmt.Errorf("repository: line %d: invalid latitude %q", line, row[latIdx])
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(row[lonIdx]), 64)
		if err != nil || !isFinite(lon) {
			return nil, fmt.Errorf("repository: line %d: invalid longitude %q", line, row[lonIdx])
		}

		record := models.Record{
			Fields: row,
			Point:  models.GeoPoint{Latitude: lat, Longitude: lon},
		}
		if tsIdx >= 0 {
			if record.Timestamp, err = ParseTimestamp(row[tsIdx]); err != nil {
				return nil, fmt.Errorf("repository: line %d: %w", line, err)
			}
		}
		dataset.Records = append(dataset.Records, record)
	}

	return dataset, nil
}

// ParseTimestamp accepts the Chicago portal format and common ISO layouts.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// WriteDataset writes the header and every record to path.
func WriteDataset(path string, dataset *models.Dataset, compression Compression) error {
	wc, err := createFile(path, compression)
	if err != nil {
		return err
	}

	w := csv.NewWriter(wc)
	if err := w.Write(dataset.Header); err != nil {
		wc.Close()
		return fmt.Errorf("repository: failed to write header: %w", err)
	}
	for _, r := range dataset.Records {
		if err := w.Write(r.Fields); err != nil {
			wc.Close()
			return fmt.Errorf("repository: failed to write record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		wc.Close()
		return fmt.Errorf("repository: failed to flush %s: %w", path, err)
	}
	return wc.Close()
}

// ParseFloat accepts NaN and Inf spellings, which no coordinate can hold.
func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func columnIndex(header []string, name string) (int, error) {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrMissingColumn, name)
}

// CSVSink saves a dataset to a single file, zstd compressed when the path
// ends in .zst.
type CSVSink struct {
	path string
}

// NewCSVSink creates a sink writing to path.
func NewCSVSink(path string) *CSVSink {
	return &CSVSink{path: path}
}

// Save writes the dataset, creating the parent directory if needed.
func (s *CSVSink) Save(ctx context.Context, dataset *models.Dataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("repository: failed to create dir: %w", err)
	}

	compression := NoCompression
	if strings.HasSuffix(s.path, ZstdExtension) {
		compression = ZstdCompression
	}
	return WriteDataset(s.path, dataset, compression)
}
