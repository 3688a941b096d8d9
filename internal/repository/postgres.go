package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"crash-clustering/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Columns of datasets loaded from the crashes table.
var crashHeader = []string{"ID", "CRASH_RECORD_ID", "CRASH_DATE", LatitudeColumn, LongitudeColumn}

// CrashRecordIDColumn identifies a crash in the Chicago portal export.
const CrashRecordIDColumn = "CRASH_RECORD_ID"

const createCrashesTable = `
	CREATE EXTENSION IF NOT EXISTS postgis;

	CREATE TABLE IF NOT EXISTS crashes (
		id BIGSERIAL PRIMARY KEY,
		crash_record_id VARCHAR(255),
		crash_date TIMESTAMP NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		geom GEOMETRY(POINT, 4326) GENERATED ALWAYS AS (
			ST_SetSRID(ST_MakePoint(longitude, latitude), 4326)
		) STORED
	);
	CREATE INDEX IF NOT EXISTS crashes_geom_idx ON crashes USING GIST (geom);
	CREATE INDEX IF NOT EXISTS crashes_crash_date_idx ON crashes (crash_date);
`

// Repository reads and writes crash records in PostgreSQL/PostGIS.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateSchema creates the crashes table and its indexes if missing.
func (r *Repository) CreateSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createCrashesTable); err != nil {
		return fmt.Errorf("repository: failed to create schema: %w", err)
	}
	return nil
}

// InsertCrashes bulk loads the dataset with COPY. The dataset must carry
// timestamps; CRASH_RECORD_ID is copied when the header has it.
func (r *Repository) InsertCrashes(ctx context.Context, dataset *models.Dataset) (int64, error) {
	idCol, err := columnIndex(dataset.Header, CrashRecordIDColumn)
	if err != nil {
		idCol = -1
	}

	n, err := r.db.CopyFrom(
		ctx,
		pgx.Identifier{"crashes"},
		[]string{"crash_record_id", "crash_date", "latitude", "longitude"},
		pgx.CopyFromSlice(len(dataset.Records), func(i int) ([]any, error) {
			rec := dataset.Records[i]
			var recordID any
			if idCol >= 0 {
				recordID = rec.Fields[idCol]
			}
			return []any{recordID, rec.Timestamp, rec.Point.Latitude, rec.Point.Longitude}, nil
		}),
	)
	if err != nil {
		return n, fmt.Errorf("repository: failed to copy crashes: %w", err)
	}
	return n, nil
}

// CountCrashes returns the number of stored crashes.
func (r *Repository) CountCrashes(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM crashes").Scan(&count); err != nil {
		return 0, fmt.Errorf("repository: failed to count crashes: %w", err)
	}
	return count, nil
}

// FindCrashes returns the crashes strictly inside box and within dates, in
// insertion order.
func (r *Repository) FindCrashes(ctx context.Context, box models.BoundingBox, dates models.DateRange) (*models.Dataset, error) {
	sql := `
		SELECT
			id,
			COALESCE(crash_record_id, ''),
			crash_date,
			latitude,
			longitude
		FROM crashes
		WHERE geom && ST_MakeEnvelope($3, $1, $4, $2, 4326)
			AND latitude > $1 AND latitude < $2
			AND longitude > $3 AND longitude < $4
			AND crash_date >= $5 AND crash_date < $6
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, sql,
		box.MinLat, box.MaxLat, box.MinLon, box.MaxLon,
		dates.Start, dates.End.AddDate(0, 0, 1),
	)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute crash query: %w", err)
	}
	defer rows.Close()

	dataset := &models.Dataset{Header: append([]string(nil), crashHeader...), Records: []models.Record{}}
	for rows.Next() {
		var (
			id       int64
			recordID string
			ts       time.Time
			lat, lon float64
		)
		if err := rows.Scan(&id, &recordID, &ts, &lat, &lon); err != nil {
			return nil, fmt.Errorf("repository: failed to scan crash: %w", err)
		}
		dataset.Records = append(dataset.Records, models.Record{
			Fields: []string{
				strconv.FormatInt(id, 10),
				recordID,
				ts.Format(time.RFC3339),
				strconv.FormatFloat(lat, 'f', -1, 64),
				strconv.FormatFloat(lon, 'f', -1, 64),
			},
			Point:     models.GeoPoint{Latitude: lat, Longitude: lon},
			Timestamp: ts,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return dataset, nil
}

// PostgresLoader adapts FindCrashes to a fixed box and date range.
type PostgresLoader struct {
	repo  *Repository
	box   models.BoundingBox
	dates models.DateRange
}

// NewPostgresLoader creates a loader over repo.
func NewPostgresLoader(repo *Repository, box models.BoundingBox, dates models.DateRange) *PostgresLoader {
	return &PostgresLoader{repo: repo, box: box, dates: dates}
}

// Load runs the filtered query.
func (l *PostgresLoader) Load(ctx context.Context) (*models.Dataset, error) {
	return l.repo.FindCrashes(ctx, l.box, l.dates)
}
