package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"crash-clustering/internal/cluster"
	"crash-clustering/internal/models"

	"github.com/spf13/viper"
)

// DateLayout is the format of DATE_START and DATE_END.
const DateLayout = "2006-01-02"

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`
	DBSource      string `mapstructure:"DB_SOURCE"`
	LogLevel      string `mapstructure:"LOG_LEVEL"`

	DataSource      string `mapstructure:"DATA_SOURCE"`
	RawInputFile    string `mapstructure:"RAW_INPUT_FILE"`
	InputFile       string `mapstructure:"INPUT_FILE"`
	OutputDir       string `mapstructure:"OUTPUT_DIR"`
	TimestampColumn string `mapstructure:"TIMESTAMP_COLUMN"`

	BBoxMinLat float64 `mapstructure:"BBOX_MIN_LAT"`
	BBoxMaxLat float64 `mapstructure:"BBOX_MAX_LAT"`
	BBoxMinLon float64 `mapstructure:"BBOX_MIN_LON"`
	BBoxMaxLon float64 `mapstructure:"BBOX_MAX_LON"`
	DateStart  string  `mapstructure:"DATE_START"`
	DateEnd    string  `mapstructure:"DATE_END"`

	Eps                float64 `mapstructure:"DBSCAN_EPS"`
	MinSamples         int     `mapstructure:"DBSCAN_MIN_SAMPLES"`
	LongitudeReference float64 `mapstructure:"LONGITUDE_REFERENCE"`
	NeighborIndex      string  `mapstructure:"NEIGHBOR_INDEX"`

	OutputCompression string `mapstructure:"OUTPUT_COMPRESSION"`
	OutputChart       bool   `mapstructure:"OUTPUT_CHART"`
}

var defaults = map[string]any{
	"SERVER_ADDRESS":      "0.0.0.0:8080",
	"DB_SOURCE":           "",
	"LOG_LEVEL":           "info",
	"DATA_SOURCE":         "csv",
	"RAW_INPUT_FILE":      "inputs/Chicago_Traffic_Crashes_2018_Jul_Aug.csv",
	"INPUT_FILE":          "inputs/Chicago_Traffic_Crashes_2018_Jul_filtered.csv",
	"OUTPUT_DIR":          "results",
	"TIMESTAMP_COLUMN":    "CRASH_DATE",
	"BBOX_MIN_LAT":        41.87202,
	"BBOX_MAX_LAT":        41.89161,
	"BBOX_MIN_LON":        -87.64807,
	"BBOX_MAX_LON":        -87.62069,
	"DATE_START":          "2018-07-01",
	"DATE_END":            "2018-07-31",
	"DBSCAN_EPS":          cluster.DefaultEps,
	"DBSCAN_MIN_SAMPLES":  cluster.DefaultMinSamples,
	"LONGITUDE_REFERENCE": 0.0,
	"NEIGHBOR_INDEX":      string(cluster.KDTreeIndex),
	"OUTPUT_COMPRESSION":  "none",
	"OUTPUT_CHART":        true,
}

// LoadConfig reads configuration from app.env in path, overridden by
// environment variables. A missing file falls back to the defaults.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("config: failed to read config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("config: failed to decode config: %w", err)
	}

	if err = config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

// Validate checks values that cannot be expressed as viper defaults.
func (c Config) Validate() error {
	if err := c.ClusterParams().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := cluster.ParseIndexKind(c.NeighborIndex); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	switch c.DataSource {
	case "csv", "postgres":
	default:
		return fmt.Errorf("config: unknown data source %q", c.DataSource)
	}
	if c.DataSource == "postgres" && c.DBSource == "" {
		return fmt.Errorf("config: DB_SOURCE is required for the postgres data source")
	}

	switch strings.ToLower(c.OutputCompression) {
	case "none", "zstd":
	default:
		return fmt.Errorf("config: unknown output compression %q", c.OutputCompression)
	}

	if b := c.BoundingBox(); b.MinLat >= b.MaxLat || b.MinLon >= b.MaxLon {
		return fmt.Errorf("config: empty bounding box %+v", b)
	}
	if _, err := c.DateRange(); err != nil {
		return err
	}
	return nil
}

// ClusterParams returns the configured DBSCAN parameters.
func (c Config) ClusterParams() cluster.Params {
	return cluster.Params{Eps: c.Eps, MinSamples: c.MinSamples}
}

// IndexKind returns the configured neighbour index.
func (c Config) IndexKind() cluster.IndexKind {
	kind, err := cluster.ParseIndexKind(c.NeighborIndex)
	if err != nil {
		return cluster.KDTreeIndex
	}
	return kind
}

// BoundingBox returns the configured filter window.
func (c Config) BoundingBox() models.BoundingBox {
	return models.BoundingBox{
		MinLat: c.BBoxMinLat,
		MaxLat: c.BBoxMaxLat,
		MinLon: c.BBoxMinLon,
		MaxLon: c.BBoxMaxLon,
	}
}

// DateRange parses the configured filter dates.
func (c Config) DateRange() (models.DateRange, error) {
	start, err := time.Parse(DateLayout, c.DateStart)
	if err != nil {
		return models.DateRange{}, fmt.Errorf("config: invalid DATE_START %q: %w", c.DateStart, err)
	}
	end, err := time.Parse(DateLayout, c.DateEnd)
	if err != nil {
		return models.DateRange{}, fmt.Errorf("config: invalid DATE_END %q: %w", c.DateEnd, err)
	}
	if end.Before(start) {
		return models.DateRange{}, fmt.Errorf("config: DATE_END %s is before DATE_START %s", c.DateEnd, c.DateStart)
	}
	return models.DateRange{Start: start, End: end}, nil
}
