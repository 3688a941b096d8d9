// Command cluster groups the filtered crash records into DBSCAN clusters and
// writes one CSV per cluster plus one for the unclustered records.
package main

import (
	"context"
	"os"
	"os/signal"

	"crash-clustering/internal/config"
	"crash-clustering/internal/logging"
	"crash-clustering/internal/report"
	"crash-clustering/internal/repository"
	"crash-clustering/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	logging.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var loader service.Loader
	switch cfg.DataSource {
	case "postgres":
		dates, err := cfg.DateRange()
		if err != nil {
			log.Fatal().Err(err).Msg("invalid date range")
		}
		pool, err := pgxpool.New(ctx, cfg.DBSource)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot connect to db")
		}
		defer pool.Close()
		loader = repository.NewPostgresLoader(repository.NewRepository(pool), cfg.BoundingBox(), dates)
	default:
		loader = repository.NewCSVLoader(cfg.InputFile, cfg.TimestampColumn)
	}

	compression, err := repository.ParseCompression(cfg.OutputCompression)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid output compression")
	}
	var chart repository.ChartRenderer
	if cfg.OutputChart {
		chart = report.NewScatterChart("Traffic crash clusters")
	}
	writer := repository.NewResultWriter(cfg.OutputDir, compression, chart)

	svc := service.NewClusterService(
		service.DBSCANFactory(cfg.IndexKind()),
		cfg.ClusterParams(),
		cfg.LongitudeReference,
	)

	summary, err := svc.Run(ctx, loader, writer)
	if err != nil {
		log.Fatal().Err(err).Msg("clustering failed")
	}

	log.Info().
		Str("run_id", summary.RunID).
		Int("npoints", summary.Points).
		Int("nclusters", summary.Clusters).
		Str("output_dir", cfg.OutputDir).
		Msg("done")
}
