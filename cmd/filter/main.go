// Command filter keeps the raw crash records inside the configured bounding
// box and date range and writes them to the clustering input file.
package main

import (
	"context"
	"os"
	"os/signal"

	"crash-clustering/internal/config"
	"crash-clustering/internal/logging"
	"crash-clustering/internal/repository"
	"crash-clustering/internal/service"

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

	dates, err := cfg.DateRange()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid date range")
	}

	loader := repository.NewCSVLoader(cfg.RawInputFile, cfg.TimestampColumn).SkipMissingLocation()
	sink := repository.NewCSVSink(cfg.InputFile)

	n, err := service.NewFilterService(cfg.BoundingBox(), dates).Run(ctx, loader, sink)
	if err != nil {
		log.Fatal().Err(err).Msg("filtering failed")
	}

	log.Info().Int("nrecords", n).Str("output", cfg.InputFile).Msg("done")
}
