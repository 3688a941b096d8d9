package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"crash-clustering/internal/config"
	"crash-clustering/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	file := flag.String("file", "", "Path to the crash CSV file to import")
	flag.Parse()

	if *file == "" {
		fmt.Println("Error: --file flag is required")
		os.Exit(1)
	}

	fmt.Printf("Starting import from file: %s\n", *file)

	// Load config
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dataset, err := repository.NewCSVLoader(*file, cfg.TimestampColumn).SkipMissingLocation().Load(ctx)
	if err != nil {
		fmt.Printf("Error parsing CSV: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Parsed %d records\n", len(dataset.Records))

	// Connect to DB
	pool, err := pgxpool.New(ctx, cfg.DBSource)
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	repo := repository.NewRepository(pool)

	// Ensure table exists
	if err := repo.CreateSchema(ctx); err != nil {
		fmt.Printf("Error creating table: %v\n", err)
		os.Exit(1)
	}

	before, err := repo.CountCrashes(ctx)
	if err != nil {
		fmt.Printf("Error counting crashes: %v\n", err)
		os.Exit(1)
	}

	// Insert records
	n, err := repo.InsertCrashes(ctx, dataset)
	if err != nil {
		fmt.Printf("Error inserting records: %v\n", err)
		os.Exit(1)
	}

	// Verify data
	after, err := repo.CountCrashes(ctx)
	if err != nil {
		fmt.Printf("Error counting crashes: %v\n", err)
		os.Exit(1)
	}
	if after-before != int(n) {
		fmt.Printf("Error verifying import: expected %d new rows, got %d\n", n, after-before)
		os.Exit(1)
	}

	fmt.Printf("Successfully imported %d records\n", n)
}
