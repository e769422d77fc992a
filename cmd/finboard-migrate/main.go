// Command finboard-migrate copies the collections kept in a local data
// directory into a relational database.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"finboard/internal/cli"
	"finboard/internal/log"
	"finboard/internal/services"
	"finboard/internal/storage"
)

var (
	dataDir     = flag.String("data", "", "Local data directory to read (default LOCAL_DATA_DIR)")
	databaseURL = flag.String("database-url", "", "Destination database URL (default DATABASE_URL)")
	initSchema  = flag.Bool("init", true, "Create missing tables before copying")
	dryRun      = flag.Bool("dry-run", false, "Only report what would be copied")
	timeout     = flag.Duration("timeout", 5*time.Minute, "Overall time limit")
)

func main() {
	flag.Parse()
	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg.LogLevel, cfg.LogFormat).WithComponent(log.ComponentMigrator)

	if *dataDir == "" {
		*dataDir = cfg.LocalDataDir
	}
	if *databaseURL == "" {
		*databaseURL = cfg.DatabaseURL
	}
	if *databaseURL == "" && !*dryRun {
		logger.Error("No destination: set -database-url or DATABASE_URL")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	src, err := storage.NewLocalProvider(*dataDir, true)
	if err != nil {
		logger.Error("Failed to open local data", "error", err, "dir", *dataDir)
		os.Exit(1)
	}

	payload, err := services.LoadPayload(ctx, src)
	if err != nil {
		logger.Error("Failed to read local collections", "error", err, "dir", *dataDir)
		os.Exit(1)
	}
	logger.Info("Loaded local collections",
		"dir", *dataDir,
		"transactions", len(payload.Transactions),
		"credit_cards", len(payload.CreditCards),
		"receivables", len(payload.Receivables))

	if *dryRun {
		return
	}

	dest, err := storage.OpenRelational(ctx, *databaseURL)
	if err != nil {
		logger.Error("Failed to connect to destination", "error", err)
		os.Exit(1)
	}
	defer dest.Close()

	if *initSchema {
		if err := dest.InitSchema(ctx); err != nil {
			logger.Error("Failed to initialize schema", "error", err)
			os.Exit(1)
		}
	}

	counts, err := services.NewMigrationService(dest).Migrate(ctx, payload)
	if err != nil {
		logger.Error("Migration failed", "error", err,
			"transactions", counts.Transactions,
			"credit_cards", counts.CreditCards,
			"receivables", counts.Receivables)
		dest.Close()
		os.Exit(1)
	}

	logger.Info("Migration complete",
		log.FieldOperation, log.OpMigrate,
		"dialect", dest.Dialect(),
		"transactions", counts.Transactions,
		"credit_cards", counts.CreditCards,
		"receivables", counts.Receivables)
}
