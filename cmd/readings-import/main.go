// Command readings-import loads a readings CSV into the SQLite store used by
// the gRPC server's sqlite backend. Rows with the same timestamp and type are
// replaced.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dachrisch/energy.consumption-sub001/internal/config"
	applog "github.com/dachrisch/energy.consumption-sub001/internal/log"
	"github.com/dachrisch/energy.consumption-sub001/internal/repo/csvrepo"
	"github.com/dachrisch/energy.consumption-sub001/internal/repo/sqliterepo"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	var (
		cfgPath = flag.String("config", os.Getenv("CONFIG_PATH"), "path to YAML config")
		csvPath = flag.String("csv", "", "readings CSV to import (overrides config)")
		dbPath  = flag.String("db", "", "SQLite database path (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *csvPath != "" {
		cfg.CSVPath = *csvPath
	}
	if *dbPath != "" {
		cfg.SQLitePath = *dbPath
	}

	logger := applog.WithComponent(
		applog.New(applog.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}),
		applog.ComponentRepo,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg.CSVPath, cfg.SQLitePath, logger); err != nil {
		logger.Error("import failed", applog.FieldError, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, csvPath, dbPath string, logger *slog.Logger) error {
	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("open csv %q: %w", csvPath, err)
	}
	defer f.Close()

	readings, parseErr := csvrepo.ParseReadingsCSV(f)
	if parseErr != nil {
		if len(readings) == 0 {
			return fmt.Errorf("parse csv %q: %w", csvPath, parseErr)
		}
		logger.Warn("skipped invalid rows", "path", csvPath, applog.FieldError, parseErr)
	}

	store, err := sqliterepo.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Upsert(ctx, readings...); err != nil {
		return err
	}
	logger.Info("imported readings", "count", len(readings), "db", dbPath)
	return nil
}
