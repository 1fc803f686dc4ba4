package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fitsync/fitsync/internal/config"
	"github.com/fitsync/fitsync/internal/fitbit"
	"github.com/fitsync/fitsync/internal/importer"
	"github.com/fitsync/fitsync/internal/ingest"
	"github.com/fitsync/fitsync/internal/platform/logger"
	"github.com/fitsync/fitsync/internal/store"
	"github.com/fitsync/fitsync/internal/store/postgres"
)

var rootCmd = &cobra.Command{
	Use:   "fitsyncctl",
	Short: "Operations CLI for the fitsync import pipeline",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env bundles the wired pipeline for one CLI invocation. Configuration
// comes from the same FITSYNC_ environment the service reads.
type env struct {
	cfg   *config.Config
	db    *sql.DB
	store store.Store
	imp   *importer.Importer
	batch *importer.Batch
}

func newEnv() (*env, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	log := logger.New("fitsyncctl", cfg.LogLevel)
	db, err := postgres.Open(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	st := postgres.NewWithDB(db)
	client := fitbit.New(cfg.APIBaseURL, cfg.ClientID, cfg.ClientSecret, cfg.RedirectURI, cfg.RequestTimeout, log)
	imp := importer.New(client, st, ingest.NewSink(db, log), log)
	batch := importer.NewBatch(imp, st, cfg.Scopes, cfg.DaysPrior, cfg.NumDays, log)
	return &env{cfg: cfg, db: db, store: st, imp: imp, batch: batch}, nil
}

func (e *env) Close() { _ = e.db.Close() }
