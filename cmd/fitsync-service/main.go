package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fitsync/fitsync/internal/api"
	"github.com/fitsync/fitsync/internal/config"
	"github.com/fitsync/fitsync/internal/fitbit"
	"github.com/fitsync/fitsync/internal/importer"
	"github.com/fitsync/fitsync/internal/ingest"
	"github.com/fitsync/fitsync/internal/platform/logger"
	"github.com/fitsync/fitsync/internal/report"
	"github.com/fitsync/fitsync/internal/scheduler"
	"github.com/fitsync/fitsync/internal/store/postgres"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		l := logger.New("fitsync-service", "")
		l.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log := logger.New("fitsync-service", cfg.LogLevel)

	log.Info().
		Int("http_port", cfg.HTTPPort).
		Str("cron_import", cfg.CronImport).
		Int("days_prior", cfg.DaysPrior).
		Int("num_days", cfg.NumDays).
		Msg("fitsync service starting")

	ctx := context.Background()

	// -------- Storage layer -----------------
	db, err := postgres.Open(cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("Postgres unavailable")
	}
	defer db.Close()
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Schema migration failed")
	}
	st := postgres.NewWithDB(db)

	// -------- Fitbit client & pipeline ------
	client := fitbit.New(cfg.APIBaseURL, cfg.ClientID, cfg.ClientSecret, cfg.RedirectURI, cfg.RequestTimeout, log)
	sink := ingest.NewSink(db, log)
	imp := importer.New(client, st, sink, log)
	batch := importer.NewBatch(imp, st, cfg.Scopes, cfg.DaysPrior, cfg.NumDays, log)

	var mailer *report.Mailer
	if cfg.SMTPHost != "" && cfg.AlertTo != "" {
		mailer = report.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPUser, cfg.AlertTo)
	}
	reporter := report.New(db, batch, mailer, log)

	// -------- Scheduler ---------------------
	sched := scheduler.New(log)
	if err := sched.Add(scheduler.Job{Name: "import", Spec: cfg.CronImport, Run: batch.RunImport}); err != nil {
		log.Fatal().Err(err).Msg("Invalid import cron expression")
	}
	if cfg.CronReport != "" {
		if err := sched.Add(scheduler.Job{Name: "report", Spec: cfg.CronReport, Run: func(ctx context.Context) error {
			return reporter.Run(ctx, cfg.NumDays)
		}}); err != nil {
			log.Fatal().Err(err).Msg("Invalid report cron expression")
		}
	}
	sched.Start()

	// -------- Router & Server --------------
	oauth := api.NewOAuthHandler(st, client, cfg.AuthorizeBaseURL, cfg.ClientID, cfg.Scopes, cfg.RedirectURI, log)
	router := api.NewRouter(oauth, api.NewHealthHandler(st), log)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")
	sched.Stop()
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}
