// Package scheduler runs recurring jobs on cron expressions. All
// schedules are evaluated in UTC so a deployment's host timezone never
// shifts the import window.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job is a named unit of recurring work.
type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context) error
}

// Scheduler wraps a cron runner with per-job logging and panic
// containment. A panicking job is logged and does not take down the
// process or the other schedules.
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLocation(time.UTC)),
		log:  log.With().Str("component", "scheduler").Logger(),
	}
}

// Add registers a job. The spec uses standard five-field cron syntax
// plus the descriptors cron/v3 accepts (@daily, @every 6h, ...).
func (s *Scheduler) Add(job Job) error {
	log := s.log.With().Str("job", job.Name).Str("spec", job.Spec).Logger()
	_, err := s.cron.AddFunc(job.Spec, func() {
		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Msg("job panicked")
			}
		}()
		if err := job.Run(context.Background()); err != nil {
			log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("job failed")
			return
		}
		log.Info().Dur("elapsed", time.Since(start)).Msg("job completed")
	})
	if err != nil {
		return err
	}
	log.Info().Msg("job scheduled")
	return nil
}

// Start launches the cron loop in its own goroutine.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts scheduling and returns once running jobs have finished.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
