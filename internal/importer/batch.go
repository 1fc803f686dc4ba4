package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/fitsync/fitsync/internal/auth"
	"github.com/fitsync/fitsync/internal/category"
	"github.com/fitsync/fitsync/internal/dates"
	"github.com/fitsync/fitsync/internal/store"
)

// Batch is the scheduled entrypoint: it enumerates every enrolled user
// and imports a rolling date window for each.
type Batch struct {
	importer       *Importer
	store          store.Store
	requiredScopes string
	daysPrior      int
	numDays        int
	log            zerolog.Logger
}

func NewBatch(imp *Importer, st store.Store, requiredScopes string, daysPrior, numDays int, log zerolog.Logger) *Batch {
	return &Batch{
		importer:       imp,
		store:          st,
		requiredScopes: requiredScopes,
		daysPrior:      daysPrior,
		numDays:        numDays,
		log:            log,
	}
}

// RunImport processes all users sequentially. One user's failure does
// not touch another's; a panic inside a user's task sequence is
// contained at this boundary.
func (b *Batch) RunImport(ctx context.Context) error {
	creds, err := b.store.Credentials().List(ctx)
	if err != nil {
		return fmt.Errorf("list credentials: %w", err)
	}
	if len(creds) == 0 {
		b.log.Info().Msg("no enrolled users, nothing to import")
		return nil
	}

	window := dates.Window(time.Now(), b.daysPrior, b.numDays)
	b.log.Info().
		Int("users", len(creds)).
		Strs("dates", window).
		Msg("starting scheduled import")

	for _, cred := range creds {
		b.processUserIsolated(ctx, cred.UserID, func() error {
			_, err := b.importer.ProcessUser(ctx, cred, window, category.All)
			return err
		})
	}
	return nil
}

func (b *Batch) processUserIsolated(ctx context.Context, userID string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().
				Str("user_id", userID).
				Interface("panic", r).
				Msg("user import panicked, continuing with next user")
		}
	}()
	if err := fn(); err != nil {
		b.log.Error().Str("user_id", userID).Err(err).Msg("user import failed")
	}
}

// MissingScopes reports every user whose granted scopes no longer cover
// the application's required set, for out-of-band alerting.
func (b *Batch) MissingScopes(ctx context.Context) ([]auth.ScopeReport, error) {
	creds, err := b.store.Credentials().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	var out []auth.ScopeReport
	for _, cred := range creds {
		if report := auth.ValidateScope(b.requiredScopes, cred); !report.OK() {
			b.log.Warn().
				Str("user_id", report.UserID).
				Strs("missing", report.Missing).
				Msg("user missing required scopes")
			out = append(out, report)
		}
	}
	return out, nil
}
