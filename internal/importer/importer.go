// Package importer drives the per-user import workflow: it walks
// (category, date) tasks, fetches through the authenticated client,
// recovers from expired-token failures by refreshing once and retrying
// once, and hands matching payloads to the category inserters. A task's
// failure never propagates past its own (category, date) cell.
package importer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/fitsync/fitsync/internal/category"
	"github.com/fitsync/fitsync/internal/fitbit"
	"github.com/fitsync/fitsync/internal/model"
	"github.com/fitsync/fitsync/internal/store"
)

// API is the slice of the Fitbit client the orchestrator needs.
type API interface {
	FetchDayData(ctx context.Context, cred *model.Credential, cat category.Category, date string) fitbit.FetchResult
	Refresh(ctx context.Context, cred *model.Credential) (*model.TokenGrant, error)
}

// Inserter persists one fetched payload for a category.
type Inserter interface {
	Insert(ctx context.Context, cat category.Category, payload json.RawMessage, date string, cred *model.Credential) error
}

// TaskOutcome is the terminal state of one (user, date, category) task.
type TaskOutcome int

const (
	// TaskDone: payload fetched and persisted.
	TaskDone TaskOutcome = iota
	// TaskSkipped: date not eligible for the category; no network call.
	TaskSkipped
	// TaskMismatch: fetch succeeded but the payload shape did not match
	// the category predicate.
	TaskMismatch
	// TaskInvalid: required identifiers missing; nothing attempted.
	TaskInvalid
	// TaskFailed: upstream/transport/persistence failure, or the refresh
	// protocol failed.
	TaskFailed
)

func (o TaskOutcome) String() string {
	switch o {
	case TaskDone:
		return "done"
	case TaskSkipped:
		return "skipped"
	case TaskMismatch:
		return "mismatch"
	case TaskInvalid:
		return "invalid"
	case TaskFailed:
		return "failed"
	}
	return fmt.Sprintf("TaskOutcome(%d)", int(o))
}

// Importer orchestrates import tasks for one user at a time.
type Importer struct {
	api   API
	store store.Store
	sink  Inserter
	log   zerolog.Logger
}

func New(api API, st store.Store, sink Inserter, log zerolog.Logger) *Importer {
	return &Importer{api: api, store: st, sink: sink, log: log}
}

// ProcessTask runs one (user, date, category) task and returns the
// credential subsequent tasks must use: the input one, or a refreshed
// replacement when the access token had expired and the refresh protocol
// succeeded. Failures are logged and absorbed here; only the credential
// flows back.
func (i *Importer) ProcessTask(ctx context.Context, cred *model.Credential, cat category.Category, date string) (*model.Credential, TaskOutcome) {
	if !cat.DateEligible(cred.FirstAdded, date) {
		i.log.Debug().
			Str("user_id", cred.UserID).Str("category", cat.Name()).Str("date", date).
			Msg("date before enrollment, skipping")
		return cred, TaskSkipped
	}

	res := i.api.FetchDayData(ctx, cred, cat, date)
	switch res.Outcome {
	case fitbit.OutcomeOK:
		return cred, i.insertChecked(ctx, cred, cat, date, res.Payload)

	case fitbit.OutcomeInvalid:
		i.log.Warn().
			Str("source", "fetch: "+cat.Name()).
			Str("user_id", cred.UserID).Str("date", date).
			Str("message", res.Message).
			Msg("invalid request, skipping task")
		return cred, TaskInvalid

	case fitbit.OutcomeExpired:
		return i.refreshAndRetry(ctx, cred, cat, date)

	default: // OutcomeUpstream, OutcomeTransport
		i.log.Error().
			Str("source", "fetch: "+cat.Name()).
			Str("user_id", cred.UserID).Str("date", date).
			Int("status_code", res.StatusCode).
			Str("error_type", res.ErrorType).
			Str("message", res.Message).
			Msg("fetch failed, abandoning task")
		return cred, TaskFailed
	}
}

// refreshAndRetry runs the refresh protocol and, on success, retries the
// original fetch exactly once with the new credential.
func (i *Importer) refreshAndRetry(ctx context.Context, cred *model.Credential, cat category.Category, date string) (*model.Credential, TaskOutcome) {
	i.log.Info().Str("user_id", cred.UserID).Msg("access token expired, refreshing")

	refreshed, err := i.refreshCredential(ctx, cred)
	if err != nil {
		// Remaining tasks keep the stale credential; they will keep
		// reporting expiry and being abandoned.
		i.log.Error().
			Str("source", "refresh").
			Str("user_id", cred.UserID).
			Err(err).
			Msg("token refresh failed, abandoning task")
		return cred, TaskFailed
	}

	retry := i.api.FetchDayData(ctx, refreshed, cat, date)
	if retry.Outcome != fitbit.OutcomeOK {
		i.log.Error().
			Str("source", "fetch-retry: "+cat.Name()).
			Str("user_id", refreshed.UserID).Str("date", date).
			Int("status_code", retry.StatusCode).
			Str("message", retry.Message).
			Msg("retry after refresh failed, abandoning task")
		return refreshed, TaskFailed
	}
	return refreshed, i.insertChecked(ctx, refreshed, cat, date, retry.Payload)
}

// refreshCredential exchanges the refresh token and swaps the stored
// record inside one transaction: upsert the grant, re-read the record so
// store-side fields (first_added) come back, commit. Any failure rolls
// back and abandons the refresh.
func (i *Importer) refreshCredential(ctx context.Context, cred *model.Credential) (*model.Credential, error) {
	grant, err := i.api.Refresh(ctx, cred)
	if err != nil {
		return nil, err
	}

	var updated *model.Credential
	err = i.store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Credentials().Upsert(ctx, grant); err != nil {
			return err
		}
		var err error
		updated, err = tx.Credentials().Get(ctx, grant.UserID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("credential swap for %s: %w", grant.UserID, err)
	}
	return updated, nil
}

func (i *Importer) insertChecked(ctx context.Context, cred *model.Credential, cat category.Category, date string, payload json.RawMessage) TaskOutcome {
	if !cat.Matches(payload) {
		// Routine operation never lands here; a mismatch means the
		// upstream response shape changed.
		i.log.Warn().
			Str("user_id", cred.UserID).Str("category", cat.Name()).Str("date", date).
			Msg("payload shape mismatch, skipping insert")
		return TaskMismatch
	}

	i.log.Info().
		Str("user_id", cred.UserID).Str("category", cat.Name()).Str("date", date).
		Msg("inserting payload")
	if err := i.sink.Insert(ctx, cat, payload, date, cred); err != nil {
		i.log.Error().
			Str("source", "insert: "+cat.Name()).
			Str("user_id", cred.UserID).Str("date", date).
			Err(err).
			Msg("insert failed")
		return TaskFailed
	}
	return TaskDone
}

// ProcessUser walks every (category, date) task for one user, strictly
// sequentially, carrying the current credential forward so one refresh
// serves all later tasks. selector is a category name or category.All.
// Only setup problems (an unknown selector) return an error; task
// failures stay inside their task.
func (i *Importer) ProcessUser(ctx context.Context, cred *model.Credential, datesToImport []string, selector string) (*model.Credential, error) {
	cats := category.Registry()
	if selector != category.All {
		cat, err := category.Parse(selector)
		if err != nil {
			return cred, err
		}
		cats = []category.Category{cat}
	}

	current := cred
	for _, cat := range cats {
		for _, date := range datesToImport {
			current, _ = i.ProcessTask(ctx, current, cat, date)
		}
	}
	return current, nil
}
