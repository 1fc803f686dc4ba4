// Package ingest persists fetched Fitbit payloads into their category
// tables. Every statement is an upsert, so re-importing a day is
// idempotent.
package ingest

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/fitsync/fitsync/internal/category"
	"github.com/fitsync/fitsync/internal/model"
)

// Sink owns the category insert capabilities over one database handle.
type Sink struct {
	db  *sql.DB
	log zerolog.Logger
}

func NewSink(db *sql.DB, log zerolog.Logger) *Sink {
	return &Sink{db: db, log: log}
}

// Insert dispatches a decoded payload to the category's upsert. The
// credential is passed through for the categories that gate individual
// records on enrollment time.
func (s *Sink) Insert(ctx context.Context, cat category.Category, payload json.RawMessage, date string, cred *model.Credential) error {
	switch cat {
	case category.Sleep:
		return s.insertSleep(ctx, payload, date, cred.UserID)
	case category.Activity:
		return s.insertActivity(ctx, payload, date, cred.UserID)
	case category.HeartSummary:
		return s.insertHeartSummary(ctx, payload, date, cred.UserID)
	case category.HeartIntraday:
		return s.insertHeartIntraday(ctx, payload, date, cred.UserID)
	case category.HRV:
		return s.insertHRV(ctx, payload, date, cred.UserID)
	case category.HRVIntraday:
		return s.insertHRVIntraday(ctx, payload, date, cred.UserID)
	case category.StepsIntraday:
		return s.insertStepsIntraday(ctx, payload, date, cred.UserID)
	case category.ActivityLogs:
		return s.insertActivityLogs(ctx, payload, cred)
	}
	return fmt.Errorf("no inserter for category %v", cat)
}

func decode(payload json.RawMessage, out any) error {
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}
