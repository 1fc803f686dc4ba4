package report

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fitsync/fitsync/internal/category"
	"github.com/fitsync/fitsync/internal/dates"
	"github.com/fitsync/fitsync/internal/ingest"
	"github.com/fitsync/fitsync/internal/model"
	"github.com/fitsync/fitsync/internal/store/postgres"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("FITSYNC_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("FITSYNC_POSTGRES_DSN not set; skipping report integration test")
	}
	db, err := postgres.Open(dsn)
	if err != nil {
		t.Fatalf("postgres open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := postgres.EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return db
}

// Runs the coverage query against the real schema: a freshly enrolled
// user reads as a gap for yesterday until a sleep summary lands for
// that day.
func TestCoverageGaps_AgainstSchema(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	st := postgres.NewWithDB(db)

	userID := "u-" + uuid.New().String()
	grant := &model.TokenGrant{
		UserID:       userID,
		AccessToken:  "tok",
		RefreshToken: "rt",
		ExpiresIn:    28800,
		TokenType:    "Bearer",
		Scope:        "sleep",
	}
	if err := st.Credentials().Upsert(ctx, grant); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	r := New(db, nil, nil, zerolog.Nop())

	hasGap := func() bool {
		gaps, err := r.CoverageGaps(ctx, 1)
		if err != nil {
			t.Fatalf("CoverageGaps: %v", err)
		}
		yesterday := dates.Yesterday(time.Now())
		for _, g := range gaps {
			if g.UserID == userID && g.Date == yesterday {
				return true
			}
		}
		return false
	}

	if !hasGap() {
		t.Fatal("newly enrolled user with no data must read as a coverage gap")
	}

	sink := ingest.NewSink(db, zerolog.Nop())
	cred := &model.Credential{UserID: userID, FirstAdded: time.Now().UTC().AddDate(0, 0, -30)}
	payload := []byte(`{"sleep":[],"summary":{"totalMinutesAsleep":420,"totalSleepRecords":1,"totalTimeInBed":460}}`)
	if err := sink.Insert(ctx, category.Sleep, payload, dates.Yesterday(time.Now()), cred); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if hasGap() {
		t.Fatal("a sleep summary for yesterday must close the coverage gap")
	}
}
