// Package report produces operational reports over imported data: days
// with no recorded sleep for an enrolled user (usually a device not
// worn or not synced) and users whose granted OAuth scopes have
// drifted below the required set. Reports are best-effort; a failure
// here is logged and never aborts the import pipeline.
package report

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/fitsync/fitsync/internal/auth"
	"github.com/fitsync/fitsync/internal/dates"
)

// Gap is one user-day with no sleep summary row.
type Gap struct {
	UserID string
	Date   string
}

// ScopeChecker reports users missing required OAuth scopes.
type ScopeChecker interface {
	MissingScopes(ctx context.Context) ([]auth.ScopeReport, error)
}

type Reporter struct {
	db     *sql.DB
	scopes ScopeChecker
	mailer *Mailer
	log    zerolog.Logger
}

// New builds a Reporter. mailer may be nil, in which case reports are
// only logged.
func New(db *sql.DB, scopes ScopeChecker, mailer *Mailer, log zerolog.Logger) *Reporter {
	return &Reporter{
		db:     db,
		scopes: scopes,
		mailer: mailer,
		log:    log.With().Str("component", "report").Logger(),
	}
}

// CoverageGaps returns every enrolled user-day in the trailing window
// of the given length with no sleep summary row. The window ends
// yesterday; today's data is still syncing and would always read as a
// gap.
func (r *Reporter) CoverageGaps(ctx context.Context, days int) ([]Gap, error) {
	window := dates.Window(time.Now(), 1, days)
	if len(window) == 0 {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `SELECT user_id FROM fitbit_users ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var users []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	covered := make(map[Gap]bool)
	crows, err := r.db.QueryContext(ctx,
		`SELECT user_id, date_queried FROM sleep_summary WHERE date_queried >= $1 AND date_queried <= $2`,
		window[0], window[len(window)-1])
	if err != nil {
		return nil, fmt.Errorf("query sleep coverage: %w", err)
	}
	defer crows.Close()
	for crows.Next() {
		var userID string
		var day time.Time
		if err := crows.Scan(&userID, &day); err != nil {
			return nil, fmt.Errorf("scan coverage row: %w", err)
		}
		covered[Gap{UserID: userID, Date: dates.QueryDate(day)}] = true
	}
	if err := crows.Err(); err != nil {
		return nil, err
	}

	return missingDays(users, window, covered), nil
}

func missingDays(users, window []string, covered map[Gap]bool) []Gap {
	var gaps []Gap
	for _, user := range users {
		for _, day := range window {
			if !covered[Gap{UserID: user, Date: day}] {
				gaps = append(gaps, Gap{UserID: user, Date: day})
			}
		}
	}
	return gaps
}

// RenderCSV serializes gaps with a header row.
func RenderCSV(gaps []Gap) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"user_id", "date"}); err != nil {
		return nil, err
	}
	for _, g := range gaps {
		if err := w.Write([]string{g.UserID, g.Date}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Run produces the coverage and scope reports for the trailing window
// and mails them when anything is amiss and a mailer is configured.
func (r *Reporter) Run(ctx context.Context, days int) error {
	gaps, err := r.CoverageGaps(ctx, days)
	if err != nil {
		return fmt.Errorf("coverage gaps: %w", err)
	}
	scopeReports, err := r.scopes.MissingScopes(ctx)
	if err != nil {
		return fmt.Errorf("scope check: %w", err)
	}
	r.log.Info().
		Int("gaps", len(gaps)).
		Int("users_missing_scopes", len(scopeReports)).
		Int("window_days", days).
		Msg("report computed")
	if len(gaps) == 0 && len(scopeReports) == 0 {
		return nil
	}
	if r.mailer == nil {
		return nil
	}

	body := fmt.Sprintf("Sleep coverage gaps over the last %d day(s): %d\n", days, len(gaps))
	for _, sr := range scopeReports {
		body += fmt.Sprintf("User %s missing scopes: %v\n", sr.UserID, sr.Missing)
	}
	attachment, err := RenderCSV(gaps)
	if err != nil {
		return fmt.Errorf("render csv: %w", err)
	}
	if err := r.mailer.Send(ctx, "fitsync import report", body, attachment); err != nil {
		return fmt.Errorf("send report mail: %w", err)
	}
	return nil
}
