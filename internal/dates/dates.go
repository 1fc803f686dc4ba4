// Package dates generates the YYYY-MM-DD query-date sequences the
// importer walks.
package dates

import (
	"errors"
	"fmt"
	"time"
)

const layout = "2006-01-02"

// MaxRangeDays caps an on-demand import range.
const MaxRangeDays = 31

var (
	ErrEndBeforeStart = errors.New("end date is before start date")
	ErrSameDay        = errors.New("start and end dates must be at least one day apart")
	ErrRangeTooLarge  = fmt.Errorf("date range exceeds %d days", MaxRangeDays)
)

// QueryDate formats t as a UTC YYYY-MM-DD query date.
func QueryDate(t time.Time) string {
	return t.UTC().Format(layout)
}

// Yesterday returns the query date for the day before now.
func Yesterday(now time.Time) string {
	return QueryDate(now.Add(-24 * time.Hour))
}

// GenRange produces the inclusive sequence of query dates from start to
// end. An empty end yields the single start date. When limited, ranges
// longer than MaxRangeDays are rejected.
func GenRange(start, end string, limited bool) ([]string, error) {
	sd, err := time.Parse(layout, start)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	if end == "" {
		return []string{QueryDate(sd)}, nil
	}
	ed, err := time.Parse(layout, end)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	if ed.Before(sd) {
		return nil, ErrEndBeforeStart
	}
	diff := int(ed.Sub(sd).Hours() / 24)
	if diff < 1 {
		// An explicit end equal to start is almost always a typo for a
		// single-day import, which takes no end at all.
		return nil, ErrSameDay
	}
	if limited && diff > MaxRangeDays {
		return nil, ErrRangeTooLarge
	}

	out := make([]string, 0, diff+1)
	for d := sd; !d.After(ed); d = d.AddDate(0, 0, 1) {
		out = append(out, QueryDate(d))
	}
	return out, nil
}

// Window produces the rolling window used by the scheduled import:
// numDays consecutive dates ending daysPrior days before now.
func Window(now time.Time, daysPrior, numDays int) []string {
	if numDays < 1 {
		return nil
	}
	end := now.UTC().AddDate(0, 0, -daysPrior)
	out := make([]string, 0, numDays)
	for i := numDays - 1; i >= 0; i-- {
		out = append(out, QueryDate(end.AddDate(0, 0, -i)))
	}
	return out
}
