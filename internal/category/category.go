// Package category defines the closed set of Fitbit data categories the
// importer knows how to fetch and persist. Each category carries its
// endpoint template, a structural shape predicate for the untyped API
// response, and a date-eligibility policy. Adding a category means
// extending the enum and every switch below, checked at compile time.
package category

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Category identifies one logical Fitbit data type.
type Category int

const (
	Sleep Category = iota
	Activity
	HeartSummary
	HeartIntraday
	HRV
	HRVIntraday
	StepsIntraday
	ActivityLogs
)

// All is the reserved meta-name meaning "every category". It is never a
// member of the registry.
const All = "all"

// ErrUnknown is returned by Parse for names outside the registry.
var ErrUnknown = errors.New("unknown category")

// Registry returns every category in registry order.
func Registry() []Category {
	return []Category{
		Sleep,
		Activity,
		HeartSummary,
		HeartIntraday,
		HRV,
		HRVIntraday,
		StepsIntraday,
		ActivityLogs,
	}
}

// Parse resolves an external category name to its Category.
func Parse(name string) (Category, error) {
	for _, c := range Registry() {
		if c.Name() == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknown, name)
}

// Name is the external vocabulary used by the CLI and configuration.
func (c Category) Name() string {
	switch c {
	case Sleep:
		return "getSleep"
	case Activity:
		return "getActivity"
	case HeartSummary:
		return "getHRSummary"
	case HeartIntraday:
		return "getHRIntraday"
	case HRV:
		return "getHRV"
	case HRVIntraday:
		return "getHRVIntraday"
	case StepsIntraday:
		return "getStepsIntraday"
	case ActivityLogs:
		return "getActivityLogs"
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

func (c Category) String() string { return c.Name() }

// Path builds the upstream resource path for one user and one date.
// Pure: no network or state access.
func (c Category) Path(userID, date string) string {
	switch c {
	case Sleep:
		return fmt.Sprintf("/1.2/user/%s/sleep/date/%s.json", userID, date)
	case Activity:
		return fmt.Sprintf("/1/user/%s/activities/date/%s.json", userID, date)
	case HeartSummary:
		return fmt.Sprintf("/1/user/%s/activities/heart/date/%s/1d.json", userID, date)
	case HeartIntraday:
		// Detail level: 1sec | 1min | 5min | 15min. Currently 5min.
		return fmt.Sprintf("/1/user/%s/activities/heart/date/%s/1d/5min.json", userID, date)
	case HRV:
		return fmt.Sprintf("/1/user/%s/hrv/date/%s.json", userID, date)
	case HRVIntraday:
		return fmt.Sprintf("/1/user/%s/hrv/date/%s/all.json", userID, date)
	case StepsIntraday:
		return fmt.Sprintf("/1/user/%s/activities/steps/date/%s/1d/5min.json", userID, date)
	case ActivityLogs:
		return fmt.Sprintf("/1/user/%s/activities/list.json?afterDate=%s&sort=asc&offset=0&limit=100", userID, date)
	}
	return ""
}

// Matches reports whether a decoded response body has the structural
// shape of this category. Fitbit responses carry no type discriminator,
// so key presence is the only available signal.
func (c Category) Matches(payload json.RawMessage) bool {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(payload, &top); err != nil {
		return false
	}
	has := func(key string) bool {
		_, ok := top[key]
		return ok
	}
	switch c {
	case Sleep:
		return has("sleep")
	case Activity:
		return has("activities")
	case HeartSummary:
		return has("activities-heart")
	case HeartIntraday:
		return has("activities-heart-intraday")
	case HRV:
		return has("hrv")
	case HRVIntraday:
		// The summary endpoint also answers with an "hrv" key; only the
		// intraday variant nests per-minute samples.
		if !has("hrv") {
			return false
		}
		var days []map[string]json.RawMessage
		if err := json.Unmarshal(top["hrv"], &days); err != nil || len(days) == 0 {
			return false
		}
		_, ok := days[0]["minutes"]
		return ok
	case StepsIntraday:
		return has("activities-steps-intraday")
	case ActivityLogs:
		return has("activities") && has("pagination")
	}
	return false
}

// DateEligible reports whether data for the given query date should be
// imported for a user enrolled at firstAdded. The activity log list is
// keyed on afterDate and would replay pre-enrollment history; everything
// else is day-scoped and always eligible.
func (c Category) DateEligible(firstAdded time.Time, date string) bool {
	switch c {
	case Sleep, Activity, HeartSummary, HeartIntraday, HRV, HRVIntraday, StepsIntraday:
		return true
	case ActivityLogs:
		d, err := time.Parse("2006-01-02", date)
		if err != nil {
			return false
		}
		enrolled := firstAdded.UTC().Truncate(24 * time.Hour)
		return !d.Before(enrolled)
	}
	return false
}
