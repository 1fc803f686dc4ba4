package auth

import (
	"strings"

	"github.com/fitsync/fitsync/internal/model"
)

// ScopeReport is the outcome of checking one user's granted scopes
// against the application's required set.
type ScopeReport struct {
	UserID  string
	Missing []string
}

// OK reports whether every required scope was granted.
func (r ScopeReport) OK() bool { return len(r.Missing) == 0 }

// SplitScopes splits a space-delimited scope string, dropping empties.
func SplitScopes(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Fields(s) {
		out = append(out, strings.TrimSpace(part))
	}
	return out
}

// ValidateScope compares the scopes granted on a credential against the
// required space-delimited set.
func ValidateScope(required string, cred *model.Credential) ScopeReport {
	report := ScopeReport{UserID: "user_id_not_found"}
	granted := map[string]bool{}
	if cred != nil {
		report.UserID = cred.UserID
		for _, s := range SplitScopes(cred.Scope) {
			granted[s] = true
		}
	}
	for _, want := range SplitScopes(required) {
		if !granted[want] {
			report.Missing = append(report.Missing, want)
		}
	}
	return report
}
