package report

import (
	"strings"
	"testing"
)

func TestMissingDays(t *testing.T) {
	users := []string{"42", "77"}
	window := []string{"2024-01-10", "2024-01-11"}
	covered := map[Gap]bool{
		{UserID: "42", Date: "2024-01-10"}: true,
		{UserID: "42", Date: "2024-01-11"}: true,
		{UserID: "77", Date: "2024-01-11"}: true,
	}
	gaps := missingDays(users, window, covered)
	if len(gaps) != 1 {
		t.Fatalf("gaps = %+v, want exactly the uncovered user-day", gaps)
	}
	if gaps[0] != (Gap{UserID: "77", Date: "2024-01-10"}) {
		t.Fatalf("gap = %+v", gaps[0])
	}
}

func TestMissingDaysFullCoverage(t *testing.T) {
	covered := map[Gap]bool{{UserID: "42", Date: "2024-01-10"}: true}
	if gaps := missingDays([]string{"42"}, []string{"2024-01-10"}, covered); gaps != nil {
		t.Fatalf("gaps = %+v, want none", gaps)
	}
}

func TestRenderCSV(t *testing.T) {
	out, err := RenderCSV([]Gap{{UserID: "42", Date: "2024-01-10"}})
	if err != nil {
		t.Fatalf("RenderCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 2 || lines[0] != "user_id,date" || lines[1] != "42,2024-01-10" {
		t.Fatalf("csv = %q", out)
	}
}
