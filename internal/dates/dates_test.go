package dates

import (
	"errors"
	"testing"
	"time"
)

func TestGenRange_SingleDate(t *testing.T) {
	got, err := GenRange("2024-01-10", "", true)
	if err != nil {
		t.Fatalf("GenRange: %v", err)
	}
	if len(got) != 1 || got[0] != "2024-01-10" {
		t.Fatalf("got %v, want [2024-01-10]", got)
	}
}

func TestGenRange_Inclusive(t *testing.T) {
	got, err := GenRange("2024-01-10", "2024-01-12", true)
	if err != nil {
		t.Fatalf("GenRange: %v", err)
	}
	want := []string{"2024-01-10", "2024-01-11", "2024-01-12"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestGenRange_EndBeforeStart(t *testing.T) {
	if _, err := GenRange("2024-01-10", "2024-01-09", true); !errors.Is(err, ErrEndBeforeStart) {
		t.Fatalf("expected ErrEndBeforeStart, got %v", err)
	}
}

func TestGenRange_RejectsSameDayEnd(t *testing.T) {
	if _, err := GenRange("2024-01-10", "2024-01-10", true); !errors.Is(err, ErrSameDay) {
		t.Fatalf("expected ErrSameDay, got %v", err)
	}
}

func TestGenRange_CapsAt31Days(t *testing.T) {
	if _, err := GenRange("2024-01-01", "2024-03-01", true); !errors.Is(err, ErrRangeTooLarge) {
		t.Fatalf("expected ErrRangeTooLarge, got %v", err)
	}
	// Unlimited callers may exceed the cap.
	got, err := GenRange("2024-01-01", "2024-03-01", false)
	if err != nil {
		t.Fatalf("unlimited GenRange: %v", err)
	}
	if len(got) != 61 {
		t.Fatalf("got %d dates, want 61", len(got))
	}
}

func TestGenRange_RejectsBadInput(t *testing.T) {
	if _, err := GenRange("01/10/2024", "", true); err == nil {
		t.Fatal("expected error for non-ISO start date")
	}
	if _, err := GenRange("2024-01-10", "tomorrow", true); err == nil {
		t.Fatal("expected error for non-ISO end date")
	}
}

func TestWindow(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	got := Window(now, 1, 2)
	want := []string{"2024-01-08", "2024-01-09"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v, want %v", got, want)
	}

	if got := Window(now, 0, 1); len(got) != 1 || got[0] != "2024-01-10" {
		t.Fatalf("got %v, want [2024-01-10]", got)
	}
	if got := Window(now, 1, 0); got != nil {
		t.Fatalf("got %v, want nil", got)
	}
}
