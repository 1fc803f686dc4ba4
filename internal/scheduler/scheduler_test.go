package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestAddRejectsBadSpec(t *testing.T) {
	s := New(zerolog.Nop())
	err := s.Add(Job{Name: "bad", Spec: "not a cron spec", Run: func(context.Context) error { return nil }})
	if err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}

func TestJobRunsAndStopDrains(t *testing.T) {
	s := New(zerolog.Nop())
	ran := make(chan struct{}, 1)
	err := s.Add(Job{
		Name: "tick",
		Spec: "@every 10ms",
		Run: func(context.Context) error {
			select {
			case ran <- struct{}{}:
			default:
			}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	s.Start()
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job never ran")
	}
	s.Stop()
}

func TestFailingJobDoesNotBlockOthers(t *testing.T) {
	s := New(zerolog.Nop())
	ok := make(chan struct{}, 1)
	if err := s.Add(Job{Name: "boom", Spec: "@every 10ms", Run: func(context.Context) error {
		return errors.New("boom")
	}}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add(Job{Name: "fine", Spec: "@every 10ms", Run: func(context.Context) error {
		select {
		case ok <- struct{}{}:
		default:
		}
		return nil
	}}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	s.Start()
	defer s.Stop()
	select {
	case <-ok:
	case <-time.After(2 * time.Second):
		t.Fatal("healthy job starved by failing sibling")
	}
}
