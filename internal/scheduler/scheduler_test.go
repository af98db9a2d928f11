package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"
)

type countingReconciler struct {
	calls   int
	changed int
	err     error
}

func (r *countingReconciler) ReconcileStatuses(ctx context.Context) (int, error) {
	r.calls++
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("reconciliation must run with a deadline")
	}
	return r.changed, r.err
}

func TestRunOnceReportsChangedRecords(t *testing.T) {
	r := &countingReconciler{changed: 2}
	s := New(r, time.Hour)

	changed, err := s.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if changed != 2 || r.calls != 1 {
		t.Fatalf("expected 2 changes in 1 call, got %d in %d", changed, r.calls)
	}
}

func TestRunOnceReturnsErrors(t *testing.T) {
	s := New(&countingReconciler{err: errors.New("connection refused")}, time.Hour)
	if _, err := s.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected error from reconciler")
	}
}

func TestStartSchedulesJob(t *testing.T) {
	s := New(&countingReconciler{}, 30*time.Minute)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	if n := len(s.scheduler.Jobs()); n != 1 {
		t.Fatalf("expected 1 job, got %d", n)
	}
}

func TestZeroIntervalDisablesJob(t *testing.T) {
	s := New(&countingReconciler{}, 0)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	if n := len(s.scheduler.Jobs()); n != 0 {
		t.Fatalf("expected no jobs, got %d", n)
	}
}
