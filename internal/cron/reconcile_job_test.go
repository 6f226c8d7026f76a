package cron

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/autoshop-backend/internal/reconcile"
	"github.com/angelmondragon/autoshop-backend/pkg/logger"
)

type fakeReconciler struct {
	repair []bool
	err    error
}

func (f *fakeReconciler) Run(_ context.Context, repair bool) (*reconcile.Report, error) {
	f.repair = append(f.repair, repair)
	return &reconcile.Report{RunID: uuid.New(), PartsScanned: 3}, f.err
}

func TestReconcileJobPassesRepairFlag(t *testing.T) {
	rec := &fakeReconciler{}
	job, err := NewReconcileJob(ReconcileJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Reconciler: rec,
		Repair:     true,
	})
	if err != nil {
		t.Fatalf("NewReconcileJob: %v", err)
	}
	if job.Name() != "stock-reconcile" {
		t.Fatalf("unexpected job name %q", job.Name())
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rec.repair) != 1 || !rec.repair[0] {
		t.Fatalf("expected one repairing run, got %v", rec.repair)
	}
}

func TestReconcileJobReturnsPartialFailure(t *testing.T) {
	rec := &fakeReconciler{err: errors.New("part x: locked")}
	job, err := NewReconcileJob(ReconcileJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Reconciler: rec,
	})
	if err != nil {
		t.Fatalf("NewReconcileJob: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
