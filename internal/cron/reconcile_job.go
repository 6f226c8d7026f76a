package cron

import (
	"context"
	"fmt"

	"github.com/angelmondragon/autoshop-backend/internal/reconcile"
	"github.com/angelmondragon/autoshop-backend/pkg/logger"
)

type stockReconciler interface {
	Run(ctx context.Context, repair bool) (*reconcile.Report, error)
}

// ReconcileJobParams configures the periodic stock reconciliation.
type ReconcileJobParams struct {
	Logger     *logger.Logger
	Reconciler stockReconciler
	Repair     bool
}

func NewReconcileJob(params ReconcileJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Reconciler == nil {
		return nil, fmt.Errorf("reconciler required")
	}
	return &reconcileJob{
		logg:       params.Logger,
		reconciler: params.Reconciler,
		repair:     params.Repair,
	}, nil
}

type reconcileJob struct {
	logg       *logger.Logger
	reconciler stockReconciler
	repair     bool
}

func (j *reconcileJob) Name() string { return ReconcileJobName }

func (j *reconcileJob) Run(ctx context.Context) error {
	report, err := j.reconciler.Run(ctx, j.repair)
	if report != nil {
		logCtx := j.logg.WithFields(ctx, map[string]any{
			"run_id":        report.RunID.String(),
			"parts_scanned": report.PartsScanned,
			"drift_parts":   len(report.Drifts),
			"repaired":      report.Repaired,
			"repair":        j.repair,
		})
		j.logg.Info(logCtx, "stock reconcile pass complete")
	}
	if err != nil {
		return fmt.Errorf("stock reconcile: %w", err)
	}
	return nil
}
