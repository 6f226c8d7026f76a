package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/angelmondragon/autoshop-backend/internal/parts"
	dbpkg "github.com/angelmondragon/autoshop-backend/pkg/db"
	"github.com/angelmondragon/autoshop-backend/pkg/db/models"
	"github.com/angelmondragon/autoshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/autoshop-backend/pkg/errors"
	"github.com/angelmondragon/autoshop-backend/pkg/logger"
	"github.com/angelmondragon/autoshop-backend/pkg/metrics"
	"github.com/angelmondragon/autoshop-backend/pkg/outbox"
	"github.com/angelmondragon/autoshop-backend/pkg/outbox/payloads"
)

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// ServiceParams wires the reconciler.
type ServiceParams struct {
	DB         dbpkg.TxRunner
	Repository *Repository
	Parts      *parts.Repository
	Events     eventEmitter
	Metrics    *metrics.LedgerMetrics
	Logger     *logger.Logger
	Now        func() time.Time
}

// Service compares each part's stored qty_left with the quantity implied by
// its active procurements and deployments.
type Service struct {
	db      dbpkg.TxRunner
	repo    *Repository
	parts   *parts.Repository
	events  eventEmitter
	metrics *metrics.LedgerMetrics
	logg    *logger.Logger
	now     func() time.Time
}

func NewService(params ServiceParams) (*Service, error) {
	if params.DB == nil {
		return nil, errors.New("transaction runner required")
	}
	if params.Repository == nil {
		return nil, errors.New("reconcile repository required")
	}
	if params.Parts == nil {
		return nil, errors.New("part repository required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		db:      params.DB,
		repo:    params.Repository,
		parts:   params.Parts,
		events:  params.Events,
		metrics: params.Metrics,
		logg:    params.Logger,
		now:     now,
	}, nil
}

// Drift is one part whose stored quantity disagreed with its records.
type Drift struct {
	PartID      uuid.UUID `json:"partId"`
	PartKey     string    `json:"partKey"`
	ExpectedQty int       `json:"expectedQty"`
	RecordedQty int       `json:"recordedQty"`
	Drift       int       `json:"drift"`
	Repaired    bool      `json:"repaired"`
}

// Report summarizes one reconciliation run.
type Report struct {
	RunID        uuid.UUID `json:"runId"`
	StartedAt    time.Time `json:"startedAt"`
	PartsScanned int       `json:"partsScanned"`
	Drifts       []Drift   `json:"drifts"`
	Repaired     int       `json:"repaired"`
}

// Run scans every part. With repair set, each drifting part is rewritten to
// its expected quantity in its own transaction; a failure on one part does
// not stop the others and all failures are returned together.
func (s *Service) Run(ctx context.Context, repair bool) (*Report, error) {
	report := &Report{RunID: uuid.New(), StartedAt: s.now().UTC(), Drifts: []Drift{}}

	all, err := s.repo.ListParts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list parts")
	}
	expected, err := s.repo.ExpectedQuantities(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: sum active records")
	}
	report.PartsScanned = len(all)

	var errs error
	for _, part := range all {
		if part.QtyLeft == expected[part.ID] {
			continue
		}
		drift, err := s.settle(ctx, report.RunID, part.ID, repair)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("part %s: %w", part.ID, err))
			continue
		}
		if drift == nil {
			continue
		}
		report.Drifts = append(report.Drifts, *drift)
		if drift.Repaired {
			report.Repaired++
		}
	}

	s.metrics.SetDriftParts(len(report.Drifts))
	s.metrics.AddRepaired(report.Repaired)
	s.logRun(ctx, report, errs)
	if errs != nil {
		return report, pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "reconciliation incomplete")
	}
	return report, nil
}

// settle locks the part, then re-reads its expected quantity, so writes that
// landed after the scan are not mistaken for drift.
func (s *Service) settle(ctx context.Context, runID, partID uuid.UUID, repair bool) (*Drift, error) {
	return dbpkg.InTx(ctx, s.db, func(tx *gorm.DB) (*Drift, error) {
		repo := s.repo.WithTx(tx)
		part, err := repo.LockPart(ctx, partID)
		if err != nil {
			return nil, err
		}
		want, err := repo.ExpectedQuantity(ctx, partID)
		if err != nil {
			return nil, err
		}
		if part.QtyLeft == want {
			return nil, nil
		}

		drift := &Drift{
			PartID:      part.ID,
			PartKey:     parts.Key{PartName: part.PartName, BrandName: part.BrandName}.String(),
			ExpectedQty: want,
			RecordedQty: part.QtyLeft,
			Drift:       part.QtyLeft - want,
		}
		if repair {
			affected, err := s.parts.WithTx(tx).ShiftQty(ctx, part.ID, part.QtyLeft, want)
			if err != nil {
				return nil, err
			}
			if affected == 0 {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "part stock changed during reconciliation").
					WithDetails(map[string]any{"partId": part.ID.String(), "recordedQty": part.QtyLeft})
			}
			drift.Repaired = true
		}

		if err := repo.InsertReport(ctx, &models.ReconciliationReport{
			RunID:       runID,
			PartID:      part.ID,
			ExpectedQty: want,
			RecordedQty: part.QtyLeft,
			Drift:       drift.Drift,
			Repaired:    drift.Repaired,
		}); err != nil {
			return nil, err
		}
		if err := s.emit(ctx, tx, runID, drift); err != nil {
			return nil, err
		}
		return drift, nil
	})
}

func (s *Service) emit(ctx context.Context, tx *gorm.DB, runID uuid.UUID, drift *Drift) error {
	if s.events == nil {
		return nil
	}
	return s.events.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventStockDriftDetected,
		AggregateType: enums.AggregateReconcile,
		AggregateID:   runID,
		Version:       1,
		Data: payloads.StockDriftDetectedEvent{
			RunID:       runID,
			PartID:      drift.PartID,
			ExpectedQty: drift.ExpectedQty,
			RecordedQty: drift.RecordedQty,
			Repaired:    drift.Repaired,
			DetectedAt:  s.now().UTC(),
		},
	})
}

func (s *Service) logRun(ctx context.Context, report *Report, errs error) {
	if s.logg == nil {
		return
	}
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"run_id":        report.RunID.String(),
		"parts_scanned": report.PartsScanned,
		"drift_parts":   len(report.Drifts),
		"repaired":      report.Repaired,
	})
	if errs != nil {
		s.logg.Error(logCtx, "reconciliation finished with errors", errs)
		return
	}
	if len(report.Drifts) > 0 {
		s.logg.Warn(logCtx, "stock drift detected")
		return
	}
	s.logg.Info(logCtx, "reconciliation clean")
}
