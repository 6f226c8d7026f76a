package parts

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

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

// LedgerParams wires the ledger collaborators. Only Repository is required.
type LedgerParams struct {
	Repository *Repository
	Events     eventEmitter
	Metrics    *metrics.LedgerMetrics
	Logger     *logger.Logger
	Now        func() time.Time
}

// Ledger owns part stock counters. Every method runs against the caller's
// transaction handle and never caches reads.
type Ledger struct {
	repo    *Repository
	events  eventEmitter
	metrics *metrics.LedgerMetrics
	logg    *logger.Logger
	now     func() time.Time
}

func NewLedger(params LedgerParams) (*Ledger, error) {
	if params.Repository == nil {
		return nil, errors.New("part repository required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Ledger{
		repo:    params.Repository,
		events:  params.Events,
		metrics: params.Metrics,
		logg:    params.Logger,
		now:     now,
	}, nil
}

// Resolve returns the part for key, creating it with qty_left = 0 when absent.
// The row stays locked until tx ends so reactivation and orphan checks on the
// same part serialize.
func (l *Ledger) Resolve(ctx context.Context, tx *gorm.DB, key Key) (*models.Part, error) {
	repo := l.repo.WithTx(tx)
	part, err := repo.LockByKey(ctx, key)
	if err == nil {
		return part, nil
	}
	if !IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find part")
	}

	candidate := &models.Part{PartName: key.PartName, BrandName: key.BrandName}
	if _, err := repo.CreateIfAbsent(ctx, candidate); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create part")
	}
	// a concurrent insert may have won the key; read back whichever row exists.
	part, err = repo.LockByKey(ctx, key)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload part")
	}
	return part, nil
}

// Find returns the part for key without creating it.
func (l *Ledger) Find(ctx context.Context, tx *gorm.DB, key Key) (*models.Part, error) {
	part, err := l.repo.WithTx(tx).FindByKey(ctx, key)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("part %q not found", key.String())).
				WithDetails(map[string]any{"partKey": key.String()})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find part")
	}
	return part, nil
}

// Load returns parts by id, failing with NotFound when any id is missing.
func (l *Ledger) Load(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]models.Part, error) {
	found, err := l.repo.WithTx(tx).FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load parts")
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("part %s not found", id))
		}
	}
	return found, nil
}

// CheckAvailable verifies every negative change can be applied without
// driving qty_left below zero. It performs no writes.
func (l *Ledger) CheckAvailable(ctx context.Context, tx *gorm.DB, changes map[uuid.UUID]int) error {
	ids := make([]uuid.UUID, 0, len(changes))
	for id, delta := range changes {
		if delta < 0 {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	parts, err := l.Load(ctx, tx, ids)
	if err != nil {
		return err
	}
	for _, id := range SortedIDs(ids) {
		part := parts[id]
		need := -changes[id]
		if part.QtyLeft < need {
			return InsufficientQuantity(part, need)
		}
	}
	return nil
}

// Adjust applies a signed stock-out change to qty_left. Decrements fail with
// InsufficientQuantity when the result would be negative; increments never do.
func (l *Ledger) Adjust(ctx context.Context, tx *gorm.DB, partID uuid.UUID, delta int) error {
	return l.adjust(ctx, tx, partID, delta, true)
}

// AdjustStockIn applies a procurement-side change. A decrement here takes
// back units that were bought, so it is applied even when some of them were
// already used and qty_left goes negative.
func (l *Ledger) AdjustStockIn(ctx context.Context, tx *gorm.DB, partID uuid.UUID, delta int) error {
	return l.adjust(ctx, tx, partID, delta, false)
}

func (l *Ledger) adjust(ctx context.Context, tx *gorm.DB, partID uuid.UUID, delta int, guard bool) error {
	if delta == 0 {
		return nil
	}
	repo := l.repo.WithTx(tx)
	affected, err := repo.AddQty(ctx, partID, delta, guard)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: adjust part quantity")
	}
	if affected > 0 {
		l.metrics.ObserveAdjustment(delta, metrics.OutcomeApplied)
		return nil
	}

	part, err := repo.FindByID(ctx, partID)
	if err != nil {
		if IsNotFound(err) {
			l.metrics.ObserveAdjustment(delta, metrics.OutcomeNotFound)
			return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("part %s not found", partID))
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load part")
	}
	l.metrics.ObserveAdjustment(delta, metrics.OutcomeInsufficient)
	return InsufficientQuantity(*part, -delta)
}

// ApplyChanges adjusts each part in id order so concurrent writers lock rows consistently.
func (l *Ledger) ApplyChanges(ctx context.Context, tx *gorm.DB, changes map[uuid.UUID]int) error {
	return l.apply(ctx, tx, changes, l.Adjust)
}

// ApplyStockIn is ApplyChanges for procurement-side changes.
func (l *Ledger) ApplyStockIn(ctx context.Context, tx *gorm.DB, changes map[uuid.UUID]int) error {
	return l.apply(ctx, tx, changes, l.AdjustStockIn)
}

func (l *Ledger) apply(ctx context.Context, tx *gorm.DB, changes map[uuid.UUID]int, fn func(context.Context, *gorm.DB, uuid.UUID, int) error) error {
	ids := make([]uuid.UUID, 0, len(changes))
	for id := range changes {
		ids = append(ids, id)
	}
	for _, id := range SortedIDs(ids) {
		if err := fn(ctx, tx, id, changes[id]); err != nil {
			return err
		}
	}
	return nil
}

// CascadeSoftDeleteIfOrphaned soft-deletes the part once no active
// procurement references it. It reports whether the part was deactivated.
func (l *Ledger) CascadeSoftDeleteIfOrphaned(ctx context.Context, tx *gorm.DB, partID uuid.UUID) (bool, error) {
	repo := l.repo.WithTx(tx)
	// lock before counting so a concurrent stock-in on this part either sees
	// the deactivation or is counted here.
	part, err := repo.LockByID(ctx, partID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load part")
	}
	if part.Deleted {
		return false, nil
	}
	active, err := repo.CountActiveProcurements(ctx, partID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count active procurements")
	}
	if active > 0 {
		return false, nil
	}
	at := l.now().UTC()
	if err := repo.SetDeleted(ctx, partID, true, &at); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: soft delete part")
	}
	part.Deleted = true
	if err := l.emit(ctx, tx, enums.EventPartDeactivated, part, "no active procurements"); err != nil {
		return false, err
	}
	return true, nil
}

// RestoreOutcome describes what CascadeRestoreIfDeleted did.
type RestoreOutcome struct {
	Reactivated bool
	Applied     bool
}

// CascadeRestoreIfDeleted re-adds delta and reactivates a soft-deleted part.
// For a part that is still active the delta is applied only under
// RestorePolicyAlwaysReadd.
func (l *Ledger) CascadeRestoreIfDeleted(ctx context.Context, tx *gorm.DB, partID uuid.UUID, delta int, policy enums.RestorePolicy) (RestoreOutcome, error) {
	repo := l.repo.WithTx(tx)
	part, err := repo.LockByID(ctx, partID)
	if err != nil {
		if IsNotFound(err) {
			return RestoreOutcome{}, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("part %s not found", partID))
		}
		return RestoreOutcome{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load part")
	}

	if !part.Deleted {
		if policy != enums.RestorePolicyAlwaysReadd {
			return RestoreOutcome{}, nil
		}
		if err := l.AdjustStockIn(ctx, tx, partID, delta); err != nil {
			return RestoreOutcome{}, err
		}
		return RestoreOutcome{Applied: true}, nil
	}

	if err := l.AdjustStockIn(ctx, tx, partID, delta); err != nil {
		return RestoreOutcome{}, err
	}
	if err := l.reactivate(ctx, tx, part, "procurement restored"); err != nil {
		return RestoreOutcome{}, err
	}
	return RestoreOutcome{Reactivated: true, Applied: true}, nil
}

// ReactivateIfDeleted flips a soft-deleted part back to active without touching qty_left.
func (l *Ledger) ReactivateIfDeleted(ctx context.Context, tx *gorm.DB, part *models.Part, reason string) (bool, error) {
	if part == nil || !part.Deleted {
		return false, nil
	}
	if err := l.reactivate(ctx, tx, part, reason); err != nil {
		return false, err
	}
	return true, nil
}

func (l *Ledger) reactivate(ctx context.Context, tx *gorm.DB, part *models.Part, reason string) error {
	if err := l.repo.WithTx(tx).SetDeleted(ctx, part.ID, false, nil); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reactivate part")
	}
	part.Deleted = false
	part.DeletedAt = nil
	return l.emit(ctx, tx, enums.EventPartReactivated, part, reason)
}

func (l *Ledger) emit(ctx context.Context, tx *gorm.DB, eventType enums.OutboxEventType, part *models.Part, reason string) error {
	if l.logg != nil {
		logCtx := l.logg.WithFields(ctx, map[string]any{
			"part_id":  part.ID.String(),
			"part_key": Key{PartName: part.PartName, BrandName: part.BrandName}.String(),
			"reason":   reason,
		})
		l.logg.Info(logCtx, string(eventType))
	}
	if l.events == nil {
		return nil
	}
	event := outbox.DomainEvent{
		EventType:     eventType,
		AggregateType: enums.AggregatePart,
		AggregateID:   part.ID,
		Version:       1,
		Data: payloads.PartStateChangedEvent{
			PartID:    part.ID,
			PartName:  part.PartName,
			BrandName: part.BrandName,
			QtyLeft:   part.QtyLeft,
			Reason:    reason,
		},
	}
	if err := l.events.Emit(ctx, tx, event); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit part event")
	}
	return nil
}

// InsufficientQuantity builds the typed error for a decrement that cannot be covered.
func InsufficientQuantity(part models.Part, requested int) error {
	key := Key{PartName: part.PartName, BrandName: part.BrandName}.String()
	msg := fmt.Sprintf("Not enough stock for %q: need %d, but only %d available", key, requested, part.QtyLeft)
	return pkgerrors.New(pkgerrors.CodeInsufficientQuantity, msg).WithDetails(map[string]any{
		"partId":    part.ID.String(),
		"partKey":   key,
		"requested": requested,
		"available": part.QtyLeft,
	})
}

// SortedIDs returns ids in ascending string order.
func SortedIDs(ids []uuid.UUID) []uuid.UUID {
	out := append([]uuid.UUID(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
