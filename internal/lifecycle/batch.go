package lifecycle

import (
	"context"
	"errors"

	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/autoshop-backend/pkg/errors"
)

// ErrNotLoaded is returned by a Loader when the record does not exist.
var ErrNotLoaded = errors.New("record not found")

// Loader fetches one record inside the caller's transaction. Missing records
// return ErrNotLoaded so the batch can skip them.
type Loader[T any] func(ctx context.Context, id uuid.UUID) (T, error)

// DeleteSteps binds the per-record work of a two-phase delete.
type DeleteSteps[T any] struct {
	Load       Loader[T]
	IsDeleted  func(T) bool
	SoftDelete func(ctx context.Context, record T) error
	HardDelete func(ctx context.Context, record T) error
}

// RestoreSteps binds the per-record work of a restore.
type RestoreSteps[T any] struct {
	Load      Loader[T]
	IsDeleted func(T) bool
	Restore   func(ctx context.Context, record T) error
}

// BatchResult lists the ids each transition applied to.
type BatchResult struct {
	SoftDeleted []uuid.UUID `json:"softDeleted"`
	HardDeleted []uuid.UUID `json:"hardDeleted"`
	Restored    []uuid.UUID `json:"restored"`
	Skipped     []uuid.UUID `json:"skipped"`
}

// Processed counts records that changed state.
func (r BatchResult) Processed() int {
	return len(r.SoftDeleted) + len(r.HardDeleted) + len(r.Restored)
}

// RunDelete walks ids in order and advances each record one delete phase.
// The first failing step aborts the batch; the caller's transaction rolls
// everything back.
func RunDelete[T any](ctx context.Context, ids []uuid.UUID, steps DeleteSteps[T]) (BatchResult, error) {
	var result BatchResult
	for _, id := range ids {
		record, err := steps.Load(ctx, id)
		if errors.Is(err, ErrNotLoaded) {
			result.Skipped = append(result.Skipped, id)
			continue
		}
		if err != nil {
			return BatchResult{}, err
		}

		transition, err := NextOnDelete(StateOf(steps.IsDeleted(record)))
		if err != nil {
			return BatchResult{}, err
		}
		switch transition.To {
		case StateSoftDeleted:
			if err := steps.SoftDelete(ctx, record); err != nil {
				return BatchResult{}, err
			}
			result.SoftDeleted = append(result.SoftDeleted, id)
		case StateHardDeleted:
			if err := steps.HardDelete(ctx, record); err != nil {
				return BatchResult{}, err
			}
			result.HardDeleted = append(result.HardDeleted, id)
		}
	}
	if result.Processed() == 0 {
		return BatchResult{}, pkgerrors.New(pkgerrors.CodeNothingToDelete, "no matching records to delete")
	}
	return result, nil
}

// RunRestore restores every soft-deleted record in ids. Active and missing
// records are skipped.
func RunRestore[T any](ctx context.Context, ids []uuid.UUID, steps RestoreSteps[T]) (BatchResult, error) {
	var result BatchResult
	for _, id := range ids {
		record, err := steps.Load(ctx, id)
		if errors.Is(err, ErrNotLoaded) {
			result.Skipped = append(result.Skipped, id)
			continue
		}
		if err != nil {
			return BatchResult{}, err
		}
		if !CanRestore(StateOf(steps.IsDeleted(record))) {
			result.Skipped = append(result.Skipped, id)
			continue
		}
		if err := steps.Restore(ctx, record); err != nil {
			return BatchResult{}, err
		}
		result.Restored = append(result.Restored, id)
	}
	if len(result.Restored) == 0 {
		return BatchResult{}, pkgerrors.New(pkgerrors.CodeNothingToRestore, "no deleted records to restore")
	}
	return result, nil
}
