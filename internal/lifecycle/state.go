// Package lifecycle implements the two-phase delete protocol shared by
// procurements and deployments: active records are soft-deleted first, a
// second delete removes them for good, and only soft-deleted records can be
// restored.
package lifecycle

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/autoshop-backend/pkg/errors"
)

type State string

const (
	StateActive      State = "active"
	StateSoftDeleted State = "soft_deleted"
	StateHardDeleted State = "hard_deleted"
)

// StateOf maps the persisted deleted flag onto a State.
func StateOf(deleted bool) State {
	if deleted {
		return StateSoftDeleted
	}
	return StateActive
}

type Transition struct {
	From State
	To   State
}

// NextOnDelete returns the transition a delete request triggers from state.
func NextOnDelete(state State) (Transition, error) {
	switch state {
	case StateActive:
		return Transition{From: state, To: StateSoftDeleted}, nil
	case StateSoftDeleted:
		return Transition{From: state, To: StateHardDeleted}, nil
	default:
		return Transition{}, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot delete a record in state %q", state))
	}
}

func CanRestore(state State) bool {
	return state == StateSoftDeleted
}

// ParseIDs splits a comma-joined id list. Every entry must be a uuid; the
// result keeps first-seen order without duplicates.
func ParseIDs(raw string) ([]uuid.UUID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidIDFormat, "at least one id is required")
	}
	pieces := strings.Split(trimmed, ",")
	seen := make(map[uuid.UUID]struct{}, len(pieces))
	out := make([]uuid.UUID, 0, len(pieces))
	for _, piece := range pieces {
		value := strings.TrimSpace(piece)
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInvalidIDFormat, err, fmt.Sprintf("invalid id %q", value)).
				WithDetails(map[string]any{"id": value})
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}
