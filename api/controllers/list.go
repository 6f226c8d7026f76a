package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/autoshop-backend/api/validators"
	pkgerrors "github.com/angelmondragon/autoshop-backend/pkg/errors"
	"github.com/angelmondragon/autoshop-backend/pkg/pagination"
)

const (
	maxRangeIndex  = 1_000_000
	maxSearchChars = 120
	maxSortChars   = 64
)

// listParams are the react-admin style range, sort and search parameters
// shared by every list endpoint.
type listParams struct {
	Start       int
	End         int
	Sort        string
	Order       string
	SearchField string
	SearchValue string
}

func parseListParams(r *http.Request) (listParams, error) {
	start, err := validators.ParseQueryInt(r, "_start", 0, 0, maxRangeIndex)
	if err != nil {
		return listParams{}, err
	}
	end, err := validators.ParseQueryInt(r, "_end", start+pagination.DefaultLimit, 0, maxRangeIndex)
	if err != nil {
		return listParams{}, err
	}
	if end < start {
		return listParams{}, pkgerrors.New(pkgerrors.CodeValidation, "_end must not be before _start").
			WithDetails(map[string]any{"_start": start, "_end": end})
	}
	return listParams{
		Start:       start,
		End:         end,
		Sort:        validators.ParseQueryString(r, "_sort", maxSortChars),
		Order:       validators.ParseQueryString(r, "_order", 4),
		SearchField: validators.ParseQueryString(r, "searchField", maxSortChars),
		SearchValue: validators.ParseQueryString(r, "searchValue", maxSearchChars),
	}, nil
}

// pathID parses a single record id from the route.
func pathID(r *http.Request, param string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, param))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeInvalidIDFormat, err, "Invalid ID format").
			WithDetails(map[string]any{"id": raw})
	}
	return id, nil
}

// pathIDs returns the raw comma-joined id list; the lifecycle layer parses it.
func pathIDs(r *http.Request, param string) string {
	return strings.TrimSpace(chi.URLParam(r, param))
}
