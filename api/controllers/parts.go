package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/autoshop-backend/api/responses"
	"github.com/angelmondragon/autoshop-backend/api/validators"
	"github.com/angelmondragon/autoshop-backend/internal/parts"
	"github.com/angelmondragon/autoshop-backend/pkg/logger"
)

type PartService interface {
	List(ctx context.Context, query parts.ListQuery) ([]parts.PartDTO, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*parts.PartDTO, error)
}

// PartList returns parts with their live quantity. Deactivated parts are
// included only with includeDeleted=true.
func PartList(svc PartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := parseListParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		includeDeleted, err := validators.ParseQueryBool(r, "includeDeleted", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		search := params.SearchValue
		if q := validators.ParseQueryString(r, "q", maxSearchChars); q != "" {
			search = q
		}
		rows, total, err := svc.List(r.Context(), parts.ListQuery{
			Start:          params.Start,
			End:            params.End,
			Sort:           params.Sort,
			Order:          params.Order,
			Search:         search,
			IncludeDeleted: includeDeleted,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, total, rows)
	}
}

// PartGet returns one part with the procurement and deployment ids that reference it.
func PartGet(svc PartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		part, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, part)
	}
}
