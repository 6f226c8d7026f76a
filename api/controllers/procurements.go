package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/autoshop-backend/api/responses"
	"github.com/angelmondragon/autoshop-backend/api/validators"
	"github.com/angelmondragon/autoshop-backend/internal/lifecycle"
	"github.com/angelmondragon/autoshop-backend/internal/procurements"
	"github.com/angelmondragon/autoshop-backend/pkg/logger"
)

// ProcurementService is the stock-in surface the HTTP layer drives.
type ProcurementService interface {
	List(ctx context.Context, query procurements.ListQuery) ([]procurements.ProcurementDTO, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*procurements.ProcurementDTO, error)
	Create(ctx context.Context, input procurements.CreateProcurementDTO) (*procurements.ProcurementDTO, error)
	Update(ctx context.Context, id uuid.UUID, input procurements.UpdateProcurementDTO) (*procurements.ProcurementDTO, error)
	Delete(ctx context.Context, rawIDs string) (lifecycle.BatchResult, error)
	Restore(ctx context.Context, rawIDs string) (lifecycle.BatchResult, error)
}

// ProcurementList returns a page of procurements; `supplierName_like` narrows by supplier.
func ProcurementList(svc ProcurementService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := parseListParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, total, err := svc.List(r.Context(), procurements.ListQuery{
			Start:        params.Start,
			End:          params.End,
			Sort:         params.Sort,
			Order:        params.Order,
			SupplierLike: validators.ParseQueryString(r, "supplierName_like", maxSearchChars),
			SearchField:  params.SearchField,
			SearchValue:  params.SearchValue,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, total, rows)
	}
}

func ProcurementGet(svc ProcurementService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		record, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// ProcurementCreate records a stock-in and credits the part ledger.
func ProcurementCreate(svc ProcurementService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload procurements.CreateProcurementDTO
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		record, err := svc.Create(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

func ProcurementUpdate(svc ProcurementService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload procurements.UpdateProcurementDTO
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		record, err := svc.Update(r.Context(), id, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// ProcurementDelete advances each listed procurement one delete phase.
func ProcurementDelete(svc ProcurementService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.Delete(r.Context(), pathIDs(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func ProcurementRestore(svc ProcurementService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.Restore(r.Context(), pathIDs(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
