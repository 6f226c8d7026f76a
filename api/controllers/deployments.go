package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/autoshop-backend/api/responses"
	"github.com/angelmondragon/autoshop-backend/api/validators"
	"github.com/angelmondragon/autoshop-backend/internal/deployments"
	"github.com/angelmondragon/autoshop-backend/internal/lifecycle"
	"github.com/angelmondragon/autoshop-backend/pkg/logger"
)

// DeploymentService is the repair-job surface the HTTP layer drives.
type DeploymentService interface {
	List(ctx context.Context, query deployments.ListQuery) ([]deployments.DeploymentDTO, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*deployments.DeploymentDTO, error)
	Track(ctx context.Context, code string) (*deployments.TrackingView, error)
	Create(ctx context.Context, input deployments.CreateDeploymentDTO) (*deployments.DeploymentDTO, error)
	Update(ctx context.Context, id uuid.UUID, input deployments.UpdateDeploymentDTO) (*deployments.DeploymentDTO, error)
	Delete(ctx context.Context, rawIDs string) (lifecycle.BatchResult, error)
	Restore(ctx context.Context, rawIDs string) (lifecycle.BatchResult, error)
}

func DeploymentList(svc DeploymentService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := parseListParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, total, err := svc.List(r.Context(), deployments.ListQuery{
			Start:       params.Start,
			End:         params.End,
			Sort:        params.Sort,
			Order:       params.Order,
			SearchField: params.SearchField,
			SearchValue: params.SearchValue,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, total, rows)
	}
}

func DeploymentGet(svc DeploymentService, logg *logger.Logger) http.HandlerFunc {
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

// DeploymentCreate opens a repair job and consumes stock for every line.
func DeploymentCreate(svc DeploymentService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload deployments.CreateDeploymentDTO
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

// DeploymentUpdate patches a repair job. A "parts" array replaces every line.
func DeploymentUpdate(svc DeploymentService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload deployments.UpdateDeploymentDTO
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

func DeploymentDelete(svc DeploymentService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.Delete(r.Context(), pathIDs(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func DeploymentRestore(svc DeploymentService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.Restore(r.Context(), pathIDs(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// TrackVehicle is the client portal lookup by tracking code.
func TrackVehicle(svc DeploymentService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.Track(r.Context(), validators.ParseQueryString(r, "trackCode", 64))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
