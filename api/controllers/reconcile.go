package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/autoshop-backend/api/responses"
	"github.com/angelmondragon/autoshop-backend/api/validators"
	"github.com/angelmondragon/autoshop-backend/internal/reconcile"
	"github.com/angelmondragon/autoshop-backend/pkg/logger"
)

type Reconciler interface {
	Run(ctx context.Context, repair bool) (*reconcile.Report, error)
}

// ReconcileRun compares stored quantities with the active records and,
// with repair=true, rewrites drifting parts.
func ReconcileRun(svc Reconciler, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		repair, err := validators.ParseQueryBool(r, "repair", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		report, err := svc.Run(r.Context(), repair)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}
