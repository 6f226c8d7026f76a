package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	pkgerrors "github.com/angelmondragon/autoshop-backend/pkg/errors"
	"github.com/angelmondragon/autoshop-backend/pkg/logger"
	"github.com/angelmondragon/autoshop-backend/pkg/types"
)

// TotalCountHeader carries the unpaged row count on list responses.
const TotalCountHeader = "X-Total-Count"

type causeKey struct{}

// WithCauseExposure marks the request so error payloads carry the underlying cause.
func WithCauseExposure(ctx context.Context) context.Context {
	return context.WithValue(ctx, causeKey{}, true)
}

func causeExposed(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	exposed, _ := ctx.Value(causeKey{}).(bool)
	return exposed
}

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

// WriteList writes a page of rows and reports the unpaged total in X-Total-Count.
func WriteList(w http.ResponseWriter, total int64, data any) {
	w.Header().Set(TotalCountHeader, strconv.FormatInt(total, 10))
	WriteSuccess(w, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, types.SuccessEnvelope{Data: data})
}

func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	if pkgerrors.IsClientError(typed.Code()) {
		if m := typed.Message(); m != "" {
			msg = m
		}
	}

	payload := types.ErrorEnvelope{
		Error: types.APIError{
			Code:    string(typed.Code()),
			Message: msg,
		},
	}

	if meta.DetailsAllowed {
		if details := typed.Details(); details != nil {
			payload.Error.Details = details
		}
	}

	if causeExposed(ctx) {
		if cause := errors.Unwrap(typed); cause != nil {
			payload.Error.Cause = cause.Error()
		} else {
			payload.Error.Cause = typed.Error()
		}
	}

	if logg != nil {
		dump := pkgerrors.Dump(err)

		fields := map[string]any{
			"error":         dump.TopMessage,
			"error_code":    dump.Code,
			"error_chain":   dump.Chain,
			"pg_code":       dump.PGCode,
			"pg_detail":     dump.PGDetail,
			"pg_message":    dump.PGMessage,
			"pg_table":      dump.PGTable,
			"pg_column":     dump.PGColumn,
			"pg_constraint": dump.PGConstraint,
		}
		if dump.Hint != "" {
			fields["pg_hint"] = dump.Hint
		}

		ctx = logg.WithFields(ctx, fields)
		if pkgerrors.IsClientError(typed.Code()) {
			logg.Warn(ctx, "request.rejected")
		} else {
			logg.Error(ctx, "request.error", err)
		}
	}

	writeJSON(w, meta.HTTPStatus, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
