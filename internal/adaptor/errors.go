package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"theater-booking/internal/usecase"
	"theater-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// writeServiceError maps usecase errors to HTTP responses. Anything that is
// not a usecase.Error is logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var serviceErr *usecase.Error
	if !errors.As(err, &serviceErr) {
		log.Error("Service error",
			zap.String("operation", operation),
			zap.Error(err),
		)
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	switch {
	case errors.Is(err, usecase.ErrValidation):
		utils.ResponseBadRequest(w, "Validation failed", serviceErr.Fields)
	case errors.Is(err, usecase.ErrNotFound):
		utils.ResponseNotFound(w, serviceErr.Message)
	case errors.Is(err, usecase.ErrConflict):
		utils.ResponseConflict(w, serviceErr.Message)
	case errors.Is(err, usecase.ErrUnauthorized):
		utils.ResponseUnauthorized(w, serviceErr.Message)
	case errors.Is(err, usecase.ErrForbidden):
		utils.ResponseForbidden(w, serviceErr.Message)
	default:
		log.Error("Unclassified service error",
			zap.String("operation", operation),
			zap.Error(err),
		)
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// pathID reads a positive integer id from the route.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
