package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"eval-admin/internal/service"
)

// JSONResponse sends a JSON response with status 200
func JSONResponse(w http.ResponseWriter, data interface{}) error {
	return JSONResponseWithStatus(w, http.StatusOK, data)
}

// JSONResponseWithStatus sends a JSON response with the given status code
func JSONResponseWithStatus(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// JSONError sends a JSON error body with the given status code
func JSONError(w http.ResponseWriter, status int, message string) {
	_ = JSONResponseWithStatus(w, status, map[string]string{"error": message})
}

// ServiceError maps a service-layer error to an HTTP response. Validation
// errors become 400, missing entities 404, duplicates 409, rule violations
// 422, everything else 500.
func ServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrRequiredDataMissing),
		errors.Is(err, service.ErrInvalidDataFormat),
		errors.Is(err, service.ErrSelfEvaluation):
		JSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		JSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrDuplicateRelationship):
		JSONError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrBusinessRule):
		JSONError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		JSONError(w, http.StatusInternalServerError, err.Error())
	}
}
