package handle

import (
	"encoding/json"
	"errors"
	"net/http"

	"ride-sharing/internal/ride-service/core/myerrors"
)

func jsonResponse(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func JsonError(w http.ResponseWriter, status int, err error) {
	jsonResponse(w, status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, myerrors.ErrInvalidInput),
		errors.Is(err, myerrors.ErrInvalidStatus),
		errors.Is(err, myerrors.ErrMissingDriver):
		return http.StatusBadRequest
	case errors.Is(err, myerrors.ErrOnlyRiders):
		return http.StatusForbidden
	case errors.Is(err, myerrors.ErrRideNotFound):
		return http.StatusNotFound
	case errors.Is(err, myerrors.ErrStateConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
