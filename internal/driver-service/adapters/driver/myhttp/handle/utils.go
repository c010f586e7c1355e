package handle

import (
	"encoding/json"
	"errors"
	"net/http"

	"ride-sharing/internal/driver-service/core/myerrors"
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
	case errors.Is(err, myerrors.ErrOnlyDrivers),
		errors.Is(err, myerrors.ErrNotAssigned):
		return http.StatusForbidden
	case errors.Is(err, myerrors.ErrDriverNotFound):
		return http.StatusNotFound
	case errors.Is(err, myerrors.ErrDriverUnavailable),
		errors.Is(err, myerrors.ErrRideUnavailable):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
