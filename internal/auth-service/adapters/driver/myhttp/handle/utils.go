package handle

import (
	"encoding/json"
	"errors"
	"net/http"

	"ride-sharing/internal/auth-service/core/myerrors"
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
		errors.Is(err, myerrors.ErrUserExists),
		errors.Is(err, myerrors.ErrInvalidRole):
		return http.StatusBadRequest
	case errors.Is(err, myerrors.ErrInvalidCredentials),
		errors.Is(err, myerrors.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, myerrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, myerrors.ErrUserNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
