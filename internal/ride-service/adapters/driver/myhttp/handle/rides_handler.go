package handle

import (
	"encoding/json"
	"errors"
	"net/http"

	"ride-sharing/internal/authgw"
	"ride-sharing/internal/mylogger"
	"ride-sharing/internal/ride-service/core/domain/dto"
	"ride-sharing/internal/ride-service/core/ports"
)

type RidesHandler struct {
	ridesService ports.IRidesService
	log          mylogger.Logger
}

func NewRidesHandler(rs ports.IRidesService, log mylogger.Logger) *RidesHandler {
	return &RidesHandler{
		ridesService: rs,
		log:          log,
	}
}

func (rh *RidesHandler) RequestRide() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := authgw.FromContext(r.Context())
		if !ok {
			JsonError(w, http.StatusUnauthorized, errors.New("authentication required"))
			return
		}

		req := dto.RequestRideDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		res, err := rh.ridesService.RequestRide(caller, req)
		if err != nil {
			JsonError(w, statusFor(err), err)
			return
		}
		jsonResponse(w, http.StatusCreated, res)
	}
}

func (rh *RidesHandler) ListRides() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := authgw.FromContext(r.Context())
		if !ok {
			JsonError(w, http.StatusUnauthorized, errors.New("authentication required"))
			return
		}

		res, err := rh.ridesService.ListRides(caller)
		if err != nil {
			JsonError(w, statusFor(err), err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}

func (rh *RidesHandler) GetRide() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rideID := r.PathValue("id")

		res, err := rh.ridesService.GetRide(rideID)
		if err != nil {
			JsonError(w, statusFor(err), err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}

// UpdateRide serves the trusted-internal status-update contract; it is
// deliberately unauthenticated and must only be exposed inside the
// service network.
func (rh *RidesHandler) UpdateRide() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.UpdateRideDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		res, err := rh.ridesService.ApplyStatusUpdate(req)
		if err != nil {
			JsonError(w, statusFor(err), err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}
