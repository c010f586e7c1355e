package handle

import (
	"errors"
	"net/http"

	"ride-sharing/internal/authgw"
	"ride-sharing/internal/driver-service/core/ports"
	"ride-sharing/internal/mylogger"
)

type DriverHandler struct {
	driverService ports.IDriverService
	log           mylogger.Logger
}

func NewDriverHandler(ds ports.IDriverService, log mylogger.Logger) *DriverHandler {
	return &DriverHandler{
		driverService: ds,
		log:           log,
	}
}

func (dh *DriverHandler) AvailableRides() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := authgw.FromContext(r.Context())
		if !ok {
			JsonError(w, http.StatusUnauthorized, errors.New("authentication required"))
			return
		}

		res, err := dh.driverService.ListPendingRides(caller)
		if err != nil {
			JsonError(w, statusFor(err), err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}

func (dh *DriverHandler) AcceptRide() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := authgw.FromContext(r.Context())
		if !ok {
			JsonError(w, http.StatusUnauthorized, errors.New("authentication required"))
			return
		}
		rideID := r.PathValue("rideId")

		res, err := dh.driverService.AcceptRide(caller, rideID)
		if err != nil {
			JsonError(w, statusFor(err), err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}

func (dh *DriverHandler) CompleteRide() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := authgw.FromContext(r.Context())
		if !ok {
			JsonError(w, http.StatusUnauthorized, errors.New("authentication required"))
			return
		}
		rideID := r.PathValue("rideId")

		res, err := dh.driverService.CompleteRide(caller, rideID)
		if err != nil {
			JsonError(w, statusFor(err), err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}

func (dh *DriverHandler) DriverStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := authgw.FromContext(r.Context())
		if !ok {
			JsonError(w, http.StatusUnauthorized, errors.New("authentication required"))
			return
		}

		res, err := dh.driverService.GetStatus(caller)
		if err != nil {
			JsonError(w, statusFor(err), err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}
