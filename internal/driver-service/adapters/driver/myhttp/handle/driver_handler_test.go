package handle

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"ride-sharing/internal/authgw"
	"ride-sharing/internal/driver-service/core/domain/dto"
	"ride-sharing/internal/driver-service/core/myerrors"
	"ride-sharing/internal/events"
	"ride-sharing/internal/mylogger"
)

type fakeDriverService struct {
	acceptedRideID string
	ackResp        dto.AckResponseDto
	statusResp     dto.DriverStatusResponseDto
	err            error
}

func (f *fakeDriverService) AcceptRide(caller authgw.User, rideID string) (dto.AckResponseDto, error) {
	f.acceptedRideID = rideID
	return f.ackResp, f.err
}

func (f *fakeDriverService) CompleteRide(caller authgw.User, rideID string) (dto.AckResponseDto, error) {
	return f.ackResp, f.err
}

func (f *fakeDriverService) GetStatus(caller authgw.User) (dto.DriverStatusResponseDto, error) {
	return f.statusResp, f.err
}

func (f *fakeDriverService) ListPendingRides(caller authgw.User) (dto.PendingRidesResponseDto, error) {
	return dto.PendingRidesResponseDto{}, f.err
}

func (f *fakeDriverService) OnRideRequested(event events.RideRequested) error { return nil }
func (f *fakeDriverService) OnRoleUpdated(event events.UserRoleUpdated) error { return nil }

func newHandler(svc *fakeDriverService) *DriverHandler {
	return NewDriverHandler(svc, mylogger.NewWithWriter("error", "driver-service", io.Discard))
}

// routed sends the request through a mux so path values resolve.
func routed(h http.HandlerFunc, pattern, method, target string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.Handle(pattern, h)

	req := httptest.NewRequest(method, target, nil)
	user := authgw.User{ID: "d1", Username: "bob", Role: authgw.RoleDriver}
	req = req.WithContext(authgw.WithUser(req.Context(), user))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestAcceptRideUsesPathValue(t *testing.T) {
	svc := &fakeDriverService{ackResp: dto.AckResponseDto{Message: "ok", RideID: "ride-7"}}
	rec := routed(newHandler(svc).AcceptRide(), "POST /accept-ride/{rideId}", http.MethodPost, "/accept-ride/ride-7")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if svc.acceptedRideID != "ride-7" {
		t.Errorf("ride id not taken from the path, got %q", svc.acceptedRideID)
	}
}

func TestAcceptRideWithoutIdentityIs401(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/accept-ride/ride-7", nil)
	newHandler(&fakeDriverService{}).AcceptRide()(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestDriverErrorsMapToStatuses(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{myerrors.ErrOnlyDrivers, http.StatusForbidden},
		{myerrors.ErrNotAssigned, http.StatusForbidden},
		{myerrors.ErrDriverNotFound, http.StatusNotFound},
		{myerrors.ErrDriverUnavailable, http.StatusConflict},
		{myerrors.ErrRideUnavailable, http.StatusConflict},
	}
	for _, tc := range cases {
		rec := routed(newHandler(&fakeDriverService{err: tc.err}).AcceptRide(),
			"POST /accept-ride/{rideId}", http.MethodPost, "/accept-ride/x")

		if rec.Code != tc.want {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.want, rec.Code)
		}
	}
}

func TestDriverStatusBody(t *testing.T) {
	rideID := "ride-1"
	svc := &fakeDriverService{statusResp: dto.DriverStatusResponseDto{
		Driver: dto.DriverSnapshotDto{ID: "d1", Username: "bob", CurrentRideID: &rideID},
	}}
	rec := routed(newHandler(svc).DriverStatus(), "GET /driver-status", http.MethodGet, "/driver-status")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp dto.DriverStatusResponseDto
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Driver.CurrentRideID == nil || *resp.Driver.CurrentRideID != "ride-1" {
		t.Errorf("unexpected snapshot: %+v", resp.Driver)
	}
}
