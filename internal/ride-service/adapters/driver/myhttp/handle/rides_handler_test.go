package handle

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ride-sharing/internal/authgw"
	"ride-sharing/internal/mylogger"
	"ride-sharing/internal/ride-service/core/domain/dto"
	"ride-sharing/internal/ride-service/core/myerrors"
)

type fakeRidesService struct {
	requestResp dto.RequestRideResponseDto
	updateResp  dto.UpdateRideResponseDto
	updateIn    dto.UpdateRideDto
	err         error
}

func (f *fakeRidesService) RequestRide(caller authgw.User, req dto.RequestRideDto) (dto.RequestRideResponseDto, error) {
	return f.requestResp, f.err
}

func (f *fakeRidesService) ListRides(caller authgw.User) (dto.ListRidesResponseDto, error) {
	return dto.ListRidesResponseDto{}, f.err
}

func (f *fakeRidesService) GetRide(rideID string) (dto.RideResponseDto, error) {
	return dto.RideResponseDto{}, f.err
}

func (f *fakeRidesService) ApplyStatusUpdate(upd dto.UpdateRideDto) (dto.UpdateRideResponseDto, error) {
	f.updateIn = upd
	return f.updateResp, f.err
}

func newHandler(svc *fakeRidesService) *RidesHandler {
	return NewRidesHandler(svc, mylogger.NewWithWriter("error", "ride-service", io.Discard))
}

func authedRequest(method, target, body string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	user := authgw.User{ID: "r1", Username: "alice", Role: authgw.RoleRider}
	return r.WithContext(authgw.WithUser(r.Context(), user))
}

func TestRequestRideCreated(t *testing.T) {
	svc := &fakeRidesService{
		requestResp: dto.RequestRideResponseDto{
			Message: "Ride request sent successfully",
			Ride:    dto.RideDto{ID: "ride-1", Status: "pending"},
		},
	}
	rec := httptest.NewRecorder()
	newHandler(svc).RequestRide()(rec, authedRequest(http.MethodPost, "/request-ride", `{"pickup":"A","destination":"B"}`))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}
	var resp dto.RequestRideResponseDto
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Ride.ID != "ride-1" {
		t.Errorf("unexpected body: %+v", resp)
	}
}

func TestRequestRideWithoutIdentityIs401(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/request-ride", strings.NewReader(`{}`))
	newHandler(&fakeRidesService{}).RequestRide()(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequestRideMalformedBodyIs400(t *testing.T) {
	rec := httptest.NewRecorder()
	newHandler(&fakeRidesService{}).RequestRide()(rec, authedRequest(http.MethodPost, "/request-ride", `{broken`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestServiceErrorsMapToStatuses(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{myerrors.ErrInvalidInput, http.StatusBadRequest},
		{myerrors.ErrOnlyRiders, http.StatusForbidden},
		{myerrors.ErrRideNotFound, http.StatusNotFound},
		{myerrors.ErrStateConflict, http.StatusConflict},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		newHandler(&fakeRidesService{err: tc.err}).RequestRide()(rec, authedRequest(http.MethodPost, "/request-ride", `{}`))

		if rec.Code != tc.want {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.want, rec.Code)
		}
	}
}

func TestUpdateRideForwardsPayload(t *testing.T) {
	svc := &fakeRidesService{
		updateResp: dto.UpdateRideResponseDto{Message: "Ride updated successfully"},
	}
	rec := httptest.NewRecorder()
	body := `{"rideId":"ride-1","driverId":"d1","driverUsername":"bob","status":"accepted"}`
	req := httptest.NewRequest(http.MethodPost, "/internal/update-ride", strings.NewReader(body))
	newHandler(svc).UpdateRide()(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if svc.updateIn.RideID != "ride-1" || svc.updateIn.DriverUsername != "bob" || svc.updateIn.Status != "accepted" {
		t.Errorf("payload not forwarded: %+v", svc.updateIn)
	}
}

func TestUpdateRideConflictIs409(t *testing.T) {
	rec := httptest.NewRecorder()
	body := `{"rideId":"ride-1","status":"accepted","driverId":"d2","driverUsername":"eve"}`
	req := httptest.NewRequest(http.MethodPost, "/internal/update-ride", strings.NewReader(body))
	newHandler(&fakeRidesService{err: myerrors.ErrStateConflict}).UpdateRide()(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}
