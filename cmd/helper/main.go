package main

import (
	"context"
	"fmt"
	"log"
	"time"
)

// The helper walks one ride through the whole system against locally
// running services: it registers a rider and a driver, requests a ride,
// lets the driver accept and complete it, and watches the rider's
// websocket feed along the way.
func main() {
	logger := &Logger{}
	httpc := NewHTTPClient(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	riderToken, err := signUp(httpc, riderCreds)
	if err != nil {
		log.Fatalf("rider signup failed: %v", err)
	}
	logger.Info("rider %s signed up", riderCreds.Username)

	driverToken, err := signUp(httpc, driverCreds)
	if err != nil {
		log.Fatalf("driver signup failed: %v", err)
	}

	// Promote the second account to driver; the role change is baked
	// into a fresh token.
	var promoted setRoleResponse
	err = httpc.DoJSON("POST", AuthBaseURL+"/set-role", driverToken,
		map[string]string{"username": driverCreds.Username, "role": "driver"}, &promoted)
	if err != nil {
		log.Fatalf("set-role failed: %v", err)
	}
	driverToken = promoted.Token
	logger.Info("driver %s promoted, role=%s", driverCreds.Username, promoted.User.Role)

	wsc := NewWebSocketClient(ctx, logger)
	if err := wsc.Connect(WSRidesURL, riderToken); err != nil {
		log.Fatalf("websocket connect failed: %v", err)
	}
	defer wsc.Close()
	go wsc.ReadNotifications()

	var requested requestRideResponse
	err = httpc.DoJSON("POST", RideBaseURL+"/request-ride", riderToken,
		map[string]string{"pickup": "Abay 10", "destination": "Dostyk 97"}, &requested)
	if err != nil {
		log.Fatalf("request-ride failed: %v", err)
	}
	rideID := requested.Ride.ID
	logger.Info("ride %s requested (%s -> %s)", rideID, requested.Ride.Pickup, requested.Ride.Destination)

	if err := waitForPendingRide(httpc, driverToken, rideID); err != nil {
		log.Fatalf("%v", err)
	}

	var accepted ackResponse
	err = httpc.DoJSON("POST", DriverBaseURL+"/accept-ride/"+rideID, driverToken, nil, &accepted)
	if err != nil {
		log.Fatalf("accept-ride failed: %v", err)
	}
	logger.Info("accepted: %s", accepted.Message)

	var status driverStatusResponse
	if err := httpc.DoJSON("GET", DriverBaseURL+"/driver-status", driverToken, nil, &status); err != nil {
		log.Fatalf("driver-status failed: %v", err)
	}
	logger.Info("driver busy: available=%v current_ride=%v", status.Driver.IsAvailable, deref(status.Driver.CurrentRideID))

	var completed ackResponse
	err = httpc.DoJSON("POST", DriverBaseURL+"/complete-ride/"+rideID, driverToken, nil, &completed)
	if err != nil {
		log.Fatalf("complete-ride failed: %v", err)
	}
	logger.Info("completed: %s", completed.Message)

	// Give the completion event time to reach the ride ledger.
	time.Sleep(EventSettleDelay)

	var final rideResponse
	if err := httpc.DoJSON("GET", RideBaseURL+"/ride/"+rideID, riderToken, nil, &final); err != nil {
		log.Fatalf("get ride failed: %v", err)
	}
	logger.Info("final state of ride %s: %s (driver %s)", rideID, final.Ride.Status, deref(final.Ride.DriverUsername))
}

// signUp registers the account if needed and logs in. Registration
// conflicts are fine, the helper is rerunnable.
func signUp(httpc *HTTPClient, creds Credentials) (string, error) {
	body := map[string]string{"username": creds.Username, "password": creds.Password}

	if err := httpc.DoJSON("POST", AuthBaseURL+"/register", "", body, nil); err != nil {
		httpc.logger.Warn("register %s: %v (continuing with login)", creds.Username, err)
	}

	var logged loginResponse
	if err := httpc.DoJSON("POST", AuthBaseURL+"/login", "", body, &logged); err != nil {
		return "", err
	}
	return logged.Token, nil
}

// waitForPendingRide polls the driver ledger until the requested ride
// shows up in its pending cache.
func waitForPendingRide(httpc *HTTPClient, driverToken, rideID string) error {
	for i := 0; i < PendingPollLimit; i++ {
		var available availableRidesResponse
		if err := httpc.DoJSON("GET", DriverBaseURL+"/available-rides", driverToken, nil, &available); err != nil {
			return fmt.Errorf("available-rides failed: %w", err)
		}
		for _, pr := range available.Rides {
			if pr.RideID == rideID {
				return nil
			}
		}
		time.Sleep(PendingPollDelay)
	}
	return fmt.Errorf("ride %s never reached the driver ledger", rideID)
}

func deref(s *string) string {
	if s == nil {
		return "<none>"
	}
	return *s
}
