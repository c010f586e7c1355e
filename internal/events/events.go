// Package events defines the envelopes carried on the bus and the
// exchange/routing-key vocabulary shared by all services. Delivery is
// at-least-once and unordered across keys; every consumer of these
// payloads must be idempotent.
package events

import "time"

const (
	RideEventsExchange        = "ride_events"
	UserEventsExchange        = "user_events"
	DriverRideActionsExchange = "driver_ride_actions"
)

const (
	KeyRideRequested = "ride.requested"
	KeyRideAccepted  = "ride.accepted"
	KeyRideOngoing   = "ride.ongoing"
	KeyRideCompleted = "ride.completed"
	KeyRideCancelled = "ride.cancelled"

	KeyUserRoleUpdated = "user.role.updated"

	KeyRideActionAccepted  = "ride.action.accepted"
	KeyRideActionCompleted = "ride.action.completed"
	// Matches every ride.action.* key on a topic exchange.
	KeyRideActionAny = "ride.action.*"
)

// KeyForRideStatus maps a ride status to its routing key. The second
// return is false for statuses that never go on the bus.
func KeyForRideStatus(status string) (string, bool) {
	switch status {
	case "accepted":
		return KeyRideAccepted, true
	case "ongoing":
		return KeyRideOngoing, true
	case "completed":
		return KeyRideCompleted, true
	case "cancelled":
		return KeyRideCancelled, true
	}
	return "", false
}

// RideRequested announces a new pending ride to the driver ledger.
type RideRequested struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Username    string    `json:"username"`
	Pickup      string    `json:"pickup"`
	Destination string    `json:"destination"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UserRoleUpdated is published by the auth service whenever a user's
// role changes.
type UserRoleUpdated struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// DriverAction reports a committed accept/complete from the driver
// ledger back to the ride ledger.
type DriverAction struct {
	RideID         string    `json:"rideId"`
	DriverID       string    `json:"driverId"`
	DriverUsername string    `json:"driverUsername"`
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
}
