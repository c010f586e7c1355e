package model

import "time"

// DriverEntry is the driver availability/assignment row. Soft state:
// created by the first role event naming the user a driver, never
// deleted. Invariant: a non-nil CurrentRideID implies IsAvailable is
// false, and a driver holds at most one CurrentRideID.
type DriverEntry struct {
	UserID         string
	Username       string
	IsAvailable    bool
	CurrentRideID  *string
	VehicleDetails *string
	UpdatedAt      time.Time
}

// PendingRide is the local, non-authoritative projection of a ride
// still open for accepting. Divergence from the ride ledger is expected
// and resolved by the event stream.
type PendingRide struct {
	RideID        string
	RiderID       string
	RiderUsername string
	Pickup        string
	Destination   string
	Status        string
	RequestedAt   time.Time
}
