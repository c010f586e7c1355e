package model

import "time"

const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Ride is the authoritative ride row. Transitions are monotonic along
// pending→accepted→{ongoing→}completed or pending→cancelled, and the
// driver identity is non-nil exactly when the ride has been accepted.
type Ride struct {
	ID             string
	RiderUserID    string
	RiderUsername  string
	Pickup         string
	Destination    string
	Status         string
	DriverID       *string
	DriverUsername *string
	RequestedAt    time.Time
	AcceptedAt     *time.Time
	StartedAt      *time.Time
	CompletedAt    *time.Time
	UpdatedAt      time.Time
}

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusAccepted, StatusOngoing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
