package dto

import (
	"time"

	"ride-sharing/internal/ride-service/core/domain/model"
)

type RequestRideDto struct {
	Pickup      string `json:"pickup"`
	Destination string `json:"destination"`
}

// UpdateRideDto is the internal status-update contract; it arrives
// either over POST /internal/update-ride or as a ride.action.* event.
type UpdateRideDto struct {
	RideID         string `json:"rideId"`
	DriverID       string `json:"driverId,omitempty"`
	DriverUsername string `json:"driverUsername,omitempty"`
	Status         string `json:"status"`
}

type RideDto struct {
	ID             string     `json:"id"`
	RiderUserID    string     `json:"riderUserId"`
	RiderUsername  string     `json:"riderUsername"`
	Pickup         string     `json:"pickup"`
	Destination    string     `json:"destination"`
	Status         string     `json:"status"`
	DriverID       *string    `json:"driverId"`
	DriverUsername *string    `json:"driverUsername"`
	RequestedAt    time.Time  `json:"requestedAt"`
	AcceptedAt     *time.Time `json:"acceptedAt"`
	StartedAt      *time.Time `json:"startedAt"`
	CompletedAt    *time.Time `json:"completedAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

type RequestRideResponseDto struct {
	Message string  `json:"message"`
	Ride    RideDto `json:"ride"`
}

type ListRidesResponseDto struct {
	Rides []RideDto `json:"rides"`
}

type RideResponseDto struct {
	Ride RideDto `json:"ride"`
}

type UpdateRideResponseDto struct {
	Message string  `json:"message"`
	Ride    RideDto `json:"ride"`
}

func FromModel(m model.Ride) RideDto {
	return RideDto{
		ID:             m.ID,
		RiderUserID:    m.RiderUserID,
		RiderUsername:  m.RiderUsername,
		Pickup:         m.Pickup,
		Destination:    m.Destination,
		Status:         m.Status,
		DriverID:       m.DriverID,
		DriverUsername: m.DriverUsername,
		RequestedAt:    m.RequestedAt,
		AcceptedAt:     m.AcceptedAt,
		StartedAt:      m.StartedAt,
		CompletedAt:    m.CompletedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func FromModels(ms []model.Ride) []RideDto {
	out := make([]RideDto, 0, len(ms))
	for _, m := range ms {
		out = append(out, FromModel(m))
	}
	return out
}
