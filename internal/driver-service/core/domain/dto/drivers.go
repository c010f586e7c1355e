package dto

import (
	"time"

	"ride-sharing/internal/driver-service/core/domain/model"
)

type DriverSnapshotDto struct {
	ID             string  `json:"id"`
	Username       string  `json:"username"`
	IsAvailable    bool    `json:"is_available"`
	CurrentRideID  *string `json:"current_ride_id"`
	VehicleDetails *string `json:"vehicle_details"`
}

type DriverStatusResponseDto struct {
	Driver DriverSnapshotDto `json:"driver"`
}

type PendingRideDto struct {
	RideID        string    `json:"ride_id"`
	RiderID       string    `json:"rider_id"`
	RiderUsername string    `json:"rider_username"`
	Pickup        string    `json:"pickup_location"`
	Destination   string    `json:"destination_location"`
	Status        string    `json:"status"`
	RequestedAt   time.Time `json:"requested_at"`
}

type PendingRidesResponseDto struct {
	Rides []PendingRideDto `json:"rides"`
}

type AckResponseDto struct {
	Message string `json:"message"`
	RideID  string `json:"rideId"`
}

func SnapshotFromModel(m model.DriverEntry) DriverSnapshotDto {
	return DriverSnapshotDto{
		ID:             m.UserID,
		Username:       m.Username,
		IsAvailable:    m.IsAvailable,
		CurrentRideID:  m.CurrentRideID,
		VehicleDetails: m.VehicleDetails,
	}
}

func PendingFromModels(ms []model.PendingRide) []PendingRideDto {
	out := make([]PendingRideDto, 0, len(ms))
	for _, m := range ms {
		out = append(out, PendingRideDto{
			RideID:        m.RideID,
			RiderID:       m.RiderID,
			RiderUsername: m.RiderUsername,
			Pickup:        m.Pickup,
			Destination:   m.Destination,
			Status:        m.Status,
			RequestedAt:   m.RequestedAt,
		})
	}
	return out
}
