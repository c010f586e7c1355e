package services

import (
	"context"
	"time"

	"ride-sharing/internal/authgw"
	"ride-sharing/internal/events"
	"ride-sharing/internal/mylogger"
	"ride-sharing/internal/observability"
	"ride-sharing/internal/ride-service/core/domain/dto"
	"ride-sharing/internal/ride-service/core/domain/model"
	"ride-sharing/internal/ride-service/core/myerrors"
	"ride-sharing/internal/ride-service/core/ports"

	"github.com/google/uuid"
)

const repoTimeout = 15 * time.Second

type RidesService struct {
	ctx       context.Context
	mylog     mylogger.Logger
	ridesRepo ports.IRidesRepo
	broker    ports.IRidesBroker
	notifier  ports.IRideNotifier
}

func NewRidesService(
	ctx context.Context,
	log mylogger.Logger,
	ridesRepo ports.IRidesRepo,
	broker ports.IRidesBroker,
	notifier ports.IRideNotifier,
) ports.IRidesService {
	return &RidesService{
		ctx:       ctx,
		mylog:     log,
		ridesRepo: ridesRepo,
		broker:    broker,
		notifier:  notifier,
	}
}

func (rs *RidesService) RequestRide(caller authgw.User, req dto.RequestRideDto) (dto.RequestRideResponseDto, error) {
	log := rs.mylog.Action("RequestRide")

	if caller.Role != authgw.RoleRider {
		return dto.RequestRideResponseDto{}, myerrors.ErrOnlyRiders
	}
	if req.Pickup == "" || req.Destination == "" {
		return dto.RequestRideResponseDto{}, myerrors.ErrInvalidInput
	}

	now := time.Now().UTC()
	ride := model.Ride{
		ID:            uuid.NewString(),
		RiderUserID:   caller.ID,
		RiderUsername: caller.Username,
		Pickup:        req.Pickup,
		Destination:   req.Destination,
		Status:        model.StatusPending,
		RequestedAt:   now,
		UpdatedAt:     now,
	}

	ctx, cancel := context.WithTimeout(rs.ctx, repoTimeout)
	defer cancel()

	if err := rs.ridesRepo.Insert(ctx, ride); err != nil {
		log.Error("cannot insert ride", err)
		return dto.RequestRideResponseDto{}, err
	}

	// The row is durable; the announcement is best-effort. A lost event
	// means the ride stays invisible to drivers until re-published, a
	// duplicated one is absorbed by the idempotent consumer.
	event := events.RideRequested{
		ID:          ride.ID,
		UserID:      ride.RiderUserID,
		Username:    ride.RiderUsername,
		Pickup:      ride.Pickup,
		Destination: ride.Destination,
		Status:      ride.Status,
		CreatedAt:   ride.RequestedAt,
	}
	if err := rs.broker.PublishJSON(ctx, events.RideEventsExchange, events.KeyRideRequested, event); err != nil {
		log.Error("cannot publish ride request", err, "ride_id", ride.ID)
	} else {
		observability.EventsPublished.WithLabelValues(events.RideEventsExchange, events.KeyRideRequested).Inc()
		log.Info("ride request published", "ride_id", ride.ID)
	}

	return dto.RequestRideResponseDto{
		Message: "Ride request sent successfully",
		Ride:    dto.FromModel(ride),
	}, nil
}

func (rs *RidesService) ListRides(caller authgw.User) (dto.ListRidesResponseDto, error) {
	ctx, cancel := context.WithTimeout(rs.ctx, repoTimeout)
	defer cancel()

	var (
		rides []model.Ride
		err   error
	)
	switch caller.Role {
	case authgw.RoleRider:
		rides, err = rs.ridesRepo.ListByRider(ctx, caller.ID)
	case authgw.RoleDriver:
		rides, err = rs.ridesRepo.ListForDriver(ctx, caller.ID)
	default:
		rides, err = rs.ridesRepo.ListAll(ctx)
	}
	if err != nil {
		rs.mylog.Action("ListRides").Error("cannot list rides", err)
		return dto.ListRidesResponseDto{}, err
	}
	return dto.ListRidesResponseDto{Rides: dto.FromModels(rides)}, nil
}

func (rs *RidesService) GetRide(rideID string) (dto.RideResponseDto, error) {
	ctx, cancel := context.WithTimeout(rs.ctx, repoTimeout)
	defer cancel()

	ride, err := rs.ridesRepo.GetByID(ctx, rideID)
	if err != nil {
		return dto.RideResponseDto{}, err
	}
	return dto.RideResponseDto{Ride: dto.FromModel(ride)}, nil
}

// ApplyStatusUpdate is the internal entry point of the coordination
// protocol: it performs the guarded transition and, on success,
// publishes ride.<status> and notifies the rider. Conflicts are
// expected under concurrency and redelivery and surface as
// myerrors.ErrStateConflict.
func (rs *RidesService) ApplyStatusUpdate(upd dto.UpdateRideDto) (dto.UpdateRideResponseDto, error) {
	log := rs.mylog.Action("ApplyStatusUpdate")

	if upd.RideID == "" || upd.Status == "" {
		return dto.UpdateRideResponseDto{}, myerrors.ErrInvalidInput
	}
	if !model.ValidStatus(upd.Status) || upd.Status == model.StatusPending {
		return dto.UpdateRideResponseDto{}, myerrors.ErrInvalidStatus
	}
	if upd.Status == model.StatusAccepted && (upd.DriverID == "" || upd.DriverUsername == "") {
		return dto.UpdateRideResponseDto{}, myerrors.ErrMissingDriver
	}

	ctx, cancel := context.WithTimeout(rs.ctx, repoTimeout)
	defer cancel()

	ride, err := rs.ridesRepo.UpdateStatus(ctx, upd)
	if err != nil {
		return dto.UpdateRideResponseDto{}, err
	}

	if routingKey, ok := events.KeyForRideStatus(ride.Status); ok {
		if err := rs.broker.PublishJSON(ctx, events.RideEventsExchange, routingKey, dto.FromModel(ride)); err != nil {
			log.Error("cannot publish ride update", err, "ride_id", ride.ID, "status", ride.Status)
		} else {
			observability.EventsPublished.WithLabelValues(events.RideEventsExchange, routingKey).Inc()
		}
	}

	if rs.notifier != nil {
		rs.notifier.NotifyRideUpdate(ride)
	}

	log.Info("ride updated", "ride_id", ride.ID, "status", ride.Status)
	return dto.UpdateRideResponseDto{
		Message: "Ride updated successfully",
		Ride:    dto.FromModel(ride),
	}, nil
}
