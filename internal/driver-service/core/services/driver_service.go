package services

import (
	"context"
	"errors"
	"time"

	"ride-sharing/internal/authgw"
	"ride-sharing/internal/driver-service/core/domain/dto"
	"ride-sharing/internal/driver-service/core/domain/model"
	"ride-sharing/internal/driver-service/core/myerrors"
	"ride-sharing/internal/driver-service/core/ports"
	"ride-sharing/internal/events"
	"ride-sharing/internal/mylogger"
	"ride-sharing/internal/observability"
)

const repoTimeout = 15 * time.Second

type DriverService struct {
	ctx        context.Context
	mylog      mylogger.Logger
	driverRepo ports.IDriverRepo
	broker     ports.IDriverBroker
}

func NewDriverService(
	ctx context.Context,
	log mylogger.Logger,
	driverRepo ports.IDriverRepo,
	broker ports.IDriverBroker,
) ports.IDriverService {
	return &DriverService{
		ctx:        ctx,
		mylog:      log,
		driverRepo: driverRepo,
		broker:     broker,
	}
}

// AcceptRide is the linearization point of the whole system: the repo
// transaction locks the driver row and the cached ride row, so exactly
// one accept call can win the race for a given ride id. The action
// event goes out only after the commit.
func (ds *DriverService) AcceptRide(caller authgw.User, rideID string) (dto.AckResponseDto, error) {
	log := ds.mylog.Action("AcceptRide").With("driver_id", caller.ID, "ride_id", rideID)

	if caller.Role != authgw.RoleDriver {
		return dto.AckResponseDto{}, myerrors.ErrOnlyDrivers
	}

	ctx, cancel := context.WithTimeout(ds.ctx, repoTimeout)
	defer cancel()

	driverUsername, err := ds.driverRepo.AcceptRide(ctx, caller.ID, rideID)
	if err != nil {
		if errors.Is(err, myerrors.ErrDriverUnavailable) || errors.Is(err, myerrors.ErrRideUnavailable) {
			observability.RideAcceptConflicts.Inc()
		}
		return dto.AckResponseDto{}, err
	}

	ds.publishAction(ctx, log, events.KeyRideActionAccepted, events.DriverAction{
		RideID:         rideID,
		DriverID:       caller.ID,
		DriverUsername: driverUsername,
		Status:         "accepted",
		Timestamp:      time.Now().UTC(),
	})

	log.Info("ride accepted")
	return dto.AckResponseDto{
		Message: "Ride accepted, status update will be eventual",
		RideID:  rideID,
	}, nil
}

func (ds *DriverService) CompleteRide(caller authgw.User, rideID string) (dto.AckResponseDto, error) {
	log := ds.mylog.Action("CompleteRide").With("driver_id", caller.ID, "ride_id", rideID)

	if caller.Role != authgw.RoleDriver {
		return dto.AckResponseDto{}, myerrors.ErrOnlyDrivers
	}

	ctx, cancel := context.WithTimeout(ds.ctx, repoTimeout)
	defer cancel()

	driverUsername, err := ds.driverRepo.CompleteRide(ctx, caller.ID, rideID)
	if err != nil {
		return dto.AckResponseDto{}, err
	}

	ds.publishAction(ctx, log, events.KeyRideActionCompleted, events.DriverAction{
		RideID:         rideID,
		DriverID:       caller.ID,
		DriverUsername: driverUsername,
		Status:         "completed",
		Timestamp:      time.Now().UTC(),
	})

	log.Info("ride completed")
	return dto.AckResponseDto{
		Message: "Ride completed successfully",
		RideID:  rideID,
	}, nil
}

func (ds *DriverService) GetStatus(caller authgw.User) (dto.DriverStatusResponseDto, error) {
	if caller.Role != authgw.RoleDriver {
		return dto.DriverStatusResponseDto{}, myerrors.ErrOnlyDrivers
	}

	ctx, cancel := context.WithTimeout(ds.ctx, repoTimeout)
	defer cancel()

	driver, err := ds.driverRepo.GetDriver(ctx, caller.ID)
	if errors.Is(err, myerrors.ErrDriverNotFound) {
		// The role event may not have materialized the entry yet; a
		// fresh driver is available with no ride, not an error.
		return dto.DriverStatusResponseDto{
			Driver: dto.DriverSnapshotDto{
				ID:          caller.ID,
				Username:    caller.Username,
				IsAvailable: true,
			},
		}, nil
	}
	if err != nil {
		return dto.DriverStatusResponseDto{}, err
	}
	return dto.DriverStatusResponseDto{Driver: dto.SnapshotFromModel(driver)}, nil
}

func (ds *DriverService) ListPendingRides(caller authgw.User) (dto.PendingRidesResponseDto, error) {
	if caller.Role != authgw.RoleDriver {
		return dto.PendingRidesResponseDto{}, myerrors.ErrOnlyDrivers
	}

	ctx, cancel := context.WithTimeout(ds.ctx, repoTimeout)
	defer cancel()

	rides, err := ds.driverRepo.ListPendingRides(ctx)
	if err != nil {
		ds.mylog.Action("ListPendingRides").Error("cannot list pending rides", err)
		return dto.PendingRidesResponseDto{}, err
	}
	return dto.PendingRidesResponseDto{Rides: dto.PendingFromModels(rides)}, nil
}

// OnRideRequested caches a ride announcement. Redelivery is a no-op.
func (ds *DriverService) OnRideRequested(event events.RideRequested) error {
	ctx, cancel := context.WithTimeout(ds.ctx, repoTimeout)
	defer cancel()

	err := ds.driverRepo.UpsertPendingRide(ctx, model.PendingRide{
		RideID:        event.ID,
		RiderID:       event.UserID,
		RiderUsername: event.Username,
		Pickup:        event.Pickup,
		Destination:   event.Destination,
		Status:        "pending",
		RequestedAt:   event.CreatedAt,
	})
	if err != nil {
		return err
	}
	ds.mylog.Action("OnRideRequested").Info("ride cached as pending", "ride_id", event.ID)
	return nil
}

// OnRoleUpdated materializes or refreshes the driver entry. A role
// change away from driver stops new work but never breaks an active
// assignment: the entry is only deactivated while idle.
func (ds *DriverService) OnRoleUpdated(event events.UserRoleUpdated) error {
	log := ds.mylog.Action("OnRoleUpdated").With("user_id", event.ID, "role", event.Role)

	ctx, cancel := context.WithTimeout(ds.ctx, repoTimeout)
	defer cancel()

	if event.Role == authgw.RoleDriver {
		if err := ds.driverRepo.UpsertDriver(ctx, event.ID, event.Username); err != nil {
			return err
		}
		log.Info("driver registered/updated")
		return nil
	}

	if err := ds.driverRepo.DeactivateIdleDriver(ctx, event.ID); err != nil {
		return err
	}
	log.Info("driver deactivated if idle")
	return nil
}

func (ds *DriverService) publishAction(ctx context.Context, log mylogger.Logger, routingKey string, action events.DriverAction) {
	if err := ds.broker.PublishJSON(ctx, events.DriverRideActionsExchange, routingKey, action); err != nil {
		// The local commit already happened; the ride ledger converges
		// once the event is re-published or reconciled.
		log.Error("cannot publish driver action", err, "routing_key", routingKey)
		return
	}
	observability.EventsPublished.WithLabelValues(events.DriverRideActionsExchange, routingKey).Inc()
}
