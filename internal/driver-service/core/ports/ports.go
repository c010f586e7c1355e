package ports

import (
	"context"

	"ride-sharing/internal/authgw"
	"ride-sharing/internal/driver-service/core/domain/dto"
	"ride-sharing/internal/driver-service/core/domain/model"
	"ride-sharing/internal/events"
	"ride-sharing/internal/rabbitmq"

	amqp "github.com/rabbitmq/amqp091-go"
)

type IDriverRepo interface {
	// UpsertPendingRide inserts a pending cache entry; a duplicate ride
	// id is a no-op.
	UpsertPendingRide(ctx context.Context, ride model.PendingRide) error
	// UpsertDriver creates the entry available, or refreshes the
	// username only; it never touches an in-progress assignment.
	UpsertDriver(ctx context.Context, userID, username string) error
	// DeactivateIdleDriver marks the driver unavailable unless they
	// hold an active ride.
	DeactivateIdleDriver(ctx context.Context, userID string) error
	GetDriver(ctx context.Context, userID string) (model.DriverEntry, error)
	ListPendingRides(ctx context.Context) ([]model.PendingRide, error)
	// AcceptRide runs the lock-read-modify-commit transaction over the
	// driver row and the pending cache row, returning the driver's
	// stored username on commit.
	AcceptRide(ctx context.Context, driverID, rideID string) (string, error)
	// CompleteRide releases the assignment inside one transaction,
	// returning the driver's stored username on commit.
	CompleteRide(ctx context.Context, driverID, rideID string) (string, error)
}

type IDriverBroker interface {
	PublishJSON(ctx context.Context, exchange, routingKey string, msg any) error
}

type IBrokerConsumer interface {
	Consume(ctx context.Context, queueName string, bindings []rabbitmq.Binding, opts rabbitmq.ConsumeOptions) (<-chan amqp.Delivery, error)
}

type IDriverService interface {
	AcceptRide(caller authgw.User, rideID string) (dto.AckResponseDto, error)
	CompleteRide(caller authgw.User, rideID string) (dto.AckResponseDto, error)
	GetStatus(caller authgw.User) (dto.DriverStatusResponseDto, error)
	ListPendingRides(caller authgw.User) (dto.PendingRidesResponseDto, error)

	OnRideRequested(event events.RideRequested) error
	OnRoleUpdated(event events.UserRoleUpdated) error
}
