package ports

import (
	"context"

	"ride-sharing/internal/authgw"
	"ride-sharing/internal/rabbitmq"
	"ride-sharing/internal/ride-service/core/domain/dto"
	"ride-sharing/internal/ride-service/core/domain/model"

	amqp "github.com/rabbitmq/amqp091-go"
)

type IRidesRepo interface {
	Insert(ctx context.Context, ride model.Ride) error
	GetByID(ctx context.Context, rideID string) (model.Ride, error)
	ListByRider(ctx context.Context, riderUserID string) ([]model.Ride, error)
	// ListForDriver returns rides assigned to the driver plus rides
	// still pending and unassigned.
	ListForDriver(ctx context.Context, driverID string) ([]model.Ride, error)
	ListAll(ctx context.Context) ([]model.Ride, error)
	// UpdateStatus performs the guarded compare-and-swap transition and
	// returns the updated row; zero rows affected is ErrStateConflict.
	UpdateStatus(ctx context.Context, upd dto.UpdateRideDto) (model.Ride, error)
}

type IRidesBroker interface {
	PublishJSON(ctx context.Context, exchange, routingKey string, msg any) error
}

type IBrokerConsumer interface {
	Consume(ctx context.Context, queueName string, bindings []rabbitmq.Binding, opts rabbitmq.ConsumeOptions) (<-chan amqp.Delivery, error)
}

// IRideNotifier pushes lifecycle updates to connected riders.
type IRideNotifier interface {
	NotifyRideUpdate(ride model.Ride)
}

type IRidesService interface {
	RequestRide(caller authgw.User, req dto.RequestRideDto) (dto.RequestRideResponseDto, error)
	ListRides(caller authgw.User) (dto.ListRidesResponseDto, error)
	GetRide(rideID string) (dto.RideResponseDto, error)
	ApplyStatusUpdate(upd dto.UpdateRideDto) (dto.UpdateRideResponseDto, error)
}
