package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"ride-sharing/internal/events"
	"ride-sharing/internal/mylogger"
	"ride-sharing/internal/observability"
	"ride-sharing/internal/rabbitmq"
	"ride-sharing/internal/ride-service/core/domain/dto"
	"ride-sharing/internal/ride-service/core/myerrors"
	"ride-sharing/internal/ride-service/core/ports"

	"github.com/rabbitmq/amqp091-go"
)

const actionsQueue = "ride_service_actions"

// Actions feeds committed driver actions back into the ride ledger,
// closing the choreography loop.
type Actions struct {
	ctx         context.Context
	log         mylogger.Logger
	consumer    ports.IBrokerConsumer
	rideService ports.IRidesService
}

func New(
	ctx context.Context,
	log mylogger.Logger,
	consumer ports.IBrokerConsumer,
	rideService ports.IRidesService,
) *Actions {
	return &Actions{
		ctx:         ctx,
		log:         log,
		consumer:    consumer,
		rideService: rideService,
	}
}

func (a *Actions) Run() error {
	ch, err := a.consumer.Consume(a.ctx, actionsQueue, []rabbitmq.Binding{
		{Exchange: events.DriverRideActionsExchange, Key: events.KeyRideActionAny},
	}, rabbitmq.ConsumeOptions{Prefetch: 1, QueueDurable: true})
	if err != nil {
		return err
	}

	go a.work(ch)
	return nil
}

func (a *Actions) work(ch <-chan amqp091.Delivery) {
	for {
		select {
		case <-a.ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			a.handle(msg)
		}
	}
}

func (a *Actions) handle(msg amqp091.Delivery) {
	log := a.log.Action("consume_driver_action").With("routing_key", msg.RoutingKey)

	var action events.DriverAction
	if err := json.Unmarshal(msg.Body, &action); err != nil {
		// Poison message: drop it, do not requeue.
		log.Error("cannot unmarshal driver action", err)
		observability.EventsConsumed.WithLabelValues(msg.RoutingKey, "rejected").Inc()
		_ = msg.Nack(false, false)
		return
	}

	_, err := a.rideService.ApplyStatusUpdate(dto.UpdateRideDto{
		RideID:         action.RideID,
		DriverID:       action.DriverID,
		DriverUsername: action.DriverUsername,
		Status:         action.Status,
	})
	switch {
	case err == nil:
		observability.EventsConsumed.WithLabelValues(msg.RoutingKey, "applied").Inc()
		_ = msg.Ack(false)
	case errors.Is(err, myerrors.ErrStateConflict):
		// Redelivery of an already-applied action; nothing to do.
		log.Info("driver action already applied", "ride_id", action.RideID, "status", action.Status)
		observability.EventsConsumed.WithLabelValues(msg.RoutingKey, "duplicate").Inc()
		_ = msg.Ack(false)
	default:
		log.Error("cannot apply driver action", err, "ride_id", action.RideID)
		observability.EventsConsumed.WithLabelValues(msg.RoutingKey, "rejected").Inc()
		_ = msg.Nack(false, false)
	}
}
