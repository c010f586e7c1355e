package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"ride-sharing/internal/driver-service/core/ports"
	"ride-sharing/internal/events"
	"ride-sharing/internal/mylogger"
	"ride-sharing/internal/observability"
	"ride-sharing/internal/rabbitmq"

	"github.com/rabbitmq/amqp091-go"
)

const serviceQueue = "driver_service_queue"

// Feed consumes ride announcements and role changes into the driver
// ledger. Both handlers are idempotent, so at-least-once delivery and
// arbitrary interleaving across routing keys are safe.
type Feed struct {
	ctx           context.Context
	log           mylogger.Logger
	consumer      ports.IBrokerConsumer
	driverService ports.IDriverService
}

func New(
	ctx context.Context,
	log mylogger.Logger,
	consumer ports.IBrokerConsumer,
	driverService ports.IDriverService,
) *Feed {
	return &Feed{
		ctx:           ctx,
		log:           log,
		consumer:      consumer,
		driverService: driverService,
	}
}

func (f *Feed) Run() error {
	ch, err := f.consumer.Consume(f.ctx, serviceQueue, []rabbitmq.Binding{
		{Exchange: events.RideEventsExchange, Key: events.KeyRideRequested},
		{Exchange: events.UserEventsExchange, Key: events.KeyUserRoleUpdated},
	}, rabbitmq.ConsumeOptions{Prefetch: 1, QueueDurable: true})
	if err != nil {
		return err
	}

	go f.work(ch)
	return nil
}

func (f *Feed) work(ch <-chan amqp091.Delivery) {
	for {
		select {
		case <-f.ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := f.handle(msg); err != nil {
				// Drop the message instead of looping on a poison one.
				f.log.Action("consume").Error("cannot process message", err, "routing_key", msg.RoutingKey)
				observability.EventsConsumed.WithLabelValues(msg.RoutingKey, "rejected").Inc()
				_ = msg.Nack(false, false)
				continue
			}
			observability.EventsConsumed.WithLabelValues(msg.RoutingKey, "applied").Inc()
			_ = msg.Ack(false)
		}
	}
}

func (f *Feed) handle(msg amqp091.Delivery) error {
	switch msg.RoutingKey {
	case events.KeyRideRequested:
		var event events.RideRequested
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			return fmt.Errorf("unmarshal ride request: %w", err)
		}
		return f.driverService.OnRideRequested(event)
	case events.KeyUserRoleUpdated:
		var event events.UserRoleUpdated
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			return fmt.Errorf("unmarshal role update: %w", err)
		}
		return f.driverService.OnRoleUpdated(event)
	default:
		return fmt.Errorf("unexpected routing key %q", msg.RoutingKey)
	}
}
