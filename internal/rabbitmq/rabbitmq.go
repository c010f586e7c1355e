package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"ride-sharing/internal/config"
	"ride-sharing/internal/mylogger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	connectRetryDelay = 5 * time.Second
	reconnInterval    = 5 * time.Second
	publishTimeout    = 3 * time.Second
)

var ErrClosed = errors.New("amqp connection closed")

// Binding attaches a queue to a topic exchange by routing key.
type Binding struct {
	Exchange string
	Key      string
}

type ConsumeOptions struct {
	Prefetch     int
	QueueDurable bool
}

// RabbitMQ is a process-wide bus handle: one connection, one channel,
// topic exchanges declared on demand. Publishing and consuming survive
// broker restarts through the reconnect loop; startup failures after
// the bounded retry are fatal to the caller.
type RabbitMQ struct {
	ctx          context.Context
	cfg          config.RabbitMqconfig
	log          mylogger.Logger
	conn         *amqp.Connection
	ch           *amqp.Channel
	reconnecting bool
	mu           *sync.Mutex
}

func New(ctx context.Context, cfg config.RabbitMqconfig, log mylogger.Logger) (*RabbitMQ, error) {
	r := &RabbitMQ{
		ctx: ctx,
		cfg: cfg,
		log: log,
		mu:  &sync.Mutex{},
	}

	var lastErr error
	for i := 0; i < cfg.MaxRetries; i++ {
		if lastErr = r.connect(); lastErr == nil {
			return r, nil
		}
		r.log.Action("mb_connect").Error(fmt.Sprintf("rabbitmq connection attempt %d/%d failed", i+1, cfg.MaxRetries), lastErr)
		select {
		case <-time.After(connectRetryDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("rabbit connect after %d attempts: %w", cfg.MaxRetries, lastErr)
}

// PublishJSON marshals msg and publishes it on a topic exchange as a
// persistent message.
func (r *RabbitMQ) PublishJSON(ctx context.Context, exchange, routingKey string, msg any) error {
	if !r.IsAlive() {
		r.log.Action("publish").Error("amqp not alive", ErrClosed, "exchange", exchange, "routing_key", routingKey)
		go r.reconnect(r.ctx)
		return ErrClosed
	}
	// Snapshot the channel once; reconnect swaps r.ch under the mutex.
	ch := r.channel()
	if err := ensureExchange(ch, exchange); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	pubctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return ch.PublishWithContext(pubctx, exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

// Consume declares queueName, binds it per bindings, and returns a
// delivery channel that closes when ctx is done. Acking is always
// manual; handlers decide between Ack and Nack. If the broker channel
// dies, the subscription is re-established once the connection is back.
func (r *RabbitMQ) Consume(ctx context.Context, queueName string, bindings []Binding, opts ConsumeOptions) (<-chan amqp.Delivery, error) {
	deliveries, err := r.subscribe(queueName, bindings, opts)
	if err != nil {
		return nil, err
	}

	out := make(chan amqp.Delivery)
	resub := func() (<-chan amqp.Delivery, error) {
		return r.subscribe(queueName, bindings, opts)
	}
	go pumpDeliveries(ctx, out, deliveries, resub, reconnInterval, r.log)
	return out, nil
}

func (r *RabbitMQ) subscribe(queueName string, bindings []Binding, opts ConsumeOptions) (<-chan amqp.Delivery, error) {
	if !r.IsAlive() {
		return nil, ErrClosed
	}
	ch := r.channel()
	if _, err := ch.QueueDeclare(queueName, opts.QueueDurable, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("queue declare: %w", err)
	}
	for _, b := range bindings {
		if err := ensureExchange(ch, b.Exchange); err != nil {
			return nil, fmt.Errorf("declare exchange: %w", err)
		}
		if err := ch.QueueBind(queueName, b.Key, b.Exchange, false, nil); err != nil {
			return nil, fmt.Errorf("queue bind %s/%s: %w", b.Exchange, b.Key, err)
		}
	}
	if opts.Prefetch > 0 {
		if err := ch.Qos(opts.Prefetch, 0, false); err != nil {
			return nil, fmt.Errorf("qos: %w", err)
		}
	}
	deliveries, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("consume: %w", err)
	}
	return deliveries, nil
}

// pumpDeliveries forwards broker deliveries to out. When the source
// channel closes (broker restart), it keeps retrying resub until the
// subscription is restored, so consumers never go silently deaf.
func pumpDeliveries(
	ctx context.Context,
	out chan<- amqp.Delivery,
	deliveries <-chan amqp.Delivery,
	resub func() (<-chan amqp.Delivery, error),
	retry time.Duration,
	log mylogger.Logger,
) {
	defer close(out)
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-deliveries:
			if !ok {
				log.Action("consume_resubscribe").Warn("delivery channel closed, resubscribing")
				t := time.NewTicker(retry)
				deliveries = nil
				for deliveries == nil {
					select {
					case <-ctx.Done():
						t.Stop()
						return
					case <-t.C:
						d, err := resub()
						if err != nil {
							continue
						}
						deliveries = d
					}
				}
				t.Stop()
				log.Action("consume_resubscribe").Info("subscription restored")
				continue
			}
			select {
			case out <- m:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (r *RabbitMQ) IsAlive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn == nil || r.conn.IsClosed() {
		return false
	}
	if r.ch == nil || r.ch.IsClosed() {
		return false
	}
	return true
}

func (r *RabbitMQ) Close() error {
	if r.ch != nil && !r.ch.IsClosed() {
		if err := r.ch.Close(); err != nil {
			return fmt.Errorf("close channel: %w", err)
		}
	}
	if r.conn != nil && !r.conn.IsClosed() {
		if err := r.conn.Close(); err != nil {
			return fmt.Errorf("close connection: %w", err)
		}
	}
	return nil
}

func (r *RabbitMQ) channel() *amqp.Channel {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ch
}

func ensureExchange(ch *amqp.Channel, name string) error {
	return ch.ExchangeDeclare(name, "topic", true, false, false, false, nil)
}

func (r *RabbitMQ) connect() error {
	url := fmt.Sprintf("amqp://%s:%s@%s:%d/%s",
		r.cfg.User, r.cfg.Password, r.cfg.Host, r.cfg.Port, r.cfg.VHost,
	)
	conn, err := amqp.Dial(url)
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return err
	}
	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return err
	}

	// Observe closes so a broken connection is logged and repaired
	// instead of silently resumed.
	closed := conn.NotifyClose(make(chan *amqp.Error, 1))
	go func() {
		if amqpErr, ok := <-closed; ok && amqpErr != nil {
			r.log.Action("mb_conn_closed").Error("amqp connection closed", amqpErr)
			r.reconnect(r.ctx)
		}
	}()

	r.mu.Lock()
	r.conn = conn
	r.ch = ch
	r.mu.Unlock()
	return nil
}

func (r *RabbitMQ) reconnect(ctx context.Context) {
	r.mu.Lock()
	if r.reconnecting {
		r.mu.Unlock()
		return
	}
	r.reconnecting = true
	r.mu.Unlock()

	t := time.NewTicker(reconnInterval)
	l := r.log.Action("mb_reconnecting")

	for {
		select {
		case <-t.C:
			if err := r.connect(); err == nil {
				t.Stop()
				l.Action("mb_reconnection_completed").Info("reconnected")
				r.mu.Lock()
				r.reconnecting = false
				r.mu.Unlock()
				return
			}
			l.Info("reconnect failed")
		case <-ctx.Done():
			t.Stop()
			return
		}
	}
}
