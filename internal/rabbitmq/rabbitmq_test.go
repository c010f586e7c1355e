package rabbitmq

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"ride-sharing/internal/mylogger"
)

func testLogger() mylogger.Logger {
	return mylogger.NewWithWriter("error", "rabbitmq-test", io.Discard)
}

func TestPublishJSONClosedBroker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &RabbitMQ{ctx: ctx, log: testLogger(), mu: &sync.Mutex{}}
	if err := r.PublishJSON(context.Background(), "ride_events", "ride.requested", struct{}{}); err != ErrClosed {
		t.Fatalf("publish on dead broker: got %v, want ErrClosed", err)
	}
}

func TestChannelSnapshotRacesSwap(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &RabbitMQ{ctx: ctx, log: testLogger(), mu: &sync.Mutex{}}

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			r.mu.Lock()
			if i%2 == 0 {
				r.ch = &amqp.Channel{}
			} else {
				r.ch = nil
			}
			r.mu.Unlock()
		}
	}()

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				_ = r.channel()
				_ = r.IsAlive()
			}
		}()
	}

	time.Sleep(10 * time.Millisecond)
	close(stop)
	wg.Wait()
}

func TestPumpDeliveriesResubscribesAfterClose(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src1 := make(chan amqp.Delivery, 1)
	src2 := make(chan amqp.Delivery, 1)
	resub := func() (<-chan amqp.Delivery, error) {
		return src2, nil
	}

	out := make(chan amqp.Delivery)
	go pumpDeliveries(ctx, out, src1, resub, 5*time.Millisecond, testLogger())

	src1 <- amqp.Delivery{RoutingKey: "ride.action.accepted"}
	got := <-out
	if got.RoutingKey != "ride.action.accepted" {
		t.Fatalf("first delivery key: got %q", got.RoutingKey)
	}

	close(src1)
	src2 <- amqp.Delivery{RoutingKey: "ride.action.completed"}

	select {
	case got = <-out:
	case <-time.After(2 * time.Second):
		t.Fatal("no delivery after resubscribe")
	}
	if got.RoutingKey != "ride.action.completed" {
		t.Fatalf("post-restart delivery key: got %q", got.RoutingKey)
	}
}

func TestPumpDeliveriesClosesOutOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	src := make(chan amqp.Delivery)
	resub := func() (<-chan amqp.Delivery, error) { return src, nil }

	out := make(chan amqp.Delivery)
	go pumpDeliveries(ctx, out, src, resub, time.Millisecond, testLogger())

	cancel()
	select {
	case _, ok := <-out:
		if ok {
			t.Fatal("unexpected delivery after cancel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("out not closed after cancel")
	}
}
