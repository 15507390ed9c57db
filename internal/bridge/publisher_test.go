package bridge

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nerrad567/sensor-bridge/internal/infrastructure/mqtt"
)

type publishCall struct {
	topic    string
	payload  string
	qos      byte
	retained bool
}

// fakeBroker scripts connect/publish outcomes by call number (1-based).
type fakeBroker struct {
	mu          sync.Mutex
	connectErr  func(call int) error
	publishErr  func(call int) error
	connects    int
	publishes   int
	disconnects int
	connected   bool

	delivered chan publishCall
}

func newFakeBroker() *fakeBroker {
	return &fakeBroker{delivered: make(chan publishCall, 32)}
}

func (b *fakeBroker) Connect() error {
	b.mu.Lock()
	b.connects++
	call := b.connects
	b.mu.Unlock()

	if b.connectErr != nil {
		if err := b.connectErr(call); err != nil {
			return err
		}
	}
	b.mu.Lock()
	b.connected = true
	b.mu.Unlock()
	return nil
}

func (b *fakeBroker) Publish(topic string, payload []byte, qos byte, retained bool) error {
	b.mu.Lock()
	b.publishes++
	call := b.publishes
	b.mu.Unlock()

	if b.publishErr != nil {
		if err := b.publishErr(call); err != nil {
			return err
		}
	}
	b.delivered <- publishCall{topic: topic, payload: string(payload), qos: qos, retained: retained}
	return nil
}

func (b *fakeBroker) Disconnect(quiesce uint) {
	b.mu.Lock()
	b.disconnects++
	b.connected = false
	b.mu.Unlock()
}

func (b *fakeBroker) IsConnected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.connected
}

func newTestPublisher(broker Broker) *Publisher {
	return NewPublisher(PublisherOptions{
		Broker:            broker,
		QueueCapacity:     16,
		QoS:               1,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		AuthFatalAttempts: 3,
		Logger:            testLogger(),
	})
}

func awaitDelivery(t *testing.T, broker *fakeBroker) publishCall {
	t.Helper()
	select {
	case call := <-broker.delivered:
		return call
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
		return publishCall{}
	}
}

func stopPublisher(t *testing.T, p *Publisher) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := p.Stop(ctx); err != nil {
		t.Errorf("Stop: %v", err)
	}
}

func TestPublisherDeliversRetained(t *testing.T) {
	broker := newFakeBroker()
	p := newTestPublisher(broker)
	p.Start(context.Background())
	defer stopPublisher(t, p)

	p.Enqueue(task("sensors/govee/aa:bb:cc:dd:ee:ff/temperature", "23.0"))

	got := awaitDelivery(t, broker)
	if got.topic != "sensors/govee/aa:bb:cc:dd:ee:ff/temperature" {
		t.Errorf("topic = %q", got.topic)
	}
	if got.payload != "23.0" {
		t.Errorf("payload = %q, want %q", got.payload, "23.0")
	}
	if !got.retained {
		t.Error("publish not retained")
	}
	if got.qos != 1 {
		t.Errorf("qos = %d, want 1", got.qos)
	}
}

func TestPublisherBuffersBeforeConnect(t *testing.T) {
	broker := newFakeBroker()
	// First two connect attempts fail as a plain network error.
	broker.connectErr = func(call int) error {
		if call <= 2 {
			return mqtt.ErrConnectFailed
		}
		return nil
	}

	p := newTestPublisher(broker)
	p.Enqueue(task("a", "1"))
	p.Enqueue(task("b", "2"))
	p.Start(context.Background())
	defer stopPublisher(t, p)

	first := awaitDelivery(t, broker)
	second := awaitDelivery(t, broker)
	if first.topic != "a" || second.topic != "b" {
		t.Errorf("delivery order = %q, %q; want a, b", first.topic, second.topic)
	}
}

func TestPublisherRequeuesOnPublishFailure(t *testing.T) {
	broker := newFakeBroker()
	// First publish fails mid-flight, simulating a dropped connection.
	broker.publishErr = func(call int) error {
		if call == 1 {
			return mqtt.ErrPublishFailed
		}
		return nil
	}

	p := newTestPublisher(broker)
	p.Start(context.Background())
	defer stopPublisher(t, p)

	p.Enqueue(task("a", "1"))
	p.Enqueue(task("b", "2"))

	// The failed task is retried first; per-topic order holds.
	first := awaitDelivery(t, broker)
	second := awaitDelivery(t, broker)
	if first.topic != "a" || second.topic != "b" {
		t.Errorf("delivery order = %q, %q; want a, b", first.topic, second.topic)
	}

	broker.mu.Lock()
	connects := broker.connects
	disconnects := broker.disconnects
	broker.mu.Unlock()
	if connects < 2 {
		t.Errorf("expected a reconnect after publish failure, connects = %d", connects)
	}
	// The stale session must be torn down before reconnecting, or a
	// client that still thinks it is connected refuses the new attempt.
	if disconnects < 1 {
		t.Errorf("expected a disconnect before reconnecting, disconnects = %d", disconnects)
	}
}

func TestPublisherAuthRefusalIsFatal(t *testing.T) {
	broker := newFakeBroker()
	broker.connectErr = func(call int) error {
		return mqtt.ErrNotAuthorized
	}

	p := newTestPublisher(broker)
	p.Start(context.Background())
	defer stopPublisher(t, p)

	select {
	case err := <-p.Fatal():
		if !errors.Is(err, ErrAuthRejected) {
			t.Errorf("fatal error = %v, want ErrAuthRejected", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("publisher never reported fatal auth error")
	}
}

func TestPublisherTransientAuthRefusalRecovers(t *testing.T) {
	broker := newFakeBroker()
	// One refusal below the fatal threshold, then the broker relents
	// (e.g. an ACL reload mid-flight).
	broker.connectErr = func(call int) error {
		if call == 1 {
			return mqtt.ErrNotAuthorized
		}
		return nil
	}

	p := newTestPublisher(broker)
	p.Start(context.Background())
	defer stopPublisher(t, p)

	p.Enqueue(task("a", "1"))
	if got := awaitDelivery(t, broker); got.topic != "a" {
		t.Errorf("topic = %q, want a", got.topic)
	}

	select {
	case err := <-p.Fatal():
		t.Errorf("unexpected fatal error: %v", err)
	default:
	}
}

func TestPublisherStopFlushesAndDisconnects(t *testing.T) {
	broker := newFakeBroker()
	p := newTestPublisher(broker)
	p.Start(context.Background())

	p.Enqueue(task("a", "1"))
	p.Enqueue(task("b", "2"))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := p.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	if len(broker.delivered) != 2 {
		t.Errorf("flushed %d tasks, want 2", len(broker.delivered))
	}
	if broker.IsConnected() {
		t.Error("broker still connected after Stop")
	}
	if p.Enqueue(task("c", "3")) {
		t.Error("Enqueue succeeded after Stop")
	}
	if p.State() != "terminated" {
		t.Errorf("state = %q, want terminated", p.State())
	}
}

func TestPublisherFlushesAfterParentCancel(t *testing.T) {
	broker := newFakeBroker()
	var reachable atomic.Bool
	broker.connectErr = func(int) error {
		if !reachable.Load() {
			return mqtt.ErrConnectFailed
		}
		return nil
	}

	// The production wiring hands Start the process signal context.
	ctx, cancel := context.WithCancel(context.Background())
	p := newTestPublisher(broker)
	p.Start(ctx)

	// Tasks accumulate while the broker is down.
	p.Enqueue(task("a", "1"))
	p.Enqueue(task("b", "2"))

	// Shutdown begins, and the broker comes back within the grace window.
	cancel()
	reachable.Store(true)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	if err := p.Stop(stopCtx); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	first := awaitDelivery(t, broker)
	second := awaitDelivery(t, broker)
	if first.topic != "a" || second.topic != "b" {
		t.Errorf("flush order = %q, %q; want a, b", first.topic, second.topic)
	}
}

func TestPublisherStopGraceExpiryDropsQueue(t *testing.T) {
	broker := newFakeBroker()
	broker.connectErr = func(int) error { return mqtt.ErrConnectFailed }

	p := newTestPublisher(broker)
	p.Start(context.Background())
	p.Enqueue(task("a", "1"))

	stopCtx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := p.Stop(stopCtx); err == nil {
		t.Error("Stop should report the unflushed queue when the broker stays unreachable")
	}
	if p.State() != "terminated" {
		t.Errorf("state = %q, want terminated", p.State())
	}
}
