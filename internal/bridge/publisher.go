package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nerrad567/sensor-bridge/internal/infrastructure/logging"
	"github.com/nerrad567/sensor-bridge/internal/infrastructure/mqtt"
)

// disconnectQuiesce is how long a clean disconnect waits for in-flight
// network traffic, in milliseconds.
const disconnectQuiesce = 250

// Broker is the publisher's view of the MQTT client. Satisfied by
// *mqtt.Client; tests substitute a scripted fake.
type Broker interface {
	Connect() error
	Publish(topic string, payload []byte, qos byte, retained bool) error
	Disconnect(quiesce uint)
	IsConnected() bool
}

// connState is the publisher's connection lifecycle. Transitions:
// disconnected <-> connected, and either -> terminated (one-way).
type connState int8

const (
	stateDisconnected connState = iota
	stateConnected
	stateTerminated
)

func (s connState) String() string {
	switch s {
	case stateDisconnected:
		return "disconnected"
	case stateConnected:
		return "connected"
	case stateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// PublisherOptions configures a Publisher.
type PublisherOptions struct {
	Broker        Broker
	QueueCapacity int
	QoS           byte

	// Reconnect backoff bounds.
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// AuthFatalAttempts is how many consecutive authorization refusals
	// are tolerated before the publisher gives up for good.
	AuthFatalAttempts int

	Logger *logging.Logger
}

// Publisher drains the task queue to the broker from a single delivery
// goroutine. It owns the broker connection: connect, detect loss via
// failed publishes, and reconnect with backoff. All queued tasks are
// buffered across outages up to the queue capacity.
//
// Enqueue is non-blocking and safe to call from the intake loop at any
// point in the publisher's lifecycle.
type Publisher struct {
	broker Broker
	queue  *taskQueue
	retry  *backoff
	qos    byte

	authFatalAttempts int

	stateMu sync.RWMutex
	state   connState

	// fatal carries at most one unrecoverable error to the supervisor.
	fatal chan error

	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once

	logger *logging.Logger
}

// NewPublisher creates a publisher. No I/O happens until Start.
func NewPublisher(opts PublisherOptions) *Publisher {
	return &Publisher{
		broker:            opts.Broker,
		queue:             newTaskQueue(opts.QueueCapacity),
		retry:             newBackoff(opts.InitialBackoff, opts.MaxBackoff),
		qos:               opts.QoS,
		authFatalAttempts: opts.AuthFatalAttempts,
		fatal:             make(chan error, 1),
		logger:            opts.Logger.With("component", "publisher"),
	}
}

// Start launches the delivery goroutine. Call once.
//
// Cancelling ctx does not terminate delivery: it closes the queue so the
// loop drains what is buffered and exits on its own. Only Stop's grace
// expiry cancels the loop outright. This is what makes the shutdown flush
// reachable when Start is given the process signal context.
func (p *Publisher) Start(ctx context.Context) {
	loopCtx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	p.wg.Add(1)
	go p.deliverLoop(loopCtx)

	go func() {
		select {
		case <-ctx.Done():
			// Parent shutdown: refuse new tasks, let the loop drain.
			p.queue.Close()
		case <-loopCtx.Done():
		}
	}()
}

// Enqueue hands a task to the delivery queue. Never blocks; at capacity
// the oldest task for the same topic is dropped. Returns false after Stop.
func (p *Publisher) Enqueue(task PublishTask) bool {
	return p.queue.Enqueue(task)
}

// Fatal yields the publisher's unrecoverable error, if one occurs. The
// supervisor selects on this channel.
func (p *Publisher) Fatal() <-chan error {
	return p.fatal
}

// QueueDepth returns the number of tasks awaiting delivery.
func (p *Publisher) QueueDepth() int {
	return p.queue.Len()
}

// DroppedTasks returns how many tasks were evicted under backpressure.
func (p *Publisher) DroppedTasks() uint64 {
	return p.queue.Dropped()
}

// Stop flushes the queue and disconnects cleanly, bounded by ctx. Once the
// grace period expires the delivery loop is cancelled and remaining tasks
// are dropped; they are fresh sensor values that will be re-observed
// anyway. Idempotent.
func (p *Publisher) Stop(ctx context.Context) error {
	var err error
	p.stopOnce.Do(func() {
		p.queue.Close()

		done := make(chan struct{})
		go func() {
			p.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			err = fmt.Errorf("publisher flush: %w", ctx.Err())
			if p.cancel != nil {
				p.cancel()
			}
			<-done
		}

		if p.broker.IsConnected() {
			p.broker.Disconnect(disconnectQuiesce)
		}
		p.setState(stateTerminated)
		if p.cancel != nil {
			p.cancel()
		}
		p.logger.Info("publisher terminated",
			"dropped_total", p.queue.Dropped(),
		)
	})
	return err
}

// State returns the current connection state.
func (p *Publisher) State() string {
	p.stateMu.RLock()
	defer p.stateMu.RUnlock()
	return p.state.String()
}

func (p *Publisher) deliverLoop(ctx context.Context) {
	defer p.wg.Done()

	authFailures := 0
	for {
		if ctx.Err() != nil {
			return
		}

		if !p.isConnected() {
			if err := p.broker.Connect(); err != nil {
				if errors.Is(err, mqtt.ErrNotAuthorized) {
					authFailures++
					if authFailures >= p.authFatalAttempts {
						p.logger.Error("broker refused credentials, giving up",
							"attempts", authFailures,
						)
						p.fatal <- fmt.Errorf("%w: %v", ErrAuthRejected, err)
						return
					}
				} else {
					authFailures = 0
				}

				delay := p.retry.Next()
				p.logger.Warn("broker connect failed",
					"error", err,
					"attempt", p.retry.Attempts(),
					"retry_in", delay,
				)
				select {
				case <-ctx.Done():
					return
				case <-time.After(delay):
				}
				continue
			}

			authFailures = 0
			p.retry.Reset()
			p.setState(stateConnected)
			p.logger.Info("broker connected", "queue_depth", p.queue.Len())
		}

		task, ok := p.queue.Dequeue(ctx)
		if !ok {
			// Cancelled, or closed and drained.
			return
		}

		if err := p.broker.Publish(task.Topic, []byte(task.Payload), p.qos, true); err != nil {
			// Requeue at the front so per-topic order survives the outage.
			p.queue.Requeue(task)
			// Tear the session down before reconnecting: after a publish
			// timeout the underlying client may still consider itself
			// connected and would refuse a fresh Connect until keepalive
			// notices the dead link.
			p.broker.Disconnect(0)
			p.setState(stateDisconnected)
			p.logger.Warn("publish failed, reconnecting",
				"topic", task.Topic,
				"error", err,
			)
			continue
		}

		p.logger.Debug("published",
			"topic", task.Topic,
			"payload", task.Payload,
		)
	}
}

func (p *Publisher) isConnected() bool {
	p.stateMu.RLock()
	defer p.stateMu.RUnlock()
	return p.state == stateConnected
}

func (p *Publisher) setState(s connState) {
	p.stateMu.Lock()
	p.state = s
	p.stateMu.Unlock()
}
