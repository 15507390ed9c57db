package bridge

import (
	"context"
	"fmt"

	"github.com/nerrad567/sensor-bridge/internal/decode"
	"github.com/nerrad567/sensor-bridge/internal/infrastructure/logging"
)

// Scanner provides the live advertisement stream. Satisfied by
// *ble.Scanner; tests substitute a channel-backed fake.
//
// Subscribe starts (or restarts) scanning and returns a channel that the
// implementation closes when the scan ends for any reason other than
// context cancellation.
type Scanner interface {
	Subscribe(ctx context.Context) (<-chan decode.Advertisement, error)
}

// TaskSink receives publish tasks. Satisfied by *Publisher.
type TaskSink interface {
	Enqueue(task PublishTask) bool
}

// Intake is the ingestion loop: drain advertisements from the scanner,
// decode, dedup through the tracker, and hand publish tasks to the sink.
// Everything here is synchronous; backpressure ends at the sink's
// non-blocking enqueue.
type Intake struct {
	scanner  Scanner
	registry *decode.Registry
	tracker  *Tracker
	sink     TaskSink
	logger   *logging.Logger
}

// NewIntake wires the ingestion loop. The tracker is injected rather than
// owned so dedup state survives intake restarts.
func NewIntake(scanner Scanner, registry *decode.Registry, tracker *Tracker, sink TaskSink, logger *logging.Logger) *Intake {
	return &Intake{
		scanner:  scanner,
		registry: registry,
		tracker:  tracker,
		sink:     sink,
		logger:   logger.With("component", "intake"),
	}
}

// Run processes advertisements until the context is cancelled or the
// stream ends. A closed stream returns an error wrapping ErrScanTerminated;
// the caller decides whether to restart.
func (in *Intake) Run(ctx context.Context) error {
	ads, err := in.scanner.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("%w: subscribing: %v", ErrScanTerminated, err)
	}
	in.logger.Info("scan started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case adv, ok := <-ads:
			if !ok {
				return fmt.Errorf("%w: advertisement stream closed", ErrScanTerminated)
			}
			in.handle(adv)
		}
	}
}

func (in *Intake) handle(adv decode.Advertisement) {
	reading, outcome := in.registry.Decode(adv)
	switch outcome {
	case decode.OutcomeUnrecognized:
		// Almost everything on the air is foreign traffic; stay silent.
		return
	case decode.OutcomeMalformed:
		in.logger.Debug("malformed advertisement",
			"address", adv.Address,
			"name", adv.LocalName,
		)
		return
	}

	for _, task := range in.tracker.Observe(reading) {
		in.sink.Enqueue(task)
	}
}
