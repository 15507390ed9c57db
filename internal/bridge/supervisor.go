package bridge

import (
	"context"
	"fmt"
	"time"

	"github.com/nerrad567/sensor-bridge/internal/infrastructure/logging"
)

// SupervisorOptions configures a Supervisor.
type SupervisorOptions struct {
	Intake    *Intake
	Publisher *Publisher

	// Restart backoff bounds for the intake loop.
	RestartInitial time.Duration
	RestartMax     time.Duration

	Logger *logging.Logger
}

// Supervisor runs the pipeline and is the only component allowed to end
// the process. It restarts the intake loop with backoff when the radio
// fails, and returns an error only for conditions no amount of retrying
// can fix (today: repeated credential rejection from the broker).
type Supervisor struct {
	intake    *Intake
	publisher *Publisher
	retry     *backoff
	logger    *logging.Logger
}

// NewSupervisor creates a supervisor over an intake loop and a publisher.
func NewSupervisor(opts SupervisorOptions) *Supervisor {
	return &Supervisor{
		intake:    opts.Intake,
		publisher: opts.Publisher,
		retry:     newBackoff(opts.RestartInitial, opts.RestartMax),
		logger:    opts.Logger.With("component", "supervisor"),
	}
}

// Run starts the publisher and the intake loop and blocks until the
// context is cancelled or a fatal publisher error occurs. Context
// cancellation is a clean shutdown and returns nil; the caller is expected
// to Stop the publisher afterwards to flush the queue.
func (s *Supervisor) Run(ctx context.Context) error {
	s.publisher.Start(ctx)

	intakeDone := make(chan error, 1)
	var startedAt time.Time
	start := func() {
		startedAt = time.Now()
		go func() {
			intakeDone <- s.intake.Run(ctx)
		}()
	}
	start()

	for {
		select {
		case <-ctx.Done():
			return nil

		case err := <-s.publisher.Fatal():
			return fmt.Errorf("publisher: %w", err)

		case err := <-intakeDone:
			if ctx.Err() != nil {
				return nil
			}

			// A run that outlived the delay ceiling was a healthy one;
			// its failure starts a fresh backoff sequence rather than
			// paying for glitches weeks apart.
			if time.Since(startedAt) > s.retry.max {
				s.retry.Reset()
			}

			delay := s.retry.Next()
			s.logger.Error("intake failed, restarting",
				"error", err,
				"attempt", s.retry.Attempts(),
				"retry_in", delay,
			)

			select {
			case <-ctx.Done():
				return nil
			case err := <-s.publisher.Fatal():
				return fmt.Errorf("publisher: %w", err)
			case <-time.After(delay):
			}
			start()
		}
	}
}
