package bridge

import "errors"

// Domain-specific errors for the pipeline.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrScanTerminated is returned by Intake.Run when the radio
	// subscription ends. The intake loop never retries on its own;
	// restart policy is centralised in the Supervisor.
	ErrScanTerminated = errors.New("bridge: scan subscription terminated")

	// ErrAuthRejected is reported through Publisher.Fatal when the broker
	// repeatedly refuses the configured credentials. It is process-fatal:
	// backoff cannot fix bad configuration.
	ErrAuthRejected = errors.New("bridge: broker rejected credentials repeatedly")
)
