package mqtt

import "errors"

// Domain-specific errors for MQTT operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNotConnected is returned when attempting operations on a disconnected client.
	ErrNotConnected = errors.New("mqtt: client not connected")

	// ErrConnectFailed is returned when a connection attempt fails for a
	// retryable reason (broker down, network fault, timeout).
	ErrConnectFailed = errors.New("mqtt: connection failed")

	// ErrNotAuthorized is returned when the broker refuses the connection
	// for credential or authorization reasons. Retrying does not help;
	// callers should escalate after a small number of attempts.
	ErrNotAuthorized = errors.New("mqtt: broker refused credentials")

	// ErrPublishFailed is returned when a publish operation fails.
	ErrPublishFailed = errors.New("mqtt: publish failed")

	// ErrInvalidTopic is returned when an empty topic is provided.
	ErrInvalidTopic = errors.New("mqtt: topic cannot be empty")

	// ErrInvalidQoS is returned when an invalid QoS level is specified.
	// Valid QoS levels are 0, 1, or 2.
	ErrInvalidQoS = errors.New("mqtt: invalid QoS level (must be 0, 1, or 2)")
)
