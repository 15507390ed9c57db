package mqtt

import (
	"errors"
	"fmt"
	"sync"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/eclipse/paho.mqtt.golang/packets"

	"github.com/nerrad567/sensor-bridge/internal/infrastructure/config"
)

// Client wraps paho.mqtt.golang for the bridge's publish-only use.
//
// Unlike a typical paho setup there is no automatic reconnection: Connect
// may be called repeatedly, and each call performs the complete connect
// sequence (TCP, TLS, CONNECT/CONNACK with credentials). The publisher
// component drives this from its own state machine.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Client struct {
	client pahomqtt.Client
	cfg    config.MQTTConfig

	connected bool
	connMu    sync.RWMutex

	// onConnectionLost is invoked when an established connection drops.
	onConnectionLost func(err error)
	callbackMu       sync.RWMutex
}

// NewClient creates a client ready to connect. No I/O happens until
// Connect is called.
func NewClient(cfg config.MQTTConfig) *Client {
	opts := buildClientOptions(cfg)

	c := &Client{cfg: cfg}

	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		c.handleConnectionLost(err)
	})

	c.client = pahomqtt.NewClient(opts)
	return c
}

// Connect performs one connection attempt against the broker.
//
// Returns:
//   - nil on success
//   - ErrNotAuthorized (wrapped) if the broker refused the credentials;
//     retrying with the same configuration cannot succeed
//   - ErrConnectFailed (wrapped) for retryable faults, including timeout
func (c *Client) Connect() error {
	token := c.client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrConnectFailed, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		if isAuthRefusal(err) {
			return fmt.Errorf("%w: %w", ErrNotAuthorized, err)
		}
		return fmt.Errorf("%w: %w", ErrConnectFailed, err)
	}

	c.connMu.Lock()
	c.connected = true
	c.connMu.Unlock()

	return nil
}

// isAuthRefusal reports whether a connect error is a credential or
// authorization rejection from the broker (CONNACK codes 4 and 5).
func isAuthRefusal(err error) bool {
	return errors.Is(err, packets.ErrorRefusedBadUsernameOrPassword) ||
		errors.Is(err, packets.ErrorRefusedNotAuthorised)
}

// handleConnectionLost marks the client disconnected and notifies the
// registered callback.
func (c *Client) handleConnectionLost(err error) {
	c.connMu.Lock()
	c.connected = false
	c.connMu.Unlock()

	c.callbackMu.RLock()
	callback := c.onConnectionLost
	c.callbackMu.RUnlock()
	if callback != nil {
		callback(err)
	}
}

// Publish sends a message to the specified topic.
//
// Parameters:
//   - topic: Full topic string (use the Topics builder)
//   - payload: Message payload
//   - qos: Quality of Service level (0, 1, or 2)
//   - retained: Whether the broker should keep the message for new subscribers
//
// Retained is true for every sensor reading the bridge publishes, so new
// subscribers immediately see the last known value per topic.
//
// Returns:
//   - error: nil on success, or wrapped error describing the failure
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	return nil
}

// Disconnect closes the connection, waiting up to quiesce milliseconds
// for in-flight messages to complete. Safe to call when not connected.
func (c *Client) Disconnect(quiesce uint) {
	c.client.Disconnect(quiesce)

	c.connMu.Lock()
	c.connected = false
	c.connMu.Unlock()
}

// IsConnected returns the current connection state.
func (c *Client) IsConnected() bool {
	c.connMu.RLock()
	defer c.connMu.RUnlock()
	return c.connected && c.client.IsConnected()
}

// SetOnConnectionLost sets a callback invoked when an established
// connection drops. The error describes why.
func (c *Client) SetOnConnectionLost(callback func(err error)) {
	c.callbackMu.Lock()
	c.onConnectionLost = callback
	c.callbackMu.Unlock()
}
