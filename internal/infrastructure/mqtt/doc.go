// Package mqtt provides the broker client for the sensor bridge.
//
// This package wraps paho.mqtt.golang with the narrow surface the bridge
// needs: connect, retained publish, and graceful disconnect. The bridge is
// publish-only: sensors are broadcast-only peripherals and nothing is ever
// commanded back, so there is deliberately no subscribe support.
//
// # Reconnection
//
// Paho's automatic reconnection is disabled. The publisher component owns
// reconnection as explicit state (current delay, attempt count) so the
// policy is deterministic and unit-testable, and so every reconnect
// re-establishes TLS and authentication exactly like the initial connect.
// Connect may therefore be called repeatedly on the same Client.
//
// # Topic contract
//
// Published topics follow the scheme
//
//	<prefix>/<brand>/<address>/<field>
//
// with the hardware address in lowercase colon-separated form. This is a
// stable contract consumed by downstream subscribers; the Topics builder
// is the only place the scheme is spelled out.
//
// # Security
//
//   - TLS (minimum 1.2) is enabled via config for production brokers
//   - Credentials are sent on every connect; nothing is cached
package mqtt
