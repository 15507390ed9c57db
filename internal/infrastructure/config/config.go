package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the sensor bridge.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Gateway   GatewayConfig   `yaml:"gateway"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	BLE       BLEConfig       `yaml:"ble"`
	Tracker   TrackerConfig   `yaml:"tracker"`
	Publisher PublisherConfig `yaml:"publisher"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// GatewayConfig contains bridge-wide identity settings.
type GatewayConfig struct {
	// TopicPrefix is the first segment of every published topic.
	// The full scheme is <prefix>/<brand>/<address>/<field>.
	TopicPrefix string `yaml:"topic_prefix"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker MQTTBrokerConfig `yaml:"broker"`
	Auth   MQTTAuthConfig   `yaml:"auth"`
	QoS    int              `yaml:"qos"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// BLEConfig contains advertisement scanning settings.
type BLEConfig struct {
	// BufferSize is the capacity of the advertisement channel between the
	// radio callback and the intake loop. Advertisements are dropped (not
	// queued) when the loop falls behind; sensors rebroadcast within seconds.
	BufferSize int `yaml:"buffer_size"`
}

// TrackerConfig contains deduplication settings.
type TrackerConfig struct {
	// Epsilon is the minimum change in a telemetry value that triggers a
	// republish. Operational tuning, not an algorithm constant.
	Epsilon float64 `yaml:"epsilon"`

	// HorizonSeconds is the staleness horizon: the heartbeat republish
	// interval for unchanged values, and the age at which a silent
	// device's record is evicted.
	HorizonSeconds int `yaml:"horizon_seconds"`
}

// PublisherConfig contains publish queue and reconnection settings.
type PublisherConfig struct {
	// QueueCapacity bounds the number of pending publishes buffered
	// across broker outages.
	QueueCapacity int `yaml:"queue_capacity"`

	Backoff BackoffConfig `yaml:"backoff"`

	// AuthFatalAttempts is the number of consecutive authorization
	// rejections tolerated before the process exits. Bad credentials are
	// not fixed by retrying.
	AuthFatalAttempts int `yaml:"auth_fatal_attempts"`
}

// BackoffConfig contains reconnection backoff settings (seconds).
type BackoffConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: SENSORBRIDGE_SECTION_KEY
// For example: SENSORBRIDGE_MQTT_HOST, SENSORBRIDGE_TOPIC_PREFIX
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Gateway: GatewayConfig{
			TopicPrefix: "sensors",
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "sensor-bridge",
			},
			QoS: 1,
		},
		BLE: BLEConfig{
			BufferSize: 64,
		},
		Tracker: TrackerConfig{
			Epsilon:        0.1,
			HorizonSeconds: 600,
		},
		Publisher: PublisherConfig{
			QueueCapacity: 256,
			Backoff: BackoffConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
			AuthFatalAttempts: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: SENSORBRIDGE_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SENSORBRIDGE_TOPIC_PREFIX"); v != "" {
		cfg.Gateway.TopicPrefix = v
	}

	// MQTT
	if v := os.Getenv("SENSORBRIDGE_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("SENSORBRIDGE_MQTT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.MQTT.Broker.Port = port
		}
	}
	if v := os.Getenv("SENSORBRIDGE_MQTT_TLS"); v != "" {
		cfg.MQTT.Broker.TLS = strings.EqualFold(v, "true")
	}
	if v := os.Getenv("SENSORBRIDGE_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("SENSORBRIDGE_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// Logging
	if v := os.Getenv("SENSORBRIDGE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// The topic prefix is a published contract consumed by downstream
	// subscribers; wildcards or separators would corrupt the scheme.
	if c.Gateway.TopicPrefix == "" {
		errs = append(errs, "gateway.topic_prefix is required")
	} else if strings.ContainsAny(c.Gateway.TopicPrefix, "+#/") {
		errs = append(errs, "gateway.topic_prefix must not contain '/', '+' or '#'")
	}

	if c.MQTT.Broker.Host == "" {
		errs = append(errs, "mqtt.broker.host is required")
	}
	if c.MQTT.Broker.Port < 1 || c.MQTT.Broker.Port > 65535 {
		errs = append(errs, "mqtt.broker.port must be between 1 and 65535")
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	if c.BLE.BufferSize < 1 {
		errs = append(errs, "ble.buffer_size must be at least 1")
	}

	if c.Tracker.Epsilon < 0 {
		errs = append(errs, "tracker.epsilon must not be negative")
	}
	if c.Tracker.HorizonSeconds < 1 {
		errs = append(errs, "tracker.horizon_seconds must be at least 1")
	}

	if c.Publisher.QueueCapacity < 1 {
		errs = append(errs, "publisher.queue_capacity must be at least 1")
	}
	if c.Publisher.Backoff.InitialDelay < 1 {
		errs = append(errs, "publisher.backoff.initial_delay must be at least 1")
	}
	if c.Publisher.Backoff.MaxDelay < c.Publisher.Backoff.InitialDelay {
		errs = append(errs, "publisher.backoff.max_delay must be >= initial_delay")
	}
	if c.Publisher.AuthFatalAttempts < 1 {
		errs = append(errs, "publisher.auth_fatal_attempts must be at least 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetHorizon returns the staleness horizon as a Duration.
func (c *Config) GetHorizon() time.Duration {
	return time.Duration(c.Tracker.HorizonSeconds) * time.Second
}

// GetInitialBackoff returns the initial reconnect delay as a Duration.
func (c *Config) GetInitialBackoff() time.Duration {
	return time.Duration(c.Publisher.Backoff.InitialDelay) * time.Second
}

// GetMaxBackoff returns the reconnect delay ceiling as a Duration.
func (c *Config) GetMaxBackoff() time.Duration {
	return time.Duration(c.Publisher.Backoff.MaxDelay) * time.Second
}
