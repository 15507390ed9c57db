// Sensor Bridge - BLE environmental telemetry to MQTT
//
// This is the main entry point for the sensor bridge daemon. The bridge
// passively observes BLE advertisements from environmental sensors
// (Govee, ThermoPro, Inkbird, SensorPush), decodes them to normalized
// readings, deduplicates them, and publishes each telemetry field as a
// retained MQTT message under <prefix>/<brand>/<address>/<field>.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nerrad567/sensor-bridge/internal/ble"
	"github.com/nerrad567/sensor-bridge/internal/bridge"
	"github.com/nerrad567/sensor-bridge/internal/decode"
	"github.com/nerrad567/sensor-bridge/internal/infrastructure/config"
	"github.com/nerrad567/sensor-bridge/internal/infrastructure/logging"
	"github.com/nerrad567/sensor-bridge/internal/infrastructure/mqtt"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// stopGrace bounds how long shutdown waits for the publish queue to flush.
const stopGrace = 5 * time.Second

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Broker credentials commonly live in a .env next to the binary on
	// small deployments; absence is not an error.
	_ = godotenv.Load()

	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting sensor bridge",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)

	topics := mqtt.Topics{Prefix: cfg.Gateway.TopicPrefix}
	broker := mqtt.NewClient(cfg.MQTT)

	tracker := bridge.NewTracker(bridge.TrackerOptions{
		Epsilon: cfg.Tracker.Epsilon,
		Horizon: cfg.GetHorizon(),
		Topics:  topics,
		Logger:  log,
	})

	publisher := bridge.NewPublisher(bridge.PublisherOptions{
		Broker:            broker,
		QueueCapacity:     cfg.Publisher.QueueCapacity,
		QoS:               byte(cfg.MQTT.QoS),
		InitialBackoff:    cfg.GetInitialBackoff(),
		MaxBackoff:        cfg.GetMaxBackoff(),
		AuthFatalAttempts: cfg.Publisher.AuthFatalAttempts,
		Logger:            log,
	})

	scanner := ble.NewScanner(cfg.BLE.BufferSize, log)
	intake := bridge.NewIntake(scanner, decode.NewRegistry(), tracker, publisher, log)

	supervisor := bridge.NewSupervisor(bridge.SupervisorOptions{
		Intake:         intake,
		Publisher:      publisher,
		RestartInitial: cfg.GetInitialBackoff(),
		RestartMax:     cfg.GetMaxBackoff(),
		Logger:         log,
	})

	log.Info("bridge running",
		"topic_prefix", cfg.Gateway.TopicPrefix,
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	runErr := supervisor.Run(ctx)

	// Flush pending publishes and disconnect within a bounded grace period.
	log.Info("shutting down", "queue_depth", publisher.QueueDepth())
	stopCtx, stopCancel := context.WithTimeout(context.Background(), stopGrace)
	defer stopCancel()
	if stopErr := publisher.Stop(stopCtx); stopErr != nil {
		log.Warn("publish queue not fully flushed", "error", stopErr)
	}

	if runErr != nil {
		return fmt.Errorf("bridge: %w", runErr)
	}
	log.Info("sensor bridge stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses SENSORBRIDGE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("SENSORBRIDGE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
