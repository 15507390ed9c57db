// Package logging provides structured logging for the sensor bridge.
//
// It wraps the standard log/slog package to give every component the same
// configuration surface and default fields (service, version).
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("device first seen", "address", addr, "brand", brand)
package logging
