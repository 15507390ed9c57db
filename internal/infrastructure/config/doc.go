// Package config loads and validates sensor bridge configuration.
//
// Configuration comes from three layers, each overriding the previous:
// hardcoded defaults, a YAML file, and SENSORBRIDGE_* environment
// variables. Credentials should always come from the environment (or a
// .env file loaded by the binary) rather than the YAML file.
//
// # Usage
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.MQTT.Broker.Host)
//
// The dedup epsilon and staleness horizon are deliberately configuration
// rather than constants; they are operational tuning values that depend
// on sensor broadcast cadence and downstream consumer expectations.
package config
