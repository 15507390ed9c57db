package mqtt

import "fmt"

// Topics builds the bridge's MQTT topics.
//
// The scheme is fixed: <prefix>/<brand>/<address>/<field>, where prefix is
// configurable, brand and field are closed enumerations, and address is the
// hardware address in canonical lowercase colon-separated form. Downstream
// subscribers depend on this exact layout; change nothing here without a
// migration plan for every consumer.
//
//	topics := mqtt.Topics{Prefix: "sensors"}
//	topics.Reading("govee", "a4:c1:38:ab:cd:ef", "temperature")
//	// Returns: "sensors/govee/a4:c1:38:ab:cd:ef/temperature"
type Topics struct {
	Prefix string
}

// Reading returns the topic for one telemetry field of one device.
//
// Example: sensors/govee/a4:c1:38:ab:cd:ef/temperature
func (t Topics) Reading(brand, address, field string) string {
	return fmt.Sprintf("%s/%s/%s/%s", t.Prefix, brand, address, field)
}

// =============================================================================
// Wildcard Patterns for Subscribers
// =============================================================================
//
// The bridge itself never subscribes; these are documented patterns for
// downstream consumers and for integration tooling.

// AllReadings returns a pattern matching every reading the bridge publishes.
//
// Pattern: sensors/+/+/+
func (t Topics) AllReadings() string {
	return fmt.Sprintf("%s/+/+/+", t.Prefix)
}

// BrandReadings returns a pattern matching all readings for one brand.
//
// Pattern: sensors/govee/+/+
func (t Topics) BrandReadings(brand string) string {
	return fmt.Sprintf("%s/%s/+/+", t.Prefix, brand)
}

// DeviceReadings returns a pattern matching all fields of one device.
//
// Pattern: sensors/+/a4:c1:38:ab:cd:ef/+
func (t Topics) DeviceReadings(address string) string {
	return fmt.Sprintf("%s/+/%s/+", t.Prefix, address)
}
