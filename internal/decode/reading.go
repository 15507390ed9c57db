package decode

import "time"

// Brand identifies which vendor decoder produced a reading.
// The set is closed; values appear verbatim in MQTT topics.
type Brand string

const (
	BrandGovee      Brand = "govee"
	BrandThermoPro  Brand = "thermopro"
	BrandInkbird    Brand = "inkbird"
	BrandSensorPush Brand = "sensorpush"
)

// Field identifies one telemetry channel of a reading.
// Values appear verbatim as the final MQTT topic segment.
type Field string

const (
	FieldTemperature Field = "temperature"
	FieldHumidity    Field = "humidity"
	FieldBattery     Field = "battery"
)

// Reading is normalised telemetry decoded from one advertisement.
//
// Telemetry fields are pointers because not every sensor reports every
// channel (the TP357 has no battery byte, for example). A Reading with no
// fields at all is never emitted by the Registry.
type Reading struct {
	Brand   Brand
	Address string

	// Temperature in degrees Celsius.
	Temperature *float64

	// Humidity as relative humidity percentage.
	Humidity *float64

	// Battery as an integer percentage, 0-100.
	Battery *int

	// Time is when the source advertisement was decoded.
	Time time.Time
}

// Empty reports whether the reading carries no telemetry at all.
func (r Reading) Empty() bool {
	return r.Temperature == nil && r.Humidity == nil && r.Battery == nil
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
