package bridge

import (
	"math"
	"strconv"

	"github.com/nerrad567/sensor-bridge/internal/decode"
)

// PublishTask is one pending retained publish: a single telemetry field of
// a single device, rendered to its wire form. A Reading with all three
// fields present yields three tasks.
//
// Ownership: a task belongs exclusively to the publisher's queue from
// enqueue until it is delivered or dropped.
type PublishTask struct {
	Topic   string
	Payload string
	Field   decode.Field
}

// Payload formats are part of the published contract: temperature and
// humidity with exactly one decimal place, battery as a bare integer.

// FormatTemperature renders a temperature payload, e.g. 23.04 -> "23.0".
func FormatTemperature(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', 1, 64)
}

// FormatHumidity renders a humidity payload, e.g. 45.25 -> "45.3".
func FormatHumidity(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', 1, 64)
}

// FormatBattery renders a battery payload, e.g. 92 -> "92".
func FormatBattery(v int) string {
	return strconv.Itoa(v)
}
