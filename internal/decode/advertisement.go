package decode

import (
	"strings"
	"time"
)

// Advertisement is a single passively observed BLE broadcast.
//
// It is ephemeral input: consumed once by the Registry and never stored.
// The address is kept in canonical form (lowercase, colon-separated) from
// the moment of construction so every downstream consumer (dedup keys,
// MQTT topics, log events) agrees on the same spelling.
type Advertisement struct {
	// Address is the sender's hardware address in canonical form,
	// e.g. "a4:c1:38:ab:cd:ef".
	Address string

	// LocalName is the advertised device name, if any. Some vendors
	// (ThermoPro, Inkbird) are identified by name rather than company ID.
	LocalName string

	// ManufacturerData maps Bluetooth SIG company identifiers to the
	// payload bytes that followed them in the advertisement.
	ManufacturerData map[uint16][]byte

	// ServiceData maps service UUIDs (string form) to their payloads.
	ServiceData map[string][]byte

	// RSSI is the received signal strength in dBm, or 0 if unknown.
	RSSI int16

	// Time is when the advertisement was received.
	Time time.Time
}

// CanonicalAddress normalises a hardware address to lowercase
// colon-separated form. macOS reports addresses with dashes; BlueZ with
// colons. The topic contract requires the colon form.
func CanonicalAddress(addr string) string {
	return strings.ToLower(strings.ReplaceAll(addr, "-", ":"))
}
