// Package decode turns raw BLE advertisements into normalised sensor readings.
//
// Battery-powered hygrometers broadcast their telemetry inside advertisement
// packets, so the bridge never connects to a device; it only listens. Each
// supported vendor packs temperature, humidity and battery level into the
// manufacturer-data section using its own proprietary byte layout, and this
// package owns that knowledge.
//
// # Dispatch
//
// The Registry holds a closed set of brand decoders built once at startup.
// Dispatch is by signature: either the Bluetooth SIG company identifier in
// the manufacturer data, or the advertised local name for vendors that abuse
// the company-ID field to carry telemetry (ThermoPro, Inkbird both do this).
// Adding a brand means adding one decoder file and one signature entry;
// the dispatch mechanism itself never changes.
//
// # Purity
//
// Decoding is a pure function of the advertisement: no I/O, no hidden state,
// no panics. Most BLE traffic in any real environment comes from unrelated
// devices, so "not recognised" is the common case and is not an error. A
// payload that matches a brand signature but fails structural checks (wrong
// length, impossible values) yields OutcomeMalformed so the caller can log
// it at low severity; it must never surface as a fault.
//
// # Supported brands
//
//   - govee: H5075-family, company ID 0xEC88, packed 24-bit temp/humidity
//   - thermopro: TP357-family, local name "TP35x", deci-degree int16
//   - inkbird: IBS-TH-family, local name "sps"/"tps", centi-unit int16
//   - sensorpush: HT.w, company ID 0x5350, centi-unit little-endian counts
package decode
