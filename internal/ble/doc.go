// Package ble adapts the host Bluetooth adapter to the bridge's
// advertisement stream.
//
// The scanner observes passively. It never connects to, pairs with, or
// writes to any device: everything the bridge needs rides in the
// advertisement broadcast, and a connection attempt would interrupt the
// sensor's own advertising cadence.
//
// Scan callbacks convert each result to a decode.Advertisement and hand it
// to a buffered channel. The callback never blocks: if the consumer falls
// behind, the advertisement is dropped, since the sensor rebroadcasts the
// same values within seconds anyway.
package ble
