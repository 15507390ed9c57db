// Package bridge implements the ingestion-to-publish pipeline of the
// sensor bridge.
//
// The pipeline runs as two long-lived tasks communicating through one
// bounded queue:
//
//	BLE radio -> Intake loop -> Tracker (dedup) -> queue -> Publisher -> broker
//
// # Failure domains
//
// The radio and the broker fail independently, and neither may stall the
// other. The intake loop never blocks on the publisher: its enqueue is
// non-blocking with latest-value-wins overflow, because a live sensor feed
// has no use for stale duplicates and a stalled intake would miss
// interleaved advertisements from other devices in the same scan window.
// The publisher owns the broker connection lifecycle, buffering queued
// tasks across outages and reconnecting with explicit, bounded backoff.
//
// On a radio fault the intake loop exits and the Supervisor restarts it;
// the Tracker survives restarts, because its dedup memory is long-lived
// state, not per-scan state. On a persistent authorization rejection the
// publisher escalates through Fatal() and the Supervisor terminates the
// process; bad credentials are an operator problem, not a retry problem.
//
// # Concurrency
//
// The Tracker and decode Registry execute synchronously inside the intake
// task and are never shared, so they carry no locks. The queue is the only
// state shared between the two tasks, used single-producer/single-consumer.
//
// # Ordering
//
// Within one device field, publishes are delivered in enqueue order (the
// queue is FIFO and a failed delivery is requeued at the front), which
// preserves last-known-value semantics for retained topics. There is no
// ordering guarantee across devices or fields.
package bridge
