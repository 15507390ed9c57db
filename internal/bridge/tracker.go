package bridge

import (
	"math"
	"time"

	"github.com/nerrad567/sensor-bridge/internal/decode"
	"github.com/nerrad567/sensor-bridge/internal/infrastructure/logging"
	"github.com/nerrad567/sensor-bridge/internal/infrastructure/mqtt"
)

// Tracker holds per-device dedup state and decides which fields of each
// reading are worth publishing.
//
// A field is published when it is first seen, when its value moved by more
// than epsilon since the last publish, or when the heartbeat horizon has
// elapsed since the last publish of that field. The heartbeat bounds the
// staleness of retained values: a subscriber that sees no update for a full
// horizon may treat the device as gone.
//
// Devices not observed for a full horizon are evicted, so memory stays
// proportional to the live device population, not to history. Eviction is
// swept lazily on Observe rather than by a timer; an idle radio means an
// idle tracker, and a stale record costs nothing until the next reading.
//
// Not safe for concurrent use. The tracker belongs to the intake loop and
// must outlive intake restarts; construct it once per process.
type Tracker struct {
	epsilon float64
	horizon time.Duration
	topics  mqtt.Topics
	logger  *logging.Logger

	devices   map[string]*deviceRecord
	lastSweep time.Time

	// now is replaceable in tests.
	now func() time.Time
}

// deviceRecord is the dedup memory for one device.
type deviceRecord struct {
	brand    decode.Brand
	lastSeen time.Time
	fields   map[decode.Field]fieldState
}

// fieldState is the last published value of one field. Values that were
// observed but suppressed are deliberately not recorded: epsilon compares
// against what subscribers last saw, so a slow drift of many sub-epsilon
// steps still publishes once the total movement exceeds epsilon.
type fieldState struct {
	value       float64
	publishedAt time.Time
}

// TrackerOptions configures a Tracker.
type TrackerOptions struct {
	Epsilon float64
	Horizon time.Duration
	Topics  mqtt.Topics
	Logger  *logging.Logger
}

// NewTracker creates an empty tracker.
func NewTracker(opts TrackerOptions) *Tracker {
	return &Tracker{
		epsilon: opts.Epsilon,
		horizon: opts.Horizon,
		topics:  opts.Topics,
		logger:  opts.Logger.With("component", "tracker"),
		devices: make(map[string]*deviceRecord),
		now:     time.Now,
	}
}

// Observe records one reading and returns the publish tasks it warrants,
// possibly none. The device's last-seen time advances on every call, even
// when every field is suppressed.
func (t *Tracker) Observe(r decode.Reading) []PublishTask {
	now := t.now()
	t.maybeSweep(now)

	rec, ok := t.devices[r.Address]
	if !ok {
		rec = &deviceRecord{
			brand:  r.Brand,
			fields: make(map[decode.Field]fieldState),
		}
		t.devices[r.Address] = rec
		t.logger.Info("device discovered",
			"brand", string(r.Brand),
			"address", r.Address,
		)
	}
	rec.lastSeen = now

	var tasks []PublishTask
	if r.Temperature != nil {
		if task, ok := t.observeField(rec, r.Address, decode.FieldTemperature, *r.Temperature, FormatTemperature(*r.Temperature), now); ok {
			tasks = append(tasks, task)
		}
	}
	if r.Humidity != nil {
		if task, ok := t.observeField(rec, r.Address, decode.FieldHumidity, *r.Humidity, FormatHumidity(*r.Humidity), now); ok {
			tasks = append(tasks, task)
		}
	}
	if r.Battery != nil {
		if task, ok := t.observeField(rec, r.Address, decode.FieldBattery, float64(*r.Battery), FormatBattery(*r.Battery), now); ok {
			tasks = append(tasks, task)
		}
	}
	return tasks
}

// DeviceCount returns the number of devices currently tracked.
func (t *Tracker) DeviceCount() int {
	return len(t.devices)
}

func (t *Tracker) observeField(rec *deviceRecord, address string, field decode.Field, value float64, payload string, now time.Time) (PublishTask, bool) {
	prev, seen := rec.fields[field]
	if seen && math.Abs(value-prev.value) <= t.epsilon && now.Sub(prev.publishedAt) < t.horizon {
		return PublishTask{}, false
	}

	rec.fields[field] = fieldState{value: value, publishedAt: now}
	return PublishTask{
		Topic:   t.topics.Reading(string(rec.brand), address, string(field)),
		Payload: payload,
		Field:   field,
	}, true
}

// maybeSweep evicts devices unseen for a full horizon. Throttled to at most
// once per quarter horizon so a busy radio does not rescan the map on every
// advertisement.
func (t *Tracker) maybeSweep(now time.Time) {
	if now.Sub(t.lastSweep) < t.horizon/4 {
		return
	}
	t.lastSweep = now

	for address, rec := range t.devices {
		if now.Sub(rec.lastSeen) > t.horizon {
			delete(t.devices, address)
			t.logger.Info("device expired",
				"brand", string(rec.brand),
				"address", address,
			)
		}
	}
}
