package bridge

import (
	"math/rand"
	"time"
)

// backoff is explicit retry-delay state: exponential doubling from an
// initial delay up to a cap, with jitter so a fleet of bridges does not
// reconnect in lockstep after a shared broker outage.
//
// Kept as a plain value type with an injectable jitter function so retry
// sequences are assertable in tests.
type backoff struct {
	initial time.Duration
	max     time.Duration
	attempt int

	jitter func(time.Duration) time.Duration
}

func newBackoff(initial, max time.Duration) *backoff {
	return &backoff{
		initial: initial,
		max:     max,
		jitter:  defaultJitter,
	}
}

// Next returns the delay before the next attempt and advances the counter.
func (b *backoff) Next() time.Duration {
	delay := b.max
	// Shifts beyond 30 would overflow; they are past the cap anyway.
	if b.attempt < 31 {
		if shifted := b.initial << uint(b.attempt); shifted > 0 && shifted < b.max {
			delay = shifted
		}
	}
	b.attempt++
	if b.jitter != nil {
		delay = b.jitter(delay)
	}
	return delay
}

// Reset clears the counter after a successful attempt.
func (b *backoff) Reset() {
	b.attempt = 0
}

// Attempts returns how many delays have been handed out since the last
// reset.
func (b *backoff) Attempts() int {
	return b.attempt
}

// defaultJitter spreads the delay by up to ±20%.
func defaultJitter(d time.Duration) time.Duration {
	spread := int64(d) / 5
	if spread == 0 {
		return d
	}
	return d + time.Duration(rand.Int63n(2*spread)-spread)
}
