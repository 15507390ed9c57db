package bridge

import (
	"testing"
	"time"
)

func TestBackoffDoublesToCap(t *testing.T) {
	b := newBackoff(time.Second, 8*time.Second)
	b.jitter = nil

	want := []time.Duration{
		time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		8 * time.Second,
	}
	for i, w := range want {
		if got := b.Next(); got != w {
			t.Errorf("attempt %d: Next() = %v, want %v", i, got, w)
		}
	}
	if b.Attempts() != len(want) {
		t.Errorf("Attempts() = %d, want %d", b.Attempts(), len(want))
	}
}

func TestBackoffReset(t *testing.T) {
	b := newBackoff(time.Second, time.Minute)
	b.jitter = nil

	b.Next()
	b.Next()
	b.Reset()

	if b.Attempts() != 0 {
		t.Errorf("Attempts() after Reset = %d, want 0", b.Attempts())
	}
	if got := b.Next(); got != time.Second {
		t.Errorf("Next() after Reset = %v, want %v", got, time.Second)
	}
}

func TestBackoffCapsDeepAttempts(t *testing.T) {
	b := newBackoff(time.Second, time.Minute)
	b.jitter = nil

	// Far past any sane shift width; must stay at the cap, not overflow.
	for i := 0; i < 100; i++ {
		b.Next()
	}
	if got := b.Next(); got != time.Minute {
		t.Errorf("Next() after 100 attempts = %v, want %v", got, time.Minute)
	}
}

func TestDefaultJitterBounds(t *testing.T) {
	for i := 0; i < 100; i++ {
		got := defaultJitter(time.Second)
		if got < 800*time.Millisecond || got > 1200*time.Millisecond {
			t.Fatalf("defaultJitter(1s) = %v, outside ±20%%", got)
		}
	}
}
