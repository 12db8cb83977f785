package engine

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestCountdownStopsWhenTickReturnsFalse(t *testing.T) {
	var ticks atomic.Int64

	c := startCountdown(2*time.Millisecond, func() bool {
		return ticks.Add(1) < 3
	})
	defer c.Stop()

	waitFor(t, "three ticks", func() bool { return ticks.Load() >= 3 })

	// No further ticks after the callback returned false.
	settled := ticks.Load()
	time.Sleep(20 * time.Millisecond)
	if got := ticks.Load(); got != settled {
		t.Errorf("ticks after stop = %d, want %d", got, settled)
	}
}

func TestCountdownStop(t *testing.T) {
	var ticks atomic.Int64

	c := startCountdown(2*time.Millisecond, func() bool {
		ticks.Add(1)
		return true
	})

	waitFor(t, "first tick", func() bool { return ticks.Load() >= 1 })
	c.Stop()
	c.Stop() // idempotent

	// The goroutine may deliver at most the tick already in flight.
	settled := ticks.Load() + 1
	time.Sleep(20 * time.Millisecond)
	if got := ticks.Load(); got > settled {
		t.Errorf("ticks kept firing after Stop: %d > %d", got, settled)
	}
}
