package engine

import (
	"sync"
	"time"
)

// countdown is the single repeating timer behind an in-progress attempt. It
// is a handle: acquired by the session when the seed arrives, released on
// every exit path. At most one exists per session at any time.
type countdown struct {
	stop chan struct{}
	once sync.Once
}

// startCountdown runs tick once per interval on its own goroutine until tick
// returns false or Stop is called.
func startCountdown(interval time.Duration, tick func() bool) *countdown {
	c := &countdown{stop: make(chan struct{})}

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-c.stop:
				return
			case <-t.C:
				if !tick() {
					return
				}
			}
		}
	}()

	return c
}

// Stop cancels all future ticks. Idempotent.
func (c *countdown) Stop() {
	c.once.Do(func() { close(c.stop) })
}
