package host

import (
	"sync"
	"time"
)

// Clock supplies the current time in unix seconds. Operations read it once
// when they start; deadlines are compared against that value only.
type Clock interface {
	Now() int64
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current unix time.
func (SystemClock) Now() int64 { return time.Now().Unix() }

// ManualClock is a settable clock for tests and simulations. It never moves
// backwards.
type ManualClock struct {
	mu  sync.Mutex
	now int64
}

// NewManualClock starts a clock at t.
func NewManualClock(t int64) *ManualClock { return &ManualClock{now: t} }

// Now returns the current time.
func (c *ManualClock) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d > 0 {
		c.now += int64(d / time.Second)
	}
}

// Set moves the clock to t if t is not in the past.
func (c *ManualClock) Set(t int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t > c.now {
		c.now = t
	}
}
