package service

import (
	"sync"
	"time"
)

// Clock provides time operations. This interface enables deterministic testing.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the actual system time.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// TestClock starts at Start and advances by Step on every call.
type TestClock struct {
	Start time.Time
	Step  time.Duration

	mu    sync.Mutex
	calls int
}

// Now returns Start plus Step for each earlier call.
func (c *TestClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.Start.Add(time.Duration(c.calls) * c.Step)
	c.calls++
	return t
}
