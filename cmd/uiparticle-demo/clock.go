package main

import "time"

// Clock produces the frame delta.
type Clock interface {
	Tick() time.Duration
}

type wallClock struct {
	Time time.Time
	Dt   time.Duration
}

func newWallClock() *wallClock {
	return &wallClock{Time: time.Now()}
}

func (c *wallClock) Tick() time.Duration {
	now := time.Now()
	c.Dt = now.Sub(c.Time)
	c.Time = now
	return c.Dt
}

// fixedClock advances by a constant step, for reproducible headless runs.
type fixedClock struct {
	step time.Duration
}

func newFixedClock(step time.Duration) *fixedClock {
	return &fixedClock{step: step}
}

func (c *fixedClock) Tick() time.Duration {
	return c.step
}
