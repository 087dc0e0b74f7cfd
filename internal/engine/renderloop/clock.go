// Package renderloop tracks the per-frame clock: FPS over a rolling 1s
// window, last frame time, and a monotonically increasing render count.
package renderloop

import (
	"sync"
	"time"
)

// Clock is driven once per frame by the host's render callback.
type Clock struct {
	mu         sync.Mutex
	frameTimes []time.Time
	lastFrame  time.Time
	lastDelta  time.Duration
	frameCount uint64
}

// NewClock creates an empty Clock.
func NewClock() *Clock { return &Clock{} }

// Tick records a frame boundary at now and updates FPS/frame-time state.
func (c *Clock) Tick(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.lastFrame.IsZero() {
		c.lastDelta = now.Sub(c.lastFrame)
	}
	c.lastFrame = now
	c.frameCount++

	c.frameTimes = append(c.frameTimes, now)
	cutoff := now.Add(-time.Second)
	i := 0
	for i < len(c.frameTimes) && c.frameTimes[i].Before(cutoff) {
		i++
	}
	c.frameTimes = c.frameTimes[i:]
}

// FPS returns the number of ticks observed in the trailing 1s window.
func (c *Clock) FPS() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return float64(len(c.frameTimes))
}

// LastFrameDuration returns the time elapsed since the previous tick.
func (c *Clock) LastFrameDuration() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastDelta
}

// FrameCount returns the total number of ticks observed.
func (c *Clock) FrameCount() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frameCount
}
