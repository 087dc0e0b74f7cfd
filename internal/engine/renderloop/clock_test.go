package renderloop

import (
	"testing"
	"time"
)

func TestFPSCountsTrailingWindow(t *testing.T) {
	c := NewClock()
	start := time.Now()
	for i := 0; i < 30; i++ {
		c.Tick(start.Add(time.Duration(i) * (time.Second / 30)))
	}
	if got := c.FPS(); got != 30 {
		t.Fatalf("expected 30 ticks within the trailing 1s window, got %v", got)
	}
}

func TestFPSDropsTicksOutsideWindow(t *testing.T) {
	c := NewClock()
	start := time.Now()
	c.Tick(start)
	c.Tick(start.Add(2 * time.Second))
	if got := c.FPS(); got != 1 {
		t.Fatalf("expected only the most recent tick within the window, got %v", got)
	}
}

func TestFrameCountIncrementsMonotonically(t *testing.T) {
	c := NewClock()
	now := time.Now()
	for i := 0; i < 5; i++ {
		c.Tick(now.Add(time.Duration(i) * time.Millisecond))
	}
	if c.FrameCount() != 5 {
		t.Fatalf("expected frame count 5, got %d", c.FrameCount())
	}
}

func TestLastFrameDuration(t *testing.T) {
	c := NewClock()
	now := time.Now()
	c.Tick(now)
	c.Tick(now.Add(16 * time.Millisecond))
	if c.LastFrameDuration() != 16*time.Millisecond {
		t.Fatalf("expected last frame duration 16ms, got %v", c.LastFrameDuration())
	}
}
