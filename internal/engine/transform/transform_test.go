package transform

import (
	"math"
	"testing"
	"time"

	"github.com/woolen-sheep/afilmory/internal/engine/enginetype"
)

func baseParams() Params {
	return Params{
		FitScale:      0.5,
		MinRel:        0.1,
		MaxRel:        4,
		ViewportW:     800,
		ViewportH:     600,
		ImageW:        8000,
		ImageH:        6000,
		LimitToBounds: true,
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestClampIdempotent(t *testing.T) {
	p := baseParams()
	t1 := p.Clamp(enginetype.Transform{Scale: 3, TX: 10000, TY: -10000})
	t2 := p.Clamp(t1)
	if t1 != t2 {
		t.Fatalf("clamp not idempotent: %+v vs %+v", t1, t2)
	}
}

func TestClampFloorsMaxAtOne(t *testing.T) {
	p := baseParams()
	p.MaxRel = 0 // fitScale*0 = 0, floor should keep max at least 1
	_, maxAbs := p.Bounds()
	if maxAbs != 1 {
		t.Fatalf("expected floored max of 1, got %v", maxAbs)
	}
}

func TestClampCentersWhenAtOrBelowFit(t *testing.T) {
	p := baseParams()
	got := p.Clamp(enginetype.Transform{Scale: p.FitScale, TX: 500, TY: 500})
	if got.TX != 0 || got.TY != 0 {
		t.Fatalf("expected centered pan at/below fit scale, got tx=%v ty=%v", got.TX, got.TY)
	}
}

func TestZoomAtPointFixity(t *testing.T) {
	p := baseParams()
	s := New(p, enginetype.Transform{Scale: 1, TX: 0, TY: 0})

	anchorX, anchorY := 300.0, 200.0
	before := s.Current()
	imgX := (anchorX - p.ViewportW/2 - before.TX) / before.Scale
	imgY := (anchorY - p.ViewportH/2 - before.TY) / before.Scale

	if ok := s.ZoomAt(anchorX, anchorY, 1.5); !ok {
		t.Fatalf("expected in-range zoom to succeed")
	}

	after := s.Current()
	gotX := (anchorX - p.ViewportW/2 - after.TX) / after.Scale
	gotY := (anchorY - p.ViewportH/2 - after.TY) / after.Scale
	if !almostEqual(imgX, gotX) || !almostEqual(imgY, gotY) {
		t.Fatalf("anchor point drifted: before=(%v,%v) after=(%v,%v)", imgX, imgY, gotX, gotY)
	}
}

func TestZoomAtRejectsOutOfRange(t *testing.T) {
	p := baseParams()
	s := New(p, enginetype.Transform{Scale: 1})
	before := s.Current()
	if ok := s.ZoomAt(400, 300, 1000); ok {
		t.Fatalf("expected out-of-range zoom to be rejected")
	}
	if s.Current() != before {
		t.Fatalf("rejected zoom must not mutate state")
	}
}

func TestAnimateEasesToTargetAndFinishes(t *testing.T) {
	p := baseParams()
	start := time.Now()
	s := New(p, enginetype.Transform{Scale: 1})
	target := enginetype.Transform{Scale: 2, TX: 10, TY: -10}
	s.Animate(target, 300*time.Millisecond, start)

	changed, finished := s.Tick(start.Add(150 * time.Millisecond))
	if !changed || finished {
		t.Fatalf("expected mid-animation tick to change but not finish, got changed=%v finished=%v", changed, finished)
	}
	mid := s.Current()
	if mid.Scale <= 1 || mid.Scale >= 2 {
		t.Fatalf("expected scale strictly between start and target mid-ease, got %v", mid.Scale)
	}

	changed, finished = s.Tick(start.Add(300 * time.Millisecond))
	if !changed || !finished {
		t.Fatalf("expected final tick to finish, got changed=%v finished=%v", changed, finished)
	}
	if s.Current() != p.Clamp(target) {
		t.Fatalf("expected final transform to equal clamped target, got %+v", s.Current())
	}
	if s.IsAnimating() {
		t.Fatalf("animation should be cleared once finished")
	}
}

func TestCancelAnimationFreezesInPlace(t *testing.T) {
	p := baseParams()
	start := time.Now()
	s := New(p, enginetype.Transform{Scale: 1})
	s.Animate(enginetype.Transform{Scale: 2}, 300*time.Millisecond, start)
	s.Tick(start.Add(150 * time.Millisecond))
	frozen := s.Current()

	s.CancelAnimation()
	if s.IsAnimating() {
		t.Fatalf("expected animation to be cancelled")
	}
	if s.Current() != frozen {
		t.Fatalf("cancel must leave the transform exactly where interpolation left it")
	}
}

func TestMutateCancelsAnimation(t *testing.T) {
	p := baseParams()
	start := time.Now()
	s := New(p, enginetype.Transform{Scale: 1})
	s.Animate(enginetype.Transform{Scale: 2}, 300*time.Millisecond, start)

	s.Mutate(func(t enginetype.Transform) enginetype.Transform {
		t.TX += 5
		return t
	})
	if s.IsAnimating() {
		t.Fatalf("a direct mutation must cancel any in-flight animation")
	}
}

func TestEaseOutQuartBoundaries(t *testing.T) {
	if got := easeOutQuart(0); got != 0 {
		t.Fatalf("ease(0) = %v, want 0", got)
	}
	if got := easeOutQuart(1); got != 1 {
		t.Fatalf("ease(1) = %v, want 1", got)
	}
	// Ease-out: progress should front-load, i.e. ease(0.5) > 0.5.
	if got := easeOutQuart(0.5); got <= 0.5 {
		t.Fatalf("ease(0.5) = %v, want > 0.5 for an ease-out curve", got)
	}
}
