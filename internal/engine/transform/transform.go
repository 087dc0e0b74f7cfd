// Package transform holds the viewer's (scale, tx, ty) state and the eased
// animation that can be driving it toward a target, as an explicit,
// lockable state machine.
package transform

import (
	"math"
	"sync"
	"time"

	"github.com/woolen-sheep/afilmory/internal/engine/enginetype"
)

// Params are the geometry inputs the constraint rule needs: the fit scale,
// the user-configured relative bounds, the viewport's CSS size, the image's
// intrinsic size, and whether bounds-limiting is active.
type Params struct {
	FitScale              float64
	MinRel, MaxRel        float64
	ViewportW, ViewportH  float64
	ImageW, ImageH        float64
	LimitToBounds         bool
}

// Bounds returns the absolute scale bounds derived from Params: the floor
// of 1 on the maximum guarantees 1:1 is always reachable regardless of
// configured MaxRel.
func (p Params) Bounds() (minAbs, maxAbs float64) {
	minAbs = p.FitScale * p.MinRel
	maxAbs = math.Max(p.FitScale*p.MaxRel, 1)
	return
}

// Clamp applies the scale and translation constraints to t and returns the
// result. Applying Clamp to an already-constrained transform is a no-op.
func (p Params) Clamp(t enginetype.Transform) enginetype.Transform {
	minAbs, maxAbs := p.Bounds()
	t.Scale = clamp(t.Scale, minAbs, maxAbs)
	if p.LimitToBounds {
		if t.Scale <= p.FitScale {
			t.TX, t.TY = 0, 0
		} else {
			maxTX := math.Max(0, (t.Scale*p.ImageW-p.ViewportW)/2)
			maxTY := math.Max(0, (t.Scale*p.ImageH-p.ViewportH)/2)
			t.TX = clamp(t.TX, -maxTX, maxTX)
			t.TY = clamp(t.TY, -maxTY, maxTY)
		}
	}
	return t
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// anim is the in-flight ease toward a target transform. It exists only for
// the duration of an ease.
type anim struct {
	start    time.Time
	duration time.Duration
	from, to enginetype.Transform
}

// easeOutQuart is the quartic ease-out interpolant p' = 1-(1-p)^4.
func easeOutQuart(p float64) float64 {
	inv := 1 - p
	return 1 - inv*inv*inv*inv
}

func lerp(a, b, p float64) float64 { return a + (b-a)*p }

// State is the lockable holder of the current transform, its constraint
// parameters, and an optional in-flight animation. Its writers are the
// gesture decoder, the animation ticker, and the viewer's programmatic
// zoom/reset operations and per-frame parameter refresh; the render loop
// only reads Current().
type State struct {
	mu     sync.Mutex
	params Params
	t      enginetype.Transform
	a      *anim
}

// New creates a State with the given params and an already-clamped initial
// transform.
func New(params Params, initial enginetype.Transform) *State {
	return &State{params: params, t: params.Clamp(initial)}
}

// Current returns the current transform. Safe to call from any goroutine.
func (s *State) Current() enginetype.Transform {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.t
}

// Params returns the current constraint parameters.
func (s *State) Params() Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// SetParams updates the constraint parameters (e.g. on viewport resize or
// pressure-driven effective ratio change) and reclamps the current
// transform in place. Any in-flight animation's target is left untouched;
// it will be reclamped again when it finalizes.
func (s *State) SetParams(p Params) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params = p
	s.t = p.Clamp(s.t)
}

// IsAnimating reports whether an ease is in flight.
func (s *State) IsAnimating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a != nil
}

// CancelAnimation drops any in-flight animation in place, leaving the
// current transform exactly where the interpolation last left it. Called
// by the gesture decoder on every new user input.
func (s *State) CancelAnimation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.a = nil
}

// Mutate applies fn to the current transform, clamps the result, installs
// it, and cancels any in-flight animation (every direct, unanimated
// mutation is user input or its equivalent). It returns the new transform.
func (s *State) Mutate(fn func(enginetype.Transform) enginetype.Transform) enginetype.Transform {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.a = nil
	s.t = s.params.Clamp(fn(s.t))
	return s.t
}

// ZoomAt applies a zoom-about-point transform: the image point under
// (x, y) in viewport units is invariant across the zoom. It rejects
// (no-op, returns false) if the resulting scale falls outside bounds, with
// no partial scaling and no translation drift.
func (s *State) ZoomAt(x, y, k float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	newScale := s.t.Scale * k
	minAbs, maxAbs := s.params.Bounds()
	if newScale < minAbs || newScale > maxAbs {
		return false
	}

	vw, vh := s.params.ViewportW, s.params.ViewportH
	zx := (x - vw/2 - s.t.TX) / s.t.Scale
	zy := (y - vh/2 - s.t.TY) / s.t.Scale

	s.a = nil
	s.t.Scale = newScale
	s.t.TX = x - vw/2 - zx*newScale
	s.t.TY = y - vh/2 - zy*newScale
	s.t = s.params.Clamp(s.t)
	return true
}

// Animate arms an ease from the current transform toward target over
// duration, starting at now. The target is pre-clamped. A duration of zero
// (Smooth disabled) installs the target immediately.
func (s *State) Animate(target enginetype.Transform, duration time.Duration, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	target = s.params.Clamp(target)
	if duration <= 0 {
		s.a = nil
		s.t = target
		return
	}
	s.a = &anim{start: now, duration: duration, from: s.t, to: target}
}

// Tick advances any in-flight animation to now. It returns whether the
// transform changed this tick and whether the animation finished (p=1),
// at which point the transform is finalized and the animation record
// cleared, signalling the caller to trigger an LOD re-evaluation.
func (s *State) Tick(now time.Time) (changed, finished bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.a == nil {
		return false, false
	}
	p := float64(now.Sub(s.a.start)) / float64(s.a.duration)
	if p >= 1 {
		p = 1
	}
	pe := easeOutQuart(p)
	s.t = enginetype.Transform{
		Scale: lerp(s.a.from.Scale, s.a.to.Scale, pe),
		TX:    lerp(s.a.from.TX, s.a.to.TX, pe),
		TY:    lerp(s.a.from.TY, s.a.to.TY, pe),
	}
	if p >= 1 {
		s.t = s.params.Clamp(s.a.to)
		s.a = nil
		return true, true
	}
	return true, false
}
