// Package gesture translates raw pointer, wheel, and multi-touch events
// into pan/zoom intents applied to a transform.State, and detects the
// shared double-click/double-tap "double-activation" action.
//
// Raw input is polled once per frame by the host and forwarded here for
// stateful handling; the decoder owns its own gesture state rather than
// living inline in a host's game loop.
package gesture

import (
	"math"
	"time"

	"github.com/woolen-sheep/afilmory/internal/engine/enginetype"
	"github.com/woolen-sheep/afilmory/internal/engine/transform"
)

const (
	doubleClickWindow = 300 * time.Millisecond
	doubleTapWindow   = 300 * time.Millisecond
	doubleTapRadius   = 50.0 // CSS units
)

// Decoder owns the gesture state (drag flag, last pointer position, last
// pinch distance, at-1:1 flag, last-tap timestamp and position) and
// mutates a shared transform.State in response to host-dispatched events.
type Decoder struct {
	cfg enginetype.GestureConfig
	ts  *transform.State

	dragging     bool
	lastX, lastY float64

	touches       map[int]point
	pinchActive   bool
	lastPinchDist float64
	pinchMidX     float64
	pinchMidY     float64

	at1to1 bool

	lastClickTime time.Time

	lastTapTime time.Time
	lastTapX    float64
	lastTapY    float64
}

type point struct{ x, y float64 }

// New creates a Decoder driving ts according to cfg.
func New(cfg enginetype.GestureConfig, ts *transform.State) *Decoder {
	return &Decoder{cfg: cfg, ts: ts, touches: make(map[int]point)}
}

// SetConfig replaces the gesture configuration (e.g. a live config reload).
func (d *Decoder) SetConfig(cfg enginetype.GestureConfig) { d.cfg = cfg }

// --- Pointer (mouse) drag ---

// PointerDown begins a one-finger-equivalent drag on primary-button-down.
func (d *Decoder) PointerDown(x, y float64) {
	if d.cfg.Panning.Disabled {
		return
	}
	d.ts.CancelAnimation()
	d.dragging = true
	d.lastX, d.lastY = x, y
}

// PointerMove adds the pointer delta to (tx, ty) and reconstrains.
func (d *Decoder) PointerMove(x, y float64) {
	if !d.dragging {
		return
	}
	dx, dy := x-d.lastX, y-d.lastY
	d.lastX, d.lastY = x, y
	d.ts.Mutate(func(t enginetype.Transform) enginetype.Transform {
		t.TX += dx
		t.TY += dy
		return t
	})
}

// PointerUp releases an in-progress drag.
func (d *Decoder) PointerUp() {
	d.dragging = false
}

// --- Wheel ---

// Wheel applies the wheel zoom: deltaY>0 zooms out by (1-step), else
// zooms in by (1+step), about the cursor, unanimated.
func (d *Decoder) Wheel(x, y, deltaY float64) {
	if d.cfg.Wheel.Disabled || deltaY == 0 {
		return
	}
	d.ts.CancelAnimation()
	step := d.cfg.Wheel.Step
	factor := 1 + step
	if deltaY > 0 {
		factor = 1 - step
	}
	d.ts.ZoomAt(x, y, factor)
}

// --- Mouse double-click ---

// Click is called on every completed mouse click. It debounces at 300ms
// and fires the double-activation action when a second click lands within
// the window.
func (d *Decoder) Click(x, y float64, now time.Time) {
	if d.cfg.DoubleClick.Disabled {
		d.lastClickTime = now
		return
	}
	if !d.lastClickTime.IsZero() && now.Sub(d.lastClickTime) < doubleClickWindow {
		d.activate(x, y, now)
		d.lastClickTime = time.Time{}
		return
	}
	d.lastClickTime = now
}

// --- Touch ---

// TouchStart registers a new touch point. A first finger starting a fresh
// gesture is evaluated for double-tap.
func (d *Decoder) TouchStart(id int, x, y float64, now time.Time) {
	wasEmpty := len(d.touches) == 0
	d.touches[id] = point{x, y}

	if wasEmpty {
		d.ts.CancelAnimation()
		d.dragging = true
		d.lastX, d.lastY = x, y
		d.checkDoubleTap(x, y, now)
	}
	if len(d.touches) == 2 {
		d.dragging = false
		d.pinchActive = true
		d.lastPinchDist, d.pinchMidX, d.pinchMidY = d.pinchGeometry()
	}
}

// checkDoubleTap implements a strict-inequality detection window.
func (d *Decoder) checkDoubleTap(x, y float64, now time.Time) {
	if !d.lastTapTime.IsZero() {
		dt := now.Sub(d.lastTapTime)
		dx := math.Abs(x - d.lastTapX)
		dy := math.Abs(y - d.lastTapY)
		if dt < doubleTapWindow && dx < doubleTapRadius && dy < doubleTapRadius {
			d.activate(x, y, now)
			d.lastTapTime = time.Time{}
			return
		}
	}
	d.lastTapTime = now
	d.lastTapX, d.lastTapY = x, y
}

// TouchMove updates drag or pinch state for an active touch.
func (d *Decoder) TouchMove(id int, x, y float64) {
	if _, ok := d.touches[id]; !ok {
		return
	}
	d.touches[id] = point{x, y}

	switch len(d.touches) {
	case 1:
		if !d.dragging || d.cfg.Panning.Disabled {
			return
		}
		dx, dy := x-d.lastX, y-d.lastY
		d.lastX, d.lastY = x, y
		d.ts.Mutate(func(t enginetype.Transform) enginetype.Transform {
			t.TX += dx
			t.TY += dy
			return t
		})
	case 2:
		if d.cfg.Pinch.Disabled {
			return
		}
		dist, midX, midY := d.pinchGeometry()
		if d.lastPinchDist > 0 && dist > 0 {
			d.ts.ZoomAt(midX, midY, dist/d.lastPinchDist)
		}
		d.lastPinchDist, d.pinchMidX, d.pinchMidY = dist, midX, midY
	}
}

// TouchEnd releases a touch point, clearing drag/pinch tracking as needed.
func (d *Decoder) TouchEnd(id int) {
	delete(d.touches, id)
	switch len(d.touches) {
	case 0:
		d.dragging = false
		d.pinchActive = false
	case 1:
		d.pinchActive = false
		for _, p := range d.touches {
			d.lastX, d.lastY = p.x, p.y
		}
		d.dragging = true
	}
}

// Teardown clears all gesture state.
func (d *Decoder) Teardown() {
	d.touches = make(map[int]point)
	d.dragging = false
	d.pinchActive = false
	d.lastPinchDist = 0
	d.at1to1 = false
	d.lastClickTime = time.Time{}
	d.lastTapTime = time.Time{}
}

func (d *Decoder) pinchGeometry() (dist, midX, midY float64) {
	var pts []point
	for _, p := range d.touches {
		pts = append(pts, p)
	}
	if len(pts) != 2 {
		return 0, 0, 0
	}
	dx, dy := pts[1].x-pts[0].x, pts[1].y-pts[0].y
	dist = math.Hypot(dx, dy)
	midX = (pts[0].x + pts[1].x) / 2
	midY = (pts[0].y + pts[1].y) / 2
	return
}

// --- Double-activation (shared by double-click and double-tap) ---

func (d *Decoder) activate(x, y float64, now time.Time) {
	params := d.ts.Params()
	dur := d.cfg.DoubleClick.AnimationTime

	switch d.cfg.DoubleClick.Mode {
	case enginetype.DoubleActivationZoom:
		cur := d.ts.Current()
		target := zoomAboutPoint(cur, params, x, y, d.cfg.DoubleClick.Step)
		d.ts.Animate(target, dur, now)
		return
	default: // DoubleActivationToggle
		cur := d.ts.Current()
		var targetScale float64
		if d.at1to1 {
			targetScale = params.FitScale * d.cfg.InitialRelScale
		} else {
			targetScale = 1.0
		}
		minAbs, maxAbs := params.Bounds()
		if targetScale < minAbs {
			targetScale = minAbs
		}
		if targetScale > maxAbs {
			targetScale = maxAbs
		}
		k := targetScale / cur.Scale
		target := zoomAboutPoint(cur, params, x, y, k)
		d.ts.Animate(target, dur, now)
		d.at1to1 = !d.at1to1
	}
}

// zoomAboutPoint computes the post-zoom transform using the zoom-about-point
// formula without mutating state (used to build an animation target).
func zoomAboutPoint(cur enginetype.Transform, p transform.Params, x, y, k float64) enginetype.Transform {
	zx := (x - p.ViewportW/2 - cur.TX) / cur.Scale
	zy := (y - p.ViewportH/2 - cur.TY) / cur.Scale
	newScale := cur.Scale * k
	return enginetype.Transform{
		Scale: newScale,
		TX:    x - p.ViewportW/2 - zx*newScale,
		TY:    y - p.ViewportH/2 - zy*newScale,
	}
}
