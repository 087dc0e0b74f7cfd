// Package engine implements the viewer's public control surface by
// composing the GPU pipeline, texture factory, LOD cache, LOD policy,
// transform/animation state, and gesture decoder. Rather than holding
// zoom/pan/textures directly on a host's game struct and driving them from
// Update/Draw, Viewer delegates each concern to its own component and
// exposes only a narrow set of operations to the host.
package engine

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"github.com/woolen-sheep/afilmory/internal/engine/enginerr"
	"github.com/woolen-sheep/afilmory/internal/engine/enginetype"
	"github.com/woolen-sheep/afilmory/internal/engine/gesture"
	"github.com/woolen-sheep/afilmory/internal/engine/gpu"
	"github.com/woolen-sheep/afilmory/internal/engine/lodcache"
	"github.com/woolen-sheep/afilmory/internal/engine/lodpolicy"
	"github.com/woolen-sheep/afilmory/internal/engine/renderloop"
	"github.com/woolen-sheep/afilmory/internal/engine/texture"
	"github.com/woolen-sheep/afilmory/internal/engine/transform"
)

// defaultDeviceMaxTextureSize is used absent a more precise device query;
// it is conservative for the GPUs ebitengine's backends target.
const defaultDeviceMaxTextureSize = 8192

// Callbacks are the host-facing notifications the viewer fires.
type Callbacks struct {
	OnZoomChange  func(absoluteScale, relativeScale float64)
	OnImageCopied func()
	OnDebugUpdate func(enginetype.DebugSnapshot)
}

// Viewer is the public control surface. Construct with New, drive it with
// Tick/Draw each frame from the host's render loop, feed it gesture events
// as they arrive, and call Destroy exactly once when done.
type Viewer struct {
	cfg       Config
	logger    zerolog.Logger
	clock     Clock
	deviceCls enginetype.DeviceClass

	canvas    enginetype.Canvas
	decoder   enginetype.Decoder
	clipboard enginetype.Clipboard
	cb        Callbacks

	pipeline *gpu.Pipeline
	factory  *texture.Factory
	cache    *lodcache.Cache
	monitor  *lodcache.Monitor
	ts       *transform.State
	gd       *gesture.Decoder
	policy   *lodpolicy.Policy
	rclock   *renderloop.Clock

	mu              sync.Mutex
	loaded          bool
	destroyed       bool
	decoded         enginetype.DecodedImage
	imageW, imageH  float64
	fitScale        float64
	baseDeviceRatio float64
	effectiveRatio  float64
	lastFiredScale  float64
}

// New acquires the GPU pipeline and wires every component together. It
// fails only if the host context cannot compile the shader pipeline.
func New(canvas enginetype.Canvas, decoder enginetype.Decoder, clipboard enginetype.Clipboard, cfg Config, cb Callbacks, deviceClass enginetype.DeviceClass, logger zerolog.Logger) (*Viewer, error) {
	cfg = withDefaults(cfg)

	pipeline, err := gpu.New()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", enginerr.ErrUnavailableContext, err)
	}

	budget := lodcache.Budget(deviceClass, canvas.DevicePixelRatio())
	factory := texture.NewFactory(logger, 2)
	cache := lodcache.New(budget, logger)
	policy := lodpolicy.New(cfg.LODTable, factory, cache, logger)

	v := &Viewer{
		cfg:             cfg,
		logger:          logger.With().Str("component", "viewer").Logger(),
		clock:           SystemClock,
		deviceCls:       deviceClass,
		canvas:          canvas,
		decoder:         decoder,
		clipboard:       clipboard,
		cb:              cb,
		pipeline:        pipeline,
		factory:         factory,
		cache:           cache,
		monitor:         lodcache.NewMonitor(),
		policy:          policy,
		rclock:          renderloop.NewClock(),
		baseDeviceRatio: canvas.DevicePixelRatio(),
		effectiveRatio:  canvas.DevicePixelRatio(),
		lastFiredScale:  -1,
	}
	return v, nil
}

// WithClock overrides the time source; used in tests.
func (v *Viewer) WithClock(c Clock) { v.clock = c }

func (v *Viewer) ready() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loaded && !v.destroyed
}

// Load decodes url, installs it as the image source, and bootstraps the
// initial LOD texture synchronously. On decode failure the prior transform
// and texture state are left untouched.
func (v *Viewer) Load(ctx context.Context, url string) error {
	v.mu.Lock()
	if v.destroyed {
		v.mu.Unlock()
		return fmt.Errorf("engine: load after destroy")
	}
	v.mu.Unlock()

	decoded, err := v.decoder.Decode(ctx, url)
	if err != nil {
		return fmt.Errorf("%w: %w", enginerr.ErrDecodeFailure, err)
	}

	now := v.clock.Now()
	vw, vh := v.canvas.Size()
	imgW, imgH := float64(decoded.Width()), float64(decoded.Height())
	fitScale := math.Min(float64(vw)/imgW, float64(vh)/imgH)

	params := transform.Params{
		FitScale:      fitScale,
		MinRel:        v.cfg.MinScale,
		MaxRel:        v.cfg.MaxScale,
		ViewportW:     float64(vw),
		ViewportH:     float64(vh),
		ImageW:        imgW,
		ImageH:        imgH,
		LimitToBounds: v.cfg.LimitToBounds,
	}
	initial := enginetype.Transform{Scale: fitScale * v.cfg.InitialScale}

	v.mu.Lock()
	v.decoded = decoded
	v.imageW, v.imageH = imgW, imgH
	v.fitScale = fitScale
	v.baseDeviceRatio = v.canvas.DevicePixelRatio()
	v.ts = transform.New(params, initial)
	doubleClick := v.cfg.DoubleClick
	if !v.cfg.Smooth {
		doubleClick.AnimationTime = 0
	}
	v.gd = gesture.New(enginetype.GestureConfig{
		Wheel:           v.cfg.Wheel,
		Panning:         v.cfg.Panning,
		Pinch:           v.cfg.Pinch,
		DoubleClick:     doubleClick,
		InitialRelScale: v.cfg.InitialScale,
	}, v.ts)
	v.policy.SetImage(decoded)
	budget := lodcache.Budget(v.deviceCls, v.baseDeviceRatio)
	v.cache.SetBudget(budget)
	v.loaded = true
	v.mu.Unlock()

	r := v.cfg.InitialScale
	l := lodpolicy.Select(v.cfg.LODTable, r, 1.0)
	if err := v.policy.Bootstrap(l, defaultDeviceMaxTextureSize, budget, now); err != nil {
		v.mu.Lock()
		v.loaded = false
		v.mu.Unlock()
		return fmt.Errorf("%w: %w", enginerr.ErrTextureCreation, err)
	}

	v.lastFiredScale = initial.Scale
	v.fireZoomChange(initial.Scale, r)
	return nil
}

// zoomButton applies factor about the viewport center, animated per cfg
// unless overridden.
func (v *Viewer) zoomButton(factor float64, animated []bool) {
	if !v.ready() {
		return
	}
	anim := v.cfg.Smooth
	if len(animated) > 0 {
		anim = animated[0]
	}
	params := v.ts.Params()
	cur := v.ts.Current()
	minAbs, maxAbs := params.Bounds()
	newScale := cur.Scale * factor
	if newScale < minAbs {
		newScale = minAbs
	}
	if newScale > maxAbs {
		newScale = maxAbs
	}
	k := newScale / cur.Scale
	cx, cy := params.ViewportW/2, params.ViewportH/2

	dur := time.Duration(0)
	if anim {
		dur = v.cfg.animationDuration()
	}
	if dur <= 0 {
		v.ts.ZoomAt(cx, cy, k)
		return
	}
	zx := (cx - params.ViewportW/2 - cur.TX) / cur.Scale
	zy := (cy - params.ViewportH/2 - cur.TY) / cur.Scale
	target := enginetype.Transform{
		Scale: newScale,
		TX:    cx - params.ViewportW/2 - zx*newScale,
		TY:    cy - params.ViewportH/2 - zy*newScale,
	}
	v.ts.Animate(target, dur, v.clock.Now())
}

// ZoomIn zooms in by one wheel-equivalent step about the viewport center.
func (v *Viewer) ZoomIn(animated ...bool) {
	v.zoomButton(1+v.cfg.Wheel.Step, animated)
}

// ZoomOut undoes one ZoomIn step about the viewport center: the factor is
// 1/(1+step), not the wheel's zoom-out factor (1-step).
func (v *Viewer) ZoomOut(animated ...bool) {
	v.zoomButton(1/(1+v.cfg.Wheel.Step), animated)
}

// ResetView animates toward s=F·initRel, tx=ty=0.
func (v *Viewer) ResetView() {
	if !v.ready() {
		return
	}
	params := v.ts.Params()
	target := enginetype.Transform{Scale: params.FitScale * v.cfg.InitialScale}
	v.ts.Animate(target, v.cfg.animationDuration(), v.clock.Now())
}

// GetScale returns the current absolute scale.
func (v *Viewer) GetScale() float64 {
	if !v.ready() {
		return 0
	}
	return v.ts.Current().Scale
}

// EffectivePixelRatio returns the device pixel ratio after the current
// memory-pressure cap, recomputed once per Tick. A host's backing store
// should be sized to round(viewportW*ratio), round(viewportH*ratio).
func (v *Viewer) EffectivePixelRatio() float64 {
	if v.effectiveRatio <= 0 {
		return v.baseDeviceRatio
	}
	return v.effectiveRatio
}

// CopyOriginalToClipboard encodes the original decoded image and writes it
// to the clipboard collaborator. Absent clipboard support is logged as a
// warning and returned wrapped, never panics.
func (v *Viewer) CopyOriginalToClipboard(ctx context.Context) error {
	if !v.ready() {
		return fmt.Errorf("engine: no image loaded")
	}
	blob, mime, err := encodeOriginal(v.decoded.Image())
	if err != nil {
		return fmt.Errorf("engine: encoding original image: %w", err)
	}
	if err := v.clipboard.Write(ctx, blob, mime); err != nil {
		v.logger.Warn().Err(err).Msg("clipboard write unsupported or failed")
		return fmt.Errorf("%w: %w", enginerr.ErrClipboardUnsupported, err)
	}
	if v.cb.OnImageCopied != nil {
		v.cb.OnImageCopied()
	}
	return nil
}

// Destroy tears down the viewer. No operation is valid on a Viewer after
// Destroy returns.
func (v *Viewer) Destroy() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.destroyed {
		return
	}
	v.destroyed = true
	if v.gd != nil {
		v.gd.Teardown()
	}
	v.cache.PrepareForNewLOD()
	v.factory.Close()
	v.pipeline.Dispose()
}

func (v *Viewer) fireZoomChange(abs, rel float64) {
	if v.cb.OnZoomChange != nil {
		v.cb.OnZoomChange(abs, rel)
	}
}

// --- Gesture event forwarding ---

func (v *Viewer) PointerDown(x, y float64) {
	if v.ready() {
		v.gd.PointerDown(x, y)
	}
}

func (v *Viewer) PointerMove(x, y float64) {
	if v.ready() {
		v.gd.PointerMove(x, y)
	}
}

func (v *Viewer) PointerUp() {
	if v.ready() {
		v.gd.PointerUp()
	}
}

func (v *Viewer) Wheel(x, y, deltaY float64) {
	if v.ready() {
		v.gd.Wheel(x, y, deltaY)
	}
}

func (v *Viewer) Click(x, y float64) {
	if v.ready() {
		v.gd.Click(x, y, v.clock.Now())
	}
}

func (v *Viewer) TouchStart(id int, x, y float64) {
	if v.ready() {
		v.gd.TouchStart(id, x, y, v.clock.Now())
	}
}

func (v *Viewer) TouchMove(id int, x, y float64) {
	if v.ready() {
		v.gd.TouchMove(id, x, y)
	}
}

func (v *Viewer) TouchEnd(id int) {
	if v.ready() {
		v.gd.TouchEnd(id)
	}
}

// --- Per-frame driving ---

// Tick advances the animation, drains completed texture productions,
// samples memory pressure, evaluates and requests the LOD selection, and
// performs an armed swap. Call once per frame before Draw.
func (v *Viewer) Tick(now time.Time) {
	v.mu.Lock()
	destroyed, loaded := v.destroyed, v.loaded
	v.mu.Unlock()
	if destroyed {
		return
	}
	if !loaded {
		v.rclock.Tick(now)
		return
	}

	vw, vh := v.canvas.Size()
	ratio := v.canvas.DevicePixelRatio()
	fitScale := math.Min(float64(vw)/v.imageW, float64(vh)/v.imageH)
	v.fitScale = fitScale
	v.baseDeviceRatio = ratio
	v.ts.SetParams(transform.Params{
		FitScale:      fitScale,
		MinRel:        v.cfg.MinScale,
		MaxRel:        v.cfg.MaxScale,
		ViewportW:     float64(vw),
		ViewportH:     float64(vh),
		ImageW:        v.imageW,
		ImageH:        v.imageH,
		LimitToBounds: v.cfg.LimitToBounds,
	})

	v.ts.Tick(now)
	v.policy.DrainResults(now)

	budget := v.cache.Budget()
	mem := v.monitor.Sample(now, v.cache.TextureBytes(), budget)
	if mem.Pressure == enginetype.PressureCritical {
		v.cache.EmergencyCleanup()
	}

	cur := v.ts.Current()
	r := cur.Scale / v.fitScale
	m := lodcache.LODModifier(mem.Pressure)
	maxTex := lodcache.EffectiveMaxTextureSize(mem.Pressure, defaultDeviceMaxTextureSize)
	v.effectiveRatio = lodcache.EffectivePixelRatio(mem.Pressure, ratio)
	l := lodpolicy.Select(v.cfg.LODTable, r, m)
	v.policy.RequestIfNeeded(l, maxTex, budget)
	v.policy.SwapIfArmed()

	v.rclock.Tick(now)

	if cur.Scale != v.lastFiredScale {
		v.lastFiredScale = cur.Scale
		v.fireZoomChange(cur.Scale, r)
	}

	if v.cfg.Debug && v.cb.OnDebugUpdate != nil {
		v.cb.OnDebugUpdate(v.snapshot(mem))
	}
}

// Draw clears dst and issues the single draw call for the current front
// texture and transform. Safe to call with no image loaded (draws nothing
// but a transparent clear).
func (v *Viewer) Draw(dst *ebiten.Image) {
	v.mu.Lock()
	destroyed, loaded := v.destroyed, v.loaded
	v.mu.Unlock()
	if destroyed {
		return
	}
	if !loaded {
		dst.Clear()
		return
	}

	var tex *ebiten.Image
	if front := v.cache.Front(); front != nil {
		tex = front.Image
	}
	cur := v.ts.Current()
	vw, vh := v.canvas.Size()
	matrix := gpu.BuildMatrix(cur, float64(vw), float64(vh), v.imageW, v.imageH)
	v.pipeline.Draw(dst, tex, matrix)
}

func (v *Viewer) snapshot(mem enginetype.MemoryInfo) enginetype.DebugSnapshot {
	cur := v.ts.Current()
	vw, vh := v.canvas.Size()
	_, maxAbs := v.ts.Params().Bounds()
	return enginetype.DebugSnapshot{
		Scale:             cur.Scale,
		RelativeScale:     cur.Scale / v.fitScale,
		TX:                cur.TX,
		TY:                cur.TY,
		CurrentLOD:        v.policy.CurrentLOD(),
		LevelCount:        v.policy.LevelCount(),
		CanvasW:           vw,
		CanvasH:           vh,
		ImageW:            int(v.imageW),
		ImageH:            int(v.imageH),
		FitScale:          v.fitScale,
		EffectiveMaxScale: maxAbs,
		OriginalSizeScale: 1,
		RenderCount:       v.rclock.FrameCount(),
		MaxTextureSize:    lodcache.EffectiveMaxTextureSize(mem.Pressure, defaultDeviceMaxTextureSize),
		UserMaxScale:      v.cfg.MaxScale,
		MemoryInfo:        mem,
	}
}
