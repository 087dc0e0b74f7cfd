package engine

import (
	"time"

	"github.com/woolen-sheep/afilmory/internal/engine/enginetype"
)

// Aliases so callers configuring a Viewer don't need to import the
// internal enginetype package directly.
type (
	LODLevel             = enginetype.LODLevel
	DoubleActivationMode = enginetype.DoubleActivationMode
	WheelConfig          = enginetype.WheelConfig
	PanningConfig        = enginetype.PanningConfig
	PinchConfig          = enginetype.PinchConfig
	DoubleClickConfig    = enginetype.DoubleClickConfig
)

const (
	DoubleActivationToggle = enginetype.DoubleActivationToggle
	DoubleActivationZoom   = enginetype.DoubleActivationZoom
)

// Config is the recognized set of construction options for a Viewer.
// Zero-value fields fall back to the defaults documented per field.
type Config struct {
	// InitialScale is the initial scale relative to fit. Default 1.
	InitialScale float64
	// MinScale, MaxScale are relative-to-fit scale bounds. MaxScale is
	// floor-overridden so the absolute maximum is never below 1.
	MinScale, MaxScale float64

	Wheel       WheelConfig
	Panning     PanningConfig
	Pinch       PinchConfig
	DoubleClick DoubleClickConfig

	// Smooth enables eased animations; when false every transition has
	// duration zero.
	Smooth bool
	// CenterOnInit centers the image on load. Always true in this engine;
	// kept as a field so callers that set it explicitly compile unchanged.
	CenterOnInit bool
	// LimitToBounds keeps the image covering the viewport once zoomed past
	// fit, and centered when smaller.
	LimitToBounds bool
	// Debug enables per-frame debug snapshot callbacks.
	Debug bool

	// LODTable is the ordered, monotone LOD table. A nil table falls back
	// to DefaultLODTable().
	LODTable []LODLevel
}

// DefaultLODTable returns a five-level table, coarsest to finest, covering
// from thumbnail-grade to full resolution. φ and ψ are both non-decreasing.
func DefaultLODTable() []LODLevel {
	return []LODLevel{
		{Downscale: 0.125, MaxRelScale: 0.5},
		{Downscale: 0.25, MaxRelScale: 1.0},
		{Downscale: 0.5, MaxRelScale: 2.0},
		{Downscale: 0.75, MaxRelScale: 4.0},
		{Downscale: 1.0, MaxRelScale: 1 << 30},
	}
}

func withDefaults(c Config) Config {
	if c.InitialScale == 0 {
		c.InitialScale = 1
	}
	if c.MinScale == 0 {
		c.MinScale = 0.1
	}
	if c.MaxScale == 0 {
		c.MaxScale = 10
	}
	if c.Wheel.Step == 0 {
		c.Wheel.Step = 0.2
	}
	if c.DoubleClick.Step == 0 {
		c.DoubleClick.Step = 2
	}
	if c.DoubleClick.AnimationTime == 0 {
		c.DoubleClick.AnimationTime = 300 * time.Millisecond
	}
	if c.LODTable == nil {
		c.LODTable = DefaultLODTable()
	}
	c.CenterOnInit = true
	return c
}

// animationDuration returns the configured ease duration, collapsed to zero
// when smooth animation is disabled.
func (c Config) animationDuration() time.Duration {
	if !c.Smooth {
		return 0
	}
	return 300 * time.Millisecond
}
