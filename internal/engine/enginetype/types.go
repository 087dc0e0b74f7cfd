// Package enginetype holds the data types and external-collaborator
// interfaces shared across the viewer engine's components. It sits below
// every component package so none of them need to import the public engine
// package to share a vocabulary.
package enginetype

import (
	"context"
	"image"
	"time"
)

// LODLevel describes one entry of the LOD table. Downscale is φ, the
// fraction of native resolution this level renders at, required to lie in
// (0, 1]. MaxRelScale is ψ, the largest relative scale (r = s/F) this level
// is considered adequate for. Tables must be monotone non-decreasing in
// both fields across increasing indices.
type LODLevel struct {
	Downscale   float64
	MaxRelScale float64
}

// Transform is the (scale, tx, ty) triple describing the image-to-viewport mapping.
type Transform struct {
	Scale  float64
	TX, TY float64
}

// PressureLevel is the four-level categorical memory-pressure signal.
type PressureLevel int

const (
	PressureLow PressureLevel = iota
	PressureMedium
	PressureHigh
	PressureCritical
)

func (p PressureLevel) String() string {
	switch p {
	case PressureLow:
		return "low"
	case PressureMedium:
		return "medium"
	case PressureHigh:
		return "high"
	case PressureCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// MemoryInfo reports texture and process memory usage alongside the derived
// pressure level.
type MemoryInfo struct {
	TextureBytes int64
	ProcessBytes int64 // best-effort; 0 when not observable
	Pressure     PressureLevel
}

// DebugSnapshot carries the per-frame fields surfaced when debug mode is
// enabled.
type DebugSnapshot struct {
	Scale             float64
	RelativeScale     float64
	TX, TY            float64
	CurrentLOD        int
	LevelCount        int
	CanvasW, CanvasH  int
	ImageW, ImageH    int
	FitScale          float64
	EffectiveMaxScale float64
	OriginalSizeScale float64
	RenderCount       uint64
	MaxTextureSize    int
	UserMaxScale      float64
	MemoryInfo        MemoryInfo
}

// DecodedImage is the result handed back by a Decoder: a fully decoded
// source image plus the URL it was decoded from (retained for clipboard
// export).
type DecodedImage interface {
	Image() image.Image
	Width() int
	Height() int
	URL() string
}

// Decoder is the external image-decoding collaborator. It yields a
// DecodedImage of known pixel dimensions, or an error that surfaces as a
// load failure.
type Decoder interface {
	Decode(ctx context.Context, url string) (DecodedImage, error)
}

// Clipboard is the external clipboard collaborator. Absent support must be
// signaled by returning an error wrapping enginerr.ErrClipboardUnsupported;
// the engine logs it as a warning and returns it, wrapped, to the caller of
// CopyOriginalToClipboard.
type Clipboard interface {
	Write(ctx context.Context, blob []byte, mime string) error
}

// Canvas is the external host-container collaborator: it reports the
// viewport's logical size and device pixel ratio. Resize is observed by
// re-reading Size() each frame rather than through a dedicated callback.
type Canvas interface {
	Size() (w, h int)
	DevicePixelRatio() float64
}

// DeviceClass feeds the LOD cache's memory-budget derivation.
type DeviceClass int

const (
	DeviceDesktop DeviceClass = iota
	DeviceMobile
)

// Now is the function type used to decouple animation timing from
// time.Now() in tests.
type Now func() time.Time

// DoubleActivationMode selects what a double-click/double-tap does.
type DoubleActivationMode int

const (
	// DoubleActivationToggle flips between fit-scale and 1:1.
	DoubleActivationToggle DoubleActivationMode = iota
	// DoubleActivationZoom applies a fixed zoom step about the activation point.
	DoubleActivationZoom
)

// WheelConfig controls mouse-wheel zoom behavior.
type WheelConfig struct {
	Step     float64
	Disabled bool
}

// PanningConfig controls drag-to-pan behavior.
type PanningConfig struct {
	Disabled bool
}

// PinchConfig controls two-finger pinch-to-zoom behavior.
type PinchConfig struct {
	Disabled bool
}

// DoubleClickConfig controls the double-click/double-tap action.
type DoubleClickConfig struct {
	Disabled      bool
	Mode          DoubleActivationMode
	Step          float64
	AnimationTime time.Duration
}

// GestureConfig is the slice of Config the gesture decoder needs, kept
// separate so the gesture package never has to import the public engine
// package (which in turn composes the gesture package).
type GestureConfig struct {
	Wheel       WheelConfig
	Panning     PanningConfig
	Pinch       PinchConfig
	DoubleClick DoubleClickConfig
	// InitialRelScale is initRel, the initial scale relative to fit; the
	// double-activation toggle's "fit" target is F·InitialRelScale.
	InitialRelScale float64
}
