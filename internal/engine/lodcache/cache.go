// Package lodcache holds at most one active LOD texture, tracks its
// memory cost, and derives the four-level pressure signal the rest of the
// engine reacts to.
//
// The previous texture is always disposed before the next frame can
// observe the new one; none are ever held alongside each other.
package lodcache

import (
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"github.com/woolen-sheep/afilmory/internal/engine/enginetype"
)

// Entry is one resident LOD texture.
type Entry struct {
	Image    *ebiten.Image
	W, H     int
	Bytes    int64
	LastUsed time.Time
	LOD      int
}

const mebibyte = 1 << 20

// Budget derives the texture-memory budget from device class and pixel
// ratio at startup.
func Budget(class enginetype.DeviceClass, pixelRatio float64) int64 {
	switch {
	case class == enginetype.DeviceMobile && pixelRatio >= 3:
		return int64(256 * mebibyte * 0.6)
	case class == enginetype.DeviceMobile:
		return int64(128 * mebibyte * 0.6)
	default:
		return int64(512 * mebibyte * 0.6)
	}
}

// Pressure classifies textureBytes/budget into the four-level signal.
func Pressure(textureBytes, budget int64) enginetype.PressureLevel {
	if budget <= 0 {
		return enginetype.PressureCritical
	}
	r := float64(textureBytes) / float64(budget)
	switch {
	case r <= 0.5:
		return enginetype.PressureLow
	case r <= 0.7:
		return enginetype.PressureMedium
	case r <= 0.9:
		return enginetype.PressureHigh
	default:
		return enginetype.PressureCritical
	}
}

// EffectivePixelRatio applies the pressure-level cap to a base device pixel
// ratio.
func EffectivePixelRatio(pressure enginetype.PressureLevel, base float64) float64 {
	switch pressure {
	case enginetype.PressureMedium:
		return math.Min(base, 2)
	case enginetype.PressureHigh:
		return math.Min(base, 1.5)
	case enginetype.PressureCritical:
		return math.Min(base, 1)
	default:
		return base
	}
}

// EffectiveMaxTextureSize applies the pressure-level cap to the device's
// real max texture dimension.
func EffectiveMaxTextureSize(pressure enginetype.PressureLevel, deviceMax int) int {
	limit := deviceMax
	switch pressure {
	case enginetype.PressureMedium:
		limit = 8192
	case enginetype.PressureHigh:
		limit = 4096
	case enginetype.PressureCritical:
		limit = 2048
	}
	if limit > deviceMax {
		limit = deviceMax
	}
	return limit
}

// LODModifier is the selection modifier applied during LOD selection.
func LODModifier(pressure enginetype.PressureLevel) float64 {
	switch pressure {
	case enginetype.PressureMedium:
		return 0.9
	case enginetype.PressureHigh:
		return 0.7
	case enginetype.PressureCritical:
		return 0.5
	default:
		return 1.0
	}
}

// Cache is the single-entry LOD texture cache with a staged back slot
// awaiting atomic installation.
type Cache struct {
	mu     sync.Mutex
	budget int64
	front  *Entry
	back   *Entry
	armed  bool
	logger zerolog.Logger
}

// New creates an empty Cache governed by budget.
func New(budget int64, logger zerolog.Logger) *Cache {
	return &Cache{budget: budget, logger: logger.With().Str("component", "lod-cache").Logger()}
}

// SetBudget updates the advisory memory budget (e.g. on device-class
// reclassification).
func (c *Cache) SetBudget(budget int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.budget = budget
}

func (c *Cache) Budget() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.budget
}

// PrepareForNewLOD deletes every currently cached texture before a new one
// is produced: first delete, then allocate.
func (c *Cache) PrepareForNewLOD() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disposeFrontLocked()
	c.disposeBackLocked()
}

// Stage sets the back slot to e and arms the swap. Any previously staged,
// unswapped back entry is disposed first. This should not normally happen
// because the policy coalesces in-flight requests, but it keeps the
// invariant "at most one LOD texture" true even if it did.
func (c *Cache) Stage(e *Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disposeBackLocked()
	c.back = e
	c.armed = true
}

// Swap atomically installs the armed back texture as front. It is only
// ever called at a frame boundary, so a draw never observes a
// half-installed swap.
func (c *Cache) Swap() (installed bool, lod int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.armed || c.back == nil {
		return false, 0
	}
	c.disposeFrontLocked()
	c.front = c.back
	c.back = nil
	c.armed = false
	return true, c.front.LOD
}

// Front returns the currently drawn entry, or nil.
func (c *Cache) Front() *Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.front
}

// TextureBytes returns the current resident byte footprint across front
// and any staged back.
func (c *Cache) TextureBytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var b int64
	if c.front != nil {
		b += c.front.Bytes
	}
	if c.back != nil {
		b += c.back.Bytes
	}
	return b
}

// Count returns the number of resident textures, which the invariant
// requires never to exceed 1.
func (c *Cache) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	if c.front != nil {
		n++
	}
	if c.back != nil {
		n++
	}
	return n
}

// EmergencyCleanup runs on critical pressure observed outside a swap: it
// discards any staged-but-unswapped back texture, leaving the front LOD
// visible. It returns the front LOD to re-request if front itself was
// lost, keeping the call site uniform even though front is never evicted
// by this method today.
func (c *Cache) EmergencyCleanup() (frontLOD int, hasFront bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disposeBackLocked()
	if c.front != nil {
		return c.front.LOD, true
	}
	return 0, false
}

func (c *Cache) disposeFrontLocked() {
	if c.front != nil {
		c.front.Image.Dispose()
		c.front = nil
	}
}

func (c *Cache) disposeBackLocked() {
	if c.back != nil {
		c.back.Image.Dispose()
		c.back = nil
		c.armed = false
	}
}

// Monitor samples process memory (best-effort) and derives MemoryInfo at
// most once per second.
type Monitor struct {
	mu         sync.Mutex
	lastSample time.Time
	cached     enginetype.MemoryInfo
}

// NewMonitor creates a Monitor with no cached sample.
func NewMonitor() *Monitor { return &Monitor{} }

// Sample returns the current MemoryInfo, resampling process memory and
// recomputing pressure only if at least one second has elapsed since the
// last sample.
func (m *Monitor) Sample(now time.Time, textureBytes, budget int64) enginetype.MemoryInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.lastSample.IsZero() && now.Sub(m.lastSample) < time.Second {
		info := m.cached
		info.TextureBytes = textureBytes
		return info
	}
	m.lastSample = now
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m.cached = enginetype.MemoryInfo{
		TextureBytes: textureBytes,
		ProcessBytes: int64(ms.HeapAlloc),
		Pressure:     Pressure(textureBytes, budget),
	}
	return m.cached
}
