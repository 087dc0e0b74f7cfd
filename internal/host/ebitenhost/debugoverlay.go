package ebitenhost

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/woolen-sheep/afilmory/internal/engine/enginetype"
)

var debugColor = color.RGBA{R: 0x20, G: 0xe0, B: 0x20, A: 0xff}

// DebugOverlay renders the per-frame enginetype.DebugSnapshot: a crosshair
// at the viewport center (drawn with vector.StrokeLine) plus a status line
// printed with ebitenutil.DebugPrint.
type DebugOverlay struct {
	mu   sync.Mutex
	snap enginetype.DebugSnapshot
	have bool
}

// NewDebugOverlay creates an empty overlay.
func NewDebugOverlay() *DebugOverlay { return &DebugOverlay{} }

// OnDebugUpdate is installed as engine.Callbacks.OnDebugUpdate.
func (o *DebugOverlay) OnDebugUpdate(snap enginetype.DebugSnapshot) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.snap = snap
	o.have = true
}

// Draw draws the crosshair and status text onto screen.
func (o *DebugOverlay) Draw(screen *ebiten.Image) {
	o.mu.Lock()
	snap, have := o.snap, o.have
	o.mu.Unlock()
	if !have {
		return
	}

	cx, cy := float32(snap.CanvasW/2), float32(snap.CanvasH/2)
	const arm = 10
	vector.StrokeLine(screen, cx-arm, cy, cx+arm, cy, 1, debugColor, false)
	vector.StrokeLine(screen, cx, cy-arm, cx, cy+arm, 1, debugColor, false)

	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"scale=%.3f rel=%.3f lod=%d/%d pressure=%s render=%d maxTex=%d",
		snap.Scale, snap.RelativeScale, snap.CurrentLOD, snap.LevelCount,
		snap.MemoryInfo.Pressure, snap.RenderCount, snap.MaxTextureSize,
	))
}
