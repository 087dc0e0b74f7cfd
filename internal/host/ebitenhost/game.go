package ebitenhost

import (
	"context"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rs/zerolog"

	"github.com/woolen-sheep/afilmory/internal/engine"
)

// Game adapts a *engine.Viewer to ebiten's Game interface: it polls raw
// input once per Update, forwards it to the viewer's gesture methods,
// drives Tick, and delegates Draw. The engine itself never touches
// ebiten's input APIs.
type Game struct {
	viewer   *engine.Viewer
	logger   zerolog.Logger
	dragging bool
	overlay  *DebugOverlay
}

// NewGame creates a Game driving viewer.
func NewGame(viewer *engine.Viewer, logger zerolog.Logger) *Game {
	return &Game{viewer: viewer, logger: logger}
}

// SetDebugOverlay installs an overlay drawn after the viewer's own frame.
func (g *Game) SetDebugOverlay(o *DebugOverlay) { g.overlay = o }

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.viewer.Destroy()
		return ebiten.Termination
	}

	mx, my := ebiten.CursorPosition()
	fx, fy := float64(mx), float64(my)

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.dragging = true
		g.viewer.PointerDown(fx, fy)
	}
	if g.dragging {
		if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
			g.viewer.PointerMove(fx, fy)
		} else {
			g.dragging = false
			g.viewer.PointerUp()
		}
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.viewer.Click(fx, fy)
	}

	// ebiten's wheelY is positive on scroll-up; the engine's deltaY follows
	// the browser wheel-event convention where positive means zoom-out,
	// hence the negation.
	if _, wheelY := ebiten.Wheel(); wheelY != 0 {
		g.viewer.Wheel(fx, fy, -wheelY)
	}

	for _, t := range inpututil.JustPressedTouchIDs() {
		x, y := ebiten.TouchPosition(t)
		g.viewer.TouchStart(int(t), float64(x), float64(y))
	}
	for _, t := range ebiten.TouchIDs() {
		x, y := ebiten.TouchPosition(t)
		g.viewer.TouchMove(int(t), float64(x), float64(y))
	}
	for _, t := range inpututil.JustReleasedTouchIDs() {
		g.viewer.TouchEnd(int(t))
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		g.viewer.ResetView()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		g.viewer.ZoomIn()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		g.viewer.ZoomOut()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		if err := g.viewer.CopyOriginalToClipboard(context.Background()); err != nil {
			g.logger.Warn().Err(err).Msg("copy original to clipboard")
		}
	}

	g.viewer.Tick(time.Now())
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.viewer.Draw(screen)
	if g.overlay != nil {
		g.overlay.Draw(screen)
	}
}

// Layout sizes the backing store to the viewport scaled by the viewer's
// current pressure-adjusted device pixel ratio, per round(Vw*ratio),
// round(Vh*ratio): the store shrinks under memory pressure even though the
// window itself does not.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	ratio := g.viewer.EffectivePixelRatio()
	if ratio <= 0 {
		ratio = 1
	}
	w := int(math.Round(float64(outsideWidth) * ratio))
	h := int(math.Round(float64(outsideHeight) * ratio))
	return w, h
}
