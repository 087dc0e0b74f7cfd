// Command viewer is a minimal ebiten host for the LOD image viewer engine:
// it wires a single Viewer to a real window and lets flags pick the image
// and a few construction options.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"github.com/woolen-sheep/afilmory/internal/engine"
	"github.com/woolen-sheep/afilmory/internal/engine/enginetype"
	"github.com/woolen-sheep/afilmory/internal/host/clipboard"
	"github.com/woolen-sheep/afilmory/internal/host/ebitenhost"
	"github.com/woolen-sheep/afilmory/internal/host/imagedecoder"
)

func main() {
	imageFlag := flag.String("image", "", "Path or URL of the image to view. Can also be provided as a positional argument.")
	debug := flag.Bool("debug", false, "Enable the per-frame debug overlay callback")
	smooth := flag.Bool("smooth", true, "Enable eased zoom/pan animations")
	mobile := flag.Bool("mobile", false, "Classify this device as mobile for the texture-memory budget")
	flag.Parse()

	path := *imageFlag
	if path == "" && flag.NArg() > 0 {
		path = flag.Arg(0)
	}
	if path == "" {
		log.Fatal("usage: viewer -image <path-or-url>")
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	ebiten.SetWindowSize(1280, 800)
	ebiten.SetWindowTitle("Viewer")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	deviceClass := enginetype.DeviceDesktop
	if *mobile {
		deviceClass = enginetype.DeviceMobile
	}

	overlay := ebitenhost.NewDebugOverlay()

	cfg := engine.Config{
		Smooth:        *smooth,
		LimitToBounds: true,
		Debug:         *debug,
	}
	cb := engine.Callbacks{
		OnZoomChange: func(abs, rel float64) {
			logger.Debug().Float64("scale", abs).Float64("relative", rel).Msg("zoom changed")
		},
		OnDebugUpdate: overlay.OnDebugUpdate,
		OnImageCopied: func() {
			logger.Info().Msg("original image copied to clipboard")
		},
	}

	viewer, err := engine.New(ebitenhost.NewCanvas(), imagedecoder.New(), clipboard.New(), cfg, cb, deviceClass, logger)
	if err != nil {
		log.Fatalf("creating viewer: %v", err)
	}

	if err := viewer.Load(context.Background(), path); err != nil {
		log.Fatalf("loading %s: %v", path, err)
	}

	game := ebitenhost.NewGame(viewer, logger)
	if *debug {
		game.SetDebugOverlay(overlay)
	}

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
