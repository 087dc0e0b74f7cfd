// Package ebitenhost adapts an ebiten window to the engine's external
// collaborator interfaces and drives a Viewer from ebiten's Game loop,
// polling raw input once per Update and applying it statefully afterward.
package ebitenhost

import "github.com/hajimehoshi/ebiten/v2"

// Canvas adapts the ebiten window to enginetype.Canvas: logical window size
// and the monitor's device pixel ratio.
type Canvas struct{}

// NewCanvas creates a Canvas backed by the current ebiten window.
func NewCanvas() *Canvas { return &Canvas{} }

func (c *Canvas) Size() (w, h int) { return ebiten.WindowSize() }

func (c *Canvas) DevicePixelRatio() float64 { return ebiten.DeviceScaleFactor() }
