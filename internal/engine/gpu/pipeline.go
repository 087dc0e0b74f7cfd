// Package gpu acquires the hardware-accelerated rendering pipeline: one
// compiled program (an Ebiten Kage shader) applying a 3x3 matrix to a unit
// textured quad, plus the static geometry buffers it is drawn with.
//
// Kage's Vertex stage, introduced in ebitengine v2.5, compiles an explicit
// vertex-shader program instead of driving geometry through op.GeoM.
package gpu

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/woolen-sheep/afilmory/internal/engine/enginetype"
)

const kageSource = `
package main

var Transform mat3

func Vertex(position vec2, texCoord vec2, color vec4) (vec4, vec2, vec4) {
	p := Transform * vec3(position, 1)
	return vec4(p.x, p.y, 0, 1), texCoord, color
}

func Fragment(position vec4, texCoord vec2, color vec4) vec4 {
	return imageSrc0UnsafeAt(texCoord)
}
`

// unitQuad is the static position/texture-coordinate buffer for a single
// textured quad, uploaded once at construction and reused for every draw;
// only the per-vertex source rectangle (tied to the front texture's pixel
// size) and the Transform uniform change frame to frame.
var unitQuad = [4]ebiten.Vertex{
	{DstX: -1, DstY: -1, SrcX: 0, SrcY: 0, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
	{DstX: 1, DstY: -1, SrcX: 0, SrcY: 0, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
	{DstX: -1, DstY: 1, SrcX: 0, SrcY: 0, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
	{DstX: 1, DstY: 1, SrcX: 0, SrcY: 0, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
}

// quadIndices draws the quad as two triangles, six vertices total.
var quadIndices = [6]uint16{0, 1, 2, 1, 2, 3}

// Pipeline owns the compiled shader program and the static geometry
// buffers. Construction fails if the host's context cannot compile the
// program.
type Pipeline struct {
	shader *ebiten.Shader
}

// New compiles the textured-quad program. It is the only place in the
// engine a shader is compiled.
func New() (*Pipeline, error) {
	shader, err := ebiten.NewShader([]byte(kageSource))
	if err != nil {
		return nil, fmt.Errorf("compiling shader pipeline: %w", err)
	}
	return &Pipeline{shader: shader}, nil
}

// BuildMatrix returns the row-major 3x3 projection matrix:
// (s·W/Vw, s·H/Vh, 2·tx/Vw, −2·ty/Vh) for a unit quad at origin.
func BuildMatrix(t enginetype.Transform, viewportW, viewportH, imageW, imageH float64) [9]float64 {
	a := t.Scale * imageW / viewportW
	d := t.Scale * imageH / viewportH
	e := 2 * t.TX / viewportW
	f := -2 * t.TY / viewportH
	return [9]float64{
		a, 0, e,
		0, d, f,
		0, 0, 1,
	}
}

// Draw clears dst to transparent, uploads the current transform matrix,
// binds tex to texture unit 0, and issues the single six-vertex draw call.
// If tex is nil (no front texture yet), only the clear is performed.
func (p *Pipeline) Draw(dst, tex *ebiten.Image, matrix [9]float64) {
	dst.Clear()
	if tex == nil {
		return
	}

	bounds := tex.Bounds()
	w, h := float32(bounds.Dx()), float32(bounds.Dy())

	vertices := unitQuad
	vertices[0].SrcX, vertices[0].SrcY = 0, 0
	vertices[1].SrcX, vertices[1].SrcY = w, 0
	vertices[2].SrcX, vertices[2].SrcY = 0, h
	vertices[3].SrcX, vertices[3].SrcY = w, h

	m := mat3To4x4(matrix)
	opts := &ebiten.DrawTrianglesShaderOptions{
		Images: [4]*ebiten.Image{tex},
		Uniforms: map[string]interface{}{
			"Transform": m,
		},
	}
	dst.DrawTrianglesShader(vertices[:], quadIndices[:], p.shader, opts)
}

// Dispose releases the compiled shader program. The Pipeline must not be
// used again afterward.
func (p *Pipeline) Dispose() {
	p.shader.Dispose()
}

// mat3To4x4 flattens the row-major 3x3 matrix into the 9-float slice Kage's
// mat3 uniform expects (column-major, per Kage convention).
func mat3To4x4(m [9]float64) []float32 {
	return []float32{
		float32(m[0]), float32(m[3]), float32(m[6]),
		float32(m[1]), float32(m[4]), float32(m[7]),
		float32(m[2]), float32(m[5]), float32(m[8]),
	}
}
