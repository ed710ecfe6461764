// Package shadertoy implements the built-in "shader" overlay plugin:
// procedural WGSL fragment shaders mapped either onto a full overlay
// layer's cell rect or, via the custom-glyph dispatch, onto a single
// reserved-codepoint cell.
package shadertoy

import (
	"errors"
	"os"
	"time"

	"github.com/gogpu/wgpu"
	"github.com/zokrezyl/yetty/gpu"
	"github.com/zokrezyl/yetty/overlay"
)

// ErrBadRenderTarget is returned when EnsureGPUResources is called with
// something other than a shadertoy.RenderTarget.
var ErrBadRenderTarget = errors.New("shadertoy: EnsureGPUResources requires a shadertoy.RenderTarget")

// RenderTarget bundles the device and the shared color attachment
// every shadertoy draw composites onto, plus that attachment's pixel
// size for NDC conversion. Both Layer and GlyphLayer receive one of
// these through their EnsureGPUResources call instead of a bare
// *gpu.Device, since unlike the text grid they draw directly onto the
// already-rendered frame rather than through a caller-supplied pass.
type RenderTarget struct {
	Device    *gpu.Device
	View      *wgpu.TextureView
	ViewportW float32
	ViewportH float32
}

// GlyphLayer is the custom-glyph instance for one PUA codepoint: it
// resolves a shader file via the mapping, falling back to the built-in
// twirl effect, and redraws exactly the cell it occupies every frame.
type GlyphLayer struct {
	codepoint rune
	wgsl      string

	res    shaderResources
	target RenderTarget

	start    time.Time
	lastTime float64
	frame    uint32
}

// NewGlyphLayer constructs the glyph instance for codepoint, resolving
// its shader file from mapping (nil falls back to the default shader
// for every codepoint).
func NewGlyphLayer(codepoint rune, mapping *overlay.ShaderMapping) (overlay.CustomGlyphLayer, error) {
	wgsl := defaultWGSL
	if mapping != nil {
		if path, ok := mapping.Resolve(codepoint); ok {
			if src, err := os.ReadFile(path); err == nil {
				wgsl = string(src)
			}
		}
	}
	return &GlyphLayer{codepoint: codepoint, wgsl: wgsl, start: time.Now()}, nil
}

func (g *GlyphLayer) Update(dtSeconds float64) {
	g.lastTime += dtSeconds
	g.frame++
}

// EnsureGPUResources expects anyDevice to be a shadertoy.RenderTarget:
// the engine owns the frame target and is the only caller in a
// position to supply it.
func (g *GlyphLayer) EnsureGPUResources(anyDevice any) error {
	rt, ok := anyDevice.(RenderTarget)
	if !ok {
		return ErrBadRenderTarget
	}
	g.target = rt
	return g.res.ensure(rt.Device, g.wgsl)
}

func (g *GlyphLayer) ReleaseGPUResources() { g.res.release() }

// Render composites the glyph's shader into exactly the pixel
// rectangle (col*cellW, row*cellH, cellW, cellH) of the shared frame
// target, per the custom-glyph contract: one cell, no more.
func (g *GlyphLayer) Render(col, row int, cellW, cellH float32) error {
	if !g.res.ready() {
		return nil
	}
	x0 := float32(col) * cellW
	y0 := float32(row) * cellH
	rect := rectNDC(x0, y0, x0+cellW, y0+cellH, g.target.ViewportW, g.target.ViewportH)

	u := overlay.ShaderGlyphUniforms{
		Time:        float32(g.lastTime),
		Frame:       g.frame,
		ResolutionX: cellW,
		ResolutionY: cellH,
		Codepoint:   uint32(g.codepoint),
		RectNDC:     rect,
	}
	return g.res.draw(g.target.Device, g.target.View, u)
}
