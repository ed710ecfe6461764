package shadertoy

import (
	"fmt"
	"time"

	"github.com/zokrezyl/yetty/gpu"
	"github.com/zokrezyl/yetty/overlay"
)

// Plugin is the registry-facing "shader" plugin: it hands out Layer
// instances spanning an arbitrary cell rect, independent of the
// custom-glyph dispatch NewGlyphLayer serves.
type Plugin struct{}

// New is the overlay.Factory for the "shader" plugin.
func New() (overlay.Plugin, error) { return &Plugin{}, nil }

func (p *Plugin) Name() string { return "shader" }

// Payload configures a shader layer: WGSL selects the fragment effect
// (empty uses the built-in twirl shader), Target names the frame
// attachment it composites onto, and CellW/CellH give the pixel size of
// one grid cell so the layer's CellRect can be converted to the pixel
// rectangle Target expects.
type Payload struct {
	WGSL         string
	Target       RenderTarget
	CellW, CellH float32
}

func (p *Plugin) NewLayer(id int64, rect overlay.CellRect, screen overlay.ScreenMode, payload any) (overlay.Layer, error) {
	pl, ok := payload.(Payload)
	if !ok {
		return nil, fmt.Errorf("shadertoy: NewLayer requires a shadertoy.Payload, got %T", payload)
	}
	wgsl := pl.WGSL
	if wgsl == "" {
		wgsl = defaultWGSL
	}
	cellW, cellH := pl.CellW, pl.CellH
	if cellW <= 0 {
		cellW = 1
	}
	if cellH <= 0 {
		cellH = 1
	}
	return &Layer{
		BaseLayer: overlay.NewBaseLayer(id, rect, screen),
		wgsl:      wgsl,
		target:    pl.Target,
		cellW:     cellW,
		cellH:     cellH,
		start:     time.Now(),
	}, nil
}

// Layer is a shader-driven overlay panel spanning its full cell rect,
// redrawn every frame while visible.
type Layer struct {
	overlay.BaseLayer

	wgsl         string
	target       RenderTarget
	cellW, cellH float32
	res          shaderResources

	start    time.Time
	lastTime float64
	frame    uint32
}

func (l *Layer) Update(dtSeconds float64) {
	l.lastTime += dtSeconds
	l.frame++
}

func (l *Layer) EnsureGPUResources(d *gpu.Device) error {
	if l.HasGPUResources() {
		return nil
	}
	if err := l.res.ensure(d, l.wgsl); err != nil {
		return err
	}
	l.MarkGPUResourcesCreated()
	return nil
}

func (l *Layer) ReleaseGPUResources() {
	if !l.HasGPUResources() {
		return
	}
	l.res.release()
	l.MarkGPUResourcesReleased()
}

func (l *Layer) WantsMouse() bool                           { return false }
func (l *Layer) HandlePointer(ev overlay.PointerEvent) bool { return false }
func (l *Layer) HandleKey(ev overlay.KeyEvent) bool         { return false }

// Draw composites the layer's shader into its full cell rect. It is
// not part of the overlay.Layer interface; callers that drive
// RenderLayers type-assert for it, since Layer draws are self-contained
// (their own command buffer and submit) rather than recorded into a
// shared pass.
func (l *Layer) Draw() error {
	if !l.res.ready() {
		return nil
	}
	rect := l.Rect()
	x0 := float32(rect.Col0) * l.cellW
	y0 := float32(rect.Row0) * l.cellH
	x1 := float32(rect.Col1+1) * l.cellW
	y1 := float32(rect.Row1+1) * l.cellH
	ndc := rectNDC(x0, y0, x1, y1, l.target.ViewportW, l.target.ViewportH)

	u := overlay.ShaderGlyphUniforms{
		Time:        float32(l.lastTime),
		Frame:       l.frame,
		ResolutionX: l.target.ViewportW,
		ResolutionY: l.target.ViewportH,
		RectNDC:     ndc,
	}
	return l.res.draw(l.target.Device, l.target.View, u)
}
