// Package engine owns the top-level run loop: it wires the atlas,
// grid, text renderer, overlay scheduler, and remote pipeline behind
// a single non-blocking loop, replacing the notion of a global
// application-state singleton with an explicit struct any component
// can be constructed and tested against independently.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gogpu/wgpu"
	"github.com/zokrezyl/yetty"
	"github.com/zokrezyl/yetty/grid"
	"github.com/zokrezyl/yetty/gpu"
	"github.com/zokrezyl/yetty/overlay"
	"github.com/zokrezyl/yetty/overlay/plugins/shadertoy"
	"github.com/zokrezyl/yetty/remote"
	"github.com/zokrezyl/yetty/text/msdf"
	"github.com/zokrezyl/yetty/textrender"
)

// idleTick bounds how long Run's select loop can block waiting for
// input when nothing else is pending, so it still wakes up to service
// blink/animation timers and GPU-completion channels.
const idleTick = 8 * time.Millisecond

// shaderPluginName is the registry name the built-in shadertoy plugin
// registers under; overlay layers created with AddLayer("shader", ...)
// resolve to it.
const shaderPluginName = "shader"

// Engine is the assembled runtime: the primary loop's single owner of
// the GPU device and every component built on top of it.
type Engine struct {
	Device   *gpu.Device
	Atlas    *msdf.Atlas
	Grid     *grid.Grid
	Renderer *textrender.Renderer
	Overlay  *overlay.Scheduler
	Remote   *remote.Server
	Differ   *remote.Differ
	Capture  *remote.Capture

	frameTarget  *gpu.RGBATexture
	cellW, cellH float32

	cursorCol, cursorRow int
	cursorEnabled        bool

	log *slog.Logger

	cols, rows int
	clients    []*remote.Client
	connected  chan *remote.Client
}

// Options configures a new Engine.
type Options struct {
	Cols, Rows int
	FontPath   string
	FontSize   float64
	AtlasEdge  int
	RemoteAddr string
	Damage     bool
	Logger     *slog.Logger

	// CellWidthPx/CellHeightPx size one grid cell in pixels. Zero uses
	// the 9x18 default the text renderer falls back to.
	CellWidthPx, CellHeightPx float32

	// ShaderMapping is an optional path to a TOML file resolving
	// shader-glyph codepoints (overlay.ShaderGlyphPUALo..Hi) to WGSL
	// source files for the built-in "shader" overlay plugin.
	ShaderMapping string
}

// New constructs an Engine: opens the GPU device, builds the glyph
// atlas from FontPath, allocates the cell grid and text renderer, and
// (if RemoteAddr is set) starts listening for remote viewers.
func New(opts Options) (*Engine, error) {
	log := opts.Logger
	if log == nil {
		log = yetty.Logger()
	}

	cellW, cellH := opts.CellWidthPx, opts.CellHeightPx
	if cellW <= 0 {
		cellW = 9
	}
	if cellH <= 0 {
		cellH = 18
	}

	dev, err := gpu.Open(gpu.Options{Logger: log})
	if err != nil {
		return nil, err
	}

	atlas := msdf.NewAtlas(opts.AtlasEdge, 0)
	if opts.FontPath != "" {
		if err := atlas.Generate(opts.FontPath, opts.FontSize, opts.AtlasEdge); err != nil {
			dev.Release()
			return nil, err
		}
	}
	if err := atlas.CreateGPUResources(dev); err != nil {
		dev.Release()
		return nil, err
	}

	g := grid.New(opts.Cols, opts.Rows)

	renderer, err := textrender.Init(dev, atlas, opts.Cols, opts.Rows, textrender.Options{
		DamageTracking: opts.Damage,
		BlinkPeriod:    530 * time.Millisecond,
	})
	if err != nil {
		atlas.ReleaseGPUResources()
		dev.Release()
		return nil, err
	}
	if err := renderer.SetCellSize(cellW, cellH); err != nil {
		renderer.Release()
		atlas.ReleaseGPUResources()
		dev.Release()
		return nil, err
	}

	pixelsW := int(cellW) * opts.Cols
	pixelsH := int(cellH) * opts.Rows
	frameTarget, err := dev.CreateRGBATexture("yetty-frame", uint32(pixelsW), uint32(pixelsH))
	if err != nil {
		renderer.Release()
		atlas.ReleaseGPUResources()
		dev.Release()
		return nil, err
	}

	registry := overlay.NewRegistry()
	registry.Register(shaderPluginName, shadertoy.New)

	var mapping *overlay.ShaderMapping
	if opts.ShaderMapping != "" {
		m, err := overlay.LoadShaderMapping(opts.ShaderMapping)
		if err != nil {
			log.Warn("shader mapping load failed, falling back to built-in shader for all glyphs", "path", opts.ShaderMapping, "error", err)
		} else {
			mapping = m
		}
	}

	glyphs := overlay.NewGlyphRegistry()
	glyphs.RegisterRange(overlay.CustomGlyphRange{
		Lo: overlay.ShaderGlyphPUALo,
		Hi: overlay.ShaderGlyphPUAHi,
		New: func(codepoint rune) (overlay.CustomGlyphLayer, error) {
			return shadertoy.NewGlyphLayer(codepoint, mapping)
		},
	})

	sched := overlay.NewScheduler(registry, glyphs, log)

	e := &Engine{
		Device:      dev,
		Atlas:       atlas,
		Grid:        g,
		Renderer:    renderer,
		Overlay:     sched,
		frameTarget: frameTarget,
		cellW:       cellW,
		cellH:       cellH,
		log:         log,
		cols:        opts.Cols,
		rows:        opts.Rows,
	}

	if opts.RemoteAddr != "" {
		srv, err := remote.Listen(opts.RemoteAddr, log)
		if err != nil {
			e.Close()
			return nil, err
		}
		e.Remote = srv
		e.connected = make(chan *remote.Client, 8)
		go srv.Accept(func(c *remote.Client) { e.connected <- c })
		e.Capture = remote.NewCapture(dev, log)

		fb := remote.NewCPUFramebuffer(g, int(cellW), int(cellH))
		e.Differ = remote.NewDiffer(fb.Width(), fb.Height(), fb.Tile)
	}

	return e, nil
}

// SetCursor records the cursor's grid position and visibility for the
// next Render call. col/row of -1 or enabled=false draws no cursor.
func (e *Engine) SetCursor(col, row int, enabled bool) {
	e.cursorCol, e.cursorRow, e.cursorEnabled = col, row, enabled
}

// shaderRenderTarget bundles the engine's shared frame attachment into
// the shape the shadertoy plugin's layers and glyph instances expect.
func (e *Engine) shaderRenderTarget() shadertoy.RenderTarget {
	return shadertoy.RenderTarget{
		Device:    e.Device,
		View:      e.frameTarget.View,
		ViewportW: float32(e.frameTarget.Width),
		ViewportH: float32(e.frameTarget.Height),
	}
}

// activeGlyphPositions scans the grid's plugin-tag array for cells
// occupied by a custom glyph and returns their on-screen position
// keyed by codepoint, using the tag <-> codepoint offset convention
// (tag = codepoint - ShaderGlyphPUALo + 1, chosen because tags are
// uint16 and shader-glyph codepoints exceed that range).
func (e *Engine) activeGlyphPositions() map[rune][2]int {
	positions := make(map[rune][2]int)
	tags := e.Grid.Tags()
	cols := e.Grid.Cols()
	for i, tag := range tags {
		if tag == 0 {
			continue
		}
		cp := overlay.ShaderGlyphPUALo + rune(tag) - 1
		positions[cp] = [2]int{i % cols, i / cols}
	}
	return positions
}

// Close releases every GPU resource the Engine owns, in reverse
// acquisition order.
func (e *Engine) Close() {
	if e.Remote != nil {
		_ = e.Remote.Close()
	}
	if e.frameTarget != nil {
		e.frameTarget.Release()
	}
	if e.Renderer != nil {
		e.Renderer.Release()
	}
	if e.Atlas != nil {
		e.Atlas.ReleaseGPUResources()
	}
	if e.Device != nil {
		e.Device.Release()
	}
}

// Run drives the primary loop until ctx is canceled. It never blocks
// on GPU work: each iteration advances overlay state, renders one
// frame (grid, then custom glyphs, then overlay layers, in that
// order so each composites over what came before), advances any
// in-flight remote capture, and drains newly-accepted remote clients,
// sleeping at most idleTick between iterations.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(idleTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c := <-e.connected:
			e.clients = append(e.clients, c)
			if e.Capture != nil {
				e.Capture.ForceFullFrame()
			}
		case <-ticker.C:
			now := time.Now()
			e.Overlay.Update(e.Device, idleTick.Seconds())
			if err := e.renderFrame(now); err != nil {
				e.log.Error("render failed", "err", err)
			}
			e.pumpCapture()
		}
	}
}

// renderFrame draws one frame's worth of content into the shared frame
// target: the cell grid (cleared), then active custom-glyph layers,
// then visible overlay layers, both composited on top via a
// load-don't-clear pass.
func (e *Engine) renderFrame(now time.Time) error {
	if _, err := e.Renderer.Render(e.Grid, e.cursorCol, e.cursorRow, e.cursorEnabled, now); err != nil {
		return fmt.Errorf("engine: text render: %w", err)
	}
	if err := e.encodeGrid(); err != nil {
		return fmt.Errorf("engine: encode grid: %w", err)
	}

	positions := e.activeGlyphPositions()
	for cp := range positions {
		e.Overlay.EnsureGlyphInstance(cp)
	}
	rt := e.shaderRenderTarget()
	e.Overlay.EnsureCustomGlyphResources(rt)
	e.Overlay.RenderCustomGlyphs(positions, e.cellW, e.cellH)

	e.Overlay.RenderLayers(func(l overlay.Layer) error {
		d, ok := l.(interface{ Draw() error })
		if !ok {
			return nil
		}
		return d.Draw()
	})
	return nil
}

// encodeGrid records and submits the text renderer's draw call into
// the shared frame target, clearing it first.
func (e *Engine) encodeGrid() error {
	enc, err := e.Device.Device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "yetty-frame"})
	if err != nil {
		return err
	}
	pass, err := enc.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "yetty-frame-pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       e.frameTarget.View,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	})
	if err != nil {
		return err
	}
	if err := e.Renderer.Encode(pass); err != nil {
		return err
	}
	if err := pass.End(); err != nil {
		return err
	}
	cmd, err := enc.Finish()
	if err != nil {
		return err
	}
	return e.Device.Queue.Submit(cmd)
}

// pumpCapture advances the remote capture state machine one step and
// broadcasts a completed frame to every connected client.
func (e *Engine) pumpCapture() {
	if e.Capture == nil || e.Differ == nil {
		return
	}
	if err := e.Capture.Begin(e.Differ); err != nil {
		e.log.Error("remote capture failed to start", "err", err)
		return
	}
	tiles, ready, err := e.Capture.Advance()
	if err != nil {
		e.log.Error("remote capture failed", "err", err)
		return
	}
	if !ready {
		return
	}
	payload, err := remote.BuildFrame(e.cols, e.rows, tiles)
	if err != nil {
		e.log.Error("remote frame encode failed", "err", err)
		return
	}
	for _, c := range e.clients {
		if err := c.SendFrame(payload); err != nil {
			e.log.Warn("remote client write failed", "err", err)
		}
	}
}
