// Package textrender implements the damage-aware text renderer (C3):
// Render uploads changed grid rows and the atlas to device memory and
// resolves cursor blink state; Encode then records the actual draw
// call, an instanced quad per visible cell plus one trailing instance
// for the cursor block, against a live render pass.
package textrender

import (
	"fmt"
	"time"

	"github.com/gogpu/wgpu"
	"github.com/zokrezyl/yetty/grid"
	"github.com/zokrezyl/yetty/gpu"
	"github.com/zokrezyl/yetty/text/msdf"
)

// Uniforms is the per-frame uniform block: cell size, global scale,
// grid dimensions, and cursor placement, applied at draw time and
// never touching the atlas itself.
type Uniforms struct {
	CellWidthPx   float32
	CellHeightPx  float32
	Scale         float32
	Cols          float32
	Rows          float32
	CursorCol     float32
	CursorRow     float32
	CursorVisible float32
}

const uniformsSize = 32

// Renderer draws a Grid against an Atlas. It owns the GPU resources
// that back the three cell arrays, the atlas sampler binding, and the
// per-frame uniform buffer.
type Renderer struct {
	device *gpu.Device
	atlas  *msdf.Atlas

	cellSize Uniforms

	glyphBuf *wgpu.Buffer
	fgBuf    *wgpu.Buffer
	bgBuf    *wgpu.Buffer
	uniform  *wgpu.Buffer

	pixelsW, pixelsH int

	damageOn bool

	blink       Blinker
	lastColWide int
	lastRowWide int

	pipe           *pipeline
	bindGroup      *wgpu.BindGroup
	bindGroupStale bool
}

// Options configures Init.
type Options struct {
	// DamageTracking enables row-aligned damage-only uploads. When
	// false every row is uploaded every frame.
	DamageTracking bool
	// BlinkPeriod is the cursor on/off half-period; zero uses the
	// 500ms default.
	BlinkPeriod time.Duration
}

// Init creates the renderer's GPU resources sized for an initial
// cols x rows grid.
func Init(d *gpu.Device, atlas *msdf.Atlas, cols, rows int, opts Options) (*Renderer, error) {
	period := opts.BlinkPeriod
	if period <= 0 {
		period = 500 * time.Millisecond
	}

	r := &Renderer{
		device:   d,
		atlas:    atlas,
		damageOn: opts.DamageTracking,
		blink:    NewBlinker(period),
	}

	if err := r.allocateCellBuffers(cols, rows); err != nil {
		return nil, err
	}

	uniform, err := d.CreateUniformBuffer("textrender-uniforms", uniformsSize)
	if err != nil {
		return nil, fmt.Errorf("textrender: %w", err)
	}
	r.uniform = uniform
	r.cellSize = Uniforms{CellWidthPx: 9, CellHeightPx: 18, Scale: 1, Cols: float32(cols), Rows: float32(rows)}
	if err := r.writeUniforms(); err != nil {
		return nil, err
	}

	pipe, err := newPipeline(d)
	if err != nil {
		return nil, err
	}
	r.pipe = pipe
	r.bindGroupStale = true

	return r, nil
}

func (r *Renderer) allocateCellBuffers(cols, rows int) error {
	n := uint64(cols * rows)
	glyphBuf, err := r.device.CreateStorageBuffer("textrender-glyph", n*2)
	if err != nil {
		return fmt.Errorf("textrender: %w", err)
	}
	fgBuf, err := r.device.CreateStorageBuffer("textrender-fg", n*16)
	if err != nil {
		return fmt.Errorf("textrender: %w", err)
	}
	bgBuf, err := r.device.CreateStorageBuffer("textrender-bg", n*16)
	if err != nil {
		return fmt.Errorf("textrender: %w", err)
	}
	r.glyphBuf, r.fgBuf, r.bgBuf = glyphBuf, fgBuf, bgBuf
	r.lastColWide, r.lastRowWide = cols, rows
	r.cellSize.Cols, r.cellSize.Rows = float32(cols), float32(rows)
	r.bindGroupStale = true
	return nil
}

// Resize reconfigures the renderer's output surface size in pixels.
func (r *Renderer) Resize(pixelsW, pixelsH int) {
	r.pixelsW, r.pixelsH = pixelsW, pixelsH
}

// SetCellSize updates the uniform cell size in pixels, used to place
// quads; it never touches atlas content.
func (r *Renderer) SetCellSize(wPx, hPx float32) error {
	r.cellSize.CellWidthPx, r.cellSize.CellHeightPx = wPx, hPx
	return r.writeUniforms()
}

// SetScale updates the uniform global scale factor.
func (r *Renderer) SetScale(s float32) error {
	r.cellSize.Scale = s
	return r.writeUniforms()
}

func (r *Renderer) writeUniforms() error {
	buf := make([]byte, uniformsSize)
	putFloat32(buf, 0, r.cellSize.CellWidthPx)
	putFloat32(buf, 4, r.cellSize.CellHeightPx)
	putFloat32(buf, 8, r.cellSize.Scale)
	putFloat32(buf, 12, r.cellSize.Cols)
	putFloat32(buf, 16, r.cellSize.Rows)
	putFloat32(buf, 20, r.cellSize.CursorCol)
	putFloat32(buf, 24, r.cellSize.CursorRow)
	putFloat32(buf, 28, r.cellSize.CursorVisible)
	return r.device.WriteBuffer(r.uniform, 0, buf)
}

// RenderResult reports what a Render call did, so the caller's frame
// loop can skip presenting when there was no work at all.
type RenderResult struct {
	RowsUploaded      int
	FullUpload        bool
	CursorVisible     bool
	CursorChanged     bool
	NoWork            bool
}

// Render uploads changed grid rows (or the whole grid) per the damage
// policy, re-uploads any pending atlas glyphs, and reports cursor
// state for the caller to composite. It does not itself issue GPU
// draw commands — callers with a live wgpu.RenderPassEncoder call
// Encode after Render to record the draw calls; Render's job is damage
// resolution and buffer upload bookkeeping, which must happen whether
// or not a frame is ultimately presented.
func (r *Renderer) Render(g *grid.Grid, cursorCol, cursorRow int, cursorEnabled bool, now time.Time) (RenderResult, error) {
	if g.Cols() != r.lastColWide || g.Rows() != r.lastRowWide {
		if err := r.allocateCellBuffers(g.Cols(), g.Rows()); err != nil {
			return RenderResult{}, err
		}
	}

	if r.atlas.PendingCount() > 0 {
		if err := r.atlas.UploadPending(r.device); err != nil {
			return RenderResult{}, err
		}
		r.bindGroupStale = true
	}

	var rows []int
	full := false
	if r.damageOn {
		rows, full = g.Damage().GetAndClear()
	} else {
		full = true
		g.Damage().Clear()
	}

	uploaded := 0
	if full {
		if err := r.uploadRows(g, allRows(g.Rows())); err != nil {
			return RenderResult{}, err
		}
		uploaded = g.Rows()
	} else if len(rows) > 0 {
		if err := r.uploadRows(g, rows); err != nil {
			return RenderResult{}, err
		}
		uploaded = len(rows)
	}

	visible, changed := r.blink.Update(now, cursorEnabled)

	r.cellSize.CursorCol, r.cellSize.CursorRow = float32(cursorCol), float32(cursorRow)
	if visible {
		r.cellSize.CursorVisible = 1
	} else {
		r.cellSize.CursorVisible = 0
	}
	if err := r.writeUniforms(); err != nil {
		return RenderResult{}, err
	}

	if err := r.ensureBindGroup(); err != nil {
		return RenderResult{}, err
	}

	noWork := uploaded == 0 && !changed
	return RenderResult{
		RowsUploaded:  uploaded,
		FullUpload:    full,
		CursorVisible: visible,
		CursorChanged: changed,
		NoWork:        noWork,
	}, nil
}

// ensureBindGroup rebuilds the draw-time bind group when the cell
// buffers or atlas resources it references have changed since the
// last Render.
func (r *Renderer) ensureBindGroup() error {
	if !r.bindGroupStale && r.bindGroup != nil {
		return nil
	}
	view := r.atlas.TextureView()
	sampler := r.atlas.Sampler()
	metrics := r.atlas.MetricsBuffer()
	if view == nil || sampler == nil || metrics == nil {
		return fmt.Errorf("textrender: atlas has no GPU resources yet")
	}

	bg, err := r.pipe.bindGroup(r.device, r.uniform, r.glyphBuf, r.fgBuf, r.bgBuf, metrics, view, sampler)
	if err != nil {
		return fmt.Errorf("textrender: bind group: %w", err)
	}
	if r.bindGroup != nil {
		r.bindGroup.Release()
	}
	r.bindGroup = bg
	r.bindGroupStale = false
	return nil
}

// Encode records the cell-grid draw call — an instanced quad per
// visible cell plus a trailing cursor-block instance — into pass.
// Render must have been called at least once first so the pipeline's
// bind group reflects the current buffers.
func (r *Renderer) Encode(pass *wgpu.RenderPassEncoder) error {
	if r.pipe == nil || r.bindGroup == nil {
		return fmt.Errorf("textrender: encode called before a successful render")
	}
	pass.SetPipeline(r.pipe.rp)
	pass.SetBindGroup(0, r.bindGroup, nil)
	cells := uint32(r.lastColWide * r.lastRowWide)
	pass.Draw(6, cells+1, 0, 0)
	return nil
}

func allRows(n int) []int {
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return rows
}

func (r *Renderer) uploadRows(g *grid.Grid, rows []int) error {
	glyphAll, fgAll, bgAll := g.Buffers()
	cols := g.Cols()
	for _, row := range rows {
		start := row * cols
		end := start + cols

		glyphBytes := make([]byte, cols*2)
		for i, v := range glyphAll[start:end] {
			glyphBytes[i*2] = byte(v)
			glyphBytes[i*2+1] = byte(v >> 8)
		}
		if err := r.device.WriteBuffer(r.glyphBuf, uint64(start*2), glyphBytes); err != nil {
			return fmt.Errorf("textrender: upload glyph row %d: %w", row, err)
		}

		fgBytes := packColors(fgAll[start:end])
		if err := r.device.WriteBuffer(r.fgBuf, uint64(start*16), fgBytes); err != nil {
			return fmt.Errorf("textrender: upload fg row %d: %w", row, err)
		}
		bgBytes := packColors(bgAll[start:end])
		if err := r.device.WriteBuffer(r.bgBuf, uint64(start*16), bgBytes); err != nil {
			return fmt.Errorf("textrender: upload bg row %d: %w", row, err)
		}
	}
	return nil
}

// Release releases the renderer's GPU resources, in reverse of
// acquisition order.
func (r *Renderer) Release() {
	if r == nil {
		return
	}
	if r.bindGroup != nil {
		r.bindGroup.Release()
	}
	r.pipe.release()
	if r.uniform != nil {
		r.uniform.Release()
	}
	if r.bgBuf != nil {
		r.bgBuf.Release()
	}
	if r.fgBuf != nil {
		r.fgBuf.Release()
	}
	if r.glyphBuf != nil {
		r.glyphBuf.Release()
	}
}
