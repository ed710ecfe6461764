// Package overlay implements the overlay scheduler (C4): plugin
// registries, per-frame update/render ordering, layer lifecycle, input
// routing, and the shader-glyph codepoint-to-PUA mapping.
package overlay

import "github.com/zokrezyl/yetty/gpu"

// ScreenMode distinguishes the main screen from the terminal's
// alternate screen buffer; overlay layers are only rendered while
// their screen mode matches the active one.
type ScreenMode int

const (
	ScreenMain ScreenMode = iota
	ScreenAlternate
)

// CellRect is an inclusive cell-space rectangle.
type CellRect struct {
	Col0, Row0, Col1, Row1 int
}

// Contains reports whether (col, row) falls inside the rectangle.
func (r CellRect) Contains(col, row int) bool {
	return col >= r.Col0 && col <= r.Col1 && row >= r.Row0 && row <= r.Row1
}

// Layer is one instance of an overlay plugin at a cell rectangle. A
// Layer's GPU resources are created lazily on first visible render and
// released when Visible transitions true->false, per the lifecycle in
// the scheduler's contract.
type Layer interface {
	// ID is the layer's process-unique logical id.
	ID() int64
	// Rect returns the layer's cell-space footprint.
	Rect() CellRect
	// Screen reports which screen mode this layer belongs to.
	Screen() ScreenMode
	// Visible reports whether the layer should currently be drawn.
	Visible() bool
	// Focused reports whether the layer currently holds keyboard focus.
	Focused() bool

	// Update propagates elapsed time to the layer's CPU-side state.
	Update(dtSeconds float64)

	// EnsureGPUResources lazily creates GPU resources on first visible
	// render, and is a no-op if they already exist.
	EnsureGPUResources(d *gpu.Device) error
	// ReleaseGPUResources tears down GPU resources, retaining any
	// CPU-side payload (e.g. decoded image pixels) so re-enabling is
	// cheap. Called when Visible transitions true->false.
	ReleaseGPUResources()

	// WantsMouse reports whether the layer consumes pointer events
	// falling inside its rect, used by the scheduler's hit test.
	WantsMouse() bool
	// HandlePointer delivers a pointer event already known to fall
	// inside the layer's rect; returns true if consumed.
	HandlePointer(ev PointerEvent) bool
	// HandleKey delivers a keyboard event to a focused layer; returns
	// true if consumed.
	HandleKey(ev KeyEvent) bool
}

// PointerEvent is a scheduler-normalized pointer event in cell
// coordinates.
type PointerEvent struct {
	Col, Row int
	Button   int
	Pressed  bool
	ScrollDX float64
	ScrollDY float64
}

// KeyEvent is a scheduler-normalized key event.
type KeyEvent struct {
	Keycode  uint32
	Scancode uint32
	Mods     uint8
	Pressed  bool
}

// BaseLayer provides the bookkeeping shared by every layer
// implementation: id, rect, screen, visibility, focus, and the
// dirty-on-visibility-change tracking the scheduler's lifecycle relies
// on. Concrete plugins embed it and implement the render-specific
// parts of the Layer interface.
type BaseLayer struct {
	id           int64
	rect         CellRect
	screen       ScreenMode
	visible      bool
	focused      bool
	hadGPURes    bool
}

// NewBaseLayer creates bookkeeping for a layer with the given id,
// rect, and screen mode. It starts invisible, matching "creating a
// layer allocates only CPU state".
func NewBaseLayer(id int64, rect CellRect, screen ScreenMode) BaseLayer {
	return BaseLayer{id: id, rect: rect, screen: screen}
}

func (b *BaseLayer) ID() int64          { return b.id }
func (b *BaseLayer) Rect() CellRect     { return b.rect }
func (b *BaseLayer) Screen() ScreenMode { return b.screen }
func (b *BaseLayer) Visible() bool      { return b.visible }
func (b *BaseLayer) Focused() bool      { return b.focused }

// SetVisible sets the visibility flag and returns whether GPU
// resources need to be released as a result (true->false transition).
func (b *BaseLayer) SetVisible(v bool) (needsRelease bool) {
	wasVisible := b.visible
	b.visible = v
	return wasVisible && !v && b.hadGPURes
}

// SetFocused sets the focus flag.
func (b *BaseLayer) SetFocused(f bool) { b.focused = f }

// MarkGPUResourcesCreated records that EnsureGPUResources has run.
func (b *BaseLayer) MarkGPUResourcesCreated() { b.hadGPURes = true }

// MarkGPUResourcesReleased records that ReleaseGPUResources has run.
func (b *BaseLayer) MarkGPUResourcesReleased() { b.hadGPURes = false }

// HasGPUResources reports whether EnsureGPUResources has run since the
// last release.
func (b *BaseLayer) HasGPUResources() bool { return b.hadGPURes }
