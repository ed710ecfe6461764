package remote

import "github.com/zokrezyl/yetty/grid"

// CPUFramebuffer is a CPU-side compositor serving as the Differ's tile
// source. The device wrapper's Queue exposes buffer mapping but no
// texture-to-buffer readback, so the diffed framebuffer is painted
// directly from grid cell state rather than read back from the
// GPU-rendered frame; it reproduces cell background color only, not
// glyph shapes, which is sufficient for the tile-hash diff itself
// (content changes still register) even though the encoded preview is
// lower fidelity than the real render.
type CPUFramebuffer struct {
	grid          *grid.Grid
	cellW, cellH  int
	width, height int
}

// NewCPUFramebuffer returns a compositor over g, with cells cellW x
// cellH pixels.
func NewCPUFramebuffer(g *grid.Grid, cellW, cellH int) *CPUFramebuffer {
	if cellW <= 0 {
		cellW = 1
	}
	if cellH <= 0 {
		cellH = 1
	}
	return &CPUFramebuffer{
		grid:   g,
		cellW:  cellW,
		cellH:  cellH,
		width:  g.Cols() * cellW,
		height: g.Rows() * cellH,
	}
}

// Width returns the framebuffer's pixel width.
func (f *CPUFramebuffer) Width() int { return f.width }

// Height returns the framebuffer's pixel height.
func (f *CPUFramebuffer) Height() int { return f.height }

// Tile implements the Differ's source signature: tight-packed BGRA
// pixels for the tile at (tileX, tileY) sized w x h.
func (f *CPUFramebuffer) Tile(tileX, tileY, w, h int) []byte {
	out := make([]byte, w*h*4)
	originX := tileX * TileSize
	originY := tileY * TileSize
	for y := 0; y < h; y++ {
		row := (originY + y) / f.cellH
		for x := 0; x < w; x++ {
			col := (originX + x) / f.cellW
			cell, _ := f.grid.Cell(col, row)
			i := (y*w + x) * 4
			out[i+0] = byte(clamp01(cell.Bg.B) * 255)
			out[i+1] = byte(clamp01(cell.Bg.G) * 255)
			out[i+2] = byte(clamp01(cell.Bg.R) * 255)
			out[i+3] = byte(clamp01(cell.Bg.A) * 255)
		}
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
