// Package grid implements the fixed-size cell grid buffer: three flat
// arrays (glyph index, foreground, background) transferred as-is to
// GPU storage buffers by the text renderer, plus damage tracking.
package grid

import "github.com/zokrezyl/yetty"

// GlyphOccluded is the glyph_index value meaning "covered by a plugin
// layer, do not sample the atlas".
const GlyphOccluded = 0xFFFF

// Cell is the logical view of one grid position. Grid itself stores
// cells split across three flat arrays for direct device upload.
type Cell struct {
	Glyph     uint16
	Fg        yetty.RGBA
	Bg        yetty.RGBA
	PluginTag uint16
}

// Grid is a fixed-size cols x rows array of cells, stored as three
// flat row-major arrays so they can be uploaded as three small
// textures or storage buffers without repacking.
type Grid struct {
	cols, rows int

	glyph []uint16
	fg    []yetty.RGBA
	bg    []yetty.RGBA
	tag   []uint16

	damage Damage
}

// New creates a grid of the given size. cols and rows must both be
// positive; New panics otherwise, matching the spec's "resize to 0
// columns or 0 rows is rejected" invariant applied at construction.
func New(cols, rows int) *Grid {
	g := &Grid{}
	if err := g.Resize(cols, rows); err != nil {
		panic(err)
	}
	return g
}

// Resize clears and reallocates the grid to cols x rows. Returns
// ErrInvalidSize if either dimension is not positive; the grid is left
// unchanged on error.
func (g *Grid) Resize(cols, rows int) error {
	if cols <= 0 || rows <= 0 {
		return ErrInvalidSize
	}
	n := cols * rows
	g.cols, g.rows = cols, rows
	g.glyph = make([]uint16, n)
	g.fg = make([]yetty.RGBA, n)
	g.bg = make([]yetty.RGBA, n)
	g.tag = make([]uint16, n)
	g.damage = NewDamage(cols, rows)
	g.damage.MarkAll()
	return nil
}

// Cols returns the grid's column count.
func (g *Grid) Cols() int { return g.cols }

// Rows returns the grid's row count.
func (g *Grid) Rows() int { return g.rows }

func (g *Grid) index(col, row int) (int, bool) {
	if col < 0 || col >= g.cols || row < 0 || row >= g.rows {
		return 0, false
	}
	return row*g.cols + col, true
}

// SetCell writes glyph/fg/bg at (col, row) and marks the cell dirty.
// Out-of-range coordinates are ignored.
func (g *Grid) SetCell(col, row int, glyph uint16, fg, bg yetty.RGBA) {
	i, ok := g.index(col, row)
	if !ok {
		return
	}
	g.glyph[i] = glyph
	g.fg[i] = fg
	g.bg[i] = bg
	g.damage.Mark(col, row)
}

// SetPluginTag sets the plugin tag at (col, row). A non-zero tag
// forces glyph_index to GlyphOccluded, per the data model's invariant
// that plugin_tag != 0 implies glyph_index == 0xFFFF.
func (g *Grid) SetPluginTag(col, row int, tag uint16) {
	i, ok := g.index(col, row)
	if !ok {
		return
	}
	g.tag[i] = tag
	if tag != 0 {
		g.glyph[i] = GlyphOccluded
	}
	g.damage.Mark(col, row)
}

// Cell returns the cell at (col, row) and whether it was in range.
func (g *Grid) Cell(col, row int) (Cell, bool) {
	i, ok := g.index(col, row)
	if !ok {
		return Cell{}, false
	}
	return Cell{Glyph: g.glyph[i], Fg: g.fg[i], Bg: g.bg[i], PluginTag: g.tag[i]}, true
}

// ScrollUp shifts every row up by n, blanking the bottom n rows, and
// marks the whole grid dirty. n >= Rows() clears the grid completely.
func (g *Grid) ScrollUp(n int) {
	if n <= 0 {
		return
	}
	if n >= g.rows {
		g.clear()
		g.damage.MarkAll()
		return
	}
	for row := 0; row < g.rows-n; row++ {
		srcStart := (row + n) * g.cols
		dstStart := row * g.cols
		copy(g.glyph[dstStart:dstStart+g.cols], g.glyph[srcStart:srcStart+g.cols])
		copy(g.fg[dstStart:dstStart+g.cols], g.fg[srcStart:srcStart+g.cols])
		copy(g.bg[dstStart:dstStart+g.cols], g.bg[srcStart:srcStart+g.cols])
		copy(g.tag[dstStart:dstStart+g.cols], g.tag[srcStart:srcStart+g.cols])
	}
	for row := g.rows - n; row < g.rows; row++ {
		g.blankRow(row)
	}
	g.damage.MarkAll()
}

func (g *Grid) blankRow(row int) {
	start := row * g.cols
	for i := start; i < start+g.cols; i++ {
		g.glyph[i] = 0
		g.fg[i] = yetty.RGBA{}
		g.bg[i] = yetty.RGBA{}
		g.tag[i] = 0
	}
}

func (g *Grid) clear() {
	for i := range g.glyph {
		g.glyph[i] = 0
		g.fg[i] = yetty.RGBA{}
		g.bg[i] = yetty.RGBA{}
		g.tag[i] = 0
	}
}

// Buffers returns the raw backing arrays for direct device upload.
// Callers must not retain slices across a Resize.
func (g *Grid) Buffers() (glyph []uint16, fg, bg []yetty.RGBA) {
	return g.glyph, g.fg, g.bg
}

// Damage returns the grid's damage tracker.
func (g *Grid) Damage() *Damage { return &g.damage }

// Tags returns the raw plugin-tag array, row-major. Callers must not
// retain the slice across a Resize; used to scan for cells occupied by
// a custom-glyph or overlay plugin without exposing the whole Cell
// struct per position.
func (g *Grid) Tags() []uint16 { return g.tag }
