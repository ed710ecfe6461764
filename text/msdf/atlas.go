package msdf

import (
	"fmt"
	"sync"

	"github.com/zokrezyl/yetty/text"
)

// slotEmpty is the reserved slot index meaning "empty / not present".
// It is never assigned to a real glyph; the atlas starts with exactly
// one slot (slot 0) occupied by a blank cell.
const slotEmpty = 0

// GlyphMetrics describes where a single codepoint lives in the atlas
// and how its quad should be placed relative to the text cursor.
type GlyphMetrics struct {
	Codepoint rune

	// UVMin/UVMax are normalized atlas texture coordinates, [0,1]^2.
	UVMin [2]float32
	UVMax [2]float32

	// Size is the quad size in pixels.
	Size [2]float32

	// Bearing is the offset from the cursor origin to the quad's
	// top-left corner, in pixels.
	Bearing [2]float32

	// Advance is the horizontal advance in pixels.
	Advance float32
}

// Atlas is a single, monotonically growing MSDF texture atlas.
//
// Packing is shelf-based and append-only: slot 0 is reserved as
// "empty", new slots are appended as glyphs are added, and existing
// slots never move or get reclaimed. The atlas is never compacted
// during a run.
type Atlas struct {
	mu sync.Mutex

	Width, Height int
	Data          []byte // RGBA, Width*Height*4

	shelf   *ShelfAllocator
	padding int

	fontSize   float64
	lineHeight float64
	pixelRange float64

	generator *Generator
	extractor *text.OutlineExtractor

	primary  *text.FontSource
	fallback *FallbackFinder

	// slots maps codepoint -> slot index. Append-only.
	slots map[rune]uint16
	// metrics is indexed by slot; metrics[0] is the reserved empty slot.
	metrics []GlyphMetrics
	// pending holds codepoints added since the last UploadPending.
	pending map[rune]struct{}
	// failed holds codepoints whose fallback search already came up
	// empty, so it is never retried.
	failed map[rune]struct{}

	gpu   *gpuResources
	dirty bool
}

// NewAtlas creates an atlas with the given square edge length in
// pixels and a fixed inter-glyph padding (must be >= 2px per the
// data model's shelf-packer invariant).
func NewAtlas(edge, padding int) *Atlas {
	if padding < 2 {
		padding = 2
	}
	a := &Atlas{
		Width:   edge,
		Height:  edge,
		Data:    make([]byte, edge*edge*4),
		shelf:   NewShelfAllocator(edge, edge, padding),
		padding: padding,
		slots:   make(map[rune]uint16),
		pending: make(map[rune]struct{}),
		failed:  make(map[rune]struct{}),
	}
	// Slot 0 is reserved; it has no backing glyph.
	a.metrics = append(a.metrics, GlyphMetrics{})
	return a
}

// Generate loads the primary font and rasterizes the fixed built-in
// codepoint set into the atlas: ASCII printable, Latin Extended A/B,
// General Punctuation, Arrows, Math Operators, Box Drawing, Block
// Elements, Geometric Shapes, Miscellaneous Symbols, Dingbats,
// Braille, and Powerline glyphs.
func (a *Atlas) Generate(fontPath string, fontSize float64, atlasEdge int) error {
	src, err := text.NewFontSourceFromFile(fontPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFontLoadFailed, err)
	}

	a.mu.Lock()
	a.primary = src
	a.fontSize = fontSize
	a.extractor = text.NewOutlineExtractor()
	a.generator = DefaultGenerator()
	a.pixelRange = a.generator.config.Range
	metrics := src.Parsed().Metrics(fontSize)
	a.lineHeight = metrics.Ascent + metrics.Descent + metrics.LineGap
	a.mu.Unlock()

	if atlasEdge > 0 && atlasEdge != a.Width {
		a.resize(atlasEdge)
	}

	for _, cp := range BuiltinCodepoints() {
		gid := src.Parsed().GlyphIndex(cp)
		if gid == 0 && cp != ' ' {
			continue
		}
		outline, err := a.extractor.ExtractOutline(src.Parsed(), text.GlyphID(gid), fontSize)
		if err != nil {
			continue
		}
		if _, err := a.addGlyph(cp, outline); err != nil {
			// Atlas full: stop early, keep what succeeded so far.
			if err == ErrAtlasFull {
				break
			}
		}
	}
	return nil
}

// resize reallocates the backing image, discarding prior slot data.
// Only meaningful before any glyph has been added.
func (a *Atlas) resize(edge int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Width, a.Height = edge, edge
	a.Data = make([]byte, edge*edge*4)
	a.shelf = NewShelfAllocator(edge, edge, a.padding)
}

// addGlyph rasterizes outline as MSDF, shelf-packs it into the atlas
// image, appends a new slot, and records metrics.
func (a *Atlas) addGlyph(cp rune, outline *text.GlyphOutline) (uint16, error) {
	msdfBitmap, err := a.generator.Generate(outline)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrFontLoadFailed, err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	w, h := msdfBitmap.Width, msdfBitmap.Height
	x, y, ok := a.shelf.Allocate(w, h)
	if !ok {
		return 0, ErrAtlasFull
	}

	a.blit(msdfBitmap, x, y)

	slot := uint16(len(a.metrics))
	atlasW, atlasH := float32(a.Width), float32(a.Height)

	bearingX, bearingY := float32(0), float32(0)
	sizeX, sizeY := float32(w), float32(h)
	if outline != nil && !outline.Bounds.Empty() {
		bearingX = float32(outline.Bounds.MinX) - float32(a.padding)
		bearingY = float32(outline.Bounds.MaxY) + float32(a.padding)
	}

	m := GlyphMetrics{
		Codepoint: cp,
		UVMin:     [2]float32{float32(x) / atlasW, float32(y) / atlasH},
		UVMax:     [2]float32{float32(x+w) / atlasW, float32(y+h) / atlasH},
		Size:      [2]float32{sizeX, sizeY},
		Bearing:   [2]float32{bearingX, bearingY},
		Advance:   floatOrZero(outline),
	}

	a.metrics = append(a.metrics, m)
	a.slots[cp] = slot
	a.pending[cp] = struct{}{}
	a.dirty = true

	return slot, nil
}

func floatOrZero(o *text.GlyphOutline) float32 {
	if o == nil {
		return 0
	}
	return o.Advance
}

// blit copies the generated MSDF into the atlas image at (x, y),
// flipping vertically: glyph space is Y-up, atlas storage is Y-down.
// Alpha is 255 for every pixel covered by the MSDF bitmap.
func (a *Atlas) blit(m *MSDF, x, y int) {
	for sy := 0; sy < m.Height; sy++ {
		dy := y + (m.Height - 1 - sy)
		if dy < 0 || dy >= a.Height {
			continue
		}
		for sx := 0; sx < m.Width; sx++ {
			dx := x + sx
			if dx < 0 || dx >= a.Width {
				continue
			}
			r, g, b := m.GetPixel(sx, sy)
			off := (dy*a.Width + dx) * 4
			a.Data[off] = r
			a.Data[off+1] = g
			a.Data[off+2] = b
			a.Data[off+3] = 255
		}
	}
}

// GlyphIndex returns the atlas slot for codepoint, rasterizing it via
// fallback font search on first request. Returns slotEmpty (0) if the
// codepoint cannot be rasterized by any configured fallback.
func (a *Atlas) GlyphIndex(codepoint rune) uint16 {
	a.mu.Lock()
	if slot, ok := a.slots[codepoint]; ok {
		a.mu.Unlock()
		return slot
	}
	if _, failed := a.failed[codepoint]; failed {
		a.mu.Unlock()
		return slotEmpty
	}
	fallback := a.fallback
	a.mu.Unlock()

	if fallback == nil {
		a.mu.Lock()
		a.failed[codepoint] = struct{}{}
		a.mu.Unlock()
		return slotEmpty
	}

	outline, ok := fallback.Find(codepoint, a.fontSize)
	if !ok {
		a.mu.Lock()
		a.failed[codepoint] = struct{}{}
		a.mu.Unlock()
		return slotEmpty
	}

	slot, err := a.addGlyph(codepoint, outline)
	if err != nil {
		a.mu.Lock()
		a.failed[codepoint] = struct{}{}
		a.mu.Unlock()
		return slotEmpty
	}
	return slot
}

// SetFallback configures the fallback font finder used by GlyphIndex
// for unseen codepoints.
func (a *Atlas) SetFallback(f *FallbackFinder) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fallback = f
}

// Metrics returns a copy of the metrics record for slot, or the zero
// value and false if slot is out of range.
func (a *Atlas) Metrics(slot uint16) (GlyphMetrics, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if int(slot) >= len(a.metrics) {
		return GlyphMetrics{}, false
	}
	return a.metrics[slot], true
}

// PendingCount returns the number of codepoints awaiting GPU upload.
func (a *Atlas) PendingCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.pending)
}

// SlotCount returns the total number of occupied slots, including the
// reserved empty slot 0.
func (a *Atlas) SlotCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.metrics)
}

// LineHeight returns the font's line height in pixels, as recorded by
// the most recent Generate or Load call.
func (a *Atlas) LineHeight() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lineHeight
}

// FontSize returns the font size used to generate the atlas.
func (a *Atlas) FontSize() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.fontSize
}

// PixelRange returns the SDF pixel range used during generation.
func (a *Atlas) PixelRange() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pixelRange
}

// codepointRange is a contiguous inclusive range of Unicode codepoints.
type codepointRange struct {
	Lo, Hi rune
}

// builtinRanges is the fixed codepoint set rasterized by Generate.
var builtinRanges = []codepointRange{
	{0x0020, 0x007E}, // ASCII printable
	{0x0100, 0x017F}, // Latin Extended-A
	{0x0180, 0x024F}, // Latin Extended-B
	{0x2000, 0x206F}, // General Punctuation
	{0x2190, 0x21FF}, // Arrows
	{0x2200, 0x22FF}, // Mathematical Operators
	{0x2500, 0x257F}, // Box Drawing
	{0x2580, 0x259F}, // Block Elements
	{0x25A0, 0x25FF}, // Geometric Shapes
	{0x2600, 0x26FF}, // Miscellaneous Symbols
	{0x2700, 0x27BF}, // Dingbats
	{0x2800, 0x28FF}, // Braille Patterns
	{0xE0A0, 0xE0D7}, // Powerline symbols
}

// BuiltinCodepoints returns the full built-in codepoint set rasterized
// by Generate, in ascending order.
func BuiltinCodepoints() []rune {
	n := 0
	for _, r := range builtinRanges {
		n += int(r.Hi-r.Lo) + 1
	}
	out := make([]rune, 0, n)
	for _, r := range builtinRanges {
		for cp := r.Lo; cp <= r.Hi; cp++ {
			out = append(out, cp)
		}
	}
	return out
}
