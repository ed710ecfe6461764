package overlay

import "sort"

// CustomGlyphRange maps a contiguous codepoint range inside the
// reserved PUA block (U+F0000-U+F00FF) to a custom-glyph factory.
type CustomGlyphRange struct {
	Lo, Hi rune
	New    func(codepoint rune) (CustomGlyphLayer, error)
}

// CustomGlyphLayer is a single-cell animated glyph replacement: its
// geometry is implicitly one cell, and it renders after the text grid
// but before general overlays.
type CustomGlyphLayer interface {
	Update(dtSeconds float64)
	EnsureGPUResources(anyDevice any) error
	ReleaseGPUResources()
	// Render draws the layer into the cell at (col, row) with the
	// given pixel cell size.
	Render(col, row int, cellW, cellH float32) error
}

// GlyphRegistry holds the custom-glyph codepoint-range mapping and the
// live instances created for codepoints actually placed in the grid.
type GlyphRegistry struct {
	ranges    []CustomGlyphRange
	instances map[rune]CustomGlyphLayer
}

// NewGlyphRegistry creates an empty custom-glyph registry.
func NewGlyphRegistry() *GlyphRegistry {
	return &GlyphRegistry{instances: make(map[rune]CustomGlyphLayer)}
}

// RegisterRange adds a codepoint range. Ranges should not overlap;
// ranges are kept sorted by Lo, and Lookup uses the first matching
// range in that ascending order.
func (g *GlyphRegistry) RegisterRange(r CustomGlyphRange) {
	g.ranges = append(g.ranges, r)
	sort.Slice(g.ranges, func(i, j int) bool { return g.ranges[i].Lo < g.ranges[j].Lo })
}

// Lookup returns the range covering codepoint, if any.
func (g *GlyphRegistry) Lookup(codepoint rune) (CustomGlyphRange, bool) {
	for _, r := range g.ranges {
		if codepoint >= r.Lo && codepoint <= r.Hi {
			return r, true
		}
	}
	return CustomGlyphRange{}, false
}

// IsCustomGlyph reports whether codepoint falls in any registered PUA
// range, i.e. whether the text renderer should emit 0xFFFF occlusion
// for it.
func (g *GlyphRegistry) IsCustomGlyph(codepoint rune) bool {
	_, ok := g.Lookup(codepoint)
	return ok
}

// Instance returns (creating if necessary) the live layer instance for
// codepoint.
func (g *GlyphRegistry) Instance(codepoint rune) (CustomGlyphLayer, error) {
	if inst, ok := g.instances[codepoint]; ok {
		return inst, nil
	}
	r, ok := g.Lookup(codepoint)
	if !ok {
		return nil, ErrNoShaderForCodepoint
	}
	inst, err := r.New(codepoint)
	if err != nil {
		return nil, err
	}
	g.instances[codepoint] = inst
	return inst, nil
}

// ActiveCodepoints returns the codepoints with a live instance.
func (g *GlyphRegistry) ActiveCodepoints() []rune {
	out := make([]rune, 0, len(g.instances))
	for cp := range g.instances {
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
