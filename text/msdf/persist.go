package msdf

import (
	"encoding/json"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
)

// metricsRecord is the on-disk JSON shape for atlas metrics. Field
// names are lowerCamel per the external interface's description of a
// "JSON-equivalent encoding".
type metricsRecord struct {
	AtlasWidth  int                      `json:"atlasWidth"`
	AtlasHeight int                      `json:"atlasHeight"`
	FontSize    float64                  `json:"fontSize"`
	LineHeight  float64                  `json:"lineHeight"`
	PixelRange  float64                  `json:"pixelRange"`
	Glyphs      map[string]glyphRecord   `json:"glyphs"`
}

type glyphRecord struct {
	UVMin   [2]float32 `json:"uvMin"`
	UVMax   [2]float32 `json:"uvMax"`
	Size    [2]float32 `json:"size"`
	Bearing [2]float32 `json:"bearing"`
	Advance float32    `json:"advance"`
}

// Save persists the atlas image as a 4-channel RGBA PNG at atlasPath
// and the metrics record as JSON at metricsPath.
func (a *Atlas) Save(atlasPath, metricsPath string) error {
	a.mu.Lock()
	img := image.NewNRGBA(image.Rect(0, 0, a.Width, a.Height))
	copy(img.Pix, a.Data)
	rec := metricsRecord{
		AtlasWidth:  a.Width,
		AtlasHeight: a.Height,
		FontSize:    a.fontSize,
		LineHeight:  a.lineHeight,
		PixelRange:  a.pixelRange,
		Glyphs:      make(map[string]glyphRecord, len(a.slots)),
	}
	for cp, slot := range a.slots {
		m := a.metrics[slot]
		rec.Glyphs[fmt.Sprintf("%d", cp)] = glyphRecord{
			UVMin:   m.UVMin,
			UVMax:   m.UVMax,
			Size:    m.Size,
			Bearing: m.Bearing,
			Advance: m.Advance,
		}
	}
	a.mu.Unlock()

	f, err := os.Create(atlasPath) // #nosec G304 -- caller-provided output path
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIoError, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("%w: %v", ErrIoError, err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIoError, err)
	}
	if err := os.WriteFile(metricsPath, data, 0o644); err != nil { //nolint:gosec // atlas metrics are not sensitive
		return fmt.Errorf("%w: %v", ErrIoError, err)
	}
	return nil
}

// Load restores an atlas image and metrics record previously written
// by Save. The resulting atlas can serve GlyphIndex immediately;
// fallback loading for codepoints outside the persisted set still
// requires SetFallback.
func (a *Atlas) Load(atlasPath, metricsPath string) error {
	f, err := os.Open(atlasPath) // #nosec G304 -- caller-provided input path
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIoError, err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIoError, err)
	}

	data, err := os.ReadFile(metricsPath) // #nosec G304 -- caller-provided input path
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIoError, err)
	}
	var rec metricsRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("%w: %v", ErrIoError, err)
	}

	bounds := img.Bounds()
	nrgba := image.NewNRGBA(bounds)
	draw.Draw(nrgba, bounds, img, bounds.Min, draw.Src)

	a.mu.Lock()
	defer a.mu.Unlock()

	a.Width, a.Height = rec.AtlasWidth, rec.AtlasHeight
	a.Data = nrgba.Pix
	a.fontSize = rec.FontSize
	a.lineHeight = rec.LineHeight
	a.pixelRange = rec.PixelRange
	a.shelf = NewShelfAllocator(a.Width, a.Height, a.padding)
	a.slots = make(map[rune]uint16, len(rec.Glyphs))
	a.metrics = make([]GlyphMetrics, 1, len(rec.Glyphs)+1) // slot 0 reserved

	var cp rune
	for key, g := range rec.Glyphs {
		if _, err := fmt.Sscanf(key, "%d", &cp); err != nil {
			continue
		}
		slot := uint16(len(a.metrics))
		a.metrics = append(a.metrics, GlyphMetrics{
			Codepoint: cp,
			UVMin:     g.UVMin,
			UVMax:     g.UVMax,
			Size:      g.Size,
			Bearing:   g.Bearing,
			Advance:   g.Advance,
		})
		a.slots[cp] = slot
	}
	a.pending = make(map[rune]struct{})
	a.failed = make(map[rune]struct{})
	a.dirty = true

	return nil
}
