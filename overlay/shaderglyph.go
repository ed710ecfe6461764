package overlay

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/BurntSushi/toml"
)

// ShaderGlyphUniformSize is the fixed size of the opaque uniform block
// shared between CPU write and GPU binding for every shader-glyph
// draw: iTime, iTimeDelta, iFrame, iResolution(2), iMouse(2),
// iCodepoint, rect_ndc(4), padded to 64 bytes.
const ShaderGlyphUniformSize = 64

// ShaderGlyphUniforms is the CPU-side mirror of the 64-byte uniform
// block. Offsets below are the compile-time constant shared with the
// GPU binding layout.
type ShaderGlyphUniforms struct {
	Time         float32
	TimeDelta    float32
	Frame        uint32
	ResolutionX  float32
	ResolutionY  float32
	MouseX       float32
	MouseY       float32
	Codepoint    uint32
	RectNDC      [4]float32
}

const (
	offTime        = 0
	offTimeDelta   = 4
	offFrame       = 8
	offResolutionX = 12
	offResolutionY = 16
	offMouseX      = 20
	offMouseY      = 24
	offCodepoint   = 28
	offRectNDC     = 32
)

// Pack serializes u into a ShaderGlyphUniformSize-byte little-endian
// block ready to write into the layer's uniform buffer.
func (u ShaderGlyphUniforms) Pack() []byte {
	buf := make([]byte, ShaderGlyphUniformSize)
	putF32(buf, offTime, u.Time)
	putF32(buf, offTimeDelta, u.TimeDelta)
	binary.LittleEndian.PutUint32(buf[offFrame:], u.Frame)
	putF32(buf, offResolutionX, u.ResolutionX)
	putF32(buf, offResolutionY, u.ResolutionY)
	putF32(buf, offMouseX, u.MouseX)
	putF32(buf, offMouseY, u.MouseY)
	binary.LittleEndian.PutUint32(buf[offCodepoint:], u.Codepoint)
	for i, v := range u.RectNDC {
		putF32(buf, offRectNDC+i*4, v)
	}
	return buf
}

func putF32(b []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(b[off:], math.Float32bits(v))
}

// ShaderMapping is the parsed shader-glyph mapping configuration file:
// a default shader plus a list of per-codepoint or per-range
// assignments within the PUA block U+F0000-U+F00FF.
type ShaderMapping struct {
	Default string          `toml:"default"`
	Shaders []ShaderMapEntry `toml:"shaders"`
}

// ShaderMapEntry is one mapping rule. Exactly one of Codepoint or
// Range should be set; Codepoint is stored as a plain int because TOML
// has no native rune/hex-scalar type.
type ShaderMapEntry struct {
	File      string `toml:"file"`
	Codepoint int64  `toml:"codepoint"`
	Range     [2]int64 `toml:"range"`
}

// LoadShaderMapping parses a shader-glyph mapping file.
func LoadShaderMapping(path string) (*ShaderMapping, error) {
	var m ShaderMapping
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("overlay: load shader mapping: %w", err)
	}
	return &m, nil
}

// Resolve returns the shader file for codepoint, falling back to
// Default when no entry matches. Returns ("", false) if there is
// neither a match nor a default.
func (m *ShaderMapping) Resolve(codepoint rune) (string, bool) {
	cp := int64(codepoint)
	for _, e := range m.Shaders {
		if e.Codepoint != 0 && int64(e.Codepoint) == cp {
			return e.File, true
		}
		if e.Range != [2]int64{} && cp >= e.Range[0] && cp <= e.Range[1] {
			return e.File, true
		}
	}
	if m.Default != "" {
		return m.Default, true
	}
	return "", false
}

// ShaderGlyphPUALo and ShaderGlyphPUAHi bound the reserved Unicode
// Private Use Area block used for shader-glyph codepoints.
const (
	ShaderGlyphPUALo rune = 0xF0000
	ShaderGlyphPUAHi rune = 0xF00FF
)
