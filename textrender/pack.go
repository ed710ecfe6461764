package textrender

import (
	"encoding/binary"
	"math"

	"github.com/zokrezyl/yetty"
)

func putFloat32(b []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(b[off:], math.Float32bits(v))
}

// packColors serializes colors as tightly-packed float32 RGBA
// quadruples (16 bytes each), matching the layout a fragment shader
// would bind as a storage buffer of vec4<f32>.
func packColors(colors []yetty.RGBA) []byte {
	out := make([]byte, len(colors)*16)
	for i, c := range colors {
		off := i * 16
		putFloat32(out, off+0, float32(c.R))
		putFloat32(out, off+4, float32(c.G))
		putFloat32(out, off+8, float32(c.B))
		putFloat32(out, off+12, float32(c.A))
	}
	return out
}
