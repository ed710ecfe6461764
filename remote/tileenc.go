package remote

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"

	"github.com/zokrezyl/yetty/wire"
)

// jpegQuality matches the teacher's default export quality; 4:2:0
// chroma subsampling is the stdlib jpeg package's implicit default at
// this quality tier.
const jpegQuality = 80

// jpegWorthwhileRatio is the minimum size reduction required to prefer
// JPEG over sending the tile raw; below this, the stdlib encoder's
// per-tile overhead isn't worth the decode cost on the client.
const jpegWorthwhileRatio = 0.8

// EncodeTile picks raw or JPEG encoding for one diffed tile, favoring
// JPEG only when it would be meaningfully smaller.
func EncodeTile(t TileDiff) (wire.Tile, error) {
	raw := wire.Tile{TileX: uint16(t.TileX), TileY: uint16(t.TileY), Encoding: wire.EncodingRaw, Data: t.Pixels}

	img := tileToImage(t)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return raw, nil // fall back to raw rather than fail the frame
	}

	if float64(buf.Len()) <= float64(len(t.Pixels))*jpegWorthwhileRatio {
		return wire.Tile{TileX: uint16(t.TileX), TileY: uint16(t.TileY), Encoding: wire.EncodingJPEG, Data: buf.Bytes()}, nil
	}
	return raw, nil
}

func tileToImage(t TileDiff) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, t.W, t.H))
	for y := 0; y < t.H; y++ {
		for x := 0; x < t.W; x++ {
			off := (y*t.W + x) * 4
			b, g, r, a := t.Pixels[off], t.Pixels[off+1], t.Pixels[off+2], t.Pixels[off+3]
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: a})
		}
	}
	return img
}

// EncodeTiles encodes every diffed tile, preserving order.
func EncodeTiles(diffs []TileDiff) ([]wire.Tile, error) {
	tiles := make([]wire.Tile, 0, len(diffs))
	for _, d := range diffs {
		t, err := EncodeTile(d)
		if err != nil {
			return nil, err
		}
		tiles = append(tiles, t)
	}
	return tiles, nil
}
