package remote

import "github.com/zokrezyl/yetty/wire"

// BuildFrame encodes a diff result into a ready-to-send wire frame.
func BuildFrame(width, height int, diffs []TileDiff) ([]byte, error) {
	tiles, err := EncodeTiles(diffs)
	if err != nil {
		return nil, err
	}
	h := wire.FrameHeader{
		Magic:    wire.FrameMagic,
		Width:    uint16(width),
		Height:   uint16(height),
		TileSize: TileSize,
		NumTiles: uint16(len(tiles)),
	}
	return wire.EncodeFrame(h, tiles)
}
