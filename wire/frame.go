// Package wire implements the little-endian, struct-packed wire
// formats for the remote frame pipeline (C5, outbound) and the remote
// input demux (C6, inbound).
package wire

import (
	"encoding/binary"
	"fmt"
)

// FrameMagic identifies a well-formed frame header.
const FrameMagic uint32 = 0x59455454 // "YETT"

// Tile encoding kinds.
const (
	EncodingRaw  uint8 = 0
	EncodingRLE  uint8 = 1
	EncodingJPEG uint8 = 2
)

// frameHeaderSize is size_of<FrameHeader> per the wire format.
const frameHeaderSize = 4 + 2 + 2 + 2 + 2

// tileHeaderSize is size_of<TileHeader>, excluding the variable-length
// data that follows.
const tileHeaderSize = 2 + 2 + 1 + 4

// maxDimension and maxTiles bound the sanity checks a receiver applies
// before trusting a frame header.
const (
	maxDimension = 8192
	maxTiles     = 1 << 16
)

// FrameHeader is the fixed-size header preceding a frame's tiles.
type FrameHeader struct {
	Magic    uint32
	Width    uint16
	Height   uint16
	TileSize uint16
	NumTiles uint16
}

// Tile is one encoded tile within a frame.
type Tile struct {
	TileX    uint16
	TileY    uint16
	Encoding uint8
	Data     []byte
}

// EncodeFrame serializes a header and its tiles into the wire format.
func EncodeFrame(h FrameHeader, tiles []Tile) ([]byte, error) {
	if int(h.NumTiles) != len(tiles) {
		return nil, fmt.Errorf("wire: header NumTiles=%d does not match %d tiles", h.NumTiles, len(tiles))
	}

	size := frameHeaderSize
	for _, t := range tiles {
		size += tileHeaderSize + len(t.Data)
	}
	buf := make([]byte, size)

	off := 0
	binary.LittleEndian.PutUint32(buf[off:], h.Magic)
	off += 4
	binary.LittleEndian.PutUint16(buf[off:], h.Width)
	off += 2
	binary.LittleEndian.PutUint16(buf[off:], h.Height)
	off += 2
	binary.LittleEndian.PutUint16(buf[off:], h.TileSize)
	off += 2
	binary.LittleEndian.PutUint16(buf[off:], h.NumTiles)
	off += 2

	for _, t := range tiles {
		binary.LittleEndian.PutUint16(buf[off:], t.TileX)
		off += 2
		binary.LittleEndian.PutUint16(buf[off:], t.TileY)
		off += 2
		buf[off] = t.Encoding
		off++
		binary.LittleEndian.PutUint32(buf[off:], uint32(len(t.Data)))
		off += 4
		off += copy(buf[off:], t.Data)
	}
	return buf, nil
}

// DecodeFrame parses a frame previously produced by EncodeFrame,
// rejecting frames whose magic, dimensions, or tile count fail the
// receiver's sanity limits. gridTiles bounds the maximum tile count
// for the caller's known grid size; pass 0 to skip that check.
func DecodeFrame(data []byte, gridTiles int) (FrameHeader, []Tile, error) {
	if len(data) < frameHeaderSize {
		return FrameHeader{}, nil, ErrShortFrame
	}
	h := FrameHeader{
		Magic:    binary.LittleEndian.Uint32(data[0:4]),
		Width:    binary.LittleEndian.Uint16(data[4:6]),
		Height:   binary.LittleEndian.Uint16(data[6:8]),
		TileSize: binary.LittleEndian.Uint16(data[8:10]),
		NumTiles: binary.LittleEndian.Uint16(data[10:12]),
	}
	if h.Magic != FrameMagic {
		return FrameHeader{}, nil, ErrBadMagic
	}
	if h.Width > maxDimension || h.Height > maxDimension {
		return FrameHeader{}, nil, ErrOversizedFrame
	}
	if int(h.NumTiles) > maxTiles || (gridTiles > 0 && int(h.NumTiles) > gridTiles) {
		return FrameHeader{}, nil, ErrOversizedFrame
	}

	off := frameHeaderSize
	tiles := make([]Tile, 0, h.NumTiles)
	for i := 0; i < int(h.NumTiles); i++ {
		if off+tileHeaderSize > len(data) {
			return FrameHeader{}, nil, ErrShortFrame
		}
		tileX := binary.LittleEndian.Uint16(data[off:])
		tileY := binary.LittleEndian.Uint16(data[off+2:])
		encoding := data[off+4]
		dataSize := binary.LittleEndian.Uint32(data[off+5:])
		off += tileHeaderSize
		if off+int(dataSize) > len(data) {
			return FrameHeader{}, nil, ErrShortFrame
		}
		tiles = append(tiles, Tile{
			TileX:    tileX,
			TileY:    tileY,
			Encoding: encoding,
			Data:     data[off : off+int(dataSize)],
		})
		off += int(dataSize)
	}
	return h, tiles, nil
}

// TilePayloadBytes returns the total tile-data byte count across
// tiles, used to verify testable property #4: frame bytes minus
// FrameHeader minus (num_tiles * TileHeader) equals this sum.
func TilePayloadBytes(tiles []Tile) int {
	n := 0
	for _, t := range tiles {
		n += len(t.Data)
	}
	return n
}

// FrameHeaderSize and TileHeaderSize expose the wire sizes for callers
// verifying testable property #4.
const (
	FrameHeaderSize = frameHeaderSize
	TileHeaderSize  = tileHeaderSize
)
