package remote

import (
	"hash/fnv"

	"github.com/zokrezyl/yetty/cache"
)

// TileSize is the edge length, in pixels, of one diff tile. Tiles are
// hashed on the CPU by Differ.Diff; no GPU compute dispatch is made.
const TileSize = 64

// TileDiff is one changed (or, on a full refresh, every) tile awaiting
// encoding.
type TileDiff struct {
	TileX, TileY int
	Pixels       []byte // tight-packed BGRA, TileSize*TileSize*4 bytes (less at edges)
	W, H         int
}

// Differ compares the current framebuffer against the previous
// frame's per-tile hashes to find changed tiles. The hash store is a
// ShardedCache keyed by tile index, reused across frames so unchanged
// regions never get re-encoded.
type Differ struct {
	width, height int
	hashes        *cache.ShardedCache[int, uint64]
	source        func(tileX, tileY, w, h int) []byte
}

// NewDiffer returns a Differ for a framebuffer of the given pixel
// dimensions. source must return the tight-packed BGRA pixels for the
// tile at (tileX, tileY) sized w x h (edge tiles are smaller than
// TileSize x TileSize).
func NewDiffer(width, height int, source func(tileX, tileY, w, h int) []byte) *Differ {
	return &Differ{
		width:  width,
		height: height,
		hashes: cache.NewSharded[int, uint64](0, cache.IntHasher),
		source: source,
	}
}

func (d *Differ) cols() int { return (d.width + TileSize - 1) / TileSize }
func (d *Differ) rows() int { return (d.height + TileSize - 1) / TileSize }

func (d *Differ) tileIndex(tx, ty int) int { return ty*d.cols() + tx }

func tileHash(pixels []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(pixels)
	return h.Sum64()
}

func (d *Differ) tileDims(tx, ty int) (w, h int) {
	w = TileSize
	if (tx+1)*TileSize > d.width {
		w = d.width - tx*TileSize
	}
	h = TileSize
	if (ty+1)*TileSize > d.height {
		h = d.height - ty*TileSize
	}
	return w, h
}

// Diff returns the tiles that changed since the last call. If full is
// true, every tile is returned (and the hash store refreshed)
// regardless of whether its content changed, implementing the
// periodic full-refresh policy.
func (d *Differ) Diff(full bool) ([]TileDiff, error) {
	var out []TileDiff
	for ty := 0; ty < d.rows(); ty++ {
		for tx := 0; tx < d.cols(); tx++ {
			w, h := d.tileDims(tx, ty)
			pixels := d.source(tx, ty, w, h)
			idx := d.tileIndex(tx, ty)
			newHash := tileHash(pixels)

			if !full {
				if prev, ok := d.hashes.Get(idx); ok && prev == newHash {
					continue
				}
			}
			d.hashes.Set(idx, newHash)
			out = append(out, TileDiff{TileX: tx, TileY: ty, Pixels: pixels, W: w, H: h})
		}
	}
	return out, nil
}

// TileCount returns the total tile count for the current dimensions,
// used to bound DecodeFrame's sanity check against the known grid.
func (d *Differ) TileCount() int { return d.cols() * d.rows() }
