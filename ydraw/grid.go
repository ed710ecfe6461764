package ydraw

// Grid buckets PrimHandles by cell so a renderer can find, in O(1),
// which primitives touch a given cell. It is adapted from
// cache.ShardedCache's bucketing idiom: instead of sharding by key
// hash to spread lock contention, it buckets by spatial cell to make
// per-cell fragment lookup direct-indexed.
type Grid struct {
	cols, rows int
	buckets    [][]PrimHandle
}

// NewGrid returns an empty Grid sized for cols x rows cells.
func NewGrid(cols, rows int) *Grid {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &Grid{cols: cols, rows: rows, buckets: make([][]PrimHandle, cols*rows)}
}

func (g *Grid) index(col, row int) (int, bool) {
	if col < 0 || row < 0 || col >= g.cols || row >= g.rows {
		return 0, false
	}
	return row*g.cols + col, true
}

// Insert adds h to every cell bucket within [col0,row0]-[col1,row1]
// inclusive, clamped to the grid's bounds. A degenerate box (col1 <
// col0 or row1 < row0) is silently dropped, matching an off-grid
// primitive contributing no fragments.
func (g *Grid) Insert(h PrimHandle, col0, row0, col1, row1 int) {
	if col1 < col0 || row1 < row0 {
		return
	}
	if col0 < 0 {
		col0 = 0
	}
	if row0 < 0 {
		row0 = 0
	}
	if col1 >= g.cols {
		col1 = g.cols - 1
	}
	if row1 >= g.rows {
		row1 = g.rows - 1
	}
	for row := row0; row <= row1; row++ {
		for col := col0; col <= col1; col++ {
			idx, ok := g.index(col, row)
			if !ok {
				continue
			}
			g.buckets[idx] = append(g.buckets[idx], h)
		}
	}
}

// At returns the primitive handles bucketed at (col, row), in
// insertion order.
func (g *Grid) At(col, row int) []PrimHandle {
	idx, ok := g.index(col, row)
	if !ok {
		return nil
	}
	return g.buckets[idx]
}

// Clear empties every bucket without reallocating the bucket slice.
func (g *Grid) Clear() {
	for i := range g.buckets {
		g.buckets[i] = g.buckets[i][:0]
	}
}
