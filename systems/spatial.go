// Package systems provides the simulation kernel: broad phase, narrow phase,
// integration and the particle pool.
package systems

// SpatialGrid buckets particle slots into fixed-size square cells.
// Cells hold indices into the slice passed to Rebuild, so a grid is only
// meaningful for the tick that rebuilt it.
type SpatialGrid struct {
	cellSize float32
	cols     int
	rows     int
	cells    [][]int32 // flat grid of slot lists, row-major
	home     []int32   // cell index of each slot at the last rebuild
}

// NewSpatialGrid creates a grid covering a width x height surface.
// Dimensions are floor(width/cellSize) x floor(height/cellSize), at least 1x1.
func NewSpatialGrid(width, height, cellSize float32) *SpatialGrid {
	cols := int(width / cellSize)
	rows := int(height / cellSize)
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	cells := make([][]int32, cols*rows)
	for i := range cells {
		cells[i] = make([]int32, 0, 8) // pre-allocate small capacity
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    cells,
	}
}

// Cols returns the number of grid columns.
func (g *SpatialGrid) Cols() int { return g.cols }

// Rows returns the number of grid rows.
func (g *SpatialGrid) Rows() int { return g.rows }

// CellSize returns the cell edge length in pixels.
func (g *SpatialGrid) CellSize() float32 { return g.cellSize }

// Clear removes all slots from the grid, keeping allocated capacity.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	g.home = g.home[:0]
}

// Rebuild clears the grid and inserts every particle into the cell containing
// its clamped position. Slot i refers to particles[i].
func (g *SpatialGrid) Rebuild(particles []Particle) {
	g.Clear()
	for i := range particles {
		pos := particles[i].Pos
		idx := g.cellIndex(pos.X, pos.Y)
		g.cells[idx] = append(g.cells[idx], int32(i))
		g.home = append(g.home, int32(idx))
	}
}

// Len returns the number of slots inserted by the last rebuild.
func (g *SpatialGrid) Len() int {
	return len(g.home)
}

// Cell returns the clamped grid coordinate for a position.
func (g *SpatialGrid) Cell(x, y float32) (col, row int) {
	idx := g.cellIndex(x, y)
	return idx % g.cols, idx / g.cols
}

// Neighbors appends to dst every slot in the cells within rng cells
// (Chebyshev distance) of slot's home cell, including the slot itself.
// Reuse dst across calls to avoid allocations.
func (g *SpatialGrid) Neighbors(dst []int32, slot int32, rng int) []int32 {
	idx := int(g.home[slot])
	return g.collect(dst, idx%g.cols, idx/g.cols, rng)
}

// NeighborsAt is like Neighbors but centers the query on the cell containing (x, y).
func (g *SpatialGrid) NeighborsAt(dst []int32, x, y float32, rng int) []int32 {
	col, row := g.Cell(x, y)
	return g.collect(dst, col, row, rng)
}

func (g *SpatialGrid) collect(dst []int32, col, row, rng int) []int32 {
	minCol := max(col-rng, 0)
	maxCol := min(col+rng, g.cols-1)
	minRow := max(row-rng, 0)
	maxRow := min(row+rng, g.rows-1)

	for r := minRow; r <= maxRow; r++ {
		base := r * g.cols
		for c := minCol; c <= maxCol; c++ {
			dst = append(dst, g.cells[base+c]...)
		}
	}
	return dst
}

// cellIndex returns the flat index for a surface position.
func (g *SpatialGrid) cellIndex(x, y float32) int {
	col := int(x / g.cellSize)
	row := int(y / g.cellSize)

	// Clamp to valid range
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}

	return row*g.cols + col
}
