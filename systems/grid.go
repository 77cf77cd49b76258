// Package systems provides the mechanism layer of the simulation: the
// particle spatial hash, the sensor and force-field accumulators, and the
// particle emitter. Nothing here owns the step pipeline; the sim package
// drives these in a fixed order.
package systems

import "math"

// SpatialGrid is a uniform grid used as the broad phase for
// particle-particle collision. Particles are bucketed by index each step;
// the grid is rebuilt from scratch every step and never persisted.
//
// Cell size must be >= the maximum interaction distance (twice the particle
// radius) so every potential pair is found in the forward neighborhood.
type SpatialGrid struct {
	cellSize    float32
	invCellSize float32
	cols        int
	rows        int
	cells       [][]int32
}

// NewSpatialGrid creates a spatial grid covering the given world size.
func NewSpatialGrid(worldW, worldH, cellSize float32) *SpatialGrid {
	cols := int(math.Ceil(float64(worldW / cellSize)))
	rows := int(math.Ceil(float64(worldH / cellSize)))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	cells := make([][]int32, cols*rows)
	for i := range cells {
		cells[i] = make([]int32, 0, 8)
	}

	return &SpatialGrid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       cells,
	}
}

// Clear removes all particles from the grid without deallocating cell memory.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds a particle index at the given world position.
func (g *SpatialGrid) Insert(x, y float32, index int32) {
	col := int(x * g.invCellSize)
	row := int(y * g.invCellSize)

	// Clamp to valid range; reflect mode keeps positions in-domain but a
	// fresh emitter spawn can sit slightly outside before its first step.
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

	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], index)
}

// pairOffsets are the forward-only neighbor cells tested per bucket:
// right, down, down-right, down-left. Backward cells are covered when the
// loop reaches them, so no pair is tested twice.
var pairOffsets = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// ForEachPair calls fn once for every candidate particle pair: all pairs
// within a cell plus all cross-pairs against the four forward neighbor
// cells. Iteration follows bucket order, which callers rely on.
func (g *SpatialGrid) ForEachPair(fn func(a, b int32)) {
	for row := 0; row < g.rows; row++ {
		base := row * g.cols
		for col := 0; col < g.cols; col++ {
			cell := g.cells[base+col]
			if len(cell) == 0 {
				continue
			}

			// Same-cell pairs
			for i := 0; i < len(cell); i++ {
				for j := i + 1; j < len(cell); j++ {
					fn(cell[i], cell[j])
				}
			}

			// Forward neighbor cells
			for _, off := range pairOffsets {
				nr := row + off[0]
				nc := col + off[1]
				if nr < 0 || nr >= g.rows || nc < 0 || nc >= g.cols {
					continue
				}
				other := g.cells[nr*g.cols+nc]
				for _, a := range cell {
					for _, b := range other {
						fn(a, b)
					}
				}
			}
		}
	}
}

// CellSize returns the grid cell size in world units.
func (g *SpatialGrid) CellSize() float32 {
	return g.cellSize
}
