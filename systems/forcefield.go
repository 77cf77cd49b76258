package systems

import "math"

// fieldScale converts binned particle speed into energy-density units.
const fieldScale = 0.01

// ForceField is a coarse grid of local particle kinetic-energy density,
// used for visualization only. It is rebuilt from scratch every step while
// enabled; disabling frees it entirely so consumers can distinguish
// "absent" from "all zero".
type ForceField struct {
	res   float32
	cols  int
	rows  int
	cells []float32
	tmp   []float32
}

// NewForceField creates a field covering the given world size with square
// cells of the given resolution in world units.
func NewForceField(worldW, worldH float32, resolution int) *ForceField {
	res := float32(resolution)
	cols := int(math.Ceil(float64(worldW / res)))
	rows := int(math.Ceil(float64(worldH / res)))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	return &ForceField{
		res:   res,
		cols:  cols,
		rows:  rows,
		cells: make([]float32, cols*rows),
		tmp:   make([]float32, cols*rows),
	}
}

// Rebuild recomputes the field from the particle state: clear, bin each
// particle's speed into its containing cell, then one 3x3 box-blur pass.
// Only the first count particles are considered.
func (f *ForceField) Rebuild(positions, velocities []float32, count int) {
	for i := range f.cells {
		f.cells[i] = 0
	}

	for i := 0; i < count; i++ {
		x := positions[2*i]
		y := positions[2*i+1]

		col := int(x / f.res)
		row := int(y / f.res)
		if col < 0 || col >= f.cols || row < 0 || row >= f.rows {
			continue
		}

		vx := velocities[2*i]
		vy := velocities[2*i+1]
		speed := float32(math.Sqrt(float64(vx*vx + vy*vy)))

		f.cells[row*f.cols+col] += speed * fieldScale
	}

	f.smooth()
}

// smooth runs one 3x3 box-blur pass. Edge cells average only over their
// in-bounds neighbors.
func (f *ForceField) smooth() {
	for row := 0; row < f.rows; row++ {
		for col := 0; col < f.cols; col++ {
			var sum float32
			var n int
			for dr := -1; dr <= 1; dr++ {
				r := row + dr
				if r < 0 || r >= f.rows {
					continue
				}
				for dc := -1; dc <= 1; dc++ {
					c := col + dc
					if c < 0 || c >= f.cols {
						continue
					}
					sum += f.cells[r*f.cols+c]
					n++
				}
			}
			f.tmp[row*f.cols+col] = sum / float32(n)
		}
	}
	f.cells, f.tmp = f.tmp, f.cells
}

// Cols returns the grid width in cells.
func (f *ForceField) Cols() int { return f.cols }

// Rows returns the grid height in cells.
func (f *ForceField) Rows() int { return f.rows }

// Resolution returns the cell size in world units.
func (f *ForceField) Resolution() float32 { return f.res }

// Cells returns the energy-density grid, row-major. Read-only for consumers.
func (f *ForceField) Cells() []float32 { return f.cells }

// At returns the density of the given cell.
func (f *ForceField) At(col, row int) float32 {
	return f.cells[row*f.cols+col]
}
