package systems

import "math"

const (
	// sensorMaxIntensity caps accumulated cell values.
	sensorMaxIntensity = 20.0
	// sensorDecay is the multiplicative per-step decay applied to all cells.
	sensorDecay = 0.99
)

// Sensor is a rectangular detector region with a hit-intensity grid.
// Particle motion segments crossing the rectangle increment the cell under
// the segment midpoint; all cells decay every step.
type Sensor struct {
	X, Y float32
	W, H float32

	res   float32
	cols  int
	rows  int
	cells []float32
}

// NewSensor creates a sensor over the given rectangle with a grid of
// ceil(w/res) x ceil(h/res) cells.
func NewSensor(x, y, w, h, res float32) *Sensor {
	cols := int(math.Ceil(float64(w / res)))
	rows := int(math.Ceil(float64(h / res)))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	return &Sensor{
		X: x, Y: y, W: w, H: h,
		res:   res,
		cols:  cols,
		rows:  rows,
		cells: make([]float32, cols*rows),
	}
}

// Decay applies the per-step multiplicative decay to every cell.
func (s *Sensor) Decay() {
	for i := range s.cells {
		s.cells[i] *= sensorDecay
	}
}

// Observe tests the motion segment (x0,y0)->(x1,y1) against the sensor
// rectangle. On a hit the cell under the segment midpoint is incremented,
// capped at the maximum intensity. Returns whether the segment hit.
func (s *Sensor) Observe(x0, y0, x1, y1 float32) bool {
	if !s.segmentHits(x0, y0, x1, y1) {
		return false
	}

	mx := (x0 + x1) * 0.5
	my := (y0 + y1) * 0.5

	col := int((mx - s.X) / s.res)
	row := int((my - s.Y) / s.res)
	if col < 0 {
		col = 0
	} else if col >= s.cols {
		col = s.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= s.rows {
		row = s.rows - 1
	}

	idx := row*s.cols + col
	s.cells[idx] += 1
	if s.cells[idx] > sensorMaxIntensity {
		s.cells[idx] = sensorMaxIntensity
	}

	return true
}

// segmentHits reports whether the segment touches the sensor rectangle:
// either endpoint inside, or the segment crossing one of the four edges.
func (s *Sensor) segmentHits(x0, y0, x1, y1 float32) bool {
	if s.contains(x0, y0) || s.contains(x1, y1) {
		return true
	}

	x2 := s.X + s.W
	y2 := s.Y + s.H

	return segmentsIntersect(x0, y0, x1, y1, s.X, s.Y, x2, s.Y) ||
		segmentsIntersect(x0, y0, x1, y1, x2, s.Y, x2, y2) ||
		segmentsIntersect(x0, y0, x1, y1, x2, y2, s.X, y2) ||
		segmentsIntersect(x0, y0, x1, y1, s.X, y2, s.X, s.Y)
}

func (s *Sensor) contains(x, y float32) bool {
	return x >= s.X && x <= s.X+s.W && y >= s.Y && y <= s.Y+s.H
}

// segmentsIntersect is the standard parametric segment-segment test for
// (p0,p1) vs (p2,p3). Parallel segments report no intersection.
func segmentsIntersect(p0x, p0y, p1x, p1y, p2x, p2y, p3x, p3y float32) bool {
	d1x := p1x - p0x
	d1y := p1y - p0y
	d2x := p3x - p2x
	d2y := p3y - p2y

	denom := d1x*d2y - d1y*d2x
	if denom == 0 {
		return false
	}

	t := ((p2x-p0x)*d2y - (p2y-p0y)*d2x) / denom
	u := ((p2x-p0x)*d1y - (p2y-p0y)*d1x) / denom

	return t >= 0 && t <= 1 && u >= 0 && u <= 1
}

// Cols returns the grid width in cells.
func (s *Sensor) Cols() int { return s.cols }

// Rows returns the grid height in cells.
func (s *Sensor) Rows() int { return s.rows }

// Resolution returns the cell size in world units.
func (s *Sensor) Resolution() float32 { return s.res }

// Cells returns the hit-intensity grid, row-major. Read-only for consumers.
func (s *Sensor) Cells() []float32 { return s.cells }

// At returns the intensity of the given cell.
func (s *Sensor) At(col, row int) float32 {
	return s.cells[row*s.cols+col]
}
