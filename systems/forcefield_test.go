package systems

import (
	"math"
	"testing"
)

func TestForceField_BinAndBlur(t *testing.T) {
	f := NewForceField(100, 100, 10)

	// One particle in cell (0,0) at speed 100: binned value 1.0, then one
	// blur pass spreads it over each cell's in-bounds neighborhood.
	positions := []float32{5, 5}
	velocities := []float32{100, 0}

	f.Rebuild(positions, velocities, 1)

	tests := []struct {
		name     string
		col, row int
		want     float32
	}{
		{"corner averages 4 cells", 0, 0, 1.0 / 4},
		{"edge averages 6 cells", 1, 0, 1.0 / 6},
		{"interior averages 9 cells", 1, 1, 1.0 / 9},
		{"outside neighborhood", 3, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.At(tt.col, tt.row)
			if math.Abs(float64(got-tt.want)) > 1e-6 {
				t.Errorf("At(%d,%d) = %v, want %v", tt.col, tt.row, got, tt.want)
			}
		})
	}
}

func TestForceField_RebuildClearsPrevious(t *testing.T) {
	f := NewForceField(100, 100, 10)

	positions := []float32{5, 5}
	velocities := []float32{100, 0}
	f.Rebuild(positions, velocities, 1)

	// Rebuild with no particles leaves an all-zero grid.
	f.Rebuild(nil, nil, 0)
	for i, v := range f.Cells() {
		if v != 0 {
			t.Fatalf("cell %d not cleared: %v", i, v)
		}
	}
}

func TestForceField_SkipsOutOfBounds(t *testing.T) {
	f := NewForceField(100, 100, 10)

	positions := []float32{-5, 50, 150, 50}
	velocities := []float32{100, 0, 100, 0}
	f.Rebuild(positions, velocities, 2)

	for i, v := range f.Cells() {
		if v != 0 {
			t.Fatalf("off-domain particle binned into cell %d: %v", i, v)
		}
	}
}

func TestForceField_OnlyCountsActive(t *testing.T) {
	f := NewForceField(100, 100, 10)

	positions := []float32{5, 5, 55, 55}
	velocities := []float32{100, 0, 100, 0}

	// Second particle is beyond count and must not contribute.
	f.Rebuild(positions, velocities, 1)

	if got := f.At(5, 5); got != 0 {
		t.Errorf("inactive particle contributed: %v", got)
	}
}
