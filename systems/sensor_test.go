package systems

import (
	"math"
	"testing"
)

func TestSensor_EndpointInsideHits(t *testing.T) {
	s := NewSensor(100, 100, 100, 100, 10)

	if !s.Observe(95, 150, 105, 150) {
		t.Fatal("expected segment ending inside sensor to hit")
	}

	// Midpoint (100, 150) bins to cell (0, 5).
	if got := s.At(0, 5); got != 1 {
		t.Errorf("expected midpoint cell intensity 1, got %v", got)
	}
}

func TestSensor_CrossingSegmentHits(t *testing.T) {
	s := NewSensor(100, 100, 100, 100, 10)

	// Both endpoints outside, segment passes straight through.
	if !s.Observe(50, 150, 250, 150) {
		t.Error("expected through-going segment to hit")
	}
}

func TestSensor_MissReportsFalse(t *testing.T) {
	s := NewSensor(100, 100, 100, 100, 10)

	if s.Observe(10, 10, 20, 20) {
		t.Error("expected distant segment to miss")
	}

	for i, v := range s.Cells() {
		if v != 0 {
			t.Fatalf("cell %d incremented on miss: %v", i, v)
		}
	}
}

func TestSensor_IntensityCapped(t *testing.T) {
	s := NewSensor(100, 100, 100, 100, 10)

	for i := 0; i < 30; i++ {
		s.Observe(101, 101, 102, 102)
	}

	if got := s.At(0, 0); got > sensorMaxIntensity {
		t.Errorf("intensity %v exceeds cap %v", got, float32(sensorMaxIntensity))
	}
}

func TestSensor_Decay(t *testing.T) {
	s := NewSensor(100, 100, 100, 100, 10)

	s.Observe(101, 101, 102, 102)
	before := s.At(0, 0)

	s.Decay()
	after := s.At(0, 0)

	want := before * sensorDecay
	if math.Abs(float64(after-want)) > 1e-6 {
		t.Errorf("expected %v after decay, got %v", want, after)
	}

	// Repeated decay is monotonically decreasing.
	for i := 0; i < 100; i++ {
		prev := s.At(0, 0)
		s.Decay()
		if s.At(0, 0) > prev {
			t.Fatal("decay increased intensity")
		}
	}
}

func TestSensor_GridDimensions(t *testing.T) {
	tests := []struct {
		name       string
		w, h, res  float32
		cols, rows int
	}{
		{"exact", 100, 50, 10, 10, 5},
		{"rounds up", 105, 51, 10, 11, 6},
		{"tiny region", 5, 5, 10, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSensor(0, 0, tt.w, tt.h, tt.res)
			if s.Cols() != tt.cols || s.Rows() != tt.rows {
				t.Errorf("got %dx%d cells, want %dx%d", s.Cols(), s.Rows(), tt.cols, tt.rows)
			}
		})
	}
}
