package telemetry

import (
	"math"
	"testing"
)

func TestCollector_WindowFlushCycle(t *testing.T) {
	// 2 second windows at dt 0.1 = 20 ticks.
	c := NewCollector(2.0, 0.1)

	if c.WindowDurationTicks() != 20 {
		t.Fatalf("window = %d ticks, want 20", c.WindowDurationTicks())
	}

	if c.ShouldFlush(19) {
		t.Error("flush triggered one tick early")
	}
	if !c.ShouldFlush(20) {
		t.Error("flush not triggered at window boundary")
	}

	c.RecordEmitted(3)
	c.RecordAbsorbed()
	c.RecordShapeHit()
	c.RecordWallBounce()
	c.RecordPairCollision()
	c.RecordSensorHit()

	stats := c.Flush(20, 100, []float64{10, 20, 30}, 1)

	if stats.Emitted != 3 || stats.Absorbed != 1 || stats.ShapeHits != 1 ||
		stats.WallBounces != 1 || stats.PairCollisions != 1 || stats.SensorHits != 1 {
		t.Errorf("counters not carried into stats: %+v", stats)
	}
	if stats.Particles != 100 {
		t.Errorf("particles = %d, want 100", stats.Particles)
	}
	if math.Abs(stats.SimTimeSec-2.0) > 1e-6 {
		t.Errorf("sim time %v, want 2.0", stats.SimTimeSec)
	}

	// Counters reset; next window starts at tick 20.
	if c.ShouldFlush(39) {
		t.Error("flush triggered early in second window")
	}
	next := c.Flush(40, 100, nil, 1)
	if next.Emitted != 0 || next.Absorbed != 0 {
		t.Errorf("counters not reset after flush: %+v", next)
	}
	if next.WindowStartTick != 20 {
		t.Errorf("window start = %d, want 20", next.WindowStartTick)
	}
}

func TestCollector_MinimumWindow(t *testing.T) {
	c := NewCollector(0.001, 0.1)
	if c.WindowDurationTicks() != 1 {
		t.Errorf("window = %d ticks, want floor of 1", c.WindowDurationTicks())
	}
}

func TestComputeSpeedStats(t *testing.T) {
	speeds := []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

	mean, p10, p50, p90 := ComputeSpeedStats(speeds)

	if math.Abs(mean-55) > 1e-9 {
		t.Errorf("mean = %v, want 55", mean)
	}
	if p10 > p50 || p50 > p90 {
		t.Errorf("percentiles out of order: p10=%v p50=%v p90=%v", p10, p50, p90)
	}
	if p10 < 10 || p90 > 100 {
		t.Errorf("percentiles outside data range: p10=%v p90=%v", p10, p90)
	}
}

func TestComputeSpeedStats_Empty(t *testing.T) {
	mean, p10, p50, p90 := ComputeSpeedStats(nil)
	if mean != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty input must produce zeros")
	}
}

func TestKineticEnergy(t *testing.T) {
	// Two particles at speed 10, mass 2: 2 * 0.5*2*100.
	got := KineticEnergy([]float64{10, 10}, 2)
	if math.Abs(got-200) > 1e-9 {
		t.Errorf("kinetic energy %v, want 200", got)
	}

	if KineticEnergy(nil, 2) != 0 {
		t.Error("empty input must produce zero energy")
	}
}
