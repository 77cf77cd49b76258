package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate a few ticks
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseIntegrate)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhasePairs)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}

	if len(stats.PhaseAvg) == 0 {
		t.Error("expected phase averages to be populated")
	}

	if _, ok := stats.PhaseAvg[PhaseIntegrate]; !ok {
		t.Error("expected integrate phase to be tracked")
	}

	if _, ok := stats.PhaseAvg[PhasePairs]; !ok {
		t.Error("expected pairs phase to be tracked")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5) // Small window

	// Fill window completely
	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseIntegrate)
		pc.EndTick()
	}

	stats := pc.Stats()

	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}

	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	if stats.AvgTickDuration != 0 {
		t.Error("expected zero average with no samples")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected empty maps, not nil")
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.StartTick()
	pc.StartPhase(PhaseIntegrate)
	time.Sleep(time.Millisecond)
	pc.EndTick()

	row := pc.Stats().ToCSV(42)

	if row.WindowEnd != 42 {
		t.Errorf("window end %d, want 42", row.WindowEnd)
	}
	if row.AvgTickUS <= 0 {
		t.Error("expected positive avg tick time in CSV row")
	}
	if row.IntegratePct <= 0 {
		t.Error("expected integrate phase percentage in CSV row")
	}
}
