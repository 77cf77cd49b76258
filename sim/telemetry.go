package sim

import "log/slog"

// flushTelemetry closes out a stats window when due: samples particle
// speeds, produces the window record, and routes it to the log and the
// CSV output when either is configured.
func (s *Simulation) flushTelemetry() {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	n := s.activeCount()
	speeds := make([]float64, n)
	for i := 0; i < n; i++ {
		speeds[i] = float64(s.speedOf(i))
	}

	stats := s.collector.Flush(s.tick, n, speeds, s.mass)
	perfStats := s.perfCollector.Stats()

	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := s.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("writing telemetry", "error", err)
	}
	if err := s.outputManager.WritePerf(perfStats, s.tick); err != nil {
		slog.Error("writing perf", "error", err)
	}
}
