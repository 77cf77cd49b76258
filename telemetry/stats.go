package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Live particle count at window end
	Particles int `csv:"particles"`

	// Events during window
	Emitted        int `csv:"emitted"`
	Absorbed       int `csv:"absorbed"`
	ShapeHits      int `csv:"shape_hits"`
	WallBounces    int `csv:"wall_bounces"`
	PairCollisions int `csv:"pair_collisions"`
	SensorHits     int `csv:"sensor_hits"`

	// Speed distribution (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	// Total kinetic energy of live particles
	KineticEnergy float64 `csv:"kinetic_energy"`
}

// ComputeSpeedStats calculates mean and percentiles from speed values.
func ComputeSpeedStats(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)

	return mean, p10, p50, p90
}

// KineticEnergy sums 0.5*m*v^2 over all speeds, with a shared mass.
func KineticEnergy(speeds []float64, mass float32) float64 {
	if len(speeds) == 0 {
		return 0
	}
	return 0.5 * float64(mass) * floats.Dot(speeds, speeds)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("particles", s.Particles),
		slog.Int("emitted", s.Emitted),
		slog.Int("absorbed", s.Absorbed),
		slog.Int("shape_hits", s.ShapeHits),
		slog.Int("wall_bounces", s.WallBounces),
		slog.Int("pair_collisions", s.PairCollisions),
		slog.Int("sensor_hits", s.SensorHits),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p10", s.SpeedP10),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("kinetic_energy", s.KineticEnergy),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"particles", s.Particles,
		"emitted", s.Emitted,
		"absorbed", s.Absorbed,
		"shape_hits", s.ShapeHits,
		"wall_bounces", s.WallBounces,
		"pair_collisions", s.PairCollisions,
		"sensor_hits", s.SensorHits,
		"speed_mean", s.SpeedMean,
		"speed_p10", s.SpeedP10,
		"speed_p50", s.SpeedP50,
		"speed_p90", s.SpeedP90,
		"kinetic_energy", s.KineticEnergy,
	)
}
