package telemetry

// Collector accumulates simulation events within time windows and produces
// WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	emitted        int
	absorbed       int
	shapeHits      int
	wallBounces    int
	pairCollisions int
	sensorHits     int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
		windowStartTick:     0,
	}
}

// RecordEmitted records particles introduced by the emitter this tick.
func (c *Collector) RecordEmitted(n int) {
	c.emitted += n
}

// RecordAbsorbed records a particle absorbed and relocated by an absorbing circle.
func (c *Collector) RecordAbsorbed() {
	c.absorbed++
}

// RecordShapeHit records a particle-body collision response.
func (c *Collector) RecordShapeHit() {
	c.shapeHits++
}

// RecordWallBounce records a boundary reflection.
func (c *Collector) RecordWallBounce() {
	c.wallBounces++
}

// RecordPairCollision records a resolved particle-particle contact.
func (c *Collector) RecordPairCollision() {
	c.pairCollisions++
}

// RecordSensorHit records a particle crossing the sensor region.
func (c *Collector) RecordSensorHit() {
	c.sensorHits++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// The caller provides the current tick, the live particle count, per-particle
// speeds for the distribution stats, and the particle mass for kinetic energy.
func (c *Collector) Flush(currentTick int32, particles int, speeds []float64, mass float32) WindowStats {
	mean, p10, p50, p90 := ComputeSpeedStats(speeds)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Particles: particles,

		Emitted:        c.emitted,
		Absorbed:       c.absorbed,
		ShapeHits:      c.shapeHits,
		WallBounces:    c.wallBounces,
		PairCollisions: c.pairCollisions,
		SensorHits:     c.sensorHits,

		SpeedMean: mean,
		SpeedP10:  p10,
		SpeedP50:  p50,
		SpeedP90:  p90,

		KineticEnergy: KineticEnergy(speeds, mass),
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.emitted = 0
	c.absorbed = 0
	c.shapeHits = 0
	c.wallBounces = 0
	c.pairCollisions = 0
	c.sensorHits = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
