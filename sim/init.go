package sim

import (
	"log/slog"
	"math"
)

// Mode selects the initial spatial distribution of particles.
type Mode uint8

const (
	// ModeCenter places an isotropic cloud around the domain center.
	ModeCenter Mode = iota
	// ModeLeft places a band near the left edge moving right.
	ModeLeft
	// ModeRandom places particles uniformly with random velocities.
	ModeRandom
	// ModeStatic places particles uniformly at rest.
	ModeStatic
)

// ParseMode maps a config string to a Mode. Unknown values fall back to
// center.
func ParseMode(s string) Mode {
	switch s {
	case "left":
		return ModeLeft
	case "random":
		return ModeRandom
	case "static":
		return ModeStatic
	}
	return ModeCenter
}

// placementBudgetPerParticle bounds total rejection-sampling attempts at
// 100x the requested count, across the whole fill.
const placementBudgetPerParticle = 100

// Configure allocates and fills the particle pool under the given
// placement policy. Candidate positions inside any registered body are
// rejected and retried; when the attempt budget runs out the effective
// count is silently reduced to the particles actually placed; callers
// must read Count() back rather than assume the request was honored.
//
// When an emitter owns the pool, particle allocation is skipped entirely;
// only the sensor grid, circle defaults, and force-field grid are redone.
func (s *Simulation) Configure(count int, mode Mode) {
	s.applyCircleDefaults()

	if s.sensor != nil {
		s.SetSensor(s.sensor.X, s.sensor.Y, s.sensor.W, s.sensor.H, s.sensor.Resolution())
	}
	if s.field != nil {
		s.field = nil
		s.SetForceField(true)
	}

	if s.emitter != nil && s.positions != nil {
		return
	}

	s.positions = make([]float32, 2*count)
	s.velocities = make([]float32, 2*count)

	budget := placementBudgetPerParticle * count
	placed := 0

	for placed < count && budget > 0 {
		x, y, vx, vy := s.sample(mode)
		budget--

		if s.occupied(x, y) {
			continue
		}

		s.positions[2*placed] = x
		s.positions[2*placed+1] = y
		s.velocities[2*placed] = vx
		s.velocities[2*placed+1] = vy
		placed++
	}

	if placed < count {
		slog.Warn("particle placement budget exhausted",
			"requested", count,
			"placed", placed,
		)
		s.positions = s.positions[:2*placed]
		s.velocities = s.velocities[:2*placed]
	}
	s.count = placed
}

// sample draws one candidate position and velocity under the policy.
func (s *Simulation) sample(mode Mode) (x, y, vx, vy float32) {
	switch mode {
	case ModeLeft:
		x = s.rng.Float32() * s.width * 0.1
		y = s.rng.Float32() * s.height
		speed := 100 + s.rng.Float32()*100
		angle := (s.rng.Float32()*2 - 1) * 0.15
		vx = float32(math.Cos(float64(angle))) * speed
		vy = float32(math.Sin(float64(angle))) * speed

	case ModeRandom:
		x = s.rng.Float32() * s.width
		y = s.rng.Float32() * s.height
		speed := 50 + s.rng.Float32()*100
		angle := s.rng.Float32() * 2 * math.Pi
		vx = float32(math.Cos(float64(angle))) * speed
		vy = float32(math.Sin(float64(angle))) * speed

	case ModeStatic:
		x = s.rng.Float32() * s.width
		y = s.rng.Float32() * s.height

	default: // ModeCenter
		spread := s.width
		if s.height < spread {
			spread = s.height
		}
		spread *= 0.25

		dist := s.rng.Float32() * spread
		posAngle := s.rng.Float32() * 2 * math.Pi
		x = s.width*0.5 + float32(math.Cos(float64(posAngle)))*dist
		y = s.height*0.5 + float32(math.Sin(float64(posAngle)))*dist

		speed := 50 + s.rng.Float32()*150
		angle := s.rng.Float32() * 2 * math.Pi
		vx = float32(math.Cos(float64(angle))) * speed
		vy = float32(math.Sin(float64(angle))) * speed
	}

	return x, y, vx, vy
}

// occupied reports whether a candidate point falls inside any registered
// body. Rectangles use their unrotated bounding box; rotation is ignored
// for occupancy.
func (s *Simulation) occupied(x, y float32) bool {
	for _, e := range s.shapes {
		tf := s.tfMap.Get(e)

		if rect := s.rectMap.Get(e); rect != nil {
			hw := rect.W * 0.5
			hh := rect.H * 0.5
			if x >= tf.X-hw && x <= tf.X+hw && y >= tf.Y-hh && y <= tf.Y+hh {
				return true
			}
			continue
		}

		circ := s.circMap.Get(e)
		dx := x - tf.X
		dy := y - tf.Y
		if dx*dx+dy*dy < circ.R*circ.R {
			return true
		}
	}
	return false
}

// applyCircleDefaults fills in the derived mass for circles left at zero:
// mass = pi * r^2 * density.
func (s *Simulation) applyCircleDefaults() {
	for _, e := range s.shapes {
		circ := s.circMap.Get(e)
		if circ == nil {
			continue
		}
		if circ.Mass == 0 {
			circ.Mass = float32(math.Pi) * circ.R * circ.R * circleMassDensity
		}
	}
}
