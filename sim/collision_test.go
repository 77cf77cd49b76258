package sim

import (
	"math"
	"testing"

	"github.com/pthm-cable/kinetic/config"
)

func TestPairCollisionHeadOn(t *testing.T) {
	cfg := testConfig()
	cfg.Physics.ParticleCollisions = true
	cfg.Particles.Count = 2
	s := mustSim(t, cfg)

	// Overlapping pair closing head-on at equal speed. Integration over a
	// tiny dt keeps them overlapping for the pair pass.
	setParticle(s, 0, 500, 500, 10, 0)
	setParticle(s, 1, 503, 500, -10, 0)
	s.Step(0.001)

	vax := float64(s.velocities[0])
	vbx := float64(s.velocities[2])

	// Momentum is conserved for equal masses.
	if math.Abs(vax+vbx) > 1e-3 {
		t.Errorf("momentum drifted: va=%v vb=%v", vax, vbx)
	}

	// Elastic at damping 1: speeds exchange.
	if math.Abs(vax+10) > 0.1 || math.Abs(vbx-10) > 0.1 {
		t.Errorf("velocities (%v, %v), want approximately (-10, 10)", vax, vbx)
	}

	// Separated to at least the contact distance.
	dist := math.Abs(float64(s.positions[2] - s.positions[0]))
	if dist < float64(2*s.radius)-1e-3 {
		t.Errorf("pair %v apart after resolution, want >= %v", dist, 2*s.radius)
	}
}

func TestPairCollisionDampingReducesRebound(t *testing.T) {
	cfg := testConfig()
	cfg.Physics.ParticleCollisions = true
	cfg.Physics.Damping = 0
	cfg.Particles.Count = 2
	s := mustSim(t, cfg)

	setParticle(s, 0, 500, 500, 10, 0)
	setParticle(s, 1, 503, 500, -10, 0)
	s.Step(0.001)

	// Restitution bottoms out at 0.5, so closing speed 20 rebounds at 10.
	closing := float64(s.velocities[2] - s.velocities[0])
	if math.Abs(closing-10) > 0.1 {
		t.Errorf("rebound relative speed %v, want ~10 at restitution 0.5", closing)
	}
}

func TestPairCollisionSkipsSeparating(t *testing.T) {
	cfg := testConfig()
	cfg.Physics.ParticleCollisions = true
	cfg.Particles.Count = 2
	s := mustSim(t, cfg)

	// Overlapping but already separating: positions correct, velocities kept.
	setParticle(s, 0, 500, 500, -10, 0)
	setParticle(s, 1, 503, 500, 10, 0)
	s.Step(0.001)

	if s.velocities[0] != -10 || s.velocities[2] != 10 {
		t.Errorf("separating pair got impulse: va=%v vb=%v", s.velocities[0], s.velocities[2])
	}
}

func TestPairCollisionsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Particles.Count = 2
	s := mustSim(t, cfg)

	setParticle(s, 0, 500, 500, 10, 0)
	setParticle(s, 1, 503, 500, -10, 0)
	s.Step(0.001)

	// No pair pass: overlap persists and velocities are untouched.
	if s.velocities[0] != 10 || s.velocities[2] != -10 {
		t.Errorf("velocities changed with pair collisions off: va=%v vb=%v", s.velocities[0], s.velocities[2])
	}
}

func TestRotatingRectImpartsSurfaceSpeed(t *testing.T) {
	cfg := testConfig()
	cfg.Shapes = []config.ShapeConfig{
		{Type: "rect", X: 500, Y: 500, Width: 200, Height: 20, RotationSpeed: 5, BounceX: 1, BounceY: 1},
	}
	cfg.Particles.Count = 1
	s := mustSim(t, cfg)

	// Particle drifting slowly into the sweep of the rotating end.
	setParticle(s, 0, 590, 515, 0, -1)

	before := float64(s.speedOf(0))
	for i := 0; i < 10; i++ {
		s.Step(0.01)
	}
	after := float64(s.speedOf(0))

	if after <= before {
		t.Errorf("speed %v -> %v, rotating surface should add energy", before, after)
	}
}

func TestShapeHitCountsOnlyReflections(t *testing.T) {
	cfg := testConfig()
	cfg.Shapes = []config.ShapeConfig{rectShape(500, 500, 100, 100)}
	cfg.Particles.Count = 1
	s := mustSim(t, cfg)

	// Overlapping the left face but already separating: the push-out fires
	// without a reflection and the contact stays uncounted.
	setParticle(s, 0, 449, 500, -0.5, 0)
	s.Step(0.1)

	if got := s.positions[0]; got >= 448 {
		t.Errorf("x = %v, want pushed clear of the face", got)
	}
	if got := s.velocities[0]; got != -0.5 {
		t.Errorf("vx = %v, want unchanged for a separating contact", got)
	}

	stats := s.collector.Flush(s.tick, 1, nil, 1)
	if stats.ShapeHits != 0 {
		t.Errorf("shape hits = %d for separating contact, want 0", stats.ShapeHits)
	}

	// An approaching particle reflects and counts exactly once.
	setParticle(s, 0, 449, 500, 50, 0)
	s.Step(0.1)

	stats = s.collector.Flush(s.tick, 1, nil, 1)
	if stats.ShapeHits != 1 {
		t.Errorf("shape hits = %d for reflected contact, want 1", stats.ShapeHits)
	}
}
