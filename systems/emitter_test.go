package systems

import (
	"math"
	"math/rand"
	"testing"
)

func TestEmitter_RateAccumulation(t *testing.T) {
	e := NewEmitter(500, 500, 10, 10, 100, 100)
	rng := rand.New(rand.NewSource(1))

	positions := make([]float32, 200)
	velocities := make([]float32, 200)

	// 10 particles/sec over 0.5s yields exactly 5.
	emitted := 0
	for i := 0; i < 5; i++ {
		emitted += e.Update(0.1, positions, velocities, rng)
	}

	if emitted != 5 {
		t.Errorf("emitted %d particles, want 5", emitted)
	}
	if e.Active() != 5 {
		t.Errorf("active = %d, want 5", e.Active())
	}
}

func TestEmitter_PoolCapReusesSlotZero(t *testing.T) {
	e := NewEmitter(500, 500, 10, 10, 100, 5)
	rng := rand.New(rand.NewSource(1))

	positions := make([]float32, 10)
	velocities := make([]float32, 10)

	// Run well past capacity.
	for i := 0; i < 20; i++ {
		e.Update(0.1, positions, velocities, rng)
	}

	if e.Active() != 5 {
		t.Errorf("active = %d, want pool cap 5", e.Active())
	}
}

func TestEmitter_SpawnKinematics(t *testing.T) {
	e := NewEmitter(500, 500, 20, 10, 100, 50)
	rng := rand.New(rand.NewSource(42))

	positions := make([]float32, 100)
	velocities := make([]float32, 100)

	for i := 0; i < 30; i++ {
		e.Update(0.1, positions, velocities, rng)
	}

	for i := 0; i < e.Active(); i++ {
		dx := positions[2*i] - 500
		dy := positions[2*i+1] - 500
		dist := math.Sqrt(float64(dx*dx + dy*dy))
		if dist > 10+1e-3 {
			t.Errorf("particle %d spawned %.2f from center, beyond half radius", i, dist)
		}

		vx := velocities[2*i]
		vy := velocities[2*i+1]
		speed := math.Sqrt(float64(vx*vx + vy*vy))
		if speed < 80-1e-3 || speed > 120+1e-3 {
			t.Errorf("particle %d speed %.2f outside jitter band [80, 120]", i, speed)
		}
	}
}

func TestEmitter_Reset(t *testing.T) {
	e := NewEmitter(500, 500, 10, 10, 100, 5)
	rng := rand.New(rand.NewSource(1))

	positions := make([]float32, 10)
	velocities := make([]float32, 10)
	e.Update(1.0, positions, velocities, rng)

	e.Reset()
	if e.Active() != 0 {
		t.Errorf("active = %d after Reset, want 0", e.Active())
	}
}

func TestEmitter_ZeroRateEmitsNothing(t *testing.T) {
	e := NewEmitter(500, 500, 10, 0, 100, 5)
	rng := rand.New(rand.NewSource(1))

	if n := e.Update(10, make([]float32, 10), make([]float32, 10), rng); n != 0 {
		t.Errorf("zero-rate emitter produced %d particles", n)
	}
}
