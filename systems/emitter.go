package systems

import (
	"math"
	"math/rand"
)

// speedJitter is the relative spread applied to the configured emission
// speed: each particle leaves at speed * [1-speedJitter, 1+speedJitter].
const speedJitter = 0.2

// Emitter spawns particles from a fixed source point into a fixed-capacity
// pool, reusing slots once the pool is full. It owns a fractional time
// accumulator so emission rate is independent of step size.
type Emitter struct {
	X, Y   float32
	Radius float32
	Rate   float32 // particles per second
	Speed  float32
	Max    int // pool capacity

	acc    float32
	active int
}

// NewEmitter creates an emitter. Rate and Max must be positive.
func NewEmitter(x, y, radius, rate, speed float32, max int) *Emitter {
	return &Emitter{
		X: x, Y: y,
		Radius: radius,
		Rate:   rate,
		Speed:  speed,
		Max:    max,
	}
}

// Active returns the number of pool slots activated so far, at most Max.
func (e *Emitter) Active() int {
	return e.active
}

// Reset clears the accumulator and active cursor, deactivating every slot.
func (e *Emitter) Reset() {
	e.acc = 0
	e.active = 0
}

// Update accumulates scaled time and emits one particle per elapsed
// emission interval, writing directly into the pool arrays. When the pool
// is full, slot 0 is overwritten; activation order is not tracked beyond
// the active cursor, so eviction is not true FIFO.
// Returns the number of particles emitted this step.
func (e *Emitter) Update(dt float32, positions, velocities []float32, rng *rand.Rand) int {
	if e.Rate <= 0 || e.Max <= 0 {
		return 0
	}

	interval := 1.0 / e.Rate
	e.acc += dt

	emitted := 0
	for e.acc >= interval {
		e.acc -= interval

		slot := 0
		if e.active < e.Max {
			slot = e.active
			e.active++
		}
		e.spawn(slot, positions, velocities, rng)
		emitted++
	}

	return emitted
}

// spawn places a fresh particle in the given slot: a random offset of up to
// half the emitter radius from the center, moving outward along the same
// angle at the configured speed with jitter.
func (e *Emitter) spawn(slot int, positions, velocities []float32, rng *rand.Rand) {
	angle := rng.Float32() * 2 * math.Pi
	cos := float32(math.Cos(float64(angle)))
	sin := float32(math.Sin(float64(angle)))

	dist := rng.Float32() * e.Radius * 0.5
	speed := e.Speed * (1 - speedJitter + rng.Float32()*2*speedJitter)

	positions[2*slot] = e.X + cos*dist
	positions[2*slot+1] = e.Y + sin*dist
	velocities[2*slot] = cos * speed
	velocities[2*slot+1] = sin * speed
}
