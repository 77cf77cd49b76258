package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// speedColorMax is the speed mapped to the hottest color; faster particles
// saturate.
const speedColorMax = 300.0

// ParticleRenderer renders the particle field.
type ParticleRenderer struct{}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer() *ParticleRenderer {
	return &ParticleRenderer{}
}

// Draw renders count particles from interleaved position/velocity arrays,
// colored by speed on a cold-to-hot ramp.
func (r *ParticleRenderer) Draw(positions, velocities []float32, count int) {
	for i := 0; i < count; i++ {
		x := positions[2*i]
		y := positions[2*i+1]
		vx := velocities[2*i]
		vy := velocities[2*i+1]

		rl.DrawPixel(int32(x), int32(y), speedColor(vx, vy))
	}
}

// speedColor maps speed to a blue (slow) to red (fast) ramp.
func speedColor(vx, vy float32) rl.Color {
	speedSq := vx*vx + vy*vy
	t := speedSq / (speedColorMax * speedColorMax)
	if t > 1 {
		t = 1
	}

	return rl.Color{
		R: uint8(40 + t*215),
		G: uint8(80 + t*60),
		B: uint8(255 - t*200),
		A: 255,
	}
}
