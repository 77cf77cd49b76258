// Package components defines the component types stored per solid body
// in the ECS world.
package components

// Transform is the live position of a body.
type Transform struct {
	X, Y float32
}

// Rotation is the live orientation of a body. Speed is radians per second;
// zero means the body does not spin.
type Rotation struct {
	Angle float32
	Speed float32
}

// Motion is the live velocity of a movable circle.
type Motion struct {
	VX, VY float32
}

// Rect is a rectangular body centered on its Transform.
// BounceX/BounceY scale the reflected velocity component per world axis.
type Rect struct {
	W, H    float32
	BounceX float32
	BounceY float32
}

// CircleMode selects how a circular body interacts with particles.
type CircleMode uint8

const (
	// CircleStatic reflects particles and never moves.
	CircleStatic CircleMode = iota
	// CircleMovable exchanges momentum with particles and other circles.
	CircleMovable
	// CircleAbsorbing swallows particle momentum and respawns the particle.
	CircleAbsorbing
	// CircleGhost is drawn but never collides.
	CircleGhost
)

// String returns the mode name used in presets and logs.
func (m CircleMode) String() string {
	switch m {
	case CircleStatic:
		return "static"
	case CircleMovable:
		return "movable"
	case CircleAbsorbing:
		return "absorbing"
	case CircleGhost:
		return "ghost"
	}
	return "unknown"
}

// Circle is a circular body.
type Circle struct {
	R    float32
	Mode CircleMode

	// Mass must be positive for movable circles. Configure derives a
	// default from the radius when left at zero.
	Mass float32

	// RestoreSpeed holds the speed magnitude constant when positive.
	RestoreSpeed float32

	BounceX float32
	BounceY float32
}

// Initial is the immutable snapshot taken when a body is registered.
// ResetShapes restores the live components from it. Living on the same
// entity as the live components, it cannot desync from them.
type Initial struct {
	X, Y   float32
	Angle  float32
	VX, VY float32
}
