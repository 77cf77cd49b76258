package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/kinetic/components"
	"github.com/pthm-cable/kinetic/sim"
)

// Body colors by kind.
var (
	rectColor     = rl.Color{R: 130, G: 130, B: 140, A: 255}
	staticColor   = rl.Color{R: 110, G: 120, B: 135, A: 255}
	movableColor  = rl.Color{R: 80, G: 160, B: 220, A: 255}
	absorberColor = rl.Color{R: 190, G: 70, B: 60, A: 255}
	ghostColor    = rl.Color{R: 180, G: 180, B: 200, A: 70}
)

// ShapeRenderer renders the solid bodies.
type ShapeRenderer struct{}

// NewShapeRenderer creates a new shape renderer.
func NewShapeRenderer() *ShapeRenderer {
	return &ShapeRenderer{}
}

// Draw renders every registered body.
func (r *ShapeRenderer) Draw(s *sim.Simulation) {
	s.EachShape(func(v sim.ShapeView) {
		if v.IsRect {
			r.drawRect(v)
		} else {
			r.drawCircle(v)
		}
	})
}

func (r *ShapeRenderer) drawRect(v sim.ShapeView) {
	rec := rl.Rectangle{X: v.X, Y: v.Y, Width: v.W, Height: v.H}
	origin := rl.Vector2{X: v.W * 0.5, Y: v.H * 0.5}
	deg := v.Angle * 180 / math.Pi
	rl.DrawRectanglePro(rec, origin, deg, rectColor)
}

func (r *ShapeRenderer) drawCircle(v sim.ShapeView) {
	var color rl.Color
	switch v.Mode {
	case components.CircleMovable:
		color = movableColor
	case components.CircleAbsorbing:
		color = absorberColor
	case components.CircleGhost:
		color = ghostColor
	default:
		color = staticColor
	}

	rl.DrawCircle(int32(v.X), int32(v.Y), v.R, color)

	// Velocity indicator for movable bodies.
	if v.Mode == components.CircleMovable && (v.VX != 0 || v.VY != 0) {
		end := rl.Vector2{X: v.X + v.VX*0.25, Y: v.Y + v.VY*0.25}
		rl.DrawLineV(rl.Vector2{X: v.X, Y: v.Y}, end, rl.White)
	}
}
