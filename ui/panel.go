package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/kinetic/sim"
)

// Panel renders the interactive control panel and applies changes to the
// simulation between steps.
type Panel struct {
	x, y    float32
	width   float32
	visible bool
}

// NewPanel creates a control panel anchored at (x, y).
func NewPanel(x, y, width float32) *Panel {
	return &Panel{x: x, y: y, width: width, visible: true}
}

// Toggle switches panel visibility.
func (p *Panel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// IsVisible returns whether the panel is shown.
func (p *Panel) IsVisible() bool {
	return p.visible
}

// Draw renders the panel and pushes any edited values into the simulation.
func (p *Panel) Draw(s *sim.Simulation) {
	if !p.visible {
		return
	}

	panelHeight := float32(250)
	rl.DrawRectangle(int32(p.x)-10, int32(p.y)-10, int32(p.width)+20, int32(panelHeight), rl.Color{R: 20, G: 20, B: 26, A: 200})

	y := p.y
	sliderW := p.width - 60

	rl.DrawText("Controls", int32(p.x), int32(y), 16, rl.White)
	y += 26

	// Speed scale slider
	rl.DrawText("Speed scale", int32(p.x), int32(y), 12, rl.Gray)
	y += 16
	newScale := gui.SliderBar(
		rl.Rectangle{X: p.x, Y: y, Width: sliderW, Height: 18},
		"0", "4",
		s.SpeedScale(), 0, 4,
	)
	rl.DrawText(fmt.Sprintf("%.2f", s.SpeedScale()), int32(p.x+sliderW+8), int32(y+2), 14, rl.RayWhite)
	if newScale != s.SpeedScale() {
		s.SetSpeedScale(newScale)
	}
	y += 30

	// Damping slider
	rl.DrawText("Damping", int32(p.x), int32(y), 12, rl.Gray)
	y += 16
	newDamping := gui.SliderBar(
		rl.Rectangle{X: p.x, Y: y, Width: sliderW, Height: 18},
		"0", "1",
		s.Damping(), 0, 1,
	)
	rl.DrawText(fmt.Sprintf("%.2f", s.Damping()), int32(p.x+sliderW+8), int32(y+2), 14, rl.RayWhite)
	if newDamping != s.Damping() {
		s.SetDamping(newDamping)
	}
	y += 30

	// Boundary mode
	boundaryLabel := "Boundary: reflect"
	if s.Boundary() == sim.BoundaryWrap {
		boundaryLabel = "Boundary: wrap"
	}
	if gui.Button(rl.Rectangle{X: p.x, Y: y, Width: 150, Height: 24}, boundaryLabel) {
		if s.Boundary() == sim.BoundaryWrap {
			s.SetBoundary(sim.BoundaryReflect)
		} else {
			s.SetBoundary(sim.BoundaryWrap)
		}
	}
	y += 32

	// Pair collisions
	pairLabel := "Pair collisions: off"
	if s.PairCollisions() {
		pairLabel = "Pair collisions: on"
	}
	if gui.Button(rl.Rectangle{X: p.x, Y: y, Width: 150, Height: 24}, pairLabel) {
		s.SetPairCollisions(!s.PairCollisions())
	}
	y += 32

	// Force field
	fieldLabel := "Force field: off"
	if s.Field() != nil {
		fieldLabel = "Force field: on"
	}
	if gui.Button(rl.Rectangle{X: p.x, Y: y, Width: 150, Height: 24}, fieldLabel) {
		s.SetForceField(s.Field() == nil)
	}

	// Reset shapes to their initial placement
	if gui.Button(rl.Rectangle{X: p.x + 160, Y: y, Width: 120, Height: 24}, "Reset shapes") {
		s.ResetShapes()
	}
}
