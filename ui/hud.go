package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/kinetic/sim"
)

// HUD renders the one-line status readout in the top-left corner.
type HUD struct{}

// NewHUD creates a new HUD.
func NewHUD() *HUD {
	return &HUD{}
}

// Draw renders particle count, tick, and frame rate.
func (h *HUD) Draw(s *sim.Simulation) {
	count := s.Count()
	if e := s.Emitter(); e != nil {
		count = e.Active()
	}

	text := fmt.Sprintf("particles: %d  tick: %d  fps: %d", count, s.Tick(), rl.GetFPS())
	rl.DrawText(text, 10, 10, 16, rl.RayWhite)
}
