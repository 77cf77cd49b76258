package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/kinetic/systems"
)

// OverlayRenderer renders the sensor heat map, the force-field density
// overlay, and the emitter marker.
type OverlayRenderer struct{}

// NewOverlayRenderer creates a new overlay renderer.
func NewOverlayRenderer() *OverlayRenderer {
	return &OverlayRenderer{}
}

// DrawSensor renders the sensor region outline and its heat cells, colored
// by accumulated hit intensity.
func (r *OverlayRenderer) DrawSensor(sn *systems.Sensor) {
	if sn == nil {
		return
	}

	res := sn.Resolution()
	cols := sn.Cols()
	rows := sn.Rows()
	cells := sn.Cells()

	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			v := cells[cy*cols+cx]
			if v <= 0 {
				continue
			}

			t := v / 20.0
			if t > 1 {
				t = 1
			}
			color := rl.Color{R: 255, G: uint8(220 - t*160), B: 40, A: uint8(40 + t*180)}

			rl.DrawRectangle(
				int32(sn.X+float32(cx)*res),
				int32(sn.Y+float32(cy)*res),
				int32(res), int32(res),
				color,
			)
		}
	}

	rl.DrawRectangleLines(int32(sn.X), int32(sn.Y), int32(sn.W), int32(sn.H), rl.Yellow)
}

// DrawField renders the force-field density grid as translucent cells.
func (r *OverlayRenderer) DrawField(f *systems.ForceField) {
	if f == nil {
		return
	}

	res := f.Resolution()
	cols := f.Cols()
	rows := f.Rows()
	cells := f.Cells()

	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			v := cells[cy*cols+cx]
			if v <= 0 {
				continue
			}

			a := v * 40
			if a > 160 {
				a = 160
			}

			rl.DrawRectangle(
				int32(float32(cx)*res),
				int32(float32(cy)*res),
				int32(res), int32(res),
				rl.Color{R: 80, G: 220, B: 140, A: uint8(a)},
			)
		}
	}
}

// DrawEmitter renders the emitter's spawn disc and center marker.
func (r *OverlayRenderer) DrawEmitter(e *systems.Emitter) {
	if e == nil {
		return
	}

	rl.DrawCircleLines(int32(e.X), int32(e.Y), e.Radius, rl.SkyBlue)
	rl.DrawCircle(int32(e.X), int32(e.Y), 3, rl.SkyBlue)
}
