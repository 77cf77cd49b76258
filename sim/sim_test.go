package sim

import (
	"testing"

	"github.com/pthm-cable/kinetic/config"
)

// testConfig builds a minimal valid configuration for a 1000x1000 world
// with no particles and no bodies. Tests add what they need.
func testConfig() *config.Config {
	cfg := &config.Config{
		Screen: config.ScreenConfig{Width: 1000, Height: 1000, TargetFPS: 60},
		Physics: config.PhysicsConfig{
			DT:             0.1,
			SpeedScale:     1,
			Damping:        1,
			Boundary:       "reflect",
			GridCellSize:   10,
			ParticleRadius: 2,
			ParticleMass:   1,
		},
		Particles: config.ParticlesConfig{Count: 0, Mode: "static"},
		Telemetry: config.TelemetryConfig{StatsWindow: 1e6, PerfCollectorWindow: 60},
	}
	cfg.Derived = config.DerivedConfig{
		DT32:      0.1,
		WorldW32:  1000,
		WorldH32:  1000,
		ScreenW32: 1000,
		ScreenH32: 1000,
	}
	return cfg
}

// rectShape returns a static axis-aligned rectangle config with elastic
// bounce on both axes.
func rectShape(x, y, w, h float64) config.ShapeConfig {
	return config.ShapeConfig{
		Type: "rect", X: x, Y: y, Width: w, Height: h,
		BounceX: 1, BounceY: 1,
	}
}

// circleShape returns a circle config with elastic bounce.
func circleShape(x, y, r float64, mode string) config.ShapeConfig {
	return config.ShapeConfig{
		Type: "circle", X: x, Y: y, Radius: r, Mode: mode,
		BounceX: 1, BounceY: 1,
	}
}

// mustSim builds a simulation or fails the test.
func mustSim(t *testing.T, cfg *config.Config) *Simulation {
	t.Helper()
	s, err := New(cfg, Options{Seed: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

// setParticle overwrites one particle's state in place.
func setParticle(s *Simulation, i int, x, y, vx, vy float32) {
	s.positions[2*i] = x
	s.positions[2*i+1] = y
	s.velocities[2*i] = vx
	s.velocities[2*i+1] = vy
}

func TestParseBoundaryMode(t *testing.T) {
	tests := []struct {
		in   string
		want BoundaryMode
	}{
		{"wrap", BoundaryWrap},
		{"reflect", BoundaryReflect},
		{"", BoundaryReflect},
		{"bogus", BoundaryReflect},
	}
	for _, tt := range tests {
		if got := ParseBoundaryMode(tt.in); got != tt.want {
			t.Errorf("ParseBoundaryMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestResetShapes(t *testing.T) {
	cfg := testConfig()
	cfg.Shapes = []config.ShapeConfig{
		{Type: "circle", X: 300, Y: 300, Radius: 20, Mode: "movable", VX: 50, VY: 0, BounceX: 1, BounceY: 1},
	}
	s := mustSim(t, cfg)

	for i := 0; i < 10; i++ {
		s.Step(0.1)
	}

	s.ResetShapes()

	var x, y, vx, vy float32
	s.EachShape(func(v ShapeView) {
		x, y, vx, vy = v.X, v.Y, v.VX, v.VY
	})

	if x != 300 || y != 300 {
		t.Errorf("position (%v, %v) after reset, want (300, 300)", x, y)
	}
	if vx != 50 || vy != 0 {
		t.Errorf("velocity (%v, %v) after reset, want (50, 0)", vx, vy)
	}
}

func TestClearShapes(t *testing.T) {
	cfg := testConfig()
	cfg.Shapes = []config.ShapeConfig{
		rectShape(200, 200, 50, 50),
		circleShape(600, 600, 30, "static"),
	}
	s := mustSim(t, cfg)

	s.ClearShapes()

	n := 0
	s.EachShape(func(ShapeView) { n++ })
	if n != 0 {
		t.Errorf("%d shapes remain after ClearShapes", n)
	}
}

func TestCircleMassDefault(t *testing.T) {
	cfg := testConfig()
	cfg.Shapes = []config.ShapeConfig{
		circleShape(500, 500, 10, "movable"),
	}
	s := mustSim(t, cfg)

	circ := s.circMap.Get(s.shapes[0])
	want := float32(3.14159265) * 100 * 0.01
	if diff := circ.Mass - want; diff > 1e-3 || diff < -1e-3 {
		t.Errorf("derived mass %v, want ~%v", circ.Mass, want)
	}
}

func TestCircleMassDefaultWithEmitter(t *testing.T) {
	cfg := testConfig()
	cfg.Shapes = []config.ShapeConfig{
		circleShape(500, 500, 10, "movable"),
	}
	cfg.Emitter = &config.EmitterConfig{
		X: 200, Y: 200, Radius: 10,
		ParticlesPerSecond: 10, Speed: 100, MaxParticles: 5,
	}
	s := mustSim(t, cfg)

	circ := s.circMap.Get(s.shapes[0])
	want := float32(3.14159265) * 100 * 0.01
	if diff := circ.Mass - want; diff > 1e-3 || diff < -1e-3 {
		t.Errorf("derived mass %v with emitter-owned pool, want ~%v", circ.Mass, want)
	}
}
