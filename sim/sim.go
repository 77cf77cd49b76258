// Package sim implements the particle simulation core: the particle state
// store, the solid-body registry, the per-step integration pipeline, and
// the optional sensor / force-field / emitter subsystems.
//
// A Simulation is single-threaded: Step runs to completion before control
// returns, and reconfiguration (Configure, shape edits, emitter attach)
// must happen between steps. Renderers and UI read state between steps
// only. Malformed configuration (negative counts, zero-mass movable
// bodies) is a caller precondition, not checked at runtime.
package sim

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/kinetic/components"
	"github.com/pthm-cable/kinetic/config"
	"github.com/pthm-cable/kinetic/systems"
	"github.com/pthm-cable/kinetic/telemetry"
)

// BoundaryMode selects what happens to particles at the domain edge.
type BoundaryMode uint8

const (
	// BoundaryReflect clamps particles into the domain and reflects the
	// offending velocity component, damped.
	BoundaryReflect BoundaryMode = iota
	// BoundaryWrap wraps both axes independently into [0, bound).
	BoundaryWrap
)

// ParseBoundaryMode maps a config string to a BoundaryMode.
// Unknown values fall back to reflect.
func ParseBoundaryMode(s string) BoundaryMode {
	if s == "wrap" {
		return BoundaryWrap
	}
	return BoundaryReflect
}

// circleMassDensity derives a default mass from a circle's area.
const circleMassDensity = 0.01

// Options configures simulation construction beyond the config file.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
}

// Simulation owns the complete simulation state.
type Simulation struct {
	width, height float32

	// Particle state: interleaved x,y pairs, 2*count scalars each.
	// Replaced wholesale on reconfiguration, never resized in place.
	positions  []float32
	velocities []float32
	count      int

	radius         float32
	mass           float32
	damping        float32
	speedScale     float32
	boundary       BoundaryMode
	pairCollisions bool

	// Solid bodies: one ECS entity per body carrying its live components
	// plus the immutable Initial snapshot. The slice preserves
	// registration order, which the collision pass iterates in.
	world        *ecs.World
	rectMapper   *ecs.Map4[components.Transform, components.Rotation, components.Rect, components.Initial]
	circleMapper *ecs.Map4[components.Transform, components.Motion, components.Circle, components.Initial]
	tfMap        *ecs.Map1[components.Transform]
	rotMap       *ecs.Map1[components.Rotation]
	motMap       *ecs.Map1[components.Motion]
	rectMap      *ecs.Map1[components.Rect]
	circMap      *ecs.Map1[components.Circle]
	initMap      *ecs.Map1[components.Initial]
	shapes       []ecs.Entity

	// Optional subsystems; nil means absent and every consuming path
	// treats that as a cheap no-op.
	sensor  *systems.Sensor
	field   *systems.ForceField
	emitter *systems.Emitter

	fieldResolution int

	grid *systems.SpatialGrid
	rng  *rand.Rand

	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool

	tick int32
}

// New creates a simulation from the given configuration.
func New(cfg *config.Config, opts Options) (*Simulation, error) {
	world := ecs.NewWorld()

	s := &Simulation{
		width:  cfg.Derived.WorldW32,
		height: cfg.Derived.WorldH32,

		radius:         float32(cfg.Physics.ParticleRadius),
		mass:           float32(cfg.Physics.ParticleMass),
		damping:        float32(cfg.Physics.Damping),
		speedScale:     float32(cfg.Physics.SpeedScale),
		boundary:       ParseBoundaryMode(cfg.Physics.Boundary),
		pairCollisions: cfg.Physics.ParticleCollisions,

		world:        world,
		rectMapper:   ecs.NewMap4[components.Transform, components.Rotation, components.Rect, components.Initial](world),
		circleMapper: ecs.NewMap4[components.Transform, components.Motion, components.Circle, components.Initial](world),
		tfMap:        ecs.NewMap1[components.Transform](world),
		rotMap:       ecs.NewMap1[components.Rotation](world),
		motMap:       ecs.NewMap1[components.Motion](world),
		rectMap:      ecs.NewMap1[components.Rect](world),
		circMap:      ecs.NewMap1[components.Circle](world),
		initMap:      ecs.NewMap1[components.Initial](world),

		fieldResolution: cfg.ForceField.Resolution,

		grid: systems.NewSpatialGrid(cfg.Derived.WorldW32, cfg.Derived.WorldH32, float32(cfg.Physics.GridCellSize)),
		rng:  rand.New(rand.NewSource(opts.Seed)),

		logStats: opts.LogStats,
	}

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	s.collector = telemetry.NewCollector(statsWindow, cfg.Derived.DT32)
	s.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	s.outputManager = om
	if err := s.outputManager.WriteConfig(cfg); err != nil {
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	for _, sc := range cfg.Shapes {
		s.AddShape(sc)
	}

	if cfg.Sensor != nil {
		s.SetSensor(float32(cfg.Sensor.X), float32(cfg.Sensor.Y),
			float32(cfg.Sensor.Width), float32(cfg.Sensor.Height),
			float32(cfg.Sensor.Resolution))
	}

	if cfg.Emitter != nil {
		s.AttachEmitter(*cfg.Emitter)
	}
	s.Configure(cfg.Particles.Count, ParseMode(cfg.Particles.Mode))

	if cfg.ForceField.Enabled {
		s.SetForceField(true)
	}

	return s, nil
}

// AddShape registers a solid body from its config record, snapshotting its
// initial state on the same entity.
func (s *Simulation) AddShape(sc config.ShapeConfig) {
	if sc.Type == "rect" {
		tf := components.Transform{X: float32(sc.X), Y: float32(sc.Y)}
		rot := components.Rotation{Angle: float32(sc.Angle), Speed: float32(sc.RotationSpeed)}
		rect := components.Rect{
			W: float32(sc.Width), H: float32(sc.Height),
			BounceX: float32(sc.BounceX), BounceY: float32(sc.BounceY),
		}
		init := components.Initial{X: tf.X, Y: tf.Y, Angle: rot.Angle}

		e := s.rectMapper.NewEntity(&tf, &rot, &rect, &init)
		s.shapes = append(s.shapes, e)
		return
	}

	tf := components.Transform{X: float32(sc.X), Y: float32(sc.Y)}
	mot := components.Motion{VX: float32(sc.VX), VY: float32(sc.VY)}
	circ := components.Circle{
		R:            float32(sc.Radius),
		Mode:         ParseCircleMode(sc.Mode),
		Mass:         float32(sc.Mass),
		RestoreSpeed: float32(sc.RestoreSpeed),
		BounceX:      float32(sc.BounceX),
		BounceY:      float32(sc.BounceY),
	}
	init := components.Initial{X: tf.X, Y: tf.Y, VX: mot.VX, VY: mot.VY}

	e := s.circleMapper.NewEntity(&tf, &mot, &circ, &init)
	s.shapes = append(s.shapes, e)
}

// ParseCircleMode maps a config string to a CircleMode.
// Unknown values fall back to static.
func ParseCircleMode(mode string) components.CircleMode {
	switch mode {
	case "movable":
		return components.CircleMovable
	case "absorbing":
		return components.CircleAbsorbing
	case "ghost":
		return components.CircleGhost
	}
	return components.CircleStatic
}

// ResetShapes restores every body's live state from its initial snapshot.
// Used by UI reset; the physics never calls this.
func (s *Simulation) ResetShapes() {
	for _, e := range s.shapes {
		init := s.initMap.Get(e)
		if init == nil {
			continue
		}

		tf := s.tfMap.Get(e)
		tf.X = init.X
		tf.Y = init.Y

		if rot := s.rotMap.Get(e); rot != nil {
			rot.Angle = init.Angle
		}
		if mot := s.motMap.Get(e); mot != nil {
			mot.VX = init.VX
			mot.VY = init.VY
		}
	}
}

// ClearShapes removes every registered body. Live state and snapshots live
// on the same entities, so both go together.
func (s *Simulation) ClearShapes() {
	for _, e := range s.shapes {
		if s.rectMap.Get(e) != nil {
			s.rectMapper.Remove(e)
		} else {
			s.circleMapper.Remove(e)
		}
	}
	s.shapes = s.shapes[:0]
}

// SetSensor installs (or replaces) the detector rectangle. The intensity
// grid is allocated fresh.
func (s *Simulation) SetSensor(x, y, w, h, res float32) {
	s.sensor = systems.NewSensor(x, y, w, h, res)
}

// ClearSensor removes the sensor entirely.
func (s *Simulation) ClearSensor() {
	s.sensor = nil
}

// SetForceField enables or disables the energy-density grid. Disabling
// frees the grid rather than zeroing it.
func (s *Simulation) SetForceField(enabled bool) {
	if !enabled {
		s.field = nil
		return
	}
	if s.field == nil {
		s.field = systems.NewForceField(s.width, s.height, s.fieldResolution)
	}
}

// AttachEmitter installs an emitter and hands it ownership of the particle
// pool: the arrays are reallocated to the emitter's capacity and every
// slot is parked off-domain with zero velocity until spawned.
func (s *Simulation) AttachEmitter(ec config.EmitterConfig) {
	s.emitter = systems.NewEmitter(
		float32(ec.X), float32(ec.Y),
		float32(ec.Radius),
		float32(ec.ParticlesPerSecond),
		float32(ec.Speed),
		ec.MaxParticles,
	)

	s.count = ec.MaxParticles
	s.positions = make([]float32, 2*s.count)
	s.velocities = make([]float32, 2*s.count)
	for i := 0; i < s.count; i++ {
		s.positions[2*i] = -s.width
		s.positions[2*i+1] = -s.height
	}
}

// DetachEmitter removes the emitter. Only the slots it activated stay in
// the pool; parked slots are dropped so they never enter the domain.
func (s *Simulation) DetachEmitter() {
	if s.emitter != nil {
		s.count = s.emitter.Active()
	}
	s.emitter = nil
}

// SetSpeedScale sets the multiplier applied to wall dt before integration.
func (s *Simulation) SetSpeedScale(v float32) { s.speedScale = v }

// SetDamping sets the global collision damping coefficient.
func (s *Simulation) SetDamping(v float32) { s.damping = v }

// SetBoundary sets the boundary policy.
func (s *Simulation) SetBoundary(m BoundaryMode) { s.boundary = m }

// SetPairCollisions toggles the particle-particle collision pass.
func (s *Simulation) SetPairCollisions(on bool) { s.pairCollisions = on }

// Positions returns the particle position buffer (interleaved x,y).
// Read-only between steps.
func (s *Simulation) Positions() []float32 { return s.positions }

// Velocities returns the particle velocity buffer (interleaved x,y).
// Read-only between steps.
func (s *Simulation) Velocities() []float32 { return s.velocities }

// Count returns the effective particle count. This can be lower than the
// configured count when placement was rejected too often.
func (s *Simulation) Count() int { return s.count }

// Tick returns the current simulation tick.
func (s *Simulation) Tick() int32 { return s.tick }

// Bounds returns the domain size.
func (s *Simulation) Bounds() (w, h float32) { return s.width, s.height }

// ParticleRadius returns the particle radius.
func (s *Simulation) ParticleRadius() float32 { return s.radius }

// Damping returns the global damping coefficient.
func (s *Simulation) Damping() float32 { return s.damping }

// SpeedScale returns the dt multiplier.
func (s *Simulation) SpeedScale() float32 { return s.speedScale }

// Boundary returns the active boundary policy.
func (s *Simulation) Boundary() BoundaryMode { return s.boundary }

// PairCollisions reports whether the particle-particle pass is enabled.
func (s *Simulation) PairCollisions() bool { return s.pairCollisions }

// Sensor returns the detector, or nil when absent.
func (s *Simulation) Sensor() *systems.Sensor { return s.sensor }

// Field returns the force-field grid, or nil when disabled.
func (s *Simulation) Field() *systems.ForceField { return s.field }

// Emitter returns the emitter, or nil when absent.
func (s *Simulation) Emitter() *systems.Emitter { return s.emitter }

// ShapeView is a read-only snapshot of one body for renderers.
type ShapeView struct {
	X, Y  float32
	Angle float32

	IsRect bool
	W, H   float32

	R      float32
	Mode   components.CircleMode
	VX, VY float32
}

// EachShape calls fn for every registered body in registration order.
func (s *Simulation) EachShape(fn func(ShapeView)) {
	for _, e := range s.shapes {
		tf := s.tfMap.Get(e)
		view := ShapeView{X: tf.X, Y: tf.Y}

		if rect := s.rectMap.Get(e); rect != nil {
			rot := s.rotMap.Get(e)
			view.IsRect = true
			view.Angle = rot.Angle
			view.W = rect.W
			view.H = rect.H
		} else {
			circ := s.circMap.Get(e)
			mot := s.motMap.Get(e)
			view.R = circ.R
			view.Mode = circ.Mode
			view.VX = mot.VX
			view.VY = mot.VY
		}

		fn(view)
	}
}

// activeCount returns how many pool slots the integrator touches: every
// slot when the pool is self-owned, only activated slots under an emitter
// (parked slots stay off-domain and inert).
func (s *Simulation) activeCount() int {
	if s.emitter != nil {
		return s.emitter.Active()
	}
	return s.count
}

// Unload flushes and closes owned resources.
func (s *Simulation) Unload() {
	if err := s.outputManager.Close(); err != nil {
		slog.Error("closing output", "error", err)
	}
}

// speedOf returns the speed of particle i.
func (s *Simulation) speedOf(i int) float32 {
	vx := s.velocities[2*i]
	vy := s.velocities[2*i+1]
	return float32(math.Sqrt(float64(vx*vx + vy*vy)))
}
