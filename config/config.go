// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
// A preset file is plain YAML unmarshaled over the embedded defaults.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Particles  ParticlesConfig  `yaml:"particles"`
	Shapes     []ShapeConfig    `yaml:"shapes"`
	Sensor     *SensorConfig    `yaml:"sensor"`
	Emitter    *EmitterConfig   `yaml:"emitter"`
	ForceField ForceFieldConfig `yaml:"force_field"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds simulation world dimensions.
// World can differ from the screen; the renderer handles scaling.
type WorldConfig struct {
	Width  int `yaml:"width"`  // World width in world units (0 = use screen width)
	Height int `yaml:"height"` // World height in world units (0 = use screen height)
}

// PhysicsConfig holds simulation physics parameters.
type PhysicsConfig struct {
	DT                 float64 `yaml:"dt"`                  // Fixed timestep for headless runs (seconds)
	SpeedScale         float64 `yaml:"speed_scale"`         // Multiplier applied to dt before integration
	Damping            float64 `yaml:"damping"`             // Global velocity damping on collision [0,1]
	Boundary           string  `yaml:"boundary"`            // "reflect" or "wrap"
	ParticleCollisions bool    `yaml:"particle_collisions"` // Enable particle-particle collision pass
	GridCellSize       float64 `yaml:"grid_cell_size"`      // Spatial hash cell size
	ParticleRadius     float64 `yaml:"particle_radius"`
	ParticleMass       float64 `yaml:"particle_mass"`
}

// ParticlesConfig holds initial particle population parameters.
type ParticlesConfig struct {
	Count int    `yaml:"count"`
	Mode  string `yaml:"mode"` // "center", "left", "random", or "static"
}

// ShapeConfig describes one solid body in the initial scene.
// Type selects which fields apply: "rect" uses width/height/rotation,
// "circle" uses radius/mode/velocity/mass.
type ShapeConfig struct {
	Type string  `yaml:"type"` // "rect" or "circle"
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`

	// Rectangle fields
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	Angle         float64 `yaml:"angle"`
	RotationSpeed float64 `yaml:"rotation_speed"`

	// Circle fields
	Radius       float64 `yaml:"radius"`
	Mode         string  `yaml:"mode"` // "static", "movable", "absorbing", or "ghost"
	VX           float64 `yaml:"vx"`
	VY           float64 `yaml:"vy"`
	Mass         float64 `yaml:"mass"`          // 0 = derive from radius
	RestoreSpeed float64 `yaml:"restore_speed"` // >0 = hold speed magnitude constant

	// Per-axis bounce coefficients (0 in file = default 1.0)
	BounceX float64 `yaml:"bounce_x"`
	BounceY float64 `yaml:"bounce_y"`
}

// SensorConfig holds the detector rectangle and its grid resolution.
type SensorConfig struct {
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"`
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	Resolution float64 `yaml:"resolution"`
}

// EmitterConfig holds particle source parameters.
type EmitterConfig struct {
	X                  float64 `yaml:"x"`
	Y                  float64 `yaml:"y"`
	Radius             float64 `yaml:"radius"`
	ParticlesPerSecond float64 `yaml:"particles_per_second"`
	Speed              float64 `yaml:"speed"`
	MaxParticles       int     `yaml:"max_particles"`
}

// ForceFieldConfig holds the energy-density visualization grid parameters.
type ForceFieldConfig struct {
	Enabled    bool `yaml:"enabled"`
	Resolution int  `yaml:"resolution"` // Cell size in world units
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32      float32 // Physics.DT as float32
	WorldW32  float32 // Effective world width as float32
	WorldH32  float32 // Effective world height as float32
	ScreenW32 float32
	ScreenH32 float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML preset file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	// World dimensions default to screen size if not specified
	worldW := c.World.Width
	if worldW == 0 {
		worldW = c.Screen.Width
	}
	worldH := c.World.Height
	if worldH == 0 {
		worldH = c.Screen.Height
	}
	c.Derived.WorldW32 = float32(worldW)
	c.Derived.WorldH32 = float32(worldH)

	// Bounce coefficients default to fully elastic when left unset
	for i := range c.Shapes {
		s := &c.Shapes[i]
		if s.BounceX == 0 {
			s.BounceX = 1.0
		}
		if s.BounceY == 0 {
			s.BounceY = 1.0
		}
		if s.Mode == "" {
			s.Mode = "static"
		}
	}

	if c.Sensor != nil && c.Sensor.Resolution == 0 {
		c.Sensor.Resolution = 10
	}
	if c.ForceField.Resolution == 0 {
		c.ForceField.Resolution = 20
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
