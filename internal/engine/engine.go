// Conflict detection and resolution engine for straight-line drone paths
package engine

// Default engine constants. These are the reference values the HTTP API and
// CLI honor for compatibility; all of them can be overridden via config.
const (
	DefaultPathThreshold      = 2.0
	DefaultLiveThreshold      = 2.0
	DefaultTimeSamples        = 100
	DefaultAltitudeOffset     = 3.0
	DefaultSpeedFactor        = 0.6
	DefaultRouteOffset        = 5.0
	DefaultIntersectionMargin = 1.5
	DefaultArrivalWindowSec   = 3.0
)

// Config carries the detection thresholds and mitigation offsets shared by
// the analyzer, the live monitor, and the solution generator. Centralizing
// them here keeps the pre-flight and live checks from drifting apart.
type Config struct {
	// PathThreshold is the separation (world units) below which a sampled
	// pre-flight approach counts as a path conflict.
	PathThreshold float64 `yaml:"path_threshold"`
	// LiveThreshold is the separation below which two live positions count
	// as an immediate conflict.
	LiveThreshold float64 `yaml:"live_threshold"`
	// TimeSamples is the number of evenly spaced time samples per drone pair.
	TimeSamples int `yaml:"time_samples"`
	// AltitudeOffset is the z delta applied by altitude solutions.
	AltitudeOffset float64 `yaml:"altitude_offset"`
	// SpeedFactor is the multiplier applied by delay and speed solutions.
	SpeedFactor float64 `yaml:"speed_factor"`
	// RouteOffset is the lateral offset applied by route solutions.
	RouteOffset float64 `yaml:"route_offset"`
	// IntersectionMargin widens PathThreshold when deciding whether the
	// closest-approach timing check is worth running for a pair.
	IntersectionMargin float64 `yaml:"intersection_margin"`
	// ArrivalWindowSec is the arrival-time difference below which two
	// drones reaching the same closest-approach region conflict.
	ArrivalWindowSec float64 `yaml:"arrival_window_sec"`
}

// DefaultConfig returns the reference constants.
func DefaultConfig() Config {
	return Config{
		PathThreshold:      DefaultPathThreshold,
		LiveThreshold:      DefaultLiveThreshold,
		TimeSamples:        DefaultTimeSamples,
		AltitudeOffset:     DefaultAltitudeOffset,
		SpeedFactor:        DefaultSpeedFactor,
		RouteOffset:        DefaultRouteOffset,
		IntersectionMargin: DefaultIntersectionMargin,
		ArrivalWindowSec:   DefaultArrivalWindowSec,
	}
}

// Engine holds the injected constants. All operations are pure functions of
// their inputs; the engine keeps no drone state of its own.
type Engine struct {
	cfg Config
}

// New creates an Engine, filling unset config fields with the defaults.
func New(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.PathThreshold <= 0 {
		cfg.PathThreshold = def.PathThreshold
	}
	if cfg.LiveThreshold <= 0 {
		cfg.LiveThreshold = def.LiveThreshold
	}
	if cfg.TimeSamples <= 0 {
		cfg.TimeSamples = def.TimeSamples
	}
	if cfg.AltitudeOffset <= 0 {
		cfg.AltitudeOffset = def.AltitudeOffset
	}
	if cfg.SpeedFactor <= 0 || cfg.SpeedFactor >= 1 {
		cfg.SpeedFactor = def.SpeedFactor
	}
	if cfg.RouteOffset <= 0 {
		cfg.RouteOffset = def.RouteOffset
	}
	if cfg.IntersectionMargin <= 0 {
		cfg.IntersectionMargin = def.IntersectionMargin
	}
	if cfg.ArrivalWindowSec <= 0 {
		cfg.ArrivalWindowSec = def.ArrivalWindowSec
	}
	return &Engine{cfg: cfg}
}

// Configured returns the effective engine constants.
func (e *Engine) Configured() Config {
	return e.cfg
}
