// Drone records shared by the engine, store, and simulator
package drone

import (
	"errors"
	"fmt"
	"time"

	"deconflict-sim/internal/geo"
)

// Validation errors for drone records.
var (
	ErrInvalidSpeed = errors.New("drone speed must be positive")
	ErrMissingName  = errors.New("drone name required")
)

// Drone is one straight-line flight: from Start to End at constant Speed.
// The engine only ever borrows snapshots of these records; ownership stays
// with the store (or whatever the caller persists them in).
type Drone struct {
	ID          string    `json:"id" yaml:"id,omitempty"`
	Name        string    `json:"name" yaml:"name"`
	Start       geo.Vec3  `json:"start" yaml:"start"`
	End         geo.Vec3  `json:"end" yaml:"end"`
	Speed       float64   `json:"speed" yaml:"speed"`
	IsPrimary   bool      `json:"is_primary" yaml:"is_primary,omitempty"`
	HasConflict bool      `json:"has_conflict" yaml:"-"`
	ScenarioID  string    `json:"scenario_id,omitempty" yaml:"-"`
	CreatedAt   time.Time `json:"created_at,omitempty" yaml:"-"`
}

// Validate checks the invariants a drone must satisfy before analysis.
// A zero-length path is allowed (stationary drone); a non-positive speed
// is not, since it makes the path duration undefined.
func (d Drone) Validate() error {
	if d.Name == "" {
		return ErrMissingName
	}
	if d.Speed <= 0 {
		return fmt.Errorf("drone %q: %w (got %v)", d.Name, ErrInvalidSpeed, d.Speed)
	}
	return nil
}

// PathLength returns the straight-line distance from start to end.
func (d Drone) PathLength() float64 {
	return d.Start.DistanceTo(d.End)
}

// Duration returns the seconds the drone needs to fly its path.
// A zero-length path has duration 0.
func (d Drone) Duration() float64 {
	if d.Speed <= 0 {
		return 0
	}
	return d.PathLength() / d.Speed
}

// Segment returns the drone's flight path as a geometry segment.
func (d Drone) Segment() geo.Segment {
	return geo.Segment{Start: d.Start, End: d.End}
}

// PositionAt returns the drone position at normalized progress t along its
// own path. t is clamped to [0,1]; a finished drone holds at its end point.
func (d Drone) PositionAt(t float64) geo.Vec3 {
	return d.Start.Lerp(d.End, t)
}
