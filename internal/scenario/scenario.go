package scenario

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"deconflict-sim/internal/drone"
	"deconflict-sim/internal/geo"
)

// ErrNotFound is returned when no builtin scenario has the requested id.
var ErrNotFound = errors.New("scenario not found")

// Scenario groups a named drone set with an expectation of whether the
// analyzer should find conflicts in it.
type Scenario struct {
	ID           int           `yaml:"id"`
	Name         string        `yaml:"name"`
	Description  string        `yaml:"description,omitempty"`
	HasConflicts bool          `yaml:"has_conflicts"`
	Drones       []drone.Drone `yaml:"drones"`
}

// Load reads a YAML scenario definition from disk.
func Load(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	for _, d := range s.Drones {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
		}
	}
	return &s, nil
}

// ByID returns the builtin scenario with the given id.
func ByID(id int) (*Scenario, error) {
	for _, s := range Builtin() {
		if s.ID == id {
			sc := s
			return &sc, nil
		}
	}
	return nil, fmt.Errorf("scenario %d: %w", id, ErrNotFound)
}

// Builtin returns the predefined demo scenarios.
func Builtin() []Scenario {
	return []Scenario{
		{
			ID:           1,
			Name:         "Conflict-Free Parallel Paths",
			Description:  "Multiple drones flying in parallel paths with safe distances",
			HasConflicts: false,
			Drones: []drone.Drone{
				{Name: "Primary Drone", Start: vec(0, 0, 5), End: vec(20, 0, 5), Speed: 1.0, IsPrimary: true},
				{Name: "Escort Drone 1", Start: vec(0, 5, 5), End: vec(20, 5, 5), Speed: 1.0},
				{Name: "Escort Drone 2", Start: vec(0, -5, 5), End: vec(20, -5, 5), Speed: 1.0},
			},
		},
		{
			ID:           2,
			Name:         "Head-On Collision Course",
			Description:  "Two drones on collision course - high conflict scenario",
			HasConflicts: true,
			Drones: []drone.Drone{
				{Name: "Primary Drone", Start: vec(0, 0, 5), End: vec(20, 0, 5), Speed: 1.0, IsPrimary: true},
				{Name: "Incoming Drone", Start: vec(20, 0, 5), End: vec(0, 0, 5), Speed: 1.0},
			},
		},
		{
			ID:           3,
			Name:         "Crossing Paths",
			Description:  "Drones with intersecting flight paths at different times",
			HasConflicts: true,
			Drones: []drone.Drone{
				{Name: "Primary Drone", Start: vec(0, 0, 5), End: vec(20, 0, 5), Speed: 1.5, IsPrimary: true},
				{Name: "Crossing Drone 1", Start: vec(10, -10, 5), End: vec(10, 10, 5), Speed: 2.0},
				{Name: "Crossing Drone 2", Start: vec(15, 10, 3), End: vec(15, -10, 7), Speed: 1.5},
			},
		},
		{
			ID:           4,
			Name:         "Multi-Level Safe Formation",
			Description:  "Complex formation with multiple altitude levels - conflict-free",
			HasConflicts: false,
			Drones: []drone.Drone{
				{Name: "Lead Drone", Start: vec(0, 0, 8), End: vec(25, 0, 8), Speed: 1.0, IsPrimary: true},
				{Name: "Wing Drone Left", Start: vec(-2, -3, 6), End: vec(23, -3, 6), Speed: 1.0},
				{Name: "Wing Drone Right", Start: vec(-2, 3, 6), End: vec(23, 3, 6), Speed: 1.0},
				{Name: "Support Drone", Start: vec(-4, 0, 4), End: vec(21, 0, 4), Speed: 1.0},
			},
		},
	}
}

func vec(x, y, z float64) geo.Vec3 {
	return geo.Vec3{X: x, Y: y, Z: z}
}
