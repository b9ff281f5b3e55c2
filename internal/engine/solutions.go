package engine

import (
	"fmt"

	"github.com/google/uuid"

	"deconflict-sim/internal/drone"
	"deconflict-sim/internal/geo"
)

// SolutionType identifies the mitigation a candidate proposes.
type SolutionType string

const (
	SolutionAltitude SolutionType = "altitude"
	SolutionDelay    SolutionType = "delay"
	SolutionRoute    SolutionType = "route"
	SolutionSpeed    SolutionType = "speed"
)

// Solution is one mitigation candidate. Generating a solution has no side
// effect; ApplySolution performs the mutation as a separate explicit step.
// Candidates carry no feasibility validation (an altitude delta may drive a
// coordinate negative); vetting is the caller's concern.
type Solution struct {
	ID          string       `json:"id"`
	Type        SolutionType `json:"type"`
	TargetIDs   []string     `json:"target_ids"`
	Description string       `json:"description"`

	// AltitudeDeltas holds the z change per target for altitude solutions.
	AltitudeDeltas map[string]float64 `json:"altitude_deltas,omitempty"`
	// SpeedFactor is the multiplier for delay and speed solutions.
	SpeedFactor float64 `json:"speed_factor,omitempty"`
	// Waypoints holds the injected detour point per target for route
	// solutions, offset laterally from the path midpoint.
	Waypoints map[string]geo.Vec3 `json:"waypoints,omitempty"`
}

// GenerateSolutions proposes ranked candidates for the current pre-flight
// conflict set.
//
// When a primary drone exists and is itself conflicted, all mitigation is
// framed around it: exactly three candidates, in fixed order altitude,
// delay, route, each targeting the primary only. Otherwise a single speed
// candidate targets every conflicted drone collectively.
func (e *Engine) GenerateSolutions(conflicted []drone.Drone, primary *drone.Drone) []Solution {
	if len(conflicted) == 0 {
		return nil
	}

	if primary != nil && containsID(conflicted, primary.ID) {
		mid := primary.Start.Lerp(primary.End, 0.5)
		return []Solution{
			{
				ID:             uuid.New().String(),
				Type:           SolutionAltitude,
				TargetIDs:      []string{primary.ID},
				Description:    fmt.Sprintf("Raise %s by %.0f units", primary.Name, e.cfg.AltitudeOffset),
				AltitudeDeltas: map[string]float64{primary.ID: e.cfg.AltitudeOffset},
			},
			{
				ID:          uuid.New().String(),
				Type:        SolutionDelay,
				TargetIDs:   []string{primary.ID},
				Description: fmt.Sprintf("Slow %s to %.0f%% speed", primary.Name, e.cfg.SpeedFactor*100),
				SpeedFactor: e.cfg.SpeedFactor,
			},
			{
				ID:          uuid.New().String(),
				Type:        SolutionRoute,
				TargetIDs:   []string{primary.ID},
				Description: fmt.Sprintf("Detour %s laterally by %.0f units", primary.Name, e.cfg.RouteOffset),
				Waypoints: map[string]geo.Vec3{
					primary.ID: {X: mid.X, Y: mid.Y + e.cfg.RouteOffset, Z: mid.Z},
				},
			},
		}
	}

	ids := make([]string, len(conflicted))
	for i, d := range conflicted {
		ids[i] = d.ID
	}
	return []Solution{
		{
			ID:          uuid.New().String(),
			Type:        SolutionSpeed,
			TargetIDs:   ids,
			Description: fmt.Sprintf("Slow all %d conflicted drones to %.0f%% speed", len(ids), e.cfg.SpeedFactor*100),
			SpeedFactor: e.cfg.SpeedFactor,
		},
	}
}

// GenerateImmediateSolutions proposes the three fixed candidates for a live
// breach between two drones. Unlike the pre-flight branch, mitigation is
// symmetric: both drones move, in opposite directions where that applies.
func (e *Engine) GenerateImmediateSolutions(a, b drone.Drone) []Solution {
	midA := a.Start.Lerp(a.End, 0.5)
	midB := b.Start.Lerp(b.End, 0.5)
	targets := []string{a.ID, b.ID}

	return []Solution{
		{
			ID:          uuid.New().String(),
			Type:        SolutionAltitude,
			TargetIDs:   targets,
			Description: fmt.Sprintf("Split altitude: raise %s, lower %s", a.Name, b.Name),
			AltitudeDeltas: map[string]float64{
				a.ID: e.cfg.AltitudeOffset,
				b.ID: -e.cfg.AltitudeOffset,
			},
		},
		{
			ID:          uuid.New().String(),
			Type:        SolutionDelay,
			TargetIDs:   targets,
			Description: fmt.Sprintf("Slow both drones to %.0f%% speed", e.cfg.SpeedFactor*100),
			SpeedFactor: e.cfg.SpeedFactor,
		},
		{
			ID:          uuid.New().String(),
			Type:        SolutionRoute,
			TargetIDs:   targets,
			Description: "Route both drones onto diverging detours",
			Waypoints: map[string]geo.Vec3{
				a.ID: {X: midA.X, Y: midA.Y + e.cfg.RouteOffset, Z: midA.Z},
				b.ID: {X: midB.X, Y: midB.Y - e.cfg.RouteOffset, Z: midB.Z},
			},
		},
	}
}

func containsID(drones []drone.Drone, id string) bool {
	for _, d := range drones {
		if d.ID == id {
			return true
		}
	}
	return false
}
