package engine

import (
	"errors"
	"fmt"

	"deconflict-sim/internal/drone"
)

// Applier errors.
var (
	ErrUnknownSolutionType = errors.New("unknown solution type")
	ErrTargetNotFound      = errors.New("solution target not in drone set")
)

// ApplySolution maps an accepted candidate onto concrete parameter changes
// and returns the mutated drone set as copies; the caller persists them and
// re-runs AnalyzePaths.
//
// Application is not atomic across targets: if a later target is missing
// from the set, mutations already made to earlier targets stand and are
// returned alongside the error. The engine performs no rollback.
func (e *Engine) ApplySolution(sol Solution, drones []drone.Drone) ([]drone.Drone, error) {
	switch sol.Type {
	case SolutionAltitude, SolutionDelay, SolutionRoute, SolutionSpeed:
	default:
		return nil, fmt.Errorf("apply solution: %w: %q", ErrUnknownSolutionType, sol.Type)
	}

	out := make([]drone.Drone, len(drones))
	copy(out, drones)

	for _, id := range sol.TargetIDs {
		idx := indexOf(out, id)
		if idx < 0 {
			return out, fmt.Errorf("apply solution: drone %s: %w", id, ErrTargetNotFound)
		}

		switch sol.Type {
		case SolutionAltitude:
			delta, ok := sol.AltitudeDeltas[id]
			if !ok {
				delta = e.cfg.AltitudeOffset
			}
			out[idx].Start.Z += delta
			out[idx].End.Z += delta

		case SolutionDelay, SolutionSpeed:
			factor := sol.SpeedFactor
			if factor <= 0 {
				factor = e.cfg.SpeedFactor
			}
			out[idx].Speed *= factor

		case SolutionRoute:
			// The single-segment path model has no waypoint slot, so the
			// detour collapses onto a lateral shift of the whole segment
			// toward the injected waypoint.
			shift := e.cfg.RouteOffset
			if wp, ok := sol.Waypoints[id]; ok {
				mid := out[idx].Start.Lerp(out[idx].End, 0.5)
				shift = wp.Y - mid.Y
			}
			out[idx].Start.Y += shift
			out[idx].End.Y += shift
		}
	}
	return out, nil
}

func indexOf(drones []drone.Drone, id string) int {
	for i, d := range drones {
		if d.ID == id {
			return i
		}
	}
	return -1
}
