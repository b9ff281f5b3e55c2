package engine

import (
	"fmt"
	"math"

	"deconflict-sim/internal/drone"
	"deconflict-sim/internal/geo"
)

// AnalyzePaths runs the pre-flight pairwise check over the full drone set.
// It returns the conflicting pairs and the union of conflicted drone ids.
//
// Any drone with a non-positive speed rejects the whole call: mixing valid
// and invalid drones in one analysis would make the conflict set depend on
// which drones were silently skipped. Fewer than two drones is not an
// error; the result is simply empty.
func (e *Engine) AnalyzePaths(drones []drone.Drone) (Analysis, error) {
	result := Analysis{ConflictedIDs: make(map[string]bool)}

	for _, d := range drones {
		if d.Speed <= 0 {
			return Analysis{}, fmt.Errorf("analyze paths: drone %q: %w", d.Name, drone.ErrInvalidSpeed)
		}
	}
	if len(drones) < 2 {
		return result, nil
	}

	for i := 0; i < len(drones); i++ {
		for j := i + 1; j < len(drones); j++ {
			c, ok := e.checkPair(drones[i], drones[j])
			if !ok {
				continue
			}
			result.Conflicts = append(result.Conflicts, c)
			result.ConflictedIDs[drones[i].ID] = true
			result.ConflictedIDs[drones[j].ID] = true
		}
	}
	return result, nil
}

// checkPair samples both drones over the longer of the two flight times and
// looks for a separation below the path threshold. Each drone progresses on
// its own clock and holds at its end point once its flight is over.
func (e *Engine) checkPair(a, b drone.Drone) (Conflict, bool) {
	durA := a.Duration()
	durB := b.Duration()
	maxDur := math.Max(durA, durB)

	minDist := math.Inf(1)
	minAt := 0.0
	minT := 0.0
	breached := false

	samples := e.cfg.TimeSamples
	for s := 0; s <= samples; s++ {
		t := float64(s) / float64(samples)
		actual := t * maxDur

		pa := a.PositionAt(progressAt(actual, durA))
		pb := b.PositionAt(progressAt(actual, durB))

		dist := pa.DistanceTo(pb)
		if dist < minDist {
			minDist = dist
			minAt = actual
			minT = t
		}
		if dist < e.cfg.PathThreshold {
			breached = true
		}
	}

	if !breached {
		// Sampling can step over a narrow crossing. When the paths come
		// close in space, check arrival timing at the closest approach.
		if c, ok := e.checkApproachTiming(a, b); ok {
			return c, true
		}
		return Conflict{}, false
	}

	return Conflict{
		DroneA:      a.ID,
		DroneB:      b.ID,
		Kind:        KindPath,
		Distance:    minDist,
		AtSeconds:   minAt,
		NormalizedT: minT,
	}, true
}

// progressAt maps absolute elapsed time to a drone's own normalized
// progress. A zero-duration (stationary) drone is always at its end point.
func progressAt(elapsed, duration float64) float64 {
	if duration <= 0 {
		return 1
	}
	return math.Min(1, elapsed/duration)
}

// checkApproachTiming flags a pair whose paths nearly intersect in space
// and whose arrival times at the closest approach fall within the arrival
// window. This catches crossings narrower than the sampling resolution.
// Parallel paths have no crossing to time and are left to the sampled
// sweep, which already saw their true simultaneous separation.
func (e *Engine) checkApproachTiming(a, b drone.Drone) (Conflict, bool) {
	approach := geo.ClosestApproach(a.Segment(), b.Segment())
	if approach.Parallel {
		return Conflict{}, false
	}
	if approach.Distance >= e.cfg.PathThreshold*e.cfg.IntersectionMargin {
		return Conflict{}, false
	}

	pa := a.PositionAt(approach.T1)
	pb := b.PositionAt(approach.T2)
	if pa.DistanceTo(pb) > e.cfg.PathThreshold {
		return Conflict{}, false
	}

	timeA := approach.T1 * a.Duration()
	timeB := approach.T2 * b.Duration()
	if math.Abs(timeA-timeB) >= e.cfg.ArrivalWindowSec {
		return Conflict{}, false
	}

	atSec := math.Min(timeA, timeB)
	maxDur := math.Max(a.Duration(), b.Duration())
	normalized := 0.0
	if maxDur > 0 {
		normalized = atSec / maxDur
	}
	return Conflict{
		DroneA:      a.ID,
		DroneB:      b.ID,
		Kind:        KindPath,
		Distance:    approach.Distance,
		AtSeconds:   atSec,
		NormalizedT: normalized,
	}, true
}

// MarkConflicts returns a copy of the drone set with HasConflict derived
// from the analysis. The input slice is left untouched.
func MarkConflicts(drones []drone.Drone, analysis Analysis) []drone.Drone {
	out := make([]drone.Drone, len(drones))
	copy(out, drones)
	for i := range out {
		out[i].HasConflict = analysis.ConflictedIDs[out[i].ID]
	}
	return out
}
