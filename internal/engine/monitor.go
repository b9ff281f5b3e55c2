package engine

import "deconflict-sim/internal/geo"

// TrackedPosition is a drone's instantaneous position at a simulation tick.
// Positional state is owned and advanced by the playback driver; the
// monitor only ever looks at the snapshot it is handed.
type TrackedPosition struct {
	ID  string
	Pos geo.Vec3
}

// CheckLive scans the current positions for an immediate proximity breach.
// It returns the first pair (in index order) closer than the live
// threshold, or nil. The scan stops at the first hit: the caller is
// expected to pause playback before the next tick's positions are
// computed, so continuing the sweep would buy nothing.
func (e *Engine) CheckLive(positions []TrackedPosition) *Conflict {
	for i := 0; i < len(positions); i++ {
		for j := i + 1; j < len(positions); j++ {
			dist := positions[i].Pos.DistanceTo(positions[j].Pos)
			if dist < e.cfg.LiveThreshold {
				return &Conflict{
					DroneA:   positions[i].ID,
					DroneB:   positions[j].ID,
					Kind:     KindImmediate,
					Distance: dist,
				}
			}
		}
	}
	return nil
}
