package engine

// ConflictKind distinguishes pre-flight path conflicts from live breaches.
type ConflictKind string

const (
	// KindPath marks a predicted close approach found by pre-flight sampling.
	KindPath ConflictKind = "path"
	// KindImmediate marks a breach between live positions during playback.
	KindImmediate ConflictKind = "immediate"
)

// Conflict is one detected close approach between an unordered drone pair.
type Conflict struct {
	DroneA      string       `json:"drone_a"`
	DroneB      string       `json:"drone_b"`
	Kind        ConflictKind `json:"kind"`
	Distance    float64      `json:"distance"`
	AtSeconds   float64      `json:"at_seconds"`
	NormalizedT float64      `json:"normalized_t"`
}

// Involves reports whether the conflict names the given drone id.
func (c Conflict) Involves(id string) bool {
	return c.DroneA == id || c.DroneB == id
}

// Analysis is the result of one pre-flight pass over a drone set.
// Conflicts holds one record per conflicting pair; ConflictedIDs is the
// union of drones appearing in any of them.
type Analysis struct {
	ConflictedIDs map[string]bool `json:"conflicted_ids"`
	Conflicts     []Conflict      `json:"conflicts"`
}

// HasConflicts reports whether any pair conflicted.
func (a Analysis) HasConflicts() bool {
	return len(a.Conflicts) > 0
}
