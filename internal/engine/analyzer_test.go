package engine

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"deconflict-sim/internal/drone"
	"deconflict-sim/internal/geo"
)

func testDrone(id string, start, end geo.Vec3, speed float64) drone.Drone {
	return drone.Drone{ID: id, Name: id, Start: start, End: end, Speed: speed}
}

func TestAnalyzePaths_HeadOnCollision(t *testing.T) {
	eng := New(Config{})
	drones := []drone.Drone{
		testDrone("a", geo.Vec3{X: 0, Y: 0, Z: 5}, geo.Vec3{X: 20, Y: 0, Z: 5}, 1),
		testDrone("b", geo.Vec3{X: 20, Y: 0, Z: 5}, geo.Vec3{X: 0, Y: 0, Z: 5}, 1),
	}
	got, err := eng.AnalyzePaths(drones)
	if err != nil {
		t.Fatalf("AnalyzePaths() error: %v", err)
	}
	if len(got.Conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(got.Conflicts))
	}
	c := got.Conflicts[0]
	if c.Kind != KindPath {
		t.Errorf("Kind = %v, want path", c.Kind)
	}
	if !got.ConflictedIDs["a"] || !got.ConflictedIDs["b"] {
		t.Errorf("both drones should be conflicted: %v", got.ConflictedIDs)
	}
	// Same point at the same normalized time: minimum separation is zero.
	if c.Distance > 0.5 {
		t.Errorf("Distance = %v, want near 0", c.Distance)
	}
}

func TestAnalyzePaths_ParallelSafe(t *testing.T) {
	eng := New(Config{})
	drones := []drone.Drone{
		testDrone("a", geo.Vec3{X: 0, Y: 0, Z: 5}, geo.Vec3{X: 20, Y: 0, Z: 5}, 1),
		testDrone("b", geo.Vec3{X: 0, Y: 5, Z: 5}, geo.Vec3{X: 20, Y: 5, Z: 5}, 1),
		testDrone("c", geo.Vec3{X: 0, Y: -5, Z: 5}, geo.Vec3{X: 20, Y: -5, Z: 5}, 1),
	}
	got, err := eng.AnalyzePaths(drones)
	if err != nil {
		t.Fatalf("AnalyzePaths() error: %v", err)
	}
	if len(got.Conflicts) != 0 {
		t.Errorf("expected no conflicts, got %v", got.Conflicts)
	}
}

func TestAnalyzePaths_TemporalSeparation(t *testing.T) {
	// Paths cross in space but the fast drone clears the crossing eight
	// seconds before the slow one arrives.
	eng := New(Config{})
	drones := []drone.Drone{
		testDrone("slow", geo.Vec3{X: 0, Y: 0, Z: 5}, geo.Vec3{X: 20, Y: 0, Z: 5}, 1),
		testDrone("fast", geo.Vec3{X: 10, Y: -10, Z: 5}, geo.Vec3{X: 10, Y: 10, Z: 5}, 5),
	}
	got, err := eng.AnalyzePaths(drones)
	if err != nil {
		t.Fatalf("AnalyzePaths() error: %v", err)
	}
	if len(got.Conflicts) != 0 {
		t.Errorf("expected no conflicts for temporally separated crossing, got %v", got.Conflicts)
	}
}

func TestAnalyzePaths_CrossingTimingRescue(t *testing.T) {
	// The sampled minimum separation sits exactly on the threshold, but
	// the drones reach the crossing point within the arrival window. The
	// closest-approach timing check must catch it.
	eng := New(Config{})
	drones := []drone.Drone{
		testDrone("a", geo.Vec3{X: 0, Y: 0, Z: 5}, geo.Vec3{X: 20, Y: 0, Z: 5}, 1.5),
		testDrone("b", geo.Vec3{X: 10, Y: -10, Z: 5}, geo.Vec3{X: 10, Y: 10, Z: 5}, 2),
	}
	got, err := eng.AnalyzePaths(drones)
	if err != nil {
		t.Fatalf("AnalyzePaths() error: %v", err)
	}
	if len(got.Conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(got.Conflicts))
	}
}

func TestAnalyzePaths_ParallelStaggered(t *testing.T) {
	// Parallel paths 1.5 units apart, but the fast drone has long cleared
	// the overlap before the slow one gets near it: the closest the two
	// ever come at the same instant is over 6 units. Parallel pairs must
	// be judged by the sampled sweep alone, never by segment geometry.
	eng := New(Config{})
	drones := []drone.Drone{
		testDrone("fast", geo.Vec3{X: 0, Y: 0, Z: 0}, geo.Vec3{X: 100, Y: 0, Z: 0}, 100),
		testDrone("slow", geo.Vec3{X: -6, Y: 1.5, Z: 0}, geo.Vec3{X: 6, Y: 1.5, Z: 0}, 4),
	}
	got, err := eng.AnalyzePaths(drones)
	if err != nil {
		t.Fatalf("AnalyzePaths() error: %v", err)
	}
	if len(got.Conflicts) != 0 {
		t.Errorf("expected no conflicts for temporally staggered parallel paths, got %v", got.Conflicts)
	}
}

func TestAnalyzePaths_NarrowCrossingNormalizedTime(t *testing.T) {
	// The crossing is far narrower than the sampling grid (simultaneous
	// separation never drops below ~7 units) but arrival times at the
	// crossing differ by only 2 seconds. The conflict must come out of the
	// timing check with NormalizedT on the same global clock the sampled
	// branch uses.
	eng := New(Config{})
	drones := []drone.Drone{
		testDrone("a", geo.Vec3{X: 0, Y: 0, Z: 0}, geo.Vec3{X: 40, Y: 0, Z: 0}, 4),
		testDrone("b", geo.Vec3{X: 16, Y: -60, Z: 0}, geo.Vec3{X: 16, Y: 60, Z: 0}, 10),
	}
	got, err := eng.AnalyzePaths(drones)
	if err != nil {
		t.Fatalf("AnalyzePaths() error: %v", err)
	}
	if len(got.Conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(got.Conflicts))
	}
	c := got.Conflicts[0]
	if c.Distance > 1e-9 {
		t.Errorf("Distance = %v, want 0 for intersecting paths", c.Distance)
	}
	// Drone a reaches the crossing at 4s; the longer flight lasts 12s.
	if !almostEqualF(c.AtSeconds, 4) {
		t.Errorf("AtSeconds = %v, want 4", c.AtSeconds)
	}
	maxDur := 12.0
	if !almostEqualF(c.NormalizedT, c.AtSeconds/maxDur) {
		t.Errorf("NormalizedT = %v, want %v (AtSeconds over the longer flight)", c.NormalizedT, c.AtSeconds/maxDur)
	}
}

func almostEqualF(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAnalyzePaths_StationaryDrone(t *testing.T) {
	// Zero-length path is allowed; the stationary drone sits on the other
	// drone's route.
	eng := New(Config{})
	drones := []drone.Drone{
		testDrone("mover", geo.Vec3{X: 0, Y: 0, Z: 5}, geo.Vec3{X: 20, Y: 0, Z: 5}, 1),
		testDrone("holder", geo.Vec3{X: 10, Y: 0, Z: 5}, geo.Vec3{X: 10, Y: 0, Z: 5}, 1),
	}
	got, err := eng.AnalyzePaths(drones)
	if err != nil {
		t.Fatalf("AnalyzePaths() error: %v", err)
	}
	if len(got.Conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(got.Conflicts))
	}
}

func TestAnalyzePaths_InvalidSpeed(t *testing.T) {
	eng := New(Config{})
	drones := []drone.Drone{
		testDrone("a", geo.Vec3{}, geo.Vec3{X: 10}, 1),
		testDrone("b", geo.Vec3{}, geo.Vec3{X: 10}, 0),
	}
	_, err := eng.AnalyzePaths(drones)
	if !errors.Is(err, drone.ErrInvalidSpeed) {
		t.Fatalf("AnalyzePaths() error = %v, want ErrInvalidSpeed", err)
	}
}

func TestAnalyzePaths_InsufficientDrones(t *testing.T) {
	eng := New(Config{})
	for _, drones := range [][]drone.Drone{
		nil,
		{testDrone("solo", geo.Vec3{}, geo.Vec3{X: 10}, 1)},
	} {
		got, err := eng.AnalyzePaths(drones)
		if err != nil {
			t.Fatalf("AnalyzePaths() error: %v", err)
		}
		if len(got.Conflicts) != 0 || len(got.ConflictedIDs) != 0 {
			t.Errorf("expected empty analysis, got %+v", got)
		}
	}
}

func TestAnalyzePaths_Idempotent(t *testing.T) {
	eng := New(Config{})
	drones := []drone.Drone{
		testDrone("a", geo.Vec3{X: 0, Y: 0, Z: 5}, geo.Vec3{X: 20, Y: 0, Z: 5}, 1),
		testDrone("b", geo.Vec3{X: 20, Y: 0, Z: 5}, geo.Vec3{X: 0, Y: 0, Z: 5}, 1),
		testDrone("c", geo.Vec3{X: 0, Y: 9, Z: 5}, geo.Vec3{X: 20, Y: 9, Z: 5}, 1),
	}
	first, err := eng.AnalyzePaths(drones)
	if err != nil {
		t.Fatalf("AnalyzePaths() error: %v", err)
	}
	second, err := eng.AnalyzePaths(drones)
	if err != nil {
		t.Fatalf("AnalyzePaths() error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("analysis not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestMarkConflicts(t *testing.T) {
	drones := []drone.Drone{
		testDrone("a", geo.Vec3{}, geo.Vec3{X: 10}, 1),
		testDrone("b", geo.Vec3{}, geo.Vec3{X: 10}, 1),
	}
	analysis := Analysis{ConflictedIDs: map[string]bool{"a": true}}
	marked := MarkConflicts(drones, analysis)
	if !marked[0].HasConflict || marked[1].HasConflict {
		t.Errorf("unexpected flags: %+v", marked)
	}
	if drones[0].HasConflict {
		t.Errorf("input slice was mutated")
	}
}
