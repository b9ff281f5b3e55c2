package engine

import (
	"testing"

	"deconflict-sim/internal/drone"
	"deconflict-sim/internal/geo"
)

func TestGenerateSolutions_PrimaryConflicted(t *testing.T) {
	eng := New(Config{})
	primary := testDrone("p", geo.Vec3{X: 0, Y: 0, Z: 5}, geo.Vec3{X: 20, Y: 0, Z: 5}, 1)
	primary.IsPrimary = true
	peer := testDrone("q", geo.Vec3{X: 20, Y: 0, Z: 5}, geo.Vec3{X: 0, Y: 0, Z: 5}, 1)
	conflicted := []drone.Drone{primary, peer}

	sols := eng.GenerateSolutions(conflicted, &primary)
	if len(sols) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(sols))
	}
	wantOrder := []SolutionType{SolutionAltitude, SolutionDelay, SolutionRoute}
	for i, s := range sols {
		if s.Type != wantOrder[i] {
			t.Errorf("candidate %d: Type = %v, want %v", i, s.Type, wantOrder[i])
		}
		if len(s.TargetIDs) != 1 || s.TargetIDs[0] != "p" {
			t.Errorf("candidate %d: targets = %v, want [p] only", i, s.TargetIDs)
		}
	}

	if sols[0].AltitudeDeltas["p"] != DefaultAltitudeOffset {
		t.Errorf("altitude delta = %v, want %v", sols[0].AltitudeDeltas["p"], DefaultAltitudeOffset)
	}
	if sols[1].SpeedFactor != DefaultSpeedFactor {
		t.Errorf("speed factor = %v, want %v", sols[1].SpeedFactor, DefaultSpeedFactor)
	}
	// Route waypoint sits at the path midpoint, offset laterally.
	wp := sols[2].Waypoints["p"]
	if wp != (geo.Vec3{X: 10, Y: DefaultRouteOffset, Z: 5}) {
		t.Errorf("waypoint = %v", wp)
	}
}

func TestGenerateSolutions_NoPrimary(t *testing.T) {
	eng := New(Config{})
	conflicted := []drone.Drone{
		testDrone("a", geo.Vec3{}, geo.Vec3{X: 10}, 1),
		testDrone("b", geo.Vec3{X: 10}, geo.Vec3{}, 1),
	}

	sols := eng.GenerateSolutions(conflicted, nil)
	if len(sols) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(sols))
	}
	if sols[0].Type != SolutionSpeed {
		t.Errorf("Type = %v, want speed", sols[0].Type)
	}
	if len(sols[0].TargetIDs) != 2 {
		t.Errorf("targets = %v, want both conflicted drones", sols[0].TargetIDs)
	}
}

func TestGenerateSolutions_PrimaryNotConflicted(t *testing.T) {
	// Primary exists but is clear: fall through to the collective branch.
	eng := New(Config{})
	primary := testDrone("p", geo.Vec3{Y: 50}, geo.Vec3{X: 10, Y: 50}, 1)
	primary.IsPrimary = true
	conflicted := []drone.Drone{
		testDrone("a", geo.Vec3{}, geo.Vec3{X: 10}, 1),
		testDrone("b", geo.Vec3{X: 10}, geo.Vec3{}, 1),
	}

	sols := eng.GenerateSolutions(conflicted, &primary)
	if len(sols) != 1 || sols[0].Type != SolutionSpeed {
		t.Fatalf("expected single speed candidate, got %+v", sols)
	}
}

func TestGenerateSolutions_Empty(t *testing.T) {
	eng := New(Config{})
	if sols := eng.GenerateSolutions(nil, nil); sols != nil {
		t.Fatalf("expected nil for no conflicts, got %+v", sols)
	}
}

func TestGenerateImmediateSolutions(t *testing.T) {
	eng := New(Config{})
	a := testDrone("a", geo.Vec3{X: 0, Y: 0, Z: 5}, geo.Vec3{X: 20, Y: 0, Z: 5}, 1)
	b := testDrone("b", geo.Vec3{X: 20, Y: 0, Z: 5}, geo.Vec3{X: 0, Y: 0, Z: 5}, 1)

	sols := eng.GenerateImmediateSolutions(a, b)
	if len(sols) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(sols))
	}
	wantOrder := []SolutionType{SolutionAltitude, SolutionDelay, SolutionRoute}
	for i, s := range sols {
		if s.Type != wantOrder[i] {
			t.Errorf("candidate %d: Type = %v, want %v", i, s.Type, wantOrder[i])
		}
		if len(s.TargetIDs) != 2 {
			t.Errorf("candidate %d: targets = %v, want both drones", i, s.TargetIDs)
		}
	}

	// Altitude split is symmetric: one up, one down.
	if sols[0].AltitudeDeltas["a"] != DefaultAltitudeOffset || sols[0].AltitudeDeltas["b"] != -DefaultAltitudeOffset {
		t.Errorf("altitude deltas = %v", sols[0].AltitudeDeltas)
	}
	// Route detours diverge.
	if sols[2].Waypoints["a"].Y <= 0 || sols[2].Waypoints["b"].Y >= 0 {
		t.Errorf("waypoints do not diverge: %v", sols[2].Waypoints)
	}
}
