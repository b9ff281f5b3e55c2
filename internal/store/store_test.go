package store

import (
	"errors"
	"testing"

	"deconflict-sim/internal/drone"
	"deconflict-sim/internal/geo"
)

func testDrone(name string) drone.Drone {
	return drone.Drone{Name: name, Start: geo.Vec3{}, End: geo.Vec3{X: 10}, Speed: 1}
}

func TestAddAssignsIDAndTimestamp(t *testing.T) {
	s := NewDroneStore()
	d, err := s.Add(testDrone("d1"))
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if d.ID == "" {
		t.Error("Add() did not assign an id")
	}
	if d.CreatedAt.IsZero() {
		t.Error("Add() did not stamp CreatedAt")
	}
	if s.Count() != 1 {
		t.Errorf("Count() = %d, want 1", s.Count())
	}
}

func TestAddRejectsInvalid(t *testing.T) {
	s := NewDroneStore()
	bad := testDrone("d1")
	bad.Speed = 0
	if _, err := s.Add(bad); !errors.Is(err, drone.ErrInvalidSpeed) {
		t.Fatalf("Add() error = %v, want ErrInvalidSpeed", err)
	}
	if s.Count() != 0 {
		t.Errorf("invalid drone was stored")
	}
}

func TestGetUpdateRemove(t *testing.T) {
	s := NewDroneStore()
	d, _ := s.Add(testDrone("d1"))

	got, err := s.Get(d.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Name != "d1" {
		t.Errorf("Get() name = %q", got.Name)
	}

	got.Speed = 2.5
	if err := s.Update(got); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	updated, _ := s.Get(d.ID)
	if updated.Speed != 2.5 {
		t.Errorf("Speed after update = %v, want 2.5", updated.Speed)
	}

	if err := s.Remove(d.ID); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if _, err := s.Get(d.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() after remove = %v, want ErrNotFound", err)
	}
}

func TestUpdateUnknown(t *testing.T) {
	s := NewDroneStore()
	d := testDrone("ghost")
	d.ID = "missing"
	if err := s.Update(d); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update() error = %v, want ErrNotFound", err)
	}
	if err := s.Remove("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Remove() error = %v, want ErrNotFound", err)
	}
}

func TestListInsertionOrder(t *testing.T) {
	s := NewDroneStore()
	for _, name := range []string{"first", "second", "third"} {
		if _, err := s.Add(testDrone(name)); err != nil {
			t.Fatalf("Add(%s) error: %v", name, err)
		}
	}
	list := s.List()
	if len(list) != 3 {
		t.Fatalf("List() len = %d, want 3", len(list))
	}
	for i, want := range []string{"first", "second", "third"} {
		if list[i].Name != want {
			t.Errorf("List()[%d] = %q, want %q", i, list[i].Name, want)
		}
	}
}

func TestListByScenario(t *testing.T) {
	s := NewDroneStore()
	a := testDrone("a")
	a.ScenarioID = "alpha"
	b := testDrone("b")
	b.ScenarioID = "beta"
	c := testDrone("c")
	c.ScenarioID = "alpha"
	for _, d := range []drone.Drone{a, b, c} {
		if _, err := s.Add(d); err != nil {
			t.Fatalf("Add() error: %v", err)
		}
	}
	got := s.ListByScenario("alpha")
	if len(got) != 2 || got[0].Name != "a" || got[1].Name != "c" {
		t.Errorf("ListByScenario() = %+v", got)
	}
}

func TestPrimary(t *testing.T) {
	s := NewDroneStore()
	if _, ok := s.Primary(); ok {
		t.Error("empty store reported a primary")
	}
	p := testDrone("lead")
	p.IsPrimary = true
	s.Add(testDrone("escort"))
	s.Add(p)
	got, ok := s.Primary()
	if !ok || got.Name != "lead" {
		t.Errorf("Primary() = (%+v, %v)", got, ok)
	}
}

func TestReplaceAllAndClear(t *testing.T) {
	s := NewDroneStore()
	s.Add(testDrone("old"))

	fresh := []drone.Drone{testDrone("new1"), testDrone("new2")}
	s.ReplaceAll(fresh)
	list := s.List()
	if len(list) != 2 || list[0].Name != "new1" || list[1].Name != "new2" {
		t.Errorf("List() after ReplaceAll = %+v", list)
	}
	for _, d := range list {
		if d.ID == "" {
			t.Errorf("ReplaceAll left drone %q without an id", d.Name)
		}
	}

	s.Clear()
	if s.Count() != 0 {
		t.Errorf("Count() after Clear = %d, want 0", s.Count())
	}
}
