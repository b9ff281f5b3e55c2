// In-memory persistence for drones and scenario groupings
package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"deconflict-sim/internal/drone"
)

// ErrNotFound is returned when no drone exists under the requested id.
var ErrNotFound = errors.New("drone not found")

// DroneStore keeps the active drone set. All accessors copy records in and
// out, so callers only ever hold snapshots; the engine never sees live
// store state.
type DroneStore struct {
	mu     sync.Mutex
	order  []string
	drones map[string]drone.Drone
	now    func() time.Time
}

// NewDroneStore returns an empty store.
func NewDroneStore() *DroneStore {
	return &DroneStore{
		drones: make(map[string]drone.Drone),
		now:    time.Now,
	}
}

// Add validates and inserts a drone, assigning an id if it has none.
func (s *DroneStore) Add(d drone.Drone) (drone.Drone, error) {
	if err := d.Validate(); err != nil {
		return drone.Drone{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	d.CreatedAt = s.now().UTC()
	if _, exists := s.drones[d.ID]; !exists {
		s.order = append(s.order, d.ID)
	}
	s.drones[d.ID] = d
	return d, nil
}

// Get returns the drone under id.
func (s *DroneStore) Get(id string) (drone.Drone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drones[id]
	if !ok {
		return drone.Drone{}, ErrNotFound
	}
	return d, nil
}

// Update replaces the stored record for d.ID.
func (s *DroneStore) Update(d drone.Drone) error {
	if err := d.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drones[d.ID]; !ok {
		return ErrNotFound
	}
	s.drones[d.ID] = d
	return nil
}

// Remove deletes the drone under id.
func (s *DroneStore) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drones[id]; !ok {
		return ErrNotFound
	}
	delete(s.drones, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns all drones in insertion order.
func (s *DroneStore) List() []drone.Drone {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]drone.Drone, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.drones[id])
	}
	return out
}

// ListByScenario returns the drones belonging to one scenario, by name.
func (s *DroneStore) ListByScenario(scenarioID string) []drone.Drone {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []drone.Drone
	for _, id := range s.order {
		if d := s.drones[id]; d.ScenarioID == scenarioID {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Primary returns the drone flagged primary, if any.
func (s *DroneStore) Primary() (drone.Drone, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.order {
		if d := s.drones[id]; d.IsPrimary {
			return d, true
		}
	}
	return drone.Drone{}, false
}

// ReplaceAll swaps the full drone set; used after a solution application
// or a scenario load where the whole set is recomputed at once.
func (s *DroneStore) ReplaceAll(drones []drone.Drone) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = s.order[:0]
	s.drones = make(map[string]drone.Drone, len(drones))
	for _, d := range drones {
		if d.ID == "" {
			d.ID = uuid.New().String()
		}
		s.order = append(s.order, d.ID)
		s.drones[d.ID] = d
	}
}

// Clear drops every drone.
func (s *DroneStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = s.order[:0]
	s.drones = make(map[string]drone.Drone)
}

// Count returns the number of stored drones.
func (s *DroneStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.drones)
}
