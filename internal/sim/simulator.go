// Playback simulator flying drone paths tick by tick
package sim

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"time"

	"deconflict-sim/internal/drone"
	"deconflict-sim/internal/engine"
	"deconflict-sim/internal/logging"
	"deconflict-sim/internal/telemetry"
)

// TelemetryWriter is an interface to support different output writers.
type TelemetryWriter interface {
	Write(telemetry.PositionRow) error
}

// ConflictWriter handles detected conflict events.
type ConflictWriter interface {
	WriteConflict(telemetry.ConflictRow) error
}

// Optional: writers may support batch mode for position rows.
type batchWriter interface {
	WriteBatch([]telemetry.PositionRow) error
}

// Optional: conflict writers may support batch mode.
type batchConflictWriter interface {
	WriteConflicts([]telemetry.ConflictRow) error
}

// RunState is the playback lifecycle of one flight.
type RunState string

const (
	StateIdle     RunState = "idle"
	StateRunning  RunState = "running"
	StatePaused   RunState = "paused"
	StateFinished RunState = "finished"
)

// ErrNoDrones is returned when Start is called on an empty simulator.
var ErrNoDrones = errors.New("no drones loaded")

// Simulator advances every loaded drone along its path at its own speed
// and runs the live collision monitor once per tick. Positional state is
// owned here; the engine only ever receives per-tick snapshots.
type Simulator struct {
	simID          string
	eng            *engine.Engine
	writer         TelemetryWriter
	conflictWriter ConflictWriter
	tickInterval   time.Duration

	mu           sync.Mutex
	drones       []drone.Drone
	elapsed      float64
	tickCount    int64
	state        RunState
	liveConflict *engine.Conflict
	mitigations  []engine.Solution
	now          func() time.Time
}

// NewSimulator wires a playback simulator around the engine and writers.
func NewSimulator(simID string, eng *engine.Engine, writer TelemetryWriter, cWriter ConflictWriter, tickInterval time.Duration) *Simulator {
	return &Simulator{
		simID:          simID,
		eng:            eng,
		writer:         writer,
		conflictWriter: cWriter,
		tickInterval:   tickInterval,
		state:          StateIdle,
		now:            time.Now,
	}
}

// Load replaces the active drone set and resets playback.
func (s *Simulator) Load(drones []drone.Drone) error {
	for _, d := range drones {
		if err := d.Validate(); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drones = append([]drone.Drone(nil), drones...)
	s.elapsed = 0
	s.tickCount = 0
	s.state = StateIdle
	s.liveConflict = nil
	s.mitigations = nil
	return nil
}

// Start begins (or restarts) playback from the current elapsed time.
func (s *Simulator) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.drones) == 0 {
		return ErrNoDrones
	}
	s.state = StateRunning
	s.liveConflict = nil
	s.mitigations = nil
	return nil
}

// Pause halts playback without clearing state.
func (s *Simulator) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateRunning {
		s.state = StatePaused
	}
}

// State returns the current run state.
func (s *Simulator) State() RunState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LiveConflict returns the breach that paused playback, if any, together
// with the symmetric mitigation candidates generated for it.
func (s *Simulator) LiveConflict() (*engine.Conflict, []engine.Solution) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.liveConflict == nil {
		return nil, nil
	}
	c := *s.liveConflict
	sols := append([]engine.Solution(nil), s.mitigations...)
	return &c, sols
}

// Run drives the tick loop until the context is done.
func (s *Simulator) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	log.Info("starting playback", "tick_interval", s.tickInterval)
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Tick(ctx)
		case <-ctx.Done():
			log.Info("stopping playback")
			return
		}
	}
}

// Tick runs one simulation step: snapshot positions, run the live monitor,
// and only then advance time. A breach freezes the drones at their
// colliding positions rather than one frame past them.
func (s *Simulator) Tick(ctx context.Context) {
	log := logging.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRunning {
		return
	}
	s.tickCount++

	positions := make([]engine.TrackedPosition, len(s.drones))
	rows := make([]telemetry.PositionRow, len(s.drones))
	finished := 0
	ts := s.now().UTC()

	for i, d := range s.drones {
		progress := progressAt(s.elapsed, d.Duration())
		pos := d.PositionAt(progress)
		positions[i] = engine.TrackedPosition{ID: d.ID, Pos: pos}

		status := telemetry.StatusEnRoute
		if progress >= 1 {
			status = telemetry.StatusArrived
			finished++
		}
		rows[i] = telemetry.PositionRow{
			SimID:    s.simID,
			DroneID:  d.ID,
			X:        pos.X,
			Y:        pos.Y,
			Z:        pos.Z,
			Progress: progress,
			Status:   status,
			Tick:     s.tickCount,
			Elapsed:  s.elapsed,
			Time:     ts,
		}
	}

	if c := s.eng.CheckLive(positions); c != nil {
		s.state = StatePaused
		s.liveConflict = c
		if a, b, ok := s.pairByIDs(c.DroneA, c.DroneB); ok {
			s.mitigations = s.eng.GenerateImmediateSolutions(a, b)
		}
		for i := range rows {
			if c.Involves(rows[i].DroneID) {
				rows[i].Status = telemetry.StatusConflict
			}
		}
		s.writeRows(log, rows)
		s.writeConflict(log, telemetry.ConflictRow{
			SimID:     s.simID,
			DroneA:    c.DroneA,
			DroneB:    c.DroneB,
			Kind:      string(c.Kind),
			Distance:  c.Distance,
			AtSeconds: s.elapsed,
			Time:      ts,
		})
		log.Warn("immediate conflict, playback paused",
			"drone_a", c.DroneA, "drone_b", c.DroneB, "distance", c.Distance)
		return
	}

	s.writeRows(log, rows)
	s.elapsed += s.tickInterval.Seconds()

	if finished == len(s.drones) && len(s.drones) > 0 {
		s.state = StateFinished
		log.Info("all drones arrived", "elapsed", s.elapsed)
	}
}

// Positions returns the current tick's position snapshot.
func (s *Simulator) Positions() []telemetry.PositionRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([]telemetry.PositionRow, len(s.drones))
	ts := s.now().UTC()
	for i, d := range s.drones {
		progress := progressAt(s.elapsed, d.Duration())
		pos := d.PositionAt(progress)
		status := telemetry.StatusEnRoute
		if progress >= 1 {
			status = telemetry.StatusArrived
		}
		if s.liveConflict != nil && s.liveConflict.Involves(d.ID) {
			status = telemetry.StatusConflict
		}
		rows[i] = telemetry.PositionRow{
			SimID:    s.simID,
			DroneID:  d.ID,
			X:        pos.X,
			Y:        pos.Y,
			Z:        pos.Z,
			Progress: progress,
			Status:   status,
			Tick:     s.tickCount,
			Elapsed:  s.elapsed,
			Time:     ts,
		}
	}
	return rows
}

func (s *Simulator) pairByIDs(idA, idB string) (drone.Drone, drone.Drone, bool) {
	var a, b drone.Drone
	foundA, foundB := false, false
	for _, d := range s.drones {
		switch d.ID {
		case idA:
			a, foundA = d, true
		case idB:
			b, foundB = d, true
		}
	}
	return a, b, foundA && foundB
}

func (s *Simulator) writeRows(log *slog.Logger, rows []telemetry.PositionRow) {
	if s.writer == nil || len(rows) == 0 {
		return
	}
	if bw, ok := s.writer.(batchWriter); ok {
		if err := bw.WriteBatch(rows); err != nil {
			log.Error("batch write failed", "err", err)
		}
		return
	}
	for _, row := range rows {
		if err := s.writer.Write(row); err != nil {
			log.Error("write failed", "drone_id", row.DroneID, "err", err)
		}
	}
}

func (s *Simulator) writeConflict(log *slog.Logger, row telemetry.ConflictRow) {
	if s.conflictWriter == nil {
		return
	}
	if err := s.conflictWriter.WriteConflict(row); err != nil {
		log.Error("conflict write failed", "err", err)
	}
}

// progressAt maps elapsed sim time to a drone's normalized progress.
func progressAt(elapsed, duration float64) float64 {
	if duration <= 0 {
		return 1
	}
	return math.Min(1, elapsed/duration)
}
