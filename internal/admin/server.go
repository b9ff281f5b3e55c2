// HTTP API and status page for the deconfliction engine
package admin

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"deconflict-sim/internal/drone"
	"deconflict-sim/internal/engine"
	"deconflict-sim/internal/geo"
	"deconflict-sim/internal/scenario"
	"deconflict-sim/internal/sim"
	"deconflict-sim/internal/store"
)

//go:embed templates/index.html
var content embed.FS

// Server exposes the engine over HTTP. Transport only: every handler
// snapshots the store, calls pure engine operations, and persists the
// returned records.
type Server struct {
	Store  *store.DroneStore
	Engine *engine.Engine
	Sim    *sim.Simulator
	tpl    *template.Template
}

// NewServer wires the API around a store, an engine, and an optional
// playback simulator (nil disables the telemetry endpoint).
func NewServer(st *store.DroneStore, eng *engine.Engine, simulator *sim.Simulator) *Server {
	tpl := template.Must(template.New("index.html").ParseFS(content, "templates/index.html"))
	return &Server{Store: st, Engine: eng, Sim: simulator, tpl: tpl}
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /", s.handleIndex)
	mux.HandleFunc("GET /api/scenarios", s.handleScenarios)
	mux.HandleFunc("POST /api/scenarios/load", s.handleLoadScenario)
	mux.HandleFunc("GET /api/drones", s.handleListDrones)
	mux.HandleFunc("POST /api/drones", s.handleAddDrone)
	mux.HandleFunc("PUT /api/drones/{id}", s.handleUpdateDrone)
	mux.HandleFunc("DELETE /api/drones/{id}", s.handleRemoveDrone)
	mux.HandleFunc("POST /api/drones/clear", s.handleClearDrones)
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("GET /api/solutions", s.handleSolutions)
	mux.HandleFunc("POST /api/solutions/apply", s.handleApplySolution)
	mux.HandleFunc("GET /api/telemetry", s.handleTelemetry)
}

// Start serves until the context is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	s.routes(mux)
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()
	return srv.ListenAndServe()
}

// apiResponse is the JSON envelope every endpoint answers with.
type apiResponse struct {
	Success    bool                `json:"success"`
	Error      string              `json:"error,omitempty"`
	Drone      *drone.Drone        `json:"drone,omitempty"`
	Drones     []drone.Drone       `json:"drones,omitempty"`
	Scenario   *scenario.Scenario  `json:"scenario,omitempty"`
	Scenarios  []scenario.Scenario `json:"scenarios,omitempty"`
	Conflicts  []engine.Conflict   `json:"conflicts,omitempty"`
	Conflicted []string            `json:"conflicted_ids,omitempty"`
	Solutions  []engine.Solution   `json:"solutions,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, scenario.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, drone.ErrInvalidSpeed), errors.Is(err, drone.ErrMissingName),
		errors.Is(err, engine.ErrUnknownSolutionType), errors.Is(err, engine.ErrTargetNotFound):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, apiResponse{Success: false, Error: err.Error()})
}

// reanalyze runs the analyzer over the stored set, persists the derived
// conflict flags, and returns the marked drones plus the analysis.
func (s *Server) reanalyze() ([]drone.Drone, engine.Analysis, error) {
	drones := s.Store.List()
	analysis, err := s.Engine.AnalyzePaths(drones)
	if err != nil {
		return nil, engine.Analysis{}, err
	}
	marked := engine.MarkConflicts(drones, analysis)
	s.Store.ReplaceAll(marked)
	return marked, analysis, nil
}

func idList(m map[string]bool) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	return ids
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	drones := s.Store.List()
	conflicted := 0
	for _, d := range drones {
		if d.HasConflict {
			conflicted++
		}
	}
	data := struct {
		Drones     []drone.Drone
		Conflicted int
		Scenarios  []scenario.Scenario
		Thresholds engine.Config
	}{
		Drones:     drones,
		Conflicted: conflicted,
		Scenarios:  scenario.Builtin(),
		Thresholds: s.Engine.Configured(),
	}
	s.tpl.Execute(w, data)
}

func (s *Server) handleScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Scenarios: scenario.Builtin()})
}

func (s *Server) handleLoadScenario(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Error: "invalid scenario id"})
		return
	}
	sc, err := scenario.ByID(id)
	if err != nil {
		writeError(w, err)
		return
	}

	s.Store.Clear()
	for _, d := range sc.Drones {
		d.ScenarioID = sc.Name
		if _, err := s.Store.Add(d); err != nil {
			writeError(w, err)
			return
		}
	}

	drones, analysis, err := s.reanalyze()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{
		Success:    true,
		Scenario:   sc,
		Drones:     drones,
		Conflicts:  analysis.Conflicts,
		Conflicted: idList(analysis.ConflictedIDs),
	})
}

func (s *Server) handleListDrones(w http.ResponseWriter, r *http.Request) {
	drones, analysis, err := s.reanalyze()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{
		Success:    true,
		Drones:     drones,
		Conflicts:  analysis.Conflicts,
		Conflicted: idList(analysis.ConflictedIDs),
	})
}

func (s *Server) handleAddDrone(w http.ResponseWriter, r *http.Request) {
	var d drone.Drone
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Error: "invalid drone payload"})
		return
	}
	added, err := s.Store.Add(d)
	if err != nil {
		writeError(w, err)
		return
	}
	drones, analysis, err := s.reanalyze()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{
		Success:    true,
		Drone:      &added,
		Drones:     drones,
		Conflicts:  analysis.Conflicts,
		Conflicted: idList(analysis.ConflictedIDs),
	})
}

// droneUpdate carries partial drone mutations, including the individual
// coordinate fields a solution application touches.
type droneUpdate struct {
	Start  *geo.Vec3 `json:"start"`
	End    *geo.Vec3 `json:"end"`
	StartZ *float64  `json:"start_z"`
	EndZ   *float64  `json:"end_z"`
	StartY *float64  `json:"start_y"`
	EndY   *float64  `json:"end_y"`
	Speed  *float64  `json:"speed"`
}

func (s *Server) handleUpdateDrone(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	d, err := s.Store.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	var upd droneUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Error: "invalid update payload"})
		return
	}

	if upd.Start != nil {
		d.Start = *upd.Start
	}
	if upd.End != nil {
		d.End = *upd.End
	}
	if upd.StartZ != nil {
		d.Start.Z = *upd.StartZ
	}
	if upd.EndZ != nil {
		d.End.Z = *upd.EndZ
	}
	if upd.StartY != nil {
		d.Start.Y = *upd.StartY
	}
	if upd.EndY != nil {
		d.End.Y = *upd.EndY
	}
	if upd.Speed != nil {
		d.Speed = *upd.Speed
	}

	if err := s.Store.Update(d); err != nil {
		writeError(w, err)
		return
	}
	drones, analysis, err := s.reanalyze()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{
		Success:    true,
		Drone:      &d,
		Drones:     drones,
		Conflicts:  analysis.Conflicts,
		Conflicted: idList(analysis.ConflictedIDs),
	})
}

func (s *Server) handleRemoveDrone(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Remove(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	drones, analysis, err := s.reanalyze()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{
		Success:    true,
		Drones:     drones,
		Conflicts:  analysis.Conflicts,
		Conflicted: idList(analysis.ConflictedIDs),
	})
}

func (s *Server) handleClearDrones(w http.ResponseWriter, r *http.Request) {
	s.Store.Clear()
	writeJSON(w, http.StatusOK, apiResponse{Success: true})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Drones []drone.Drone `json:"drones"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Error: "invalid drones payload"})
		return
	}
	analysis, err := s.Engine.AnalyzePaths(payload.Drones)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{
		Success:    true,
		Conflicts:  analysis.Conflicts,
		Conflicted: idList(analysis.ConflictedIDs),
	})
}

func (s *Server) handleSolutions(w http.ResponseWriter, r *http.Request) {
	drones, _, err := s.reanalyze()
	if err != nil {
		writeError(w, err)
		return
	}
	var conflicted []drone.Drone
	var primary *drone.Drone
	for i := range drones {
		if drones[i].HasConflict {
			conflicted = append(conflicted, drones[i])
		}
		if drones[i].IsPrimary {
			p := drones[i]
			primary = &p
		}
	}
	sols := s.Engine.GenerateSolutions(conflicted, primary)
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Solutions: sols})
}

func (s *Server) handleApplySolution(w http.ResponseWriter, r *http.Request) {
	var sol engine.Solution
	if err := json.NewDecoder(r.Body).Decode(&sol); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Error: "invalid solution payload"})
		return
	}
	mutated, err := s.Engine.ApplySolution(sol, s.Store.List())
	if err != nil {
		writeError(w, err)
		return
	}
	s.Store.ReplaceAll(mutated)

	drones, analysis, err := s.reanalyze()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{
		Success:    true,
		Drones:     drones,
		Conflicts:  analysis.Conflicts,
		Conflicted: idList(analysis.ConflictedIDs),
	})
}

func (s *Server) handleTelemetry(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if s.Sim == nil {
		json.NewEncoder(w).Encode([]any{})
		return
	}
	json.NewEncoder(w).Encode(s.Sim.Positions())
}
