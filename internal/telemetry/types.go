// Row structs written by the playback simulator, with greptime tags
package telemetry

import (
	"os"
	"time"
)

// PositionRow is one per-tick position record for a drone in flight.
type PositionRow struct {
	SimID    string    `json:"sim_id"`   // TAG
	DroneID  string    `json:"drone_id"` // TAG
	X        float64   `json:"x"`        // FIELD
	Y        float64   `json:"y"`        // FIELD
	Z        float64   `json:"z"`        // FIELD
	Progress float64   `json:"progress"` // FIELD, 0..1 along own path
	Status   string    `json:"status"`   // FIELD
	Tick     int64     `json:"tick"`     // FIELD
	Elapsed  float64   `json:"elapsed"`  // FIELD, seconds of sim time
	Time     time.Time `json:"ts"`       // TIME INDEX
}

// ConflictRow is one detected conflict, pre-flight or live.
type ConflictRow struct {
	SimID     string    `json:"sim_id"`   // TAG
	DroneA    string    `json:"drone_a"`  // TAG
	DroneB    string    `json:"drone_b"`  // TAG
	Kind      string    `json:"kind"`     // FIELD: path | immediate
	Distance  float64   `json:"distance"` // FIELD
	AtSeconds float64   `json:"at_seconds"`
	Time      time.Time `json:"ts"` // TIME INDEX
}

// PositionTableName is the GreptimeDB table for position rows. It defaults
// to "drone_positions" and can be overridden via DECONFLICT_POSITION_TABLE.
var PositionTableName = func() string {
	if env := os.Getenv("DECONFLICT_POSITION_TABLE"); env != "" {
		return env
	}
	return "drone_positions"
}()

// ConflictTableName is the GreptimeDB table for conflict rows. It defaults
// to "drone_conflicts" and can be overridden via DECONFLICT_CONFLICT_TABLE.
var ConflictTableName = func() string {
	if env := os.Getenv("DECONFLICT_CONFLICT_TABLE"); env != "" {
		return env
	}
	return "drone_conflicts"
}()

func (PositionRow) TableName() string { return PositionTableName }

func (ConflictRow) TableName() string { return ConflictTableName }

// Flight status values carried on position rows.
const (
	StatusEnRoute  = "en_route"
	StatusArrived  = "arrived"
	StatusConflict = "conflict"
)
