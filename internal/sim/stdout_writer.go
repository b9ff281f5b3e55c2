// Writer implementation printing rows to STDOUT
package sim

import (
	"encoding/json"
	"fmt"

	"deconflict-sim/internal/telemetry"
)

// StdoutWriter prints position and conflict rows as JSON lines.
type StdoutWriter struct{}

// Write outputs a single position row.
func (w *StdoutWriter) Write(row telemetry.PositionRow) error {
	data, _ := json.Marshal(row)
	fmt.Println(string(data))
	return nil
}

// WriteBatch outputs multiple position rows.
func (w *StdoutWriter) WriteBatch(rows []telemetry.PositionRow) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// WriteConflict prints a conflict event to STDOUT.
func (w *StdoutWriter) WriteConflict(row telemetry.ConflictRow) error {
	data, _ := json.Marshal(row)
	fmt.Println(string(data))
	return nil
}

// WriteConflicts prints multiple conflict events.
func (w *StdoutWriter) WriteConflicts(rows []telemetry.ConflictRow) error {
	for _, r := range rows {
		_ = w.WriteConflict(r)
	}
	return nil
}
