package sim

import "deconflict-sim/internal/telemetry"

// MultiWriter fans rows out to several writers, continuing past failures
// and returning the first error encountered.
type MultiWriter struct {
	writers  []TelemetryWriter
	cWriters []ConflictWriter
}

// NewMultiWriter combines telemetry and conflict writers.
func NewMultiWriter(writers []TelemetryWriter, cWriters []ConflictWriter) *MultiWriter {
	return &MultiWriter{writers: writers, cWriters: cWriters}
}

// Write forwards a position row to all writers.
func (m *MultiWriter) Write(row telemetry.PositionRow) error {
	var firstErr error
	for _, w := range m.writers {
		if err := w.Write(row); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// WriteBatch forwards a batch, using batch mode where a writer supports it.
func (m *MultiWriter) WriteBatch(rows []telemetry.PositionRow) error {
	var firstErr error
	for _, w := range m.writers {
		if bw, ok := w.(batchWriter); ok {
			if err := bw.WriteBatch(rows); err != nil && firstErr == nil {
				firstErr = err
			}
			continue
		}
		for _, r := range rows {
			if err := w.Write(r); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// WriteConflict forwards a conflict row to all conflict writers.
func (m *MultiWriter) WriteConflict(row telemetry.ConflictRow) error {
	var firstErr error
	for _, w := range m.cWriters {
		if err := w.WriteConflict(row); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// WriteConflicts forwards multiple conflict rows.
func (m *MultiWriter) WriteConflicts(rows []telemetry.ConflictRow) error {
	var firstErr error
	for _, w := range m.cWriters {
		if bw, ok := w.(batchConflictWriter); ok {
			if err := bw.WriteConflicts(rows); err != nil && firstErr == nil {
				firstErr = err
			}
			continue
		}
		for _, r := range rows {
			if err := w.WriteConflict(r); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
