package sim

import (
	"errors"
	"testing"

	"deconflict-sim/internal/telemetry"
)

type failingWriter struct{ err error }

func (w *failingWriter) Write(telemetry.PositionRow) error         { return w.err }
func (w *failingWriter) WriteConflict(telemetry.ConflictRow) error { return w.err }

func TestMultiWriter_FanOut(t *testing.T) {
	a := &MockWriter{}
	b := &MockWriter{}
	mw := NewMultiWriter([]TelemetryWriter{a, b}, nil)

	rows := []telemetry.PositionRow{{DroneID: "d1"}, {DroneID: "d2"}}
	if err := mw.WriteBatch(rows); err != nil {
		t.Fatalf("WriteBatch() error: %v", err)
	}
	if len(a.Rows) != 2 || len(b.Rows) != 2 {
		t.Errorf("rows = (%d, %d), want both writers to receive 2", len(a.Rows), len(b.Rows))
	}
}

func TestMultiWriter_ContinuesPastFailure(t *testing.T) {
	boom := errors.New("boom")
	ok := &MockWriter{}
	mw := NewMultiWriter([]TelemetryWriter{&failingWriter{err: boom}, ok}, nil)

	err := mw.Write(telemetry.PositionRow{DroneID: "d1"})
	if !errors.Is(err, boom) {
		t.Fatalf("Write() error = %v, want first failure", err)
	}
	if len(ok.Rows) != 1 {
		t.Errorf("healthy writer skipped after failure, rows = %d", len(ok.Rows))
	}
}

func TestMultiWriter_Conflicts(t *testing.T) {
	a := &MockConflictWriter{}
	b := &MockConflictWriter{}
	mw := NewMultiWriter(nil, []ConflictWriter{a, b})

	if err := mw.WriteConflict(telemetry.ConflictRow{DroneA: "x", DroneB: "y"}); err != nil {
		t.Fatalf("WriteConflict() error: %v", err)
	}
	if len(a.Conflicts) != 1 || len(b.Conflicts) != 1 {
		t.Errorf("conflicts = (%d, %d), want 1 each", len(a.Conflicts), len(b.Conflicts))
	}
}
