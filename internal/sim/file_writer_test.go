package sim

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"deconflict-sim/internal/telemetry"
)

func TestFileWriter_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	posPath := filepath.Join(dir, "positions.jsonl")
	cPath := filepath.Join(dir, "conflicts.jsonl")

	fw, err := NewFileWriter(posPath, cPath)
	if err != nil {
		t.Fatalf("NewFileWriter() error: %v", err)
	}

	rows := []telemetry.PositionRow{
		{SimID: "s", DroneID: "a", X: 1, Progress: 0.5, Status: telemetry.StatusEnRoute, Tick: 1, Time: time.Now().UTC()},
		{SimID: "s", DroneID: "b", X: 2, Progress: 1, Status: telemetry.StatusArrived, Tick: 1, Time: time.Now().UTC()},
	}
	if err := fw.WriteBatch(rows); err != nil {
		t.Fatalf("WriteBatch() error: %v", err)
	}
	if err := fw.WriteConflict(telemetry.ConflictRow{SimID: "s", DroneA: "a", DroneB: "b", Kind: "immediate", Distance: 1.5}); err != nil {
		t.Fatalf("WriteConflict() error: %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	f, err := os.Open(posPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	var got []telemetry.PositionRow
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var row telemetry.PositionRow
		if err := json.Unmarshal(scanner.Bytes(), &row); err != nil {
			t.Fatalf("invalid JSONL line: %v", err)
		}
		got = append(got, row)
	}
	if len(got) != 2 || got[0].DroneID != "a" || got[1].Status != telemetry.StatusArrived {
		t.Errorf("decoded rows = %+v", got)
	}

	cb, err := os.ReadFile(cPath)
	if err != nil {
		t.Fatal(err)
	}
	var conflict telemetry.ConflictRow
	if err := json.Unmarshal(cb, &conflict); err != nil {
		t.Fatalf("invalid conflict line: %v", err)
	}
	if conflict.DroneA != "a" || conflict.Distance != 1.5 {
		t.Errorf("decoded conflict = %+v", conflict)
	}
}

func TestFileWriter_ConflictLogOptional(t *testing.T) {
	fw, err := NewFileWriter(filepath.Join(t.TempDir(), "positions.jsonl"), "")
	if err != nil {
		t.Fatalf("NewFileWriter() error: %v", err)
	}
	defer fw.Close()
	if err := fw.WriteConflict(telemetry.ConflictRow{DroneA: "a"}); err != nil {
		t.Errorf("WriteConflict() without conflict log = %v, want nil", err)
	}
}
