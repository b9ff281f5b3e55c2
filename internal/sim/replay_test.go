package sim

import (
	"strings"
	"testing"
)

func TestReplayLog(t *testing.T) {
	log := strings.Join([]string{
		`{"sim_id":"s","drone_id":"a","x":0,"progress":0,"status":"en_route","tick":1}`,
		`{"sim_id":"s","drone_id":"a","x":1,"progress":0.5,"status":"en_route","tick":2}`,
		`{"sim_id":"s","drone_id":"a","x":2,"progress":1,"status":"arrived","tick":3}`,
	}, "\n")

	writer := &MockWriter{}
	if err := ReplayLog(strings.NewReader(log), writer, 0); err != nil {
		t.Fatalf("ReplayLog() error: %v", err)
	}
	if len(writer.Rows) != 3 {
		t.Fatalf("replayed %d rows, want 3", len(writer.Rows))
	}
	if writer.Rows[2].X != 2 || writer.Rows[2].Status != "arrived" {
		t.Errorf("last row = %+v", writer.Rows[2])
	}
}

func TestReplayLog_BadInput(t *testing.T) {
	if err := ReplayLog(strings.NewReader("not json"), &MockWriter{}, 0); err == nil {
		t.Fatal("ReplayLog() accepted malformed input")
	}
}
