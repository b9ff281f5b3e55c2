package telemetry

import "testing"

func TestPositionRowTableName(t *testing.T) {
	orig := PositionTableName
	PositionTableName = "custom_positions"
	defer func() { PositionTableName = orig }()
	if (PositionRow{}).TableName() != "custom_positions" {
		t.Errorf("expected custom table name, got %s", (PositionRow{}).TableName())
	}
}

func TestConflictRowTableName(t *testing.T) {
	orig := ConflictTableName
	ConflictTableName = "custom_conflicts"
	defer func() { ConflictTableName = orig }()
	if (ConflictRow{}).TableName() != "custom_conflicts" {
		t.Errorf("expected custom table name, got %s", (ConflictRow{}).TableName())
	}
}
