package sim

import (
	"context"
	"log"

	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	ingesterContext "github.com/GreptimeTeam/greptimedb-ingester-go/context"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"deconflict-sim/internal/telemetry"
)

// GreptimeDBWriter writes position and conflict rows to GreptimeDB via the
// ingester client.
type GreptimeDBWriter struct {
	client   greptime.Client
	db       string
	posTable string
	cTable   string
}

// NewGreptimeDBWriter creates the writer and auto-creates both tables.
func NewGreptimeDBWriter(endpoint, database, posTable, conflictTable string) (*GreptimeDBWriter, error) {
	if posTable == "" {
		posTable = telemetry.PositionTableName
	}
	if conflictTable == "" {
		conflictTable = telemetry.ConflictTableName
	}

	ctx := ingesterContext.NewContext(context.Background())
	client, err := greptime.NewClient(ctx, &greptime.Config{
		Endpoint: endpoint,
	})
	if err != nil {
		return nil, err
	}

	posDDL := `
CREATE TABLE IF NOT EXISTS ` + posTable + ` (
  sim_id STRING TAG,
  drone_id STRING TAG,
  x DOUBLE,
  y DOUBLE,
  z DOUBLE,
  progress DOUBLE,
  status STRING,
  tick BIGINT,
  elapsed DOUBLE,
  ts TIMESTAMP TIME INDEX
) WITH (ttl='30d')
`
	if _, err := client.SQL(ctx, posDDL); err != nil {
		return nil, err
	}

	conflictDDL := `
CREATE TABLE IF NOT EXISTS ` + conflictTable + ` (
  sim_id STRING TAG,
  drone_a STRING TAG,
  drone_b STRING TAG,
  kind STRING,
  distance DOUBLE,
  at_seconds DOUBLE,
  ts TIMESTAMP TIME INDEX
) WITH (ttl='30d')
`
	if _, err := client.SQL(ctx, conflictDDL); err != nil {
		return nil, err
	}

	return &GreptimeDBWriter{
		client:   client,
		db:       database,
		posTable: posTable,
		cTable:   conflictTable,
	}, nil
}

// Write inserts a single position row.
func (w *GreptimeDBWriter) Write(row telemetry.PositionRow) error {
	return w.WriteBatch([]telemetry.PositionRow{row})
}

// WriteBatch inserts multiple position rows.
func (w *GreptimeDBWriter) WriteBatch(rows []telemetry.PositionRow) error {
	if len(rows) == 0 {
		return nil
	}

	ctx := ingesterContext.NewContext(context.Background())

	tbl := table.New(w.posTable)
	tbl.AddTagColumn("sim_id", types.StringType, 0)
	tbl.AddTagColumn("drone_id", types.StringType, 0)
	tbl.AddFieldColumn("x", types.Float64Type)
	tbl.AddFieldColumn("y", types.Float64Type)
	tbl.AddFieldColumn("z", types.Float64Type)
	tbl.AddFieldColumn("progress", types.Float64Type)
	tbl.AddFieldColumn("status", types.StringType)
	tbl.AddFieldColumn("tick", types.Int64Type)
	tbl.AddFieldColumn("elapsed", types.Float64Type)
	tbl.SetTimeIndex("ts", types.TimestampType)

	for _, r := range rows {
		tbl.AppendTagValue("sim_id", r.SimID)
		tbl.AppendTagValue("drone_id", r.DroneID)
		tbl.AppendFieldValue("x", r.X)
		tbl.AppendFieldValue("y", r.Y)
		tbl.AppendFieldValue("z", r.Z)
		tbl.AppendFieldValue("progress", r.Progress)
		tbl.AppendFieldValue("status", r.Status)
		tbl.AppendFieldValue("tick", r.Tick)
		tbl.AppendFieldValue("elapsed", r.Elapsed)
		tbl.AppendTimeIndex(r.Time)
	}

	if err := w.client.Write(ctx, w.db, []*table.Table{tbl}); err != nil {
		log.Printf("[GreptimeDBWriter] position write failed: %v", err)
		return err
	}
	return nil
}

// WriteConflict inserts a single conflict row.
func (w *GreptimeDBWriter) WriteConflict(row telemetry.ConflictRow) error {
	return w.WriteConflicts([]telemetry.ConflictRow{row})
}

// WriteConflicts inserts multiple conflict rows.
func (w *GreptimeDBWriter) WriteConflicts(rows []telemetry.ConflictRow) error {
	if len(rows) == 0 {
		return nil
	}

	ctx := ingesterContext.NewContext(context.Background())

	tbl := table.New(w.cTable)
	tbl.AddTagColumn("sim_id", types.StringType, 0)
	tbl.AddTagColumn("drone_a", types.StringType, 0)
	tbl.AddTagColumn("drone_b", types.StringType, 0)
	tbl.AddFieldColumn("kind", types.StringType)
	tbl.AddFieldColumn("distance", types.Float64Type)
	tbl.AddFieldColumn("at_seconds", types.Float64Type)
	tbl.SetTimeIndex("ts", types.TimestampType)

	for _, r := range rows {
		tbl.AppendTagValue("sim_id", r.SimID)
		tbl.AppendTagValue("drone_a", r.DroneA)
		tbl.AppendTagValue("drone_b", r.DroneB)
		tbl.AppendFieldValue("kind", r.Kind)
		tbl.AppendFieldValue("distance", r.Distance)
		tbl.AppendFieldValue("at_seconds", r.AtSeconds)
		tbl.AppendTimeIndex(r.Time)
	}

	if err := w.client.Write(ctx, w.db, []*table.Table{tbl}); err != nil {
		log.Printf("[GreptimeDBWriter] conflict write failed: %v", err)
		return err
	}
	return nil
}
