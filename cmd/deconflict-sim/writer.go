package main

import (
	"os"

	"golang.org/x/term"

	"deconflict-sim/internal/sim"
)

// newWriters sets up position and conflict writers based on flags and env
// vars. It returns the writers and a cleanup function to close resources.
func newWriters(simID string, printOnly bool, logFile string, tui bool) (sim.TelemetryWriter, sim.ConflictWriter, func(), error) {
	cleanup := func() {}

	writer, cWriter, err := baseWriters(simID, printOnly, tui)
	if err != nil {
		return nil, nil, nil, err
	}
	if logFile == "" {
		return writer, cWriter, cleanup, nil
	}

	fw, err := sim.NewFileWriter(logFile, logFile+".conflicts")
	if err != nil {
		return nil, nil, nil, err
	}
	mw := sim.NewMultiWriter(
		[]sim.TelemetryWriter{writer, fw},
		[]sim.ConflictWriter{cWriter, fw},
	)
	cleanup = func() { fw.Close() }
	return mw, mw, cleanup, nil
}

// baseWriters chooses the underlying writer: TUI when requested and stdout
// is a terminal, GreptimeDB when an endpoint is configured, STDOUT
// otherwise.
func baseWriters(simID string, printOnly bool, tui bool) (sim.TelemetryWriter, sim.ConflictWriter, error) {
	if tui && term.IsTerminal(int(os.Stdout.Fd())) {
		tw := sim.NewTUIWriter(simID)
		return tw, tw, nil
	}
	if printOnly || os.Getenv("GREPTIMEDB_ENDPOINT") == "" {
		sw := &sim.StdoutWriter{}
		return sw, sw, nil
	}

	endpoint := os.Getenv("GREPTIMEDB_ENDPOINT")
	posTable := os.Getenv("DECONFLICT_POSITION_TABLE")
	cTable := os.Getenv("DECONFLICT_CONFLICT_TABLE")
	w, err := sim.NewGreptimeDBWriter(endpoint, "public", posTable, cTable)
	if err != nil {
		return nil, nil, err
	}
	return w, w, nil
}
