package sim

import (
	"encoding/json"
	"os"

	"deconflict-sim/internal/telemetry"
)

// FileWriter writes position and conflict rows to JSONL files.
type FileWriter struct {
	posFile *os.File
	cFile   *os.File
	posEnc  *json.Encoder
	cEnc    *json.Encoder
}

// NewFileWriter creates a FileWriter. conflictPath may be empty to skip the
// conflict log.
func NewFileWriter(positionPath, conflictPath string) (*FileWriter, error) {
	pf, err := os.Create(positionPath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{posFile: pf, posEnc: json.NewEncoder(pf)}
	if conflictPath != "" {
		cf, err := os.Create(conflictPath)
		if err != nil {
			pf.Close()
			return nil, err
		}
		fw.cFile = cf
		fw.cEnc = json.NewEncoder(cf)
	}
	return fw, nil
}

// Write logs a single position row.
func (f *FileWriter) Write(row telemetry.PositionRow) error {
	return f.posEnc.Encode(row)
}

// WriteBatch logs multiple position rows.
func (f *FileWriter) WriteBatch(rows []telemetry.PositionRow) error {
	for _, r := range rows {
		if err := f.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteConflict logs a single conflict row, if enabled.
func (f *FileWriter) WriteConflict(row telemetry.ConflictRow) error {
	if f.cEnc == nil {
		return nil
	}
	return f.cEnc.Encode(row)
}

// WriteConflicts logs multiple conflict rows.
func (f *FileWriter) WriteConflicts(rows []telemetry.ConflictRow) error {
	for _, r := range rows {
		if err := f.WriteConflict(r); err != nil {
			return err
		}
	}
	return nil
}

// Close closes any underlying files.
func (f *FileWriter) Close() error {
	var err error
	if f.posFile != nil {
		if e := f.posFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.cFile != nil {
		if e := f.cFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
