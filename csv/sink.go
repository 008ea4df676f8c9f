// Package csv streams output rows into a CSV file.
package csv

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"sync"

	"github.com/fwojciec/casescrape"
)

// Ensure Sink implements casescrape.RecordSink at compile time.
var _ casescrape.RecordSink = (*Sink)(nil)

// Sink writes one CSV record per row and syncs the file after every write,
// so an interrupted run keeps every row written before the interruption.
type Sink struct {
	mu      sync.Mutex
	f       *os.File
	w       *csv.Writer
	columns []string
	closed  bool
}

// Open truncates or creates the file at path and writes the header row.
// Returns ECONFIG if the file cannot be created.
func Open(path string, columns []string) (*Sink, error) {
	if len(columns) == 0 {
		return nil, casescrape.Errorf(casescrape.ECONFIG, "no output columns")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, casescrape.Errorf(casescrape.ECONFIG, "creating output folder: %v", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, casescrape.Errorf(casescrape.ECONFIG, "creating output file: %v", err)
	}

	s := &Sink{
		f:       f,
		w:       csv.NewWriter(f),
		columns: append([]string(nil), columns...),
	}
	if err := s.writeRecord(s.columns); err != nil {
		f.Close()
		return nil, casescrape.Errorf(casescrape.ECONFIG, "writing header: %v", err)
	}
	return s, nil
}

// Write appends row, projected onto the sink's columns. Fields the row does
// not carry are written as empty cells.
func (s *Sink) Write(_ context.Context, row *casescrape.OutputRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return casescrape.Errorf(casescrape.EINVALID, "sink is closed")
	}
	if err := s.writeRecord(row.Values(s.columns)); err != nil {
		return casescrape.Errorf(casescrape.EINTERNAL, "writing row: %v", err)
	}
	return nil
}

func (s *Sink) writeRecord(record []string) error {
	if err := s.w.Write(record); err != nil {
		return err
	}
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return err
	}
	return s.f.Sync()
}

// Close closes the file. Close is idempotent.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.f.Close()
}
