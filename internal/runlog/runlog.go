package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Components that write to the run log.
const (
	ComponentReconcile = "reconcile"
	ComponentRecurring = "recurring"
	ComponentSnapshot  = "snapshot"
	ComponentImport    = "import"
	ComponentManual    = "manual"
	ComponentInvest    = "invest"
)

// Entry is one row in the run log.
type Entry struct {
	Timestamp time.Time
	Component string
	Action    string
	Details   string
	Ref       string // ID of the asset or transaction touched, if any
	Amount    string
}

// Path is the run log location relative to the data directory.
const Path = "logs/run-log.csv"

var header = []string{"timestamp", "component", "action", "details", "ref", "amount"}

func (e Entry) record() []string {
	return []string{
		e.Timestamp.UTC().Format(time.RFC3339),
		e.Component,
		e.Action,
		e.Details,
		e.Ref,
		e.Amount,
	}
}

func parseRecord(rec []string) (Entry, error) {
	if len(rec) != len(header) {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", len(header), len(rec))
	}
	ts, err := time.Parse(time.RFC3339, rec[0])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", rec[0], err)
	}
	return Entry{
		Timestamp: ts,
		Component: rec[1],
		Action:    rec[2],
		Details:   rec[3],
		Ref:       rec[4],
		Amount:    rec[5],
	}, nil
}

// Append adds entries to <dataDir>/logs/run-log.csv, writing the header when
// the file is new. Appending nothing is a no-op.
func Append(dataDir string, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	path := filepath.Join(dataDir, Path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	_, statErr := os.Stat(path)
	newFile := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if newFile {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := w.Write(e.record()); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	w.Flush()
	return w.Error()
}

// Read returns every entry in the run log, oldest first. A missing file
// yields no entries.
func Read(dataDir string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(dataDir, Path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()
	return decode(f)
}

func decode(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	entries := make([]Entry, 0, len(records)-1)
	for i, rec := range records[1:] {
		e, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("run log row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Tail returns the last n entries. A non-positive n returns all of them.
func Tail(entries []Entry, n int) []Entry {
	if n <= 0 || n >= len(entries) {
		return entries
	}
	return entries[len(entries)-n:]
}
