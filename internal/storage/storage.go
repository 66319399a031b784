package storage

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fastpitchtools/fastpitch-events/internal/event"
	"github.com/fastpitchtools/fastpitch-events/internal/logger"
)

const (
	// Snapshot file names inside the data directory.
	JSONFileName = "fastpitch_master.json"
	CSVFileName  = "fastpitch_master.csv"
)

// Store persists aggregation snapshots as a structured JSON record and a flat
// CSV table. Each persisted snapshot fully replaces the previous one.
type Store struct {
	dataDir string
}

// New creates a Store rooted at dataDir, creating the directory if needed.
// A leading ~/ is expanded to the home directory.
func New(dataDir string) (*Store, error) {
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Store{dataDir: dataDir}, nil
}

// JSONPath returns the structured snapshot file path.
func (s *Store) JSONPath() string { return filepath.Join(s.dataDir, JSONFileName) }

// CSVPath returns the tabular snapshot file path.
func (s *Store) CSVPath() string { return filepath.Join(s.dataDir, CSVFileName) }

// HasSnapshot reports whether a structured snapshot file exists.
func (s *Store) HasSnapshot() bool {
	_, err := os.Stat(s.JSONPath())
	return err == nil
}

// Persist writes both snapshot representations. Each file is written to a
// temp file and renamed into place, so external readers always see either the
// old snapshot or the new one, never a partial write. A failure on one
// representation does not stop the other from being written.
func (s *Store) Persist(snapshot *event.Snapshot) error {
	var errs []error

	if err := s.writeJSON(snapshot); err != nil {
		errs = append(errs, fmt.Errorf("writing snapshot json: %w", err))
	}
	if err := s.writeCSV(snapshot); err != nil {
		errs = append(errs, fmt.Errorf("writing snapshot csv: %w", err))
	}

	return errors.Join(errs...)
}

func (s *Store) writeJSON(snapshot *event.Snapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return writeFileAtomic(s.JSONPath(), data)
}

func (s *Store) writeCSV(snapshot *event.Snapshot) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(event.Header); err != nil {
		return fmt.Errorf("encoding header: %w", err)
	}
	for _, evt := range snapshot.Events {
		if err := w.Write(evt.Row()); err != nil {
			return fmt.Errorf("encoding row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("encoding csv: %w", err)
	}

	return writeFileAtomic(s.CSVPath(), buf.Bytes())
}

// Load returns the last persisted snapshot. A missing, unreadable, or
// malformed file yields an empty snapshot, never an error: readers always get
// a well-formed result.
func (s *Store) Load() *event.Snapshot {
	data, err := os.ReadFile(s.JSONPath())
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("snapshot unreadable, serving empty snapshot", logger.Fields{
				"path": s.JSONPath(),
			})
		}
		return event.NewSnapshot()
	}

	var snapshot event.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		logger.Warn("snapshot malformed, serving empty snapshot", logger.Fields{
			"path": s.JSONPath(),
		})
		return event.NewSnapshot()
	}

	if snapshot.Events == nil {
		snapshot.Events = []event.CanonicalEvent{}
	}
	snapshot.Count = len(snapshot.Events)

	return &snapshot
}

// writeFileAtomic writes data to a sibling temp file and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", filepath.Base(path), err)
	}
	return nil
}
