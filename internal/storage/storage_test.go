package storage

import (
	"encoding/csv"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/fastpitchtools/fastpitch-events/internal/event"
)

func sampleSnapshot() *event.Snapshot {
	return event.CreateSnapshot([]event.CanonicalEvent{
		{
			EventName:    "Desert Classic",
			StartDate:    "2026-04-10",
			EndDate:      "2026-04-12",
			Location:     "Mesa, AZ",
			Sanction:     "USSSA",
			Link:         "https://example.com/t/1",
			AgeDivisions: []string{"12U", "14U"},
		},
		{
			EventName:    `Name, with "quotes"`,
			StartDate:    event.NA,
			EndDate:      event.NA,
			Location:     event.NA,
			Sanction:     "PGF",
			Link:         event.NA,
			AgeDivisions: []string{},
		},
	})
}

func TestPersistLoadRoundTrip(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	snap := sampleSnapshot()
	if err := store.Persist(snap); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	loaded := store.Load()
	if loaded.Count != snap.Count {
		t.Errorf("count mismatch: %d != %d", loaded.Count, snap.Count)
	}
	if !reflect.DeepEqual(loaded.Events, snap.Events) {
		t.Errorf("event mismatch:\n got %+v\nwant %+v", loaded.Events, snap.Events)
	}
	if !loaded.CapturedAt.Equal(snap.CapturedAt) {
		t.Errorf("captured_at mismatch: %v != %v", loaded.CapturedAt, snap.CapturedAt)
	}
}

func TestPersistOverwritesPrevious(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := store.Persist(sampleSnapshot()); err != nil {
		t.Fatalf("first Persist failed: %v", err)
	}
	replacement := event.CreateSnapshot([]event.CanonicalEvent{
		{EventName: "Only One", StartDate: event.NA, EndDate: event.NA, Location: event.NA, Sanction: event.NA, Link: event.NA, AgeDivisions: []string{}},
	})
	if err := store.Persist(replacement); err != nil {
		t.Fatalf("second Persist failed: %v", err)
	}

	loaded := store.Load()
	if loaded.Count != 1 || loaded.Events[0].EventName != "Only One" {
		t.Errorf("expected replacement snapshot, got %+v", loaded)
	}
}

func TestCSVOutput(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := store.Persist(sampleSnapshot()); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	data, err := os.ReadFile(store.CSVPath())
	if err != nil {
		t.Fatalf("reading CSV: %v", err)
	}

	if !strings.HasPrefix(string(data), "event_name,start_date,end_date,location,sanction,link") {
		t.Errorf("unexpected CSV header: %q", strings.SplitN(string(data), "\n", 2)[0])
	}

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("parsing CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[1][0] != "Desert Classic" || rows[1][4] != "USSSA" {
		t.Errorf("unexpected first row: %v", rows[1])
	}
	// Quoted field survives standard CSV escaping.
	if rows[2][0] != `Name, with "quotes"` {
		t.Errorf("unexpected escaped field: %q", rows[2][0])
	}
	for i, row := range rows {
		if len(row) != 6 {
			t.Errorf("row %d has %d columns, want 6", i, len(row))
		}
	}
}

func TestLoadMissingSnapshot(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	snap := store.Load()
	if snap.Count != 0 {
		t.Errorf("expected count 0, got %d", snap.Count)
	}
	if snap.Events == nil || len(snap.Events) != 0 {
		t.Errorf("expected empty non-nil events, got %v", snap.Events)
	}
}

func TestLoadCorruptSnapshot(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := os.WriteFile(store.JSONPath(), []byte("{not json"), 0644); err != nil {
		t.Fatalf("writing corrupt file: %v", err)
	}

	snap := store.Load()
	if snap.Count != 0 || len(snap.Events) != 0 {
		t.Errorf("expected empty snapshot from corrupt file, got %+v", snap)
	}
}

func TestHasSnapshot(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if store.HasSnapshot() {
		t.Error("expected no snapshot before first persist")
	}
	if err := store.Persist(event.NewSnapshot()); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}
	if !store.HasSnapshot() {
		t.Error("expected snapshot after persist")
	}
}

func TestNoStrayTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := store.Persist(sampleSnapshot()); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading dir: %v", err)
	}
	for _, entry := range entries {
		if strings.Contains(entry.Name(), ".tmp-") {
			t.Errorf("stray temp file left behind: %s", entry.Name())
		}
	}
	if len(entries) != 2 {
		t.Errorf("expected exactly the two snapshot files, got %d", len(entries))
	}
}
