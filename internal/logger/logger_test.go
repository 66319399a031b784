package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelWarn, &buf)

	l.Debug("debug message", nil)
	l.Info("info message", nil)
	l.Warn("warn message", nil)
	l.Error("error message", nil, errors.New("boom"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 entries at warn level, got %d: %q", len(lines), buf.String())
	}

	var warn LogEntry
	if err := json.Unmarshal([]byte(lines[0]), &warn); err != nil {
		t.Fatalf("entry is not valid JSON: %v", err)
	}
	if warn.Level != "WARN" || warn.Message != "warn message" {
		t.Errorf("unexpected entry: %+v", warn)
	}

	var errEntry LogEntry
	if err := json.Unmarshal([]byte(lines[1]), &errEntry); err != nil {
		t.Fatalf("entry is not valid JSON: %v", err)
	}
	if errEntry.Error != "boom" {
		t.Errorf("expected error field 'boom', got %q", errEntry.Error)
	}
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelDebug, &buf)

	l.Info("source complete", Fields{"source": "usssa", "events": 3})

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("entry is not valid JSON: %v", err)
	}
	if entry.Fields["source"] != "usssa" {
		t.Errorf("expected source field, got %+v", entry.Fields)
	}
}

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()

	m.IncrCounter("fetch.retries")
	m.IncrCounter("fetch.retries")
	m.SetGauge("events.total", 42)
	m.RecordTiming("fetch", 100*time.Millisecond)
	m.RecordTiming("fetch", 300*time.Millisecond)

	snap := m.GetSnapshot()

	counters := snap["counters"].(map[string]int64)
	if counters["fetch.retries"] != 2 {
		t.Errorf("expected counter 2, got %d", counters["fetch.retries"])
	}

	gauges := snap["gauges"].(map[string]float64)
	if gauges["events.total"] != 42 {
		t.Errorf("expected gauge 42, got %f", gauges["events.total"])
	}

	timings := snap["timings"].(map[string]map[string]interface{})
	if timings["fetch"]["count"] != 2 {
		t.Errorf("expected 2 timing samples, got %v", timings["fetch"]["count"])
	}
	if timings["fetch"]["average"] != "200ms" {
		t.Errorf("expected 200ms average, got %v", timings["fetch"]["average"])
	}
}
