package mylogger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func logLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, buf.String())
	}
	return entry
}

func TestInfoFieldNames(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(LevelInfo, "test-service", &buf)

	log.Info("hello", "ride_id", "ride-1")

	entry := logLine(t, &buf)
	if entry["message"] != "hello" {
		t.Errorf(`expected message field, got %v`, entry)
	}
	if entry["service"] != "test-service" {
		t.Errorf("service field missing: %v", entry)
	}
	if entry["ride_id"] != "ride-1" {
		t.Errorf("attr missing: %v", entry)
	}
	ts, ok := entry["timestamp"].(string)
	if !ok {
		t.Fatalf("timestamp missing: %v", entry)
	}
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Errorf("timestamp %q is not RFC3339: %v", ts, err)
	}
}

func TestErrorAttachesError(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(LevelInfo, "test-service", &buf)

	log.Error("something broke", errors.New("boom"))

	entry := logLine(t, &buf)
	if entry["error"] != "boom" {
		t.Errorf("error field missing: %v", entry)
	}
	if entry["level"] != "ERROR" {
		t.Errorf("expected ERROR level: %v", entry)
	}
}

func TestActionDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(LevelInfo, "test-service", &buf)

	log.Action("AcceptRide").Info("scoped")
	entry := logLine(t, &buf)
	if entry["action"] != "AcceptRide" {
		t.Errorf("action field missing: %v", entry)
	}

	buf.Reset()
	log.Info("unscoped")
	entry = logLine(t, &buf)
	if _, exists := entry["action"]; exists {
		t.Errorf("parent logger must stay unscoped: %v", entry)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(LevelWarn, "test-service", &buf)

	log.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("info must be filtered at WARN level: %s", buf.String())
	}

	log.Warn("kept")
	if buf.Len() == 0 {
		t.Error("warn must pass at WARN level")
	}
}
