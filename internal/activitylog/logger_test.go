package activitylog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInfoWritesFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.jsonl")
	l := New(true, path, "overlay")
	defer l.Close()

	l.Info("toast_shown", map[string]any{"message": "hi"})

	lines := readLines(t, path)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}

	var e struct {
		Component string         `json:"component"`
		Event     string         `json:"event"`
		Level     string         `json:"level"`
		Fields    map[string]any `json:"fields"`
	}
	if err := json.Unmarshal([]byte(lines[0]), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if e.Component != "overlay" {
		t.Errorf("component = %q, want %q", e.Component, "overlay")
	}
	if e.Event != "toast_shown" {
		t.Errorf("event = %q, want %q", e.Event, "toast_shown")
	}
	if e.Level != "" {
		t.Errorf("level = %q, want empty", e.Level)
	}
	if e.Fields["message"] != "hi" {
		t.Errorf("fields.message = %v, want hi", e.Fields["message"])
	}
}

func TestDebugSetsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.jsonl")
	l := New(true, path, "input-daemon")
	defer l.Close()

	l.Debug("unknown_message_dropped", map[string]any{"type": "bogus"})

	lines := readLines(t, path)
	if !strings.Contains(lines[0], `"level":"debug"`) {
		t.Errorf("expected debug level in entry, got %s", lines[0])
	}
}

func TestErrorIncludesErrorString(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.jsonl")
	l := New(true, path, "bios")
	defer l.Close()

	l.Error("overlay_spawn_failed", os.ErrNotExist)

	lines := readLines(t, path)
	var e struct {
		Fields map[string]any `json:"fields"`
	}
	if err := json.Unmarshal([]byte(lines[0]), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if e.Fields["error"] == "" {
		t.Error("expected error field to be populated")
	}
}

func TestDisabledLoggerIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.jsonl")
	l := New(false, path, "overlay")
	defer l.Close()

	l.Info("event", nil)
	l.Debug("event", nil)
	l.Error("event", nil)

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected no file to be created when disabled")
	}
}

func TestNopLoggerIsNoop(t *testing.T) {
	l := Nop()
	l.Info("event", nil)
	l.Debug("event", nil)
	l.Error("event", nil)
	l.Close()
}

func TestMultipleEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.jsonl")
	l := New(true, path, "overlay")
	defer l.Close()

	l.Info("a", nil)
	l.Info("b", nil)
	l.Debug("c", nil)

	lines := readLines(t, path)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return nil
	}
	return strings.Split(raw, "\n")
}
