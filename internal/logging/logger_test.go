package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitDefaults(t *testing.T) {
	// Reset global state
	Shutdown()

	dir := t.TempDir()
	Init(Config{
		Debug:  true,
		LogDir: dir,
	})
	defer Shutdown()

	l := Logger()
	if l == nil {
		t.Fatal("expected non-nil logger after Init")
	}

	// Log something and check the file exists with JSONL content
	l.Info("test_message", "key", "value")

	logPath := filepath.Join(dir, "setup.log")
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	if len(data) == 0 {
		t.Fatal("log file is empty")
	}

	var record map[string]any
	for i, b := range data {
		if b == '\n' {
			if err := json.Unmarshal(data[:i], &record); err != nil {
				t.Fatalf("failed to parse JSONL: %v (data: %s)", err, string(data[:i]))
			}
			break
		}
	}

	if record["msg"] != "test_message" {
		t.Errorf("expected msg=test_message, got %v", record["msg"])
	}
	if record["key"] != "value" {
		t.Errorf("expected key=value, got %v", record["key"])
	}
}

func TestLoggerBeforeInit(t *testing.T) {
	Shutdown()

	// Must not panic, returns a discard logger
	l := Logger()
	l.Info("discarded")
}

func TestForComponentPicksUpLateInit(t *testing.T) {
	Shutdown()

	// Component logger created BEFORE Init
	compLog := ForComponent(CompSync)

	dir := t.TempDir()
	Init(Config{Debug: true, LogDir: dir})
	defer Shutdown()

	compLog.Info("late_bound")

	data, err := os.ReadFile(filepath.Join(dir, "setup.log"))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	var record map[string]any
	for i, b := range data {
		if b == '\n' {
			if err := json.Unmarshal(data[:i], &record); err != nil {
				t.Fatalf("failed to parse JSONL: %v", err)
			}
			break
		}
	}

	if record["component"] != CompSync {
		t.Errorf("expected component=%s, got %v", CompSync, record["component"])
	}
	if record["msg"] != "late_bound" {
		t.Errorf("expected msg=late_bound, got %v", record["msg"])
	}
}

func TestTextFormat(t *testing.T) {
	Shutdown()

	dir := t.TempDir()
	Init(Config{Debug: true, LogDir: dir, Format: "text", Level: "warn"})
	defer Shutdown()

	Logger().Info("filtered_out")
	Logger().Warn("kept")

	data, err := os.ReadFile(filepath.Join(dir, "setup.log"))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	s := string(data)
	if len(s) == 0 {
		t.Fatal("log file is empty")
	}
	if want := "msg=kept"; !strings.Contains(s, want) {
		t.Errorf("expected %q in text log, got: %s", want, s)
	}
	if strings.Contains(s, "filtered_out") {
		t.Errorf("info record should be filtered at warn level: %s", s)
	}
}
