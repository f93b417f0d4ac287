package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "modernchat.log")

	logger, err := New(Options{Path: path, Session: "main"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Info("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &line); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, data)
	}
	if line["msg"] != "hello" {
		t.Errorf("msg = %v, want hello", line["msg"])
	}
	if line["session"] != "main" {
		t.Errorf("session = %v, want main", line["session"])
	}
}

func TestNewConsole(t *testing.T) {
	var stderr bytes.Buffer
	logger, err := New(Options{
		Path:    filepath.Join(t.TempDir(), "x.log"),
		Console: true,
		Stderr:  &stderr,
	})
	if err != nil {
		t.Fatal(err)
	}
	logger.Warn("careful")
	_ = logger.Sync()

	if !strings.Contains(stderr.String(), "careful") {
		t.Errorf("stderr = %q, want it to contain the message", stderr.String())
	}
}

func TestNewLevelFilters(t *testing.T) {
	var stderr bytes.Buffer
	logger, err := New(Options{
		Path:    filepath.Join(t.TempDir(), "x.log"),
		Level:   "warn",
		Console: true,
		Stderr:  &stderr,
	})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("quiet")
	_ = logger.Sync()
	if stderr.Len() != 0 {
		t.Errorf("info logged at warn level: %q", stderr.String())
	}
}

func TestNewConsoleLevel(t *testing.T) {
	var stderr bytes.Buffer
	path := filepath.Join(t.TempDir(), "x.log")
	logger, err := New(Options{
		Path:         path,
		Console:      true,
		ConsoleLevel: "warn",
		Stderr:       &stderr,
	})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("file only")
	_ = logger.Sync()

	if stderr.Len() != 0 {
		t.Errorf("info reached stderr: %q", stderr.String())
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "file only") {
		t.Error("info missing from the log file")
	}
}

func TestNewBadLevel(t *testing.T) {
	if _, err := New(Options{Path: filepath.Join(t.TempDir(), "x.log"), Level: "loud"}); err == nil {
		t.Error("New() expected error for unknown level")
	}
}
