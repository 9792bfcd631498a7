package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevelRouting(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger, cleanup, err := New(Options{Level: slog.LevelInfo, Stdout: &stdout, Stderr: &stderr})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer cleanup()

	logger.Debug("hidden")
	logger.Info("claim approved", "claim_id", 7)
	logger.Warn("slow request")
	logger.Error("store failure")

	if strings.Contains(stdout.String(), "hidden") {
		t.Error("debug record should be filtered at info level")
	}
	if !strings.Contains(stdout.String(), "claim approved") || !strings.Contains(stdout.String(), "slow request") {
		t.Errorf("expected info and warn on stdout, got %q", stdout.String())
	}
	if strings.Contains(stdout.String(), "store failure") {
		t.Error("error record should not go to stdout")
	}
	if !strings.Contains(stderr.String(), "store failure") {
		t.Errorf("expected error on stderr, got %q", stderr.String())
	}
}

func TestJSONFormatAndAttrs(t *testing.T) {
	var stdout bytes.Buffer
	logger, cleanup, err := New(Options{Level: slog.LevelDebug, Format: "json", Stdout: &stdout, Stderr: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer cleanup()

	logger.With("component", "claims").Debug("checked quota", "rejected", 1)

	var rec map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &rec); err != nil {
		t.Fatalf("expected JSON record, got %q: %v", stdout.String(), err)
	}
	if rec["component"] != "claims" {
		t.Errorf("expected component attr, got %v", rec["component"])
	}
}

func TestLogFileReceivesAllLevels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.log")
	logger, cleanup, err := New(Options{Level: slog.LevelInfo, File: path, Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("first")
	logger.Error("second")
	cleanup()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "first") || !strings.Contains(string(data), "second") {
		t.Errorf("expected both records in file, got %q", data)
	}
}
