package app

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected logrus.Level
	}{
		{"trace", logrus.TraceLevel},
		{"debug", logrus.DebugLevel},
		{"DEBUG", logrus.DebugLevel},
		{"info", logrus.InfoLevel},
		{"warn", logrus.WarnLevel},
		{"warning", logrus.WarnLevel},
		{"WARNING", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"unknown", logrus.InfoLevel},
		{"", logrus.InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLogLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLogLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestNewLoggerText(t *testing.T) {
	var buf bytes.Buffer
	l, closer, err := NewLogger(LoggerConfig{Level: "warn", Format: "text", Output: &buf})
	if err != nil {
		t.Fatalf("NewLogger error = %v", err)
	}
	defer closer.Close()

	l.Info("hidden")
	WithComponent(l, "store").Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "component=store") {
		t.Errorf("output = %q, want message with component field", out)
	}
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	l, _, err := NewLogger(LoggerConfig{Level: "debug", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("NewLogger error = %v", err)
	}

	l.WithField("command", "edit.copy").Debug("dispatched")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "dispatched" || entry["command"] != "edit.copy" || entry["level"] != "debug" {
		t.Errorf("entry = %v", entry)
	}
}

func TestNewLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "keybind.log")
	l, closer, err := NewLogger(LoggerConfig{Level: "info", File: path})
	if err != nil {
		t.Fatalf("NewLogger error = %v", err)
	}
	l.Info("to file")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("log file = %q", data)
	}
}

func TestNullLogger(t *testing.T) {
	l := NullLogger()
	// Must not panic or write anywhere visible.
	l.Error("discarded")
}
