package logging

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newFileLogger(t *testing.T, format Format, level Level) (*FileLogger, string) {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "test.log")
	logger, err := NewFileLogger(FileLoggerConfig{
		Path:       logPath,
		Format:     format,
		Level:      level,
		MaxSize:    1024 * 1024,
		MaxBackups: 3,
	})
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	return logger, logPath
}

func TestNewFileLogger(t *testing.T) {
	logger, logPath := newFileLogger(t, FormatText, InfoLevel)
	defer logger.Close()

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Error("log file was not created")
	}
}

func TestNewFileLoggerCreatesDirectory(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "dir", "test.log")
	logger, err := NewFileLogger(FileLoggerConfig{
		Path:   logPath,
		Format: FormatText,
		Level:  InfoLevel,
	})
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	defer logger.Close()

	if _, err := os.Stat(filepath.Dir(logPath)); os.IsNotExist(err) {
		t.Error("log directory was not created")
	}
}

func TestFileLoggerLevelFiltering(t *testing.T) {
	ctx := context.Background()
	logger, logPath := newFileLogger(t, FormatText, WarnLevel)

	logger.Debug(ctx, "debug message", nil)
	logger.Info(ctx, "info message", nil)
	logger.Warn(ctx, "warn message", nil)
	logger.Error(ctx, "error message", errors.New("boom"), nil)
	logger.Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	content := string(data)

	if strings.Contains(content, "debug message") || strings.Contains(content, "info message") {
		t.Error("messages below the configured level should be dropped")
	}
	if !strings.Contains(content, "warn message") || !strings.Contains(content, "error message") {
		t.Errorf("expected warn and error messages, got: %s", content)
	}
}

func TestFileLoggerJSONFormat(t *testing.T) {
	ctx := context.Background()
	logger, logPath := newFileLogger(t, FormatJSON, InfoLevel)

	logger.Info(ctx, "structured message", Fields{"path": "/tmp/file.txt"})
	logger.Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}

	var entry map[string]interface{}
	line := strings.TrimSpace(string(data))
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("log line is not valid JSON: %v (%s)", err, line)
	}
	if entry["message"] != "structured message" {
		t.Errorf("message = %v, want 'structured message'", entry["message"])
	}
	if entry["path"] != "/tmp/file.txt" {
		t.Errorf("path field = %v, want '/tmp/file.txt'", entry["path"])
	}
}

func TestFileLoggerWithFields(t *testing.T) {
	ctx := context.Background()
	logger, logPath := newFileLogger(t, FormatText, InfoLevel)

	child := logger.WithFields(Fields{"operation_id": "op-123"})
	child.Info(ctx, "with inherited fields", nil)
	logger.Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	if !strings.Contains(string(data), "op-123") {
		t.Errorf("inherited field missing from output: %s", data)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"error", ErrorLevel},
		{"unknown", InfoLevel},
		{"", InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestNullLogger(t *testing.T) {
	ctx := context.Background()
	logger := NewNullLogger()

	// Must be safe to call everything on
	logger.Debug(ctx, "msg", nil)
	logger.Info(ctx, "msg", Fields{"k": "v"})
	logger.Warn(ctx, "msg", nil)
	logger.Error(ctx, "msg", errors.New("boom"), nil)

	if child := logger.WithFields(Fields{"k": "v"}); child == nil {
		t.Error("WithFields() returned nil")
	}
	if err := logger.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
