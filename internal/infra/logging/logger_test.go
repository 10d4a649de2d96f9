package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/runoshun/gitask/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo}, // default
		{"", slog.LevelInfo},        // default
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseLevel(tt.input)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLogger_Info(t *testing.T) {
	// Setup
	logDir := t.TempDir()
	logger := New(logDir, slog.LevelInfo)
	defer func() { _ = logger.Close() }()

	// Execute
	logger.Info("PROJ-1", "transition", "test message")

	// Verify global log
	content, err := os.ReadFile(domain.GlobalLogPath(logDir))
	require.NoError(t, err)
	assert.Contains(t, string(content), "[INFO]")
	assert.Contains(t, string(content), "[PROJ-1]")
	assert.Contains(t, string(content), "[transition]")
	assert.Contains(t, string(content), "test message")

	// Verify ticket log
	ticketContent, err := os.ReadFile(domain.TicketLogPath(logDir, "PROJ-1"))
	require.NoError(t, err)
	assert.Contains(t, string(ticketContent), "[INFO]")
	assert.Contains(t, string(ticketContent), "test message")
}

func TestLogger_GlobalLogOnly(t *testing.T) {
	// Setup
	logDir := t.TempDir()
	logger := New(logDir, slog.LevelInfo)
	defer func() { _ = logger.Close() }()

	// Execute with no ticket (global only)
	logger.Info("", "system", "global message")

	// Verify global log
	content, err := os.ReadFile(domain.GlobalLogPath(logDir))
	require.NoError(t, err)
	assert.Contains(t, string(content), "[global]")
	assert.Contains(t, string(content), "global message")

	// Verify only the global file exists
	entries, err := os.ReadDir(logDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLogger_LevelFiltering(t *testing.T) {
	// Setup
	logDir := t.TempDir()
	logger := New(logDir, slog.LevelWarn) // Only warn and above
	defer func() { _ = logger.Close() }()

	// Execute
	logger.Debug("A-1", "hook", "debug message")
	logger.Info("A-1", "hook", "info message")
	logger.Warn("A-1", "hook", "warn message")
	logger.Error("A-1", "hook", "error message")

	// Verify global log (debug and info should be filtered)
	content, err := os.ReadFile(domain.GlobalLogPath(logDir))
	require.NoError(t, err)
	assert.NotContains(t, string(content), "debug message")
	assert.NotContains(t, string(content), "info message")
	assert.Contains(t, string(content), "warn message")
	assert.Contains(t, string(content), "error message")
}

func TestLogger_DisabledWhenEmptyLogDir(t *testing.T) {
	logger := New("", slog.LevelInfo)
	defer func() { _ = logger.Close() }()

	// Should not panic or create files
	logger.Info("A-1", "hook", "test message")
	logger.Error("A-1", "hook", "error message")
}

func TestLogger_Mirror(t *testing.T) {
	// Setup
	var buf bytes.Buffer
	logger := New("", slog.LevelDebug).WithMirror(&buf)

	// Execute
	logger.Debug("A-1", "http", "GET /rest/api/2/issue/A-1")

	// Assert
	assert.Contains(t, buf.String(), "[DEBUG] [A-1] [http] GET /rest/api/2/issue/A-1")
}

func TestLogger_LogFormat(t *testing.T) {
	// Setup
	logDir := t.TempDir()
	logger := New(logDir, slog.LevelInfo)
	defer func() { _ = logger.Close() }()

	// Execute
	logger.Info("PROJ-42", "usecase", `moved to "In Review"`)

	// Verify format
	content, err := os.ReadFile(domain.GlobalLogPath(logDir))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 1)

	// Verify format: [timestamp] [INFO] [PROJ-42] [usecase] message
	line := lines[0]
	assert.Contains(t, line, "[INFO] [PROJ-42] [usecase]")
	assert.Contains(t, line, `moved to "In Review"`)
}

func TestLogger_MultipleTicketFiles(t *testing.T) {
	// Setup
	logDir := t.TempDir()
	logger := New(logDir, slog.LevelInfo)
	defer func() { _ = logger.Close() }()

	logger.Info("A-1", "usecase", "message for A-1")
	logger.Info("org/repo#2", "usecase", "message for issue 2")

	// Verify per-ticket separation
	first, err := os.ReadFile(domain.TicketLogPath(logDir, "A-1"))
	require.NoError(t, err)
	assert.Contains(t, string(first), "message for A-1")
	assert.NotContains(t, string(first), "issue 2")

	second, err := os.ReadFile(domain.TicketLogPath(logDir, "org/repo#2"))
	require.NoError(t, err)
	assert.Contains(t, string(second), "message for issue 2")
}

func TestLogger_CreateLogsDir(t *testing.T) {
	// Setup - parent exists but logs dir doesn't
	logDir := filepath.Join(t.TempDir(), "logs")

	_, err := os.Stat(logDir)
	assert.True(t, os.IsNotExist(err))

	logger := New(logDir, slog.LevelInfo)
	defer func() { _ = logger.Close() }()
	logger.Info("", "system", "test message")

	stat, err := os.Stat(logDir)
	require.NoError(t, err)
	assert.True(t, stat.IsDir())
}

func TestLogger_Close(t *testing.T) {
	logDir := t.TempDir()
	logger := New(logDir, slog.LevelInfo)

	logger.Info("A-1", "usecase", "test message")

	assert.NoError(t, logger.Close())
	assert.FileExists(t, domain.GlobalLogPath(logDir))
	assert.FileExists(t, domain.TicketLogPath(logDir, "A-1"))
}
