// Package logging provides file-based logging for gitask.
// It outputs logs to a global log file (logs/gitask.log next to the config)
// and ticket-specific log files (logs/ticket-KEY.log).
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/runoshun/gitask/internal/domain"
)

// Ensure Logger implements domain.Logger interface.
var _ domain.Logger = (*Logger)(nil)

// Logger wraps slog levels with file-based output support.
// Fields are ordered to minimize memory padding.
type Logger struct {
	mirror      io.Writer
	globalFile  *os.File
	ticketFiles map[string]*os.File
	logDir      string
	mu          sync.Mutex
	level       slog.Level
}

// New creates a new Logger that writes to logDir.
// If logDir is empty, file logging is disabled.
func New(logDir string, level slog.Level) *Logger {
	return &Logger{
		logDir:      logDir,
		level:       level,
		ticketFiles: make(map[string]*os.File),
	}
}

// WithMirror additionally writes every entry to w (used for --debug).
func (l *Logger) WithMirror(w io.Writer) *Logger {
	l.mirror = w
	return l
}

// ParseLevel parses a log level string into slog.Level.
func ParseLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ensureLogsDir creates the logs directory if it doesn't exist.
func (l *Logger) ensureLogsDir() error {
	return os.MkdirAll(l.logDir, 0o750)
}

// ensureGlobalFile opens or returns the global log file.
func (l *Logger) ensureGlobalFile() (*os.File, error) {
	if l.globalFile != nil {
		return l.globalFile, nil
	}

	if err := l.ensureLogsDir(); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}

	path := domain.GlobalLogPath(l.logDir)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open global log file: %w", err)
	}
	l.globalFile = f
	return f, nil
}

// ensureTicketFile opens or returns the ticket log file.
func (l *Logger) ensureTicketFile(ticket string) (*os.File, error) {
	if f, ok := l.ticketFiles[ticket]; ok {
		return f, nil
	}

	if err := l.ensureLogsDir(); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}

	path := domain.TicketLogPath(l.logDir, ticket)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open ticket log file: %w", err)
	}
	l.ticketFiles[ticket] = f
	return f, nil
}

// Close closes all open log files.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var lastErr error
	if l.globalFile != nil {
		if err := l.globalFile.Close(); err != nil {
			lastErr = err
		}
		l.globalFile = nil
	}
	for key, f := range l.ticketFiles {
		if err := f.Close(); err != nil {
			lastErr = err
		}
		delete(l.ticketFiles, key)
	}
	return lastErr
}

// formatLog formats a log entry in the specified format.
// Format: [2025-12-30 09:32:51] [INFO] [PROJ-1] [category] message
func formatLog(t time.Time, level slog.Level, ticket, category, msg string) string {
	ticketStr := "global"
	if ticket != "" {
		ticketStr = ticket
	}
	return fmt.Sprintf("[%s] [%s] [%s] [%s] %s\n",
		t.Format("2006-01-02 15:04:05"),
		levelToString(level),
		ticketStr,
		category,
		msg,
	)
}

func levelToString(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelInfo:
		return "INFO"
	case slog.LevelWarn:
		return "WARN"
	case slog.LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// log writes a log entry to appropriate files based on ticket.
// If ticket is empty, logs only to global log.
func (l *Logger) log(level slog.Level, ticket, category, msg string) {
	if level < l.level {
		return
	}

	entry := formatLog(time.Now(), level, ticket, category, msg)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.mirror != nil {
		_, _ = io.WriteString(l.mirror, entry)
	}
	if l.logDir == "" {
		return
	}

	if gf, err := l.ensureGlobalFile(); err == nil {
		_, _ = io.WriteString(gf, entry)
	}
	if ticket != "" {
		if tf, err := l.ensureTicketFile(ticket); err == nil {
			_, _ = io.WriteString(tf, entry)
		}
	}
}

// Info logs an info message.
func (l *Logger) Info(ticket, category, msg string) {
	l.log(slog.LevelInfo, ticket, category, msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(ticket, category, msg string) {
	l.log(slog.LevelDebug, ticket, category, msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(ticket, category, msg string) {
	l.log(slog.LevelWarn, ticket, category, msg)
}

// Error logs an error message.
func (l *Logger) Error(ticket, category, msg string) {
	l.log(slog.LevelError, ticket, category, msg)
}
