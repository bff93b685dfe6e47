// Package logger writes leveled application logs to daily files. The file
// set is pruned so the log directory never grows past a configured number
// of days.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// LogLevel orders message severity.
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

const (
	filePrefix     = "periscope-"
	dayFormat      = "2006-01-02"
	defaultMaxDays = 7
)

// Config shapes a Logger.
type Config struct {
	LogDir     string
	Level      LogLevel
	MaxDays    int
	ConsoleOut bool
}

// Logger appends to one file per calendar day and switches files when the
// date changes. Safe for concurrent use.
type Logger struct {
	mu      sync.Mutex
	level   LogLevel
	logDir  string
	maxDays int
	echo    bool

	file *os.File
	day  string
}

// NewLogger creates the log directory and opens today's file.
func NewLogger(cfg Config) (*Logger, error) {
	if cfg.MaxDays <= 0 {
		cfg.MaxDays = defaultMaxDays
	}
	if err := os.MkdirAll(cfg.LogDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	l := &Logger{
		level:   cfg.Level,
		logDir:  cfg.LogDir,
		maxDays: cfg.MaxDays,
		echo:    cfg.ConsoleOut,
	}
	if err := l.ensureFile(); err != nil {
		return nil, err
	}
	return l, nil
}

// ensureFile opens the file for the current date, switching over from a
// previous day's file when the date has rolled. Callers hold the mutex
// (or are the constructor).
func (l *Logger) ensureFile() error {
	today := time.Now().Format(dayFormat)
	if l.day == today && l.file != nil {
		return nil
	}

	if l.file != nil {
		l.file.Close()
	}

	name := filepath.Join(l.logDir, filePrefix+today+".log")
	f, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	l.file = f
	l.day = today

	go l.prune()
	return nil
}

// prune drops day files beyond the retention window, oldest first. The
// date-stamped names sort chronologically.
func (l *Logger) prune() {
	files, err := filepath.Glob(filepath.Join(l.logDir, filePrefix+"*.log"))
	if err != nil || len(files) <= l.maxDays {
		return
	}
	sort.Strings(files)
	for _, f := range files[:len(files)-l.maxDays] {
		os.Remove(f)
	}
}

func (l *Logger) write(level LogLevel, format string, args ...interface{}) {
	if level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.ensureFile(); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		return
	}

	line := fmt.Sprintf("[%s] [%s] %s\n",
		time.Now().Format("2006-01-02 15:04:05"), level, fmt.Sprintf(format, args...))

	if l.file != nil {
		l.file.WriteString(line)
	}
	if l.echo {
		fmt.Print(line)
	}
}

func (l *Logger) Debug(format string, args ...interface{}) { l.write(DEBUG, format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.write(INFO, format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.write(WARN, format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.write(ERROR, format, args...) }

// Close closes the current day file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// GetWriter adapts the logger to io.Writer for code that only speaks
// writers. Each Write becomes one log line at the fixed level.
func (l *Logger) GetWriter(level LogLevel) io.Writer {
	return &levelWriter{logger: l, level: level}
}

type levelWriter struct {
	logger *Logger
	level  LogLevel
}

func (w *levelWriter) Write(p []byte) (int, error) {
	if msg := strings.TrimSpace(string(p)); msg != "" {
		w.logger.write(w.level, "%s", msg)
	}
	return len(p), nil
}

// The package-level default logger. Every function below is a no-op until
// Init has run, so packages can log unconditionally.

var (
	defaultLogger *Logger
	once          sync.Once
)

// Init builds the default logger. Only the first call has any effect.
func Init(cfg Config) error {
	var err error
	once.Do(func() {
		defaultLogger, err = NewLogger(cfg)
	})
	return err
}

// Debug logs through the default logger.
func Debug(format string, args ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.Debug(format, args...)
	}
}

// Info logs through the default logger.
func Info(format string, args ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.Info(format, args...)
	}
}

// Warn logs through the default logger.
func Warn(format string, args ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.Warn(format, args...)
	}
}

// Error logs through the default logger.
func Error(format string, args ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.Error(format, args...)
	}
}

// Close closes the default logger.
func Close() error {
	if defaultLogger != nil {
		return defaultLogger.Close()
	}
	return nil
}

// GetDefault returns the default logger, or nil before Init.
func GetDefault() *Logger {
	return defaultLogger
}
