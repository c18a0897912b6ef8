package utils

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

// Log levels, lowest to highest.
const (
	LevelDebug = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Logger provides structured, leveled logging throughout the application.
// Messages below the configured minimum level are discarded.
type Logger struct {
	minLevel int
	info     *log.Logger
	warn     *log.Logger
	err      *log.Logger
	debug    *log.Logger
}

// NewLogger creates a Logger writing to stdout/stderr. The minimum level is
// taken from the LOG_LEVEL env var (debug|info|warn|error, default info).
func NewLogger() *Logger {
	return NewLoggerWithLevel(parseLevel(os.Getenv("LOG_LEVEL")))
}

// NewLoggerWithLevel creates a Logger with an explicit minimum level.
func NewLoggerWithLevel(minLevel int) *Logger {
	flags := 0
	return &Logger{
		minLevel: minLevel,
		info:     log.New(os.Stdout, "", flags),
		warn:     log.New(os.Stdout, "", flags),
		err:      log.New(os.Stderr, "", flags),
		debug:    log.New(os.Stdout, "", flags),
	}
}

func parseLevel(s string) int {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l *Logger) timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

func (l *Logger) Info(format string, args ...any) {
	if l.minLevel > LevelInfo {
		return
	}
	l.info.Printf(fmt.Sprintf("[%s] \033[32mINFO\033[0m  %s\n", l.timestamp(), format), args...)
}

func (l *Logger) Warn(format string, args ...any) {
	if l.minLevel > LevelWarn {
		return
	}
	l.warn.Printf(fmt.Sprintf("[%s] \033[33mWARN\033[0m  %s\n", l.timestamp(), format), args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.err.Printf(fmt.Sprintf("[%s] \033[31mERROR\033[0m %s\n", l.timestamp(), format), args...)
}

func (l *Logger) Debug(format string, args ...any) {
	if l.minLevel > LevelDebug {
		return
	}
	l.debug.Printf(fmt.Sprintf("[%s] \033[36mDEBUG\033[0m %s\n", l.timestamp(), format), args...)
}
