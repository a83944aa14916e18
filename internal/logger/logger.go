// Package logger provides structured logging for stmcore binaries
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger wraps zerolog with stmcore-specific functionality
type Logger struct {
	zlog zerolog.Logger
}

// Config holds logger configuration
type Config struct {
	Level      string // debug, info, warn, error
	Pretty     bool   // pretty-print for development
	Output     io.Writer
	WithCaller bool
}

// NewLogger creates a new structured logger
func NewLogger(cfg Config) *Logger {
	level := zerolog.InfoLevel
	switch cfg.Level {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(level)

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	zlog := zerolog.New(output).
		With().
		Timestamp().
		Str("service", "stmcore").
		Logger()

	if cfg.WithCaller {
		zlog = zlog.With().Caller().Logger()
	}

	return &Logger{zlog: zlog}
}

// GetZerolog returns the underlying zerolog logger
func (l *Logger) GetZerolog() *zerolog.Logger {
	return &l.zlog
}

// Info logs an info message
func (l *Logger) Info(msg string) *zerolog.Event {
	return l.zlog.Info().Str("msg", msg)
}

// Debug logs a debug message
func (l *Logger) Debug(msg string) *zerolog.Event {
	return l.zlog.Debug().Str("msg", msg)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string) *zerolog.Event {
	return l.zlog.Warn().Str("msg", msg)
}

// Error logs an error message
func (l *Logger) Error(msg string) *zerolog.Event {
	return l.zlog.Error().Str("msg", msg)
}

// Fatal logs a fatal message and exits
func (l *Logger) Fatal(msg string) *zerolog.Event {
	return l.zlog.Fatal().Str("msg", msg)
}

// WorkerLogger returns a logger scoped to one benchmark worker
func (l *Logger) WorkerLogger(worker int) *Logger {
	return &Logger{
		zlog: l.zlog.With().
			Str("component", "worker").
			Int("worker", worker).
			Logger(),
	}
}

// BenchLogger returns a logger for a benchmark phase
func (l *Logger) BenchLogger(phase string) *Logger {
	return &Logger{
		zlog: l.zlog.With().
			Str("component", "bench").
			Str("phase", phase).
			Logger(),
	}
}

// LogRunStart logs the start of a benchmark run
func (l *Logger) LogRunStart(workers, vars, ops int) {
	l.zlog.Info().
		Str("event", "run_start").
		Int("workers", workers).
		Int("vars", vars).
		Int("ops_per_worker", ops).
		Msg("stmcore benchmark starting")
}

// LogRunDone logs the result of a benchmark run
func (l *Logger) LogRunDone(duration time.Duration, commits, conflicts uint64) {
	l.zlog.Info().
		Str("event", "run_done").
		Dur("duration_ms", duration).
		Uint64("commits", commits).
		Uint64("conflicts", conflicts).
		Msg("stmcore benchmark finished")
}

// Global logger instance
var globalLogger *Logger

// InitGlobalLogger initializes the global logger
func InitGlobalLogger(cfg Config) {
	globalLogger = NewLogger(cfg)
	log.Logger = *globalLogger.GetZerolog()
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() *Logger {
	if globalLogger == nil {
		InitGlobalLogger(Config{
			Level:  "info",
			Pretty: true,
		})
	}
	return globalLogger
}
