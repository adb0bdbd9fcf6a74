// Package logging builds the diagnostics logger of the CLI.
//
// Diagnostics always go to stderr so they never mix with the snapshot on
// stdout. Every logger carries a run_id field identifying one ledger run.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config contains the logger initialization inputs.
type Config struct {
	// Level is a zap level name (debug, info, warn, error).
	Level string

	// Format is "console" or "json". Default: console
	Format string

	// Output receives log entries. Default: os.Stderr
	Output io.Writer

	// RunID identifies the run. A new UUIDv7 is generated when empty.
	RunID string
}

// New creates a structured logger and returns it with a runtime-adjustable
// level handle.
func New(cfg Config) (*zap.Logger, zap.AtomicLevel, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, zap.AtomicLevel{}, err
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "ts"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	var encoder zapcore.Encoder
	switch strings.ToLower(cfg.Format) {
	case "", "console":
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	default:
		return nil, zap.AtomicLevel{}, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	runID := cfg.RunID
	if runID == "" {
		runID = NewRunID()
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(out)), level)
	logger := zap.New(core).With(zap.String("run_id", runID))

	return logger, level, nil
}

// ParseLevel parses a level name. An empty name selects the error level.
func ParseLevel(name string) (zap.AtomicLevel, error) {
	if strings.TrimSpace(name) == "" {
		return zap.NewAtomicLevelAt(zapcore.ErrorLevel), nil
	}

	var parsed zapcore.Level
	if err := parsed.Set(strings.ToLower(strings.TrimSpace(name))); err != nil {
		return zap.AtomicLevel{}, fmt.Errorf("invalid log level %q: %w", name, err)
	}

	return zap.NewAtomicLevelAt(parsed), nil
}

// NewRunID returns a new time-ordered run identifier.
func NewRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}

type contextKey struct{}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger stored in ctx, or a no-op logger.
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*zap.Logger); ok && logger != nil {
		return logger
	}
	return zap.NewNop()
}
