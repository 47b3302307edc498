// Package logging builds the zap loggers used across bookloop.
package logging

import (
	"fmt"

	"bookloop/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Stderr is the output path that keeps logs on the terminal.
const Stderr = "stderr"

// New builds a production JSON logger. Output goes to cfg.LogFile, or to
// stderr when the file is empty; the TUI owns stdout.
func New(cfg config.Config) (*zap.Logger, error) {
	out := cfg.LogFile
	if out == "" {
		out = Stderr
	}
	return build(out, cfg.Verbose)
}

// NewStderr builds a logger for processes whose stdout is a protocol stream.
func NewStderr(verbose bool) (*zap.Logger, error) {
	return build(Stderr, verbose)
}

func build(output string, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	zc.OutputPaths = []string{output}
	zc.ErrorOutputPaths = []string{Stderr}
	zc.EncoderConfig.TimeKey = "time"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.Named("bookloop"), nil
}
