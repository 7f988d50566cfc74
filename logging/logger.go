// Package logging builds the structured loggers used by the CLI. The
// accumulator engine (package mmr), the stores and the sealer never log —
// every fallible operation there returns an error instead.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field names used consistently across every component that logs, so log
// lines can be correlated by field name.
const (
	FieldCorrelationID = "correlation_id"
	FieldSize          = "mmr_size"
	FieldPos           = "pos"
	FieldRoot          = "root"
	FieldChunkIndex    = "chunk_index"
)

// New builds a named zap.Logger: a console encoder with colorized levels
// when development is true, JSON otherwise. The returned logger already has
// name attached ("component" style field) so callers don't need to repeat
// it on every call site.
func New(name string, development bool) (*zap.Logger, error) {
	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Named(name), nil
}

// Must is New, panicking on error — used at process start-up where a
// broken logging configuration is unrecoverable anyway.
func Must(name string, development bool) *zap.Logger {
	logger, err := New(name, development)
	if err != nil {
		panic(err)
	}
	return logger
}
