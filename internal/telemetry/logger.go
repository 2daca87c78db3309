// Package telemetry ships the engine.Observer implementations: a structured
// zap logger for local visibility and a Redis recorder that publishes
// generation events and aggregates stream-usage counters for live monitoring.
package telemetry

import (
	"go.uber.org/zap"

	"github.com/dyluth/weave/pkg/engine"
)

// Logger is a zap-backed observer. Every notification becomes one structured
// log event; generation configs are logged by strategy id only, never dumped
// wholesale.
type Logger struct {
	log *zap.Logger
}

// NewLogger wraps an existing zap logger as an observer.
func NewLogger(log *zap.Logger) *Logger {
	return &Logger{log: log}
}

func (l *Logger) metadataFields(md engine.Metadata) []zap.Field {
	return []zap.Field{
		zap.String("generation_id", md.GenerationID),
		zap.String("strategy", md.StrategyID),
		zap.String("seed", md.Seed),
		zap.String("rng_stream", md.StreamName),
		zap.String("stream_source", md.Source),
	}
}

// GenerationStarted logs the start of one generation call.
func (l *Logger) GenerationStarted(_ engine.Config, md engine.Metadata) {
	l.log.Debug("generation started", l.metadataFields(md)...)
}

// GenerationCompleted logs a successful generation with its result.
func (l *Logger) GenerationCompleted(_ engine.Config, result string, md engine.Metadata) {
	l.log.Info("generation completed", append(l.metadataFields(md), zap.String("result", result))...)
}

// GenerationFailed logs a failed generation with its structured error.
func (l *Logger) GenerationFailed(_ engine.Config, genErr *engine.Error, md engine.Metadata) {
	l.log.Warn("generation failed", append(l.metadataFields(md),
		zap.String("code", genErr.Code),
		zap.String("message", genErr.Message),
		zap.Any("details", genErr.Details))...)
}

// StreamUsageRecorded logs one use of a named stream.
func (l *Logger) StreamUsageRecorded(streamName string, usage engine.StreamUsage) {
	l.log.Debug("stream used",
		zap.String("rng_stream", streamName),
		zap.String("strategy", usage.StrategyID),
		zap.String("stream_source", usage.Source),
		zap.Bool("fallback", usage.Fallback))
}
