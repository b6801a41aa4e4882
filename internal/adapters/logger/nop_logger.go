package logger

import "github.com/baditaflorin/go_nlpurify/internal/ports"

// NopLogger discards everything. Library facades default to it so that
// callers decide what gets logged.
type NopLogger struct{}

// NewNopLogger returns a logger that discards all entries.
func NewNopLogger() ports.Logger {
	return NopLogger{}
}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
func (NopLogger) Close() error                 { return nil }
