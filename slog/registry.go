// Package slog provides logging decorators for the conversion pipeline.
package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/docset"
)

// Ensure LoggingRegistry implements docset.ParserRegistry.
var _ docset.ParserRegistry = (*LoggingRegistry)(nil)

// LoggingRegistry wraps a ParserRegistry with logging for format
// detection.
type LoggingRegistry struct {
	next   docset.ParserRegistry
	logger *slog.Logger
}

// NewLoggingRegistry creates a new LoggingRegistry.
func NewLoggingRegistry(next docset.ParserRegistry, logger *slog.Logger) *LoggingRegistry {
	return &LoggingRegistry{next: next, logger: logger}
}

// Detect delegates to the wrapped registry and logs the outcome.
func (r *LoggingRegistry) Detect(root string) (parser docset.Parser, err error) {
	defer func(begin time.Time) {
		format := "(unknown)"
		if parser != nil {
			format = string(parser.Name())
		}
		r.logger.Info("format detection",
			"root", root,
			"format", format,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Detect(root)
}

// Register delegates to the wrapped registry.
func (r *LoggingRegistry) Register(parser docset.Parser) {
	r.next.Register(parser)
}

// Get delegates to the wrapped registry.
func (r *LoggingRegistry) Get(format docset.Format) docset.Parser {
	return r.next.Get(format)
}

// List delegates to the wrapped registry.
func (r *LoggingRegistry) List() []docset.Format {
	return r.next.List()
}
