package slog

import (
	"context"
	"log/slog"

	"github.com/fwojciec/docset"
)

// Ensure LoggingStore implements docset.IndexStore.
var _ docset.IndexStore = (*LoggingStore)(nil)

// LoggingStore wraps an IndexStore with per-insert debug logging and a
// session summary on Close.
type LoggingStore struct {
	next   docset.IndexStore
	logger *slog.Logger

	inserts int
	added   int
}

// NewLoggingStore creates a new LoggingStore.
func NewLoggingStore(next docset.IndexStore, logger *slog.Logger) *LoggingStore {
	return &LoggingStore{next: next, logger: logger}
}

// Insert delegates to the wrapped store and logs the outcome at debug.
func (s *LoggingStore) Insert(ctx context.Context, entry *docset.Entry) (added bool, err error) {
	defer func() {
		s.inserts++
		if added {
			s.added++
		}
		s.logger.Debug("index insert",
			"name", entry.Name,
			"type", entry.Type,
			"path", entry.Path,
			"added", added,
			"err", err,
		)
	}()
	return s.next.Insert(ctx, entry)
}

// Count delegates to the wrapped store.
func (s *LoggingStore) Count(ctx context.Context) (int, error) {
	return s.next.Count(ctx)
}

// Entries delegates to the wrapped store.
func (s *LoggingStore) Entries(ctx context.Context) ([]*docset.Entry, error) {
	return s.next.Entries(ctx)
}

// Close delegates to the wrapped store and summarizes the session.
func (s *LoggingStore) Close() (err error) {
	defer func() {
		s.logger.Info("index store closed",
			"inserts", s.inserts,
			"added", s.added,
			"err", err,
		)
	}()
	return s.next.Close()
}

// Ensure LoggingOpener implements docset.StoreOpener.
var _ docset.StoreOpener = (*LoggingOpener)(nil)

// LoggingOpener wraps a StoreOpener so every store it opens logs.
type LoggingOpener struct {
	next   docset.StoreOpener
	logger *slog.Logger
}

// NewLoggingOpener creates a new LoggingOpener.
func NewLoggingOpener(next docset.StoreOpener, logger *slog.Logger) *LoggingOpener {
	return &LoggingOpener{next: next, logger: logger}
}

// OpenStore opens a store via the wrapped opener and returns it wrapped
// in a LoggingStore.
func (o *LoggingOpener) OpenStore(ctx context.Context, path string) (docset.IndexStore, error) {
	store, err := o.next.OpenStore(ctx, path)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("index store opened", "path", path)
	return NewLoggingStore(store, o.logger), nil
}
