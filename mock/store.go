package mock

import (
	"context"

	"github.com/fwojciec/docset"
)

var _ docset.IndexStore = (*IndexStore)(nil)

// IndexStore is a mock implementation of docset.IndexStore.
type IndexStore struct {
	InsertFn  func(ctx context.Context, entry *docset.Entry) (bool, error)
	CountFn   func(ctx context.Context) (int, error)
	EntriesFn func(ctx context.Context) ([]*docset.Entry, error)
	CloseFn   func() error
}

func (s *IndexStore) Insert(ctx context.Context, entry *docset.Entry) (bool, error) {
	return s.InsertFn(ctx, entry)
}

func (s *IndexStore) Count(ctx context.Context) (int, error) {
	return s.CountFn(ctx)
}

func (s *IndexStore) Entries(ctx context.Context) ([]*docset.Entry, error) {
	return s.EntriesFn(ctx)
}

func (s *IndexStore) Close() error {
	return s.CloseFn()
}
