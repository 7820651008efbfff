package sqlite

import (
	"context"

	"github.com/fwojciec/docset"
)

// Compile-time interface verification.
var _ docset.StoreOpener = (*Opener)(nil)

// Opener opens bundle index stores backed by SQLite files.
type Opener struct{}

// OpenStore opens the index database at path, creating it if necessary.
func (Opener) OpenStore(_ context.Context, path string) (docset.IndexStore, error) {
	db := NewDB(path)
	if err := db.Open(); err != nil {
		return nil, err
	}
	return NewIndexService(db), nil
}
