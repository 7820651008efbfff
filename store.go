package docset

import "context"

// IndexStore persists search index entries for a bundle.
type IndexStore interface {
	// Insert persists an entry unless an identical (name, type, path)
	// triple is already stored. Inserting a duplicate is not an error.
	// Returns true when a new record was added.
	Insert(ctx context.Context, entry *Entry) (bool, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)

	// Entries returns all stored entries in insertion order.
	Entries(ctx context.Context) ([]*Entry, error)

	// Close releases the underlying database handle.
	Close() error
}
