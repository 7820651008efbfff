package sqlite

import (
	"context"
	"database/sql"

	"github.com/fwojciec/docset"
	"github.com/fwojciec/docset/bloom"
)

// Compile-time interface verification.
var _ docset.IndexStore = (*IndexService)(nil)

// Bloom filter sizing for the duplicate pre-filter. Large documentation
// sets run to the low hundreds of thousands of entries.
const (
	expectedEntries = 200000
	falsePositives  = 0.001
)

// IndexService implements docset.IndexStore using SQLite.
//
// The searchIndex table carries no unique constraint, so duplicates are
// absorbed by a lookup before each insert. A Bloom filter screens the
// common case: a filter miss proves the triple is new and skips the
// existence query entirely.
type IndexService struct {
	db     *DB
	seen   *bloom.Filter
	warmed bool
}

// NewIndexService creates a new IndexService.
func NewIndexService(db *DB) *IndexService {
	return &IndexService{
		db:   db,
		seen: bloom.NewFilter(expectedEntries, falsePositives),
	}
}

// Insert persists an entry unless an identical (name, type, path) triple
// is already stored. Returns true when a new record was added.
func (s *IndexService) Insert(ctx context.Context, entry *docset.Entry) (bool, error) {
	if err := entry.Validate(); err != nil {
		return false, err
	}

	if err := s.warm(ctx); err != nil {
		return false, err
	}

	key := entryKey(entry)
	if s.seen.Test(key) {
		exists, err := s.exists(ctx, entry)
		if err != nil {
			return false, err
		}
		if exists {
			return false, nil
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO searchIndex (name, type, path)
		VALUES (?, ?, ?)
	`, entry.Name, string(entry.Type), entry.Path)
	if err != nil {
		return false, err
	}

	s.seen.Add(key)
	return true, nil
}

// Count returns the number of stored entries.
func (s *IndexService) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM searchIndex").Scan(&count)
	return count, err
}

// Entries returns all stored entries in insertion order.
func (s *IndexService) Entries(ctx context.Context) ([]*docset.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, type, path
		FROM searchIndex
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*docset.Entry
	for rows.Next() {
		var entry docset.Entry
		var typ string

		if err := rows.Scan(&entry.Name, &typ, &entry.Path); err != nil {
			return nil, err
		}
		entry.Type = docset.EntryType(typ)

		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

// Close closes the underlying database.
func (s *IndexService) Close() error {
	return s.db.Close()
}

// warm seeds the duplicate filter from rows already in the database, so
// reopening an existing index keeps inserts idempotent. Runs once.
func (s *IndexService) warm(ctx context.Context) error {
	if s.warmed {
		return nil
	}

	rows, err := s.db.QueryContext(ctx, "SELECT name, type, path FROM searchIndex")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var entry docset.Entry
		var typ string

		if err := rows.Scan(&entry.Name, &typ, &entry.Path); err != nil {
			return err
		}
		entry.Type = docset.EntryType(typ)

		s.seen.Add(entryKey(&entry))
	}
	if err := rows.Err(); err != nil {
		return err
	}

	s.warmed = true
	return nil
}

// exists is the authoritative duplicate check behind the Bloom filter.
func (s *IndexService) exists(ctx context.Context, entry *docset.Entry) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `
		SELECT 1 FROM searchIndex
		WHERE name = ? AND type = ? AND path = ?
		LIMIT 1
	`, entry.Name, string(entry.Type), entry.Path).Scan(&one)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// entryKey builds the filter key for an entry. NUL separators keep
// adjacent fields from aliasing each other.
func entryKey(entry *docset.Entry) string {
	return entry.Name + "\x00" + string(entry.Type) + "\x00" + entry.Path
}
