package docset

import (
	"context"
	"path/filepath"
)

// Bundle describes a docset bundle on disk.
type Bundle struct {
	// Name is the docset name, without the .docset suffix.
	Name string

	// Path is the bundle directory itself (<name>.docset).
	Path string

	// IndexPage is the page a browser opens by default, relative to
	// the Documents directory. Empty when none was supplied.
	IndexPage string
}

// ContentsPath returns the bundle's Contents directory.
func (b *Bundle) ContentsPath() string {
	return filepath.Join(b.Path, "Contents")
}

// InfoPlistPath returns the metadata descriptor location.
func (b *Bundle) InfoPlistPath() string {
	return filepath.Join(b.ContentsPath(), "Info.plist")
}

// IndexPath returns the search index database location.
func (b *Bundle) IndexPath() string {
	return filepath.Join(b.ContentsPath(), "Resources", "docSet.dsidx")
}

// DocumentsPath returns the directory holding the copied documentation.
func (b *Bundle) DocumentsPath() string {
	return filepath.Join(b.ContentsPath(), "Resources", "Documents")
}

// BundleBuilder creates bundle skeletons on disk.
type BundleBuilder interface {
	// Build creates the bundle directory structure, copies the
	// documentation tree at source into the Documents directory,
	// writes the metadata descriptor, and opens the bundle's index
	// store. The caller owns the returned store and must close it.
	Build(ctx context.Context, source string, bundle *Bundle) (IndexStore, error)
}

// MetadataWriter writes a bundle's metadata descriptor.
type MetadataWriter interface {
	WriteMetadata(bundle *Bundle) error
}

// StoreOpener opens a search index store, creating it if necessary.
type StoreOpener interface {
	OpenStore(ctx context.Context, path string) (IndexStore, error)
}
