// Package fs builds docset bundles on the local filesystem.
package fs

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fwojciec/docset"
)

// Ensure Builder implements docset.BundleBuilder at compile time.
var _ docset.BundleBuilder = (*Builder)(nil)

// Builder assembles docset bundles on disk. Metadata writing and index
// store creation are delegated to the injected collaborators.
type Builder struct {
	Metadata docset.MetadataWriter
	Stores   docset.StoreOpener
}

// Build creates the bundle skeleton, copies the documentation tree into
// Documents, writes the metadata plist, and opens the search index
// store. The caller owns the returned store and must close it.
func (b *Builder) Build(ctx context.Context, source string, bundle *docset.Bundle) (docset.IndexStore, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, docset.Errorf(docset.EINVALID, "source %q is not a directory", source)
	}

	if err := os.MkdirAll(filepath.Dir(bundle.IndexPath()), 0o755); err != nil {
		return nil, err
	}

	if err := copyTree(ctx, source, bundle.DocumentsPath()); err != nil {
		return nil, err
	}

	if err := b.Metadata.WriteMetadata(bundle); err != nil {
		return nil, err
	}

	return b.Stores.OpenStore(ctx, bundle.IndexPath())
}

// copyTree copies the regular files and directories under src into dst,
// preserving permissions. Other entry types are skipped.
func copyTree(ctx context.Context, src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}

		switch {
		case d.IsDir():
			return os.MkdirAll(target, info.Mode().Perm())
		case d.Type().IsRegular():
			return copyFile(path, target, info.Mode().Perm())
		default:
			return nil
		}
	})
}

func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
