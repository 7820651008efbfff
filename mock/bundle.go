package mock

import (
	"context"

	"github.com/fwojciec/docset"
)

var _ docset.BundleBuilder = (*BundleBuilder)(nil)

// BundleBuilder is a mock implementation of docset.BundleBuilder.
type BundleBuilder struct {
	BuildFn func(ctx context.Context, source string, bundle *docset.Bundle) (docset.IndexStore, error)
}

func (b *BundleBuilder) Build(ctx context.Context, source string, bundle *docset.Bundle) (docset.IndexStore, error) {
	return b.BuildFn(ctx, source, bundle)
}

var _ docset.MetadataWriter = (*MetadataWriter)(nil)

// MetadataWriter is a mock implementation of docset.MetadataWriter.
type MetadataWriter struct {
	WriteMetadataFn func(bundle *docset.Bundle) error
}

func (w *MetadataWriter) WriteMetadata(bundle *docset.Bundle) error {
	return w.WriteMetadataFn(bundle)
}

var _ docset.StoreOpener = (*StoreOpener)(nil)

// StoreOpener is a mock implementation of docset.StoreOpener.
type StoreOpener struct {
	OpenStoreFn func(ctx context.Context, path string) (docset.IndexStore, error)
}

func (o *StoreOpener) OpenStore(ctx context.Context, path string) (docset.IndexStore, error) {
	return o.OpenStoreFn(ctx, path)
}
