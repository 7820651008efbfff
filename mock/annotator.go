package mock

import (
	"context"

	"github.com/fwojciec/docset"
)

var _ docset.TOCAnnotator = (*TOCAnnotator)(nil)

// TOCAnnotator is a mock implementation of docset.TOCAnnotator.
type TOCAnnotator struct {
	AnnotateFn func(ctx context.Context, dir string, entries []*docset.Entry) (*docset.AnnotateResult, error)
}

func (a *TOCAnnotator) Annotate(ctx context.Context, dir string, entries []*docset.Entry) (*docset.AnnotateResult, error) {
	return a.AnnotateFn(ctx, dir, entries)
}
