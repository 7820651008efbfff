package docset

import "context"

// AnnotateResult reports the outcome of an annotation pass.
type AnnotateResult struct {
	FilesAnnotated int
	AnchorsAdded   int
	AnchorsSkipped int
}

// TOCAnnotator inserts typed table-of-contents markers into copied
// documentation files so browsers can offer per-page navigation.
type TOCAnnotator interface {
	// Annotate patches markers for the given entries into the files
	// under dir. Entries whose anchor target no longer exists are
	// skipped and counted, not treated as errors. Annotation is
	// idempotent: a second pass over an annotated tree is a no-op.
	Annotate(ctx context.Context, dir string, entries []*Entry) (*AnnotateResult, error)
}
