// Package convert orchestrates documentation-to-docset conversion.
// It coordinates format detection, bundle assembly, entry parsing and
// indexing, and table of contents annotation.
package convert

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fwojciec/docset"
)

// Converter orchestrates the conversion of a documentation tree into a
// docset bundle.
type Converter struct {
	Parsers    docset.ParserRegistry
	Normalizer *docset.Normalizer
	Builder    docset.BundleBuilder
	Annotator  docset.TOCAnnotator
	Logger     *slog.Logger
}

// Result holds the outcome of a conversion.
type Result struct {
	Format         docset.Format
	EntriesSeen    int
	EntriesAdded   int
	EntriesDropped int
	FilesAnnotated int
	AnchorsAdded   int
	AnchorsSkipped int
}

// ProgressEvent reports progress during a conversion.
type ProgressEvent struct {
	Type   ProgressType
	Format docset.Format
	Seen   int
	Added  int
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressDetected ProgressType = iota
	ProgressParsing
	ProgressEntry
	ProgressIndexed
	ProgressAnnotating
	ProgressFinished
)

// ProgressFunc is a callback for reporting conversion progress.
type ProgressFunc func(event ProgressEvent)

// Convert converts the documentation tree at source into bundle. The
// progress callback, if provided, receives events as stages advance.
// Any stage error is terminal: the partial bundle is left for the
// caller to discard.
func (c *Converter) Convert(ctx context.Context, source string, bundle *docset.Bundle, progress ProgressFunc) (result *Result, err error) {
	logger := c.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	parser, err := c.Parsers.Detect(source)
	if err != nil {
		return nil, err
	}

	result = &Result{Format: parser.Name()}
	if progress != nil {
		progress(ProgressEvent{Type: ProgressDetected, Format: result.Format})
	}

	store, err := c.Builder.Build(ctx, source, bundle)
	if err != nil {
		return nil, fmt.Errorf("building bundle: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil && err == nil {
			result, err = nil, fmt.Errorf("closing index store: %w", cerr)
		}
	}()

	// A child context releases the parser's producer goroutine when a
	// downstream failure abandons the stream early.
	parseCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if progress != nil {
		progress(ProgressEvent{Type: ProgressParsing})
	}

	for parseResult := range parser.Parse(parseCtx, source) {
		if parseResult.Err != nil {
			return nil, fmt.Errorf("parsing %s docs: %w", result.Format, parseResult.Err)
		}

		result.EntriesSeen++

		entry, ok := c.Normalizer.Normalize(result.Format, parseResult.Entry)
		if !ok {
			result.EntriesDropped++
			logger.Debug("dropping entry with unmapped label",
				"name", parseResult.Entry.Name,
				"label", parseResult.Entry.Type,
			)
		} else {
			added, insErr := store.Insert(ctx, &entry)
			if insErr != nil {
				return nil, fmt.Errorf("indexing %q: %w", entry.Name, insErr)
			}
			if added {
				result.EntriesAdded++
			}
		}

		if progress != nil {
			progress(ProgressEvent{Type: ProgressEntry, Seen: result.EntriesSeen, Added: result.EntriesAdded})
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressIndexed, Seen: result.EntriesSeen, Added: result.EntriesAdded})
	}

	entries, err := store.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading index entries: %w", err)
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressAnnotating})
	}

	annotated, err := c.Annotator.Annotate(ctx, bundle.DocumentsPath(), entries)
	if err != nil {
		return nil, fmt.Errorf("annotating table of contents: %w", err)
	}
	result.FilesAnnotated = annotated.FilesAnnotated
	result.AnchorsAdded = annotated.AnchorsAdded
	result.AnchorsSkipped = annotated.AnchorsSkipped

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Seen: result.EntriesSeen, Added: result.EntriesAdded})
	}

	return result, nil
}
