package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fwojciec/docset"
	"github.com/fwojciec/docset/convert"
	"golang.org/x/time/rate"
)

// pngHeader is the 8-byte signature every PNG file starts with.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// convert runs the conversion pipeline and the post-processing steps:
// icon installation and handing the bundle to the viewer.
func (m *Main) convert(ctx context.Context, cli *CLI, logger *slog.Logger, stdout io.Writer) error {
	icon, err := loadIcon(cli.Icon)
	if err != nil {
		return err
	}

	bundle, err := m.setupBundle(cli)
	if err != nil {
		return err
	}

	converter := &convert.Converter{
		Parsers:    m.Parsers,
		Normalizer: m.Normalizer,
		Builder:    m.Builder,
		Annotator:  m.Annotator,
		Logger:     logger,
	}

	result, err := converter.Convert(ctx, cli.Source, bundle, progressPrinter(cli, bundle, stdout))
	if err != nil {
		return err
	}

	logger.Debug("conversion finished",
		"format", result.Format,
		"seen", result.EntriesSeen,
		"added", result.EntriesAdded,
		"dropped", result.EntriesDropped,
		"files_annotated", result.FilesAnnotated,
		"anchors_added", result.AnchorsAdded,
		"anchors_skipped", result.AnchorsSkipped,
	)

	if icon != nil {
		if err := os.WriteFile(filepath.Join(bundle.Path, "icon.png"), icon, 0o644); err != nil {
			return fmt.Errorf("installing icon: %w", err)
		}
	}

	if cli.AddToDash || cli.AddToGlobal {
		if !cli.Quiet {
			fmt.Fprintln(stdout, "Adding to dash...")
		}
		if err := m.Viewer(ctx, bundle.Path); err != nil {
			return fmt.Errorf("launching viewer: %w", err)
		}
	}

	return nil
}

// progressPrinter maps pipeline progress onto the user-facing messages.
// Per-entry output is throttled and only shown in verbose mode.
func progressPrinter(cli *CLI, bundle *docset.Bundle, stdout io.Writer) convert.ProgressFunc {
	if cli.Quiet {
		return nil
	}

	limiter := rate.NewLimiter(10, 1)
	return func(event convert.ProgressEvent) {
		switch event.Type {
		case convert.ProgressDetected:
			fmt.Fprintf(stdout, "Converting %s docs from %q to %q.\n", event.Format, cli.Source, bundle.Path)
		case convert.ProgressParsing:
			fmt.Fprintln(stdout, "Parsing HTML...")
		case convert.ProgressEntry:
			if cli.Verbose && limiter.Allow() {
				fmt.Fprintf(stdout, "  indexed %d entries (%d added)\n", event.Seen, event.Added)
			}
		case convert.ProgressIndexed:
			fmt.Fprintf(stdout, "Added %d index entries.\n", event.Added)
		case convert.ProgressAnnotating:
			fmt.Fprintln(stdout, "Adding table of contents meta data...")
		}
	}
}

// loadIcon reads and validates the docset icon. An empty path means no
// icon was requested.
func loadIcon(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(data, pngHeader) {
		return nil, docset.Errorf(docset.EINVALID, "%q is not a valid PNG image", path)
	}
	return data, nil
}
