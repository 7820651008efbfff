// Package html provides the table-of-contents annotator. It patches
// typed anchor markers into copied documentation pages using a
// streaming tokenizer, so original bytes outside the insertion points
// survive untouched.
package html

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/docset"
	"golang.org/x/net/html"
)

// Ensure Annotator implements docset.TOCAnnotator at compile time.
var _ docset.TOCAnnotator = (*Annotator)(nil)

// markerPrefix identifies anchors injected by an earlier pass.
const markerPrefix = "//apple_ref/"

// Annotator inserts table-of-contents markers in front of the elements
// index entries point at.
type Annotator struct {
	logger *slog.Logger
}

// NewAnnotator creates a new Annotator. A nil logger disables logging.
func NewAnnotator(logger *slog.Logger) *Annotator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Annotator{logger: logger}
}

// Annotate patches markers for the given entries into the files under
// dir. Entries without a fragment position at the page top and need no
// marker. Stale targets are counted and skipped, never fatal.
func (a *Annotator) Annotate(ctx context.Context, dir string, entries []*docset.Entry) (*docset.AnnotateResult, error) {
	// Group fragment-bearing entries by file, preserving first-seen
	// file order so runs are deterministic.
	byFile := make(map[string][]*docset.Entry)
	var files []string
	for _, entry := range entries {
		if entry.Fragment() == "" {
			continue
		}
		file := entry.File()
		if _, ok := byFile[file]; !ok {
			files = append(files, file)
		}
		byFile[file] = append(byFile[file], entry)
	}

	result := &docset.AnnotateResult{}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		added, skipped, err := a.annotateFile(filepath.Join(dir, filepath.FromSlash(file)), file, byFile[file])
		if err != nil {
			if os.IsNotExist(err) {
				a.logger.Warn("annotation target file missing", "file", file)
				result.AnchorsSkipped += len(byFile[file])
				continue
			}
			return nil, err
		}

		result.AnchorsAdded += added
		result.AnchorsSkipped += skipped
		if added > 0 {
			result.FilesAnnotated++
		}
	}

	return result, nil
}

// annotateFile splices markers into a single page. The tokenizer's raw
// bytes are copied through verbatim, with marker anchors written
// immediately before each matched element. Markers already present
// satisfy their entry, which makes a second pass a no-op: the file is
// only rewritten when at least one marker was added.
func (a *Annotator) annotateFile(path, relPath string, entries []*docset.Entry) (added, skipped int, err error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, err
	}

	wanted := make(map[string][]*docset.Entry, len(entries))
	for _, entry := range entries {
		frag := entry.Fragment()
		wanted[frag] = append(wanted[frag], entry)
	}

	var out bytes.Buffer
	out.Grow(len(src) + len(entries)*64)

	present := make(map[string]bool)
	z := html.NewTokenizer(bytes.NewReader(src))

	var rawTag []byte
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); err != io.EOF {
				return 0, 0, err
			}
			break
		}

		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			out.Write(z.Raw())
			continue
		}

		// TagName and TagAttr rewrite the token's bytes in place
		// (lowercasing, entity unescaping), so the verbatim copy must
		// be taken before inspecting the tag.
		rawTag = append(rawTag[:0], z.Raw()...)

		tagName, hasAttr := z.TagName()

		var id, nameAttr string
		for hasAttr {
			key, val, more := z.TagAttr()
			switch string(key) {
			case "id":
				id = string(val)
			case "name":
				nameAttr = string(val)
			}
			if !more {
				break
			}
		}

		// Markers precede their target element, so by the time a
		// target is reached every marker covering it is known.
		if string(tagName) == "a" && strings.HasPrefix(nameAttr, markerPrefix) {
			present[nameAttr] = true
		}

		for _, frag := range []string{id, nameAttr} {
			if frag == "" {
				continue
			}
			targets, ok := wanted[frag]
			if !ok {
				continue
			}
			delete(wanted, frag)

			for _, entry := range targets {
				ref := entry.AppleRef()
				if present[ref] {
					continue
				}
				out.WriteString(`<a name="` + ref + `" class="dashAnchor"></a>`)
				present[ref] = true
				added++
			}
		}

		out.Write(rawTag)
	}

	for frag, targets := range wanted {
		for _, entry := range targets {
			a.logger.Warn("anchor not found", "file", relPath, "fragment", frag, "name", entry.Name)
			skipped++
		}
	}

	if added == 0 {
		return 0, skipped, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, 0, err
	}
	if err := os.WriteFile(path, out.Bytes(), info.Mode().Perm()); err != nil {
		return 0, 0, err
	}

	return added, skipped, nil
}
