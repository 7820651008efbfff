package goquery

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docset"
)

var _ docset.Parser = (*PyDoctorParser)(nil)

// PyDoctorParser extracts index entries from pydoctor-generated API
// documentation. pydoctor writes a flat nameIndex.html listing every
// documented object, so a single page yields the whole index.
type PyDoctorParser struct {
	cfg config
}

// NewPyDoctorParser creates a new PyDoctorParser.
func NewPyDoctorParser(opts ...Option) *PyDoctorParser {
	return &PyDoctorParser{cfg: newConfig(opts)}
}

// Name returns the format this parser handles.
func (p *PyDoctorParser) Name() docset.Format {
	return docset.FormatPyDoctor
}

// Detect reports whether the tree at root looks like pydoctor output.
func (p *PyDoctorParser) Detect(root string) bool {
	if _, err := os.Stat(filepath.Join(root, "nameIndex.html")); err == nil {
		return true
	}
	return metaGeneratorContains(filepath.Join(root, "index.html"), "pydoctor")
}

// Parse streams raw entries from the name index.
func (p *PyDoctorParser) Parse(ctx context.Context, root string) <-chan docset.ParseResult {
	resultCh := make(chan docset.ParseResult)

	go func() {
		defer close(resultCh)

		f, err := os.Open(filepath.Join(root, "nameIndex.html"))
		if err != nil {
			emit(ctx, resultCh, docset.ParseResult{Err: err})
			return
		}
		defer f.Close()

		doc, err := goquery.NewDocumentFromReader(f)
		if err != nil {
			emit(ctx, resultCh, docset.ParseResult{Err: err})
			return
		}

		doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			href, _ := sel.Attr("href")
			name := strings.TrimSpace(sel.Text())

			// Letter navigation links point back into the index page.
			if name == "" || href == "" || strings.HasPrefix(href, "#") || isExternalRef(href) {
				return true
			}

			entry := docset.RawEntry{
				Name: name,
				Type: guessLabel(name, href),
				Path: cleanHref(href),
			}
			return emit(ctx, resultCh, docset.ParseResult{Entry: entry})
		})
	}()

	return resultCh
}

// guessLabel infers the raw type label from the shape of a name index
// link. The index doesn't carry explicit types: classes get
// fragment-less links with a capitalized final segment, packages and
// modules fragment-less lowercase names, and members land on anchored
// links within their container's page.
func guessLabel(name, href string) string {
	hasFragment := strings.Contains(href, "#")

	last := name
	if i := strings.LastIndex(name, "."); i >= 0 {
		last = name[i+1:]
	}
	first, _ := utf8.DecodeRuneInString(last)

	switch {
	case !hasFragment && unicode.IsUpper(first):
		return "class"
	case !hasFragment && strings.ToLower(name) == name:
		return "package"
	case !strings.Contains(name, "."):
		return "function"
	default:
		return "method"
	}
}
