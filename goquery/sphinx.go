package goquery

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docset"
)

var _ docset.Parser = (*SphinxParser)(nil)

// SphinxParser extracts index entries from Sphinx-generated documentation.
// Validated against the genindex layout of Sphinx v1.x-v7.x.
//
// The global index is preferred when present. genindex-all.html carries
// every entry including those elided from the abridged index, so it is
// probed before genindex.html. Trees built without a global index fall
// back to scanning the definition lists of every page.
type SphinxParser struct {
	cfg config
}

// NewSphinxParser creates a new SphinxParser.
func NewSphinxParser(opts ...Option) *SphinxParser {
	return &SphinxParser{cfg: newConfig(opts)}
}

// Name returns the format this parser handles.
func (p *SphinxParser) Name() docset.Format {
	return docset.FormatSphinx
}

// Detect reports whether the tree at root looks like Sphinx output.
// Build artifacts are checked first; the index page's meta generator tag
// covers trees stripped of static assets.
func (p *SphinxParser) Detect(root string) bool {
	markers := []string{
		"objects.inv",
		"searchindex.js",
		filepath.Join("_static", "searchtools.js"),
	}
	for _, marker := range markers {
		if _, err := os.Stat(filepath.Join(root, marker)); err == nil {
			return true
		}
	}
	return metaGeneratorContains(filepath.Join(root, "index.html"), "sphinx")
}

// Parse streams raw entries found under root.
func (p *SphinxParser) Parse(ctx context.Context, root string) <-chan docset.ParseResult {
	resultCh := make(chan docset.ParseResult)

	go func() {
		defer close(resultCh)

		for _, name := range []string{"genindex-all.html", "genindex.html"} {
			indexPath := filepath.Join(root, name)
			if _, err := os.Stat(indexPath); err != nil {
				continue
			}
			p.parseGenindex(ctx, indexPath, resultCh)
			return
		}

		p.parsePages(ctx, root, resultCh)
	}()

	return resultCh
}

// parseGenindex walks the link lists of a global index page.
func (p *SphinxParser) parseGenindex(ctx context.Context, indexPath string, resultCh chan<- docset.ParseResult) {
	f, err := os.Open(indexPath)
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

	doc.Find("table.genindextable li > a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		entry, ok := p.genindexEntry(strings.Join(strings.Fields(sel.Text()), " "), href)
		if !ok {
			return true
		}
		return emit(ctx, resultCh, docset.ParseResult{Entry: entry})
	})
}

// genindexEntry converts one index link into a raw entry. The bool is
// false for links that carry no indexable symbol.
func (p *SphinxParser) genindexEntry(text, href string) (docset.RawEntry, bool) {
	if text == "" || href == "" || strings.HasPrefix(href, "#") || isExternalRef(href) {
		return docset.RawEntry{}, false
	}

	name, annotation := splitAnnotation(text)

	var label string
	if annotation != "" {
		label = annotationLabel(annotation, name)
	} else if l := annotationLabel(text, ""); l != "" {
		// Sub-entry whose whole text is the annotation. The symbol name
		// only survives in the fragment.
		label = l
		name = nameFromFragment(href)
	} else if strings.Contains(href, "#module-") {
		label = "module"
	}

	if label == "" || name == "" {
		p.cfg.logger.Debug("skipping index link", "text", text, "href", href)
		return docset.RawEntry{}, false
	}

	return docset.RawEntry{
		Name: strings.TrimSuffix(name, "()"),
		Type: label,
		Path: cleanHref(href),
	}, true
}

// parsePages scans the definition lists of every page. This is the
// fallback for trees built without a global index.
func (p *SphinxParser) parsePages(ctx context.Context, root string, resultCh chan<- docset.ParseResult) {
	err := filepath.WalkDir(root, func(pagePath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}

		rel, err := filepath.Rel(root, pagePath)
		if err != nil {
			return err
		}

		if !p.parsePage(ctx, pagePath, filepath.ToSlash(rel), resultCh) {
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		emit(ctx, resultCh, docset.ParseResult{Err: err})
	}
}

// parsePage emits entries for the anchored definition terms of one page.
// Returns false when the stream should stop.
func (p *SphinxParser) parsePage(ctx context.Context, pagePath, relPath string, resultCh chan<- docset.ParseResult) bool {
	f, err := os.Open(pagePath)
	if err != nil {
		emit(ctx, resultCh, docset.ParseResult{Err: err})
		return false
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		p.cfg.logger.Warn("skipping unparseable page", "path", relPath, "error", err)
		return true
	}

	keepGoing := true
	doc.Find("dl[class] > dt[id]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		id, _ := sel.Attr("id")
		label := definitionLabel(sel)
		if id == "" || label == "" {
			return true
		}

		entry := docset.RawEntry{
			Name: id,
			Type: label,
			Path: relPath + "#" + id,
		}
		keepGoing = emit(ctx, resultCh, docset.ParseResult{Entry: entry})
		return keepGoing
	})
	return keepGoing
}

// definitionLabel picks the raw type label from the enclosing definition
// list's class. Sphinx writes "py function", older trees plain
// "function"; the final class token is the object type either way.
func definitionLabel(dt *goquery.Selection) string {
	class, ok := dt.Parent().Attr("class")
	if !ok {
		return ""
	}
	fields := strings.Fields(class)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// splitAnnotation separates "name (annotation)" index text. Text without
// a trailing parenthesized annotation comes back unchanged.
func splitAnnotation(text string) (name, annotation string) {
	if !strings.HasSuffix(text, ")") {
		return text, ""
	}
	i := strings.LastIndex(text, " (")
	if i < 0 {
		return text, ""
	}
	return text[:i], text[i+2 : len(text)-1]
}

// annotationLabel maps a genindex annotation onto a raw type label.
// Returns "" for annotations that don't describe an indexable symbol.
// The name disambiguates "in module" entries: callables keep their ()
// suffix in the index text, plain data doesn't.
func annotationLabel(annotation, name string) string {
	ann := strings.TrimSpace(annotation)
	switch {
	case ann == "module":
		return "module"
	case ann == "built-in function":
		return "builtin"
	case ann == "environment variable":
		return "envvar"
	case ann == "opcode":
		return "opcode"
	case ann == "built-in exception":
		return "exception"
	case strings.HasPrefix(ann, "class in "):
		return "class"
	case strings.HasPrefix(ann, "exception in "):
		return "exception"
	case strings.HasSuffix(ann, " static method"):
		return "staticmethod"
	case strings.HasSuffix(ann, " class method"):
		return "classmethod"
	case strings.HasSuffix(ann, " method"):
		return "method"
	case strings.HasSuffix(ann, " attribute"):
		return "attribute"
	case strings.HasSuffix(ann, " property"):
		return "property"
	case strings.HasPrefix(ann, "in module "):
		if strings.HasSuffix(name, "()") {
			return "function"
		}
		return "data"
	default:
		return ""
	}
}

// nameFromFragment recovers a symbol name from a link fragment.
func nameFromFragment(href string) string {
	_, frag, ok := strings.Cut(href, "#")
	if !ok {
		return ""
	}
	return strings.TrimPrefix(frag, "module-")
}
