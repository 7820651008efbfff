package goquery

import (
	"context"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docset"
)

// Option configures a parser.
type Option func(*config)

type config struct {
	logger *slog.Logger
}

// WithLogger sets the logger parsers use to report skipped fragments.
// Parsers are silent by default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

func newConfig(opts []Option) config {
	cfg := config{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// emit delivers one result unless the consumer went away. Returns false
// when the stream should stop.
func emit(ctx context.Context, resultCh chan<- docset.ParseResult, result docset.ParseResult) bool {
	select {
	case resultCh <- result:
		return true
	case <-ctx.Done():
		return false
	}
}

// metaGeneratorContains reports whether the page at pagePath declares a
// generator meta tag containing want. Missing or unparseable pages
// report false.
func metaGeneratorContains(pagePath string, want string) bool {
	f, err := os.Open(pagePath)
	if err != nil {
		return false
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return false
	}

	generator := ""
	doc.Find("meta[name='generator']").Each(func(_ int, s *goquery.Selection) {
		if content, exists := s.Attr("content"); exists {
			generator = strings.ToLower(content)
		}
	})

	return generator != "" && strings.Contains(generator, want)
}

// isExternalRef checks if a href points outside the documentation tree
// and should be skipped.
func isExternalRef(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.Contains(href, "://") ||
		strings.HasPrefix(href, "//") ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}

// cleanHref normalizes a root-relative href into an entry path,
// preserving the fragment verbatim.
func cleanHref(href string) string {
	file, frag, hasFrag := strings.Cut(href, "#")
	file = path.Clean(file)
	if hasFrag {
		return file + "#" + frag
	}
	return file
}
