package docset

import "context"

// Format identifies a documentation generator variant.
type Format string

// Supported documentation formats.
const (
	FormatUnknown  Format = ""
	FormatSphinx   Format = "sphinx"
	FormatPyDoctor Format = "pydoctor"
)

// ParseResult carries one raw entry or a terminal parse error.
type ParseResult struct {
	Entry RawEntry
	Err   error
}

// Parser extracts index entries from a documentation tree.
type Parser interface {
	// Name returns the format this parser handles.
	Name() Format

	// Detect reports whether the tree rooted at root appears to have
	// been generated in this parser's format. Detection is a pure
	// read-only predicate over the tree.
	Detect(root string) bool

	// Parse streams raw entries found under root. The returned channel
	// is closed when parsing completes. The stream is finite and
	// single-pass; a result with Err set is terminal. Parsing stops
	// early when ctx is cancelled.
	Parse(ctx context.Context, root string) <-chan ParseResult
}

// ParserRegistry manages format-specific parsers.
type ParserRegistry interface {
	// Register adds a parser. Registration order is significant:
	// Detect probes parsers in the order they were registered.
	Register(parser Parser)

	// Detect returns the first registered parser whose Detect matches
	// the tree rooted at root. Returns EUNSUPPORTED if none match.
	Detect(root string) (Parser, error)

	// Get returns the parser registered for a format.
	// Returns nil if no parser is registered for the format.
	Get(format Format) Parser

	// List returns all registered formats in registration order.
	List() []Format
}
