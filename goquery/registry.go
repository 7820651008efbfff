package goquery

import "github.com/fwojciec/docset"

var _ docset.ParserRegistry = (*Registry)(nil)

// Registry manages format-specific parsers. Parsers are probed in
// registration order during detection and the first match wins, so more
// specific formats must be registered before broader ones.
type Registry struct {
	parsers []docset.Parser
	byName  map[docset.Format]docset.Parser
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[docset.Format]docset.Parser),
	}
}

// NewDefaultRegistry creates a Registry with the built-in parsers
// registered: Sphinx first, then pydoctor.
func NewDefaultRegistry(opts ...Option) *Registry {
	r := NewRegistry()
	r.Register(NewSphinxParser(opts...))
	r.Register(NewPyDoctorParser(opts...))
	return r
}

// Register adds a parser. If a parser is already registered for the
// format, it is replaced in place and keeps its detection position.
func (r *Registry) Register(parser docset.Parser) {
	if _, ok := r.byName[parser.Name()]; ok {
		for i, p := range r.parsers {
			if p.Name() == parser.Name() {
				r.parsers[i] = parser
				break
			}
		}
	} else {
		r.parsers = append(r.parsers, parser)
	}
	r.byName[parser.Name()] = parser
}

// Detect returns the first registered parser whose Detect reports a
// match for the tree rooted at root.
func (r *Registry) Detect(root string) (docset.Parser, error) {
	for _, parser := range r.parsers {
		if parser.Detect(root) {
			return parser, nil
		}
	}
	return nil, docset.Errorf(docset.EUNSUPPORTED, "%q does not contain a known documentation format", root)
}

// Get returns the parser registered for a format.
// Returns nil if no parser is registered for the format.
func (r *Registry) Get(format docset.Format) docset.Parser {
	return r.byName[format]
}

// List returns all registered formats in registration order.
func (r *Registry) List() []docset.Format {
	formats := make([]docset.Format, 0, len(r.parsers))
	for _, parser := range r.parsers {
		formats = append(formats, parser.Name())
	}
	return formats
}
