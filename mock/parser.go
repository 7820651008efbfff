package mock

import (
	"context"

	"github.com/fwojciec/docset"
)

var _ docset.Parser = (*Parser)(nil)

// Parser is a mock implementation of docset.Parser.
type Parser struct {
	NameFn   func() docset.Format
	DetectFn func(root string) bool
	ParseFn  func(ctx context.Context, root string) <-chan docset.ParseResult
}

func (p *Parser) Name() docset.Format {
	return p.NameFn()
}

func (p *Parser) Detect(root string) bool {
	return p.DetectFn(root)
}

func (p *Parser) Parse(ctx context.Context, root string) <-chan docset.ParseResult {
	return p.ParseFn(ctx, root)
}

var _ docset.ParserRegistry = (*ParserRegistry)(nil)

// ParserRegistry is a mock implementation of docset.ParserRegistry.
type ParserRegistry struct {
	RegisterFn func(parser docset.Parser)
	DetectFn   func(root string) (docset.Parser, error)
	GetFn      func(format docset.Format) docset.Parser
	ListFn     func() []docset.Format
}

func (r *ParserRegistry) Register(parser docset.Parser) {
	r.RegisterFn(parser)
}

func (r *ParserRegistry) Detect(root string) (docset.Parser, error) {
	return r.DetectFn(root)
}

func (r *ParserRegistry) Get(format docset.Format) docset.Parser {
	return r.GetFn(format)
}

func (r *ParserRegistry) List() []docset.Format {
	return r.ListFn()
}
