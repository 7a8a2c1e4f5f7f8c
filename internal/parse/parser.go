// Package parse is a hand-written, recursive-descent parser producing
// internal/ast values from an internal/lex token stream — the minimal
// front end that drives internal/resolve end to end, covering exactly
// the declaration shapes and expression language spec.md §6.4 and
// Scenario T1/T5/T6 need. It is deliberately not feature-complete: no
// generics, no pattern matching.
package parse

import (
	"fmt"

	"somc/internal/ast"
	"somc/internal/diag"
	"somc/internal/lex"
	"somc/internal/source"
	"somc/internal/token"
)

// Parser holds one file's worth of parsing state. Every allocation goes
// into b, the Builder shared across every file in the build.
type Parser struct {
	b          *ast.Builder
	lx         *lex.Lexer
	reporter   diag.Reporter
	modulePath []string
	cur        token.Token
}

// New creates a Parser reading from lx, allocating AST nodes into b, and
// reporting syntax errors to reporter.
func New(b *ast.Builder, lx *lex.Lexer, reporter diag.Reporter, modulePath []string) *Parser {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	p := &Parser{b: b, lx: lx, reporter: reporter, modulePath: modulePath}
	p.cur = p.lx.Next()
	return p
}

// errAbort is returned by parse methods that hit a syntax error they
// cannot recover from; ParseFile stops and reports whatever diagnostic
// was already emitted at the error site.
var errAbort = fmt.Errorf("parse: aborted after a syntax error")

func (p *Parser) advance() token.Token {
	tok := p.cur
	p.cur = p.lx.Next()
	return tok
}

func (p *Parser) at(k token.Kind) bool { return p.cur.Kind == k }

func (p *Parser) accept(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	return token.Token{}, false
}

// expect consumes the current token if it matches k, else reports code
// and returns errAbort.
func (p *Parser) expect(k token.Kind, code diag.Code, what string) (token.Token, error) {
	if tok, ok := p.accept(k); ok {
		return tok, nil
	}
	diag.ReportError(p.reporter, code, p.cur.Span, fmt.Sprintf("expected %s, found %s", what, p.cur.Kind)).Emit()
	return token.Token{}, errAbort
}

func (p *Parser) expectIdent() (string, source.Span, error) {
	tok, err := p.expect(token.Ident, diag.SynExpectIdentifier, "an identifier")
	if err != nil {
		return "", source.Span{}, err
	}
	return tok.Text, tok.Span, nil
}

// ParseFile consumes the Parser's token stream to the end, producing an
// ast.File registered in the shared Builder. path is the source file's
// own path (for ast.File.Path), not the module's folder path.
func (p *Parser) ParseFile(path string) (*ast.File, error) {
	var items []ast.ItemID
	start := p.cur.Span
	for !p.at(token.EOF) {
		item, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return &ast.File{
		Path:       path,
		ModulePath: append([]string(nil), p.modulePath...),
		Span:       start.Cover(p.cur.Span),
		Items:      items,
	}, nil
}
