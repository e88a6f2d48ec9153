// Package parser builds the ambiguous AST from a token stream. Call
// structure inside a prefix sequence is deliberately left for
// internal/analyzer to decide; the parser's only job is to find each
// sequence's boundaries and to commit the handful of forms the grammar
// gives unambiguous boundaries (scopes, control-flow, let/set).
package parser

import (
	"github.com/neknaj/neplg1/internal/ast"
	"github.com/neknaj/neplg1/internal/diagnostics"
	"github.com/neknaj/neplg1/internal/token"
)

// Parser holds a flat token cursor; there is no separate lexer coupling,
// unlike the teacher corpus's stream abstraction - Tokenize runs to
// completion up front, which keeps error recovery (skip to the next
// statement boundary) a simple index walk.
type Parser struct {
	toks []token.Token
	pos  int
	errs []*diagnostics.DiagnosticError
}

// New creates a Parser over a complete token slice (as produced by
// lexer.Lexer.Tokenize), which must end with an EOF token.
func New(toks []token.Token) *Parser {
	return &Parser{toks: toks}
}

// Parse is the package entry point: it parses an already-lexed token
// stream, collecting as many independent diagnostics as error recovery
// allows.
func Parse(toks []token.Token) (*ast.Program, []*diagnostics.DiagnosticError) {
	p := New(toks)
	top := p.parseTopLevel()
	return &ast.Program{Top: top}, p.errs
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Type: token.EOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) peekAt(offset int) token.Token {
	idx := p.pos + offset
	if idx >= len(p.toks) {
		return token.Token{Type: token.EOF}
	}
	return p.toks[idx]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *Parser) atEOF() bool { return p.cur().Type == token.EOF }

func (p *Parser) fail(code diagnostics.ErrorCode, args ...interface{}) {
	p.errs = append(p.errs, diagnostics.New(code, p.cur(), args...))
}

// expect consumes the current token if it matches tt, else records a
// diagnostic and leaves the cursor where it is so the caller's recovery
// logic can decide how far to skip.
func (p *Parser) expect(tt token.Type) (token.Token, bool) {
	if p.cur().Type == tt {
		return p.advance(), true
	}
	p.fail(diagnostics.ErrPExpectedToken, string(tt), string(p.cur().Type))
	return token.Token{}, false
}

// recoverToStatementBoundary is the parser's error recovery: skip forward
// past the next `;`, or up to the next `}`, so one malformed statement
// doesn't cascade into spurious follow-on errors. A dedent is not treated
// as a boundary; with no `;` or `}` ahead it skips to EOF.
func (p *Parser) recoverToStatementBoundary() {
	for !p.atEOF() {
		switch p.cur().Type {
		case token.SEMI:
			p.advance()
			return
		case token.RBRACE:
			return
		}
		p.advance()
	}
}

// parseTopLevel parses the single top-level expression a compilation unit
// consists of (spec.md §4.1: Program wraps exactly one expression, the
// thing lowered to `main`).
func (p *Parser) parseTopLevel() ast.Expression {
	if p.atEOF() {
		return nil
	}
	expr := p.parseExpr()
	for !p.atEOF() {
		p.fail(diagnostics.ErrPUnexpectedToken, p.cur().Lexeme)
		p.recoverToStatementBoundary()
	}
	return expr
}
