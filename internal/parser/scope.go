package parser

import (
	"github.com/neknaj/neplg1/internal/ast"
	"github.com/neknaj/neplg1/internal/diagnostics"
	"github.com/neknaj/neplg1/internal/token"
)

// parseScope parses either a brace scope `{ ... }` or an offside scope
// `: ...`, whose body is found by comparing the column of each
// subsequent statement's leading token to the column of the scope's first
// statement - there is no dedicated INDENT/DEDENT token, so the offside
// rule lives entirely here rather than in the lexer.
func (p *Parser) parseScope() ast.Expression {
	if p.cur().Type == token.LBRACE {
		return p.parseBraceScope()
	}
	return p.parseOffsideScope()
}

func (p *Parser) parseBraceScope() ast.Expression {
	tok := p.advance() // '{'
	var stmts []ast.Expression
	for p.cur().Type != token.RBRACE && !p.atEOF() {
		stmts = append(stmts, p.parseExpr())
		if p.cur().Type == token.SEMI {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return &ast.Scope{Token: tok, Body: wrapStatements(tok, stmts)}
}

func (p *Parser) parseOffsideScope() ast.Expression {
	tok := p.advance() // ':'
	if p.atEOF() {
		p.fail(diagnostics.ErrPUnclosedScope, tok.Lexeme)
		return &ast.Scope{Token: tok, Body: &ast.Block{Token: tok}}
	}
	bodyCol := p.cur().Span.Column
	var stmts []ast.Expression
	for {
		stmts = append(stmts, p.parseExpr())
		if p.cur().Type == token.SEMI {
			p.advance()
		}
		if p.atEOF() || p.cur().Span.Column != bodyCol || sequenceStop[p.cur().Type] {
			break
		}
	}
	return &ast.Scope{Token: tok, Body: wrapStatements(tok, stmts)}
}

// wrapStatements collapses a single statement to itself, matching
// ast.Scope's invariant that it always wraps exactly one expression.
func wrapStatements(tok token.Token, stmts []ast.Expression) ast.Expression {
	if len(stmts) == 1 {
		return stmts[0]
	}
	return &ast.Block{Token: tok, Statements: stmts}
}
