package parser

import (
	"github.com/neknaj/neplg1/internal/ast"
	"github.com/neknaj/neplg1/internal/diagnostics"
	"github.com/neknaj/neplg1/internal/token"
)

// parseIf parses `if cond then conseq (elseif cond then conseq)* (else alt)?`.
// Each clause's condition is parsed with the full pipe-chain grammar; THEN
// is in the sequence stop-set so the condition never swallows it.
func (p *Parser) parseIf() ast.Expression {
	tok := p.advance() // 'if'
	cond := p.parseExpr()
	p.expect(token.THEN)
	then := p.parseExpr()

	var elifs []ast.ElseIf
	for p.cur().Type == token.ELSEIF {
		p.advance()
		c := p.parseExpr()
		p.expect(token.THEN)
		t := p.parseExpr()
		elifs = append(elifs, ast.ElseIf{Cond: c, Then: t})
	}
	var elseExpr ast.Expression
	if p.cur().Type == token.ELSE {
		p.advance()
		elseExpr = p.parseExpr()
	}
	return &ast.IfExpr{Token: tok, Cond: cond, Then: then, ElseIfs: elifs, Else: elseExpr}
}

// parseWhile parses `while cond body`. Unlike `if`, there is no keyword
// separating cond from body, so cond is restricted to a single unit
// (a literal, a name, a parenthesised expression, ...) - the same way a
// frame-stack argument slot is one term - while the body, which nothing
// follows, is free to consume a full prefix sequence.
func (p *Parser) parseWhile() ast.Expression {
	tok := p.advance() // 'while'
	cond := p.parseUnit()
	body := p.parseExpr()
	return &ast.WhileExpr{Token: tok, Cond: cond, Body: body}
}

func (p *Parser) parseLoop() ast.Expression {
	tok := p.advance() // 'loop'
	body := p.parseExpr()
	return &ast.LoopExpr{Token: tok, Body: body}
}

// parseMatch parses `match scrutinee (case pattern (when guard)? then body)*`.
// CASE is in the sequence stop-set, so the scrutinee expression never
// consumes the first `case` clause.
func (p *Parser) parseMatch() ast.Expression {
	tok := p.advance() // 'match'
	scrutinee := p.parseExpr()
	var cases []ast.MatchCase
	for p.cur().Type == token.CASE {
		p.advance()
		pat := p.parsePattern()
		var guard ast.Expression
		if p.cur().Type == token.WHEN {
			p.advance()
			guard = p.parseExpr()
		}
		p.expect(token.THEN)
		body := p.parseExpr()
		cases = append(cases, ast.MatchCase{Pattern: pat, Guard: guard, Body: body})
	}
	return &ast.MatchExpr{Token: tok, Scrutinee: scrutinee, Cases: cases}
}

// parsePattern covers the deliberately small pattern grammar: wildcard `_`,
// a plain identifier binding, or a literal to match by equality.
func (p *Parser) parsePattern() ast.Pattern {
	tok := p.cur()
	switch tok.Type {
	case token.IDENT:
		p.advance()
		if tok.Lexeme == "_" {
			return &ast.WildcardPattern{Token: tok}
		}
		return &ast.BindingPattern{Token: tok, Name: tok.Lexeme}
	case token.INT:
		p.advance()
		return &ast.LiteralPattern{Token: tok, Literal: &ast.IntLiteral{Token: tok, Value: tok.Literal.(int64)}}
	case token.FLOAT:
		p.advance()
		return &ast.LiteralPattern{Token: tok, Literal: &ast.FloatLiteral{Token: tok, Value: tok.Literal.(float64)}}
	case token.STRING:
		p.advance()
		return &ast.LiteralPattern{Token: tok, Literal: &ast.StringLiteral{Token: tok, Value: tok.Literal.(string)}}
	case token.TRUE:
		p.advance()
		return &ast.LiteralPattern{Token: tok, Literal: &ast.BoolLiteral{Token: tok, Value: true}}
	case token.FALSE:
		p.advance()
		return &ast.LiteralPattern{Token: tok, Literal: &ast.BoolLiteral{Token: tok, Value: false}}
	}
	p.fail(diagnostics.ErrPBadPattern, tok.Lexeme)
	p.advance()
	return &ast.WildcardPattern{Token: tok}
}

func (p *Parser) parseReturn() ast.Expression {
	tok := p.advance() // 'return'
	if sequenceStop[p.cur().Type] {
		return &ast.ReturnExpr{Token: tok}
	}
	val := p.parseExpr()
	return &ast.ReturnExpr{Token: tok, Value: val}
}

func (p *Parser) parseBreak() ast.Expression {
	tok := p.advance() // 'break'
	if sequenceStop[p.cur().Type] {
		return &ast.BreakExpr{Token: tok}
	}
	val := p.parseExpr()
	return &ast.BreakExpr{Token: tok, Value: val}
}

// parseLet parses `let (mut)? name (: type)? value`. There is no walrus
// operator in this grammar (spec.md keeps every form prefix-first): the
// bound value is just the expression that follows the name, the same way
// a builtin's arguments follow its name.
func (p *Parser) parseLet() ast.Expression {
	tok := p.advance() // 'let'
	mut := false
	if p.cur().Type == token.MUT {
		p.advance()
		mut = true
	}
	nameTok, _ := p.expect(token.IDENT)
	typeAnno := ""
	if p.cur().Type == token.COLON {
		p.advance()
		typeAnno, _ = p.parseTypeSpelling()
	}
	value := p.parseExpr()
	return &ast.LetExpr{Token: tok, Name: nameTok.Lexeme, Mut: mut, TypeAnnotation: typeAnno, Value: value}
}

func (p *Parser) parseSet() ast.Expression {
	tok := p.advance() // 'set'
	nameTok, _ := p.expect(token.IDENT)
	value := p.parseExpr()
	return &ast.SetExpr{Token: tok, Name: nameTok.Lexeme, Value: value}
}
