package parser

import (
	"github.com/neknaj/neplg1/internal/ast"
	"github.com/neknaj/neplg1/internal/diagnostics"
	"github.com/neknaj/neplg1/internal/token"
	ts "github.com/neknaj/neplg1/internal/typesystem"
)

// sequenceStop is every token type that may never start (or continue) a
// unit inside a greedy prefix_sequence - either because it closes an
// enclosing construct, separates siblings, or introduces a structurally
// dedicated clause (elseif/else/then/case/when).
var sequenceStop = map[token.Type]bool{
	token.EOF: true, token.SEMI: true, token.RBRACE: true,
	token.RPAREN: true, token.RBRACKET: true, token.COMMA: true,
	token.GT: true, token.ELSEIF: true, token.ELSE: true,
	token.THEN: true, token.CASE: true, token.WHEN: true,
}

// parseExpr parses `pipe_chain := prefix_sequence ('>' prefix_sequence)*`
// (spec.md §4.2), left-associative: a chain of more than one segment is
// committed as an ast.PipeChain for internal/analyzer to desugar.
func (p *Parser) parseExpr() ast.Expression {
	first := p.parseSequence()
	if p.cur().Type != token.GT {
		return first
	}
	tok := first.GetToken()
	segs := []ast.Expression{first}
	for p.cur().Type == token.GT {
		p.advance()
		segs = append(segs, p.parseSequence())
	}
	return &ast.PipeChain{Token: tok, Segments: segs}
}

// parseSequence parses a maximal greedy run of units. A run of exactly one
// unit collapses to that unit directly; internal/analyzer only ever sees a
// *ast.PrefixSequence when there was real ambiguity to resolve.
func (p *Parser) parseSequence() ast.Expression {
	startTok := p.cur()
	var terms []ast.Expression
	for !sequenceStop[p.cur().Type] {
		u := p.parseUnit()
		if u == nil {
			break
		}
		terms = append(terms, u)
	}
	if len(terms) == 0 {
		p.fail(diagnostics.ErrPUnexpectedToken, p.cur().Lexeme)
		p.advance()
		return &ast.IntLiteral{Token: startTok, Value: 0}
	}
	if len(terms) == 1 {
		return terms[0]
	}
	return &ast.PrefixSequence{Token: startTok, Terms: terms}
}

// parseUnit parses one atom of a prefix sequence: a literal, a grouped or
// bracketed form, a name, or one of the forms whose boundaries the grammar
// gives unambiguously (func literal, scope, control flow).
func (p *Parser) parseUnit() ast.Expression {
	tok := p.cur()
	switch tok.Type {
	case token.INT:
		p.advance()
		return &ast.IntLiteral{Token: tok, Value: tok.Literal.(int64)}
	case token.FLOAT:
		p.advance()
		return &ast.FloatLiteral{Token: tok, Value: tok.Literal.(float64)}
	case token.STRING:
		p.advance()
		return &ast.StringLiteral{Token: tok, Value: tok.Literal.(string)}
	case token.TRUE:
		p.advance()
		return &ast.BoolLiteral{Token: tok, Value: true}
	case token.FALSE:
		p.advance()
		return &ast.BoolLiteral{Token: tok, Value: false}
	case token.LPAREN:
		return p.parseGroup()
	case token.LBRACKET:
		return p.parseVectorLiteral()
	case token.BAR:
		return p.parseFuncLiteral()
	case token.LBRACE, token.COLON:
		return p.parseScope()
	case token.INTRINSIC:
		p.advance()
		return &ast.Intrinsic{Token: tok, Name: tok.Literal.(string)}
	case token.IDENT:
		if ts.IsTypeName(tok.Lexeme) {
			return p.parseTypeAnnotation()
		}
		p.advance()
		return &ast.Identifier{Token: tok, Name: tok.Lexeme}
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.LOOP:
		return p.parseLoop()
	case token.MATCH:
		return p.parseMatch()
	case token.RETURN:
		return p.parseReturn()
	case token.BREAK:
		return p.parseBreak()
	case token.CONTINUE:
		p.advance()
		return &ast.ContinueExpr{Token: tok}
	case token.LET:
		return p.parseLet()
	case token.SET:
		return p.parseSet()
	case token.ILLEGAL:
		if tok.Literal == "unterminated string" {
			p.fail(diagnostics.ErrLUnterminatedString)
		} else {
			p.fail(diagnostics.ErrLInvalidChar, tok.Lexeme)
		}
		p.advance()
		return nil
	}
	return nil
}

func (p *Parser) parseGroup() ast.Expression {
	tok := p.advance() // '('
	inner := p.parseExpr()
	p.expect(token.RPAREN)
	return &ast.Group{Token: tok, Inner: inner}
}

func (p *Parser) parseVectorLiteral() ast.Expression {
	tok := p.advance() // '['
	var elems []ast.Expression
	for p.cur().Type != token.RBRACKET && !p.atEOF() {
		elems = append(elems, p.parseExpr())
		if p.cur().Type == token.COMMA {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RBRACKET)
	return &ast.VectorLiteral{Token: tok, Elements: elems}
}

// parseTypeSpelling assembles a full type spelling, handling the
// parametric Vec[T] form that a single IDENT token cannot carry.
func (p *Parser) parseTypeSpelling() (string, token.Token) {
	tok := p.advance()
	if tok.Lexeme != "Vec" {
		return tok.Lexeme, tok
	}
	p.expect(token.LBRACKET)
	inner, _ := p.parseTypeSpelling()
	p.expect(token.RBRACKET)
	return "Vec[" + inner + "]", tok
}

func (p *Parser) parseTypeAnnotation() ast.Expression {
	spelling, tok := p.parseTypeSpelling()
	inner := p.parseUnit()
	return &ast.TypeAnnotation{Token: tok, TypeName: spelling, Inner: inner}
}

func (p *Parser) parseFuncLiteral() ast.Expression {
	tok := p.advance() // '|'
	var params []ast.Param
	for p.cur().Type != token.BAR && !p.atEOF() {
		spelling, _ := p.parseTypeSpelling()
		nameTok, _ := p.expect(token.IDENT)
		params = append(params, ast.Param{TypeName: spelling, Name: &ast.Identifier{Token: nameTok, Name: nameTok.Lexeme}})
		if p.cur().Type == token.COMMA {
			p.advance()
		}
	}
	p.expect(token.BAR)

	arrow := ast.Impure
	switch p.cur().Type {
	case token.ARROW:
		p.advance()
	case token.PUREARR:
		arrow = ast.Pure
		p.advance()
	default:
		p.fail(diagnostics.ErrPExpectedToken, "'->' or '*>'", string(p.cur().Type))
	}
	retSpelling, _ := p.parseTypeSpelling()
	body := p.parseExpr()
	return &ast.FuncLiteral{Token: tok, Params: params, Arrow: arrow, ReturnType: retSpelling, Body: body}
}
