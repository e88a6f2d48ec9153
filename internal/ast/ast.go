// Package ast defines the ambiguous abstract syntax tree produced by the
// parser. Call structure inside a prefix sequence is deliberately left
// undecided here - the frame resolver (internal/analyzer) is the sole
// authority for turning a flat sequence of terms into a call tree.
package ast

import "github.com/neknaj/neplg1/internal/token"

// Node is the base interface implemented by every AST node.
type Node interface {
	TokenLiteral() string
	GetToken() token.Token
}

// Expression is any Node that can occur in an expression position. In this
// language almost everything is an expression; there is no separate
// statement grammar.
type Expression interface {
	Node
	expressionNode()
}

// IntLiteral is an integer literal such as 42.
type IntLiteral struct {
	Token token.Token
	Value int64
}

func (n *IntLiteral) expressionNode()      {}
func (n *IntLiteral) TokenLiteral() string { return n.Token.Lexeme }
func (n *IntLiteral) GetToken() token.Token { return n.Token }

// FloatLiteral is a floating-point literal such as 3.14.
type FloatLiteral struct {
	Token token.Token
	Value float64
}

func (n *FloatLiteral) expressionNode()      {}
func (n *FloatLiteral) TokenLiteral() string { return n.Token.Lexeme }
func (n *FloatLiteral) GetToken() token.Token { return n.Token }

// StringLiteral is a double-quoted string literal with escapes resolved.
type StringLiteral struct {
	Token token.Token
	Value string
}

func (n *StringLiteral) expressionNode()      {}
func (n *StringLiteral) TokenLiteral() string { return n.Token.Lexeme }
func (n *StringLiteral) GetToken() token.Token { return n.Token }

// BoolLiteral is `true` or `false`.
type BoolLiteral struct {
	Token token.Token
	Value bool
}

func (n *BoolLiteral) expressionNode()      {}
func (n *BoolLiteral) TokenLiteral() string { return n.Token.Lexeme }
func (n *BoolLiteral) GetToken() token.Token { return n.Token }

// VectorLiteral is an ordered sequence literal: [e1, e2, e3].
type VectorLiteral struct {
	Token    token.Token // the '['
	Elements []Expression
}

func (n *VectorLiteral) expressionNode()      {}
func (n *VectorLiteral) TokenLiteral() string { return n.Token.Lexeme }
func (n *VectorLiteral) GetToken() token.Token { return n.Token }

// Identifier is a bare name reference - to a built-in operator, an
// intrinsic binding, or a let-bound variable.
type Identifier struct {
	Token token.Token
	Name  string
}

func (n *Identifier) expressionNode()      {}
func (n *Identifier) TokenLiteral() string { return n.Token.Lexeme }
func (n *Identifier) GetToken() token.Token { return n.Token }

// Intrinsic is an `@name` reference to a host-imported function.
type Intrinsic struct {
	Token token.Token
	Name  string
}

func (n *Intrinsic) expressionNode()      {}
func (n *Intrinsic) TokenLiteral() string { return n.Token.Lexeme }
func (n *Intrinsic) GetToken() token.Token { return n.Token }

// Group is a parenthesised expression: '(' expr ')'. Always wraps exactly
// one expression; it exists in the tree so the resolver never has to guess
// whether a parenthesised term was a grouping or a one-element sequence.
type Group struct {
	Token token.Token // the '('
	Inner Expression
}

func (n *Group) expressionNode()      {}
func (n *Group) TokenLiteral() string { return n.Token.Lexeme }
func (n *Group) GetToken() token.Token { return n.Token }

// PrefixSequence is a greedy run of terms whose call tree has not been
// decided. The frame-stack algorithm (internal/analyzer) is the only
// consumer that may impose structure on Terms.
type PrefixSequence struct {
	Token token.Token // the first term's token
	Terms []Expression
}

func (n *PrefixSequence) expressionNode()      {}
func (n *PrefixSequence) TokenLiteral() string { return n.Token.Lexeme }
func (n *PrefixSequence) GetToken() token.Token { return n.Token }

// TypeAnnotation is a type name immediately preceding an expression:
// `i32 expr`. Used to force a concrete type at a position where it would
// otherwise be ambiguous or to widen a Never-typed subexpression.
type TypeAnnotation struct {
	Token    token.Token // the type-name token
	TypeName string
	Inner    Expression
}

func (n *TypeAnnotation) expressionNode()      {}
func (n *TypeAnnotation) TokenLiteral() string { return n.Token.Lexeme }
func (n *TypeAnnotation) GetToken() token.Token { return n.Token }

// Param is one parameter of a function literal: `T name`.
type Param struct {
	TypeName string
	Name     *Identifier
}

// ArrowKind is the purity label on a function literal or function type.
type ArrowKind int

const (
	Impure ArrowKind = iota
	Pure
)

func (k ArrowKind) String() string {
	if k == Pure {
		return "pure"
	}
	return "impure"
}

// FuncLiteral is `|params| ('->'|'*>') type expr`.
type FuncLiteral struct {
	Token      token.Token // the '|'
	Params     []Param
	Arrow      ArrowKind
	ReturnType string
	Body       Expression
}

func (n *FuncLiteral) expressionNode()      {}
func (n *FuncLiteral) TokenLiteral() string { return n.Token.Lexeme }
func (n *FuncLiteral) GetToken() token.Token { return n.Token }

// Block is zero or more statement-expressions evaluated in order, the last
// of which produces the block's value; this is what a brace or colon/
// offside scope actually holds when it spans more than one line.
type Block struct {
	Token      token.Token
	Statements []Expression
}

func (n *Block) expressionNode()      {}
func (n *Block) TokenLiteral() string { return n.Token.Lexeme }
func (n *Block) GetToken() token.Token { return n.Token }

// Scope is `{ expr }` or `: expr` (with the body found via the offside
// rule). It always wraps exactly one expression - usually a *Block when the
// scope spans several lines, or the single inline expression otherwise.
type Scope struct {
	Token token.Token
	Body  Expression
}

func (n *Scope) expressionNode()      {}
func (n *Scope) TokenLiteral() string { return n.Token.Lexeme }
func (n *Scope) GetToken() token.Token { return n.Token }

// PipeChain is `unit ('>' unit)*`. The parser does not desugar pipe
// chains: it commits the whole chain as a PipeChain node in the completed
// Program, and internal/analyzer rewrites it into nested calls during
// resolution.
type PipeChain struct {
	Token    token.Token
	Segments []Expression
}

func (n *PipeChain) expressionNode()      {}
func (n *PipeChain) TokenLiteral() string { return n.Token.Lexeme }
func (n *PipeChain) GetToken() token.Token { return n.Token }

// --- Control-flow forms ---
//
// These are not part of the ambiguous `prefix_sequence` grammar: the
// offside/brace scope rule gives their bodies unambiguous boundaries, so
// the parser commits to dedicated nodes instead of leaving them for the
// frame resolver to discover. Section 4.4.2 of the control-flow typing
// design still treats each of these as its own typing rule, exactly as it
// would a special-formed call.

// IfExpr is `if cond then conseq (elseif cond then conseq)* (else alt)?`.
type IfExpr struct {
	Token      token.Token
	Cond       Expression
	Then       Expression
	ElseIfs    []ElseIf
	Else       Expression // nil when no else clause
}

type ElseIf struct {
	Cond Expression
	Then Expression
}

func (n *IfExpr) expressionNode()      {}
func (n *IfExpr) TokenLiteral() string { return n.Token.Lexeme }
func (n *IfExpr) GetToken() token.Token { return n.Token }

// WhileExpr is `while cond body`.
type WhileExpr struct {
	Token token.Token
	Cond  Expression
	Body  Expression
}

func (n *WhileExpr) expressionNode()      {}
func (n *WhileExpr) TokenLiteral() string { return n.Token.Lexeme }
func (n *WhileExpr) GetToken() token.Token { return n.Token }

// LoopExpr is `loop body`.
type LoopExpr struct {
	Token token.Token
	Body  Expression
}

func (n *LoopExpr) expressionNode()      {}
func (n *LoopExpr) TokenLiteral() string { return n.Token.Lexeme }
func (n *LoopExpr) GetToken() token.Token { return n.Token }

// MatchCase is `case pattern (when guard)? then expr`. Pattern syntax is
// limited to literals, the wildcard `_`, and identifier bindings - full
// structural pattern matching is a Non-goal (spec.md §1).
type MatchCase struct {
	Pattern Pattern
	Guard   Expression // nil if absent
	Body    Expression
}

// Pattern is the (deliberately small) pattern grammar: literal equality,
// identifier binding, or wildcard.
type Pattern interface {
	Node
	patternNode()
}

type WildcardPattern struct{ Token token.Token }

func (n *WildcardPattern) patternNode()        {}
func (n *WildcardPattern) TokenLiteral() string { return n.Token.Lexeme }
func (n *WildcardPattern) GetToken() token.Token { return n.Token }

type BindingPattern struct {
	Token token.Token
	Name  string
}

func (n *BindingPattern) patternNode()        {}
func (n *BindingPattern) TokenLiteral() string { return n.Token.Lexeme }
func (n *BindingPattern) GetToken() token.Token { return n.Token }

type LiteralPattern struct {
	Token   token.Token
	Literal Expression // *IntLiteral | *FloatLiteral | *StringLiteral | *BoolLiteral
}

func (n *LiteralPattern) patternNode()        {}
func (n *LiteralPattern) TokenLiteral() string { return n.Token.Lexeme }
func (n *LiteralPattern) GetToken() token.Token { return n.Token }

// MatchExpr is `match scrutinee (case ...)*`.
type MatchExpr struct {
	Token     token.Token
	Scrutinee Expression
	Cases     []MatchCase
}

func (n *MatchExpr) expressionNode()      {}
func (n *MatchExpr) TokenLiteral() string { return n.Token.Lexeme }
func (n *MatchExpr) GetToken() token.Token { return n.Token }

// ReturnExpr is `return` or `return expr`.
type ReturnExpr struct {
	Token token.Token
	Value Expression // nil if bare
}

func (n *ReturnExpr) expressionNode()      {}
func (n *ReturnExpr) TokenLiteral() string { return n.Token.Lexeme }
func (n *ReturnExpr) GetToken() token.Token { return n.Token }

// BreakExpr is `break` or `break expr`.
type BreakExpr struct {
	Token token.Token
	Value Expression // nil if bare
}

func (n *BreakExpr) expressionNode()      {}
func (n *BreakExpr) TokenLiteral() string { return n.Token.Lexeme }
func (n *BreakExpr) GetToken() token.Token { return n.Token }

// ContinueExpr is `continue`.
type ContinueExpr struct{ Token token.Token }

func (n *ContinueExpr) expressionNode()      {}
func (n *ContinueExpr) TokenLiteral() string { return n.Token.Lexeme }
func (n *ContinueExpr) GetToken() token.Token { return n.Token }

// LetExpr is `let mut? name (: type)? value` (mut marks a mutable binding).
type LetExpr struct {
	Token          token.Token
	Name           string
	Mut            bool
	TypeAnnotation string // "" if absent
	Value          Expression
}

func (n *LetExpr) expressionNode()      {}
func (n *LetExpr) TokenLiteral() string { return n.Token.Lexeme }
func (n *LetExpr) GetToken() token.Token { return n.Token }

// SetExpr is `set name value`, assigning to an existing mutable binding.
type SetExpr struct {
	Token token.Token
	Name  string
	Value Expression
}

func (n *SetExpr) expressionNode()      {}
func (n *SetExpr) TokenLiteral() string { return n.Token.Lexeme }
func (n *SetExpr) GetToken() token.Token { return n.Token }

// Program is the root node: the single top-level expression the compiler
// lowers to the exported `main`.
type Program struct {
	Top Expression
}

func (p *Program) TokenLiteral() string {
	if p.Top == nil {
		return ""
	}
	return p.Top.TokenLiteral()
}

func (p *Program) GetToken() token.Token {
	if p.Top == nil {
		return token.Token{}
	}
	return p.Top.GetToken()
}
