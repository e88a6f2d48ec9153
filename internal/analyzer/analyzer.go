// Package analyzer turns the parser's ambiguous AST into a fully resolved,
// fully typed HIR (spec.md §4.4): it runs the frame-stack algorithm to
// disambiguate each prefix sequence against the overload table
// (internal/builtins), performs Hindley-Milner-style structural unification
// for polymorphic overloads (internal/typesystem), and checks the purity
// rule that an expression inside a pure function literal may only invoke
// other pure things.
package analyzer

import (
	"github.com/neknaj/neplg1/internal/ast"
	"github.com/neknaj/neplg1/internal/diagnostics"
	"github.com/neknaj/neplg1/internal/hir"
	"github.com/neknaj/neplg1/internal/symbols"
	ts "github.com/neknaj/neplg1/internal/typesystem"
)

// Resolver holds the state threaded through one compilation unit's
// resolution pass: the collected diagnostics, the loop-nesting depth
// `break`/`continue` need to validate against, and a stack of per-`loop`
// collected break-value types (the innermost loop's entry is what every
// `break expr` inside it contributes to, for computing that loop's lcs).
type Resolver struct {
	errs       []*diagnostics.DiagnosticError
	loopDepth  int
	breakTypes [][]ts.Type
	// breakHasValue tracks, in lockstep with breakTypes, whether each
	// collected break carried a value - a bare `break` and a `break expr`
	// mixed in the same loop is an error (spec.md §4.4.2) even when their
	// types happen to coincide, so this can't be derived from breakTypes
	// alone.
	breakHasValue [][]bool
	// purity is the enclosing function's arrow kind; Impure at the program
	// top level since `main` itself is allowed to do I/O.
	purity purityKind
}

type purityKind int

const (
	impureCtx purityKind = iota
	pureCtx
)

// New creates a Resolver ready to resolve a single compilation unit.
func New() *Resolver {
	return &Resolver{purity: impureCtx}
}

// Resolve runs frame resolution and type inference over prog and returns
// the typed HIR, or the diagnostics collected along the way. Resolution
// does not stop at the first error: it keeps going so a single run can
// report every independent problem it finds (spec.md §7).
func (r *Resolver) Resolve(prog *ast.Program) (*hir.Program, []*diagnostics.DiagnosticError) {
	table := symbols.NewRoot()
	if prog.Top == nil {
		return &hir.Program{Top: &hir.Block{Ty: r.unitType()}}, r.errs
	}
	top, err := r.resolveExpr(prog.Top, table)
	if err != nil {
		r.errs = append(r.errs, err)
		return nil, r.errs
	}
	if len(r.errs) > 0 {
		return nil, r.errs
	}
	return &hir.Program{Top: top}, nil
}

func (r *Resolver) fail(err *diagnostics.DiagnosticError) {
	r.errs = append(r.errs, err)
}
