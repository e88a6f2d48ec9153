package analyzer

import (
	"github.com/neknaj/neplg1/internal/ast"
	"github.com/neknaj/neplg1/internal/diagnostics"
	"github.com/neknaj/neplg1/internal/hir"
	"github.com/neknaj/neplg1/internal/symbols"
	ts "github.com/neknaj/neplg1/internal/typesystem"
)

// resolveMatch type-checks a match expression against spec.md §4.4.2's
// pattern grammar (literal equality, identifier binding, or wildcard -
// structural pattern matching beyond that is a Non-goal). Every case's
// body must share a common type via lcs, the same rule if/else branches
// use.
func (r *Resolver) resolveMatch(node *ast.MatchExpr, table *symbols.Table) (hir.Node, *diagnostics.DiagnosticError) {
	scrutinee, err := r.resolveExpr(node.Scrutinee, table)
	if err != nil {
		return nil, err
	}

	cases := make([]hir.MatchCase, 0, len(node.Cases))
	var bodyTypes []ts.Type
	for _, c := range node.Cases {
		caseTable := symbols.NewEnclosed(table)
		pat, perr := r.resolvePattern(c.Pattern, scrutinee.Type(), caseTable)
		if perr != nil {
			return nil, perr
		}
		var guard hir.Node
		if c.Guard != nil {
			g, err := r.resolveExpr(c.Guard, caseTable)
			if err != nil {
				return nil, err
			}
			if !ts.IsSubtype(g.Type(), ts.Bool) {
				return nil, resolveError(node, diagnostics.ErrTMismatch, "Bool", g.Type().String())
			}
			guard = g
		}
		body, err := r.resolveExpr(c.Body, caseTable)
		if err != nil {
			return nil, err
		}
		cases = append(cases, hir.MatchCase{Pattern: pat, Guard: guard, Body: body})
		bodyTypes = append(bodyTypes, body.Type())
	}

	ty, lcsErr := ts.LCS(bodyTypes)
	if lcsErr != nil {
		return nil, resolveError(node, diagnostics.ErrTNoCommonType, lcsErr.Error())
	}
	// Match is not lowered to wasm (spec.md Design Notes): the construct
	// type-checks fully, but codegen rejects every Match, whatever its
	// patterns, with ErrUUnsupportedConstruct.
	return &hir.Match{Scrutinee: scrutinee, Cases: cases, Ty: ty}, nil
}

func (r *Resolver) resolvePattern(p ast.Pattern, scrutineeTy ts.Type, table *symbols.Table) (hir.Pattern, *diagnostics.DiagnosticError) {
	switch pat := p.(type) {
	case *ast.WildcardPattern:
		return hir.WildcardPattern{}, nil
	case *ast.BindingPattern:
		table.Define(symbols.Symbol{Name: pat.Name, Type: scrutineeTy})
		return hir.BindingPattern{Name: pat.Name, Ty: scrutineeTy}, nil
	case *ast.LiteralPattern:
		lit, err := r.resolveExpr(pat.Literal, table)
		if err != nil {
			return nil, err
		}
		if !ts.IsSubtype(lit.Type(), scrutineeTy) && !ts.IsSubtype(scrutineeTy, lit.Type()) {
			return nil, resolveError(p, diagnostics.ErrTMismatch, scrutineeTy.String(), lit.Type().String())
		}
		return hir.LiteralPattern{Literal: lit}, nil
	}
	return nil, resolveError(p, diagnostics.ErrPBadPattern, "unrecognized pattern form")
}
