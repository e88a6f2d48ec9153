package analyzer

import (
	"github.com/neknaj/neplg1/internal/ast"
	"github.com/neknaj/neplg1/internal/diagnostics"
	"github.com/neknaj/neplg1/internal/hir"
	"github.com/neknaj/neplg1/internal/symbols"
	ts "github.com/neknaj/neplg1/internal/typesystem"
)

func (r *Resolver) resolveFuncLiteral(node *ast.FuncLiteral, table *symbols.Table) (hir.Node, *diagnostics.DiagnosticError) {
	inner := symbols.NewEnclosed(table)
	params := make([]hir.Param, 0, len(node.Params))
	paramTypes := make([]ts.Type, 0, len(node.Params))
	for _, p := range node.Params {
		pty, ok := ts.ParseSpelling(p.TypeName)
		if !ok {
			return nil, resolveError(node, diagnostics.ErrPBadTypeName, p.TypeName)
		}
		if ts.Equal(pty, ts.Never) {
			// Never has no inhabitants: it is the type of a diverging
			// expression's result (return/break/continue), never a type a
			// caller could actually hand a value of, so it cannot name a
			// parameter's declared type.
			return nil, resolveError(node, diagnostics.ErrTNeverInNonBottomPosition)
		}
		inner.Define(symbols.Symbol{Name: p.Name.Name, Type: pty})
		params = append(params, hir.Param{Name: p.Name.Name, Ty: pty})
		paramTypes = append(paramTypes, pty)
	}
	resultTy, ok := ts.ParseSpelling(node.ReturnType)
	if !ok {
		return nil, resolveError(node, diagnostics.ErrPBadTypeName, node.ReturnType)
	}

	arrow := ts.Impure
	enclosingPurity := r.purity
	if node.Arrow == ast.Pure {
		arrow = ts.Pure
		r.purity = pureCtx
	} else {
		r.purity = impureCtx
	}
	body, err := r.resolveExpr(node.Body, inner)
	r.purity = enclosingPurity
	if err != nil {
		return nil, err
	}
	if !ts.IsSubtype(body.Type(), resultTy) {
		return nil, resolveError(node, diagnostics.ErrTMismatch, resultTy.String(), body.Type().String())
	}

	fnTy := ts.FuncType{Params: paramTypes, Result: resultTy, Arrow: arrow}
	return &hir.FuncValue{Params: params, Body: body, Ty: fnTy}, nil
}

// desugarPipeChain folds `L > R > ...` into a left-associative
// PrefixSequence per spec.md §4.2: `a > f` becomes the sequence `f a`, and
// `a > f b` becomes `f a b` - the piped value always lands as the callee's
// first argument.
func desugarPipeChain(chain *ast.PipeChain) *ast.PrefixSequence {
	acc := chain.Segments[0]
	for _, seg := range chain.Segments[1:] {
		acc = foldPipeSegment(acc, seg)
	}
	if seq, ok := acc.(*ast.PrefixSequence); ok {
		return seq
	}
	return &ast.PrefixSequence{Token: chain.Token, Terms: []ast.Expression{acc}}
}

func foldPipeSegment(piped, seg ast.Expression) ast.Expression {
	switch s := seg.(type) {
	case *ast.PrefixSequence:
		terms := make([]ast.Expression, 0, len(s.Terms)+1)
		terms = append(terms, s.Terms[0], piped)
		terms = append(terms, s.Terms[1:]...)
		return &ast.PrefixSequence{Token: s.Token, Terms: terms}
	default:
		return &ast.PrefixSequence{Token: seg.GetToken(), Terms: []ast.Expression{seg, piped}}
	}
}
