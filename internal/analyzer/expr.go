package analyzer

import (
	"github.com/neknaj/neplg1/internal/ast"
	"github.com/neknaj/neplg1/internal/diagnostics"
	"github.com/neknaj/neplg1/internal/hir"
	"github.com/neknaj/neplg1/internal/symbols"
	ts "github.com/neknaj/neplg1/internal/typesystem"
)

func (r *Resolver) unitType() ts.Type { return ts.Unit }

// resolveExpr is the single dispatch point every node in the ambiguous AST
// passes through on its way to a typed HIR node.
func (r *Resolver) resolveExpr(n ast.Expression, table *symbols.Table) (hir.Node, *diagnostics.DiagnosticError) {
	switch node := n.(type) {
	case *ast.IntLiteral:
		return &hir.IntLiteral{Value: node.Value, Ty: ts.I32}, nil
	case *ast.FloatLiteral:
		return &hir.FloatLiteral{Value: node.Value, Ty: ts.F64}, nil
	case *ast.StringLiteral:
		return &hir.StringLiteral{Value: node.Value}, nil
	case *ast.BoolLiteral:
		return &hir.BoolLiteral{Value: node.Value}, nil
	case *ast.VectorLiteral:
		return r.resolveVectorLiteral(node, table)
	case *ast.Group:
		return r.resolveExpr(node.Inner, table)
	case *ast.TypeAnnotation:
		return r.resolveTypeAnnotation(node, table)
	case *ast.FuncLiteral:
		return r.resolveFuncLiteral(node, table)
	case *ast.Identifier:
		return r.resolveIdentifierValue(node, table)
	case *ast.Intrinsic:
		return r.resolveIntrinsicValue(node)
	case *ast.PrefixSequence:
		return r.resolvePrefixSequence(node, table)
	case *ast.PipeChain:
		return r.resolvePrefixSequence(desugarPipeChain(node), table)
	case *ast.Block:
		return r.resolveBlock(node, table)
	case *ast.Scope:
		return r.resolveExpr(node.Body, table)
	case *ast.IfExpr:
		return r.resolveIf(node, table)
	case *ast.WhileExpr:
		return r.resolveWhile(node, table)
	case *ast.LoopExpr:
		return r.resolveLoop(node, table)
	case *ast.MatchExpr:
		return r.resolveMatch(node, table)
	case *ast.ReturnExpr:
		return r.resolveReturn(node, table)
	case *ast.BreakExpr:
		return r.resolveBreak(node, table)
	case *ast.ContinueExpr:
		return r.resolveContinue(node)
	case *ast.LetExpr:
		return r.resolveLet(node, table)
	case *ast.SetExpr:
		return r.resolveSet(node, table)
	}
	return nil, resolveError(n, diagnostics.ErrCInternal, "unhandled AST node in resolver")
}

func (r *Resolver) resolveVectorLiteral(node *ast.VectorLiteral, table *symbols.Table) (hir.Node, *diagnostics.DiagnosticError) {
	elems := make([]hir.Node, 0, len(node.Elements))
	elemTypes := make([]ts.Type, 0, len(node.Elements))
	for _, e := range node.Elements {
		el, err := r.resolveExpr(e, table)
		if err != nil {
			return nil, err
		}
		elems = append(elems, el)
		elemTypes = append(elemTypes, el.Type())
	}
	elemTy, lcsErr := ts.LCS(elemTypes)
	if lcsErr != nil {
		return nil, resolveError(node, diagnostics.ErrTNoCommonType, lcsErr.Error())
	}
	return &hir.VectorLiteral{Elements: elems, Ty: ts.VecType{Elem: elemTy}}, nil
}

// resolveTypeAnnotation applies an explicit type-name prefix, the
// mechanism spec.md §4.2 gives for widening a Never-typed subexpression or
// pinning down an otherwise-ambiguous literal's concrete type.
func (r *Resolver) resolveTypeAnnotation(node *ast.TypeAnnotation, table *symbols.Table) (hir.Node, *diagnostics.DiagnosticError) {
	want, ok := ts.ParseSpelling(node.TypeName)
	if !ok {
		return nil, resolveError(node, diagnostics.ErrPBadTypeName, node.TypeName)
	}
	inner, err := r.resolveExpr(node.Inner, table)
	if err != nil {
		return nil, err
	}
	if !ts.IsSubtype(inner.Type(), want) {
		return nil, resolveError(node, diagnostics.ErrTMismatch, want.String(), inner.Type().String())
	}
	return retype(inner, want), nil
}

// retype widens a node's own Type without altering its runtime shape - used
// only when the declared annotation is a proper supertype of what inference
// already assigned (most commonly Never widening to a concrete type).
func retype(n hir.Node, ty ts.Type) hir.Node {
	switch node := n.(type) {
	case *hir.IntLiteral:
		node.Ty = ty
		return node
	case *hir.FloatLiteral:
		node.Ty = ty
		return node
	case *hir.Call:
		node.Ty = ty
		return node
	case *hir.If:
		node.Ty = ty
		return node
	case *hir.Loop:
		node.Ty = ty
		return node
	case *hir.Block:
		node.Ty = ty
		return node
	default:
		return n
	}
}

func (r *Resolver) resolveIdentifierValue(node *ast.Identifier, table *symbols.Table) (hir.Node, *diagnostics.DiagnosticError) {
	if sym, ok := table.Resolve(node.Name); ok {
		return &hir.Var{Name: node.Name, Ty: sym.Type}, nil
	}
	return nil, resolveError(node, diagnostics.ErrRUndefinedName, node.Name)
}

func (r *Resolver) resolveIntrinsicValue(node *ast.Intrinsic) (hir.Node, *diagnostics.DiagnosticError) {
	// A bare `@name` not immediately applied has no first-class function
	// value form in this language (spec.md §1 Non-goals excludes closures
	// over host imports); it is only ever valid as a frame head.
	return nil, resolveError(node, diagnostics.ErrRNotAFunction, "@"+node.Name)
}

func (r *Resolver) resolveBlock(node *ast.Block, table *symbols.Table) (hir.Node, *diagnostics.DiagnosticError) {
	inner := symbols.NewEnclosed(table)
	stmts := make([]hir.Node, 0, len(node.Statements))
	var last ts.Type = ts.Unit
	for _, s := range node.Statements {
		hn, err := r.resolveExpr(s, inner)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, hn)
		last = hn.Type()
	}
	return &hir.Block{Statements: stmts, Ty: last}, nil
}
