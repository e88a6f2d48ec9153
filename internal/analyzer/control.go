package analyzer

import (
	"github.com/neknaj/neplg1/internal/ast"
	"github.com/neknaj/neplg1/internal/diagnostics"
	"github.com/neknaj/neplg1/internal/hir"
	"github.com/neknaj/neplg1/internal/symbols"
	ts "github.com/neknaj/neplg1/internal/typesystem"
)

// resolveIf implements spec.md §4.4.2's control-flow typing rule for
// if/elseif*/else: each elseif clause is folded into the else-branch of the
// previous one, so the committed HIR only ever has the two-armed form, and
// the whole chain's type is the lcs of the cond branch and the final else
// (Unit when there is no else at all, matching the language's eager
// evaluation - an if without else is only ever used for its effects).
func (r *Resolver) resolveIf(node *ast.IfExpr, table *symbols.Table) (hir.Node, *diagnostics.DiagnosticError) {
	cond, err := r.resolveExpr(node.Cond, table)
	if err != nil {
		return nil, err
	}
	if !ts.IsSubtype(cond.Type(), ts.Bool) {
		return nil, resolveError(node, diagnostics.ErrTMismatch, "Bool", cond.Type().String())
	}
	then, err := r.resolveExpr(node.Then, table)
	if err != nil {
		return nil, err
	}

	var elseNode hir.Node
	if len(node.ElseIfs) > 0 {
		rest := &ast.IfExpr{Token: node.Token, Cond: node.ElseIfs[0].Cond, Then: node.ElseIfs[0].Then, ElseIfs: node.ElseIfs[1:], Else: node.Else}
		resolved, err := r.resolveIf(rest, table)
		if err != nil {
			return nil, err
		}
		elseNode = resolved
	} else if node.Else != nil {
		resolved, err := r.resolveExpr(node.Else, table)
		if err != nil {
			return nil, err
		}
		elseNode = resolved
	} else if !ts.IsSubtype(then.Type(), ts.Unit) {
		// No else anywhere in this chain's tail, and the then-branch is
		// not Unit: the missing else can't be papered over by treating it
		// as an implicit Unit branch, so this is its own named error
		// rather than falling through to the generic lcs failure below.
		return nil, resolveError(node, diagnostics.ErrTMissingElse, then.Type().String())
	}

	var branchTypes []ts.Type
	branchTypes = append(branchTypes, then.Type())
	if elseNode != nil {
		branchTypes = append(branchTypes, elseNode.Type())
	} else {
		branchTypes = append(branchTypes, ts.Unit)
	}
	ty, lcsErr := ts.LCS(branchTypes)
	if lcsErr != nil {
		return nil, resolveError(node, diagnostics.ErrTNoCommonType, lcsErr.Error())
	}
	return &hir.If{Cond: cond, Then: then, Else: elseNode, Ty: ty}, nil
}

func (r *Resolver) resolveWhile(node *ast.WhileExpr, table *symbols.Table) (hir.Node, *diagnostics.DiagnosticError) {
	cond, err := r.resolveExpr(node.Cond, table)
	if err != nil {
		return nil, err
	}
	if !ts.IsSubtype(cond.Type(), ts.Bool) {
		return nil, resolveError(node, diagnostics.ErrTMismatch, "Bool", cond.Type().String())
	}
	r.loopDepth++
	r.breakTypes = append(r.breakTypes, nil)
	r.breakHasValue = append(r.breakHasValue, nil)
	body, err := r.resolveExpr(node.Body, table)
	r.breakTypes = r.breakTypes[:len(r.breakTypes)-1]
	r.breakHasValue = r.breakHasValue[:len(r.breakHasValue)-1]
	r.loopDepth--
	if err != nil {
		return nil, err
	}
	return &hir.While{Cond: cond, Body: body}, nil
}

func (r *Resolver) resolveLoop(node *ast.LoopExpr, table *symbols.Table) (hir.Node, *diagnostics.DiagnosticError) {
	r.loopDepth++
	r.breakTypes = append(r.breakTypes, nil)
	r.breakHasValue = append(r.breakHasValue, nil)
	body, err := r.resolveExpr(node.Body, table)
	collected := r.breakTypes[len(r.breakTypes)-1]
	hasValue := r.breakHasValue[len(r.breakHasValue)-1]
	r.breakTypes = r.breakTypes[:len(r.breakTypes)-1]
	r.breakHasValue = r.breakHasValue[:len(r.breakHasValue)-1]
	r.loopDepth--
	if err != nil {
		return nil, err
	}
	// No value-carrying break anywhere in the loop (including no break at
	// all) means the loop can only ever exit without a value: Unit, not
	// the Never LCS(nil) would otherwise produce.
	valueSeen := false
	for _, v := range hasValue {
		if v {
			valueSeen = true
			break
		}
	}
	if !valueSeen {
		return &hir.Loop{Body: body, Ty: ts.Unit}, nil
	}
	ty, lcsErr := ts.LCS(collected)
	if lcsErr != nil {
		return nil, resolveError(node, diagnostics.ErrTNoCommonType, lcsErr.Error())
	}
	return &hir.Loop{Body: body, Ty: ty}, nil
}

func (r *Resolver) resolveReturn(node *ast.ReturnExpr, table *symbols.Table) (hir.Node, *diagnostics.DiagnosticError) {
	if node.Value == nil {
		return &hir.Return{}, nil
	}
	val, err := r.resolveExpr(node.Value, table)
	if err != nil {
		return nil, err
	}
	return &hir.Return{Value: val}, nil
}

func (r *Resolver) resolveBreak(node *ast.BreakExpr, table *symbols.Table) (hir.Node, *diagnostics.DiagnosticError) {
	if r.loopDepth == 0 {
		return nil, resolveError(node, diagnostics.ErrRLoopControlOutsideLoop, "break")
	}
	var val hir.Node
	var ty ts.Type = ts.Unit
	hasValue := node.Value != nil
	if hasValue {
		v, err := r.resolveExpr(node.Value, table)
		if err != nil {
			return nil, err
		}
		val = v
		ty = v.Type()
	}
	if n := len(r.breakHasValue); n > 0 {
		// A loop may not mix a bare `break` with a value-carrying
		// `break expr` (spec.md §4.4.2) - checked against every break
		// already collected for this innermost loop, not just its type,
		// since a value-carrying break whose value happens to be Unit
		// would otherwise slip past a type-only comparison.
		for _, seenValue := range r.breakHasValue[n-1] {
			if seenValue != hasValue {
				return nil, resolveError(node, diagnostics.ErrTInconsistentBreak)
			}
		}
		r.breakHasValue[n-1] = append(r.breakHasValue[n-1], hasValue)
	}
	if n := len(r.breakTypes); n > 0 {
		r.breakTypes[n-1] = append(r.breakTypes[n-1], ty)
	}
	return &hir.Break{Value: val}, nil
}

func (r *Resolver) resolveContinue(node *ast.ContinueExpr) (hir.Node, *diagnostics.DiagnosticError) {
	if r.loopDepth == 0 {
		return nil, resolveError(node, diagnostics.ErrRLoopControlOutsideLoop, "continue")
	}
	return &hir.Continue{}, nil
}

func (r *Resolver) resolveLet(node *ast.LetExpr, table *symbols.Table) (hir.Node, *diagnostics.DiagnosticError) {
	val, err := r.resolveExpr(node.Value, table)
	if err != nil {
		return nil, err
	}
	ty := val.Type()
	if node.TypeAnnotation != "" {
		declared, ok := ts.ParseSpelling(node.TypeAnnotation)
		if !ok {
			return nil, resolveError(node, diagnostics.ErrPBadTypeName, node.TypeAnnotation)
		}
		if ts.Equal(declared, ts.Never) {
			// A binding holds a value; Never has none, so it cannot be
			// written down as a let's declared type even though it is
			// accepted wherever a type is merely required structurally.
			return nil, resolveError(node, diagnostics.ErrTNeverInNonBottomPosition)
		}
		if !ts.IsSubtype(ty, declared) {
			return nil, resolveError(node, diagnostics.ErrTMismatch, declared.String(), ty.String())
		}
		ty = declared
	}
	table.Define(symbols.Symbol{Name: node.Name, Type: ty, Mut: node.Mut})
	return &hir.Let{Name: node.Name, Mut: node.Mut, Value: val, Ty: ty}, nil
}

func (r *Resolver) resolveSet(node *ast.SetExpr, table *symbols.Table) (hir.Node, *diagnostics.DiagnosticError) {
	sym, ok := table.Resolve(node.Name)
	if !ok {
		return nil, resolveError(node, diagnostics.ErrRUndefinedName, node.Name)
	}
	if !sym.Mut {
		return nil, resolveError(node, diagnostics.ErrTImmutableAssign, node.Name)
	}
	val, err := r.resolveExpr(node.Value, table)
	if err != nil {
		return nil, err
	}
	if !ts.IsSubtype(val.Type(), sym.Type) {
		return nil, resolveError(node, diagnostics.ErrTMismatch, sym.Type.String(), val.Type().String())
	}
	return &hir.Set{Name: node.Name, Value: val}, nil
}
