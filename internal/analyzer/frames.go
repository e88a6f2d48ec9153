package analyzer

import (
	"sort"

	"github.com/neknaj/neplg1/internal/ast"
	"github.com/neknaj/neplg1/internal/builtins"
	"github.com/neknaj/neplg1/internal/diagnostics"
	"github.com/neknaj/neplg1/internal/hir"
	"github.com/neknaj/neplg1/internal/symbols"
	ts "github.com/neknaj/neplg1/internal/typesystem"
)

// frameCandidate is one overload a frame might close against: a built-in
// overload, a let-bound function value, or a host intrinsic, normalized to
// a common shape so selectOverload never needs to know which it came from.
type frameCandidate struct {
	Params   []ts.Type
	Result   ts.Type
	Arrow    ts.Arrow
	Module   string // non-empty only for an intrinsic candidate
	Field    string
}

func (c frameCandidate) arity() int { return len(c.Params) }

// headName reports the bare name a term would be resolved against as a
// frame head, and whether the term is syntactically capable of being one
// (an Identifier or an Intrinsic reference - nothing else can ever name an
// overload set, per spec.md §4.2's prefix_sequence grammar).
func headName(term ast.Expression) (name string, isIntrinsic, ok bool) {
	switch t := term.(type) {
	case *ast.Identifier:
		return t.Name, false, true
	case *ast.Intrinsic:
		return t.Name, true, true
	}
	return "", false, false
}

// lookupCallable resolves name to its candidate overload set, trying (in
// order) host intrinsics, built-in overloads, and let-bound function
// values. Returns ok=false when name names nothing callable, in which case
// the caller falls back to resolving the term as a plain value.
func lookupCallable(name string, isIntrinsic bool, table *symbols.Table) ([]frameCandidate, bool) {
	if isIntrinsic {
		i, ok := builtins.LookupIntrinsic(name)
		if !ok {
			return nil, false
		}
		return []frameCandidate{{Params: i.Sig.Params, Result: i.Sig.Result, Arrow: i.Sig.Arrow, Module: i.Module, Field: i.Field}}, true
	}
	if ovs, ok := builtins.Lookup(name); ok {
		cands := make([]frameCandidate, len(ovs))
		for i, o := range ovs {
			cands[i] = frameCandidate{Params: o.Params, Result: o.Result, Arrow: o.Arrow}
		}
		return cands, true
	}
	if sym, ok := table.Resolve(name); ok {
		if fn, ok := sym.Type.(ts.FuncType); ok {
			return []frameCandidate{{Params: fn.Params, Result: fn.Result, Arrow: fn.Arrow}}, true
		}
	}
	return nil, false
}

// resolvePrefixSequence resolves one flat run of terms into exactly one
// value, per spec.md §4.4's frame-stack algorithm: the first term opens a
// frame if it names an overload set, the frame greedily consumes the
// following terms as arguments (trying the widest arity first), and any
// term left over once the outermost frame closes is an error - a
// prefix_sequence commits to producing a single value.
func (r *Resolver) resolvePrefixSequence(node *ast.PrefixSequence, table *symbols.Table) (hir.Node, *diagnostics.DiagnosticError) {
	terms := node.Terms
	idx := 0
	val, err := r.resolveFrame(terms, &idx, table)
	if err != nil {
		return nil, err
	}
	if idx != len(terms) {
		name, _, _ := headName(terms[0])
		return nil, resolveError(node, diagnostics.ErrRExcessArguments, name, idx)
	}
	return val, nil
}

// resolveFrame consumes exactly one value starting at terms[*idx], advancing
// *idx past everything that value's frame (if any) swallowed.
func (r *Resolver) resolveFrame(terms []ast.Expression, idx *int, table *symbols.Table) (hir.Node, *diagnostics.DiagnosticError) {
	term := terms[*idx]
	if name, isIntrinsic, capable := headName(term); capable {
		if cands, ok := lookupCallable(name, isIntrinsic, table); ok {
			return r.closeFrame(name, isIntrinsic, cands, term, terms, idx, table)
		}
	}
	*idx++
	return r.resolveExpr(term, table)
}

// closeFrame tries each distinct candidate arity from widest to narrowest
// (Rule 0': the arity filter), recursively resolving that many following
// terms as arguments, then asks selectOverload to pick among same-arity
// candidates via Rule A (monomorphic wins) and Rule B (exact match wins).
func (r *Resolver) closeFrame(name string, isIntrinsic bool, cands []frameCandidate, head ast.Expression, terms []ast.Expression, idx *int, table *symbols.Table) (hir.Node, *diagnostics.DiagnosticError) {
	*idx++ // consume the head term itself

	arities := distinctArities(cands)
	var lastErr *diagnostics.DiagnosticError
	for _, arity := range arities {
		remaining := len(terms) - *idx
		if remaining < arity {
			lastErr = resolveError(head, diagnostics.ErrRUnclosedFrame, name, arity, remaining)
			continue
		}
		checkpoint := *idx
		args := make([]hir.Node, 0, arity)
		failed := false
		for i := 0; i < arity; i++ {
			a, err := r.resolveFrame(terms, idx, table)
			if err != nil {
				lastErr = err
				failed = true
				break
			}
			args = append(args, a)
		}
		if failed {
			*idx = checkpoint
			continue
		}

		sameArity := filterArity(cands, arity)
		chosen, selErr := selectOverload(head, name, sameArity, args)
		if selErr != nil {
			*idx = checkpoint
			lastErr = selErr
			continue
		}
		return r.buildCallNode(name, isIntrinsic, *chosen, args, head)
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, resolveError(head, diagnostics.ErrRNoMatch, name, 0)
}

func distinctArities(cands []frameCandidate) []int {
	seen := map[int]bool{}
	var out []int
	for _, c := range cands {
		if !seen[c.arity()] {
			seen[c.arity()] = true
			out = append(out, c.arity())
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

func filterArity(cands []frameCandidate, arity int) []frameCandidate {
	var out []frameCandidate
	for _, c := range cands {
		if c.arity() == arity {
			out = append(out, c)
		}
	}
	return out
}

type overloadMatch struct {
	cand  frameCandidate
	subst ts.Subst
}

// selectOverload applies unification to every same-arity candidate against
// the already-resolved argument types, then narrows by Rule A (prefer a
// candidate whose parameters are fully concrete over one that needed a
// fresh type variable) and Rule B (among the survivors, prefer the one
// matched without relying on subtyping - i.e. an exact structural match).
func selectOverload(head ast.Expression, name string, cands []frameCandidate, args []hir.Node) (*frameCandidate, *diagnostics.DiagnosticError) {
	argTypes := make([]ts.Type, len(args))
	for i, a := range args {
		argTypes[i] = a.Type()
	}

	var matches []overloadMatch
	for _, c := range cands {
		subst := ts.Subst{}
		ok := true
		for i, p := range c.Params {
			s2, err := ts.Unify(argTypes[i].Apply(subst), p.Apply(subst))
			if err != nil {
				ok = false
				break
			}
			subst = s2.Compose(subst)
		}
		if ok {
			matches = append(matches, overloadMatch{cand: c, subst: subst})
		}
	}
	if len(matches) == 0 {
		return nil, resolveError(head, diagnostics.ErrRNoMatch, name, len(args))
	}

	pool := matches
	if mono := filterMono(matches); len(mono) > 0 {
		pool = mono
	}
	if len(pool) > 1 {
		if exact := filterExact(pool, argTypes); len(exact) > 0 {
			pool = exact
		}
	}
	if len(pool) != 1 {
		return nil, resolveError(head, diagnostics.ErrRAmbiguous, name, len(pool))
	}
	winner := pool[0].cand
	winner.Result = winner.Result.Apply(pool[0].subst)
	return &winner, nil
}

func filterMono(matches []overloadMatch) []overloadMatch {
	var out []overloadMatch
	for _, m := range matches {
		if len(m.cand.Result.FreeTypeVariables()) == 0 {
			isMono := true
			for _, p := range m.cand.Params {
				if len(p.FreeTypeVariables()) > 0 {
					isMono = false
					break
				}
			}
			if isMono {
				out = append(out, m)
			}
		}
	}
	return out
}

func filterExact(matches []overloadMatch, argTypes []ts.Type) []overloadMatch {
	var out []overloadMatch
	for _, m := range matches {
		allExact := true
		for i, p := range m.cand.Params {
			if !ts.Equal(argTypes[i], p.Apply(m.subst)) {
				allExact = false
				break
			}
		}
		if allExact {
			out = append(out, m)
		}
	}
	return out
}

func (r *Resolver) buildCallNode(name string, isIntrinsic bool, chosen frameCandidate, args []hir.Node, head ast.Expression) (hir.Node, *diagnostics.DiagnosticError) {
	if isIntrinsic {
		if r.purity == pureCtx {
			return nil, resolveError(head, diagnostics.ErrTPurityViolation, "@"+name)
		}
		return &hir.IntrinsicCall{Module: chosen.Module, Field: chosen.Field, Args: args, Ty: chosen.Result}, nil
	}
	if chosen.Arrow != ts.Pure && r.purity == pureCtx {
		return nil, resolveError(head, diagnostics.ErrTPurityViolation, name)
	}
	if (name == "div" || name == "mod") && len(args) == 2 && isLiteralZero(args[1]) {
		// A literal zero divisor is provably a division by zero before
		// codegen ever runs - spec.md §4.5/§7 make this a compile-time
		// error, not the generic runtime trap div/mod would otherwise hit.
		return nil, resolveError(head, diagnostics.ErrTDivisionByZero)
	}
	return &hir.Call{CalleeName: name, Args: args, Ty: chosen.Result, IsPure: chosen.Arrow == ts.Pure}, nil
}

// isLiteralZero reports whether n is a literal numeric constant whose
// value is exactly zero - the only case spec.md §4.5 requires a divisor to
// be caught at compile time; a variable or computed expression that
// happens to evaluate to zero at runtime is not provable here and still
// traps via internal/wasmvm's runtime check.
func isLiteralZero(n hir.Node) bool {
	switch v := n.(type) {
	case *hir.IntLiteral:
		return v.Value == 0
	case *hir.FloatLiteral:
		return v.Value == 0
	}
	return false
}
