package typesystem

// IsSubtype implements spec.md §3's subtype relation: A <: B iff A = Never,
// A = B, or (structurally, for function types) contravariant in
// parameters, covariant in result, with equal arrow kinds.
func IsSubtype(a, b Type) bool {
	if _, ok := a.(Prim); ok {
		if a.(Prim) == Never {
			return true
		}
	}
	if Equal(a, b) {
		return true
	}
	fa, aok := a.(FuncType)
	fb, bok := b.(FuncType)
	if aok && bok {
		if fa.Arrow != fb.Arrow || len(fa.Params) != len(fb.Params) {
			return false
		}
		for i := range fa.Params {
			// contravariant: fb's param must be a subtype of fa's param.
			if !IsSubtype(fb.Params[i], fa.Params[i]) {
				return false
			}
		}
		return IsSubtype(fa.Result, fb.Result)
	}
	return false
}

// LCS computes the least-common-supertype of a set of types: Never
// occurrences are dropped; if exactly one distinct type remains it is
// returned, otherwise LCS fails (spec.md §3).
func LCS(types []Type) (Type, error) {
	var kept []Type
	for _, t := range types {
		if p, ok := t.(Prim); ok && p == Never {
			continue
		}
		kept = append(kept, t)
	}
	if len(kept) == 0 {
		return Never, nil
	}
	first := kept[0]
	for _, t := range kept[1:] {
		if !Equal(t, first) {
			return nil, &LCSError{Types: types}
		}
	}
	return first, nil
}

// LCSError reports that no least-common-supertype exists for a set of
// branch/arm types.
type LCSError struct {
	Types []Type
}

func (e *LCSError) Error() string {
	s := "no common type among: "
	for i, t := range e.Types {
		if i > 0 {
			s += ", "
		}
		s += t.String()
	}
	return s
}
