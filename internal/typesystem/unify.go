package typesystem

import "fmt"

// UnifyError reports that an actual argument type could not be unified
// against a (possibly polymorphic) parameter type.
type UnifyError struct {
	Actual   Type
	Expected Type
}

func (e *UnifyError) Error() string {
	return fmt.Sprintf("cannot unify %s with %s", e.Actual.String(), e.Expected.String())
}

// Unify attempts to make actual conform to expected, which may contain
// fresh type variables belonging to the overload candidate being tried
// (spec.md §4.4.1). Never is always compatible with any expected type.
// Where neither side is a variable and the two types are not structurally
// equal, Unify falls back to the subtype relation so a candidate whose
// parameter is, say, a supertype function type can still match.
func Unify(actual, expected Type) (Subst, error) {
	if p, ok := actual.(Prim); ok && p == Never {
		return Subst{}, nil
	}
	if tv, ok := expected.(TVar); ok {
		return Subst{tv.Name: actual}, nil
	}
	if tv, ok := actual.(TVar); ok {
		return Subst{tv.Name: expected}, nil
	}
	if Equal(actual, expected) {
		return Subst{}, nil
	}

	switch ex := expected.(type) {
	case VecType:
		if av, ok := actual.(VecType); ok {
			return Unify(av.Elem, ex.Elem)
		}
	case FuncType:
		if af, ok := actual.(FuncType); ok && len(af.Params) == len(ex.Params) && af.Arrow == ex.Arrow {
			s := Subst{}
			for i := range af.Params {
				// Contravariant position: unify expected's param against actual's.
				s2, err := Unify(ex.Params[i], af.Params[i])
				if err != nil {
					return nil, err
				}
				s = s2.Compose(s)
			}
			s2, err := Unify(af.Result.Apply(s), ex.Result.Apply(s))
			if err != nil {
				return nil, err
			}
			return s2.Compose(s), nil
		}
	}

	if IsSubtype(actual, expected) {
		return Subst{}, nil
	}
	return nil, &UnifyError{Actual: actual, Expected: expected}
}
