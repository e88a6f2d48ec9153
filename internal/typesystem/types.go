// Package typesystem implements the closed value-type universe (spec.md
// §3): i32/i64/f32/f64/Bool/Unit/Never/Vec[T]/String plus function types,
// the subtype relation with Never as bottom, and least-common-supertype.
package typesystem

import (
	"fmt"
	"strings"
)

// Type is implemented by every member of the closed type universe plus
// type variables, which exist only transiently during overload resolution
// (spec.md §4.4.1) - no Type that escapes resolution still contains one.
type Type interface {
	String() string
	Apply(Subst) Type
	FreeTypeVariables() []TVar
}

// Arrow is the purity label on a function type.
type Arrow int

const (
	Impure Arrow = iota
	Pure
)

func (a Arrow) String() string {
	if a == Pure {
		return "pure"
	}
	return "impure"
}

// Prim is one of the scalar/sentinel members of the universe: i32, i64,
// f32, f64, Bool, Unit, Never, String.
type Prim struct{ Name string }

func (p Prim) String() string                 { return p.Name }
func (p Prim) Apply(Subst) Type                { return p }
func (p Prim) FreeTypeVariables() []TVar       { return nil }

var (
	I32    = Prim{"i32"}
	I64    = Prim{"i64"}
	F32    = Prim{"f32"}
	F64    = Prim{"f64"}
	Bool   = Prim{"Bool"}
	Unit   = Prim{"Unit"}
	Never  = Prim{"Never"}
	String = Prim{"String"}
)

// typeAliases resolves the Int/Float spelling mentioned in spec.md §9's
// Open Question to their concrete forms.
var typeAliases = map[string]Type{
	"Int":   I32,
	"Float": F64,
}

// byName is the closed set of type names recognized at the lexical
// position a type name is expected (spec.md §4.2's "type-name lexical
// class"). Vec is handled separately because it is parametric.
var byName = map[string]Type{
	"i32": I32, "i64": I64, "f32": F32, "f64": F64,
	"Bool": Bool, "Unit": Unit, "Never": Never, "String": String,
}

// Lookup resolves a bare type name (as it would appear in source) to a
// concrete Type. Vec[T] is not handled here - its bracketed element type
// requires parser support and is constructed directly as a VecType.
func Lookup(name string) (Type, bool) {
	if t, ok := byName[name]; ok {
		return t, true
	}
	if t, ok := typeAliases[name]; ok {
		return t, true
	}
	return nil, false
}

// IsTypeName reports whether name is a recognized type-name token, which is
// what the parser consults to disambiguate a type_annotation from a bare
// expression (spec.md §4.2).
func IsTypeName(name string) bool {
	if _, ok := byName[name]; ok {
		return true
	}
	if _, ok := typeAliases[name]; ok {
		return true
	}
	return name == "Vec"
}

// ParseSpelling resolves a full type spelling as the parser assembles it
// token-by-token, including the bracketed form "Vec[<spelling>]" that a
// bare name lookup cannot express.
func ParseSpelling(spelling string) (Type, bool) {
	if strings.HasPrefix(spelling, "Vec[") && strings.HasSuffix(spelling, "]") {
		inner := spelling[len("Vec[") : len(spelling)-1]
		elem, ok := ParseSpelling(inner)
		if !ok {
			return nil, false
		}
		return VecType{Elem: elem}, true
	}
	return Lookup(spelling)
}

// VecType is the ordered sequence type Vec[T].
type VecType struct{ Elem Type }

func (v VecType) String() string           { return fmt.Sprintf("Vec[%s]", v.Elem.String()) }
func (v VecType) Apply(s Subst) Type       { return VecType{Elem: v.Elem.Apply(s)} }
func (v VecType) FreeTypeVariables() []TVar { return v.Elem.FreeTypeVariables() }

// FuncType carries a tuple of parameter types, a result type, and an arrow
// kind (spec.md §3).
type FuncType struct {
	Params []Type
	Result Type
	Arrow  Arrow
}

func (f FuncType) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	arrow := "->"
	if f.Arrow == Pure {
		arrow = "*>"
	}
	return fmt.Sprintf("(%s) %s %s", strings.Join(parts, ", "), arrow, f.Result.String())
}

func (f FuncType) Apply(s Subst) Type {
	params := make([]Type, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Apply(s)
	}
	return FuncType{Params: params, Result: f.Result.Apply(s), Arrow: f.Arrow}
}

func (f FuncType) FreeTypeVariables() []TVar {
	var vars []TVar
	for _, p := range f.Params {
		vars = append(vars, p.FreeTypeVariables()...)
	}
	vars = append(vars, f.Result.FreeTypeVariables()...)
	return uniqueVars(vars)
}

// TVar is a type variable, used only inside polymorphic overload entries
// (e.g. `len : (Vec[T]) -> i32`) before call-site instantiation.
type TVar struct{ Name string }

func (t TVar) String() string { return t.Name }

func (t TVar) Apply(s Subst) Type {
	if repl, ok := s[t.Name]; ok {
		if tv, ok := repl.(TVar); ok && tv.Name == t.Name {
			return t
		}
		return repl.Apply(s)
	}
	return t
}

func (t TVar) FreeTypeVariables() []TVar { return []TVar{t} }

// Subst maps type-variable names to concrete (or partially concrete) Types.
type Subst map[string]Type

// Compose returns the substitution equivalent to applying s1 after s2.
func (s1 Subst) Compose(s2 Subst) Subst {
	out := Subst{}
	for k, v := range s2 {
		out[k] = v
	}
	for k, v := range s1 {
		out[k] = v.Apply(s2)
	}
	return out
}

func uniqueVars(vars []TVar) []TVar {
	seen := map[string]bool{}
	var out []TVar
	for _, v := range vars {
		if !seen[v.Name] {
			seen[v.Name] = true
			out = append(out, v)
		}
	}
	return out
}

// Equal reports structural equality (not subtyping).
func Equal(a, b Type) bool {
	return a.String() == b.String()
}
