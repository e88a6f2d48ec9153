// Package builtins is the single source of truth for the language's
// built-in operator overload table and host-intrinsic signatures
// (spec.md §4.3), grounded on the teacher corpus's "one table, generated
// everything else from it" convention (see internal/config/operators.go in
// the reference corpus).
package builtins

import (
	ts "github.com/neknaj/neplg1/internal/typesystem"
)

// Overload is one entry of an overloaded name: (param_types[], result_type,
// arrow_kind, name) per spec.md §3.
type Overload struct {
	Name   string
	Params []ts.Type
	Result ts.Type
	Arrow  ts.Arrow
}

func (o Overload) Arity() int { return len(o.Params) }

func (o Overload) FuncType() ts.FuncType {
	return ts.FuncType{Params: o.Params, Result: o.Result, Arrow: o.Arrow}
}

var numeric = []ts.Type{ts.I32, ts.I64, ts.F32, ts.F64}
var integral = []ts.Type{ts.I32, ts.I64}

func binaryOverloads(name string, types []ts.Type, result func(ts.Type) ts.Type) []Overload {
	var out []Overload
	for _, t := range types {
		out = append(out, Overload{Name: name, Params: []ts.Type{t, t}, Result: result(t), Arrow: ts.Pure})
	}
	return out
}

func unaryOverloads(name string, types []ts.Type, result func(ts.Type) ts.Type) []Overload {
	var out []Overload
	for _, t := range types {
		out = append(out, Overload{Name: name, Params: []ts.Type{t}, Result: result(t), Arrow: ts.Pure})
	}
	return out
}

func same(t ts.Type) ts.Type  { return t }
func toBool(ts.Type) ts.Type  { return ts.Bool }

// table is the name -> candidate-list map built once at process start and
// never mutated thereafter (spec.md §5).
var table map[string][]Overload

func init() {
	table = map[string][]Overload{}
	add := func(ovs ...Overload) {
		for _, o := range ovs {
			table[o.Name] = append(table[o.Name], o)
		}
	}

	// Arithmetic
	add(binaryOverloads("add", numeric, same)...)
	add(binaryOverloads("sub", numeric, same)...)
	add(binaryOverloads("mul", numeric, same)...)
	add(binaryOverloads("div", numeric, same)...)
	add(binaryOverloads("mod", integral, same)...)
	add(binaryOverloads("pow", numeric, same)...)
	add(unaryOverloads("neg", numeric, same)...)

	// Comparison
	add(binaryOverloads("lt", numeric, toBool)...)
	add(binaryOverloads("le", numeric, toBool)...)
	add(binaryOverloads("gt", numeric, toBool)...)
	add(binaryOverloads("ge", numeric, toBool)...)
	add(binaryOverloads("eq", numeric, toBool)...)
	add(binaryOverloads("ne", numeric, toBool)...)
	add(Overload{Name: "eq", Params: []ts.Type{ts.Bool, ts.Bool}, Result: ts.Bool, Arrow: ts.Pure})
	add(Overload{Name: "ne", Params: []ts.Type{ts.Bool, ts.Bool}, Result: ts.Bool, Arrow: ts.Pure})
	add(Overload{Name: "eq", Params: []ts.Type{ts.String, ts.String}, Result: ts.Bool, Arrow: ts.Pure})
	add(Overload{Name: "ne", Params: []ts.Type{ts.String, ts.String}, Result: ts.Bool, Arrow: ts.Pure})

	// Logic
	add(Overload{Name: "and", Params: []ts.Type{ts.Bool, ts.Bool}, Result: ts.Bool, Arrow: ts.Pure})
	add(Overload{Name: "or", Params: []ts.Type{ts.Bool, ts.Bool}, Result: ts.Bool, Arrow: ts.Pure})
	add(Overload{Name: "xor", Params: []ts.Type{ts.Bool, ts.Bool}, Result: ts.Bool, Arrow: ts.Pure})
	add(Overload{Name: "not", Params: []ts.Type{ts.Bool}, Result: ts.Bool, Arrow: ts.Pure})

	// Bitwise
	add(binaryOverloads("bit_and", integral, same)...)
	add(binaryOverloads("bit_or", integral, same)...)
	add(binaryOverloads("bit_xor", integral, same)...)
	add(unaryOverloads("bit_not", integral, same)...)
	add(binaryOverloads("bit_shl", integral, same)...)
	add(binaryOverloads("bit_shr", integral, same)...)

	// Combinatorics
	add(binaryOverloads("permutation", integral, same)...)
	add(binaryOverloads("combination", integral, same)...)
	add(binaryOverloads("gcd", integral, same)...)
	add(binaryOverloads("lcm", integral, same)...)
	add(unaryOverloads("factorial", integral, same)...)

	// String / vector operators
	add(Overload{Name: "concat", Params: []ts.Type{ts.String, ts.String}, Result: ts.String, Arrow: ts.Pure})
	add(Overload{Name: "concat", Params: []ts.Type{ts.VecType{Elem: ts.TVar{Name: "T"}}, ts.VecType{Elem: ts.TVar{Name: "T"}}}, Result: ts.VecType{Elem: ts.TVar{Name: "T"}}, Arrow: ts.Pure})
	add(Overload{Name: "get", Params: []ts.Type{ts.VecType{Elem: ts.TVar{Name: "T"}}, ts.I32}, Result: ts.TVar{Name: "T"}, Arrow: ts.Pure})
	add(Overload{Name: "push", Params: []ts.Type{ts.VecType{Elem: ts.TVar{Name: "T"}}, ts.TVar{Name: "T"}}, Result: ts.VecType{Elem: ts.TVar{Name: "T"}}, Arrow: ts.Pure})
	add(Overload{Name: "pop", Params: []ts.Type{ts.VecType{Elem: ts.TVar{Name: "T"}}}, Result: ts.VecType{Elem: ts.TVar{Name: "T"}}, Arrow: ts.Pure})
	add(Overload{Name: "len", Params: []ts.Type{ts.VecType{Elem: ts.TVar{Name: "T"}}}, Result: ts.I32, Arrow: ts.Pure})
	add(Overload{Name: "len", Params: []ts.Type{ts.String}, Result: ts.I32, Arrow: ts.Pure})
}

// Lookup returns the candidate overloads for name, ordered by descending
// arity so frame construction can start from the widest candidate set
// (spec.md §4.4's frame definition).
func Lookup(name string) ([]Overload, bool) {
	ovs, ok := table[name]
	if !ok {
		return nil, false
	}
	out := make([]Overload, len(ovs))
	copy(out, ovs)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Arity() > out[j-1].Arity(); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, true
}

// IsFunctionCapable reports whether name has at least one overload, i.e. is
// a candidate head of a frame under the frame-stack algorithm.
func IsFunctionCapable(name string) bool {
	_, ok := table[name]
	return ok
}

// AllNames returns every overloaded built-in name, for diagnostics/tests.
func AllNames() []string {
	names := make([]string, 0, len(table))
	for n := range table {
		names = append(names, n)
	}
	return names
}
