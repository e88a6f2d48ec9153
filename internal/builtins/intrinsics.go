package builtins

import ts "github.com/neknaj/neplg1/internal/typesystem"

// Intrinsic describes one host function the wasm module may import
// (spec.md §6). Module/Field give the two-level wasm import name; Sig
// gives the exact signature the compiler must use both when importing and
// when type-checking a call site.
type Intrinsic struct {
	Module string
	Field  string
	Sig    ts.FuncType
}

// FullName is the "module.field" spelling used in diagnostics and in the
// embedded interpreter's dispatch table.
func (i Intrinsic) FullName() string { return i.Module + "." + i.Field }

// intrinsics is keyed by the source-level identifier used to call the
// intrinsic (spec.md §6's three built-in hosts).
var intrinsics = map[string]Intrinsic{
	"wasm_pagesize": {
		Module: "env",
		Field:  "wasm_pagesize",
		Sig:    ts.FuncType{Params: nil, Result: ts.I32, Arrow: ts.Impure},
	},
	"wasi_random": {
		Module: "wasi_snapshot_preview1",
		Field:  "wasi_random",
		Sig:    ts.FuncType{Params: nil, Result: ts.I32, Arrow: ts.Impure},
	},
	"wasi_print": {
		Module: "wasi_snapshot_preview1",
		Field:  "wasi_print",
		Sig:    ts.FuncType{Params: []ts.Type{ts.I32}, Result: ts.I32, Arrow: ts.Impure},
	},
}

// LookupIntrinsic resolves a source identifier to its host signature.
func LookupIntrinsic(name string) (Intrinsic, bool) {
	i, ok := intrinsics[name]
	return i, ok
}

// IsIntrinsic reports whether name names a host intrinsic rather than a
// user/built-in overloaded function.
func IsIntrinsic(name string) bool {
	_, ok := intrinsics[name]
	return ok
}

// AllIntrinsics returns every registered intrinsic, ordered by the fixed
// iteration order callers need for deterministic import-section emission
// (codegen instead orders by first-reference position; this is only used
// by tests and --dump tooling).
func AllIntrinsics() []Intrinsic {
	out := make([]Intrinsic, 0, len(intrinsics))
	for _, i := range intrinsics {
		out = append(out, i)
	}
	return out
}
