package codegen

import "github.com/neknaj/neplg1/internal/wasmenc"

// directBinOps maps a builtin name and operand type key to the single wasm
// opcode that implements it directly - no runtime helper function needed.
var directBinOps = map[string]map[string]byte{
	"add": {"i32": wasmenc.OpI32Add, "i64": wasmenc.OpI64Add, "f32": wasmenc.OpF32Add, "f64": wasmenc.OpF64Add},
	"sub": {"i32": wasmenc.OpI32Sub, "i64": wasmenc.OpI64Sub, "f32": wasmenc.OpF32Sub, "f64": wasmenc.OpF64Sub},
	"mul": {"i32": wasmenc.OpI32Mul, "i64": wasmenc.OpI64Mul, "f32": wasmenc.OpF32Mul, "f64": wasmenc.OpF64Mul},
	"div": {"i32": wasmenc.OpI32DivS, "i64": wasmenc.OpI64DivS, "f32": wasmenc.OpF32Div, "f64": wasmenc.OpF64Div},
	"mod": {"i32": wasmenc.OpI32RemS, "i64": wasmenc.OpI64RemS},

	"lt": {"i32": wasmenc.OpI32LtS, "i64": wasmenc.OpI64LtS, "f32": wasmenc.OpF32Lt, "f64": wasmenc.OpF64Lt},
	"le": {"i32": wasmenc.OpI32LeS, "i64": wasmenc.OpI64LeS, "f32": wasmenc.OpF32Le, "f64": wasmenc.OpF64Le},
	"gt": {"i32": wasmenc.OpI32GtS, "i64": wasmenc.OpI64GtS, "f32": wasmenc.OpF32Gt, "f64": wasmenc.OpF64Gt},
	"ge": {"i32": wasmenc.OpI32GeS, "i64": wasmenc.OpI64GeS, "f32": wasmenc.OpF32Ge, "f64": wasmenc.OpF64Ge},
	"eq": {"i32": wasmenc.OpI32Eq, "i64": wasmenc.OpI64Eq, "f32": wasmenc.OpF32Eq, "f64": wasmenc.OpF64Eq},
	"ne": {"i32": wasmenc.OpI32Ne, "i64": wasmenc.OpI64Ne, "f32": wasmenc.OpF32Ne, "f64": wasmenc.OpF64Ne},

	"and": {"i32": wasmenc.OpI32And},
	"or":  {"i32": wasmenc.OpI32Or},
	"xor": {"i32": wasmenc.OpI32Xor},

	"bit_and": {"i32": wasmenc.OpI32And, "i64": wasmenc.OpI64And},
	"bit_or":  {"i32": wasmenc.OpI32Or, "i64": wasmenc.OpI64Or},
	"bit_xor": {"i32": wasmenc.OpI32Xor, "i64": wasmenc.OpI64Xor},
	"bit_shl": {"i32": wasmenc.OpI32Shl, "i64": wasmenc.OpI64Shl},
	"bit_shr": {"i32": wasmenc.OpI32ShrS, "i64": wasmenc.OpI64ShrS},
}

// directUnaryOps likewise maps single-operand builtins to a direct wasm
// encoding. `neg`, `not` and `bit_not` have no dedicated integer opcode,
// so they are synthesized as a short fixed instruction sequence instead of
// a full runtime helper function (see emitNeg and emitBitNot in
// codegen.go; `not` is an i32.xor with 1).
var directUnaryOps = map[string]bool{
	"neg":     true,
	"not":     true,
	"bit_not": true,
}

// runtimeHelperOps is every builtin that needs a generated wasm function
// (internal/codegen/runtime.go) because no wasm instruction computes it
// directly: factorial, gcd, lcm, and integer pow are all small loops;
// permutation/combination are expressed in terms of factorial.
var runtimeHelperOps = map[string]bool{
	"pow": true, "factorial": true, "gcd": true, "lcm": true,
	"permutation": true, "combination": true,
}
