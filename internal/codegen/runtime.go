package codegen

import "github.com/neknaj/neplg1/internal/wasmenc"

// helperOps bundles the handful of type-specific opcodes a generated
// runtime helper needs, so factorial/gcd/pow's shapes can be written once
// and instantiated for both integral types (spec.md §3 restricts
// factorial/gcd/lcm/pow/permutation/combination to i32/i64).
type helperOps struct {
	vt        wasmenc.ValType
	add, sub  byte
	mul, div  byte
	rem       byte
	ge, eqz   byte
	constOne  func(*wasmenc.Body)
	constZero func(*wasmenc.Body)
}

func opsFor(vt wasmenc.ValType) helperOps {
	if vt == wasmenc.I64 {
		return helperOps{
			vt: wasmenc.I64, add: wasmenc.OpI64Add, sub: wasmenc.OpI64Sub,
			mul: wasmenc.OpI64Mul, div: wasmenc.OpI64DivS, rem: wasmenc.OpI64RemS,
			ge: wasmenc.OpI64GeS, eqz: wasmenc.OpI64Eqz,
			constOne:  func(b *wasmenc.Body) { b.I64Const(1) },
			constZero: func(b *wasmenc.Body) { b.I64Const(0) },
		}
	}
	return helperOps{
		vt: wasmenc.I32, add: wasmenc.OpI32Add, sub: wasmenc.OpI32Sub,
		mul: wasmenc.OpI32Mul, div: wasmenc.OpI32DivS, rem: wasmenc.OpI32RemS,
		ge: wasmenc.OpI32GeS, eqz: wasmenc.OpI32Eqz,
		constOne:  func(b *wasmenc.Body) { b.I32Const(1) },
		constZero: func(b *wasmenc.Body) { b.I32Const(0) },
	}
}

// helperTable lazily builds and memoizes runtime helper functions, keyed
// by "name:typeKey", appending each to the module exactly once the first
// time it is needed.
type helperTable struct {
	c       *compiler
	indexOf map[string]uint32
}

func newHelperTable(c *compiler) *helperTable {
	return &helperTable{c: c, indexOf: map[string]uint32{}}
}

func (h *helperTable) get(name string, vt wasmenc.ValType, tk string) uint32 {
	key := name + ":" + tk
	if idx, ok := h.indexOf[key]; ok {
		return idx
	}
	ops := opsFor(vt)
	var fn wasmenc.Function
	switch name {
	case "factorial":
		fn = h.buildFactorial(ops)
	case "gcd":
		fn = h.buildGCD(ops)
	case "lcm":
		fn = h.buildLCM(ops, h.get("gcd", vt, tk))
	case "pow":
		fn = h.buildPow(ops)
	case "permutation":
		fn = h.buildPermutation(ops, h.get("factorial", vt, tk))
	case "combination":
		fn = h.buildCombination(ops, h.get("permutation", vt, tk), h.get("factorial", vt, tk))
	}
	h.c.module.Functions = append(h.c.module.Functions, fn)
	idx := h.c.nextFuncIndex()
	h.indexOf[key] = idx
	return idx
}

// buildFactorial computes n! with an accumulate-and-count loop: result=1,
// i=1; while i<=n { result *= i; i++ }.
func (h *helperTable) buildFactorial(ops helperOps) wasmenc.Function {
	const n, result, i = 0, 1, 2
	b := wasmenc.NewBody()
	ops.constOne(b)
	b.LocalSet(result)
	ops.constOne(b)
	b.LocalSet(i)
	b.Block(wasmenc.BlockVoid)
	b.Loop(wasmenc.BlockVoid)
	b.LocalGet(i)
	b.LocalGet(n)
	b.Op(greaterThan(ops))
	b.BrIf(1)
	b.LocalGet(result)
	b.LocalGet(i)
	b.Op(ops.mul)
	b.LocalSet(result)
	b.LocalGet(i)
	ops.constOne(b)
	b.Op(ops.add)
	b.LocalSet(i)
	b.Br(0)
	b.End()
	b.End()
	b.LocalGet(result)
	b.End()
	return wasmenc.Function{
		Type:   wasmenc.FuncType{Params: []wasmenc.ValType{ops.vt}, Results: []wasmenc.ValType{ops.vt}},
		Locals: []wasmenc.ValType{ops.vt, ops.vt},
		Body:   b.Bytes(),
	}
}

func greaterThan(ops helperOps) byte {
	if ops.vt == wasmenc.I64 {
		return wasmenc.OpI64GtS
	}
	return wasmenc.OpI32GtS
}

// buildGCD computes gcd(a, b) with the Euclidean algorithm:
// while b != 0 { t = b; b = a % b; a = t }.
func (h *helperTable) buildGCD(ops helperOps) wasmenc.Function {
	const a, b_, t = 0, 1, 2
	b := wasmenc.NewBody()
	b.Block(wasmenc.BlockVoid)
	b.Loop(wasmenc.BlockVoid)
	b.LocalGet(b_)
	b.Op(ops.eqz)
	b.BrIf(1)
	b.LocalGet(b_)
	b.LocalSet(t)
	b.LocalGet(a)
	b.LocalGet(b_)
	b.Op(ops.rem)
	b.LocalSet(b_)
	b.LocalGet(t)
	b.LocalSet(a)
	b.Br(0)
	b.End()
	b.End()
	b.LocalGet(a)
	b.End()
	return wasmenc.Function{
		Type:   wasmenc.FuncType{Params: []wasmenc.ValType{ops.vt, ops.vt}, Results: []wasmenc.ValType{ops.vt}},
		Locals: []wasmenc.ValType{ops.vt},
		Body:   b.Bytes(),
	}
}

// buildLCM computes lcm(a, b) = a / gcd(a, b) * b, delegating to the
// already-registered gcd helper.
func (h *helperTable) buildLCM(ops helperOps, gcdIdx uint32) wasmenc.Function {
	const a, b_, g = 0, 1, 2
	b := wasmenc.NewBody()
	b.LocalGet(a)
	b.LocalGet(b_)
	b.Call(gcdIdx)
	b.LocalSet(g)
	b.LocalGet(a)
	b.LocalGet(g)
	b.Op(ops.div)
	b.LocalGet(b_)
	b.Op(ops.mul)
	b.End()
	return wasmenc.Function{
		Type:   wasmenc.FuncType{Params: []wasmenc.ValType{ops.vt, ops.vt}, Results: []wasmenc.ValType{ops.vt}},
		Locals: []wasmenc.ValType{ops.vt},
		Body:   b.Bytes(),
	}
}

// buildPow computes base**exp for a non-negative exp via repeated
// multiplication: result=1, i=0; while i<exp { result *= base; i++ }.
func (h *helperTable) buildPow(ops helperOps) wasmenc.Function {
	const base, exp, result, i = 0, 1, 2, 3
	b := wasmenc.NewBody()
	ops.constOne(b)
	b.LocalSet(result)
	ops.constZero(b)
	b.LocalSet(i)
	b.Block(wasmenc.BlockVoid)
	b.Loop(wasmenc.BlockVoid)
	b.LocalGet(i)
	b.LocalGet(exp)
	b.Op(ops.ge)
	b.BrIf(1)
	b.LocalGet(result)
	b.LocalGet(base)
	b.Op(ops.mul)
	b.LocalSet(result)
	b.LocalGet(i)
	ops.constOne(b)
	b.Op(ops.add)
	b.LocalSet(i)
	b.Br(0)
	b.End()
	b.End()
	b.LocalGet(result)
	b.End()
	return wasmenc.Function{
		Type:   wasmenc.FuncType{Params: []wasmenc.ValType{ops.vt, ops.vt}, Results: []wasmenc.ValType{ops.vt}},
		Locals: []wasmenc.ValType{ops.vt, ops.vt},
		Body:   b.Bytes(),
	}
}

// buildPermutation computes nPr = n! / (n-r)!.
func (h *helperTable) buildPermutation(ops helperOps, factorialIdx uint32) wasmenc.Function {
	const n, r = 0, 1
	b := wasmenc.NewBody()
	b.LocalGet(n)
	b.Call(factorialIdx)
	b.LocalGet(n)
	b.LocalGet(r)
	b.Op(ops.sub)
	b.Call(factorialIdx)
	b.Op(ops.div)
	b.End()
	return wasmenc.Function{
		Type: wasmenc.FuncType{Params: []wasmenc.ValType{ops.vt, ops.vt}, Results: []wasmenc.ValType{ops.vt}},
		Body: b.Bytes(),
	}
}

// buildCombination computes nCr = nPr / r!.
func (h *helperTable) buildCombination(ops helperOps, permutationIdx, factorialIdx uint32) wasmenc.Function {
	const n, r = 0, 1
	b := wasmenc.NewBody()
	b.LocalGet(n)
	b.LocalGet(r)
	b.Call(permutationIdx)
	b.LocalGet(r)
	b.Call(factorialIdx)
	b.Op(ops.div)
	b.End()
	return wasmenc.Function{
		Type: wasmenc.FuncType{Params: []wasmenc.ValType{ops.vt, ops.vt}, Results: []wasmenc.ValType{ops.vt}},
		Body: b.Bytes(),
	}
}
