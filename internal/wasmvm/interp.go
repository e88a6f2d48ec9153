package wasmvm

import "fmt"

// Value is a tagged wasm numeric value. Only the field matching T is
// meaningful.
type Value struct {
	T                    valType
	i32                  int32
	i64                  int64
	f32                  float32
	f64                  float64
}

func vi32(v int32) Value   { return Value{T: vtI32, i32: v} }
func vi64(v int64) Value   { return Value{T: vtI64, i64: v} }
func vf32(v float32) Value { return Value{T: vtF32, f32: v} }
func vf64(v float64) Value { return Value{T: vtF64, f64: v} }

func vbool(b bool) Value {
	if b {
		return vi32(1)
	}
	return vi32(0)
}

// AsI32 and friends expose a Value's payload to callers (tests mostly).
func (v Value) AsI32() int32   { return v.i32 }
func (v Value) AsI64() int64   { return v.i64 }
func (v Value) AsF32() float32 { return v.f32 }
func (v Value) AsF64() float64 { return v.f64 }

// String renders a Value the way a CLI printing a top-level result
// would want it to look, regardless of which of the four wasm numeric
// types it holds.
func (v Value) String() string {
	switch v.T {
	case vtI64:
		return fmt.Sprintf("%d", v.i64)
	case vtF32:
		return fmt.Sprintf("%g", v.f32)
	case vtF64:
		return fmt.Sprintf("%g", v.f64)
	default:
		return fmt.Sprintf("%d", v.i32)
	}
}

func zeroValue(t valType) Value {
	switch t {
	case vtI64:
		return vi64(0)
	case vtF32:
		return vf32(0)
	case vtF64:
		return vf64(0)
	default:
		return vi32(0)
	}
}

// HostFunc is a host import's implementation, keyed by "module.field" in
// the map passed to Run.
type HostFunc func(args []Value) ([]Value, error)

// signal describes how a nested instruction run ended: by falling off
// the end (sigNone), by an explicit br/br_if targeting an enclosing
// construct `depth` levels up (sigBranch), or by a return (sigReturn).
type signal int

const (
	sigNone signal = iota
	sigBranch
	sigReturn
)

type vm struct {
	mod  *module
	host map[string]HostFunc
}

type frame struct {
	locals []Value
	stack  []Value
}

// Run decodes a wasm binary produced by internal/wasmenc, invokes the
// named export with no arguments, and returns its result values.
func Run(wasmBytes []byte, exportName string, host map[string]HostFunc) ([]Value, error) {
	mod, err := decodeModule(wasmBytes)
	if err != nil {
		return nil, err
	}
	idx, ok := mod.Exports[exportName]
	if !ok {
		return nil, fmt.Errorf("wasmvm: no export named %q", exportName)
	}
	v := &vm{mod: mod, host: host}
	return v.call(idx, nil)
}

func (v *vm) call(idx uint32, args []Value) ([]Value, error) {
	if int(idx) < len(v.mod.Imports) {
		imp := v.mod.Imports[idx]
		key := imp.Module + "." + imp.Field
		fn, ok := v.host[key]
		if !ok {
			return nil, fmt.Errorf("wasmvm: no host implementation for import %s", key)
		}
		return fn(args)
	}
	fn := v.mod.Functions[int(idx)-len(v.mod.Imports)]

	locals := make([]Value, 0, len(fn.Type.Params)+len(fn.Locals))
	locals = append(locals, args...)
	for _, t := range fn.Locals {
		locals = append(locals, zeroValue(t))
	}

	fr := &frame{locals: locals}
	sig, _, err := v.exec(fr, fn.Code)
	if err != nil {
		return nil, err
	}
	if sig == sigBranch {
		return nil, fmt.Errorf("wasmvm: branch escaped function body")
	}
	arity := len(fn.Type.Results)
	if len(fr.stack) < arity {
		return nil, fmt.Errorf("wasmvm: function produced %d values, wanted %d", len(fr.stack), arity)
	}
	return append([]Value(nil), fr.stack[len(fr.stack)-arity:]...), nil
}

// exec runs a flat instruction list against the frame's shared operand
// stack, recursing into Block/Loop/If bodies. It returns how control
// left this list: sigNone (ran off the end), sigBranch with the
// remaining depth to propagate to an enclosing construct, or sigReturn.
func (v *vm) exec(fr *frame, code []instr) (signal, int, error) {
	for _, in := range code {
		switch in.op {
		case opUnreachable:
			return 0, 0, fmt.Errorf("wasmvm: unreachable instruction executed")
		case opDrop:
			fr.stack = fr.stack[:len(fr.stack)-1]
		case opReturn:
			return sigReturn, 0, nil
		case opLocalGet:
			fr.stack = append(fr.stack, fr.locals[in.imm])
		case opLocalSet:
			fr.locals[in.imm] = fr.pop()
		case opLocalTee:
			fr.locals[in.imm] = fr.top()
		case opI32Const:
			fr.stack = append(fr.stack, vi32(int32(in.imm)))
		case opI64Const:
			fr.stack = append(fr.stack, vi64(in.imm))
		case opF32Const:
			fr.stack = append(fr.stack, vf32(bitsToF32(in.immU)))
		case opF64Const:
			fr.stack = append(fr.stack, vf64(bitsToF64(in.immU64)))
		case opCall:
			callee := v.mod.funcTypeOf(uint32(in.imm))
			argc := len(callee.Params)
			args := append([]Value(nil), fr.stack[len(fr.stack)-argc:]...)
			fr.stack = fr.stack[:len(fr.stack)-argc]
			results, err := v.call(uint32(in.imm), args)
			if err != nil {
				return 0, 0, err
			}
			fr.stack = append(fr.stack, results...)
		case opBr:
			return sigBranch, int(in.imm), nil
		case opBrIf:
			if fr.pop().i32 != 0 {
				return sigBranch, int(in.imm), nil
			}
		case opBlock:
			sig, depth, err := v.execStructured(fr, in.body, in.resultType)
			if err != nil {
				return 0, 0, err
			}
			if sig == sigBranch {
				return sigBranch, depth, nil
			}
			if sig == sigReturn {
				return sigReturn, 0, nil
			}
		case opLoop:
			sig, depth, err := v.execLoop(fr, in.body)
			if err != nil {
				return 0, 0, err
			}
			if sig == sigBranch {
				return sigBranch, depth, nil
			}
			if sig == sigReturn {
				return sigReturn, 0, nil
			}
		case opIf:
			cond := fr.pop()
			branch := in.elseBody
			if cond.i32 != 0 {
				branch = in.body
			}
			sig, depth, err := v.execStructured(fr, branch, in.resultType)
			if err != nil {
				return 0, 0, err
			}
			if sig == sigBranch {
				return sigBranch, depth, nil
			}
			if sig == sigReturn {
				return sigReturn, 0, nil
			}
		default:
			if err := v.execNumeric(fr, in.op); err != nil {
				return 0, 0, err
			}
		}
	}
	return sigNone, 0, nil
}

// execStructured runs a Block or an If-branch: a construct that, when
// targeted by a branch depth of 0, exits normally carrying exactly
// resultType's arity of values (everything else pushed inside the
// construct before the branch is discarded, matching wasm's stack
// polymorphism at a branch site).
func (v *vm) execStructured(fr *frame, body []instr, resultType byte) (signal, int, error) {
	entry := len(fr.stack)
	sig, depth, err := v.exec(fr, body)
	if err != nil {
		return 0, 0, err
	}
	if sig == sigBranch && depth == 0 {
		v.truncateToArity(fr, entry, resultType)
		return sigNone, 0, nil
	}
	if sig == sigBranch {
		return sigBranch, depth - 1, nil
	}
	return sig, 0, nil
}

// execLoop runs a Loop body, restarting it whenever a branch targets
// depth 0 (the continue case) instead of exiting - a loop only ends by
// falling off the end of its body or by a branch that targets an
// enclosing construct.
func (v *vm) execLoop(fr *frame, body []instr) (signal, int, error) {
	for {
		sig, depth, err := v.exec(fr, body)
		if err != nil {
			return 0, 0, err
		}
		if sig == sigBranch && depth == 0 {
			continue
		}
		if sig == sigBranch {
			return sigBranch, depth - 1, nil
		}
		return sig, 0, nil
	}
}

func (v *vm) truncateToArity(fr *frame, entry int, resultType byte) {
	if !hasResult(resultType) {
		fr.stack = fr.stack[:entry]
		return
	}
	top := fr.stack[len(fr.stack)-1]
	fr.stack = append(fr.stack[:entry], top)
}

func (f *frame) pop() Value {
	v := f.stack[len(f.stack)-1]
	f.stack = f.stack[:len(f.stack)-1]
	return v
}

func (f *frame) top() Value { return f.stack[len(f.stack)-1] }

func (m *module) funcTypeOf(idx uint32) funcType {
	if int(idx) < len(m.Imports) {
		return m.Imports[idx].Type
	}
	return m.Functions[int(idx)-len(m.Imports)].Type
}
