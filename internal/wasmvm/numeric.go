package wasmvm

import "fmt"

// execNumeric performs every arithmetic/comparison/eqz opcode codegen
// emits. Each case pops its own operands off the frame's shared stack
// and pushes exactly one result, matching the wasm stack signature for
// that instruction.
func (v *vm) execNumeric(fr *frame, op byte) error {
	switch op {
	case opI32Eqz:
		a := fr.pop()
		fr.stack = append(fr.stack, vbool(a.i32 == 0))
	case opI64Eqz:
		a := fr.pop()
		fr.stack = append(fr.stack, vbool(a.i64 == 0))

	case opI32Eq, opI32Ne, opI32LtS, opI32GtS, opI32LeS, opI32GeS:
		b, a := fr.pop(), fr.pop()
		fr.stack = append(fr.stack, vbool(compareI32(op, a.i32, b.i32)))
	case opI64Eq, opI64Ne, opI64LtS, opI64GtS, opI64LeS, opI64GeS:
		b, a := fr.pop(), fr.pop()
		fr.stack = append(fr.stack, vbool(compareI64(op, a.i64, b.i64)))
	case opF32Eq, opF32Ne, opF32Lt, opF32Gt, opF32Le, opF32Ge:
		b, a := fr.pop(), fr.pop()
		fr.stack = append(fr.stack, vbool(compareF32(op, a.f32, b.f32)))
	case opF64Eq, opF64Ne, opF64Lt, opF64Gt, opF64Le, opF64Ge:
		b, a := fr.pop(), fr.pop()
		fr.stack = append(fr.stack, vbool(compareF64(op, a.f64, b.f64)))

	case opI32Add, opI32Sub, opI32Mul, opI32DivS, opI32RemS, opI32And, opI32Or, opI32Xor, opI32Shl, opI32ShrS:
		b, a := fr.pop(), fr.pop()
		r, err := arithI32(op, a.i32, b.i32)
		if err != nil {
			return err
		}
		fr.stack = append(fr.stack, vi32(r))
	case opI64Add, opI64Sub, opI64Mul, opI64DivS, opI64RemS, opI64And, opI64Or, opI64Xor, opI64Shl, opI64ShrS:
		b, a := fr.pop(), fr.pop()
		r, err := arithI64(op, a.i64, b.i64)
		if err != nil {
			return err
		}
		fr.stack = append(fr.stack, vi64(r))

	case opF32Add, opF32Sub, opF32Mul, opF32Div:
		b, a := fr.pop(), fr.pop()
		fr.stack = append(fr.stack, vf32(arithF32(op, a.f32, b.f32)))
	case opF64Add, opF64Sub, opF64Mul, opF64Div:
		b, a := fr.pop(), fr.pop()
		fr.stack = append(fr.stack, vf64(arithF64(op, a.f64, b.f64)))
	case opF32Neg:
		a := fr.pop()
		fr.stack = append(fr.stack, vf32(-a.f32))
	case opF64Neg:
		a := fr.pop()
		fr.stack = append(fr.stack, vf64(-a.f64))

	default:
		return fmt.Errorf("wasmvm: unsupported opcode 0x%02X", op)
	}
	return nil
}

func compareI32(op byte, a, b int32) bool {
	switch op {
	case opI32Eq:
		return a == b
	case opI32Ne:
		return a != b
	case opI32LtS:
		return a < b
	case opI32GtS:
		return a > b
	case opI32LeS:
		return a <= b
	case opI32GeS:
		return a >= b
	}
	return false
}

func compareI64(op byte, a, b int64) bool {
	switch op {
	case opI64Eq:
		return a == b
	case opI64Ne:
		return a != b
	case opI64LtS:
		return a < b
	case opI64GtS:
		return a > b
	case opI64LeS:
		return a <= b
	case opI64GeS:
		return a >= b
	}
	return false
}

func compareF32(op byte, a, b float32) bool {
	switch op {
	case opF32Eq:
		return a == b
	case opF32Ne:
		return a != b
	case opF32Lt:
		return a < b
	case opF32Gt:
		return a > b
	case opF32Le:
		return a <= b
	case opF32Ge:
		return a >= b
	}
	return false
}

func compareF64(op byte, a, b float64) bool {
	switch op {
	case opF64Eq:
		return a == b
	case opF64Ne:
		return a != b
	case opF64Lt:
		return a < b
	case opF64Gt:
		return a > b
	case opF64Le:
		return a <= b
	case opF64Ge:
		return a >= b
	}
	return false
}

func arithI32(op byte, a, b int32) (int32, error) {
	switch op {
	case opI32Add:
		return a + b, nil
	case opI32Sub:
		return a - b, nil
	case opI32Mul:
		return a * b, nil
	case opI32DivS:
		if b == 0 {
			return 0, fmt.Errorf("wasmvm: integer division by zero")
		}
		return a / b, nil
	case opI32RemS:
		if b == 0 {
			return 0, fmt.Errorf("wasmvm: integer division by zero")
		}
		return a % b, nil
	case opI32And:
		return a & b, nil
	case opI32Or:
		return a | b, nil
	case opI32Xor:
		return a ^ b, nil
	case opI32Shl:
		return a << (uint32(b) & 31), nil
	case opI32ShrS:
		return a >> (uint32(b) & 31), nil
	}
	return 0, fmt.Errorf("wasmvm: unreachable i32 arith opcode")
}

func arithI64(op byte, a, b int64) (int64, error) {
	switch op {
	case opI64Add:
		return a + b, nil
	case opI64Sub:
		return a - b, nil
	case opI64Mul:
		return a * b, nil
	case opI64DivS:
		if b == 0 {
			return 0, fmt.Errorf("wasmvm: integer division by zero")
		}
		return a / b, nil
	case opI64RemS:
		if b == 0 {
			return 0, fmt.Errorf("wasmvm: integer division by zero")
		}
		return a % b, nil
	case opI64And:
		return a & b, nil
	case opI64Or:
		return a | b, nil
	case opI64Xor:
		return a ^ b, nil
	case opI64Shl:
		return a << (uint64(b) & 63), nil
	case opI64ShrS:
		return a >> (uint64(b) & 63), nil
	}
	return 0, fmt.Errorf("wasmvm: unreachable i64 arith opcode")
}

func arithF32(op byte, a, b float32) float32 {
	switch op {
	case opF32Add:
		return a + b
	case opF32Sub:
		return a - b
	case opF32Mul:
		return a * b
	case opF32Div:
		return a / b
	}
	return 0
}

func arithF64(op byte, a, b float64) float64 {
	switch op {
	case opF64Add:
		return a + b
	case opF64Sub:
		return a - b
	case opF64Mul:
		return a * b
	case opF64Div:
		return a / b
	}
	return 0
}
