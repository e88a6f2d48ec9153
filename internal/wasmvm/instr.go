package wasmvm

import "fmt"

// Opcode constants, matching internal/wasmenc/instr.go exactly - this
// package never imports that one (decode and encode are kept
// independent so a bug in one can't mask the same bug in the other),
// but the two opcode tables must agree byte-for-byte.
const (
	opUnreachable = 0x00
	opBlock       = 0x02
	opLoop        = 0x03
	opIf          = 0x04
	opElse        = 0x05
	opEnd         = 0x0B
	opBr          = 0x0C
	opBrIf        = 0x0D
	opReturn      = 0x0F
	opCall        = 0x10
	opDrop        = 0x1A

	opLocalGet = 0x20
	opLocalSet = 0x21
	opLocalTee = 0x22

	opI32Const = 0x41
	opI64Const = 0x42
	opF32Const = 0x43
	opF64Const = 0x44

	opI32Eqz = 0x45
	opI32Eq  = 0x46
	opI32Ne  = 0x47
	opI32LtS = 0x48
	opI32GtS = 0x4A
	opI32LeS = 0x4C
	opI32GeS = 0x4E
	opI64Eqz = 0x50
	opI64Eq  = 0x51
	opI64Ne  = 0x52
	opI64LtS = 0x53
	opI64GtS = 0x55
	opI64LeS = 0x57
	opI64GeS = 0x59
	opF32Eq  = 0x5B
	opF32Ne  = 0x5C
	opF32Lt  = 0x5D
	opF32Gt  = 0x5E
	opF32Le  = 0x5F
	opF32Ge  = 0x60
	opF64Eq  = 0x61
	opF64Ne  = 0x62
	opF64Lt  = 0x63
	opF64Gt  = 0x64
	opF64Le  = 0x65
	opF64Ge  = 0x66

	opI32Add  = 0x6A
	opI32Sub  = 0x6B
	opI32Mul  = 0x6C
	opI32DivS = 0x6D
	opI32RemS = 0x6F
	opI32And  = 0x71
	opI32Or   = 0x72
	opI32Xor  = 0x73
	opI32Shl  = 0x74
	opI32ShrS = 0x75
	opI64Add  = 0x7C
	opI64Sub  = 0x7D
	opI64Mul  = 0x7E
	opI64DivS = 0x7F
	opI64RemS = 0x81
	opI64And  = 0x83
	opI64Or   = 0x84
	opI64Xor  = 0x85
	opI64Shl  = 0x86
	opI64ShrS = 0x87
	opF32Neg  = 0x8C
	opF32Add  = 0x92
	opF32Sub  = 0x93
	opF32Mul  = 0x94
	opF32Div  = 0x95
	opF64Neg  = 0x9A
	opF64Add  = 0xA0
	opF64Sub  = 0xA1
	opF64Mul  = 0xA2
	opF64Div  = 0xA3
)

const blockVoid = 0x40

// instr is one parsed instruction; Block/Loop/If additionally carry a
// nested instruction list (and, for If, an else list).
type instr struct {
	op         byte
	imm        int64  // local/func index, branch depth, or const value
	immU       uint32 // raw bits for f32 consts
	immU64     uint64 // raw bits for f64 consts
	resultType byte   // blockVoid or one of vtI32/.../vtF64 cast to byte
	body       []instr
	elseBody   []instr
}

func hasResult(rt byte) bool { return rt != blockVoid }

// parseInstrs reads a flat, already-nested instruction stream until it
// hits an End or Else at this nesting level, recursing into Block/Loop/If
// bodies as it goes. It returns which of the two terminated the run.
func parseInstrs(r *reader) ([]instr, byte, error) {
	var out []instr
	for {
		op, err := r.byte()
		if err != nil {
			return nil, 0, err
		}
		switch op {
		case opEnd, opElse:
			return out, op, nil
		case opBlock, opLoop, opIf:
			rt, err := r.byte()
			if err != nil {
				return nil, 0, err
			}
			body, term, err := parseInstrs(r)
			if err != nil {
				return nil, 0, err
			}
			in := instr{op: op, resultType: rt, body: body}
			if op == opIf && term == opElse {
				elseBody, term2, err := parseInstrs(r)
				if err != nil {
					return nil, 0, err
				}
				if term2 != opEnd {
					return nil, 0, fmt.Errorf("wasmvm: if/else missing terminal end")
				}
				in.elseBody = elseBody
			}
			out = append(out, in)
		case opBr, opBrIf, opCall, opLocalGet, opLocalSet, opLocalTee:
			v, err := r.uleb128()
			if err != nil {
				return nil, 0, err
			}
			out = append(out, instr{op: op, imm: int64(v)})
		case opI32Const:
			v, err := r.sleb128()
			if err != nil {
				return nil, 0, err
			}
			out = append(out, instr{op: op, imm: v})
		case opI64Const:
			v, err := r.sleb128()
			if err != nil {
				return nil, 0, err
			}
			out = append(out, instr{op: op, imm: v})
		case opF32Const:
			raw, err := r.bytes(4)
			if err != nil {
				return nil, 0, err
			}
			out = append(out, instr{op: op, immU: leU32(raw)})
		case opF64Const:
			raw, err := r.bytes(8)
			if err != nil {
				return nil, 0, err
			}
			out = append(out, instr{op: op, immU64: leU64(raw)})
		default:
			// Everything else (arithmetic/comparison/drop/return/
			// unreachable) has no immediate operand.
			out = append(out, instr{op: op})
		}
	}
}

func leU32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func leU64(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}
