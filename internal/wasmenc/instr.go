package wasmenc

// Opcode constants for the subset of WASM 1.0 instructions this compiler's
// codegen needs: control flow, locals, constants, and the arithmetic/
// comparison/bitwise/conversion ops behind the language's built-in
// overloads (spec.md §3's binaryOverloads/unaryOverloads table).
const (
	OpUnreachable = 0x00
	OpNop         = 0x01
	OpBlock       = 0x02
	OpLoop        = 0x03
	OpIf          = 0x04
	OpElse        = 0x05
	OpEnd         = 0x0B
	OpBr          = 0x0C
	OpBrIf        = 0x0D
	OpReturn      = 0x0F
	OpCall        = 0x10
	OpDrop        = 0x1A
	OpSelect      = 0x1B

	OpLocalGet = 0x20
	OpLocalSet = 0x21
	OpLocalTee = 0x22

	OpI32Const = 0x41
	OpI64Const = 0x42
	OpF32Const = 0x43
	OpF64Const = 0x44

	OpI32Eqz  = 0x45
	OpI32Eq   = 0x46
	OpI32Ne   = 0x47
	OpI32LtS  = 0x48
	OpI32GtS  = 0x4A
	OpI32LeS  = 0x4C
	OpI32GeS  = 0x4E
	OpI64Eqz  = 0x50
	OpI64Eq   = 0x51
	OpI64Ne   = 0x52
	OpI64LtS  = 0x53
	OpI64GtS  = 0x55
	OpI64LeS  = 0x57
	OpI64GeS  = 0x59
	OpF32Eq   = 0x5B
	OpF32Ne   = 0x5C
	OpF32Lt   = 0x5D
	OpF32Gt   = 0x5E
	OpF32Le   = 0x5F
	OpF32Ge   = 0x60
	OpF64Eq   = 0x61
	OpF64Ne   = 0x62
	OpF64Lt   = 0x63
	OpF64Gt   = 0x64
	OpF64Le   = 0x65
	OpF64Ge   = 0x66

	OpI32Clz    = 0x67
	OpI32Add    = 0x6A
	OpI32Sub    = 0x6B
	OpI32Mul    = 0x6C
	OpI32DivS   = 0x6D
	OpI32RemS   = 0x6F
	OpI32And    = 0x71
	OpI32Or     = 0x72
	OpI32Xor    = 0x73
	OpI32Shl    = 0x74
	OpI32ShrS   = 0x75
	OpI64Add    = 0x7C
	OpI64Sub    = 0x7D
	OpI64Mul    = 0x7E
	OpI64DivS   = 0x7F
	OpI64RemS   = 0x81
	OpI64And    = 0x83
	OpI64Or     = 0x84
	OpI64Xor    = 0x85
	OpI64Shl    = 0x86
	OpI64ShrS   = 0x87
	OpF32Abs    = 0x8B
	OpF32Neg    = 0x8C
	OpF32Add    = 0x92
	OpF32Sub    = 0x93
	OpF32Mul    = 0x94
	OpF32Div    = 0x95
	OpF64Abs    = 0x99
	OpF64Neg    = 0x9A
	OpF64Add    = 0xA0
	OpF64Sub    = 0xA1
	OpF64Mul    = 0xA2
	OpF64Div    = 0xA3

	OpI32WrapI64     = 0xA7
	OpI32TruncF32S   = 0xA8
	OpI32TruncF64S   = 0xAA
	OpI64ExtendI32S  = 0xAC
	OpI64TruncF32S   = 0xAE
	OpI64TruncF64S   = 0xB0
	OpF32ConvertI32S = 0xB2
	OpF32ConvertI64S = 0xB4
	OpF32DemoteF64   = 0xB6
	OpF64ConvertI32S = 0xB7
	OpF64ConvertI64S = 0xB9
	OpF64PromoteF32  = 0xBB
)

// BlockType byte: 0x40 is the empty/void block type. This compiler gives
// every structured control instruction an explicit result type or the
// empty type - it never needs the multi-value extension.
const BlockVoid = 0x40

// Body is an append-only instruction stream builder for one function.
type Body struct {
	E *Encoder
}

// NewBody starts a fresh function body encoder.
func NewBody() *Body { return &Body{E: New()} }

func (b *Body) op(code byte)         { b.E.Byte(code) }
func (b *Body) LocalGet(idx uint32)  { b.op(OpLocalGet); b.E.ULEB128(uint64(idx)) }
func (b *Body) LocalSet(idx uint32)  { b.op(OpLocalSet); b.E.ULEB128(uint64(idx)) }
func (b *Body) LocalTee(idx uint32)  { b.op(OpLocalTee); b.E.ULEB128(uint64(idx)) }
func (b *Body) Call(funcIdx uint32)  { b.op(OpCall); b.E.ULEB128(uint64(funcIdx)) }
func (b *Body) I32Const(v int32)     { b.op(OpI32Const); b.E.SLEB128(int64(v)) }
func (b *Body) I64Const(v int64)     { b.op(OpI64Const); b.E.SLEB128(v) }
func (b *Body) F32Const(bits uint32) { b.op(OpF32Const); b.E.U32LE(bits) }
func (b *Body) F64Const(bits uint64) {
	b.op(OpF64Const)
	b.E.Bytes([]byte{
		byte(bits), byte(bits >> 8), byte(bits >> 16), byte(bits >> 24),
		byte(bits >> 32), byte(bits >> 40), byte(bits >> 48), byte(bits >> 56),
	})
}
func (b *Body) Op(code byte)    { b.op(code) }
func (b *Body) Drop()           { b.op(OpDrop) }
func (b *Body) Return()         { b.op(OpReturn) }
func (b *Body) Unreachable()    { b.op(OpUnreachable) }
func (b *Body) End()            { b.op(OpEnd) }

// Block/Loop/If take a single block-type byte: BlockVoid, or one of
// I32/I64/F32/F64 cast to byte for a one-result block.
func (b *Body) Block(resultType byte) { b.op(OpBlock); b.E.Byte(resultType) }
func (b *Body) Loop(resultType byte)  { b.op(OpLoop); b.E.Byte(resultType) }
func (b *Body) If(resultType byte)    { b.op(OpIf); b.E.Byte(resultType) }
func (b *Body) Else()                 { b.op(OpElse) }
func (b *Body) Br(depth uint32)       { b.op(OpBr); b.E.ULEB128(uint64(depth)) }
func (b *Body) BrIf(depth uint32)     { b.op(OpBrIf); b.E.ULEB128(uint64(depth)) }

// Bytes returns the finished, unbounded instruction stream - the caller is
// responsible for a trailing End() before handing this to wasmenc.Function.
func (b *Body) Bytes() []byte { return b.E.Bytes_() }
