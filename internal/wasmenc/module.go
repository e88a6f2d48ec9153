package wasmenc

// ValType is one of WASM's four numeric value types - the only types this
// language's closed type universe needs (Bool lowers to i32 and Unit to no
// value at all; Vec/String have no wasm representation, and
// internal/codegen rejects them).
type ValType byte

const (
	I32 ValType = 0x7F
	I64 ValType = 0x7E
	F32 ValType = 0x7D
	F64 ValType = 0x7C
)

const funcTypeForm = 0x60

// Section ids, in the fixed order the binary format requires them to
// appear (when present at all).
const (
	secType     = 1
	secImport   = 2
	secFunction = 3
	secMemory   = 5
	secExport   = 7
	secCode     = 10
)

const (
	exportKindFunc = 0x00
	importKindFunc = 0x00
)

// FuncType is a function signature: zero or more parameter types and at
// most one result (this language's functions are single-result, per
// spec.md §3's closed type universe).
type FuncType struct {
	Params  []ValType
	Results []ValType
}

func (f FuncType) equal(o FuncType) bool {
	if len(f.Params) != len(o.Params) || len(f.Results) != len(o.Results) {
		return false
	}
	for i := range f.Params {
		if f.Params[i] != o.Params[i] {
			return false
		}
	}
	for i := range f.Results {
		if f.Results[i] != o.Results[i] {
			return false
		}
	}
	return true
}

// Import is a single imported function (spec.md §6's host intrinsics all
// import as functions - no table/memory/global imports are needed).
type Import struct {
	Module string
	Field  string
	Type   FuncType
}

// Function is one function defined in the module: its signature, its
// local variable declarations beyond the parameters, and its already-
// encoded instruction bytes (ending in the implicit function-end 0x0B).
type Function struct {
	Type   FuncType
	Locals []ValType
	Body   []byte
}

// Export is a named function export - this language only ever exports one
// function, `main` (spec.md §5), but the encoder supports more than one
// for completeness and testability.
type Export struct {
	Name      string
	FuncIndex uint32
}

// Module is the complete set of top-level declarations the encoder needs
// to produce a valid core WASM binary.
type Module struct {
	Imports   []Import
	Functions []Function
	Exports   []Export
	// MemoryMinPages is the initial linear memory size; 0 means no memory
	// section is emitted (a module with no Vec/String use needs none).
	MemoryMinPages uint32
}

// typeTable deduplicates function signatures across imports and defined
// functions into the module's single type section, and returns an index
// lookup for each.
type typeTable struct {
	types   []FuncType
	indexOf map[int]uint32
}

func buildTypeTable(m *Module) (*typeTable, []uint32, []uint32) {
	tt := &typeTable{}
	intern := func(ft FuncType) uint32 {
		for i, existing := range tt.types {
			if existing.equal(ft) {
				return uint32(i)
			}
		}
		tt.types = append(tt.types, ft)
		return uint32(len(tt.types) - 1)
	}
	importTypeIdx := make([]uint32, len(m.Imports))
	for i, imp := range m.Imports {
		importTypeIdx[i] = intern(imp.Type)
	}
	funcTypeIdx := make([]uint32, len(m.Functions))
	for i, fn := range m.Functions {
		funcTypeIdx[i] = intern(fn.Type)
	}
	return tt, importTypeIdx, funcTypeIdx
}

// Encode renders the module to a complete, well-formed WASM binary. The
// same Module value always produces byte-identical output, which is what
// gives the compiler its determinism guarantee (spec.md §8).
func (m *Module) Encode() []byte {
	tt, importTypeIdx, funcTypeIdx := buildTypeTable(m)

	out := New()
	out.Bytes([]byte{0x00, 0x61, 0x73, 0x6D}) // "\0asm"
	out.U32LE(1)                              // version 1

	if len(tt.types) > 0 {
		writeSection(out, secType, func(e *Encoder) {
			e.ULEB128(uint64(len(tt.types)))
			for _, ft := range tt.types {
				e.Byte(funcTypeForm)
				e.ULEB128(uint64(len(ft.Params)))
				for _, p := range ft.Params {
					e.Byte(byte(p))
				}
				e.ULEB128(uint64(len(ft.Results)))
				for _, r := range ft.Results {
					e.Byte(byte(r))
				}
			}
		})
	}

	if len(m.Imports) > 0 {
		writeSection(out, secImport, func(e *Encoder) {
			e.ULEB128(uint64(len(m.Imports)))
			for i, imp := range m.Imports {
				e.Name(imp.Module)
				e.Name(imp.Field)
				e.Byte(importKindFunc)
				e.ULEB128(uint64(importTypeIdx[i]))
			}
		})
	}

	if len(m.Functions) > 0 {
		writeSection(out, secFunction, func(e *Encoder) {
			e.ULEB128(uint64(len(m.Functions)))
			for _, idx := range funcTypeIdx {
				e.ULEB128(uint64(idx))
			}
		})
	}

	if m.MemoryMinPages > 0 {
		writeSection(out, secMemory, func(e *Encoder) {
			e.ULEB128(1)
			e.Byte(0x00) // flags: min only, no max
			e.ULEB128(uint64(m.MemoryMinPages))
		})
	}

	if len(m.Exports) > 0 {
		writeSection(out, secExport, func(e *Encoder) {
			e.ULEB128(uint64(len(m.Exports)))
			for _, ex := range m.Exports {
				e.Name(ex.Name)
				e.Byte(exportKindFunc)
				e.ULEB128(uint64(ex.FuncIndex))
			}
		})
	}

	if len(m.Functions) > 0 {
		writeSection(out, secCode, func(e *Encoder) {
			e.ULEB128(uint64(len(m.Functions)))
			for _, fn := range m.Functions {
				e.Sub(func(body *Encoder) {
					encodeLocals(body, fn.Locals)
					body.Bytes(fn.Body)
				})
			}
		})
	}

	return out.Bytes_()
}

func writeSection(out *Encoder, id byte, build func(*Encoder)) {
	out.Byte(id)
	out.Sub(build)
}

// encodeLocals groups consecutive identical local types into runs, the
// compact form the code section uses for a function's local declarations
// (beyond its parameters, which are never repeated here).
func encodeLocals(e *Encoder, locals []ValType) {
	type run struct {
		ty    ValType
		count uint64
	}
	var runs []run
	for _, l := range locals {
		if len(runs) > 0 && runs[len(runs)-1].ty == l {
			runs[len(runs)-1].count++
			continue
		}
		runs = append(runs, run{ty: l, count: 1})
	}
	e.ULEB128(uint64(len(runs)))
	for _, r := range runs {
		e.ULEB128(r.count)
		e.Byte(byte(r.ty))
	}
}
