// Package wasmvm is a minimal interpreter for the core-WASM-1.0 subset
// internal/codegen emits: it exists to let the compiler's own tests
// exercise a round trip (source -> hir -> wasm bytes -> result) without
// shelling out to an external wasm runtime. It is not a general-purpose
// wasm engine - anything outside the opcode/section set internal/wasmenc
// produces is rejected rather than approximated.
package wasmvm

import (
	"encoding/binary"
	"fmt"
	"math"
)

type valType byte

const (
	vtI32 valType = 0x7F
	vtI64 valType = 0x7E
	vtF32 valType = 0x7D
	vtF64 valType = 0x7C
)

type funcType struct {
	Params  []valType
	Results []valType
}

type importedFunc struct {
	Module, Field string
	Type          funcType
}

type definedFunc struct {
	Type   funcType
	Locals []valType
	Code   []instr // parsed body, not including the function's own terminal End
}

type export struct {
	Name      string
	FuncIndex uint32
}

// module is the decoded form of an internal/wasmenc-produced binary.
type module struct {
	Types     []funcType
	Imports   []importedFunc
	Functions []definedFunc
	Exports   map[string]uint32
}

// reader walks a byte slice with the same LEB128/section conventions
// internal/wasmenc.Encoder writes.
type reader struct {
	b   []byte
	pos int
}

func (r *reader) byte() (byte, error) {
	if r.pos >= len(r.b) {
		return 0, fmt.Errorf("wasmvm: unexpected end of input at offset %d", r.pos)
	}
	v := r.b[r.pos]
	r.pos++
	return v, nil
}

func (r *reader) bytes(n int) ([]byte, error) {
	if r.pos+n > len(r.b) {
		return nil, fmt.Errorf("wasmvm: unexpected end of input reading %d bytes at offset %d", n, r.pos)
	}
	v := r.b[r.pos : r.pos+n]
	r.pos += n
	return v, nil
}

func (r *reader) uleb128() (uint64, error) {
	var result uint64
	var shift uint
	for {
		b, err := r.byte()
		if err != nil {
			return 0, err
		}
		result |= uint64(b&0x7F) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
}

func (r *reader) sleb128() (int64, error) {
	var result int64
	var shift uint
	var b byte
	var err error
	for {
		b, err = r.byte()
		if err != nil {
			return 0, err
		}
		result |= int64(b&0x7F) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
	}
	if shift < 64 && b&0x40 != 0 {
		result |= -1 << shift
	}
	return result, nil
}

func (r *reader) name() (string, error) {
	n, err := r.uleb128()
	if err != nil {
		return "", err
	}
	raw, err := r.bytes(int(n))
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (r *reader) valType() (valType, error) {
	b, err := r.byte()
	if err != nil {
		return 0, err
	}
	return valType(b), nil
}

func (r *reader) atEnd() bool { return r.pos >= len(r.b) }

// decodeModule parses a complete wasm binary produced by internal/wasmenc.
func decodeModule(data []byte) (*module, error) {
	r := &reader{b: data}
	magic, err := r.bytes(4)
	if err != nil {
		return nil, err
	}
	if string(magic) != "\x00asm" {
		return nil, fmt.Errorf("wasmvm: bad magic number")
	}
	versionBytes, err := r.bytes(4)
	if err != nil {
		return nil, err
	}
	if binary.LittleEndian.Uint32(versionBytes) != 1 {
		return nil, fmt.Errorf("wasmvm: unsupported wasm version")
	}

	m := &module{Exports: map[string]uint32{}}
	var funcTypeIdx []uint64

	for !r.atEnd() {
		id, err := r.byte()
		if err != nil {
			return nil, err
		}
		size, err := r.uleb128()
		if err != nil {
			return nil, err
		}
		sectionBytes, err := r.bytes(int(size))
		if err != nil {
			return nil, err
		}
		sr := &reader{b: sectionBytes}

		switch id {
		case 1: // type
			count, err := sr.uleb128()
			if err != nil {
				return nil, err
			}
			for i := uint64(0); i < count; i++ {
				if _, err := sr.byte(); err != nil { // form, always 0x60
					return nil, err
				}
				ft, err := decodeFuncTypeBody(sr)
				if err != nil {
					return nil, err
				}
				m.Types = append(m.Types, ft)
			}
		case 2: // import
			count, err := sr.uleb128()
			if err != nil {
				return nil, err
			}
			for i := uint64(0); i < count; i++ {
				modName, err := sr.name()
				if err != nil {
					return nil, err
				}
				field, err := sr.name()
				if err != nil {
					return nil, err
				}
				if _, err := sr.byte(); err != nil { // import kind, always func (0x00)
					return nil, err
				}
				typeIdx, err := sr.uleb128()
				if err != nil {
					return nil, err
				}
				m.Imports = append(m.Imports, importedFunc{Module: modName, Field: field, Type: m.Types[typeIdx]})
			}
		case 3: // function
			count, err := sr.uleb128()
			if err != nil {
				return nil, err
			}
			for i := uint64(0); i < count; i++ {
				idx, err := sr.uleb128()
				if err != nil {
					return nil, err
				}
				funcTypeIdx = append(funcTypeIdx, idx)
			}
		case 5: // memory - decoded but unused; no codegen construct reads/writes it yet
			if _, err := sr.uleb128(); err != nil {
				return nil, err
			}
		case 7: // export
			count, err := sr.uleb128()
			if err != nil {
				return nil, err
			}
			for i := uint64(0); i < count; i++ {
				nm, err := sr.name()
				if err != nil {
					return nil, err
				}
				if _, err := sr.byte(); err != nil { // export kind, always func
					return nil, err
				}
				idx, err := sr.uleb128()
				if err != nil {
					return nil, err
				}
				m.Exports[nm] = uint32(idx)
			}
		case 10: // code
			count, err := sr.uleb128()
			if err != nil {
				return nil, err
			}
			if int(count) != len(funcTypeIdx) {
				return nil, fmt.Errorf("wasmvm: code section size mismatches function section")
			}
			for i := uint64(0); i < count; i++ {
				bodySize, err := sr.uleb128()
				if err != nil {
					return nil, err
				}
				bodyBytes, err := sr.bytes(int(bodySize))
				if err != nil {
					return nil, err
				}
				br := &reader{b: bodyBytes}
				locals, err := decodeLocals(br)
				if err != nil {
					return nil, err
				}
				code, term, err := parseInstrs(br)
				if err != nil {
					return nil, err
				}
				if term != opEnd {
					return nil, fmt.Errorf("wasmvm: function body missing terminal end")
				}
				m.Functions = append(m.Functions, definedFunc{
					Type:   m.Types[funcTypeIdx[i]],
					Locals: locals,
					Code:   code,
				})
			}
		default:
			// Unknown/unused section (none of codegen's output produces one,
			// but a future wasmenc addition shouldn't crash the decoder).
		}
	}
	return m, nil
}

func decodeFuncTypeBody(r *reader) (funcType, error) {
	var ft funcType
	pc, err := r.uleb128()
	if err != nil {
		return ft, err
	}
	for i := uint64(0); i < pc; i++ {
		vt, err := r.valType()
		if err != nil {
			return ft, err
		}
		ft.Params = append(ft.Params, vt)
	}
	rc, err := r.uleb128()
	if err != nil {
		return ft, err
	}
	for i := uint64(0); i < rc; i++ {
		vt, err := r.valType()
		if err != nil {
			return ft, err
		}
		ft.Results = append(ft.Results, vt)
	}
	return ft, nil
}

func decodeLocals(r *reader) ([]valType, error) {
	runCount, err := r.uleb128()
	if err != nil {
		return nil, err
	}
	var locals []valType
	for i := uint64(0); i < runCount; i++ {
		count, err := r.uleb128()
		if err != nil {
			return nil, err
		}
		vt, err := r.valType()
		if err != nil {
			return nil, err
		}
		for j := uint64(0); j < count; j++ {
			locals = append(locals, vt)
		}
	}
	return locals, nil
}

func bitsToF32(bits uint32) float32 { return math.Float32frombits(bits) }
func bitsToF64(bits uint64) float64 { return math.Float64frombits(bits) }
