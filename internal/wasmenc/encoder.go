// Package wasmenc builds a WebAssembly binary module byte-by-byte. It
// leans on github.com/funvibe/funbit as the underlying bit/byte builder -
// every primitive the WASM binary format needs (a raw byte, a fixed-width
// little-endian word, an LEB128 varint, a UTF-8 name) is assembled as one
// or more 8-bit integer segments and flushed to a []byte with Build.
package wasmenc

import (
	"github.com/funvibe/funbit/pkg/funbit"
)

// Encoder accumulates the bytes of one section (or an entire module) in
// emission order. It never needs to seek backwards - every length prefix
// the format requires is computed by encoding the payload into a scratch
// Encoder first and prefixing its byte count.
type Encoder struct {
	b *funbit.Builder
}

// New creates an empty Encoder.
func New() *Encoder {
	return &Encoder{b: funbit.NewBuilder()}
}

// Byte appends a single raw byte.
func (e *Encoder) Byte(v byte) {
	funbit.AddInteger(e.b, int(v), funbit.WithSize(8))
}

// Bytes appends a raw byte slice verbatim.
func (e *Encoder) Bytes(bs []byte) {
	if len(bs) == 0 {
		return
	}
	funbit.AddBinary(e.b, bs)
}

// U32LE appends a fixed 4-byte little-endian word, used only for the
// module header's magic number and version.
func (e *Encoder) U32LE(v uint32) {
	e.Bytes([]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)})
}

// ULEB128 appends v as an unsigned LEB128 varint (the encoding WASM uses
// for every count, index, and unsigned immediate).
func (e *Encoder) ULEB128(v uint64) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		e.Byte(b)
		if v == 0 {
			return
		}
	}
}

// SLEB128 appends v as a signed LEB128 varint, used for i32.const/i64.const
// immediates and the block type of structured control instructions.
func (e *Encoder) SLEB128(v int64) {
	more := true
	for more {
		b := byte(v & 0x7f)
		v >>= 7
		signBitSet := b&0x40 != 0
		if (v == 0 && !signBitSet) || (v == -1 && signBitSet) {
			more = false
		} else {
			b |= 0x80
		}
		e.Byte(b)
	}
}

// Name appends a WASM "name": a ULEB128 byte length followed by raw UTF-8
// bytes (no NUL terminator).
func (e *Encoder) Name(s string) {
	e.ULEB128(uint64(len(s)))
	e.Bytes([]byte(s))
}

// Sub appends a length-prefixed sub-encoding: build writes into a fresh
// Encoder, and its byte count (as a ULEB128) is emitted before the bytes
// themselves. Every WASM section and every vector-of-section-entries that
// needs its own byte length uses this.
func (e *Encoder) Sub(build func(*Encoder)) {
	inner := New()
	build(inner)
	payload := inner.Bytes_()
	e.ULEB128(uint64(len(payload)))
	e.Bytes(payload)
}

// Bytes_ flushes the accumulated segments to a concrete []byte.
func (e *Encoder) Bytes_() []byte {
	bs, err := funbit.Build(e.b)
	if err != nil {
		// Every segment added above is a well-formed fixed-size integer or
		// binary blob; Build only fails on malformed segment construction,
		// which would be a programming error in this package.
		panic("wasmenc: malformed bitstring builder state: " + err.Error())
	}
	return bs.ToBytes()
}
