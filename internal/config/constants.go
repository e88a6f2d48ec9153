// Package config is the single source of truth for ambient compiler
// constants: source file conventions, compilation target tags, and the
// embedded interpreter's default host-intrinsic behavior (spec.md §6),
// following the teacher corpus's "one file, everything else reads from it"
// convention.
package config

// SourceFileExt is the canonical extension for a compilation unit.
const SourceFileExt = ".nepl"

// SourceFileExtensions are all extensions the stdlib discoverer walks for.
var SourceFileExtensions = []string{SourceFileExt}

// Target lists target tags for a compilation. Nothing in the compiler
// reads them: --emit and compiler.Compile accept only compiler.TargetWasm
// ("wasm").
type Target string

const (
	// TargetWasmCore emits a module importing only "env" intrinsics - no
	// WASI dependency, suitable for embedding in a non-WASI host.
	TargetWasmCore Target = "wasm-core"
	// TargetWASI additionally allows wasi_snapshot_preview1 imports.
	TargetWASI Target = "wasi"
)

// ExportedMainName is the single function every compiled module exports
// (spec.md §6.2): `main: () -> i32`.
const ExportedMainName = "main"

// Default host-intrinsic values (spec.md §6.6). Nothing in this repository
// reads them: internal/wasmvm takes its host functions from its caller.
const (
	DefaultPageSize  = 65536
	DefaultWasiRandom = 4
)
