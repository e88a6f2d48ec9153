// Package compiler wires the lexer, parser, analyzer and codegen stages
// into a single source-to-wasm pipeline. The stage/Context split mirrors
// a classic compiler-driver shape: a shared context flows through an
// ordered list of stages, each one free to stop the whole run by
// recording a diagnostic.
package compiler

import (
	"github.com/neknaj/neplg1/internal/diagnostics"
	"github.com/neknaj/neplg1/internal/stdlib"
	"github.com/neknaj/neplg1/internal/wasmenc"
)

// Artifact is a completed compilation's result: the emitted module, the
// target it was emitted for, and - per spec.md §6.1's fixed entry-point
// contract - the set of host intrinsics the module actually imports and
// the stdlib manifest it was compiled against, both surfaced so a caller
// (the build cache, a host embedding the module) never has to re-derive
// them from the module bytes themselves.
type Artifact struct {
	Module               *wasmenc.Module
	Target               Target
	ReferencedIntrinsics []string
	StdlibManifest       stdlib.Manifest
}

// Compile runs source through the full pipeline - lex, parse, resolve,
// codegen - against the given stdlib manifest and target, returning the
// emitted artifact or the diagnostics from whichever stage failed
// first.
func Compile(source, filePath string, manifest stdlib.Manifest, target Target) (*Artifact, []*diagnostics.DiagnosticError) {
	ctx := Default().Run(NewContext(source, filePath, manifest, target))
	if ctx.Failed() {
		return nil, ctx.Errors
	}
	return &Artifact{
		Module:               ctx.Module,
		Target:               ctx.Target,
		ReferencedIntrinsics: referencedIntrinsics(ctx.Module),
		StdlibManifest:       ctx.Stdlib,
	}, nil
}

// referencedIntrinsics lists the "module.field" name of every host import
// the compiled module actually pulled in (spec.md §6.5's intrinsic table),
// in the deterministic order codegen added them.
func referencedIntrinsics(mod *wasmenc.Module) []string {
	names := make([]string, 0, len(mod.Imports))
	for _, imp := range mod.Imports {
		names = append(names, imp.Module+"."+imp.Field)
	}
	return names
}

// CompileToBytes runs Compile and encodes the result, for callers that
// only want the final wasm binary.
func CompileToBytes(source, filePath string, manifest stdlib.Manifest, target Target) ([]byte, []*diagnostics.DiagnosticError) {
	art, errs := Compile(source, filePath, manifest, target)
	if errs != nil {
		return nil, errs
	}
	return art.Module.Encode(), nil
}
