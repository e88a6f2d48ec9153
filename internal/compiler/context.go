package compiler

import (
	"github.com/neknaj/neplg1/internal/ast"
	"github.com/neknaj/neplg1/internal/diagnostics"
	"github.com/neknaj/neplg1/internal/hir"
	"github.com/neknaj/neplg1/internal/stdlib"
	"github.com/neknaj/neplg1/internal/token"
	"github.com/neknaj/neplg1/internal/wasmenc"
)

// Target names the compiler's emission target (spec.md §6's `--emit`
// flag). Only TargetWasm is implemented by this core.
type Target string

// TargetWasm is the only Target this core's codegen stage supports.
const TargetWasm Target = "wasm"

// Context holds everything a compile run passes between stages -
// source in, wasm module out, with the intermediate lex/parse/resolve
// products kept around for diagnostics and for tools (debug dumps,
// the build cache) that want to inspect a stage without recompiling.
type Context struct {
	SourceCode string
	FilePath   string
	Stdlib     stdlib.Manifest
	Target     Target

	Tokens []token.Token
	AST    *ast.Program
	HIR    *hir.Program
	Module *wasmenc.Module

	Errors []*diagnostics.DiagnosticError
}

// NewContext creates a fresh Context for one compilation of source.
func NewContext(source, filePath string, manifest stdlib.Manifest, target Target) *Context {
	return &Context{SourceCode: source, FilePath: filePath, Stdlib: manifest, Target: target}
}

// Failed reports whether any stage has recorded an error.
func (c *Context) Failed() bool { return len(c.Errors) > 0 }
