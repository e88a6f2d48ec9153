package codegen

import (
	"math"
	"strconv"

	"github.com/neknaj/neplg1/internal/config"
	"github.com/neknaj/neplg1/internal/diagnostics"
	"github.com/neknaj/neplg1/internal/hir"
	"github.com/neknaj/neplg1/internal/token"
	ts "github.com/neknaj/neplg1/internal/typesystem"
	"github.com/neknaj/neplg1/internal/wasmenc"
)

// loopLabels records the structured-branch targets a while/loop installs,
// as absolute block depths (funcCtx.depth at the moment each wrapper
// opened) - a later break/continue converts these to the relative depth
// br/br_if actually encode.
type loopLabels struct {
	breakDepth    int
	continueDepth int
}

// funcCtx tracks the per-function state codegen needs while walking one
// hir function body: the local slots already allocated, the lexical
// scope stack used to resolve Var/Let/Set names to a local index, and
// the nesting of structured control instructions so break/continue can
// compute a relative branch depth.
type funcCtx struct {
	body      *wasmenc.Body
	locals    []wasmenc.ValType
	scopes    []map[string]uint32
	depth     int
	loopStack []loopLabels
}

func newFuncCtx(body *wasmenc.Body) *funcCtx {
	return &funcCtx{body: body, scopes: []map[string]uint32{{}}}
}

func (f *funcCtx) pushScope() { f.scopes = append(f.scopes, map[string]uint32{}) }
func (f *funcCtx) popScope()  { f.scopes = f.scopes[:len(f.scopes)-1] }

func (f *funcCtx) declare(name string, vt wasmenc.ValType) uint32 {
	idx := uint32(len(f.locals))
	f.locals = append(f.locals, vt)
	f.scopes[len(f.scopes)-1][name] = idx
	return idx
}

func (f *funcCtx) resolve(name string) (uint32, bool) {
	for i := len(f.scopes) - 1; i >= 0; i-- {
		if idx, ok := f.scopes[i][name]; ok {
			return idx, true
		}
	}
	return 0, false
}

// compiler lowers one hir.Program into a wasmenc.Module. Intrinsics are
// imported lazily, the same way helper functions are: the first call site
// that needs wasi_print (say) adds the import and every later call reuses
// its index.
type compiler struct {
	module      *wasmenc.Module
	helpers     *helperTable
	importIndex map[string]uint32 // "module.field" -> func index
	hoisted     map[*hir.FuncValue]uint32
	// funcsByName maps a let-bound function's source name to its hoisted
	// wasm func index. Shared across every funcCtx in the compilation
	// (not scoped to one function body) since a hoisted wasm function is
	// a module-level entity callable from anywhere, including from
	// inside other hoisted functions.
	funcsByName map[string]uint32
}

// Compile lowers a fully resolved program to a core wasm module. The
// program's top-level expression becomes an exported "main" function
// taking no arguments; a FuncValue bound by a top-level Let is hoisted
// into its own wasm function instead of being inlined.
func Compile(prog *hir.Program) (*wasmenc.Module, error) {
	c := &compiler{
		module:      &wasmenc.Module{},
		importIndex: map[string]uint32{},
		hoisted:     map[*hir.FuncValue]uint32{},
		funcsByName: map[string]uint32{},
	}
	c.helpers = newHelperTable(c)

	mainCtx := newFuncCtx(wasmenc.NewBody())
	resultTy, err := c.compileTop(mainCtx, prog.Top)
	if err != nil {
		return nil, err
	}
	if !ts.Equal(resultTy, ts.I32) {
		// spec.md §4.5/§6 fix the exported contract as `main: () -> i32`;
		// a top-level expression of any other type (including Unit) is
		// rejected here rather than silently exported with a different
		// wasm result type.
		return nil, diagnostics.New(diagnostics.ErrCMainNotI32, token.Token{}, resultTy.String())
	}
	mainCtx.body.End()

	results := []wasmenc.ValType{wasmenc.I32}

	mainFn := wasmenc.Function{
		Type:   wasmenc.FuncType{Results: results},
		Locals: mainCtx.locals,
		Body:   mainCtx.body.Bytes(),
	}
	c.module.Functions = append(c.module.Functions, mainFn)
	mainIdx := c.nextFuncIndex()
	c.module.Exports = append(c.module.Exports, wasmenc.Export{Name: config.ExportedMainName, FuncIndex: mainIdx})

	return c.module, nil
}

// compileTop walks the program's top level, hoisting any FuncValue bound
// directly by a top-level Let into its own wasm function rather than
// compiling it inline (wasm has no nested function values).
func (c *compiler) compileTop(ctx *funcCtx, n hir.Node) (ts.Type, error) {
	return c.compileExpr(ctx, n)
}

func (c *compiler) nextFuncIndex() uint32 {
	return uint32(len(c.module.Imports) + len(c.module.Functions) - 1)
}

// importIntrinsic returns the func index for a host import, adding it to
// the module the first time it's referenced.
func (c *compiler) importIntrinsic(module, field string, sig wasmenc.FuncType) uint32 {
	key := module + "." + field
	if idx, ok := c.importIndex[key]; ok {
		return idx
	}
	c.module.Imports = append(c.module.Imports, wasmenc.Import{Module: module, Field: field, Type: sig})
	idx := uint32(len(c.module.Imports) - 1)
	c.importIndex[key] = idx
	return idx
}

// compileExpr lowers one hir.Node, leaving its value (if any) on the wasm
// operand stack. It returns the node's own hir type so callers can decide
// whether a value was actually pushed (isVoid).
func (c *compiler) compileExpr(ctx *funcCtx, n hir.Node) (ts.Type, error) {
	switch node := n.(type) {
	case *hir.IntLiteral:
		return c.compileIntLiteral(ctx, node)
	case *hir.FloatLiteral:
		return c.compileFloatLiteral(ctx, node)
	case *hir.BoolLiteral:
		if node.Value {
			ctx.body.I32Const(1)
		} else {
			ctx.body.I32Const(0)
		}
		return ts.Bool, nil
	case *hir.StringLiteral:
		return nil, c.unsupported("string literals")
	case *hir.VectorLiteral:
		return nil, c.unsupported("vector literals")
	case *hir.Var:
		idx, ok := ctx.resolve(node.Name)
		if !ok {
			return nil, diagnostics.New(diagnostics.ErrCInternal, token.Token{}, "unresolved variable in codegen: "+node.Name)
		}
		ctx.body.LocalGet(idx)
		return node.Ty, nil
	case *hir.Call:
		return c.compileCall(ctx, node)
	case *hir.IntrinsicCall:
		return c.compileIntrinsicCall(ctx, node)
	case *hir.FuncValue:
		return nil, c.unsupported("function values outside of a let binding")
	case *hir.Block:
		return c.compileBlock(ctx, node)
	case *hir.If:
		return c.compileIf(ctx, node)
	case *hir.While:
		return c.compileWhile(ctx, node)
	case *hir.Loop:
		return c.compileLoop(ctx, node)
	case *hir.Match:
		return nil, c.unsupported("match")
	case *hir.Return:
		return c.compileReturn(ctx, node)
	case *hir.Break:
		return c.compileBreak(ctx, node)
	case *hir.Continue:
		return c.compileContinue(ctx, node)
	case *hir.Let:
		return c.compileLet(ctx, node)
	case *hir.Set:
		return c.compileSet(ctx, node)
	}
	return nil, c.unsupported("unknown hir node")
}

func (c *compiler) unsupported(what string) error {
	return diagnostics.New(diagnostics.ErrUUnsupportedConstruct, token.Token{}, what)
}

func (c *compiler) compileIntLiteral(ctx *funcCtx, n *hir.IntLiteral) (ts.Type, error) {
	switch n.Ty {
	case ts.I64:
		ctx.body.I64Const(n.Value)
	default:
		ctx.body.I32Const(int32(n.Value))
	}
	return n.Ty, nil
}

func (c *compiler) compileFloatLiteral(ctx *funcCtx, n *hir.FloatLiteral) (ts.Type, error) {
	if n.Ty == ts.F32 {
		ctx.body.F32Const(math.Float32bits(float32(n.Value)))
	} else {
		ctx.body.F64Const(math.Float64bits(n.Value))
	}
	return n.Ty, nil
}

// compileBlock lowers a sequence of statements in its own lexical scope;
// every statement but the last is dropped if it left a value on the
// stack (only Let/Set/loops are typically mid-block, and those are Unit).
func (c *compiler) compileBlock(ctx *funcCtx, n *hir.Block) (ts.Type, error) {
	ctx.pushScope()
	defer ctx.popScope()

	if len(n.Statements) == 0 {
		return ts.Unit, nil
	}
	for i, stmt := range n.Statements {
		ty, err := c.compileExpr(ctx, stmt)
		if err != nil {
			return nil, err
		}
		if i != len(n.Statements)-1 && !isVoid(ty) {
			ctx.body.Drop()
		}
	}
	return n.Ty, nil
}

func (c *compiler) compileLet(ctx *funcCtx, n *hir.Let) (ts.Type, error) {
	if fv, ok := n.Value.(*hir.FuncValue); ok {
		idx, err := c.hoistFuncValue(fv)
		if err != nil {
			return nil, err
		}
		c.funcsByName[n.Name] = idx
		return ts.Unit, nil
	}

	vt, err := valType(n.Ty)
	if err != nil {
		return nil, err
	}
	if _, err := c.compileExpr(ctx, n.Value); err != nil {
		return nil, err
	}
	idx := ctx.declare(n.Name, vt)
	ctx.body.LocalSet(idx)
	return ts.Unit, nil
}

func (c *compiler) compileSet(ctx *funcCtx, n *hir.Set) (ts.Type, error) {
	idx, ok := ctx.resolve(n.Name)
	if !ok {
		return nil, diagnostics.New(diagnostics.ErrCInternal, token.Token{}, "unresolved variable in codegen: "+n.Name)
	}
	if _, err := c.compileExpr(ctx, n.Value); err != nil {
		return nil, err
	}
	ctx.body.LocalSet(idx)
	return ts.Unit, nil
}

// hoistFuncValue lowers a let-bound function literal into its own wasm
// function and returns its func index. Free-variable capture is out of
// scope (spec.md §1 Non-goals rule out closures over mutable state): a
// FuncValue referencing any name besides its own parameters fails here.
func (c *compiler) hoistFuncValue(fv *hir.FuncValue) (uint32, error) {
	if idx, ok := c.hoisted[fv]; ok {
		return idx, nil
	}
	innerBody := wasmenc.NewBody()
	fctx := newFuncCtx(innerBody)
	var params []wasmenc.ValType
	for _, p := range fv.Params {
		vt, err := valType(p.Ty)
		if err != nil {
			return 0, err
		}
		params = append(params, vt)
		fctx.declare(p.Name, vt)
	}

	resultTy, err := c.compileExpr(fctx, fv.Body)
	if err != nil {
		return 0, err
	}
	innerBody.End()

	var results []wasmenc.ValType
	if !isVoid(resultTy) {
		vt, err := valType(resultTy)
		if err != nil {
			return 0, err
		}
		results = []wasmenc.ValType{vt}
	}

	// Locals beyond the declared params were allocated by nested Lets;
	// trim the param prefix since wasm's Locals field only lists the
	// *additional* locals beyond the function's own parameter list.
	extra := fctx.locals[len(params):]

	fn := wasmenc.Function{
		Type:   wasmenc.FuncType{Params: params, Results: results},
		Locals: extra,
		Body:   innerBody.Bytes(),
	}
	c.module.Functions = append(c.module.Functions, fn)
	idx := c.nextFuncIndex()
	c.hoisted[fv] = idx
	return idx, nil
}

func (c *compiler) compileIf(ctx *funcCtx, n *hir.If) (ts.Type, error) {
	if _, err := c.compileExpr(ctx, n.Cond); err != nil {
		return nil, err
	}
	var blockResult byte = wasmenc.BlockVoid
	resultIsVoid := isVoid(n.Ty)
	if !resultIsVoid {
		vt, err := valType(n.Ty)
		if err != nil {
			return nil, err
		}
		blockResult = byte(vt)
	}
	ctx.body.If(blockResult)
	ctx.depth++
	if _, err := c.compileExpr(ctx, n.Then); err != nil {
		return nil, err
	}
	if n.Else != nil {
		ctx.body.Else()
		if _, err := c.compileExpr(ctx, n.Else); err != nil {
			return nil, err
		}
	}
	ctx.depth--
	ctx.body.End()
	return n.Ty, nil
}

// compileWhile lowers `while cond body` as an outer Block (the break
// target) wrapping a Loop (the continue target): each iteration tests
// cond and br_ifs out to the Block when it's false, runs body, then
// unconditionally branches back to the top of the Loop.
func (c *compiler) compileWhile(ctx *funcCtx, n *hir.While) (ts.Type, error) {
	ctx.body.Block(wasmenc.BlockVoid)
	ctx.depth++
	breakDepth := ctx.depth
	ctx.body.Loop(wasmenc.BlockVoid)
	ctx.depth++
	continueDepth := ctx.depth
	ctx.loopStack = append(ctx.loopStack, loopLabels{breakDepth: breakDepth, continueDepth: continueDepth})

	if _, err := c.compileExpr(ctx, n.Cond); err != nil {
		return nil, err
	}
	ctx.body.Op(wasmenc.OpI32Eqz)
	ctx.body.BrIf(uint32(ctx.depth - breakDepth))

	bodyTy, err := c.compileExpr(ctx, n.Body)
	if err != nil {
		return nil, err
	}
	if !isVoid(bodyTy) {
		ctx.body.Drop()
	}
	ctx.body.Br(uint32(ctx.depth - continueDepth))

	ctx.loopStack = ctx.loopStack[:len(ctx.loopStack)-1]
	ctx.depth--
	ctx.body.End() // loop
	ctx.depth--
	ctx.body.End() // block
	return ts.Unit, nil
}

// compileLoop lowers an unconditional `loop body`, relying entirely on
// Break to exit via the wrapping Block.
func (c *compiler) compileLoop(ctx *funcCtx, n *hir.Loop) (ts.Type, error) {
	var blockResult byte = wasmenc.BlockVoid
	resultIsVoid := isVoid(n.Ty)
	if !resultIsVoid {
		vt, err := valType(n.Ty)
		if err != nil {
			return nil, err
		}
		blockResult = byte(vt)
	}
	ctx.body.Block(blockResult)
	ctx.depth++
	breakDepth := ctx.depth
	ctx.body.Loop(wasmenc.BlockVoid)
	ctx.depth++
	continueDepth := ctx.depth
	ctx.loopStack = append(ctx.loopStack, loopLabels{breakDepth: breakDepth, continueDepth: continueDepth})

	bodyTy, err := c.compileExpr(ctx, n.Body)
	if err != nil {
		return nil, err
	}
	if !isVoid(bodyTy) {
		ctx.body.Drop()
	}
	ctx.body.Br(uint32(ctx.depth - continueDepth))

	ctx.loopStack = ctx.loopStack[:len(ctx.loopStack)-1]
	ctx.depth--
	ctx.body.End() // loop
	ctx.depth--
	ctx.body.End() // block
	return n.Ty, nil
}

func (c *compiler) compileBreak(ctx *funcCtx, n *hir.Break) (ts.Type, error) {
	if len(ctx.loopStack) == 0 {
		return nil, diagnostics.New(diagnostics.ErrCInternal, token.Token{}, "break outside of a loop reached codegen")
	}
	top := ctx.loopStack[len(ctx.loopStack)-1]
	if n.Value != nil {
		if _, err := c.compileExpr(ctx, n.Value); err != nil {
			return nil, err
		}
	}
	ctx.body.Br(uint32(ctx.depth - top.breakDepth))
	return ts.Never, nil
}

func (c *compiler) compileContinue(ctx *funcCtx, n *hir.Continue) (ts.Type, error) {
	if len(ctx.loopStack) == 0 {
		return nil, diagnostics.New(diagnostics.ErrCInternal, token.Token{}, "continue outside of a loop reached codegen")
	}
	top := ctx.loopStack[len(ctx.loopStack)-1]
	ctx.body.Br(uint32(ctx.depth - top.continueDepth))
	return ts.Never, nil
}

func (c *compiler) compileReturn(ctx *funcCtx, n *hir.Return) (ts.Type, error) {
	if n.Value != nil {
		if _, err := c.compileExpr(ctx, n.Value); err != nil {
			return nil, err
		}
	}
	ctx.body.Return()
	return ts.Never, nil
}

// compileCall dispatches a resolved builtin/stdlib Call to either a
// direct wasm opcode, a short synthesized instruction sequence (neg/not),
// a generated runtime helper (pow/factorial/...), or a hoisted
// let-bound user function.
func (c *compiler) compileCall(ctx *funcCtx, n *hir.Call) (ts.Type, error) {
	if idx, ok := c.funcsByName[n.CalleeName]; ok {
		for _, arg := range n.Args {
			if _, err := c.compileExpr(ctx, arg); err != nil {
				return nil, err
			}
		}
		ctx.body.Call(idx)
		return n.Ty, nil
	}

	var argTy ts.Type
	for _, arg := range n.Args {
		ty, err := c.compileExpr(ctx, arg)
		if err != nil {
			return nil, err
		}
		argTy = ty
	}
	tk := typeKey(argTy)

	if len(n.Args) == 1 && directUnaryOps[n.CalleeName] {
		switch n.CalleeName {
		case "neg":
			if err := c.emitNeg(ctx, tk); err != nil {
				return nil, err
			}
			return n.Ty, nil
		case "not":
			ctx.body.I32Const(1)
			ctx.body.Op(wasmenc.OpI32Xor)
			return n.Ty, nil
		case "bit_not":
			if err := c.emitBitNot(ctx, tk); err != nil {
				return nil, err
			}
			return n.Ty, nil
		}
	}

	if byType, ok := directBinOps[n.CalleeName]; ok {
		op, ok := byType[tk]
		if !ok {
			return nil, c.unsupported("operator " + n.CalleeName + " for type " + tk)
		}
		ctx.body.Op(op)
		return n.Ty, nil
	}

	if runtimeHelperOps[n.CalleeName] {
		if tk != "i32" && tk != "i64" {
			return nil, c.unsupported(n.CalleeName + " for non-integral type " + tk)
		}
		vt := wasmenc.I32
		if tk == "i64" {
			vt = wasmenc.I64
		}
		idx := c.helpers.get(n.CalleeName, vt, tk)
		ctx.body.Call(idx)
		return n.Ty, nil
	}

	return nil, c.unsupported("call to " + n.CalleeName)
}

// emitNeg synthesizes unary negation, which has no dedicated wasm opcode
// for integers: the operand is already on the stack, so it's stashed in
// a scratch local to compute 0-x in the right operand order. Floats use
// the native negate instruction directly.
func (c *compiler) emitNeg(ctx *funcCtx, tk string) error {
	switch tk {
	case "i32":
		tmp := ctx.declare(scratchName(ctx), wasmenc.I32)
		ctx.body.LocalSet(tmp)
		ctx.body.I32Const(0)
		ctx.body.LocalGet(tmp)
		ctx.body.Op(wasmenc.OpI32Sub)
	case "i64":
		tmp := ctx.declare(scratchName(ctx), wasmenc.I64)
		ctx.body.LocalSet(tmp)
		ctx.body.I64Const(0)
		ctx.body.LocalGet(tmp)
		ctx.body.Op(wasmenc.OpI64Sub)
	case "f32":
		ctx.body.Op(wasmenc.OpF32Neg)
	case "f64":
		ctx.body.Op(wasmenc.OpF64Neg)
	default:
		return c.unsupported("neg for type " + tk)
	}
	return nil
}

// emitBitNot synthesizes bitwise complement as XOR against an all-ones
// mask - wasm has no dedicated not opcode for i32/i64 either.
func (c *compiler) emitBitNot(ctx *funcCtx, tk string) error {
	switch tk {
	case "i32":
		ctx.body.I32Const(-1)
		ctx.body.Op(wasmenc.OpI32Xor)
	case "i64":
		ctx.body.I64Const(-1)
		ctx.body.Op(wasmenc.OpI64Xor)
	default:
		return c.unsupported("bit_not for type " + tk)
	}
	return nil
}

// scratchName produces a local name that can never collide with a
// source-level binding (NEPL identifiers can't start with '$').
func scratchName(ctx *funcCtx) string {
	return "$scratch" + strconv.Itoa(len(ctx.locals))
}

func (c *compiler) compileIntrinsicCall(ctx *funcCtx, n *hir.IntrinsicCall) (ts.Type, error) {
	var params []wasmenc.ValType
	for _, arg := range n.Args {
		ty, err := c.compileExpr(ctx, arg)
		if err != nil {
			return nil, err
		}
		vt, err := valType(ty)
		if err != nil {
			return nil, err
		}
		params = append(params, vt)
	}
	var results []wasmenc.ValType
	if !isVoid(n.Ty) {
		vt, err := valType(n.Ty)
		if err != nil {
			return nil, err
		}
		results = []wasmenc.ValType{vt}
	}
	idx := c.importIntrinsic(n.Module, n.Field, wasmenc.FuncType{Params: params, Results: results})
	ctx.body.Call(idx)
	return n.Ty, nil
}
