package compiler

import (
	"github.com/neknaj/neplg1/internal/analyzer"
	"github.com/neknaj/neplg1/internal/codegen"
	"github.com/neknaj/neplg1/internal/diagnostics"
	"github.com/neknaj/neplg1/internal/lexer"
	"github.com/neknaj/neplg1/internal/parser"
)

// Stage is one step of the compile pipeline. A Stage that finds nothing
// further to do (the context already failed) should still be safe to
// call - Pipeline.Run never calls a later stage once Errors is
// non-empty, but stages are cheap enough it's not worth guarding twice.
type Stage interface {
	Process(ctx *Context) *Context
}

// Pipeline runs a fixed sequence of Stages, short-circuiting after the
// first stage that records an error (later stages assume earlier ones
// succeeded - running a resolver over a nil AST would only obscure the
// original failure).
type Pipeline struct {
	stages []Stage
}

// New builds a Pipeline from an explicit stage list, for tests or
// tools that want a partial pipeline (lex+parse only, say).
func New(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Default returns the full lex -> parse -> resolve -> codegen pipeline.
func Default() *Pipeline {
	return New(lexStage{}, parseStage{}, analyzeStage{}, codegenStage{})
}

func (p *Pipeline) Run(ctx *Context) *Context {
	for _, s := range p.stages {
		ctx = s.Process(ctx)
		if ctx.Failed() {
			break
		}
	}
	return ctx
}

type lexStage struct{}

func (lexStage) Process(ctx *Context) *Context {
	ctx.Tokens = lexer.New(ctx.SourceCode).Tokenize()
	return ctx
}

type parseStage struct{}

func (parseStage) Process(ctx *Context) *Context {
	prog, errs := parser.Parse(ctx.Tokens)
	ctx.AST = prog
	ctx.Errors = append(ctx.Errors, errs...)
	return ctx
}

type analyzeStage struct{}

func (analyzeStage) Process(ctx *Context) *Context {
	prog, errs := analyzer.New().Resolve(ctx.AST)
	ctx.HIR = prog
	ctx.Errors = append(ctx.Errors, errs...)
	return ctx
}

type codegenStage struct{}

func (codegenStage) Process(ctx *Context) *Context {
	if ctx.Target != TargetWasm {
		ctx.Errors = append(ctx.Errors, diagnostics.InternalError(ctx.Tokens[0],
			"unsupported emit target: "+string(ctx.Target)))
		return ctx
	}
	mod, err := codegen.Compile(ctx.HIR)
	if err != nil {
		if de, ok := err.(*diagnostics.DiagnosticError); ok {
			ctx.Errors = append(ctx.Errors, de)
		} else {
			ctx.Errors = append(ctx.Errors, diagnostics.InternalError(ctx.Tokens[0], err.Error()))
		}
		return ctx
	}
	ctx.Module = mod
	return ctx
}
