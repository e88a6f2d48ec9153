// Package diagnostics defines the compiler's structured error type and the
// fixed catalogue of error codes it can report (spec.md §7), following the
// teacher corpus's template-driven DiagnosticError idiom.
package diagnostics

import (
	"fmt"

	"github.com/neknaj/neplg1/internal/token"
)

// Phase identifies which pipeline stage raised a diagnostic.
type Phase string

const (
	PhaseLexer    Phase = "lexer"
	PhaseParser   Phase = "parser"
	PhaseResolver Phase = "resolver"
	PhaseTypecheck Phase = "typecheck"
	PhaseUnsupported Phase = "unsupported"
	PhaseCodegen  Phase = "codegen"
	PhaseEncode   Phase = "encode"
)

// ErrorCode is one entry of the fixed taxonomy spec.md §7 requires: one
// prefix letter per phase, three digits, assigned once and never reused.
type ErrorCode string

const (
	// Lexer errors
	ErrLInvalidChar   ErrorCode = "L001" // invalid character
	ErrLUnterminatedString ErrorCode = "L002" // unterminated string literal
	ErrLBadEscape     ErrorCode = "L003" // unknown escape sequence
	ErrLBadNumber     ErrorCode = "L004" // malformed numeric literal

	// Parser errors
	ErrPUnexpectedToken ErrorCode = "P001" // unexpected token
	ErrPExpectedToken   ErrorCode = "P002" // expected a specific token, found another
	ErrPUnclosedScope   ErrorCode = "P003" // brace/offside scope never closed
	ErrPBadPattern      ErrorCode = "P004" // malformed match pattern
	ErrPBadTypeName     ErrorCode = "P005" // unrecognized type name in a type_annotation

	// Resolver (frame-stack) errors
	ErrRNoMatch     ErrorCode = "R001" // no overload matches the closing arguments
	ErrRAmbiguous   ErrorCode = "R002" // more than one overload matches equally well
	ErrRUnclosedFrame ErrorCode = "R003" // a frame never received enough arguments
	ErrRExcessArguments ErrorCode = "R004" // more terms follow than any overload can consume
	ErrRNotAFunction ErrorCode = "R005" // name has no overloads and cannot head a frame
	ErrRUndefinedName ErrorCode = "R006" // identifier is neither bound nor a built-in
	ErrRLoopControlOutsideLoop ErrorCode = "R007" // break/continue used outside a while/loop body

	// Type-checking errors
	ErrTMismatch    ErrorCode = "T001" // inferred type does not match the expected type
	ErrTNoCommonType ErrorCode = "T002" // branches/arms share no least-common-supertype
	ErrTPurityViolation ErrorCode = "T003" // impure expression used in a pure context
	ErrTImmutableAssign ErrorCode = "T004" // `set` on a binding that was not declared `mut`
	ErrTDivisionByZero ErrorCode = "T005" // compile-time-provable division by a literal zero
	ErrTMissingElse ErrorCode = "T006" // if without else where the then-branch is not Unit
	ErrTNeverInNonBottomPosition ErrorCode = "T007" // a Never-typed expression used somewhere only a concrete type is allowed
	ErrTInconsistentBreak ErrorCode = "T008" // a loop mixes a bare `break` with a value-carrying `break expr`

	// Unsupported-construct errors (typed but not yet lowerable)
	ErrUUnsupportedConstruct ErrorCode = "U001"

	// Codegen errors
	ErrCInternal ErrorCode = "C001" // an internal invariant was violated during lowering
	ErrCMainNotI32 ErrorCode = "C002" // the top-level expression's type is not i32, so `main` cannot be exported

	// Encoding errors
	ErrEOverflow ErrorCode = "E001" // a value does not fit the wasm encoding being produced
)

var errorTemplates = map[ErrorCode]string{
	ErrLInvalidChar:        "invalid character: %q",
	ErrLUnterminatedString: "unterminated string literal",
	ErrLBadEscape:          "unknown escape sequence: '\\%s'",
	ErrLBadNumber:          "malformed numeric literal: %q",

	ErrPUnexpectedToken: "unexpected token: %s",
	ErrPExpectedToken:   "expected %s, got %s",
	ErrPUnclosedScope:   "scope opened at %s was never closed",
	ErrPBadPattern:      "malformed pattern: %s",
	ErrPBadTypeName:     "unrecognized type name: %q",

	ErrRNoMatch:         "no overload of '%s' matches the %d argument(s) provided",
	ErrRAmbiguous:       "call to '%s' is ambiguous between %d equally-good overloads",
	ErrRUnclosedFrame:   "'%s' expects %d argument(s) but the expression ended with only %d",
	ErrRExcessArguments: "too many arguments follow '%s'; no overload accepts more than %d",
	ErrRNotAFunction:    "'%s' is not callable",
	ErrRUndefinedName:   "undefined name: '%s'",
	ErrRLoopControlOutsideLoop: "'%s' used outside a loop body",

	ErrTMismatch:        "type mismatch: expected %s, got %s",
	ErrTNoCommonType:    "no common type: %s",
	ErrTPurityViolation: "impure expression '%s' used in a pure context",
	ErrTImmutableAssign: "cannot 'set' '%s': binding was not declared mut",
	ErrTDivisionByZero:  "division by literal zero",
	ErrTMissingElse:      "if without else must have a Unit-typed then-branch, got %s",
	ErrTNeverInNonBottomPosition: "Never-typed expression used where a concrete type is required",
	ErrTInconsistentBreak: "loop mixes a bare 'break' with a value-carrying 'break'",

	ErrUUnsupportedConstruct: "construct not yet supported by codegen: %s",

	ErrCInternal:   "internal compiler error: %s",
	ErrCMainNotI32: "top-level expression must have type i32 to be exported as main, got %s",

	ErrEOverflow: "value %d does not fit in the %s encoding",
}

// DiagnosticError is the one error type every compiler phase produces.
type DiagnosticError struct {
	Code  ErrorCode
	Phase Phase
	Args  []interface{}
	Token token.Token
	File  string
}

func (e *DiagnosticError) Error() string {
	template, ok := errorTemplates[e.Code]
	if !ok {
		return fmt.Sprintf("unknown error code: %s", e.Code)
	}
	message := fmt.Sprintf(template, e.Args...)

	prefix := ""
	if e.File != "" {
		prefix = fmt.Sprintf("%s: ", e.File)
	}
	phaseStr := ""
	if e.Phase != "" {
		phaseStr = fmt.Sprintf("[%s] ", e.Phase)
	}
	if e.Token.Span.Line > 0 {
		return fmt.Sprintf("%s%serror at %d:%d [%s]: %s", prefix, phaseStr, e.Token.Span.Line, e.Token.Span.Column, e.Code, message)
	}
	return fmt.Sprintf("%s%serror [%s]: %s", prefix, phaseStr, e.Code, message)
}

// phaseForCode derives the owning Phase from an ErrorCode's letter prefix,
// so call sites rarely need to state the phase explicitly.
func phaseForCode(code ErrorCode) Phase {
	if len(code) == 0 {
		return ""
	}
	switch code[0] {
	case 'L':
		return PhaseLexer
	case 'P':
		return PhaseParser
	case 'R':
		return PhaseResolver
	case 'T':
		return PhaseTypecheck
	case 'U':
		return PhaseUnsupported
	case 'C':
		return PhaseCodegen
	case 'E':
		return PhaseEncode
	}
	return ""
}

// New creates a DiagnosticError, deriving Phase from the code's prefix.
func New(code ErrorCode, tok token.Token, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{Code: code, Phase: phaseForCode(code), Token: tok, Args: args}
}

// NewWithFile is New plus the source file path, for multi-file diagnostics
// (currently unused by the single-file compiler entry point but kept for
// the stdlib-discovery error paths that do carry a path).
func NewWithFile(code ErrorCode, tok token.Token, file string, args ...interface{}) *DiagnosticError {
	d := New(code, tok, args...)
	d.File = file
	return d
}

// InternalError reports a "should never happen" invariant violation,
// mirroring the teacher corpus's InternalError helper.
func InternalError(tok token.Token, message string) *DiagnosticError {
	return New(ErrCInternal, tok, message)
}
