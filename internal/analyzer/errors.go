package analyzer

import (
	"github.com/neknaj/neplg1/internal/ast"
	"github.com/neknaj/neplg1/internal/diagnostics"
)

// resolveError builds a DiagnosticError anchored to n's token and the
// template arguments its code expects, mirroring the teacher corpus's
// inferError helper.
func resolveError(n ast.Node, code diagnostics.ErrorCode, args ...interface{}) *diagnostics.DiagnosticError {
	return diagnostics.New(code, n.GetToken(), args...)
}
