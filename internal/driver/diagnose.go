package driver

import (
	"errors"

	"sysyc/internal/diag"
	"sysyc/internal/lower"
	"sysyc/internal/source"
)

var lowerCodes = map[lower.ErrorKind]diag.Code{
	lower.InvalidExpr:         diag.LowInvalidExpr,
	lower.FunctionNotFound:    diag.LowFunctionNotFound,
	lower.BlockNotFound:       diag.LowBlockNotFound,
	lower.UnknownIdentifier:   diag.LowUnknownIdentifier,
	lower.ConstExpr:           diag.LowConstExpr,
	lower.BreakOutsideLoop:    diag.LowBreakOutsideLoop,
	lower.ContinueOutsideLoop: diag.LowContinueOutsideLoop,
	lower.MultipleDefinition:  diag.LowMultipleDefinition,
}

// Diagnose converts a lowering failure into a diagnostic. Errors without a
// location are attached to the start of file.
func Diagnose(err error, file source.FileID) diag.Diagnostic {
	var (
		le *lower.Error
		fe *lower.FatalError
	)
	d := diag.Diagnostic{Severity: diag.SevError, Code: diag.UnknownCode, Message: err.Error()}
	switch {
	case errors.As(err, &fe):
		d.Severity, d.Code, d.Primary = diag.SevFatal, diag.LowFatalConfig, fe.Span
	case errors.As(err, &le):
		d.Code, d.Primary = lowerCodes[le.Kind], le.Span
	}
	if d.Primary == (source.Span{}) {
		d.Primary.File = file
	}
	return d
}
