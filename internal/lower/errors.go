package lower

import (
	"errors"
	"fmt"

	"sysyc/internal/source"
)

// ErrorKind classifies recoverable lowering failures.
type ErrorKind uint8

const (
	InvalidExpr ErrorKind = iota + 1
	FunctionNotFound
	BlockNotFound
	UnknownIdentifier
	ConstExpr
	BreakOutsideLoop
	ContinueOutsideLoop
	MultipleDefinition
)

var kindText = map[ErrorKind]string{
	InvalidExpr:         "invalid expression",
	FunctionNotFound:    "function not found",
	BlockNotFound:       "no current basic block",
	UnknownIdentifier:   "unknown identifier",
	ConstExpr:           "not a constant expression",
	BreakOutsideLoop:    "break outside of a loop",
	ContinueOutsideLoop: "continue outside of a loop",
	MultipleDefinition:  "multiple definition",
}

func (k ErrorKind) String() string {
	if s, ok := kindText[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

// Error is a recoverable lowering failure.
type Error struct {
	Kind ErrorKind
	Name string // offending identifier, if any
	Span source.Span
	Msg  string // extra detail, if any
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Name != "" {
		msg += " '" + e.Name + "'"
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	return msg
}

// Is matches any *Error of the same kind, so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrInvalidExpr         = &Error{Kind: InvalidExpr}
	ErrFunctionNotFound    = &Error{Kind: FunctionNotFound}
	ErrBlockNotFound       = &Error{Kind: BlockNotFound}
	ErrUnknownIdentifier   = &Error{Kind: UnknownIdentifier}
	ErrConstExpr           = &Error{Kind: ConstExpr}
	ErrBreakOutsideLoop    = &Error{Kind: BreakOutsideLoop}
	ErrContinueOutsideLoop = &Error{Kind: ContinueOutsideLoop}
	ErrMultipleDefinition  = &Error{Kind: MultipleDefinition}
)

func invalidf(sp source.Span, format string, args ...any) *Error {
	return &Error{Kind: InvalidExpr, Span: sp, Msg: fmt.Sprintf(format, args...)}
}

// FatalError aborts the whole compilation. It is never recovered inside the pass.
type FatalError struct {
	Span source.Span
	Msg  string
}

func (e *FatalError) Error() string { return e.Msg }

func fatalf(sp source.Span, format string, args ...any) *FatalError {
	return &FatalError{Span: sp, Msg: fmt.Sprintf(format, args...)}
}

// IsFatal reports whether err carries a *FatalError.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}

// Constant-evaluation failures. Lowering falls back to runtime code on any of them.
var (
	ErrDivisionByZero       = errors.New("division by zero in constant expression")
	ErrOverflow             = errors.New("integer overflow in constant expression")
	ErrNotSupportedVariable = errors.New("variable is not a compile-time constant")
	ErrFunctionNotSupported = errors.New("function call in constant expression")
)

// withSpan fills in the location of an *Error that was created without one.
func withSpan(err error, sp source.Span) error {
	var e *Error
	if errors.As(err, &e) && e.Span == (source.Span{}) {
		e.Span = sp
	}
	return err
}
