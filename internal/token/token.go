package token

import "sysyc/internal/source"

// Token is a single significant token. Comments and whitespace are dropped by the lexer.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsKeyword reports whether the token is a reserved word.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwInt && t.Kind <= KwReturn
}

// IsType reports whether the token starts a type (int or void).
func (t Token) IsType() bool {
	return t.Kind == KwInt || t.Kind == KwVoid
}
