package lexer

import (
	"sysyc/internal/diag"
	"sysyc/internal/token"
)

// scanNumber accepts decimal ([1-9][0-9]*), octal (0[0-7]*) and hex (0[xX][0-9a-fA-F]+)
// literals. The value itself is decoded by the parser.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	bad := false

	switch {
	case lx.cursor.Peek() == '0' && (lx.cursor.PeekAt(1) == 'x' || lx.cursor.PeekAt(1) == 'X'):
		lx.cursor.Bump()
		lx.cursor.Bump()
		if !isHex(lx.cursor.Peek()) {
			bad = true
		}
		for isHex(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	case lx.cursor.Peek() == '0':
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) {
			if !isOct(lx.cursor.Bump()) {
				bad = true
			}
		}
	default:
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}

	// "12abc" is one malformed token, not a number followed by an identifier
	for isIdentContinue(lx.cursor.Peek()) {
		lx.cursor.Bump()
		bad = true
	}

	tok := lx.emit(token.IntLit, start)
	if bad {
		lx.report(diag.LexBadNumber, tok.Span, "malformed integer literal '"+tok.Text+"'")
		tok.Kind = token.Invalid
	}
	return tok
}
