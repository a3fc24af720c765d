package lexer

import (
	"fmt"

	"sysyc/internal/diag"
	"sysyc/internal/token"
)

var twoByteOps = [...]struct {
	a, b byte
	kind token.Kind
}{
	{'&', '&', token.AndAnd},
	{'|', '|', token.OrOr},
	{'=', '=', token.EqEq},
	{'!', '=', token.BangEq},
	{'<', '=', token.LtEq},
	{'>', '=', token.GtEq},
}

var oneByteOps = map[byte]token.Kind{
	'+': token.Plus, '-': token.Minus, '*': token.Star, '/': token.Slash, '%': token.Percent,
	'=': token.Assign, '<': token.Lt, '>': token.Gt, '!': token.Bang,
	';': token.Semicolon, ',': token.Comma,
	'(': token.LParen, ')': token.RParen,
	'[': token.LBracket, ']': token.RBracket,
	'{': token.LBrace, '}': token.RBrace,
}

// scanOperatorOrPunct is greedy: two-byte operators win over one-byte ones.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	b0, b1 := lx.cursor.Peek(), lx.cursor.PeekAt(1)
	for _, op := range twoByteOps {
		if b0 == op.a && b1 == op.b {
			lx.cursor.Bump()
			lx.cursor.Bump()
			return lx.emit(op.kind, start)
		}
	}

	lx.cursor.Bump()
	if kind, ok := oneByteOps[b0]; ok {
		return lx.emit(kind, start)
	}
	// не-ASCII: съедаем всю последовательность UTF-8, чтобы не резать руну
	for !lx.cursor.EOF() && lx.cursor.Peek()&0xC0 == 0x80 {
		lx.cursor.Bump()
	}
	tok := lx.emit(token.Invalid, start)
	lx.report(diag.LexUnknownChar, tok.Span, fmt.Sprintf("unexpected character %q", tok.Text))
	return tok
}
