package parser

import (
	"math"
	"strconv"

	"sysyc/internal/ast"
	"sysyc/internal/diag"
	"sysyc/internal/token"
)

// Приоритеты бинарных операторов: чем больше, тем сильнее связывает.
const (
	precNone = iota
	precLogicalOr
	precLogicalAnd
	precEquality
	precComparison
	precAdditive
	precMultiplicative
)

var binaryOps = map[token.Kind]struct {
	prec int
	op   ast.BinaryOp
}{
	token.OrOr:    {precLogicalOr, ast.OpOr},
	token.AndAnd:  {precLogicalAnd, ast.OpAnd},
	token.EqEq:    {precEquality, ast.OpEq},
	token.BangEq:  {precEquality, ast.OpNe},
	token.Lt:      {precComparison, ast.OpLt},
	token.Gt:      {precComparison, ast.OpGt},
	token.LtEq:    {precComparison, ast.OpLe},
	token.GtEq:    {precComparison, ast.OpGe},
	token.Plus:    {precAdditive, ast.OpAdd},
	token.Minus:   {precAdditive, ast.OpSub},
	token.Star:    {precMultiplicative, ast.OpMul},
	token.Slash:   {precMultiplicative, ast.OpDiv},
	token.Percent: {precMultiplicative, ast.OpMod},
}

func (p *Parser) parseExpr() ast.Expr {
	return p.parseBinary(precLogicalOr)
}

// parseBinary is precedence climbing; all binary operators are left-associative.
func (p *Parser) parseBinary(minPrec int) ast.Expr {
	lhs := p.parseUnary()
	for {
		info, ok := binaryOps[p.peek().Kind]
		if !ok || info.prec < minPrec {
			return lhs
		}
		p.advance()
		rhs := p.parseBinary(info.prec + 1)
		lhs = &ast.BinaryExpr{
			Span: lhs.NodeSpan().Cover(rhs.NodeSpan()),
			Op:   info.op,
			X:    lhs,
			Y:    rhs,
		}
	}
}

func (p *Parser) parseUnary() ast.Expr {
	start := p.peek().Span
	var op ast.UnaryOp
	switch p.peek().Kind {
	case token.Plus:
		op = ast.OpPlus
	case token.Minus:
		op = ast.OpNeg
	case token.Bang:
		op = ast.OpNot
	default:
		return p.parsePrimary()
	}
	p.advance()
	x := p.parseUnary()
	return &ast.UnaryExpr{Span: start.Cover(x.NodeSpan()), Op: op, X: x}
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.peek()
	switch tok.Kind {
	case token.LParen:
		p.advance()
		x := p.parseExpr()
		p.expect(token.RParen, diag.SynUnclosedParen)
		return x

	case token.IntLit:
		p.advance()
		v, wrapped := p.decodeInt(tok)
		return &ast.NumberLit{Span: tok.Span, Value: v, Wrapped: wrapped}

	case token.Ident:
		p.advance()
		if p.eat(token.LParen) {
			call := &ast.CallExpr{Name: tok.Text}
			if !p.at(token.RParen) {
				for {
					call.Args = append(call.Args, p.parseExpr())
					if !p.eat(token.Comma) {
						break
					}
				}
			}
			p.expect(token.RParen, diag.SynUnclosedParen)
			call.Span = p.spanFrom(tok.Span)
			return call
		}
		lv := &ast.LVal{Name: tok.Text}
		for p.eat(token.LBracket) {
			lv.Indices = append(lv.Indices, p.parseExpr())
			p.expect(token.RBracket, diag.SynUnclosedBracket)
		}
		lv.Span = p.spanFrom(tok.Span)
		return lv
	}
	p.fail(diag.SynExpectExpression, "expected expression, found '"+tok.Kind.String()+"'")
	return nil
}

// decodeInt converts a literal to int32. Values up to 2^32-1 are accepted and
// wrap, so that -2147483648 and 0xFFFFFFFF can be written; wrapped reports it.
func (p *Parser) decodeInt(tok token.Token) (v int32, wrapped bool) {
	u, err := strconv.ParseUint(tok.Text, 0, 32)
	if err != nil {
		p.failAt(tok.Span, diag.LexBadNumber, "integer literal '"+tok.Text+"' out of range")
	}
	return int32(uint32(u)), u > math.MaxInt32 // #nosec G115 -- wrap-around is the documented behavior
}
