package parser

import (
	"sysyc/internal/ast"
	"sysyc/internal/diag"
	"sysyc/internal/token"
)

// parseDecl parses `[const] int def {, def} ;`.
func (p *Parser) parseDecl() *ast.Decl {
	start := p.peek().Span
	isConst := p.eat(token.KwConst)
	if !p.eat(token.KwInt) {
		p.fail(diag.SynBadType, "expected 'int' in declaration")
	}
	decl := &ast.Decl{Const: isConst}
	for {
		decl.Defs = append(decl.Defs, p.parseDef())
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(token.Semicolon, diag.SynExpectSemicolon)
	decl.Span = p.spanFrom(start)
	return decl
}

func (p *Parser) parseDef() *ast.Def {
	name := p.expect(token.Ident, diag.SynExpectIdentifier)
	def := &ast.Def{Name: name.Text}
	for p.eat(token.LBracket) {
		def.Dims = append(def.Dims, p.parseExpr())
		p.expect(token.RBracket, diag.SynUnclosedBracket)
	}
	if p.eat(token.Assign) {
		def.Init = p.parseInit()
	}
	def.Span = p.spanFrom(name.Span)
	return def
}

// parseInit parses an expression or a (possibly empty, possibly nested) brace list.
func (p *Parser) parseInit() ast.Initializer {
	start := p.peek().Span
	if !p.eat(token.LBrace) {
		x := p.parseExpr()
		return &ast.InitExpr{Span: x.NodeSpan(), X: x}
	}
	list := &ast.InitList{}
	if !p.at(token.RBrace) {
		for {
			list.Items = append(list.Items, p.parseInit())
			if !p.eat(token.Comma) {
				break
			}
		}
	}
	p.expect(token.RBrace, diag.SynUnclosedBrace)
	list.Span = p.spanFrom(start)
	return list
}

// parseFuncDef parses `int|void name ( params ) block`.
func (p *Parser) parseFuncDef() *ast.FuncDef {
	start := p.peek().Span
	fn := &ast.FuncDef{Ret: ast.TypeInt}
	switch {
	case p.eat(token.KwVoid):
		fn.Ret = ast.TypeVoid
	case p.eat(token.KwInt):
	default:
		p.fail(diag.SynBadType, "expected return type")
	}
	fn.Name = p.expect(token.Ident, diag.SynExpectIdentifier).Text
	p.expect(token.LParen, diag.SynUnexpectedToken)
	if !p.at(token.RParen) {
		for {
			fn.Params = append(fn.Params, p.parseParam())
			if !p.eat(token.Comma) {
				break
			}
		}
	}
	p.expect(token.RParen, diag.SynUnclosedParen)
	fn.Body = p.parseBlock()
	fn.Span = p.spanFrom(start)
	return fn
}

// parseParam parses `int name` or `int name[] {[expr]}`.
func (p *Parser) parseParam() *ast.Param {
	start := p.peek().Span
	if !p.eat(token.KwInt) {
		p.fail(diag.SynBadType, "parameters must have type 'int'")
	}
	param := &ast.Param{Name: p.expect(token.Ident, diag.SynExpectIdentifier).Text}
	if p.eat(token.LBracket) {
		p.expect(token.RBracket, diag.SynUnclosedBracket)
		param.Array = true
		for p.eat(token.LBracket) {
			param.Dims = append(param.Dims, p.parseExpr())
			p.expect(token.RBracket, diag.SynUnclosedBracket)
		}
	}
	param.Span = p.spanFrom(start)
	return param
}
