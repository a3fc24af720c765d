package parser

import (
	"sysyc/internal/ast"
	"sysyc/internal/diag"
	"sysyc/internal/token"
)

// parseBlock parses `{ items }` and gives the block the next scope id.
func (p *Parser) parseBlock() *ast.Block {
	start := p.expect(token.LBrace, diag.SynUnexpectedToken).Span
	p.nextBlock++
	block := &ast.Block{ID: p.nextBlock}
	for !p.at(token.RBrace) {
		if p.at(token.EOF) {
			p.fail(diag.SynUnclosedBrace, "block is not closed")
		}
		if p.at(token.KwConst) || p.at(token.KwInt) {
			block.Items = append(block.Items, p.parseDecl())
			continue
		}
		block.Items = append(block.Items, p.parseStmt())
	}
	p.advance()
	block.Span = p.spanFrom(start)
	return block
}

func (p *Parser) parseStmt() ast.Stmt {
	start := p.peek().Span
	switch p.peek().Kind {
	case token.LBrace:
		return p.parseBlock()

	case token.KwIf:
		p.advance()
		p.expect(token.LParen, diag.SynUnexpectedToken)
		s := &ast.IfStmt{Cond: p.parseExpr()}
		p.expect(token.RParen, diag.SynUnclosedParen)
		s.Then = p.parseStmt()
		if p.eat(token.KwElse) {
			s.Else = p.parseStmt()
		}
		s.Span = p.spanFrom(start)
		return s

	case token.KwWhile:
		p.advance()
		p.expect(token.LParen, diag.SynUnexpectedToken)
		s := &ast.WhileStmt{Cond: p.parseExpr()}
		p.expect(token.RParen, diag.SynUnclosedParen)
		s.Body = p.parseStmt()
		s.Span = p.spanFrom(start)
		return s

	case token.KwBreak:
		p.advance()
		p.expect(token.Semicolon, diag.SynExpectSemicolon)
		return &ast.BreakStmt{Span: p.spanFrom(start)}

	case token.KwContinue:
		p.advance()
		p.expect(token.Semicolon, diag.SynExpectSemicolon)
		return &ast.ContinueStmt{Span: p.spanFrom(start)}

	case token.KwReturn:
		p.advance()
		s := &ast.ReturnStmt{}
		if !p.at(token.Semicolon) {
			s.Value = p.parseExpr()
		}
		p.expect(token.Semicolon, diag.SynExpectSemicolon)
		s.Span = p.spanFrom(start)
		return s

	case token.Semicolon:
		p.advance()
		return &ast.ExprStmt{Span: start}
	}

	x := p.parseExpr()
	if p.eat(token.Assign) {
		target, ok := x.(*ast.LVal)
		if !ok {
			p.fail(diag.SynUnexpectedToken, "left side of '=' is not assignable")
		}
		s := &ast.AssignStmt{Target: target, Value: p.parseExpr()}
		p.expect(token.Semicolon, diag.SynExpectSemicolon)
		s.Span = p.spanFrom(start)
		return s
	}
	p.expect(token.Semicolon, diag.SynExpectSemicolon)
	return &ast.ExprStmt{Span: p.spanFrom(start), X: x}
}
