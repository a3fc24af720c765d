package parser

import (
	"sysyc/internal/diag"
	"sysyc/internal/source"
	"sysyc/internal/token"
)

func (p *Parser) peek() token.Token {
	return p.peekAt(0)
}

// peekAt looks n tokens ahead; past the end it returns the EOF token.
func (p *Parser) peekAt(n int) token.Token {
	if p.pos+n < len(p.toks) {
		return p.toks[p.pos+n]
	}
	return p.toks[len(p.toks)-1]
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) advance() token.Token {
	t := p.peek()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

// prevSpan is the span of the last consumed token.
func (p *Parser) prevSpan() source.Span {
	if p.pos == 0 {
		return p.peek().Span
	}
	return p.toks[p.pos-1].Span
}

// spanFrom covers everything from start to the last consumed token.
func (p *Parser) spanFrom(start source.Span) source.Span {
	return start.Cover(p.prevSpan())
}

func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// expect consumes k or reports code and bails out of the current item.
func (p *Parser) expect(k token.Kind, code diag.Code) token.Token {
	if p.at(k) {
		return p.advance()
	}
	p.fail(code, "expected '"+k.String()+"', found '"+p.peek().Kind.String()+"'")
	return token.Token{}
}

// fail reports a syntax error at the current token and unwinds the item.
func (p *Parser) fail(code diag.Code, msg string) {
	sp := p.peek().Span
	if p.at(token.EOF) && p.pos > 0 {
		// у EOF пустой спан: показываем место сразу после последнего токена
		prev := p.prevSpan()
		sp = source.Span{File: prev.File, Start: prev.End, End: prev.End}
	}
	p.failAt(sp, code, msg)
}

func (p *Parser) failAt(sp source.Span, code diag.Code, msg string) {
	p.errors++
	if !p.enough() {
		diag.ReportError(p.opts.Reporter, code, sp, msg)
	}
	panic(bailout{})
}

func (p *Parser) enough() bool {
	return p.opts.MaxErrors > 0 && p.errors >= p.opts.MaxErrors
}
