package parser

import (
	"sysyc/internal/ast"
	"sysyc/internal/diag"
	"sysyc/internal/lexer"
	"sysyc/internal/source"
	"sysyc/internal/token"
)

type Options struct {
	Reporter diag.Reporter
	// MaxErrors stops parsing after that many syntax errors; 0 means no limit.
	MaxErrors int
}

// Result is the outcome of parsing one file. Unit is never nil; items that
// failed to parse are skipped.
type Result struct {
	Unit   *ast.CompUnit
	Errors int
}

// Parser holds the state for one file.
type Parser struct {
	toks      []token.Token
	pos       int
	file      source.FileID
	opts      Options
	errors    int
	nextBlock uint32
}

// bailout unwinds the parse of the current item after a syntax error.
type bailout struct{}

// ParseFile tokenizes and parses f.
func ParseFile(f *source.File, opts Options) Result {
	lx := lexer.New(f, lexer.Options{Reporter: opts.Reporter})
	p := &Parser{toks: lx.All(), file: f.ID, opts: opts}
	unit := &ast.CompUnit{File: f.ID}
	for !p.at(token.EOF) && !p.enough() {
		from := p.pos
		if item, ok := p.parseItem(); ok {
			unit.Items = append(unit.Items, item)
		} else {
			p.resyncTop(from)
		}
	}
	return Result{Unit: unit, Errors: p.errors}
}

// parseItem parses one top-level declaration or function.
func (p *Parser) parseItem() (item ast.Item, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, isBail := r.(bailout); !isBail {
				panic(r)
			}
			item, ok = nil, false
		}
	}()

	switch {
	case p.at(token.KwConst):
		return p.parseDecl(), true
	case p.at(token.KwVoid):
		return p.parseFuncDef(), true
	case p.at(token.KwInt) && p.peekAt(1).Kind == token.Ident && p.peekAt(2).Kind == token.LParen:
		return p.parseFuncDef(), true
	case p.at(token.KwInt):
		return p.parseDecl(), true
	}
	p.fail(diag.SynUnexpectedToken, "expected declaration or function definition, found '"+p.peek().Kind.String()+"'")
	return nil, false
}

// resyncTop skips past the end of the item that started at token index from:
// the next ';' or closing '}' at brace depth 0.
func (p *Parser) resyncTop(from int) {
	depth := 0
	for _, t := range p.toks[from:p.pos] {
		switch t.Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			depth--
		}
	}
	for !p.at(token.EOF) {
		switch p.advance().Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			depth--
			if depth <= 0 {
				return
			}
		case token.Semicolon:
			if depth <= 0 {
				return
			}
		}
	}
}
