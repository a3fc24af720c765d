package lexer_test

import (
	"testing"

	"sysyc/internal/diag"
	"sysyc/internal/lexer"
	"sysyc/internal/source"
	"sysyc/internal/token"
)

func lex(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.sy", []byte(src))
	bag := diag.NewBag(0)
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return lx.All(), bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestLexFunctionHeader(t *testing.T) {
	toks, bag := lex(t, "int main() { return a[1][2] <= 0x1F && !b; }")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	want := []token.Kind{
		token.KwInt, token.Ident, token.LParen, token.RParen, token.LBrace,
		token.KwReturn, token.Ident, token.LBracket, token.IntLit, token.RBracket,
		token.LBracket, token.IntLit, token.RBracket, token.LtEq, token.IntLit,
		token.AndAnd, token.Bang, token.Ident, token.Semicolon, token.RBrace, token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, got[i], want[i])
		}
	}
	if toks[14].Text != "0x1F" {
		t.Errorf("hex literal text = %q", toks[14].Text)
	}
}

func TestLexSkipsComments(t *testing.T) {
	toks, bag := lex(t, "// line\nconst /* block\n comment */ int x = 010;")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	want := []token.Kind{token.KwConst, token.KwInt, token.Ident, token.Assign, token.IntLit, token.Semicolon, token.EOF}
	got := kinds(toks)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tokens = %v, want %v", got, want)
		}
	}
	if toks[0].Span.Start != 8 {
		t.Errorf("const starts at %d, want 8", toks[0].Span.Start)
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"bad octal", "int x = 09;", diag.LexBadNumber},
		{"empty hex", "int x = 0x;", diag.LexBadNumber},
		{"digits then letters", "int x = 12ab;", diag.LexBadNumber},
		{"unknown char", "int x = 1 @ 2;", diag.LexUnknownChar},
		{"unicode char", "int x = 1 × 2;", diag.LexUnknownChar},
		{"open comment", "int x; /* never closed", diag.LexUnterminatedBlockComment},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, bag := lex(t, tt.src)
			items := bag.Items()
			if len(items) != 1 || items[0].Code != tt.code {
				t.Fatalf("diagnostics = %+v, want one %s", items, tt.code.ID())
			}
			if toks[len(toks)-1].Kind != token.EOF {
				t.Errorf("lexing must still reach EOF")
			}
		})
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	fs := source.NewFileSet()
	lx := lexer.New(fs.Get(fs.AddVirtual("p.sy", []byte("a b"))), lexer.Options{})
	if p := lx.Peek(); p.Text != "a" {
		t.Fatalf("Peek = %q", p.Text)
	}
	if n := lx.Next(); n.Text != "a" {
		t.Fatalf("Next after Peek = %q", n.Text)
	}
	if n := lx.Next(); n.Text != "b" {
		t.Fatalf("second Next = %q", n.Text)
	}
	if lx.Next().Kind != token.EOF || lx.Next().Kind != token.EOF {
		t.Fatalf("EOF must repeat")
	}
}
