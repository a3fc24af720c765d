package token

import "testing"

func TestKeywordsRoundTrip(t *testing.T) {
	for word, kind := range keywords {
		if kind.String() != word {
			t.Errorf("%q maps to %v which prints as %q", word, kind, kind.String())
		}
		if !(Token{Kind: kind}).IsKeyword() {
			t.Errorf("%q not reported as keyword", word)
		}
	}
	if _, ok := LookupKeyword("main"); ok {
		t.Errorf("main must not be a keyword")
	}
}

func TestKindStringCoversOperators(t *testing.T) {
	for k := Plus; k <= RBrace; k++ {
		if k.String() == "unknown" {
			t.Errorf("kind %d has no name", k)
		}
	}
	if Kind(200).String() != "unknown" {
		t.Errorf("out of range kind must print as unknown")
	}
}
