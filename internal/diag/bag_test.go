package diag

import (
	"sync"
	"testing"

	"sysyc/internal/source"
)

func TestBagLimitAndDropped(t *testing.T) {
	b := NewBag(2)
	for i := range 4 {
		b.Add(NewError(LowInvalidExpr, source.Span{Start: uint32(i)}, "x"))
	}
	if b.Len() != 2 {
		t.Fatalf("Len = %d, want 2", b.Len())
	}
	if b.Dropped() != 2 {
		t.Fatalf("Dropped = %d, want 2", b.Dropped())
	}
}

func TestBagSortIsDeterministic(t *testing.T) {
	b := NewBag(0)
	b.Add(NewError(LowUnknownIdentifier, source.Span{File: 1, Start: 3, End: 4}, "b"))
	b.Add(Diagnostic{Severity: SevWarning, Code: LowInvalidExpr, Primary: source.Span{File: 0, Start: 9, End: 9}})
	b.Add(NewError(LowInvalidExpr, source.Span{File: 0, Start: 9, End: 9}, "a"))
	b.Add(NewError(SynExpectSemicolon, source.Span{File: 0, Start: 1, End: 2}, "c"))
	b.Sort()

	items := b.Items()
	want := []Code{SynExpectSemicolon, LowInvalidExpr, LowInvalidExpr, LowUnknownIdentifier}
	for i, c := range want {
		if items[i].Code != c {
			t.Fatalf("item %d code = %s, want %s", i, items[i].Code.ID(), c.ID())
		}
	}
	if items[1].Severity != SevError {
		t.Errorf("error must sort before warning at the same span")
	}
}

func TestBagConcurrentAdd(t *testing.T) {
	b := NewBag(0)
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				ReportError(BagReporter{Bag: b}, LowInvalidExpr, source.Span{}, "x")
			}
		}()
	}
	wg.Wait()
	if b.Len() != 800 {
		t.Fatalf("Len = %d, want 800", b.Len())
	}
}

func TestSeverityAndCodeStrings(t *testing.T) {
	if SevFatal.String() != "fatal" || Severity(42).String() != "unknown" {
		t.Errorf("unexpected severity names")
	}
	if got := LowUnknownIdentifier.ID(); got != "LOW3004" {
		t.Errorf("ID = %q", got)
	}
	if got := Code(9999).Title(); got != "Unknown error" {
		t.Errorf("Title = %q", got)
	}
}
