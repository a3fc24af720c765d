package fuzztests

import (
	"testing"
	"time"

	"sysyc/internal/diag"
	"sysyc/internal/parser"
	"sysyc/internal/source"
	"sysyc/internal/testkit"
)

func FuzzParserBuildsAST(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.sy", clip(input)))
		bag := diag.NewBag(128)

		done := make(chan parser.Result, 1)
		go func() {
			done <- parser.ParseFile(file, parser.Options{Reporter: diag.BagReporter{Bag: bag}, MaxErrors: 128})
		}()
		select {
		case res := <-done:
			if bag.Len() == 0 {
				if err := testkit.CheckSpanInvariants(res.Unit, file); err != nil {
					t.Fatalf("clean parse broke span invariants: %v", err)
				}
			}
		case <-time.After(parseTimeout):
			t.Fatalf("parser hung on %d bytes", len(file.Content))
		}
	})
}
