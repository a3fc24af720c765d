package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerSummary(t *testing.T) {
	tm := NewTimer()
	parse := tm.Begin("parse")
	lower := tm.Begin("lower")
	tm.End(parse, "")
	tm.End(lower, "3 functions")
	tm.End(42, "ignored")

	phases := tm.Phases()
	if len(phases) != 2 || phases[0].Name != "parse" || phases[1].Note != "3 functions" {
		t.Fatalf("phases = %+v", phases)
	}
	if tm.Total() < phases[0].Dur || tm.Total() < time.Duration(0) {
		t.Errorf("total %v smaller than a phase", tm.Total())
	}
	sum := tm.Summary("a.sy")
	for _, want := range []string{"timings a.sy:", "parse", "lower", "// 3 functions", "total"} {
		if !strings.Contains(sum, want) {
			t.Errorf("summary missing %q:\n%s", want, sum)
		}
	}
}
