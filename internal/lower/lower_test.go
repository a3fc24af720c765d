package lower_test

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"

	"sysyc/internal/diag"
	"sysyc/internal/lower"
	"sysyc/internal/parser"
	"sysyc/internal/source"
	"sysyc/internal/trace"
)

func lowerSource(t *testing.T, ctx context.Context, src string) (*ir.Module, error) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.sy", []byte(src))
	bag := diag.NewBag(0)
	res := parser.ParseFile(fs.Get(id), parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.Len() != 0 {
		t.Fatalf("syntax errors in test source: %+v", bag.Items())
	}
	return lower.Program(ctx, res.Unit)
}

func mustLower(t *testing.T, src string) *ir.Module {
	t.Helper()
	m, err := lowerSource(t, context.Background(), src)
	if err != nil {
		t.Fatalf("Program: %v", err)
	}
	if err := lower.Validate(m); err != nil {
		t.Fatalf("Validate:\n%v\n%s", err, m)
	}
	return m
}

func funcNamed(t *testing.T, m *ir.Module, name string) *ir.Func {
	t.Helper()
	for _, f := range m.Funcs {
		if f.Name() == name {
			return f
		}
	}
	t.Fatalf("no function %s", name)
	return nil
}

func allocaNames(b *ir.Block) []string {
	var names []string
	for _, inst := range b.Insts {
		if a, ok := inst.(*ir.InstAlloca); ok {
			names = append(names, a.Name())
		}
	}
	return names
}

func TestReturnFoldsConstants(t *testing.T) {
	m := mustLower(t, `
const int N = 3 * 4;
int main() { return N + 1; }
`)
	if len(m.Globals) != 0 {
		t.Errorf("scalar constant got storage: %v", m.Globals)
	}
	if !strings.Contains(m.String(), "ret i32 13") {
		t.Errorf("missing folded return:\n%s", m)
	}
}

func TestParametersGetSlots(t *testing.T) {
	m := mustLower(t, `int add(int a, int b) { return a + b; }`)
	f := funcNamed(t, m, "add")
	entry := f.Blocks[0]
	if got := strings.Join(allocaNames(entry), ","); got != "_p_a,_p_b" {
		t.Errorf("entry slots = %s", got)
	}
	stores := 0
	for _, inst := range entry.Insts {
		if _, ok := inst.(*ir.InstStore); ok {
			stores++
		}
	}
	if stores != 2 {
		t.Errorf("entry stores = %d, want 2", stores)
	}
	if _, ok := entry.Term.(*ir.TermBr); !ok {
		t.Errorf("entry terminator = %T, want br", entry.Term)
	}
}

func TestShadowedLocalsGetDistinctSlots(t *testing.T) {
	m := mustLower(t, `
int main() {
	int a = 1;
	{
		int a = 2;
	}
	return a;
}`)
	f := funcNamed(t, m, "main")
	if got := strings.Join(allocaNames(f.Blocks[0]), ","); got != "_1_a,_2_a" {
		t.Fatalf("slots = %s", got)
	}
	for _, b := range f.Blocks {
		ret, ok := b.Term.(*ir.TermRet)
		if !ok {
			continue
		}
		load, ok := ret.X.(*ir.InstLoad)
		if !ok {
			t.Fatalf("return value = %T, want load", ret.X)
		}
		if slot := load.Src.(*ir.InstAlloca).Name(); slot != "_1_a" {
			t.Errorf("return reads %s, want _1_a", slot)
		}
	}
}

func TestLoopLocalsAreHoisted(t *testing.T) {
	m := mustLower(t, `
int main() {
	int i = 0;
	while (i < 3) {
		int t = i;
		i = t + 1;
	}
	return i;
}`)
	f := funcNamed(t, m, "main")
	if got := strings.Join(allocaNames(f.Blocks[0]), ","); got != "_1_i,_2_t" {
		t.Errorf("entry slots = %s", got)
	}
	for _, b := range f.Blocks[1:] {
		if names := allocaNames(b); len(names) != 0 {
			t.Errorf("block %s allocates %v", b.Name(), names)
		}
	}
}

func TestShortCircuitSkipsRight(t *testing.T) {
	for _, op := range []string{"&&", "||"} {
		m := mustLower(t, `
int f() { return 1; }
int main() {
	int a = getint();
	if (a `+op+` f()) return 1;
	return 0;
}`)
		main := funcNamed(t, m, "main")
		found := false
		for _, b := range main.Blocks {
			for _, inst := range b.Insts {
				call, ok := inst.(*ir.InstCall)
				if !ok || call.Callee.(*ir.Func).Name() != "f" {
					continue
				}
				found = true
				if !strings.HasPrefix(b.Name(), "rhs.") {
					t.Errorf("%s: call to f in block %s", op, b.Name())
				}
			}
		}
		if !found {
			t.Errorf("%s: no call to f", op)
		}
	}
}

func TestCodeAfterJumpIsDropped(t *testing.T) {
	m := mustLower(t, `
int main() {
	return 1;
	putint(2);
}`)
	for _, b := range funcNamed(t, m, "main").Blocks {
		for _, inst := range b.Insts {
			if _, ok := inst.(*ir.InstCall); ok {
				t.Fatalf("unreachable call emitted in %s", b.Name())
			}
		}
	}
}

func TestImplicitReturns(t *testing.T) {
	m := mustLower(t, `
void f() { putint(1); }
int main() { int a = 1; }
`)
	last := func(f *ir.Func) *ir.TermRet {
		ret, ok := f.Blocks[len(f.Blocks)-1].Term.(*ir.TermRet)
		if !ok {
			t.Fatalf("%s does not end in ret", f.Name())
		}
		return ret
	}
	if ret := last(funcNamed(t, m, "f")); ret.X != nil {
		t.Errorf("void function returns %v", ret.X)
	}
	ret := last(funcNamed(t, m, "main"))
	if c, ok := ret.X.(*constant.Int); !ok || c.X.Int64() != 0 {
		t.Errorf("main returns %v, want i32 0", ret.X)
	}
}

func TestControlFlowValidates(t *testing.T) {
	sources := map[string]string{
		"if else": `
int main() {
	int a = getint();
	if (a > 1) { a = 2; } else if (a < 0) { return 3; } else a = 4;
	return a;
}`,
		"nested loops": `
int main() {
	int i = 0, s = 0;
	while (i < 10) {
		i = i + 1;
		if (i % 2) continue;
		int j = 0;
		while (1) {
			if (j >= i) break;
			s = s + j;
			j = j + 1;
		}
	}
	putint(s);
	return 0;
}`,
		"break last": `int main() { while (1) { break; } return 0; }`,
		"return in both arms": `
int sign(int x) {
	if (x < 0) return -1; else { return !x == 0; }
}`,
		"recursion": `int fib(int n) { if (n < 2) return n; return fib(n - 1) + fib(n - 2); }`,
		"logic in loop": `
int main() {
	int i = 0;
	while (i < 5 && (i != 3 || getint())) i = i + 1;
	return i;
}`,
	}
	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			mustLower(t, src)
		})
	}
}

// blockSeq returns the sequence number of a block named "<hint>.<n>".
func blockSeq(t *testing.T, b *ir.Block) int {
	t.Helper()
	_, num, ok := strings.Cut(b.Name(), ".")
	n, err := strconv.Atoi(num)
	if !ok || err != nil {
		t.Fatalf("unexpected block name %q", b.Name())
	}
	return n
}

func TestJumpsTargetInnermostLoop(t *testing.T) {
	m := mustLower(t, `
int main() {
	int i = 0;
	while (i < 10) {
		i = i + 1;
		if (i % 2) continue;
		while (1) {
			break;
		}
	}
	return i;
}`)
	main := funcNamed(t, m, "main")
	var headers, ends []*ir.Block
	for _, b := range main.Blocks {
		switch {
		case strings.HasPrefix(b.Name(), "while."):
			headers = append(headers, b)
		case strings.HasPrefix(b.Name(), "endwhile."):
			ends = append(ends, b)
		}
	}
	if len(headers) != 2 || len(ends) != 2 {
		t.Fatalf("headers %d, ends %d:\n%s", len(headers), len(ends), m)
	}
	// the outer loop allocates its blocks first
	sort.Slice(headers, func(i, j int) bool { return blockSeq(t, headers[i]) < blockSeq(t, headers[j]) })
	sort.Slice(ends, func(i, j int) bool { return blockSeq(t, ends[i]) < blockSeq(t, ends[j]) })
	outerHead, innerEnd, outerEnd := headers[0], ends[1], ends[0]

	var breakSeen, continueSeen bool
	for _, b := range main.Blocks {
		br, ok := b.Term.(*ir.TermBr)
		if !ok {
			continue
		}
		switch br.Target {
		case innerEnd:
			breakSeen = true
		case outerEnd:
			t.Errorf("%s jumps to the outer loop exit", b.Name())
		case outerHead:
			if strings.HasPrefix(b.Name(), "then.") {
				continueSeen = true
			}
		}
	}
	if !breakSeen {
		t.Errorf("break does not jump to %s:\n%s", innerEnd.Name(), m)
	}
	if !continueSeen {
		t.Errorf("continue does not jump to %s:\n%s", outerHead.Name(), m)
	}
}

func TestPointerParameterIndexing(t *testing.T) {
	m := mustLower(t, `void f(int a[]) { a[3] = 5; }`)
	var loaded *ir.InstLoad
	var step *ir.InstGetElementPtr
	for _, b := range funcNamed(t, m, "f").Blocks {
		for _, inst := range b.Insts {
			switch inst := inst.(type) {
			case *ir.InstLoad:
				if types.Equal(inst.ElemType, types.NewPointer(types.I32)) {
					loaded = inst
				}
			case *ir.InstGetElementPtr:
				if len(inst.Indices) != 1 {
					t.Errorf("array-style GEP on a pointer parameter: %s", inst.LLString())
				}
				step = inst
			}
		}
	}
	if loaded == nil || step == nil {
		t.Fatalf("load %v, gep %v:\n%s", loaded, step, m)
	}
	if step.Src != loaded {
		t.Errorf("GEP indexes %s, want the loaded pointer", step.Src.Ident())
	}
	if idx, ok := step.Indices[0].(*constant.Int); !ok || idx.X.Int64() != 3 {
		t.Errorf("GEP index = %v, want 3", step.Indices[0])
	}
}

func TestConditionsComputeBitOnce(t *testing.T) {
	m := mustLower(t, `
int main() {
	int a = getint(), b = getint();
	while (a < b) a = a + 1;
	if (a && b) return 1;
	return 0;
}`)
	for _, b := range funcNamed(t, m, "main").Blocks {
		var cmps []string
		for _, inst := range b.Insts {
			switch inst := inst.(type) {
			case *ir.InstICmp:
				cmps = append(cmps, inst.X.Ident()+" "+inst.Pred.String()+" "+inst.Y.Ident())
			case *ir.InstZExt:
				if strings.HasPrefix(b.Name(), "while.") {
					t.Errorf("loop condition widened in %s: %s", b.Name(), inst.LLString())
				}
			}
		}
		seen := map[string]bool{}
		for _, c := range cmps {
			if seen[c] {
				t.Errorf("%s compares %s twice:\n%s", b.Name(), c, m)
			}
			seen[c] = true
		}
	}
}

func TestGlobals(t *testing.T) {
	m := mustLower(t, `
int g = 5;
int z[100];
const int c[2] = {3, 4};
int main() { return g + z[5] + c[1]; }
`)
	byName := map[string]*ir.Global{}
	for _, g := range m.Globals {
		byName[g.Name()] = g
	}
	if g := byName["_0_g"]; g == nil || g.Init.(*constant.Int).X.Int64() != 5 {
		t.Errorf("g = %v", g)
	}
	if z := byName["_0_z"]; z == nil {
		t.Error("no global z")
	} else if _, ok := z.Init.(*constant.ZeroInitializer); !ok {
		t.Errorf("z init = %T, want zeroinitializer", z.Init)
	}
	c := byName["_0_c"]
	if c == nil || !c.Immutable {
		t.Fatalf("c = %v, want an immutable global", c)
	}
	for _, b := range funcNamed(t, m, "main").Blocks {
		for _, inst := range b.Insts {
			if gep, ok := inst.(*ir.InstGetElementPtr); ok && gep.Src == c {
				t.Errorf("c[1] read at runtime:\n%s", m)
			}
		}
	}
}

func TestArrayParameters(t *testing.T) {
	m := mustLower(t, `
int sum(int a[], int n) { return a[0] + a[n - 1]; }
void set(int a[][3]) { a[1][2] = 5; }
int main() {
	int x[3] = {1, 2, 3};
	int b[2][3];
	set(b);
	return sum(x, 3) + sum(b[1], 3);
}`)
	sum := funcNamed(t, m, "sum")
	if !types.Equal(sum.Params[0].Typ, types.NewPointer(types.I32)) {
		t.Errorf("sum param = %s", sum.Params[0].Typ)
	}
	set := funcNamed(t, m, "set")
	if got := set.Params[0].Typ.String(); got != "[3 x i32]*" {
		t.Errorf("set param = %s", got)
	}
}

func TestLocalArrayRuntimeElements(t *testing.T) {
	m := mustLower(t, `
int main() {
	int x = getint();
	int a[2][2] = {1, x};
	return a[0][1];
}`)
	var aggregate, element bool
	for _, b := range funcNamed(t, m, "main").Blocks {
		for _, inst := range b.Insts {
			switch inst := inst.(type) {
			case *ir.InstStore:
				if _, ok := inst.Src.(*constant.Array); ok {
					aggregate = true
				}
			case *ir.InstGetElementPtr:
				if len(inst.Indices) == 3 {
					element = true
				}
			}
		}
	}
	if !aggregate || !element {
		t.Errorf("aggregate store %v, element store %v:\n%s", aggregate, element, m)
	}
}

func TestLoweringErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"break outside loop", `int main() { break; }`, lower.ErrBreakOutsideLoop},
		{"continue outside loop", `int main() { if (1) continue; return 0; }`, lower.ErrContinueOutsideLoop},
		{"unknown name", `int main() { return x; }`, lower.ErrUnknownIdentifier},
		{"unknown function", `int main() { return f(); }`, lower.ErrFunctionNotFound},
		{"duplicate local", `int main() { int a; int a; return 0; }`, lower.ErrMultipleDefinition},
		{"duplicate param", `int f(int a, int a) { return a; }`, lower.ErrMultipleDefinition},
		{"duplicate function", `int f() { return 0; } int f() { return 1; }`, lower.ErrMultipleDefinition},
		{"redefined builtin", `int getint() { return 0; }`, lower.ErrMultipleDefinition},
		{"assign to constant", `const int a = 1; int main() { a = 2; return 0; }`, lower.ErrInvalidExpr},
		{"runtime const", `int main() { int x = getint(); const int c = x; return c; }`, lower.ErrConstExpr},
		{"runtime const array", `int main() { const int c[2] = {getint()}; return 0; }`, lower.ErrConstExpr},
		{"void as value", `void f() {} int main() { return f(); }`, lower.ErrInvalidExpr},
		{"missing return value", `int main() { return; }`, lower.ErrInvalidExpr},
		{"value from void", `void f() { return 1; }`, lower.ErrInvalidExpr},
		{"arity", `int f(int a) { return a; } int main() { return f(1, 2); }`, lower.ErrInvalidExpr},
		{"array as int", `int main() { int a[2]; return a; }`, lower.ErrInvalidExpr},
		{"assign array", `int main() { int a[2]; a = 1; return 0; }`, lower.ErrInvalidExpr},
		{"index scalar", `int main() { int a; return a[0]; }`, lower.ErrInvalidExpr},
		{"int for pointer", `int main() { return getarray(1); }`, lower.ErrInvalidExpr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lowerSource(t, context.Background(), tt.src)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if lower.IsFatal(err) {
				t.Errorf("recoverable error reported as fatal: %v", err)
			}
		})
	}
}

func TestMinInt32Literal(t *testing.T) {
	tests := map[string]string{
		"const":         `const int m = -2147483648; int main() { return m; }`,
		"global":        `int g = -2147483648; int main() { return g; }`,
		"const array":   `const int a[2] = {-2147483648, 1}; int main() { return a[0]; }`,
		"local runtime": `int main() { int x = -2147483648; return x; }`,
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			m := mustLower(t, src)
			if !strings.Contains(m.String(), "-2147483648") {
				t.Errorf("INT_MIN not folded:\n%s", m)
			}
		})
	}

	_, err := lowerSource(t, context.Background(), `const int m = -(-2147483648); int main() { return m; }`)
	if !errors.Is(err, lower.ErrConstExpr) {
		t.Errorf("negating INT_MIN again: err = %v, want ErrConstExpr", err)
	}
}

func TestRedefinedBuiltinMessage(t *testing.T) {
	_, err := lowerSource(t, context.Background(), `void putint(int n) {}`)
	if !errors.Is(err, lower.ErrMultipleDefinition) || !strings.Contains(err.Error(), "runtime library") {
		t.Errorf("err = %v", err)
	}
	_, err = lowerSource(t, context.Background(), `int f() { return 0; } int f() { return 1; }`)
	if err == nil || strings.Contains(err.Error(), "runtime library") {
		t.Errorf("user function reported as builtin: %v", err)
	}
	if !lower.IsBuiltin("getarray") || lower.IsBuiltin("main") {
		t.Error("IsBuiltin misclassifies names")
	}
}

func TestFatalErrors(t *testing.T) {
	tests := map[string]string{
		"runtime global":      `int x = getint();`,
		"zero dimension":      `int a[0];`,
		"negative dimension":  `int main() { int a[-1]; return 0; }`,
		"variable dimension":  `int n = 3; int a[n];`,
		"too many elements":   `int a[2] = {1, 2, 3};`,
		"scalar for array":    `int a[2] = 1;`,
		"runtime global list": `int a[2] = {getint()};`,
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := lowerSource(t, context.Background(), src)
			var fe *lower.FatalError
			if !errors.As(err, &fe) {
				t.Fatalf("err = %v, want *FatalError", err)
			}
		})
	}
}

func TestProgramHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := lowerSource(t, ctx, `int main() { return 0; }`); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestProgramTraces(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)
	if _, err := lowerSource(t, ctx, `int main() { int a = getint(); return a; }`); err != nil {
		t.Fatal(err)
	}
	var pass, fn, node bool
	for _, ev := range ring.Snapshot() {
		switch {
		case ev.Scope == trace.ScopePass && ev.Name == "lower":
			pass = true
		case ev.Scope == trace.ScopeModule && ev.Name == "main":
			fn = true
		case ev.Scope == trace.ScopeNode:
			node = true
		}
	}
	if !pass || !fn || !node {
		t.Errorf("events: pass %v, function %v, node %v", pass, fn, node)
	}
}
