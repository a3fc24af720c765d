package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// run executes the CLI with fresh flag values and returns stdout, stderr
// and the exit status main would use.
func run(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	resetFlags(rootCmd)
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(t.Context())
	code := exitCode(err, &stderr)
	traceCleanup(code != exitOK)
	traceCleanup = func(bool) {}
	if err := profiling.Stop(); err != nil {
		t.Errorf("profiling: %v", err)
	}
	profiling = nil
	return stdout.String(), stderr.String(), code
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestBuildWritesIR(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "main.sy")
	writeFile(t, src, "int main() { return 1 + 2; }\n")
	out := filepath.Join(dir, "out")

	stdout, stderr, code := run(t, "build", "--no-cache", "--color=off", "--out-dir", out, src)
	if code != exitOK {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr)
	}
	if !strings.Contains(stdout, "built ") {
		t.Errorf("stdout = %q", stdout)
	}
	ir, err := os.ReadFile(filepath.Join(out, "main.ll"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(ir), "ret i32 3") {
		t.Errorf("IR not folded:\n%s", ir)
	}
}

func TestExitStatus(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.sy")
	writeFile(t, bad, "int main() { return x; }\n")
	fatal := filepath.Join(dir, "fatal.sy")
	writeFile(t, fatal, "int a[0];\nint main() { return 0; }\n")

	_, stderr, code := run(t, "check", "--color=off", bad)
	if code != exitFailed {
		t.Errorf("unknown identifier: exit %d, want %d", code, exitFailed)
	}
	if !strings.Contains(stderr, "LOW3004") {
		t.Errorf("stderr missing code:\n%s", stderr)
	}

	_, stderr, code = run(t, "check", "--color=off", fatal)
	if code != exitFatal {
		t.Errorf("zero-length array: exit %d, want %d\n%s", code, exitFatal, stderr)
	}

	if _, _, code := run(t, "check", "--color=off", filepath.Join(dir, "missing.sy")); code != exitFailed {
		t.Errorf("missing file: exit %d, want %d", code, exitFailed)
	}
}

func TestIRCommand(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "g.sy")
	writeFile(t, src, "const int N = 4;\nint g[N];\nint main() { return g[1]; }\n")

	stdout, stderr, code := run(t, "ir", "--color=off", src)
	if code != exitOK {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr)
	}
	for _, want := range []string{"@_0_g = global [4 x i32] zeroinitializer", "define i32 @main()"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("missing %q in:\n%s", want, stdout)
		}
	}
}

func TestBuildFromManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "sysyc.toml"), `[package]
name = "demo"

[build]
sources = ["src/*.sy"]
out_dir = "ll"
cache = false
`)
	writeFile(t, filepath.Join(dir, "src", "a.sy"), "int main() { return 0; }\n")
	writeFile(t, filepath.Join(dir, "src", "b.sy"), "void f() {}\nint main() { f(); return 0; }\n")
	t.Chdir(dir)

	_, stderr, code := run(t, "build", "--quiet", "--color=off")
	if code != exitOK {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr)
	}
	for _, name := range []string{"a.ll", "b.ll"} {
		if _, err := os.Stat(filepath.Join(dir, "ll", name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
}

func TestManifestProblemsAreFatal(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		want     string
	}{
		{"version", "[package]\nname = \"x\"\n[compiler]\nversion = \">= 9.0\"\n", "PRJ5002"},
		{"no sources", "[package]\nname = \"x\"\n[build]\nsources = [\"none/*.sy\"]\n", "PRJ5003"},
		{"unknown key", "[package]\nname = \"x\"\nflavour = 1\n", "PRJ5001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, "sysyc.toml"), tt.manifest)
			t.Chdir(dir)

			_, stderr, code := run(t, "build", "--color=off")
			if code != exitFatal {
				t.Errorf("exit %d, want %d", code, exitFatal)
			}
			if !strings.Contains(stderr, tt.want) {
				t.Errorf("stderr missing %s:\n%s", tt.want, stderr)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	var buf bytes.Buffer
	if got := exitCode(nil, &buf); got != exitOK {
		t.Errorf("nil: %d", got)
	}
	if got := exitCode(&exitError{code: exitFatal}, &buf); got != exitFatal || buf.Len() != 0 {
		t.Errorf("silent exitError: %d, printed %q", got, buf.String())
	}
	if got := exitCode(errors.New("boom"), &buf); got != exitFailed || !strings.Contains(buf.String(), "boom") {
		t.Errorf("plain error: %d, printed %q", got, buf.String())
	}
}

func TestColorEnabled(t *testing.T) {
	var buf bytes.Buffer
	if on, err := colorEnabled("on", &buf); err != nil || !on {
		t.Errorf("on: %v %v", on, err)
	}
	if on, err := colorEnabled("auto", &buf); err != nil || on {
		t.Errorf("auto on a buffer: %v %v", on, err)
	}
	if _, err := colorEnabled("rainbow", &buf); err == nil {
		t.Error("invalid mode accepted")
	}
}

func TestVersionJSON(t *testing.T) {
	stdout, _, code := run(t, "version", "--format=json")
	if code != exitOK {
		t.Fatalf("exit %d", code)
	}
	if !strings.Contains(stdout, `"tool": "sysyc"`) {
		t.Errorf("stdout = %s", stdout)
	}
}
