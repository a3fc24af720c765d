package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const (
	maxFuzzInput = 64 << 10
	parseTimeout = 5 * time.Second
)

// clip copies input and bounds its size.
func clip(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
}

// addTestdataSeeds adds every .sy program under testdata/.
func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".sy" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err == nil && len(src) <= maxFuzzInput {
			f.Add(src)
		}
		return nil
	})
}

var languageSeeds = []string{
	"",
	"int main() { return 0; }",
	"const int a = 1 + 2 * 3, b[2][2] = {{a}, {4}};",
	"int g[3] = {1, 2};\nint main() { g[0] = g[1] || g[2] && 1; return g[0]; }",
	"void f(int a[], int b[][2]) { a[0] = b[1][1]; }",
	"int main() { int i = 0; while (i < 10) { if (i == 5) break; i = i + 1; continue; } return i; }",
	"int main() { { int a = 1; { int a = 2; } } return -!+0; }",
	"int main() { return 2147483647 + 1; }",
	"int main() { return 1 / 0; }",
	"int a[0];",
	"int main() { break; }",
	"/* unterminated",
	"int main() { return 0x1F + 017 + 0XaB; } // trailing",
	"int main( { return; ",
	"int x; int x;",
}
