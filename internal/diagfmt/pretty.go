package diagfmt

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"sysyc/internal/diag"
	"sysyc/internal/source"
)

type palette struct {
	sev    map[diag.Severity]*color.Color
	bold   *color.Color
	gutter *color.Color
	caret  *color.Color
	note   *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevInfo:    color.New(color.FgCyan, color.Bold),
			diag.SevWarning: color.New(color.FgYellow, color.Bold),
			diag.SevError:   color.New(color.FgRed, color.Bold),
			diag.SevFatal:   color.New(color.FgMagenta, color.Bold),
		},
		bold:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan),
	}
	all := []*color.Color{p.bold, p.gutter, p.caret, p.note}
	for _, c := range p.sev {
		all = append(all, c)
	}
	for _, c := range all {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Pretty renders every diagnostic of bag in the order Items returns them
// (call bag.Sort first for source order):
//
//	<path>:<line>:<col>: <severity> <ID>: <message>
//	   3 | int main() { return x; }
//	     |                     ^
//
// followed by the notes in the same shape.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		if err := prettyOne(w, d, fs, opts, p); err != nil {
			return err
		}
	}
	if n := bag.Dropped(); n > 0 {
		if _, err := fmt.Fprintf(w, "... %d more diagnostics not shown\n", n); err != nil {
			return err
		}
	}
	return nil
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) error {
	sev := p.sev[d.Severity]
	if sev == nil {
		sev = p.bold
	}
	header := fmt.Sprintf("%s %s: %s",
		sev.Sprint(d.Severity.String()), p.bold.Sprint(d.Code.ID()), p.bold.Sprint(d.Message))
	if _, err := fmt.Fprintf(w, "%s: %s\n", location(fs, d.Primary, opts.PathMode), header); err != nil {
		return err
	}
	if err := excerpt(w, fs, d.Primary, opts.Context, p); err != nil {
		return err
	}
	if !opts.ShowNotes {
		return nil
	}
	for _, n := range d.Notes {
		if _, err := fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), location(fs, n.Span, opts.PathMode), n.Msg); err != nil {
			return err
		}
		if err := excerpt(w, fs, n.Span, 0, p); err != nil {
			return err
		}
	}
	return nil
}

// location is "path:line:col", or the program name for spans without a file.
func location(fs *source.FileSet, sp source.Span, mode PathMode) string {
	f := fs.Get(sp.File)
	if f == nil {
		return "sysyc"
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%s", FormatPath(f.Path, mode), start)
}

// FormatPath shortens path according to mode.
func FormatPath(path string, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return filepath.ToSlash(abs)
		}
	case PathModeBasename:
		return filepath.Base(path)
	case PathModeRelative, PathModeAuto:
		cwd, err := os.Getwd()
		if err != nil {
			return path
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return path
		}
		rel, err := filepath.Rel(cwd, abs)
		if err != nil || (mode == PathModeAuto && strings.HasPrefix(rel, "..")) {
			return path
		}
		return filepath.ToSlash(rel)
	}
	return path
}

// excerpt prints the source lines of sp with a caret underline. Spans that
// cover several lines are underlined to the end of the first one.
func excerpt(w io.Writer, fs *source.FileSet, sp source.Span, context int, p palette) error {
	f := fs.Get(sp.File)
	if f == nil {
		return nil
	}
	start, end := fs.Resolve(sp)
	first := start.Line
	if ctx := uint32(max(context, 0)); ctx < first { // #nosec G115 -- non-negative
		first -= ctx
	} else {
		first = 1
	}
	width := len(fmt.Sprint(start.Line))

	for n := first; n <= start.Line; n++ {
		line := f.Line(n)
		if _, err := fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", width, n), line); err != nil {
			return err
		}
	}

	line := f.Line(start.Line)
	from := clampCol(start.Col, line)
	to := len(line)
	if end.Line == start.Line {
		to = clampCol(end.Col, line)
	}
	pad := padding(line[:from])
	marks := max(runewidth.StringWidth(line[from:max(from, to)]), 1)
	_, err := fmt.Fprintf(w, "%s %s%s\n",
		p.gutter.Sprintf("%*s |", width, ""), pad, p.caret.Sprint("^"+strings.Repeat("~", marks-1)))
	return err
}

func clampCol(col uint32, line string) int {
	if col == 0 {
		return 0
	}
	return min(int(col-1), len(line))
}

// padding reproduces the display width of prefix, keeping tabs as tabs so
// the caret lines up with the text above.
func padding(prefix string) string {
	var sb strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return sb.String()
}
