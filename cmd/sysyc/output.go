package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"sysyc/internal/diag"
	"sysyc/internal/diagfmt"
	"sysyc/internal/driver"
	"sysyc/internal/project"
	"sysyc/internal/source"
)

// reportOptions are the persistent flags that shape command output.
type reportOptions struct {
	color          bool
	quiet          bool
	timings        bool
	maxDiagnostics int
}

func readReportOptions(cmd *cobra.Command) (reportOptions, error) {
	flags := cmd.Root().PersistentFlags()
	colorMode, err := flags.GetString("color")
	if err != nil {
		return reportOptions{}, err
	}
	quiet, err := flags.GetBool("quiet")
	if err != nil {
		return reportOptions{}, err
	}
	timings, err := flags.GetBool("timings")
	if err != nil {
		return reportOptions{}, err
	}
	maxDiag, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return reportOptions{}, err
	}
	useColor, err := colorEnabled(colorMode, cmd.ErrOrStderr())
	if err != nil {
		return reportOptions{}, err
	}
	return reportOptions{color: useColor, quiet: quiet, timings: timings, maxDiagnostics: maxDiag}, nil
}

// colorEnabled resolves --color; auto means w is a terminal and NO_COLOR is unset.
func colorEnabled(mode string, w io.Writer) (bool, error) {
	switch strings.ToLower(mode) {
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	case "auto", "":
		if os.Getenv("NO_COLOR") != "" {
			return false, nil
		}
		f, ok := w.(*os.File)
		return ok && term.IsTerminal(int(f.Fd())), nil // #nosec G115 -- fd fits in int
	}
	return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
}

func (o reportOptions) pretty() diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{Color: o.color, PathMode: diagfmt.PathModeAuto, ShowNotes: true}
}

// reportResults prints diagnostics and timings of every result in order and
// returns the resulting exit status.
func reportResults(w io.Writer, fs *source.FileSet, results []*driver.Result, opts reportOptions) int {
	code := exitOK
	for _, res := range results {
		res.Bag.Sort()
		if err := diagfmt.Pretty(w, res.Bag, fs, opts.pretty()); err != nil {
			fmt.Fprintf(w, "sysyc: cannot print diagnostics: %v\n", err)
		}
		if opts.timings {
			fmt.Fprint(w, res.Timer.Summary(res.Path))
		}
		switch {
		case res.Fatal():
			code = exitFatal
		case res.Failed() && code == exitOK:
			code = exitFailed
		}
	}
	return code
}

// projectFailure turns a manifest problem into a fatal diagnostic.
func projectFailure(w io.Writer, err error, opts reportOptions) error {
	code := diag.ProjManifestInvalid
	switch {
	case errors.Is(err, project.ErrNoSources):
		code = diag.ProjNoSources
	case errors.Is(err, project.ErrCompilerVersion):
		code = diag.ProjVersionConstraint
	}
	bag := diag.NewBag(1)
	bag.Add(diag.Diagnostic{Severity: diag.SevFatal, Code: code, Message: err.Error()})
	if perr := diagfmt.Pretty(w, bag, source.NewFileSet(), opts.pretty()); perr != nil {
		return &exitError{code: exitFatal, err: err}
	}
	return &exitError{code: exitFatal}
}
