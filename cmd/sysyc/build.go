package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"sysyc/internal/diag"
	"sysyc/internal/driver"
	"sysyc/internal/project"
	"sysyc/internal/source"
	"sysyc/internal/version"
)

const watchDebounce = 150 * time.Millisecond

var buildCmd = &cobra.Command{
	Use:   "build [files...]",
	Short: "Compile SysY sources to LLVM IR files",
	Long: `Compile each input to a .ll file. Without arguments the sources, output
directory and build settings come from sysyc.toml.`,
	RunE: buildExecution,
}

func init() {
	buildCmd.Flags().StringP("output", "o", "", "output file (single input only)")
	buildCmd.Flags().String("out-dir", "", "directory for .ll files (default: next to each input)")
	buildCmd.Flags().Int("jobs", 0, "max parallel compilations (0=auto)")
	buildCmd.Flags().Bool("no-cache", false, "disable the on-disk IR cache")
	buildCmd.Flags().Bool("watch", false, "rebuild when inputs change")
}

// buildPlan is everything buildOnce needs, after flags and manifest merged.
type buildPlan struct {
	paths  []string
	output string
	outDir string
	jobs   int
	cache  bool
	watch  bool
}

func buildExecution(cmd *cobra.Command, args []string) error {
	ro, err := readReportOptions(cmd)
	if err != nil {
		return &exitError{code: exitFatal, err: err}
	}
	plan, err := readBuildPlan(cmd, args)
	if err != nil {
		var merr *project.ManifestError
		if errors.As(err, &merr) {
			return projectFailure(cmd.ErrOrStderr(), err, ro)
		}
		return &exitError{code: exitFatal, err: err}
	}

	opts := driver.Options{MaxDiagnostics: ro.maxDiagnostics}
	if plan.cache {
		opts.Cache = openCache(cmd, ro)
	}

	err = buildOnce(cmd, plan, opts, ro)
	if !plan.watch {
		return err
	}
	if !ro.quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "watching %d file(s)\n", len(plan.paths))
	}
	return driver.Watch(cmd.Context(), plan.paths, watchDebounce, func(changed []string) {
		if !ro.quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "changed: %v\n", changed)
		}
		if err := buildOnce(cmd, plan, opts, ro); err != nil {
			var ee *exitError
			if !errors.As(err, &ee) || ee.err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "sysyc: %v\n", err)
			}
		}
	})
}

func readBuildPlan(cmd *cobra.Command, args []string) (buildPlan, error) {
	var plan buildPlan
	var err error
	flags := cmd.Flags()
	if plan.output, err = flags.GetString("output"); err != nil {
		return plan, err
	}
	if plan.outDir, err = flags.GetString("out-dir"); err != nil {
		return plan, err
	}
	if plan.jobs, err = flags.GetInt("jobs"); err != nil {
		return plan, err
	}
	noCache, err := flags.GetBool("no-cache")
	if err != nil {
		return plan, err
	}
	plan.cache = !noCache
	if plan.watch, err = flags.GetBool("watch"); err != nil {
		return plan, err
	}
	if plan.jobs < 0 {
		return plan, fmt.Errorf("--jobs must not be negative, got %d", plan.jobs)
	}

	plan.paths = args
	if len(args) == 0 {
		manifest, ok, err := project.Load(".")
		if err != nil {
			return plan, err
		}
		if !ok {
			return plan, fmt.Errorf("no input files and no %s found", project.ManifestName)
		}
		if err := manifest.CheckCompiler(version.Version); err != nil {
			return plan, err
		}
		if plan.paths, err = manifest.Sources(); err != nil {
			return plan, err
		}
		if !flags.Changed("out-dir") {
			plan.outDir = manifest.OutDir()
		}
		if !flags.Changed("jobs") {
			plan.jobs = manifest.Config.Build.Jobs
		}
		if !flags.Changed("no-cache") {
			plan.cache = manifest.CacheEnabled()
		}
	}
	if plan.output != "" && len(plan.paths) != 1 {
		return plan, fmt.Errorf("-o requires exactly one input, got %d", len(plan.paths))
	}
	return plan, nil
}

// openCache returns nil when the cache directory is unusable; builds still work.
func openCache(cmd *cobra.Command, ro reportOptions) *driver.DiskCache {
	dir, err := driver.DefaultCacheDir("sysyc")
	if err == nil {
		var cache *driver.DiskCache
		if cache, err = driver.OpenDiskCache(dir); err == nil {
			return cache
		}
	}
	if !ro.quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: IR cache disabled: %v\n", err)
	}
	return nil
}

func buildOnce(cmd *cobra.Command, plan buildPlan, opts driver.Options, ro reportOptions) error {
	fs, results, err := driver.CompileFiles(cmd.Context(), plan.paths, plan.jobs, opts)
	if err != nil {
		return err
	}
	written := writeResults(results, plan)
	code := reportResults(cmd.ErrOrStderr(), fs, results, ro)
	if !ro.quiet {
		for _, line := range written {
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
	}
	if code != exitOK {
		return &exitError{code: code}
	}
	return nil
}

// writeResults writes the IR of every successful result. Write failures are
// added to the result's bag.
func writeResults(results []*driver.Result, plan buildPlan) []string {
	var written []string
	for _, res := range results {
		if res.Failed() {
			continue
		}
		out := plan.output
		if out == "" {
			out = driver.OutputPath(res.Path, plan.outDir)
		}
		if err := driver.WriteOutput(out, res.IR); err != nil {
			res.Bag.Add(diag.NewError(diag.IOWriteFileError, source.Span{File: res.FileID}, fmt.Sprintf("cannot write %s: %v", out, err)))
			continue
		}
		line := "built " + out
		if res.Cached {
			line += " (cached)"
		}
		written = append(written, line)
	}
	return written
}
