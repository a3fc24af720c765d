// Command sysyc compiles SysY sources to LLVM IR.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"sysyc/internal/prof"
	"sysyc/internal/version"
)

// Exit statuses.
const (
	exitOK     = 0
	exitFailed = 1 // diagnostics or lowering errors
	exitFatal  = 2 // fatal configuration errors
)

var rootCmd = &cobra.Command{
	Use:           "sysyc",
	Short:         "SysY to LLVM IR compiler",
	Long:          `sysyc lowers SysY programs to textual LLVM IR for an external backend.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return &exitError{code: exitFatal, err: err}
		}
		traceCleanup = cleanup
		if profiling, err = setupProfiling(cmd); err != nil {
			return &exitError{code: exitFatal, err: err}
		}
		return nil
	},
}

// profiling is stopped by main after the command returns.
var profiling *prof.Session

// traceCleanup flushes the tracer once the command has finished.
var traceCleanup = func(failed bool) {}

// exitError carries an exit status through cobra. A nil err means the
// problem was already reported.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func init() {
	rootCmd.Version = version.Version
	rootCmd.AddCommand(buildCmd, irCmd, checkCmd, versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics per file")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace mode (stream|ring|both)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to file")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go execution trace to file")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	code := exitCode(err, os.Stderr)
	traceCleanup(code != exitOK)
	if err := profiling.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "sysyc: profiling: %v\n", err)
	}
	os.Exit(code)
}

// exitCode reports err on w and maps it to a process exit status.
func exitCode(err error, w io.Writer) int {
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintf(w, "sysyc: %v\n", ee.err)
		}
		return ee.code
	}
	if errors.Is(err, context.Canceled) {
		return exitFailed
	}
	fmt.Fprintf(w, "sysyc: %v\n", err)
	return exitFailed
}
