package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"sysyc/internal/driver"
	"sysyc/internal/source"
)

var irCmd = &cobra.Command{
	Use:   "ir <file>",
	Short: "Print the LLVM IR of one file",
	Long:  `Lower a single file and print its IR to stdout. Use - to read stdin.`,
	Args:  cobra.ExactArgs(1),
	RunE:  irExecution,
}

func irExecution(cmd *cobra.Command, args []string) error {
	ro, err := readReportOptions(cmd)
	if err != nil {
		return &exitError{code: exitFatal, err: err}
	}
	opts := driver.Options{MaxDiagnostics: ro.maxDiagnostics}
	fs := source.NewFileSet()

	var res *driver.Result
	if args[0] == "-" {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return &exitError{code: exitFatal, err: fmt.Errorf("read stdin: %w", err)}
		}
		res = driver.CompileSource(cmd.Context(), fs, "<stdin>", content, opts)
	} else {
		res = driver.CompileFile(cmd.Context(), fs, args[0], opts)
	}
	if res.Err != nil {
		return res.Err
	}
	if code := reportResults(cmd.ErrOrStderr(), fs, []*driver.Result{res}, ro); code != exitOK {
		return &exitError{code: code}
	}
	if _, err := io.WriteString(cmd.OutOrStdout(), res.IR); err != nil {
		return &exitError{code: exitFatal, err: err}
	}
	return nil
}
