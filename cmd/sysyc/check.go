package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sysyc/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check <files...>",
	Short: "Report diagnostics without writing output",
	Args:  cobra.MinimumNArgs(1),
	RunE:  checkExecution,
}

func init() {
	checkCmd.Flags().Int("jobs", 0, "max parallel compilations (0=auto)")
}

func checkExecution(cmd *cobra.Command, args []string) error {
	ro, err := readReportOptions(cmd)
	if err != nil {
		return &exitError{code: exitFatal, err: err}
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	fs, results, err := driver.CompileFiles(cmd.Context(), args, jobs, driver.Options{MaxDiagnostics: ro.maxDiagnostics})
	if err != nil {
		return err
	}
	code := reportResults(cmd.ErrOrStderr(), fs, results, ro)
	if !ro.quiet {
		for _, res := range results {
			if !res.Failed() {
				fmt.Fprintf(cmd.OutOrStdout(), "ok %s\n", res.Path)
			}
		}
	}
	if code != exitOK {
		return &exitError{code: code}
	}
	return nil
}
