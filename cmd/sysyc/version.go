package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sysyc/internal/version"
)

// irTarget names the IR dialect sysyc emits.
const irTarget = "llvm-ir/typed-pointers"

// buildInfo is the JSON shape of `sysyc version --format=json`.
type buildInfo struct {
	Tool    string `json:"tool"`
	Version string `json:"version"`
	Target  string `json:"target"`
	Commit  string `json:"git_commit,omitempty"`
	Date    string `json:"build_date,omitempty"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show sysyc build information",
	Args:  cobra.NoArgs,
	RunE:  versionExecution,
}

func init() {
	versionCmd.Flags().Bool("full", false, "include commit and build date")
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func versionExecution(cmd *cobra.Command, _ []string) error {
	full, err := cmd.Flags().GetBool("full")
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}

	info := buildInfo{Tool: "sysyc", Version: strings.TrimSpace(version.Version), Target: irTarget}
	if info.Version == "" {
		info.Version = "dev"
	}
	if full {
		info.Commit = orUnknown(version.GitCommit)
		info.Date = orUnknown(version.BuildDate)
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	case "pretty":
		ro, err := readReportOptions(cmd)
		if err != nil {
			return err
		}
		shown := info.Version
		if shown == version.Version {
			shown = version.Colored(ro.color)
		}
		fmt.Fprintf(out, "sysyc %s (%s)\n", shown, info.Target)
		if full {
			fmt.Fprintf(out, "commit: %s\nbuilt:  %s\n", info.Commit, info.Date)
		}
		return nil
	}
	return &exitError{code: exitFatal, err: fmt.Errorf("unsupported format %q (must be pretty or json)", format)}
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "unknown"
	}
	return s
}
