package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sysyc/internal/prof"
)

// setupProfiling starts the profilers named by the persistent flags.
func setupProfiling(cmd *cobra.Command) (*prof.Session, error) {
	flags := cmd.Root().PersistentFlags()
	paths := make([]string, 3)
	for i, name := range []string{"cpu-profile", "mem-profile", "runtime-trace"} {
		v, err := flags.GetString(name)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		paths[i] = v
	}
	return prof.Start(paths[0], paths[1], paths[2])
}
