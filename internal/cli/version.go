package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/xuniorss/releasekit/internal/build"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   "Display version information",
		Long:    "Display version, commit, build date, and Go version information for the release tool",
		GroupID: groupInspect,
		Args:    usageArgs(cobra.NoArgs),
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "release version %s\n", build.Version)
			if build.IsDevBuild() {
				fmt.Fprintln(out, "Development build (set build.Version via -ldflags for releases)")
			}
			fmt.Fprintf(out, "Built from commit: %s\n", build.Commit)
			fmt.Fprintf(out, "Build date: %s\n", build.BuildDate)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
		},
	}
}
