package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/xuniorss/releasekit/internal/pipeline"
)

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <version>",
		Short: "Preview a release without changing anything",
		Long: `Preview a release without changing anything.

Validates the version, checks that its tag is free and newer than the
latest release tag, and reports what the marker update would do. The
exit code matches the one a real release would fail with.`,
		Example: `  release check 1.4.0`,
		GroupID: groupRelease,
		Args:    usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			client, err := a.requireRepository()
			if err != nil {
				return err
			}

			report, err := a.coordinator(client).Check(cmd.Context(), args[0])
			printCheckReport(a.stdout, report)
			if err != nil {
				return err
			}

			if _, ok := a.locateReleaseTool(); ok {
				fmt.Fprintf(a.stdout, "release tool %q available for --create-release\n", a.cfg.ReleaseTool)
			} else {
				fmt.Fprintf(a.stdout, "release tool %q not found; --create-release would be skipped\n", a.cfg.ReleaseTool)
			}
			color.New(color.FgGreen).Fprintf(a.stdout, "%s is ready to release\n", report.Tag)
			return nil
		},
	}
}

func printCheckReport(w io.Writer, report *pipeline.Report) {
	if report == nil {
		return
	}
	for _, step := range report.Steps {
		fmt.Fprintf(w, "%-9s %-7s %s\n", step.Stage, step.Outcome, step.Detail)
	}
}
