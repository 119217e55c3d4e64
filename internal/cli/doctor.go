package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xuniorss/releasekit/internal/cli/shared"
	"github.com/xuniorss/releasekit/internal/git"
	"github.com/xuniorss/releasekit/internal/health"
)

func newDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Run health checks for release dependencies",
		Long: `Run health checks to verify the release can run.

This command checks for:
  - Git (required)
  - The release tool, gh by default (optional)
  - The configured repository and its current branch
  - The version marker in the marker file (optional)
  - The release CI workflow runs on tag push (optional)

Each check displays a ✓ if passed, a warning for optional problems, or
✗ with an error message if failed.`,
		GroupID: groupInspect,
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			report := health.RunHealthChecks(cmd.Context(), health.Options{
				LookPath:     lookPath,
				Repo:         git.New(a.cfg.RepoRoot),
				ReleaseTool:  a.cfg.ReleaseTool,
				MarkerPath:   a.cfg.MarkerPath(),
				MarkerName:   a.cfg.MarkerName,
				WorkflowPath: a.cfg.WorkflowPath(),
			})
			fmt.Fprint(a.stdout, health.FormatReport(report))

			if !report.Passed {
				return shared.NewExitError(shared.ExitMissingDependency)
			}
			return nil
		},
	}
}
