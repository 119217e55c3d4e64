// Package cli provides the Cobra-based command line for the release tool.
// The root command runs a release for the given version; the subcommands
// inspect the repository and environment without mutating anything.
package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xuniorss/releasekit/internal/cli/shared"
	"github.com/xuniorss/releasekit/internal/logging"
)

// Command group IDs for organizing help output
const (
	groupRelease = "release"
	groupInspect = "inspect"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "release <version>",
		Short: "Bump the version marker, commit, tag and push a release",
		Long: `Bump the version marker, commit, tag and push a release.

The release runs eight stages in order: validate the version, rewrite the
APP_VERSION marker, stage the marker file and release files, commit,
re-check that the tag is free, create the annotated tag, push the branch
and the tag, and optionally create the GitHub Release the application's
auto-updater downloads from.

Configuration is read from ~/.releasekit/config.json, then
.releasekit/config.json (or --config), then RELEASEKIT_* variables.`,
		Example: `  # Release 1.4.0: bump, commit, tag v1.4.0 and push
  release 1.4.0

  # Tag locally only
  release 1.4.0 --no-push

  # Also create the GitHub Release with generated notes
  release --version 1.4.0 --create-release

  # Preview without touching anything
  release check 1.4.0`,
		Args:          usageArgs(cobra.MaximumNArgs(1)),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          runRelease,
	}

	cmd.PersistentFlags().StringP("config", "c", "", "Path to config file (default .releasekit/config.json)")
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")

	cmd.Flags().String("version", "", "Version to release (alternative to the positional argument)")
	cmd.Flags().Bool("no-push", false, "Create the commit and tag locally without pushing")
	cmd.Flags().Bool("create-release", false, "Create the GitHub Release after pushing (best-effort)")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	cmd.AddGroup(&cobra.Group{ID: groupRelease, Title: "Release:"})
	cmd.AddGroup(&cobra.Group{ID: groupInspect, Title: "Inspect:"})
	cmd.SetHelpCommandGroupID(groupInspect)
	cmd.SetCompletionCommandGroupID(groupInspect)

	cmd.AddCommand(
		newCheckCommand(),
		newCurrentCommand(),
		newLatestCommand(),
		newDoctorCommand(),
		newVersionCommand(),
	)

	return cmd
}

// Execute runs the root command. SIGINT and SIGTERM cancel the context the
// pipeline runs under.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return execute(ctx, newRootCommand(), os.Args[1:])
}

// execute runs root with args and logs errors not yet shown to the user.
func execute(ctx context.Context, root *cobra.Command, args []string) error {
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err != nil && ctx.Err() != nil && !errors.Is(err, context.Canceled) {
		err = errors.Join(context.Cause(ctx), err)
	}
	if err != nil && !shared.IsReported(err) {
		debug, _ := root.PersistentFlags().GetBool("debug")
		logging.New(root.ErrOrStderr(), debug).Error(err)
	}
	return err
}

// usageError marks argument and flag mistakes so they map to
// ExitInvalidArguments.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}
