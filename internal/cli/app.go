package cli

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/xuniorss/releasekit/internal/build"
	"github.com/xuniorss/releasekit/internal/config"
	"github.com/xuniorss/releasekit/internal/git"
	"github.com/xuniorss/releasekit/internal/logging"
	"github.com/xuniorss/releasekit/internal/pipeline"
	"github.com/xuniorss/releasekit/internal/progress"
	"github.com/xuniorss/releasekit/internal/releasetool"
)

// lookPath locates git and the release tool on PATH.
var lookPath = exec.LookPath

// app bundles the configuration and output streams a command works with.
type app struct {
	cfg    *config.Configuration
	logger *log.Logger
	stdout io.Writer
	stderr io.Writer
}

func newApp(cmd *cobra.Command) (*app, error) {
	configPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")

	logger := logging.New(cmd.ErrOrStderr(), debug)
	logger.Debug("starting", "build", build.Summary())

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("configuration loaded",
		"repo_root", cfg.RepoRoot,
		"marker_file", cfg.MarkerFile,
		"remote", cfg.Remote,
	)

	return &app{
		cfg:    cfg,
		logger: logger,
		stdout: cmd.OutOrStdout(),
		stderr: cmd.ErrOrStderr(),
	}, nil
}

// requireRepository fails unless git is installed and the configured root
// is a work tree.
func (a *app) requireRepository() (*git.Client, error) {
	if _, err := lookPath("git"); err != nil {
		return nil, fmt.Errorf("git is required: %w", err)
	}
	client := git.New(a.cfg.RepoRoot)
	if !client.IsRepository() {
		return nil, fmt.Errorf("%s is not a git repository", a.cfg.RepoRoot)
	}
	return client, nil
}

func (a *app) coordinator(vcs pipeline.VCS, opts ...pipeline.Option) *pipeline.Coordinator {
	base := []pipeline.Option{
		pipeline.WithLogger(a.logger),
		pipeline.WithReleaseTool(a.locateReleaseTool),
	}
	return pipeline.New(pipeline.Options{
		RepoRoot:         a.cfg.RepoRoot,
		MarkerFile:       a.cfg.MarkerFile,
		MarkerName:       a.cfg.MarkerName,
		StagePaths:       a.cfg.StagePaths,
		Remote:           a.cfg.Remote,
		EnforceMonotonic: a.cfg.EnforceMonotonic,
	}, vcs, append(base, opts...)...)
}

func (a *app) locateReleaseTool() (pipeline.ReleaseCreator, bool) {
	gh, ok := releasetool.DetectWith(lookPath, a.cfg.ReleaseTool, a.cfg.RepoRoot)
	if !ok {
		return nil, false
	}
	a.logger.Debug("release tool found", "path", gh.Path())
	return gh, true
}

// progressDisplay renders stage progress on stderr, with a spinner when
// stderr is a terminal.
func (a *app) progressDisplay() *progress.ProgressDisplay {
	var caps progress.TerminalCapabilities
	if f, ok := a.stderr.(*os.File); ok {
		caps = progress.DetectTerminalCapabilities(f)
	}
	return progress.NewProgressDisplay(a.stderr, caps)
}
