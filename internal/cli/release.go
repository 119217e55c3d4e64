package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/xuniorss/releasekit/internal/cli/shared"
	"github.com/xuniorss/releasekit/internal/pipeline"
	"github.com/xuniorss/releasekit/internal/progress"
)

var errVersionRequired = errors.New("a version is required, e.g. `release 1.4.0`")

func runRelease(cmd *cobra.Command, args []string) error {
	target, err := releaseVersion(cmd, args)
	if err != nil {
		return err
	}
	noPush, _ := cmd.Flags().GetBool("no-push")
	createRelease, _ := cmd.Flags().GetBool("create-release")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	client, err := a.requireRepository()
	if err != nil {
		return err
	}

	req := pipeline.Request{
		Version:       target,
		NoPush:        noPush,
		CreateRelease: createRelease,
	}
	a.logger.Debug("starting release", "version", req.Version, "no_push", req.NoPush, "create_release", req.CreateRelease)

	display := a.progressDisplay()
	defer display.StopSpinner()

	observer := &stageObserver{display: display}
	coord := a.coordinator(client, pipeline.WithObserver(observer))
	report, err := coord.Run(cmd.Context(), req)
	if err != nil {
		if observer.failed {
			return shared.MarkReported(err)
		}
		return err
	}

	printReleaseSummary(a.stdout, report, req, a.cfg.Remote)
	return nil
}

// releaseVersion takes the version from the positional argument or the
// --version flag. Giving both is allowed only when they agree.
func releaseVersion(cmd *cobra.Command, args []string) (string, error) {
	flagValue, _ := cmd.Flags().GetString("version")
	var argValue string
	if len(args) > 0 {
		argValue = args[0]
	}

	switch {
	case argValue == "" && flagValue == "":
		return "", &usageError{err: errVersionRequired}
	case argValue != "" && flagValue != "" && argValue != flagValue:
		return "", &usageError{err: fmt.Errorf("conflicting versions %q and --version %q", argValue, flagValue)}
	case argValue != "":
		return argValue, nil
	default:
		return flagValue, nil
	}
}

func printReleaseSummary(w io.Writer, report *pipeline.Report, req pipeline.Request, remote string) {
	bold := color.New(color.FgGreen, color.Bold)
	bold.Fprintf(w, "Released %s\n", report.Tag)

	if req.NoPush {
		fmt.Fprintf(w, "Not pushed. Publish with: git push %s HEAD && git push %s refs/tags/%s\n", remote, remote, report.Tag)
	}
	if step, ok := report.Step(pipeline.StageRelease); ok && step.Outcome == pipeline.Done {
		fmt.Fprintf(w, "GitHub Release %s created\n", report.Tag)
	}
}

// stageObserver forwards pipeline stage transitions to the progress display.
// failed is set once a stage failure, error text included, has been printed.
type stageObserver struct {
	display *progress.ProgressDisplay
	failed  bool
}

func stageInfo(stage pipeline.Stage) progress.StageInfo {
	return progress.StageInfo{
		Name:        stage.String(),
		Number:      stage.Number(),
		TotalStages: pipeline.TotalStages,
	}
}

func (o *stageObserver) StageStarted(stage pipeline.Stage) {
	info := stageInfo(stage)
	info.Status = progress.StageInProgress
	_ = o.display.StartStage(info)
}

func (o *stageObserver) StageFinished(result pipeline.StepResult) {
	info := stageInfo(result.Stage)
	info.Detail = result.Detail
	if result.Outcome == pipeline.Skipped {
		info.Status = progress.StageSkipped
		_ = o.display.SkipStage(info)
		return
	}
	info.Status = progress.StageCompleted
	_ = o.display.CompleteStage(info)
}

func (o *stageObserver) StageFailed(stage pipeline.Stage, err error) {
	info := stageInfo(stage)
	info.Status = progress.StageFailed
	_ = o.display.FailStage(info, err)
	o.failed = true
}
