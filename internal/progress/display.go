package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// ProgressDisplay orchestrates the display of progress indicators
type ProgressDisplay struct {
	out          io.Writer
	capabilities TerminalCapabilities
	spinner      *spinner.Spinner
	symbols      ProgressSymbols
}

// NewProgressDisplay creates a new progress display writing to out with
// the given terminal capabilities
func NewProgressDisplay(out io.Writer, caps TerminalCapabilities) *ProgressDisplay {
	return &ProgressDisplay{
		out:          out,
		capabilities: caps,
		symbols:      SelectSymbols(caps),
	}
}

// StartStage begins displaying progress for a stage
func (p *ProgressDisplay) StartStage(stage StageInfo) error {
	if err := stage.Validate(); err != nil {
		return err
	}

	msg := buildStageMessage(stage, "Running")

	if p.capabilities.IsTTY {
		p.spinner = spinner.New(
			spinner.CharSets[p.symbols.SpinnerSet],
			100*time.Millisecond,
			writerOption(p.out),
		)
		p.spinner.Suffix = " " + msg
		p.spinner.Start()
	} else {
		fmt.Fprintln(p.out, msg)
	}

	return nil
}

// CompleteStage stops the spinner and displays completion status
func (p *ProgressDisplay) CompleteStage(stage StageInfo) error {
	p.StopSpinner()
	mark := checkmark(p.symbols, p.capabilities.SupportsColor)
	fmt.Fprintln(p.out, buildResultLine(mark, stage, "done"))
	return nil
}

// SkipStage stops the spinner and displays that the stage had nothing to do
func (p *ProgressDisplay) SkipStage(stage StageInfo) error {
	p.StopSpinner()
	mark := skipMark(p.symbols, p.capabilities.SupportsColor)
	fmt.Fprintln(p.out, buildResultLine(mark, stage, "skipped"))
	return nil
}

// FailStage stops the spinner and displays failure status
func (p *ProgressDisplay) FailStage(stage StageInfo, err error) error {
	p.StopSpinner()
	mark := failureMark(p.symbols, p.capabilities.SupportsColor)
	counter := formatStageCounter(stage.Number, stage.TotalStages)
	fmt.Fprintf(p.out, "%s %s %s failed: %v\n", mark, counter, capitalize(stage.Name), err)
	return nil
}

// writerOption attaches the spinner to out. Files are passed as such so the
// spinner's own terminal check looks at the right descriptor.
func writerOption(out io.Writer) spinner.Option {
	if f, ok := out.(*os.File); ok {
		return spinner.WithWriterFile(f)
	}
	return spinner.WithWriter(out)
}

// StopSpinner stops the spinner without showing completion/failure
func (p *ProgressDisplay) StopSpinner() {
	if p.spinner != nil {
		p.spinner.Stop()
		p.spinner = nil
	}
}

