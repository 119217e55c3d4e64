// Package progress renders per-stage status lines for a release run: a
// spinner while a stage runs on a terminal, then a done, skipped or failed
// mark with the stage counter.
package progress

import "errors"

// ErrInvalidStage is returned by StageInfo.Validate.
var ErrInvalidStage = errors.New("invalid stage")

// StageStatus represents the execution state of a release stage
type StageStatus int

const (
	// StagePending indicates the stage has not started yet
	StagePending StageStatus = iota
	// StageInProgress indicates the stage is currently running
	StageInProgress
	// StageCompleted indicates the stage finished successfully
	StageCompleted
	// StageSkipped indicates the stage had nothing to do
	StageSkipped
	// StageFailed indicates the stage failed with an error
	StageFailed
)

// String returns the string representation of StageStatus
func (s StageStatus) String() string {
	switch s {
	case StagePending:
		return "pending"
	case StageInProgress:
		return "in_progress"
	case StageCompleted:
		return "completed"
	case StageSkipped:
		return "skipped"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// StageInfo represents metadata about a release stage for progress display
type StageInfo struct {
	// Name is the stage name (e.g., "validate", "commit", "push")
	Name string
	// Number is the current stage number (1-based index)
	Number int
	// TotalStages is the total number of stages in the run
	TotalStages int
	// Status is the current execution status
	Status StageStatus
	// Detail is a short note shown after the stage name once it finishes
	Detail string
}

// Validate checks that all StageInfo fields meet validation requirements
func (p StageInfo) Validate() error {
	switch {
	case p.Name == "":
		return errors.Join(ErrInvalidStage, errors.New("stage name cannot be empty"))
	case p.Number <= 0:
		return errors.Join(ErrInvalidStage, errors.New("stage number must be > 0"))
	case p.TotalStages <= 0:
		return errors.Join(ErrInvalidStage, errors.New("total stages must be > 0"))
	case p.Number > p.TotalStages:
		return errors.Join(ErrInvalidStage, errors.New("stage number cannot exceed total stages"))
	}
	return nil
}

// TerminalCapabilities encapsulates detected terminal features
type TerminalCapabilities struct {
	// IsTTY indicates whether the output is a terminal (vs pipe/redirect)
	IsTTY bool
	// SupportsColor indicates whether terminal supports ANSI color codes
	SupportsColor bool
	// SupportsUnicode indicates whether terminal supports Unicode characters
	SupportsUnicode bool
	// Width is the terminal width in columns (0 if unknown/pipe)
	Width int
}

// ProgressSymbols defines the character set for visual indicators
type ProgressSymbols struct {
	Checkmark string
	Skipped   string
	Failure   string
	// SpinnerSet is the index into spinner.CharSets
	SpinnerSet int
}
