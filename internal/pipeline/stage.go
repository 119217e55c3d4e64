package pipeline

// Stage identifies one step of a release run.
type Stage int

const (
	// StageValidate checks the version format and that the tag is still free
	StageValidate Stage = iota + 1
	// StageMarker rewrites the version marker in the designated file
	StageMarker
	// StageStage adds the marker file and auxiliary paths to the index
	StageStage
	// StageCommit commits staged changes, if any
	StageCommit
	// StageTagCheck re-checks tag uniqueness right before tagging
	StageTagCheck
	// StageTag creates the annotated release tag
	StageTag
	// StagePush pushes the current branch and the tag
	StagePush
	// StageRelease creates the remote release (best-effort)
	StageRelease
)

// TotalStages is the number of stages in a full run.
const TotalStages = int(StageRelease)

// String returns the string representation of Stage
func (s Stage) String() string {
	switch s {
	case StageValidate:
		return "validate"
	case StageMarker:
		return "marker"
	case StageStage:
		return "stage"
	case StageCommit:
		return "commit"
	case StageTagCheck:
		return "tag-check"
	case StageTag:
		return "tag"
	case StagePush:
		return "push"
	case StageRelease:
		return "release"
	default:
		return "unknown"
	}
}

// Number returns the 1-based position of the stage in a run.
func (s Stage) Number() int {
	return int(s)
}

// Outcome is the result of a stage that did not fail.
type Outcome int

const (
	// Done means the stage performed its action.
	Done Outcome = iota
	// Skipped means the stage had nothing to do or was disabled.
	Skipped
)

// String returns the string representation of Outcome
func (o Outcome) String() string {
	if o == Skipped {
		return "skipped"
	}
	return "done"
}

// StepResult records what a stage did.
type StepResult struct {
	Stage   Stage
	Outcome Outcome
	Detail  string
}

// Report is the ordered record of a run. On failure it holds the stages
// that completed before the failing one.
type Report struct {
	Version string
	Tag     string
	Steps   []StepResult
}

// Step returns the result recorded for stage, if it ran.
func (r *Report) Step(stage Stage) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Stage == stage {
			return s, true
		}
	}
	return StepResult{}, false
}
