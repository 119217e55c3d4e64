package pipeline

import "context"

// VCS is the version-control collaborator the coordinator drives.
// Every method is an individually failable, blocking operation.
//
// Primary implementation: git.Client in internal/git.
type VCS interface {
	// Stage adds paths (relative to the repository root) to the index.
	Stage(ctx context.Context, paths []string) error
	// HasStagedChanges reports whether a commit would record anything.
	HasStagedChanges(ctx context.Context) (bool, error)
	// Commit records the staged changes.
	Commit(ctx context.Context, message string) error
	// TagExists reports whether a tag is already present locally.
	TagExists(ctx context.Context, tag string) (bool, error)
	// Tags lists local tag names.
	Tags(ctx context.Context) ([]string, error)
	// CreateTag creates an annotated tag at HEAD.
	CreateTag(ctx context.Context, tag, message string) error
	// CurrentBranch returns the checked-out branch name.
	CurrentBranch(ctx context.Context) (string, error)
	// PushBranch pushes a branch to the remote.
	PushBranch(ctx context.Context, remote, branch string) error
	// PushTag pushes a single tag to the remote.
	PushTag(ctx context.Context, remote, tag string) error
}

// ReleaseCreator creates a remote release object for an existing tag with
// auto-generated notes.
//
// Primary implementation: releasetool.GH in internal/releasetool.
type ReleaseCreator interface {
	CreateRelease(ctx context.Context, tag, title string) error
}

// ReleaseToolLocator is a capability check for the optional release tool.
// It returns false when the tool is not available in the environment.
type ReleaseToolLocator func() (ReleaseCreator, bool)

// Observer receives stage transitions, e.g. to drive a progress display.
type Observer interface {
	StageStarted(stage Stage)
	StageFinished(result StepResult)
	StageFailed(stage Stage, err error)
}

type noopObserver struct{}

func (noopObserver) StageStarted(Stage)       {}
func (noopObserver) StageFinished(StepResult) {}
func (noopObserver) StageFailed(Stage, error) {}
