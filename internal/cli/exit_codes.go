package cli

import (
	"context"
	"errors"
	"os/exec"

	"github.com/xuniorss/releasekit/internal/cli/shared"
	"github.com/xuniorss/releasekit/internal/config"
	"github.com/xuniorss/releasekit/internal/git"
	"github.com/xuniorss/releasekit/internal/pipeline"
)

// ExitCode maps an error returned by Execute to the process exit status.
// Commit, tag and push failures pass git's own exit status through when
// it is known.
func ExitCode(err error) int {
	if err == nil {
		return shared.ExitSuccess
	}

	if code, ok := shared.Code(err); ok {
		return code
	}

	var usage *usageError
	switch {
	case errors.Is(err, pipeline.ErrInterrupted), errors.Is(err, context.Canceled):
		return shared.ExitInterrupted
	case errors.As(err, &usage), errors.Is(err, pipeline.ErrInvalidVersion):
		return shared.ExitInvalidArguments
	case errors.Is(err, config.ErrInvalid):
		return shared.ExitConfig
	case errors.Is(err, exec.ErrNotFound):
		return shared.ExitMissingDependency
	case errors.Is(err, pipeline.ErrDuplicateTag):
		return shared.ExitDuplicateTag
	case errors.Is(err, pipeline.ErrNotMonotonic):
		return shared.ExitNotMonotonic
	case errors.Is(err, pipeline.ErrCommitFailed),
		errors.Is(err, pipeline.ErrTagFailed),
		errors.Is(err, pipeline.ErrPushFailed):
		if code, ok := git.ExitStatus(err); ok && code > 0 {
			return code
		}
	}
	return shared.ExitFailure
}
