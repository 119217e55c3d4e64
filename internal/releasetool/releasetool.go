// Package releasetool wraps the GitHub CLI (gh) used to publish a GitHub
// Release for a pushed tag. The tool is optional: Detect reports whether
// it is installed and callers skip release creation when it is not.
package releasetool

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultBinary is the GitHub CLI executable name.
const DefaultBinary = "gh"

// LookPathFunc resolves an executable name to a path, like exec.LookPath.
type LookPathFunc func(file string) (string, error)

// GH creates releases through the GitHub CLI.
type GH struct {
	path string
	dir  string
}

// Detect looks up binary ("gh" when empty) on PATH and returns a handle
// that runs it in dir. The second result is false when the tool is absent.
func Detect(binary, dir string) (*GH, bool) {
	return DetectWith(exec.LookPath, binary, dir)
}

// DetectWith is Detect with an injectable lookup.
func DetectWith(lookPath LookPathFunc, binary, dir string) (*GH, bool) {
	if binary == "" {
		binary = DefaultBinary
	}
	path, err := lookPath(binary)
	if err != nil {
		return nil, false
	}
	return &GH{path: path, dir: dir}, true
}

// Path returns the resolved executable path.
func (g *GH) Path() string {
	return g.path
}

// CreateRelease creates a GitHub Release for an existing remote tag with
// notes generated by GitHub from the commits since the previous release.
func (g *GH) CreateRelease(ctx context.Context, tag, title string) error {
	args := []string{"release", "create", tag, "--title", title, "--generate-notes"}

	var output bytes.Buffer
	cmd := exec.CommandContext(ctx, g.path, args...)
	cmd.Dir = g.dir
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(output.String())
		if msg == "" {
			return fmt.Errorf("gh %s: %w", strings.Join(args, " "), err)
		}
		return fmt.Errorf("gh %s: %w: %s", strings.Join(args, " "), err, msg)
	}
	return nil
}
