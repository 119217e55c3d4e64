// Package git provides the version-control operations a release needs:
// staging, committing, tagging and pushing through the git CLI, plus
// read-only inspection of tags and HEAD through go-git.
//
// Mutations go through the git binary so the user's hooks, signing
// configuration and credential helpers apply exactly as they would on the
// command line. Queries that do not touch the network are answered by
// go-git without spawning a process.
package git

import (
	"context"
	"errors"
	"fmt"
)

// Client runs git operations against a single repository.
type Client struct {
	dir    string
	runner Runner
	opener Opener
}

// Option configures a Client.
type Option func(*Client)

// WithRunner replaces the git CLI runner (used by tests).
func WithRunner(r Runner) Option {
	return func(c *Client) { c.runner = r }
}

// WithOpener replaces the go-git repository opener (used by tests).
func WithOpener(o Opener) Option {
	return func(c *Client) { c.opener = o }
}

// New creates a Client for the repository containing dir.
func New(dir string, opts ...Option) *Client {
	c := &Client{
		dir:    dir,
		runner: NewExecRunner(),
		opener: &DefaultOpener{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsRepository reports whether the client directory is inside a git work tree.
func (c *Client) IsRepository() bool {
	_, err := c.opener.Open(c.dir)
	return err == nil
}

// Stage adds the given paths to the index. Paths are relative to the
// client directory. An empty list is a no-op.
func (c *Client) Stage(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	args := append([]string{"add", "--"}, paths...)
	_, err := c.runner.Run(ctx, c.dir, args...)
	return err
}

// HasStagedChanges reports whether the index differs from HEAD.
func (c *Client) HasStagedChanges(ctx context.Context) (bool, error) {
	_, err := c.runner.Run(ctx, c.dir, "diff", "--cached", "--quiet")
	if err == nil {
		return false, nil
	}
	// --quiet exits 1 when there are differences.
	if code, ok := ExitStatus(err); ok && code == 1 {
		return true, nil
	}
	return false, err
}

// Commit records the staged changes with the given message.
func (c *Client) Commit(ctx context.Context, message string) error {
	_, err := c.runner.Run(ctx, c.dir, "commit", "-m", message)
	return err
}

// CreateTag creates an annotated tag at HEAD.
func (c *Client) CreateTag(ctx context.Context, tag, message string) error {
	_, err := c.runner.Run(ctx, c.dir, "tag", "-a", tag, "-m", message)
	return err
}

// TagExists reports whether the tag exists in the local repository.
func (c *Client) TagExists(_ context.Context, tag string) (bool, error) {
	repo, err := c.opener.Open(c.dir)
	if err != nil {
		return false, fmt.Errorf("opening git repository at %s: %w", c.dir, err)
	}
	return hasTag(repo, tag)
}

// Tags returns the names of all local tags, sorted.
func (c *Client) Tags(_ context.Context) ([]string, error) {
	repo, err := c.opener.Open(c.dir)
	if err != nil {
		return nil, fmt.Errorf("opening git repository at %s: %w", c.dir, err)
	}
	return tagNames(repo)
}

// CurrentBranch returns the name of the checked-out branch.
// It returns ErrDetachedHead when no branch is checked out.
func (c *Client) CurrentBranch(_ context.Context) (string, error) {
	repo, err := c.opener.Open(c.dir)
	if err != nil {
		return "", fmt.Errorf("opening git repository at %s: %w", c.dir, err)
	}
	return currentBranch(repo)
}

// PushBranch pushes the branch to the remote.
func (c *Client) PushBranch(ctx context.Context, remote, branch string) error {
	if branch == "" {
		return errors.New("push: empty branch name")
	}
	_, err := c.runner.Run(ctx, c.dir, "push", remote, branch)
	return err
}

// PushTag pushes a single tag to the remote.
func (c *Client) PushTag(ctx context.Context, remote, tag string) error {
	if tag == "" {
		return errors.New("push: empty tag name")
	}
	_, err := c.runner.Run(ctx, c.dir, "push", remote, "refs/tags/"+tag)
	return err
}
