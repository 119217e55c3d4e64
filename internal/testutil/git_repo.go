package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// GitRepo is a throwaway repository on the "main" branch with a bare
// "origin" remote, both under t.TempDir(). Tests using it never touch the
// process working directory.
type GitRepo struct {
	t      *testing.T
	dir    string
	remote string
}

// RequireGit skips the test when the git binary is not available.
func RequireGit(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH")
	}
}

// NewGitRepo creates a repository with an initial commit containing files
// (relative path -> content) pushed to its bare remote.
func NewGitRepo(t *testing.T, files map[string]string) *GitRepo {
	t.Helper()
	RequireGit(t)

	base := t.TempDir()
	r := &GitRepo{
		t:      t,
		dir:    filepath.Join(base, "repo"),
		remote: filepath.Join(base, "origin.git"),
	}

	if err := os.MkdirAll(r.dir, 0755); err != nil {
		t.Fatalf("failed to create repo directory: %v", err)
	}

	r.run(base, "init", "--bare", r.remote)
	r.Git("init")
	r.Git("symbolic-ref", "HEAD", "refs/heads/main")
	r.Git("config", "user.email", "test@test.com")
	r.Git("config", "user.name", "Test")
	r.Git("config", "commit.gpgsign", "false")
	r.Git("config", "tag.gpgsign", "false")
	r.Git("remote", "add", "origin", r.remote)

	if len(files) == 0 {
		files = map[string]string{"README.md": "# Test Repo\n"}
	}
	for rel, content := range files {
		r.WriteFile(rel, content)
	}
	r.CommitAll("Initial commit")
	r.Git("push", "-u", "origin", "main")

	return r
}

// Dir returns the work tree path.
func (r *GitRepo) Dir() string {
	return r.dir
}

// Path returns the absolute path of a file in the work tree.
func (r *GitRepo) Path(rel string) string {
	return filepath.Join(r.dir, filepath.FromSlash(rel))
}

// WriteFile writes a file in the work tree.
func (r *GitRepo) WriteFile(rel, content string) string {
	r.t.Helper()

	path := r.Path(rel)
	WriteFile(r.t, path, content)
	return path
}

// ReadFile reads a file from the work tree.
func (r *GitRepo) ReadFile(rel string) string {
	r.t.Helper()
	return ReadFile(r.t, r.Path(rel))
}

// CommitAll stages and commits all changes.
func (r *GitRepo) CommitAll(message string) {
	r.t.Helper()

	r.Git("add", ".")
	r.Git("commit", "-m", message)
}

// Git runs git in the work tree and returns trimmed output, failing the test on error.
func (r *GitRepo) Git(args ...string) string {
	r.t.Helper()
	return r.run(r.dir, args...)
}

// RemoteGit runs git against the bare remote.
func (r *GitRepo) RemoteGit(args ...string) string {
	r.t.Helper()
	return r.run(r.remote, args...)
}

// Subjects returns commit subjects on HEAD, newest first.
func (r *GitRepo) Subjects() []string {
	r.t.Helper()
	return lines(r.Git("log", "--format=%s"))
}

// Tags returns local tag names.
func (r *GitRepo) Tags() []string {
	r.t.Helper()
	return lines(r.Git("tag", "--list"))
}

// RemoteTags returns tag names present in the bare remote.
func (r *GitRepo) RemoteTags() []string {
	r.t.Helper()
	return lines(r.RemoteGit("tag", "--list"))
}

func (r *GitRepo) run(dir string, args ...string) string {
	r.t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_DATE=2025-01-01T00:00:00Z",
		"GIT_COMMITTER_DATE=2025-01-01T00:00:00Z",
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		r.t.Fatalf("git %s failed: %v\nOutput: %s", strings.Join(args, " "), err, output)
	}
	return strings.TrimSpace(string(output))
}

func lines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
