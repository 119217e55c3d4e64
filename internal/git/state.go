package git

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// ErrDetachedHead is returned when HEAD does not point at a branch.
var ErrDetachedHead = errors.New("HEAD is detached")

// Opener abstracts the method of opening a git repository
// This allows for dependency injection in tests
type Opener interface {
	// Open opens a git repository at the given path
	Open(path string) (Repository, error)
}

// Repository abstracts the read-only go-git operations used for inspection.
type Repository interface {
	// Head returns the reference where HEAD is pointing to
	Head() (*plumbing.Reference, error)
	// Tag returns the reference of the named tag, or git.ErrTagNotFound
	Tag(name string) (*plumbing.Reference, error)
	// Tags returns an iterator over all tag references
	Tags() (storer.ReferenceIter, error)
}

// DefaultOpener implements Opener using go-git's PlainOpen. The path may be
// any directory inside the work tree.
type DefaultOpener struct{}

// Open opens a git repository at the given path using go-git
func (d *DefaultOpener) Open(path string) (Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening repository: %w", err)
	}
	return repo, nil
}

// InMemoryOpener implements Opener for testing with in-memory storage
type InMemoryOpener struct {
	repo *git.Repository
}

// NewInMemoryOpener creates an Opener that always returns repo
func NewInMemoryOpener(repo *git.Repository) *InMemoryOpener {
	return &InMemoryOpener{repo: repo}
}

// Open returns the pre-configured in-memory repository
func (i *InMemoryOpener) Open(_ string) (Repository, error) {
	if i.repo == nil {
		return nil, fmt.Errorf("no repository configured")
	}
	return i.repo, nil
}

// currentBranch returns the short name of the branch HEAD points at.
func currentBranch(repo Repository) (string, error) {
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", ErrDetachedHead
	}
	return head.Name().Short(), nil
}

// hasTag reports whether a tag with the given short name exists.
func hasTag(repo Repository, name string) (bool, error) {
	_, err := repo.Tag(name)
	if errors.Is(err, git.ErrTagNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("looking up tag %s: %w", name, err)
	}
	return true, nil
}

// tagNames returns the sorted short names of all tags.
func tagNames(repo Repository) ([]string, error) {
	iter, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer iter.Close()

	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	sort.Strings(names)
	return names, nil
}
