// Package pipeline implements the release coordinator: a strictly sequential
// run that validates a version, rewrites the version marker, commits, tags,
// pushes and optionally creates a remote release.
//
// Each stage returns either a StepResult (done or skipped) or an *Error that
// aborts the run. Soft conditions such as a missing version marker or an
// unavailable release tool are logged and recorded as skipped stages; a
// duplicate tag is always fatal because published releases must never be
// overwritten.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/xuniorss/releasekit/internal/marker"
	"github.com/xuniorss/releasekit/internal/version"
)

// CommitMessagePrefix precedes the tag name in release commit and tag messages.
const CommitMessagePrefix = "Release "

// Options is the explicit configuration of a coordinator.
type Options struct {
	// RepoRoot is the repository work tree. Relative paths below resolve against it.
	RepoRoot string
	// MarkerFile is the file holding the version marker.
	MarkerFile string
	// MarkerName is the marker variable, marker.DefaultName when empty.
	MarkerName string
	// StagePaths are auxiliary paths staged with the marker file. Missing
	// paths are ignored.
	StagePaths []string
	// Remote is the push target, "origin" when empty.
	Remote string
	// EnforceMonotonic aborts when the version is not newer than the
	// highest existing release tag instead of only warning.
	EnforceMonotonic bool
}

// Request is a single release invocation.
type Request struct {
	Version       string
	NoPush        bool
	CreateRelease bool
}

// Coordinator runs release pipelines against one repository.
type Coordinator struct {
	opts       Options
	vcs        VCS
	locateTool ReleaseToolLocator
	observer   Observer
	logger     *log.Logger
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger for warnings and informational notices.
func WithLogger(l *log.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// WithObserver sets the stage observer.
func WithObserver(o Observer) Option {
	return func(c *Coordinator) { c.observer = o }
}

// WithReleaseTool sets the capability check for the optional release tool.
func WithReleaseTool(locate ReleaseToolLocator) Option {
	return func(c *Coordinator) { c.locateTool = locate }
}

// New creates a Coordinator.
func New(opts Options, vcs VCS, options ...Option) *Coordinator {
	if opts.MarkerName == "" {
		opts.MarkerName = marker.DefaultName
	}
	if opts.Remote == "" {
		opts.Remote = "origin"
	}
	if opts.RepoRoot == "" {
		opts.RepoRoot = "."
	}

	c := &Coordinator{
		opts:     opts,
		vcs:      vcs,
		observer: noopObserver{},
		logger:   log.New(io.Discard),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// run carries per-invocation state between stages.
type run struct {
	req     Request
	tag     string
	message string
}

type step struct {
	stage Stage
	exec  func(ctx context.Context, r *run) (StepResult, error)
}

// Run executes the release pipeline. The returned report lists every stage
// that completed; it is non-nil even when err is non-nil.
func (c *Coordinator) Run(ctx context.Context, req Request) (*Report, error) {
	steps := []step{
		{StageValidate, c.validate},
		{StageMarker, c.updateMarker},
		{StageStage, c.stage},
		{StageCommit, c.commit},
		{StageTagCheck, c.checkTag},
		{StageTag, c.createTag},
		{StagePush, c.push},
		{StageRelease, c.createRelease},
	}
	return c.execute(ctx, req, steps)
}

// Check runs the read-only part of a release: version validation, tag
// availability and marker inspection. Nothing is written.
func (c *Coordinator) Check(ctx context.Context, v string) (*Report, error) {
	steps := []step{
		{StageValidate, c.validate},
		{StageMarker, c.inspectMarker},
	}
	return c.execute(ctx, Request{Version: v, NoPush: true}, steps)
}

func (c *Coordinator) execute(ctx context.Context, req Request, steps []step) (*Report, error) {
	r := &run{
		req:     req,
		tag:     version.TagFor(req.Version),
		message: CommitMessagePrefix + version.TagFor(req.Version),
	}
	report := &Report{Version: req.Version, Tag: r.tag}

	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return report, c.fail(s.stage, newError(KindInterrupted, s.stage, err))
		}

		c.observer.StageStarted(s.stage)
		res, err := s.exec(ctx, r)
		if err != nil {
			return report, c.fail(s.stage, err)
		}

		res.Stage = s.stage
		report.Steps = append(report.Steps, res)
		c.observer.StageFinished(res)
	}

	return report, nil
}

func (c *Coordinator) fail(stage Stage, err error) error {
	c.observer.StageFailed(stage, err)
	return err
}

func (c *Coordinator) validate(ctx context.Context, r *run) (StepResult, error) {
	v, err := version.Parse(r.req.Version)
	if err != nil {
		return StepResult{}, newError(KindInvalidVersion, StageValidate, err)
	}

	exists, err := c.vcs.TagExists(ctx, r.tag)
	if err != nil {
		return StepResult{}, newError(KindRepository, StageValidate, err)
	}
	if exists {
		return StepResult{}, newError(KindDuplicateTag, StageValidate,
			fmt.Errorf("%s already exists; choose a new version", r.tag))
	}

	tags, err := c.vcs.Tags(ctx)
	if err != nil {
		return StepResult{}, newError(KindRepository, StageValidate, err)
	}

	detail := fmt.Sprintf("%s is free", r.tag)
	if latest := version.Highest(tags); latest != nil && !v.IsNewerThan(latest) {
		if c.opts.EnforceMonotonic {
			return StepResult{}, newError(KindNotMonotonic, StageValidate,
				fmt.Errorf("%s is not newer than %s", r.tag, latest.Raw))
		}
		c.logger.Warn("version is not newer than the latest release tag", "version", r.req.Version, "latest", latest.Raw)
		detail = fmt.Sprintf("%s is free (latest is %s)", r.tag, latest.Raw)
	}

	return StepResult{Outcome: Done, Detail: detail}, nil
}

func (c *Coordinator) updateMarker(_ context.Context, r *run) (StepResult, error) {
	path := c.markerPath()

	res, err := marker.Update(path, c.opts.MarkerName, r.req.Version)
	if errors.Is(err, fs.ErrNotExist) {
		c.logger.Warn("version marker file not found, skipping marker update", "file", path)
		return StepResult{Outcome: Skipped, Detail: "marker file not found"}, nil
	}
	if err != nil {
		return StepResult{}, newError(KindMarkerWrite, StageMarker, err)
	}

	switch res.Outcome {
	case marker.NotFound:
		c.logger.Warn("version marker not found, skipping marker update", "file", path, "marker", c.opts.MarkerName)
		return StepResult{Outcome: Skipped, Detail: c.opts.MarkerName + " not found"}, nil
	case marker.Unchanged:
		c.logger.Info("version marker already up to date", "file", path, "version", res.Previous)
		return StepResult{Outcome: Skipped, Detail: "already " + res.Previous}, nil
	default:
		c.logger.Debug("version marker updated", "file", path, "line", res.Line, "from", res.Previous, "to", r.req.Version)
		return StepResult{Outcome: Done, Detail: fmt.Sprintf("%s -> %s", res.Previous, r.req.Version)}, nil
	}
}

func (c *Coordinator) inspectMarker(_ context.Context, r *run) (StepResult, error) {
	path := c.markerPath()

	current, err := marker.Read(path, c.opts.MarkerName)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		c.logger.Warn("version marker file not found", "file", path)
		return StepResult{Outcome: Skipped, Detail: "marker file not found"}, nil
	case errors.Is(err, marker.ErrNotFound):
		c.logger.Warn("version marker not found", "file", path, "marker", c.opts.MarkerName)
		return StepResult{Outcome: Skipped, Detail: c.opts.MarkerName + " not found"}, nil
	case err != nil:
		return StepResult{}, newError(KindMarkerWrite, StageMarker, err)
	case current == r.req.Version:
		return StepResult{Outcome: Skipped, Detail: "already " + current}, nil
	default:
		return StepResult{Outcome: Done, Detail: fmt.Sprintf("would update %s -> %s", current, r.req.Version)}, nil
	}
}

func (c *Coordinator) stage(ctx context.Context, _ *run) (StepResult, error) {
	paths := c.existingPaths()
	if err := c.vcs.Stage(ctx, paths); err != nil {
		return StepResult{}, newError(KindCommitFailed, StageStage, err)
	}
	return StepResult{Outcome: Done, Detail: fmt.Sprintf("%d path(s)", len(paths))}, nil
}

func (c *Coordinator) commit(ctx context.Context, r *run) (StepResult, error) {
	dirty, err := c.vcs.HasStagedChanges(ctx)
	if err != nil {
		return StepResult{}, newError(KindCommitFailed, StageCommit, err)
	}
	if !dirty {
		c.logger.Info("nothing to commit, continuing to tag")
		return StepResult{Outcome: Skipped, Detail: "nothing to commit"}, nil
	}

	if err := c.vcs.Commit(ctx, r.message); err != nil {
		return StepResult{}, newError(KindCommitFailed, StageCommit, err)
	}
	return StepResult{Outcome: Done, Detail: r.message}, nil
}

func (c *Coordinator) checkTag(ctx context.Context, r *run) (StepResult, error) {
	exists, err := c.vcs.TagExists(ctx, r.tag)
	if err != nil {
		return StepResult{}, newError(KindRepository, StageTagCheck, err)
	}
	if exists {
		return StepResult{}, newError(KindDuplicateTag, StageTagCheck,
			fmt.Errorf("%s already exists; choose a new version", r.tag))
	}
	return StepResult{Outcome: Done, Detail: r.tag}, nil
}

func (c *Coordinator) createTag(ctx context.Context, r *run) (StepResult, error) {
	if err := c.vcs.CreateTag(ctx, r.tag, r.message); err != nil {
		return StepResult{}, newError(KindTagFailed, StageTag, err)
	}
	return StepResult{Outcome: Done, Detail: r.tag}, nil
}

func (c *Coordinator) push(ctx context.Context, r *run) (StepResult, error) {
	if r.req.NoPush {
		return StepResult{Outcome: Skipped, Detail: "--no-push"}, nil
	}

	branch, err := c.vcs.CurrentBranch(ctx)
	if err != nil {
		return StepResult{}, newError(KindPushFailed, StagePush, err)
	}

	if err := c.vcs.PushBranch(ctx, c.opts.Remote, branch); err != nil {
		return StepResult{}, newError(KindPushFailed, StagePush, err)
	}
	if err := c.vcs.PushTag(ctx, c.opts.Remote, r.tag); err != nil {
		return StepResult{}, newError(KindPushFailed, StagePush, err)
	}

	return StepResult{Outcome: Done, Detail: fmt.Sprintf("%s %s, %s", c.opts.Remote, branch, r.tag)}, nil
}

func (c *Coordinator) createRelease(ctx context.Context, r *run) (StepResult, error) {
	if !r.req.CreateRelease {
		return StepResult{Outcome: Skipped, Detail: "not requested"}, nil
	}

	var tool ReleaseCreator
	ok := false
	if c.locateTool != nil {
		tool, ok = c.locateTool()
	}
	if !ok {
		c.logger.Info("release tool unavailable, create the release manually", "tag", r.tag)
		return StepResult{Outcome: Skipped, Detail: "release tool unavailable"}, nil
	}

	if err := tool.CreateRelease(ctx, r.tag, r.tag); err != nil {
		c.logger.Warn("remote release creation failed", "tag", r.tag, "err", err)
		return StepResult{Outcome: Skipped, Detail: "release tool failed"}, nil
	}
	return StepResult{Outcome: Done, Detail: r.tag}, nil
}

// markerPath returns the marker file path resolved against the repository root.
func (c *Coordinator) markerPath() string {
	return c.resolve(c.opts.MarkerFile)
}

func (c *Coordinator) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.opts.RepoRoot, p)
}

// existingPaths returns the marker file and auxiliary paths that exist on
// disk, relative to the repository root, without duplicates.
func (c *Coordinator) existingPaths() []string {
	candidates := append([]string{c.opts.MarkerFile}, c.opts.StagePaths...)

	seen := make(map[string]bool, len(candidates))
	var paths []string
	for _, p := range candidates {
		if p == "" {
			continue
		}
		abs := c.resolve(p)
		if _, err := os.Stat(abs); err != nil {
			c.logger.Debug("skipping missing path", "path", p)
			continue
		}
		rel := p
		if filepath.IsAbs(p) {
			if r, err := filepath.Rel(c.opts.RepoRoot, abs); err == nil {
				rel = r
			}
		}
		rel = filepath.ToSlash(filepath.Clean(rel))
		if seen[rel] {
			continue
		}
		seen[rel] = true
		paths = append(paths, rel)
	}
	return paths
}
