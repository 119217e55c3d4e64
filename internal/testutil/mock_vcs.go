// Package testutil provides test utilities and helpers for releasekit tests.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"
)

// CallRecord records a single collaborator call with metadata.
type CallRecord struct {
	Method    string
	Args      []string
	Timestamp time.Time
	Error     error
}

// MockVCSBuilder provides a fluent API for configuring mock version-control behavior.
type MockVCSBuilder struct {
	tags    []string
	branch  string
	pending bool
	errs    map[string]error
	hooks   map[string]func(*MockVCS)
	t       *testing.T
}

// NewMockVCSBuilder creates a new MockVCSBuilder for configuring mock behavior.
func NewMockVCSBuilder(t *testing.T) *MockVCSBuilder {
	t.Helper()

	return &MockVCSBuilder{
		branch: "main",
		errs:   make(map[string]error),
		hooks:  make(map[string]func(*MockVCS)),
		t:      t,
	}
}

// WithTags seeds existing tags.
func (b *MockVCSBuilder) WithTags(tags ...string) *MockVCSBuilder {
	b.tags = append(b.tags, tags...)
	return b
}

// WithBranch sets the branch returned by CurrentBranch.
func (b *MockVCSBuilder) WithBranch(branch string) *MockVCSBuilder {
	b.branch = branch
	return b
}

// WithPendingChanges makes Stage leave changes in the index, so the next
// HasStagedChanges reports true until Commit runs.
func (b *MockVCSBuilder) WithPendingChanges() *MockVCSBuilder {
	b.pending = true
	return b
}

// WithError makes every call to method fail with err.
func (b *MockVCSBuilder) WithError(method string, err error) *MockVCSBuilder {
	b.errs[method] = err
	return b
}

// WithHook runs fn before method executes.
func (b *MockVCSBuilder) WithHook(method string, fn func(*MockVCS)) *MockVCSBuilder {
	b.hooks[method] = fn
	return b
}

// Build returns the configured MockVCS.
func (b *MockVCSBuilder) Build() *MockVCS {
	m := &MockVCS{
		tags:    make(map[string]bool),
		branch:  b.branch,
		pending: b.pending,
		errs:    b.errs,
		hooks:   b.hooks,
	}
	for _, tag := range b.tags {
		m.tags[tag] = true
	}
	return m
}

// MockVCS is an in-memory version-control collaborator that records calls.
// Tags created through CreateTag become visible to later TagExists calls.
type MockVCS struct {
	mu      sync.Mutex
	tags    map[string]bool
	branch  string
	pending bool
	dirty   bool
	commits []string
	calls   []CallRecord
	errs    map[string]error
	hooks   map[string]func(*MockVCS)
}

func (m *MockVCS) record(method string, args ...string) error {
	if hook, ok := m.hooks[method]; ok {
		hook(m)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.errs[method]
	m.calls = append(m.calls, CallRecord{
		Method:    method,
		Args:      args,
		Timestamp: time.Now(),
		Error:     err,
	})
	return err
}

// Stage records the paths and marks the index dirty when configured.
func (m *MockVCS) Stage(_ context.Context, paths []string) error {
	if err := m.record("Stage", paths...); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending {
		m.dirty = true
		m.pending = false
	}
	return nil
}

// HasStagedChanges reports whether Stage left changes that were not committed.
func (m *MockVCS) HasStagedChanges(_ context.Context) (bool, error) {
	if err := m.record("HasStagedChanges"); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dirty, nil
}

// Commit records the commit and cleans the index.
func (m *MockVCS) Commit(_ context.Context, message string) error {
	if err := m.record("Commit", message); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commits = append(m.commits, message)
	m.dirty = false
	return nil
}

// TagExists reports whether the tag was seeded or created.
func (m *MockVCS) TagExists(_ context.Context, tag string) (bool, error) {
	if err := m.record("TagExists", tag); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tags[tag], nil
}

// Tags returns all known tags, sorted.
func (m *MockVCS) Tags(_ context.Context) ([]string, error) {
	if err := m.record("Tags"); err != nil {
		return nil, err
	}
	return m.TagNames(), nil
}

// CreateTag adds the tag, failing like git when it already exists.
func (m *MockVCS) CreateTag(_ context.Context, tag, message string) error {
	if err := m.record("CreateTag", tag, message); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tags[tag] {
		return fmt.Errorf("fatal: tag '%s' already exists", tag)
	}
	m.tags[tag] = true
	return nil
}

// CurrentBranch returns the configured branch.
func (m *MockVCS) CurrentBranch(_ context.Context) (string, error) {
	if err := m.record("CurrentBranch"); err != nil {
		return "", err
	}
	return m.branch, nil
}

// PushBranch records a branch push.
func (m *MockVCS) PushBranch(_ context.Context, remote, branch string) error {
	return m.record("PushBranch", remote, branch)
}

// PushTag records a tag push.
func (m *MockVCS) PushTag(_ context.Context, remote, tag string) error {
	return m.record("PushTag", remote, tag)
}

// AddTag creates a tag behind the pipeline's back, e.g. from a hook.
func (m *MockVCS) AddTag(tag string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tags[tag] = true
}

// TagNames returns all known tags, sorted.
func (m *MockVCS) TagNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.tags))
	for tag := range m.tags {
		names = append(names, tag)
	}
	sort.Strings(names)
	return names
}

// Commits returns the messages of all commits made.
func (m *MockVCS) Commits() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.commits...)
}

// GetCalls returns all recorded calls.
func (m *MockVCS) GetCalls() []CallRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]CallRecord(nil), m.calls...)
}

// GetCallsByMethod returns all calls to a specific method.
func (m *MockVCS) GetCallsByMethod(method string) []CallRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	var calls []CallRecord
	for _, call := range m.calls {
		if call.Method == method {
			calls = append(calls, call)
		}
	}
	return calls
}

// Methods returns the method names of all recorded calls, in order.
func (m *MockVCS) Methods() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	methods := make([]string, len(m.calls))
	for i, call := range m.calls {
		methods[i] = call.Method
	}
	return methods
}

// AssertCalled asserts that method was called with args containing substring.
func (m *MockVCS) AssertCalled(t *testing.T, method, argSubstring string) {
	t.Helper()

	for _, call := range m.GetCallsByMethod(method) {
		if strings.Contains(strings.Join(call.Args, " "), argSubstring) {
			return
		}
	}
	t.Errorf("expected %s to be called with args containing %q, calls: %v", method, argSubstring, m.Methods())
}

// AssertNotCalled asserts that method was never called.
func (m *MockVCS) AssertNotCalled(t *testing.T, method string) {
	t.Helper()

	if calls := m.GetCallsByMethod(method); len(calls) > 0 {
		t.Errorf("expected %s not to be called, but it was called %d time(s)", method, len(calls))
	}
}

// AssertCallCount asserts the number of calls to method.
func (m *MockVCS) AssertCallCount(t *testing.T, method string, expected int) {
	t.Helper()

	if got := len(m.GetCallsByMethod(method)); got != expected {
		t.Errorf("expected %d call(s) to %s, got %d", expected, method, got)
	}
}

// MockReleaseTool records release creation requests.
type MockReleaseTool struct {
	Err   error
	Calls []string // tags passed to CreateRelease
}

// CreateRelease records the tag and returns Err.
func (r *MockReleaseTool) CreateRelease(_ context.Context, tag, _ string) error {
	r.Calls = append(r.Calls, tag)
	return r.Err
}
