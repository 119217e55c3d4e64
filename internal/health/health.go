// Package health implements the environment checks behind `release doctor`.
package health

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/xuniorss/releasekit/internal/marker"
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
	// Optional checks report problems without failing the report.
	Optional bool
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

func (r *HealthReport) add(c CheckResult) {
	r.Checks = append(r.Checks, c)
	if !c.Passed && !c.Optional {
		r.Passed = false
	}
}

// Repository is the subset of the git client the checks need.
type Repository interface {
	IsRepository() bool
	CurrentBranch(ctx context.Context) (string, error)
}

// Options configures RunHealthChecks.
type Options struct {
	LookPath     func(string) (string, error)
	Repo         Repository
	ReleaseTool  string
	MarkerPath   string
	MarkerName   string
	WorkflowPath string // skipped when empty
}

// RunHealthChecks runs all health checks and returns a report
func RunHealthChecks(ctx context.Context, opts Options) *HealthReport {
	lookPath := opts.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	report := &HealthReport{Passed: true}
	report.add(CheckBinary(lookPath, "Git", "git", false))
	if opts.ReleaseTool != "" {
		report.add(CheckBinary(lookPath, "Release tool", opts.ReleaseTool, true))
	}
	if opts.Repo != nil {
		report.add(CheckRepository(ctx, opts.Repo))
	}
	if opts.MarkerPath != "" {
		report.add(CheckMarker(opts.MarkerPath, opts.MarkerName))
	}
	if opts.WorkflowPath != "" {
		report.add(CheckWorkflow(opts.WorkflowPath))
	}
	return report
}

// CheckBinary checks if binary is on PATH
func CheckBinary(lookPath func(string) (string, error), name, binary string, optional bool) CheckResult {
	path, err := lookPath(binary)
	if err != nil {
		return CheckResult{
			Name:     name,
			Optional: optional,
			Message:  fmt.Sprintf("%s not found in PATH", binary),
		}
	}

	return CheckResult{
		Name:     name,
		Passed:   true,
		Optional: optional,
		Message:  fmt.Sprintf("%s found at %s", binary, path),
	}
}

// CheckRepository checks the work tree is a git repository on a branch
func CheckRepository(ctx context.Context, repo Repository) CheckResult {
	if !repo.IsRepository() {
		return CheckResult{Name: "Repository", Message: "not a git repository"}
	}
	branch, err := repo.CurrentBranch(ctx)
	if err != nil {
		return CheckResult{Name: "Repository", Message: err.Error()}
	}
	return CheckResult{
		Name:    "Repository",
		Passed:  true,
		Message: "on branch " + branch,
	}
}

// CheckMarker checks the version marker can be read. A missing marker only
// skips the marker update during a release, so the check is optional.
func CheckMarker(path, name string) CheckResult {
	if name == "" {
		name = marker.DefaultName
	}
	res := CheckResult{Name: "Version marker", Optional: true}

	value, err := marker.Read(path, name)
	switch {
	case err == nil:
		res.Passed = true
		res.Message = fmt.Sprintf("%s = %q in %s", name, value, path)
	case errors.Is(err, os.ErrNotExist):
		res.Message = fmt.Sprintf("%s does not exist", path)
	case errors.Is(err, marker.ErrNotFound):
		res.Message = fmt.Sprintf("%s not found in %s", name, path)
	default:
		res.Message = err.Error()
	}
	return res
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	var b strings.Builder

	for _, check := range report.Checks {
		switch {
		case check.Passed:
			fmt.Fprintf(&b, "✓ %s: %s\n", check.Name, check.Message)
		case check.Optional:
			fmt.Fprintf(&b, "! Warning: %s: %s\n", check.Name, check.Message)
		default:
			fmt.Fprintf(&b, "✗ Error: %s: %s\n", check.Name, check.Message)
		}
	}

	return b.String()
}
