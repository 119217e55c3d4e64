// Package marker locates and rewrites the version marker line, a single
// `NAME = "value"` assignment in a source file that records the current
// release version of the application.
package marker

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// DefaultName is the marker variable used by the scanner application.
const DefaultName = "APP_VERSION"

// ErrNotFound is returned when no marker line matches in the file.
var ErrNotFound = errors.New("version marker not found")

// Outcome describes what Rewrite did to the content.
type Outcome int

const (
	// NotFound means no marker line matched; content is returned untouched.
	NotFound Outcome = iota
	// Unchanged means the marker already held the requested value.
	Unchanged
	// Updated means the marker value was replaced.
	Updated
)

// String returns the string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case NotFound:
		return "not_found"
	case Unchanged:
		return "unchanged"
	case Updated:
		return "updated"
	default:
		return "unknown"
	}
}

// Result reports the marker found in a file and what happened to it.
type Result struct {
	Outcome  Outcome
	Previous string // value before rewriting, empty when NotFound
	Line     int    // 1-based line of the marker, 0 when NotFound
}

// Pattern returns the expression matching a quoted marker assignment for name.
// Submatches: 1 = `NAME = ` prefix, 2 = opening quote, 3 = value, 4 = closing quote.
func Pattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`\b(` + regexp.QuoteMeta(name) + `\s*=\s*)(["'])([^"'\r\n]+)(["'])`)
}

// Find returns the value of the first marker assignment in content.
func Find(content []byte, name string) (string, bool) {
	m := Pattern(name).FindSubmatch(content)
	if m == nil {
		return "", false
	}
	return string(m[3]), true
}

// Rewrite replaces the value of the first marker assignment with value.
// Everything outside the quoted value, including the quote style and
// spacing around '=', is preserved byte for byte.
func Rewrite(content []byte, name, value string) ([]byte, Result) {
	loc := Pattern(name).FindSubmatchIndex(content)
	if loc == nil {
		return content, Result{Outcome: NotFound}
	}

	start, end := loc[6], loc[7]
	res := Result{
		Previous: string(content[start:end]),
		Line:     bytes.Count(content[:loc[0]], []byte("\n")) + 1,
	}
	if res.Previous == value {
		res.Outcome = Unchanged
		return content, res
	}

	out := make([]byte, 0, len(content)-(end-start)+len(value))
	out = append(out, content[:start]...)
	out = append(out, value...)
	out = append(out, content[end:]...)
	res.Outcome = Updated
	return out, res
}

// Read returns the marker value stored in the file at path.
func Read(path, name string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	value, ok := Find(content, name)
	if !ok {
		return "", fmt.Errorf("%s in %s: %w", name, path, ErrNotFound)
	}
	return value, nil
}

// Update rewrites the marker in the file at path to value. The file is only
// written when the value changes; the write goes through a temporary file
// and a rename so a crash never leaves a truncated source file behind.
// Symlinks are followed, so a linked marker file stays a link.
// A missing marker is reported as Result{Outcome: NotFound} with a nil error.
func Update(path, name, value string) (Result, error) {
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return Result{}, fmt.Errorf("reading %s: %w", path, err)
	}

	info, err := os.Stat(target)
	if err != nil {
		return Result{}, fmt.Errorf("reading %s: %w", path, err)
	}

	content, err := os.ReadFile(target)
	if err != nil {
		return Result{}, fmt.Errorf("reading %s: %w", path, err)
	}

	updated, res := Rewrite(content, name, value)
	if res.Outcome != Updated {
		return res, nil
	}

	if err := replaceFile(target, updated, info.Mode().Perm()); err != nil {
		return res, err
	}
	return res, nil
}

// replaceFile atomically replaces target with data. The temporary file
// lives next to target so the rename never crosses file systems.
func replaceFile(target string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary file for %s: %w", target, err)
	}
	tmpPath := tmp.Name()

	_, err = tmp.Write(data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmpPath, perm)
	}
	if err == nil {
		err = os.Rename(tmpPath, target)
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replacing %s: %w", target, err)
	}
	return nil
}
