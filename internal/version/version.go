// Package version parses and orders release versions of the form MAJOR.MINOR.PATCH
// and derives the git tag a release is published under.
package version

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// TagPrefix is prepended to a release version to form its tag name.
const TagPrefix = "v"

// ErrInvalid is returned when a string is not a strict MAJOR.MINOR.PATCH version.
var ErrInvalid = errors.New("invalid version")

var releasePattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// Version represents a parsed semantic version. Components hold decimal
// digits with leading zeros removed, so arbitrarily long numbers compare
// correctly.
type Version struct {
	Major string
	Minor string
	Patch string
	// Extra is anything after the numeric part of a loosely parsed tag,
	// such as "-beta". Strict versions never carry one.
	Extra string
	Raw   string
}

// Validate reports whether s is a strict release version ("1.2.3").
// Prefixes, pre-release suffixes and surrounding whitespace are rejected.
func Validate(s string) error {
	if !releasePattern.MatchString(s) {
		return fmt.Errorf("%w %q: expected format MAJOR.MINOR.PATCH", ErrInvalid, s)
	}
	return nil
}

// Parse parses a strict release version such as "0.1.5".
func Parse(s string) (*Version, error) {
	if err := Validate(s); err != nil {
		return nil, err
	}
	return split(s, s), nil
}

// ParseTag parses a tag or version string in the format "v0.6.1" or "0.6.1".
// Use it for values read back from git.
func ParseTag(tag string) (*Version, error) {
	v := strings.TrimPrefix(strings.TrimSpace(tag), TagPrefix)
	if err := Validate(v); err != nil {
		return nil, fmt.Errorf("parsing tag %q: %w", tag, err)
	}
	return split(v, tag), nil
}

var loosePattern = regexp.MustCompile(`^(\d+)(?:\.(\d+))?(?:\.(\d+))?(.*)$`)

// ParseLoose parses a published tag the way the application's auto-updater
// does: any run of leading "v"/"V" is dropped, missing minor and patch count
// as zero and trailing text ("-beta", "rc1") is kept as Extra.
// Only strings without a leading number are rejected.
func ParseLoose(tag string) (*Version, error) {
	t := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(tag), "vV"))
	m := loosePattern.FindStringSubmatch(t)
	if m == nil {
		return nil, fmt.Errorf("parsing tag %q: %w", tag, ErrInvalid)
	}
	return &Version{
		Major: trimZeros(m[1]),
		Minor: trimZeros(m[2]),
		Patch: trimZeros(m[3]),
		Extra: strings.TrimSpace(m[4]),
		Raw:   tag,
	}, nil
}

func split(v, raw string) *Version {
	parts := strings.Split(v, ".")
	return &Version{
		Major: trimZeros(parts[0]),
		Minor: trimZeros(parts[1]),
		Patch: trimZeros(parts[2]),
		Raw:   raw,
	}
}

func trimZeros(digits string) string {
	if d := strings.TrimLeft(digits, "0"); d != "" {
		return d
	}
	return "0"
}

// String returns the version in "MAJOR.MINOR.PATCH" format.
func (v *Version) String() string {
	return v.Major + "." + v.Minor + "." + v.Patch + v.Extra
}

// Tag returns the tag name for the version, e.g. "v1.2.3".
func (v *Version) Tag() string {
	return TagPrefix + v.String()
}

// Compare compares two versions and returns:
//   - -1 if v < other
//   - 0 if v == other
//   - 1 if v > other
//
// A version with Extra ranks below the same version without one.
func (v *Version) Compare(other *Version) int {
	for _, c := range [][2]string{
		{v.Major, other.Major},
		{v.Minor, other.Minor},
		{v.Patch, other.Patch},
	} {
		if r := compareDigits(c[0], c[1]); r != 0 {
			return r
		}
	}

	switch {
	case v.Extra == other.Extra:
		return 0
	case v.Extra == "":
		return 1
	case other.Extra == "":
		return -1
	default:
		return strings.Compare(v.Extra, other.Extra)
	}
}

// IsNewerThan returns true if v is newer than other.
func (v *Version) IsNewerThan(other *Version) bool {
	return v.Compare(other) > 0
}

// Highest returns the highest version among tags that parse as release tags.
// Tags that do not follow the vMAJOR.MINOR.PATCH scheme are ignored.
// It returns nil when no tag qualifies.
func Highest(tags []string) *Version {
	var best *Version
	for _, tag := range tags {
		v, err := ParseTag(tag)
		if err != nil {
			continue
		}
		if best == nil || v.IsNewerThan(best) {
			best = v
		}
	}
	return best
}

// TagFor returns the tag name for a raw release version string.
func TagFor(s string) string {
	return TagPrefix + s
}

// compareDigits orders two decimal strings without leading zeros.
func compareDigits(a, b string) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
