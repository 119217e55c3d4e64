package pipeline

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per failure kind, for use with errors.Is.
var (
	ErrInvalidVersion = errors.New("invalid version")
	ErrDuplicateTag   = errors.New("tag already exists")
	ErrNotMonotonic   = errors.New("version is not newer than the latest release tag")
	ErrMarkerWrite    = errors.New("version marker update failed")
	ErrCommitFailed   = errors.New("commit failed")
	ErrTagFailed      = errors.New("tag creation failed")
	ErrPushFailed     = errors.New("push failed")
	ErrRepository     = errors.New("repository inspection failed")
	ErrInterrupted    = errors.New("release interrupted")
)

// Kind classifies a fatal pipeline failure.
type Kind int

const (
	KindInvalidVersion Kind = iota + 1
	KindDuplicateTag
	KindNotMonotonic
	KindMarkerWrite
	KindCommitFailed
	KindTagFailed
	KindPushFailed
	KindRepository
	KindInterrupted
)

func (k Kind) sentinel() error {
	switch k {
	case KindInvalidVersion:
		return ErrInvalidVersion
	case KindDuplicateTag:
		return ErrDuplicateTag
	case KindNotMonotonic:
		return ErrNotMonotonic
	case KindMarkerWrite:
		return ErrMarkerWrite
	case KindCommitFailed:
		return ErrCommitFailed
	case KindTagFailed:
		return ErrTagFailed
	case KindPushFailed:
		return ErrPushFailed
	case KindRepository:
		return ErrRepository
	case KindInterrupted:
		return ErrInterrupted
	default:
		return errors.New("release failed")
	}
}

// String returns the sentinel message for the kind.
func (k Kind) String() string {
	return k.sentinel().Error()
}

// Error is returned by Run when a stage aborts the release. It unwraps to
// both the sentinel for its Kind and the underlying cause, so callers can
// use errors.Is(err, ErrPushFailed) and errors.As(err, &gitErr) alike.
type Error struct {
	Kind  Kind
	Stage Stage
	Err   error
}

func newError(kind Kind, stage Stage, err error) *Error {
	return &Error{Kind: kind, Stage: stage, Err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

// Unwrap returns the kind sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}
