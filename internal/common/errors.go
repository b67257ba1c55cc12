package common

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a build error without pinning it to a Go type, matching the
// error taxonomy of the original EventChains dependency resolver
// (DependencyErrorCode) and persistent cache (its own ad-hoc error returns).
type Kind int

const (
	KindNullInput Kind = iota
	KindFileNotFound
	KindParseFailed
	KindCircularDependency
	KindTooManyFiles
	KindTooManyIncludes
	KindInvalidPath
	KindOutOfMemory
	KindTopologicalSortFailed
	KindCompileFailed
	KindLinkFailed
)

func (k Kind) String() string {
	switch k {
	case KindNullInput:
		return "NullInput"
	case KindFileNotFound:
		return "FileNotFound"
	case KindParseFailed:
		return "ParseFailed"
	case KindCircularDependency:
		return "CircularDependency"
	case KindTooManyFiles:
		return "TooManyFiles"
	case KindTooManyIncludes:
		return "TooManyIncludes"
	case KindInvalidPath:
		return "InvalidPath"
	case KindOutOfMemory:
		return "OutOfMemory"
	case KindTopologicalSortFailed:
		return "TopologicalSortFailed"
	case KindCompileFailed:
		return "CompileFailed"
	case KindLinkFailed:
		return "LinkFailed"
	default:
		return "Unknown"
	}
}

// BuildError is a Kind-tagged error that keeps the original cause reachable
// via Unwrap (errors.Is / errors.As), the way mutagen and arduino-cli wrap OS
// errors. The cause is stored with errors.WithStack, so printing the
// unwrapped cause with %+v shows its stack; BuildError's own Error text does not.
type BuildError struct {
	kind    Kind
	message string
	cause   error
}

func NewError(kind Kind, message string) error {
	return &BuildError{kind: kind, message: message}
}

func WrapError(kind Kind, cause error, message string) error {
	if cause == nil {
		return NewError(kind, message)
	}
	return &BuildError{kind: kind, message: message, cause: errors.WithStack(cause)}
}

func (e *BuildError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.kind, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.message)
}

func (e *BuildError) Unwrap() error {
	return e.cause
}

func (e *BuildError) Kind() Kind {
	return e.kind
}

// KindOf extracts the Kind of err, if it (or something it wraps) is a *BuildError.
func KindOf(err error) (Kind, bool) {
	var be *BuildError
	if errors.As(err, &be) {
		return be.kind, true
	}
	return 0, false
}

// CircularDependencyError carries the cycle trace reported by the topological sorter.
type CircularDependencyError struct {
	Trace []string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency detected: %s", joinArrow(e.Trace))
}

func joinArrow(trace []string) string {
	out := ""
	for i, t := range trace {
		if i > 0 {
			out += " -> "
		}
		out += t
	}
	return out
}

// CompileFailedError / LinkFailedError carry the captured toolchain output, per spec §7.
type CompileFailedError struct {
	SourcePath     string
	ExitCode       int
	CapturedOutput string
}

func (e *CompileFailedError) Error() string {
	return fmt.Sprintf("compile failed for %s (exit %d): %s", e.SourcePath, e.ExitCode, e.CapturedOutput)
}

type LinkFailedError struct {
	ExitCode       int
	CapturedOutput string
}

func (e *LinkFailedError) Error() string {
	return fmt.Sprintf("link failed (exit %d): %s", e.ExitCode, e.CapturedOutput)
}
