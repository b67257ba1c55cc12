package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOfExtractsWrappedKind(t *testing.T) {
	err := WrapError(KindCompileFailed, errors.New("gcc exited 1"), "a.c")
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, KindCompileFailed, kind)
}

func TestKindOfFalseForPlainError(t *testing.T) {
	_, ok := KindOf(errors.New("plain"))
	require.False(t, ok)
}

func TestWrapErrorNilCauseBehavesLikeNewError(t *testing.T) {
	err := WrapError(KindInvalidPath, nil, "bad path")
	require.Equal(t, "InvalidPath: bad path", err.Error())
}

func TestCircularDependencyErrorMessage(t *testing.T) {
	err := &CircularDependencyError{Trace: []string{"a.h", "b.h", "a.h"}}
	require.Equal(t, "circular dependency detected: a.h -> b.h -> a.h", err.Error())
}

func TestCompileFailedErrorMessage(t *testing.T) {
	err := &CompileFailedError{SourcePath: "a.c", ExitCode: 1, CapturedOutput: "syntax error"}
	require.Contains(t, err.Error(), "a.c")
	require.Contains(t, err.Error(), "syntax error")
}

func TestKindString(t *testing.T) {
	require.Equal(t, "CircularDependency", KindCircularDependency.String())
	require.Equal(t, "Unknown", Kind(999).String())
}
