package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestObjectPathForIsBasenameOnly(t *testing.T) {
	got := ObjectPathFor("/build", "/proj/src/foo.c")
	require.Equal(t, "/build/foo.o", got)
}

func TestObjectPathForCollidesAcrossSubdirectories(t *testing.T) {
	// Spec §9's documented known limitation: base-name derivation collides
	// for units with the same name in different subdirectories. This must
	// stay true — a caller (Driver.Run) is responsible for detecting and
	// warning about it, not this function for avoiding it.
	a := ObjectPathFor("/build", "/proj/src/foo.c")
	b := ObjectPathFor("/build", "/proj/test/foo.c")
	require.Equal(t, a, b)
}
