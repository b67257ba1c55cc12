package depgraph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RPDevJesco/EventChains-BuildSystem/internal/fsutil"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestResolveQuoteFormPrefersReferencingDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "local.h"), "")
	writeFile(t, filepath.Join(dir, "referencing.c"), "")

	r := &resolver{}
	got, ok := r.resolve(includeDirective{target: "local.h", isQuote: true}, filepath.Join(dir, "src", "referencing.c"))
	require.True(t, ok)
	want, err := fsutil.Normalize(filepath.Join(dir, "src", "local.h"))
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestResolveAngleFormSkipsReferencingDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "vendor.h"), "")

	r := &resolver{}
	_, ok := r.resolve(includeDirective{target: "vendor.h", isQuote: false}, filepath.Join(dir, "src", "referencing.c"))
	require.False(t, ok, "angle-form includes must not search the referencing file's own directory")
}

func TestResolveSearchesIncludeRootsInOrder(t *testing.T) {
	dir := t.TempDir()
	rootA := filepath.Join(dir, "rootA")
	rootB := filepath.Join(dir, "rootB")
	writeFile(t, filepath.Join(rootB, "shared.h"), "")

	r := &resolver{includeRoots: []string{rootA, rootB}}
	got, ok := r.resolve(includeDirective{target: "shared.h", isQuote: false}, filepath.Join(dir, "referencing.c"))
	require.True(t, ok)
	require.Contains(t, got, "rootB")
}

func TestResolveUnresolvedSystemHeader(t *testing.T) {
	dir := t.TempDir()
	r := &resolver{}
	_, ok := r.resolve(includeDirective{target: "stdio.h", isQuote: false}, filepath.Join(dir, "referencing.c"))
	require.False(t, ok)
}
