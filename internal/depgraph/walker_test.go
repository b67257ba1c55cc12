package depgraph

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWalkSkipsDefaultExclusions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "main.c"), "int main() { return 0; }")
	writeFile(t, filepath.Join(dir, "vendor", "lib.c"), "void f() {}")
	writeFile(t, filepath.Join(dir, "build", "stale.c"), "void g() {}")

	g := New()
	require.NoError(t, Walk(g, dir, NewExclusions(nil)))

	require.Equal(t, 1, g.Len())
	_, ok := g.FindFile(filepath.Join(dir, "src", "main.c"))
	require.True(t, ok)
}

func TestWalkHonorsGlobExclusion(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "keep.c"), "void a() {}")
	writeFile(t, filepath.Join(dir, "generated_thing.c"), "void b() {}")

	g := New()
	require.NoError(t, Walk(g, dir, NewExclusions([]string{"*_thing.c"})))

	require.Equal(t, 1, g.Len())
	_, ok := g.FindFile(filepath.Join(dir, "keep.c"))
	require.True(t, ok)
}

func TestWalkHonorsExtraNameExclusion(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "keep.c"), "void a() {}")
	writeFile(t, filepath.Join(dir, "thirdparty", "dep.c"), "void b() {}")

	g := New()
	require.NoError(t, Walk(g, dir, NewExclusions([]string{"thirdparty"})))

	require.Equal(t, 1, g.Len())
}
