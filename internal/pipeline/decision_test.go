package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RPDevJesco/EventChains-BuildSystem/internal/cache"
	"github.com/RPDevJesco/EventChains-BuildSystem/internal/depgraph"
	"github.com/RPDevJesco/EventChains-BuildSystem/internal/fsutil"
)

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDecideMissWhenNoEntry(t *testing.T) {
	dir := t.TempDir()
	store, err := cache.Load(dir, nil)
	require.NoError(t, err)

	srcPath := filepath.Join(dir, "a.c")
	mustWrite(t, srcPath, "int main(){return 0;}")

	g := depgraph.New()
	require.NoError(t, g.AddFile(srcPath))
	unit, _ := g.FindFile(srcPath)

	require.Equal(t, MissCompile, Decide(store, unit))
}

func TestDecideHitWhenUnchanged(t *testing.T) {
	dir := t.TempDir()
	store, err := cache.Load(dir, nil)
	require.NoError(t, err)

	srcPath := filepath.Join(dir, "a.c")
	mustWrite(t, srcPath, "int main(){return 0;}")

	g := depgraph.New()
	require.NoError(t, g.AddFile(srcPath))
	unit, _ := g.FindFile(srcPath)

	store.Update(srcPath, filepath.Join(dir, "a.o"), CaptureDeps(g, unit), 1)
	require.Equal(t, HitSkip, Decide(store, unit))
}

func TestDecideMissWhenSourceContentChanges(t *testing.T) {
	dir := t.TempDir()
	store, err := cache.Load(dir, nil)
	require.NoError(t, err)

	srcPath := filepath.Join(dir, "a.c")
	mustWrite(t, srcPath, "int main(){return 0;}")

	g := depgraph.New()
	require.NoError(t, g.AddFile(srcPath))
	unit, _ := g.FindFile(srcPath)
	store.Update(srcPath, filepath.Join(dir, "a.o"), nil, 1)

	mustWrite(t, srcPath, "int main(){return 1;}")
	require.Equal(t, MissCompile, Decide(store, unit))
}

func TestDecideMissWhenDependencyHashChanges(t *testing.T) {
	dir := t.TempDir()
	store, err := cache.Load(dir, nil)
	require.NoError(t, err)

	headerPath := filepath.Join(dir, "a.h")
	srcPath := filepath.Join(dir, "a.c")
	mustWrite(t, headerPath, "#define X 1")
	mustWrite(t, srcPath, `#include "a.h"`)

	g := depgraph.New()
	require.NoError(t, g.AddFile(srcPath))
	unit, _ := g.FindFile(srcPath)

	store.Update(srcPath, filepath.Join(dir, "a.o"), CaptureDeps(g, unit), 1)
	require.Equal(t, HitSkip, Decide(store, unit))

	mustWrite(t, headerPath, "#define X 2")
	require.Equal(t, MissCompile, Decide(store, unit))
}

func TestCaptureDepsUsesCurrentHashes(t *testing.T) {
	dir := t.TempDir()
	headerPath := filepath.Join(dir, "a.h")
	srcPath := filepath.Join(dir, "a.c")
	mustWrite(t, headerPath, "#define X 1")
	mustWrite(t, srcPath, `#include "a.h"`)

	g := depgraph.New()
	require.NoError(t, g.AddFile(srcPath))
	unit, _ := g.FindFile(srcPath)

	deps := CaptureDeps(g, unit)
	require.Len(t, deps, 1)
	require.Equal(t, fsutil.HashFile(headerPath), deps[0].Hash)
}
