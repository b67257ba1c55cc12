package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadEmptyWhenNoCacheFile(t *testing.T) {
	dir := t.TempDir()
	s, err := Load(dir, nil)
	require.NoError(t, err)
	_, ok := s.Find("anything")
	require.False(t, ok)
}

func TestUpdateFindRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := Load(dir, nil)
	require.NoError(t, err)

	srcPath := filepath.Join(dir, "a.c")
	require.NoError(t, writeTestFile(srcPath, "int main(){return 0;}"))

	s.Update(srcPath, filepath.Join(dir, "a.o"), nil, 1)
	entry, ok := s.Find(srcPath)
	require.True(t, ok)
	require.True(t, entry.Valid)
	require.Equal(t, srcPath, entry.SourcePath)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := Load(dir, nil)
	require.NoError(t, err)

	srcPath := filepath.Join(dir, "a.c")
	require.NoError(t, writeTestFile(srcPath, "int main(){return 0;}"))
	s.Update(srcPath, filepath.Join(dir, "a.o"), []DepRecord{{Path: "b.h", Hash: 42}}, 7)
	require.NoError(t, s.Save())

	reloaded, err := Load(dir, nil)
	require.NoError(t, err)
	entry, ok := reloaded.Find(srcPath)
	require.True(t, ok)
	require.Equal(t, int64(7), entry.SourceMTime)
	require.Len(t, entry.Deps, 1)
	require.Equal(t, uint64(42), entry.Deps[0].Hash)
}

func TestLoadRejectsCorruptedChecksum(t *testing.T) {
	dir := t.TempDir()
	s, err := Load(dir, nil)
	require.NoError(t, err)
	srcPath := filepath.Join(dir, "a.c")
	require.NoError(t, writeTestFile(srcPath, "x"))
	s.Update(srcPath, "a.o", nil, 1)
	require.NoError(t, s.Save())

	path := filepath.Join(dir, cacheSubdir, fileName)
	corruptLastByte(t, path)

	reloaded, err := Load(dir, nil)
	require.NoError(t, err) // corruption resets to empty, it does not error out
	_, ok := reloaded.Find(srcPath)
	require.False(t, ok)
}

func TestInvalidateMarksEntryInvalid(t *testing.T) {
	dir := t.TempDir()
	s, _ := Load(dir, nil)
	srcPath := filepath.Join(dir, "a.c")
	s.Update(srcPath, "a.o", nil, 1)

	s.Invalidate(srcPath)
	entry, _ := s.Find(srcPath)
	require.False(t, entry.Valid)
	require.Equal(t, int64(1), s.Invalidations())
}

func TestInvalidateDependents(t *testing.T) {
	dir := t.TempDir()
	s, _ := Load(dir, nil)
	srcPath := filepath.Join(dir, "a.c")
	s.Update(srcPath, "a.o", []DepRecord{{Path: "shared.h", Hash: 1}}, 1)

	s.InvalidateDependents("shared.h")
	entry, _ := s.Find(srcPath)
	require.False(t, entry.Valid)
}

func TestHitRateAndClear(t *testing.T) {
	dir := t.TempDir()
	s, _ := Load(dir, nil)
	require.Equal(t, float64(0), s.HitRate())

	s.RecordHit()
	s.RecordHit()
	s.RecordMiss()
	require.InDelta(t, 0.666, s.HitRate(), 0.01)

	s.Update(filepath.Join(dir, "a.c"), "a.o", nil, 1)
	require.Equal(t, 1, entryCount(s))
	s.Clear()
	require.Equal(t, 0, entryCount(s))
}

func entryCount(s *Store) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
