package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashBytesDeterministic(t *testing.T) {
	a := HashBytes([]byte("hello world"))
	b := HashBytes([]byte("hello world"))
	require.Equal(t, a, b)
}

func TestHashBytesDiffersOnContent(t *testing.T) {
	a := HashBytes([]byte("hello world"))
	b := HashBytes([]byte("hello worlD"))
	require.NotEqual(t, a, b)
}

func TestHashBytesMatchesKnownFNV1a(t *testing.T) {
	// "" hashes to the bare offset basis.
	require.Equal(t, uint64(0xcbf29ce484222325), HashBytes(nil))
}

func TestHashFileMissingReturnsZero(t *testing.T) {
	require.Equal(t, uint64(0), HashFile(filepath.Join(t.TempDir(), "does-not-exist.c")))
}

func TestHashFileMatchesHashBytes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.c")
	content := []byte("int main() { return 0; }\n")
	require.NoError(t, os.WriteFile(path, content, 0644))

	require.Equal(t, HashBytes(content), HashFile(path))
}
