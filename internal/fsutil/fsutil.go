// Package fsutil implements the path & I/O primitives component (§4.A of the
// build spec): path normalization, stat/read helpers, and an atomic-write
// discipline. Grounded on the teacher's internal/common/filesystem.go
// (MkdirForFile, OpenTempFile, ReplaceFileExt), generalized beyond the
// log-rotation use case it served there.
package fsutil

import (
	"io"
	"math/rand"
	"os"
	"path"
	"path/filepath"
	"strconv"
)

// Kind is the filesystem-node kind returned by Stat.
type Kind int

const (
	KindAbsent Kind = iota
	KindFile
	KindDir
)

// Info is the absent-or-present stat result used by the decision engine and walker.
type Info struct {
	Kind  Kind
	MTime int64 // unix nanoseconds; zero if Kind == KindAbsent
	Size  int64
}

// Normalize returns an absolute, slash-cleaned path with a single native separator,
// matching spec §4.A's "canonical path" requirement used as SourceUnit/CacheEntry keys.
func Normalize(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

// Stat returns the filesystem state of path, or a KindAbsent Info if it does not exist.
func Stat(path string) (Info, error) {
	st, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Info{Kind: KindAbsent}, nil
		}
		return Info{}, err
	}
	kind := KindFile
	if st.IsDir() {
		kind = KindDir
	}
	return Info{Kind: kind, MTime: st.ModTime().UnixNano(), Size: st.Size()}, nil
}

// Exists is a convenience wrapper around Stat for callers that don't need mtime/size.
func Exists(path string) bool {
	info, err := Stat(path)
	return err == nil && info.Kind != KindAbsent
}

// ReadBytes streams the full contents of path into memory. Used by the graph's
// AddFile to feed the include scanner, which needs the whole file anyway.
func ReadBytes(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// MkdirForFile ensures the parent directory of fileName exists.
func MkdirForFile(fileName string) error {
	return os.MkdirAll(filepath.Dir(fileName), os.ModePerm)
}

// openTempFile opens a sibling "target.<random>" file for exclusive write.
func openTempFile(target string) (*os.File, error) {
	tmpName := target + "." + strconv.Itoa(rand.Int())
	return os.OpenFile(tmpName, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
}

// AtomicWrite writes bytes to a temp file next to target, then renames it over
// target. On any failure the temp file is removed and target is left untouched —
// the rename is the linearization point (spec §5). Used by the cache store
// save (§4.H).
func AtomicWrite(target string, data []byte) (err error) {
	if err = MkdirForFile(target); err != nil {
		return err
	}

	f, err := openTempFile(target)
	if err != nil {
		return err
	}
	tmpName := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = f.Write(data); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}

	// os.Rename already replaces an existing target atomically on POSIX; on
	// platforms that require the destination to be absent first, remove it.
	if runtimeRequiresRemoveBeforeRename() {
		_ = os.Remove(target)
	}
	if err = os.Rename(tmpName, target); err != nil {
		return err
	}
	return nil
}

// ReplaceFileExt swaps the final extension of fileName for newExt (which should
// include the leading dot, e.g. ".o"). Ported from the teacher unchanged: it's
// used by pipeline.ObjectPathFor to derive object paths from source basenames.
func ReplaceFileExt(fileName string, newExt string) string {
	ext := path.Ext(fileName)
	return fileName[0:len(fileName)-len(ext)] + newExt
}
