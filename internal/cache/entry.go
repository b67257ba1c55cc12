// Package cache implements the persistent content-addressed cache store
// (§4.H/§6 of the build spec): a keyed registry of prior compilations that
// survives build-directory deletion, encoded atomically to
// <project>/.eventchains/cache.dat. Grounded on the teacher's
// internal/server/file-cache.go (VKCOM/nocc's LRU on-disk object cache),
// adapted from "reuse a compiled object across clients" to "reuse a
// compiled object across a build directory's lifetime."
package cache

// DepRecord is one (dependency path, dependency content hash) pair captured
// at compile time, per spec §3's CacheEntry invariant: this list reflects the
// resolved includes known at compile time, not re-scanned at query time.
type DepRecord struct {
	Path string
	Hash uint64
}

// Entry is the record of one prior successful compilation of one Source unit.
type Entry struct {
	SourcePath   string
	ObjectPath   string
	SourceHash   uint64
	SourceMTime  int64
	LastCompiled int64
	Deps         []DepRecord
	Valid        bool
}
