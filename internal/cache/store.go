package cache

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/sirupsen/logrus"

	"github.com/RPDevJesco/EventChains-BuildSystem/internal/common"
	"github.com/RPDevJesco/EventChains-BuildSystem/internal/fsutil"
)

const formatVersion uint32 = 1

// cacheSubdir and fileName locate the persistent cache under the project
// directory, per spec §6: <project>/.eventchains/cache.dat.
const cacheSubdir = ".eventchains"
const fileName = "cache.dat"

// Store is the persistent cache: a collection of Entries keyed by source
// path, plus a format-version tag, cumulative counters, and the on-disk
// location.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*Entry

	projectDir string

	hits          int64 // atomic
	misses        int64 // atomic
	invalidations int64 // atomic

	log *common.LoggerWrapper
}

// Load instantiates the cache under projectDir (spec §4.H's load): it
// ensures .eventchains/ exists, then loads cache.dat if present. On any
// mismatch — wrong version, oversized count, short read, corrupt checksum —
// it emits a warning and starts empty, per spec §7's recoverable-conditions
// policy.
func Load(projectDir string, log *common.LoggerWrapper) (*Store, error) {
	dir := filepath.Join(projectDir, cacheSubdir)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, common.WrapError(common.KindOutOfMemory, err, "cannot create .eventchains directory")
	}

	s := &Store{
		entries:    make(map[string]*Entry, common.MaxCacheEntries),
		projectDir: projectDir,
		log:        log,
	}

	path := filepath.Join(dir, fileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		s.warnReset("cannot read cache file", err)
		return s, nil
	}

	entries, loadErr := decode(data)
	if loadErr != nil {
		s.warnReset("cache file rejected", loadErr)
		return s, nil
	}
	for _, e := range entries {
		cp := e
		s.entries[e.SourcePath] = &cp
	}
	return s, nil
}

func (s *Store) warnReset(reason string, err error) {
	if s.log != nil {
		s.log.Warn("resetting build cache to empty", logrus.Fields{"reason": reason, "error": err})
	}
}

// Save writes the cache atomically: encode to a temp file under
// .eventchains/, then rename over cache.dat — the rename is the
// linearization point (spec §5).
func (s *Store) Save() error {
	s.mu.RLock()
	entries := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, *e)
	}
	s.mu.RUnlock()

	data := encode(entries)
	path := filepath.Join(s.projectDir, cacheSubdir, fileName)
	return fsutil.AtomicWrite(path, data)
}

// Find locates the entry for sourcePath, if any.
func (s *Store) Find(sourcePath string) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[sourcePath]
	return e, ok
}

// Update refreshes (or appends) the entry for sourcePath after a successful
// compilation: current hash/mtime, last-compiled timestamp, and the
// dependency list re-captured from the current graph snapshot (spec §4.H).
// If the store is at its bound and sourcePath is not already present, the
// update is dropped with a warning — spec §7's "cache store full" policy.
func (s *Store) Update(sourcePath, objectPath string, deps []DepRecord, mtime int64) {
	if len(deps) > common.MaxDepsPerEntry {
		deps = deps[:common.MaxDepsPerEntry]
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.entries[sourcePath]
	if !exists && len(s.entries) >= common.MaxCacheEntries {
		if s.log != nil {
			s.log.Warn("cache store full, dropping update", logrus.Fields{"source": sourcePath})
		}
		return
	}

	s.entries[sourcePath] = &Entry{
		SourcePath:   sourcePath,
		ObjectPath:   objectPath,
		SourceHash:   fsutil.HashFile(sourcePath),
		SourceMTime:  mtime,
		LastCompiled: time.Now().UnixNano(),
		Deps:         deps,
		Valid:        true,
	}
}

// Invalidate marks the entry for path invalid, forcing recompilation.
func (s *Store) Invalidate(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[path]; ok {
		e.Valid = false
		atomic.AddInt64(&s.invalidations, 1)
	}
}

// InvalidateDependents marks invalid every entry whose dependency list
// contains changedPath — used when a header's content changes.
func (s *Store) InvalidateDependents(changedPath string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if !e.Valid {
			continue
		}
		for _, d := range e.Deps {
			if d.Path == changedPath {
				e.Valid = false
				atomic.AddInt64(&s.invalidations, 1)
				break
			}
		}
	}
}

// Clear drops every entry, restored from the original C's build_cache_clear
// (see SPEC_FULL.md) and wired to the CLI's --clean flag.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*Entry, common.MaxCacheEntries)
}

func (s *Store) RecordHit()  { atomic.AddInt64(&s.hits, 1) }
func (s *Store) RecordMiss() { atomic.AddInt64(&s.misses, 1) }

func (s *Store) Hits() int64          { return atomic.LoadInt64(&s.hits) }
func (s *Store) Misses() int64        { return atomic.LoadInt64(&s.misses) }
func (s *Store) Invalidations() int64 { return atomic.LoadInt64(&s.invalidations) }

// HitRate restores the original C's build_cache_hit_rate.
func (s *Store) HitRate() float64 {
	hits, misses := s.Hits(), s.Misses()
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

// SizeBytes restores the original C's build_cache_size_bytes: the size of the
// encoded, in-memory entry set (an estimate of what Save would write).
func (s *Store) SizeBytes() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, *e)
	}
	return int64(len(encode(entries)))
}

// --- binary encoding -------------------------------------------------------

func encode(entries []Entry) []byte {
	var body bytes.Buffer
	_ = binary.Write(&body, binary.LittleEndian, formatVersion)
	_ = binary.Write(&body, binary.LittleEndian, uint64(len(entries)))

	for _, e := range entries {
		writeString(&body, e.SourcePath)
		writeString(&body, e.ObjectPath)
		_ = binary.Write(&body, binary.LittleEndian, e.SourceHash)
		_ = binary.Write(&body, binary.LittleEndian, e.SourceMTime)
		_ = binary.Write(&body, binary.LittleEndian, e.LastCompiled)
		_ = binary.Write(&body, binary.LittleEndian, uint32(len(e.Deps)))
		for _, d := range e.Deps {
			writeString(&body, d.Path)
			_ = binary.Write(&body, binary.LittleEndian, d.Hash)
		}
		validByte := byte(0)
		if e.Valid {
			validByte = 1
		}
		body.WriteByte(validByte)
	}

	sum := xxhash.Sum64(body.Bytes())
	var trailer [8]byte
	binary.LittleEndian.PutUint64(trailer[:], sum)
	return append(body.Bytes(), trailer[:]...)
}

func decode(data []byte) ([]Entry, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("cache file too short")
	}
	body, trailer := data[:len(data)-8], data[len(data)-8:]
	wantSum := binary.LittleEndian.Uint64(trailer)
	if gotSum := xxhash.Sum64(body); gotSum != wantSum {
		return nil, fmt.Errorf("cache file checksum mismatch (corrupted or truncated)")
	}

	r := bytes.NewReader(body)

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, err
	}
	if version != formatVersion {
		return nil, fmt.Errorf("cache format version mismatch: got %d want %d", version, formatVersion)
	}

	var count uint64
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	if count > common.MaxCacheEntries {
		return nil, fmt.Errorf("cache entry count %d exceeds bound %d", count, common.MaxCacheEntries)
	}

	entries := make([]Entry, 0, count)
	for i := uint64(0); i < count; i++ {
		var e Entry
		var err error
		if e.SourcePath, err = readString(r); err != nil {
			return nil, err
		}
		if e.ObjectPath, err = readString(r); err != nil {
			return nil, err
		}
		if err = binary.Read(r, binary.LittleEndian, &e.SourceHash); err != nil {
			return nil, err
		}
		if err = binary.Read(r, binary.LittleEndian, &e.SourceMTime); err != nil {
			return nil, err
		}
		if err = binary.Read(r, binary.LittleEndian, &e.LastCompiled); err != nil {
			return nil, err
		}
		var depCount uint32
		if err = binary.Read(r, binary.LittleEndian, &depCount); err != nil {
			return nil, err
		}
		if depCount > common.MaxDepsPerEntry {
			return nil, fmt.Errorf("entry %q has %d deps, exceeds bound %d", e.SourcePath, depCount, common.MaxDepsPerEntry)
		}
		e.Deps = make([]DepRecord, depCount)
		for j := uint32(0); j < depCount; j++ {
			var d DepRecord
			if d.Path, err = readString(r); err != nil {
				return nil, err
			}
			if err = binary.Read(r, binary.LittleEndian, &d.Hash); err != nil {
				return nil, err
			}
			e.Deps[j] = d
		}
		validByte, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		e.Valid = validByte != 0
		entries = append(entries, e)
	}
	return entries, nil
}

func writeString(w io.Writer, s string) {
	_ = binary.Write(w, binary.LittleEndian, uint32(len(s)))
	_, _ = io.WriteString(w, s)
}

func readString(r *bytes.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	if int(n) > common.MaxPathLength {
		return "", fmt.Errorf("string length %d exceeds MAX_PATH_LENGTH", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
