package fsutil

import (
	"io"
	"os"
)

// Content hashing is the one place this project deliberately sidesteps a
// ready-made library (golang.org/x/crypto or cespare/xxhash, both available
// in the pack): spec §4.B pins an exact FNV-1a construction (basis
// 0xcbf29ce484222325, prime 0x100000001b3, result 0 reserved) that the
// persistent cache's on-disk format depends on bit-for-bit. Using a
// general-purpose hash package here would mean re-deriving the same
// constants by hand anyway, for no gain — so this one function stays
// hand-rolled stdlib, same as the teacher's sha256 helpers stay hand-rolled
// around crypto/sha256 rather than through a wrapper package.
const (
	fnvOffsetBasis uint64 = 0xcbf29ce484222325
	fnvPrime       uint64 = 0x100000001b3
)

const hashChunkSize = 64 * 1024

// HashBytes computes the FNV-1a hash of b. An empty input hashes to the bare
// offset basis, not to 0; callers must never rely on 0 meaning "empty" — 0 is
// reserved exclusively for HashFile's "could not read" signal.
func HashBytes(b []byte) uint64 {
	h := fnvOffsetBasis
	for _, c := range b {
		h ^= uint64(c)
		h *= fnvPrime
	}
	return h
}

// HashFile streams path and returns its FNV-1a content hash, or 0 if the file
// could not be opened/read. Callers MUST treat 0 as a forced cache miss, never
// as a match — spec §4.B.
func HashFile(path string) uint64 {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	h := fnvOffsetBasis
	buf := make([]byte, hashChunkSize)
	for {
		n, err := f.Read(buf)
		for _, c := range buf[:n] {
			h ^= uint64(c)
			h *= fnvPrime
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0
		}
	}
	return h
}
