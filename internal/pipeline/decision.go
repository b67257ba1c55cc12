// Package pipeline implements the build orchestration layer (§4.I/§4.K of
// the build spec): the cache-hit decision engine and the composable
// Stage/Layer machinery that wraps each translation unit's compile step in
// timing, logging, caching, and statistics concerns. Grounded on the
// teacher's internal/client/invocation.go (VKCOM/nocc's per-job struct
// threaded through a fixed sequence of steps toward a remote daemon
// connection), generalized from "hand a compile job to a remote worker" to
// "decide locally whether a compile job is even needed."
package pipeline

import (
	"github.com/RPDevJesco/EventChains-BuildSystem/internal/cache"
	"github.com/RPDevJesco/EventChains-BuildSystem/internal/depgraph"
	"github.com/RPDevJesco/EventChains-BuildSystem/internal/fsutil"
)

// Verdict is the decision engine's output for one translation unit.
type Verdict int

const (
	// MissCompile means the unit must be (re)compiled.
	MissCompile Verdict = iota
	// HitSkip means the cached object can be reused as-is.
	HitSkip
)

func (v Verdict) String() string {
	if v == HitSkip {
		return "hit"
	}
	return "miss"
}

// Decide classifies one Source unit against the cache store, per spec
// §4.I: a hit requires the cached entry to be valid, the file's current
// content hash to be readable (nonzero) and equal the recorded source hash,
// and every recorded
// dependency's hash to still match. The decision engine itself never
// touches the filesystem for the object file's existence — that check
// belongs to CacheLayer (spec §4.K), since only the layer knows whether a
// clean/build-dir-wipe happened since the cache was last saved.
func Decide(store *cache.Store, unit *depgraph.SourceUnit) Verdict {
	entry, ok := store.Find(unit.Path)
	if !ok || !entry.Valid {
		return MissCompile
	}

	current := fsutil.HashFile(unit.Path)
	if current == 0 || current != entry.SourceHash {
		return MissCompile // 0 means "could not read": always a forced miss
	}

	for _, dep := range entry.Deps {
		if fsutil.HashFile(dep.Path) != dep.Hash {
			return MissCompile
		}
	}

	return HitSkip
}

// CaptureDeps snapshots unit's current transitive dependency hashes, for
// storage alongside a fresh cache entry after a successful compile.
func CaptureDeps(graph *depgraph.Graph, unit *depgraph.SourceUnit) []cache.DepRecord {
	transitive := graph.TransitiveDependencies(unit)
	deps := make([]cache.DepRecord, 0, len(transitive))
	for _, d := range transitive {
		deps = append(deps, cache.DepRecord{Path: d.Path, Hash: fsutil.HashFile(d.Path)})
	}
	return deps
}
