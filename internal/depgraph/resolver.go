package depgraph

import (
	"os"
	"path/filepath"

	"github.com/RPDevJesco/EventChains-BuildSystem/internal/fsutil"
)

// resolver implements the include-path resolver (spec §4.D): given a raw
// include target and the file that named it, produce a canonical absolute
// path on disk, or report that it's unresolved (and therefore an external/
// system header dropped from the graph).
type resolver struct {
	includeRoots []string // registered search roots, insertion order
}

// resolve implements the search order from spec §4.D:
//  1. the directory of the referencing file — only for quote-form includes.
//     (Open Question #1 in spec §9: this project resolves it by applying
//     step 1 only to quote-form includes, matching the C standard's own
//     distinction between `"x.h"` and `<x.h>` — see DESIGN.md.)
//  2. each registered include root, in insertion order.
//  3. the current working directory.
//
// The first existing match wins. An include that resolves to no on-disk file
// is reported as unresolved and is silently dropped by the caller — it's
// assumed to name a system header outside the project.
func (r *resolver) resolve(directive includeDirective, referencingFile string) (string, bool) {
	if directive.isQuote {
		candidate := filepath.Join(filepath.Dir(referencingFile), directive.target)
		if fsutil.Exists(candidate) {
			return normalizeOrSelf(candidate), true
		}
	}

	for _, root := range r.includeRoots {
		candidate := filepath.Join(root, directive.target)
		if fsutil.Exists(candidate) {
			return normalizeOrSelf(candidate), true
		}
	}

	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, directive.target)
		if fsutil.Exists(candidate) {
			return normalizeOrSelf(candidate), true
		}
	}

	return "", false
}

func normalizeOrSelf(p string) string {
	if n, err := fsutil.Normalize(p); err == nil {
		return n
	}
	return p
}
