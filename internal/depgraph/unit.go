// Package depgraph implements the include-dependency resolver (§4.C-§4.G of
// the build spec): the include scanner, include-path resolver, source-file
// registry, directory walker, and topological sorter. Grounded on the
// teacher's includes-collector.go / own-includes-parser.go (VKCOM/nocc's
// own dependency discovery, used there to decide what to ship to a remote
// compile worker rather than to order a local build), restructured around
// a persistent, queryable graph instead of a one-shot per-invocation scan.
package depgraph

import "strings"

// Kind distinguishes a header from a translation unit, per spec §3.
type Kind int

const (
	Header Kind = iota
	Source
)

func (k Kind) String() string {
	if k == Header {
		return "Header"
	}
	return "Source"
}

// mark is the transient traversal state used only during topological sort.
// Kept out of SourceUnit and in a side table (toposort.go) per the spec's
// design note: "Global traversal marks on nodes" — the graph stays a
// logically immutable, concurrently-readable structure between sorts.
type mark int

const (
	unvisited mark = iota
	onStack
	done
)

// SourceUnit is one discovered file: a header or a translation unit.
type SourceUnit struct {
	Path     string   // canonical, absolute
	Kind     Kind
	Includes []string // resolved include paths, in order of appearance; duplicates permitted

	text []byte // file contents at discovery time, kept for FindMain's substring scan
}

// kindForSuffix classifies a path by its filename suffix and is itself the
// admission check: it reports false for a suffix outside the admitted set,
// and its callers (graph.go, walker.go) reject or skip such paths.
func kindForSuffix(path string) (Kind, bool) {
	switch {
	case hasAnySuffix(path, ".h", ".hpp"):
		return Header, true
	case hasAnySuffix(path, ".c", ".cpp", ".cc"):
		return Source, true
	default:
		return 0, false
	}
}

func hasAnySuffix(path string, suffixes ...string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(path, s) {
			return true
		}
	}
	return false
}

// ContainsMain is the spec's intentionally naive "find_main" heuristic: a
// substring match for `int main` or `void main` on any line, no string/comment
// aware parsing, so it also matches inside comments and string literals.
// Kept exactly this naive on purpose: a tokenizer would be more correct but
// would also change which files the test suite expects to match.
func (u *SourceUnit) ContainsMain() bool {
	return strings.Contains(string(u.text), "int main") || strings.Contains(string(u.text), "void main")
}
