package depgraph

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/RPDevJesco/EventChains-BuildSystem/internal/common"
)

// defaultExclusions is the base-name exclusion set of spec §4.F.
var defaultExclusions = map[string]bool{
	"build":          true,
	"builds":         true,
	".git":           true,
	".svn":           true,
	".hg":            true,
	"node_modules":   true,
	"vendor":         true,
	"__pycache__":    true,
	".eventchains":   true,
	"CMakeFiles":     true,
	".vs":            true,
	".vscode":        true,
	".idea":          true,
}

// Exclusions is the walker's exclusion policy: plain base-name matches (the
// spec's own contract) plus glob patterns. Glob support is an enrichment over
// the distilled spec — github.com/bmatcuk/doublestar/v4 (as used by
// mutagen-io-mutagen and standardbeagle-lci) lets --exclude accept patterns
// like "vendor/**" or "*_generated.c", not just bare directory names.
type Exclusions struct {
	names []string // extra base names, in addition to defaultExclusions
	globs []string // glob patterns matched against the path relative to the walk root
}

func NewExclusions(extra []string) Exclusions {
	var names, globs []string
	for _, e := range extra {
		if doublestar.ValidatePattern(e) && containsGlobMeta(e) {
			globs = append(globs, e)
		} else {
			names = append(names, e)
		}
	}
	return Exclusions{names: names, globs: globs}
}

func containsGlobMeta(pattern string) bool {
	for _, c := range pattern {
		switch c {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}

func (e Exclusions) excludesName(name string) bool {
	if defaultExclusions[name] {
		return true
	}
	for _, n := range e.names {
		if n == name {
			return true
		}
	}
	return false
}

func (e Exclusions) excludesRelPath(relPath string) bool {
	for _, g := range e.globs {
		if ok, _ := doublestar.Match(g, relPath); ok {
			return true
		}
	}
	return false
}

// Walk recursively enumerates root, calling graph.AddFile on every regular
// file with an admitted suffix whose directory chain survives exclusions.
// Per-entry admission failures (disallowed suffix) are ignored, matching
// spec §4.F; failures to even stat an entry are likewise ignored rather than
// aborting the whole walk, since directory trees routinely contain broken
// symlinks and permission-denied nodes.
func Walk(graph *Graph, root string, exclusions Exclusions) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return common.WrapError(common.KindInvalidPath, err, root)
	}

	return filepath.WalkDir(absRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == absRoot {
				return err
			}
			return nil
		}

		name := d.Name()
		if name == "." || name == ".." {
			return nil
		}

		rel, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			rel = name
		}

		if d.IsDir() {
			if path == absRoot {
				return nil
			}
			if exclusions.excludesName(name) || exclusions.excludesRelPath(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if exclusions.excludesRelPath(rel) {
			return nil
		}
		if _, ok := kindForSuffix(path); !ok {
			return nil
		}

		_ = graph.AddFile(path) // per-entry admission failures are ignored (spec §4.F)
		return nil
	})
}
