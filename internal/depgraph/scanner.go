package depgraph

import (
	"bufio"
	"bytes"
	"strings"
)

// includeDirective is one `#include "x"` / `#include <x>` found in a file.
// Quote-vs-angle is discarded by the caller right after extraction (spec §4.C);
// it's kept here only long enough for the resolver to apply step 1 of its
// search order.
type includeDirective struct {
	target  string
	isQuote bool
}

// scanIncludes finds every syntactically valid #include directive in text, in
// order of appearance. It does not evaluate conditional directives — a
// directive under `#if 0` is reported exactly like one that would actually be
// compiled (spec §4.C, and explicitly out of scope per spec §1's non-goals
// around full preprocessor semantics).
//
// Unlike the teacher's own includes parser (a single-pass byte state machine
// tracking comments, angle/quote state, and #include_next across an entire
// preprocessor-equivalent walk), this scanner is deliberately line-oriented,
// matching the spec's simpler contract: skip leading whitespace, require '#',
// optional whitespace, "include", optional whitespace, then a quote or angle
// bracket run to the matching closer.
func scanIncludes(text []byte) []includeDirective {
	var out []includeDirective

	scanner := bufio.NewScanner(bytes.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if d, ok := scanIncludeLine(scanner.Text()); ok {
			out = append(out, d)
		}
	}
	return out
}

func scanIncludeLine(line string) (includeDirective, bool) {
	rest := strings.TrimLeft(line, " \t")
	rest, ok := cutPrefix(rest, "#")
	if !ok {
		return includeDirective{}, false
	}
	rest = strings.TrimLeft(rest, " \t")
	rest, ok = cutPrefix(rest, "include")
	if !ok {
		return includeDirective{}, false
	}
	rest = strings.TrimLeft(rest, " \t")
	if rest == "" {
		return includeDirective{}, false
	}

	open := rest[0]
	var closer byte
	var isQuote bool
	switch open {
	case '"':
		closer, isQuote = '"', true
	case '<':
		closer, isQuote = '>', false
	default:
		return includeDirective{}, false
	}

	end := strings.IndexByte(rest[1:], closer)
	if end < 0 {
		return includeDirective{}, false
	}
	target := rest[1 : 1+end]
	if target == "" {
		return includeDirective{}, false
	}
	return includeDirective{target: target, isQuote: isQuote}, true
}

func cutPrefix(s, prefix string) (string, bool) {
	if !strings.HasPrefix(s, prefix) {
		return s, false
	}
	return s[len(prefix):], true
}
