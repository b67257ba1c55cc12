package depgraph

import (
	"github.com/RPDevJesco/EventChains-BuildSystem/internal/common"
)

// Order is the topologically sorted build order (spec §3's BuildOrder):
// every unit appears after all of its resolved includes. Produced fresh per
// build, never persisted.
type Order struct {
	Units []*SourceUnit
}

// DebugString mirrors the teacher's build_order_print/InvocationSummary
// style: a single dense line listing every unit's path in order, separated
// by ", ", meant for --verbose output.
func (o *Order) DebugString() string {
	s := ""
	for i, u := range o.Units {
		if i > 0 {
			s += ", "
		}
		s += u.Path
	}
	return s
}

// sortState is the side table of traversal marks kept out of SourceUnit
// itself, per DESIGN.md's note on side-table traversal marks: the graph
// remains safe to borrow read-only during a sort.
type sortState struct {
	marks map[string]mark
	stack []string // current DFS path, for cycle trace reporting
}

// Sort performs the two-pass DFS of spec §4.G: first pass visits only Header
// units as DFS roots, second pass only Source units. The header-first bias
// guarantees every BuildOrder starts with a header whenever the graph has
// any, independent of whether any source actually includes it (spec's
// testable property "Header-first").
func Sort(g *Graph) (*Order, error) {
	st := &sortState{marks: make(map[string]mark, g.Len())}
	var out []*SourceUnit

	visit := func(u *SourceUnit) error {
		return dfs(g, u, st, &out)
	}

	for _, u := range g.Units() {
		if u.Kind != Header {
			continue
		}
		if st.marks[u.Path] == unvisited {
			if err := visit(u); err != nil {
				return nil, err
			}
		}
	}
	for _, u := range g.Units() {
		if u.Kind != Source {
			continue
		}
		if st.marks[u.Path] == unvisited {
			if err := visit(u); err != nil {
				return nil, err
			}
		}
	}

	return &Order{Units: out}, nil
}

func dfs(g *Graph, u *SourceUnit, st *sortState, out *[]*SourceUnit) error {
	st.marks[u.Path] = onStack
	st.stack = append(st.stack, u.Path)

	for _, incPath := range u.Includes {
		dep, ok := g.units[incPath]
		if !ok {
			continue // unresolved entries are skipped, per spec §4.G
		}
		switch st.marks[dep.Path] {
		case unvisited:
			if err := dfs(g, dep, st, out); err != nil {
				return err
			}
		case onStack:
			trace := append(append([]string{}, st.stack...), dep.Path)
			return &common.CircularDependencyError{Trace: trace}
		case done:
			// already fully processed via another path; nothing to do
		}
	}

	st.stack = st.stack[:len(st.stack)-1]
	st.marks[u.Path] = done
	*out = append(*out, u)
	return nil
}

// HasCycle reports whether any directed cycle exists among resolved edges,
// returning the trace of the first cycle found — spec §4.G's
// dependency_graph_has_cycle, restored as a standalone query. It runs a full
// Sort and discards the order; the driver calls Sort directly instead.
func HasCycle(g *Graph) (bool, []string) {
	_, err := Sort(g)
	if err == nil {
		return false, nil
	}
	if cycleErr, ok := err.(*common.CircularDependencyError); ok {
		return true, cycleErr.Trace
	}
	return false, nil
}
