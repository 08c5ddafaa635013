package discover

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/causalab/internal/graph"
)

var (
	// ErrNoColumns indicates an empty column list.
	ErrNoColumns = errors.New("discover: no columns")

	// ErrColumnMismatch indicates column names not matching data width.
	ErrColumnMismatch = errors.New("discover: column count does not match data width")
)

// Options configures a discovery run.
type Options struct {
	// Alpha is the CI test significance level.
	Alpha float64
	// MaxCond bounds the conditioning-set size in the skeleton phase.
	MaxCond int
}

func DefaultOptions() Options {
	return Options{Alpha: 0.05, MaxCond: 3}
}

// Result is the output of an IC* run. Graph holds the recovered mixed
// graph; Ambiguous lists edges whose orientation the data could not
// settle, Latent lists bidirected (confounder-candidate) edges.
type Result struct {
	Graph     *graph.Graph
	Sepsets   map[[2]string][]string
	Ambiguous []graph.Edge
	Latent    []graph.Edge
	Tests     int
}

func pairKey(a, b string) [2]string {
	if a < b {
		return [2]string{a, b}
	}
	return [2]string{b, a}
}

// Run recovers causal structure from observational data with the IC*
// procedure: skeleton by conditional-independence pruning, collider
// orientation from separating sets, then the two propagation rules to
// fixpoint. Column order fixes all tie-breaking, so output is
// deterministic.
func Run(data [][]float64, cols []string, opts Options) (*Result, error) {
	if len(cols) == 0 {
		return nil, ErrNoColumns
	}
	if len(data) > 0 && len(data[0]) != len(cols) {
		return nil, fmt.Errorf("%w: %d cols, width %d", ErrColumnMismatch, len(cols), len(data[0]))
	}

	tester, err := NewFisherZ(data, opts.Alpha)
	if err != nil {
		return nil, err
	}
	return RunWithTester(tester, cols, opts)
}

// RunWithTester is Run with an injected CI tester.
func RunWithTester(tester CITester, cols []string, opts Options) (*Result, error) {
	if len(cols) == 0 {
		return nil, ErrNoColumns
	}
	if opts.MaxCond < 0 {
		opts.MaxCond = 0
	}

	g := graph.New()
	for _, c := range cols {
		if err := g.AddNode(c); err != nil {
			return nil, err
		}
	}
	for i := range cols {
		for j := i + 1; j < len(cols); j++ {
			if err := g.AddUndirected(cols[i], cols[j]); err != nil {
				return nil, err
			}
		}
	}

	index := make(map[string]int, len(cols))
	for i, c := range cols {
		index[c] = i
	}

	sepsets := make(map[[2]string][]string)

	if err := skeleton(g, tester, cols, index, opts.MaxCond, sepsets); err != nil {
		return nil, err
	}
	if err := orientColliders(g, cols, sepsets); err != nil {
		return nil, err
	}
	if err := propagate(g, cols); err != nil {
		return nil, err
	}

	res := &Result{
		Graph:   g,
		Sepsets: sepsets,
		Tests:   tester.Tests(),
	}
	for _, e := range g.Edges() {
		switch e.Kind {
		case graph.Undirected:
			res.Ambiguous = append(res.Ambiguous, e)
		case graph.Bidirected:
			res.Latent = append(res.Latent, e)
		}
	}
	return res, nil
}

// skeleton removes edges between conditionally independent pairs,
// growing the conditioning-set size from 0 to maxCond. Conditioning
// sets are drawn from the current neighbors of each endpoint.
func skeleton(g *graph.Graph, tester CITester, cols []string, index map[string]int, maxCond int, sepsets map[[2]string][]string) error {
	for size := 0; size <= maxCond; size++ {
		// Snapshot adjacency so removals in this pass do not shift the
		// candidate sets mid-iteration.
		type pair struct{ a, b string }
		var pairs []pair
		for i := range cols {
			for j := i + 1; j < len(cols); j++ {
				if g.HasAdjacency(cols[i], cols[j]) {
					pairs = append(pairs, pair{cols[i], cols[j]})
				}
			}
		}

		anyBigEnough := false
		for _, p := range pairs {
			if !g.HasAdjacency(p.a, p.b) {
				continue
			}

			candidates := neighborsExcluding(g, p.a, p.b)
			candidates = append(candidates, neighborsExcluding(g, p.b, p.a)...)
			candidates = dedupeSorted(candidates)

			if len(candidates) >= size {
				anyBigEnough = true
			}

			sep, found, err := findSepset(tester, index, p.a, p.b, candidates, size)
			if err != nil {
				return err
			}
			if found {
				if err := g.RemoveEdge(p.a, p.b); err != nil {
					return err
				}
				sepsets[pairKey(p.a, p.b)] = sep
			}
		}

		if !anyBigEnough {
			break
		}
	}
	return nil
}

func neighborsExcluding(g *graph.Graph, v, excl string) []string {
	adj := g.Adjacent(v)
	out := adj[:0]
	for _, n := range adj {
		if n != excl {
			out = append(out, n)
		}
	}
	return out
}

func dedupeSorted(s []string) []string {
	sort.Strings(s)
	out := s[:0]
	for i, v := range s {
		if i == 0 || v != s[i-1] {
			out = append(out, v)
		}
	}
	return out
}

// findSepset tests every size-k subset of candidates, in combination
// order, and returns the first separating set found.
func findSepset(tester CITester, index map[string]int, a, b string, candidates []string, size int) ([]string, bool, error) {
	if size > len(candidates) {
		return nil, false, nil
	}

	subset := make([]string, size)
	cond := make([]int, size)

	var walk func(start, depth int) (bool, error)
	walk = func(start, depth int) (bool, error) {
		if depth == size {
			for i, s := range subset {
				cond[i] = index[s]
			}
			return tester.Independent(index[a], index[b], cond)
		}
		for i := start; i <= len(candidates)-(size-depth); i++ {
			subset[depth] = candidates[i]
			ok, err := walk(i+1, depth+1)
			if err != nil || ok {
				return ok, err
			}
		}
		return false, nil
	}

	ok, err := walk(0, 0)
	if err != nil || !ok {
		return nil, false, err
	}
	sep := make([]string, size)
	copy(sep, subset)
	return sep, true, nil
}

// orientColliders applies the IC* collider step: for every nonadjacent
// pair (a, b) with a common neighbor c outside sepset(a, b), place
// arrowheads a -> c <- b. Opposing arrowheads yield bidirected edges.
func orientColliders(g *graph.Graph, cols []string, sepsets map[[2]string][]string) error {
	for i := range cols {
		for j := i + 1; j < len(cols); j++ {
			a, b := cols[i], cols[j]
			if g.HasAdjacency(a, b) {
				continue
			}
			sep := sepsets[pairKey(a, b)]
			for _, c := range cols {
				if c == a || c == b {
					continue
				}
				if !g.HasAdjacency(a, c) || !g.HasAdjacency(b, c) {
					continue
				}
				if contains(sep, c) {
					continue
				}
				if err := g.AddArrowhead(a, c); err != nil {
					return err
				}
				if err := g.AddArrowhead(b, c); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// propagate applies the IC* recovery rules until fixpoint:
//
//	R1: a has an arrowhead into c, c-b undirected, a and b nonadjacent
//	    => orient c -> b and mark it genuinely causal.
//	R2: a-b undirected and a directed path runs a .. b
//	    => orient a -> b.
//
// Every application converts one undirected edge, so the undirected
// count strictly decreases and the loop terminates.
func propagate(g *graph.Graph, cols []string) error {
	for {
		changed := false

		for _, e := range g.Edges() {
			if e.Kind != graph.Undirected {
				continue
			}

			// R1 in both endpoint roles.
			for _, cb := range [][2]string{{e.From, e.To}, {e.To, e.From}} {
				c, b := cb[0], cb[1]
				if hasArrowheadIntoFromNonadjacent(g, c, b, cols) {
					if err := g.Orient(c, b); err != nil {
						return err
					}
					if err := g.Mark(c, b); err != nil {
						return err
					}
					changed = true
					break
				}
			}
			if changed {
				break
			}

			// R2 in both directions.
			if g.HasPath(e.From, e.To) {
				if err := g.Orient(e.From, e.To); err != nil {
					return err
				}
				changed = true
				break
			}
			if g.HasPath(e.To, e.From) {
				if err := g.Orient(e.To, e.From); err != nil {
					return err
				}
				changed = true
				break
			}
		}

		if !changed {
			return nil
		}
	}
}

// hasArrowheadIntoFromNonadjacent reports whether some node a, not
// adjacent to b, points an arrowhead into c (directed a -> c or
// bidirected a <-> c).
func hasArrowheadIntoFromNonadjacent(g *graph.Graph, c, b string, cols []string) bool {
	for _, a := range cols {
		if a == c || a == b {
			continue
		}
		e, ok := g.EdgeBetween(a, c)
		if !ok {
			continue
		}
		arrowAtC := e.Kind == graph.Bidirected || (e.Kind == graph.Directed && e.To == c)
		if arrowAtC && !g.HasAdjacency(a, b) {
			return true
		}
	}
	return false
}
