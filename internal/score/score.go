// Package score compares a recovered causal graph against the traced
// ground truth.
package score

import (
	"github.com/san-kum/causalab/internal/graph"
)

// Report holds recovery quality metrics. Adjacency metrics ignore
// orientation; orientation accuracy is computed over pairs adjacent in
// both graphs. SHD counts edge insertions, deletions and orientation
// fixes needed to turn the recovered graph into the truth.
type Report struct {
	AdjacencyPrecision  float64 `json:"adjacency_precision"`
	AdjacencyRecall     float64 `json:"adjacency_recall"`
	AdjacencyF1         float64 `json:"adjacency_f1"`
	OrientationAccuracy float64 `json:"orientation_accuracy"`
	SHD                 int     `json:"shd"`

	TrueEdges      int `json:"true_edges"`
	RecoveredEdges int `json:"recovered_edges"`
	CommonPairs    int `json:"common_pairs"`
}

func pairKey(a, b string) [2]string {
	if a < b {
		return [2]string{a, b}
	}
	return [2]string{b, a}
}

func adjacencySet(g *graph.Graph) map[[2]string]bool {
	out := make(map[[2]string]bool)
	for _, e := range g.Edges() {
		out[pairKey(e.From, e.To)] = true
	}
	return out
}

// orientationMatches reports whether the recovered edge for the pair is
// compatible with the true directed edge: a directed edge must point
// the same way; undirected and bidirected recoveries do not count as
// correctly oriented.
func orientationMatches(truth, rec *graph.Graph, pair [2]string) bool {
	te, ok := truth.EdgeBetween(pair[0], pair[1])
	if !ok || te.Kind != graph.Directed {
		return false
	}
	return rec.HasDirected(te.From, te.To)
}

// Compare scores the recovered graph against the truth. Both graphs
// must be over the same node vocabulary; nodes absent from either
// simply contribute no edges.
func Compare(truth, recovered *graph.Graph) Report {
	ta := adjacencySet(truth)
	ra := adjacencySet(recovered)

	var hits int
	for p := range ra {
		if ta[p] {
			hits++
		}
	}

	r := Report{
		TrueEdges:      len(ta),
		RecoveredEdges: len(ra),
	}

	switch {
	case len(ta) == 0 && len(ra) == 0:
		// Nothing to find, nothing found.
		r.AdjacencyPrecision = 1
		r.AdjacencyRecall = 1
		r.AdjacencyF1 = 1
	default:
		if len(ra) > 0 {
			r.AdjacencyPrecision = float64(hits) / float64(len(ra))
		}
		if len(ta) > 0 {
			r.AdjacencyRecall = float64(hits) / float64(len(ta))
		}
		if r.AdjacencyPrecision+r.AdjacencyRecall > 0 {
			r.AdjacencyF1 = 2 * r.AdjacencyPrecision * r.AdjacencyRecall /
				(r.AdjacencyPrecision + r.AdjacencyRecall)
		}
	}

	var oriented int
	for p := range ra {
		if !ta[p] {
			continue
		}
		r.CommonPairs++
		if orientationMatches(truth, recovered, p) {
			oriented++
		}
	}
	if r.CommonPairs > 0 {
		r.OrientationAccuracy = float64(oriented) / float64(r.CommonPairs)
	}

	// SHD: missing edges + extra edges + misoriented common pairs.
	shd := 0
	for p := range ta {
		if !ra[p] {
			shd++
		}
	}
	for p := range ra {
		if !ta[p] {
			shd++
		} else if !orientationMatches(truth, recovered, p) {
			shd++
		}
	}
	r.SHD = shd

	return r
}
