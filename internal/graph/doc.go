// Package graph implements the mixed directed graph shared by the
// tracer and the discovery algorithm.
//
// A Graph holds string-identified nodes and at most one edge per node
// pair. Edges carry one of three kinds:
//
//   - Directed: a causal edge From -> To, optionally Marked as
//     genuinely causal
//   - Undirected: orientation unknown
//   - Bidirected: latent-confounder candidate
//
// Traced ground-truth graphs use only directed edges over "name@step"
// node IDs; discovery output uses all three kinds.
//
// Node and edge listings are deterministic (insertion order; parent and
// child queries are sorted), so DOT and JSON output is stable for a
// given build sequence.
package graph
