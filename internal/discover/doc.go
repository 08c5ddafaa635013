// Package discover recovers causal structure from observational data
// with the IC* procedure.
//
// The algorithm runs in three phases:
//
//  1. Skeleton: starting from the complete undirected graph, remove
//     the edge between every pair found conditionally independent
//     given some subset of their neighbors, growing the subset size
//     up to Options.MaxCond. The separating set is recorded.
//  2. Colliders: for every nonadjacent pair with a common neighbor
//     outside their separating set, point arrowheads at the neighbor.
//     Opposing arrowheads on one edge yield a bidirected edge, the
//     latent-confounder candidate.
//  3. Propagation: two rules applied to fixpoint. R1 orients and marks
//     c -> b when some a points into c, c-b is undirected, and a, b
//     are nonadjacent. R2 orients a -> b when a directed path already
//     runs from a to b. Each application converts one undirected edge,
//     so termination is by strict decrease.
//
// Edges still undirected at the fixpoint are reported as ambiguous
// rather than forced.
//
// Conditional independence on continuous data is decided by the
// partial-correlation Fisher z test ([FisherZ]); any CITester can be
// injected for other data types.
package discover
