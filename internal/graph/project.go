package graph

// Project computes the latent projection of g onto the observed node
// set: the result contains exactly the observed nodes, with a directed
// edge u -> v whenever g has a directed path from u to v whose interior
// nodes are all unobserved. Non-directed edges of g are ignored; the
// projection is defined for traced dependency graphs, which are DAGs of
// directed edges.
func (g *Graph) Project(observed []string) (*Graph, error) {
	obs := make(map[string]bool, len(observed))
	p := New()
	for _, id := range observed {
		if !g.HasNode(id) {
			return nil, ErrNodeNotFound
		}
		obs[id] = true
		if err := p.AddNode(id); err != nil {
			return nil, err
		}
	}

	for _, u := range observed {
		for _, v := range g.reachableObserved(u, obs) {
			if err := p.AddDirected(u, v); err != nil {
				return nil, err
			}
		}
	}
	return p, nil
}

// reachableObserved walks directed edges from u, stopping at observed
// nodes, and returns the observed frontier in first-visit order.
func (g *Graph) reachableObserved(u string, obs map[string]bool) []string {
	var out []string
	seen := map[string]bool{u: true}
	found := make(map[string]bool)
	stack := []string{u}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range g.Children(v) {
			if obs[c] {
				if !found[c] {
					found[c] = true
					out = append(out, c)
				}
				continue
			}
			if !seen[c] {
				seen[c] = true
				stack = append(stack, c)
			}
		}
	}
	return out
}
