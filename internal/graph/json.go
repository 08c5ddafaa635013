package graph

import "encoding/json"

type jsonGraph struct {
	Nodes []string `json:"nodes"`
	Edges []Edge   `json:"edges"`
}

func (g *Graph) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonGraph{Nodes: g.Nodes(), Edges: g.Edges()})
}

func (g *Graph) UnmarshalJSON(data []byte) error {
	var jg jsonGraph
	if err := json.Unmarshal(data, &jg); err != nil {
		return err
	}
	*g = *New()
	for _, n := range jg.Nodes {
		if err := g.AddNode(n); err != nil {
			return err
		}
	}
	for _, e := range jg.Edges {
		if err := g.addEdge(e.From, e.To, e.Kind); err != nil {
			return err
		}
		g.adj[e.From][e.To].Marked = e.Marked
	}
	return nil
}
