package discover_test

import (
	"sort"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/causalab/internal/discover"
	"github.com/san-kum/causalab/internal/graph"
)

// walsh returns a ±1 column of the given period over n rows. Distinct
// periods are exactly orthogonal and mean-zero, which makes sample
// correlations exact and the tests deterministic.
func walsh(n, period int) []float64 {
	out := make([]float64, n)
	for i := range out {
		if (i/period)%2 == 0 {
			out[i] = 1
		} else {
			out[i] = -1
		}
	}
	return out
}

func columns(cols ...[]float64) [][]float64 {
	n := len(cols[0])
	data := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, len(cols))
		for j := range cols {
			row[j] = cols[j][i]
		}
		data[i] = row
	}
	return data
}

// oracle answers independence queries from a fixed table, keyed by the
// unordered pair and the sorted conditioning set.
type oracle struct {
	names []string
	indep map[string]bool
	tests int
}

func (o *oracle) key(i, j int, cond []int) string {
	a, b := o.names[i], o.names[j]
	if a > b {
		a, b = b, a
	}
	cs := make([]string, len(cond))
	for k, c := range cond {
		cs[k] = o.names[c]
	}
	sort.Strings(cs)
	k := a + "," + b + "|"
	for _, c := range cs {
		k += c + ";"
	}
	return k
}

func (o *oracle) Independent(i, j int, cond []int) (bool, error) {
	o.tests++
	return o.indep[o.key(i, j, cond)], nil
}

func (o *oracle) Tests() int { return o.tests }

var _ = Describe("IC*", func() {
	Describe("input validation", func() {
		It("rejects an empty column list", func() {
			_, err := discover.Run(nil, nil, discover.DefaultOptions())
			Expect(err).To(MatchError(discover.ErrNoColumns))
		})

		It("rejects mismatched column names", func() {
			data := [][]float64{{1, 2, 3}}
			_, err := discover.Run(data, []string{"a", "b"}, discover.DefaultOptions())
			Expect(err).To(MatchError(discover.ErrColumnMismatch))
		})

		It("rejects alpha outside (0, 1)", func() {
			data := columns(walsh(8, 1), walsh(8, 2))
			_, err := discover.Run(data, []string{"a", "b"}, discover.Options{Alpha: 0, MaxCond: 1})
			Expect(err).To(MatchError(discover.ErrBadAlpha))
		})
	})

	Describe("skeleton recovery on exact data", func() {
		It("recovers the chain skeleton and reports ambiguity", func() {
			// x = u1, y = u1+u2, z = u1+u2+u3: x and z are exactly
			// screened off by y, everything else is dependent.
			n := 64
			u1, u2, u3 := walsh(n, 1), walsh(n, 2), walsh(n, 4)
			x := make([]float64, n)
			y := make([]float64, n)
			z := make([]float64, n)
			for i := 0; i < n; i++ {
				x[i] = u1[i]
				y[i] = u1[i] + u2[i]
				z[i] = u1[i] + u2[i] + u3[i]
			}

			res, err := discover.Run(columns(x, y, z), []string{"x", "y", "z"}, discover.Options{Alpha: 0.05, MaxCond: 2})
			Expect(err).NotTo(HaveOccurred())

			g := res.Graph
			Expect(g.HasAdjacency("x", "y")).To(BeTrue())
			Expect(g.HasAdjacency("y", "z")).To(BeTrue())
			Expect(g.HasAdjacency("x", "z")).To(BeFalse())
			Expect(res.Sepsets[[2]string{"x", "z"}]).To(Equal([]string{"y"}))

			// A bare chain carries no orientation information.
			Expect(res.Ambiguous).To(HaveLen(2))
			Expect(res.Latent).To(BeEmpty())
			Expect(res.Tests).To(BeNumerically(">", 0))
		})

		It("orients a collider", func() {
			// z = x + y with x, y exactly uncorrelated.
			n := 64
			x, y := walsh(n, 1), walsh(n, 2)
			z := make([]float64, n)
			for i := 0; i < n; i++ {
				z[i] = x[i] + y[i]
			}

			res, err := discover.Run(columns(x, y, z), []string{"x", "y", "z"}, discover.Options{Alpha: 0.05, MaxCond: 2})
			Expect(err).NotTo(HaveOccurred())

			g := res.Graph
			Expect(g.HasDirected("x", "z")).To(BeTrue())
			Expect(g.HasDirected("y", "z")).To(BeTrue())
			Expect(g.HasAdjacency("x", "y")).To(BeFalse())
			Expect(res.Ambiguous).To(BeEmpty())
		})

		It("disconnects constant columns", func() {
			n := 16
			x := walsh(n, 1)
			c := make([]float64, n)
			for i := range c {
				c[i] = 7.0
			}

			res, err := discover.Run(columns(x, c), []string{"x", "const"}, discover.Options{Alpha: 0.05, MaxCond: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Graph.HasAdjacency("x", "const")).To(BeFalse())
		})
	})

	Describe("orientation rules with an oracle tester", func() {
		It("applies R1 and marks the propagated edge", func() {
			// Truth: a -> c <- b colliding, then c -> d.
			names := []string{"a", "b", "c", "d"}
			o := &oracle{names: names, indep: map[string]bool{}}
			o.indep[o.key(0, 1, nil)] = true                // a _|_ b
			o.indep[o.key(0, 3, []int{2})] = true           // a _|_ d | c
			o.indep[o.key(1, 3, []int{2})] = true           // b _|_ d | c

			res, err := discover.RunWithTester(o, names, discover.Options{Alpha: 0.05, MaxCond: 2})
			Expect(err).NotTo(HaveOccurred())

			g := res.Graph
			Expect(g.HasDirected("a", "c")).To(BeTrue())
			Expect(g.HasDirected("b", "c")).To(BeTrue())
			Expect(g.HasDirected("c", "d")).To(BeTrue())

			e, ok := g.EdgeBetween("c", "d")
			Expect(ok).To(BeTrue())
			Expect(e.Marked).To(BeTrue(), "R1 orientations carry the genuine-causation mark")

			ec, _ := g.EdgeBetween("a", "c")
			Expect(ec.Marked).To(BeFalse(), "collider arrowheads are unmarked")
		})

		It("applies R2 along an existing directed path", func() {
			// Colliders give x -> z and z -> y (marked); the remaining
			// x - y edge must follow the directed path.
			names := []string{"w", "x", "y", "z"}
			o := &oracle{names: names, indep: map[string]bool{}}
			o.indep[o.key(0, 1, nil)] = true      // w _|_ x
			o.indep[o.key(0, 2, []int{3})] = true // w _|_ y | z

			res, err := discover.RunWithTester(o, names, discover.Options{Alpha: 0.05, MaxCond: 2})
			Expect(err).NotTo(HaveOccurred())

			g := res.Graph
			Expect(g.HasDirected("w", "z")).To(BeTrue())
			Expect(g.HasDirected("x", "z")).To(BeTrue())
			Expect(g.HasDirected("z", "y")).To(BeTrue())
			Expect(g.HasDirected("x", "y")).To(BeTrue(), "R2 orients along the path x -> z -> y")
			Expect(res.Ambiguous).To(BeEmpty())
		})

		It("reports opposing arrowheads as latent candidates", func() {
			// Two colliders share the c - d edge from opposite ends.
			names := []string{"a", "b", "c", "d"}
			o := &oracle{names: names, indep: map[string]bool{}}
			o.indep[o.key(0, 1, nil)] = true // a _|_ b
			o.indep[o.key(0, 3, nil)] = true // a _|_ d
			o.indep[o.key(1, 2, nil)] = true // b _|_ c

			res, err := discover.RunWithTester(o, names, discover.Options{Alpha: 0.05, MaxCond: 2})
			Expect(err).NotTo(HaveOccurred())

			g := res.Graph
			Expect(g.HasDirected("a", "c")).To(BeTrue())
			Expect(g.HasDirected("b", "d")).To(BeTrue())

			e, ok := g.EdgeBetween("c", "d")
			Expect(ok).To(BeTrue())
			Expect(e.Kind).To(Equal(graph.Bidirected))
			Expect(res.Latent).To(HaveLen(1))
		})
	})
})
