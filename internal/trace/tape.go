package trace

import (
	"errors"
	"math"
)

// Domain errors for tracing operations.
var (
	// ErrTapeMismatch indicates an operation mixed values from different tapes.
	ErrTapeMismatch = errors.New("trace: values belong to different tapes")

	// ErrDiverged indicates the traced computation produced NaN or Inf.
	ErrDiverged = errors.New("trace: traced computation diverged (NaN or Inf)")

	// ErrBadStride indicates a save stride below one.
	ErrBadStride = errors.New("trace: stride must be at least 1")

	// ErrUnknownMethod indicates an unsupported integration method.
	ErrUnknownMethod = errors.New("trace: unknown integration method")
)

// node is one recorded scalar operation: up to two parents with the
// local partial derivative of this node with respect to each.
type node struct {
	p1, p2 int
	d1, d2 float64
}

// Tape records every scalar operation performed through Val handles.
// Dependency extraction reverse-sweeps the tape, so a Tape must only
// grow; Reset reuses the backing array for the next trace segment.
type Tape struct {
	nodes []node
}

func NewTape() *Tape {
	return &Tape{nodes: make([]node, 0, 1024)}
}

func (t *Tape) Len() int { return len(t.nodes) }

func (t *Tape) Reset() { t.nodes = t.nodes[:0] }

func (t *Tape) push(n node) int {
	t.nodes = append(t.nodes, n)
	return len(t.nodes) - 1
}

// Input registers a leaf value whose adjoint will be read back after a
// reverse sweep.
func (t *Tape) Input(v float64) Val {
	id := t.push(node{p1: -1, p2: -1})
	return Val{tape: t, id: id, v: v}
}

// Const registers a constant leaf. Constants participate in the value
// computation but their adjoints are never read.
func (t *Tape) Const(v float64) Val {
	id := t.push(node{p1: -1, p2: -1})
	return Val{tape: t, id: id, v: v}
}

// Adjoints computes d(out)/d(node) for every node at or below out.id
// by a reverse sweep, returning the full adjoint vector indexed by
// node id.
func (t *Tape) Adjoints(out Val) []float64 {
	adj := make([]float64, out.id+1)
	adj[out.id] = 1.0
	for i := out.id; i >= 0; i-- {
		a := adj[i]
		if a == 0 {
			continue
		}
		n := t.nodes[i]
		if n.p1 >= 0 {
			adj[n.p1] += a * n.d1
		}
		if n.p2 >= 0 {
			adj[n.p2] += a * n.d2
		}
	}
	return adj
}

// Val is a scalar handle on a Tape. All arithmetic performed through
// Val methods is recorded with local partials.
type Val struct {
	tape *Tape
	id   int
	v    float64
}

func (a Val) Value() float64 { return a.v }

func (a Val) valid() bool {
	return !math.IsNaN(a.v) && !math.IsInf(a.v, 0)
}

func (a Val) binary(b Val, v, da, db float64) Val {
	if a.tape != b.tape {
		panic(ErrTapeMismatch)
	}
	id := a.tape.push(node{p1: a.id, p2: b.id, d1: da, d2: db})
	return Val{tape: a.tape, id: id, v: v}
}

func (a Val) unary(v, da float64) Val {
	id := a.tape.push(node{p1: a.id, p2: -1, d1: da})
	return Val{tape: a.tape, id: id, v: v}
}

func (a Val) Add(b Val) Val { return a.binary(b, a.v+b.v, 1, 1) }
func (a Val) Sub(b Val) Val { return a.binary(b, a.v-b.v, 1, -1) }
func (a Val) Mul(b Val) Val { return a.binary(b, a.v*b.v, b.v, a.v) }

func (a Val) Div(b Val) Val {
	return a.binary(b, a.v/b.v, 1/b.v, -a.v/(b.v*b.v))
}

func (a Val) Neg() Val { return a.unary(-a.v, -1) }

func (a Val) AddC(c float64) Val { return a.unary(a.v+c, 1) }
func (a Val) SubC(c float64) Val { return a.unary(a.v-c, 1) }
func (a Val) MulC(c float64) Val { return a.unary(a.v*c, c) }
func (a Val) DivC(c float64) Val { return a.unary(a.v/c, 1/c) }

func (a Val) Sin() Val { return a.unary(math.Sin(a.v), math.Cos(a.v)) }
func (a Val) Cos() Val { return a.unary(math.Cos(a.v), -math.Sin(a.v)) }
func (a Val) Exp() Val {
	e := math.Exp(a.v)
	return a.unary(e, e)
}
