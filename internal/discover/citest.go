package discover

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Errors for conditional-independence testing.
var (
	// ErrBadAlpha indicates a significance level outside (0, 1).
	ErrBadAlpha = errors.New("discover: alpha must be in (0, 1)")

	// ErrNotEnoughRows indicates fewer than two observations.
	ErrNotEnoughRows = errors.New("discover: need at least two rows")

	// ErrRaggedData indicates rows of unequal width.
	ErrRaggedData = errors.New("discover: ragged data matrix")
)

// CITester decides conditional independence between column indices.
type CITester interface {
	// Independent reports whether columns i and j are independent given
	// the conditioning columns cond.
	Independent(i, j int, cond []int) (bool, error)
	// Tests returns the number of tests performed so far.
	Tests() int
}

// FisherZ tests conditional independence of Gaussian-ish data via the
// partial correlation and Fisher's z transform. The full correlation
// matrix is computed once; each test solves the precision of the
// {i, j} ∪ cond submatrix.
type FisherZ struct {
	corr      *mat.SymDense
	n         int
	threshold float64
	constant  []bool
	tests     int
}

func NewFisherZ(data [][]float64, alpha float64) (*FisherZ, error) {
	if alpha <= 0 || alpha >= 1 {
		return nil, fmt.Errorf("%w: %f", ErrBadAlpha, alpha)
	}
	n := len(data)
	if n < 2 {
		return nil, ErrNotEnoughRows
	}
	p := len(data[0])

	flat := make([]float64, 0, n*p)
	for _, row := range data {
		if len(row) != p {
			return nil, ErrRaggedData
		}
		flat = append(flat, row...)
	}
	m := mat.NewDense(n, p, flat)

	// Constant columns carry no information; every test touching one
	// reports independence.
	constant := make([]bool, p)
	for j := 0; j < p; j++ {
		col := mat.Col(nil, j, m)
		if stat.Variance(col, nil) == 0 {
			constant[j] = true
		}
	}

	corr := mat.NewSymDense(p, nil)
	stat.CorrelationMatrix(corr, m, nil)

	// Correlations against constant columns come out NaN; neutralize
	// them so submatrix solves stay finite.
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			v := corr.At(i, j)
			if math.IsNaN(v) {
				if i == j {
					corr.SetSym(i, j, 1)
				} else {
					corr.SetSym(i, j, 0)
				}
			}
		}
	}

	normal := distuv.UnitNormal
	return &FisherZ{
		corr:      corr,
		n:         n,
		threshold: normal.Quantile(1 - alpha/2),
		constant:  constant,
	}, nil
}

func (f *FisherZ) Tests() int { return f.tests }

func (f *FisherZ) Independent(i, j int, cond []int) (bool, error) {
	f.tests++

	if f.constant[i] || f.constant[j] {
		return true, nil
	}

	df := f.n - len(cond) - 3
	if df <= 0 {
		// Insufficient sample for this conditioning size: assume
		// dependence rather than deleting edges on no evidence.
		return false, nil
	}

	r, err := f.partialCorrelation(i, j, cond)
	if err != nil {
		return false, err
	}

	// Clamp away from ±1 so the transform stays finite.
	const lim = 1 - 1e-10
	if r > lim {
		r = lim
	} else if r < -lim {
		r = -lim
	}

	z := 0.5 * math.Log((1+r)/(1-r))
	statVal := math.Sqrt(float64(df)) * math.Abs(z)

	return statVal < f.threshold, nil
}

// partialCorrelation inverts the correlation submatrix over
// {i, j} ∪ cond and reads the partial correlation off the precision.
func (f *FisherZ) partialCorrelation(i, j int, cond []int) (float64, error) {
	if len(cond) == 0 {
		return f.corr.At(i, j), nil
	}

	idx := make([]int, 0, 2+len(cond))
	idx = append(idx, i, j)
	idx = append(idx, cond...)

	k := len(idx)
	sub := mat.NewDense(k, k, nil)
	for a := 0; a < k; a++ {
		for b := 0; b < k; b++ {
			sub.Set(a, b, f.corr.At(idx[a], idx[b]))
		}
	}

	var prec mat.Dense
	if err := prec.Inverse(sub); err != nil {
		// Singular submatrix: collinear conditioning set screens the
		// pair off completely.
		return 0, nil
	}

	den := math.Sqrt(prec.At(0, 0) * prec.At(1, 1))
	if den == 0 {
		return 0, nil
	}
	return -prec.At(0, 1) / den, nil
}
