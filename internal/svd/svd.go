// Package svd implements the truncated SVD engine: Lanczos
// bidiagonalisation on the smaller of AᵀA or AAᵀ, with full double
// reorthogonalisation, a dense symmetric eigensolve of the resulting
// tridiagonal matrix, recovery of the singular vectors through the
// original sparse operator, and post-hoc sequential orthonormalisation.
package svd

import (
	"errors"
	"math"
	"math/rand"

	"github.com/mcjwsn/semindex/internal/sparse"
	"gonum.org/v1/gonum/mat"
)

// ErrNoSignificantSingularValues is returned when, after filtering,
// no singular value exceeds the tolerance (spec.md §7, SvdDegenerate).
var ErrNoSignificantSingularValues = errors.New("svd: no singular value exceeds tolerance")

// lanczosState models the outer-loop state machine: Initialising,
// Expanding, Converged, Degenerate.
type lanczosState int

const (
	stateInitialising lanczosState = iota
	stateExpanding
	stateConverged
	stateDegenerate
)

func (s lanczosState) String() string {
	switch s {
	case stateInitialising:
		return "initialising"
	case stateExpanding:
		return "expanding"
	case stateConverged:
		return "converged"
	case stateDegenerate:
		return "degenerate"
	default:
		return "unknown"
	}
}

// StateObserver is notified on every Lanczos state transition, with
// the 1-indexed step number at which the transition occurred (0 for
// the Initialising and Expanding transitions made before the first
// step). Tests
// use this to assert on the state machine directly; production
// callers may use it to emit a debug log line.
type StateObserver func(state string, step int)

// Warnf receives formatted warnings for degenerate conditions
// (negative eigenvalues clamped to zero, near-zero-σ vectors zeroed).
// Callers that want these surfaced as structured log lines should pass
// a function that forwards to internal/xlog; without a WithWarnf
// option they are discarded.
type Warnf func(format string, args ...any)

type config struct {
	rnd     *rand.Rand
	observe StateObserver
	warn    Warnf
}

// Option configures Truncate.
type Option func(*config)

// WithRandSource injects a deterministic random source for the
// initial Lanczos vector, overriding the default process-global
// source. Tests use this for reproducible runs.
func WithRandSource(r *rand.Rand) Option {
	return func(c *config) { c.rnd = r }
}

// WithStateObserver registers a callback invoked on every lanczosState
// transition.
func WithStateObserver(f StateObserver) Option {
	return func(c *config) { c.observe = f }
}

// WithWarnf registers a callback invoked for degenerate-but-recoverable
// conditions during recovery (negative eigenvalues, near-zero sigma).
func WithWarnf(f Warnf) Option {
	return func(c *config) { c.warn = f }
}

func defaultConfig() *config {
	return &config{
		rnd:  rand.New(rand.NewSource(1)),
		warn: func(string, ...any) {},
	}
}

// Triplet is a truncated SVD (Uₖ, Σₖ, Vₖᵀ): Uₖ has orthonormal columns
// (V×k′), Sigma is non-increasing and non-negative (length k′), Vt has
// orthonormal rows (k′×N).
type Triplet struct {
	Rank  int // k', the number of surviving singular values
	Sigma []float64
	U     *mat.Dense // V x k'
	Vt    *mat.Dense // k' x N
}

// Truncate computes the k-truncated SVD of A using Lanczos
// bidiagonalisation, per spec.md §4.5.
func Truncate(A *sparse.CSC, k, maxIter int, tol float64, opts ...Option) (*Triplet, error) {
	rows, cols := A.Dims()
	cfg := defaultConfig()
	for _, o := range opts {
		o(cfg)
	}

	onRows := cols > rows // true => operate on M = AAᵀ (dim = rows)
	d := cols
	if onRows {
		d = rows
	}
	if k > d {
		k = d
	}
	if d == 0 || k <= 0 {
		return nil, ErrNoSignificantSingularValues
	}

	m := k * 2
	if d < m {
		m = d
	}
	if maxIter < m {
		m = maxIter
	}
	if m < 1 {
		m = 1
	}

	alphas, betas, qs, _ := lanczos(A, onRows, d, m, tol, cfg)

	mEff := len(alphas)
	eigvals, eigvecs := tridiagEigen(alphas, betas)

	// eigvals ascending from gonum; we want the top k by value, descending.
	type pair struct {
		val float64
		idx int
	}
	pairs := make([]pair, mEff)
	for i, v := range eigvals {
		pairs[i] = pair{v, i}
	}
	for i := 0; i < len(pairs); i++ {
		for j := i + 1; j < len(pairs); j++ {
			if pairs[j].val > pairs[i].val {
				pairs[i], pairs[j] = pairs[j], pairs[i]
			}
		}
	}
	if k > len(pairs) {
		k = len(pairs)
	}
	top := pairs[:k]

	sigma := make([]float64, 0, k)
	thetas := make([][]float64, 0, k)
	for _, p := range top {
		lambda := p.val
		if lambda < -tol {
			cfg.warn("svd: negative eigenvalue %.6g clamped to zero singular value", lambda)
			sigma = append(sigma, 0)
		} else {
			sigma = append(sigma, math.Sqrt(math.Max(lambda, 0)))
		}
		col := make([]float64, mEff)
		for r := 0; r < mEff; r++ {
			col[r] = eigvecs.At(r, p.idx)
		}
		thetas = append(thetas, col)
	}

	uCols, vCols := recoverVectors(A, onRows, qs, thetas, sigma, tol, cfg)

	uCols, vCols = filterBySignificance(uCols, vCols, &sigma, tol)
	if len(sigma) == 0 {
		return nil, ErrNoSignificantSingularValues
	}

	orthonormalizeColumns(uCols)
	orthonormalizeColumns(vCols)

	kPrime := len(sigma)
	U := mat.NewDense(rows, kPrime, nil)
	for j, col := range uCols {
		for i, val := range col {
			U.Set(i, j, val)
		}
	}
	Vt := mat.NewDense(kPrime, cols, nil)
	for j, col := range vCols {
		for i, val := range col {
			Vt.Set(j, i, val)
		}
	}

	return &Triplet{Rank: kPrime, Sigma: sigma, U: U, Vt: Vt}, nil
}

// lanczos runs the bidiagonalisation loop and returns the tridiagonal
// coefficients, the generated orthonormal basis, and the final state.
func lanczos(A *sparse.CSC, onRows bool, d, m int, tol float64, cfg *config) (alphas, betas []float64, qs [][]float64, final lanczosState) {
	q0 := randomUnitVector(cfg.rnd, d)
	qs = [][]float64{q0}
	notify(cfg, stateInitialising, 0)

	state := stateExpanding
	notify(cfg, state, 0)

	for i := 0; i < m; i++ {
		v := applyM(A, onRows, qs[i])

		reorthogonalize(v, qs)
		reorthogonalize(v, qs)

		alpha := dot(v, qs[i])
		for idx := range v {
			v[idx] -= alpha * qs[i][idx]
		}
		if i > 0 {
			betaI := betas[i-1]
			qPrev := qs[i-1]
			for idx := range v {
				v[idx] -= betaI * qPrev[idx]
			}
		}
		alphas = append(alphas, alpha)

		reorthogonalize(v, qs)
		reorthogonalize(v, qs)

		beta := norm(v)
		if math.IsNaN(beta) || math.IsInf(beta, 0) || beta < tol {
			state = stateDegenerate
			notify(cfg, state, i+1)
			final = state
			return alphas, betas, qs, final
		}
		betas = append(betas, beta)
		for idx := range v {
			v[idx] /= beta
		}
		qs = append(qs, v)

		if i == m-1 {
			state = stateConverged
			notify(cfg, state, i+1)
		}
	}
	final = state
	return alphas, betas, qs, final
}

func notify(cfg *config, state lanczosState, step int) {
	if cfg.observe != nil {
		cfg.observe(state.String(), step)
	}
}

func applyM(A *sparse.CSC, onRows bool, x []float64) []float64 {
	if onRows {
		return A.Av(A.Atv(x)) // M = AAᵀ
	}
	return A.Atv(A.Av(x)) // M = AᵀA
}

func reorthogonalize(v []float64, qs [][]float64) {
	for _, q := range qs {
		p := dot(v, q)
		for idx := range v {
			v[idx] -= p * q[idx]
		}
	}
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func norm(a []float64) float64 {
	return math.Sqrt(dot(a, a))
}

func randomUnitVector(r *rand.Rand, n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = r.Float64() - 0.5
	}
	nrm := norm(v)
	if nrm == 0 {
		v[0] = 1
		return v
	}
	for i := range v {
		v[i] /= nrm
	}
	return v
}

// tridiagEigen builds the symmetric tridiagonal matrix with alphas on
// the diagonal and betas on the off-diagonals, and solves its
// eigenproblem densely via gonum.
func tridiagEigen(alphas, betas []float64) ([]float64, mat.Matrix) {
	n := len(alphas)
	data := make([]float64, n*n)
	for i := 0; i < n; i++ {
		data[i*n+i] = alphas[i]
	}
	for i := 0; i < n-1; i++ {
		data[i*n+(i+1)] = betas[i]
		data[(i+1)*n+i] = betas[i]
	}
	sym := mat.NewSymDense(n, data)

	var eig mat.EigenSym
	ok := eig.Factorize(sym, true)
	if !ok {
		// A degenerate (e.g. 1x1) matrix always factorizes; this path
		// only guards against an unexpected LAPACK failure.
		return []float64{alphas[0]}, mat.NewDense(1, 1, []float64{1})
	}
	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	return eig.Values(nil), &vecs
}

func recoverVectors(A *sparse.CSC, onRows bool, qs [][]float64, thetas [][]float64, sigma []float64, tol float64, cfg *config) (uCols, vCols [][]float64) {
	rows, cols := A.Dims()
	uCols = make([][]float64, len(thetas))
	vCols = make([][]float64, len(thetas))

	for j, theta := range thetas {
		s := sigma[j]
		if s <= 10*tol {
			cfg.warn("svd: near-zero singular value %.6g yields a zero vector", s)
			uCols[j] = make([]float64, rows)
			vCols[j] = make([]float64, cols)
			continue
		}

		combo := make([]float64, len(qs[0]))
		for i, th := range theta {
			q := qs[i]
			for idx := range combo {
				combo[idx] += q[idx] * th
			}
		}

		if onRows {
			// combo lives in R^rows: it IS u (pre-normalisation).
			u := combo
			v := A.Atv(u)
			for idx := range v {
				v[idx] /= s
			}
			uCols[j] = u
			vCols[j] = v
		} else {
			// combo lives in R^cols: it IS v (pre-normalisation).
			v := combo
			u := A.Av(v)
			for idx := range u {
				u[idx] /= s
			}
			uCols[j] = u
			vCols[j] = v
		}
	}
	return uCols, vCols
}

// filterBySignificance drops triplets whose singular value does not
// exceed tol, compacting sigma/uCols/vCols in place.
func filterBySignificance(uCols, vCols [][]float64, sigma *[]float64, tol float64) ([][]float64, [][]float64) {
	keptU := uCols[:0]
	keptV := vCols[:0]
	keptSigma := (*sigma)[:0]
	for i, s := range *sigma {
		if s > tol {
			keptU = append(keptU, uCols[i])
			keptV = append(keptV, vCols[i])
			keptSigma = append(keptSigma, s)
		}
	}
	*sigma = keptSigma
	return keptU, keptV
}

// orthonormalizeColumns sequentially orthogonalises each vector
// against all previous ones (modified Gram-Schmidt) and normalises,
// guarding against loss of orthogonality from the Lanczos recovery
// step.
func orthonormalizeColumns(cols [][]float64) {
	for i, v := range cols {
		for j := 0; j < i; j++ {
			p := dot(v, cols[j])
			for idx := range v {
				v[idx] -= p * cols[j][idx]
			}
		}
		n := norm(v)
		if n > 1e-12 {
			for idx := range v {
				v[idx] /= n
			}
		}
	}
}
