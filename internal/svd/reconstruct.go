package svd

import (
	"github.com/mcjwsn/semindex/internal/sparse"
)

// reconstructThreshold is the default minimum absolute magnitude for
// an entry to survive reconstruction (spec.md §4.6).
const reconstructThreshold = 1e-10

// Reconstruct builds the sparse, L2-column-normalised rank-k
// approximation Aₖ = ΣⱼσⱼU[:,j]Vᵀ[j,:] from a truncated SVD triplet,
// dropping entries whose magnitude does not exceed threshold (pass 0
// or a negative value to use the spec default of 1e-10).
func Reconstruct(t *Triplet, threshold float64) *sparse.CSC {
	if threshold <= 0 {
		threshold = reconstructThreshold
	}
	rows, _ := t.U.Dims()
	_, cols := t.Vt.Dims()

	coo := sparse.NewCOO(rows, cols)
	for i := 0; i < rows; i++ {
		for d := 0; d < cols; d++ {
			var val float64
			for j := 0; j < t.Rank; j++ {
				val += t.Sigma[j] * t.U.At(i, j) * t.Vt.At(j, d)
			}
			if val > threshold || val < -threshold {
				coo.Add(i, d, val)
			}
		}
	}

	A := coo.ToCSC()
	for d := 0; d < cols; d++ {
		norm := A.ColumnNorm2(d)
		if norm == 0 {
			continue
		}
		A.ScaleColumn(d, 1/norm)
	}
	return A
}
