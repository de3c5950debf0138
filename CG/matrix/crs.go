package matrix

import (
	"fmt"
	"slices"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// CRS is a square sparse matrix in compressed row storage. Row i occupies
// ColIndex[RowStart[i]:RowStart[i+1]] and the same range of Values, with
// strictly increasing column indices.
type CRS struct {
	N        int
	RowStart []int
	ColIndex []int
	Values   []float64
}

// NNZ returns the number of stored entries.
func (m *CRS) NNZ() int {
	return m.RowStart[m.N]
}

// Row returns the column indices and values of row i. The slices alias the
// matrix storage.
func (m *CRS) Row(i int) ([]int, []float64) {
	lo, hi := m.RowStart[i], m.RowStart[i+1]
	return m.ColIndex[lo:hi], m.Values[lo:hi]
}

// At returns entry (i, j) and whether it is stored.
func (m *CRS) At(i, j int) (float64, bool) {
	cols, vals := m.Row(i)
	k := sort.SearchInts(cols, j)
	if k < len(cols) && cols[k] == j {
		return vals[k], true
	}
	return 0, false
}

// Validate checks the CRS invariants: RowStart starts at 0 and never
// decreases, every column lies in [0, N) and columns are strictly increasing
// within a row.
func (m *CRS) Validate() error {
	if m.N <= 0 {
		return fmt.Errorf("%w: order %d", ErrMalformed, m.N)
	}
	if len(m.RowStart) != m.N+1 {
		return fmt.Errorf("%w: len(RowStart) = %d, want %d", ErrMalformed, len(m.RowStart), m.N+1)
	}
	if m.RowStart[0] != 0 {
		return fmt.Errorf("%w: RowStart[0] = %d", ErrMalformed, m.RowStart[0])
	}
	for j := 0; j < m.N; j++ {
		if m.RowStart[j+1] < m.RowStart[j] {
			return fmt.Errorf("%w: RowStart[%d] = %d < RowStart[%d] = %d",
				ErrMalformed, j+1, m.RowStart[j+1], j, m.RowStart[j])
		}
	}
	if nnz := m.NNZ(); nnz > len(m.ColIndex) || nnz > len(m.Values) {
		return fmt.Errorf("%w: %d entries but storage for %d/%d",
			ErrMalformed, nnz, len(m.ColIndex), len(m.Values))
	}
	for j := 0; j < m.N; j++ {
		cols, _ := m.Row(j)
		for k, c := range cols {
			if c < 0 || c >= m.N {
				return fmt.Errorf("%w: row %d column %d out of range", ErrMalformed, j, c)
			}
			if k > 0 && cols[k-1] >= c {
				return fmt.Errorf("%w: row %d columns %d, %d not strictly increasing",
					ErrMalformed, j, cols[k-1], c)
			}
		}
	}
	return nil
}

// Equal reports whether m and o store bit-identical matrices.
func (m *CRS) Equal(o *CRS) bool {
	if m.N != o.N || !slices.Equal(m.RowStart, o.RowStart) {
		return false
	}
	nnz := m.NNZ()
	return slices.Equal(m.ColIndex[:nnz], o.ColIndex[:nnz]) &&
		slices.Equal(m.Values[:nnz], o.Values[:nnz])
}

// MulVec computes dst = m * x sequentially, row by row.
func (m *CRS) MulVec(dst, x []float64) {
	for j := 0; j < m.N; j++ {
		sum := 0.0
		for k := m.RowStart[j]; k < m.RowStart[j+1]; k++ {
			sum += m.Values[k] * x[m.ColIndex[k]]
		}
		dst[j] = sum
	}
}

// Dense expands m into a gonum dense matrix. Only meant for small orders.
func (m *CRS) Dense() *mat.Dense {
	d := mat.NewDense(m.N, m.N, nil)
	for i := 0; i < m.N; i++ {
		cols, vals := m.Row(i)
		for k, j := range cols {
			d.Set(i, j, vals[k])
		}
	}
	return d
}
