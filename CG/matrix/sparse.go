package matrix

import (
	"context"
	"fmt"
	"math"

	"github.com/iyisakuma/NPB-GO/NPB-CG/common"
)

// rowList holds the generated sparse rows before assembly: row i has
// count[i] entries stored at col/val[i*stride:]. Columns are 0-based.
type rowList struct {
	n      int
	stride int
	count  []int
	col    []int
	val    []float64
}

func newRowList(n, nonzer int) *rowList {
	stride := nonzer + 1
	return &rowList{
		n:      n,
		stride: stride,
		count:  make([]int, n),
		col:    make([]int, n*stride),
		val:    make([]float64, n*stride),
	}
}

func (l *rowList) row(i int) ([]int, []float64) {
	off := i * l.stride
	return l.col[off : off+l.count[i]], l.val[off : off+l.count[i]]
}

// insertSorted adds va at column jcol of one destination row slice. Unused
// slots hold -1 and always trail the occupied ones. The row stays sorted:
// an empty slot is filled, a matching column is summed (dup), and a larger
// column shifts the occupied tail right by one to make room. ok is false
// when none of the three cases applies.
func insertSorted(cols []int, vals []float64, jcol int, va float64) (dup, ok bool) {
	for k := range cols {
		switch {
		case cols[k] > jcol:
			// Insert colidx here orderly
			for kk := len(cols) - 2; kk >= k; kk-- {
				if cols[kk] > -1 {
					vals[kk+1] = vals[kk]
					cols[kk+1] = cols[kk]
				}
			}
			cols[k] = jcol
			vals[k] = 0.0
			vals[k] += va
			return false, true
		case cols[k] == -1:
			cols[k] = jcol
			vals[k] += va
			return false, true
		case cols[k] == jcol:
			vals[k] += va
			return true, true
		}
	}
	return false, false
}

// sparse assembles the CRS matrix from the generated rows. Every generated
// row i contributes the outer product of its values, scaled by ratio^i, to
// the rows named by its columns; rcond - shift is added on the diagonal
// entry generated by row i itself. Duplicates are summed.
//
// Work is split by destination row: each worker owns a contiguous range of
// rows and is the only writer of their counts, slots and duplicate totals.
// Contributions reach every row in the same order as a sequential pass, so
// the result does not depend on the team size.
func sparse(ctx context.Context, team *common.Team, rows *rowList, nz int, rcond, shift float64) (*CRS, error) {
	n := rows.n
	nrows := n

	rowstr := make([]int, nrows+1)
	nzloc := make([]int, nrows)
	ratio := math.Pow(rcond, 1.0/float64(n))

	var (
		a, outA           []float64
		colidx, outColidx []int
		final             []int
	)

	err := team.Run(ctx, func(w *common.Worker) error {
		own := w.Span(nrows)

		// Count the number of triples in each row
		for i := 0; i < n; i++ {
			cols, _ := rows.row(i)
			for _, j := range cols {
				if j >= own.Lo && j < own.Hi {
					rowstr[j+1] += len(cols)
				}
			}
		}
		if err := w.Sync(); err != nil {
			return err
		}

		if w.ID == 0 {
			rowstr[0] = 0
			for j := 1; j < nrows+1; j++ {
				rowstr[j] += rowstr[j-1]
			}
			if nza := rowstr[nrows]; nza > nz {
				return fmt.Errorf("%w: nza, nzmax = %d, %d", ErrCapacityExceeded, nza, nz)
			}
			a = make([]float64, rowstr[nrows])
			colidx = make([]int, rowstr[nrows])
		}
		if err := w.Sync(); err != nil {
			return err
		}

		// Preload data pages
		for j := own.Lo; j < own.Hi; j++ {
			for k := rowstr[j]; k < rowstr[j+1]; k++ {
				a[k] = 0.0
				colidx[k] = -1
			}
			nzloc[j] = 0
		}

		// Generate actual values by summing duplicates
		size := 1.0
		for i := 0; i < n; i++ {
			cols, vals := rows.row(i)
			for nza, j := range cols {
				if j < own.Lo || j >= own.Hi {
					continue
				}
				scale := size * vals[nza]
				for nzrow, jcol := range cols {
					va := vals[nzrow] * scale

					// Add the identity * rcond to the generated matrix
					if jcol == j && j == i {
						va = va + rcond - shift
					}

					lo, hi := rowstr[j], rowstr[j+1]
					dup, ok := insertSorted(colidx[lo:hi], a[lo:hi], jcol, va)
					if !ok {
						return fmt.Errorf("%w: i=%d", ErrInternal, i)
					}
					if dup {
						nzloc[j]++
					}
				}
			}
			size *= ratio
		}
		if err := w.Sync(); err != nil {
			return err
		}

		// Remove empty entries and generate final results
		if w.ID == 0 {
			for j := 1; j < nrows; j++ {
				nzloc[j] += nzloc[j-1]
			}
			final = make([]int, nrows+1)
			for j := 1; j < nrows+1; j++ {
				final[j] = rowstr[j] - nzloc[j-1]
			}
			outA = make([]float64, final[nrows])
			outColidx = make([]int, final[nrows])
		}
		if err := w.Sync(); err != nil {
			return err
		}

		for j := own.Lo; j < own.Hi; j++ {
			src := rowstr[j]
			for k := final[j]; k < final[j+1]; k++ {
				outA[k] = a[src]
				outColidx[k] = colidx[src]
				src++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &CRS{N: nrows, RowStart: final, ColIndex: outColidx, Values: outA}, nil
}
