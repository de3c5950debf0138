package matrix

import (
	"context"
	"fmt"

	"github.com/iyisakuma/NPB-GO/NPB-CG/CG/params"
	"github.com/iyisakuma/NPB-GO/NPB-CG/common"
)

// Seed and multiplier of the CG matrix generator.
const (
	TRAN  = 314159265.0
	AMULT = 1220703125.0
)

// nn1 is the smallest power of two not less than n, doubling at least once.
func powerOfTwoBound(n int) int {
	nn1 := 1
	for {
		nn1 *= 2
		if nn1 >= n {
			return nn1
		}
	}
}

// generateRows draws the nonzer random positions of every row and forces the
// diagonal entry to 0.5. g is advanced past every draw.
func generateRows(g *common.Generator, n, nonzer int) *rowList {
	rows := newRowList(n, nonzer)
	nn1 := powerOfTwoBound(n)

	ivc := make([]int, nonzer+1)
	vc := make([]float64, nonzer+1)
	for iouter := 0; iouter < n; iouter++ {
		nzv := sprnvc(g, n, nonzer, nn1, vc, ivc)
		nzv = vecset(vc, ivc, nzv, iouter+1, 0.5)

		rows.count[iouter] = nzv
		cols, vals := rows.row(iouter)
		for ivelt := 0; ivelt < nzv; ivelt++ {
			cols[ivelt] = ivc[ivelt] - 1
			vals[ivelt] = vc[ivelt]
		}
	}
	return rows
}

// Make generates the symmetric sparse matrix A of class c on team.
func Make(ctx context.Context, team *common.Team, c params.Class) (*CRS, error) {
	if c.NA <= 0 || c.NONZER <= 0 || c.NONZER > c.NA {
		return nil, fmt.Errorf("%w: na=%d nonzer=%d", ErrInvalidParams, c.NA, c.NONZER)
	}

	// The benchmark draws once before generating the matrix.
	g := common.NewGenerator(TRAN, AMULT).Skip(1)
	rows := generateRows(&g, c.NA, c.NONZER)

	return sparse(ctx, team, rows, c.NZ(), c.RCOND, c.SHIFT)
}
