// Package solver runs the fixed-length conjugate gradient inner loop of the
// CG benchmark on a worker team.
package solver

import (
	"context"
	"math"

	"github.com/iyisakuma/NPB-GO/NPB-CG/CG/matrix"
	"github.com/iyisakuma/NPB-GO/NPB-CG/CG/params"
	"github.com/iyisakuma/NPB-GO/NPB-CG/common"
	"gonum.org/v1/gonum/floats"
)

// BlockSize is the length of one reduction block. Dot products are summed in
// index order inside a block and block partials are added in block order,
// whatever the team size.
const BlockSize = 512

// Solver owns the CG work vectors for one matrix.
type Solver struct {
	a    *matrix.CRS
	team *common.Team

	n       int
	nblocks int

	x, z, p, q, r []float64

	// One partials buffer per reduction that can be in flight between two
	// barriers.
	dPart, rhoPart []float64
	zzPart         []float64
}

// New allocates a solver for a. The starting vector x is all ones.
func New(a *matrix.CRS, team *common.Team) *Solver {
	n := a.N
	nblocks := (n + BlockSize - 1) / BlockSize
	s := &Solver{
		a:       a,
		team:    team,
		n:       n,
		nblocks: nblocks,
		x:       make([]float64, n),
		z:       make([]float64, n),
		p:       make([]float64, n),
		q:       make([]float64, n),
		r:       make([]float64, n),
		dPart:   make([]float64, nblocks),
		rhoPart: make([]float64, nblocks),
		zzPart:  make([]float64, nblocks),
	}
	s.Reset()
	return s
}

// Reset sets x to (1, 1, ..., 1) and clears the other vectors.
func (s *Solver) Reset() {
	for i := range s.x {
		s.x[i] = 1.0
	}
	clear(s.z)
	clear(s.p)
	clear(s.q)
	clear(s.r)
}

// X returns the current eigenvector estimate. The slice aliases the solver.
func (s *Solver) X() []float64 { return s.x }

// Z returns the result of the last ConjGrad. The slice aliases the solver.
func (s *Solver) Z() []float64 { return s.z }

// N returns the order of the system.
func (s *Solver) N() int { return s.n }

// indices converts a span of blocks into the vector range it covers.
func (s *Solver) indices(b common.Span) (lo, hi int) {
	lo = min(b.Lo*BlockSize, s.n)
	hi = min(b.Hi*BlockSize, s.n)
	return lo, hi
}

func (s *Solver) blockRange(b int) (lo, hi int) {
	return b * BlockSize, min((b+1)*BlockSize, s.n)
}

// fold adds block partials in block order.
func fold(part []float64) float64 {
	sum := 0.0
	for _, v := range part {
		sum += v
	}
	return sum
}

// rowDot returns row j of A times v.
func (s *Solver) rowDot(j int, v []float64) float64 {
	sum := 0.0
	for k := s.a.RowStart[j]; k < s.a.RowStart[j+1]; k++ {
		sum += s.a.Values[k] * v[s.a.ColIndex[k]]
	}
	return sum
}

// ConjGrad runs CGITMAX conjugate gradient steps on A z = x starting from
// z = 0, then returns rnorm = ||x - A z||.
func (s *Solver) ConjGrad(ctx context.Context) (float64, error) {
	var rnorm float64

	err := s.team.Run(ctx, func(w *common.Worker) error {
		own := w.Span(s.nblocks)
		lo, hi := s.indices(own)

		// Initialize the CG algorithm
		for i := lo; i < hi; i++ {
			s.q[i] = 0.0
			s.z[i] = 0.0
			s.r[i] = s.x[i]
			s.p[i] = s.r[i]
		}

		// rho = r.r
		for b := own.Lo; b < own.Hi; b++ {
			blo, bhi := s.blockRange(b)
			sum := 0.0
			for i := blo; i < bhi; i++ {
				sum += s.r[i] * s.r[i]
			}
			s.rhoPart[b] = sum
		}
		if err := w.Sync(); err != nil {
			return err
		}
		rho := fold(s.rhoPart)

		for cgit := 1; cgit <= params.CGITMAX; cgit++ {
			// q = A.p and d = p.q on the owned rows
			for b := own.Lo; b < own.Hi; b++ {
				blo, bhi := s.blockRange(b)
				sum := 0.0
				for j := blo; j < bhi; j++ {
					s.q[j] = s.rowDot(j, s.p)
					sum += s.p[j] * s.q[j]
				}
				s.dPart[b] = sum
			}
			if err := w.Sync(); err != nil {
				return err
			}
			d := fold(s.dPart)

			alpha := 0.0
			if d != 0.0 {
				alpha = rho / d
			}
			rho0 := rho

			// z = z + alpha*p and r = r - alpha*q
			floats.AddScaled(s.z[lo:hi], alpha, s.p[lo:hi])
			floats.AddScaled(s.r[lo:hi], -alpha, s.q[lo:hi])

			// rho = r.r
			for b := own.Lo; b < own.Hi; b++ {
				blo, bhi := s.blockRange(b)
				sum := 0.0
				for i := blo; i < bhi; i++ {
					sum += s.r[i] * s.r[i]
				}
				s.rhoPart[b] = sum
			}
			if err := w.Sync(); err != nil {
				return err
			}
			rho = fold(s.rhoPart)

			beta := 0.0
			if rho0 != 0.0 {
				beta = rho / rho0
			}

			// p = r + beta*p
			floats.AddScaledTo(s.p[lo:hi], s.r[lo:hi], beta, s.p[lo:hi])
			if err := w.Sync(); err != nil {
				return err
			}
		}

		// r = A.z and ||x - r||^2 on the owned rows
		for b := own.Lo; b < own.Hi; b++ {
			blo, bhi := s.blockRange(b)
			sum := 0.0
			for j := blo; j < bhi; j++ {
				s.r[j] = s.rowDot(j, s.z)
				e := s.x[j] - s.r[j]
				sum += e * e
			}
			s.dPart[b] = sum
		}
		if err := w.Sync(); err != nil {
			return err
		}
		if w.ID == 0 {
			rnorm = math.Sqrt(fold(s.dPart))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return rnorm, nil
}

// Norms returns x.z and z.z.
func (s *Solver) Norms(ctx context.Context) (xz, zz float64, err error) {
	err = s.team.Run(ctx, func(w *common.Worker) error {
		own := w.Span(s.nblocks)
		for b := own.Lo; b < own.Hi; b++ {
			blo, bhi := s.blockRange(b)
			sxz, szz := 0.0, 0.0
			for j := blo; j < bhi; j++ {
				sxz += s.x[j] * s.z[j]
				szz += s.z[j] * s.z[j]
			}
			s.dPart[b] = sxz
			s.zzPart[b] = szz
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return fold(s.dPart), fold(s.zzPart), nil
}

// Normalize sets x = factor * z.
func (s *Solver) Normalize(ctx context.Context, factor float64) error {
	return s.team.ParallelFor(ctx, s.n, func(sp common.Span) {
		floats.ScaleTo(s.x[sp.Lo:sp.Hi], factor, s.z[sp.Lo:sp.Hi])
	})
}
