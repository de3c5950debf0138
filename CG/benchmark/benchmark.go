// Package benchmark drives the CG outer iterations: matrix generation, the
// untimed warm-up, the timed loop, verification and reporting.
package benchmark

import (
	"context"
	"fmt"
	"io"
	"math"
	"runtime"

	"github.com/iyisakuma/NPB-GO/NPB-CG/CG/matrix"
	"github.com/iyisakuma/NPB-GO/NPB-CG/CG/params"
	"github.com/iyisakuma/NPB-GO/NPB-CG/CG/solver"
	"github.com/iyisakuma/NPB-GO/NPB-CG/common"
	"github.com/sirupsen/logrus"
)

const (
	npbVersion = "4.1"
	opType     = "conjugate gradient"
)

// Options configures one benchmark run.
type Options struct {
	Class   params.Class
	Threads int
	// Timers enables the section timer breakdown in the report.
	Timers bool
	// Out receives the NPB progress lines. Nil discards them.
	Out io.Writer
	Log *logrus.Entry
}

// Benchmark runs the CG kernel for one class.
type Benchmark struct {
	class   params.Class
	threads int
	timeron bool
	out     io.Writer
	log     *logrus.Entry

	team   *common.Team
	timers common.Timers
	state  State

	a *matrix.CRS
	s *solver.Solver
}

// New validates opts and returns a benchmark in the Uninitialized state.
func New(opts Options) (*Benchmark, error) {
	team, err := common.NewTeam(opts.Threads)
	if err != nil {
		return nil, err
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	log := opts.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Benchmark{
		class:   opts.Class,
		threads: opts.Threads,
		timeron: opts.Timers,
		out:     out,
		log:     log,
		team:    team,
	}, nil
}

// State returns the current state.
func (b *Benchmark) State() State { return b.state }

// Matrix returns the assembled matrix, nil before Run.
func (b *Benchmark) Matrix() *matrix.CRS { return b.a }

func (b *Benchmark) enter(s State) {
	b.state = s
	b.log.WithField("state", s).Info("state transition")
}

// iterate performs one outer iteration: a CG solve, the zeta estimate and the
// normalization of z into the next x.
func (b *Benchmark) iterate(ctx context.Context, timed bool) (rnorm, zeta float64, err error) {
	if timed && b.timeron {
		b.timers.TimerStart(common.T_CONJ_GRAD)
	}
	rnorm, err = b.s.ConjGrad(ctx)
	if timed && b.timeron {
		b.timers.TimerStop(common.T_CONJ_GRAD)
	}
	if err != nil {
		return 0, 0, err
	}

	normTemp1, normTemp2, err := b.s.Norms(ctx)
	if err != nil {
		return 0, 0, err
	}
	normTemp2 = 1.0 / math.Sqrt(normTemp2)
	zeta = b.class.SHIFT + 1.0/normTemp1

	// Normalize z to obtain x
	if err := b.s.Normalize(ctx, normTemp2); err != nil {
		return 0, 0, err
	}
	return rnorm, zeta, nil
}

// Run executes the whole benchmark and returns its result. Verification
// failure is reported through Result.Verified, not as an error.
func (b *Benchmark) Run(ctx context.Context) (*Result, error) {
	if b.state != Uninitialized {
		return nil, fmt.Errorf("benchmark: Run called in state %s", b.state)
	}
	c := b.class

	for i := 0; i < common.T_LAST; i++ {
		b.timers.TimerClear(i)
	}
	b.timers.TimerStart(common.T_INIT)

	fmt.Fprintf(b.out, "\n\n NAS Parallel Benchmarks %s Go version - CG Benchmark\n\n", npbVersion)
	fmt.Fprintf(b.out, " Size: %11d\n", c.NA)
	fmt.Fprintf(b.out, " Iterations: %5d\n", c.NITER)
	fmt.Fprintf(b.out, " Class: %s\n", c.Name)
	fmt.Fprintf(b.out, " Number of threads: %d\n", b.threads)

	a, err := matrix.Make(ctx, b.team, c)
	if err != nil {
		return nil, fmt.Errorf("makea: %w", err)
	}
	b.a = a
	b.s = solver.New(a, b.team)
	b.enter(MatrixBuilt)
	b.log.WithFields(logrus.Fields{"n": a.N, "nonzeros": a.NNZ()}).Info("matrix built")

	// Do one iteration untimed to init all code and data page tables
	b.enter(Warmup)
	if _, _, err := b.iterate(ctx, false); err != nil {
		return nil, fmt.Errorf("warm-up: %w", err)
	}

	// Set starting vector to (1, 1, ..., 1)
	b.s.Reset()
	b.enter(Reset)

	b.timers.TimerStop(common.T_INIT)
	fmt.Fprintf(b.out, " Initialization time = %15.3f seconds\n", b.timers.TimerRead(common.T_INIT))
	b.log.WithField("seconds", b.timers.TimerRead(common.T_INIT)).Info("initialization done")

	b.enter(Timed)
	history := make([]Iteration, 0, c.NITER)
	var zeta float64

	b.timers.TimerStart(common.T_BENCH)
	for it := 1; it <= c.NITER; it++ {
		var rnorm float64
		rnorm, zeta, err = b.iterate(ctx, true)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", it, err)
		}
		history = append(history, Iteration{It: it, Rnorm: rnorm, Zeta: zeta})

		if it == 1 {
			fmt.Fprintf(b.out, "\n   iteration           ||r||                 zeta\n")
		}
		fmt.Fprintf(b.out, "    %5d       %20.14e%20.13e\n", it, rnorm, zeta)
		b.log.WithFields(logrus.Fields{"it": it, "rnorm": rnorm, "zeta": zeta}).Debug("iteration")
	}
	b.timers.TimerStop(common.T_BENCH)

	t := b.timers.TimerRead(common.T_BENCH)
	fmt.Fprintf(b.out, " Benchmark completed\n")

	verified, relErr := Verify(zeta, c.ZETA_VERIFY_VALUE)
	if verified {
		fmt.Fprintf(b.out, " VERIFICATION SUCCESSFUL\n")
		fmt.Fprintf(b.out, " Zeta is    %20.13e\n", zeta)
		fmt.Fprintf(b.out, " Error is   %20.13e\n", relErr)
	} else {
		fmt.Fprintf(b.out, " VERIFICATION FAILED\n")
		fmt.Fprintf(b.out, " Zeta                %20.13e\n", zeta)
		fmt.Fprintf(b.out, " The correct zeta is %20.13e\n", c.ZETA_VERIFY_VALUE)
		b.log.WithFields(logrus.Fields{
			"zeta":      zeta,
			"reference": c.ZETA_VERIFY_VALUE,
			"error":     relErr,
		}).Warn("verification failed")
	}
	b.enter(Verified)

	res := &Result{
		Benchmark:  "CG",
		Class:      c.Name,
		Size:       c.NA,
		NNZ:        a.NNZ(),
		Iterations: c.NITER,
		Threads:    b.threads,
		Seconds:    t,
		Mops:       c.Mops(t),
		Zeta:       zeta,
		Reference:  c.ZETA_VERIFY_VALUE,
		Error:      relErr,
		Verified:   verified,
		History:    history,
	}
	if b.timeron {
		res.Timers = make(map[string]float64, common.T_LAST)
		for i := 0; i < common.T_LAST; i++ {
			res.Timers[common.TimerNames[i]] = b.timers.TimerRead(i)
		}
	}
	b.log.WithFields(logrus.Fields{
		"seconds":  res.Seconds,
		"mops":     res.Mops,
		"verified": res.Verified,
	}).Info("benchmark completed")
	return res, nil
}

// Report writes the NPB result banner and, when timers are on, the section
// breakdown.
func (b *Benchmark) Report(w io.Writer, res *Result) {
	common.PrintResults(w, common.Results{
		Name:            res.Benchmark,
		Class:           res.Class,
		N1:              res.Size,
		Iterations:      res.Iterations,
		Seconds:         res.Seconds,
		Mops:            res.Mops,
		OpType:          opType,
		Verified:        res.Verified,
		NPBVersion:      npbVersion,
		CompileTime:     "Unknown",
		CompilerVersion: runtime.Version(),
		Threads:         res.Threads,
		Rand:            "randdp",
	})
	if b.timeron {
		b.printTimers(w)
	}
	b.enter(Reported)
}

// ReportYAML writes res as YAML.
func (b *Benchmark) ReportYAML(w io.Writer, res *Result) error {
	if err := res.WriteYAML(w); err != nil {
		return err
	}
	b.enter(Reported)
	return nil
}

func (b *Benchmark) printTimers(w io.Writer) {
	tmax := b.timers.TimerRead(common.T_BENCH)
	if tmax == 0.0 {
		tmax = 1.0
	}
	fmt.Fprintf(w, "  SECTION   Time (secs)\n")
	for i := 0; i < common.T_LAST; i++ {
		t := b.timers.TimerRead(i)
		if i == common.T_INIT {
			fmt.Fprintf(w, "  %8s:%9.3f\n", common.TimerNames[i], t)
			continue
		}
		fmt.Fprintf(w, "  %8s:%9.3f  (%6.2f%%)\n", common.TimerNames[i], t, t*100.0/tmax)
		if i == common.T_CONJ_GRAD {
			t = tmax - t
			fmt.Fprintf(w, "    --> %8s:%9.3f  (%6.2f%%)\n", "rest", t, t*100.0/tmax)
		}
	}
}
