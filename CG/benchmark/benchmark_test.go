package benchmark

import (
	"bytes"
	"context"
	"testing"

	"github.com/iyisakuma/NPB-GO/NPB-CG/CG/params"
	"github.com/iyisakuma/NPB-GO/NPB-CG/common"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

func lookup(t testing.TB, name string) params.Class {
	t.Helper()
	c, err := params.Lookup(name)
	require.NoError(t, err)
	return c
}

func run(t testing.TB, c params.Class, threads int) *Result {
	t.Helper()
	b, err := New(Options{Class: c, Threads: threads})
	require.NoError(t, err)
	res, err := b.Run(context.Background())
	require.NoError(t, err)
	return res
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name      string
		zeta, ref float64
		want      bool
	}{
		{"exact", 8.5971775078648, 8.5971775078648, true},
		{"within tolerance", 8.5971775078648 * (1 + 5e-11), 8.5971775078648, true},
		{"outside tolerance", 8.5971775078648 * (1 + 1e-9), 8.5971775078648, false},
		{"far off", 1.0, 8.5971775078648, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, relErr := Verify(tt.zeta, tt.ref)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, relErr, 0.0)
		})
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "uninitialized", Uninitialized.String())
	assert.Equal(t, "timed", Timed.String())
	assert.Equal(t, "reported", Reported.String())
	assert.Equal(t, "State(42)", State(42).String())
}

func TestNewRejectsInvalidThreads(t *testing.T) {
	_, err := New(Options{Class: lookup(t, "S"), Threads: 0})
	assert.ErrorIs(t, err, common.ErrInvalidTeamSize)
}

/*
 * TestReferenceClasses
 *
 * O que testa:
 *   Execução completa das classes S, W e A contra o zeta de referência.
 *   W e A são puladas com -short.
 */
func TestReferenceClasses(t *testing.T) {
	for _, name := range []string{"S", "W", "A"} {
		t.Run(name, func(t *testing.T) {
			if name != "S" && testing.Short() {
				t.Skip("skipping class " + name + " in short mode")
			}
			c := lookup(t, name)
			res := run(t, c, 4)

			assert.True(t, res.Verified, "zeta = %.13e", res.Zeta)
			assert.InEpsilon(t, c.ZETA_VERIFY_VALUE, res.Zeta, Epsilon)
			assert.Len(t, res.History, c.NITER)
			assert.Equal(t, res.Zeta, res.History[c.NITER-1].Zeta)
		})
	}
}

func TestClassSThreadInvariant(t *testing.T) {
	c := lookup(t, "S")
	ref := run(t, c, 1)
	for _, threads := range []int{2, 4, 8} {
		res := run(t, c, threads)
		assert.Equal(t, ref.History, res.History, "threads=%d", threads)
		assert.Equal(t, ref.Zeta, res.Zeta, "threads=%d", threads)
		assert.Equal(t, ref.NNZ, res.NNZ, "threads=%d", threads)
	}
}

type BenchmarkSuite struct {
	suite.Suite
	class params.Class
}

func TestBenchmarkSuite(t *testing.T) {
	suite.Run(t, new(BenchmarkSuite))
}

func (s *BenchmarkSuite) SetupTest() {
	s.class = lookup(s.T(), "S")
}

func (s *BenchmarkSuite) newBenchmark(out *bytes.Buffer, timers bool) (*Benchmark, *logtest.Hook) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	b, err := New(Options{
		Class:   s.class,
		Threads: 2,
		Timers:  timers,
		Out:     out,
		Log:     logger.WithField("benchmark", "CG"),
	})
	s.Require().NoError(err)
	return b, hook
}

func (s *BenchmarkSuite) TestRunWalksStates() {
	var out bytes.Buffer
	b, hook := s.newBenchmark(&out, false)
	s.Equal(Uninitialized, b.State())

	res, err := b.Run(context.Background())
	s.Require().NoError(err)
	s.Equal(Verified, b.State())
	s.NotNil(b.Matrix())

	var states []string
	for _, e := range hook.AllEntries() {
		if e.Message == "state transition" {
			states = append(states, e.Data["state"].(State).String())
		}
	}
	s.Equal([]string{"matrix-built", "warmup", "reset", "timed", "verified"}, states)

	var iterations int
	for _, e := range hook.AllEntries() {
		if e.Message == "iteration" {
			iterations++
			s.Equal(logrus.DebugLevel, e.Level)
		}
	}
	s.Equal(s.class.NITER, iterations)

	var report bytes.Buffer
	b.Report(&report, res)
	s.Equal(Reported, b.State())
	s.Contains(report.String(), "CG Benchmark Completed")
	s.Contains(report.String(), "SUCCESSFUL")
	s.NotContains(report.String(), "SECTION")
}

func (s *BenchmarkSuite) TestProgressOutput() {
	var out bytes.Buffer
	b, _ := s.newBenchmark(&out, false)
	_, err := b.Run(context.Background())
	s.Require().NoError(err)

	text := out.String()
	s.Contains(text, " Size:        1400\n")
	s.Contains(text, " Iterations:    15\n")
	s.Contains(text, " Class: S\n")
	s.Contains(text, " Number of threads: 2\n")
	s.Contains(text, " Initialization time = ")
	s.Contains(text, "   iteration           ||r||                 zeta\n")
	s.Contains(text, " VERIFICATION SUCCESSFUL\n")
}

func (s *BenchmarkSuite) TestRunTwiceFails() {
	b, _ := s.newBenchmark(&bytes.Buffer{}, false)
	_, err := b.Run(context.Background())
	s.Require().NoError(err)
	_, err = b.Run(context.Background())
	s.Error(err)
}

func (s *BenchmarkSuite) TestVerificationFailureIsNotAnError() {
	s.class.ZETA_VERIFY_VALUE = 9.0
	var out bytes.Buffer
	b, hook := s.newBenchmark(&out, false)

	res, err := b.Run(context.Background())
	s.Require().NoError(err)
	s.False(res.Verified)
	s.Contains(out.String(), " VERIFICATION FAILED\n")
	s.Contains(out.String(), " The correct zeta is ")

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Message == "verification failed" {
			warned = true
		}
	}
	s.True(warned)

	var report bytes.Buffer
	b.Report(&report, res)
	s.Contains(report.String(), "UNSUCCESSFUL")
}

func (s *BenchmarkSuite) TestTimers() {
	b, _ := s.newBenchmark(&bytes.Buffer{}, true)
	res, err := b.Run(context.Background())
	s.Require().NoError(err)

	s.Len(res.Timers, common.T_LAST)
	s.Greater(res.Timers["benchmk"], 0.0)
	s.LessOrEqual(res.Timers["conjgd"], res.Timers["benchmk"])

	var report bytes.Buffer
	b.Report(&report, res)
	s.Contains(report.String(), "  SECTION   Time (secs)\n")
	s.Contains(report.String(), "    -->     rest:")
}

func (s *BenchmarkSuite) TestYAMLReport() {
	b, _ := s.newBenchmark(&bytes.Buffer{}, false)
	res, err := b.Run(context.Background())
	s.Require().NoError(err)

	var buf bytes.Buffer
	s.Require().NoError(b.ReportYAML(&buf, res))
	s.Equal(Reported, b.State())

	var back Result
	s.Require().NoError(yaml.Unmarshal(buf.Bytes(), &back))
	s.Equal("CG", back.Benchmark)
	s.Equal("S", back.Class)
	s.Equal(res.Verified, back.Verified)
	s.Equal(res.Zeta, back.Zeta)
	s.Equal(res.History, back.History)
	s.Nil(back.Timers)
}

func (s *BenchmarkSuite) TestCancelled() {
	b, _ := s.newBenchmark(&bytes.Buffer{}, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := b.Run(ctx)
	s.ErrorIs(err, context.Canceled)
}

func (s *BenchmarkSuite) TestDeterministic() {
	first := run(s.T(), s.class, 3)
	second := run(s.T(), s.class, 3)
	s.Equal(first.History, second.History)
}
