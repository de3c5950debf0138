package benchmark

import (
	"io"
	"math"

	"gopkg.in/yaml.v3"
)

// Epsilon is the relative tolerance of the zeta verification.
const Epsilon = 1.0e-10

// Iteration is one line of the timed iteration table.
type Iteration struct {
	It    int     `yaml:"it"`
	Rnorm float64 `yaml:"rnorm"`
	Zeta  float64 `yaml:"zeta"`
}

// Result is what a finished run exposes to the reporting side.
type Result struct {
	Benchmark  string             `yaml:"benchmark"`
	Class      string             `yaml:"class"`
	Size       int                `yaml:"size"`
	NNZ        int                `yaml:"nonzeros"`
	Iterations int                `yaml:"iterations"`
	Threads    int                `yaml:"threads"`
	Seconds    float64            `yaml:"seconds"`
	Mops       float64            `yaml:"mops"`
	Zeta       float64            `yaml:"zeta"`
	Reference  float64            `yaml:"reference"`
	Error      float64            `yaml:"error"`
	Verified   bool               `yaml:"verified"`
	History    []Iteration        `yaml:"history"`
	Timers     map[string]float64 `yaml:"timers,omitempty"`
}

// Verify compares zeta with the reference value of the class.
func Verify(zeta, reference float64) (verified bool, relErr float64) {
	relErr = math.Abs(zeta-reference) / reference
	return relErr <= Epsilon, relErr
}

// WriteYAML encodes r as a YAML document.
func (r *Result) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}
