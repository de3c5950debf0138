package benchmark

import "fmt"

// State is the position of a Benchmark in its run.
type State int

const (
	Uninitialized State = iota
	MatrixBuilt
	Warmup
	Reset
	Timed
	Verified
	Reported
)

var stateNames = [...]string{
	Uninitialized: "uninitialized",
	MatrixBuilt:   "matrix-built",
	Warmup:        "warmup",
	Reset:         "reset",
	Timed:         "timed",
	Verified:      "verified",
	Reported:      "reported",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}
