package params

import (
	"errors"
	"fmt"
	"strings"
)

// RCOND is the conditioning base shared by every class.
const RCOND = 0.1

// CGITMAX is the fixed number of inner conjugate gradient steps.
const CGITMAX = 25

// ErrUnknownClass is returned by Lookup for anything outside S, W, A, B, C, D, E.
var ErrUnknownClass = errors.New("params: unknown problem class")

// Class holds the problem size parameters of one NPB class.
type Class struct {
	Name              string
	NA                int
	NONZER            int
	NITER             int
	SHIFT             float64
	RCOND             float64
	ZETA_VERIFY_VALUE float64
}

var classes = []Class{
	{Name: "S", NA: 1400, NONZER: 7, NITER: 15, SHIFT: 10.0, RCOND: RCOND, ZETA_VERIFY_VALUE: 8.5971775078648},
	{Name: "W", NA: 7000, NONZER: 8, NITER: 15, SHIFT: 12.0, RCOND: RCOND, ZETA_VERIFY_VALUE: 10.362595087124},
	{Name: "A", NA: 14000, NONZER: 11, NITER: 15, SHIFT: 20.0, RCOND: RCOND, ZETA_VERIFY_VALUE: 17.130235054029},
	{Name: "B", NA: 75000, NONZER: 13, NITER: 75, SHIFT: 60.0, RCOND: RCOND, ZETA_VERIFY_VALUE: 22.712745482631},
	{Name: "C", NA: 150000, NONZER: 15, NITER: 75, SHIFT: 110.0, RCOND: RCOND, ZETA_VERIFY_VALUE: 28.973605592845},
	{Name: "D", NA: 1500000, NONZER: 21, NITER: 100, SHIFT: 500.0, RCOND: RCOND, ZETA_VERIFY_VALUE: 52.514532105794},
	{Name: "E", NA: 9000000, NONZER: 26, NITER: 100, SHIFT: 1500.0, RCOND: RCOND, ZETA_VERIFY_VALUE: 77.522164599383},
}

// Lookup returns the parameters of class name (case-insensitive).
func Lookup(name string) (Class, error) {
	key := strings.ToUpper(strings.TrimSpace(name))
	for _, c := range classes {
		if c.Name == key {
			return c, nil
		}
	}
	return Class{}, fmt.Errorf("%w: %q (available classes: %s)", ErrUnknownClass, name, strings.Join(Names(), ", "))
}

// Names lists the class names in size order.
func Names() []string {
	names := make([]string, len(classes))
	for i, c := range classes {
		names[i] = c.Name
	}
	return names
}

// NZ is the nonzero capacity reserved for the assembled matrix,
// NA * (NONZER+1) * (NONZER+1).
func (c Class) NZ() int {
	return c.NA * (c.NONZER + 1) * (c.NONZER + 1)
}

// Mops converts the elapsed seconds of the timed section into millions of
// operations per second. A zero time yields zero.
func (c Class) Mops(seconds float64) float64 {
	if seconds == 0.0 {
		return 0.0
	}
	nnz := float64(c.NONZER * (c.NONZER + 1))
	return float64(2*c.NITER*c.NA) *
		(3.0 + nnz + CGITMAX*(5.0+nnz) + 3.0) /
		seconds / 1000000.0
}
