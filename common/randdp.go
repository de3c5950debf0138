package common

// Word-splitting constants of the 2^46 linear congruential generator. They are
// exact powers of two, so the double precision arithmetic below never rounds.
const (
	r23 = 1.0 / (1 << 23)
	r46 = r23 * r23
	t23 = 1 << 23
	t46 = t23 * t23
)

/*
 * ---------------------------------------------------------------------
 *
 * Randlc returns a uniform pseudorandom double precision number in the
 * range (0, 1) by using the linear congruential generator
 *
 * x_{k+1} = a x_k  (mod 2^46)
 *
 * where 0 < x_k < 2^46 and 0 < a < 2^46. this scheme generates 2^44 numbers
 * before repeating. A and X must be odd double precision integers in the
 * range (1, 2^46). the returned value is normalized to be between 0 and 1,
 * i.e. 2^(-46) * x_1. X is updated to contain the new seed x_1, so that
 * subsequent calls using the same arguments will generate a continuous
 * sequence.
 *
 * ---------------------------------------------------------------------
 */
func Randlc(x *float64, a float64) float64 {
	var t1, t2, t3, t4, a1, a2, x1, x2, z float64

	// break A into two parts such that A = 2^23 * A1 + A2
	t1 = r23 * a
	a1 = float64(int64(t1))
	a2 = a - t23*a1

	// break X into two parts such that X = 2^23 * X1 + X2
	t1 = r23 * (*x)
	x1 = float64(int64(t1))
	x2 = *x - t23*x1

	// Z = A1 * X2 + A2 * X1  (mod 2^23), X = 2^23 * Z + A2 * X2  (mod 2^46)
	t1 = a1*x2 + a2*x1
	t2 = float64(int64(r23 * t1))
	z = t1 - t23*t2
	t3 = t23*z + a2*x2
	t4 = float64(int64(r46 * t3))
	*x = t3 - t46*t4

	return r46 * (*x)
}

// Vranlc generates n uniform pseudorandom numbers into y using the same
// generator as Randlc. xSeed is left holding the seed after the last draw.
func Vranlc(n int, xSeed *float64, a float64, y []float64) {
	var t1, t2, t3, t4, a1, a2, x1, x2, z float64
	x := *xSeed

	t1 = r23 * a
	a1 = float64(int64(t1))
	a2 = a - t23*a1

	for i := 0; i < n; i++ {
		t1 = r23 * x
		x1 = float64(int64(t1))
		x2 = x - t23*x1

		t1 = a1*x2 + a2*x1
		t2 = float64(int64(r23 * t1))
		z = t1 - t23*t2
		t3 = t23*z + a2*x2
		t4 = float64(int64(r46 * t3))
		x = t3 - t46*t4
		y[i] = r46 * x
	}

	*xSeed = x
}

// Pow returns a^k (mod 2^46) by repeated squaring, in O(log k) Randlc calls.
func Pow(a float64, k uint64) float64 {
	result := 1.0
	base := a
	for k > 0 {
		if k&1 == 1 {
			Randlc(&result, base)
		}
		k >>= 1
		if k > 0 {
			Randlc(&base, base)
		}
	}
	return result
}

// Generator is an explicit randlc state: a seed and its multiplier. It is a
// plain value, so a worker can own a copy positioned anywhere in the sequence.
type Generator struct {
	seed float64
	mult float64
}

// NewGenerator returns a generator positioned at seed.
func NewGenerator(seed, mult float64) Generator {
	return Generator{seed: seed, mult: mult}
}

// Seed returns the current state x_k.
func (g Generator) Seed() float64 { return g.seed }

// Multiplier returns a.
func (g Generator) Multiplier() float64 { return g.mult }

// Next advances the generator by one draw.
func (g *Generator) Next() float64 {
	return Randlc(&g.seed, g.mult)
}

// Fill draws len(y) consecutive values into y.
func (g *Generator) Fill(y []float64) {
	Vranlc(len(y), &g.seed, g.mult, y)
}

// Skip returns the generator that g becomes after k calls to Next, without
// drawing them: x_{k} = a^k x_0 (mod 2^46).
func (g Generator) Skip(k uint64) Generator {
	if k == 0 {
		return g
	}
	seed := g.seed
	Randlc(&seed, Pow(g.mult, k))
	return Generator{seed: seed, mult: g.mult}
}
