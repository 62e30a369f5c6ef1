package calculation

import "math"

// LCG constants from Numerical Recipes.
const (
	lcgMultiplier = 1664525
	lcgIncrement  = 1013904223
	lcgModulus    = 1 << 32
)

// SeededRandom is a linear congruential generator. The same seed always
// yields the same sequence. It is not safe for concurrent use; each run owns one.
type SeededRandom struct {
	state uint32
}

// NewSeededRandom creates a generator seeded with seed
func NewSeededRandom(seed uint32) *SeededRandom {
	return &SeededRandom{state: seed}
}

// Next advances the generator and returns a value in [0, 1)
func (r *SeededRandom) Next() float64 {
	r.state = r.state*lcgMultiplier + lcgIncrement
	return float64(r.state) / lcgModulus
}

// NormFloat64 returns a standard normal sample using the Box-Muller transform.
// Every call consumes exactly two values from the generator.
func (r *SeededRandom) NormFloat64() float64 {
	u1 := r.Next()
	u2 := r.Next()
	if u1 < math.SmallestNonzeroFloat64 {
		u1 = math.SmallestNonzeroFloat64
	}
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}
