package calculation

import (
	"time"

	"github.com/rpgo/fire-calculator/internal/domain"
)

// nowFunc returns the current time (override in tests for determinism).
var nowFunc = time.Now

// SetNowFunc overrides the time provider (use only in tests).
func SetNowFunc(f func() time.Time) { nowFunc = f }

// seedFunc returns a pseudo-random base seed when a plan does not fix one
// (override for deterministic batch tests).
var seedFunc = func() uint32 { return uint32(time.Now().UnixNano()) }

// SetSeedFunc overrides the seed provider (use only in tests).
func SetSeedFunc(f func() uint32) { seedFunc = f }

// seedStride spaces per-run seeds. It is odd, so base+i*stride is distinct for every i < 2^32.
const seedStride = 1009

// DeriveSeed returns the seed of run i in a batch started from base.
func DeriveSeed(base uint32, i int) uint32 {
	return base + uint32(i)*seedStride
}

// NewSeed picks a base seed for callers whose plan leaves the seed unset.
func NewSeed() uint32 { return seedFunc() }

// ResolveSeed returns override when set, else the plan's seed, else a fresh one.
func ResolveSeed(plan *domain.PlanInputs, override *uint32) uint32 {
	switch {
	case override != nil:
		return *override
	case plan.Simulation.Seed != 0:
		return plan.Simulation.Seed
	}
	return NewSeed()
}
