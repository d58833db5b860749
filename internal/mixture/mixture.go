// Package mixture carries the per-replica identity that substage generators
// read: seed, working directory, and density hints. Each Context is owned by
// exactly one composition run, which is what makes composing replicas in
// parallel safe without locks.
package mixture

type Context struct {
	Index          int
	Seed           int64
	Dir            string
	InitialDensity float64 // low-density placement factor
	FinalDensity   float64 // target density in kg/m3
}

// DeriveSeed produces the deterministic-but-distinct seed for one replica.
// Replicas are statistically independent while whole jobs stay reproducible.
func DeriveSeed(base int64, index int) int64 {
	seed := base + int64(index)*7919
	if seed <= 0 {
		seed = -seed + 1
	}
	return seed
}
