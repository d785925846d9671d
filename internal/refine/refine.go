// Package refine resamples a coarse path into a step-bounded trajectory.
package refine

import (
	"math"

	"box-motion-planner/internal/roadmap"
)

// DefaultStep is the largest distance between consecutive output entries.
const DefaultStep = 0.001

// Path expands each segment of path into ceil(length/step) linear steps.
// Every coarse waypoint appears in the output; repeated waypoints collapse
// into one. No collision checks are made. A non-positive step uses
// DefaultStep.
func Path[C roadmap.Interpolable[C]](path []C, step float64) []C {
	if len(path) == 0 {
		return nil
	}
	if step <= 0 {
		step = DefaultStep
	}

	out := []C{path[0]}
	for i := 1; i < len(path); i++ {
		from, to := path[i-1], path[i]
		steps := Steps(from, to, step)
		for k := 1; k < steps; k++ {
			out = append(out, from.Interpolate(to, float64(k)/float64(steps)))
		}
		if steps > 0 {
			out = append(out, to)
		}
	}
	return out
}

// Steps is the number of entries Path adds for the segment from a to b.
// Lengths within rounding noise of a multiple of step do not gain an extra
// entry.
func Steps[C roadmap.Configuration[C]](a, b C, step float64) int {
	if step <= 0 {
		step = DefaultStep
	}
	return int(math.Ceil(a.Distance(b)/step - 1e-9))
}
