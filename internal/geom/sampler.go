package geom

import (
	"math"
	"math/rand"
)

// Sampler draws uniformly distributed configurations on the Grain lattice.
// It only consumes its random source, so it can be called inside rejection
// loops for as long as the caller likes.
type Sampler struct {
	rng        *rand.Rand
	thetaSteps int
}

// NewSampler returns a sampler whose orientations range over [0, thetaMax].
func NewSampler(rng *rand.Rand, thetaMax float64) *Sampler {
	return &Sampler{
		rng:        rng,
		thetaSteps: int(math.Floor(thetaMax*scale + 1e-9)),
	}
}

// ThetaMax is the largest orientation the sampler can return.
func (s *Sampler) ThetaMax() float64 {
	return float64(s.thetaSteps) / scale
}

// SamplePose draws x and y from {0.000 … 1.000} and θ from {0.000 … θmax}.
func (s *Sampler) SamplePose() Pose {
	p := s.SamplePoint()
	return Pose{
		X:     p.X,
		Y:     p.Y,
		Theta: float64(s.rng.Intn(s.thetaSteps+1)) / scale,
	}
}

// SamplePoint draws a box position from the whole unit square.
func (s *Sampler) SamplePoint() Point {
	return s.SamplePointIn(Unit)
}

// SamplePointIn draws a lattice point inside the closed rectangle b.
func (s *Sampler) SamplePointIn(b Rect) Point {
	return Point{
		X: s.lattice(b.Min[0], b.Max[0]),
		Y: s.lattice(b.Min[1], b.Max[1]),
	}
}

func (s *Sampler) lattice(lo, hi float64) float64 {
	first := int(math.Ceil(lo*scale - 1e-9))
	last := int(math.Floor(hi*scale + 1e-9))
	if last < first {
		return Quantize(lo)
	}
	return float64(first+s.rng.Intn(last-first+1)) / scale
}
