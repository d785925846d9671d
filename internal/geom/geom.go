// Package geom holds the configuration types of the planner: robot poses,
// box positions, axis-aligned footprints and the configuration sampler.
//
// All coordinates live in the unit square. Sampled values are quantized to
// Grain so that two samples of the same cell compare equal with ==.
package geom

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"gonum.org/v1/gonum/floats"
)

// Grain is the quantization step of sampled coordinates.
const Grain = 0.001

// scale is 1/Grain; rounding through it keeps quantized floats canonical.
const scale = 1000

// Quantize rounds v to the nearest multiple of Grain.
func Quantize(v float64) float64 {
	return math.Round(v*scale) / scale
}

// OnGrid reports whether v is already a multiple of Grain.
func OnGrid(v float64) bool {
	return Quantize(v) == v
}

// Point is a box configuration: the bottom-left corner of its footprint.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Quantized returns p with both coordinates rounded to Grain.
func (p Point) Quantized() Point {
	return Point{X: Quantize(p.X), Y: Quantize(p.Y)}
}

// OnGrid reports whether both coordinates are multiples of Grain.
func (p Point) OnGrid() bool {
	return OnGrid(p.X) && OnGrid(p.Y)
}

// Distance is the Euclidean distance between two box positions.
func (p Point) Distance(other Point) float64 {
	return planar.Distance(p.orb(), other.orb())
}

// Manhattan is the L1 distance used by the tree planner's nearest-node lookup.
func (p Point) Manhattan(other Point) float64 {
	return floats.Distance([]float64{p.X, p.Y}, []float64{other.X, other.Y}, 1)
}

// Interpolate returns the point a fraction t of the way from p to to.
func (p Point) Interpolate(to Point, t float64) Point {
	return Point{
		X: p.X + (to.X-p.X)*t,
		Y: p.Y + (to.Y-p.Y)*t,
	}
}

// Step moves p by step along d and re-quantizes the result.
func (p Point) Step(d Direction, step float64) Point {
	dx, dy := d.Delta()
	return Point{X: Quantize(p.X + dx*step), Y: Quantize(p.Y + dy*step)}
}

func (p Point) orb() orb.Point {
	return orb.Point{p.X, p.Y}
}

// Pose is a robot configuration. The robot is a segment of fixed width
// centred on (X, Y) and rotated Theta radians from the x axis.
type Pose struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Theta float64 `json:"theta"`
}

// Quantized returns p with every coordinate rounded to Grain.
func (p Pose) Quantized() Pose {
	return Pose{X: Quantize(p.X), Y: Quantize(p.Y), Theta: Quantize(p.Theta)}
}

// Distance is the Euclidean distance in (x, y, θ) with θ treated as a
// linear coordinate.
func (p Pose) Distance(other Pose) float64 {
	return floats.Distance(p.vec(), other.vec(), 2)
}

// Interpolate returns the pose a fraction t of the way from p to to.
func (p Pose) Interpolate(to Pose, t float64) Pose {
	return Pose{
		X:     p.X + (to.X-p.X)*t,
		Y:     p.Y + (to.Y-p.Y)*t,
		Theta: p.Theta + (to.Theta-p.Theta)*t,
	}
}

// Translate shifts the pose without rotating it.
func (p Pose) Translate(dx, dy float64) Pose {
	return Pose{X: p.X + dx, Y: p.Y + dy, Theta: p.Theta}
}

// Ends returns the two end points of the robot segment for the given width.
func (p Pose) Ends(width float64) (Point, Point) {
	hx := width / 2 * math.Cos(p.Theta)
	hy := width / 2 * math.Sin(p.Theta)
	return Point{X: p.X - hx, Y: p.Y - hy}, Point{X: p.X + hx, Y: p.Y + hy}
}

// Position drops the orientation.
func (p Pose) Position() Point {
	return Point{X: p.X, Y: p.Y}
}

func (p Pose) vec() []float64 {
	return []float64{p.X, p.Y, p.Theta}
}
