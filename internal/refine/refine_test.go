package refine

import (
	"math"
	"testing"

	"go.viam.com/test"

	"box-motion-planner/internal/geom"
)

func TestPathPoses(t *testing.T) {
	coarse := []geom.Pose{
		{X: 0.1, Y: 0.1, Theta: 0},
		{X: 0.1, Y: 0.105, Theta: 0},
		{X: 0.103, Y: 0.109, Theta: 0.002},
	}
	fine := Path(coarse, DefaultStep)

	test.That(t, fine[0], test.ShouldResemble, coarse[0])
	test.That(t, fine[len(fine)-1], test.ShouldResemble, coarse[2])
	test.That(t, len(fine), test.ShouldEqual, 1+Steps(coarse[0], coarse[1], DefaultStep)+Steps(coarse[1], coarse[2], DefaultStep))
	test.That(t, fine, test.ShouldContain, coarse[1])

	for i := 1; i < len(fine); i++ {
		test.That(t, math.Abs(fine[i].X-fine[i-1].X), test.ShouldBeLessThanOrEqualTo, DefaultStep+1e-9)
		test.That(t, math.Abs(fine[i].Y-fine[i-1].Y), test.ShouldBeLessThanOrEqualTo, DefaultStep+1e-9)
		test.That(t, math.Abs(fine[i].Theta-fine[i-1].Theta), test.ShouldBeLessThanOrEqualTo, DefaultStep+1e-9)
	}
}

func TestPathIsMonotone(t *testing.T) {
	from := geom.Point{X: 0.2, Y: 0.8}
	to := geom.Point{X: 0.21, Y: 0.79}
	fine := Path([]geom.Point{from, to}, 0.002)

	for i := 1; i < len(fine); i++ {
		test.That(t, fine[i].X, test.ShouldBeGreaterThanOrEqualTo, fine[i-1].X)
		test.That(t, fine[i].Y, test.ShouldBeLessThanOrEqualTo, fine[i-1].Y)
		test.That(t, fine[i].X, test.ShouldBeLessThanOrEqualTo, to.X)
		test.That(t, fine[i].Y, test.ShouldBeGreaterThanOrEqualTo, to.Y)
	}
}

func TestStepCount(t *testing.T) {
	a := geom.Point{X: 0.5, Y: 0.5}
	test.That(t, Steps(a, geom.Point{X: 0.5, Y: 0.503}, 0.001), test.ShouldEqual, 3)
	test.That(t, Steps(a, geom.Point{X: 0.5, Y: 0.5035}, 0.001), test.ShouldEqual, 4)
	test.That(t, Steps(a, a, 0.001), test.ShouldEqual, 0)
	test.That(t, Steps(a, geom.Point{X: 0.6, Y: 0.5}, 0), test.ShouldEqual, 100)
}

func TestPathEdgeCases(t *testing.T) {
	test.That(t, Path[geom.Point](nil, DefaultStep), test.ShouldBeNil)

	single := []geom.Point{{X: 0.3, Y: 0.3}}
	test.That(t, Path(single, DefaultStep), test.ShouldResemble, single)

	p := geom.Point{X: 0.3, Y: 0.3}
	q := geom.Point{X: 0.301, Y: 0.3}
	test.That(t, Path([]geom.Point{p, p, q}, DefaultStep), test.ShouldResemble, []geom.Point{p, q})
}
