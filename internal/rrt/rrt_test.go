package rrt

import (
	"math"
	"math/rand"
	"testing"

	"go.viam.com/test"

	"box-motion-planner/internal/errors"
	"box-motion-planner/internal/geom"
)

const boxWidth = 0.002

// walls blocks footprints that leave the unit square or overlap any rect.
type walls []geom.Rect

func (w walls) Blocked(footprint geom.Rect) bool {
	if !footprint.Within(geom.Unit) {
		return true
	}
	for _, r := range w {
		if footprint.Overlaps(r) {
			return true
		}
	}
	return false
}

func newTestPlanner(seed int64, opts Options, obstacles Obstacles) *Planner {
	sampler := geom.NewSampler(rand.New(rand.NewSource(seed)), math.Pi)
	return NewPlanner(opts, sampler, obstacles, boxWidth, nil)
}

func assertStepPath(tb testing.TB, path []geom.Point, start, goal geom.Point, obstacles Obstacles) {
	tb.Helper()
	test.That(tb, path[0], test.ShouldResemble, start)
	test.That(tb, path[len(path)-1], test.ShouldResemble, goal)
	for i, pos := range path {
		test.That(tb, obstacles.Blocked(geom.Square(pos, boxWidth)), test.ShouldBeFalse)
		if i == 0 {
			continue
		}
		prev := path[i-1]
		test.That(tb, pos.Manhattan(prev), test.ShouldAlmostEqual, DefaultStep, 1e-9)
		test.That(tb, pos.X == prev.X || pos.Y == prev.Y, test.ShouldBeTrue)
	}
}

func TestDetourAroundStrip(t *testing.T) {
	start := geom.Point{X: 0.5, Y: 0.2}
	goal := geom.Point{X: 0.5, Y: 0.21}
	strip := walls{geom.FromBounds(0.49, 0.204, 0.512, 0.207)}
	opts := Options{
		MaxNodes:      10_000,
		MaxIterations: 500_000,
		Bounds:        geom.NewRect(0.47, 0.19, 0.06, 0.04),
	}

	path, err := newTestPlanner(1, opts, strip).Plan(start, goal)
	test.That(t, err, test.ShouldBeNil)
	assertStepPath(t, path, start, goal, strip)

	detoured := false
	for _, pos := range path {
		if pos.X <= 0.488+1e-9 || pos.X >= 0.512-1e-9 {
			detoured = true
		}
	}
	test.That(t, detoured, test.ShouldBeTrue)
}

func TestOpenSpace(t *testing.T) {
	start := geom.Point{X: 0.3, Y: 0.3}
	goal := geom.Point{X: 0.31, Y: 0.305}
	opts := Options{MaxNodes: 5000, Bounds: geom.NewRect(0.29, 0.29, 0.03, 0.03)}

	path, err := newTestPlanner(2, opts, walls{}).Plan(start, goal)
	test.That(t, err, test.ShouldBeNil)
	assertStepPath(t, path, start, goal, walls{})
	test.That(t, len(path), test.ShouldBeGreaterThanOrEqualTo, 16)
}

func TestEnclosedGoalTerminates(t *testing.T) {
	goal := geom.Point{X: 0.5, Y: 0.5}
	ring := walls{
		geom.FromBounds(0.49, 0.49, 0.5, 0.512),
		geom.FromBounds(0.502, 0.49, 0.512, 0.512),
		geom.FromBounds(0.5, 0.49, 0.502, 0.5),
		geom.FromBounds(0.5, 0.502, 0.502, 0.512),
	}
	opts := Options{MaxNodes: 300, MaxIterations: 3000, Bounds: geom.NewRect(0.45, 0.45, 0.1, 0.1)}

	p := newTestPlanner(3, opts, ring)
	path, err := p.Plan(geom.Point{X: 0.46, Y: 0.46}, goal)
	test.That(t, path, test.ShouldBeNil)
	test.That(t, errors.Is(err, errors.ErrCodeNoPath), test.ShouldBeTrue)
	test.That(t, p.NumNodes(), test.ShouldBeLessThanOrEqualTo, 300)
}

func TestTrivialQueries(t *testing.T) {
	p := newTestPlanner(4, Options{}, walls{})
	a := geom.Point{X: 0.2, Y: 0.2}

	path, err := p.Plan(a, a)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, path, test.ShouldResemble, []geom.Point{a})

	b := geom.Point{X: 0.2, Y: 0.201}
	path, err = p.Plan(a, b)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, path, test.ShouldResemble, []geom.Point{a, b})

	path, err = p.Plan(b, a)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, path, test.ShouldResemble, []geom.Point{b, a})
}

func TestBlockedEndpoints(t *testing.T) {
	block := walls{geom.NewRect(0.4, 0.4, 0.2, 0.2)}
	p := newTestPlanner(5, Options{}, block)

	_, err := p.Plan(geom.Point{X: 0.5, Y: 0.5}, geom.Point{X: 0.1, Y: 0.1})
	test.That(t, errors.Is(err, errors.ErrCodeInvalidQuery), test.ShouldBeTrue)

	_, err = p.Plan(geom.Point{X: 0.1, Y: 0.1}, geom.Point{X: 0.999, Y: 0.1})
	test.That(t, errors.Is(err, errors.ErrCodeInvalidQuery), test.ShouldBeTrue)
}

func TestResetAndDeterminism(t *testing.T) {
	start := geom.Point{X: 0.7, Y: 0.7}
	goal := geom.Point{X: 0.712, Y: 0.7}
	opts := Options{MaxNodes: 5000, Bounds: geom.NewRect(0.69, 0.69, 0.03, 0.03)}

	p := newTestPlanner(6, opts, walls{})
	first, err := p.Plan(start, goal)
	test.That(t, err, test.ShouldBeNil)

	again, err := newTestPlanner(6, opts, walls{}).Plan(start, goal)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, again, test.ShouldResemble, first)

	p.Reset()
	test.That(t, p.NumNodes(), test.ShouldEqual, 0)
	second, err := p.Plan(start, goal)
	test.That(t, err, test.ShouldBeNil)
	assertStepPath(t, second, start, goal, walls{})
}

func TestSatellites(t *testing.T) {
	box := geom.NewRect(0.4, 0.4, 0.2, 0.2)
	for _, tc := range []struct {
		a, b      geom.Direction
		side, end geom.Rect
	}{
		{geom.Right, geom.Up, geom.NewRect(0.3, 0.4, 0.1, 0.1), geom.NewRect(0.4, 0.3, 0.1, 0.1)},
		{geom.Up, geom.Right, geom.NewRect(0.3, 0.4, 0.1, 0.1), geom.NewRect(0.4, 0.3, 0.1, 0.1)},
		{geom.Right, geom.Down, geom.NewRect(0.3, 0.5, 0.1, 0.1), geom.NewRect(0.4, 0.6, 0.1, 0.1)},
		{geom.Left, geom.Up, geom.NewRect(0.6, 0.4, 0.1, 0.1), geom.NewRect(0.5, 0.3, 0.1, 0.1)},
		{geom.Down, geom.Left, geom.NewRect(0.6, 0.5, 0.1, 0.1), geom.NewRect(0.5, 0.6, 0.1, 0.1)},
	} {
		got := Satellites(box, tc.a, tc.b)
		for i, want := range []geom.Rect{tc.side, tc.end} {
			test.That(t, got[i].Min[0], test.ShouldAlmostEqual, want.Min[0])
			test.That(t, got[i].Min[1], test.ShouldAlmostEqual, want.Min[1])
			test.That(t, got[i].Width(), test.ShouldAlmostEqual, want.Width())
			test.That(t, got[i].Height(), test.ShouldAlmostEqual, want.Height())
		}
	}
}

func TestTurnNeedsRoom(t *testing.T) {
	// A post just below the box blocks the turn from pushing right to pushing
	// up, but not straight travel.
	post := walls{geom.FromBounds(0.5002, 0.1992, 0.5008, 0.1998)}
	p := newTestPlanner(7, Options{}, post)
	p.add(geom.Point{X: 0.499, Y: 0.2}, -1, geom.None, startTree)
	parent := p.add(geom.Point{X: 0.5, Y: 0.2}, 0, geom.Right, startTree)

	_, ok := p.extend(parent, geom.Up, startTree)
	test.That(t, ok, test.ShouldBeFalse)
	_, ok = p.extend(parent, geom.Right, startTree)
	test.That(t, ok, test.ShouldBeTrue)
}

func TestGoalTreeTurnNeedsRoom(t *testing.T) {
	// Goal-tree edges are travelled backwards: the box comes down onto
	// (0.5, 0.2) and is then pushed right to the goal, so the pusher walks
	// around the top-left corner.
	topLeft := walls{geom.FromBounds(0.4992, 0.2012, 0.4998, 0.2018)}
	p := newTestPlanner(8, Options{}, topLeft)
	root := p.add(geom.Point{X: 0.501, Y: 0.2}, -1, geom.None, goalTree)
	parent, ok := p.extend(root, geom.Left, goalTree)
	test.That(t, ok, test.ShouldBeTrue)
	_, ok = p.extend(parent, geom.Up, goalTree)
	test.That(t, ok, test.ShouldBeFalse)

	bottomRight := walls{geom.FromBounds(0.5012, 0.1992, 0.5018, 0.1998)}
	p = newTestPlanner(8, Options{}, bottomRight)
	root = p.add(geom.Point{X: 0.501, Y: 0.2}, -1, geom.None, goalTree)
	parent, ok = p.extend(root, geom.Left, goalTree)
	test.That(t, ok, test.ShouldBeTrue)
	_, ok = p.extend(parent, geom.Up, goalTree)
	test.That(t, ok, test.ShouldBeTrue)
}

func TestMeetingTurnsNeedRoom(t *testing.T) {
	// Start tree pushes right onto (0.5, 0.2); the goal root sits directly
	// above, so joining turns the box upward around its bottom-left corner.
	meet := func(obstacles walls) bool {
		p := newTestPlanner(9, Options{}, obstacles)
		p.add(geom.Point{X: 0.499, Y: 0.2}, -1, geom.None, startTree)
		s := p.add(geom.Point{X: 0.5, Y: 0.2}, 0, geom.Right, startTree)
		p.add(geom.Point{X: 0.5, Y: 0.201}, -1, geom.None, goalTree)
		_, ok := p.adjacent(s)
		return ok
	}
	test.That(t, meet(walls{}), test.ShouldBeTrue)
	test.That(t, meet(walls{geom.FromBounds(0.5002, 0.1992, 0.5008, 0.1998)}), test.ShouldBeFalse)

	// Here the turn is on the goal side: the box crosses right onto
	// (0.5, 0.201) and then travels up to the goal root.
	meetGoalSide := func(obstacles walls) bool {
		p := newTestPlanner(10, Options{}, obstacles)
		s := p.add(geom.Point{X: 0.499, Y: 0.201}, -1, geom.None, startTree)
		root := p.add(geom.Point{X: 0.5, Y: 0.202}, -1, geom.None, goalTree)
		p.add(geom.Point{X: 0.5, Y: 0.201}, root, geom.Down, goalTree)
		_, ok := p.adjacent(s)
		return ok
	}
	test.That(t, meetGoalSide(walls{}), test.ShouldBeTrue)
	test.That(t, meetGoalSide(walls{geom.FromBounds(0.5002, 0.2002, 0.5008, 0.2008)}), test.ShouldBeFalse)
}

func TestOffGridEndpoints(t *testing.T) {
	p := newTestPlanner(11, Options{}, walls{})
	path, err := p.Plan(geom.Point{X: 0.1236, Y: 0.5}, geom.Point{X: 0.1304, Y: 0.5})
	test.That(t, path, test.ShouldBeNil)
	test.That(t, errors.Is(err, errors.ErrCodeInvalidQuery), test.ShouldBeTrue)

	_, err = p.Plan(geom.Point{X: 0.124, Y: 0.5}, geom.Point{X: 0.13, Y: 0.5004})
	test.That(t, errors.Is(err, errors.ErrCodeInvalidQuery), test.ShouldBeTrue)
}

func TestStepSnapsToGrid(t *testing.T) {
	test.That(t, Options{Step: 0.0015}.withDefaults().Step, test.ShouldEqual, 0.002)
	test.That(t, Options{Step: 0.0004}.withDefaults().Step, test.ShouldEqual, DefaultStep)
}
