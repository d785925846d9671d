package geom

import "github.com/paulmach/orb"

// Unit is the workspace: the closed unit square.
var Unit = NewRect(0, 0, 1, 1)

// Rect is an axis-aligned footprint (box, obstacle, satellite cell).
type Rect struct {
	orb.Bound
}

// NewRect builds a rectangle from its bottom-left corner and size.
func NewRect(x, y, w, h float64) Rect {
	return Rect{orb.Bound{
		Min: orb.Point{x, y},
		Max: orb.Point{x + w, y + h},
	}}
}

// FromBounds builds a rectangle from its extreme coordinates.
func FromBounds(xmin, ymin, xmax, ymax float64) Rect {
	return Rect{orb.Bound{
		Min: orb.Point{xmin, ymin},
		Max: orb.Point{xmax, ymax},
	}}
}

// Square is the footprint of a box of side width whose bottom-left corner is p.
func Square(p Point, width float64) Rect {
	return NewRect(p.X, p.Y, width, width)
}

// Corner returns the bottom-left corner.
func (r Rect) Corner() Point {
	return Point{X: r.Min[0], Y: r.Min[1]}
}

// Width is the extent along x.
func (r Rect) Width() float64 {
	return r.Max[0] - r.Min[0]
}

// Height is the extent along y.
func (r Rect) Height() float64 {
	return r.Max[1] - r.Min[1]
}

// Overlaps reports whether the interiors of r and o intersect.
// Rectangles that only share an edge or a corner do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.Min[0] < o.Max[0] && o.Min[0] < r.Max[0] &&
		r.Min[1] < o.Max[1] && o.Min[1] < r.Max[1]
}

// Within reports whether r lies inside the closed rectangle o.
func (r Rect) Within(o Rect) bool {
	return r.Min[0] >= o.Min[0] && r.Max[0] <= o.Max[0] &&
		r.Min[1] >= o.Min[1] && r.Max[1] <= o.Max[1]
}

// ContainsPoint reports whether p lies in the closed rectangle.
func (r Rect) ContainsPoint(p Point) bool {
	return r.Bound.Contains(p.orb())
}

// Segment is a line segment between two points.
type Segment struct {
	P1, P2 Point
}

// Bounds is the smallest rectangle containing the segment.
func (s Segment) Bounds() Rect {
	b := orb.Bound{Min: s.P1.orb(), Max: s.P1.orb()}
	return Rect{b.Extend(s.P2.orb())}
}

// CrossedBy reports whether the segment passes through the interior of r.
// A segment lying along an edge or touching a corner does not cross.
func (r Rect) CrossedBy(s Segment) bool {
	t0, t1 := 0.0, 1.0
	dx := s.P2.X - s.P1.X
	dy := s.P2.Y - s.P1.Y

	// Liang-Barsky clipping against the closed rectangle.
	clip := func(p, q float64) bool {
		if p == 0 {
			return q >= 0
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return false
			}
			if t < t1 {
				t1 = t
			}
		}
		return true
	}
	if !clip(-dx, s.P1.X-r.Min[0]) || !clip(dx, r.Max[0]-s.P1.X) ||
		!clip(-dy, s.P1.Y-r.Min[1]) || !clip(dy, r.Max[1]-s.P1.Y) {
		return false
	}
	if t0 > t1 {
		return false
	}

	// A clipped piece inside a convex region is either wholly on the
	// boundary or has an interior midpoint.
	tm := (t0 + t1) / 2
	mx := s.P1.X + tm*dx
	my := s.P1.Y + tm*dy
	return mx > r.Min[0] && mx < r.Max[0] && my > r.Min[1] && my < r.Max[1]
}
