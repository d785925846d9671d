package geom

// Direction is the axis-aligned move that created a tree node.
// Up is +y and Right is +x.
type Direction int8

const (
	None Direction = iota // root nodes
	Up
	Down
	Left
	Right
)

func (d Direction) String() string {
	return [...]string{"none", "up", "down", "left", "right"}[d]
}

// Delta returns the unit offset of one move in direction d.
func (d Direction) Delta() (dx, dy float64) {
	switch d {
	case Up:
		return 0, 1
	case Down:
		return 0, -1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

// Opposite returns the reverse of d. None stays None.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	}
	return None
}

// Horizontal reports whether d moves along the x axis.
func (d Direction) Horizontal() bool {
	return d == Left || d == Right
}

// Vertical reports whether d moves along the y axis.
func (d Direction) Vertical() bool {
	return d == Up || d == Down
}

// QuarterTurn reports whether going from a to b changes axis.
// Moves out of a root (None) never count as a turn.
func QuarterTurn(a, b Direction) bool {
	return (a.Horizontal() && b.Vertical()) || (a.Vertical() && b.Horizontal())
}

// Toward picks the direction of a single step from `from` toward `to`,
// along whichever axis has the larger absolute offset. Ties go to the x axis.
func Toward(from, to Point) Direction {
	dx := to.X - from.X
	dy := to.Y - from.Y
	if abs(dx) >= abs(dy) {
		if dx > 0 {
			return Right
		}
		return Left
	}
	if dy > 0 {
		return Up
	}
	return Down
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
