package workspace

import (
	"fmt"

	"go.uber.org/multierr"

	"box-motion-planner/internal/errors"
	"box-motion-planner/internal/geom"
	"box-motion-planner/internal/roadmap"
	"box-motion-planner/internal/rrt"
)

// Scene is the fixed part of a problem: robot and box sizes, the workspace
// bounds and the static obstacles. Collision queries combine it with a State.
type Scene struct {
	RobotWidth float64
	BoxWidth   float64
	Bounds     geom.Rect
	Static     *SpatialIndex
}

// NewScene indexes the static obstacles of a unit-square workspace.
func NewScene(robotWidth, boxWidth float64, static []geom.Rect) *Scene {
	return &Scene{
		RobotWidth: robotWidth,
		BoxWidth:   boxWidth,
		Bounds:     geom.Unit,
		Static:     NewSpatialIndex(static),
	}
}

// BoxFootprint is the square occupied by a box whose corner is at pos.
func (sc *Scene) BoxFootprint(pos geom.Point) geom.Rect {
	return geom.Square(pos, sc.BoxWidth)
}

// RobotFree reports whether the robot at pose stays inside the workspace and
// does not pass through any box, moving obstacle or static obstacle of s.
// Touching an edge is allowed, which is how the robot pushes.
func (sc *Scene) RobotFree(s State, pose geom.Pose) bool {
	p1, p2 := pose.Ends(sc.RobotWidth)
	if !sc.Bounds.ContainsPoint(p1) || !sc.Bounds.ContainsPoint(p2) {
		return false
	}
	seg := geom.Segment{P1: p1, P2: p2}
	for _, b := range s.Boxes {
		if sc.BoxFootprint(b).CrossedBy(seg) {
			return false
		}
	}
	for _, o := range s.MovingObstacles {
		if o.CrossedBy(seg) {
			return false
		}
	}
	return !sc.Static.CrossedBy(seg)
}

// RobotOracle is the collision oracle for roadmaps built in s.
func (sc *Scene) RobotOracle(s State) roadmap.Oracle[geom.Pose] {
	return roadmap.OracleFunc[geom.Pose](func(pose geom.Pose) bool {
		return sc.RobotFree(s, pose)
	})
}

// BoxBlocked reports whether footprint leaves the workspace or overlaps
// anything in s other than box skip. The robot is not an obstacle for boxes.
func (sc *Scene) BoxBlocked(s State, skip int, footprint geom.Rect) bool {
	if !footprint.Within(sc.Bounds) {
		return true
	}
	for i, b := range s.Boxes {
		if i != skip && footprint.Overlaps(sc.BoxFootprint(b)) {
			return true
		}
	}
	for _, o := range s.MovingObstacles {
		if footprint.Overlaps(o) {
			return true
		}
	}
	return sc.Static.Overlaps(footprint)
}

// BoxObstacles is the obstacle oracle for moving box i through s.
func (sc *Scene) BoxObstacles(s State, i int) rrt.Obstacles {
	return rrt.ObstaclesFunc(func(footprint geom.Rect) bool {
		return sc.BoxBlocked(s, i, footprint)
	})
}

// Validate reports every collision in s. A nil result means the state is a
// legal starting point.
func (sc *Scene) Validate(s State) error {
	var errs error
	if !sc.RobotFree(s, s.Robot) {
		errs = multierr.Append(errs, fmt.Errorf("robot at %+v is in collision", s.Robot))
	}
	for i, b := range s.Boxes {
		if sc.BoxBlocked(s, i, sc.BoxFootprint(b)) {
			errs = multierr.Append(errs, fmt.Errorf("box %d at %+v is in collision", i+1, b))
		}
	}
	for i, o := range s.MovingObstacles {
		if !o.Within(sc.Bounds) || sc.Static.Overlaps(o) {
			errs = multierr.Append(errs, fmt.Errorf("moving obstacle %d at %+v is in collision", i+1, o.Corner()))
		}
	}
	if errs != nil {
		return errors.Wrap(errors.ErrCodeInvalidQuery, errs, "invalid initial state")
	}
	return nil
}
