// Package workspace holds the planning state and answers collision queries
// for the robot and the boxes.
package workspace

import "box-motion-planner/internal/geom"

// State is one snapshot of everything that can move: the robot pose, the
// bottom-left corners of the movable boxes and the footprints of the moving
// obstacles. States are values; the With methods return modified copies.
type State struct {
	Robot           geom.Pose
	Boxes           []geom.Point
	MovingObstacles []geom.Rect
}

// WithRobot returns a copy of s with the robot at pose.
func (s State) WithRobot(pose geom.Pose) State {
	s.Boxes = append([]geom.Point(nil), s.Boxes...)
	s.MovingObstacles = append([]geom.Rect(nil), s.MovingObstacles...)
	s.Robot = pose
	return s
}

// WithBox returns a copy of s with box i moved to pos.
func (s State) WithBox(i int, pos geom.Point) State {
	out := s.WithRobot(s.Robot)
	out.Boxes[i] = pos
	return out
}

// Equal reports whether s and o describe the same placement.
func (s State) Equal(o State) bool {
	if s.Robot != o.Robot || len(s.Boxes) != len(o.Boxes) || len(s.MovingObstacles) != len(o.MovingObstacles) {
		return false
	}
	for i := range s.Boxes {
		if s.Boxes[i] != o.Boxes[i] {
			return false
		}
	}
	for i := range s.MovingObstacles {
		if s.MovingObstacles[i] != o.MovingObstacles[i] {
			return false
		}
	}
	return true
}
