// Package problem reads problem files and writes solution files.
//
// A problem file is plain text. Blank lines and lines starting with '#' are
// ignored; every other line holds whitespace-separated numbers:
//
//	<robot width>
//	<robot x> <robot y> <robot theta>
//	<#boxes> <#moving obstacles> <#static obstacles>
//	<box x> <box y> <goal x> <goal y>     one line per box
//	<x> <y> <width>                       one line per moving obstacle
//	<xmin> <ymin> <xmax> <ymax>           one line per static obstacle
//
// Positions are bottom-left corners inside the unit square and boxes have
// the same width as the robot.
package problem

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/multierr"

	"box-motion-planner/internal/errors"
	"box-motion-planner/internal/geom"
	"box-motion-planner/internal/workspace"
)

// Problem is a parsed problem file.
type Problem struct {
	RobotWidth float64
	Initial    workspace.State
	Goals      []geom.Point // one per box, same order as Initial.Boxes
	Static     []geom.Rect
}

// Scene builds the collision scene for p.
func (p *Problem) Scene() *workspace.Scene {
	return workspace.NewScene(p.RobotWidth, p.RobotWidth, p.Static)
}

// LoadFile reads a problem from filename.
func LoadFile(filename string) (*Problem, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open problem: %w", err)
	}
	defer f.Close()
	return Load(f)
}

type line struct {
	num    int
	fields []string
}

// Load parses a problem. Every syntax or range error is reported with
// ErrCodeMalformedGeometry and the offending line number.
func Load(r io.Reader) (*Problem, error) {
	var lines []line
	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		lines = append(lines, line{num: n, fields: strings.Fields(text)})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedGeometry, err, "failed to read problem")
	}

	pr := &parser{lines: lines}
	p := &Problem{}

	width := pr.floats(1)
	if pr.err != nil {
		return nil, pr.err
	}
	p.RobotWidth = width[0]

	robot := pr.floats(3)
	counts := pr.ints(3)
	if pr.err != nil {
		return nil, pr.err
	}
	p.Initial.Robot = geom.Pose{X: robot[0], Y: robot[1], Theta: robot[2]}

	for i := 0; i < counts[0]; i++ {
		v := pr.floats(4)
		if pr.err != nil {
			return nil, pr.err
		}
		p.Initial.Boxes = append(p.Initial.Boxes, geom.Point{X: v[0], Y: v[1]})
		p.Goals = append(p.Goals, geom.Point{X: v[2], Y: v[3]})
	}
	for i := 0; i < counts[1]; i++ {
		v := pr.floats(3)
		if pr.err != nil {
			return nil, pr.err
		}
		p.Initial.MovingObstacles = append(p.Initial.MovingObstacles, geom.NewRect(v[0], v[1], v[2], v[2]))
	}
	for i := 0; i < counts[2]; i++ {
		v := pr.floats(4)
		if pr.err != nil {
			return nil, pr.err
		}
		p.Static = append(p.Static, geom.FromBounds(v[0], v[1], v[2], v[3]))
	}
	if pr.next < len(lines) {
		return nil, malformed(lines[pr.next].num, "unexpected trailing data")
	}

	if err := p.validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedGeometry, err, "invalid problem geometry")
	}
	return p, nil
}

// validate collects every range error at once.
func (p *Problem) validate() error {
	var errs error
	if p.RobotWidth <= 0 || p.RobotWidth >= 1 {
		errs = multierr.Append(errs, fmt.Errorf("robot width %v must be in (0, 1)", p.RobotWidth))
	}
	for i, b := range p.Initial.Boxes {
		if !geom.Square(b, p.RobotWidth).Within(geom.Unit) {
			errs = multierr.Append(errs, fmt.Errorf("box %d start %+v is outside the workspace", i+1, b))
		}
		if !geom.Square(p.Goals[i], p.RobotWidth).Within(geom.Unit) {
			errs = multierr.Append(errs, fmt.Errorf("box %d goal %+v is outside the workspace", i+1, p.Goals[i]))
		}
		if !b.OnGrid() || !p.Goals[i].OnGrid() {
			errs = multierr.Append(errs, fmt.Errorf("box %d start and goal must lie on the %v grid", i+1, geom.Grain))
		}
	}
	for i, o := range p.Initial.MovingObstacles {
		if o.Width() <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("moving obstacle %d has non-positive width", i+1))
		}
	}
	for i, s := range p.Static {
		if s.Width() <= 0 || s.Height() <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("static obstacle %d is empty or inverted", i+1))
		}
	}
	return errs
}

type parser struct {
	lines []line
	next  int
	err   error
}

func malformed(num int, format string, args ...any) error {
	return errors.New(errors.ErrCodeMalformedGeometry, "line %d: %s", num, fmt.Sprintf(format, args...))
}

// take returns the fields of the next line, which must hold exactly n values.
func (pr *parser) take(n int) (int, []string) {
	if pr.err != nil {
		return 0, nil
	}
	if pr.next >= len(pr.lines) {
		pr.err = errors.New(errors.ErrCodeMalformedGeometry, "unexpected end of problem: want %d more values", n)
		return 0, nil
	}
	l := pr.lines[pr.next]
	pr.next++
	if len(l.fields) != n {
		pr.err = malformed(l.num, "want %d values, got %d", n, len(l.fields))
		return 0, nil
	}
	return l.num, l.fields
}

func (pr *parser) floats(n int) []float64 {
	num, fields := pr.take(n)
	out := make([]float64, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			pr.err = malformed(num, "bad number %q", f)
			return out
		}
		out[i] = v
	}
	return out
}

func (pr *parser) ints(n int) []int {
	num, fields := pr.take(n)
	out := make([]int, n)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil || v < 0 {
			pr.err = malformed(num, "bad count %q", f)
			return out
		}
		out[i] = v
	}
	return out
}
