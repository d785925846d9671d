package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"go.viam.com/test"

	"box-motion-planner/internal/geom"
	"box-motion-planner/internal/roadmap"
)

// settled has its only box already on its goal, so solving it needs no
// planning at all.
const settled = `0.05
0.1 0.5 0
1 0 0
0.3 0.3 0.3 0.3
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), name)
	test.That(t, os.WriteFile(filename, []byte(body), 0o644), test.ShouldBeNil)
	return filename
}

func execute(args ...string) (string, error) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)
	logger.Debug("hidden")
	test.That(t, buf.Len(), test.ShouldEqual, 0)
	logger.Info("shown")
	test.That(t, buf.String(), test.ShouldContainSubstring, "shown")
}

func TestLoggerContext(t *testing.T) {
	test.That(t, loggerFromContext(context.Background()), test.ShouldEqual, log.Default())

	l := newLogger(&bytes.Buffer{}, log.DebugLevel)
	test.That(t, loggerFromContext(withLogger(context.Background(), l)), test.ShouldEqual, l)
}

func TestParsePose(t *testing.T) {
	p, err := parsePose("0.5, 0.25,1.5")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p, test.ShouldResemble, geom.Pose{X: 0.5, Y: 0.25, Theta: 1.5})

	_, err = parsePose("0.5,0.25")
	test.That(t, err, test.ShouldNotBeNil)
	_, err = parsePose("a,b,c")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSolveCommand(t *testing.T) {
	prob := writeFile(t, "problem.txt", settled)
	out, err := execute("solve", prob, "--seed", "3")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, strings.HasPrefix(out, "1\n"), test.ShouldBeTrue)

	solution := filepath.Join(t.TempDir(), "solution.txt")
	_, err = execute("solve", prob, "-o", solution)
	test.That(t, err, test.ShouldBeNil)
	data, err := os.ReadFile(solution)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(data), test.ShouldStartWith, "1\n0.100000 0.500000 0.000000 0.300000 0.300000")
}

func TestSolveCommandErrors(t *testing.T) {
	_, err := execute("solve", filepath.Join(t.TempDir(), "missing.txt"))
	test.That(t, err, test.ShouldNotBeNil)

	bad := writeFile(t, "bad.txt", "0.05\n")
	_, err = execute("solve", bad)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "MALFORMED_GEOMETRY")

	cfg := writeFile(t, "planner.toml", "[search]\nstrategy = \"dfs\"\n")
	_, err = execute("solve", writeFile(t, "ok.txt", settled), "--config", cfg)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "INVALID_CONFIG")
}

func TestRoadmapCommand(t *testing.T) {
	prob := writeFile(t, "problem.txt", settled)
	cfg := writeFile(t, "planner.toml", "seed = 9\n\n[prm]\nsamples = 30\nneighbors = 4\n")
	out := filepath.Join(t.TempDir(), "roadmap.json")

	_, err := execute("roadmap", prob, "--config", cfg, "--goal", "0.8,0.8,0", "-o", out)
	test.That(t, err, test.ShouldBeNil)

	f, err := os.Open(out)
	test.That(t, err, test.ShouldBeNil)
	defer f.Close()
	g, err := roadmap.Load[geom.Pose](f)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, g.NumVertices(), test.ShouldEqual, 32)
	test.That(t, g.Goal(), test.ShouldResemble, geom.Pose{X: 0.8, Y: 0.8, Theta: 0})

	_, err = execute("roadmap", prob)
	test.That(t, err, test.ShouldNotBeNil)
}
