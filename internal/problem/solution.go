package problem

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/log"

	"box-motion-planner/internal/workspace"
)

// WriteSolution writes the number of states followed by one line per state:
// robot x, y and theta, then each box corner, then each moving obstacle
// corner.
func WriteSolution(w io.Writer, states []workspace.State) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, len(states))
	for _, s := range states {
		bw.WriteString(formatFloat(s.Robot.X))
		for _, v := range []float64{s.Robot.Y, s.Robot.Theta} {
			bw.WriteByte(' ')
			bw.WriteString(formatFloat(v))
		}
		for _, b := range s.Boxes {
			fmt.Fprintf(bw, " %s %s", formatFloat(b.X), formatFloat(b.Y))
		}
		for _, o := range s.MovingObstacles {
			c := o.Corner()
			fmt.Fprintf(bw, " %s %s", formatFloat(c.X), formatFloat(c.Y))
		}
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write solution: %w", err)
	}
	return nil
}

// WriteSolutionFile writes states to filename.
func WriteSolutionFile(filename string, states []workspace.State, logger *log.Logger) error {
	if logger == nil {
		logger = log.Default()
	}
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := WriteSolution(f, states); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	logger.Info("solution saved", "file", filename, "states", len(states))
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
