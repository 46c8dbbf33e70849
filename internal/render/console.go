package render

import (
	"fmt"
	"io"
	"math"
	"sort"

	"recsim/domain"
)

const (
	ansiGreen = "\033[32m"
	ansiRed   = "\033[31m"
	ansiCyan  = "\033[96m"
	ansiDim   = "\033[2m"
	ansiReset = "\033[0m"

	blankCell = "·"
)

// Console renders read-only views over already-computed run state. Purely
// observational; nothing here feeds back into the engine.
type Console struct {
	w     io.Writer
	color bool
}

func NewConsole(w io.Writer, color bool) *Console {
	return &Console{w: w, color: color}
}

func (c *Console) paint(code, s string) string {
	if !c.color {
		return s
	}
	return code + s + ansiReset
}

func (c *Console) signColored(v float64, text string) string {
	if v > 0 {
		return c.paint(ansiGreen, text)
	}
	if v < 0 {
		return c.paint(ansiRed, text)
	}
	return text
}

// UserLine prints one user's reviews, their sum, and generated vs optimal
// utility: [ ·  1  · -1 ... ] = sum → actual (optimal)
func (c *Console) UserLine(line domain.UserLine) {
	fmt.Fprintf(c.w, "user %3d [", line.Index)
	for _, score := range line.Scores {
		if math.IsNaN(score) {
			fmt.Fprintf(c.w, " %s ", blankCell)
			continue
		}
		fmt.Fprintf(c.w, "%s", c.signColored(score, fmt.Sprintf("%2.0f ", score)))
	}
	served := line.ActualUtility - line.OptimalUtility
	fmt.Fprintf(c.w, "] = %s → %s (%.1f)\n",
		c.signColored(line.ReviewSum, fmt.Sprintf("%.0f", line.ReviewSum)),
		c.signColored(served, fmt.Sprintf("%.1f", line.ActualUtility)),
		line.OptimalUtility,
	)
}

// RunSummary prints the flat metric record of one run, sorted by name.
func (c *Console) RunSummary(report domain.RunReport) {
	header := fmt.Sprintf("run %d (seed %d)", report.Run, report.Seed)
	fmt.Fprintf(c.w, "\n%s\n", c.paint(ansiCyan, header))

	if report.Failed {
		fmt.Fprintf(c.w, "  %s: %s\n", c.paint(ansiRed, "FAILED"), report.FailMsg)
		return
	}

	names := make([]string, 0, len(report.Metrics))
	for name := range report.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		m := report.Metrics[name]
		if !m.Defined {
			fmt.Fprintf(c.w, "  %-45s %s\n", name, c.paint(ansiDim, "undefined"))
			continue
		}
		fmt.Fprintf(c.w, "  %-45s %.4f\n", name, m.Value)
	}
}

// Tick prints a live progress marker for one tick.
func (c *Console) Tick(ev domain.TickEvent) {
	fmt.Fprintf(c.w, "%s\n", c.paint(ansiDim, fmt.Sprintf(
		"run %d tick %d: %d users, %d reviews",
		ev.Run, ev.Tick, ev.UsersProcessed, ev.ReviewsWritten,
	)))
}
