package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// role is what a piece of report text means; each role has one colour
type role int

const (
	roleHeader role = iota
	roleMode
	roleOK
	roleFailed
	roleTiming
	roleSlow
)

var palette = map[role]*color.Color{
	roleHeader: forced(color.FgWhite, color.Bold),
	roleMode:   forced(color.FgCyan, color.Bold),
	roleOK:     forced(color.FgGreen),
	roleFailed: forced(color.FgRed, color.Bold),
	roleTiming: forced(color.FgBlue),
	roleSlow:   forced(color.FgYellow),
}

// forced ignores color.NoColor, which only looks at stdout; the painter
// decides per writer instead
func forced(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	c.EnableColor()
	return c
}

// painter colours report text when the destination is a terminal
type painter struct {
	enabled bool
}

func newPainter(w io.Writer, noColor bool) painter {
	return painter{enabled: !noColor && isTTY(w)}
}

func (p painter) paint(r role, format string, a ...interface{}) string {
	s := fmt.Sprintf(format, a...)
	if !p.enabled {
		return s
	}
	return palette[r].Sprint(s)
}

// status paints text as a success or a failure
func (p painter) status(failed bool, format string, a ...interface{}) string {
	if failed {
		return p.paint(roleFailed, format, a...)
	}
	return p.paint(roleOK, format, a...)
}

func (p painter) headers(names ...string) []string {
	if !p.enabled {
		return names
	}
	out := make([]string, len(names))
	for i, h := range names {
		out[i] = p.paint(roleHeader, "%s", h)
	}
	return out
}

func isTTY(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}
