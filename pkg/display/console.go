package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var headerStyle = lipgloss.NewStyle().Bold(true)

// Console writes plain command output, such as listings, to a writer.
// Immutable
type Console struct {
	out io.Writer
}

// NewWriterConsole creates a Console that writes to the provided io.Writer.
func NewWriterConsole(w io.Writer) *Console {
	return &Console{out: w}
}

// Print writes a message directly to the output writer.
func (c *Console) Print(msg string) {
	fmt.Fprint(c.out, msg)
}

// Table renders rows under a bold header, padding each column to its
// widest cell.
func (c *Console) Table(header []string, rows [][]string) {
	if len(header) == 0 {
		return
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var sb strings.Builder
	for i, h := range header {
		fmt.Fprintf(&sb, "%-*s  ", widths[i], h)
	}
	c.Print(headerStyle.Render(strings.TrimRight(sb.String(), " ")) + "\n")

	totalWidth := 0
	for _, w := range widths {
		totalWidth += w + 2
	}
	c.Print(strings.Repeat("-", totalWidth-2) + "\n")

	for _, row := range rows {
		sb.Reset()
		for i, cell := range row {
			if i < len(widths) {
				fmt.Fprintf(&sb, "%-*s  ", widths[i], cell)
			}
		}
		c.Print(strings.TrimRight(sb.String(), " ") + "\n")
	}
}
