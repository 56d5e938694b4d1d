package printer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Faint(true)
)

// Field is one labelled value in a Box.
type Field struct {
	Label string
	Value any
}

// Box renders a titled, bordered block of aligned label/value lines.
func Box(title string, fields ...Field) string {
	width := 0
	for _, f := range fields {
		width = max(width, lipgloss.Width(f.Label))
	}

	lines := []string{titleStyle.Render(title), ""}
	for _, f := range fields {
		label := labelStyle.Render(fmt.Sprintf("%-*s", width, f.Label))
		lines = append(lines, fmt.Sprintf("%s  %v", label, f.Value))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

// Wrap word-wraps s at width and indents every line by pad spaces.
func Wrap(s string, width int, pad uint) string {
	return indent.String(wordwrap.String(s, width), pad)
}
