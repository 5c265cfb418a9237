package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Pad is one cell of a rendered grid
type Pad struct {
	Color  [3]uint8
	Symbol rune
}

// RenderPad renders a single colored pad
func RenderPad(p Pad) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(p.Color)))
	return style.Render(string(p.Symbol))
}

// RenderPadGrid renders rows x cols pads, row 0 at the bottom.
// pads is indexed row*cols + col; missing cells render blank.
func RenderPadGrid(pads []Pad, rows, cols int) string {
	var lines []string
	for row := rows - 1; row >= 0; row-- {
		var line strings.Builder
		for col := 0; col < cols; col++ {
			if col > 0 {
				line.WriteString(" ")
			}
			i := row*cols + col
			if i < len(pads) {
				line.WriteString(RenderPad(pads[i]))
			} else {
				line.WriteString(" ")
			}
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// RenderLegendItem renders a single legend item: "■ Name - description"
func RenderLegendItem(p Pad, name, desc string) string {
	return fmt.Sprintf("  %s %s - %s", RenderPad(p), name, desc)
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}

func rgbToHex(c [3]uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
