package widgets

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-kontrol/control"
	"go-kontrol/theme"
)

var levels = []rune(" ▁▂▃▄▅▆▇█")

// Level returns the block glyph for a 0-1 position
func Level(v float64) rune {
	if math.IsNaN(v) || v <= 0 {
		return levels[0]
	}
	if v >= 1 {
		return levels[len(levels)-1]
	}
	return levels[int(math.Round(v*float64(len(levels)-1)))]
}

// Meter renders a horizontal bar of width cells
func Meter(v float64, width int, fill, track rune) string {
	if v < 0 || math.IsNaN(v) {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	n := int(math.Round(v * float64(width)))
	return strings.Repeat(string(fill), n) + strings.Repeat(string(track), width-n)
}

// SurfaceState is what the surface widget shows for each channel
type SurfaceState struct {
	Values   map[int]float64 // normalized position by channel id
	Bound    map[int]bool    // channels bound by the selected owner
	Selected int             // highlighted channel id, -1 for none
	Frozen   bool
}

// RenderSurface draws the knob row above the slider row
func RenderSurface(th *theme.Theme, st SurfaceState) string {
	label := lipgloss.NewStyle().Foreground(th.Muted()).Width(9)
	sel := lipgloss.NewStyle().Foreground(th.Cursor()).Bold(true)

	row := func(kind control.Kind) []string {
		var levelsLine, marks strings.Builder
		for _, ch := range control.AllChannels() {
			if ch.Kind != kind {
				continue
			}
			v := st.Values[ch.ID()]
			glyph := lipgloss.NewStyle().Foreground(th.Color(v)).Render(string(Level(v)))

			mark := th.Symbols.Free
			if st.Bound[ch.ID()] {
				mark = th.Symbols.Bound
			}
			m := string(mark)
			if ch.ID() == st.Selected {
				m = sel.Render(m)
			}
			fmt.Fprintf(&levelsLine, "%s ", glyph)
			fmt.Fprintf(&marks, "%s ", m)
		}
		name := kind.String() + "s"
		return []string{
			label.Render(name) + levelsLine.String(),
			label.Render("") + marks.String(),
		}
	}

	lines := append(row(control.Knob), row(control.Slider)...)
	if st.Frozen {
		frozen := lipgloss.NewStyle().Foreground(th.Warning()).Render(string(th.Symbols.Frozen) + " frozen")
		lines = append(lines, frozen)
	}
	return strings.Join(lines, "\n")
}
