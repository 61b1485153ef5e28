package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	canvas      lipgloss.Style
	stats       lipgloss.Style
	header      lipgloss.Style
	label       lipgloss.Style
	value       lipgloss.Style
	activeParam lipgloss.Style
	graph       lipgloss.Style
	help        lipgloss.Style
	running     lipgloss.Style
	paused      lipgloss.Style
	left        lipgloss.Style
	right       lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		canvas:      lipgloss.NewStyle().Padding(1, 2).Foreground(t.Accent),
		stats:       lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(t.Muted).Padding(1, 2).Width(56),
		header:      lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1),
		label:       lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:       lipgloss.NewStyle().Foreground(t.Text),
		activeParam: lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		graph:       lipgloss.NewStyle().Padding(1, 0),
		help:        lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
		running:     lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		paused:      lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		left:        lipgloss.NewStyle().Foreground(t.Left),
		right:       lipgloss.NewStyle().Foreground(t.Right),
	}
}

// CommandBar renders a command in [-1, 1] as a bar centred on zero.
func CommandBar(cmd float64, width int) string {
	half := width / 2
	if cmd > 1 {
		cmd = 1
	} else if cmd < -1 {
		cmd = -1
	}
	n := int(cmd*float64(half) + 0.5*sign(cmd))

	var b strings.Builder
	b.WriteByte('[')
	for i := -half; i < half; i++ {
		switch {
		case n < 0 && i >= n && i < 0:
			b.WriteRune('█')
		case n > 0 && i >= 0 && i < n:
			b.WriteRune('█')
		case i == 0:
			b.WriteRune('|')
		default:
			b.WriteRune('·')
		}
	}
	b.WriteByte(']')
	return b.String()
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
