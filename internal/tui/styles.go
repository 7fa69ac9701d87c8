package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/crankshaft/internal/task"
)

// Catppuccin Mocha.
const (
	colorRed      = lipgloss.Color("#f38ba8")
	colorPeach    = lipgloss.Color("#fab387")
	colorYellow   = lipgloss.Color("#f9e2af")
	colorGreen    = lipgloss.Color("#a6e3a1")
	colorTeal     = lipgloss.Color("#94e2d5")
	colorBlue     = lipgloss.Color("#89b4fa")
	colorLavender = lipgloss.Color("#b4befe")
	colorPink     = lipgloss.Color("#f5c2e7")
	colorText     = lipgloss.Color("#cdd6f4")
	colorSubtext0 = lipgloss.Color("#a6adc8")
	colorOverlay0 = lipgloss.Color("#6c7086")
	colorOverlay1 = lipgloss.Color("#7f849c")
	colorSurface0 = lipgloss.Color("#313244")
	colorSurface1 = lipgloss.Color("#45475a")
	colorSurface2 = lipgloss.Color("#585b70")
	colorMantle   = lipgloss.Color("#181825")
)

const (
	colorBrand  = colorBlue
	colorAccent = colorPink
	colorFocus  = colorLavender
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(colorBrand).Bold(true)

	headerBarStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorMantle).
			Padding(0, 1)

	headerAppStyle = lipgloss.NewStyle().
			Foreground(colorBrand).
			Background(colorMantle).
			Bold(true)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Background(colorSurface0).
			Bold(true).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorOverlay1).
				Background(colorMantle).
				Padding(0, 1)

	tabSepStyle = lipgloss.NewStyle().
			Foreground(colorOverlay0).
			Background(colorMantle)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface2).
			Padding(0, 1)

	labelStyle  = lipgloss.NewStyle().Foreground(colorSubtext0)
	valueStyle  = lipgloss.NewStyle().Foreground(colorText)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorOverlay0).Italic(true)
	cursorStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	focusStyle  = lipgloss.NewStyle().Foreground(colorFocus).Bold(true)

	helpKeyStyle  = lipgloss.NewStyle().Foreground(colorTeal).Bold(true)
	helpDescStyle = lipgloss.NewStyle().Foreground(colorSubtext0)

	tableHeaderStyle = lipgloss.NewStyle().Foreground(colorSubtext0).Bold(true)
	separatorStyle   = lipgloss.NewStyle().Foreground(colorSurface1)
)

// statusColor maps each status to its palette entry.
var statusColor = map[task.Status]lipgloss.Color{
	task.StatusPending:   colorYellow,
	task.StatusRunning:   colorBlue,
	task.StatusCompleted: colorGreen,
	task.StatusFailed:    colorRed,
}

var statusIcon = map[task.Status]string{
	task.StatusPending:   "⏳",
	task.StatusRunning:   "▶️",
	task.StatusCompleted: "✅",
	task.StatusFailed:    "❌",
}

func statusStyle(s task.Status) lipgloss.Style {
	c, ok := statusColor[s]
	if !ok {
		c = colorText
	}
	return lipgloss.NewStyle().Foreground(c)
}

func icon(s task.Status) string {
	if i, ok := statusIcon[s]; ok {
		return i
	}
	return "?"
}

// gauge colors, one per metric in the details pane.
var (
	gaugeProgress = colorGreen
	gaugeCPU      = colorPeach
	gaugeMemory   = colorTeal
	gaugeFailure  = colorRed
)
