package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/crankshaft/internal/dashboard"
	"github.com/jask/crankshaft/internal/keymap"
	"github.com/jask/crankshaft/internal/task"
)

const (
	appName = " Crankshaft Monitor "

	// Used until the terminal reports its size.
	defaultWidth  = 80
	defaultHeight = 24

	minListWidth = 24
	noSelection  = "Select a task to view details"
)

// Render draws one full frame for s. It has no side effects; keys provides
// the bindings shown in the footer and on the Help tab and may be nil.
func Render(s dashboard.State, keys *keymap.Registry, width, height int) string {
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	if keys == nil {
		keys = keymap.NewRegistry()
	}

	header := renderHeader(s.Tab, width)
	footer := renderFooter(keys, width)
	bodyHeight := height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	var body string
	switch s.Tab {
	case dashboard.TabTasks:
		body = renderTasks(s.Tasks, width, bodyHeight)
	case dashboard.TabStatistics:
		body = renderStatistics(s.Tasks.Stats(), width)
	case dashboard.TabHelp:
		body = renderHelp(keys, width)
	}
	body = lipgloss.Place(width, bodyHeight, lipgloss.Left, lipgloss.Top, body)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func renderHeader(active dashboard.Tab, width int) string {
	tabs := make([]string, 0, len(dashboard.Tabs))
	for _, tab := range dashboard.Tabs {
		if tab == active {
			tabs = append(tabs, activeTabStyle.Render(tab.Title()))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(tab.Title()))
		}
	}
	line := headerAppStyle.Render(appName) + tabSepStyle.Render(" ") + strings.Join(tabs, tabSepStyle.Render("│"))
	return headerBarStyle.Width(width).Render(ansi.Truncate(line, width-2, ""))
}

func renderFooter(keys *keymap.Registry, width int) string {
	bg := colorMantle
	keyStyle := helpKeyStyle.Background(bg)
	descStyle := helpDescStyle.Background(bg)
	space := lipgloss.NewStyle().Background(bg).Render(" ")
	sep := lipgloss.NewStyle().Background(bg).Render("  ")

	bindings := keys.HelpBindings()
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, keyStyle.Render(h.Key)+space+descStyle.Render(h.Desc))
	}
	return headerBarStyle.Width(width).Render(ansi.Truncate(strings.Join(parts, sep), width-2, "…"))
}

func renderTasks(snap task.Snapshot, width, height int) string {
	listWidth := width * 2 / 5
	if listWidth < minListWidth {
		listWidth = minListWidth
	}
	if listWidth > width {
		listWidth = width
	}
	detailWidth := width - listWidth

	// Two border rows plus the title and separator lines.
	rows := height - 4
	if rows < 1 {
		rows = 1
	}
	list := section("Tasks", taskList(snap, listWidth-4, rows), listWidth, height)
	if detailWidth < minListWidth {
		return list
	}
	details := section("Details", taskDetails(snap, detailWidth-4), detailWidth, height)
	return lipgloss.JoinHorizontal(lipgloss.Top, list, details)
}

// section draws a titled rounded box of the given outer size.
func section(title, content string, width, height int) string {
	inner := width - 4
	if inner < 1 {
		inner = 1
	}
	head := titleStyle.Render(ansi.Truncate(title, inner, ""))
	sep := separatorStyle.Render(strings.Repeat("─", inner))
	return boxStyle.
		Width(width - 2).
		Height(height - 2).
		Render(head + "\n" + sep + "\n" + content)
}

func taskList(snap task.Snapshot, width, rows int) string {
	if len(snap.Tasks) == 0 {
		return mutedStyle.Render("No tasks")
	}

	sel := snap.SelectedIndex()
	start := 0
	if sel >= rows {
		start = sel - rows + 1
	}
	end := start + rows
	if end > len(snap.Tasks) {
		end = len(snap.Tasks)
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		t := snap.Tasks[i]
		marker := "  "
		if i == sel {
			marker = cursorStyle.Render("➤ ")
		}
		name := ansi.Truncate(fmt.Sprintf("%s %s", icon(t.Status), t.Name), width-2, "…")
		line := marker + statusStyle(t.Status).Render(name)
		if i == sel {
			line = marker + statusStyle(t.Status).Bold(true).Render(name)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func taskDetails(snap task.Snapshot, width int) string {
	t, ok := snap.SelectedTask()
	if !ok {
		return mutedStyle.Render(noSelection)
	}

	barWidth := width - 16
	if barWidth < 10 {
		barWidth = 10
	}
	lines := []string{
		field("Name", valueStyle.Render(t.Name)),
		field("ID", valueStyle.Render(t.ID)),
		field("Status", statusStyle(t.Status).Render(icon(t.Status)+" "+t.Status.Title())),
		"",
		field("Progress", gauge(barWidth, gaugeProgress, t.Progress)),
		field("CPU", gauge(barWidth, gaugeCPU, t.CPUUsage)),
		field("Memory", gauge(barWidth, gaugeMemory, t.MemoryUsage)),
	}
	for i, l := range lines {
		lines[i] = ansi.Truncate(l, width, "")
	}
	return strings.Join(lines, "\n")
}

func field(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-9s", label)) + " " + value
}

// gauge draws ratio as a bar followed by its percentage.
func gauge(width int, color lipgloss.Color, ratio float64) string {
	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	return bar.ViewAs(ratio) + " " + valueStyle.Render(fmt.Sprintf("%3.0f%%", ratio*100))
}

func renderStatistics(stats task.Stats, width int) string {
	boxWidth := width
	if boxWidth > 60 {
		boxWidth = 60
	}
	inner := boxWidth - 4

	rows := []string{
		tableHeaderStyle.Render(fmt.Sprintf("%-12s %8s %10s", "Status", "Count", "Percent")),
		separatorStyle.Render(strings.Repeat("─", min(inner, 32))),
	}
	for _, st := range task.Statuses {
		label := fmt.Sprintf("%s %-9s", icon(st), st.Title())
		rows = append(rows, statusStyle(st).Render(label)+
			valueStyle.Render(fmt.Sprintf(" %8d %9.1f%%", stats.Counts[st], stats.Percent(st))))
	}
	rows = append(rows,
		separatorStyle.Render(strings.Repeat("─", min(inner, 32))),
		focusStyle.Render(fmt.Sprintf("%-12s %8d", "Total", stats.Total)),
		"",
	)

	barWidth := inner - 20
	if barWidth < 10 {
		barWidth = 10
	}
	rows = append(rows,
		labelStyle.Render(fmt.Sprintf("%-12s", "Completion"))+" "+gauge(barWidth, gaugeProgress, stats.CompletionRate()),
		labelStyle.Render(fmt.Sprintf("%-12s", "Failure"))+" "+gauge(barWidth, gaugeFailure, stats.FailureRate()),
	)
	for i, r := range rows {
		rows[i] = ansi.Truncate(r, inner, "")
	}

	return section("Statistics", strings.Join(rows, "\n"), boxWidth, len(rows)+4)
}

func renderHelp(keys *keymap.Registry, width int) string {
	boxWidth := width
	if boxWidth > 60 {
		boxWidth = 60
	}

	lines := []string{titleStyle.Render("Key bindings")}
	for _, b := range keys.HelpBindings() {
		h := b.Help()
		lines = append(lines, "  "+helpKeyStyle.Render(fmt.Sprintf("%-16s", h.Key))+helpDescStyle.Render(h.Desc))
	}
	lines = append(lines, "", titleStyle.Render("Status icons"))
	for _, st := range task.Statuses {
		lines = append(lines, "  "+icon(st)+"  "+statusStyle(st).Render(st.Title()))
	}
	for i, l := range lines {
		lines[i] = ansi.Truncate(l, boxWidth-4, "")
	}

	return section("Help", strings.Join(lines, "\n"), boxWidth, len(lines)+4)
}
