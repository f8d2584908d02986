package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/luki/airmap/internal/mapview"
)

// ── Color palette ────────────────────────────────────────────────────

var (
	colorTitleBg  = lipgloss.Color("17")
	colorTitleFg  = lipgloss.Color("51")
	colorBorder   = lipgloss.Color("62")
	colorChipName = lipgloss.Color("147")
	colorLabel    = lipgloss.Color("252")
	colorDim      = lipgloss.Color("240")
	colorFooterBg = lipgloss.Color("235")
	colorWarn     = lipgloss.Color("220")
	colorCrit     = lipgloss.Color("196")
)

// ── View ─────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.width == 0 {
		return "  Loading..."
	}

	contentWidth := m.width - 2
	if contentWidth < 60 {
		contentWidth = 60
	}

	var sections []string

	sections = append(sections, m.renderTitleBar(contentWidth))

	if m.err != nil {
		errLine := lipgloss.NewStyle().
			Foreground(colorCrit).
			Bold(true).
			Padding(0, 1).
			Render(fmt.Sprintf("ERROR: %v", m.err))
		sections = append(sections, errLine)
	}

	sections = append(sections, m.renderMap(contentWidth))

	if p, ok := m.panels[m.open]; ok && m.open != "" {
		sections = append(sections, p.view(contentWidth))
	}

	sections = append(sections, m.renderFooter(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTitleBar(width int) string {
	logo := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorTitleFg).
		Render("AIRMAP")

	var statusParts []string

	count := lipgloss.NewStyle().
		Foreground(colorDim).
		Render(fmt.Sprintf("%d devices", m.registry.Len()))
	statusParts = append(statusParts, count)

	if !m.lastSet.IsZero() {
		ts := lipgloss.NewStyle().
			Foreground(colorDim).
			Render("updated " + m.lastSet.Format("15:04:05"))
		statusParts = append(statusParts, ts)
	}

	if id := m.selectedID(); id != "" {
		sel := lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true).
			Render(id)
		statusParts = append(statusParts, sel)
	}

	sep := lipgloss.NewStyle().Foreground(colorDim).Render(" │ ")
	right := strings.Join(statusParts, sep)

	gap := width - lipgloss.Width(logo) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}
	filler := strings.Repeat(" ", gap)

	return lipgloss.NewStyle().
		Background(colorTitleBg).
		Width(width).
		Padding(0, 1).
		Render(logo + filler + right)
}

func (m Model) renderMap(width int) string {
	cols := width - 4
	if cols < 40 {
		cols = 40
	}

	// Reserve vertical room for the chrome, and for the popup when open.
	rows := m.height - 7
	if m.open != "" {
		rows -= 9
	}
	if rows < 6 {
		rows = 6
	}

	pane := mapview.Render(mapview.Params{
		Box:      m.box,
		Devices:  m.registry.Devices(),
		Selected: m.selectedID(),
		Home:     m.home,
		Cols:     cols,
		Rows:     rows,
		Now:      time.Now(),
	})

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(width).
		Render(pane)
}

func (m Model) renderFooter(width int) string {
	dimS := lipgloss.NewStyle().Foreground(colorDim)
	keyS := lipgloss.NewStyle().Foreground(colorLabel)

	keys := dimS.Render("q") + keyS.Render(":quit") +
		dimS.Render("  ←↑↓→") + keyS.Render(":pan") +
		dimS.Render("  +/-") + keyS.Render(":zoom") +
		dimS.Render("  tab") + keyS.Render(":select") +
		dimS.Render("  enter") + keyS.Render(":chart") +
		dimS.Render("  [") + keyS.Render(":earlier") +
		dimS.Render("  r") + keyS.Render(":refresh")

	c := m.box.Center()
	pos := dimS.Render(fmt.Sprintf("%.4f, %.4f", c.Lat, c.Lon))

	gap := width - lipgloss.Width(keys) - lipgloss.Width(pos) - 4
	if gap < 1 {
		gap = 1
	}
	filler := strings.Repeat(" ", gap)

	return lipgloss.NewStyle().
		Background(colorFooterBg).
		Width(width).
		Padding(0, 1).
		Render(keys + filler + pos)
}
