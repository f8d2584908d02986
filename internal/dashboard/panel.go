package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/luki/airmap/internal/chart"
	"github.com/luki/airmap/internal/readings"
)

// panel is the chart popup for one device. Created on the first open and
// reused afterwards; it owns the device's paging window.
type panel struct {
	deviceID string
	window   readings.Window
	series   readings.SeriesSet
	samples  int
	loading  bool
	noData   bool // transient "no data" label after a failed fetch
}

func newPanel(deviceID string, now time.Time) *panel {
	return &panel{
		deviceID: deviceID,
		window:   readings.NewWindow(now),
		series:   readings.BuildSeries(nil),
	}
}

func (p *panel) setSamples(samples []readings.Sample) {
	p.series = readings.BuildSeries(samples)
	p.samples = len(samples)
}

func (p *panel) windowLabel() string {
	start := p.window.Start.Format("Jan 2 15:04")
	if p.window.End.IsZero() {
		return start + " → now"
	}
	return start + " → " + p.window.End.Format("15:04")
}

func (p *panel) view(width int) string {
	innerWidth := width - 4
	if innerWidth < 40 {
		innerWidth = 40
	}

	labelW := 12
	valueW := 10
	chartWidth := innerWidth - labelW - valueW - 28
	if chartWidth < 15 {
		chartWidth = 15
	}

	var rows []string

	title := lipgloss.NewStyle().Bold(true).Foreground(colorChipName).Render(p.deviceID)
	windowText := lipgloss.NewStyle().Foreground(colorDim).Render("  " + p.windowLabel())
	header := title + windowText
	switch {
	case p.loading:
		header += lipgloss.NewStyle().Foreground(colorWarn).Render("  loading…")
	case p.noData:
		header += lipgloss.NewStyle().Foreground(colorCrit).Bold(true).Render("  no data")
	default:
		header += lipgloss.NewStyle().Foreground(colorDim).Render(fmt.Sprintf("  %d samples", p.samples))
	}
	rows = append(rows, header)

	dimS := lipgloss.NewStyle().Foreground(colorDim)
	valS := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	frameL := lipgloss.NewStyle().Foreground(colorBorder).Render("▕")
	frameR := lipgloss.NewStyle().Foreground(colorBorder).Render("▏")

	var lastPts []readings.Point
	for _, metric := range readings.Metrics {
		s := p.series[metric]

		label := lipgloss.NewStyle().
			Foreground(colorLabel).
			Width(labelW).
			Render(metric.String())

		value := lipgloss.NewStyle().
			Width(valueW).
			Align(lipgloss.Right).
			Render(chart.RenderValue(metric, s.Last()))

		lo, hi := chart.Range(metric, s)
		spark := chart.RenderSparkline(metric, s.Points, chartWidth, lo, hi)
		framedSpark := frameL + spark + frameR

		var stats string
		if len(s.Points) > 0 {
			stats = dimS.Render(" avg") + valS.Render(fmt.Sprintf("%6.1f", s.Avg())) +
				dimS.Render(" lo") + valS.Render(fmt.Sprintf("%6.1f", s.Min)) +
				dimS.Render(" pk") + valS.Render(fmt.Sprintf("%6.1f", s.Peak))
			lastPts = s.Points
		}

		rows = append(rows, label+" "+value+" "+framedSpark+stats)
	}

	if lastPts != nil {
		timeline := chart.RenderTimeline(lastPts, chartWidth)
		if strings.TrimSpace(timeline) != "" {
			pad := strings.Repeat(" ", labelW+valueW+2)
			rows = append(rows, pad+" "+timeline)
		}
	}

	hint := dimS.Render("[") + lipgloss.NewStyle().Foreground(colorLabel).Render(":earlier") +
		dimS.Render("  esc") + lipgloss.NewStyle().Foreground(colorLabel).Render(":close")
	rows = append(rows, hint)

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(width).
		Render(content)
}
