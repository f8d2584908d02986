// Package chart renders per-metric sparklines for the device popup:
// color-coded blocks with air-quality bands, hour tick marks, and a
// timeline label row.
package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/luki/airmap/internal/readings"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// MetricColor returns the color for a metric value. Particulates follow
// the usual air-quality bands; temperature and humidity use comfort bands.
func MetricColor(m readings.Metric, v float64) lipgloss.Color {
	switch m {
	case readings.PM25:
		switch {
		case v >= 75:
			return lipgloss.Color("196")
		case v >= 35:
			return lipgloss.Color("208")
		case v >= 15:
			return lipgloss.Color("220")
		default:
			return lipgloss.Color("78")
		}
	case readings.PM10:
		switch {
		case v >= 150:
			return lipgloss.Color("196")
		case v >= 80:
			return lipgloss.Color("208")
		case v >= 30:
			return lipgloss.Color("220")
		default:
			return lipgloss.Color("78")
		}
	case readings.Temperature:
		switch {
		case v >= 33:
			return lipgloss.Color("196")
		case v >= 28:
			return lipgloss.Color("208")
		case v <= 0:
			return lipgloss.Color("39")
		default:
			return lipgloss.Color("78")
		}
	default: // humidity
		switch {
		case v >= 85:
			return lipgloss.Color("208")
		case v <= 20:
			return lipgloss.Color("220")
		default:
			return lipgloss.Color("78")
		}
	}
}

// RenderSparkline renders one metric's points as colored blocks. Hour
// boundaries are marked with a subtle pipe so a 3-hour page reads at a
// glance. Missing leading columns are padded with dashes.
func RenderSparkline(m readings.Metric, points []readings.Point, width int, rangeMin, rangeMax float64) string {
	if width <= 0 {
		return ""
	}

	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
	if len(points) == 0 {
		return dim.Render(strings.Repeat("╌", width))
	}

	if len(points) > width {
		points = points[len(points)-width:]
	}

	padLen := width - len(points)
	span := rangeMax - rangeMin
	if span <= 0 {
		span = 1
	}

	var sb strings.Builder
	for i := 0; i < padLen; i++ {
		sb.WriteString(dim.Render("╌"))
	}

	tickStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("239"))

	for i, p := range points {
		if isHourTick(points, i) {
			sb.WriteString(tickStyle.Render("│"))
			continue
		}

		norm := (p.Value - rangeMin) / span
		norm = math.Max(0, math.Min(1, norm))
		idx := int(norm * 7)
		if idx > 7 {
			idx = 7
		}

		style := lipgloss.NewStyle().Foreground(MetricColor(m, p.Value))
		sb.WriteString(style.Render(string(sparkBlocks[idx])))
	}

	return sb.String()
}

func isHourTick(points []readings.Point, i int) bool {
	if i == 0 {
		return false
	}
	p, prev := points[i], points[i-1]
	if p.Time.IsZero() || prev.Time.IsZero() {
		return false
	}
	return p.Time.Hour() != prev.Time.Hour()
}

// RenderTimeline renders HH:MM labels under the sparkline at each hour
// tick position.
func RenderTimeline(points []readings.Point, width int) string {
	if len(points) == 0 || width <= 0 {
		return ""
	}

	if len(points) > width {
		points = points[len(points)-width:]
	}
	padLen := width - len(points)

	line := make([]rune, width)
	for i := range line {
		line[i] = ' '
	}

	type tick struct {
		pos   int
		label string
	}
	var ticks []tick
	for i, p := range points {
		if isHourTick(points, i) {
			ticks = append(ticks, tick{pos: padLen + i, label: p.Time.Format("15:04")})
		}
	}

	lastEnd := -1
	for _, t := range ticks {
		start := t.pos - 2
		if start < 0 {
			start = 0
		}
		end := start + len(t.label)
		if end > width {
			continue
		}
		if start <= lastEnd+1 {
			continue
		}
		for j, ch := range t.label {
			line[start+j] = ch
		}
		lastEnd = end
	}

	return lipgloss.NewStyle().Foreground(lipgloss.Color("239")).Render(string(line))
}

// RenderValue renders a metric value with its unit, color-coded.
func RenderValue(m readings.Metric, v float64) string {
	s := fmt.Sprintf("%5.1f%s", v, m.Unit())
	return lipgloss.NewStyle().Foreground(MetricColor(m, v)).Render(s)
}

// Range returns chart bounds for a series: the data range padded a little
// so the blocks never hug the frame, floored at zero for non-negative
// metrics.
func Range(m readings.Metric, s *readings.Series) (lo, hi float64) {
	if s == nil || len(s.Points) == 0 {
		return 0, 1
	}
	pad := (s.Peak - s.Min) * 0.1
	if pad < 1 {
		pad = 1
	}
	lo = s.Min - pad
	if m != readings.Temperature && lo < 0 {
		lo = 0
	}
	hi = s.Peak + pad
	return lo, hi
}
