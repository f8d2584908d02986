// Package mapview renders the registry's devices as markers on a cell
// grid covering the current bounding box, with freshness coloring, an
// optional home position with accuracy circle, and edge coordinates.
package mapview

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/luki/airmap/internal/device"
	"github.com/luki/airmap/internal/geo"
)

const (
	markerRune   = '●' // ●
	selectedRune = '◉' // ◉
	homeRune     = '⌂' // ⌂
	circleRune   = '·'
	gridRune     = ' '
)

var (
	styleFresh    = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	styleAging    = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	styleStale    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleSelected = lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true)
	styleHome     = lipgloss.NewStyle().Foreground(lipgloss.Color("147"))
	styleCircle   = lipgloss.NewStyle().Foreground(lipgloss.Color("237"))
	styleEdge     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Home is the user's geolocated position and its accuracy radius.
type Home struct {
	Point     geo.Point
	AccuracyM float64
}

// Params describes one frame of the map pane.
type Params struct {
	Box      geo.BoundingBox
	Devices  []device.Device
	Selected string // device ID under the cursor, "" for none
	Home     *Home
	Cols     int
	Rows     int
	Now      time.Time
}

type cell struct {
	r     rune
	style lipgloss.Style
}

// Render draws the map pane as Rows lines of Cols cells, followed by a
// coordinate footer line.
func Render(p Params) string {
	if p.Cols < 1 || p.Rows < 1 {
		return ""
	}

	grid := make([][]cell, p.Rows)
	for y := range grid {
		grid[y] = make([]cell, p.Cols)
		for x := range grid[y] {
			grid[y][x] = cell{r: gridRune}
		}
	}

	if p.Home != nil {
		drawHome(grid, p)
	}

	// Selected marker drawn last so it always wins the cell.
	var selected *device.Device
	for i := range p.Devices {
		d := p.Devices[i]
		if d.ID == p.Selected {
			selected = &p.Devices[i]
			continue
		}
		if col, row, ok := p.Box.Cell(geo.Point{Lat: d.Lat, Lon: d.Lon}, p.Cols, p.Rows); ok {
			grid[row][col] = cell{r: markerRune, style: freshnessStyle(d.LastSeen, p.Now)}
		}
	}
	if selected != nil {
		if col, row, ok := p.Box.Cell(geo.Point{Lat: selected.Lat, Lon: selected.Lon}, p.Cols, p.Rows); ok {
			grid[row][col] = cell{r: selectedRune, style: styleSelected}
		}
	}

	var sb strings.Builder
	for y, rowCells := range grid {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for _, c := range rowCells {
			if c.r == gridRune {
				sb.WriteRune(c.r)
				continue
			}
			sb.WriteString(c.style.Render(string(c.r)))
		}
	}

	sb.WriteByte('\n')
	sb.WriteString(footer(p))
	return sb.String()
}

func drawHome(grid [][]cell, p Params) {
	latDeg, lonDeg := geo.DegreesForMeters(p.Home.AccuracyM, p.Home.Point.Lat)

	// Accuracy circle first so the home marker overdraws it.
	for i := 0; i < 64; i++ {
		angle := float64(i) * 2 * math.Pi / 64
		pt := geo.Point{
			Lat: p.Home.Point.Lat + latDeg*math.Sin(angle),
			Lon: p.Home.Point.Lon + lonDeg*math.Cos(angle),
		}
		if col, row, ok := p.Box.Cell(pt, p.Cols, p.Rows); ok {
			grid[row][col] = cell{r: circleRune, style: styleCircle}
		}
	}
	if col, row, ok := p.Box.Cell(p.Home.Point, p.Cols, p.Rows); ok {
		grid[row][col] = cell{r: homeRune, style: styleHome}
	}
}

func freshnessStyle(lastSeen, now time.Time) lipgloss.Style {
	age := now.Sub(lastSeen)
	switch {
	case age < 10*time.Minute:
		return styleFresh
	case age < time.Hour:
		return styleAging
	default:
		return styleStale
	}
}

func footer(p Params) string {
	c := p.Box.Center()
	visible := 0
	for _, d := range p.Devices {
		if p.Box.Contains(geo.Point{Lat: d.Lat, Lon: d.Lon}) {
			visible++
		}
	}
	return styleEdge.Render(fmt.Sprintf("center %.4f,%.4f  span %.3f°×%.3f°  %d/%d in view",
		c.Lat, c.Lon, p.Box.Height(), p.Box.Width(), visible, len(p.Devices)))
}
