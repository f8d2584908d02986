// Package readings models sensor samples, the 3-hour query windows the
// chart pages through, and the per-metric series the chart renders.
package readings

import (
	"math"
	"sort"
	"time"
)

const (
	// WindowSpan is the width of one historical chart page.
	WindowSpan = 3 * time.Hour

	// FetchLimit caps the number of samples requested per window.
	FetchLimit = 500

	// The feed reports epochs nine hours behind the display zone (KST),
	// so the first window ends skewed back and chart labels shift forward.
	clockSkew     = 9 * time.Hour
	displayOffset = 9 * time.Hour
)

// Sample is one reading from a device: a timestamp plus one value per
// metric. Samples live only for a single fetch/render cycle.
type Sample struct {
	Time        time.Time
	Temperature float64
	Humidity    float64
	PM10        float64
	PM25        float64
}

// Metric identifies one of the four plotted quantities.
type Metric int

const (
	Temperature Metric = iota
	Humidity
	PM10
	PM25
)

// Metrics lists all metrics in render order.
var Metrics = [...]Metric{Temperature, Humidity, PM10, PM25}

func (m Metric) String() string {
	switch m {
	case Temperature:
		return "temperature"
	case Humidity:
		return "humidity"
	case PM10:
		return "PM10"
	case PM25:
		return "PM2.5"
	}
	return "unknown"
}

// Unit returns the display unit for the metric.
func (m Metric) Unit() string {
	switch m {
	case Temperature:
		return "°C"
	case Humidity:
		return "%"
	default:
		return "µg/m³"
	}
}

// value extracts this metric's reading from a sample.
func (m Metric) value(s Sample) float64 {
	switch m {
	case Temperature:
		return s.Temperature
	case Humidity:
		return s.Humidity
	case PM10:
		return s.PM10
	}
	return s.PM25
}

// Window is a [Start, End) range over which samples are requested. A zero
// End leaves the window open, which the first page of a fresh chart does.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow returns the default first page: WindowSpan wide, ending at
// now minus the feed's clock skew, with an open end.
func NewWindow(now time.Time) Window {
	return Window{Start: now.Add(-clockSkew - WindowSpan)}
}

// StepBack returns the previous page: the new end is this window's start
// and the start moves back by exactly WindowSpan. Repeating it pages
// backward without bound.
func (w Window) StepBack() Window {
	return Window{Start: w.Start.Add(-WindowSpan), End: w.Start}
}

// Point is a single chart point.
type Point struct {
	Time  time.Time
	Value float64
}

// Series holds the chronological points for one metric along with running
// min/peak stats for the chart's stats row.
type Series struct {
	Points []Point
	Min    float64
	Peak   float64
	cap    int
}

// NewSeries creates a series bounded at the given capacity; older points
// fall off the front once it is full.
func NewSeries(capacity int) *Series {
	return &Series{
		Points: make([]Point, 0, capacity),
		Min:    math.MaxFloat64,
		Peak:   -math.MaxFloat64,
		cap:    capacity,
	}
}

// Push appends a point, evicting the oldest when at capacity.
func (s *Series) Push(v float64, t time.Time) {
	p := Point{Time: t, Value: v}
	if s.cap > 0 && len(s.Points) >= s.cap {
		copy(s.Points, s.Points[1:])
		s.Points[len(s.Points)-1] = p
	} else {
		s.Points = append(s.Points, p)
	}
	if v < s.Min {
		s.Min = v
	}
	if v > s.Peak {
		s.Peak = v
	}
}

// Last returns the most recent value, or 0 when empty.
func (s *Series) Last() float64 {
	if len(s.Points) == 0 {
		return 0
	}
	return s.Points[len(s.Points)-1].Value
}

// Avg returns the mean over all stored points.
func (s *Series) Avg() float64 {
	if len(s.Points) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range s.Points {
		sum += p.Value
	}
	return sum / float64(len(s.Points))
}

// SeriesSet is one series per metric.
type SeriesSet map[Metric]*Series

// BuildSeries fans each sample out into one (metric, value, time) tuple
// per metric, groups by metric, and orders chronologically. Chart
// timestamps carry the display offset so labels land in the feed's zone.
func BuildSeries(samples []Sample) SeriesSet {
	sorted := make([]Sample, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	set := make(SeriesSet, len(Metrics))
	for _, m := range Metrics {
		set[m] = NewSeries(FetchLimit)
	}
	for _, s := range sorted {
		t := s.Time.Add(displayOffset)
		for _, m := range Metrics {
			set[m].Push(m.value(s), t)
		}
	}
	return set
}
