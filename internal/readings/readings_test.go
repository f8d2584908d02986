package readings

import (
	"math/rand"
	"testing"
	"time"
)

func TestNewWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	w := NewWindow(now)

	wantStart := now.Add(-clockSkew - WindowSpan)
	if !w.Start.Equal(wantStart) {
		t.Errorf("start: got %v, want %v", w.Start, wantStart)
	}
	if !w.End.IsZero() {
		t.Errorf("first window must have an open end, got %v", w.End)
	}
}

func TestStepBack(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	w := NewWindow(now)

	// Each step moves strictly backward by exactly the window span and
	// sets the new end to the prior start, indefinitely.
	for i := 0; i < 10; i++ {
		prev := w
		w = w.StepBack()

		if !w.End.Equal(prev.Start) {
			t.Fatalf("step %d: end %v, want prior start %v", i, w.End, prev.Start)
		}
		if got := prev.Start.Sub(w.Start); got != WindowSpan {
			t.Fatalf("step %d: moved %v, want %v", i, got, WindowSpan)
		}
	}
}

func TestBuildSeriesFanOut(t *testing.T) {
	ts := time.Date(2026, 3, 1, 3, 0, 0, 0, time.UTC)
	set := BuildSeries([]Sample{{
		Time:        ts,
		Temperature: 21.5,
		Humidity:    40,
		PM10:        50,
		PM25:        35,
	}})

	for _, m := range Metrics {
		s := set[m]
		if len(s.Points) != 1 {
			t.Fatalf("%s: got %d points, want 1", m, len(s.Points))
		}
	}

	// One reading with pm25=35 at T yields exactly one PM2.5 point at
	// (T + 9h, 35).
	p := set[PM25].Points[0]
	if !p.Time.Equal(ts.Add(9 * time.Hour)) {
		t.Errorf("PM2.5 point time: got %v, want %v", p.Time, ts.Add(9*time.Hour))
	}
	if p.Value != 35 {
		t.Errorf("PM2.5 point value: got %v, want 35", p.Value)
	}
	if set[Temperature].Points[0].Value != 21.5 {
		t.Errorf("temperature value: got %v", set[Temperature].Points[0].Value)
	}
}

func TestBuildSeriesChronological(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	var samples []Sample
	for i := 0; i < 50; i++ {
		samples = append(samples, Sample{
			Time: base.Add(time.Duration(i) * time.Minute),
			PM25: float64(i),
		})
	}
	rng := rand.New(rand.NewSource(7))
	rng.Shuffle(len(samples), func(i, j int) { samples[i], samples[j] = samples[j], samples[i] })

	set := BuildSeries(samples)
	pts := set[PM25].Points
	if len(pts) != 50 {
		t.Fatalf("got %d points, want 50", len(pts))
	}
	for i := 1; i < len(pts); i++ {
		if pts[i].Time.Before(pts[i-1].Time) {
			t.Fatalf("points out of order at %d: %v before %v", i, pts[i].Time, pts[i-1].Time)
		}
	}
}

func TestSeriesStatsAndCapacity(t *testing.T) {
	s := NewSeries(5)
	now := time.Now()
	for i := 0; i < 7; i++ {
		s.Push(float64(30+i), now.Add(time.Duration(i)*time.Second))
	}

	if len(s.Points) != 5 {
		t.Errorf("expected 5 points, got %d", len(s.Points))
	}
	if s.Last() != 36.0 {
		t.Errorf("Last(): got %f, want 36.0", s.Last())
	}
	if s.Min != 30.0 {
		t.Errorf("Min: got %f, want 30.0", s.Min)
	}
	if s.Peak != 36.0 {
		t.Errorf("Peak: got %f, want 36.0", s.Peak)
	}
	if got := s.Avg(); got != 34.0 {
		t.Errorf("Avg over retained points: got %f, want 34.0", got)
	}
}

func TestMetricLabels(t *testing.T) {
	tests := []struct {
		m          Metric
		name, unit string
	}{
		{Temperature, "temperature", "°C"},
		{Humidity, "humidity", "%"},
		{PM10, "PM10", "µg/m³"},
		{PM25, "PM2.5", "µg/m³"},
	}
	for _, tt := range tests {
		if tt.m.String() != tt.name {
			t.Errorf("String(): got %q, want %q", tt.m.String(), tt.name)
		}
		if tt.m.Unit() != tt.unit {
			t.Errorf("%s Unit(): got %q, want %q", tt.name, tt.m.Unit(), tt.unit)
		}
	}
}
