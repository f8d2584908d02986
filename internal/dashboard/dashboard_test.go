package dashboard

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/luki/airmap/internal/config"
	"github.com/luki/airmap/internal/device"
	"github.com/luki/airmap/internal/readings"
)

func testModel() Model {
	cfg := config.Config{APIURL: "http://example", APIKey: "k"}
	return New(cfg, nil)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm, cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDevicesMsgMergesIntoRegistry(t *testing.T) {
	m := testModel()

	m, _ = update(t, m, devicesMsg{at: time.Now(), devices: []device.Device{
		{ID: "B", LastSeen: time.UnixMilli(100)},
		{ID: "A", LastSeen: time.UnixMilli(100)},
	}})
	if m.registry.Len() != 2 {
		t.Fatalf("registry size: got %d, want 2", m.registry.Len())
	}
	if len(m.order) != 2 || m.order[0] != "A" || m.order[1] != "B" {
		t.Errorf("order: %v", m.order)
	}

	// A stale record for B must not disturb the registry.
	m, _ = update(t, m, devicesMsg{at: time.Now(), devices: []device.Device{
		{ID: "B", Lat: 99, LastSeen: time.UnixMilli(50)},
	}})
	b, _ := m.registry.Get("B")
	if b.Lat == 99 {
		t.Error("stale record replaced the stored one")
	}
}

func TestDevicesErrKeepsRegistry(t *testing.T) {
	m := testModel()
	m, _ = update(t, m, devicesMsg{at: time.Now(), devices: []device.Device{
		{ID: "A", LastSeen: time.UnixMilli(100)},
	}})

	m, _ = update(t, m, devicesErrMsg{err: errFake})
	if m.registry.Len() != 1 {
		t.Error("fetch failure must not drop known devices")
	}
	if m.err == nil {
		t.Error("error should be surfaced in the status area")
	}
}

var errFake = fakeErr{}

type fakeErr struct{}

func (fakeErr) Error() string { return "fake" }

func TestPanTriggersFetch(t *testing.T) {
	m := testModel()
	before := m.box

	m, cmd := update(t, m, key("l"))
	if cmd == nil {
		t.Error("pan must issue a device fetch command")
	}
	if m.box == before {
		t.Error("pan did not move the viewport")
	}

	// A second identical settle still re-fetches; the box is not deduped.
	_, cmd = update(t, m, key("r"))
	if cmd == nil {
		t.Error("refresh must issue a fetch even with an unchanged box")
	}
}

func TestOpenPanelLazilyCreates(t *testing.T) {
	m := testModel()
	m, _ = update(t, m, devicesMsg{at: time.Now(), devices: []device.Device{
		{ID: "A", LastSeen: time.UnixMilli(100)},
	}})

	m, cmd := update(t, m, key("enter"))
	if cmd == nil {
		t.Error("opening a panel must fetch readings")
	}
	p, ok := m.panels["A"]
	if !ok {
		t.Fatal("panel for A not created")
	}
	if m.open != "A" {
		t.Errorf("open panel: %q", m.open)
	}
	if !p.loading {
		t.Error("panel should be loading after open")
	}

	// Reopening reuses the same panel instance.
	m, _ = update(t, m, key("esc"))
	if m.open != "" {
		t.Error("esc should close the panel")
	}
	m, _ = update(t, m, key("enter"))
	if m.panels["A"] != p {
		t.Error("panel must be reused on reopen")
	}
}

func TestStepBackRefetchesEarlierWindow(t *testing.T) {
	m := testModel()
	m, _ = update(t, m, devicesMsg{at: time.Now(), devices: []device.Device{
		{ID: "A", LastSeen: time.UnixMilli(100)},
	}})
	m, _ = update(t, m, key("enter"))

	first := m.panels["A"].window
	m, cmd := update(t, m, key("["))
	if cmd == nil {
		t.Error("step back must re-fetch")
	}
	w := m.panels["A"].window
	if !w.End.Equal(first.Start) {
		t.Errorf("new end %v, want prior start %v", w.End, first.Start)
	}
	if got := first.Start.Sub(w.Start); got != readings.WindowSpan {
		t.Errorf("window moved %v, want %v", got, readings.WindowSpan)
	}
}

func TestReadingsFlow(t *testing.T) {
	m := testModel()
	m, _ = update(t, m, devicesMsg{at: time.Now(), devices: []device.Device{
		{ID: "A", LastSeen: time.UnixMilli(100)},
	}})
	m, _ = update(t, m, key("enter"))

	w := m.panels["A"].window
	ts := time.Date(2026, 3, 1, 3, 0, 0, 0, time.UTC)
	m, _ = update(t, m, readingsMsg{deviceID: "A", window: w, samples: []readings.Sample{
		{Time: ts, PM25: 35},
	}})

	p := m.panels["A"]
	if p.loading {
		t.Error("loading should clear once samples land")
	}
	if p.samples != 1 {
		t.Errorf("sample count: got %d, want 1", p.samples)
	}
	pts := p.series[readings.PM25].Points
	if len(pts) != 1 || pts[0].Value != 35 {
		t.Fatalf("PM2.5 series: %+v", pts)
	}
}

func TestReadingsErrShowsTransientNoData(t *testing.T) {
	m := testModel()
	m, _ = update(t, m, devicesMsg{at: time.Now(), devices: []device.Device{
		{ID: "A", LastSeen: time.UnixMilli(100)},
	}})
	m, _ = update(t, m, key("enter"))

	m, cmd := update(t, m, readingsErrMsg{deviceID: "A", err: errFake})
	if !m.panels["A"].noData {
		t.Error("failed fetch should raise the no-data label")
	}
	if cmd == nil {
		t.Error("a clear command should be scheduled")
	}

	m, _ = update(t, m, clearNoDataMsg{deviceID: "A"})
	if m.panels["A"].noData {
		t.Error("no-data label should clear")
	}
}

func TestCursorCycles(t *testing.T) {
	m := testModel()
	m, _ = update(t, m, devicesMsg{at: time.Now(), devices: []device.Device{
		{ID: "A", LastSeen: time.UnixMilli(1)},
		{ID: "B", LastSeen: time.UnixMilli(1)},
	}})

	if m.selectedID() != "A" {
		t.Errorf("initial selection: %q", m.selectedID())
	}
	m, _ = update(t, m, key("tab"))
	if m.selectedID() != "B" {
		t.Errorf("after tab: %q", m.selectedID())
	}
	m, _ = update(t, m, key("tab"))
	if m.selectedID() != "A" {
		t.Errorf("cursor should wrap: %q", m.selectedID())
	}
}
