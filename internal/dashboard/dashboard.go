// Package dashboard implements the map dashboard TUI: a pannable map of
// sensor devices with a per-device popup chart, built in the BubbleTea
// Model/Update/View style. All state lives on the UI loop; network calls
// run as asynchronous commands and land as messages.
package dashboard

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/luki/airmap/internal/api"
	"github.com/luki/airmap/internal/config"
	"github.com/luki/airmap/internal/device"
	"github.com/luki/airmap/internal/geo"
	"github.com/luki/airmap/internal/mapview"
	"github.com/luki/airmap/internal/readings"
)

const (
	// Defaults for the opening viewport when no home position is set.
	defaultLat     = 37.5665
	defaultLon     = 126.978
	defaultLatSpan = 0.12
	defaultLonSpan = 0.24

	panFraction  = 0.25
	zoomInFactor = 0.5
	refreshEvery = 5 * time.Minute // aligned to the cache-token bucket

	noDataFor      = 2 * time.Second
	requestTimeout = 15 * time.Second
)

// ── Messages ─────────────────────────────────────────────────────────

type devicesMsg struct {
	devices []device.Device
	at      time.Time
}

type devicesErrMsg struct{ err error }

type readingsMsg struct {
	deviceID string
	window   readings.Window
	samples  []readings.Sample
}

type readingsErrMsg struct {
	deviceID string
	err      error
}

type clearNoDataMsg struct{ deviceID string }

type refreshTickMsg time.Time

// ── Model ────────────────────────────────────────────────────────────

// Model is the BubbleTea model for the dashboard.
type Model struct {
	client   *api.Client
	box      geo.BoundingBox
	registry *device.Registry
	home     *mapview.Home

	order  []string // device IDs in render order
	cursor int      // index into order

	panels  map[string]*panel // chart panels, created on first open
	open    string            // device ID of the open panel, "" for none
	width   int
	height  int
	err     error
	lastSet time.Time // time of the last applied device list
}

// New builds the initial model. The map opens on the configured home
// position when present, otherwise on the default center.
func New(cfg config.Config, client *api.Client) Model {
	center := geo.Point{Lat: defaultLat, Lon: defaultLon}
	var home *mapview.Home
	if cfg.HasHome {
		center = geo.Point{Lat: cfg.HomeLat, Lon: cfg.HomeLon}
		home = &mapview.Home{Point: center, AccuracyM: cfg.HomeAccuracyM}
	}
	return Model{
		client:   client,
		box:      geo.BoxAround(center, defaultLatSpan, defaultLonSpan),
		registry: device.NewRegistry(),
		home:     home,
		panels:   make(map[string]*panel),
	}
}

// Run launches the dashboard.
func Run(cfg config.Config, client *api.Client) error {
	p := tea.NewProgram(New(cfg, client), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// ── Commands ─────────────────────────────────────────────────────────

func (m Model) fetchDevicesCmd() tea.Cmd {
	client, box := m.client, m.box
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		devs, err := client.FetchDevices(ctx, box)
		if err != nil {
			return devicesErrMsg{err}
		}
		return devicesMsg{devices: devs, at: time.Now()}
	}
}

func (m Model) fetchReadingsCmd(deviceID string, w readings.Window) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		samples, err := client.FetchReadings(ctx, deviceID, w)
		if err != nil {
			return readingsErrMsg{deviceID: deviceID, err: err}
		}
		return readingsMsg{deviceID: deviceID, window: w, samples: samples}
	}
}

func clearNoDataCmd(deviceID string) tea.Cmd {
	return tea.Tick(noDataFor, func(time.Time) tea.Msg {
		return clearNoDataMsg{deviceID: deviceID}
	})
}

// refreshTickCmd fires at the next cache-bucket boundary, when a new
// token makes a re-fetch worthwhile.
func refreshTickCmd(now time.Time) tea.Cmd {
	next := time.UnixMilli(api.CacheToken(now)).Add(refreshEvery)
	return tea.Tick(time.Until(next), func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}

// ── Init / Update ────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchDevicesCmd(), refreshTickCmd(time.Now()))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case devicesMsg:
		for _, d := range msg.devices {
			m.registry.Apply(d)
		}
		m.rebuildOrder()
		m.lastSet = msg.at
		m.err = nil

	case devicesErrMsg:
		// Collapse to "no usable data": keep what we have, note the error.
		m.err = msg.err

	case readingsMsg:
		if p, ok := m.panels[msg.deviceID]; ok {
			p.loading = false
			p.noData = false
			p.window = msg.window
			p.setSamples(msg.samples)
		}

	case readingsErrMsg:
		if p, ok := m.panels[msg.deviceID]; ok {
			p.loading = false
			p.noData = true
			return m, clearNoDataCmd(msg.deviceID)
		}

	case clearNoDataMsg:
		if p, ok := m.panels[msg.deviceID]; ok {
			p.noData = false
		}

	case refreshTickMsg:
		return m, tea.Batch(m.fetchDevicesCmd(), refreshTickCmd(time.Time(msg)))
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	// Pan settles the view; every settle re-publishes the box and
	// re-fetches, with no dedup of identical boxes.
	case "up", "k":
		m.box = m.box.Pan(panFraction, 0)
		return m, m.fetchDevicesCmd()
	case "down", "j":
		m.box = m.box.Pan(-panFraction, 0)
		return m, m.fetchDevicesCmd()
	case "left", "h":
		m.box = m.box.Pan(0, -panFraction)
		return m, m.fetchDevicesCmd()
	case "right", "l":
		m.box = m.box.Pan(0, panFraction)
		return m, m.fetchDevicesCmd()
	case "+", "=":
		m.box = m.box.Zoom(zoomInFactor)
		return m, m.fetchDevicesCmd()
	case "-":
		m.box = m.box.Zoom(1 / zoomInFactor)
		return m, m.fetchDevicesCmd()

	case "tab", "n":
		if len(m.order) > 0 {
			m.cursor = (m.cursor + 1) % len(m.order)
		}
	case "shift+tab", "N":
		if len(m.order) > 0 {
			m.cursor = (m.cursor - 1 + len(m.order)) % len(m.order)
		}

	case "enter":
		return m.openPanel()
	case "esc":
		m.open = ""

	case "[":
		// Page the open chart one window back and re-fetch.
		if p, ok := m.panels[m.open]; ok && m.open != "" {
			p.window = p.window.StepBack()
			p.loading = true
			return m, m.fetchReadingsCmd(p.deviceID, p.window)
		}

	case "r":
		return m, m.fetchDevicesCmd()
	}

	return m, nil
}

// openPanel lazily creates the chart panel for the device under the
// cursor and kicks off its first readings fetch. Reopening an existing
// panel re-fetches its current window.
func (m Model) openPanel() (tea.Model, tea.Cmd) {
	id := m.selectedID()
	if id == "" {
		return m, nil
	}
	p, ok := m.panels[id]
	if !ok {
		p = newPanel(id, time.Now())
		m.panels[id] = p
	}
	m.open = id
	p.loading = true
	return m, m.fetchReadingsCmd(id, p.window)
}

func (m *Model) rebuildOrder() {
	devs := m.registry.Devices()
	m.order = m.order[:0]
	for _, d := range devs {
		m.order = append(m.order, d.ID)
	}
	if m.cursor >= len(m.order) {
		m.cursor = 0
	}
}

func (m Model) selectedID() string {
	if len(m.order) == 0 || m.cursor >= len(m.order) {
		return ""
	}
	return m.order[m.cursor]
}
