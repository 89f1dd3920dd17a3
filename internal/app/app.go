package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"beacon-radar.klederson.com/internal/bluetooth"
	"beacon-radar.klederson.com/internal/config"
	"beacon-radar.klederson.com/internal/radar"
	"beacon-radar.klederson.com/internal/ui"
)

// Options configures a new AppModel.
type Options struct {
	Demo        bool
	Adapter     string
	MaxRange    float64
	Calibration *config.Calibration
	Log         zerolog.Logger
}

// shared holds state shared between the Bubble Tea model copies and main.go.
// Because Bubble Tea uses value receivers, pointer fields ensure all copies
// see the same underlying data.
type shared struct {
	store       *bluetooth.BeaconStore
	sweep       *radar.Sweep
	bleScanner  *bluetooth.BLEScanner
	mockScanner *bluetooth.MockScanner
}

// AppModel is the root Bubble Tea model for the beacon radar.
type AppModel struct {
	width  int
	height int

	scanning bool
	demoMode bool
	adapter  string
	maxRange float64
	cursor   int
	detail   bool

	// Key of the beacon under the cursor. The snapshot is re-ranked on
	// every tick, so the cursor index is re-resolved from it.
	selKey string

	// Set once the BLE scan has died. Scanning stays off until restart.
	scanErr error

	cal    *config.Calibration
	log    zerolog.Logger
	shared *shared

	// Cached snapshot, nearest first
	beacons []*bluetooth.Beacon
}

// New creates a new AppModel.
func New(opts Options) AppModel {
	if opts.Calibration == nil {
		opts.Calibration = config.DefaultCalibration()
	}
	if opts.MaxRange <= 0 {
		opts.MaxRange = config.MaxRange
	}
	return AppModel{
		scanning: true,
		demoMode: opts.Demo,
		adapter:  opts.Adapter,
		maxRange: opts.MaxRange,
		cal:      opts.Calibration,
		log:      opts.Log,
		shared: &shared{
			store: bluetooth.NewBeaconStore(),
			sweep: radar.NewSweep(time.Now()),
		},
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		evictCmd(),
	)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		m.shared.sweep.Update(time.Time(msg))
		m.refresh()
		return m, tickCmd()

	case EvictMsg:
		if n := m.shared.store.Evict(config.BeaconTimeout); n > 0 {
			m.log.Debug().Int("evicted", n).Msg("beacons timed out")
		}
		m.refresh()
		return m, evictCmd()

	case bluetooth.AdvertisementMsg:
		if m.scanning {
			m.observe(msg)
		}
		return m, nil

	case bluetooth.ScanErrorMsg:
		m.log.Error().Err(msg.Err).Msg("scanner failed")
		m.scanning = false
		m.scanErr = msg.Err
		return m, nil
	}

	return m, nil
}

// observe decodes one advertisement and files it in the store. Frames that
// are not iBeacon frames are expected during a scan and only logged.
func (m AppModel) observe(msg bluetooth.AdvertisementMsg) {
	rec, ok := bluetooth.Assemble(msg, m.cal)
	if !ok {
		m.log.Debug().Str("mac", msg.MAC).Uint16("company", msg.CompanyID).Msg("not an iBeacon frame")
		return
	}
	if m.shared.store.Upsert(msg.MAC, rec) {
		id, _ := rec.Identity()
		m.log.Info().
			Str("uuid", id.UUID).
			Uint16("major", id.Major).
			Uint16("minor", id.Minor).
			Int8("tx_power", rec.MeasuredPower()).
			Msg("new beacon")
	}
}

func (m *AppModel) refresh() {
	m.beacons = m.shared.store.Snapshot()
	found := false
	for i, b := range m.beacons {
		if b.Key == m.selKey {
			m.cursor, found = i, true
			break
		}
	}
	if m.selKey != "" && !found {
		// The selected beacon was evicted; don't show a neighbour's detail.
		m.detail = false
	}
	if m.cursor >= len(m.beacons) {
		m.cursor = len(m.beacons) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if len(m.beacons) == 0 {
		m.detail = false
	}
	m.selKey = ""
	if b := m.selected(); b != nil {
		m.selKey = b.Key
	}
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		m.stopScanners()
		return m, tea.Quit

	case "s", "S":
		if m.scanErr != nil {
			m.log.Warn().Err(m.scanErr).Msg("scan failed earlier; restart to scan again")
			break
		}
		m.scanning = true

	case "p", "P":
		m.scanning = false

	case "enter":
		m.detail = len(m.beacons) > 0

	case "esc":
		m.detail = false

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.beacons)-1 {
			m.cursor++
		}

	case "home":
		m.cursor = 0

	case "end":
		if len(m.beacons) > 0 {
			m.cursor = len(m.beacons) - 1
		}
	}

	if b := m.selected(); b != nil {
		m.selKey = b.Key
	}
	return m, nil
}

func (m AppModel) selected() *bluetooth.Beacon {
	if m.cursor < 0 || m.cursor >= len(m.beacons) {
		return nil
	}
	return m.beacons[m.cursor]
}

func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing beacon radar..."
	}

	bodyH := m.height - 2 // menu + status
	if bodyH < 5 {
		bodyH = 5
	}

	radarW := m.width * 2 / 3
	if radarW < 30 {
		radarW = 30
	}
	listW := m.width - radarW
	if listW < 24 {
		listW = 24
		radarW = m.width - listW
	}

	source := m.adapter
	if m.demoMode {
		source = "demo"
	}
	menuBar := ui.RenderMenuBar(m.width, source, m.scanning)

	var left string
	sel := m.selected()
	if m.detail && sel != nil {
		left = ui.RenderDetailPanel(sel, radarW, bodyH, time.Now())
	} else {
		innerW := max(radarW-4, 5)
		innerH := max(bodyH-4, 3)
		selKey := ""
		if sel != nil {
			selKey = sel.Key
		}
		content := radar.Render(innerW, innerH, m.beacons, m.shared.sweep, m.maxRange, selKey)
		left = ui.RenderRadarPanel(radarW, bodyH, content, radar.RenderLegend(innerW))
	}

	list := ui.RenderBeaconList(m.beacons, listW, bodyH, m.cursor)

	statusBar := ui.RenderStatusBar(m.width, m.scanning, m.scanErr != nil, m.shared.store.Count(),
		m.shared.store.CountByProximity(), m.shared.sweep.Degrees(), m.maxRange)

	return ui.ComposeLayout(menuBar, left, list, statusBar)
}

// StartScanners initializes and starts scanners. Must be called before p.Run().
func (m *AppModel) StartScanners(p bluetooth.Sender) error {
	if m.demoMode {
		m.shared.mockScanner = bluetooth.NewMockScanner(m.log)
		return m.shared.mockScanner.Start(p)
	}

	m.shared.bleScanner = bluetooth.NewBLEScanner(m.log)
	return m.shared.bleScanner.Start(p)
}

func (m *AppModel) stopScanners() {
	if m.shared.mockScanner != nil {
		m.shared.mockScanner.Stop()
	}
	if m.shared.bleScanner != nil {
		m.shared.bleScanner.Stop()
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(config.TargetFPS), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func evictCmd() tea.Cmd {
	return tea.Tick(config.EvictInterval, func(t time.Time) tea.Msg {
		return EvictMsg(t)
	})
}
