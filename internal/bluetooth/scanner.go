package bluetooth

import (
	"fmt"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"tinygo.org/x/bluetooth"

	"beacon-radar.klederson.com/internal/ibeacon"
)

// AdvertisementMsg is sent via tea.Program.Send for every advertisement
// that might carry a beacon frame. Frame is the full advertisement record.
type AdvertisementMsg struct {
	MAC          string
	Name         string
	RSSI         int16
	CompanyID    uint16
	HasCompanyID bool
	Frame        []byte
	Seen         time.Time
}

// ScanErrorMsg reports a scan that stopped on its own.
type ScanErrorMsg struct {
	Err error
}

// Sender is the part of tea.Program the scanners need.
type Sender interface {
	Send(msg tea.Msg)
}

// BLEScanner handles Bluetooth Low Energy scanning.
type BLEScanner struct {
	adapter *bluetooth.Adapter
	program Sender
	log     zerolog.Logger
	running atomic.Bool
}

// NewBLEScanner creates a scanner on the default adapter.
func NewBLEScanner(log zerolog.Logger) *BLEScanner {
	return &BLEScanner{
		adapter: bluetooth.DefaultAdapter,
		log:     log.With().Str("scanner", "ble").Logger(),
	}
}

// Start begins BLE scanning in a goroutine. Advertisements are sent as tea
// messages via program.Send().
func (s *BLEScanner) Start(p Sender) error {
	s.program = p

	if err := s.adapter.Enable(); err != nil {
		return fmt.Errorf("failed to enable BLE adapter: %w (try running with sudo or setcap cap_net_admin+ep)", err)
	}

	s.running.Store(true)
	go func() {
		err := s.adapter.Scan(func(_ *bluetooth.Adapter, result bluetooth.ScanResult) {
			s.handle(result)
		})
		if err != nil && s.program != nil {
			s.program.Send(ScanErrorMsg{Err: fmt.Errorf("ble scan: %w", err)})
		}
	}()

	s.log.Info().Msg("scanning")
	return nil
}

// handle runs on the adapter's callback goroutine. Results arriving after
// Stop are dropped.
func (s *BLEScanner) handle(result bluetooth.ScanResult) {
	if !s.running.Load() {
		return
	}
	msg, ok := advertisementFromResult(result)
	if !ok {
		return
	}
	if s.program != nil {
		s.program.Send(msg)
	}
}

// advertisementFromResult prefers the raw advertisement when the platform
// exposes it, otherwise rebuilds the record from the manufacturer data.
func advertisementFromResult(result bluetooth.ScanResult) (AdvertisementMsg, bool) {
	msg := AdvertisementMsg{
		MAC:  result.Address.String(),
		Name: result.LocalName(),
		RSSI: result.RSSI,
		Seen: time.Now(),
	}

	if raw := result.Bytes(); ibeacon.IsFrame(raw) {
		msg.Frame = raw
		msg.CompanyID, msg.HasCompanyID = ibeacon.AppleCompanyID, true
		return msg, true
	}

	for _, m := range result.ManufacturerData() {
		if m.CompanyID != ibeacon.AppleCompanyID {
			continue
		}
		msg.Frame = ibeacon.FromManufacturerData(m.CompanyID, m.Data)
		msg.CompanyID, msg.HasCompanyID = m.CompanyID, true
		return msg, true
	}
	return msg, false
}

// Stop halts the BLE scanner.
func (s *BLEScanner) Stop() {
	s.running.Store(false)
	_ = s.adapter.StopScan()
}
