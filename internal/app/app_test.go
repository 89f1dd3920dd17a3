package app

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"beacon-radar.klederson.com/internal/bluetooth"
	"beacon-radar.klederson.com/internal/ibeacon"
)

func advertisement(t *testing.T, minor uint16, rssi int16) bluetooth.AdvertisementMsg {
	t.Helper()
	frame, err := ibeacon.Encode(ibeacon.Identity{
		UUID:  "B9407F30-F5F8-466E-AFF9-25556B57FE6D",
		Major: 3,
		Minor: minor,
	}, -59)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return bluetooth.AdvertisementMsg{
		MAC:          "AA:BB:CC:DD:EE:01",
		RSSI:         rssi,
		CompanyID:    ibeacon.AppleCompanyID,
		HasCompanyID: true,
		Frame:        frame,
		Seen:         time.Now(),
	}
}

func step(t *testing.T, m AppModel, msg tea.Msg) AppModel {
	t.Helper()
	next, _ := m.Update(msg)
	am, ok := next.(AppModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return am
}

func TestUpdate_TracksBeaconsNearestFirst(t *testing.T) {
	m := New(Options{Demo: true, Log: zerolog.Nop()})

	m = step(t, m, advertisement(t, 1, -80))
	m = step(t, m, advertisement(t, 2, -45))
	m = step(t, m, bluetooth.AdvertisementMsg{
		MAC:   "AA:BB:CC:DD:EE:02",
		RSSI:  -50,
		Frame: ibeacon.FromManufacturerData(0x0006, []byte{0x01, 0x09}),
	})
	m = step(t, m, TickMsg(time.Now()))

	if len(m.beacons) != 2 {
		t.Fatalf("beacons: got %d, want 2", len(m.beacons))
	}
	if m.beacons[0].Identity().Minor != 2 {
		t.Errorf("nearest beacon: got minor %d, want 2", m.beacons[0].Identity().Minor)
	}
}

func TestUpdate_PauseIgnoresAdvertisements(t *testing.T) {
	m := New(Options{Log: zerolog.Nop()})
	m = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	m = step(t, m, advertisement(t, 1, -60))
	m = step(t, m, TickMsg(time.Now()))

	if len(m.beacons) != 0 {
		t.Errorf("beacons while paused: got %d, want 0", len(m.beacons))
	}

	m = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m = step(t, m, advertisement(t, 1, -60))
	m = step(t, m, TickMsg(time.Now()))
	if len(m.beacons) != 1 {
		t.Errorf("beacons after resume: got %d, want 1", len(m.beacons))
	}
}

func TestUpdate_CursorAndDetail(t *testing.T) {
	m := New(Options{Log: zerolog.Nop()})
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.detail {
		t.Error("detail opened with no beacons")
	}

	m = step(t, m, advertisement(t, 1, -50))
	m = step(t, m, advertisement(t, 2, -70))
	m = step(t, m, TickMsg(time.Now()))

	m = step(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = step(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 1 {
		t.Errorf("cursor: got %d, want 1", m.cursor)
	}
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.detail {
		t.Fatal("detail not opened")
	}

	m = step(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if view := m.View(); !strings.Contains(view, "BEACON DETAIL") {
		t.Error("detail view not rendered")
	}

	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.detail {
		t.Error("detail not closed")
	}
	if view := m.View(); !strings.Contains(view, "BEACONS [2]") {
		t.Error("beacon list not rendered")
	}
}

func TestView_BeforeResize(t *testing.T) {
	m := New(Options{Log: zerolog.Nop()})
	if !strings.Contains(m.View(), "Initializing") {
		t.Error("expected placeholder view")
	}
}

func TestUpdate_ScanErrorBlocksResume(t *testing.T) {
	m := New(Options{Log: zerolog.Nop()})
	m = step(t, m, bluetooth.ScanErrorMsg{Err: errors.New("adapter gone")})
	if m.scanning {
		t.Error("still scanning after scan error")
	}

	m = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	if m.scanning {
		t.Error("resumed a failed scan")
	}

	m = step(t, m, tea.WindowSizeMsg{Width: 160, Height: 40})
	if !strings.Contains(m.View(), "SCAN FAILED") {
		t.Error("failed state not shown")
	}
}

func TestUpdate_SelectionFollowsBeaconAcrossReorder(t *testing.T) {
	m := New(Options{Log: zerolog.Nop()})
	m = step(t, m, advertisement(t, 1, -50))
	m = step(t, m, TickMsg(time.Now()))
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if sel := m.selected(); sel == nil || sel.Identity().Minor != 1 {
		t.Fatalf("selected: got %v, want minor 1", sel)
	}

	// A closer beacon takes the top slot.
	m = step(t, m, advertisement(t, 2, -35))
	m = step(t, m, TickMsg(time.Now()))
	if m.beacons[0].Identity().Minor != 2 {
		t.Fatalf("ranking: got minor %d first, want 2", m.beacons[0].Identity().Minor)
	}

	if !m.detail {
		t.Fatal("detail closed by reorder")
	}
	if sel := m.selected(); sel == nil || sel.Identity().Minor != 1 {
		t.Errorf("selected after reorder: got %v, want minor 1", sel)
	}
	if m.cursor != 1 {
		t.Errorf("cursor: got %d, want 1", m.cursor)
	}
}

func TestUpdate_EvictedSelectionClosesDetail(t *testing.T) {
	m := New(Options{Log: zerolog.Nop()})
	stale := advertisement(t, 1, -40)
	stale.Seen = time.Now().Add(-time.Minute)
	m = step(t, m, stale)
	m = step(t, m, advertisement(t, 2, -60))
	m = step(t, m, TickMsg(time.Now()))
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if sel := m.selected(); sel == nil || sel.Identity().Minor != 1 {
		t.Fatalf("selected: got %v, want minor 1", sel)
	}

	m = step(t, m, EvictMsg(time.Now()))
	if len(m.beacons) != 1 {
		t.Fatalf("beacons after evict: got %d, want 1", len(m.beacons))
	}
	if m.detail {
		t.Error("detail still open after its beacon was evicted")
	}
}
