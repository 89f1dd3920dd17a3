package bluetooth

import (
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"beacon-radar.klederson.com/internal/config"
	"beacon-radar.klederson.com/internal/ibeacon"
)

func TestAssemble(t *testing.T) {
	id := ibeacon.Identity{UUID: storeUUID, Major: 7, Minor: 8}
	frame, err := ibeacon.Encode(id, -63)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	seen := time.Unix(1700000000, 0)

	rec, ok := Assemble(AdvertisementMsg{
		MAC:          "AA:BB:CC:DD:EE:FF",
		Name:         "desk",
		RSSI:         -70,
		CompanyID:    ibeacon.AppleCompanyID,
		HasCompanyID: true,
		Frame:        frame,
		Seen:         seen,
	}, nil)
	if !ok {
		t.Fatal("expected a record")
	}

	got, _ := rec.Identity()
	if got != id {
		t.Errorf("identity: got %v, want %v", got, id)
	}
	if rec.MeasuredPower() != -63 {
		t.Errorf("MeasuredPower: got %d, want advertised -63", rec.MeasuredPower())
	}
	if rec.ManufacturerID() != 0x004C {
		t.Errorf("ManufacturerID: got %d, want 76", rec.ManufacturerID())
	}
	if rec.Name() != "desk" || !rec.Timestamp().Equal(seen) {
		t.Errorf("pass-through: got %q %v", rec.Name(), rec.Timestamp())
	}
}

func TestAssemble_CalibrationOverrides(t *testing.T) {
	cal, err := config.ParseCalibration([]byte(`
[[beacon]]
uuid = "` + storeUUID + `"
measured_power = -50
label = "Front door"
`))
	if err != nil {
		t.Fatalf("calibration: %v", err)
	}
	frame, _ := ibeacon.Encode(ibeacon.Identity{UUID: storeUUID, Major: 1, Minor: 1}, -63)

	rec, ok := Assemble(AdvertisementMsg{Name: "ignored", RSSI: -60, Frame: frame}, cal)
	if !ok {
		t.Fatal("expected a record")
	}
	if rec.MeasuredPower() != -50 {
		t.Errorf("MeasuredPower: got %d, want -50", rec.MeasuredPower())
	}
	if rec.Name() != "Front door" {
		t.Errorf("Name: got %q, want calibration label", rec.Name())
	}
	if rec.ManufacturerID() != ibeacon.UnknownManufacturer {
		t.Errorf("ManufacturerID: got %d, want -1", rec.ManufacturerID())
	}
}

func TestAssemble_NotABeacon(t *testing.T) {
	msg := AdvertisementMsg{
		RSSI:  -60,
		Frame: ibeacon.FromManufacturerData(0x0006, []byte{0x01, 0x09, 0x20}),
	}
	if _, ok := Assemble(msg, nil); ok {
		t.Error("expected no record")
	}
	if _, ok := Assemble(AdvertisementMsg{}, nil); ok {
		t.Error("expected no record for an empty frame")
	}
}

func TestManufacturerName(t *testing.T) {
	tests := map[int]string{
		-1:     "unknown",
		0x004C: "Apple",
		0x015D: "Estimote",
		0x1234: "0x1234",
	}
	for id, want := range tests {
		if got := ManufacturerName(id); got != want {
			t.Errorf("ManufacturerName(%d): got %q, want %q", id, got, want)
		}
	}
}

func TestRSSIRing(t *testing.T) {
	r := NewRSSIRing(3)
	if r.Values() != nil || r.Last() != 0 || r.Len() != 0 {
		t.Fatal("new ring not empty")
	}
	for _, v := range []float64{-50, -51, -52, -53} {
		r.Push(v)
	}
	got := r.Values()
	want := []float64{-51, -52, -53}
	if len(got) != len(want) {
		t.Fatalf("Values: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Values[%d]: got %v, want %v", i, got[i], want[i])
		}
	}
	if r.Last() != -53 {
		t.Errorf("Last: got %v, want -53", r.Last())
	}
}

type recordingSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (r *recordingSender) Send(msg tea.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func TestMockScanner_EmitsDecodableFrames(t *testing.T) {
	s := NewMockScanner(zerolog.Nop())
	if n := len(s.beacons); n < config.DemoBeaconMin || n > config.DemoBeaconMax {
		t.Fatalf("beacons: got %d, want %d-%d", n, config.DemoBeaconMin, config.DemoBeaconMax)
	}

	sender := &recordingSender{}
	s.program = sender
	for i := 0; i < 5; i++ {
		s.emit(float64(i) * 0.2)
	}

	store := NewBeaconStore()
	beacons := 0
	for _, m := range sender.msgs {
		msg, ok := m.(AdvertisementMsg)
		if !ok {
			t.Fatalf("unexpected message %T", m)
		}
		if rec, ok := Assemble(msg, nil); ok {
			beacons++
			store.Upsert(msg.MAC, rec)
		}
	}
	if beacons == 0 {
		t.Fatal("no beacon frames decoded")
	}
	if store.Count() == 0 || store.Count() > len(s.beacons) {
		t.Errorf("store count: got %d, want 1-%d", store.Count(), len(s.beacons))
	}
}
