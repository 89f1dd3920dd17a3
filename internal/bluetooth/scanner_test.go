package bluetooth

import (
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"tinygo.org/x/bluetooth"

	"beacon-radar.klederson.com/internal/ibeacon"
)

type fakePayload struct {
	name string
	raw  []byte
	mfr  []bluetooth.ManufacturerDataElement
}

func (p fakePayload) LocalName() string { return p.name }
func (p fakePayload) HasServiceUUID(bluetooth.UUID) bool { return false }
func (p fakePayload) ServiceUUIDs() []bluetooth.UUID { return nil }
func (p fakePayload) Bytes() []byte { return p.raw }
func (p fakePayload) ManufacturerData() []bluetooth.ManufacturerDataElement { return p.mfr }
func (p fakePayload) ServiceData() []bluetooth.ServiceDataElement { return nil }

func testFrame(t *testing.T) []byte {
	t.Helper()
	frame, err := ibeacon.Encode(ibeacon.Identity{UUID: "B9407F30-F5F8-466E-AFF9-25556B57FE6D", Major: 4, Minor: 7}, -60)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return frame
}

func TestAdvertisementFromResult(t *testing.T) {
	frame := testFrame(t)
	payload := append([]byte(nil), frame[7:30]...) // company ID stripped by the platform

	tests := []struct {
		name   string
		result bluetooth.ScanResult
		want   bool
	}{
		{"raw bytes", bluetooth.ScanResult{RSSI: -61, AdvertisementPayload: fakePayload{raw: frame}}, true},
		{"manufacturer data", bluetooth.ScanResult{RSSI: -61, AdvertisementPayload: fakePayload{
			mfr: []bluetooth.ManufacturerDataElement{
				{CompanyID: 0x0006, Data: []byte{0x01, 0x09}},
				{CompanyID: ibeacon.AppleCompanyID, Data: payload},
			},
		}}, true},
		{"foreign only", bluetooth.ScanResult{RSSI: -61, AdvertisementPayload: fakePayload{
			mfr: []bluetooth.ManufacturerDataElement{{CompanyID: 0x0006, Data: []byte{0x01, 0x09}}},
		}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, ok := advertisementFromResult(tt.result)
			if ok != tt.want {
				t.Fatalf("ok: got %v, want %v", ok, tt.want)
			}
			if !ok {
				return
			}
			id, decoded := ibeacon.Decode(msg.Frame)
			if !decoded || id.Major != 4 || id.Minor != 7 {
				t.Errorf("decode: got %v %v", id, decoded)
			}
			if msg.RSSI != -61 || msg.CompanyID != ibeacon.AppleCompanyID || !msg.HasCompanyID {
				t.Errorf("message fields: %+v", msg)
			}
		})
	}
}

func TestBLEScanner_DropsResultsAfterStop(t *testing.T) {
	sender := &recordingSender{}
	s := &BLEScanner{program: sender, log: zerolog.Nop()}
	s.running.Store(true)

	result := bluetooth.ScanResult{RSSI: -50, AdvertisementPayload: fakePayload{raw: testFrame(t)}}

	// The adapter calls back on its own goroutine while the UI stops the scan.
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			s.handle(result)
		}
	}()
	s.running.Store(false)
	wg.Wait()

	sender.mu.Lock()
	before := len(sender.msgs)
	sender.mu.Unlock()

	s.handle(result)
	if len(sender.msgs) != before {
		t.Errorf("result delivered after stop: %d messages, want %d", len(sender.msgs), before)
	}
}
