package bluetooth

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"beacon-radar.klederson.com/internal/config"
	"beacon-radar.klederson.com/internal/ibeacon"
)

// Well-known vendor UUIDs used by the demo.
var demoUUIDs = []string{
	"B9407F30-F5F8-466E-AFF9-25556B57FE6D", // Estimote
	"F7826DA6-4FA2-4E98-8024-BC5B71E0893E", // Kontakt.io
	"2F234454-CF6D-4A0F-ADF2-F4911BA9FFA6", // Radius Networks
	"E2C56DB5-DFFB-48D2-B060-D0F5A71096E0", // AirLocate
}

var demoNames = []string{
	"Lobby", "Gate 12", "Cafe", "Exhibit A", "Elevator",
	"Room 204", "Loading Dock", "Reception", "Library", "Parking B2",
}

type mockBeacon struct {
	mac       string
	name      string
	frame     []byte
	baseRSSI  float64
	phase     float64
	amplitude float64
	active    bool
}

// MockScanner emits iBeacon frames for demo mode, with a few foreign
// advertisements mixed in.
type MockScanner struct {
	program Sender
	beacons []mockBeacon
	rng     *rand.Rand
	log     zerolog.Logger
	cancel  context.CancelFunc
}

// NewMockScanner creates a mock scanner with random demo beacons.
func NewMockScanner(log zerolog.Logger) *MockScanner {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	n := config.DemoBeaconMin + rng.Intn(config.DemoBeaconMax-config.DemoBeaconMin+1)

	names := rng.Perm(len(demoNames))
	beacons := make([]mockBeacon, 0, n)
	for i := 0; i < n; i++ {
		id := ibeacon.Identity{
			UUID:  demoUUIDs[rng.Intn(len(demoUUIDs))],
			Major: uint16(1 + rng.Intn(10)),
			Minor: uint16(rng.Intn(65536)),
		}
		power := int8(-55 - rng.Intn(10))
		frame, err := ibeacon.Encode(id, power)
		if err != nil {
			log.Error().Err(err).Str("uuid", id.UUID).Msg("demo beacon")
			continue
		}

		name := ""
		if i < len(names) && rng.Float64() < 0.7 {
			name = demoNames[names[i]]
		}
		beacons = append(beacons, mockBeacon{
			mac:       randomMAC(rng),
			name:      name,
			frame:     frame,
			baseRSSI:  -35 - rng.Float64()*55, // -35 to -90 dBm
			phase:     rng.Float64() * 2 * math.Pi,
			amplitude: 2 + rng.Float64()*6,
			active:    true,
		})
	}

	return &MockScanner{
		beacons: beacons,
		rng:     rng,
		log:     log.With().Str("scanner", "mock").Logger(),
	}
}

// Start begins the mock scanner.
func (s *MockScanner) Start(p Sender) error {
	s.program = p

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	go s.loop(ctx)
	s.log.Info().Int("beacons", len(s.beacons)).Msg("demo scanning")
	return nil
}

func (s *MockScanner) loop(ctx context.Context) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	t := 0.0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t += 0.2
			s.emit(t)
		}
	}
}

func (s *MockScanner) emit(t float64) {
	now := time.Now()
	for i := range s.beacons {
		b := &s.beacons[i]

		// Beacons occasionally go silent and come back
		if s.rng.Float64() < 0.005 {
			b.active = !b.active
		}
		if !b.active {
			continue
		}

		rssi := b.baseRSSI + b.amplitude*math.Sin(t*0.5+b.phase) + (s.rng.Float64()-0.5)*4
		reading := int16(math.Round(rssi))
		if reading == 0 || s.rng.Float64() < 0.02 {
			reading = 0 // no reading this time
		}

		s.send(AdvertisementMsg{
			MAC:          b.mac,
			Name:         b.name,
			RSSI:         reading,
			CompanyID:    ibeacon.AppleCompanyID,
			HasCompanyID: true,
			Frame:        b.frame,
			Seen:         now,
		})
	}

	// Something that is not a beacon, the way a real scan looks
	if s.rng.Float64() < 0.3 {
		s.send(AdvertisementMsg{
			MAC:          randomMAC(s.rng),
			RSSI:         int16(-60 - s.rng.Intn(30)),
			CompanyID:    0x0006,
			HasCompanyID: true,
			Frame:        ibeacon.FromManufacturerData(0x0006, []byte{0x01, 0x09, 0x20, 0x02}),
			Seen:         now,
		})
	}
}

func (s *MockScanner) send(msg AdvertisementMsg) {
	if s.program != nil {
		s.program.Send(msg)
	}
}

// Stop halts the mock scanner.
func (s *MockScanner) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

func randomMAC(rng *rand.Rand) string {
	b := make([]byte, 6)
	for i := range b {
		b[i] = byte(rng.Intn(256))
	}
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X", b[0], b[1], b[2], b[3], b[4], b[5])
}
